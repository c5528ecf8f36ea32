package database

import "github.com/shopspring/decimal"

// Допуски сравнения денежных сумм. Суммы приходят из JSON как числа с
// плавающей точкой, допуск 1e-6 гасит погрешность конвертации decimal↔float.
var (
	exceedEpsilon   = decimal.NewFromFloat(1e-6)
	completeEpsilon = decimal.NewFromFloat(1e-5)
)

// round2 округляет сумму до двух знаков (половина — вверх)
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// exceeds сообщает, превышает ли a значение b сверх допуска
func exceeds(a, b decimal.Decimal) bool {
	return a.Sub(b).GreaterThan(exceedEpsilon)
}

// reached сообщает, совпала ли сумма a с целевой b в пределах допуска
func reached(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(completeEpsilon)
}
