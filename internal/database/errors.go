package database

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Ошибки бизнес-правил. Обработчики по ним выбирают HTTP-статус, всё
// остальное считается внутренней ошибкой хранилища и наружу не уходит.
var (
	ErrNotFound      = errors.New("запись не найдена")
	ErrDuplicateName = errors.New("имя уже занято")
)

// InsufficientFundsError возвращается, когда на карте не хватает средств
// на расход. Несёт текущий баланс и требуемую сумму для ответа клиенту.
type InsufficientFundsError struct {
	CurrentBalance decimal.Decimal
	RequiredAmount decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("недостаточно средств на карте: баланс %s, требуется %s",
		e.CurrentBalance.StringFixed(2), e.RequiredAmount.StringFixed(2))
}

// ExceedsTargetError возвращается, когда взнос превышает остаток до цели.
// MaxAllowed — максимально допустимая сумма взноса.
type ExceedsTargetError struct {
	MaxAllowed decimal.Decimal
}

func (e *ExceedsTargetError) Error() string {
	return fmt.Sprintf("взнос превышает целевую сумму, максимум %s", e.MaxAllowed.StringFixed(2))
}

// HasDependentsError возвращается при попытке удалить категорию,
// на которую ещё ссылаются транзакции.
type HasDependentsError struct {
	Count int
}

func (e *HasDependentsError) Error() string {
	return fmt.Sprintf("категорию нельзя удалить: с ней связано транзакций — %d", e.Count)
}
