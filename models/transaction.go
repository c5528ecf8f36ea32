package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionTypeExpense = "expense"
	TransactionTypeIncome  = "income"
)

type Transaction struct {
	ID              int             `json:"id" db:"id"`
	UserID          int             `json:"user_id" db:"user_id"`
	CardID          *int            `json:"card_id" db:"card_id"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	Type            string          `json:"type" db:"type"`
	Category        string          `json:"category" db:"category"`
	Description     string          `json:"description" db:"description"`
	TransactionDate time.Time       `json:"transaction_date" db:"transaction_date"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`

	// Поля из JOIN с картами и категориями, заполняются только при чтении истории
	CardName *string `json:"card_name,omitempty" db:"card_name"`
	BankName *string `json:"bank_name,omitempty" db:"bank_name"`
	Icon     *string `json:"icon,omitempty" db:"icon"`
	Color    *string `json:"color,omitempty" db:"color"`
}

// TransactionFilter — параметры фильтрации истории расходов
type TransactionFilter struct {
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}
