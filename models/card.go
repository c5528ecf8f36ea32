package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CardTypeDebit  = "debit"
	CardTypeCredit = "credit"
)

type Card struct {
	ID        int             `json:"id" db:"id"`
	UserID    int             `json:"user_id" db:"user_id"`
	CardName  string          `json:"card_name" db:"card_name"`
	CardType  string          `json:"card_type" db:"card_type"`
	BankName  string          `json:"bank_name" db:"bank_name"`
	Balance   decimal.Decimal `json:"balance" db:"balance"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// ValidCardType проверяет, что тип карты входит в допустимый список
func ValidCardType(cardType string) bool {
	return cardType == CardTypeDebit || cardType == CardTypeCredit
}
