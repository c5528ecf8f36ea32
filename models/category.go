package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultCategoryIcon  = "📌"
	DefaultCategoryColor = "#A29BFE"
)

type Category struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Icon      string    `json:"icon" db:"icon"`
	Color     string    `json:"color" db:"color"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CategoryUsage — статистика использования категории в транзакциях.
// Связь по имени, а не по внешнему ключу, поэтому подсчёт идёт строковым JOIN.
type CategoryUsage struct {
	ID               int             `json:"id"`
	Name             string          `json:"name"`
	Icon             string          `json:"icon"`
	Color            string          `json:"color"`
	TransactionCount int             `json:"transaction_count"`
	TotalSpent       decimal.Decimal `json:"total_spent"`
}
