package models

import "time"

type User struct {
	ID        int       `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"password,omitempty" db:"password"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ProfileStats — сводная статистика по всем данным пользователя
type ProfileStats struct {
	TotalCards        int     `json:"total_cards"`
	TotalBalance      float64 `json:"total_balance"`
	TotalTransactions int     `json:"total_transactions"`
	TotalSpent        float64 `json:"total_spent"`
	TotalGoals        int     `json:"total_goals"`
	CompletedGoals    int     `json:"completed_goals"`
	TotalCategories   int     `json:"total_categories"`
}

// ActivityItem — элемент ленты последних действий пользователя
type ActivityItem struct {
	Type        string    `json:"type"`
	ID          int       `json:"id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}
