package models

import "time"

type Notification struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	GoalID    *int      `json:"goal_id" db:"goal_id"`
	Message   string    `json:"message" db:"message"`
	IsRead    bool      `json:"is_read" db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Имя цели из JOIN, только при чтении
	GoalName *string `json:"goal_name,omitempty" db:"goal_name"`
}
