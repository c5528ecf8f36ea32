package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	GoalStatusActive    = "active"
	GoalStatusOverdue   = "overdue"
	GoalStatusCompleted = "completed"
)

type Goal struct {
	ID            int             `json:"id" db:"id"`
	UserID        int             `json:"user_id" db:"user_id"`
	Name          string          `json:"name" db:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount" db:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount" db:"current_amount"`
	Deadline      *time.Time      `json:"deadline" db:"deadline"`
	Description   string          `json:"description" db:"description"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`

	// Производные поля, не хранятся в базе
	ProgressPercentage decimal.Decimal `json:"progress_percentage"`
	RemainingAmount    decimal.Decimal `json:"remaining_amount"`
	CalculatedStatus   string          `json:"calculated_status"`

	Contributions []Contribution `json:"contributions,omitempty"`
}

type Contribution struct {
	ID               int             `json:"id" db:"id"`
	GoalID           int             `json:"goal_id" db:"goal_id"`
	UserID           int             `json:"user_id" db:"user_id"`
	Amount           decimal.Decimal `json:"amount" db:"amount"`
	ContributionDate time.Time       `json:"contribution_date" db:"contribution_date"`
	Note             string          `json:"note" db:"note"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}

// Derive заполняет производные поля цели: процент прогресса, остаток
// и вычисляемый статус. Статус никогда не хранится, он всегда считается
// от сумм и дедлайна на момент чтения.
func (g *Goal) Derive(today time.Time) {
	hundred := decimal.NewFromInt(100)
	if g.TargetAmount.IsPositive() {
		g.ProgressPercentage = g.CurrentAmount.Div(g.TargetAmount).Mul(hundred).Round(2)
	} else {
		g.ProgressPercentage = decimal.Zero
	}
	g.RemainingAmount = g.TargetAmount.Sub(g.CurrentAmount)

	day := today.Truncate(24 * time.Hour)
	switch {
	case g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount):
		g.CalculatedStatus = GoalStatusCompleted
	case g.Deadline != nil && g.Deadline.Before(day):
		g.CalculatedStatus = GoalStatusOverdue
	default:
		g.CalculatedStatus = GoalStatusActive
	}
}

func statusRank(status string) int {
	switch status {
	case GoalStatusActive:
		return 1
	case GoalStatusOverdue:
		return 2
	default:
		return 3
	}
}

// SortGoals упорядочивает цели для выдачи: сначала активные, потом
// просроченные, потом завершённые; внутри статуса цели без дедлайна идут
// последними, остальные — по возрастанию дедлайна.
func SortGoals(goals []Goal) {
	sort.SliceStable(goals, func(i, j int) bool {
		ri, rj := statusRank(goals[i].CalculatedStatus), statusRank(goals[j].CalculatedStatus)
		if ri != rj {
			return ri < rj
		}
		di, dj := goals[i].Deadline, goals[j].Deadline
		if di == nil {
			return false
		}
		if dj == nil {
			return true
		}
		return di.Before(*dj)
	})
}

// GoalsSummary — агрегированная статистика по всем целям пользователя
type GoalsSummary struct {
	TotalGoals     int             `json:"total_goals"`
	ActiveGoals    int             `json:"active_goals"`
	CompletedGoals int             `json:"completed_goals"`
	TotalTarget    decimal.Decimal `json:"total_target"`
	TotalSaved     decimal.Decimal `json:"total_saved"`
	TotalRemaining decimal.Decimal `json:"total_remaining"`
}
