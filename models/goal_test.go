package models_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

func day(offset int) *time.Time {
	d := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	return &d
}

func TestGoalDerive(t *testing.T) {
	today := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		current       int64
		target        int64
		deadline      *time.Time
		wantStatus    string
		wantProgress  string
		wantRemaining string
	}{
		{"активная без дедлайна", 480, 500, nil, models.GoalStatusActive, "96", "20"},
		{"активная с будущим дедлайном", 100, 500, day(30), models.GoalStatusActive, "20", "400"},
		{"просроченная", 100, 500, day(-10), models.GoalStatusOverdue, "20", "400"},
		{"достигнутая", 500, 500, nil, models.GoalStatusCompleted, "100", "0"},
		{"достигнутая важнее просрочки", 500, 500, day(-10), models.GoalStatusCompleted, "100", "0"},
		{"дедлайн сегодня еще не просрочен", 100, 500, day(0), models.GoalStatusActive, "20", "400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goal := models.Goal{
				CurrentAmount: decimal.NewFromInt(tt.current),
				TargetAmount:  decimal.NewFromInt(tt.target),
				Deadline:      tt.deadline,
			}
			goal.Derive(today)

			if goal.CalculatedStatus != tt.wantStatus {
				t.Errorf("статус: получили %s, хотели %s", goal.CalculatedStatus, tt.wantStatus)
			}
			if !goal.ProgressPercentage.Equal(decimal.RequireFromString(tt.wantProgress)) {
				t.Errorf("прогресс: получили %s, хотели %s", goal.ProgressPercentage, tt.wantProgress)
			}
			if !goal.RemainingAmount.Equal(decimal.RequireFromString(tt.wantRemaining)) {
				t.Errorf("остаток: получили %s, хотели %s", goal.RemainingAmount, tt.wantRemaining)
			}
		})
	}
}

func TestGoalDeriveZeroTarget(t *testing.T) {
	goal := models.Goal{
		CurrentAmount: decimal.Zero,
		TargetAmount:  decimal.Zero,
	}
	goal.Derive(time.Now())
	if !goal.ProgressPercentage.IsZero() {
		t.Errorf("прогресс при нулевой цели: получили %s, хотели 0", goal.ProgressPercentage)
	}
}

func TestSortGoals(t *testing.T) {
	goals := []models.Goal{
		{ID: 1, CalculatedStatus: models.GoalStatusCompleted},
		{ID: 2, CalculatedStatus: models.GoalStatusActive, Deadline: day(20)},
		{ID: 3, CalculatedStatus: models.GoalStatusOverdue, Deadline: day(-5)},
		{ID: 4, CalculatedStatus: models.GoalStatusActive},
		{ID: 5, CalculatedStatus: models.GoalStatusActive, Deadline: day(5)},
	}

	models.SortGoals(goals)

	wantOrder := []int{5, 2, 4, 3, 1}
	for i, want := range wantOrder {
		if goals[i].ID != want {
			t.Errorf("позиция %d: получили id %d, хотели %d", i, goals[i].ID, want)
		}
	}
}
