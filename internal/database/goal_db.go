package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

// CreateGoal добавляет новую цель накоплений
func CreateGoal(pool *pgxpool.Pool, goal *models.Goal) error {
	query := `
		INSERT INTO savings_goals (user_id, name, target_amount, deadline, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, current_amount, created_at`
	err := pool.QueryRow(context.Background(), query,
		goal.UserID,
		goal.Name,
		goal.TargetAmount,
		goal.Deadline,
		goal.Description).Scan(&goal.ID, &goal.CurrentAmount, &goal.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении цели: %v", err)
	}
	return nil
}

// GetGoalByID извлекает цель пользователя вместе с историей взносов
func GetGoalByID(pool *pgxpool.Pool, goalID, userID int) (*models.Goal, error) {
	query := `
		SELECT id, user_id, name, target_amount, current_amount, deadline, description, created_at
		FROM savings_goals
		WHERE id = $1 AND user_id = $2`

	goal := &models.Goal{}
	err := pool.QueryRow(context.Background(), query, goalID, userID).Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Name,
		&goal.TargetAmount,
		&goal.CurrentAmount,
		&goal.Deadline,
		&goal.Description,
		&goal.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка при получении цели: %v", err)
	}
	goal.Derive(time.Now())

	contribQuery := `
		SELECT id, goal_id, user_id, amount, contribution_date, note, created_at
		FROM goal_contributions
		WHERE goal_id = $1
		ORDER BY contribution_date DESC, id DESC`
	rows, err := pool.Query(context.Background(), contribQuery, goalID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении взносов: %v", err)
	}
	defer rows.Close()

	goal.Contributions = []models.Contribution{}
	for rows.Next() {
		var c models.Contribution
		if err := rows.Scan(&c.ID, &c.GoalID, &c.UserID, &c.Amount, &c.ContributionDate, &c.Note, &c.CreatedAt); err != nil {
			return nil, err
		}
		goal.Contributions = append(goal.Contributions, c)
	}

	return goal, nil
}

// GetAllGoals извлекает все цели пользователя с производными полями.
// Порядок: активные, просроченные, завершённые; внутри статуса — по дедлайну.
func GetAllGoals(pool *pgxpool.Pool, userID int) ([]models.Goal, error) {
	query := `
		SELECT id, user_id, name, target_amount, current_amount, deadline, description, created_at
		FROM savings_goals
		WHERE user_id = $1`
	rows, err := pool.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении целей: %v", err)
	}
	defer rows.Close()

	now := time.Now()
	// пустой список должен уходить на клиент как [], а не null
	goals := []models.Goal{}
	for rows.Next() {
		var goal models.Goal
		if err := rows.Scan(&goal.ID, &goal.UserID, &goal.Name, &goal.TargetAmount,
			&goal.CurrentAmount, &goal.Deadline, &goal.Description, &goal.CreatedAt); err != nil {
			return nil, err
		}
		goal.Derive(now)
		goals = append(goals, goal)
	}

	models.SortGoals(goals)
	return goals, nil
}

// UpdateGoal обновляет название, целевую сумму, дедлайн и описание цели.
// Накопленная сумма этим путем не меняется — её двигают только взносы.
func UpdateGoal(pool *pgxpool.Pool, goal *models.Goal) error {
	query := `
		UPDATE savings_goals
		SET name = $1, target_amount = $2, deadline = $3, description = $4
		WHERE id = $5 AND user_id = $6`
	result, err := pool.Exec(context.Background(), query,
		goal.Name,
		goal.TargetAmount,
		goal.Deadline,
		goal.Description,
		goal.ID,
		goal.UserID)
	if err != nil {
		return fmt.Errorf("ошибка обновления цели: %v", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteGoal удаляет цель, взносы удаляются каскадом внешнего ключа
func DeleteGoal(pool *pgxpool.Pool, goalID, userID int) error {
	result, err := pool.Exec(context.Background(),
		`DELETE FROM savings_goals WHERE id = $1 AND user_id = $2`, goalID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления цели: %v", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ContributeToGoal записывает взнос в цель. Накопленная сумма никогда не
// превышает целевую: взнос сверх остатка отклоняется с максимально
// допустимой суммой. Вставка взноса и увеличение current_amount выполняются
// одной транзакцией, строка цели блокируется на время операции.
// Возвращает признак того, что цель этим взносом закрыта.
func ContributeToGoal(pool *pgxpool.Pool, contribution *models.Contribution) (completed bool, err error) {
	err = withTransaction(context.Background(), pool, func(tx pgx.Tx) error {
		var current, target decimal.Decimal
		err := tx.QueryRow(context.Background(),
			`SELECT current_amount, target_amount FROM savings_goals WHERE id = $1 AND user_id = $2 FOR UPDATE`,
			contribution.GoalID, contribution.UserID).Scan(&current, &target)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("ошибка при проверке цели: %v", err)
		}

		newTotal := round2(current.Add(contribution.Amount))
		if exceeds(newTotal, target) {
			return &ExceedsTargetError{MaxAllowed: round2(target.Sub(current))}
		}

		insertQuery := `
			INSERT INTO goal_contributions (goal_id, user_id, amount, contribution_date, note)
			VALUES ($1, $2, $3, CURRENT_DATE, $4)
			RETURNING id, contribution_date, created_at`
		err = tx.QueryRow(context.Background(), insertQuery,
			contribution.GoalID,
			contribution.UserID,
			contribution.Amount,
			contribution.Note).Scan(&contribution.ID, &contribution.ContributionDate, &contribution.CreatedAt)
		if err != nil {
			return fmt.Errorf("ошибка при записи взноса: %v", err)
		}

		_, err = tx.Exec(context.Background(),
			`UPDATE savings_goals SET current_amount = current_amount + $1 WHERE id = $2 AND user_id = $3`,
			contribution.Amount, contribution.GoalID, contribution.UserID)
		if err != nil {
			return fmt.Errorf("ошибка при обновлении цели: %v", err)
		}

		completed = reached(newTotal, target)
		return nil
	})
	if err != nil {
		return false, err
	}
	return completed, nil
}

// GetGoalsSummary возвращает сводку по всем целям пользователя
func GetGoalsSummary(pool *pgxpool.Pool, userID int) (*models.GoalsSummary, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE current_amount < target_amount),
			COUNT(*) FILTER (WHERE current_amount >= target_amount),
			COALESCE(SUM(target_amount), 0),
			COALESCE(SUM(current_amount), 0),
			COALESCE(SUM(target_amount - current_amount), 0)
		FROM savings_goals
		WHERE user_id = $1`

	summary := &models.GoalsSummary{}
	err := pool.QueryRow(context.Background(), query, userID).Scan(
		&summary.TotalGoals,
		&summary.ActiveGoals,
		&summary.CompletedGoals,
		&summary.TotalTarget,
		&summary.TotalSaved,
		&summary.TotalRemaining,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении сводки по целям: %v", err)
	}
	return summary, nil
}
