package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

// CreateNotification добавляет уведомление пользователю
func CreateNotification(pool *pgxpool.Pool, notification *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, goal_id, message, is_read)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := pool.QueryRow(context.Background(), query,
		notification.UserID,
		notification.GoalID,
		notification.Message,
		notification.IsRead).Scan(&notification.ID, &notification.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении уведомления: %v", err)
	}
	return nil
}

// CreateGoalCompletedNotification записывает уведомление о закрытой цели.
// Вызывается обработчиком после фиксации взноса, вне транзакции движка:
// сбой здесь не откатывает сам взнос.
func CreateGoalCompletedNotification(pool *pgxpool.Pool, userID, goalID int, goalName string) error {
	notification := &models.Notification{
		UserID:  userID,
		GoalID:  &goalID,
		Message: fmt.Sprintf("🎉 Цель «%s» достигнута!", goalName),
	}
	return CreateNotification(pool, notification)
}

// CreateGoalOverdueNotification записывает уведомление о просроченной цели
func CreateGoalOverdueNotification(pool *pgxpool.Pool, userID, goalID int, goalName string) error {
	notification := &models.Notification{
		UserID:  userID,
		GoalID:  &goalID,
		Message: fmt.Sprintf("⏰ Срок цели «%s» истек, цель не достигнута", goalName),
	}
	return CreateNotification(pool, notification)
}

// GetNotificationsByUserID извлекает последние 50 уведомлений пользователя
func GetNotificationsByUserID(pool *pgxpool.Pool, userID int) ([]models.Notification, error) {
	query := `
		SELECT n.id, n.user_id, n.goal_id, n.message, n.is_read, n.created_at, sg.name
		FROM notifications n
		LEFT JOIN savings_goals sg ON n.goal_id = sg.id
		WHERE n.user_id = $1
		ORDER BY n.created_at DESC
		LIMIT 50`

	rows, err := pool.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении уведомлений: %v", err)
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.GoalID, &n.Message, &n.IsRead, &n.CreatedAt, &n.GoalName); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}

// MarkNotificationAsRead помечает уведомление пользователя прочитанным
func MarkNotificationAsRead(pool *pgxpool.Pool, notificationID, userID int) error {
	result, err := pool.Exec(context.Background(),
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`,
		notificationID, userID)
	if err != nil {
		return fmt.Errorf("ошибка пометки уведомления: %v", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllNotificationsAsRead помечает все уведомления пользователя прочитанными
func MarkAllNotificationsAsRead(pool *pgxpool.Pool, userID int) error {
	_, err := pool.Exec(context.Background(),
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("ошибка пометки уведомлений: %v", err)
	}
	return nil
}

// CountUnreadNotifications возвращает число непрочитанных уведомлений
func CountUnreadNotifications(pool *pgxpool.Pool, userID int) (int, error) {
	var count int
	err := pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчета уведомлений: %v", err)
	}
	return count, nil
}

// NotifyOverdueGoals находит цели с истекшим дедлайном без уведомления и
// создает по ним уведомления. Запускается ежедневной cron-задачей.
func NotifyOverdueGoals(pool *pgxpool.Pool) error {
	query := `
		SELECT sg.id, sg.user_id, sg.name
		FROM savings_goals sg
		WHERE sg.deadline IS NOT NULL
		  AND sg.deadline < CURRENT_DATE
		  AND sg.current_amount < sg.target_amount
		  AND NOT EXISTS (
			SELECT 1 FROM notifications n
			WHERE n.goal_id = sg.id AND n.message LIKE '⏰%'
		  )`

	rows, err := pool.Query(context.Background(), query)
	if err != nil {
		return fmt.Errorf("ошибка при поиске просроченных целей: %v", err)
	}
	defer rows.Close()

	type overdueGoal struct {
		id     int
		userID int
		name   string
	}
	var goals []overdueGoal
	for rows.Next() {
		var g overdueGoal
		if err := rows.Scan(&g.id, &g.userID, &g.name); err != nil {
			return err
		}
		goals = append(goals, g)
	}

	for _, g := range goals {
		if err := CreateGoalOverdueNotification(pool, g.userID, g.id, g.name); err != nil {
			return err
		}
	}
	return nil
}
