package database_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

func TestGoalCompletedNotification(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	goal := createTestGoal(t, pool, user.ID, 100, nil)

	if err := database.CreateGoalCompletedNotification(pool, user.ID, goal.ID, goal.Name); err != nil {
		t.Fatalf("ошибка создания уведомления: %v", err)
	}

	notifications, err := database.GetNotificationsByUserID(pool, user.ID)
	if err != nil {
		t.Fatalf("ошибка чтения уведомлений: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("уведомлений: получили %d, хотели 1", len(notifications))
	}
	if !strings.Contains(notifications[0].Message, goal.Name) {
		t.Errorf("сообщение не содержит название цели: %q", notifications[0].Message)
	}
	if notifications[0].IsRead {
		t.Error("новое уведомление должно быть непрочитанным")
	}
}

func TestMarkNotificationAsRead(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)

	notification := &models.Notification{
		UserID:  user.ID,
		Message: "тестовое уведомление",
	}
	if err := database.CreateNotification(pool, notification); err != nil {
		t.Fatalf("ошибка создания уведомления: %v", err)
	}

	count, err := database.CountUnreadNotifications(pool, user.ID)
	if err != nil {
		t.Fatalf("ошибка подсчета: %v", err)
	}
	if count != 1 {
		t.Errorf("непрочитанных: получили %d, хотели 1", count)
	}

	if err := database.MarkNotificationAsRead(pool, notification.ID, user.ID); err != nil {
		t.Fatalf("ошибка отметки прочитанным: %v", err)
	}
	count, err = database.CountUnreadNotifications(pool, user.ID)
	if err != nil {
		t.Fatalf("ошибка подсчета: %v", err)
	}
	if count != 0 {
		t.Errorf("непрочитанных после отметки: получили %d, хотели 0", count)
	}
}

func TestMarkNotificationForeignUser(t *testing.T) {
	pool := testPool(t)
	owner := createTestUser(t, pool)
	stranger := createTestUser(t, pool)

	notification := &models.Notification{
		UserID:  owner.ID,
		Message: "личное уведомление",
	}
	if err := database.CreateNotification(pool, notification); err != nil {
		t.Fatalf("ошибка создания уведомления: %v", err)
	}

	if err := database.MarkNotificationAsRead(pool, notification.ID, stranger.ID); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("чужое уведомление должно быть недоступно, получили: %v", err)
	}
}

func TestMarkAllNotificationsAsRead(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)

	for i := 0; i < 3; i++ {
		notification := &models.Notification{UserID: user.ID, Message: "уведомление"}
		if err := database.CreateNotification(pool, notification); err != nil {
			t.Fatalf("ошибка создания уведомления: %v", err)
		}
	}

	if err := database.MarkAllNotificationsAsRead(pool, user.ID); err != nil {
		t.Fatalf("ошибка массовой отметки: %v", err)
	}
	count, err := database.CountUnreadNotifications(pool, user.ID)
	if err != nil {
		t.Fatalf("ошибка подсчета: %v", err)
	}
	if count != 0 {
		t.Errorf("непрочитанных: получили %d, хотели 0", count)
	}
}

func TestNotifyOverdueGoals(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)

	past := time.Now().AddDate(0, 0, -5)
	goal := createTestGoal(t, pool, user.ID, 1000, &past)

	if err := database.NotifyOverdueGoals(pool); err != nil {
		t.Fatalf("ошибка проверки просроченных целей: %v", err)
	}

	notifications, err := database.GetNotificationsByUserID(pool, user.ID)
	if err != nil {
		t.Fatalf("ошибка чтения уведомлений: %v", err)
	}
	found := 0
	for _, n := range notifications {
		if n.GoalID != nil && *n.GoalID == goal.ID {
			found++
		}
	}
	if found != 1 {
		t.Fatalf("уведомлений о просрочке: получили %d, хотели 1", found)
	}

	// Повторный запуск не должен дублировать уведомление
	if err := database.NotifyOverdueGoals(pool); err != nil {
		t.Fatalf("ошибка повторной проверки: %v", err)
	}
	notifications, err = database.GetNotificationsByUserID(pool, user.ID)
	if err != nil {
		t.Fatalf("ошибка чтения уведомлений: %v", err)
	}
	found = 0
	for _, n := range notifications {
		if n.GoalID != nil && *n.GoalID == goal.ID {
			found++
		}
	}
	if found != 1 {
		t.Errorf("после повторного запуска: получили %d уведомлений, хотели 1", found)
	}
}
