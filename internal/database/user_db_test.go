package database_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)

	authenticated, err := database.AuthenticateUser(pool, user.Email, "secret123")
	if err != nil {
		t.Fatalf("ошибка аутентификации: %v", err)
	}
	if authenticated.ID != user.ID {
		t.Errorf("id пользователя: получили %d, хотели %d", authenticated.ID, user.ID)
	}
	if authenticated.Password != "" {
		t.Error("хеш пароля не должен возвращаться наружу")
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)

	if _, err := database.AuthenticateUser(pool, user.Email, "wrong_password"); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("неверный пароль должен давать отказ, получили: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)

	duplicate := &models.User{
		Username: fmt.Sprintf("other_%d", time.Now().UnixNano()),
		Email:    user.Email,
		Password: "secret123",
	}
	if err := database.RegisterUser(pool, duplicate); !errors.Is(err, database.ErrDuplicateName) {
		t.Errorf("ожидали ошибку занятого email, получили: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)

	if err := database.ChangeUserPassword(pool, user.ID, "wrong_password", "newsecret"); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("смена с неверным текущим паролем должна отклоняться, получили: %v", err)
	}

	if err := database.ChangeUserPassword(pool, user.ID, "secret123", "newsecret"); err != nil {
		t.Fatalf("ошибка смены пароля: %v", err)
	}
	if _, err := database.AuthenticateUser(pool, user.Email, "newsecret"); err != nil {
		t.Errorf("вход с новым паролем: %v", err)
	}
	if _, err := database.AuthenticateUser(pool, user.Email, "secret123"); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("старый пароль должен перестать работать, получили: %v", err)
	}
}

func TestDeleteAccountCascades(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	card := createTestCard(t, pool, user.ID, 100)
	expense := newExpense(user.ID, &card.ID, 30)
	if err := database.RecordExpense(pool, expense); err != nil {
		t.Fatalf("ошибка записи расхода: %v", err)
	}

	if err := database.DeleteUserAccount(pool, user.ID); err != nil {
		t.Fatalf("ошибка удаления аккаунта: %v", err)
	}
	if _, err := database.GetUserByID(pool, user.ID); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("пользователь должен быть удален, получили: %v", err)
	}
	if _, err := database.GetCardByID(pool, card.ID, user.ID); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("карты должны удаляться вместе с аккаунтом, получили: %v", err)
	}
}

func TestProfileStats(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	card := createTestCard(t, pool, user.ID, 1000)

	expense := newExpense(user.ID, &card.ID, 200)
	if err := database.RecordExpense(pool, expense); err != nil {
		t.Fatalf("ошибка записи расхода: %v", err)
	}
	createTestGoal(t, pool, user.ID, 500, nil)

	stats, err := database.GetProfileStats(pool, user.ID)
	if err != nil {
		t.Fatalf("ошибка статистики профиля: %v", err)
	}
	if stats.TotalCards != 1 {
		t.Errorf("карт: получили %d, хотели 1", stats.TotalCards)
	}
	if stats.TotalTransactions != 1 {
		t.Errorf("транзакций: получили %d, хотели 1", stats.TotalTransactions)
	}
	if stats.TotalGoals != 1 {
		t.Errorf("целей: получили %d, хотели 1", stats.TotalGoals)
	}
}
