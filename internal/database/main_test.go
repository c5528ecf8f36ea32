package database_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

// testPool подключается к тестовой БД и готовит схему
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if err := godotenv.Load("../../.env"); err != nil {
		t.Logf("файл .env не найден: %v", err)
	}
	pool, err := database.ConnectDB()
	if err != nil {
		t.Fatalf("ошибка подключения к БД: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := database.EnsureSchema(pool); err != nil {
		t.Fatalf("ошибка инициализации схемы: %v", err)
	}
	return pool
}

// createTestUser регистрирует пользователя с уникальным email
func createTestUser(t *testing.T, pool *pgxpool.Pool) *models.User {
	t.Helper()
	suffix := time.Now().UnixNano()
	user := &models.User{
		Username: fmt.Sprintf("user_%d", suffix),
		Email:    fmt.Sprintf("user_%d@test.local", suffix),
		Password: "secret123",
	}
	if err := database.RegisterUser(pool, user); err != nil {
		t.Fatalf("ошибка регистрации пользователя: %v", err)
	}
	return user
}

// createTestCard создает карту и пополняет ее до заданного баланса
func createTestCard(t *testing.T, pool *pgxpool.Pool, userID int, balance float64) *models.Card {
	t.Helper()
	card := &models.Card{
		UserID:   userID,
		CardName: fmt.Sprintf("card_%d", time.Now().UnixNano()),
		CardType: models.CardTypeDebit,
		BankName: "Тестовый банк",
	}
	if err := database.CreateCard(pool, card); err != nil {
		t.Fatalf("ошибка создания карты: %v", err)
	}
	if balance > 0 {
		amount := decimal.NewFromFloat(balance).Round(2)
		if err := database.AddCardBalance(pool, card.ID, userID, amount); err != nil {
			t.Fatalf("ошибка пополнения карты: %v", err)
		}
		card.Balance = amount
	}
	return card
}

// cardBalance возвращает актуальный баланс карты
func cardBalance(t *testing.T, pool *pgxpool.Pool, cardID, userID int) decimal.Decimal {
	t.Helper()
	card, err := database.GetCardByID(pool, cardID, userID)
	if err != nil {
		t.Fatalf("ошибка чтения карты: %v", err)
	}
	return card.Balance
}
