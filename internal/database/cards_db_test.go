package database_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
)

func TestCreateCardStartsWithZeroBalance(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	card := createTestCard(t, pool, user.ID, 0)

	saved, err := database.GetCardByID(pool, card.ID, user.ID)
	if err != nil {
		t.Fatalf("ошибка чтения карты: %v", err)
	}
	if !saved.Balance.IsZero() {
		t.Errorf("баланс новой карты: получили %s, хотели 0", saved.Balance)
	}
}

func TestAddCardBalance(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	card := createTestCard(t, pool, user.ID, 100)

	if err := database.AddCardBalance(pool, card.ID, user.ID, decimal.NewFromFloat(250.50)); err != nil {
		t.Fatalf("ошибка пополнения: %v", err)
	}
	balance := cardBalance(t, pool, card.ID, user.ID)
	if !balance.Equal(decimal.NewFromFloat(350.50)) {
		t.Errorf("баланс: получили %s, хотели 350.5", balance)
	}
}

func TestUpdateCardKeepsBalance(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	card := createTestCard(t, pool, user.ID, 500)

	card.CardName = "переименованная"
	card.BankName = "Другой банк"
	if err := database.UpdateCard(pool, card); err != nil {
		t.Fatalf("ошибка обновления карты: %v", err)
	}

	saved, err := database.GetCardByID(pool, card.ID, user.ID)
	if err != nil {
		t.Fatalf("ошибка чтения карты: %v", err)
	}
	if saved.CardName != "переименованная" {
		t.Errorf("название: получили %q", saved.CardName)
	}
	// Редактирование реквизитов не трогает баланс
	if !saved.Balance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("баланс: получили %s, хотели 500", saved.Balance)
	}
}

func TestDeleteCardKeepsTransactions(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	card := createTestCard(t, pool, user.ID, 200)

	expense := newExpense(user.ID, &card.ID, 50)
	if err := database.RecordExpense(pool, expense); err != nil {
		t.Fatalf("ошибка записи расхода: %v", err)
	}

	if err := database.DeleteCard(pool, card.ID, user.ID); err != nil {
		t.Fatalf("ошибка удаления карты: %v", err)
	}
	if _, err := database.GetCardByID(pool, card.ID, user.ID); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("карта должна быть удалена, получили: %v", err)
	}

	// Транзакция остается, ссылка на карту обнуляется
	saved, err := database.GetTransactionByID(pool, expense.ID, user.ID)
	if err != nil {
		t.Fatalf("ошибка чтения транзакции: %v", err)
	}
	if saved.CardID != nil {
		t.Errorf("card_id должен обнулиться, получили %v", *saved.CardID)
	}
}

func TestGetTotalBalance(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	createTestCard(t, pool, user.ID, 100)
	createTestCard(t, pool, user.ID, 250)

	total, err := database.GetTotalBalance(pool, user.ID)
	if err != nil {
		t.Fatalf("ошибка подсчета общего баланса: %v", err)
	}
	if !total.Equal(decimal.NewFromInt(350)) {
		t.Errorf("общий баланс: получили %s, хотели 350", total)
	}
}

func TestGetCardForeignUser(t *testing.T) {
	pool := testPool(t)
	owner := createTestUser(t, pool)
	stranger := createTestUser(t, pool)
	card := createTestCard(t, pool, owner.ID, 100)

	if _, err := database.GetCardByID(pool, card.ID, stranger.ID); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("чужая карта должна быть недоступна, получили: %v", err)
	}
}
