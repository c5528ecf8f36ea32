package database_test

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

func newExpense(userID int, cardID *int, amount float64) *models.Transaction {
	return &models.Transaction{
		UserID:          userID,
		CardID:          cardID,
		Amount:          decimal.NewFromFloat(amount).Round(2),
		Type:            models.TransactionTypeExpense,
		Category:        "Питание",
		Description:     "тестовая покупка",
		TransactionDate: time.Now(),
	}
}

func TestRecordExpenseUpdatesBalance(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	card := createTestCard(t, pool, user.ID, 100)

	expense := newExpense(user.ID, &card.ID, 60)
	if err := database.RecordExpense(pool, expense); err != nil {
		t.Fatalf("ошибка записи расхода: %v", err)
	}
	if expense.ID == 0 {
		t.Fatal("id транзакции не заполнен после записи")
	}

	balance := cardBalance(t, pool, card.ID, user.ID)
	if !balance.Equal(decimal.NewFromInt(40)) {
		t.Errorf("баланс после расхода: получили %s, хотели 40", balance)
	}
}

func TestRecordExpenseInsufficientFunds(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	card := createTestCard(t, pool, user.ID, 30)

	expense := newExpense(user.ID, &card.ID, 50)
	err := database.RecordExpense(pool, expense)

	var insufficient *database.InsufficientFundsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("ожидали ошибку недостатка средств, получили: %v", err)
	}
	if !insufficient.CurrentBalance.Equal(decimal.NewFromInt(30)) {
		t.Errorf("currentBalance: получили %s, хотели 30", insufficient.CurrentBalance)
	}
	if !insufficient.RequiredAmount.Equal(decimal.NewFromInt(50)) {
		t.Errorf("requiredAmount: получили %s, хотели 50", insufficient.RequiredAmount)
	}

	// Отказ не должен оставить ни записи, ни списания
	balance := cardBalance(t, pool, card.ID, user.ID)
	if !balance.Equal(decimal.NewFromInt(30)) {
		t.Errorf("баланс после отказа: получили %s, хотели 30", balance)
	}
	transactions, err := database.GetTransactions(pool, user.ID, models.TransactionFilter{})
	if err != nil {
		t.Fatalf("ошибка чтения транзакций: %v", err)
	}
	if len(transactions) != 0 {
		t.Errorf("после отказа осталось %d транзакций", len(transactions))
	}
}

func TestRecordExpenseWithoutCard(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)

	expense := newExpense(user.ID, nil, 250)
	if err := database.RecordExpense(pool, expense); err != nil {
		t.Fatalf("ошибка записи расхода без карты: %v", err)
	}

	saved, err := database.GetTransactionByID(pool, expense.ID, user.ID)
	if err != nil {
		t.Fatalf("ошибка чтения транзакции: %v", err)
	}
	if saved.CardID != nil {
		t.Errorf("card_id должен быть пустым, получили %v", *saved.CardID)
	}
}

func TestUpdateExpenseReversesOldAmount(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	card := createTestCard(t, pool, user.ID, 100)

	expense := newExpense(user.ID, &card.ID, 60)
	if err := database.RecordExpense(pool, expense); err != nil {
		t.Fatalf("ошибка записи расхода: %v", err)
	}

	// 100 - 60 = 40; после правки 60 -> 70 должно стать 30
	expense.Amount = decimal.NewFromInt(70)
	expense.Description = "исправленная сумма"
	if err := database.UpdateExpense(pool, expense); err != nil {
		t.Fatalf("ошибка обновления расхода: %v", err)
	}

	balance := cardBalance(t, pool, card.ID, user.ID)
	if !balance.Equal(decimal.NewFromInt(30)) {
		t.Errorf("баланс после правки: получили %s, хотели 30", balance)
	}

	saved, err := database.GetTransactionByID(pool, expense.ID, user.ID)
	if err != nil {
		t.Fatalf("ошибка чтения транзакции: %v", err)
	}
	if !saved.Amount.Equal(decimal.NewFromInt(70)) {
		t.Errorf("сумма после правки: получили %s, хотели 70", saved.Amount)
	}
}

func TestUpdateExpenseAllowsNegativeBalance(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	card := createTestCard(t, pool, user.ID, 100)

	expense := newExpense(user.ID, &card.ID, 60)
	if err := database.RecordExpense(pool, expense); err != nil {
		t.Fatalf("ошибка записи расхода: %v", err)
	}

	// Правка не проверяет достаточность средств: 40 + 60 - 500 = -400
	expense.Amount = decimal.NewFromInt(500)
	if err := database.UpdateExpense(pool, expense); err != nil {
		t.Fatalf("правка не должна отклоняться из-за баланса: %v", err)
	}

	balance := cardBalance(t, pool, card.ID, user.ID)
	if !balance.Equal(decimal.NewFromInt(-400)) {
		t.Errorf("баланс после правки: получили %s, хотели -400", balance)
	}
}

func TestDeleteExpenseRestoresBalance(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	card := createTestCard(t, pool, user.ID, 100)

	expense := newExpense(user.ID, &card.ID, 60)
	if err := database.RecordExpense(pool, expense); err != nil {
		t.Fatalf("ошибка записи расхода: %v", err)
	}

	if err := database.DeleteExpense(pool, expense.ID, user.ID); err != nil {
		t.Fatalf("ошибка удаления расхода: %v", err)
	}

	balance := cardBalance(t, pool, card.ID, user.ID)
	if !balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("баланс после удаления: получили %s, хотели 100", balance)
	}

	if _, err := database.GetTransactionByID(pool, expense.ID, user.ID); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("транзакция должна быть удалена, получили: %v", err)
	}
}

func TestDeleteExpenseTwice(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	card := createTestCard(t, pool, user.ID, 100)

	expense := newExpense(user.ID, &card.ID, 60)
	if err := database.RecordExpense(pool, expense); err != nil {
		t.Fatalf("ошибка записи расхода: %v", err)
	}

	if err := database.DeleteExpense(pool, expense.ID, user.ID); err != nil {
		t.Fatalf("ошибка удаления расхода: %v", err)
	}
	if err := database.DeleteExpense(pool, expense.ID, user.ID); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("повторное удаление должно вернуть ErrNotFound, получили: %v", err)
	}

	// возврат на карту должен пройти ровно один раз
	balance := cardBalance(t, pool, card.ID, user.ID)
	if !balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("баланс после повторного удаления: получили %s, хотели 100", balance)
	}
}

func TestDeleteExpenseConcurrentRefundsOnce(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	card := createTestCard(t, pool, user.ID, 100)

	expense := newExpense(user.ID, &card.ID, 60)
	if err := database.RecordExpense(pool, expense); err != nil {
		t.Fatalf("ошибка записи расхода: %v", err)
	}

	// Два параллельных удаления одной транзакции: успешным должно быть
	// ровно одно, второе получает ErrNotFound после снятия блокировки
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = database.DeleteExpense(pool, expense.ID, user.ID)
		}(i)
	}
	wg.Wait()

	var succeeded, notFound int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, database.ErrNotFound):
			notFound++
		default:
			t.Fatalf("неожиданная ошибка удаления: %v", err)
		}
	}
	if succeeded != 1 || notFound != 1 {
		t.Errorf("успешных удалений: %d, отказов: %d, ожидалось по одному", succeeded, notFound)
	}

	balance := cardBalance(t, pool, card.ID, user.ID)
	if !balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("баланс после гонки удалений: получили %s, хотели 100", balance)
	}
}

func TestUpdateExpenseConcurrentKeepsBalanceConsistent(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	card := createTestCard(t, pool, user.ID, 1000)

	expense := newExpense(user.ID, &card.ID, 100)
	if err := database.RecordExpense(pool, expense); err != nil {
		t.Fatalf("ошибка записи расхода: %v", err)
	}

	// Две параллельные правки суммы: какая бы ни зафиксировалась второй,
	// баланс обязан сойтись с сохранённой суммой, без учёта устаревшей
	amounts := []int64{250, 400}
	var wg sync.WaitGroup
	for _, amount := range amounts {
		wg.Add(1)
		go func(amount int64) {
			defer wg.Done()
			edited := newExpense(user.ID, &card.ID, 0)
			edited.ID = expense.ID
			edited.Amount = decimal.NewFromInt(amount)
			if err := database.UpdateExpense(pool, edited); err != nil {
				t.Errorf("ошибка параллельной правки: %v", err)
			}
		}(amount)
	}
	wg.Wait()

	saved, err := database.GetTransactionByID(pool, expense.ID, user.ID)
	if err != nil {
		t.Fatalf("ошибка чтения транзакции: %v", err)
	}
	balance := cardBalance(t, pool, card.ID, user.ID)
	want := decimal.NewFromInt(1000).Sub(saved.Amount)
	if !balance.Equal(want) {
		t.Errorf("баланс %s не сходится с сохранённой суммой %s, ожидалось %s",
			balance, saved.Amount, want)
	}
}

func TestDeleteExpenseForeignUser(t *testing.T) {
	pool := testPool(t)
	owner := createTestUser(t, pool)
	stranger := createTestUser(t, pool)
	card := createTestCard(t, pool, owner.ID, 100)

	expense := newExpense(owner.ID, &card.ID, 20)
	if err := database.RecordExpense(pool, expense); err != nil {
		t.Fatalf("ошибка записи расхода: %v", err)
	}

	if err := database.DeleteExpense(pool, expense.ID, stranger.ID); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("чужая транзакция должна быть недоступна, получили: %v", err)
	}
	balance := cardBalance(t, pool, card.ID, owner.ID)
	if !balance.Equal(decimal.NewFromInt(80)) {
		t.Errorf("баланс не должен меняться, получили %s", balance)
	}
}

func TestEmptyListsSerializeAsArrays(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)

	// Пользователь без данных: списки должны уходить на клиент как [],
	// а не null
	transactions, err := database.GetTransactions(pool, user.ID, models.TransactionFilter{})
	if err != nil {
		t.Fatalf("ошибка чтения транзакций: %v", err)
	}
	if data, _ := json.Marshal(transactions); string(data) != "[]" {
		t.Errorf("пустая история сериализуется как %s, ожидалось []", data)
	}

	goals, err := database.GetAllGoals(pool, user.ID)
	if err != nil {
		t.Fatalf("ошибка чтения целей: %v", err)
	}
	if goals == nil {
		t.Error("пустой список целей должен быть ненулевым срезом")
	}

	cards, err := database.GetAllCards(pool, user.ID)
	if err != nil {
		t.Fatalf("ошибка чтения карт: %v", err)
	}
	if cards == nil {
		t.Error("пустой список карт должен быть ненулевым срезом")
	}

	notifications, err := database.GetNotificationsByUserID(pool, user.ID)
	if err != nil {
		t.Fatalf("ошибка чтения уведомлений: %v", err)
	}
	if notifications == nil {
		t.Error("пустой список уведомлений должен быть ненулевым срезом")
	}

	byDay, err := database.GetExpensesByDay(pool, user.ID, time.Now().AddDate(0, 0, -30), time.Now())
	if err != nil {
		t.Fatalf("ошибка чтения расходов по дням: %v", err)
	}
	if byDay == nil {
		t.Error("пустая аналитика по дням должна быть ненулевым срезом")
	}
}

func TestGetTransactionsFilters(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)

	first := newExpense(user.ID, nil, 100)
	first.Category = "Питание"
	second := newExpense(user.ID, nil, 900)
	second.Category = "Транспорт"
	for _, tr := range []*models.Transaction{first, second} {
		if err := database.RecordExpense(pool, tr); err != nil {
			t.Fatalf("ошибка записи расхода: %v", err)
		}
	}

	byCategory, err := database.GetTransactions(pool, user.ID, models.TransactionFilter{Category: "Транспорт"})
	if err != nil {
		t.Fatalf("ошибка фильтра по категории: %v", err)
	}
	if len(byCategory) != 1 || byCategory[0].ID != second.ID {
		t.Errorf("фильтр по категории вернул %d записей", len(byCategory))
	}

	minAmount := decimal.NewFromInt(500)
	byAmount, err := database.GetTransactions(pool, user.ID, models.TransactionFilter{MinAmount: &minAmount})
	if err != nil {
		t.Fatalf("ошибка фильтра по сумме: %v", err)
	}
	if len(byAmount) != 1 || !byAmount[0].Amount.Equal(decimal.NewFromInt(900)) {
		t.Errorf("фильтр по сумме вернул %d записей", len(byAmount))
	}
}
