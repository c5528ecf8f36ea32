package database_test

import (
	"testing"
	"time"

	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
)

func TestGetExpensesByCategory(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)

	food := newExpense(user.ID, nil, 300)
	food.Category = "Питание"
	transport := newExpense(user.ID, nil, 100)
	transport.Category = "Транспорт"
	if err := database.RecordExpense(pool, food); err != nil {
		t.Fatalf("ошибка записи расхода: %v", err)
	}
	if err := database.RecordExpense(pool, transport); err != nil {
		t.Fatalf("ошибка записи расхода: %v", err)
	}

	end := time.Now().AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -7)
	rows, err := database.GetExpensesByCategory(pool, user.ID, start, end)
	if err != nil {
		t.Fatalf("ошибка аналитики по категориям: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("категорий в отчете: получили %d, хотели 2", len(rows))
	}
	// Сортировка по убыванию суммы: первой идет Питание
	if rows[0]["category"] != "Питание" {
		t.Errorf("первая категория: получили %v, хотели Питание", rows[0]["category"])
	}
}

func TestGetPeriodSummary(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)

	for _, amount := range []float64{100, 200, 300} {
		expense := newExpense(user.ID, nil, amount)
		if err := database.RecordExpense(pool, expense); err != nil {
			t.Fatalf("ошибка записи расхода: %v", err)
		}
	}

	end := time.Now().AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -7)
	summary, err := database.GetPeriodSummary(pool, user.ID, start, end)
	if err != nil {
		t.Fatalf("ошибка сводки за период: %v", err)
	}
	if summary["total_transactions"] != 3 {
		t.Errorf("число транзакций: получили %v, хотели 3", summary["total_transactions"])
	}
	if summary["total_spent"] != 600.0 {
		t.Errorf("сумма расходов: получили %v, хотели 600", summary["total_spent"])
	}
}

func TestGetTrendEmptyPeriod(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)

	end := time.Now()
	start := end.AddDate(0, 0, -30)
	trend, err := database.GetTrend(pool, user.ID, start, end)
	if err != nil {
		t.Fatalf("ошибка расчета динамики: %v", err)
	}
	if trend == nil {
		t.Fatal("пустой период должен давать нулевую динамику, а не nil")
	}
}
