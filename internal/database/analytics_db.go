package database

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/net/context"
)

// GetExpensesByDay возвращает сумму и число расходов по дням в диапазоне дат
func GetExpensesByDay(pool *pgxpool.Pool, userID int, startDate, endDate time.Time) ([]map[string]interface{}, error) {
	query := `
		SELECT transaction_date, SUM(amount), COUNT(*)
		FROM transactions
		WHERE user_id = $1 AND transaction_date BETWEEN $2 AND $3
		GROUP BY transaction_date
		ORDER BY transaction_date ASC`

	rows, err := pool.Query(context.Background(), query, userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении расходов по дням: %v", err)
	}
	defer rows.Close()

	results := []map[string]interface{}{}
	for rows.Next() {
		var date time.Time
		var total float64
		var count int
		if err := rows.Scan(&date, &total, &count); err != nil {
			return nil, err
		}
		results = append(results, map[string]interface{}{
			"date":              date.Format("2006-01-02"),
			"total_amount":      total,
			"transaction_count": count,
		})
	}
	return results, nil
}

// GetExpensesByCategory возвращает расходы по категориям за период,
// с долей каждой категории от общей суммы
func GetExpensesByCategory(pool *pgxpool.Pool, userID int, startDate, endDate time.Time) ([]map[string]interface{}, error) {
	query := `
		SELECT
			t.category,
			COALESCE(uc.icon, '📌'),
			COALESCE(uc.color, '#A29BFE'),
			SUM(t.amount),
			COUNT(t.id),
			ROUND(SUM(t.amount) / NULLIF((SELECT SUM(amount) FROM transactions
				WHERE user_id = $1 AND transaction_date BETWEEN $2 AND $3), 0) * 100, 2)
		FROM transactions t
		LEFT JOIN user_categories uc ON t.category = uc.name AND uc.user_id = t.user_id
		WHERE t.user_id = $1 AND t.transaction_date BETWEEN $2 AND $3
		GROUP BY t.category, uc.icon, uc.color
		ORDER BY SUM(t.amount) DESC`

	rows, err := pool.Query(context.Background(), query, userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении расходов по категориям: %v", err)
	}
	defer rows.Close()

	results := []map[string]interface{}{}
	for rows.Next() {
		var category, icon, color string
		var total float64
		var count int
		var percentage *float64
		if err := rows.Scan(&category, &icon, &color, &total, &count, &percentage); err != nil {
			return nil, err
		}
		row := map[string]interface{}{
			"category":          category,
			"icon":              icon,
			"color":             color,
			"total_amount":      total,
			"transaction_count": count,
			"percentage":        0.0,
		}
		if percentage != nil {
			row["percentage"] = *percentage
		}
		results = append(results, row)
	}
	return results, nil
}

// GetExpensesByMonth возвращает расходы по месяцам за последние 12 месяцев
func GetExpensesByMonth(pool *pgxpool.Pool, userID int) ([]map[string]interface{}, error) {
	query := `
		SELECT
			TO_CHAR(transaction_date, 'YYYY-MM'),
			SUM(amount),
			COUNT(*),
			AVG(amount)
		FROM transactions
		WHERE user_id = $1 AND transaction_date >= CURRENT_DATE - INTERVAL '12 months'
		GROUP BY TO_CHAR(transaction_date, 'YYYY-MM')
		ORDER BY TO_CHAR(transaction_date, 'YYYY-MM') ASC`

	rows, err := pool.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении расходов по месяцам: %v", err)
	}
	defer rows.Close()

	results := []map[string]interface{}{}
	for rows.Next() {
		var month string
		var total, avg float64
		var count int
		if err := rows.Scan(&month, &total, &count, &avg); err != nil {
			return nil, err
		}
		results = append(results, map[string]interface{}{
			"month":             month,
			"total_amount":      total,
			"transaction_count": count,
			"avg_amount":        avg,
		})
	}
	return results, nil
}

// GetWeeklyComparison возвращает расходы по неделям за последние 8 недель
func GetWeeklyComparison(pool *pgxpool.Pool, userID int) ([]map[string]interface{}, error) {
	query := `
		SELECT
			EXTRACT(WEEK FROM transaction_date)::int,
			EXTRACT(YEAR FROM transaction_date)::int,
			SUM(amount),
			COUNT(*)
		FROM transactions
		WHERE user_id = $1 AND transaction_date >= CURRENT_DATE - INTERVAL '8 weeks'
		GROUP BY EXTRACT(YEAR FROM transaction_date), EXTRACT(WEEK FROM transaction_date)
		ORDER BY 2, 1 ASC`

	rows, err := pool.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении сравнения по неделям: %v", err)
	}
	defer rows.Close()

	results := []map[string]interface{}{}
	for rows.Next() {
		var week, year, count int
		var total float64
		if err := rows.Scan(&week, &year, &total, &count); err != nil {
			return nil, err
		}
		results = append(results, map[string]interface{}{
			"week_number":       week,
			"year":              year,
			"total_amount":      total,
			"transaction_count": count,
		})
	}
	return results, nil
}

// GetPeriodSummary возвращает сводку по периоду: количество, сумма,
// средний/максимальный/минимальный расход и самая затратная категория
func GetPeriodSummary(pool *pgxpool.Pool, userID int, startDate, endDate time.Time) (map[string]interface{}, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(amount), 0),
			COALESCE(AVG(amount), 0),
			COALESCE(MAX(amount), 0),
			COALESCE(MIN(amount), 0),
			(SELECT category FROM transactions
			 WHERE user_id = $1 AND transaction_date BETWEEN $2 AND $3
			 GROUP BY category ORDER BY SUM(amount) DESC LIMIT 1)
		FROM transactions
		WHERE user_id = $1 AND transaction_date BETWEEN $2 AND $3`

	var count int
	var total, avg, max, min float64
	var topCategory *string
	err := pool.QueryRow(context.Background(), query, userID, startDate, endDate).Scan(
		&count, &total, &avg, &max, &min, &topCategory)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении сводки за период: %v", err)
	}

	summary := map[string]interface{}{
		"total_transactions": count,
		"total_spent":        total,
		"avg_transaction":    avg,
		"max_transaction":    max,
		"min_transaction":    min,
		"top_category":       nil,
	}
	if topCategory != nil {
		summary["top_category"] = *topCategory
	}
	return summary, nil
}

// GetTrend сравнивает расходы периода с предыдущим периодом той же длины
func GetTrend(pool *pgxpool.Pool, userID int, startDate, endDate time.Time) (map[string]interface{}, error) {
	diff := endDate.Sub(startDate)
	prevEnd := startDate.AddDate(0, 0, -1)
	prevStart := prevEnd.Add(-diff)

	query := `
		SELECT COALESCE(SUM(amount), 0), COUNT(*)
		FROM transactions
		WHERE user_id = $1 AND transaction_date BETWEEN $2 AND $3`

	var currentTotal, previousTotal float64
	var currentCount, previousCount int
	err := pool.QueryRow(context.Background(), query, userID, startDate, endDate).Scan(&currentTotal, &currentCount)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении текущего периода: %v", err)
	}
	err = pool.QueryRow(context.Background(), query, userID, prevStart, prevEnd).Scan(&previousTotal, &previousCount)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении предыдущего периода: %v", err)
	}

	var amountChange, countChange float64
	if previousTotal > 0 {
		amountChange = (currentTotal - previousTotal) / previousTotal * 100
	}
	if previousCount > 0 {
		countChange = float64(currentCount-previousCount) / float64(previousCount) * 100
	}

	return map[string]interface{}{
		"current": map[string]interface{}{
			"total_amount":      currentTotal,
			"transaction_count": currentCount,
		},
		"previous": map[string]interface{}{
			"total_amount":      previousTotal,
			"transaction_count": previousCount,
		},
		"amountChange": amountChange,
		"countChange":  countChange,
	}, nil
}
