package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

// RecordExpense записывает расход. Если указана карта, вставка строки журнала
// и списание с баланса выполняются одной транзакцией: либо происходит и то и
// другое, либо ничего. Строка карты блокируется на время операции, поэтому
// параллельные запросы по одной карте выстраиваются в очередь, а не гоняются
// за балансом.
func RecordExpense(pool *pgxpool.Pool, transaction *models.Transaction) error {
	transaction.Type = models.TransactionTypeExpense

	if transaction.CardID == nil {
		// Расход без карты баланс не трогает
		query := `
			INSERT INTO transactions (user_id, card_id, amount, type, category, description, transaction_date)
			VALUES ($1, NULL, $2, $3, $4, $5, $6)
			RETURNING id, created_at`
		err := pool.QueryRow(context.Background(), query,
			transaction.UserID,
			transaction.Amount,
			transaction.Type,
			transaction.Category,
			transaction.Description,
			transaction.TransactionDate).Scan(&transaction.ID, &transaction.CreatedAt)
		if err != nil {
			return fmt.Errorf("ошибка при добавлении транзакции: %v", err)
		}
		return nil
	}

	return withTransaction(context.Background(), pool, func(tx pgx.Tx) error {
		var balance decimal.Decimal
		err := tx.QueryRow(context.Background(),
			`SELECT balance FROM cards WHERE id = $1 AND user_id = $2 FOR UPDATE`,
			*transaction.CardID, transaction.UserID).Scan(&balance)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("ошибка при проверке карты: %v", err)
		}

		if exceeds(transaction.Amount, balance) {
			return &InsufficientFundsError{
				CurrentBalance: balance,
				RequiredAmount: transaction.Amount,
			}
		}

		insertQuery := `
			INSERT INTO transactions (user_id, card_id, amount, type, category, description, transaction_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at`
		err = tx.QueryRow(context.Background(), insertQuery,
			transaction.UserID,
			*transaction.CardID,
			transaction.Amount,
			transaction.Type,
			transaction.Category,
			transaction.Description,
			transaction.TransactionDate).Scan(&transaction.ID, &transaction.CreatedAt)
		if err != nil {
			return fmt.Errorf("ошибка при добавлении транзакции: %v", err)
		}

		_, err = tx.Exec(context.Background(),
			`UPDATE cards SET balance = balance - $1 WHERE id = $2 AND user_id = $3`,
			transaction.Amount, *transaction.CardID, transaction.UserID)
		if err != nil {
			return fmt.Errorf("ошибка при списании с карты: %v", err)
		}
		return nil
	})
}

// UpdateExpense меняет сумму, категорию, описание и дату транзакции.
// Для транзакции с картой старая сумма возвращается на баланс, новая
// списывается, и сама строка обновляется — всё одной транзакцией. Строка
// транзакции читается с блокировкой внутри той же транзакции базы, чтобы
// параллельное редактирование или удаление не применило устаревшую сумму.
// Достаточность средств здесь намеренно не проверяется: так ведёт себя
// и остальной путь редактирования, баланс может уйти в минус.
func UpdateExpense(pool *pgxpool.Pool, transaction *models.Transaction) error {
	updateQuery := `
		UPDATE transactions
		SET amount = $1, category = $2, description = $3, transaction_date = $4
		WHERE id = $5 AND user_id = $6`

	return withTransaction(context.Background(), pool, func(tx pgx.Tx) error {
		var oldAmount decimal.Decimal
		var cardID *int
		err := tx.QueryRow(context.Background(),
			`SELECT amount, card_id FROM transactions WHERE id = $1 AND user_id = $2 FOR UPDATE`,
			transaction.ID, transaction.UserID).Scan(&oldAmount, &cardID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("ошибка при проверке транзакции: %v", err)
		}

		if cardID != nil {
			var balance decimal.Decimal
			err := tx.QueryRow(context.Background(),
				`SELECT balance FROM cards WHERE id = $1 FOR UPDATE`, *cardID).Scan(&balance)
			if err != nil {
				return fmt.Errorf("ошибка при блокировке карты: %v", err)
			}

			_, err = tx.Exec(context.Background(),
				`UPDATE cards SET balance = balance + $1 WHERE id = $2`, oldAmount, *cardID)
			if err != nil {
				return fmt.Errorf("ошибка при возврате старой суммы: %v", err)
			}

			_, err = tx.Exec(context.Background(),
				`UPDATE cards SET balance = balance - $1 WHERE id = $2`, transaction.Amount, *cardID)
			if err != nil {
				return fmt.Errorf("ошибка при списании новой суммы: %v", err)
			}
		}

		res, err := tx.Exec(context.Background(), updateQuery,
			transaction.Amount,
			transaction.Category,
			transaction.Description,
			transaction.TransactionDate,
			transaction.ID,
			transaction.UserID)
		if err != nil {
			return fmt.Errorf("ошибка обновления транзакции: %v", err)
		}
		if res.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// DeleteExpense удаляет транзакцию. Для транзакции с картой сумма
// возвращается на баланс в той же транзакции базы, что и удаление строки.
// Сумма читается с блокировкой строки: из двух параллельных удалений одной
// транзакции возврат на карту выполнит только первое, второе получит
// ErrNotFound.
func DeleteExpense(pool *pgxpool.Pool, transactionID, userID int) error {
	return withTransaction(context.Background(), pool, func(tx pgx.Tx) error {
		var amount decimal.Decimal
		var cardID *int
		err := tx.QueryRow(context.Background(),
			`SELECT amount, card_id FROM transactions WHERE id = $1 AND user_id = $2 FOR UPDATE`,
			transactionID, userID).Scan(&amount, &cardID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("ошибка при проверке транзакции: %v", err)
		}

		if cardID != nil {
			var balance decimal.Decimal
			err := tx.QueryRow(context.Background(),
				`SELECT balance FROM cards WHERE id = $1 FOR UPDATE`, *cardID).Scan(&balance)
			if err != nil {
				return fmt.Errorf("ошибка при блокировке карты: %v", err)
			}

			_, err = tx.Exec(context.Background(),
				`UPDATE cards SET balance = balance + $1 WHERE id = $2`, amount, *cardID)
			if err != nil {
				return fmt.Errorf("ошибка при возврате суммы на карту: %v", err)
			}
		}

		res, err := tx.Exec(context.Background(),
			`DELETE FROM transactions WHERE id = $1 AND user_id = $2`, transactionID, userID)
		if err != nil {
			return fmt.Errorf("ошибка удаления транзакции: %v", err)
		}
		if res.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// GetTransactionByID извлекает транзакцию пользователя вместе с данными карты
func GetTransactionByID(pool *pgxpool.Pool, transactionID, userID int) (*models.Transaction, error) {
	query := `
		SELECT t.id, t.user_id, t.card_id, t.amount, t.type, t.category, t.description,
		       t.transaction_date, t.created_at, c.card_name, c.bank_name
		FROM transactions t
		LEFT JOIN cards c ON t.card_id = c.id
		WHERE t.id = $1 AND t.user_id = $2`

	transaction := &models.Transaction{}
	err := pool.QueryRow(context.Background(), query, transactionID, userID).Scan(
		&transaction.ID,
		&transaction.UserID,
		&transaction.CardID,
		&transaction.Amount,
		&transaction.Type,
		&transaction.Category,
		&transaction.Description,
		&transaction.TransactionDate,
		&transaction.CreatedAt,
		&transaction.CardName,
		&transaction.BankName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка при получении транзакции: %v", err)
	}

	return transaction, nil
}

// GetTransactions возвращает историю транзакций пользователя с фильтрами
// по категории, датам и диапазону сумм
func GetTransactions(pool *pgxpool.Pool, userID int, filter models.TransactionFilter) ([]models.Transaction, error) {
	query := `
		SELECT t.id, t.user_id, t.card_id, t.amount, t.type, t.category, t.description,
		       t.transaction_date, t.created_at, c.card_name, c.bank_name, uc.icon, uc.color
		FROM transactions t
		LEFT JOIN cards c ON t.card_id = c.id
		LEFT JOIN user_categories uc ON t.category = uc.name AND uc.user_id = t.user_id
		WHERE t.user_id = $1`
	args := []interface{}{userID}

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND t.category = $%d", len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += fmt.Sprintf(" AND t.transaction_date >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		query += fmt.Sprintf(" AND t.transaction_date <= $%d", len(args))
	}
	if filter.MinAmount != nil {
		args = append(args, *filter.MinAmount)
		query += fmt.Sprintf(" AND t.amount >= $%d", len(args))
	}
	if filter.MaxAmount != nil {
		args = append(args, *filter.MaxAmount)
		query += fmt.Sprintf(" AND t.amount <= $%d", len(args))
	}

	query += " ORDER BY t.transaction_date DESC, t.created_at DESC"

	rows, err := pool.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении истории транзакций: %v", err)
	}
	defer rows.Close()

	// пустая история уходит на клиент как [], а не null
	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.CardID, &t.Amount, &t.Type, &t.Category,
			&t.Description, &t.TransactionDate, &t.CreatedAt, &t.CardName, &t.BankName, &t.Icon, &t.Color); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	return transactions, nil
}

// CreateSimpleTransaction вставляет транзакцию без карты и без изменения
// балансов. Используется при сохранении данных, распознанных с чека.
func CreateSimpleTransaction(pool *pgxpool.Pool, transaction *models.Transaction) error {
	if transaction.Type == "" {
		transaction.Type = models.TransactionTypeExpense
	}
	query := `
		INSERT INTO transactions (user_id, card_id, amount, type, category, description, transaction_date)
		VALUES ($1, NULL, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err := pool.QueryRow(context.Background(), query,
		transaction.UserID,
		transaction.Amount,
		transaction.Type,
		transaction.Category,
		transaction.Description,
		transaction.TransactionDate).Scan(&transaction.ID, &transaction.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при сохранении транзакции: %v", err)
	}
	return nil
}
