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

// CreateCard добавляет новую карту пользователя с нулевым балансом
func CreateCard(pool *pgxpool.Pool, card *models.Card) error {
	query := `
		INSERT INTO cards (user_id, card_name, card_type, bank_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, balance, created_at`
	err := pool.QueryRow(context.Background(), query,
		card.UserID,
		card.CardName,
		card.CardType,
		card.BankName).Scan(&card.ID, &card.Balance, &card.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении карты: %v", err)
	}
	return nil
}

// GetCardByID извлекает карту пользователя по ID
func GetCardByID(pool *pgxpool.Pool, cardID, userID int) (*models.Card, error) {
	query := `
		SELECT id, user_id, card_name, card_type, bank_name, balance, created_at
		FROM cards
		WHERE id = $1 AND user_id = $2`

	card := &models.Card{}
	err := pool.QueryRow(context.Background(), query, cardID, userID).Scan(
		&card.ID,
		&card.UserID,
		&card.CardName,
		&card.CardType,
		&card.BankName,
		&card.Balance,
		&card.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка при получении карты: %v", err)
	}
	return card, nil
}

// GetAllCards извлекает все карты пользователя, новые первыми
func GetAllCards(pool *pgxpool.Pool, userID int) ([]models.Card, error) {
	query := `
		SELECT id, user_id, card_name, card_type, bank_name, balance, created_at
		FROM cards
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := pool.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении карт: %v", err)
	}
	defer rows.Close()

	cards := []models.Card{}
	for rows.Next() {
		var card models.Card
		if err := rows.Scan(&card.ID, &card.UserID, &card.CardName, &card.CardType,
			&card.BankName, &card.Balance, &card.CreatedAt); err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}

	return cards, nil
}

// UpdateCard обновляет название, тип и банк карты. Баланс этим путем
// не меняется — его двигают только операции движка балансов.
func UpdateCard(pool *pgxpool.Pool, card *models.Card) error {
	query := `
		UPDATE cards
		SET card_name = $1, card_type = $2, bank_name = $3
		WHERE id = $4 AND user_id = $5`
	result, err := pool.Exec(context.Background(), query,
		card.CardName,
		card.CardType,
		card.BankName,
		card.ID,
		card.UserID)
	if err != nil {
		return fmt.Errorf("ошибка обновления карты: %v", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCard удаляет карту. У связанных транзакций card_id обнуляется
// внешним ключом, сами строки журнала остаются.
func DeleteCard(pool *pgxpool.Pool, cardID, userID int) error {
	result, err := pool.Exec(context.Background(),
		`DELETE FROM cards WHERE id = $1 AND user_id = $2`, cardID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления карты: %v", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddCardBalance пополняет баланс карты. Это прямое пополнение без строки
// в журнале транзакций — пополнения не являются категоризированными расходами.
func AddCardBalance(pool *pgxpool.Pool, cardID, userID int, amount decimal.Decimal) error {
	result, err := pool.Exec(context.Background(),
		`UPDATE cards SET balance = balance + $1 WHERE id = $2 AND user_id = $3`,
		amount, cardID, userID)
	if err != nil {
		return fmt.Errorf("ошибка при пополнении баланса: %v", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetTotalBalance возвращает сумму балансов всех карт пользователя
func GetTotalBalance(pool *pgxpool.Pool, userID int) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := pool.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(balance), 0) FROM cards WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ошибка при подсчете общего баланса: %v", err)
	}
	return total, nil
}
