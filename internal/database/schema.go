package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements — DDL всех таблиц приложения. Выполняется при старте,
// как и в остальных местах суммы хранятся как NUMERIC(12,2), даты — как DATE.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username VARCHAR(50) UNIQUE NOT NULL,
		email VARCHAR(100) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS cards (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		card_name VARCHAR(100) NOT NULL,
		card_type VARCHAR(10) NOT NULL CHECK (card_type IN ('debit', 'credit')),
		bank_name VARCHAR(100) NOT NULL,
		balance NUMERIC(12,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		card_id INT REFERENCES cards(id) ON DELETE SET NULL,
		amount NUMERIC(12,2) NOT NULL,
		type VARCHAR(10) NOT NULL DEFAULT 'expense' CHECK (type IN ('expense', 'income')),
		category VARCHAR(50) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		transaction_date DATE NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS savings_goals (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name VARCHAR(100) NOT NULL,
		target_amount NUMERIC(12,2) NOT NULL,
		current_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
		deadline DATE,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS goal_contributions (
		id SERIAL PRIMARY KEY,
		goal_id INT NOT NULL REFERENCES savings_goals(id) ON DELETE CASCADE,
		user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		amount NUMERIC(12,2) NOT NULL,
		contribution_date DATE NOT NULL DEFAULT CURRENT_DATE,
		note TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS user_categories (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name VARCHAR(50) NOT NULL,
		icon VARCHAR(10) NOT NULL DEFAULT '📌',
		color VARCHAR(7) NOT NULL DEFAULT '#A29BFE',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (user_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS default_categories (
		id SERIAL PRIMARY KEY,
		name VARCHAR(50) UNIQUE NOT NULL,
		icon VARCHAR(10) NOT NULL,
		color VARCHAR(7) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		goal_id INT REFERENCES savings_goals(id) ON DELETE SET NULL,
		message TEXT NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`INSERT INTO default_categories (name, icon, color) VALUES
		('Питание', '🍔', '#FF7675'),
		('Покупки', '🛍️', '#74B9FF'),
		('Образование', '📚', '#55EFC4'),
		('Развлечения', '🎮', '#FDCB6E'),
		('Питомцы', '🐾', '#E17055'),
		('Услуги', '💡', '#81ECEC'),
		('Транспорт', '🚌', '#A29BFE'),
		('Прочее', '📌', '#B2BEC3')
	ON CONFLICT (name) DO NOTHING`,
}

// EnsureSchema создает недостающие таблицы при запуске приложения
func EnsureSchema(pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(context.Background(), stmt); err != nil {
			return fmt.Errorf("ошибка создания схемы: %v", err)
		}
	}
	return nil
}
