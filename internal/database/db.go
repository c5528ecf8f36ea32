package database

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// ConnectDB создает пул соединений с базой по переменным окружения
func ConnectDB() (*pgxpool.Pool, error) {
	// Загрузить переменные из .env; при его отсутствии берется окружение процесса
	_ = godotenv.Load()

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_HOST"), 5432, os.Getenv("DB_NAME"))

	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("база данных недоступна: %v", err)
	}

	return pool, nil
}
