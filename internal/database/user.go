package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
	"golang.org/x/crypto/bcrypt"
)

// RegisterUser регистрирует нового пользователя
func RegisterUser(pool *pgxpool.Pool, user *models.User) error {
	var exists bool
	err := pool.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 OR username = $2)`,
		user.Email, user.Username).Scan(&exists)
	if err != nil {
		return fmt.Errorf("ошибка при проверке пользователя: %v", err)
	}
	if exists {
		return ErrDuplicateName
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("ошибка хеширования пароля: %v", err)
	}

	query := `
		INSERT INTO users (username, email, password) VALUES ($1, $2, $3) RETURNING id, created_at`
	err = pool.QueryRow(context.Background(), query, user.Username, user.Email, hashedPassword).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении пользователя: %v", err)
	}
	return nil
}

// AuthenticateUser проверяет учетные данные и возвращает пользователя
func AuthenticateUser(pool *pgxpool.Pool, email, password string) (*models.User, error) {
	var user models.User
	query := `SELECT id, username, email, password, created_at FROM users WHERE email = $1`
	err := pool.QueryRow(context.Background(), query, email).Scan(
		&user.ID, &user.Username, &user.Email, &user.Password, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка при поиске пользователя: %v", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrNotFound
	}

	user.Password = ""
	return &user, nil
}

// GetUserByID извлекает пользователя без пароля
func GetUserByID(pool *pgxpool.Pool, userID int) (*models.User, error) {
	var user models.User
	query := `SELECT id, username, email, created_at FROM users WHERE id = $1`
	err := pool.QueryRow(context.Background(), query, userID).Scan(
		&user.ID, &user.Username, &user.Email, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка при получении пользователя: %v", err)
	}
	return &user, nil
}

// UpdateUserProfile обновляет имя и почту пользователя
func UpdateUserProfile(pool *pgxpool.Pool, user *models.User) error {
	var taken bool
	err := pool.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM users WHERE (email = $1 OR username = $2) AND id != $3)`,
		user.Email, user.Username, user.ID).Scan(&taken)
	if err != nil {
		return fmt.Errorf("ошибка при проверке данных профиля: %v", err)
	}
	if taken {
		return ErrDuplicateName
	}

	result, err := pool.Exec(context.Background(),
		`UPDATE users SET username = $1, email = $2 WHERE id = $3`,
		user.Username, user.Email, user.ID)
	if err != nil {
		return fmt.Errorf("ошибка обновления профиля: %v", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ChangeUserPassword меняет пароль после проверки старого
func ChangeUserPassword(pool *pgxpool.Pool, userID int, oldPassword, newPassword string) error {
	var current string
	err := pool.QueryRow(context.Background(),
		`SELECT password FROM users WHERE id = $1`, userID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка при получении пароля: %v", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(current), []byte(oldPassword)); err != nil {
		return ErrNotFound
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("ошибка хеширования пароля: %v", err)
	}

	_, err = pool.Exec(context.Background(),
		`UPDATE users SET password = $1 WHERE id = $2`, hashed, userID)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении пароля: %v", err)
	}
	return nil
}

// DeleteUserAccount удаляет пользователя, все его данные удаляются каскадом
func DeleteUserAccount(pool *pgxpool.Pool, userID int) error {
	result, err := pool.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления аккаунта: %v", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetProfileStats возвращает сводную статистику по данным пользователя
func GetProfileStats(pool *pgxpool.Pool, userID int) (*models.ProfileStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM cards WHERE user_id = $1),
			(SELECT COALESCE(SUM(balance), 0) FROM cards WHERE user_id = $1),
			(SELECT COUNT(*) FROM transactions WHERE user_id = $1),
			(SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = $1),
			(SELECT COUNT(*) FROM savings_goals WHERE user_id = $1),
			(SELECT COUNT(*) FROM savings_goals WHERE user_id = $1 AND current_amount >= target_amount),
			(SELECT COUNT(*) FROM user_categories WHERE user_id = $1)`

	stats := &models.ProfileStats{}
	err := pool.QueryRow(context.Background(), query, userID).Scan(
		&stats.TotalCards,
		&stats.TotalBalance,
		&stats.TotalTransactions,
		&stats.TotalSpent,
		&stats.TotalGoals,
		&stats.CompletedGoals,
		&stats.TotalCategories,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении статистики профиля: %v", err)
	}
	return stats, nil
}

// GetRecentActivity возвращает последние действия пользователя:
// транзакции, созданные цели и добавленные карты
func GetRecentActivity(pool *pgxpool.Pool, userID int) ([]models.ActivityItem, error) {
	query := `
		(
			SELECT 'transaction', id, created_at,
			       'Расход ' || amount || ' — ' || category
			FROM transactions WHERE user_id = $1
			ORDER BY created_at DESC LIMIT 5
		)
		UNION ALL
		(
			SELECT 'goal', id, created_at, 'Создана цель: ' || name
			FROM savings_goals WHERE user_id = $1
			ORDER BY created_at DESC LIMIT 5
		)
		UNION ALL
		(
			SELECT 'card', id, created_at, 'Добавлена карта: ' || card_name
			FROM cards WHERE user_id = $1
			ORDER BY created_at DESC LIMIT 5
		)
		ORDER BY 3 DESC
		LIMIT 10`

	rows, err := pool.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении активности: %v", err)
	}
	defer rows.Close()

	items := []models.ActivityItem{}
	for rows.Next() {
		var item models.ActivityItem
		if err := rows.Scan(&item.Type, &item.ID, &item.Date, &item.Description); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
