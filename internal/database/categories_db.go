package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

// GetUserCategories извлекает категории пользователя по алфавиту.
// Если у пользователя их еще нет, сначала копируются категории по умолчанию.
func GetUserCategories(pool *pgxpool.Pool, userID int) ([]models.Category, error) {
	categories, err := listUserCategories(pool, userID)
	if err != nil {
		return nil, err
	}
	if len(categories) > 0 {
		return categories, nil
	}

	_, err = pool.Exec(context.Background(), `
		INSERT INTO user_categories (user_id, name, icon, color)
		SELECT $1, name, icon, color FROM default_categories
		ON CONFLICT (user_id, name) DO NOTHING`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации категорий: %v", err)
	}

	return listUserCategories(pool, userID)
}

func listUserCategories(pool *pgxpool.Pool, userID int) ([]models.Category, error) {
	rows, err := pool.Query(context.Background(), `
		SELECT id, user_id, name, icon, color, created_at
		FROM user_categories
		WHERE user_id = $1
		ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении категорий: %v", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Icon, &c.Color, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, nil
}

// GetUserCategoryByID извлекает категорию пользователя по ID
func GetUserCategoryByID(pool *pgxpool.Pool, categoryID, userID int) (*models.Category, error) {
	category := &models.Category{}
	err := pool.QueryRow(context.Background(), `
		SELECT id, user_id, name, icon, color, created_at
		FROM user_categories
		WHERE id = $1 AND user_id = $2`, categoryID, userID).Scan(
		&category.ID, &category.UserID, &category.Name, &category.Icon, &category.Color, &category.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка при получении категории: %v", err)
	}
	return category, nil
}

// CreateUserCategory добавляет новую категорию. Имя уникально в пределах
// пользователя.
func CreateUserCategory(pool *pgxpool.Pool, category *models.Category) error {
	var exists bool
	err := pool.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM user_categories WHERE user_id = $1 AND name = $2)`,
		category.UserID, category.Name).Scan(&exists)
	if err != nil {
		return fmt.Errorf("ошибка при проверке категории: %v", err)
	}
	if exists {
		return ErrDuplicateName
	}

	query := `
		INSERT INTO user_categories (user_id, name, icon, color)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err = pool.QueryRow(context.Background(), query,
		category.UserID, category.Name, category.Icon, category.Color).Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении категории: %v", err)
	}
	return nil
}

// UpdateUserCategory обновляет категорию. Связь транзакций с категорией
// строковая, поэтому при переименовании все транзакции пользователя со
// старым именем переписываются на новое в той же транзакции базы.
func UpdateUserCategory(pool *pgxpool.Pool, category *models.Category) error {
	var oldName string
	err := pool.QueryRow(context.Background(),
		`SELECT name FROM user_categories WHERE id = $1 AND user_id = $2`,
		category.ID, category.UserID).Scan(&oldName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка при проверке категории: %v", err)
	}

	var taken bool
	err = pool.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM user_categories WHERE user_id = $1 AND name = $2 AND id != $3)`,
		category.UserID, category.Name, category.ID).Scan(&taken)
	if err != nil {
		return fmt.Errorf("ошибка при проверке имени: %v", err)
	}
	if taken {
		return ErrDuplicateName
	}

	return withTransaction(context.Background(), pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(context.Background(), `
			UPDATE user_categories
			SET name = $1, icon = $2, color = $3
			WHERE id = $4 AND user_id = $5`,
			category.Name, category.Icon, category.Color, category.ID, category.UserID)
		if err != nil {
			return fmt.Errorf("ошибка обновления категории: %v", err)
		}

		if oldName != category.Name {
			_, err = tx.Exec(context.Background(), `
				UPDATE transactions
				SET category = $1
				WHERE user_id = $2 AND category = $3`,
				category.Name, category.UserID, oldName)
			if err != nil {
				return fmt.Errorf("ошибка переименования категории в транзакциях: %v", err)
			}
		}
		return nil
	})
}

// DeleteUserCategory удаляет категорию. Пока на имя категории ссылается
// хотя бы одна транзакция, удаление отклоняется.
func DeleteUserCategory(pool *pgxpool.Pool, categoryID, userID int) error {
	var name string
	err := pool.QueryRow(context.Background(),
		`SELECT name FROM user_categories WHERE id = $1 AND user_id = $2`,
		categoryID, userID).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка при проверке категории: %v", err)
	}

	var count int
	err = pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM transactions WHERE user_id = $1 AND category = $2`,
		userID, name).Scan(&count)
	if err != nil {
		return fmt.Errorf("ошибка при проверке транзакций: %v", err)
	}
	if count > 0 {
		return &HasDependentsError{Count: count}
	}

	_, err = pool.Exec(context.Background(),
		`DELETE FROM user_categories WHERE id = $1 AND user_id = $2`, categoryID, userID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении категории: %v", err)
	}
	return nil
}

// GetCategoryUsage возвращает статистику использования категорий:
// число транзакций и потраченную сумму по каждой
func GetCategoryUsage(pool *pgxpool.Pool, userID int) ([]models.CategoryUsage, error) {
	query := `
		SELECT uc.id, uc.name, uc.icon, uc.color,
		       COUNT(t.id), COALESCE(SUM(t.amount), 0)
		FROM user_categories uc
		LEFT JOIN transactions t ON t.category = uc.name AND t.user_id = uc.user_id
		WHERE uc.user_id = $1
		GROUP BY uc.id, uc.name, uc.icon, uc.color
		ORDER BY COUNT(t.id) DESC, uc.name`

	rows, err := pool.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении статистики категорий: %v", err)
	}
	defer rows.Close()

	usage := []models.CategoryUsage{}
	for rows.Next() {
		var u models.CategoryUsage
		if err := rows.Scan(&u.ID, &u.Name, &u.Icon, &u.Color, &u.TransactionCount, &u.TotalSpent); err != nil {
			return nil, err
		}
		usage = append(usage, u)
	}
	return usage, nil
}

// GetCategoryNames возвращает имена категорий пользователя вместе с
// категориями по умолчанию. Используется для подсказки модели при
// распознавании чека.
func GetCategoryNames(pool *pgxpool.Pool, userID int) ([]string, error) {
	query := `
		SELECT name FROM user_categories WHERE user_id = $1
		UNION
		SELECT name FROM default_categories
		ORDER BY name`
	rows, err := pool.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении имен категорий: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}
