package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/auth"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

type categoryRequest struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

func (r *categoryRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	if r.Icon == "" {
		r.Icon = models.DefaultCategoryIcon
	}
	if r.Color == "" {
		r.Color = models.DefaultCategoryColor
	}
}

// GetCategoriesHandler возвращает категории пользователя, при первом
// обращении инициализируя их набором по умолчанию
func GetCategoriesHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := database.GetUserCategories(pool, auth.UserID(c))
		if err != nil {
			log.Printf("Ошибка при получении категорий: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при получении категорий"})
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// GetCategoryHandler возвращает одну категорию
func GetCategoryHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный идентификатор категории"})
			return
		}
		category, err := database.GetUserCategoryByID(pool, id, auth.UserID(c))
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Категория не найдена"})
				return
			}
			log.Printf("Ошибка при получении категории: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при получении категории"})
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

// CreateCategoryHandler добавляет категорию пользователя
func CreateCategoryHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный формат данных"})
			return
		}
		req.normalize()
		if req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Название обязательно"})
			return
		}
		if len([]rune(req.Name)) > 50 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Название не может превышать 50 символов"})
			return
		}

		category := models.Category{
			UserID: auth.UserID(c),
			Name:   req.Name,
			Icon:   req.Icon,
			Color:  req.Color,
		}
		if err := database.CreateUserCategory(pool, &category); err != nil {
			if errors.Is(err, database.ErrDuplicateName) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Категория с таким названием уже существует"})
				return
			}
			log.Printf("Ошибка при добавлении категории: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при добавлении категории"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":    "Категория успешно добавлена",
			"categoryId": category.ID,
		})
	}
}

// UpdateCategoryHandler редактирует категорию; переименование каскадно
// переписывает категорию во всех транзакциях пользователя
func UpdateCategoryHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный идентификатор категории"})
			return
		}
		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный формат данных"})
			return
		}
		req.normalize()
		if req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Название обязательно"})
			return
		}
		if len([]rune(req.Name)) > 50 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Название не может превышать 50 символов"})
			return
		}

		category := models.Category{
			ID:     id,
			UserID: auth.UserID(c),
			Name:   req.Name,
			Icon:   req.Icon,
			Color:  req.Color,
		}
		if err := database.UpdateUserCategory(pool, &category); err != nil {
			switch {
			case errors.Is(err, database.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"message": "Категория не найдена"})
			case errors.Is(err, database.ErrDuplicateName):
				c.JSON(http.StatusBadRequest, gin.H{"message": "Категория с таким названием уже существует"})
			default:
				log.Printf("Ошибка обновления категории: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка обновления категории"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Категория успешно обновлена"})
	}
}

// DeleteCategoryHandler удаляет категорию, если на неё не ссылаются транзакции
func DeleteCategoryHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный идентификатор категории"})
			return
		}
		if err := database.DeleteUserCategory(pool, id, auth.UserID(c)); err != nil {
			var dependents *database.HasDependentsError
			switch {
			case errors.Is(err, database.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"message": "Категория не найдена"})
			case errors.As(err, &dependents):
				c.JSON(http.StatusBadRequest, gin.H{
					"message": err.Error(),
					"count":   dependents.Count,
				})
			default:
				log.Printf("Ошибка удаления категории: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка удаления категории"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Категория успешно удалена"})
	}
}

// GetCategoryUsageHandler возвращает статистику использования категорий
func GetCategoryUsageHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		usage, err := database.GetCategoryUsage(pool, auth.UserID(c))
		if err != nil {
			log.Printf("Ошибка при получении статистики категорий: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при получении статистики"})
			return
		}
		c.JSON(http.StatusOK, usage)
	}
}
