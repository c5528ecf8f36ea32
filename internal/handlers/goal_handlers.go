package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/auth"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

type goalRequest struct {
	Name         string  `json:"name"`
	TargetAmount float64 `json:"target_amount"`
	Deadline     string  `json:"deadline"`
	Description  string  `json:"description"`
}

// normalizeDeadline приводит дедлайн к дате или nil: пустая строка,
// "null" и нераспознанное значение означают цель без срока
func normalizeDeadline(raw string) *time.Time {
	if raw == "" || raw == "null" {
		return nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil
	}
	return &t
}

// GetGoalsHandler возвращает упорядоченный список целей пользователя
func GetGoalsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		goals, err := database.GetAllGoals(pool, auth.UserID(c))
		if err != nil {
			log.Printf("Ошибка при получении целей: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при получении целей"})
			return
		}
		c.JSON(http.StatusOK, goals)
	}
}

// GetGoalHandler возвращает цель с историей взносов
func GetGoalHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный идентификатор цели"})
			return
		}
		goal, err := database.GetGoalByID(pool, id, auth.UserID(c))
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Цель не найдена"})
				return
			}
			log.Printf("Ошибка при получении цели: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при получении цели"})
			return
		}
		c.JSON(http.StatusOK, goal)
	}
}

// CreateGoalHandler создает новую цель накоплений
func CreateGoalHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req goalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный формат данных"})
			return
		}
		if req.Name == "" || req.TargetAmount == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Название и целевая сумма обязательны"})
			return
		}
		if req.TargetAmount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Целевая сумма должна быть больше 0"})
			return
		}

		goal := models.Goal{
			UserID:       auth.UserID(c),
			Name:         req.Name,
			TargetAmount: decimal.NewFromFloat(req.TargetAmount).Round(2),
			Deadline:     normalizeDeadline(req.Deadline),
			Description:  req.Description,
		}
		if err := database.CreateGoal(pool, &goal); err != nil {
			log.Printf("Ошибка при создании цели: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при создании цели"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Цель успешно создана",
			"goalId":  goal.ID,
		})
	}
}

// UpdateGoalHandler редактирует цель (накопленную сумму не трогает)
func UpdateGoalHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный идентификатор цели"})
			return
		}
		var req goalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный формат данных"})
			return
		}
		if req.Name == "" || req.TargetAmount == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Название и целевая сумма обязательны"})
			return
		}
		if req.TargetAmount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Целевая сумма должна быть больше 0"})
			return
		}

		goal := models.Goal{
			ID:           id,
			UserID:       auth.UserID(c),
			Name:         req.Name,
			TargetAmount: decimal.NewFromFloat(req.TargetAmount).Round(2),
			Deadline:     normalizeDeadline(req.Deadline),
			Description:  req.Description,
		}
		if err := database.UpdateGoal(pool, &goal); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Цель не найдена"})
				return
			}
			log.Printf("Ошибка обновления цели: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка обновления цели"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Цель успешно обновлена"})
	}
}

// DeleteGoalHandler удаляет цель вместе со взносами
func DeleteGoalHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный идентификатор цели"})
			return
		}
		if err := database.DeleteGoal(pool, id, auth.UserID(c)); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Цель не найдена"})
				return
			}
			log.Printf("Ошибка удаления цели: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка удаления цели"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Цель успешно удалена"})
	}
}

// ContributeHandler записывает взнос в цель. Если взнос закрыл цель,
// уведомление пишется здесь, вне транзакции движка: его сбой не влияет
// на уже зафиксированный взнос.
func ContributeHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный идентификатор цели"})
			return
		}
		var req struct {
			Amount float64 `json:"amount"`
			Note   string  `json:"note"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Сумма должна быть больше 0"})
			return
		}

		contribution := models.Contribution{
			GoalID: id,
			UserID: auth.UserID(c),
			Amount: decimal.NewFromFloat(req.Amount).Round(2),
			Note:   req.Note,
		}

		completed, err := database.ContributeToGoal(pool, &contribution)
		if err != nil {
			var exceeds *database.ExceedsTargetError
			switch {
			case errors.Is(err, database.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"message": "Цель не найдена"})
			case errors.As(err, &exceeds):
				c.JSON(http.StatusBadRequest, gin.H{
					"message":    "Взнос превышает целевую сумму",
					"maxAllowed": exceeds.MaxAllowed,
				})
			default:
				log.Printf("Ошибка при записи взноса: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при записи взноса"})
			}
			return
		}

		if completed {
			goal, err := database.GetGoalByID(pool, id, auth.UserID(c))
			if err == nil {
				err = database.CreateGoalCompletedNotification(pool, auth.UserID(c), goal.ID, goal.Name)
			}
			if err != nil {
				log.Printf("Не удалось записать уведомление о закрытии цели %d: %v", id, err)
			}
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":        "Взнос успешно записан",
			"contributionId": contribution.ID,
			"completed":      completed,
		})
	}
}

// GetGoalsSummaryHandler возвращает сводку по целям
func GetGoalsSummaryHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := database.GetGoalsSummary(pool, auth.UserID(c))
		if err != nil {
			log.Printf("Ошибка при получении сводки: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при получении сводки"})
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}
