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

const dateLayout = "2006-01-02"

type transactionRequest struct {
	CardID          *int    `json:"card_id"`
	Amount          float64 `json:"amount"`
	Category        string  `json:"category"`
	Description     string  `json:"description"`
	TransactionDate string  `json:"transaction_date"`
}

// CreateTransactionHandler записывает расход через движок балансов
func CreateTransactionHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req transactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный формат данных"})
			return
		}
		if req.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Сумма должна быть положительным числом"})
			return
		}
		if req.Category == "" || req.TransactionDate == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Категория и дата обязательны"})
			return
		}
		date, err := time.Parse(dateLayout, req.TransactionDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректная дата"})
			return
		}

		transaction := models.Transaction{
			UserID:          auth.UserID(c),
			CardID:          req.CardID,
			Amount:          decimal.NewFromFloat(req.Amount).Round(2),
			Category:        req.Category,
			Description:     req.Description,
			TransactionDate: date,
		}

		if err := database.RecordExpense(pool, &transaction); err != nil {
			var insufficient *database.InsufficientFundsError
			switch {
			case errors.Is(err, database.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"message": "Карта не найдена"})
			case errors.As(err, &insufficient):
				c.JSON(http.StatusBadRequest, gin.H{
					"message":        "Недостаточно средств на карте",
					"currentBalance": insufficient.CurrentBalance,
					"requiredAmount": insufficient.RequiredAmount,
				})
			default:
				log.Printf("Ошибка при записи расхода: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при записи расхода"})
			}
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":       "Расход успешно записан",
			"transactionId": transaction.ID,
		})
	}
}

// GetTransactionsHandler возвращает историю расходов с фильтрами
func GetTransactionsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.TransactionFilter
		filter.Category = c.Query("category")
		if v := c.Query("start_date"); v != "" {
			if t, err := time.Parse(dateLayout, v); err == nil {
				filter.StartDate = &t
			}
		}
		if v := c.Query("end_date"); v != "" {
			if t, err := time.Parse(dateLayout, v); err == nil {
				filter.EndDate = &t
			}
		}
		if v := c.Query("min_amount"); v != "" {
			if d, err := decimal.NewFromString(v); err == nil {
				filter.MinAmount = &d
			}
		}
		if v := c.Query("max_amount"); v != "" {
			if d, err := decimal.NewFromString(v); err == nil {
				filter.MaxAmount = &d
			}
		}

		transactions, err := database.GetTransactions(pool, auth.UserID(c), filter)
		if err != nil {
			log.Printf("Ошибка при получении истории: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при получении истории"})
			return
		}
		c.JSON(http.StatusOK, transactions)
	}
}

// GetTransactionHandler возвращает одну транзакцию
func GetTransactionHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный идентификатор транзакции"})
			return
		}
		transaction, err := database.GetTransactionByID(pool, id, auth.UserID(c))
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Транзакция не найдена"})
				return
			}
			log.Printf("Ошибка при получении транзакции: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при получении транзакции"})
			return
		}
		c.JSON(http.StatusOK, transaction)
	}
}

// UpdateTransactionHandler редактирует расход через движок балансов
func UpdateTransactionHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный идентификатор транзакции"})
			return
		}
		var req transactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный формат данных"})
			return
		}
		if req.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Сумма должна быть положительным числом"})
			return
		}
		if req.Category == "" || req.TransactionDate == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Категория и дата обязательны"})
			return
		}
		date, err := time.Parse(dateLayout, req.TransactionDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректная дата"})
			return
		}

		transaction := models.Transaction{
			ID:              id,
			UserID:          auth.UserID(c),
			Amount:          decimal.NewFromFloat(req.Amount).Round(2),
			Category:        req.Category,
			Description:     req.Description,
			TransactionDate: date,
		}

		if err := database.UpdateExpense(pool, &transaction); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Транзакция не найдена"})
				return
			}
			log.Printf("Ошибка обновления расхода: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка обновления расхода"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Расход успешно обновлен"})
	}
}

// DeleteTransactionHandler удаляет расход через движок балансов
func DeleteTransactionHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный идентификатор транзакции"})
			return
		}
		if err := database.DeleteExpense(pool, id, auth.UserID(c)); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Транзакция не найдена"})
				return
			}
			log.Printf("Ошибка удаления расхода: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка удаления расхода"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Расход успешно удален"})
	}
}
