package handlers

import (
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/ai"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/auth"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

const maxReceiptSize = 10 << 20 // 10 МБ

// AnalyzeReceiptHandler принимает фото чека и возвращает распознанные данные
func AnalyzeReceiptHandler(pool *pgxpool.Pool, client *ai.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, header, err := c.Request.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Файл чека не предоставлен"})
			return
		}
		defer file.Close()

		if header.Size > maxReceiptSize {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Файл слишком большой (максимум 10 МБ)"})
			return
		}

		mimeType := header.Header.Get("Content-Type")
		if !strings.HasPrefix(mimeType, "image/") {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Поддерживаются только изображения"})
			return
		}

		imageData, err := io.ReadAll(file)
		if err != nil {
			log.Printf("Ошибка чтения файла чека: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка чтения файла"})
			return
		}

		categories, err := database.GetCategoryNames(pool, auth.UserID(c))
		if err != nil {
			log.Printf("Ошибка при получении категорий для распознавания: %v", err)
			categories = nil
		}

		result := client.AnalyzeReceipt(c.Request.Context(), imageData, mimeType, categories)
		c.JSON(http.StatusOK, result)
	}
}

// ChatFinanceHandler отвечает на вопрос пользователя по его финансам
func ChatFinanceHandler(pool *pgxpool.Pool, client *ai.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Question string `json:"question"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Question) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Вопрос обязателен"})
			return
		}

		userID := auth.UserID(c)
		end := time.Now()
		start := end.AddDate(0, 0, -30)

		summary, err := database.GetExpensesByCategory(pool, userID, start, end)
		if err != nil {
			log.Printf("Ошибка при сборе контекста для модели: %v", err)
			summary = nil
		}
		startDate := start
		transactions, err := database.GetTransactions(pool, userID, models.TransactionFilter{StartDate: &startDate})
		if err != nil {
			log.Printf("Ошибка при сборе транзакций для модели: %v", err)
			transactions = nil
		}
		if len(transactions) > 50 {
			transactions = transactions[:50]
		}

		reply := client.ChatFinance(c.Request.Context(), req.Question, ai.FinanceContext{
			SummaryByCategory:  summary,
			RecentTransactions: transactions,
		})
		c.JSON(http.StatusOK, gin.H{"reply": reply})
	}
}

// AddScannedTransactionHandler сохраняет транзакцию, собранную из
// распознанного чека; привязка к карте здесь не выполняется
func AddScannedTransactionHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Amount      float64 `json:"amount"`
			Category    string  `json:"category"`
			Description string  `json:"description"`
			Date        string  `json:"date"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный формат данных"})
			return
		}
		if req.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Сумма должна быть положительным числом"})
			return
		}
		if req.Category == "" {
			req.Category = "Прочее"
		}

		transactionDate := time.Now()
		if req.Date != "" {
			if parsed, err := time.Parse(dateLayout, req.Date); err == nil {
				transactionDate = parsed
			}
		}

		transaction := models.Transaction{
			UserID:          auth.UserID(c),
			Amount:          decimal.NewFromFloat(req.Amount).Round(2),
			Type:            models.TransactionTypeExpense,
			Category:        req.Category,
			Description:     req.Description,
			TransactionDate: transactionDate,
		}
		if err := database.CreateSimpleTransaction(pool, &transaction); err != nil {
			log.Printf("Ошибка при сохранении транзакции из чека: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при сохранении транзакции"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":       "Транзакция успешно добавлена",
			"transactionId": transaction.ID,
		})
	}
}
