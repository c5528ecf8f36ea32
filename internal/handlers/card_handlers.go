package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/auth"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

// GetCardsHandler возвращает все карты пользователя
func GetCardsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		cards, err := database.GetAllCards(pool, auth.UserID(c))
		if err != nil {
			log.Printf("Ошибка при получении карт: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при получении карт"})
			return
		}
		c.JSON(http.StatusOK, cards)
	}
}

// GetCardHandler возвращает одну карту пользователя
func GetCardHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный идентификатор карты"})
			return
		}
		card, err := database.GetCardByID(pool, id, auth.UserID(c))
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Карта не найдена"})
				return
			}
			log.Printf("Ошибка при получении карты: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при получении карты"})
			return
		}
		c.JSON(http.StatusOK, card)
	}
}

// CreateCardHandler добавляет новую карту
func CreateCardHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			CardName string `json:"card_name"`
			CardType string `json:"card_type"`
			BankName string `json:"bank_name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный формат данных"})
			return
		}
		if req.CardName == "" || req.CardType == "" || req.BankName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Все поля обязательны"})
			return
		}
		if !models.ValidCardType(req.CardType) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Недопустимый тип карты"})
			return
		}

		card := models.Card{
			UserID:   auth.UserID(c),
			CardName: req.CardName,
			CardType: req.CardType,
			BankName: req.BankName,
		}
		if err := database.CreateCard(pool, &card); err != nil {
			log.Printf("Ошибка при добавлении карты: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при добавлении карты"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Карта успешно добавлена",
			"cardId":  card.ID,
		})
	}
}

// UpdateCardHandler обновляет данные карты (баланс не трогает)
func UpdateCardHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный идентификатор карты"})
			return
		}
		var req struct {
			CardName string `json:"card_name"`
			CardType string `json:"card_type"`
			BankName string `json:"bank_name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный формат данных"})
			return
		}
		if req.CardName == "" || req.CardType == "" || req.BankName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Все поля обязательны"})
			return
		}
		if !models.ValidCardType(req.CardType) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Недопустимый тип карты"})
			return
		}

		card := models.Card{
			ID:       id,
			UserID:   auth.UserID(c),
			CardName: req.CardName,
			CardType: req.CardType,
			BankName: req.BankName,
		}
		if err := database.UpdateCard(pool, &card); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Карта не найдена"})
				return
			}
			log.Printf("Ошибка обновления карты: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка обновления карты"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Карта успешно обновлена"})
	}
}

// DeleteCardHandler удаляет карту
func DeleteCardHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный идентификатор карты"})
			return
		}
		if err := database.DeleteCard(pool, id, auth.UserID(c)); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Карта не найдена"})
				return
			}
			log.Printf("Ошибка удаления карты: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка удаления карты"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Карта успешно удалена"})
	}
}

// AddCardBalanceHandler пополняет баланс карты
func AddCardBalanceHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный идентификатор карты"})
			return
		}
		var req struct {
			Amount float64 `json:"amount"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Сумма должна быть положительным числом"})
			return
		}

		amount := decimal.NewFromFloat(req.Amount).Round(2)
		if err := database.AddCardBalance(pool, id, auth.UserID(c), amount); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Карта не найдена"})
				return
			}
			log.Printf("Ошибка при пополнении баланса: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при пополнении баланса"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":     "Баланс успешно пополнен",
			"amountAdded": amount,
		})
	}
}

// GetTotalBalanceHandler возвращает сумму балансов всех карт
func GetTotalBalanceHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		total, err := database.GetTotalBalance(pool, auth.UserID(c))
		if err != nil {
			log.Printf("Ошибка при подсчете общего баланса: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при подсчете общего баланса"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"total": total.StringFixed(2)})
	}
}
