package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/auth"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

// RegisterHandler регистрирует нового пользователя
func RegisterHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный формат данных"})
			return
		}

		if req.Username == "" || req.Email == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Все поля обязательны"})
			return
		}
		if len(req.Password) < 6 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Пароль должен содержать не менее 6 символов"})
			return
		}

		user := models.User{Username: req.Username, Email: req.Email, Password: req.Password}
		if err := database.RegisterUser(pool, &user); err != nil {
			if errors.Is(err, database.ErrDuplicateName) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Пользователь или почта уже существуют"})
				return
			}
			log.Printf("Ошибка при регистрации пользователя: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка регистрации"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Пользователь успешно зарегистрирован",
			"userId":  user.ID,
		})
	}
}

// LoginHandler проверяет учетные данные и выдает токен
func LoginHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Почта и пароль обязательны"})
			return
		}

		user, err := database.AuthenticateUser(pool, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"message": "Неверные учетные данные"})
				return
			}
			log.Printf("Ошибка при входе: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка сервера"})
			return
		}

		token, err := auth.GenerateToken(user.ID)
		if err != nil {
			log.Printf("Ошибка выпуска токена: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка сервера"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Вход выполнен",
			"token":   token,
			"user":    user,
		})
	}
}

// GetProfileHandler возвращает профиль текущего пользователя
func GetProfileHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := database.GetUserByID(pool, auth.UserID(c))
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Пользователь не найден"})
				return
			}
			log.Printf("Ошибка при получении профиля: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при получении профиля"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
