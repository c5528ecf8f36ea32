package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/auth"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

// GetProfileStatsHandler возвращает сводные показатели профиля
func GetProfileStatsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := database.GetProfileStats(pool, auth.UserID(c))
		if err != nil {
			log.Printf("Ошибка при получении статистики профиля: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при получении статистики"})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// GetRecentActivityHandler возвращает последние действия пользователя
func GetRecentActivityHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		activity, err := database.GetRecentActivity(pool, auth.UserID(c))
		if err != nil {
			log.Printf("Ошибка при получении активности: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при получении активности"})
			return
		}
		c.JSON(http.StatusOK, activity)
	}
}

// UpdateProfileHandler обновляет имя пользователя и email
func UpdateProfileHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Username string `json:"username"`
			Email    string `json:"email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный формат данных"})
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		req.Email = strings.TrimSpace(req.Email)
		if req.Username == "" || req.Email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Имя пользователя и email обязательны"})
			return
		}

		user := models.User{
			ID:       auth.UserID(c),
			Username: req.Username,
			Email:    req.Email,
		}
		if err := database.UpdateUserProfile(pool, &user); err != nil {
			switch {
			case errors.Is(err, database.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"message": "Пользователь не найден"})
			case errors.Is(err, database.ErrDuplicateName):
				c.JSON(http.StatusBadRequest, gin.H{"message": "Имя пользователя или email уже заняты"})
			default:
				log.Printf("Ошибка обновления профиля: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка обновления профиля"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Профиль успешно обновлен", "user": user})
	}
}

// ChangePasswordHandler меняет пароль после проверки текущего
func ChangePasswordHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			CurrentPassword string `json:"currentPassword"`
			NewPassword     string `json:"newPassword"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный формат данных"})
			return
		}
		if req.CurrentPassword == "" || req.NewPassword == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Текущий и новый пароли обязательны"})
			return
		}
		if len(req.NewPassword) < 6 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Пароль должен содержать минимум 6 символов"})
			return
		}

		if err := database.ChangeUserPassword(pool, auth.UserID(c), req.CurrentPassword, req.NewPassword); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"message": "Неверный текущий пароль"})
				return
			}
			log.Printf("Ошибка смены пароля: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка смены пароля"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Пароль успешно изменен"})
	}
}

// DeleteAccountHandler удаляет учетную запись со всеми данными
func DeleteAccountHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := database.DeleteUserAccount(pool, auth.UserID(c)); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Пользователь не найден"})
				return
			}
			log.Printf("Ошибка удаления аккаунта: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка удаления аккаунта"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Аккаунт успешно удален"})
	}
}
