package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/auth"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
)

// GetNotificationsHandler возвращает последние уведомления пользователя
func GetNotificationsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		notifications, err := database.GetNotificationsByUserID(pool, auth.UserID(c))
		if err != nil {
			log.Printf("Ошибка при получении уведомлений: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при получении уведомлений"})
			return
		}
		c.JSON(http.StatusOK, notifications)
	}
}

// MarkNotificationReadHandler отмечает уведомление прочитанным
func MarkNotificationReadHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный идентификатор уведомления"})
			return
		}
		if err := database.MarkNotificationAsRead(pool, id, auth.UserID(c)); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Уведомление не найдено"})
				return
			}
			log.Printf("Ошибка при обновлении уведомления: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при обновлении уведомления"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Уведомление отмечено прочитанным"})
	}
}

// MarkAllNotificationsReadHandler отмечает все уведомления прочитанными
func MarkAllNotificationsReadHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := database.MarkAllNotificationsAsRead(pool, auth.UserID(c)); err != nil {
			log.Printf("Ошибка при обновлении уведомлений: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при обновлении уведомлений"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Все уведомления отмечены прочитанными"})
	}
}

// GetUnreadCountHandler возвращает число непрочитанных уведомлений
func GetUnreadCountHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := database.CountUnreadNotifications(pool, auth.UserID(c))
		if err != nil {
			log.Printf("Ошибка при подсчете уведомлений: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при подсчете уведомлений"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})
	}
}
