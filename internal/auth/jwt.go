package auth

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextUserKey — ключ, под которым middleware кладет ID пользователя
// в контекст gin
const ContextUserKey = "userID"

func secret() []byte {
	s := os.Getenv("JWT_SECRET")
	if s == "" {
		s = "secret_key"
	}
	return []byte(s)
}

// GenerateToken выпускает токен на 24 часа с ID пользователя
func GenerateToken(userID int) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret())
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %v", err)
	}
	return signed, nil
}

// VerifyToken — middleware проверки bearer-токена. Все защищенные
// маршруты получают ID пользователя только отсюда, идентификатор из тела
// или параметров запроса никогда не используется.
func VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Токен не предоставлен"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Токен не предоставлен"})
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("неожиданный метод подписи: %v", t.Header["alg"])
			}
			return secret(), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Недействительный токен"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Недействительный токен"})
			return
		}
		userID, ok := claims["user_id"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Недействительный токен"})
			return
		}

		c.Set(ContextUserKey, int(userID))
		c.Next()
	}
}

// UserID достает ID пользователя, положенный middleware
func UserID(c *gin.Context) int {
	return c.GetInt(ContextUserKey)
}
