package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/auth"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
)

// periodFromQuery читает start_date/end_date из запроса,
// по умолчанию берется период за последние 30 дней
func periodFromQuery(c *gin.Context) (time.Time, time.Time) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)
	if raw := c.Query("start_date"); raw != "" {
		if parsed, err := time.Parse(dateLayout, raw); err == nil {
			start = parsed
		}
	}
	if raw := c.Query("end_date"); raw != "" {
		if parsed, err := time.Parse(dateLayout, raw); err == nil {
			end = parsed
		}
	}
	return start, end
}

func GetExpensesByDayHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		start, end := periodFromQuery(c)
		rows, err := database.GetExpensesByDay(pool, auth.UserID(c), start, end)
		if err != nil {
			log.Printf("Ошибка при получении расходов по дням: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при получении данных"})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func GetExpensesByCategoryHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		start, end := periodFromQuery(c)
		rows, err := database.GetExpensesByCategory(pool, auth.UserID(c), start, end)
		if err != nil {
			log.Printf("Ошибка при получении расходов по категориям: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при получении данных"})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func GetExpensesByMonthHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := database.GetExpensesByMonth(pool, auth.UserID(c))
		if err != nil {
			log.Printf("Ошибка при получении расходов по месяцам: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при получении данных"})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func GetWeeklyComparisonHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := database.GetWeeklyComparison(pool, auth.UserID(c))
		if err != nil {
			log.Printf("Ошибка при получении сравнения по неделям: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при получении данных"})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func GetPeriodSummaryHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		start, end := periodFromQuery(c)
		summary, err := database.GetPeriodSummary(pool, auth.UserID(c), start, end)
		if err != nil {
			log.Printf("Ошибка при получении сводки за период: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при получении данных"})
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func GetTrendHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		start, end := periodFromQuery(c)
		trend, err := database.GetTrend(pool, auth.UserID(c), start, end)
		if err != nil {
			log.Printf("Ошибка при расчете динамики расходов: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка при получении данных"})
			return
		}
		c.JSON(http.StatusOK, trend)
	}
}
