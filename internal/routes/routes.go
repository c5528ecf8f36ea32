package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/ai"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/auth"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/handlers"
)

// SetupRouter регистрирует все маршруты API на переданном движке gin
func SetupRouter(r *gin.Engine, pool *pgxpool.Pool, aiClient *ai.Client) {
	api := r.Group("/api")

	// Открытые маршруты
	api.POST("/register", handlers.RegisterHandler(pool))
	api.POST("/login", handlers.LoginHandler(pool))

	// Все остальные маршруты требуют токен
	protected := api.Group("")
	protected.Use(auth.VerifyToken())

	protected.GET("/profile", handlers.GetProfileHandler(pool))
	protected.GET("/profile/stats", handlers.GetProfileStatsHandler(pool))
	protected.GET("/profile/activity", handlers.GetRecentActivityHandler(pool))
	protected.PUT("/profile/update", handlers.UpdateProfileHandler(pool))
	protected.PUT("/profile/change-password", handlers.ChangePasswordHandler(pool))
	protected.DELETE("/profile/delete-account", handlers.DeleteAccountHandler(pool))

	protected.GET("/cards", handlers.GetCardsHandler(pool))
	protected.GET("/total-balance", handlers.GetTotalBalanceHandler(pool))
	protected.GET("/cards/:id", handlers.GetCardHandler(pool))
	protected.POST("/cards", handlers.CreateCardHandler(pool))
	protected.PUT("/cards/:id", handlers.UpdateCardHandler(pool))
	protected.DELETE("/cards/:id", handlers.DeleteCardHandler(pool))
	protected.POST("/cards/:id/add-balance", handlers.AddCardBalanceHandler(pool))

	protected.GET("/transactions", handlers.GetTransactionsHandler(pool))
	protected.GET("/transactions/:id", handlers.GetTransactionHandler(pool))
	protected.POST("/transactions", handlers.CreateTransactionHandler(pool))
	protected.PUT("/transactions/:id", handlers.UpdateTransactionHandler(pool))
	protected.DELETE("/transactions/:id", handlers.DeleteTransactionHandler(pool))

	protected.GET("/savings-goals", handlers.GetGoalsHandler(pool))
	protected.GET("/savings-goals/summary/stats", handlers.GetGoalsSummaryHandler(pool))
	protected.GET("/savings-goals/:id", handlers.GetGoalHandler(pool))
	protected.POST("/savings-goals", handlers.CreateGoalHandler(pool))
	protected.PUT("/savings-goals/:id", handlers.UpdateGoalHandler(pool))
	protected.DELETE("/savings-goals/:id", handlers.DeleteGoalHandler(pool))
	protected.POST("/savings-goals/:id/contribute", handlers.ContributeHandler(pool))

	protected.GET("/user-categories", handlers.GetCategoriesHandler(pool))
	protected.GET("/user-categories/stats/usage", handlers.GetCategoryUsageHandler(pool))
	protected.GET("/user-categories/:id", handlers.GetCategoryHandler(pool))
	protected.POST("/user-categories", handlers.CreateCategoryHandler(pool))
	protected.PUT("/user-categories/:id", handlers.UpdateCategoryHandler(pool))
	protected.DELETE("/user-categories/:id", handlers.DeleteCategoryHandler(pool))

	protected.GET("/notifications", handlers.GetNotificationsHandler(pool))
	protected.GET("/notifications/unread/count", handlers.GetUnreadCountHandler(pool))
	protected.PUT("/notifications/read-all", handlers.MarkAllNotificationsReadHandler(pool))
	protected.PUT("/notifications/:id/read", handlers.MarkNotificationReadHandler(pool))

	protected.GET("/analytics/expenses-by-day", handlers.GetExpensesByDayHandler(pool))
	protected.GET("/analytics/expenses-by-category", handlers.GetExpensesByCategoryHandler(pool))
	protected.GET("/analytics/expenses-by-month", handlers.GetExpensesByMonthHandler(pool))
	protected.GET("/analytics/weekly-comparison", handlers.GetWeeklyComparisonHandler(pool))
	protected.GET("/analytics/period-summary", handlers.GetPeriodSummaryHandler(pool))
	protected.GET("/analytics/trend", handlers.GetTrendHandler(pool))

	protected.POST("/ai/analyze-receipt", handlers.AnalyzeReceiptHandler(pool, aiClient))
	protected.POST("/ai/chat-finance", handlers.ChatFinanceHandler(pool, aiClient))
	protected.POST("/ai/add-transaction", handlers.AddScannedTransactionHandler(pool))
}
