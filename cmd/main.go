package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/ai"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/routes"
)

func scheduleOverdueGoalCheck(pool *pgxpool.Pool) {
	c := cron.New()
	_, err := c.AddFunc("@daily", func() {
		if err := database.NotifyOverdueGoals(pool); err != nil {
			log.Printf("Ошибка проверки просроченных целей: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Ошибка настройки CRON-задачи проверки целей: %v", err)
	}
	c.Start()
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Файл .env не найден, используются переменные окружения")
	}

	pool, err := database.ConnectDB()
	if err != nil {
		log.Fatalf("Ошибка подключения к БД: %v", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(pool); err != nil {
		log.Fatalf("Ошибка инициализации схемы БД: %v", err)
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	aiClient := ai.NewClient()
	routes.SetupRouter(r, pool, aiClient)

	scheduleOverdueGoalCheck(pool)

	// Разовая проверка при старте, чтобы не ждать ночного запуска
	if err := database.NotifyOverdueGoals(pool); err != nil {
		log.Printf("Ошибка проверки просроченных целей при старте: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3002"
	}
	log.Printf("Сервер запущен на порту %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
