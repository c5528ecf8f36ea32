package utils

import (
	"log"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

var sampleCategories = []string{
	"Питание", "Покупки", "Образование", "Развлечения",
	"Питомцы", "Услуги", "Транспорт", "Прочее",
}

var sampleBanks = []string{"Сбербанк", "Тинькофф", "Альфа-Банк", "ВТБ"}

// GenerateTestUsers создает тестовых пользователей и возвращает их id
func GenerateTestUsers(pool *pgxpool.Pool, numUsers int) []int {
	ids := make([]int, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user := &models.User{
			Username: gofakeit.Username(),
			Email:    gofakeit.Email(),
			Password: gofakeit.Password(true, true, true, false, false, 8),
		}
		if err := database.RegisterUser(pool, user); err != nil {
			log.Fatalf("ошибка при добавлении пользователя: %v", err)
		}
		ids = append(ids, user.ID)
	}
	return ids
}

// GenerateTestCards создает карты с начальным балансом для каждого пользователя
func GenerateTestCards(pool *pgxpool.Pool, userIDs []int, cardsPerUser int) {
	for _, userID := range userIDs {
		for i := 0; i < cardsPerUser; i++ {
			cardType := models.CardTypeDebit
			if rand.Intn(2) == 0 {
				cardType = models.CardTypeCredit
			}
			card := &models.Card{
				UserID:   userID,
				CardName: gofakeit.Word(),
				CardType: cardType,
				BankName: sampleBanks[rand.Intn(len(sampleBanks))],
			}
			if err := database.CreateCard(pool, card); err != nil {
				log.Fatalf("ошибка при добавлении карты: %v", err)
			}
			initial := decimal.NewFromFloat(gofakeit.Price(1000, 50000)).Round(2)
			if err := database.AddCardBalance(pool, card.ID, userID, initial); err != nil {
				log.Fatalf("ошибка при пополнении карты: %v", err)
			}
		}
	}
}

// GenerateTestTransactions создает расходы за последние 30 дней
func GenerateTestTransactions(pool *pgxpool.Pool, userIDs []int, perUser int) {
	for _, userID := range userIDs {
		cards, err := database.GetAllCards(pool, userID)
		if err != nil {
			log.Fatalf("ошибка при получении карт: %v", err)
		}
		for i := 0; i < perUser; i++ {
			transaction := &models.Transaction{
				UserID:          userID,
				Amount:          decimal.NewFromFloat(gofakeit.Price(50, 3000)).Round(2),
				Type:            models.TransactionTypeExpense,
				Category:        sampleCategories[rand.Intn(len(sampleCategories))],
				Description:     gofakeit.Sentence(4),
				TransactionDate: time.Now().AddDate(0, 0, -rand.Intn(30)),
			}
			if len(cards) > 0 && rand.Intn(4) != 0 {
				transaction.CardID = &cards[rand.Intn(len(cards))].ID
			}
			if err := database.RecordExpense(pool, transaction); err != nil {
				// При недостатке средств просто пропускаем запись
				log.Printf("транзакция пропущена: %v", err)
			}
		}
	}
}

// GenerateTestGoals создает цели накопления с частичными взносами
func GenerateTestGoals(pool *pgxpool.Pool, userIDs []int, perUser int) {
	for _, userID := range userIDs {
		for i := 0; i < perUser; i++ {
			deadline := time.Now().AddDate(0, rand.Intn(12)-2, 0)
			goal := &models.Goal{
				UserID:       userID,
				Name:         gofakeit.BuzzWord(),
				TargetAmount: decimal.NewFromFloat(gofakeit.Price(5000, 100000)).Round(2),
				Deadline:     &deadline,
				Description:  gofakeit.Sentence(5),
			}
			if err := database.CreateGoal(pool, goal); err != nil {
				log.Fatalf("ошибка при добавлении цели: %v", err)
			}

			contribution := &models.Contribution{
				GoalID: goal.ID,
				UserID: userID,
				Amount: goal.TargetAmount.Div(decimal.NewFromInt(int64(rand.Intn(8) + 2))).Round(2),
				Note:   "Первый взнос",
			}
			if _, err := database.ContributeToGoal(pool, contribution); err != nil {
				log.Printf("взнос пропущен: %v", err)
			}
		}
	}
}
