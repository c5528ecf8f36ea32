package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"
)

// ReceiptData — данные, извлеченные из фотографии чека. Любое поле может
// быть восстановлено из значений по умолчанию, если модель его не вернула.
type ReceiptData struct {
	Amount      float64  `json:"amount"`
	Date        string   `json:"date"`
	Category    string   `json:"category"`
	Products    []string `json:"products"`
	Description string   `json:"description"`
}

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

const receiptPromptTemplate = `Проанализируй это изображение чека.

ТВОЯ ЗАДАЧА — ИЗВЛЕЧЬ ДАННЫЕ ДЛЯ ЗАПИСИ РАСХОДА.

Инструкции:
1. **Сумма (amount)**: найди ИТОГОВУЮ оплаченную сумму.
2. **Дата (date)**: найди дату. Приведи её к формату ISO "YYYY-MM-DD". ЕСЛИ ДАТЫ НЕТ, ИСПОЛЬЗУЙ СЕГОДНЯШНЮЮ: "%s".
3. **Категория (category)**: выбери наиболее подходящую из списка: [%s]. Если ничего не подходит, используй "Прочее".
4. **Описание (description)**: СТРОГО В ТАКОМ ФОРМАТЕ:
   покупка в "НАЗВАНИЕ_МАГАЗИНА" "КРАТКИЙ_СПИСОК_ТОВАРОВ"
   Пример: покупка в "Пятёрочке" "Молоко, Хлеб"

Ответь ТОЛЬКО плоским JSON:
{
  "amount": 0.00,
  "date": "YYYY-MM-DD",
  "category": "Выбранная категория",
  "products": ["товар1", "товар2"],
  "description": "покупка в \"Магазин\" \"товар1, товар2\""
}`

// AnalyzeReceipt распознает чек по изображению. Никогда не возвращает
// ошибку наружу: при недоступной модели или мусорном ответе отдаются
// значения по умолчанию (нулевая сумма, сегодняшняя дата, «Прочее»).
func (c *Client) AnalyzeReceipt(ctx context.Context, imageData []byte, mimeType string, categories []string) ReceiptData {
	today := time.Now().Format("2006-01-02")

	categoriesList := "Питание, Покупки, Образование, Развлечения, Питомцы, Услуги, Транспорт, Прочее"
	if len(categories) > 0 {
		quoted := make([]string, len(categories))
		for i, name := range categories {
			quoted[i] = `"` + name + `"`
		}
		categoriesList = strings.Join(quoted, ", ")
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageData))
	messages := []Message{
		{
			Role: "user",
			Content: []interface{}{
				TextPart{Type: "text", Text: fmt.Sprintf(receiptPromptTemplate, today, categoriesList)},
				ImagePart{Type: "image_url", ImageURL: ImageURL{URL: dataURL}},
			},
		},
	}

	var parsed ReceiptData
	raw, err := c.Chat(ctx, messages, 0.1)
	if err != nil {
		log.Printf("Ошибка распознавания чека: %v", err)
	} else if err := json.Unmarshal([]byte(CleanJSONResponse(raw)), &parsed); err != nil {
		log.Printf("Не удалось разобрать JSON от модели: %s", raw)
	}

	// Фоллбэки: распознавание не должно ронять запрос
	if parsed.Amount < 0 {
		parsed.Amount = 0
	}
	if parsed.Date == "" || parsed.Date == "null" || !isoDateRe.MatchString(parsed.Date) {
		if t, err := time.Parse(time.RFC3339, parsed.Date); err == nil {
			parsed.Date = t.Format("2006-01-02")
		} else {
			parsed.Date = today
		}
	}
	if parsed.Category == "" {
		parsed.Category = "Прочее"
	}
	if parsed.Products == nil {
		parsed.Products = []string{}
	}
	if parsed.Description == "" {
		products := "Разное"
		if len(parsed.Products) > 0 {
			products = strings.Join(parsed.Products, ", ")
		}
		parsed.Description = fmt.Sprintf("покупка в %q %q", "Магазин", products)
	}

	return parsed
}

// FinanceContext — данные пользователя за последние 30 дней,
// передаваемые модели как контекст для ответа
type FinanceContext struct {
	SummaryByCategory  interface{} `json:"summary_by_category"`
	RecentTransactions interface{} `json:"recent_transactions"`
}

const chatFallbackReply = "Извините, не удалось обработать ваш запрос."

// ChatFinance отвечает на вопрос пользователя о его финансах. При любой
// ошибке модели возвращается ответ-заглушка, а не ошибка.
func (c *Client) ChatFinance(ctx context.Context, question string, data FinanceContext) string {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("Ошибка сериализации контекста для модели: %v", err)
		return chatFallbackReply
	}

	messages := []Message{
		{Role: "system", Content: "Ты финансовый аналитик. Отвечай по предоставленным JSON-данным."},
		{Role: "system", Content: string(payload)},
		{Role: "user", Content: question},
	}

	reply, err := c.Chat(ctx, messages, 0.2)
	if err != nil {
		log.Printf("Ошибка финансового чата: %v", err)
		return chatFallbackReply
	}
	return reply
}
