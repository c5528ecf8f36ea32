package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// Client — клиент OpenAI-совместимого чат-эндпоинта (локальная
// vision/language-модель). Все вызовы ограничены по времени и никогда не
// должны блокировать или ломать операции журнала: при любой ошибке
// вызывающий код подставляет деградированный ответ по умолчанию.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// Message — сообщение чата. Content может быть строкой или массивом
// частей (текст + изображение) для vision-запросов.
type Message struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

// TextPart и ImagePart — части мультимодального сообщения
type TextPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type ImagePart struct {
	Type     string   `json:"type"`
	ImageURL ImageURL `json:"image_url"`
}

type ImageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewClient собирает клиент из переменных окружения AI_API_URL и AI_MODEL
func NewClient() *Client {
	baseURL := os.Getenv("AI_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:1234/v1/chat/completions"
	}
	model := os.Getenv("AI_MODEL")
	if model == "" {
		model = "qwen/qwen2.5-vl-7b"
	}
	return &Client{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

// Chat отправляет сообщения модели и возвращает текст ответа
func (c *Client) Chat(ctx context.Context, messages []Message, temperature float64) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   2048,
	})
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации запроса к модели: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ошибка создания запроса к модели: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("модель недоступна: %v", err)
	}
	defer resp.Body.Close()

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("ошибка разбора ответа модели: %v", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("пустой ответ модели")
	}

	return parsed.Choices[0].Message.Content, nil
}

// CleanJSONResponse убирает обрамление из ответа модели: кодовые блоки
// и текст вокруг первого JSON-объекта
func CleanJSONResponse(text string) string {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```JSON", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	first := strings.Index(cleaned, "{")
	last := strings.LastIndex(cleaned, "}")
	if first != -1 && last != -1 && last > first {
		cleaned = cleaned[first : last+1]
	}
	return cleaned
}
