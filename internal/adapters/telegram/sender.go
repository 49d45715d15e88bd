package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"tg-vault-notifier/internal/domain"
)

const defaultBaseURL = "https://api.telegram.org"

// Sender доставляет сообщения через Bot API методом sendMessage: GET с
// параметрами chat_id, text и parse_mode=MarkdownV2, успех — поле ok в
// JSON-ответе. Токен и chat_id перечитываются из настроек на каждую отправку,
// чтобы их смена через API настроек действовала без перезапуска.
type Sender struct {
	httpClient *http.Client
	baseURL    string
	settings   domain.SettingsRepo
	log        zerolog.Logger
}

var _ domain.Sender = (*Sender)(nil)

// NewSender создаёт адаптер доставки.
func NewSender(settings domain.SettingsRepo, logger zerolog.Logger) *Sender {
	return &Sender{
		// клиент без таймаута: зависший вызов задерживает текущий скан,
		// параллельный скан всё равно не стартует
		httpClient: &http.Client{},
		baseURL:    defaultBaseURL,
		settings:   settings,
		log:        logger,
	}
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send отправляет текст и дожидается ответа Bot API.
func (s *Sender) Send(ctx context.Context, text string) error {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return fmt.Errorf("загрузка настроек: %w", err)
	}

	query := url.Values{}
	query.Set("chat_id", settings.TelegramChatID)
	query.Set("text", text)
	query.Set("parse_mode", "MarkdownV2")
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage?%s", s.baseURL, settings.TelegramToken, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("построение запроса: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("вызов sendMessage: %w", err)
	}
	defer resp.Body.Close()

	var result sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("разбор ответа Bot API: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("Bot API отклонил сообщение: %s", result.Description)
	}
	s.log.Debug().Int("status", resp.StatusCode).Msg("сообщение принято Bot API")
	return nil
}
