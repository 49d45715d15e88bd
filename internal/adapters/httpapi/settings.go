package httpapi

import (
	"encoding/json"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"tg-vault-notifier/internal/domain"
)

// SettingsHandler — поверхность конфигурации для UI хоста: чтение и правка
// настроек. Каждое изменение сохраняется немедленно, следующий скан его видит.
type SettingsHandler struct {
	repo domain.SettingsRepo
	log  zerolog.Logger
}

// NewSettingsHandler создаёт обработчик настроек.
func NewSettingsHandler(repo domain.SettingsRepo, logger zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{repo: repo, log: logger}
}

// Register вешает маршруты настроек на роутер.
func (h *SettingsHandler) Register(r chi.Router) {
	r.Get("/settings", h.get)
	r.Put("/settings", h.update)
}

// settingsView не отдаёт токен наружу, только факт его наличия.
type settingsView struct {
	TokenSet         bool   `json:"telegramTokenSet"`
	TelegramChatID   string `json:"telegramChatId"`
	ScheduleProperty string `json:"fileScheduleProperty"`
	SchedulePrefix   string `json:"fileSchedulePrefix"`
	NotifyTime       string `json:"notifyTime"`
	Configured       bool   `json:"configured"`
}

// settingsPatch — частичное обновление: присутствующие поля перезаписываются.
type settingsPatch struct {
	TelegramToken    *string `json:"telegramToken"`
	TelegramChatID   *string `json:"telegramChatId"`
	ScheduleProperty *string `json:"fileScheduleProperty"`
	SchedulePrefix   *string `json:"fileSchedulePrefix"`
	NotifyTime       *string `json:"notifyTime"`
}

func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.repo.Load(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("не удалось загрузить настройки")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.respond(w, settings)
}

func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var patch settingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	settings, err := h.repo.Load(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("не удалось загрузить настройки")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if patch.TelegramToken != nil {
		settings.TelegramToken = *patch.TelegramToken
	}
	if patch.TelegramChatID != nil {
		settings.TelegramChatID = *patch.TelegramChatID
	}
	if patch.ScheduleProperty != nil {
		settings.ScheduleProperty = *patch.ScheduleProperty
	}
	if patch.SchedulePrefix != nil {
		settings.SchedulePrefix = *patch.SchedulePrefix
	}
	if patch.NotifyTime != nil {
		settings.NotifyTime = *patch.NotifyTime
	}

	if err := h.repo.Save(r.Context(), settings); err != nil {
		h.log.Error().Err(err).Msg("не удалось сохранить настройки")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.respond(w, settings)
}

func (h *SettingsHandler) respond(w http.ResponseWriter, settings domain.Settings) {
	view := settingsView{
		TokenSet:         settings.TelegramToken != "",
		TelegramChatID:   settings.TelegramChatID,
		ScheduleProperty: settings.ScheduleProperty,
		SchedulePrefix:   settings.SchedulePrefix,
		NotifyTime:       settings.NotifyTime,
		Configured:       settings.IsConfigured(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(view); err != nil {
		h.log.Error().Err(err).Msg("не удалось записать ответ")
	}
}
