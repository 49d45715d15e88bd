package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"

	"tg-vault-notifier/internal/domain"
)

// AppConfig описывает конфигурацию сервиса.
type AppConfig struct {
	AppEnv string `envconfig:"APP_ENV" default:"dev"`
	TZ     string `envconfig:"TZ" default:"Europe/Amsterdam"`
	Port   int    `envconfig:"PORT" default:"8080"`

	VaultDir string `envconfig:"VAULT_DIR" default:"vault"`
	DataFile string `envconfig:"DATA_FILE" default:"data/notifier.json"`

	PGDSN     string `envconfig:"PG_DSN"`
	RedisAddr string `envconfig:"REDIS_ADDR"`

	Scan struct {
		Interval        time.Duration `envconfig:"SCAN_INTERVAL" default:"50s"`
		FreshnessWindow time.Duration `envconfig:"SCAN_FRESHNESS_WINDOW" default:"2m"`
	} `envconfig:""`

	Telegram struct {
		Token  string `envconfig:"TG_BOT_TOKEN"`
		ChatID string `envconfig:"TG_CHAT_ID"`
	} `envconfig:""`

	Schedule struct {
		Property   string `envconfig:"SCHEDULE_PROPERTY" default:"scheduled"`
		Prefix     string `envconfig:"SCHEDULE_PREFIX" default:"📅"`
		NotifyTime string `envconfig:"NOTIFY_TIME" default:"6:00"`
	} `envconfig:""`
}

// Load загружает конфиг из окружения.
func Load() AppConfig {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}

// DefaultSettings собирает настройки по умолчанию из окружения. Значения,
// сохранённые через API настроек, накладываются поверх них.
func (c AppConfig) DefaultSettings() domain.Settings {
	return domain.Settings{
		TelegramToken:    c.Telegram.Token,
		TelegramChatID:   c.Telegram.ChatID,
		ScheduleProperty: c.Schedule.Property,
		SchedulePrefix:   c.Schedule.Prefix,
		NotifyTime:       c.Schedule.NotifyTime,
	}
}
