package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"tg-vault-notifier/internal/domain"
)

func testPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "notifier.json")
}

func TestMarkSentAndHas(t *testing.T) {
	f := NewFile(testPath(t), domain.Settings{})
	due := time.Date(2024, time.January, 1, 6, 0, 0, 0, time.UTC)

	has, err := f.Has(context.Background(), "Taxes", due)
	if err != nil || has {
		t.Fatalf("пустой леджер не должен содержать ключей: has=%v err=%v", has, err)
	}

	if err := f.MarkSent(context.Background(), "Taxes", due); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	has, err = f.Has(context.Background(), "Taxes", due)
	if err != nil || !has {
		t.Fatalf("после MarkSent ключ должен существовать: has=%v err=%v", has, err)
	}

	// другая дата той же заметки — другой ключ
	other := due.Add(24 * time.Hour)
	if has, _ := f.Has(context.Background(), "Taxes", other); has {
		t.Fatal("соседняя дата не должна считаться отправленной")
	}
}

func TestMarkSentIdempotent(t *testing.T) {
	f := NewFile(testPath(t), domain.Settings{})
	due := time.Date(2024, time.January, 1, 6, 0, 0, 0, time.UTC)

	if err := f.MarkSent(context.Background(), "Taxes", due); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if err := f.MarkSent(context.Background(), "Taxes", due); err != nil {
		t.Fatalf("повторная отметка должна быть no-op: %v", err)
	}
	if has, _ := f.Has(context.Background(), "Taxes", due); !has {
		t.Fatal("ключ должен остаться после повторной отметки")
	}
}

func TestLedgerPersistedShape(t *testing.T) {
	path := testPath(t)
	f := NewFile(path, domain.Settings{})
	due := time.Date(2024, time.January, 1, 6, 0, 0, 0, time.UTC)
	if err := f.MarkSent(context.Background(), "Taxes", due); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("файл данных должен существовать: %v", err)
	}
	var record struct {
		NotificationsSent map[string]map[string]bool `json:"notificationsSent"`
	}
	if err := json.Unmarshal(raw, &record); err != nil {
		t.Fatalf("файл данных должен быть валидным JSON: %v", err)
	}
	key := strconv.FormatInt(due.UnixMilli(), 10)
	if !record.NotificationsSent["Taxes"][key] {
		t.Fatalf("ожидали {Taxes: {%s: true}}, получили %v", key, record.NotificationsSent)
	}
}

func TestLedgerSurvivesReopen(t *testing.T) {
	path := testPath(t)
	due := time.Date(2024, time.January, 1, 6, 0, 0, 0, time.UTC)

	first := NewFile(path, domain.Settings{})
	if err := first.MarkSent(context.Background(), "Taxes", due); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}

	second := NewFile(path, domain.Settings{})
	if has, _ := second.Has(context.Background(), "Taxes", due); !has {
		t.Fatal("отметка должна переживать перезапуск")
	}
}

func TestCorruptedFileReadAsEmpty(t *testing.T) {
	path := testPath(t)
	if err := os.WriteFile(path, []byte("{битый json"), 0o644); err != nil {
		t.Fatalf("подготовка файла: %v", err)
	}

	defaults := domain.Settings{ScheduleProperty: "scheduled", NotifyTime: "6:00"}
	f := NewFile(path, defaults)
	settings, err := f.Load(context.Background())
	if err != nil {
		t.Fatalf("битый файл должен читаться как пустая запись: %v", err)
	}
	if settings.ScheduleProperty != "scheduled" || settings.NotifyTime != "6:00" {
		t.Fatalf("ожидали настройки по умолчанию, получили %+v", settings)
	}
}

func TestSettingsSaveAndMerge(t *testing.T) {
	defaults := domain.Settings{
		ScheduleProperty: "scheduled",
		SchedulePrefix:   "📅",
		NotifyTime:       "6:00",
	}
	f := NewFile(testPath(t), defaults)

	settings, err := f.Load(context.Background())
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	settings.TelegramToken = "token"
	settings.TelegramChatID = "42"
	settings.NotifyTime = "9:30"
	if err := f.Save(context.Background(), settings); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}

	loaded, err := f.Load(context.Background())
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if loaded.TelegramToken != "token" || loaded.NotifyTime != "9:30" {
		t.Fatalf("сохранённые поля потеряны: %+v", loaded)
	}
	if loaded.ScheduleProperty != "scheduled" || loaded.SchedulePrefix != "📅" {
		t.Fatalf("пустые поля должны заполняться умолчаниями: %+v", loaded)
	}
	if !loaded.IsConfigured() {
		t.Fatal("после заполнения токена и чата настройки считаются полными")
	}
}

func TestSettingsSaveKeepsLedger(t *testing.T) {
	f := NewFile(testPath(t), domain.Settings{})
	due := time.Date(2024, time.January, 1, 6, 0, 0, 0, time.UTC)
	if err := f.MarkSent(context.Background(), "Taxes", due); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}

	if err := f.Save(context.Background(), domain.Settings{TelegramToken: "t"}); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if has, _ := f.Has(context.Background(), "Taxes", due); !has {
		t.Fatal("сохранение настроек не должно стирать леджер")
	}
}
