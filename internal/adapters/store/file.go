package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"tg-vault-notifier/internal/domain"
)

// fileRecord — формат файла данных. Леджер повторяет форму
// {имя заметки: {таймстамп в миллисекундах: true}}.
type fileRecord struct {
	Settings          domain.Settings            `json:"settings"`
	NotificationsSent map[string]map[string]bool `json:"notificationsSent"`
}

// File хранит настройки и леджер доставки в одном JSON-файле. Файл
// перечитывается при каждом обращении, так что изменения, сохранённые через
// API настроек между сканами, видны следующему проходу. Битый или
// отсутствующий файл читается как пустая запись.
type File struct {
	path     string
	defaults domain.Settings
	mu       sync.Mutex
}

var (
	_ domain.Ledger       = (*File)(nil)
	_ domain.SettingsRepo = (*File)(nil)
)

// NewFile создаёт файловое хранилище.
func NewFile(path string, defaults domain.Settings) *File {
	return &File{path: path, defaults: defaults}
}

// Load возвращает сохранённые настройки, дополненные значениями по умолчанию.
func (f *File) Load(ctx context.Context) (domain.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record := f.read()
	return record.Settings.Merge(f.defaults), nil
}

// Save сохраняет настройки немедленно.
func (f *File) Save(ctx context.Context, settings domain.Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record := f.read()
	record.Settings = settings
	return f.write(record)
}

// Has проверяет, было ли уведомление для пары (заметка, due-инстант) уже отправлено.
func (f *File) Has(ctx context.Context, noteName string, due time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record := f.read()
	return record.NotificationsSent[noteName][instantKey(due)], nil
}

// MarkSent записывает отметку об отправке и синхронно сохраняет файл.
// Повторная отметка того же ключа — no-op.
func (f *File) MarkSent(ctx context.Context, noteName string, due time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record := f.read()
	key := instantKey(due)
	if record.NotificationsSent[noteName][key] {
		return nil
	}
	if record.NotificationsSent == nil {
		record.NotificationsSent = make(map[string]map[string]bool)
	}
	if record.NotificationsSent[noteName] == nil {
		record.NotificationsSent[noteName] = make(map[string]bool)
	}
	record.NotificationsSent[noteName][key] = true
	return f.write(record)
}

// instantKey — ключ дедупликации: абсолютный таймстамп в миллисекундах.
func instantKey(due time.Time) string {
	return strconv.FormatInt(due.UnixMilli(), 10)
}

func (f *File) read() fileRecord {
	var record fileRecord
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return record
	}
	if err := json.Unmarshal(raw, &record); err != nil {
		// повреждённый файл заменяется пустой записью
		return fileRecord{}
	}
	return record
}

// write сохраняет запись атомарно: во временный файл с переименованием,
// чтобы падение процесса посреди записи не испортило леджер.
func (f *File) write(record fileRecord) error {
	raw, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("сериализация данных: %w", err)
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("создание каталога данных: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "notifier-*.json")
	if err != nil {
		return fmt.Errorf("временный файл: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("запись данных: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("закрытие временного файла: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("замена файла данных: %w", err)
	}
	return nil
}
