package domain

import (
	"context"
	"time"
)

// Vault предоставляет доступ к коллекции заметок хоста.
type Vault interface {
	ListNotes(ctx context.Context) ([]NoteInfo, error)
	ReadNote(ctx context.Context, note NoteInfo) (string, error)
}

// Ledger хранит отметки об отправленных уведомлениях по ключу (заметка, due-инстант).
// Записанный ключ живёт вечно: даты не переиспользуются, чистка не нужна.
type Ledger interface {
	Has(ctx context.Context, noteName string, due time.Time) (bool, error)
	// MarkSent сохраняет отметку синхронно и идемпотентно: повторный вызов
	// с тем же ключом — no-op.
	MarkSent(ctx context.Context, noteName string, due time.Time) error
}

// SettingsRepo загружает и сохраняет настройки. Load обращается к хранилищу
// при каждом вызове, чтобы скан видел изменения, сделанные через API настроек.
type SettingsRepo interface {
	Load(ctx context.Context) (Settings, error)
	Save(ctx context.Context, settings Settings) error
}

// Sender отправляет готовый текст во внешний канал доставки.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Notifier доставляет накопленные за скан уведомления и фиксирует их в леджере.
type Notifier interface {
	Deliver(ctx context.Context, batch []NoteSchedule) error
}

// Cache используется для простых TTL-хранилищ.
type Cache interface {
	Set(key string, value []byte, ttl time.Duration) error
	Get(key string) ([]byte, error)
}
