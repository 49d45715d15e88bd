package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tg-vault-notifier/internal/domain"
)

// Postgres реализует леджер доставки и хранилище настроек поверх pgxpool.
// Используется, когда сервис разворачивают с общей БД вместо локального файла.
type Postgres struct {
	pool     *pgxpool.Pool
	defaults domain.Settings
}

var (
	_ domain.Ledger       = (*Postgres)(nil)
	_ domain.SettingsRepo = (*Postgres)(nil)
)

// NewPostgres создаёт адаптер БД.
func NewPostgres(pool *pgxpool.Pool, defaults domain.Settings) *Postgres {
	return &Postgres{pool: pool, defaults: defaults}
}

func (p *Postgres) connCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), 5*time.Second)
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, 5*time.Second)
}

// EnsureSchema создаёт таблицы, если их ещё нет.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()
	_, err := p.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS notifications_sent (
    note_name text        NOT NULL,
    due_at    timestamptz NOT NULL,
    sent_at   timestamptz NOT NULL DEFAULT now(),
    PRIMARY KEY (note_name, due_at)
);
CREATE TABLE IF NOT EXISTS notifier_settings (
    id   smallint PRIMARY KEY DEFAULT 1 CHECK (id = 1),
    data jsonb NOT NULL
);`)
	if err != nil {
		return fmt.Errorf("создание схемы: %w", err)
	}
	return nil
}

// Has проверяет отметку об отправке для пары (заметка, due-инстант).
func (p *Postgres) Has(ctx context.Context, noteName string, due time.Time) (bool, error) {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()
	var exists bool
	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM notifications_sent WHERE note_name = $1 AND due_at = $2)`,
		noteName, due).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("чтение леджера: %w", err)
	}
	return exists, nil
}

// MarkSent записывает отметку об отправке; повторная запись того же ключа — no-op.
func (p *Postgres) MarkSent(ctx context.Context, noteName string, due time.Time) error {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()
	_, err := p.pool.Exec(ctx,
		`INSERT INTO notifications_sent (note_name, due_at) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		noteName, due)
	if err != nil {
		return fmt.Errorf("запись в леджер: %w", err)
	}
	return nil
}

// Load возвращает сохранённые настройки, дополненные значениями по умолчанию.
// Отсутствующая или нечитаемая запись означает настройки по умолчанию.
func (p *Postgres) Load(ctx context.Context) (domain.Settings, error) {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()
	var raw []byte
	err := p.pool.QueryRow(ctx, `SELECT data FROM notifier_settings WHERE id = 1`).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return p.defaults, nil
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("чтение настроек: %w", err)
	}
	var settings domain.Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return p.defaults, nil
	}
	return settings.Merge(p.defaults), nil
}

// Save сохраняет настройки немедленно.
func (p *Postgres) Save(ctx context.Context, settings domain.Settings) error {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("сериализация настроек: %w", err)
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO notifier_settings (id, data) VALUES (1, $1)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`,
		raw)
	if err != nil {
		return fmt.Errorf("сохранение настроек: %w", err)
	}
	return nil
}
