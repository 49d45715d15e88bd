package scan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tg-vault-notifier/internal/domain"
	"tg-vault-notifier/internal/infra/metrics"
	"tg-vault-notifier/internal/usecase/extract"
)

// ErrNotConfigured возвращается, пока не заполнены обязательные настройки бота.
var ErrNotConfigured = errors.New("обязательные настройки не заполнены")

// extractCacheTTL ограничивает жизнь закэшированного результата разбора заметки.
const extractCacheTTL = 24 * time.Hour

// Service выполняет один проход сканирования хранилища: разбор дат, проверка
// условий отправки, передача результата нотификатору.
type Service struct {
	vault        domain.Vault
	settings     domain.SettingsRepo
	ledger       domain.Ledger
	notifier     domain.Notifier
	cache        domain.Cache // может быть nil
	loc          *time.Location
	freshness    time.Duration
	log          zerolog.Logger
	now          func() time.Time
	configNotice atomic.Bool
}

// NewService создаёт сервис сканирования. cache опционален: без него каждая
// заметка разбирается заново на каждом проходе.
func NewService(vault domain.Vault, settings domain.SettingsRepo, ledger domain.Ledger, notifier domain.Notifier, cache domain.Cache, loc *time.Location, freshness time.Duration, logger zerolog.Logger) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		vault:     vault,
		settings:  settings,
		ledger:    ledger,
		notifier:  notifier,
		cache:     cache,
		loc:       loc,
		freshness: freshness,
		log:       logger,
		now:       time.Now,
	}
}

// RunScan обходит заметки в порядке выдачи хранилища. Ошибка на одной заметке
// не прерывает проход: заметка пропускается, скан продолжается.
func (s *Service) RunScan(ctx context.Context) error {
	started := s.now()

	settings, err := s.settings.Load(ctx)
	if err != nil {
		return fmt.Errorf("загрузка настроек: %w", err)
	}
	if !settings.IsConfigured() {
		if s.configNotice.CompareAndSwap(false, true) {
			s.log.Warn().Msg("сканирование отключено: заполните настройки бота")
		}
		return ErrNotConfigured
	}

	notes, err := s.vault.ListNotes(ctx)
	if err != nil {
		return fmt.Errorf("список заметок: %w", err)
	}

	scanLog := s.log.With().Str("scan_id", uuid.NewString()).Logger()
	now := s.now()
	var batch []domain.NoteSchedule
	for _, note := range notes {
		metrics.NotesScanned.Inc()

		if now.Sub(note.ModifiedAt) < s.freshness {
			scanLog.Debug().Str("note", note.Name).Msg("заметка только что изменена, пропускаем до следующего скана")
			metrics.NotesSkippedFresh.Inc()
			continue
		}

		candidates, err := s.extractNote(ctx, note, settings)
		if err != nil {
			scanLog.Warn().Err(err).Str("note", note.Name).Msg("заметка пропущена")
			continue
		}
		if len(candidates) == 0 {
			continue
		}
		metrics.CandidatesExtracted.Add(float64(len(candidates)))

		schedule := domain.NoteSchedule{NoteName: note.Name, Found: len(candidates)}
		for _, candidate := range candidates {
			due := DueInstant(candidate.Date, settings.NotifyTime, s.loc)
			if !isEligible(due, now) {
				continue
			}
			if containsInstant(schedule.DueDates, due) {
				// одна и та же дата из фронтматера и из тела — один ключ
				continue
			}
			sent, err := s.ledger.Has(ctx, note.Name, due)
			if err != nil {
				scanLog.Error().Err(err).Str("note", note.Name).Time("due", due).Msg("ошибка чтения леджера")
				continue
			}
			if sent {
				continue
			}
			schedule.DueDates = append(schedule.DueDates, due)
		}
		batch = append(batch, schedule)
	}

	eligible := 0
	for _, schedule := range batch {
		eligible += len(schedule.DueDates)
	}
	scanLog.Info().
		Int("notes_with_dates", len(batch)).
		Int("eligible", eligible).
		Dur("took", s.now().Sub(started)).
		Msg("скан завершён, передаём уведомления")
	metrics.ScanDuration.Observe(s.now().Sub(started).Seconds())

	return s.notifier.Deliver(ctx, batch)
}

// extractNote читает и разбирает заметку. При наличии кэша результат разбора
// переживает сканы по ключу (путь, mtime, параметры разбора): содержимое не
// менялось — повторное чтение не нужно, а проверка условий всё равно
// выполняется на каждом проходе.
func (s *Service) extractNote(ctx context.Context, note domain.NoteInfo, settings domain.Settings) ([]domain.CandidateDate, error) {
	cfg := extract.Config{
		Property: settings.ScheduleProperty,
		Prefix:   settings.SchedulePrefix,
		Location: s.loc,
	}

	var cacheKey string
	if s.cache != nil {
		cacheKey = fmt.Sprintf("extract:%s:%d:%s:%s", note.Path, note.ModifiedAt.UnixMilli(), cfg.Property, cfg.Prefix)
		if raw, err := s.cache.Get(cacheKey); err == nil {
			var dates []time.Time
			if json.Unmarshal(raw, &dates) == nil {
				candidates := make([]domain.CandidateDate, 0, len(dates))
				for _, date := range dates {
					candidates = append(candidates, domain.CandidateDate{NoteName: note.Name, Date: date})
				}
				return candidates, nil
			}
		}
	}

	content, err := s.vault.ReadNote(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("чтение заметки: %w", err)
	}
	candidates := extract.CandidateDates(note.Name, content, cfg)

	if s.cache != nil {
		dates := make([]time.Time, 0, len(candidates))
		for _, candidate := range candidates {
			dates = append(dates, candidate.Date)
		}
		if raw, err := json.Marshal(dates); err == nil {
			_ = s.cache.Set(cacheKey, raw, extractCacheTTL)
		}
	}
	return candidates, nil
}

func containsInstant(instants []time.Time, instant time.Time) bool {
	for _, existing := range instants {
		if existing.Equal(instant) {
			return true
		}
	}
	return false
}
