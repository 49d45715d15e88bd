package scan

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"tg-vault-notifier/internal/infra/metrics"
)

// Runner выполняет один проход сканирования.
type Runner interface {
	RunScan(ctx context.Context) error
}

// Scheduler запускает сканирование с фиксированным интервалом. Одновременно
// выполняется не больше одного прохода: тик, пришедший во время работы
// предыдущего скана, отбрасывается без очереди.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	log      zerolog.Logger
	inFlight atomic.Bool
}

// NewScheduler создаёт планировщик.
func NewScheduler(runner Runner, interval time.Duration, logger zerolog.Logger) *Scheduler {
	return &Scheduler{runner: runner, interval: interval, log: logger}
}

// Run блокируется до отмены контекста. Первый проход стартует немедленно.
func (s *Scheduler) Run(ctx context.Context) {
	s.launch(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.launch(ctx)
		}
	}
}

func (s *Scheduler) launch(ctx context.Context) {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.log.Warn().Msg("скан выполняется слишком долго, тик пропущен")
		metrics.ScanTicksDropped.Inc()
		return
	}
	go func() {
		defer s.inFlight.Store(false)
		if err := s.runner.RunScan(ctx); err != nil && !errors.Is(err, ErrNotConfigured) {
			s.log.Error().Err(err).Msg("скан завершился с ошибкой")
		}
	}()
}
