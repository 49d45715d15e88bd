package notify

import (
	"context"

	"github.com/rs/zerolog"

	"tg-vault-notifier/internal/domain"
	"tg-vault-notifier/internal/infra/metrics"
)

// Service отправляет уведомления и фиксирует доставку в леджере.
type Service struct {
	sender domain.Sender
	ledger domain.Ledger
	log    zerolog.Logger
}

var _ domain.Notifier = (*Service)(nil)

// NewService создаёт нотификатор.
func NewService(sender domain.Sender, ledger domain.Ledger, logger zerolog.Logger) *Service {
	return &Service{sender: sender, ledger: ledger, log: logger}
}

// Deliver шлёт уведомления строго последовательно: каждая отправка дожидается
// ответа канала, после подтверждения пара (заметка, due-инстант) синхронно
// записывается в леджер — и только затем начинается следующая отправка.
// Неудачная отправка не помечается и будет повторена следующим сканом, пока
// дата остаётся в окне отправки.
func (s *Service) Deliver(ctx context.Context, batch []domain.NoteSchedule) error {
	for _, note := range batch {
		if len(note.DueDates) == 0 {
			continue
		}
		for _, due := range note.DueDates {
			if err := s.sender.Send(ctx, FormatMessage(note.NoteName, due)); err != nil {
				metrics.SendErrors.Inc()
				s.log.Error().Err(err).Str("note", note.NoteName).Time("due", due).Msg("не удалось отправить уведомление")
				continue
			}
			metrics.NotificationsSent.Inc()
			s.log.Info().Str("note", note.NoteName).Time("due", due).Msg("уведомление доставлено")
			if err := s.ledger.MarkSent(ctx, note.NoteName, due); err != nil {
				s.log.Error().Err(err).Str("note", note.NoteName).Time("due", due).Msg("не удалось записать отметку об отправке")
			}
		}
	}
	return nil
}
