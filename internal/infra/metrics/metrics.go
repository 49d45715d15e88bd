package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ScanDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scan_duration_seconds",
		Help:    "Время одного прохода сканирования хранилища",
		Buckets: prometheus.DefBuckets,
	})
	ScanTicksDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scan_ticks_dropped_total",
		Help: "Тики планировщика, отброшенные из-за незавершённого скана",
	})
	NotesScanned = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notes_scanned_total",
		Help: "Просмотренные заметки",
	})
	NotesSkippedFresh = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notes_skipped_fresh_total",
		Help: "Заметки, пропущенные из-за недавнего изменения",
	})
	CandidatesExtracted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "candidates_extracted_total",
		Help: "Даты, извлечённые из текста заметок",
	})
	NotificationsSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifications_sent_total",
		Help: "Успешно доставленные уведомления",
	})
	SendErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "send_errors_total",
		Help: "Ошибки отправки сообщений в канал доставки",
	})
)

// MustRegister регистрирует все метрики сервиса.
func MustRegister() {
	prometheus.MustRegister(
		ScanDuration,
		ScanTicksDropped,
		NotesScanned,
		NotesSkippedFresh,
		CandidatesExtracted,
		NotificationsSent,
		SendErrors,
	)
}
