package scan

import (
	"strconv"
	"strings"
	"time"
)

const (
	// eligibilityWindowDays ограничивает возраст даты: старше пяти суток
	// (с округлением вверх) — навсегда пропускается.
	eligibilityWindowDays = 5
	defaultNotifyTime     = "6:00"
)

// DueInstant собирает момент уведомления из календарного дня кандидата и
// настроенного времени суток HH:MM. Явное время в тексте заметки намеренно
// отбрасывается: ключ дедупликации обязан совпадать между сканами, из какого
// бы места текста дата ни была извлечена.
func DueInstant(candidate time.Time, notifyTime string, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	hour, minute := parseNotifyTime(notifyTime)
	year, month, day := candidate.In(loc).Date()
	return time.Date(year, month, day, hour, minute, 0, 0, loc)
}

// isEligible: момент уже наступил (ровно "сейчас" — тоже наступил) и с него
// прошло не больше пяти суток.
func isEligible(due, now time.Time) bool {
	if due.After(now) {
		return false
	}
	return ceilDays(now.Sub(due)) <= eligibilityWindowDays
}

// ceilDays переводит интервал в целые сутки с округлением вверх.
func ceilDays(d time.Duration) int {
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	return days
}

func parseNotifyTime(value string) (hour, minute int) {
	if h, m, ok := splitNotifyTime(value); ok {
		return h, m
	}
	h, m, _ := splitNotifyTime(defaultNotifyTime)
	return h, m
}

func splitNotifyTime(value string) (hour, minute int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}
