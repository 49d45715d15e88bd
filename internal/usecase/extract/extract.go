package extract

import (
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"

	"tg-vault-notifier/internal/domain"
)

const frontmatterFence = "---"

// Config задаёт параметры извлечения дат из текста.
type Config struct {
	Property string         // имя свойства во фронтматере
	Prefix   string         // inline-префикс перед датой
	Location *time.Location // зона для дат без явного смещения
}

// CandidateDates извлекает все даты из текста заметки: сначала из фронтматера,
// затем из тела в порядке появления. Непарсящиеся вхождения молча пропускаются.
func CandidateDates(noteName, content string, cfg Config) []domain.CandidateDate {
	var out []domain.CandidateDate
	if date, ok := fromFrontmatter(content, cfg); ok {
		out = append(out, domain.CandidateDate{NoteName: noteName, Date: date})
	}
	for _, date := range fromBody(content, cfg) {
		out = append(out, domain.CandidateDate{NoteName: noteName, Date: date})
	}
	return out
}

// fromFrontmatter ищет строку "<property>:" внутри блока метаданных. Блок
// существует только если текст начинается с "---" и где-то дальше есть
// закрывающее "---". Значением считается первый пробельно-отделённый токен.
func fromFrontmatter(content string, cfg Config) (time.Time, bool) {
	if !strings.HasPrefix(content, frontmatterFence) {
		return time.Time{}, false
	}
	rest := content[len(frontmatterFence):]
	end := strings.Index(rest, frontmatterFence)
	if end < 0 {
		return time.Time{}, false
	}
	block := rest[:end]

	key := cfg.Property + ":"
	idx := strings.Index(block, key)
	if idx < 0 {
		return time.Time{}, false
	}
	fields := strings.Fields(strings.TrimSpace(block[idx+len(key):]))
	if len(fields) == 0 {
		return time.Time{}, false
	}
	return parseDate(fields[0], cfg.Location)
}

// fromBody находит все неперекрывающиеся вхождения префикса во всём тексте.
// После префикса пропускаются любые пробельные символы, дата читается до
// следующего пробела или перевода строки; конец текста тоже граница.
// Вхождение без даты (например, префикс сразу перед следующим префиксом)
// не прерывает поиск остальных.
func fromBody(content string, cfg Config) []time.Time {
	var dates []time.Time
	pos := 0
	for {
		idx := strings.Index(content[pos:], cfg.Prefix)
		if idx < 0 {
			break
		}
		start := pos + idx + len(cfg.Prefix)
		pos = start

		rest := strings.TrimLeftFunc(content[start:], unicode.IsSpace)
		end := strings.IndexAny(rest, " \n")
		if end < 0 {
			end = len(rest)
		}
		text := strings.TrimSpace(rest[:end])
		if text == "" {
			continue
		}
		if date, ok := parseDate(text, cfg.Location); ok {
			dates = append(dates, date)
		}
	}
	return dates
}

func parseDate(text string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	date, err := dateparse.ParseIn(text, loc)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}
