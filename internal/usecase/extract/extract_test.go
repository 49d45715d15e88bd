package extract

import (
	"testing"
	"time"

	"tg-vault-notifier/internal/domain"
)

func testConfig() Config {
	return Config{Property: "scheduled", Prefix: "📅", Location: time.UTC}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func assertDates(t *testing.T, got []domain.CandidateDate, want ...time.Time) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("ожидали %d дат, получили %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if !got[i].Date.Equal(want[i]) {
			t.Fatalf("дата %d: ожидали %v, получили %v", i, want[i], got[i].Date)
		}
	}
}

func TestFrontmatterProperty(t *testing.T) {
	content := "---\ntitle: Taxes\nscheduled: 2024-01-01\n---\nтекст заметки"
	got := CandidateDates("Taxes", content, testConfig())
	assertDates(t, got, date(2024, time.January, 1))
	if got[0].NoteName != "Taxes" {
		t.Fatalf("ожидали имя заметки Taxes, получили %q", got[0].NoteName)
	}
}

func TestFrontmatterRequiresFence(t *testing.T) {
	content := "scheduled: 2024-01-01\nобычный текст без фронтматера"
	if got := CandidateDates("n", content, testConfig()); len(got) != 0 {
		t.Fatalf("без фронтматера дат быть не должно, получили %v", got)
	}
}

func TestFrontmatterWithoutClosingFence(t *testing.T) {
	content := "---\nscheduled: 2024-01-01\nтекст без закрывающего разделителя"
	if got := CandidateDates("n", content, testConfig()); len(got) != 0 {
		t.Fatalf("незакрытый фронтматер не должен давать дат, получили %v", got)
	}
}

func TestFrontmatterEmptyValue(t *testing.T) {
	content := "---\nscheduled:\n---\nтекст"
	if got := CandidateDates("n", content, testConfig()); len(got) != 0 {
		t.Fatalf("пустое значение свойства не должно давать дат, получили %v", got)
	}
}

func TestFrontmatterTakesFirstToken(t *testing.T) {
	content := "---\nscheduled: 2024-01-01 важная пометка\n---\n"
	got := CandidateDates("n", content, testConfig())
	assertDates(t, got, date(2024, time.January, 1))
}

func TestInlineAllOccurrencesInOrder(t *testing.T) {
	content := "дела: 📅 2024-01-01 and 📅 2024-03-05 конец"
	got := CandidateDates("n", content, testConfig())
	assertDates(t, got, date(2024, time.January, 1), date(2024, time.March, 5))
}

func TestInlineMarkerWithoutDateDoesNotStopScan(t *testing.T) {
	content := "📅📅 2024-01-01"
	got := CandidateDates("n", content, testConfig())
	assertDates(t, got, date(2024, time.January, 1))
}

func TestInlineDateAtEndOfText(t *testing.T) {
	content := "сдать отчёт 📅 2024-02-29"
	got := CandidateDates("n", content, testConfig())
	assertDates(t, got, date(2024, time.February, 29))
}

func TestInlineDateOnNextLine(t *testing.T) {
	// после префикса пробельные символы пропускаются, включая перевод строки
	content := "📅\n2024-01-01"
	got := CandidateDates("n", content, testConfig())
	assertDates(t, got, date(2024, time.January, 1))
}

func TestInlineInvalidDateSkipped(t *testing.T) {
	content := "📅 не-дата, потом 📅 2024-03-05"
	got := CandidateDates("n", content, testConfig())
	assertDates(t, got, date(2024, time.March, 5))
}

func TestInlineImpossibleCalendarDateSkipped(t *testing.T) {
	content := "📅 2024-02-31 и 📅 2024-13-05"
	if got := CandidateDates("n", content, testConfig()); len(got) != 0 {
		t.Fatalf("несуществующие даты должны отбрасываться, получили %v", got)
	}
}

func TestHeaderBeforeInline(t *testing.T) {
	content := "---\nscheduled: 2024-05-05\n---\nвстреча 📅 2024-01-01"
	got := CandidateDates("n", content, testConfig())
	assertDates(t, got, date(2024, time.May, 5), date(2024, time.January, 1))
}

func TestDateWithTimeComponent(t *testing.T) {
	content := "📅 2024-01-01T14:00:00"
	got := CandidateDates("n", content, testConfig())
	if len(got) != 1 {
		t.Fatalf("ожидали одну дату, получили %v", got)
	}
	want := time.Date(2024, time.January, 1, 14, 0, 0, 0, time.UTC)
	if !got[0].Date.Equal(want) {
		t.Fatalf("ожидали %v, получили %v", want, got[0].Date)
	}
}

func TestCustomPrefixAndProperty(t *testing.T) {
	cfg := Config{Property: "due", Prefix: "!!", Location: time.UTC}
	content := "---\ndue: 2024-04-01\n---\nсрок !! 2024-04-02"
	got := CandidateDates("n", content, cfg)
	assertDates(t, got, date(2024, time.April, 1), date(2024, time.April, 2))
}
