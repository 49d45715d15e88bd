package domain

import "time"

// NoteInfo описывает заметку хранилища без её содержимого.
type NoteInfo struct {
	Name       string
	Path       string
	ModifiedAt time.Time
}

// CandidateDate — дата, извлечённая из текста заметки до проверки условий отправки.
type CandidateDate struct {
	NoteName string
	Date     time.Time
}

// NoteSchedule — результат сканирования одной заметки. Заметка попадает в
// результат даже если после фильтрации не осталось ни одного due-инстанта:
// "даты не найдены" и "все даты отсеяны" — разные исходы.
type NoteSchedule struct {
	NoteName string
	Found    int
	DueDates []time.Time
}

// Settings — настройки процесса. Перечитываются в начале каждого скана,
// внутри скана не меняются.
type Settings struct {
	TelegramToken    string `json:"telegramToken"`
	TelegramChatID   string `json:"telegramChatId"`
	ScheduleProperty string `json:"fileScheduleProperty"`
	SchedulePrefix   string `json:"fileSchedulePrefix"`
	NotifyTime       string `json:"notifyTime"`
}

// IsConfigured проверяет, что заполнены все обязательные поля.
func (s Settings) IsConfigured() bool {
	return s.TelegramToken != "" &&
		s.TelegramChatID != "" &&
		s.ScheduleProperty != "" &&
		s.SchedulePrefix != ""
}

// Merge подставляет значения по умолчанию вместо пустых полей.
func (s Settings) Merge(defaults Settings) Settings {
	if s.TelegramToken == "" {
		s.TelegramToken = defaults.TelegramToken
	}
	if s.TelegramChatID == "" {
		s.TelegramChatID = defaults.TelegramChatID
	}
	if s.ScheduleProperty == "" {
		s.ScheduleProperty = defaults.ScheduleProperty
	}
	if s.SchedulePrefix == "" {
		s.SchedulePrefix = defaults.SchedulePrefix
	}
	if s.NotifyTime == "" {
		s.NotifyTime = defaults.NotifyTime
	}
	return s
}
