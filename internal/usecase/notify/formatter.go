package notify

import (
	"fmt"
	"strings"
	"time"
)

// dueDateLayout воспроизводит человекочитаемый вид даты в уведомлении.
const dueDateLayout = "Mon Jan 02 2006"

// FormatMessage собирает текст уведомления в разметке MarkdownV2.
func FormatMessage(noteName string, due time.Time) string {
	return fmt.Sprintf(">📅 You have a task due on _%s_\n👉 `%s`", due.Format(dueDateLayout), escapeCode(noteName))
}

// escapeCode экранирует имя заметки для вставки внутрь inline-кода MarkdownV2:
// там специальны только обратная кавычка и обратный слэш.
func escapeCode(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "`", "\\`")
}
