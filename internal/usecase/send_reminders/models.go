package send_reminders

import "time"

// Options параметры прохода
type Options struct {
	Lead      time.Duration // За сколько до начала записи отправлять напоминание
	BatchSize int           // Сколько записей обрабатывать за один проход, 0 = без ограничения
}

// Result итог одного прохода
type Result struct {
	Found   int // Записей попало в окно
	Sent    int // Отправлено
	Skipped int // Уже забраны другим обработчиком
	Failed  int // Отправка или отметка не удалась, будут повторены следующим проходом
}

const (
	resultSent    = "sent"
	resultSkipped = "skipped"
	resultFailed  = "failed"
)
