package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrInvalidSchedule возвращается при некорректном cron-выражении
var ErrInvalidSchedule = errors.New("reminder.worker: invalid cron schedule")

// Worker периодически запускает рассылку напоминаний по cron-расписанию.
// Проход, не успевший завершиться к следующему тику, не дублируется.
type Worker struct {
	cron     *cron.Cron
	useCase  SendRemindersUseCase
	schedule string
	timeout  time.Duration
	logger   Logger
}

// New создает воркер. timeout ограничивает длительность одного прохода.
func New(useCase SendRemindersUseCase, schedule string, timeout time.Duration, location *time.Location, logger Logger) (*Worker, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, schedule, err)
	}
	if location == nil {
		location = time.Local
	}

	cronLogger := &cronLogger{logger: logger}

	return &Worker{
		cron: cron.New(
			cron.WithLocation(location),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		useCase:  useCase,
		schedule: schedule,
		timeout:  timeout,
		logger:   logger,
	}, nil
}

// Start регистрирует задачу и запускает планировщик в фоне
func (w *Worker) Start() error {
	if _, err := w.cron.AddFunc(w.schedule, w.tick); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, w.schedule, err)
	}
	w.cron.Start()
	w.logger.Info("Reminder worker started: schedule=%q", w.schedule)
	return nil
}

// Stop останавливает планировщик и ждет завершения текущего прохода, но не дольше ctx
func (w *Worker) Stop(ctx context.Context) error {
	done := w.cron.Stop()
	select {
	case <-done.Done():
		w.logger.Info("Reminder worker stopped")
		return nil
	case <-ctx.Done():
		w.logger.Warn("Reminder worker stop timed out: %v", ctx.Err())
		return ctx.Err()
	}
}

// RunOnce выполняет один проход рассылки
func (w *Worker) RunOnce(ctx context.Context) error {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := w.useCase.Execute(ctx)
	if err != nil {
		w.logger.Error("Reminder sweep failed after %s: %v", time.Since(start), err)
		return err
	}

	if result.Found > 0 {
		w.logger.Info("Reminder sweep done in %s: found=%d, sent=%d, skipped=%d, failed=%d",
			time.Since(start), result.Found, result.Sent, result.Skipped, result.Failed)
	}
	return nil
}

func (w *Worker) tick() {
	_ = w.RunOnce(context.Background())
}

// cronLogger адаптирует printf-логгер к cron.Logger
type cronLogger struct {
	logger Logger
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	// Служебные сообщения планировщика (wake, run) слишком частые для info
	if msg == "skip" {
		l.logger.Warn("Reminder worker: previous sweep still running, tick skipped %v", keysAndValues)
	}
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("Reminder worker: %s: %v %v", msg, err, keysAndValues)
}
