package jobs

import (
	"context"

	"github.com/robfig/cron/v3"
)

// ReservationCompleter интерфейс сервиса завершения истекших бронирований
type ReservationCompleter interface {
	CompleteElapsed(ctx context.Context) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Runner фоновые задачи сервиса бронирований
// Оборачивает cron-планировщик и регистрирует задачи по расписанию из конфига
type Runner struct {
	cron      *cron.Cron
	completer ReservationCompleter
	logger    Logger
}

// NewRunner создает новый планировщик фоновых задач
func NewRunner(completer ReservationCompleter, logger Logger) *Runner {
	return &Runner{
		cron:      cron.New(),
		completer: completer,
		logger:    logger,
	}
}

// Start регистрирует задачу завершения истекших броней и запускает планировщик
// spec задается в формате cron или дескриптором вида "@every 5m"
func (r *Runner) Start(spec string) error {
	_, err := r.cron.AddFunc(spec, r.completeElapsed)
	if err != nil {
		return err
	}

	r.cron.Start()
	r.logger.Info("jobs: completion sweep scheduled, spec=%q", spec)
	return nil
}

// Stop останавливает планировщик и дожидается завершения запущенных задач
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("jobs: scheduler stopped")
}

func (r *Runner) completeElapsed() {
	count, err := r.completer.CompleteElapsed(context.Background())
	if err != nil {
		r.logger.Error("jobs: completion sweep failed: %v", err)
		return
	}

	if count > 0 {
		r.logger.Info("jobs: completion sweep finished, completed=%d", count)
	}
}
