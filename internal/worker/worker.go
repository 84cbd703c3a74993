package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"futuresbot/internal/logger"
)

type Worker interface {
	Process(ctx context.Context) error
	Name() string
}

func Start(ctx context.Context, w Worker, period time.Duration, logLogger logger.Logger) error {
	if period == 0 {
		return errors.New("schedule period = 0")
	}
	logLogger.Info(fmt.Sprintf("Воркер %s запущен", w.Name()))

	go runWorkerPeriodically(ctx, w, period, logLogger)

	return nil
}

// runWorkerPeriodically запускает воркер с периодом
func runWorkerPeriodically(ctx context.Context, w Worker, period time.Duration, logLogger logger.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logLogger.Error(fmt.Sprintf("Worker-Panic: %v, worker name %s", r, w.Name()))
			go runWorkerPeriodically(ctx, w, period, logLogger)
		}
	}()

	for {
		var err error

		select {
		case <-ctx.Done():
			return
		default:
			err = w.Process(ctx)
		}

		if err != nil {
			logLogger.Error(fmt.Sprintf("Worker-Error name: %s, err: %v", w.Name(), err))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(period):
		}
	}
}
