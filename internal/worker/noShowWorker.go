package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/poolpass/pool-booking/internal/service"
)

// NoShowWorker periodically marks confirmed reservations whose session has
// already ended as no-show. Each run is idempotent and interruptible.
type NoShowWorker struct {
	bookingService service.BookingService
	interval       time.Duration
}

func NewNoShowWorker(bookingService service.BookingService, interval time.Duration) *NoShowWorker {
	return &NoShowWorker{
		bookingService: bookingService,
		interval:       interval,
	}
}

func (w *NoShowWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.Info("No-show sweep worker started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("No-show sweep worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *NoShowWorker) sweep(ctx context.Context) {
	result, err := w.bookingService.SweepMissedReservations(ctx)
	if err != nil {
		logrus.Errorf("No-show sweep failed: %v", err)
		return
	}

	if result.Found == 0 {
		logrus.Debug("No missed reservations found")
		return
	}

	if result.Failed > 0 {
		logrus.Warnf("%d reservations failed to transition during sweep", result.Failed)
	}
}
