package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/poolpass/pool-booking/internal/service"
)

// Scheduler keeps the forward timeslot window populated. Every tick it runs
// the cheap minimum-availability check, which triggers a full generation pass
// only when a facility has near-term gaps.
type Scheduler struct {
	timeslotService service.TimeslotService
	interval        time.Duration
}

func NewScheduler(timeslotService service.TimeslotService, interval time.Duration) *Scheduler {
	return &Scheduler{
		timeslotService: timeslotService,
		interval:        interval,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	// Populate the window immediately on startup, then tick.
	if _, err := s.timeslotService.GenerateTimeslots(ctx); err != nil {
		logrus.Errorf("Initial timeslot generation failed: %v", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.timeslotService.EnsureMinimumAvailability(ctx); err != nil {
				logrus.Errorf("Availability check failed: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
