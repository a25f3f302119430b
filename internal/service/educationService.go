package service

import (
	"context"
	"fmt"
	"time"

	repository "github.com/poolpass/pool-booking/internal/database/postgres"
	"github.com/poolpass/pool-booking/internal/entity"
)

// defaultWindow is the fallback evaluated when no active windows are
// configured at all: education sessions run 09:00-12:00 every day.
var defaultWindow = entity.EducationWindow{
	Weekdays: []time.Weekday{
		time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday,
	},
	StartTime: entity.NewClock(9, 0),
	EndTime:   entity.NewClock(12, 0),
	Active:    true,
}

type educationService struct {
	windowRepo repository.EducationWindowRepository
}

func NewEducationService(windowRepo repository.EducationWindowRepository) EducationService {
	return &educationService{windowRepo: windowRepo}
}

// WindowSet is a point-in-time snapshot of the active education windows,
// evaluated in memory. The generator takes one per run instead of querying
// per slot.
type WindowSet []*entity.EducationWindow

// Covers reports whether any window in the set marks a slot starting at
// start on date as an education session.
func (ws WindowSet) Covers(date time.Time, start entity.Clock) bool {
	day := date.Weekday()
	for _, w := range ws {
		if w.Covers(day, start) {
			return true
		}
	}
	return false
}

// Snapshot loads the active windows. The hardcoded default stands in only
// when the set is empty.
func (s *educationService) Snapshot(ctx context.Context) (WindowSet, error) {
	windows, err := s.windowRepo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load education windows: %w", err)
	}
	if len(windows) == 0 {
		windows = []*entity.EducationWindow{&defaultWindow}
	}
	return WindowSet(windows), nil
}

// ResolveEducation answers the single-slot question over a fresh snapshot.
func (s *educationService) ResolveEducation(ctx context.Context, date time.Time, start entity.Clock) (bool, error) {
	windows, err := s.Snapshot(ctx)
	if err != nil {
		return false, err
	}
	return windows.Covers(date, start), nil
}

func (s *educationService) CreateWindow(ctx context.Context, req *CreateWindowRequest) (*entity.EducationWindow, error) {
	if err := validateWindow(req.Weekdays, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	window := &entity.EducationWindow{
		Weekdays:  req.Weekdays,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Active:    active,
	}

	if err := s.windowRepo.Create(ctx, window); err != nil {
		return nil, err
	}
	return window, nil
}

func (s *educationService) GetWindow(ctx context.Context, id int64) (*entity.EducationWindow, error) {
	return s.windowRepo.GetByID(ctx, id)
}

func (s *educationService) ListWindows(ctx context.Context) ([]*entity.EducationWindow, error) {
	return s.windowRepo.GetAll(ctx)
}

// UpdateWindow applies a partial update: unspecified fields keep their prior
// value. When the request changes nothing the stored record is returned
// without a write.
func (s *educationService) UpdateWindow(ctx context.Context, id int64, req *UpdateWindowRequest) (*entity.EducationWindow, error) {
	window, err := s.windowRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := false
	if req.Weekdays != nil && !sameWeekdays(req.Weekdays, window.Weekdays) {
		window.Weekdays = req.Weekdays
		changed = true
	}
	if req.StartTime != nil && *req.StartTime != window.StartTime {
		window.StartTime = *req.StartTime
		changed = true
	}
	if req.EndTime != nil && *req.EndTime != window.EndTime {
		window.EndTime = *req.EndTime
		changed = true
	}
	if req.Active != nil && *req.Active != window.Active {
		window.Active = *req.Active
		changed = true
	}

	if !changed {
		return window, nil
	}

	if err := validateWindow(window.Weekdays, window.StartTime, window.EndTime); err != nil {
		return nil, err
	}

	if err := s.windowRepo.Update(ctx, window); err != nil {
		return nil, err
	}
	return window, nil
}

func (s *educationService) DeleteWindow(ctx context.Context, id int64) error {
	return s.windowRepo.Delete(ctx, id)
}

func validateWindow(days []time.Weekday, start, end entity.Clock) error {
	if len(days) == 0 {
		return entity.ErrEmptyWeekdays
	}
	if start >= end {
		return entity.ErrInvalidTimeRange
	}
	return nil
}

// sameWeekdays compares the two lists as sets, so duplicates and ordering
// do not count as a change.
func sameWeekdays(a, b []time.Weekday) bool {
	setA := make(map[time.Weekday]bool, len(a))
	for _, d := range a {
		setA[d] = true
	}
	setB := make(map[time.Weekday]bool, len(b))
	for _, d := range b {
		setB[d] = true
	}
	if len(setA) != len(setB) {
		return false
	}
	for d := range setA {
		if !setB[d] {
			return false
		}
	}
	return true
}
