package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	repository "github.com/poolpass/pool-booking/internal/database/postgres"
	"github.com/poolpass/pool-booking/internal/entity"
)

type timeslotService struct {
	facilityRepo repository.FacilityRepository
	timeslotRepo repository.TimeslotRepository
	holidays     HolidayService
	education    EducationService

	windowDays    int
	lookaheadDays int
	slotLength    time.Duration

	now func() time.Time
}

func NewTimeslotService(
	facilityRepo repository.FacilityRepository,
	timeslotRepo repository.TimeslotRepository,
	holidays HolidayService,
	education EducationService,
	windowDays int,
	lookaheadDays int,
	slotLength time.Duration,
) TimeslotService {
	return &timeslotService{
		facilityRepo:  facilityRepo,
		timeslotRepo:  timeslotRepo,
		holidays:      holidays,
		education:     education,
		windowDays:    windowDays,
		lookaheadDays: lookaheadDays,
		slotLength:    slotLength,
		now:           time.Now,
	}
}

// GenerateTimeslots materializes fixed-length slots for every active facility
// across the rolling window. A facility with unparseable or inverted hours is
// logged and skipped, it never aborts the run.
func (s *timeslotService) GenerateTimeslots(ctx context.Context) (*GenerationResult, error) {
	facilities, err := s.facilityRepo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active facilities: %w", err)
	}

	today := midnight(s.now())
	windowEnd := today.AddDate(0, 0, s.windowDays-1)

	// One holiday range query and one window snapshot serve the whole run.
	holidaySet, err := s.holidaySet(ctx, today, windowEnd)
	if err != nil {
		return nil, err
	}
	windows, err := s.education.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	result := &GenerationResult{}
	for _, facility := range facilities {
		created, err := s.generateForFacility(ctx, facility, today, windowEnd, holidaySet, windows)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"facility_id":   facility.ID,
				"facility_name": facility.Name,
			}).Errorf("Skipping facility: %v", err)
			result.FacilitiesSkipped++
			continue
		}
		result.FacilitiesProcessed++
		result.SlotsCreated += created
	}

	logrus.Infof("Timeslot generation completed: %d facilities, %d skipped, %d slots created",
		result.FacilitiesProcessed, result.FacilitiesSkipped, result.SlotsCreated)
	return result, nil
}

func (s *timeslotService) generateForFacility(ctx context.Context, facility *entity.Facility, from, to time.Time, holidaySet map[string]struct{}, windows WindowSet) (int, error) {
	open, err := entity.ParseClock(facility.OpenTime)
	if err != nil {
		return 0, fmt.Errorf("bad open time: %w", err)
	}
	closeAt, err := entity.ParseClock(facility.CloseTime)
	if err != nil {
		return 0, fmt.Errorf("bad close time: %w", err)
	}
	if open >= closeAt {
		return 0, fmt.Errorf("open time %s is not before close time %s", open, closeAt)
	}

	// One lookup for the whole window instead of per-slot queries.
	existing, err := s.timeslotRepo.ExistingStartKeys(ctx, facility.ID, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to load existing slots: %w", err)
	}

	step := entity.Clock(s.slotLength / time.Minute)

	created := 0
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		if _, ok := holidaySet[dayKey(date)]; ok {
			continue
		}

		for start := open; start+step <= closeAt; start += step {
			if _, ok := existing[repository.SlotKey(date, start)]; ok {
				continue
			}

			slot := &entity.Timeslot{
				FacilityID:  facility.ID,
				Date:        date,
				StartTime:   start,
				EndTime:     start + step,
				Capacity:    facility.Capacity,
				IsEducation: windows.Covers(date, start),
			}

			if err := s.timeslotRepo.Create(ctx, slot); err != nil {
				// A concurrent run won the insert; the slot exists either way.
				if errors.Is(err, repository.ErrSlotExists) {
					continue
				}
				return created, fmt.Errorf("failed to create timeslot: %w", err)
			}
			created++
		}
	}

	return created, nil
}

// EnsureMinimumAvailability runs the full generation pass only when some
// active facility has a non-holiday day without any slots inside the
// lookahead. Returns a nil result when nothing needed generating.
func (s *timeslotService) EnsureMinimumAvailability(ctx context.Context) (*GenerationResult, error) {
	facilities, err := s.facilityRepo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active facilities: %w", err)
	}

	today := midnight(s.now())
	holidaySet, err := s.holidaySet(ctx, today, today.AddDate(0, 0, s.lookaheadDays-1))
	if err != nil {
		return nil, err
	}

	for _, facility := range facilities {
		for i := 0; i < s.lookaheadDays; i++ {
			date := today.AddDate(0, 0, i)
			if _, ok := holidaySet[dayKey(date)]; ok {
				continue
			}

			count, err := s.timeslotRepo.CountByFacilityAndDate(ctx, facility.ID, date)
			if err != nil {
				return nil, fmt.Errorf("failed to count timeslots: %w", err)
			}
			if count == 0 {
				logrus.WithFields(logrus.Fields{
					"facility_id": facility.ID,
					"date":        date.Format("2006-01-02"),
				}).Info("Facility has no timeslots, triggering generation")
				return s.GenerateTimeslots(ctx)
			}
		}
	}

	return nil, nil
}

// holidaySet prefetches the calendar for [from, to] as a date-keyed set,
// hitting the range cache when one is configured.
func (s *timeslotService) holidaySet(ctx context.Context, from, to time.Time) (map[string]struct{}, error) {
	dates, err := s.holidays.DatesInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load holidays: %w", err)
	}
	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		set[dayKey(d)] = struct{}{}
	}
	return set, nil
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
