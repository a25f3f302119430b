package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	repository "github.com/poolpass/pool-booking/internal/database/postgres"
	"github.com/poolpass/pool-booking/internal/entity"
)

const (
	holidayCachePrefix  = "holidays:range:"
	holidayCacheVersion = "holidays:version"
)

type holidayService struct {
	holidayRepo repository.HolidayRepository
	cache       HolidayCache
	cacheTTL    time.Duration
}

// NewHolidayService creates the holiday calendar. cache may be nil, range
// lookups then always hit the database.
func NewHolidayService(holidayRepo repository.HolidayRepository, cache HolidayCache, cacheTTL time.Duration) HolidayService {
	return &holidayService{
		holidayRepo: holidayRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
	}
}

func (s *holidayService) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	_, err := s.holidayRepo.GetByDate(ctx, midnight(date))
	if errors.Is(err, entity.ErrHolidayNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DatesInRange returns the sorted holiday dates inside [from, to]. The cache
// is best-effort: any Redis failure falls through to the database.
func (s *holidayService) DatesInRange(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	from, to = midnight(from), midnight(to)

	if dates, ok := s.cachedRange(ctx, from, to); ok {
		return dates, nil
	}

	holidays, err := s.holidayRepo.GetInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	dates := make([]time.Time, 0, len(holidays))
	for _, h := range holidays {
		dates = append(dates, midnight(h.Date))
	}

	s.storeRange(ctx, from, to, dates)
	return dates, nil
}

func (s *holidayService) ListInRange(ctx context.Context, from, to time.Time) ([]*entity.Holiday, error) {
	return s.holidayRepo.GetInRange(ctx, midnight(from), midnight(to))
}

// AddCustom adds an administrator-managed holiday. A date already covered by
// a fixed holiday is rejected.
func (s *holidayService) AddCustom(ctx context.Context, date time.Time, description string) (*entity.Holiday, error) {
	date = midnight(date)

	existing, err := s.holidayRepo.GetByDate(ctx, date)
	if err != nil && !errors.Is(err, entity.ErrHolidayNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.Fixed {
			return nil, entity.ErrFixedHoliday
		}
		return existing, nil
	}

	holiday := &entity.Holiday{
		Date:        date,
		Description: description,
		Fixed:       false,
	}
	if err := s.holidayRepo.Create(ctx, holiday); err != nil {
		return nil, err
	}

	s.bumpVersion(ctx)
	return holiday, nil
}

// RemoveCustom deletes a custom holiday. Fixed holidays cannot be removed.
func (s *holidayService) RemoveCustom(ctx context.Context, id int64) error {
	holiday, err := s.holidayRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if holiday.Fixed {
		return entity.ErrFixedHoliday
	}

	if err := s.holidayRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.bumpVersion(ctx)
	return nil
}

// Cache keys carry a version counter bumped on every mutation, stale entries
// simply stop being addressed and expire by TTL.
func (s *holidayService) rangeKey(ctx context.Context, from, to time.Time) string {
	version := "0"
	if v, err := s.cache.Get(ctx, holidayCacheVersion); err == nil && v != "" {
		version = v
	}
	return fmt.Sprintf("%sv%s:%s:%s", holidayCachePrefix, version,
		from.Format("2006-01-02"), to.Format("2006-01-02"))
}

func (s *holidayService) cachedRange(ctx context.Context, from, to time.Time) ([]time.Time, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, err := s.cache.Get(ctx, s.rangeKey(ctx, from, to))
	if err != nil {
		return nil, false
	}

	var dates []time.Time
	if err := json.Unmarshal([]byte(raw), &dates); err != nil {
		return nil, false
	}
	return dates, true
}

func (s *holidayService) storeRange(ctx context.Context, from, to time.Time, dates []time.Time) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(dates)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.rangeKey(ctx, from, to), string(raw), s.cacheTTL); err != nil {
		logrus.Debugf("Failed to cache holiday range: %v", err)
	}
}

func (s *holidayService) bumpVersion(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Incr(ctx, holidayCacheVersion); err != nil {
		logrus.Debugf("Failed to bump holiday cache version: %v", err)
	}
}
