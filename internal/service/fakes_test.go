package service

import (
	"context"
	"errors"
	"time"

	repository "github.com/poolpass/pool-booking/internal/database/postgres"
	"github.com/poolpass/pool-booking/internal/entity"
)

// In-memory repository fakes. The reservation fake reproduces the counter
// semantics of the real transaction: occupancy and balance move together with
// the reservation row, and the capacity and balance guards are re-checked at
// commit time.

type fakeTimeslotRepo struct {
	slots  map[int64]*entity.Timeslot
	nextID int64
}

func newFakeTimeslotRepo() *fakeTimeslotRepo {
	return &fakeTimeslotRepo{slots: make(map[int64]*entity.Timeslot), nextID: 1}
}

func (r *fakeTimeslotRepo) add(slot *entity.Timeslot) *entity.Timeslot {
	if slot.ID == 0 {
		slot.ID = r.nextID
		r.nextID++
	}
	r.slots[slot.ID] = slot
	return slot
}

func (r *fakeTimeslotRepo) Create(ctx context.Context, slot *entity.Timeslot) error {
	for _, existing := range r.slots {
		if existing.FacilityID == slot.FacilityID &&
			existing.Date.Equal(slot.Date) && existing.StartTime == slot.StartTime {
			return repository.ErrSlotExists
		}
	}
	r.add(slot)
	return nil
}

func (r *fakeTimeslotRepo) GetByID(ctx context.Context, id int64) (*entity.Timeslot, error) {
	slot, ok := r.slots[id]
	if !ok {
		return nil, entity.ErrTimeslotNotFound
	}
	copied := *slot
	return &copied, nil
}

func (r *fakeTimeslotRepo) GetByFacilityAndDate(ctx context.Context, facilityID int64, date time.Time) ([]*entity.Timeslot, error) {
	var out []*entity.Timeslot
	for _, slot := range r.slots {
		if slot.FacilityID == facilityID && slot.Date.Equal(date) {
			copied := *slot
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeTimeslotRepo) ExistingStartKeys(ctx context.Context, facilityID int64, from, to time.Time) (map[string]struct{}, error) {
	keys := make(map[string]struct{})
	for _, slot := range r.slots {
		if slot.FacilityID != facilityID {
			continue
		}
		if slot.Date.Before(from) || slot.Date.After(to) {
			continue
		}
		keys[repository.SlotKey(slot.Date, slot.StartTime)] = struct{}{}
	}
	return keys, nil
}

func (r *fakeTimeslotRepo) CountByFacilityAndDate(ctx context.Context, facilityID int64, date time.Time) (int, error) {
	count := 0
	for _, slot := range r.slots {
		if slot.FacilityID == facilityID && slot.Date.Equal(date) {
			count++
		}
	}
	return count, nil
}

type fakePackageRepo struct {
	packages map[int64]*entity.MemberPackage
	types    map[int64]*entity.PackageType
}

func newFakePackageRepo() *fakePackageRepo {
	return &fakePackageRepo{
		packages: make(map[int64]*entity.MemberPackage),
		types:    make(map[int64]*entity.PackageType),
	}
}

func (r *fakePackageRepo) GetByID(ctx context.Context, id int64) (*entity.MemberPackage, error) {
	pkg, ok := r.packages[id]
	if !ok {
		return nil, entity.ErrPackageNotFound
	}
	copied := *pkg
	return &copied, nil
}

func (r *fakePackageRepo) GetByMemberID(ctx context.Context, memberID int64) ([]*entity.MemberPackage, error) {
	var out []*entity.MemberPackage
	for _, pkg := range r.packages {
		if pkg.MemberID == memberID {
			copied := *pkg
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakePackageRepo) GetTypeByID(ctx context.Context, id int64) (*entity.PackageType, error) {
	t, ok := r.types[id]
	if !ok {
		return nil, entity.ErrPackageTypeNotFound
	}
	copied := *t
	return &copied, nil
}

type fakeReservationRepo struct {
	reservations map[int64]*entity.Reservation
	nextID       int64

	timeslots *fakeTimeslotRepo
	packages  *fakePackageRepo
}

func newFakeReservationRepo(timeslots *fakeTimeslotRepo, packages *fakePackageRepo) *fakeReservationRepo {
	return &fakeReservationRepo{
		reservations: make(map[int64]*entity.Reservation),
		nextID:       1,
		timeslots:    timeslots,
		packages:     packages,
	}
}

func (r *fakeReservationRepo) CreateConfirmed(ctx context.Context, res *entity.Reservation) error {
	slot, ok := r.timeslots.slots[res.TimeslotID]
	if !ok {
		return entity.ErrTimeslotNotFound
	}
	pkg, ok := r.packages.packages[res.PackageID]
	if !ok {
		return entity.ErrPackageNotFound
	}

	if slot.Occupancy >= slot.Capacity {
		return entity.ErrTimeslotFull
	}
	if !pkg.Active || pkg.RemainingSessions <= 0 {
		return entity.ErrPackageExhausted
	}
	for _, existing := range r.reservations {
		if existing.MemberID == res.MemberID && existing.TimeslotID == res.TimeslotID &&
			existing.Status == entity.ReservationStatusConfirmed {
			return entity.ErrDuplicateReservation
		}
	}

	slot.Occupancy++
	pkg.RemainingSessions--
	if pkg.RemainingSessions == 0 {
		pkg.Active = false
	}

	res.ID = r.nextID
	r.nextID++
	res.Status = entity.ReservationStatusConfirmed
	stored := *res
	r.reservations[res.ID] = &stored
	return nil
}

func (r *fakeReservationRepo) Cancel(ctx context.Context, id int64) error {
	res, ok := r.reservations[id]
	if !ok {
		return entity.ErrReservationNotFound
	}
	if res.Status != entity.ReservationStatusConfirmed {
		return entity.ErrReservationNotActive
	}

	res.Status = entity.ReservationStatusCancelled

	if slot, ok := r.timeslots.slots[res.TimeslotID]; ok && slot.Occupancy > 0 {
		slot.Occupancy--
	}
	if pkg, ok := r.packages.packages[res.PackageID]; ok {
		pkg.RemainingSessions++
		if pkg.PaymentStatus == entity.PaymentStatusCompleted {
			pkg.Active = true
		}
	}
	return nil
}

func (r *fakeReservationRepo) TransitionStatus(ctx context.Context, id int64, from, to entity.ReservationStatus) error {
	res, ok := r.reservations[id]
	if !ok {
		return entity.ErrReservationNotFound
	}
	if res.Status != from {
		return entity.ErrReservationNotActive
	}
	res.Status = to
	return nil
}

func (r *fakeReservationRepo) GetByID(ctx context.Context, id int64) (*entity.Reservation, error) {
	res, ok := r.reservations[id]
	if !ok {
		return nil, entity.ErrReservationNotFound
	}
	copied := *res
	return &copied, nil
}

func (r *fakeReservationRepo) GetByMemberID(ctx context.Context, memberID int64) ([]*entity.Reservation, error) {
	var out []*entity.Reservation
	for _, res := range r.reservations {
		if res.MemberID == memberID {
			copied := *res
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeReservationRepo) HasConfirmed(ctx context.Context, memberID, timeslotID int64) (bool, error) {
	for _, res := range r.reservations {
		if res.MemberID == memberID && res.TimeslotID == timeslotID &&
			res.Status == entity.ReservationStatusConfirmed {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReservationRepo) ConfirmedSlotsByMemberAndDate(ctx context.Context, memberID int64, date time.Time) ([]*entity.Timeslot, error) {
	var out []*entity.Timeslot
	for _, res := range r.reservations {
		if res.MemberID != memberID || res.Status != entity.ReservationStatusConfirmed {
			continue
		}
		slot, ok := r.timeslots.slots[res.TimeslotID]
		if !ok || !slot.Date.Equal(date) {
			continue
		}
		copied := *slot
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeReservationRepo) GetMissed(ctx context.Context, now time.Time) ([]*entity.MissedReservation, error) {
	var out []*entity.MissedReservation
	for _, res := range r.reservations {
		if res.Status != entity.ReservationStatusConfirmed {
			continue
		}
		slot, ok := r.timeslots.slots[res.TimeslotID]
		if !ok || !slot.EndAt().Before(now) {
			continue
		}
		out = append(out, &entity.MissedReservation{
			ReservationID: res.ID,
			MemberID:      res.MemberID,
			TimeslotID:    slot.ID,
			FacilityID:    slot.FacilityID,
			Date:          slot.Date,
			EndTime:       slot.EndTime,
		})
	}
	return out, nil
}

type fakeFacilityRepo struct {
	facilities map[int64]*entity.Facility
}

func newFakeFacilityRepo() *fakeFacilityRepo {
	return &fakeFacilityRepo{facilities: make(map[int64]*entity.Facility)}
}

func (r *fakeFacilityRepo) GetByID(ctx context.Context, id int64) (*entity.Facility, error) {
	f, ok := r.facilities[id]
	if !ok {
		return nil, entity.ErrFacilityNotFound
	}
	copied := *f
	return &copied, nil
}

func (r *fakeFacilityRepo) GetActive(ctx context.Context) ([]*entity.Facility, error) {
	var out []*entity.Facility
	for _, f := range r.facilities {
		if f.Active {
			copied := *f
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeEducationWindowRepo struct {
	windows map[int64]*entity.EducationWindow
	nextID  int64
}

func newFakeEducationWindowRepo() *fakeEducationWindowRepo {
	return &fakeEducationWindowRepo{windows: make(map[int64]*entity.EducationWindow), nextID: 1}
}

func (r *fakeEducationWindowRepo) Create(ctx context.Context, window *entity.EducationWindow) error {
	window.ID = r.nextID
	r.nextID++
	stored := *window
	r.windows[window.ID] = &stored
	return nil
}

func (r *fakeEducationWindowRepo) GetByID(ctx context.Context, id int64) (*entity.EducationWindow, error) {
	w, ok := r.windows[id]
	if !ok {
		return nil, entity.ErrEducationWindowNotFound
	}
	copied := *w
	return &copied, nil
}

func (r *fakeEducationWindowRepo) GetActive(ctx context.Context) ([]*entity.EducationWindow, error) {
	var out []*entity.EducationWindow
	for _, w := range r.windows {
		if w.Active {
			copied := *w
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeEducationWindowRepo) GetAll(ctx context.Context) ([]*entity.EducationWindow, error) {
	var out []*entity.EducationWindow
	for _, w := range r.windows {
		copied := *w
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeEducationWindowRepo) Update(ctx context.Context, window *entity.EducationWindow) error {
	if _, ok := r.windows[window.ID]; !ok {
		return entity.ErrEducationWindowNotFound
	}
	stored := *window
	r.windows[window.ID] = &stored
	return nil
}

func (r *fakeEducationWindowRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.windows[id]; !ok {
		return entity.ErrEducationWindowNotFound
	}
	delete(r.windows, id)
	return nil
}

type fakeHolidayRepo struct {
	holidays        map[int64]*entity.Holiday
	nextID          int64
	getInRangeCalls int
}

func newFakeHolidayRepo() *fakeHolidayRepo {
	return &fakeHolidayRepo{holidays: make(map[int64]*entity.Holiday), nextID: 1}
}

func (r *fakeHolidayRepo) Create(ctx context.Context, holiday *entity.Holiday) error {
	holiday.ID = r.nextID
	r.nextID++
	stored := *holiday
	r.holidays[holiday.ID] = &stored
	return nil
}

func (r *fakeHolidayRepo) GetByID(ctx context.Context, id int64) (*entity.Holiday, error) {
	h, ok := r.holidays[id]
	if !ok {
		return nil, entity.ErrHolidayNotFound
	}
	copied := *h
	return &copied, nil
}

func (r *fakeHolidayRepo) GetByDate(ctx context.Context, date time.Time) (*entity.Holiday, error) {
	for _, h := range r.holidays {
		if h.Date.Equal(date) {
			copied := *h
			return &copied, nil
		}
	}
	return nil, entity.ErrHolidayNotFound
}

func (r *fakeHolidayRepo) GetInRange(ctx context.Context, from, to time.Time) ([]*entity.Holiday, error) {
	r.getInRangeCalls++
	var out []*entity.Holiday
	for _, h := range r.holidays {
		if h.Date.Before(from) || h.Date.After(to) {
			continue
		}
		copied := *h
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeHolidayRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.holidays[id]; !ok {
		return entity.ErrHolidayNotFound
	}
	delete(r.holidays, id)
	return nil
}

type fakeSwimChecker struct {
	able  bool
	err   error
	calls int
}

func (c *fakeSwimChecker) HasSwimAbility(ctx context.Context, memberID int64) (bool, error) {
	c.calls++
	if c.err != nil {
		return false, c.err
	}
	return c.able, nil
}

type fakePublisher struct {
	keys []string
	err  error
}

func (p *fakePublisher) PublishJSON(ctx context.Context, key string, v any) error {
	if p.err != nil {
		return p.err
	}
	p.keys = append(p.keys, key)
	return nil
}

var errStorage = errors.New("storage unavailable")
