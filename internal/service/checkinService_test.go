package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poolpass/pool-booking/internal/entity"
	"github.com/poolpass/pool-booking/pkg/mq"
	"github.com/poolpass/pool-booking/pkg/token"
)

// Token validity is checked against the wall clock inside the JWT library,
// so these fixtures anchor session windows to time.Now instead of a frozen
// clock.

type checkInFixture struct {
	timeslots    *fakeTimeslotRepo
	reservations *fakeReservationRepo
	publisher    *fakePublisher
	issuer       *token.Issuer
	svc          *checkInService
}

func newCheckInFixture(t *testing.T) *checkInFixture {
	t.Helper()

	f := &checkInFixture{
		timeslots: newFakeTimeslotRepo(),
		publisher: &fakePublisher{},
		issuer:    token.NewIssuer("test-secret", 5*time.Minute),
	}
	f.reservations = newFakeReservationRepo(f.timeslots, newFakePackageRepo())

	f.svc = NewCheckInService(f.reservations, f.timeslots, f.issuer, f.publisher).(*checkInService)
	return f
}

func (f *checkInFixture) addReservation(id, memberID int64, status entity.ReservationStatus) {
	f.reservations.reservations[id] = &entity.Reservation{
		ID:         id,
		MemberID:   memberID,
		TimeslotID: 1,
		PackageID:  1,
		Status:     status,
	}
}

func TestIssueToken(t *testing.T) {
	f := newCheckInFixture(t)
	f.addReservation(1, 1, entity.ReservationStatusConfirmed)

	// A session that started ten minutes ago: the token is verifiable right
	// away.
	anchor := time.Now().Add(-10 * time.Minute)
	date := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, anchor.Location())
	start := entity.NewClock(anchor.Hour(), anchor.Minute())
	slot := f.timeslots.add(&entity.Timeslot{
		ID: 1, FacilityID: 1, Date: date,
		StartTime: start, EndTime: start + 60, Capacity: 8,
	})

	tokenStr, err := f.svc.IssueToken(context.Background(), 1, 1)
	require.NoError(t, err)

	claims, err := f.issuer.Verify(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.ReservationID)
	assert.Equal(t, int64(1), claims.MemberID)
	assert.Equal(t, slot.StartAt().Unix(), claims.SessionStart)
	assert.Equal(t, slot.EndAt().Unix(), claims.SessionEnd)
}

func TestIssueTokenRejections(t *testing.T) {
	tests := []struct {
		name     string
		status   entity.ReservationStatus
		memberID int64
		wantErr  error
	}{
		{name: "another member's reservation", status: entity.ReservationStatusConfirmed, memberID: 2, wantErr: entity.ErrReservationNotOwned},
		{name: "cancelled reservation", status: entity.ReservationStatusCancelled, memberID: 1, wantErr: entity.ErrReservationNotActive},
		{name: "completed reservation", status: entity.ReservationStatusCompleted, memberID: 1, wantErr: entity.ErrReservationNotActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCheckInFixture(t)
			f.addReservation(1, 1, tt.status)

			_, err := f.svc.IssueToken(context.Background(), 1, tt.memberID)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConsumeToken(t *testing.T) {
	f := newCheckInFixture(t)
	f.addReservation(1, 1, entity.ReservationStatusConfirmed)

	now := time.Now()
	tokenStr, err := f.issuer.Issue(1, 1, now.Add(-10*time.Minute), now.Add(50*time.Minute))
	require.NoError(t, err)

	require.NoError(t, f.svc.ConsumeToken(context.Background(), tokenStr, 1))

	stored, err := f.reservations.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusCompleted, stored.Status)
	assert.Equal(t, []string{mq.KeyReservationCheckedIn}, f.publisher.keys)

	// Replay: the reservation is no longer confirmed.
	err = f.svc.ConsumeToken(context.Background(), tokenStr, 1)
	assert.ErrorIs(t, err, entity.ErrReservationNotActive)
}

func TestConsumeTokenRejections(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		token    func(f *checkInFixture) string
		memberID int64
		wantErr  error
	}{
		{
			name: "garbage token",
			token: func(f *checkInFixture) string {
				return "not.a.token"
			},
			memberID: 1,
			wantErr:  entity.ErrTokenInvalid,
		},
		{
			name: "token signed with a different secret",
			token: func(f *checkInFixture) string {
				foreign := token.NewIssuer("other-secret", 5*time.Minute)
				s, err := foreign.Issue(1, 1, now.Add(-10*time.Minute), now.Add(50*time.Minute))
				require.NoError(t, err)
				return s
			},
			memberID: 1,
			wantErr:  entity.ErrTokenInvalid,
		},
		{
			name: "token for an upcoming session",
			token: func(f *checkInFixture) string {
				s, err := f.issuer.Issue(1, 1, now.Add(time.Hour), now.Add(2*time.Hour))
				require.NoError(t, err)
				return s
			},
			memberID: 1,
			wantErr:  entity.ErrTokenNotYetValid,
		},
		{
			name: "token for an ended session",
			token: func(f *checkInFixture) string {
				s, err := f.issuer.Issue(1, 1, now.Add(-2*time.Hour), now.Add(-time.Hour))
				require.NoError(t, err)
				return s
			},
			memberID: 1,
			wantErr:  entity.ErrTokenExpired,
		},
		{
			name: "another member presents the token",
			token: func(f *checkInFixture) string {
				s, err := f.issuer.Issue(1, 1, now.Add(-10*time.Minute), now.Add(50*time.Minute))
				require.NoError(t, err)
				return s
			},
			memberID: 2,
			wantErr:  entity.ErrTokenMemberMismatch,
		},
		{
			name: "swipe inside the lead but before session start",
			token: func(f *checkInFixture) string {
				s, err := f.issuer.Issue(1, 1, now.Add(2*time.Minute), now.Add(time.Hour))
				require.NoError(t, err)
				return s
			},
			memberID: 1,
			wantErr:  entity.ErrOutsideEntryWindow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No reservation is seeded: every rejection here must happen
			// before storage is touched.
			f := newCheckInFixture(t)

			err := f.svc.ConsumeToken(context.Background(), tt.token(f), tt.memberID)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.publisher.keys)
		})
	}
}
