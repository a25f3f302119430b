package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	repository "github.com/poolpass/pool-booking/internal/database/postgres"
	"github.com/poolpass/pool-booking/internal/entity"
	"github.com/poolpass/pool-booking/pkg/mq"
	"github.com/poolpass/pool-booking/pkg/token"
)

type checkInService struct {
	reservationRepo repository.ReservationRepository
	timeslotRepo    repository.TimeslotRepository
	issuer          *token.Issuer
	publisher       EventPublisher

	now func() time.Time
}

func NewCheckInService(
	reservationRepo repository.ReservationRepository,
	timeslotRepo repository.TimeslotRepository,
	issuer *token.Issuer,
	publisher EventPublisher,
) CheckInService {
	return &checkInService{
		reservationRepo: reservationRepo,
		timeslotRepo:    timeslotRepo,
		issuer:          issuer,
		publisher:       publisher,
		now:             time.Now,
	}
}

// IssueToken produces a signed entry token for a confirmed reservation owned
// by the member.
func (s *checkInService) IssueToken(ctx context.Context, reservationID, memberID int64) (string, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return "", err
	}
	if reservation.MemberID != memberID {
		return "", entity.ErrReservationNotOwned
	}
	if reservation.Status != entity.ReservationStatusConfirmed {
		return "", entity.ErrReservationNotActive
	}

	slot, err := s.timeslotRepo.GetByID(ctx, reservation.TimeslotID)
	if err != nil {
		return "", err
	}

	return s.issuer.Issue(reservationID, memberID, slot.StartAt(), slot.EndAt())
}

// ConsumeToken checks the signature, the caller identity and the entry
// window before touching storage, then completes the reservation. The entry
// window [sessionStart, sessionEnd] is tighter than the token's own validity,
// an out-of-window swipe never reaches the database.
func (s *checkInService) ConsumeToken(ctx context.Context, tokenStr string, memberID int64) error {
	claims, err := s.issuer.Verify(tokenStr)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrNotYetValid):
			return entity.ErrTokenNotYetValid
		case errors.Is(err, token.ErrExpired):
			return entity.ErrTokenExpired
		default:
			return entity.ErrTokenInvalid
		}
	}

	if claims.MemberID != memberID {
		return entity.ErrTokenMemberMismatch
	}

	now := s.now()
	start := time.Unix(claims.SessionStart, 0)
	end := time.Unix(claims.SessionEnd, 0)
	if now.Before(start) || now.After(end) {
		return entity.ErrOutsideEntryWindow
	}

	reservation, err := s.reservationRepo.GetByID(ctx, claims.ReservationID)
	if err != nil {
		return err
	}
	if reservation.Status != entity.ReservationStatusConfirmed {
		return entity.ErrReservationNotActive
	}

	err = s.reservationRepo.TransitionStatus(ctx, claims.ReservationID,
		entity.ReservationStatusConfirmed, entity.ReservationStatusCompleted)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"reservation_id": claims.ReservationID,
		"member_id":      memberID,
	}).Info("Member checked in")

	if s.publisher != nil {
		payload := map[string]any{
			"reservation_id": claims.ReservationID,
			"member_id":      memberID,
		}
		if err := s.publisher.PublishJSON(ctx, mq.KeyReservationCheckedIn, payload); err != nil {
			logrus.Errorf("Failed to publish %s event: %v", mq.KeyReservationCheckedIn, err)
		}
	}

	return nil
}
