// Package token issues and verifies signed check-in tokens. A token proves
// that a specific reservation is eligible for facility entry during its
// session window; verification is a pure cryptographic computation.
package token

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalid     = errors.New("token is invalid")
	ErrNotYetValid = errors.New("token is not valid yet")
	ErrExpired     = errors.New("token has expired")
)

// Claims carries the reservation identity and its session window.
type Claims struct {
	ReservationID int64 `json:"reservation_id"`
	MemberID      int64 `json:"member_id"`
	SessionStart  int64 `json:"session_start"`
	SessionEnd    int64 `json:"session_end"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies check-in tokens with an HMAC secret. EntryLead
// is how long before session start a token becomes usable.
type Issuer struct {
	secret    []byte
	entryLead time.Duration
}

func NewIssuer(secret string, entryLead time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), entryLead: entryLead}
}

// Issue creates a token valid from sessionStart-entryLead until sessionEnd.
func (i *Issuer) Issue(reservationID, memberID int64, sessionStart, sessionEnd time.Time) (string, error) {
	claims := Claims{
		ReservationID: reservationID,
		MemberID:      memberID,
		SessionStart:  sessionStart.Unix(),
		SessionEnd:    sessionEnd.Unix(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(sessionStart.Add(-i.entryLead)),
			ExpiresAt: jwt.NewNumericDate(sessionEnd),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Verify validates the signature and the token's own validity window and
// returns the embedded claims. Not-yet-valid, expired and malformed tokens
// are reported as distinct errors.
func (i *Issuer) Verify(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return i.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrNotYetValid
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		default:
			return nil, ErrInvalid
		}
	}

	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, ErrInvalid
	}
	return c, nil
}
