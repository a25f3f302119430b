package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer("test-secret", 5*time.Minute)

	start := time.Now().Add(-time.Minute)
	end := time.Now().Add(time.Hour)

	tokenStr, err := issuer.Issue(42, 7, start, end)
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	claims, err := issuer.Verify(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.ReservationID)
	assert.Equal(t, int64(7), claims.MemberID)
	assert.Equal(t, start.Unix(), claims.SessionStart)
	assert.Equal(t, end.Unix(), claims.SessionEnd)
	assert.NotEmpty(t, claims.ID)
}

func TestVerifyValidityWindow(t *testing.T) {
	issuer := NewIssuer("test-secret", 5*time.Minute)

	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{
			name:    "session starting in two hours is not valid yet",
			start:   time.Now().Add(2 * time.Hour),
			end:     time.Now().Add(3 * time.Hour),
			wantErr: ErrNotYetValid,
		},
		{
			name:    "session already over is expired",
			start:   time.Now().Add(-3 * time.Hour),
			end:     time.Now().Add(-2 * time.Hour),
			wantErr: ErrExpired,
		},
		{
			name:    "inside the lead window is accepted",
			start:   time.Now().Add(3 * time.Minute),
			end:     time.Now().Add(time.Hour),
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenStr, err := issuer.Issue(1, 1, tt.start, tt.end)
			require.NoError(t, err)

			_, err = issuer.Verify(tokenStr)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	issuer := NewIssuer("test-secret", 5*time.Minute)
	other := NewIssuer("another-secret", 5*time.Minute)

	tokenStr, err := other.Issue(1, 1, time.Now(), time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = issuer.Verify(tokenStr)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer := NewIssuer("test-secret", 5*time.Minute)

	_, err := issuer.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalid)
}
