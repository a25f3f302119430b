package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poolpass/pool-booking/internal/entity"
)

func newEducationService(t *testing.T) (EducationService, *fakeEducationWindowRepo) {
	t.Helper()
	repo := newFakeEducationWindowRepo()
	return NewEducationService(repo), repo
}

func TestResolveEducation(t *testing.T) {
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	tests := []struct {
		name  string
		date  time.Time
		start entity.Clock
		want  bool
	}{
		{name: "inside the window", date: monday, start: entity.NewClock(18, 0), want: true},
		{name: "last covered start", date: monday, start: entity.NewClock(19, 0), want: true},
		{name: "start at window end", date: monday, start: entity.NewClock(20, 0), want: false},
		{name: "before the window", date: monday, start: entity.NewClock(17, 0), want: false},
		{name: "uncovered weekday", date: tuesday, start: entity.NewClock(18, 0), want: false},
	}

	svc, repo := newEducationService(t)
	require.NoError(t, repo.Create(context.Background(), &entity.EducationWindow{
		Weekdays:  []time.Weekday{time.Monday},
		StartTime: entity.NewClock(18, 0),
		EndTime:   entity.NewClock(20, 0),
		Active:    true,
	}))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ResolveEducation(context.Background(), tt.date, tt.start)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveEducationDefaultWindow(t *testing.T) {
	svc, _ := newEducationService(t)
	anyDay := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)

	// With no windows configured the 09:00-12:00 default applies every day.
	got, err := svc.ResolveEducation(context.Background(), anyDay, entity.NewClock(10, 0))
	require.NoError(t, err)
	assert.True(t, got)

	got, err = svc.ResolveEducation(context.Background(), anyDay, entity.NewClock(13, 0))
	require.NoError(t, err)
	assert.False(t, got)
}

func TestResolveEducationIgnoresInactiveWindows(t *testing.T) {
	svc, repo := newEducationService(t)
	require.NoError(t, repo.Create(context.Background(), &entity.EducationWindow{
		Weekdays:  []time.Weekday{time.Monday},
		StartTime: entity.NewClock(18, 0),
		EndTime:   entity.NewClock(20, 0),
		Active:    false,
	}))
	// One active window suppresses the default even if it covers nothing
	// relevant.
	require.NoError(t, repo.Create(context.Background(), &entity.EducationWindow{
		Weekdays:  []time.Weekday{time.Sunday},
		StartTime: entity.NewClock(8, 0),
		EndTime:   entity.NewClock(9, 0),
		Active:    true,
	}))

	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	got, err := svc.ResolveEducation(context.Background(), monday, entity.NewClock(18, 30))
	require.NoError(t, err)
	assert.False(t, got)

	got, err = svc.ResolveEducation(context.Background(), monday, entity.NewClock(10, 0))
	require.NoError(t, err)
	assert.False(t, got)
}

func TestCreateWindow(t *testing.T) {
	svc, repo := newEducationService(t)

	window, err := svc.CreateWindow(context.Background(), &CreateWindowRequest{
		Weekdays:  []time.Weekday{time.Monday, time.Wednesday},
		StartTime: entity.NewClock(18, 0),
		EndTime:   entity.NewClock(20, 0),
	})
	require.NoError(t, err)

	assert.NotZero(t, window.ID)
	assert.True(t, window.Active)
	assert.Len(t, repo.windows, 1)
}

func TestCreateWindowValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     *CreateWindowRequest
		wantErr error
	}{
		{
			name: "no weekdays",
			req: &CreateWindowRequest{
				StartTime: entity.NewClock(18, 0),
				EndTime:   entity.NewClock(20, 0),
			},
			wantErr: entity.ErrEmptyWeekdays,
		},
		{
			name: "inverted time range",
			req: &CreateWindowRequest{
				Weekdays:  []time.Weekday{time.Monday},
				StartTime: entity.NewClock(20, 0),
				EndTime:   entity.NewClock(18, 0),
			},
			wantErr: entity.ErrInvalidTimeRange,
		},
		{
			name: "zero-length range",
			req: &CreateWindowRequest{
				Weekdays:  []time.Weekday{time.Monday},
				StartTime: entity.NewClock(18, 0),
				EndTime:   entity.NewClock(18, 0),
			},
			wantErr: entity.ErrInvalidTimeRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newEducationService(t)

			_, err := svc.CreateWindow(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, repo.windows)
		})
	}
}

func TestUpdateWindow(t *testing.T) {
	svc, _ := newEducationService(t)
	created, err := svc.CreateWindow(context.Background(), &CreateWindowRequest{
		Weekdays:  []time.Weekday{time.Monday},
		StartTime: entity.NewClock(18, 0),
		EndTime:   entity.NewClock(20, 0),
	})
	require.NoError(t, err)

	t.Run("partial update keeps unspecified fields", func(t *testing.T) {
		newEnd := entity.NewClock(21, 0)
		updated, err := svc.UpdateWindow(context.Background(), created.ID, &UpdateWindowRequest{
			EndTime: &newEnd,
		})
		require.NoError(t, err)
		assert.Equal(t, entity.NewClock(18, 0), updated.StartTime)
		assert.Equal(t, newEnd, updated.EndTime)
		assert.Equal(t, []time.Weekday{time.Monday}, updated.Weekdays)
	})

	t.Run("update resulting in an invalid range is rejected", func(t *testing.T) {
		badEnd := entity.NewClock(10, 0)
		_, err := svc.UpdateWindow(context.Background(), created.ID, &UpdateWindowRequest{
			EndTime: &badEnd,
		})
		assert.ErrorIs(t, err, entity.ErrInvalidTimeRange)
	})

	t.Run("unknown window", func(t *testing.T) {
		_, err := svc.UpdateWindow(context.Background(), 999, &UpdateWindowRequest{})
		assert.ErrorIs(t, err, entity.ErrEducationWindowNotFound)
	})
}

func TestUpdateWindowDuplicateWeekdays(t *testing.T) {
	svc, repo := newEducationService(t)
	created, err := svc.CreateWindow(context.Background(), &CreateWindowRequest{
		Weekdays:  []time.Weekday{time.Monday, time.Monday},
		StartTime: entity.NewClock(18, 0),
		EndTime:   entity.NewClock(20, 0),
	})
	require.NoError(t, err)

	// A duplicated stored list must not mask a real weekday change.
	updated, err := svc.UpdateWindow(context.Background(), created.ID, &UpdateWindowRequest{
		Weekdays: []time.Weekday{time.Monday, time.Tuesday},
	})
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Monday, time.Tuesday}, updated.Weekdays)
	assert.Equal(t, []time.Weekday{time.Monday, time.Tuesday}, repo.windows[created.ID].Weekdays)
}

func TestDeleteWindow(t *testing.T) {
	svc, repo := newEducationService(t)
	created, err := svc.CreateWindow(context.Background(), &CreateWindowRequest{
		Weekdays:  []time.Weekday{time.Friday},
		StartTime: entity.NewClock(9, 0),
		EndTime:   entity.NewClock(11, 0),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteWindow(context.Background(), created.ID))
	assert.Empty(t, repo.windows)

	assert.ErrorIs(t, svc.DeleteWindow(context.Background(), created.ID), entity.ErrEducationWindowNotFound)
}
