package scheduler

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewCronSchedulerValidates(t *testing.T) {
	t.Parallel()

	_, err := NewCronScheduler("not a cron", nil, quiet())
	assert.Error(t, err)

	s, err := NewCronScheduler("", nil, quiet())
	require.NoError(t, err)

	// Wednesday -> the coming Friday at 18:00.
	next := s.Next(time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 1, 12, 18, 0, 0, 0, time.UTC), next)
}

func TestNextHonoursLocation(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("EST", -5*3600)
	s, err := NewCronScheduler("30 7 * * 1", loc, quiet())
	require.NoError(t, err)

	next := s.Next(time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 1, 15, 7, 30, 0, 0, loc), next)
}

func TestStartRunsJobAndStops(t *testing.T) {
	t.Parallel()

	s, err := NewCronScheduler("@every 1s", time.UTC, quiet())
	require.NoError(t, err)

	fired := make(chan time.Time, 4)
	require.NoError(t, s.Start(context.Background(), func(at time.Time) {
		select {
		case fired <- at:
		default:
		}
	}))
	// A second Start is ignored.
	require.NoError(t, s.Start(context.Background(), func(time.Time) {}))

	select {
	case at := <-fired:
		assert.Equal(t, time.UTC, at.Location())
	case <-time.After(5 * time.Second):
		t.Fatal("job was not triggered")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx))
}

func TestStartWithNilJob(t *testing.T) {
	t.Parallel()

	s, err := NewCronScheduler("", nil, quiet())
	require.NoError(t, err)
	assert.NoError(t, s.Start(context.Background(), nil))
	assert.NoError(t, s.Stop(context.Background()))
}
