package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WeeklyArticles/internal/domain"
)

type immediateDriver struct {
	trigger time.Time
	stopped bool
}

func (d *immediateDriver) Start(_ context.Context, job func(time.Time)) error {
	job(d.trigger)
	return nil
}

func (d *immediateDriver) Stop(context.Context) error {
	d.stopped = true
	return nil
}

func TestSchedulerDerivesWeekFromTrigger(t *testing.T) {
	t.Parallel()

	f := newFixture()
	driver := &immediateDriver{trigger: time.Date(2024, 2, 16, 17, 0, 0, 0, time.UTC)}
	sched := NewScheduler(driver, f.pipeline(1), []domain.Topic{{Key: "BTC-USD", AssetClass: domain.AssetCrypto}},
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	var got []domain.TopicReport
	sched.AfterRun = func(reports []domain.TopicReport, err error) {
		assert.NoError(t, err)
		got = reports
	}

	require.NoError(t, sched.Start(context.Background()))
	require.Len(t, f.indexer.refs, 1)
	assert.Equal(t, time.Date(2024, 2, 12, 0, 0, 0, 0, time.UTC), f.indexer.refs[0].Week.Monday)
	assert.Equal(t, time.Date(2024, 2, 16, 0, 0, 0, 0, time.UTC), f.indexer.refs[0].Week.Friday)
	require.Len(t, got, 1)

	require.NoError(t, sched.Stop(context.Background()))
	assert.True(t, driver.stopped)
}

func TestSchedulerWithoutDriverIsNoop(t *testing.T) {
	t.Parallel()

	sched := NewScheduler(nil, nil, nil, nil)
	assert.NoError(t, sched.Start(context.Background()))
	assert.NoError(t, sched.Stop(context.Background()))
}
