package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunExecutesJob(t *testing.T) {
	sched := New()

	ran := 0
	sched.Register(Job{
		Name:     "noop",
		Interval: time.Hour,
		Fn: func(ctx context.Context) error {
			ran++
			return nil
		},
	})

	require.NoError(t, sched.Run(context.Background(), "noop"))
	assert.Equal(t, 1, ran)

	statuses := sched.List()
	require.Len(t, statuses, 1)
	assert.Equal(t, StatusFulfill, statuses[0].Status)
	assert.NotNil(t, statuses[0].LastRunAt)
}

func TestRunUnknownJob(t *testing.T) {
	assert.ErrorIs(t, New().Run(context.Background(), "missing"), ErrJobNotFound)
}

func TestFailedJobReportsReject(t *testing.T) {
	sched := New()
	sched.Register(Job{
		Name:     "broken",
		Interval: time.Hour,
		Fn: func(ctx context.Context) error {
			return errors.New("boom")
		},
	})

	require.Error(t, sched.Run(context.Background(), "broken"))

	statuses := sched.List()
	require.Len(t, statuses, 1)
	assert.Equal(t, StatusReject, statuses[0].Status)
	assert.Contains(t, statuses[0].Message, "boom")
}
