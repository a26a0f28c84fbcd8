package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadInput(t *testing.T) {
	noop := func(context.Context) error { return nil }

	_, err := New("not a schedule", "", noop, nil)
	assert.Error(t, err)

	_, err = New("0 8 * * *", "Mars/Olympus", noop, nil)
	assert.Error(t, err)
}

func TestNextAfter(t *testing.T) {
	s, err := New("0 8 * * *", "Europe/Copenhagen", func(context.Context) error { return nil }, nil)
	require.NoError(t, err)

	// 06:00 UTC is 08:00 in Copenhagen during summer time
	from := time.Date(2025, 6, 1, 5, 0, 0, 0, time.UTC)
	next := s.NextAfter(from)
	assert.True(t, next.Equal(time.Date(2025, 6, 1, 6, 0, 0, 0, time.UTC)), next.String())

	next = s.NextAfter(next)
	assert.True(t, next.Equal(time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)), next.String())
}

func TestRunNowPassesError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	s, err := New("@daily", "", func(context.Context) error {
		calls++
		return boom
	}, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, s.RunNow(context.Background()), boom)
	assert.Equal(t, 1, calls)
}

func TestStartStop(t *testing.T) {
	s, err := New("@hourly", "", func(context.Context) error { return nil }, nil)
	require.NoError(t, err)

	s.Start(context.Background())
	assert.True(t, s.Next().After(time.Now()))
	s.Stop()
}
