package besteffort

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}

func TestRunner_LogsFailure(t *testing.T) {
	log, logs := observed()
	r := NewRunner(time.Second, log)

	r.Go(context.Background(), "sync", func(ctx context.Context) error {
		return errors.New("boom")
	})
	require.NoError(t, r.Wait(context.Background()))

	entries := logs.FilterMessage("best-effort task failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "sync", entries[0].ContextMap()["task"])
}

func TestRunner_RecoversPanic(t *testing.T) {
	log, logs := observed()
	r := NewRunner(time.Second, log)

	r.Go(context.Background(), "panicky", func(ctx context.Context) error {
		panic("bad")
	})
	require.NoError(t, r.Wait(context.Background()))
	assert.Equal(t, 1, logs.FilterMessage("best-effort task failed").Len())
}

func TestRunner_SurvivesParentCancel(t *testing.T) {
	r := NewRunner(time.Second, nil)
	parent, cancel := context.WithCancel(context.Background())

	var ran atomic.Bool
	started := make(chan struct{})
	r.Go(parent, "detached", func(ctx context.Context) error {
		close(started)
		time.Sleep(20 * time.Millisecond)
		if ctx.Err() == nil {
			ran.Store(true)
		}
		return nil
	})
	<-started
	cancel()

	require.NoError(t, r.Wait(context.Background()))
	assert.True(t, ran.Load())
}

func TestRunner_TaskTimeout(t *testing.T) {
	log, logs := observed()
	r := NewRunner(10*time.Millisecond, log)

	r.Go(context.Background(), "slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	require.NoError(t, r.Wait(context.Background()))
	assert.Equal(t, 1, logs.FilterMessage("best-effort task failed").Len())
}

func TestRunner_WaitHonoursContext(t *testing.T) {
	r := NewRunner(time.Second, nil)
	release := make(chan struct{})
	r.Go(context.Background(), "blocked", func(ctx context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Wait(ctx), context.DeadlineExceeded)
	close(release)
	require.NoError(t, r.Wait(context.Background()))
}
