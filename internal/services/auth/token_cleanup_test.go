package auth

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingPurger struct {
	calls atomic.Int32
	err   error
}

func (p *countingPurger) CleanupTokens(ctx context.Context) (int64, error) {
	p.calls.Add(1)
	return 3, p.err
}

func TestTokenCleanup_PurgesOnStartAndOnTick(t *testing.T) {
	purger := &countingPurger{}
	svc := newTokenCleanupService(purger, 10*time.Millisecond)

	svc.Start()
	assert.Eventually(t, func() bool { return purger.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	svc.Stop()

	after := purger.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, purger.calls.Load(), "no purge after Stop")
}

func TestTokenCleanup_KeepsRunningAfterErrors(t *testing.T) {
	purger := &countingPurger{err: errors.New("db down")}
	svc := newTokenCleanupService(purger, 10*time.Millisecond)

	svc.Start()
	defer svc.Stop()
	assert.Eventually(t, func() bool { return purger.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestTokenCleanup_StopWithoutStart(t *testing.T) {
	svc := newTokenCleanupService(&countingPurger{}, time.Hour)
	assert.NotPanics(t, svc.Stop)
}
