package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSleep(t *testing.T) {
	start := time.Now()
	err := Sleep(context.Background(), 20*time.Millisecond)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestSleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Sleep(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)

	// zero duration still reports a dead context
	assert.ErrorIs(t, Sleep(ctx, 0), context.Canceled)
}

func TestMillis(t *testing.T) {
	assert.Equal(t, 100.0, Millis(100*time.Millisecond))
	assert.Equal(t, 1500.0, Millis(1500*time.Millisecond))
}

func TestRandomUserAgent(t *testing.T) {
	ua := RandomUserAgent()
	assert.Contains(t, userAgents, ua)
}
