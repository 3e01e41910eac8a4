package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowWithinWindow(t *testing.T) {
	l := NewLimiter(2, time.Minute)
	defer l.Stop()
	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }

	assert.True(t, l.Allow("mia@corp.io"))
	assert.True(t, l.Allow("mia@corp.io"))
	assert.False(t, l.Allow("mia@corp.io"))
	assert.True(t, l.Allow("ann@corp.io"))

	clock = clock.Add(61 * time.Second)
	assert.True(t, l.Allow("mia@corp.io"))
}

func TestAllowStrictUsesSeparateBudget(t *testing.T) {
	l := NewLimiter(100, time.Minute)
	defer l.Stop()

	assert.True(t, l.AllowStrict("10.0.0.1", 1, time.Minute))
	assert.False(t, l.AllowStrict("10.0.0.1", 1, time.Minute))
	assert.True(t, l.Allow("10.0.0.1"))
}

func TestZeroLimitDisables(t *testing.T) {
	l := NewLimiter(0, time.Minute)
	defer l.Stop()
	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow("anyone"))
	}
	assert.True(t, l.Allow(""))
	l.Stop()
}
