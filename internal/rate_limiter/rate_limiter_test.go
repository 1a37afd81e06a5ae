package rate_limiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsAllowedUpToLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	assert.True(t, rl.IsAllowed("1.2.3.4"))
	assert.True(t, rl.IsAllowed("1.2.3.4"))
	assert.True(t, rl.IsAllowed("1.2.3.4"))
	assert.False(t, rl.IsAllowed("1.2.3.4"))
}

func TestKeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	assert.True(t, rl.IsAllowed("1.2.3.4"))
	assert.False(t, rl.IsAllowed("1.2.3.4"))
	assert.True(t, rl.IsAllowed("5.6.7.8"))
}

func TestWindowExpiry(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	assert.True(t, rl.IsAllowed("1.2.3.4"))
	assert.False(t, rl.IsAllowed("1.2.3.4"))

	time.Sleep(20 * time.Millisecond)

	assert.True(t, rl.IsAllowed("1.2.3.4"))
}

func TestGetRemainingRequests(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	assert.Equal(t, 3, rl.GetRemainingRequests("1.2.3.4"))
	rl.IsAllowed("1.2.3.4")
	assert.Equal(t, 2, rl.GetRemainingRequests("1.2.3.4"))
}
