package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreaker(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("opens after threshold consecutive failures", func(t *testing.T) {
		b := New("kafka", WithFailureThreshold(2), WithClock(clock))
		assert.False(t, b.RecordFailure())
		assert.True(t, b.RecordFailure())
		assert.Equal(t, StateOpen, b.State())
		assert.False(t, b.Allow())
	})

	t.Run("success resets the failure streak", func(t *testing.T) {
		b := New("kafka", WithFailureThreshold(2), WithClock(clock))
		b.RecordFailure()
		b.RecordSuccess()
		assert.False(t, b.RecordFailure())
		assert.Equal(t, StateClosed, b.State())
	})

	t.Run("admits one probe after cooldown and closes on success", func(t *testing.T) {
		current := now
		b := New("kafka",
			WithFailureThreshold(1),
			WithCooldown(time.Minute),
			WithClock(func() time.Time { return current }),
		)
		b.RecordFailure()
		assert.False(t, b.Allow())

		current = current.Add(time.Minute)
		assert.True(t, b.Allow())
		assert.False(t, b.Allow(), "second caller waits for the probe result")

		assert.True(t, b.RecordSuccess())
		assert.True(t, b.Allow())
		assert.Equal(t, "closed", b.State().String())
	})
}
