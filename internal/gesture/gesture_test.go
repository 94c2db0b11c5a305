package gesture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name      string
		dx        float64
		elapsed   time.Duration
		learnMode bool
		want      Action
	}{
		{"fast far left drag is a swipe", -100, 150 * time.Millisecond, true, ActionSwipeLeft},
		{"tiny quick touch in learn mode is a tap", 5, 100 * time.Millisecond, true, ActionTap},
		{"slow short drag is a snap back", 40, time.Second, true, ActionSnapBack},
		{"tiny quick touch in test mode is not a tap", 5, 100 * time.Millisecond, false, ActionSnapBack},
		{"distance threshold alone qualifies", 80, 2 * time.Second, true, ActionSwipeRight},
		{"velocity threshold alone qualifies", -40, 50 * time.Millisecond, true, ActionSwipeLeft},
		{"exactly at distance threshold does not qualify", 75, 2 * time.Second, false, ActionSnapBack},
		{"quick but wide drag in learn mode is a swipe, not a tap", -90, 120 * time.Millisecond, true, ActionSwipeLeft},
		{"slow medium drag in test mode snaps back", -50, 800 * time.Millisecond, false, ActionSnapBack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(cfg, tt.dx, tt.elapsed, tt.learnMode)
			assert.Equal(t, tt.want, got.Action)
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	for i := 0; i < 5; i++ {
		res := Classify(cfg, -100, 150*time.Millisecond, true)
		assert.Equal(t, ActionSwipeLeft, res.Action)
		assert.InDelta(t, 100.0/150.0, res.Velocity, 1e-9)
	}
}

func TestTrackerStroke(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	start := time.Now()

	tr.Start(200, start)
	assert.True(t, tr.Dragging())

	offset := tr.Move(160)
	assert.Equal(t, float64(-40), offset)
	assert.InDelta(t, -2.0, tr.Rotation(), 1e-9)

	res := tr.End(100, start.Add(150*time.Millisecond), true)
	assert.Equal(t, ActionSwipeLeft, res.Action)
	assert.Equal(t, float64(-100), res.DX)
	assert.False(t, tr.Dragging())
}

func TestTrackerEndWithoutStart(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	res := tr.End(50, time.Now(), true)
	assert.Equal(t, ActionNone, res.Action)
}

func TestTrackerMoveWithoutStart(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	assert.Zero(t, tr.Move(123))
	assert.Zero(t, tr.Offset())
}

func TestZeroElapsedDoesNotDivideByZero(t *testing.T) {
	res := Classify(DefaultConfig(), -20, 0, false)
	assert.Equal(t, ActionSwipeLeft, res.Action, "instantaneous movement counts as fast")
}
