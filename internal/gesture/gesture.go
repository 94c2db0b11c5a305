// Package gesture classifies single-pointer input on a flashcard as a tap,
// a swipe, or a snap-back. The classifier works in abstract gesture units;
// callers translate their input coordinates (touch px, terminal cells)
// before feeding the tracker.
package gesture

import "time"

// Action is the outcome of a completed gesture.
type Action int

const (
	ActionNone Action = iota
	// ActionTap speaks the card and leaves the cursor alone (learn mode only).
	ActionTap
	// ActionSwipeLeft advances to the next card.
	ActionSwipeLeft
	// ActionSwipeRight retreats to the previous card.
	ActionSwipeRight
	// ActionSnapBack returns the card to neutral with no state change.
	ActionSnapBack
)

func (a Action) String() string {
	switch a {
	case ActionTap:
		return "tap"
	case ActionSwipeLeft:
		return "swipe-left"
	case ActionSwipeRight:
		return "swipe-right"
	case ActionSnapBack:
		return "snap-back"
	default:
		return "none"
	}
}

// Config holds the classification thresholds. These constants are the
// contract: tap is small and quick, swipe is far or fast.
type Config struct {
	TapMaxDistance   float64       // units
	TapMaxDuration   time.Duration // ms window for a tap
	SwipeMinDistance float64       // units
	SwipeMinVelocity float64       // units per millisecond
}

// DefaultConfig returns the published thresholds.
func DefaultConfig() Config {
	return Config{
		TapMaxDistance:   15,
		TapMaxDuration:   300 * time.Millisecond,
		SwipeMinDistance: 75,
		SwipeMinVelocity: 0.3,
	}
}

// Result describes a completed gesture.
type Result struct {
	Action   Action
	DX       float64
	Elapsed  time.Duration
	Velocity float64 // units per millisecond
}

// Classify is the deterministic core: given the horizontal delta and elapsed
// time of a completed pointer stroke, decide what it was. learnMode enables
// tap detection (test mode reserves taps for the reveal control).
func Classify(cfg Config, dx float64, elapsed time.Duration, learnMode bool) Result {
	ms := float64(elapsed.Milliseconds())
	if ms < 1 {
		ms = 1
	}
	velocity := abs(dx) / ms

	res := Result{DX: dx, Elapsed: elapsed, Velocity: velocity}

	if learnMode && abs(dx) < cfg.TapMaxDistance && elapsed < cfg.TapMaxDuration {
		res.Action = ActionTap
		return res
	}
	if abs(dx) > cfg.SwipeMinDistance || velocity > cfg.SwipeMinVelocity {
		if dx < 0 {
			res.Action = ActionSwipeLeft
		} else {
			res.Action = ActionSwipeRight
		}
		return res
	}
	res.Action = ActionSnapBack
	return res
}

// Tracker follows one pointer stroke on one card. Each card tracks its
// gesture independently.
type Tracker struct {
	cfg      Config
	startX   float64
	currentX float64
	startAt  time.Time
	dragging bool
}

// NewTracker creates a tracker with the given thresholds.
func NewTracker(cfg Config) *Tracker {
	return &Tracker{cfg: cfg}
}

// Start records the pointer-down position and timestamp.
func (t *Tracker) Start(x float64, at time.Time) {
	t.startX = x
	t.currentX = x
	t.startAt = at
	t.dragging = true
}

// Move updates the pointer position while dragging. It returns the current
// horizontal offset for direct-manipulation feedback.
func (t *Tracker) Move(x float64) float64 {
	if !t.dragging {
		return 0
	}
	t.currentX = x
	return t.Offset()
}

// Offset is the current horizontal delta from the start position.
func (t *Tracker) Offset() float64 {
	if !t.dragging {
		return 0
	}
	return t.currentX - t.startX
}

// Rotation is the proportional card rotation in degrees for the current
// offset.
func (t *Tracker) Rotation() float64 {
	return t.Offset() / 20
}

// Dragging reports whether a stroke is in progress.
func (t *Tracker) Dragging() bool { return t.dragging }

// End completes the stroke and classifies it.
func (t *Tracker) End(x float64, at time.Time, learnMode bool) Result {
	if !t.dragging {
		return Result{Action: ActionNone}
	}
	t.dragging = false
	return Classify(t.cfg, x-t.startX, at.Sub(t.startAt), learnMode)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
