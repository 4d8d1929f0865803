// Package progress turns discrete pipeline steps into a monotone completion fraction.
package progress

import "sync"

// Func receives the completion fraction in [0,1]
type Func func(fraction float64)

// TotalSteps is the step count of a render of n slides: two per slide (write, encode)
// plus the manifest and the final concatenation.
func TotalSteps(slides int) int {
	return 2*slides + 2
}

// Fraction is done/total clamped to [0,1]
func Fraction(done, total int) float64 {
	if total <= 0 || done <= 0 {
		return 0
	}
	if done >= total {
		return 1
	}
	return float64(done) / float64(total)
}

// Tracker counts steps and reports each one. It never reports more than total times
// and never reports a smaller value than before.
type Tracker struct {
	mu    sync.Mutex
	total int
	done  int
	fn    Func
}

// NewTracker creates a Tracker; fn may be nil
func NewTracker(total int, fn Func) *Tracker {
	return &Tracker{total: total, fn: fn}
}

// Tick records one finished step and returns the new fraction
func (t *Tracker) Tick() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done >= t.total {
		return 1
	}
	t.done++
	f := Fraction(t.done, t.total)
	if t.fn != nil {
		t.fn(f)
	}
	return f
}

// Done returns the number of steps reported so far
func (t *Tracker) Done() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}
