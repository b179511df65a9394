package timing

import (
	"fmt"

	"ranger/internal/fault"
)

const (
	// RepeatForever makes a Timer fire indefinitely.
	RepeatForever = -1

	// Epsilon absorbs floating point drift at interval boundaries.
	Epsilon = 0.000001
)

// Timer drives one UpdateTarget through an optional delay, then an interval
// loop that repeats RepeatCount+1 times (or forever).
//
// The Timer holds a non-owning Ref. When the target disappears the Timer
// flags itself TargetGone and stops calling it; removing the Timer is left
// to the Scheduler.
type Timer struct {
	id int

	// In milliseconds. At 60 FPS a frame is ~16.667ms.
	interval float64
	elapsed  float64

	runForever bool
	useDelay   bool
	paused     bool

	intervalCount int
	expired       bool
	targetGone    bool

	// 0 = once, 1 = twice, ...
	repeatCount int

	delay         float64
	delayComplete bool

	target Ref

	callbackCount int64
}

// NewTimer binds a Timer to ref. The Timer fires every tick (interval 0,
// runs forever) until its interval or repeat count is changed.
func NewTimer(ref Ref) (*Timer, error) {
	if err := checkRef("NewTimer", ref); err != nil {
		return nil, err
	}
	return &Timer{id: ref.ID(), target: ref, runForever: true}, nil
}

// NewIntervalTimer binds a Timer to ref firing every interval ms, repeat+1
// times. Pass RepeatForever to never expire.
func NewIntervalTimer(ref Ref, interval float64, repeat int) (*Timer, error) {
	if err := checkRef("NewIntervalTimer", ref); err != nil {
		return nil, err
	}
	return &Timer{
		id:          ref.ID(),
		target:      ref,
		interval:    interval,
		repeatCount: repeat,
		runForever:  repeat == RepeatForever,
	}, nil
}

func checkRef(op string, ref Ref) error {
	if ref == nil {
		return fault.InvalidArgument(op, "a valid UpdateTarget is required")
	}
	if _, ok := ref.Target(); !ok {
		return fault.InvalidArgument(op, "a valid UpdateTarget is required")
	}
	return nil
}

// Arm restarts the interval loop and clears pause and expiry.
func (t *Timer) Arm() {
	t.elapsed = 0
	t.expired = false
	t.intervalCount = 0
	t.paused = false
}

// ArmWithDelay defers the interval loop by delay ms. The delay consumes no
// part of the first interval.
func (t *Timer) ArmWithDelay(delay float64) {
	t.useDelay = true
	t.delay = delay
	t.delayComplete = false
	t.Arm()
}

// Disarm pauses the Timer until it is armed again.
func (t *Timer) Disarm() {
	t.paused = true
}

// ChangeInterval sets the interval and re-arms without delay.
func (t *Timer) ChangeInterval(interval float64) {
	t.interval = interval
	t.Arm()
}

// ChangeRepeats sets how many times the interval repeats and re-arms without
// delay.
func (t *Timer) ChangeRepeats(count int) {
	t.repeatCount = count
	t.runForever = count == RepeatForever
	t.Arm()
}

// Update advances the Timer by dt ms. The target receives the accumulated
// elapsed time since the last interval boundary, not dt. The target is
// called before the boundary check, so expiry is observed one call after the
// last valid firing.
func (t *Timer) Update(dt float64) {
	if t.paused || t.expired {
		return
	}

	t.elapsed += dt

	if t.useDelay && !t.delayComplete {
		if t.elapsed >= t.delay {
			t.delayComplete = true
			t.Arm()
		}
		return
	}

	target, ok := t.target.Target()
	if !ok {
		t.targetGone = true
		return
	}
	target.Update(t.elapsed)

	if t.runForever {
		if t.elapsed >= t.interval {
			t.elapsed = 0
		}
		return
	}

	if t.interval-t.elapsed < Epsilon {
		t.elapsed = 0
		t.intervalCount++
	}

	if t.intervalCount > t.repeatCount {
		t.expired = true
		return
	}
	t.callbackCount++
}

func (t *Timer) ID() int              { return t.id }
func (t *Timer) Interval() float64    { return t.interval }
func (t *Timer) Elapsed() float64     { return t.elapsed }
func (t *Timer) Delay() float64       { return t.delay }
func (t *Timer) RepeatCount() int     { return t.repeatCount }
func (t *Timer) IntervalCount() int   { return t.intervalCount }
func (t *Timer) CallbackCount() int64 { return t.callbackCount }
func (t *Timer) Paused() bool         { return t.paused }
func (t *Timer) Expired() bool        { return t.expired }
func (t *Timer) TargetGone() bool     { return t.targetGone }
func (t *Timer) RunsForever() bool    { return t.runForever }
func (t *Timer) DelayComplete() bool  { return t.delayComplete }

func (t *Timer) String() string {
	return fmt.Sprintf("Timer: Id= %d, interval= %g, delay= %g, paused= %t, expired= %t, runforever= %t, repeat= %d",
		t.id, t.interval, t.delay, t.paused, t.expired, t.runForever, t.repeatCount)
}
