// Package timing drives per-frame updates: priority ordered TimingTargets and
// interval/repeat/delay Timers wrapping UpdateTargets.
//
// All durations are logical milliseconds supplied by the caller's frame delta.
// Nothing in this package is safe for concurrent use; schedule, unschedule and
// update from the single update goroutine.
package timing

import "weak"

// UpdateTarget is anything that can receive periodic update calls.
type UpdateTarget interface {
	ID() int
	// Update is called once per logical tick. dt is in milliseconds.
	Update(dt float64)
}

// Identified is the part of a target the Scheduler needs for lookups.
type Identified interface {
	ID() int
}

var (
	targetGenID = 1
	targetGuard = goroutineGuard{name: "timing.NextTargetID"}
)

// NextTargetID returns a process-wide unique, monotonically increasing id.
// Not safe for concurrent use: create targets on the update goroutine.
func NextTargetID() int {
	targetGuard.check()
	id := targetGenID
	targetGenID++
	return id
}

// TargetBase is an embeddable UpdateTarget with a no-op Update.
type TargetBase struct {
	id int
}

// NewTargetBase assigns the next target id.
func NewTargetBase() TargetBase {
	return TargetBase{id: NextTargetID()}
}

func (b *TargetBase) ID() int { return b.id }

// Update does nothing. Embedders override it.
func (b *TargetBase) Update(dt float64) {}

// UpdateFunc adapts a plain function to an UpdateTarget.
type UpdateFunc struct {
	TargetBase
	fn func(dt float64)
}

func NewUpdateFunc(fn func(dt float64)) *UpdateFunc {
	return &UpdateFunc{TargetBase: NewTargetBase(), fn: fn}
}

func (f *UpdateFunc) Update(dt float64) {
	if f.fn != nil {
		f.fn(dt)
	}
}

// Ref is a non-owning handle on an UpdateTarget. Target reports false once
// the referent no longer exists.
type Ref interface {
	ID() int
	Target() (UpdateTarget, bool)
}

type weakRef[T any] struct {
	id   int
	ptr  weak.Pointer[T]
	conv func(*T) UpdateTarget
}

func (r weakRef[T]) ID() int { return r.id }

func (r weakRef[T]) Target() (UpdateTarget, bool) {
	p := r.ptr.Value()
	if p == nil {
		return nil, false
	}
	return r.conv(p), true
}

// Weak returns a Ref that does not keep p alive. After p is garbage
// collected the Ref reports the target as gone.
func Weak[T any, P interface {
	*T
	UpdateTarget
}](p P) Ref {
	if p == nil {
		return nil
	}
	return weakRef[T]{
		id:   p.ID(),
		ptr:  weak.Make((*T)(p)),
		conv: func(t *T) UpdateTarget { return P(t) },
	}
}

type strongRef struct {
	target UpdateTarget
}

func (r strongRef) ID() int                      { return r.target.ID() }
func (r strongRef) Target() (UpdateTarget, bool) { return r.target, true }

// Strong returns a Ref that pins t. Use it for targets nothing else owns,
// such as an UpdateFunc closure.
func Strong(t UpdateTarget) Ref {
	if t == nil {
		return nil
	}
	return strongRef{target: t}
}
