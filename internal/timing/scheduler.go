package timing

import (
	"fmt"
	"log"
	"slices"

	"ranger/internal/fault"
)

// Scheduler updates the scheduled callbacks once per frame.
//
// There are two kinds of callbacks:
//   - TimingTargets are called every frame, high priority bucket (negative
//     priorities) first, then the normal bucket.
//   - UpdateTargets are driven by a Timer owned by the Scheduler, every frame
//     or on a custom interval, in the order they were scheduled.
//
// The Scheduler never owns targets. TimingTargets are held by reference,
// UpdateTargets through the non-owning Ref given at schedule time.
type Scheduler struct {
	// Slow/hyper motion: < 1.0 slows down, > 1.0 speeds up.
	timeScale float64

	high   bucket // (-inf, 0)
	normal bucket // [0]

	timers []*Timer

	// reused every Update so callbacks may (un)schedule while iterating
	targetScratch []bucketEntry
	timerScratch  []*Timer

	guard goroutineGuard
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		timeScale: 1.0,
		guard:     goroutineGuard{name: "Scheduler"},
	}
}

// TimeScale returns the factor applied to every dt.
func (s *Scheduler) TimeScale() float64 { return s.timeScale }

// SetTimeScale sets the factor applied to every dt.
func (s *Scheduler) SetTimeScale(scale float64) { s.timeScale = scale }

// UnscheduleAll drops every TimingTarget and Timer.
func (s *Scheduler) UnscheduleAll() {
	log.Printf("Scheduler: unscheduling all targets.")
	s.high.clear()
	s.normal.clear()
	s.timers = nil
}

// Update advances every scheduled target by dt milliseconds scaled by the
// time scale: high priority targets, normal priority targets, then timers.
// Paused targets and timers are skipped.
func (s *Scheduler) Update(dt float64) {
	s.guard.check()

	if s.timeScale != 1.0 {
		dt *= s.timeScale
	}

	s.targetScratch = append(s.targetScratch[:0], s.high.entries...)
	s.targetScratch = append(s.targetScratch, s.normal.entries...)
	for _, e := range s.targetScratch {
		if !e.target.Paused() {
			e.target.Update(dt)
		}
	}
	clear(s.targetScratch)

	s.timerScratch = append(s.timerScratch[:0], s.timers...)
	for _, t := range s.timerScratch {
		if !t.Paused() {
			t.Update(dt)
		}
	}
	clear(s.timerScratch)
}

// ##########################################################################
// TimingTargets
// ##########################################################################

// ScheduleTimingTarget adds target to the bucket of its priority. A target
// already present in either bucket is left alone.
func (s *Scheduler) ScheduleTimingTarget(target TimingTarget) {
	s.guard.check()

	id := target.ID()
	if s.normal.contains(id) || s.high.contains(id) {
		log.Printf("Scheduler: target with priority [%d] already scheduled.", target.Priority())
		return
	}

	switch p := target.Priority(); {
	case p < 0:
		s.high.insert(target)
	case p == NormalPriority:
		s.normal.insert(target)
	default:
		log.Printf("Scheduler: TimingTarget {%d} priority [%d] has no bucket, dropped.", id, p)
	}
}

// UnscheduleTimingTarget removes target from the bucket matching its
// current priority.
func (s *Scheduler) UnscheduleTimingTarget(target TimingTarget) {
	s.guard.check()

	removed := false
	switch p := target.Priority(); {
	case p < 0:
		removed = s.high.remove(target.ID())
	case p == NormalPriority:
		removed = s.normal.remove(target.ID())
	}
	if !removed {
		log.Printf("Scheduler: TimingTarget {%d} not found.", target.ID())
	}
}

// PauseTimingTargetsByPriority pauses every target whose priority equals
// priority.
func (s *Scheduler) PauseTimingTargetsByPriority(priority int) {
	s.eachWithPriority(priority, TimingTarget.Pause)
}

// ResumeTimingTargetsByPriority resumes every target whose priority equals
// priority.
func (s *Scheduler) ResumeTimingTargetsByPriority(priority int) {
	s.eachWithPriority(priority, TimingTarget.Resume)
}

func (s *Scheduler) eachWithPriority(priority int, fn func(TimingTarget)) {
	var b *bucket
	switch {
	case priority < 0:
		b = &s.high
	case priority == NormalPriority:
		b = &s.normal
	default:
		return
	}
	for _, e := range b.entries {
		if e.target.Priority() == priority {
			fn(e.target)
		}
	}
}

// HighPriorityCount returns the size of the high priority bucket.
func (s *Scheduler) HighPriorityCount() int { return s.high.len() }

// NormalPriorityCount returns the size of the normal priority bucket.
func (s *Scheduler) NormalPriorityCount() int { return s.normal.len() }

// ##########################################################################
// UpdateTargets
// ##########################################################################

func (s *Scheduler) timerIndex(id int) int {
	return slices.IndexFunc(s.timers, func(t *Timer) bool { return t.ID() == id })
}

func (s *Scheduler) timerFor(target Identified) *Timer {
	if i := s.timerIndex(target.ID()); i >= 0 {
		return s.timers[i]
	}
	return nil
}

// ScheduleUpdateTarget creates a Timer for ref that fires every frame. If
// the target already has a Timer nothing changes.
func (s *Scheduler) ScheduleUpdateTarget(ref Ref, autoArm bool) error {
	s.guard.check()

	if ref != nil && s.timerFor(ref) != nil {
		log.Printf("Scheduler: UpdateTarget [%d] already scheduled.", ref.ID())
		return nil
	}

	timer, err := NewTimer(ref)
	if err != nil {
		return err
	}
	if autoArm {
		timer.Arm()
	}
	s.timers = append(s.timers, timer)
	return nil
}

// ScheduleUpdateTargetInterval creates a Timer for ref firing every
// interval ms, repeat+1 times. Unlike ScheduleUpdateTarget, an existing
// Timer is updated in place with the new interval and repeat count.
func (s *Scheduler) ScheduleUpdateTargetInterval(ref Ref, interval float64, repeat int, autoArm bool) error {
	s.guard.check()

	if ref != nil {
		if timer := s.timerFor(ref); timer != nil {
			timer.ChangeInterval(interval)
			timer.ChangeRepeats(repeat)
			log.Printf("Scheduler: UpdateTarget [%d] already scheduled, changing interval and count.", ref.ID())
			return nil
		}
	}

	timer, err := NewTimer(ref)
	if err != nil {
		return err
	}
	timer.ChangeInterval(interval)
	timer.ChangeRepeats(repeat)
	if autoArm {
		timer.Arm()
	}
	s.timers = append(s.timers, timer)
	return nil
}

// ArmUpdateTarget re-arms the target's Timer.
func (s *Scheduler) ArmUpdateTarget(target Identified) {
	if timer := s.timerFor(target); timer != nil {
		timer.Arm()
	}
}

// ArmUpdateTargetWithDelay re-arms the target's Timer behind a delay of
// delay ms.
func (s *Scheduler) ArmUpdateTargetWithDelay(target Identified, delay float64) {
	if timer := s.timerFor(target); timer != nil {
		timer.ArmWithDelay(delay)
	}
}

// DisarmUpdateTarget pauses the target's Timer.
func (s *Scheduler) DisarmUpdateTarget(target Identified) {
	if timer := s.timerFor(target); timer != nil {
		timer.Disarm()
	}
}

func (s *Scheduler) ChangeUpdateTargetInterval(target Identified, interval float64) {
	if timer := s.timerFor(target); timer != nil {
		log.Printf("Scheduler: changing UpdateTarget [%d] interval.", target.ID())
		timer.ChangeInterval(interval)
	}
}

func (s *Scheduler) ChangeUpdateTargetRepeat(target Identified, count int) {
	if timer := s.timerFor(target); timer != nil {
		log.Printf("Scheduler: changing UpdateTarget [%d] repeat count.", target.ID())
		timer.ChangeRepeats(count)
	}
}

// UnscheduleUpdateTarget removes the target's Timer.
func (s *Scheduler) UnscheduleUpdateTarget(target Identified) {
	s.guard.check()

	i := s.timerIndex(target.ID())
	if i < 0 {
		log.Printf("Scheduler: Couldn't find UpdateTarget [%d] to remove.", target.ID())
		return
	}
	s.timers = slices.Delete(s.timers, i, i+1)
}

// PruneUpdateTargets removes the Timers whose target no longer exists and
// returns how many were removed.
func (s *Scheduler) PruneUpdateTargets() int {
	n := len(s.timers)
	s.timers = slices.DeleteFunc(s.timers, (*Timer).TargetGone)
	if pruned := n - len(s.timers); pruned > 0 {
		log.Printf("Scheduler: pruned %d UpdateTarget(s) that are gone.", pruned)
		return pruned
	}
	return 0
}

// UpdateTargetTimer returns the Timer driving target, or nil.
func (s *Scheduler) UpdateTargetTimer(target Identified) *Timer {
	return s.timerFor(target)
}

// UpdateTargetCount returns the number of scheduled Timers.
func (s *Scheduler) UpdateTargetCount() int { return len(s.timers) }

// TimerString describes the Timer driving target. It fails with an invalid
// argument error when target was never scheduled.
func (s *Scheduler) TimerString(target Identified) (string, error) {
	timer := s.timerFor(target)
	if timer == nil {
		return "", fault.InvalidArgument("TimerString",
			fmt.Sprintf("UpdateTarget {%d} doesn't have a Timer associated. Perhaps it wasn't scheduled.", target.ID()))
	}
	return timer.String(), nil
}

func (s *Scheduler) String() string {
	return fmt.Sprintf("Scheduler: HighPriority(s)= %d, NormalPriority(s)= %d, UpdateTarget(s)= %d",
		s.high.len(), s.normal.len(), len(s.timers))
}
