package timing

import (
	"errors"
	"testing"

	"ranger/internal/fault"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tracedRecorder(trace *[]string, name string, priority int) *recorder {
	r := newRecorder(name, priority)
	r.trace = trace
	return r
}

func TestSchedulerUpdateOrder(t *testing.T) {
	var trace []string
	s := NewScheduler()

	normalA := tracedRecorder(&trace, "normalA", NormalPriority)
	normalB := tracedRecorder(&trace, "normalB", NormalPriority)
	highLow := tracedRecorder(&trace, "high-5", -5)
	highTop := tracedRecorder(&trace, "high-10", -10)
	timed := tracedRecorder(&trace, "timer", NormalPriority)

	require.NoError(t, s.ScheduleUpdateTarget(Strong(timed), true))
	s.ScheduleTimingTarget(normalB)
	s.ScheduleTimingTarget(highLow)
	s.ScheduleTimingTarget(normalA)
	s.ScheduleTimingTarget(highTop)

	s.Update(16)

	assert.Equal(t, []string{"high-10", "high-5", "normalA", "normalB", "timer"}, trace)
}

func TestSchedulerKeepsEqualPriorityTargets(t *testing.T) {
	s := NewScheduler()
	for i := range 4 {
		s.ScheduleTimingTarget(newRecorder("same", -1-i%2))
	}
	assert.Equal(t, 4, s.HighPriorityCount())
}

func TestSchedulerScheduleTimingTargetIdempotent(t *testing.T) {
	s := NewScheduler()
	r := newRecorder("dup", NormalPriority)

	s.ScheduleTimingTarget(r)
	s.ScheduleTimingTarget(r)
	assert.Equal(t, 1, s.NormalPriorityCount())

	s.Update(10)
	assert.Len(t, r.calls, 1)
}

func TestSchedulerDropsPositivePriority(t *testing.T) {
	s := NewScheduler()
	r := newRecorder("low", SystemLowPriority)

	s.ScheduleTimingTarget(r)
	s.Update(10)

	assert.Zero(t, s.HighPriorityCount())
	assert.Zero(t, s.NormalPriorityCount())
	assert.Empty(t, r.calls)
}

func TestSchedulerUnscheduleTimingTarget(t *testing.T) {
	s := NewScheduler()
	high := newRecorder("high", SystemHighPriority)
	normal := newRecorder("normal", NormalPriority)
	s.ScheduleTimingTarget(high)
	s.ScheduleTimingTarget(normal)

	s.UnscheduleTimingTarget(high)
	s.UnscheduleTimingTarget(high)
	s.Update(10)

	assert.Zero(t, s.HighPriorityCount())
	assert.Equal(t, 1, s.NormalPriorityCount())
	assert.Empty(t, high.calls)
	assert.Len(t, normal.calls, 1)
}

func TestSchedulerPauseByPriority(t *testing.T) {
	s := NewScheduler()
	a := newRecorder("a", -5)
	b := newRecorder("b", -7)
	c := newRecorder("c", NormalPriority)
	s.ScheduleTimingTarget(a)
	s.ScheduleTimingTarget(b)
	s.ScheduleTimingTarget(c)

	s.PauseTimingTargetsByPriority(-5)
	s.Update(10)
	assert.Empty(t, a.calls)
	assert.Len(t, b.calls, 1)
	assert.Len(t, c.calls, 1)

	s.ResumeTimingTargetsByPriority(-5)
	s.Update(10)
	assert.Len(t, a.calls, 1)
}

func TestSchedulerTimeScale(t *testing.T) {
	s := NewScheduler()
	r := newRecorder("scaled", NormalPriority)
	u := newRecorder("timer", NormalPriority)
	s.ScheduleTimingTarget(r)
	require.NoError(t, s.ScheduleUpdateTarget(Strong(u), true))

	s.SetTimeScale(0.5)
	s.Update(100)

	assert.Equal(t, 0.5, s.TimeScale())
	assert.Equal(t, []float64{50}, r.calls)
	assert.Equal(t, []float64{50}, u.calls)
}

func TestSchedulerScheduleUpdateTargetTwice(t *testing.T) {
	s := NewScheduler()
	u := newRecorder("u", NormalPriority)

	require.NoError(t, s.ScheduleUpdateTargetInterval(Strong(u), 100, 3, true))
	require.NoError(t, s.ScheduleUpdateTarget(Strong(u), true))

	assert.Equal(t, 1, s.UpdateTargetCount())
	timer := s.UpdateTargetTimer(u)
	require.NotNil(t, timer)
	assert.Equal(t, 100.0, timer.Interval(), "plain scheduling leaves an existing timer alone")
}

func TestSchedulerScheduleUpdateTargetIntervalUpdatesInPlace(t *testing.T) {
	s := NewScheduler()
	u := newRecorder("u", NormalPriority)

	require.NoError(t, s.ScheduleUpdateTargetInterval(Strong(u), 100, 0, true))
	first := s.UpdateTargetTimer(u)
	require.NoError(t, s.ScheduleUpdateTargetInterval(Strong(u), 250, RepeatForever, true))

	assert.Equal(t, 1, s.UpdateTargetCount())
	assert.Same(t, first, s.UpdateTargetTimer(u))
	assert.Equal(t, 250.0, first.Interval())
	assert.True(t, first.RunsForever())
}

func TestSchedulerScheduleUpdateTargetRejectsNil(t *testing.T) {
	s := NewScheduler()

	err := s.ScheduleUpdateTarget(nil, true)
	assert.True(t, errors.Is(err, fault.ErrInvalidArgument))

	err = s.ScheduleUpdateTargetInterval(goneRef{id: 42}, 10, 0, true)
	assert.True(t, errors.Is(err, fault.ErrInvalidArgument))
	assert.Zero(t, s.UpdateTargetCount())
}

func TestSchedulerIntervalTimer(t *testing.T) {
	s := NewScheduler()
	u := newRecorder("interval", NormalPriority)
	require.NoError(t, s.ScheduleUpdateTargetInterval(Strong(u), 50, 1, true))

	for range 10 {
		s.Update(25)
	}

	// fires on every tick with the accumulated elapsed time, two intervals
	assert.Equal(t, []float64{25, 50, 25, 50}, u.calls)
	assert.True(t, s.UpdateTargetTimer(u).Expired())
}

func TestSchedulerArmAndDisarm(t *testing.T) {
	s := NewScheduler()
	u := newRecorder("u", NormalPriority)
	require.NoError(t, s.ScheduleUpdateTarget(Strong(u), true))

	s.DisarmUpdateTarget(u)
	s.Update(10)
	assert.Empty(t, u.calls)

	s.ArmUpdateTarget(u)
	s.Update(10)
	assert.Len(t, u.calls, 1)

	s.ArmUpdateTargetWithDelay(u, 30)
	s.Update(10)
	s.Update(10)
	s.Update(10)
	assert.Len(t, u.calls, 1, "no firing during the delay")
	s.Update(10)
	assert.Len(t, u.calls, 2)
}

func TestSchedulerChangeUpdateTarget(t *testing.T) {
	s := NewScheduler()
	u := newRecorder("u", NormalPriority)
	require.NoError(t, s.ScheduleUpdateTarget(Strong(u), true))

	s.ChangeUpdateTargetInterval(u, 40)
	s.ChangeUpdateTargetRepeat(u, 2)

	timer := s.UpdateTargetTimer(u)
	assert.Equal(t, 40.0, timer.Interval())
	assert.Equal(t, 2, timer.RepeatCount())
	assert.False(t, timer.RunsForever())

	// unscheduled targets are ignored
	other := newRecorder("other", NormalPriority)
	s.ChangeUpdateTargetInterval(other, 10)
	s.DisarmUpdateTarget(other)
	assert.Nil(t, s.UpdateTargetTimer(other))
}

func TestSchedulerUnscheduleUpdateTarget(t *testing.T) {
	s := NewScheduler()
	a := newRecorder("a", NormalPriority)
	b := newRecorder("b", NormalPriority)
	require.NoError(t, s.ScheduleUpdateTarget(Strong(a), true))
	require.NoError(t, s.ScheduleUpdateTarget(Strong(b), true))

	s.UnscheduleUpdateTarget(a)
	s.UnscheduleUpdateTarget(a)
	s.Update(10)

	assert.Equal(t, 1, s.UpdateTargetCount())
	assert.Empty(t, a.calls)
	assert.Len(t, b.calls, 1)
}

func TestSchedulerUnscheduleDuringUpdate(t *testing.T) {
	s := NewScheduler()
	later := newRecorder("later", NormalPriority)

	var self *UpdateFunc
	self = NewUpdateFunc(func(float64) {
		s.UnscheduleUpdateTarget(self)
		s.UnscheduleTimingTarget(later)
	})
	require.NoError(t, s.ScheduleUpdateTarget(Strong(self), true))
	s.ScheduleTimingTarget(later)

	assert.NotPanics(t, func() { s.Update(10) })
	assert.Zero(t, s.UpdateTargetCount())
	assert.Zero(t, s.NormalPriorityCount())

	s.Update(10)
	assert.Len(t, later.calls, 1)
}

func TestSchedulerPruneUpdateTargets(t *testing.T) {
	s := NewScheduler()
	alive := newRecorder("alive", NormalPriority)
	doomed := &switchRef{recorder: newRecorder("doomed", NormalPriority)}
	require.NoError(t, s.ScheduleUpdateTarget(Strong(alive), true))
	require.NoError(t, s.ScheduleUpdateTarget(doomed, true))

	doomed.gone = true
	s.Update(10)

	assert.Equal(t, 1, s.PruneUpdateTargets())
	assert.Equal(t, 1, s.UpdateTargetCount())
	assert.Zero(t, s.PruneUpdateTargets())
}

func TestSchedulerTimerString(t *testing.T) {
	s := NewScheduler()
	u := newRecorder("u", NormalPriority)

	_, err := s.TimerString(u)
	assert.True(t, errors.Is(err, fault.ErrInvalidArgument))

	require.NoError(t, s.ScheduleUpdateTargetInterval(Strong(u), 75, 2, true))
	str, err := s.TimerString(u)
	require.NoError(t, err)
	assert.Contains(t, str, "interval= 75")
}

func TestSchedulerUnscheduleAll(t *testing.T) {
	s := NewScheduler()
	s.ScheduleTimingTarget(newRecorder("h", -1))
	s.ScheduleTimingTarget(newRecorder("n", NormalPriority))
	require.NoError(t, s.ScheduleUpdateTarget(Strong(newRecorder("u", NormalPriority)), true))

	assert.Equal(t, "Scheduler: HighPriority(s)= 1, NormalPriority(s)= 1, UpdateTarget(s)= 1", s.String())
	s.UnscheduleAll()
	assert.Equal(t, "Scheduler: HighPriority(s)= 0, NormalPriority(s)= 0, UpdateTarget(s)= 0", s.String())
}

func BenchmarkSchedulerUpdate(b *testing.B) {
	s := NewScheduler()
	for i := range 64 {
		target := NewTimingBase()
		target.SetPriority(-(i % 8))
		s.ScheduleTimingTarget(&target)
	}
	for range 64 {
		u := NewUpdateFunc(func(float64) {})
		if err := s.ScheduleUpdateTargetInterval(Strong(u), 50, RepeatForever, true); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Update(16.667)
	}
}
