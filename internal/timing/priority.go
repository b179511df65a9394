package timing

import (
	"cmp"
	"slices"
)

// Schedule priorities. The smaller the value the earlier a target is updated.
// Negative priorities land in the high priority bucket, NormalPriority in the
// normal bucket. Positive priorities have no bucket.
const (
	SystemHighPriority = -100000000
	NormalPriority     = 0
	SystemLowPriority  = 100000000
)

// TimingTarget is an UpdateTarget updated every frame in priority order.
// Pausing is cooperative: the Scheduler checks Paused before calling Update.
type TimingTarget interface {
	UpdateTarget
	Priority() int
	SetPriority(priority int)
	Paused() bool
	Pause()
	Resume()
}

// TimingBase is an embeddable TimingTarget at NormalPriority.
type TimingBase struct {
	TargetBase
	priority int
	paused   bool
}

func NewTimingBase() TimingBase {
	return TimingBase{TargetBase: NewTargetBase(), priority: NormalPriority}
}

func (b *TimingBase) Priority() int            { return b.priority }
func (b *TimingBase) SetPriority(priority int) { b.priority = priority }
func (b *TimingBase) SetToNormalPriority()     { b.priority = NormalPriority }
func (b *TimingBase) Paused() bool             { return b.paused }
func (b *TimingBase) Pause()                   { b.paused = true }
func (b *TimingBase) Resume()                  { b.paused = false }

// bucket keeps TimingTargets ordered by (priority, id), unique by id. The
// priority is captured at insertion so later SetPriority calls can't break
// the ordering.
type bucket struct {
	entries []bucketEntry
}

type bucketEntry struct {
	priority int
	target   TimingTarget
}

func compareEntry(e bucketEntry, key bucketEntry) int {
	return cmp.Or(
		cmp.Compare(e.priority, key.priority),
		cmp.Compare(e.target.ID(), key.target.ID()),
	)
}

func (b *bucket) index(id int) int {
	return slices.IndexFunc(b.entries, func(e bucketEntry) bool { return e.target.ID() == id })
}

func (b *bucket) contains(id int) bool {
	return b.index(id) >= 0
}

func (b *bucket) insert(t TimingTarget) bool {
	if b.contains(t.ID()) {
		return false
	}
	key := bucketEntry{priority: t.Priority(), target: t}
	i, _ := slices.BinarySearchFunc(b.entries, key, compareEntry)
	b.entries = slices.Insert(b.entries, i, key)
	return true
}

func (b *bucket) remove(id int) bool {
	i := b.index(id)
	if i < 0 {
		return false
	}
	b.entries = slices.Delete(b.entries, i, i+1)
	return true
}

func (b *bucket) len() int { return len(b.entries) }

func (b *bucket) clear() { b.entries = nil }
