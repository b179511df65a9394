package game

import (
	"log"
	"strings"

	"ranger/internal/config"
	"ranger/internal/scene"
)

// SlowMotionScale is the time scale applied while slow motion is on.
const SlowMotionScale = 0.25

// Director reacts to player commands by driving the scheduler and the scene
// stack.
type Director struct {
	stage  Stage
	bounds scene.Rect

	paused     bool
	slowMotion bool
}

func NewDirector(stage Stage, bounds scene.Rect) *Director {
	return &Director{stage: stage, bounds: bounds}
}

// Start pushes the splash scene, which hands over to the first playground
// after splashDuration ms.
func (d *Director) Start(splashDuration float64) error {
	splash := NewSplash(d.stage, splashDuration, func() scene.Node {
		return d.playground(0)
	})
	return d.stage.Scenes().Push(splash)
}

func (d *Director) playground(level int) *Playground {
	return NewPlayground(d.stage, d.bounds, level, d.Status)
}

// TogglePause freezes or resumes every playground target by priority.
// Timers keep running.
func (d *Director) TogglePause() {
	d.paused = !d.paused
	s := d.stage.Scheduler()
	for _, priority := range []int{SpinnerPriority, BouncerPriority} {
		if d.paused {
			s.PauseTimingTargetsByPriority(priority)
		} else {
			s.ResumeTimingTargetsByPriority(priority)
		}
	}
	log.Printf("Director: paused= %t", d.paused)
}

func (d *Director) ToggleSlowMotion() {
	d.slowMotion = !d.slowMotion
	scale := 1.0
	if d.slowMotion {
		scale = SlowMotionScale
	}
	config.SetTimeScale(scale)
	d.stage.Scheduler().SetTimeScale(config.GetTimeScale())
}

// NextScene pushes a playground one level up. Ignored until the splash is
// gone.
func (d *Director) NextScene() {
	if _, ok := d.stage.Scenes().RunningScene().(*Playground); !ok {
		return
	}
	d.resume()
	if err := d.stage.Scenes().Push(d.playground(d.stage.Scenes().Len())); err != nil {
		log.Printf("Director: %v", err)
	}
}

// PreviousScene pops back to the previous playground, never past the first.
func (d *Director) PreviousScene() {
	if d.stage.Scenes().Len() <= 1 {
		return
	}
	d.resume()
	d.stage.Scenes().Pop()
}

// resume lifts a pause before the running scene leaves the stage so the
// targets it takes off the scheduler are not left paused.
func (d *Director) resume() {
	if d.paused {
		d.TogglePause()
	}
}

func (d *Director) Paused() bool     { return d.paused }
func (d *Director) SlowMotion() bool { return d.slowMotion }

// Status describes the active modes, empty when none is.
func (d *Director) Status() string {
	var modes []string
	if d.paused {
		modes = append(modes, "PAUSED")
	}
	if d.slowMotion {
		modes = append(modes, "SLOW MOTION")
	}
	return strings.Join(modes, ", ")
}
