package game

import (
	"log"

	"ranger/internal/scene"
	"ranger/internal/shapes"
	"ranger/internal/timing"

	"github.com/go-gl/mathgl/mgl32"
)

// Splash shows a title for a while, then replaces itself with the scene
// built by next. It drives itself through a one-shot interval timer.
type Splash struct {
	scene.SceneNode

	stage    Stage
	duration float64 // ms
	next     func() scene.Node

	logo  *scene.ShapeNode
	title *scene.TextNode
	done  bool
}

func NewSplash(stage Stage, duration float64, next func() scene.Node) *Splash {
	s := &Splash{
		SceneNode: *scene.NewSceneNode("Splash"),
		stage:     stage,
		duration:  duration,
		next:      next,
		logo:      scene.NewShapeNode("Logo", shapes.CenteredSquare, palette[0]),
		title:     scene.NewTextNode("Title", "Ranger", white),
	}
	s.logo.SetScale(100, 100)
	s.logo.SetPosition(0, 80)
	s.title.SetPosition(-60, -40)
	s.title.SetScale(1.5, 1.5)

	// AddChild only fails on nil
	_ = s.AddChild(s.logo)
	_ = s.AddChild(s.title)
	return s
}

func (s *Splash) OnBegin() {
	s.SceneNode.OnBegin()
	s.done = false
	if err := s.stage.Scheduler().ScheduleUpdateTargetInterval(timing.Weak(s), s.duration, 0, true); err != nil {
		log.Printf("Splash: %v", err)
	}
}

func (s *Splash) OnExit() {
	s.stage.Scheduler().UnscheduleUpdateTarget(s)
	s.SceneNode.OnExit()
}

// Update receives the time elapsed since the splash started. The logo fades
// in, and the next scene takes over once the duration is reached.
func (s *Splash) Update(elapsed float64) {
	if s.done {
		return
	}
	progress := float32(min(elapsed/s.duration, 1))
	c := s.logo.Color()
	s.logo.SetColor(mgl32.Vec4{c.X(), c.Y(), c.Z(), progress})
	s.logo.SetRotation(progress * mgl32.DegToRad(90))

	if s.duration-elapsed >= timing.Epsilon {
		return
	}
	s.done = true
	if err := s.stage.Scenes().Replace(s.next()); err != nil {
		log.Printf("Splash: %v", err)
	}
}

// Done reports whether the splash handed over to the next scene.
func (s *Splash) Done() bool { return s.done }
