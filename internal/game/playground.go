package game

import (
	"fmt"
	"log"
	"math"

	"ranger/internal/scene"
	"ranger/internal/shapes"
	"ranger/internal/timing"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	blinkInterval = 500.0  // ms
	blinkDelay    = 1000.0 // ms
	statsInterval = 250.0  // ms

	bouncerSize  = 40
	spinnerSize  = 120
	spinnerSpeed = math.Pi / 2 // radians per second
)

// spinner turns at a constant rate from the high priority bucket.
type spinner struct {
	*scene.ShapeNode
	speed float32 // radians per second
}

func (s *spinner) Update(dt float64) {
	s.RotateBy(s.speed * float32(dt/1000))
}

// bouncer moves in a straight line and bounces off the edges of bounds.
type bouncer struct {
	*scene.ShapeNode
	velocity mgl32.Vec2 // units per second
	bounds   scene.Rect
}

func (b *bouncer) Update(dt float64) {
	sec := float32(dt / 1000)
	p := b.Position()
	half := b.Scale().Mul(0.5)

	x, vx := bounce(p.X()+b.velocity.X()*sec, b.velocity.X(), b.bounds.Left+half.X(), b.bounds.Right()-half.X())
	y, vy := bounce(p.Y()+b.velocity.Y()*sec, b.velocity.Y(), b.bounds.Bottom+half.Y(), b.bounds.Top()-half.Y())

	b.velocity = mgl32.Vec2{vx, vy}
	b.SetPosition(x, y)
}

func bounce(pos, velocity, lo, hi float32) (float32, float32) {
	speed := float32(math.Abs(float64(velocity)))
	switch {
	case pos < lo:
		return lo, speed
	case pos > hi:
		return hi, -speed
	}
	return pos, velocity
}

// blinker toggles its label every time the interval elapses.
type blinker struct {
	*scene.TextNode
	interval float64
}

func (b *blinker) Update(elapsed float64) {
	if elapsed >= b.interval {
		b.SetVisible(!b.Visible())
	}
}

// Playground is the main demo scene. Each part is driven by a different
// kind of scheduling:
//   - a spinner in the high priority bucket
//   - a bouncing square in the normal priority bucket
//   - a blinking label on a repeating timer that starts after a delay
//   - frame statistics refreshed by a function target
type Playground struct {
	scene.SceneNode

	stage  Stage
	level  int
	status func() string

	spinner *spinner
	bouncer *bouncer
	label   *blinker
	stats   *scene.TextNode
	info    *scene.TextNode

	refresh *timing.UpdateFunc
}

// NewPlayground builds the playground for level inside bounds. status, when
// set, supplies a line shown under the frame statistics.
func NewPlayground(stage Stage, bounds scene.Rect, level int, status func() string) *Playground {
	color := palette[level%len(palette)]
	p := &Playground{
		SceneNode: *scene.NewSceneNode(fmt.Sprintf("Playground %d", level)),
		stage:     stage,
		level:     level,
		status:    status,
	}

	p.spinner = &spinner{
		ShapeNode: scene.NewShapeNode("Spinner", shapes.CenteredTriangle, color),
		speed:     spinnerSpeed * float32(level+1),
	}
	p.spinner.SetScale(spinnerSize, spinnerSize)
	p.spinner.SetPriority(SpinnerPriority)

	p.bouncer = &bouncer{
		ShapeNode: scene.NewShapeNode("Bouncer", shapes.CenteredSquare, mgl32.Vec4{1, 1, 1, 1}),
		velocity:  mgl32.Vec2{200, 150},
		bounds:    bounds,
	}
	p.bouncer.SetScale(bouncerSize, bouncerSize)
	p.bouncer.SetPriority(BouncerPriority)

	p.label = &blinker{
		TextNode: scene.NewTextNode("Label", p.Name(), yellow),
		interval: blinkInterval,
	}
	p.label.SetPosition(bounds.Left+20, bounds.Top()-40)

	p.stats = scene.NewTextNode("Stats", "", white)
	p.stats.SetPosition(bounds.Left+20, bounds.Bottom+20)
	p.stats.SetScale(0.75, 0.75)

	p.info = scene.NewTextNode("Info", "", white)
	p.info.SetPosition(bounds.Left+20, bounds.Bottom+50)
	p.info.SetScale(0.75, 0.75)

	p.refresh = timing.NewUpdateFunc(p.refreshStats)

	for _, n := range []scene.Node{p.spinner, p.bouncer, p.label, p.stats, p.info} {
		_ = p.AddChild(n)
	}
	return p
}

func (p *Playground) Level() int { return p.level }

func (p *Playground) OnBegin() {
	p.SceneNode.OnBegin()

	s := p.stage.Scheduler()
	s.ScheduleTimingTarget(p.spinner)
	s.ScheduleTimingTarget(p.bouncer)

	if err := s.ScheduleUpdateTargetInterval(timing.Weak(p.label), blinkInterval, timing.RepeatForever, false); err != nil {
		log.Printf("Playground: %v", err)
	}
	s.ArmUpdateTargetWithDelay(p.label, blinkDelay)

	if err := s.ScheduleUpdateTargetInterval(timing.Strong(p.refresh), statsInterval, timing.RepeatForever, true); err != nil {
		log.Printf("Playground: %v", err)
	}
}

func (p *Playground) OnExit() {
	s := p.stage.Scheduler()
	s.UnscheduleTimingTarget(p.spinner)
	s.UnscheduleTimingTarget(p.bouncer)
	s.UnscheduleUpdateTarget(p.label)
	s.UnscheduleUpdateTarget(p.refresh)

	// come back fully visible
	p.label.SetVisible(true)
	p.SceneNode.OnExit()
}

func (p *Playground) refreshStats(elapsed float64) {
	if elapsed < statsInterval {
		return
	}
	p.stats.SetText(fmt.Sprintf("FPS: %.0f", p.stage.FPS()))
	if p.status != nil {
		p.info.SetText(p.status())
	}
}
