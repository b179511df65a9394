// Package engine owns the window and runs the frame loop: input, scheduler
// update, scene step, present.
package engine

import (
	"fmt"
	"log"
	"time"

	"ranger/internal/config"
	"ranger/internal/fault"
	"ranger/internal/graphics"
	"ranger/internal/input"
	"ranger/internal/profiling"
	"ranger/internal/scene"
	"ranger/internal/shapes"
	"ranger/internal/timing"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// pruneEvery is the number of frames between sweeps for timers whose target is gone
const pruneEvery = 600

// slowFrame is logged along with the top tracked tasks
const slowFrame = 50 * time.Millisecond

type Engine struct {
	cfg    *config.Configuration
	window *glfw.Window
	input  *input.InputManager
	render *graphics.RenderContext

	scheduler *timing.Scheduler
	scenes    *scene.Manager
	frames    *profiling.FrameCounter
	limiter   *FPSLimiter

	onAction func(input.Action)

	paused      bool
	frame       int
	updateDelta time.Duration
	renderDelta time.Duration
}

func New() *Engine {
	return &Engine{
		scheduler: timing.NewScheduler(),
		scenes:    scene.NewManager(),
		input:     input.NewInputManager(),
		limiter:   NewFPSLimiter(),
	}
}

// Configure opens the window described by cfg, builds the render context
// and then calls setup so the caller can populate the scene stack.
func (e *Engine) Configure(cfg *config.Configuration, setup func(*Engine) error) error {
	if cfg == nil {
		return fault.InvalidArgument("Configure", "configuration is nil")
	}
	e.cfg = cfg
	if cfg.Engine.ShowConfig {
		log.Print(cfg)
	}

	config.Apply(cfg)
	e.frames = profiling.NewFrameCounter(cfg.Engine.FPSRefreshRate)
	e.scenes.SetLifecycleHooks(cfg.Scenes.LifecycleHooks)
	e.scenes.SetIgnoreClear(cfg.Scenes.IgnoreClear)

	window, err := SetupWindow(cfg)
	if err != nil {
		return err
	}
	e.window = window

	render, err := graphics.NewRenderContext(cfg, shapes.NewBasicShapes())
	if err != nil {
		e.window.Destroy()
		e.window = nil
		return fmt.Errorf("engine: %w", err)
	}
	e.render = render

	// the framebuffer can differ from the window size on high DPI screens
	fbW, fbH := window.GetFramebufferSize()
	e.render.Resize(fbW, fbH)

	if cfg.Engine.ShowGLInfo {
		log.Printf("Engine: GL vendor= %s, renderer= %s, version= %s, GLSL= %s",
			gl.GoStr(gl.GetString(gl.VENDOR)),
			gl.GoStr(gl.GetString(gl.RENDERER)),
			gl.GoStr(gl.GetString(gl.VERSION)),
			gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)))
	}

	e.installCallbacks()

	if setup != nil {
		if err := setup(e); err != nil {
			return fmt.Errorf("engine: setup: %w", err)
		}
	}
	return nil
}

func (e *Engine) installCallbacks() {
	e.input.Attach(e.window)

	e.window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		e.render.Resize(width, height)
	})
	e.window.SetFocusCallback(func(w *glfw.Window, focused bool) {
		e.SetPaused(!focused)
	})
}

// OnAction registers fn to receive every action pressed this frame.
func (e *Engine) OnAction(fn func(input.Action)) { e.onAction = fn }

// Start runs the frame loop until the window closes, the scene stack
// empties or the configured frame budget is spent.
func (e *Engine) Start() error {
	if e.window == nil {
		return fault.Logic("Start", "engine is not configured")
	}
	if !e.cfg.Engine.Enabled {
		log.Printf("Engine: disabled by configuration")
		return nil
	}

	loopFor := e.cfg.Engine.LoopFor
	last := glfw.GetTime()
	for !e.window.ShouldClose() {
		if loopFor >= 0 && e.frame >= loopFor {
			log.Printf("Engine: frame budget of %d reached", loopFor)
			break
		}

		now := glfw.GetTime()
		dt := now - last
		last = now

		if !e.tick(dt) {
			break
		}
	}
	return nil
}

// Stop asks the loop to exit after the current frame.
func (e *Engine) Stop() {
	if e.window != nil {
		e.window.SetShouldClose(true)
	}
}

// Destroy releases the GL resources and the window.
func (e *Engine) Destroy() {
	e.scheduler.UnscheduleAll()
	if e.render != nil {
		e.render.Delete()
		e.render = nil
	}
	if e.window != nil {
		e.window.Destroy()
		e.window = nil
	}
}

// tick runs one frame. dt is in seconds.
func (e *Engine) tick(dt float64) bool {
	profiling.ResetFrame()
	frameStart := time.Now()

	func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()
	e.dispatchActions()

	updateStart := time.Now()
	if !e.paused {
		e.scheduler.SetTimeScale(config.GetTimeScale())
		func() { defer profiling.Track("scheduler.Update")(); e.scheduler.Update(dt * 1000) }()
	}
	e.updateDelta = time.Since(updateStart)

	renderStart := time.Now()
	var alive bool
	func() { defer profiling.Track("scenes.Step")(); alive = e.scenes.Step(e.render) }()
	e.renderDelta = time.Since(renderStart)
	if !alive {
		log.Printf("Engine: no scenes left, stopping")
		return false
	}

	func() { defer profiling.Track("glfw.SwapBuffers")(); e.window.SwapBuffers() }()

	if e.frames.Tick(dt) && e.cfg.Engine.ShowTimingInfo {
		log.Printf("Engine: %s, update= %v, render= %v, %s", e.frames, e.updateDelta, e.renderDelta, e.scheduler)
	}
	if d := time.Since(frameStart); d > slowFrame {
		log.Printf("Engine: slow frame %v. Top tasks: %s", d, profiling.TopN(3))
	}

	e.input.PostUpdate()

	e.frame++
	if e.frame%pruneEvery == 0 {
		if n := e.scheduler.PruneUpdateTargets(); n > 0 {
			log.Printf("Engine: pruned %d timer(s) with no target", n)
		}
	}

	e.limiter.Wait(e.paused)
	return true
}

// dispatchActions handles the engine level actions and forwards every
// pressed action to the registered handler.
func (e *Engine) dispatchActions() {
	for a := range input.ActionCount {
		if !e.input.JustPressed(a) {
			continue
		}
		switch a {
		case input.ActionQuit:
			e.Stop()
		case input.ActionTogglePolygonFill:
			e.render.TogglePolygonFill()
		}
		if e.onAction != nil {
			e.onAction(a)
		}
	}
}

// SetPaused stops the scheduler from advancing. Scenes keep drawing.
func (e *Engine) SetPaused(paused bool) {
	if e.paused != paused {
		log.Printf("Engine: paused= %t", paused)
	}
	e.paused = paused
}

func (e *Engine) Paused() bool { return e.paused }

func (e *Engine) Config() *config.Configuration   { return e.cfg }
func (e *Engine) Scheduler() *timing.Scheduler    { return e.scheduler }
func (e *Engine) Scenes() *scene.Manager          { return e.scenes }
func (e *Engine) Render() *graphics.RenderContext { return e.render }
func (e *Engine) Input() *input.InputManager      { return e.input }
func (e *Engine) Window() *glfw.Window            { return e.window }

// FPS is the rate measured over the last refresh window.
func (e *Engine) FPS() float64 {
	if e.frames == nil {
		return 0
	}
	return e.frames.FPS()
}

// Frames returns the number of frames run so far.
func (e *Engine) Frames() int { return e.frame }

// UpdateDelta is how long the last scheduler update took.
func (e *Engine) UpdateDelta() time.Duration { return e.updateDelta }

// RenderDelta is how long the last scene step took.
func (e *Engine) RenderDelta() time.Duration { return e.renderDelta }
