package scene

import (
	"fmt"
	"log"
	"slices"

	"ranger/internal/fault"

	"github.com/go-gl/mathgl/mgl32"
)

// Stack levels understood by PopToStackLevel.
const (
	// StackToRoot pops down to the bottom scene.
	StackToRoot = 0
	// StackAll pops every scene.
	StackAll = -1
)

// Manager keeps the scene stack and hands the top scene over to Step.
//
// Stack changes never take effect immediately: Push, Pop, Replace and
// PopToStackLevel stage the new top as the next scene, and the following
// Step promotes it to the running scene.
type Manager struct {
	scenes []Node

	running Node
	next    Node

	// Set when a Layer fills the whole viewport and clearing is wasted work.
	ignoreClear bool

	lifecycleHooks bool
	sendCleanup    bool

	warned bool
}

func NewManager() *Manager {
	return &Manager{lifecycleHooks: true}
}

// Push stacks scene on top of the running one and stages it.
func (m *Manager) Push(scene Node) error {
	if scene == nil {
		return fault.InvalidArgument("Push", "Scene not supplied.")
	}

	m.sendCleanup = false
	m.warned = false

	m.scenes = append(m.scenes, scene)
	m.next = scene
	return nil
}

// Pop removes the top scene and stages the one below it, if any.
func (m *Manager) Pop() {
	if m.running == nil {
		log.Printf("SceneManager: there is no running scene.")
		return
	}
	if len(m.scenes) == 0 {
		log.Printf("SceneManager: there are no scenes to pop.")
		return
	}

	// Let the running scene clean up when it is swapped out.
	m.sendCleanup = true

	m.scenes[len(m.scenes)-1] = nil
	m.scenes = m.scenes[:len(m.scenes)-1]
	if top := m.top(); top != nil {
		m.next = top
	}
}

// Replace swaps the top scene for scene. There must be a running scene.
func (m *Manager) Replace(scene Node) error {
	if m.running == nil {
		return fault.Logic("Replace", "Use Push to start the SceneManager.")
	}
	if scene == nil {
		return fault.InvalidArgument("Replace", "scene should not be nil.")
	}

	if len(m.scenes) > 0 {
		m.scenes = m.scenes[:len(m.scenes)-1]
	}
	m.scenes = append(m.scenes, scene)

	m.next = scene
	m.sendCleanup = true
	return nil
}

// PopToRoot pops everything above the bottom scene.
func (m *Manager) PopToRoot() error {
	return m.PopToStackLevel(StackToRoot)
}

// PopToStackLevel pops scenes until level is the top of the stack, level 0
// being the bottom. StackAll empties the stack. Running scenes that get
// popped exit first; every popped scene is cleaned.
func (m *Manager) PopToStackLevel(level int) error {
	if m.running == nil {
		return fault.Logic("PopToStackLevel", "No running scene.")
	}
	if level < StackAll {
		return fault.InvalidArgument("PopToStackLevel", fmt.Sprintf("unknown stack level %d", level))
	}

	if len(m.scenes) == 0 {
		return nil
	}

	seaLevel := len(m.scenes)
	if level >= seaLevel-1 {
		// already at or below the requested level
		return nil
	}

	newTop := level + 1
	if level == StackAll {
		newTop = 0
	}

	for len(m.scenes) > newTop {
		current := m.scenes[len(m.scenes)-1]
		m.scenes[len(m.scenes)-1] = nil
		m.scenes = m.scenes[:len(m.scenes)-1]

		if current.Running() {
			current.OnExitTransition()
			current.OnExit()
		}
		current.Clean()
	}

	if top := m.top(); top != nil {
		m.next = top
	}
	m.sendCleanup = false
	return nil
}

// End pops every scene. The next Step reports there is nothing left to run.
func (m *Manager) End() error {
	log.Printf("SceneManager: ending.")
	return m.PopToStackLevel(StackAll)
}

// Step runs one frame of scene work: clear, promote the staged scene and
// visit the running one. It returns false once the stack is empty, the
// signal to shut down.
func (m *Manager) Step(dc DrawContext) bool {
	if len(m.scenes) == 0 {
		if !m.warned {
			log.Printf("SceneManager: no more scenes to visit.")
			m.warned = true
		}
		return false
	}

	if !m.ignoreClear {
		dc.Clear()
	}

	if m.next != nil {
		m.SetNextScene()
	}

	if m.running != nil {
		m.running.Visit(dc, mgl32.Ident4())
	}

	return true
}

// SetNextScene promotes the staged scene to running. With lifecycle hooks
// on, the outgoing scene exits (and is cleaned after a Pop or Replace) and
// the incoming scene begins.
func (m *Manager) SetNextScene() {
	if m.next == m.running {
		m.next = nil
		return
	}

	if m.lifecycleHooks && m.running != nil {
		if m.running.Running() {
			m.running.OnExitTransition()
			m.running.OnExit()
		}
		if m.sendCleanup {
			m.running.Clean()
		}
	}

	m.running = m.next
	m.next = nil

	if m.lifecycleHooks && m.running != nil {
		m.running.OnBegin()
		m.running.OnEntering()
	}
}

func (m *Manager) top() Node {
	if len(m.scenes) == 0 {
		return nil
	}
	return m.scenes[len(m.scenes)-1]
}

func (m *Manager) RunningScene() Node { return m.running }
func (m *Manager) NextScene() Node    { return m.next }
func (m *Manager) Len() int           { return len(m.scenes) }

// Scenes returns the stack from bottom to top.
func (m *Manager) Scenes() []Node { return slices.Clone(m.scenes) }

func (m *Manager) IgnoreClear() bool          { return m.ignoreClear }
func (m *Manager) SetIgnoreClear(ignore bool) { m.ignoreClear = ignore }
func (m *Manager) LifecycleHooks() bool       { return m.lifecycleHooks }
func (m *Manager) SetLifecycleHooks(on bool)  { m.lifecycleHooks = on }

func (m *Manager) String() string {
	running := "none"
	if m.running != nil {
		running = m.running.Name()
	}
	return fmt.Sprintf("SceneManager: scenes= %d, running= %s", len(m.scenes), running)
}
