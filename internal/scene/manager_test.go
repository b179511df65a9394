package scene

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"

	"ranger/internal/fault"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// probe is a scene that records the hooks it receives.
type probe struct {
	SceneNode
	events []string
}

func newProbe(name string) *probe {
	return &probe{SceneNode: *NewSceneNode(name)}
}

func (p *probe) OnBegin() {
	p.events = append(p.events, "begin")
	p.SceneNode.OnBegin()
}

func (p *probe) OnEntering() {
	p.events = append(p.events, "entering")
	p.SceneNode.OnEntering()
}

func (p *probe) OnExitTransition() {
	p.events = append(p.events, "exitTransition")
	p.SceneNode.OnExitTransition()
}

func (p *probe) OnExit() {
	p.events = append(p.events, "exit")
	p.SceneNode.OnExit()
}

func (p *probe) Clean() {
	p.events = append(p.events, "clean")
	p.SceneNode.Clean()
}

func (p *probe) reset() { p.events = nil }

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })
	return &buf
}

// stacked pushes scenes and steps once so the last one is running.
func stacked(t *testing.T, scenes ...Node) (*Manager, *recordingContext) {
	t.Helper()
	m := NewManager()
	dc := &recordingContext{}
	for _, s := range scenes {
		require.NoError(t, m.Push(s))
	}
	require.True(t, m.Step(dc))
	return m, dc
}

func TestManagerPushPopScenario(t *testing.T) {
	a, b := newProbe("A"), newProbe("B")
	m := NewManager()
	dc := &recordingContext{}

	require.NoError(t, m.Push(a))
	require.True(t, m.Step(dc))
	assert.Same(t, a, m.RunningScene())

	require.NoError(t, m.Push(b))
	require.True(t, m.Step(dc))
	assert.Same(t, b, m.RunningScene())
	assert.Equal(t, []Node{a, b}, m.Scenes())

	m.Pop()
	assert.Same(t, a, m.NextScene())
	require.True(t, m.Step(dc))
	assert.Same(t, a, m.RunningScene())
	assert.Nil(t, m.NextScene())
	assert.Equal(t, []Node{a}, m.Scenes())
}

func TestManagerPushDoesNotExitUntilStep(t *testing.T) {
	a, b := newProbe("A"), newProbe("B")
	m, dc := stacked(t, a)

	require.NoError(t, m.Push(b))
	assert.True(t, a.Running(), "the running scene stays until the next step")

	m.Step(dc)
	assert.False(t, a.Running())
	assert.True(t, b.Running())
}

func TestManagerLifecycleHooks(t *testing.T) {
	a, b := newProbe("A"), newProbe("B")
	m, dc := stacked(t, a)
	assert.Equal(t, []string{"begin", "entering"}, a.events)

	a.reset()
	require.NoError(t, m.Push(b))
	m.Step(dc)
	assert.Equal(t, []string{"exitTransition", "exit"}, a.events, "no clean on push")
	assert.Equal(t, []string{"begin", "entering"}, b.events)

	b.reset()
	m.Pop()
	m.Step(dc)
	assert.Equal(t, []string{"exitTransition", "exit", "clean"}, b.events)
}

func TestManagerLifecycleHooksDisabled(t *testing.T) {
	a, b := newProbe("A"), newProbe("B")
	m := NewManager()
	m.SetLifecycleHooks(false)
	dc := &recordingContext{}

	require.NoError(t, m.Push(a))
	m.Step(dc)
	require.NoError(t, m.Push(b))
	m.Step(dc)

	assert.Same(t, b, m.RunningScene())
	assert.Empty(t, a.events)
	assert.Empty(t, b.events)
}

func TestManagerPopToStackLevel(t *testing.T) {
	a, b, c := newProbe("A"), newProbe("B"), newProbe("C")
	m, _ := stacked(t, a, b, c)
	require.Same(t, c, m.RunningScene())
	c.reset()

	require.NoError(t, m.PopToStackLevel(1))

	assert.Equal(t, []Node{a, b}, m.Scenes())
	assert.Same(t, b, m.NextScene())
	assert.Equal(t, []string{"exitTransition", "exit", "clean"}, c.events)
	assert.Empty(t, a.events)
	assert.Empty(t, b.events)
}

func TestManagerPopToStackLevelNoop(t *testing.T) {
	a, b := newProbe("A"), newProbe("B")
	m, _ := stacked(t, a, b)

	require.NoError(t, m.PopToStackLevel(1))
	require.NoError(t, m.PopToStackLevel(5))
	assert.Equal(t, 2, m.Len())

	err := m.PopToStackLevel(-2)
	assert.True(t, errors.Is(err, fault.ErrInvalidArgument))
	assert.Equal(t, 2, m.Len())
}

func TestManagerPopToRoot(t *testing.T) {
	a, b, c := newProbe("A"), newProbe("B"), newProbe("C")
	m, dc := stacked(t, a, b, c)

	require.NoError(t, m.PopToRoot())
	assert.Equal(t, []Node{a}, m.Scenes())
	assert.Contains(t, b.events, "clean")
	assert.NotContains(t, b.events, "exit", "B never ran")

	m.Step(dc)
	assert.Same(t, a, m.RunningScene())
	assert.True(t, a.Running())
}

func TestManagerEnd(t *testing.T) {
	buf := captureLog(t)
	a, b := newProbe("A"), newProbe("B")
	m, dc := stacked(t, a, b)

	require.NoError(t, m.End())
	assert.Zero(t, m.Len())
	assert.False(t, b.Running())

	assert.False(t, m.Step(dc))
	assert.False(t, m.Step(dc))
	assert.Equal(t, 1, strings.Count(buf.String(), "no more scenes to visit"), "warns once")

	// a new push re-arms the warning
	require.NoError(t, m.Push(newProbe("C")))
	assert.True(t, m.Step(dc))
}

func TestManagerPopEmptyStack(t *testing.T) {
	buf := captureLog(t)
	a := newProbe("A")
	m, _ := stacked(t, a)
	require.NoError(t, m.End())

	m.Pop()

	assert.Same(t, a, m.RunningScene())
	assert.Nil(t, m.NextScene())
	assert.Contains(t, buf.String(), "there are no scenes to pop")
}

func TestManagerPopWithoutRunningScene(t *testing.T) {
	buf := captureLog(t)
	m := NewManager()
	require.NoError(t, m.Push(newProbe("A")))

	m.Pop()

	assert.Equal(t, 1, m.Len())
	assert.Contains(t, buf.String(), "there is no running scene")
}

func TestManagerReplace(t *testing.T) {
	a, b := newProbe("A"), newProbe("B")
	m, dc := stacked(t, a)
	a.reset()

	require.NoError(t, m.Replace(b))
	assert.Equal(t, []Node{b}, m.Scenes())
	assert.Same(t, b, m.NextScene())

	m.Step(dc)
	assert.Same(t, b, m.RunningScene())
	assert.Equal(t, []string{"exitTransition", "exit", "clean"}, a.events)
}

func TestManagerErrors(t *testing.T) {
	m := NewManager()

	err := m.Push(nil)
	assert.True(t, errors.Is(err, fault.ErrInvalidArgument))

	err = m.Replace(newProbe("A"))
	assert.True(t, errors.Is(err, fault.ErrLogic))

	err = m.PopToStackLevel(StackToRoot)
	assert.True(t, errors.Is(err, fault.ErrLogic))

	err = m.End()
	assert.True(t, errors.Is(err, fault.ErrLogic))

	m, _ = stacked(t, newProbe("A"))
	err = m.Replace(nil)
	assert.True(t, errors.Is(err, fault.ErrInvalidArgument))
}

func TestManagerStepClearsAndVisits(t *testing.T) {
	a := newProbe("A")
	require.NoError(t, a.AddChild(NewShapeNode("sq", "Square", mgl32.Vec4{1, 1, 1, 1})))
	m, dc := stacked(t, a)

	assert.Equal(t, 1, dc.clears)
	assert.Equal(t, []string{"Square"}, dc.shapeNames())

	m.SetIgnoreClear(true)
	m.Step(dc)
	assert.Equal(t, 1, dc.clears)
	assert.Len(t, dc.shapes, 2)
}

func TestManagerString(t *testing.T) {
	m := NewManager()
	assert.Equal(t, "SceneManager: scenes= 0, running= none", m.String())

	m, _ = stacked(t, newProbe("Splash"))
	assert.Equal(t, "SceneManager: scenes= 1, running= Splash", m.String())
}
