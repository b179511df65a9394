package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"ranger/internal/fault"
)

// Orientations understood by Window.Orientation.
const (
	Landscape = "Landscape"
	Portrait  = "Portrait"
)

type Color struct {
	R, G, B, A float32
}

type Point struct {
	X, Y int
}

type Resolution struct {
	Width, Height int
}

type WindowConfig struct {
	Title        string
	FullScreen   bool
	LockToVSync  bool
	Orientation  string
	BitsPerPixel int
	ClearColor   Color
	Position     Point
	DeviceRes    Resolution
	VirtualRes   Resolution
}

type EngineConfig struct {
	// LoopFor < 0 runs until quit, otherwise it is a frame budget.
	LoopFor         int
	Enabled         bool
	ShowConfig      bool
	ShowGLInfo      bool
	ShowMonitorInfo bool
	ShowTimingInfo  bool
	GLMajorVersion  int
	GLMinorVersion  int
	// FPSRefreshRate is how often, in seconds, the FPS is recomputed.
	FPSRefreshRate float64
	// FPSLimit caps the frame rate, 0 is uncapped.
	FPSLimit  int
	TimeScale float64
}

type Vec3 struct {
	X, Y, Z float32
}

type CameraConfig struct {
	View     Vec3
	Centered bool
}

type FontConfig struct {
	// Path to a TrueType/OpenType file. Empty uses the built-in Go font.
	Path         string
	Name         string
	Size         int
	Scale        float32
	CharsFromSet int
}

type ScenesConfig struct {
	LifecycleHooks bool
	IgnoreClear    bool
}

// Configuration is the engine configuration file.
type Configuration struct {
	Window WindowConfig
	Engine EngineConfig
	Camera CameraConfig
	Font   FontConfig
	Scenes ScenesConfig

	path string
}

// Default returns the configuration used when no file is given.
func Default() *Configuration {
	return &Configuration{
		Window: WindowConfig{
			Title:        "Ranger",
			LockToVSync:  true,
			Orientation:  Landscape,
			BitsPerPixel: 24,
			ClearColor:   Color{R: 1.0, G: 0.5, B: 0.0, A: 1.0},
			DeviceRes:    Resolution{Width: 1500, Height: 900},
			VirtualRes:   Resolution{Width: 1000, Height: 600},
		},
		Engine: EngineConfig{
			LoopFor:        -1,
			Enabled:        true,
			GLMajorVersion: 4,
			GLMinorVersion: 1,
			FPSRefreshRate: 1.0,
			TimeScale:      1.0,
		},
		Camera: CameraConfig{View: Vec3{Z: -1}, Centered: true},
		Font: FontConfig{
			Name:         "goregular",
			Size:         24,
			Scale:        1.0,
			CharsFromSet: 128,
		},
		Scenes: ScenesConfig{LifecycleHooks: true},
	}
}

// Load reads path over the defaults, so sections or fields missing from the
// file keep their default value.
func Load(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fault.InvalidArgument("Load", fmt.Sprintf("Couldn't open '%s': %v", path, err))
	}

	c := Default()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	c.path = path
	return c, nil
}

// Path is the file the configuration was loaded from or last saved to.
func (c *Configuration) Path() string { return c.path }

// Save writes the configuration to path. An unusable device resolution is
// replaced by the defaults before writing.
func (c *Configuration) Save(path string) error {
	out := c
	if c.Window.DeviceRes.Width == 0 || c.Window.DeviceRes.Height == 0 {
		log.Printf("configuration: Device resolution was bad, using defaults")
		out = Default()
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	c.path = path
	return nil
}

// Flush saves back to the file the configuration came from.
func (c *Configuration) Flush() error {
	if c.path == "" {
		return fault.Logic("Flush", "configuration has no file")
	}
	return c.Save(c.path)
}

// Landscape reports whether the window is wider than tall.
func (c *Configuration) Landscape() bool {
	return c.Window.Orientation != Portrait
}

func (c *Configuration) String() string {
	engine := "Disabled"
	if c.Engine.Enabled {
		engine = "Enabled"
	}
	orientation := Portrait
	if c.Landscape() {
		orientation = Landscape
	}

	var b strings.Builder
	line := strings.Repeat("-", 65)
	fmt.Fprintf(&b, "\nconfiguration:\n%s\n", line)
	fmt.Fprintf(&b, "Engine= %s\n", engine)
	fmt.Fprintf(&b, "FullScreen= %t\n", c.Window.FullScreen)
	fmt.Fprintf(&b, "Title= %s\n", c.Window.Title)
	fmt.Fprintf(&b, "Orientation= %s\n", orientation)
	fmt.Fprintf(&b, "BitsPerPixel= %d\n", c.Window.BitsPerPixel)
	fmt.Fprintf(&b, "Window position= %d,%d\n", c.Window.Position.X, c.Window.Position.Y)
	fmt.Fprintf(&b, "Device resolution= %d x %d\n", c.Window.DeviceRes.Width, c.Window.DeviceRes.Height)
	fmt.Fprintf(&b, "Virtual resolution= %d x %d\n", c.Window.VirtualRes.Width, c.Window.VirtualRes.Height)
	fmt.Fprintf(&b, "%s\n", line)
	return b.String()
}
