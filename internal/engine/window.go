package engine

import (
	"fmt"
	"log"

	"ranger/internal/config"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// SetupWindow creates the window and makes its GL context current.
// glfw must be initialized.
func SetupWindow(cfg *config.Configuration) (*glfw.Window, error) {
	w := cfg.Window
	glfw.WindowHint(glfw.ContextVersionMajor, cfg.Engine.GLMajorVersion)
	glfw.WindowHint(glfw.ContextVersionMinor, cfg.Engine.GLMinorVersion)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	width, height := w.DeviceRes.Width, w.DeviceRes.Height
	if !cfg.Landscape() && width > height {
		width, height = height, width
	}

	var monitor *glfw.Monitor
	if w.FullScreen {
		monitor = glfw.GetPrimaryMonitor()
	}
	if cfg.Engine.ShowMonitorInfo {
		logMonitorInfo()
	}

	window, err := glfw.CreateWindow(width, height, w.Title, monitor, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	if monitor == nil && (w.Position.X != 0 || w.Position.Y != 0) {
		window.SetPos(w.Position.X, w.Position.Y)
	}
	window.MakeContextCurrent()

	// without vsync the FPS limiter paces the loop
	if w.LockToVSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)

	return window, nil
}

func logMonitorInfo() {
	for i, m := range glfw.GetMonitors() {
		mode := m.GetVideoMode()
		if mode == nil {
			continue
		}
		log.Printf("Engine: monitor %d '%s' %dx%d @ %dHz", i, m.GetName(), mode.Width, mode.Height, mode.RefreshRate)
	}
}
