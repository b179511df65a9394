// Package game holds the demo scenes run by cmd/ranger.
package game

import (
	"ranger/internal/scene"
	"ranger/internal/timing"

	"github.com/go-gl/mathgl/mgl32"
)

// Stage is the part of the engine the demo scenes drive.
type Stage interface {
	Scheduler() *timing.Scheduler
	Scenes() *scene.Manager
	FPS() float64
}

// Priorities of the playground targets.
const (
	SpinnerPriority = -10
	BouncerPriority = timing.NormalPriority
)

var (
	white  = mgl32.Vec3{1, 1, 1}
	yellow = mgl32.Vec3{1, 0.9, 0.2}

	palette = []mgl32.Vec4{
		{0.2, 0.6, 1.0, 1.0},
		{0.9, 0.3, 0.3, 1.0},
		{0.3, 0.8, 0.4, 1.0},
		{0.8, 0.5, 0.9, 1.0},
	}
)

// Bounds returns the world rectangle seen by a centered camera over a
// virtual resolution of width x height.
func Bounds(width, height int) scene.Rect {
	w, h := float32(width), float32(height)
	return scene.Rect{Left: -w / 2, Bottom: -h / 2, Width: w, Height: h}
}
