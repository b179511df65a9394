package profiling

import "fmt"

// FrameCounter averages the frame rate over a refresh window.
type FrameCounter struct {
	refresh float64 // seconds

	frames  int
	elapsed float64

	fps        float64
	msPerFrame float64
}

// NewFrameCounter recomputes the rate every refresh seconds. A non-positive
// refresh means once per second.
func NewFrameCounter(refresh float64) *FrameCounter {
	if refresh <= 0 {
		refresh = 1.0
	}
	return &FrameCounter{refresh: refresh}
}

// Tick records one frame that took dt seconds. It returns true when the
// window closed and FPS/MsPerFrame were refreshed.
func (f *FrameCounter) Tick(dt float64) bool {
	f.frames++
	f.elapsed += dt
	if f.elapsed < f.refresh {
		return false
	}

	f.fps = float64(f.frames) / f.elapsed
	f.msPerFrame = f.elapsed * 1000.0 / float64(f.frames)
	f.frames = 0
	f.elapsed = 0
	return true
}

func (f *FrameCounter) FPS() float64        { return f.fps }
func (f *FrameCounter) MsPerFrame() float64 { return f.msPerFrame }

func (f *FrameCounter) String() string {
	return fmt.Sprintf("FPS: %.1f (%.3f ms/frame)", f.fps, f.msPerFrame)
}
