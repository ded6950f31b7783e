package sim

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Pointer holds the latest pointer state fed in by the host's cursor and
// mouse-button callbacks. The frame scheduler reads it exactly once per
// frame; intermediate updates are simply overwritten (latest-value
// semantics, no backpressure).
type Pointer struct {
	mu      sync.Mutex
	pos     mgl32.Vec2 // normalized device coords, Y-up
	pressed bool
}

// PointerSnapshot is one frame's view of the pointer.
type PointerSnapshot struct {
	Pos     mgl32.Vec2
	Pressed bool
}

// SetWindowPosition maps a window-space cursor position (pixels, Y-down,
// origin top-left) into normalized device coordinates and stores it.
func (p *Pointer) SetWindowPosition(x, y float64, width, height int) {
	ndc := WindowToNDC(x, y, width, height)
	p.mu.Lock()
	p.pos = ndc
	p.mu.Unlock()
}

// SetPressed records the interaction flag.
func (p *Pointer) SetPressed(pressed bool) {
	p.mu.Lock()
	p.pressed = pressed
	p.mu.Unlock()
}

// Snapshot returns the most recent pointer state.
func (p *Pointer) Snapshot() PointerSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PointerSnapshot{Pos: p.pos, Pressed: p.pressed}
}

// WindowToNDC converts window-space pixels to [-1,1]² with the origin at the
// center and Y pointing up. Degenerate window sizes map to the origin.
func WindowToNDC(x, y float64, width, height int) mgl32.Vec2 {
	if width <= 0 || height <= 0 {
		return mgl32.Vec2{}
	}
	nx := float32(x)/float32(width)*2 - 1
	ny := 1 - float32(y)/float32(height)*2
	return mgl32.Vec2{nx, ny}
}
