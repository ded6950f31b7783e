package sim

import (
	"github.com/glowfield/glowfield/gpu"
)

// NominalDt is the fixed time step handed to the physics kernel. The kernel
// multiplies position updates by 60 to normalize for it, so visual speed
// assumes a ~60 Hz refresh.
const NominalDt = 1.0 / 60.0

// simParams mirrors the SimParams struct in shaders/particles.wgsl field for
// field. Reordering or resizing anything here corrupts the simulation
// silently, so paramsByteSize is asserted at pipeline build time.
type simParams struct {
	Pointer    [2]float32
	Resolution [2]float32
	Dt         float32
	Speed      float32
	Radius     float32
	Force      float32
	Mode       float32
	Scheme     float32
	Pad0       float32
	Pad1       float32
}

const paramsByteSize = 48

// packParams builds one frame's parameter block from the freshly taken
// pointer and tunables snapshot.
func packParams(ptr PointerSnapshot, width, height uint32, tun Tunables) []byte {
	mode := float32(0)
	if ptr.Pressed {
		mode = 1
	}
	p := simParams{
		Pointer:    [2]float32{ptr.Pos.X(), ptr.Pos.Y()},
		Resolution: [2]float32{float32(width), float32(height)},
		Dt:         NominalDt,
		Speed:      tun.Speed,
		Radius:     tun.Radius,
		Force:      tun.Force,
		Mode:       mode,
		Scheme:     float32(tun.Scheme),
	}
	return gpu.PackUniform(p)
}
