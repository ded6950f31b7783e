package sim

import (
	"fmt"
	"math/rand"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/glowfield/glowfield/gpu"
)

// particleStride is the byte size of one particle record: position vec2 plus
// velocity vec2, matching the Particle struct in the shader.
const particleStride = 16

// seedVelocityBound is the per-axis magnitude limit for initial velocities.
// Small enough that the field starts visually inert.
const seedVelocityBound = 0.025

// Particle is the host-side view of one particle record. The GPU owns the
// live data; this type exists for seeding and for tests.
type Particle struct {
	Pos mgl32.Vec2
	Vel mgl32.Vec2
}

// generation names which of the two particle buffers holds the current
// (readable) state. The frame scheduler advances it once per frame; using an
// explicit two-state value instead of a frame counter keeps the parity from
// ever drifting.
type generation int

const (
	generationA generation = 0
	generationB generation = 1
)

func (g generation) next() generation {
	if g == generationA {
		return generationB
	}
	return generationA
}

// current returns the buffer index read by this frame's compute pass, next
// the index it writes (and the render pass then reads).
func (g generation) current() int   { return int(g) }
func (g generation) nextIndex() int { return int(g.next()) }

func (g generation) String() string {
	if g == generationA {
		return "A-current"
	}
	return "B-current"
}

// particleStore owns the two equally sized particle buffers. Both start from
// identical seed data so the first frame's read generation is valid no
// matter which buffer it lands on.
type particleStore struct {
	count   int
	buffers [2]*wgpu.Buffer
}

// seedParticles produces count records with positions uniform in [-1,1]² and
// velocities uniform in [-seedVelocityBound, seedVelocityBound] per axis.
func seedParticles(rng *rand.Rand, count int) []Particle {
	particles := make([]Particle, count)
	for i := range particles {
		particles[i] = Particle{
			Pos: mgl32.Vec2{
				rng.Float32()*2 - 1,
				rng.Float32()*2 - 1,
			},
			Vel: mgl32.Vec2{
				(rng.Float32()*2 - 1) * seedVelocityBound,
				(rng.Float32()*2 - 1) * seedVelocityBound,
			},
		}
	}
	return particles
}

// newParticleStore allocates and seeds both generations. There is no partial
// resize: a count change releases the store and builds a fresh one.
func newParticleStore(device *wgpu.Device, rng *rand.Rand, count int) (*particleStore, error) {
	if count <= 0 {
		return nil, fmt.Errorf("sim: particle count must be positive, got %d", count)
	}
	seed := gpu.PackUniform(seedParticles(rng, count))

	bufA, err := gpu.NewStorageBuffer(device, "Particles A", seed)
	if err != nil {
		return nil, err
	}
	bufB, err := gpu.NewStorageBuffer(device, "Particles B", seed)
	if err != nil {
		bufA.Release()
		return nil, err
	}
	return &particleStore{
		count:   count,
		buffers: [2]*wgpu.Buffer{bufA, bufB},
	}, nil
}

func (s *particleStore) release() {
	for i, buf := range s.buffers {
		if buf != nil {
			buf.Release()
			s.buffers[i] = nil
		}
	}
}
