package sim

import "fmt"

// ColorScheme selects one of the speed-to-color ramps baked into the render
// kernel. The numeric values are part of the parameter block layout.
type ColorScheme int

const (
	SchemeNeon ColorScheme = iota
	SchemeFire
	SchemeOcean
)

func (s ColorScheme) String() string {
	switch s {
	case SchemeNeon:
		return "neon"
	case SchemeFire:
		return "fire"
	case SchemeOcean:
		return "ocean"
	}
	return fmt.Sprintf("scheme(%d)", int(s))
}

// ParseColorScheme maps a scheme name to its selector. Unknown names fall
// back to neon.
func ParseColorScheme(name string) ColorScheme {
	switch name {
	case "fire":
		return SchemeFire
	case "ocean":
		return SchemeOcean
	default:
		return SchemeNeon
	}
}

// Tunables is the live-adjustable configuration handed in by the host.
// Everything except ParticleCount is read fresh every frame; a ParticleCount
// change tears down and recreates the particle store and all pipeline
// objects.
type Tunables struct {
	ParticleCount int
	Speed         float32
	Radius        float32
	Force         float32
	Scheme        ColorScheme
}

// DefaultTunables returns the configuration the demo host starts with.
func DefaultTunables() Tunables {
	return Tunables{
		ParticleCount: 200_000,
		Speed:         1.0,
		Radius:        0.35,
		Force:         1.5,
		Scheme:        SchemeNeon,
	}
}

func (t Tunables) Validate() error {
	if t.ParticleCount <= 0 {
		return fmt.Errorf("sim: particle count must be positive, got %d", t.ParticleCount)
	}
	if t.Speed <= 0 {
		return fmt.Errorf("sim: speed must be positive, got %g", t.Speed)
	}
	if t.Radius <= 0 || t.Radius > 1 {
		return fmt.Errorf("sim: interaction radius must be in (0, 1], got %g", t.Radius)
	}
	if t.Force <= 0 {
		return fmt.Errorf("sim: force strength must be positive, got %g", t.Force)
	}
	if t.Scheme < SchemeNeon || t.Scheme > SchemeOcean {
		return fmt.Errorf("sim: unknown color scheme %d", t.Scheme)
	}
	return nil
}
