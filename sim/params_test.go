package sim

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func f32At(t *testing.T, data []byte, offset int) float32 {
	t.Helper()
	return math.Float32frombits(binary.LittleEndian.Uint32(data[offset : offset+4]))
}

func TestPackParams_SizeAndLayout(t *testing.T) {
	ptr := PointerSnapshot{Pos: mgl32.Vec2{0.25, -0.75}, Pressed: true}
	tun := Tunables{
		ParticleCount: 1000,
		Speed:         1.5,
		Radius:        0.4,
		Force:         2.0,
		Scheme:        SchemeOcean,
	}
	data := packParams(ptr, 1920, 1080, tun)

	if len(data) != paramsByteSize {
		t.Fatalf("packed params are %d bytes, want %d", len(data), paramsByteSize)
	}
	if paramsByteSize%16 != 0 {
		t.Fatalf("params size %d is not a multiple of the uniform stride", paramsByteSize)
	}

	// Field offsets are the shader's layout; each is load-bearing.
	if got := f32At(t, data, 0); got != 0.25 {
		t.Errorf("pointer.x = %v, want 0.25", got)
	}
	if got := f32At(t, data, 4); got != -0.75 {
		t.Errorf("pointer.y = %v, want -0.75", got)
	}
	if got := f32At(t, data, 8); got != 1920 {
		t.Errorf("resolution.x = %v, want 1920", got)
	}
	if got := f32At(t, data, 12); got != 1080 {
		t.Errorf("resolution.y = %v, want 1080", got)
	}
	if got := f32At(t, data, 16); got != float32(NominalDt) {
		t.Errorf("dt = %v, want %v", got, float32(NominalDt))
	}
	if got := f32At(t, data, 20); got != 1.5 {
		t.Errorf("speed = %v, want 1.5", got)
	}
	if got := f32At(t, data, 24); got != 0.4 {
		t.Errorf("radius = %v, want 0.4", got)
	}
	if got := f32At(t, data, 28); got != 2.0 {
		t.Errorf("force = %v, want 2.0", got)
	}
	if got := f32At(t, data, 32); got != 1 {
		t.Errorf("mode = %v, want 1 (pressed)", got)
	}
	if got := f32At(t, data, 36); got != float32(SchemeOcean) {
		t.Errorf("scheme = %v, want %v", got, float32(SchemeOcean))
	}
}

func TestPackParams_ModeFlag(t *testing.T) {
	tun := DefaultTunables()
	hover := packParams(PointerSnapshot{}, 800, 600, tun)
	press := packParams(PointerSnapshot{Pressed: true}, 800, 600, tun)

	if got := f32At(t, hover, 32); got != 0 {
		t.Errorf("hover mode = %v, want 0", got)
	}
	if got := f32At(t, press, 32); got != 1 {
		t.Errorf("press mode = %v, want 1", got)
	}
}

// A resolution change must affect the resolution field and nothing else.
func TestPackParams_ResizeTouchesOnlyResolution(t *testing.T) {
	ptr := PointerSnapshot{Pos: mgl32.Vec2{0.1, 0.2}}
	tun := DefaultTunables()

	small := packParams(ptr, 800, 600, tun)
	large := packParams(ptr, 2560, 1440, tun)

	if !bytes.Equal(small[:8], large[:8]) {
		t.Error("pointer bytes changed across resize")
	}
	if bytes.Equal(small[8:16], large[8:16]) {
		t.Error("resolution bytes did not change across resize")
	}
	if !bytes.Equal(small[16:], large[16:]) {
		t.Error("trailing fields changed across resize")
	}
}

// The block is rebuilt wholesale from each frame's snapshot, so two packs
// with different snapshots must reflect the latest values.
func TestPackParams_UsesLatestSnapshot(t *testing.T) {
	tun := DefaultTunables()
	first := packParams(PointerSnapshot{Pos: mgl32.Vec2{-0.5, 0}}, 800, 600, tun)
	second := packParams(PointerSnapshot{Pos: mgl32.Vec2{0.5, 0}}, 800, 600, tun)

	if got := f32At(t, first, 0); got != -0.5 {
		t.Errorf("first pointer.x = %v, want -0.5", got)
	}
	if got := f32At(t, second, 0); got != 0.5 {
		t.Errorf("second pointer.x = %v, want 0.5", got)
	}
}
