package gpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackUniform_ScalarOrderAndEndianness(t *testing.T) {
	type uniform struct {
		A float32
		B uint32
		C int32
	}
	data := PackUniform(uniform{A: 1.5, B: 0xDEADBEEF, C: -2})
	require.Len(t, data, 12)

	a := math.Float32frombits(binary.LittleEndian.Uint32(data[0:4]))
	assert.Equal(t, float32(1.5), a)
	assert.Equal(t, uint32(0xDEADBEEF), binary.LittleEndian.Uint32(data[4:8]))
	assert.Equal(t, int32(-2), int32(binary.LittleEndian.Uint32(data[8:12])))
}

func TestPackUniform_NestedAndArrays(t *testing.T) {
	type inner struct {
		V [2]float32
	}
	type outer struct {
		P inner
		Q inner
		S uint32
	}
	data := PackUniform(outer{
		P: inner{V: [2]float32{1, 2}},
		Q: inner{V: [2]float32{3, 4}},
		S: 7,
	})
	require.Len(t, data, 20)

	for i, want := range []float32{1, 2, 3, 4} {
		got := math.Float32frombits(binary.LittleEndian.Uint32(data[i*4 : i*4+4]))
		assert.Equal(t, want, got, "element %d", i)
	}
	assert.Equal(t, uint32(7), binary.LittleEndian.Uint32(data[16:20]))
}

func TestPackUniform_Slice(t *testing.T) {
	type record struct {
		Pos [2]float32
		Vel [2]float32
	}
	records := []record{
		{Pos: [2]float32{0.5, -0.5}, Vel: [2]float32{0.01, -0.01}},
		{Pos: [2]float32{-1, 1}, Vel: [2]float32{0, 0}},
	}
	data := PackUniform(records)
	require.Len(t, data, 32)

	got := math.Float32frombits(binary.LittleEndian.Uint32(data[16:20]))
	assert.Equal(t, float32(-1), got)
}

func TestPackUniform_UnsupportedKindPanics(t *testing.T) {
	assert.Panics(t, func() { PackUniform("not a uniform") })
	assert.Panics(t, func() {
		type bad struct {
			N uint64
		}
		PackUniform(bad{N: 1})
	})
}

func TestAlignedSize(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 0},
		{1, 16},
		{16, 16},
		{17, 32},
		{48, 48},
	}
	for _, tc := range tests {
		if got := AlignedSize(tc.in); got != tc.want {
			t.Errorf("AlignedSize(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
