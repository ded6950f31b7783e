package gpu

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"reflect"

	"github.com/cogentcore/webgpu/wgpu"
)

// UniformAlign is the stride every uniform record is padded to. 16 bytes is
// valid on every backend wgpu-native supports.
const UniformAlign = 16

// PackUniform serializes a struct, array or slice of scalars into the
// little-endian byte layout WGSL expects. Field order is the layout; the
// caller is responsible for explicit padding fields. Panics on types that
// have no defined GPU representation, since that is a programmer error.
func PackUniform(data any) []byte {
	buf := new(bytes.Buffer)
	writeUniformBytes(reflect.ValueOf(data), buf)
	return buf.Bytes()
}

func writeUniformBytes(field reflect.Value, buf *bytes.Buffer) {
	if field.Kind() == reflect.Ptr {
		field = field.Elem()
	}
	switch field.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < field.Len(); i++ {
			writeUniformBytes(field.Index(i), buf)
		}

	case reflect.Struct:
		for i := 0; i < field.NumField(); i++ {
			writeUniformBytes(field.Field(i), buf)
		}

	case reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Float32:
		if err := binary.Write(buf, binary.LittleEndian, field.Interface()); err != nil {
			panic(fmt.Errorf("gpu: failed to write scalar field: %w", err))
		}

	default:
		panic(fmt.Errorf("gpu: unsupported uniform type: %v", field.Kind()))
	}
}

// AlignedSize rounds n up to the next multiple of UniformAlign.
func AlignedSize(n int) int {
	if r := n % UniformAlign; r != 0 {
		return n + UniformAlign - r
	}
	return n
}

// NewUniformBuffer creates a CopyDst uniform buffer initialized with data.
func NewUniformBuffer(device *wgpu.Device, label string, data []byte) (*wgpu.Buffer, error) {
	buf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: data,
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create uniform buffer %q: %w", label, err)
	}
	return buf, nil
}

// NewStorageBuffer creates a storage buffer initialized with data.
func NewStorageBuffer(device *wgpu.Device, label string, data []byte) (*wgpu.Buffer, error) {
	buf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: data,
		Usage:    wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create storage buffer %q: %w", label, err)
	}
	return buf, nil
}
