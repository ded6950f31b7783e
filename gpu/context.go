package gpu

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// ErrUnsupported means no WebGPU implementation could be instantiated at all.
// ErrNoAdapter/ErrNoDevice cover acquisition failures on a supported platform.
var (
	ErrUnsupported = errors.New("gpu: webgpu is not available on this platform")
	ErrNoAdapter   = errors.New("gpu: no compatible adapter")
	ErrNoDevice    = errors.New("gpu: device request failed")
)

// Context owns the wgpu handles shared by every pipeline and buffer.
type Context struct {
	Instance *wgpu.Instance
	Surface  *wgpu.Surface
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Config   *wgpu.SurfaceConfiguration
}

// NewContext wraps the GLFW window into a wgpu surface and acquires the
// adapter, device and queue. The surface is configured to the window's
// framebuffer size (physical pixels) with vsync presentation.
func NewContext(window *glfw.Window) (*Context, error) {
	instance := wgpu.CreateInstance(nil)
	if instance == nil {
		return nil, ErrUnsupported
	}

	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoAdapter, err)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Glowfield Device",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDevice, err)
	}
	queue := device.GetQueue()

	width, height := window.GetFramebufferSize()
	caps := surface.GetCapabilities(adapter)
	config := &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo, // vsync
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, device, config)

	return &Context{
		Instance: instance,
		Surface:  surface,
		Adapter:  adapter,
		Device:   device,
		Queue:    queue,
		Config:   config,
	}, nil
}

// Resize reconfigures the surface for a new framebuffer size. Zero extents
// are ignored; the caller keeps the old configuration until the window is
// visible again.
func (c *Context) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Config.Width = uint32(width)
	c.Config.Height = uint32(height)
	c.Surface.Configure(c.Adapter, c.Device, c.Config)
}

// Release frees the device-level handles. Buffers and pipelines are owned by
// their builders and must be released before the context.
func (c *Context) Release() {
	if c.Device != nil {
		c.Device.Release()
		c.Device = nil
	}
	if c.Adapter != nil {
		c.Adapter.Release()
		c.Adapter = nil
	}
	if c.Surface != nil {
		c.Surface.Release()
		c.Surface = nil
	}
	if c.Instance != nil {
		c.Instance.Release()
		c.Instance = nil
	}
}
