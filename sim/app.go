package sim

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/google/uuid"

	"github.com/glowfield/glowfield/gpu"
	"github.com/glowfield/glowfield/logging"
)

// appState is the frame scheduler's lifecycle. Faulted is terminal and
// reachable from anywhere; a faulted app never submits work again.
type appState int

const (
	stateUninitialized appState = iota
	stateReady
	stateRunning
	stateFaulted
)

// App drives the whole simulation: it owns the GPU context, the particle
// store, the pipeline set and the per-frame schedule. All methods must be
// called from the thread running the GLFW event loop.
type App struct {
	// Log and OnStatus may be set before Init; both default to no-ops.
	Log      logging.Logger
	OnStatus StatusFunc

	// Pointer receives the host's cursor and button events.
	Pointer Pointer

	id     string
	window *glfw.Window
	ctx    *gpu.Context
	store  *particleStore
	pipes  *pipelines
	rng    *rand.Rand

	state  appState
	gen    generation
	paused bool
	closed bool

	mu       sync.Mutex
	tunables Tunables
	pending  *Tunables

	profiler *Profiler
}

// NewApp prepares an app around an existing window. Nothing touches the GPU
// until Init.
func NewApp(window *glfw.Window, tun Tunables) *App {
	return &App{
		id:       uuid.NewString(),
		window:   window,
		tunables: tun,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		profiler: NewProfiler(),
	}
}

// ID is the unique identifier of this simulation instance.
func (a *App) ID() string { return a.id }

// Profiler exposes the frame timing stats for debug overlays.
func (a *App) Profiler() *Profiler { return a.profiler }

// Init acquires the device, seeds the particle store and builds the pipeline
// set. It reports lifecycle status to the host before any frame can be
// scheduled; on failure the app is Faulted and unusable.
func (a *App) Init() error {
	if a.Log == nil {
		a.Log = logging.NewNopLogger()
	}
	if a.OnStatus == nil {
		a.OnStatus = func(Status, string) {}
	}
	if a.state != stateUninitialized {
		return fmt.Errorf("sim: Init called twice")
	}
	a.OnStatus(StatusLoading, "")

	if err := a.tunables.Validate(); err != nil {
		return a.fault(err)
	}

	ctx, err := gpu.NewContext(a.window)
	if err != nil {
		if errors.Is(err, gpu.ErrUnsupported) {
			a.state = stateFaulted
			a.OnStatus(StatusUnsupported, err.Error())
			return err
		}
		return a.fault(err)
	}
	a.ctx = ctx

	if err := a.rebuild(a.tunables.ParticleCount); err != nil {
		return a.fault(err)
	}

	a.state = stateReady
	a.gen = generationA
	a.OnStatus(StatusSupported, "")
	a.Log.Infof("simulation %s ready: %d particles, %dx%d surface",
		a.id, a.store.count, a.ctx.Config.Width, a.ctx.Config.Height)
	return nil
}

// rebuild creates a fresh particle store and pipeline set for count
// particles, releasing any previous set first. Called at Init and whenever
// the particle count changes.
func (a *App) rebuild(count int) error {
	if a.pipes != nil {
		a.pipes.release()
		a.pipes = nil
	}
	if a.store != nil {
		a.store.release()
		a.store = nil
	}

	store, err := newParticleStore(a.ctx.Device, a.rng, count)
	if err != nil {
		return err
	}
	pipes, err := buildPipelines(a.ctx, store)
	if err != nil {
		store.release()
		return err
	}
	a.store = store
	a.pipes = pipes
	a.gen = generationA
	return nil
}

// Resize reconfigures the presentation surface for a new framebuffer size in
// physical pixels. Particle state and pipelines are untouched; only the
// parameter block's resolution changes, on the next frame.
func (a *App) Resize(width, height int) {
	if a.ctx == nil || a.closed {
		return
	}
	a.ctx.Resize(width, height)
}

// SetTunables stages a new configuration. Everything but the particle count
// takes effect on the next frame; a count change is applied at the start of
// the next frame as a full store-and-pipeline rebuild so in-flight GPU work
// keeps its buffers.
func (a *App) SetTunables(tun Tunables) error {
	if err := tun.Validate(); err != nil {
		return err
	}
	a.mu.Lock()
	a.pending = &tun
	a.mu.Unlock()
	return nil
}

// Tunables returns the configuration the next frame will use.
func (a *App) Tunables() Tunables {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pending != nil {
		return *a.pending
	}
	return a.tunables
}

// SetPaused stops compute dispatches while still presenting the last
// generation.
func (a *App) SetPaused(paused bool) { a.paused = paused }

func (a *App) Paused() bool { return a.paused }

func (a *App) fault(err error) error {
	a.state = stateFaulted
	a.OnStatus(StatusError, err.Error())
	a.Log.Errorf("fatal: %v", err)
	return err
}

// takePending applies a staged tunables change, rebuilding if the count
// moved. Runs at frame start, before anything references the store.
func (a *App) takePending() error {
	a.mu.Lock()
	pending := a.pending
	a.pending = nil
	a.mu.Unlock()
	if pending == nil {
		return nil
	}
	if pending.ParticleCount != a.store.count {
		a.Log.Infof("particle count %d -> %d, rebuilding", a.store.count, pending.ParticleCount)
		if err := a.rebuild(pending.ParticleCount); err != nil {
			return err
		}
	}
	a.mu.Lock()
	a.tunables = *pending
	a.mu.Unlock()
	return nil
}

// Frame runs one scheduled tick: parameter upload, compute dispatch, render
// pass, single submit, parity flip. Degenerate surface or store sizes skip
// the tick; transient device errors are logged and skipped, never fatal.
func (a *App) Frame() {
	if a.closed || a.state == stateFaulted || a.state == stateUninitialized {
		return
	}
	a.state = stateRunning

	if err := a.takePending(); err != nil {
		a.fault(err)
		return
	}
	if a.ctx.Config.Width == 0 || a.ctx.Config.Height == 0 {
		return
	}
	if a.store == nil || a.store.count <= 0 {
		return
	}

	a.profiler.BeginScope("snapshot")
	ptr := a.Pointer.Snapshot()
	a.mu.Lock()
	tun := a.tunables
	a.mu.Unlock()
	a.profiler.EndScope("snapshot")

	a.profiler.BeginScope("pack")
	data := packParams(ptr, a.ctx.Config.Width, a.ctx.Config.Height, tun)
	if err := a.ctx.Queue.WriteBuffer(a.pipes.paramsBuffer, 0, data); err != nil {
		a.Log.Warnf("params upload failed, skipping frame: %v", err)
		return
	}
	a.profiler.EndScope("pack")

	a.profiler.BeginScope("encode")
	surfaceTexture, err := a.ctx.Surface.GetCurrentTexture()
	if err != nil {
		a.Log.Warnf("surface texture unavailable, skipping frame: %v", err)
		return
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		a.Log.Warnf("surface view failed, skipping frame: %v", err)
		return
	}
	defer view.Release()

	encoder, err := a.ctx.Device.CreateCommandEncoder(nil)
	if err != nil {
		a.Log.Warnf("command encoder failed, skipping frame: %v", err)
		return
	}
	defer encoder.Release()

	if !a.paused {
		computePass := encoder.BeginComputePass(nil)
		computePass.SetPipeline(a.pipes.compute)
		computePass.SetBindGroup(0, a.pipes.computeBind[a.gen.current()], nil)
		computePass.DispatchWorkgroups(dispatchSize(a.store.count), 1, 1)
		if err := computePass.End(); err != nil {
			a.Log.Warnf("compute pass failed, skipping frame: %v", err)
			return
		}
	}

	renderBind := a.pipes.renderBind[a.gen.current()]
	if a.paused {
		// No compute ran; show the generation written last frame.
		renderBind = a.pipes.renderBind[a.gen.next().current()]
	}

	renderPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	renderPass.SetPipeline(a.pipes.render)
	renderPass.SetBindGroup(0, renderBind, nil)
	renderPass.Draw(verticesPerParticle, uint32(a.store.count), 0, 0)
	if err := renderPass.End(); err != nil {
		a.Log.Warnf("render pass failed, skipping frame: %v", err)
		return
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		a.Log.Warnf("encoder finish failed, skipping frame: %v", err)
		return
	}
	defer cmd.Release()
	a.profiler.EndScope("encode")

	a.profiler.BeginScope("submit")
	a.ctx.Queue.Submit(cmd)
	a.ctx.Surface.Present()
	a.profiler.EndScope("submit")

	if !a.paused {
		a.gen = a.gen.next()
	}
	a.profiler.FrameDone()
}

// Close cancels the frame loop: no further batches are submitted and
// in-flight work drains inside the driver before the handles go away.
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true
	if a.pipes != nil {
		a.pipes.release()
		a.pipes = nil
	}
	if a.store != nil {
		a.store.release()
		a.store = nil
	}
	if a.ctx != nil {
		a.ctx.Release()
		a.ctx = nil
	}
}
