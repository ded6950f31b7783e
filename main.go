package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/glowfield/glowfield/logging"
	"github.com/glowfield/glowfield/sim"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	count := flag.Int("particles", 200_000, "Number of particles")
	speed := flag.Float64("speed", 1.0, "Simulation speed multiplier")
	radius := flag.Float64("radius", 0.35, "Pointer interaction radius")
	force := flag.Float64("force", 1.5, "Pointer force strength")
	scheme := flag.String("scheme", "neon", "Color scheme: neon, fire or ocean")
	debug := flag.Bool("debug", false, "Print frame timings")
	flag.Parse()

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	window, err := glfw.CreateWindow(1280, 720, "Glowfield", nil, nil)
	if err != nil {
		panic(err)
	}
	defer window.Destroy()

	app := sim.NewApp(window, sim.Tunables{
		ParticleCount: *count,
		Speed:         float32(*speed),
		Radius:        float32(*radius),
		Force:         float32(*force),
		Scheme:        sim.ParseColorScheme(*scheme),
	})
	app.Log = logging.NewDefaultLogger("glowfield", *debug)
	app.OnStatus = func(status sim.Status, message string) {
		if message != "" {
			fmt.Fprintf(os.Stderr, "glowfield: %s (%s)\n", status, message)
			return
		}
		fmt.Printf("glowfield: %s\n", status)
	}

	if err := app.Init(); err != nil {
		os.Exit(1)
	}
	defer app.Close()

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		app.Resize(width, height)
	})
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		width, height := w.GetSize()
		app.Pointer.SetWindowPosition(xpos, ypos, width, height)
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button == glfw.MouseButtonLeft {
			app.Pointer.SetPressed(action == glfw.Press || action == glfw.Repeat)
		}
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press && action != glfw.Repeat {
			return
		}
		tun := app.Tunables()
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
			return
		case glfw.KeySpace:
			if action == glfw.Press {
				app.SetPaused(!app.Paused())
			}
			return
		case glfw.Key1:
			tun.Scheme = sim.SchemeNeon
		case glfw.Key2:
			tun.Scheme = sim.SchemeFire
		case glfw.Key3:
			tun.Scheme = sim.SchemeOcean
		case glfw.KeyLeft:
			tun.Radius *= 0.9
		case glfw.KeyRight:
			tun.Radius *= 1.1
			if tun.Radius > 1 {
				tun.Radius = 1
			}
		case glfw.KeyDown:
			tun.Force *= 0.9
		case glfw.KeyUp:
			tun.Force *= 1.1
		case glfw.KeyMinus, glfw.KeyKPSubtract:
			tun.ParticleCount = tun.ParticleCount / 2
			if tun.ParticleCount < 1 {
				tun.ParticleCount = 1
			}
		case glfw.KeyEqual, glfw.KeyKPAdd:
			tun.ParticleCount = tun.ParticleCount * 2
		default:
			return
		}
		if err := app.SetTunables(tun); err != nil {
			app.Log.Warnf("rejected tunables: %v", err)
		}
	})

	frames := 0
	for !window.ShouldClose() {
		glfw.PollEvents()
		app.Frame()

		frames++
		if *debug && frames%300 == 0 {
			fmt.Print(app.Profiler().StatsString())
		}
	}
}
