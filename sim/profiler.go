package sim

import (
	"fmt"
	"strings"
	"time"
)

// Profiler tracks CPU-side frame stage timings and a rolling FPS figure.
// GPU execution time is not measured; the queue runs asynchronously.
type Profiler struct {
	Scopes     map[string]time.Duration
	StartTimes map[string]time.Time
	Order      []string

	frameCount int
	fpsWindow  time.Duration
	lastFrame  time.Time
	FPS        float64
}

func NewProfiler() *Profiler {
	return &Profiler{
		Scopes:     make(map[string]time.Duration),
		StartTimes: make(map[string]time.Time),
		Order:      make([]string, 0),
	}
}

func (p *Profiler) BeginScope(name string) {
	p.StartTimes[name] = time.Now()
	for _, n := range p.Order {
		if n == name {
			return
		}
	}
	p.Order = append(p.Order, name)
}

func (p *Profiler) EndScope(name string) {
	if start, ok := p.StartTimes[name]; ok {
		p.Scopes[name] = time.Since(start)
	}
}

// FrameDone feeds the FPS accumulator; call once per presented frame.
func (p *Profiler) FrameDone() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frameCount++
		p.fpsWindow += now.Sub(p.lastFrame)
		if p.fpsWindow >= time.Second {
			p.FPS = float64(p.frameCount) / p.fpsWindow.Seconds()
			p.frameCount = 0
			p.fpsWindow = 0
		}
	}
	p.lastFrame = now
}

func (p *Profiler) StatsString() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("FPS: %.1f\n", p.FPS))
	sb.WriteString("Timings (CPU):\n")
	for _, name := range p.Order {
		ms := float64(p.Scopes[name].Microseconds()) / 1000.0
		sb.WriteString(fmt.Sprintf("  %-10s: %.2f ms\n", name, ms))
	}
	return sb.String()
}
