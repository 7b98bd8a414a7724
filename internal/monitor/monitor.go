// Package monitor owns the poll loop: it probes the target, classifies the
// result, renders the badge and hands the new display state to the shells.
package monitor

import (
	"context"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/juststeveking/pingtray/internal/probe"
)

// State is the lifecycle state of the poll loop.
//
//	initializing -> polling -> stopping -> stopped
type State int32

const (
	StateInitializing State = iota
	StatePolling
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StatePolling:
		return "polling"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// DisplayState is the glyph, colour and tooltip currently shown to the user
type DisplayState struct {
	Glyph     string
	Color     Color
	Tooltip   string
	Tier      Tier
	Latency   time.Duration
	Cause     string
	Target    string
	UpdatedAt time.Time
}

// Placeholder returns the state shown before the first result arrives
func Placeholder(target string) DisplayState {
	p := Render(TierPending, 0)
	return DisplayState{
		Glyph:   p.Glyph,
		Color:   p.Color,
		Tooltip: p.Tooltip,
		Tier:    TierPending,
		Target:  target,
	}
}

// IconRenderer draws a glyph in the given colour and returns the encoded icon
type IconRenderer interface {
	Render(text string, color Color) ([]byte, error)
}

// Sink receives every published display state. Sinks are called from the
// poll goroutine and must not block for long.
type Sink interface {
	Show(state DisplayState, icon []byte)
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(state DisplayState, icon []byte)

// Show calls f
func (f SinkFunc) Show(state DisplayState, icon []byte) {
	f(state, icon)
}

// Options configures a Monitor
type Options struct {
	Target   string
	Timeout  time.Duration
	Interval time.Duration
	Policy   Policy
	Renderer Renderer
	// Icons is optional; without it sinks receive a nil icon.
	Icons  IconRenderer
	Logger *log.Logger
}

// Monitor runs the poll loop for a single target
type Monitor struct {
	opts   Options
	prober probe.Prober
	sinks  []Sink
	logger *log.Logger

	mu      sync.RWMutex
	display DisplayState
	icon    []byte

	state atomic.Int32
	done  chan struct{}

	// lifecycle serializes Start and Stop
	lifecycle sync.Mutex
	cancel    context.CancelFunc
}

// NewMonitor creates a new monitor in the initializing state
func NewMonitor(opts Options, prober probe.Prober, sinks ...Sink) *Monitor {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Monitor{
		opts:    opts,
		prober:  prober,
		sinks:   sinks,
		logger:  logger,
		display: Placeholder(opts.Target),
		done:    make(chan struct{}),
	}
}

// AddSink registers another sink. It must be called before Start.
func (m *Monitor) AddSink(s Sink) {
	m.sinks = append(m.sinks, s)
}

// State returns the current lifecycle state
func (m *Monitor) State() State {
	return State(m.state.Load())
}

// Current returns the most recently published display state and icon
func (m *Monitor) Current() (DisplayState, []byte) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.display, m.icon
}

// Start spawns the poll loop. It is a no-op if the loop was already started
// or stopped.
func (m *Monitor) Start(ctx context.Context) {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	if m.State() != StateInitializing {
		return
	}

	ctx, m.cancel = context.WithCancel(ctx)
	m.state.Store(int32(StatePolling))

	go m.run(ctx)
}

// Stop signals the loop to stop and waits for it to exit. Stopping a
// monitor that was never started closes Done immediately.
func (m *Monitor) Stop() {
	m.lifecycle.Lock()
	if m.State() == StateInitializing {
		m.state.Store(int32(StateStopped))
		close(m.done)
		m.lifecycle.Unlock()
		return
	}
	cancel := m.cancel
	m.lifecycle.Unlock()

	if cancel != nil {
		cancel()
	}
	<-m.done
}

// Done returns a channel that's closed when the loop has exited
func (m *Monitor) Done() <-chan struct{} {
	return m.done
}

func (m *Monitor) run(ctx context.Context) {
	defer func() {
		m.state.Store(int32(StateStopped))
		close(m.done)
	}()

	placeholder, _ := m.Current()
	m.publish(placeholder)

	for {
		if ctx.Err() != nil {
			m.state.Store(int32(StateStopping))
			return
		}

		start := time.Now()
		if _, ok := m.Poll(ctx); !ok {
			m.state.Store(int32(StateStopping))
			return
		}

		// Sleep the remainder of the interval so cycles start on cadence
		wait := m.opts.Interval - time.Since(start)
		if wait <= 0 {
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			m.state.Store(int32(StateStopping))
			return
		case <-timer.C:
		}
	}
}

// Poll runs a single probe cycle and publishes the result. It reports
// false when ctx was cancelled during the probe; nothing is published then.
func (m *Monitor) Poll(ctx context.Context) (DisplayState, bool) {
	result := m.prober.Probe(ctx, m.opts.Target, m.opts.Timeout)
	if ctx.Err() != nil {
		return DisplayState{}, false
	}

	if !result.OK {
		m.logger.Printf("probe %s failed: %v", m.opts.Target, result.Err)
	}

	tier := m.opts.Policy.Classify(result)
	p := m.opts.Renderer.Render(tier, result.Latency, result.Cause)

	ds := DisplayState{
		Glyph:     p.Glyph,
		Color:     p.Color,
		Tooltip:   p.Tooltip,
		Tier:      tier,
		Latency:   result.Latency,
		Cause:     result.Cause,
		Target:    m.opts.Target,
		UpdatedAt: result.CheckedAt,
	}
	m.publish(ds)

	return ds, true
}

// publish stores the new state and pushes it to every sink
func (m *Monitor) publish(ds DisplayState) {
	var icon []byte
	if m.opts.Icons != nil {
		var err error
		icon, err = m.opts.Icons.Render(ds.Glyph, ds.Color)
		if err != nil {
			m.logger.Printf("failed to render icon %q: %v", ds.Glyph, err)
			icon = nil
		}
	}

	m.mu.Lock()
	m.display = ds
	if icon != nil {
		m.icon = icon
	}
	current := m.icon
	m.mu.Unlock()

	for _, s := range m.sinks {
		s.Show(ds, current)
	}
}
