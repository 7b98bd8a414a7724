// Package tray implements the system tray badge and its Quit menu.
package tray

import (
	"fmt"
	"log"
	"sync"

	"github.com/getlantern/systray"

	"github.com/juststeveking/pingtray/internal/monitor"
)

// Tray is the notification-area shell. It receives display states from the
// poll loop and owns the tray event loop on the main goroutine.
type Tray struct {
	target string
	logger *log.Logger

	mu      sync.Mutex
	ready   bool
	pending *frame

	statusItem *systray.MenuItem
	quitItem   *systray.MenuItem
	quitOnce   sync.Once
	exited     chan struct{}
}

type frame struct {
	state monitor.DisplayState
	icon  []byte
}

// New creates a tray shell for target
func New(target string, logger *log.Logger) *Tray {
	return &Tray{
		target: target,
		logger: logger,
		exited: make(chan struct{}),
	}
}

// Run starts the tray. This blocks the calling goroutine (must be main).
// onStart is called once the tray is ready (start the poll loop here).
// onExit is called when the tray exits (stop and join the poll loop here).
func (t *Tray) Run(onStart, onExit func()) {
	systray.Run(func() {
		t.onReady()
		if onStart != nil {
			onStart()
		}
	}, func() {
		if onExit != nil {
			onExit()
		}
		close(t.exited)
	})
}

// Quit signals the tray to exit. Safe to call more than once.
func (t *Tray) Quit() {
	t.quitOnce.Do(systray.Quit)
}

// Show updates the icon and tooltip. States arriving before the tray is
// ready are held and applied once it is.
func (t *Tray) Show(state monitor.DisplayState, icon []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.ready {
		t.pending = &frame{state: state, icon: icon}
		return
	}
	t.apply(state, icon)
}

// apply pushes a frame to the tray; t.mu must be held
func (t *Tray) apply(state monitor.DisplayState, icon []byte) {
	if len(icon) > 0 {
		systray.SetIcon(icon)
	}
	systray.SetTooltip(formatTooltip(state))
	if t.statusItem != nil {
		t.statusItem.SetTitle(formatStatus(state))
	}
}

func (t *Tray) onReady() {
	placeholder := monitor.Placeholder(t.target)
	systray.SetTooltip(formatTooltip(placeholder))

	header := systray.AddMenuItem(fmt.Sprintf("pingtray: %s", t.target), "")
	header.Disable()

	t.statusItem = systray.AddMenuItem(formatStatus(placeholder), "")
	t.statusItem.Disable()

	systray.AddSeparator()

	t.quitItem = systray.AddMenuItem("Quit", "Stop monitoring and exit")

	t.mu.Lock()
	t.ready = true
	if t.pending != nil {
		t.apply(t.pending.state, t.pending.icon)
		t.pending = nil
	}
	t.mu.Unlock()

	go t.handleClicks()
}

func (t *Tray) handleClicks() {
	select {
	case <-t.quitItem.ClickedCh:
		if t.logger != nil {
			t.logger.Println("Quit requested from tray menu")
		}
		t.Quit()
	case <-t.exited:
	}
}

func formatTooltip(state monitor.DisplayState) string {
	return state.Tooltip
}

func formatStatus(state monitor.DisplayState) string {
	switch state.Tier {
	case monitor.TierPending:
		return state.Tooltip
	case monitor.TierUnreachable:
		return fmt.Sprintf("● %s (%s)", state.Tooltip, state.UpdatedAt.Format("15:04:05"))
	default:
		return fmt.Sprintf("● %s, %s (%s)", state.Tooltip, state.Tier, state.UpdatedAt.Format("15:04:05"))
	}
}
