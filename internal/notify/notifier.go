package notify

import (
	"fmt"
	"sync"

	"github.com/martinlindhe/notify"

	"github.com/juststeveking/pingtray/internal/monitor"
)

const (
	appName = "pingtray"
	title   = "Internet Connection"
)

// Notifier sends desktop notifications when the connection tier changes
type Notifier struct {
	enabled bool
	send    func(title, message string)

	mu       sync.Mutex
	previous monitor.Tier
}

// NewNotifier creates a new notifier instance
func NewNotifier(enabled bool) *Notifier {
	return &Notifier{
		enabled:  enabled,
		send:     desktop,
		previous: monitor.TierPending,
	}
}

func desktop(title, message string) {
	notify.Notify(appName, title, message, "")
}

// Show implements monitor.Sink
func (n *Notifier) Show(state monitor.DisplayState, _ []byte) {
	n.mu.Lock()
	previous := n.previous
	if state.Tier != monitor.TierPending {
		n.previous = state.Tier
	}
	n.mu.Unlock()

	n.NotifyStatusChange(state, previous)
}

// NotifyLost sends a notification when the target stops responding
func (n *Notifier) NotifyLost(state monitor.DisplayState) {
	if !n.enabled {
		return
	}
	n.send(title, "Connection Lost!")
}

// NotifySlow sends a notification when the latency crosses the threshold
func (n *Notifier) NotifySlow(state monitor.DisplayState) {
	if !n.enabled {
		return
	}
	n.send(title, fmt.Sprintf("Slow Connection: %.2f seconds", state.Latency.Seconds()))
}

// NotifyRecovery sends a notification when the connection is good again
func (n *Notifier) NotifyRecovery(state monitor.DisplayState) {
	if !n.enabled {
		return
	}
	n.send(title, fmt.Sprintf("Connection restored: %s", state.Tooltip))
}

// NotifyStatusChange sends a notification when the tier changes
func (n *Notifier) NotifyStatusChange(state monitor.DisplayState, previous monitor.Tier) {
	if !n.enabled || state.Tier == previous {
		return
	}

	switch state.Tier {
	case monitor.TierUnreachable:
		n.NotifyLost(state)
	case monitor.TierSlow:
		if previous == monitor.TierUnreachable {
			n.NotifyRecovery(state)
			return
		}
		n.NotifySlow(state)
	case monitor.TierGood, monitor.TierModerate:
		// Startup into a reachable connection is not news
		if previous == monitor.TierUnreachable || previous == monitor.TierSlow {
			n.NotifyRecovery(state)
		}
	}
}
