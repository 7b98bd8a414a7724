package notify

import (
	"testing"
	"time"

	"github.com/juststeveking/pingtray/internal/monitor"
)

type sent struct {
	title   string
	message string
}

func newRecordingNotifier(enabled bool) (*Notifier, *[]sent) {
	var out []sent
	n := NewNotifier(enabled)
	n.send = func(title, message string) {
		out = append(out, sent{title, message})
	}
	return n, &out
}

func state(tier monitor.Tier, latency time.Duration) monitor.DisplayState {
	p := monitor.Render(tier, latency)
	return monitor.DisplayState{Glyph: p.Glyph, Tooltip: p.Tooltip, Color: p.Color, Tier: tier, Latency: latency}
}

func TestNotifierTransitions(t *testing.T) {
	n, out := newRecordingNotifier(true)

	sequence := []monitor.DisplayState{
		monitor.Placeholder("8.8.8.8"),
		state(monitor.TierGood, 20*time.Millisecond),
		state(monitor.TierGood, 30*time.Millisecond),
		state(monitor.TierSlow, 620*time.Millisecond),
		state(monitor.TierSlow, 700*time.Millisecond),
		state(monitor.TierUnreachable, 0),
		state(monitor.TierUnreachable, 0),
		state(monitor.TierGood, 25*time.Millisecond),
	}
	for _, s := range sequence {
		n.Show(s, nil)
	}

	want := []sent{
		{"Internet Connection", "Slow Connection: 0.62 seconds"},
		{"Internet Connection", "Connection Lost!"},
		{"Internet Connection", "Connection restored: 25 ms"},
	}
	if len(*out) != len(want) {
		t.Fatalf("Expected %d notifications, got %d: %+v", len(want), len(*out), *out)
	}
	for i, w := range want {
		if (*out)[i] != w {
			t.Errorf("notification %d = %+v, want %+v", i, (*out)[i], w)
		}
	}
}

func TestNotifierRecoveryTable(t *testing.T) {
	tests := []struct {
		name     string
		sequence []monitor.DisplayState
		want     []string
	}{
		{
			name: "unreachable to moderate",
			sequence: []monitor.DisplayState{
				state(monitor.TierUnreachable, 0),
				state(monitor.TierModerate, 300*time.Millisecond),
			},
			want: []string{"Connection Lost!", "Connection restored: 300 ms"},
		},
		{
			name: "unreachable to slow",
			sequence: []monitor.DisplayState{
				state(monitor.TierUnreachable, 0),
				state(monitor.TierSlow, 800*time.Millisecond),
			},
			want: []string{"Connection Lost!", "Connection restored: 800 ms"},
		},
		{
			name: "slow to moderate",
			sequence: []monitor.DisplayState{
				state(monitor.TierSlow, 800*time.Millisecond),
				state(monitor.TierModerate, 300*time.Millisecond),
			},
			want: []string{"Slow Connection: 0.80 seconds", "Connection restored: 300 ms"},
		},
		{
			name: "moderate to good",
			sequence: []monitor.DisplayState{
				state(monitor.TierModerate, 300*time.Millisecond),
				state(monitor.TierGood, 40*time.Millisecond),
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, out := newRecordingNotifier(true)
			for _, s := range tt.sequence {
				n.Show(s, nil)
			}

			var got []string
			for _, o := range *out {
				got = append(got, o.message)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("notification %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNotifierLostOnStartup(t *testing.T) {
	n, out := newRecordingNotifier(true)

	n.Show(monitor.Placeholder("8.8.8.8"), nil)
	n.Show(state(monitor.TierUnreachable, 0), nil)

	if len(*out) != 1 || (*out)[0].message != "Connection Lost!" {
		t.Errorf("Expected a lost notification, got %+v", *out)
	}
}

func TestNotifierDisabled(t *testing.T) {
	n, out := newRecordingNotifier(false)

	n.Show(state(monitor.TierUnreachable, 0), nil)
	n.Show(state(monitor.TierGood, 10*time.Millisecond), nil)

	if len(*out) != 0 {
		t.Errorf("Expected no notifications when disabled, got %+v", *out)
	}
}
