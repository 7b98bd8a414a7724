package probe

import (
	"context"
	"errors"
	"runtime"
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

// ICMPProber sends a single ICMP echo request
type ICMPProber struct {
	privileged bool
}

// NewICMPProber creates a new ICMP prober. Windows only supports privileged pings.
func NewICMPProber(privileged bool) *ICMPProber {
	if runtime.GOOS == "windows" {
		privileged = true
	}
	return &ICMPProber{
		privileged: privileged,
	}
}

// Probe sends one echo request and waits up to timeout for the reply
func (p *ICMPProber) Probe(ctx context.Context, target string, timeout time.Duration) Result {
	pinger, err := probing.NewPinger(target)
	if err != nil {
		return Failure(target, classifyNetError("resolve", err))
	}

	pinger.Count = 1
	pinger.Timeout = timeout
	pinger.SetPrivileged(p.privileged)

	// Stop the pinger early if the caller gives up
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			pinger.Stop()
		case <-stop:
		}
	}()

	if err := pinger.Run(); err != nil {
		return Failure(target, &ProbeError{Op: "icmp", Err: err})
	}

	if ctx.Err() != nil {
		return Failure(target, &ProbeError{Op: "icmp", Err: ctx.Err()})
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv == 0 {
		return Failure(target, ErrTimeout)
	}

	latency := stats.MinRtt
	if len(stats.Rtts) > 0 {
		latency = stats.Rtts[0]
	}
	if latency <= 0 {
		return Failure(target, &ProbeError{Op: "icmp", Err: errors.New("reply without round-trip time")})
	}

	return Success(target, latency)
}
