package probe

import (
	"context"
	"net"
	"strconv"
	"time"
)

// DefaultTCPPort is dialed when the target carries no port (DNS over TCP)
const DefaultTCPPort = 53

// TCPProber measures the round trip of a TCP connect
type TCPProber struct {
	port int
}

// NewTCPProber creates a new TCP prober
func NewTCPProber(port int) *TCPProber {
	if port <= 0 {
		port = DefaultTCPPort
	}
	return &TCPProber{
		port: port,
	}
}

// Probe dials the target and reports the connect latency
func (t *TCPProber) Probe(ctx context.Context, target string, timeout time.Duration) Result {
	address := target
	if _, _, err := net.SplitHostPort(target); err != nil {
		address = net.JoinHostPort(target, strconv.Itoa(t.port))
	}

	dialer := &net.Dialer{Timeout: timeout}

	start := time.Now()
	conn, err := dialer.DialContext(ctx, "tcp", address)
	latency := time.Since(start)

	if err != nil {
		return Failure(target, classifyNetError("dial", err))
	}
	conn.Close()

	return Success(target, latency)
}
