// Package probe implements single-shot reachability checks against a host.
// Every failure is folded into a Result; probes never return an error.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"
)

const (
	MethodICMP = "icmp"
	MethodTCP  = "tcp"
	MethodHTTP = "http"
)

// Methods lists the supported probe methods
var Methods = []string{MethodICMP, MethodTCP, MethodHTTP}

// Prober performs one reachability check against a target
type Prober interface {
	Probe(ctx context.Context, target string, timeout time.Duration) Result
}

// Options configures the prober returned by New
type Options struct {
	// Port is used by the tcp method when the target carries no port.
	Port int
	// Privileged selects raw ICMP sockets instead of unprivileged UDP pings.
	Privileged bool
	// ExpectedStatus is the HTTP status the http method requires (0: any non-error status).
	ExpectedStatus int
	// JSONPath and JSONValue assert a field of the HTTP response body.
	JSONPath  string
	JSONValue string
}

// New returns the prober for the given method
func New(method string, opts Options) (Prober, error) {
	var p Prober
	switch strings.ToLower(method) {
	case "", MethodICMP:
		p = NewICMPProber(opts.Privileged)
	case MethodTCP:
		p = NewTCPProber(opts.Port)
	case MethodHTTP:
		p = NewHTTPProber(opts.ExpectedStatus, opts.JSONPath, opts.JSONValue)
	default:
		return nil, fmt.Errorf("unknown probe method: %s", method)
	}
	return Guard(p), nil
}

// Guard wraps a prober so that a panic inside it is reported as a failure
// and a result can never arrive later than the timeout plus a short grace.
func Guard(p Prober) Prober {
	if _, ok := p.(guarded); ok {
		return p
	}
	return guarded{inner: p}
}

type guarded struct {
	inner Prober
}

const guardGrace = 250 * time.Millisecond

func (g guarded) Probe(ctx context.Context, target string, timeout time.Duration) Result {
	done := make(chan Result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- Failure(target, &ProbeError{Op: "probe", Err: fmt.Errorf("panic: %v", r)})
			}
		}()
		done <- g.inner.Probe(ctx, target, timeout)
	}()

	timer := time.NewTimer(timeout + guardGrace)
	defer timer.Stop()

	select {
	case res := <-done:
		return res
	case <-timer.C:
		return Failure(target, ErrTimeout)
	case <-ctx.Done():
		return Failure(target, &ProbeError{Op: "probe", Err: ctx.Err()})
	}
}

// classifyNetError maps dial and resolution errors onto the probe taxonomy
func classifyNetError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return ErrTimeout
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return ErrTimeout
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &ProbeError{Op: "resolve", Err: err}
	}
	return &ProbeError{Op: op, Err: err}
}
