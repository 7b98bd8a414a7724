package probe

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func TestTCPProber(t *testing.T) {
	// Start a listener
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	prober := NewTCPProber(0)

	result := prober.Probe(context.Background(), l.Addr().String(), time.Second)
	if !result.OK {
		t.Errorf("Expected success, got %v", result)
	}
	if result.Latency <= 0 {
		t.Errorf("Expected positive latency, got %v", result.Latency)
	}

	// Test closed port
	l.Close()

	result = prober.Probe(context.Background(), l.Addr().String(), time.Second)
	if result.OK {
		t.Errorf("Expected failure for closed port, got %v", result)
	}
	if result.Cause == "" {
		t.Error("Expected a failure cause")
	}
}

func TestTCPProberDefaultPort(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	_, portStr, _ := net.SplitHostPort(l.Addr().String())
	port, _ := strconv.Atoi(portStr)

	prober := NewTCPProber(port)
	result := prober.Probe(context.Background(), "127.0.0.1", time.Second)
	if !result.OK {
		t.Errorf("Expected success when port comes from options, got %v", result)
	}
}

func TestHTTPProber(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/generate_204":
			w.WriteHeader(http.StatusNoContent)
		case "/status":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"network":{"online":true,"region":"eu"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	tests := []struct {
		name      string
		prober    *HTTPProber
		path      string
		wantOK    bool
		wantCause string
	}{
		{"any non-error status", NewHTTPProber(0, "", ""), "/generate_204", true, ""},
		{"expected status", NewHTTPProber(http.StatusNoContent, "", ""), "/generate_204", true, ""},
		{"wrong status", NewHTTPProber(http.StatusOK, "", ""), "/generate_204", false, "expected 200, got 204"},
		{"not found", NewHTTPProber(0, "", ""), "/missing", false, "status 404"},
		{"json path exists", NewHTTPProber(0, "network.online", ""), "/status", true, ""},
		{"json value matches", NewHTTPProber(0, "network.region", "eu"), "/status", true, ""},
		{"json value mismatch", NewHTTPProber(0, "network.region", "us"), "/status", false, "JSON assertion failed: network.region == us, got eu"},
		{"json path missing", NewHTTPProber(0, "network.carrier", ""), "/status", false, "JSON path 'network.carrier' not found in response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.prober.Probe(context.Background(), ts.URL+tt.path, time.Second)
			if result.OK != tt.wantOK {
				t.Fatalf("Expected OK=%v, got %v", tt.wantOK, result)
			}
			if tt.wantCause != "" && result.Cause != tt.wantCause {
				t.Errorf("Expected cause %q, got %q", tt.wantCause, result.Cause)
			}
		})
	}
}

func TestHTTPProberTimeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	result := NewHTTPProber(0, "", "").Probe(context.Background(), ts.URL, 100*time.Millisecond)
	if result.OK {
		t.Fatal("Expected failure for slow server")
	}
	if result.Cause != "timeout" {
		t.Errorf("Expected cause timeout, got %q", result.Cause)
	}
	if !result.IsTimeout() {
		t.Error("Expected IsTimeout to be true")
	}
}

func TestHTTPProberEndlessBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chunk := make([]byte, 32<<10)
		for {
			if _, err := w.Write(chunk); err != nil {
				return
			}
			select {
			case <-r.Context().Done():
				return
			default:
			}
		}
	}))
	defer ts.Close()

	start := time.Now()
	result := NewHTTPProber(0, "", "").Probe(context.Background(), ts.URL, 5*time.Second)
	if !result.OK {
		t.Fatalf("Expected success with a capped body read, got %v", result)
	}
	if elapsed := time.Since(start); elapsed > 4*time.Second {
		t.Errorf("Expected the body read to stop at the cap, took %v", elapsed)
	}
}

type stubProber func(ctx context.Context, target string, timeout time.Duration) Result

func (s stubProber) Probe(ctx context.Context, target string, timeout time.Duration) Result {
	return s(ctx, target, timeout)
}

func TestGuardRecoversPanic(t *testing.T) {
	p := Guard(stubProber(func(context.Context, string, time.Duration) Result {
		panic("socket exploded")
	}))

	result := p.Probe(context.Background(), "8.8.8.8", time.Second)
	if result.OK {
		t.Fatal("Expected failure after panic")
	}
	if result.Cause != "panic: socket exploded" {
		t.Errorf("Unexpected cause %q", result.Cause)
	}
}

func TestGuardEnforcesTimeout(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	p := Guard(stubProber(func(context.Context, string, time.Duration) Result {
		<-block
		return Success("8.8.8.8", time.Millisecond)
	}))

	start := time.Now()
	result := p.Probe(context.Background(), "8.8.8.8", 50*time.Millisecond)
	if result.OK || result.Cause != "timeout" {
		t.Fatalf("Expected timeout failure, got %v", result)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Guard returned after %v", elapsed)
	}
}

func TestNewUnknownMethod(t *testing.T) {
	if _, err := New("carrier-pigeon", Options{}); err == nil {
		t.Error("Expected error for unknown method")
	}
	for _, method := range Methods {
		if _, err := New(method, Options{}); err != nil {
			t.Errorf("New(%q) failed: %v", method, err)
		}
	}
}

func TestFailureCauses(t *testing.T) {
	if got := Failure("h", nil).Cause; got != "timeout" {
		t.Errorf("Expected nil error to mean timeout, got %q", got)
	}

	dnsErr := &net.DNSError{Err: "no such host", Name: "nowhere.invalid", IsNotFound: true}
	result := Failure("nowhere.invalid", classifyNetError("dial", dnsErr))
	var perr *ProbeError
	if !errors.As(result.Err, &perr) || perr.Op != "resolve" {
		t.Errorf("Expected resolve ProbeError, got %v", result.Err)
	}
	if result.Cause != dnsErr.Error() {
		t.Errorf("Expected cause %q, got %q", dnsErr.Error(), result.Cause)
	}
}
