package probe

import (
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is reported when no reply arrives within the probe timeout
var ErrTimeout = errors.New("timeout")

// ProbeError wraps a name resolution, permission or OS-level failure
type ProbeError struct {
	Op  string
	Err error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

// Result is the outcome of a single reachability check.
// It is either a success carrying a latency or a failure carrying a cause.
type Result struct {
	Target    string
	OK        bool
	Latency   time.Duration
	Cause     string
	Err       error
	CheckedAt time.Time
}

// Success builds a successful result
func Success(target string, latency time.Duration) Result {
	return Result{
		Target:    target,
		OK:        true,
		Latency:   latency,
		CheckedAt: time.Now(),
	}
}

// Failure builds a failed result. A nil err is treated as a timeout.
func Failure(target string, err error) Result {
	if err == nil {
		err = ErrTimeout
	}

	cause := err.Error()
	var perr *ProbeError
	switch {
	case errors.Is(err, ErrTimeout):
		cause = ErrTimeout.Error()
	case errors.As(err, &perr):
		cause = perr.Err.Error()
	}

	return Result{
		Target:    target,
		Cause:     cause,
		Err:       err,
		CheckedAt: time.Now(),
	}
}

// IsTimeout reports whether the failure was a timeout
func (r Result) IsTimeout() bool {
	return !r.OK && errors.Is(r.Err, ErrTimeout)
}

func (r Result) String() string {
	if r.OK {
		return fmt.Sprintf("%s: %s", r.Target, r.Latency.Round(time.Microsecond))
	}
	return fmt.Sprintf("%s: unreachable (%s)", r.Target, r.Cause)
}
