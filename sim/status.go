package sim

import "fmt"

// Status is the lifecycle state reported to the host: once at initialization
// and again on any fatal device error. Per-frame hiccups are logged, not
// reported here.
type Status int

const (
	StatusLoading Status = iota
	StatusSupported
	StatusUnsupported
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSupported:
		return "supported"
	case StatusUnsupported:
		return "unsupported"
	case StatusError:
		return "error"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// StatusFunc receives lifecycle transitions. Message is empty except for
// StatusError.
type StatusFunc func(status Status, message string)
