package hidkbd

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type LogFunc func(level int, format string, param ...interface{})

const (
	DefaultReadTimeout        = 100 * time.Millisecond
	DefaultMaxTransientErrors = 16
)

type Config struct {
	// ReadTimeout bounds every interrupt read so cancellation is
	// observed within one interval. Policy, not contract.
	ReadTimeout time.Duration

	// MaxTransientErrors promotes this many consecutive transient read
	// errors to a fatal error, so a wedged endpoint cannot keep the
	// loop spinning.
	MaxTransientErrors int

	LogFunc LogFunc
}

type State int

const (
	StateSearching State = iota
	StateClaimed
	StatePolling
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateSearching:
		return "Searching"
	case StateClaimed:
		return "Claimed"
	case StatePolling:
		return "Polling"
	case StateClosed:
		return "Closed"
	}
	return "Invalid"
}

// Session owns one claimed keyboard interface for its lifetime.
// Lifecycle: Searching -> Claimed -> Polling -> Closed, with an error
// edge from every state to Closed. Not safe for concurrent use; the
// poll loop is a single thread of control.
type Session struct {
	dev    Device
	intf   InterfaceDesc
	ep     EndpointDesc
	claim  ClaimedInterface
	config Config
	state  State
}

// NewSession claims the given interface and returns a session in the
// Claimed state. A kernel driver bound to the interface is detached
// first; detach failure is logged and ignored since not every platform
// needs one. Claim failure closes the device and is reported as
// ErrorSessionStart.
//
// The session takes ownership of dev and releases it exactly once.
func NewSession(dev Device, intf InterfaceDesc, ep EndpointDesc, config Config) (*Session, error) {
	if config.ReadTimeout <= 0 {
		config.ReadTimeout = DefaultReadTimeout
	}
	if config.MaxTransientErrors <= 0 {
		config.MaxTransientErrors = DefaultMaxTransientErrors
	}

	s := &Session{
		dev:    dev,
		intf:   intf,
		ep:     ep,
		config: config,
		state:  StateSearching,
	}

	s.logf(2, "Claiming interface %d on %s", intf.Number, dev)

	if err := dev.DetachKernelDriver(intf.Number); err != nil {
		s.logf(1, "Kernel driver detach failed, attempting claim anyway: %v", err)
	}

	claim, err := dev.Claim(intf.Number)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: %v", ErrorSessionStart, err)
	}

	s.claim = claim
	s.state = StateClaimed
	return s, nil
}

func (s *Session) State() State {
	return s.state
}

// Run polls the interrupt endpoint and passes every decoded report to
// emit. It returns nil on cancellation and the fatal error otherwise.
// The claim is released on every exit path. Run can be entered once.
func (s *Session) Run(ctx context.Context, emit func(KeyEvent)) error {
	if s.state != StateClaimed {
		return ErrorSessionClosed
	}
	s.state = StatePolling
	defer s.Close()

	size := s.ep.MaxPacketSize
	if size < ReportLength {
		size = ReportLength
	}
	buf := make([]byte, size)

	transient := 0
	for {
		select {
		case <-ctx.Done():
			s.logf(1, "Stop requested")
			return nil
		default:
		}

		n, err := s.claim.ReadInterrupt(ctx, s.ep, buf, s.config.ReadTimeout)
		switch {
		case err == nil:

		case errors.Is(err, ErrorReadTimeout):
			/* Idle tick, no keys changed */
			continue

		case errors.Is(err, ErrorDeviceGone):
			s.logf(0, "Device lost: %v", err)
			return err

		case ctx.Err() != nil:
			// The backend reports a cancelled transfer as an error;
			// a stop request is not a failure.
			s.logf(1, "Stop requested")
			return nil

		default:
			transient++
			s.logf(0, "Read error (%d/%d): %v", transient, s.config.MaxTransientErrors, err)
			if transient >= s.config.MaxTransientErrors {
				return fmt.Errorf("%w: %d consecutive read errors, last: %v",
					ErrorDeviceGone, transient, err)
			}
			continue
		}
		transient = 0

		ev, err := Decode(buf[:n])
		if err != nil {
			// Transport contract violation, skip the report.
			s.logf(0, "Dropping %d byte report: %v", n, err)
			continue
		}
		emit(ev)
	}
}

// Close releases the interface claim (re-attaching the kernel driver if
// one was detached) and closes the device. Safe to call more than once
// and from any state.
func (s *Session) Close() error {
	if s.state == StateClosed {
		return nil
	}
	s.state = StateClosed

	var err error
	if s.claim != nil {
		err = s.claim.Release()
		s.claim = nil
		s.logf(2, "Interface %d released", s.intf.Number)
	}
	if cerr := s.dev.Close(); err == nil {
		err = cerr
	}
	return err
}

func (s *Session) logf(level int, format string, param ...interface{}) {
	if s.config.LogFunc != nil {
		s.config.LogFunc(level, format, param...)
	}
}
