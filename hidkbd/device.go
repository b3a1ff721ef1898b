package hidkbd

import (
	"context"
	"time"
)

const (
	ClassHID         = 0x03
	SubClassBoot     = 0x01
	ProtocolKeyboard = 0x01
)

// EndpointDesc describes one endpoint of an interface, as read from the
// device descriptors. Immutable.
type EndpointDesc struct {
	Address       uint8
	Number        int
	MaxPacketSize int
	In            bool
	Interrupt     bool
}

// InterfaceDesc describes one interface of a device. Immutable.
type InterfaceDesc struct {
	Number    int
	Class     uint8
	SubClass  uint8
	Protocol  uint8
	Endpoints []EndpointDesc
}

// Device is an open USB device as provided by a transport backend.
// A Session takes ownership of the Device passed to it and closes it
// exactly once.
type Device interface {
	String() string

	// Interfaces lists the interfaces of the active configuration.
	Interfaces() []InterfaceDesc

	// DetachKernelDriver releases OS ownership of the interface so it
	// can be claimed. Best-effort: some platforms need no detach and
	// some backends handle it internally.
	DetachKernelDriver(intf int) error

	// Claim claims the interface. The returned ClaimedInterface must be
	// released; releasing re-attaches the kernel driver where one was
	// detached.
	Claim(intf int) (ClaimedInterface, error)

	Close() error
}

// ClaimedInterface is a claimed interface ready for interrupt transfers.
type ClaimedInterface interface {
	// ReadInterrupt performs one interrupt-IN transfer with a bounded
	// timeout. An expired timeout is reported as ErrorReadTimeout,
	// a lost device as ErrorDeviceGone, anything else recoverable as
	// ErrorTransientRead.
	ReadInterrupt(ctx context.Context, ep EndpointDesc, buf []byte, timeout time.Duration) (int, error)

	Release() error
}
