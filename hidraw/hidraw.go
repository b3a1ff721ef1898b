//go:build linux

// Package hidraw reads keyboard reports straight from a /dev/hidraw
// node, with no libusb and no cgo. The node already is the claimed
// interface, so the detach and claim steps are no-ops here.
package hidraw

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/hidtools/usbkbd/hidkbd"
)

type Device struct {
	f    *os.File
	path string
}

func Open(path string) (*Device, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Device{f: f, path: path}, nil
}

// List returns the hidraw nodes present on the system.
func List() ([]string, error) {
	return filepath.Glob("/dev/hidraw*")
}

/*
 HIDIOCGRAWNAME(256) = 0x81004804
*/

func (d *Device) Name() (string, error) {
	var tmp [256]byte

	_, _, errno := unix.Syscall(
		unix.SYS_IOCTL,
		d.f.Fd(),
		uintptr(uint32(0x80004804)|uint32(len(tmp))<<16),
		uintptr(unsafe.Pointer(&tmp)),
	)

	runtime.KeepAlive(tmp)

	if errno != 0 {
		return "", os.NewSyscallError("HIDIOCGRAWNAME", errno)
	}

	return strings.TrimRight(string(tmp[:]), "\x00"), nil
}

func (d *Device) String() string {
	if name, err := d.Name(); err == nil && name != "" {
		return fmt.Sprintf("%s (%s)", d.path, name)
	}
	return d.path
}

// Interfaces synthesizes a single boot keyboard interface. The caller
// chose the node; there is no descriptor tree to inspect behind it.
func (d *Device) Interfaces() []hidkbd.InterfaceDesc {
	return []hidkbd.InterfaceDesc{{
		Number:   0,
		Class:    hidkbd.ClassHID,
		SubClass: hidkbd.SubClassBoot,
		Protocol: hidkbd.ProtocolKeyboard,
		Endpoints: []hidkbd.EndpointDesc{{
			Address:       0x81,
			Number:        1,
			MaxPacketSize: hidkbd.ReportLength,
			In:            true,
			Interrupt:     true,
		}},
	}}
}

func (d *Device) DetachKernelDriver(intf int) error {
	return nil
}

func (d *Device) Claim(intf int) (hidkbd.ClaimedInterface, error) {
	return &claimed{dev: d}, nil
}

func (d *Device) Close() error {
	return d.f.Close()
}

type claimed struct {
	dev *Device
}

func (c *claimed) ReadInterrupt(ctx context.Context, ep hidkbd.EndpointDesc, buf []byte, timeout time.Duration) (int, error) {
	fds := []unix.PollFd{{
		Fd:     int32(c.dev.f.Fd()),
		Events: unix.POLLIN,
	}}

	n, err := unix.Poll(fds, int(timeout.Milliseconds()))
	if err != nil {
		if err == unix.EINTR {
			// Interrupted poll, the loop re-checks its context.
			return 0, fmt.Errorf("%w: %v", hidkbd.ErrorReadTimeout, err)
		}
		return 0, fmt.Errorf("%w: %v", hidkbd.ErrorTransientRead, err)
	}
	if n == 0 {
		return 0, hidkbd.ErrorReadTimeout
	}
	if fds[0].Revents&(unix.POLLERR|unix.POLLHUP) != 0 {
		return 0, fmt.Errorf("%w: hidraw node hung up", hidkbd.ErrorDeviceGone)
	}

	rn, err := c.dev.f.Read(buf)
	if err != nil {
		return rn, fmt.Errorf("%w: %v", hidkbd.ErrorDeviceGone, err)
	}
	return rn, nil
}

func (c *claimed) Release() error {
	return nil
}
