//go:build hidapi

package hostusb

import (
	"context"
	"fmt"
	"time"

	"github.com/sstallion/go-hid"

	"github.com/hidtools/usbkbd/hidkbd"
)

// HidapiBus enumerates keyboards through hidapi instead of raw libusb.
// hidapi owns kernel driver handling and interface claiming internally,
// so those operations are no-ops on its devices.
type HidapiBus struct{}

func OpenHidapi() (*HidapiBus, error) {
	if err := hid.Init(); err != nil {
		return nil, err
	}
	return &HidapiBus{}, nil
}

func (b *HidapiBus) Devices(vid, pid uint16) ([]hidkbd.Device, error) {
	var out []hidkbd.Device
	err := hid.Enumerate(vid, pid, func(info *hid.DeviceInfo) error {
		if !isKeyboard(info) {
			return nil
		}
		out = append(out, &hidapiDevice{info: *info})
		return nil
	})
	return out, err
}

func (b *HidapiBus) Close() error {
	return hid.Exit()
}

// Keyboard top level collection: Generic Desktop / Keyboard, with the
// Keyboard/Keypad page accepted for firmware that reports it instead.
func isKeyboard(info *hid.DeviceInfo) bool {
	return info.Usage == 0x06 && (info.UsagePage == 0x01 || info.UsagePage == 0x07)
}

type hidapiDevice struct {
	info hid.DeviceInfo
	open *hid.Device
}

func (d *hidapiDevice) String() string {
	return fmt.Sprintf("%04x:%04x %s (%s)",
		d.info.VendorID, d.info.ProductID, d.info.ProductStr, d.info.Path)
}

// Interfaces synthesizes a descriptor: hidapi does not expose the USB
// descriptor tree, but everything it lists here is a claimable HID
// keyboard with an interrupt-IN report pipe.
func (d *hidapiDevice) Interfaces() []hidkbd.InterfaceDesc {
	return []hidkbd.InterfaceDesc{{
		Number:   d.info.InterfaceNbr,
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

func (d *hidapiDevice) DetachKernelDriver(intf int) error {
	return nil
}

func (d *hidapiDevice) Claim(intf int) (hidkbd.ClaimedInterface, error) {
	dev, err := hid.OpenPath(d.info.Path)
	if err != nil {
		return nil, err
	}
	d.open = dev
	return &hidapiClaimed{dev: d}, nil
}

func (d *hidapiDevice) Close() error {
	if d.open == nil {
		return nil
	}
	dev := d.open
	d.open = nil
	return dev.Close()
}

type hidapiClaimed struct {
	dev *hidapiDevice
}

func (c *hidapiClaimed) ReadInterrupt(ctx context.Context, ep hidkbd.EndpointDesc, buf []byte, timeout time.Duration) (int, error) {
	if c.dev.open == nil {
		return 0, hidkbd.ErrorSessionClosed
	}

	n, err := c.dev.open.ReadWithTimeout(buf, timeout)
	if err != nil {
		// hidapi reads fail only once the handle is dead.
		return n, fmt.Errorf("%w: %v", hidkbd.ErrorDeviceGone, err)
	}
	if n == 0 {
		return 0, hidkbd.ErrorReadTimeout
	}
	return n, nil
}

func (c *hidapiClaimed) Release() error {
	// The claim lives and dies with the hidapi handle, closed by the
	// owning device.
	return nil
}
