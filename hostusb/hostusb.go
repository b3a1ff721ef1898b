// Package hostusb provides the USB transport for the keyboard reader,
// backed by libusb through github.com/google/gousb.
package hostusb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/gousb"

	"github.com/hidtools/usbkbd/hidkbd"
)

// Bus wraps a gousb context. One Bus per process is enough; it must be
// closed after all devices obtained from it.
type Bus struct {
	ctx *gousb.Context
}

func Open() *Bus {
	return &Bus{ctx: gousb.NewContext()}
}

func (b *Bus) Debug(level int) {
	b.ctx.Debug(level)
}

func (b *Bus) Close() error {
	return b.ctx.Close()
}

// Devices opens every device on the bus, optionally filtered by vendor
// and product ID (0 = any). Hubs are skipped. Enumeration can fail for
// individual devices (permissions, mostly); the devices that did open
// are returned alongside the error.
func (b *Bus) Devices(vid, pid uint16) ([]hidkbd.Device, error) {
	devs, err := b.ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		if desc.Class == gousb.ClassHub {
			return false
		}
		if vid != 0 && desc.Vendor != gousb.ID(vid) {
			return false
		}
		if pid != 0 && desc.Product != gousb.ID(pid) {
			return false
		}
		return true
	})

	out := make([]hidkbd.Device, 0, len(devs))
	for _, d := range devs {
		out = append(out, &device{dev: d})
	}
	return out, err
}

type device struct {
	dev *gousb.Device
}

func (d *device) String() string {
	return d.dev.String()
}

// activeConfigNum falls back to the lowest numbered configuration when
// the active one cannot be queried (seen on devices in odd states).
func (d *device) activeConfigNum() int {
	if num, err := d.dev.ActiveConfigNum(); err == nil {
		return num
	}
	nums := make([]int, 0, len(d.dev.Desc.Configs))
	for num := range d.dev.Desc.Configs {
		nums = append(nums, num)
	}
	if len(nums) == 0 {
		return 1
	}
	sort.Ints(nums)
	return nums[0]
}

func (d *device) Interfaces() []hidkbd.InterfaceDesc {
	cfg, ok := d.dev.Desc.Configs[d.activeConfigNum()]
	if !ok {
		return nil
	}

	var out []hidkbd.InterfaceDesc
	for _, intf := range cfg.Interfaces {
		if len(intf.AltSettings) == 0 {
			continue
		}
		alt := intf.AltSettings[0]

		desc := hidkbd.InterfaceDesc{
			Number:   intf.Number,
			Class:    uint8(alt.Class),
			SubClass: uint8(alt.SubClass),
			Protocol: uint8(alt.Protocol),
		}

		/* Endpoints is a map, keep descriptor order stable */
		addrs := make([]int, 0, len(alt.Endpoints))
		for addr := range alt.Endpoints {
			addrs = append(addrs, int(addr))
		}
		sort.Ints(addrs)

		for _, addr := range addrs {
			ep := alt.Endpoints[gousb.EndpointAddress(addr)]
			desc.Endpoints = append(desc.Endpoints, hidkbd.EndpointDesc{
				Address:       uint8(ep.Address),
				Number:        ep.Number,
				MaxPacketSize: ep.MaxPacketSize,
				In:            ep.Direction == gousb.EndpointDirectionIn,
				Interrupt:     ep.TransferType == gousb.TransferTypeInterrupt,
			})
		}
		out = append(out, desc)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// DetachKernelDriver enables libusb auto-detach: the kernel driver is
// detached when the interface is claimed and re-attached when it is
// released.
func (d *device) DetachKernelDriver(intf int) error {
	if err := d.dev.SetAutoDetach(true); err != nil {
		return fmt.Errorf("auto detach on %s: %w", d.dev, err)
	}
	return nil
}

func (d *device) Claim(intf int) (hidkbd.ClaimedInterface, error) {
	cfg, err := d.dev.Config(d.activeConfigNum())
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	i, err := cfg.Interface(intf, 0)
	if err != nil {
		cfg.Close()
		return nil, fmt.Errorf("interface %d: %w", intf, err)
	}
	return &claimed{cfg: cfg, intf: i}, nil
}

func (d *device) Close() error {
	return d.dev.Close()
}

type claimed struct {
	cfg  *gousb.Config
	intf *gousb.Interface
	in   *gousb.InEndpoint
}

func (c *claimed) ReadInterrupt(ctx context.Context, ep hidkbd.EndpointDesc, buf []byte, timeout time.Duration) (int, error) {
	if c.in == nil || c.in.Desc.Number != ep.Number {
		in, err := c.intf.InEndpoint(ep.Number)
		if err != nil {
			return 0, classify(fmt.Errorf("endpoint %d: %w", ep.Number, err))
		}
		c.in = in
	}

	rctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	n, err := c.in.ReadContext(rctx, buf)
	if err != nil {
		return n, classify(err)
	}
	return n, nil
}

// Release drops the interface claim; libusb re-attaches the kernel
// driver here when auto-detach took it.
func (c *claimed) Release() error {
	c.in = nil
	c.intf.Close()
	return c.cfg.Close()
}

// classify maps gousb errors onto the reader's error taxonomy. An
// expired transfer deadline surfaces as a cancelled or timed out
// transfer depending on where libusb was when it hit.
func classify(err error) error {
	switch {
	case err == nil:
		return nil

	case errors.Is(err, gousb.TransferCancelled),
		errors.Is(err, gousb.TransferTimedOut),
		errors.Is(err, gousb.ErrorTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", hidkbd.ErrorReadTimeout, err)

	case errors.Is(err, gousb.TransferNoDevice),
		errors.Is(err, gousb.ErrorNoDevice),
		errors.Is(err, gousb.ErrorNotFound):
		return fmt.Errorf("%w: %v", hidkbd.ErrorDeviceGone, err)

	default:
		return fmt.Errorf("%w: %v", hidkbd.ErrorTransientRead, err)
	}
}
