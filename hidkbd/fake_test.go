package hidkbd

import (
	"context"
	"time"
)

// readStep scripts the outcome of one ReadInterrupt call.
type readStep struct {
	data []byte
	err  error
	do   func()
}

type fakeClaim struct {
	steps    []readStep
	releases int
}

func (c *fakeClaim) ReadInterrupt(ctx context.Context, ep EndpointDesc, buf []byte, timeout time.Duration) (int, error) {
	if len(c.steps) == 0 {
		return 0, ErrorReadTimeout
	}
	step := c.steps[0]
	c.steps = c.steps[1:]

	if step.do != nil {
		step.do()
	}
	if step.err != nil {
		return 0, step.err
	}
	return copy(buf, step.data), nil
}

func (c *fakeClaim) Release() error {
	c.releases++
	return nil
}

type fakeDevice struct {
	name  string
	intfs []InterfaceDesc

	detachErr error
	claimErr  error
	claim     *fakeClaim

	detaches int
	closes   int
}

func (d *fakeDevice) String() string {
	return d.name
}

func (d *fakeDevice) Interfaces() []InterfaceDesc {
	return d.intfs
}

func (d *fakeDevice) DetachKernelDriver(intf int) error {
	d.detaches++
	return d.detachErr
}

func (d *fakeDevice) Claim(intf int) (ClaimedInterface, error) {
	if d.claimErr != nil {
		return nil, d.claimErr
	}
	if d.claim == nil {
		d.claim = &fakeClaim{}
	}
	return d.claim, nil
}

func (d *fakeDevice) Close() error {
	d.closes++
	return nil
}

func bootKeyboardInterface(number int) InterfaceDesc {
	return InterfaceDesc{
		Number:   number,
		Class:    ClassHID,
		SubClass: SubClassBoot,
		Protocol: ProtocolKeyboard,
		Endpoints: []EndpointDesc{{
			Address:       0x81,
			Number:        1,
			MaxPacketSize: ReportLength,
			In:            true,
			Interrupt:     true,
		}},
	}
}
