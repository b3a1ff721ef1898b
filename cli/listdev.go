package main

import (
	"fmt"

	"github.com/hidtools/usbkbd/hidkbd"
)

type ListDevCmd struct {
}

func (l *ListDevCmd) Run(c *Context) error {
	b, err := openBus(c)
	if err != nil {
		return err
	}
	defer b.Close()

	devs, err := b.Devices(uint16(CLI.VID), uint16(CLI.PID))
	if err != nil {
		c.log.Warnf("Enumeration incomplete: %v", err)
	}
	defer func() {
		for _, d := range devs {
			d.Close()
		}
	}()

	for _, dev := range devs {
		fmt.Println(dev)
		for _, intf := range dev.Interfaces() {
			kind := ""
			if intf.Class == hidkbd.ClassHID {
				kind = " (HID)"
				if intf.SubClass == hidkbd.SubClassBoot && intf.Protocol == hidkbd.ProtocolKeyboard {
					kind = " (HID boot keyboard)"
				}
			}
			fmt.Printf("\tInterface %d class %02x/%02x/%02x%s\n",
				intf.Number, intf.Class, intf.SubClass, intf.Protocol, kind)

			for _, ep := range intf.Endpoints {
				dir := "OUT"
				if ep.In {
					dir = "IN"
				}
				kind := ""
				if ep.Interrupt {
					kind = " interrupt"
				}
				fmt.Printf("\t\tEndpoint 0x%02x %-3s%s maxpacket %d\n",
					ep.Address, dir, kind, ep.MaxPacketSize)
			}
		}
		fmt.Println()
	}

	if len(devs) == 0 {
		fmt.Println("No devices found.")
	}
	return nil
}
