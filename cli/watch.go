package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/inancgumus/screen"

	"github.com/hidtools/usbkbd/hidkbd"
)

type WatchCmd struct {
	Raw        bool   `optional help:"Show the raw report bytes next to every event."`
	Clear      bool   `optional help:"Redraw a single live view instead of scrolling."`
	ShowIdle   bool   `optional help:"Also show all-keys-released reports."`
	HidrawPath string `optional help:"Read this hidraw node directly instead of scanning the USB bus (Linux only)."`
}

func (w *WatchCmd) Run(c *Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var devs []hidkbd.Device
	if w.HidrawPath != "" {
		dev, err := openHidraw(w.HidrawPath)
		if err != nil {
			return err
		}
		devs = []hidkbd.Device{dev}
	} else {
		b, err := openBus(c)
		if err != nil {
			return err
		}
		defer b.Close()

		devs, err = b.Devices(uint16(CLI.VID), uint16(CLI.PID))
		if err != nil {
			if len(devs) == 0 {
				return err
			}
			c.log.Warnf("Enumeration incomplete: %v", err)
		}
	}

	dev, intf, ep, err := hidkbd.FindKeyboard(devs)
	if err != nil {
		for _, d := range devs {
			d.Close()
		}
		return err
	}
	for _, d := range devs {
		if d != dev {
			d.Close()
		}
	}

	c.log.Infof("Using %s, interface %d, endpoint 0x%02x", dev, intf.Number, ep.Address)

	sess, err := hidkbd.NewSession(dev, intf, ep, hidkbd.Config{
		ReadTimeout: CLI.Timeout,
		LogFunc:     c.logFunc(),
	})
	if err != nil {
		return err
	}

	fmt.Println("Watching for key events, interrupt to stop.")
	return sess.Run(ctx, w.print)
}

func (w *WatchCmd) print(ev hidkbd.KeyEvent) {
	if ev.Empty() && !w.ShowIdle {
		return
	}

	if w.Clear {
		screen.Clear()
		screen.MoveTopLeft()
	}

	if w.Raw {
		fmt.Printf("Raw:       %s\n", reportdump(ev.Raw[:]))
	}
	if len(ev.Modifiers) > 0 {
		fmt.Printf("Modifiers: %s\n", modColor.Sprint(strings.Join(ev.Modifiers, ", ")))
	}
	if len(ev.Keys) > 0 {
		fmt.Printf("Keys:      %s\n", keyColor.Sprint(strings.Join(ev.Keys, ", ")))
	}
	if ev.Empty() {
		fmt.Println("(no keys pressed)")
	}
	if !w.Clear {
		fmt.Println(strings.Repeat("-", 40))
	}
}
