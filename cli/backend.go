//go:build !hidapi

package main

import (
	"github.com/hidtools/usbkbd/hostusb"
)

func openBus(c *Context) (bus, error) {
	b := hostusb.Open()
	if CLI.LogLevel >= 3 {
		b.Debug(CLI.LogLevel)
	}
	return b, nil
}
