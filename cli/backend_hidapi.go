//go:build hidapi

package main

import (
	"github.com/hidtools/usbkbd/hostusb"
)

func openBus(c *Context) (bus, error) {
	return hostusb.OpenHidapi()
}
