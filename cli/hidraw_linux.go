//go:build linux

package main

import (
	"github.com/hidtools/usbkbd/hidkbd"
	"github.com/hidtools/usbkbd/hidraw"
)

func openHidraw(path string) (hidkbd.Device, error) {
	return hidraw.Open(path)
}
