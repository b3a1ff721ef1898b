//go:build !linux

package main

import (
	"errors"

	"github.com/hidtools/usbkbd/hidkbd"
)

func openHidraw(path string) (hidkbd.Device, error) {
	return nil, errors.New("hidraw nodes are only available on Linux")
}
