package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/hidtools/usbkbd/hidkbd"
)

type Context struct {
	log *logrus.Logger
}

// logFunc bridges the library's leveled callback onto the CLI logger.
func (c *Context) logFunc() hidkbd.LogFunc {
	return func(level int, format string, param ...interface{}) {
		switch level {
		case 0:
			c.log.Warnf(format, param...)
		case 1:
			c.log.Infof(format, param...)
		default:
			c.log.Debugf(format, param...)
		}
	}
}

// bus is what a transport backend must provide to the commands. Which
// backend openBus returns is decided at build time.
type bus interface {
	Devices(vid, pid uint16) ([]hidkbd.Device, error)
	Close() error
}

var CLI struct {
	VID      int           `optional type:"hex" help:"Only consider devices with this USB Vendor ID."`
	PID      int           `optional type:"hex" help:"Only consider devices with this USB Product ID."`
	LogLevel int           `optional help:"Higher values give more output."`
	Timeout  time.Duration `optional help:"Interrupt read timeout per poll iteration." default:"100ms"`

	ListDev ListDevCmd `cmd name:"list-dev" help:"List USB devices and their HID interfaces."`
	Watch   WatchCmd   `cmd help:"Claim the first HID keyboard found and stream decoded key events."`
	Decode  DecodeCmd  `cmd help:"Decode hex encoded keyboard reports given on the command line."`
}

func main() {
	k, err := kong.New(&CLI,
		kong.NamedMapper("hex", intMapper{base: 16}))
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	ctx, err := k.Parse(os.Args[1:])
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	log := logrus.New()
	switch {
	case CLI.LogLevel >= 2:
		log.SetLevel(logrus.DebugLevel)
	case CLI.LogLevel == 1:
		log.SetLevel(logrus.InfoLevel)
	default:
		log.SetLevel(logrus.WarnLevel)
	}

	err = ctx.Run(&Context{log: log})
	ctx.FatalIfErrorf(err)
}
