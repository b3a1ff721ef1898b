package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/hidtools/usbkbd/hidkbd"
)

type DecodeCmd struct {
	Reports []string `arg name:"report" help:"Reports as hex strings, e.g. 0200040000000000."`
}

func (d *DecodeCmd) Run(c *Context) error {
	for _, arg := range d.Reports {
		raw, err := hex.DecodeString(arg)
		if err != nil {
			return fmt.Errorf("%q: %w", arg, err)
		}

		ev, err := hidkbd.Decode(raw)
		if err != nil {
			return fmt.Errorf("%q: %w", arg, err)
		}

		fmt.Printf("Raw:       %s\n", reportdump(ev.Raw[:]))
		if len(ev.Modifiers) > 0 {
			fmt.Printf("Modifiers: %s\n", modColor.Sprint(strings.Join(ev.Modifiers, ", ")))
		}
		if len(ev.Keys) > 0 {
			fmt.Printf("Keys:      %s\n", keyColor.Sprint(strings.Join(ev.Keys, ", ")))
		}
		if ev.Empty() {
			fmt.Println("(no keys pressed)")
		}
		fmt.Println(strings.Repeat("-", 40))
	}
	return nil
}
