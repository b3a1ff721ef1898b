package main

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	modColor = color.New(color.FgCyan)
	keyColor = color.New(color.FgGreen)
)

// reportdump renders report bytes as hex, active bytes in red.
func reportdump(data []byte) string {
	red := color.New(color.FgRed)

	result := "["
	for i, b := range data {
		if i > 0 {
			result += " "
		}
		if b != 0 {
			result += red.Sprintf("%02x", b)
		} else {
			result += fmt.Sprintf("%02x", b)
		}
	}
	return result + "]"
}
