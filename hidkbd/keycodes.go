package hidkbd

import "fmt"

/* Names for the boot protocol modifier bitfield, indexed by bit position
 * in byte 0 of the report. */
var modifierNames = [8]string{
	"LeftCtrl",
	"LeftShift",
	"LeftAlt",
	"LeftGui",
	"RightCtrl",
	"RightShift",
	"RightAlt",
	"RightGui",
}

// ModifierName returns the name for a modifier bit position (0-7).
func ModifierName(bit uint) (string, bool) {
	if bit > 7 {
		return "", false
	}
	return modifierNames[bit], true
}

/* Keyboard/Keypad usage page (0x07) of the HID Usage Tables. Lookup
 * misses are handled by the decoder, which substitutes a placeholder. */
var keyNames = map[byte]string{
	0x04: "A", 0x05: "B", 0x06: "C", 0x07: "D", 0x08: "E", 0x09: "F",
	0x0A: "G", 0x0B: "H", 0x0C: "I", 0x0D: "J", 0x0E: "K", 0x0F: "L",
	0x10: "M", 0x11: "N", 0x12: "O", 0x13: "P", 0x14: "Q", 0x15: "R",
	0x16: "S", 0x17: "T", 0x18: "U", 0x19: "V", 0x1A: "W", 0x1B: "X",
	0x1C: "Y", 0x1D: "Z",

	0x1E: "1", 0x1F: "2", 0x20: "3", 0x21: "4", 0x22: "5",
	0x23: "6", 0x24: "7", 0x25: "8", 0x26: "9", 0x27: "0",

	0x28: "Enter", 0x29: "Escape", 0x2A: "Backspace", 0x2B: "Tab",
	0x2C: "Space", 0x2D: "Minus", 0x2E: "Equals", 0x2F: "BracketLeft",
	0x30: "BracketRight", 0x31: "Backslash", 0x32: "NonUSHash",
	0x33: "Semicolon", 0x34: "Quote", 0x35: "Grave", 0x36: "Comma",
	0x37: "Period", 0x38: "Slash", 0x39: "CapsLock",

	0x3A: "F1", 0x3B: "F2", 0x3C: "F3", 0x3D: "F4", 0x3E: "F5",
	0x3F: "F6", 0x40: "F7", 0x41: "F8", 0x42: "F9", 0x43: "F10",
	0x44: "F11", 0x45: "F12",

	0x46: "PrintScreen", 0x47: "ScrollLock", 0x48: "Pause",
	0x49: "Insert", 0x4A: "Home", 0x4B: "PageUp", 0x4C: "Delete",
	0x4D: "End", 0x4E: "PageDown",

	0x4F: "RightArrow", 0x50: "LeftArrow", 0x51: "DownArrow",
	0x52: "UpArrow",

	0x53: "NumLock", 0x54: "KeypadSlash", 0x55: "KeypadAsterisk",
	0x56: "KeypadMinus", 0x57: "KeypadPlus", 0x58: "KeypadEnter",
	0x59: "Keypad1", 0x5A: "Keypad2", 0x5B: "Keypad3", 0x5C: "Keypad4",
	0x5D: "Keypad5", 0x5E: "Keypad6", 0x5F: "Keypad7", 0x60: "Keypad8",
	0x61: "Keypad9", 0x62: "Keypad0", 0x63: "KeypadPeriod",

	0x64: "NonUSBackslash", 0x65: "Application", 0x66: "Power",
	0x67: "KeypadEquals",

	0x68: "F13", 0x69: "F14", 0x6A: "F15", 0x6B: "F16", 0x6C: "F17",
	0x6D: "F18", 0x6E: "F19", 0x6F: "F20", 0x70: "F21", 0x71: "F22",
	0x72: "F23", 0x73: "F24",
}

// KeyName returns the name for a key usage code. The second return
// value is false when the code has no entry in the table.
func KeyName(code byte) (string, bool) {
	name, ok := keyNames[code]
	return name, ok
}

// UnknownKeyName is the placeholder used for usage codes without a
// table entry. Unmapped key presses are reported, never dropped.
func UnknownKeyName(code byte) string {
	return fmt.Sprintf("Unknown(0x%02X)", code)
}
