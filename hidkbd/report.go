// Package hidkbd locates a USB HID keyboard, claims its interface and
// decodes the boot protocol reports read from its interrupt endpoint.
// The USB transport itself is pluggable, see the Device interface.
package hidkbd

// ReportLength is the size of a boot protocol keyboard input report.
const ReportLength = 8

// KeyEvent is the decoded form of one keyboard report.
//
// Keys preserves the slot order of bytes 2-7 as observed on the wire.
// The boot protocol does not promise that this order matches press
// chronology, some firmware reorders the slots.
type KeyEvent struct {
	Modifiers []string
	Keys      []string

	Raw [ReportLength]byte
}

// Empty reports whether no modifier and no key is active. Idle reports
// decode to empty events.
func (e KeyEvent) Empty() bool {
	return len(e.Modifiers) == 0 && len(e.Keys) == 0
}

// Decode interprets a boot protocol keyboard report:
//
//	byte 0   modifier bitfield
//	byte 1   reserved
//	byte 2-7 active key usage codes, 0 = empty slot
//
// Reports longer than 8 bytes are allowed, the extra bytes are padding
// and ignored. Shorter reports fail with ErrorMalformedReport and are
// never zero-padded.
func Decode(report []byte) (KeyEvent, error) {
	var ev KeyEvent

	if len(report) < ReportLength {
		return ev, ErrorMalformedReport
	}
	copy(ev.Raw[:], report[:ReportLength])

	for bit := uint(0); bit < 8; bit++ {
		if report[0]&(1<<bit) == 0 {
			continue
		}
		name, _ := ModifierName(bit)
		ev.Modifiers = append(ev.Modifiers, name)
	}

	for _, code := range report[2:ReportLength] {
		if code == 0 {
			continue
		}
		name, ok := KeyName(code)
		if !ok {
			name = UnknownKeyName(code)
		}
		ev.Keys = append(ev.Keys, name)
	}

	return ev, nil
}
