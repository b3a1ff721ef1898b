package hidkbd

import "errors"

var (
	ErrorNoKeyboard      = errors.New("No HID keyboard interface found")
	ErrorSessionStart    = errors.New("Could not claim the keyboard interface")
	ErrorMalformedReport = errors.New("Report is shorter than 8 bytes")
	ErrorReadTimeout     = errors.New("The read did not complete in time")
	ErrorTransientRead   = errors.New("Transfer failed")
	ErrorDeviceGone      = errors.New("Device is no longer present")
	ErrorSessionClosed   = errors.New("Session is closed")
)
