package hidkbd

import "sort"

// FindKeyboard walks the enumerated devices and returns the first HID
// keyboard interface together with its interrupt-IN endpoint.
//
// Devices are visited in enumeration order, interfaces in ascending
// interface number order. When a device exposes several HID interfaces
// the one with an interrupt-IN endpoint of at least 8 bytes wins, with
// boot keyboard subclass/protocol as the tiebreak. FindKeyboard does
// not retry; a full scan without a match fails with ErrorNoKeyboard.
func FindKeyboard(devs []Device) (Device, InterfaceDesc, EndpointDesc, error) {
	for _, dev := range devs {
		intf, ep, ok := findKeyboardInterface(dev.Interfaces())
		if ok {
			return dev, intf, ep, nil
		}
	}
	return nil, InterfaceDesc{}, EndpointDesc{}, ErrorNoKeyboard
}

func findKeyboardInterface(intfs []InterfaceDesc) (InterfaceDesc, EndpointDesc, bool) {
	sorted := make([]InterfaceDesc, len(intfs))
	copy(sorted, intfs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Number < sorted[j].Number
	})

	var (
		best     InterfaceDesc
		bestRank = -1
	)
	for _, intf := range sorted {
		if intf.Class != ClassHID {
			continue
		}
		ep, ok := firstInterruptIn(intf)
		if !ok {
			continue
		}

		rank := 0
		if ep.MaxPacketSize >= ReportLength {
			rank = 1
			if intf.SubClass == SubClassBoot && intf.Protocol == ProtocolKeyboard {
				rank = 2
			}
		}
		if rank > bestRank {
			best, bestRank = intf, rank
		}
	}

	if bestRank < 0 {
		return InterfaceDesc{}, EndpointDesc{}, false
	}
	ep, _ := firstInterruptIn(best)
	return best, ep, true
}

func firstInterruptIn(intf InterfaceDesc) (EndpointDesc, bool) {
	for _, ep := range intf.Endpoints {
		if ep.In && ep.Interrupt {
			return ep, true
		}
	}
	return EndpointDesc{}, false
}
