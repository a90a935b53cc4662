// Package hidinfo discovers HID paths of connected FIDO authenticators,
// for use with engines that are backed by real hardware. The softtoken
// engine does its own discovery and does not need it.
package hidinfo

import (
	"github.com/sstallion/go-hid"
)

// FIDO authenticators expose the FIDO alliance HID usage page.
const (
	fidoUsagePage = 0xf1d0
	fidoUsage     = 0x01
)

// Paths returns the HID paths of all connected FIDO authenticators.
func Paths() ([]string, error) {
	paths := make([]string, 0)

	if err := hid.Enumerate(hid.VendorIDAny, hid.ProductIDAny, func(info *hid.DeviceInfo) error {
		if info.UsagePage != fidoUsagePage || info.Usage != fidoUsage {
			return nil
		}

		paths = append(paths, info.Path)
		return nil
	}); err != nil {
		return nil, err
	}

	return paths, nil
}
