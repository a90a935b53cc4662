package fido

import (
	"fmt"
	"strings"
)

// AssertionOptions are the option flags of an assertion request. Any
// combination is valid, including none at all: a request with neither
// flag forwards no presence or verification requirement to the
// authenticator, which then decides on its own. This "silent" mode is
// forwarded as-is, not rewritten into a default.
type AssertionOptions byte

const (
	// OptionUserPresence asks the authenticator to require user consent
	// to complete the operation.
	OptionUserPresence AssertionOptions = 1 << iota
	// OptionUserVerification asks the authenticator to require a gesture
	// that verifies the user to complete the request.
	OptionUserVerification
)

func (o AssertionOptions) Has(flag AssertionOptions) bool {
	return o&flag != 0
}

func (o AssertionOptions) String() string {
	if o == 0 {
		return "none"
	}

	names := make([]string, 0, 2)
	if o.Has(OptionUserPresence) {
		names = append(names, "up")
	}
	if o.Has(OptionUserVerification) {
		names = append(names, "uv")
	}
	return strings.Join(names, "|")
}

// Capabilities are the CTAPHID capability bits reported by a device.
type Capabilities byte

const (
	CapabilityWink Capabilities = 0x01
	CapabilityCBOR Capabilities = 0x04
	CapabilityNMSG Capabilities = 0x08
)

const capabilityMask = CapabilityWink | CapabilityCBOR | CapabilityNMSG

// DecodeCapabilities decodes raw capability bits. The engine guarantees
// only known bits are set; an unrecognized bit means the engine and this
// package disagree about the protocol and panicking is the only safe
// reaction.
func DecodeCapabilities(bits byte) Capabilities {
	if bits&^byte(capabilityMask) != 0 {
		panic(fmt.Sprintf("fido: unrecognized capability bits 0x%02x", bits))
	}
	return Capabilities(bits)
}

func (c Capabilities) Has(flag Capabilities) bool {
	return c&flag != 0
}

func (c Capabilities) String() string {
	if c == 0 {
		return "none"
	}

	names := make([]string, 0, 3)
	if c.Has(CapabilityWink) {
		names = append(names, "wink")
	}
	if c.Has(CapabilityCBOR) {
		names = append(names, "cbor")
	}
	if c.Has(CapabilityNMSG) {
		names = append(names, "nmsg")
	}
	return strings.Join(names, "|")
}
