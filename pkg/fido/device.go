package fido

import (
	"github.com/go-fido/fido2/pkg/engine"
)

// Device owns a single open connection to an authenticator. It is not
// safe for concurrent use; move it between goroutines as a unit or
// serialize access externally.
type Device struct {
	fido *FIDO
	raw  engine.DeviceHandle
}

// TransportInfo is the CTAPHID-level metadata of a device.
type TransportInfo struct {
	Protocol     uint8
	Major        uint8
	Minor        uint8
	Build        uint8
	Capabilities Capabilities
}

func (d *Device) handle() engine.DeviceHandle {
	if d.raw == nil {
		panic("fido: use of closed device")
	}
	return d.raw
}

// IsFIDO2 reports whether the connected authenticator speaks FIDO2, as
// opposed to legacy U2F only.
func (d *Device) IsFIDO2() bool {
	return d.handle().IsFIDO2()
}

// TransportInfo reads the device's protocol version and capability
// flags. Unrecognized capability bits panic, see DecodeCapabilities.
func (d *Device) TransportInfo() TransportInfo {
	h := d.handle()

	return TransportInfo{
		Protocol:     h.Protocol(),
		Major:        h.Major(),
		Minor:        h.Minor(),
		Build:        h.Build(),
		Capabilities: DecodeCapabilities(h.Flags()),
	}
}

// GetAssertion sends the built request to the device and blocks until
// the authenticator answers or the engine times out. The creator is
// consumed: on success its handle lives on inside the returned
// Assertion, on failure it is released. pin may be empty.
func (d *Device) GetAssertion(creator *AssertionCreator, pin string) (*Assertion, error) {
	raw := creator.take()
	if err := d.fido.engine.GetAssert(d.handle(), raw, pin); err != nil {
		raw.Free()
		return nil, err
	}
	d.fido.logger.Debug("assertion returned", "statements", raw.Count())

	return &Assertion{raw: raw}, nil
}

// MakeCredential creates a new credential on the device. The creator is
// consumed the same way as in GetAssertion. pin may be empty.
func (d *Device) MakeCredential(creator *CredentialCreator, pin string) (*Credential, error) {
	raw := creator.take()
	if err := d.fido.engine.MakeCredential(d.handle(), raw, pin); err != nil {
		raw.Free()
		return nil, err
	}
	d.fido.logger.Debug("credential created")

	return &Credential{raw: raw}, nil
}

// Close closes the connection and releases the handle, in that order.
// A close error is observed but never blocks the release; from the
// caller's perspective teardown cannot fail. Close is idempotent and
// always returns nil.
func (d *Device) Close() error {
	if d.raw == nil {
		return nil
	}

	if err := d.raw.Close(); err != nil {
		d.fido.logger.Debug("device close reported error", "err", err)
	}
	d.raw.Free()
	d.raw = nil

	return nil
}
