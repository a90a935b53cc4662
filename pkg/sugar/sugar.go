// Package sugar holds small conveniences on top of pkg/fido that don't
// belong in the core lifecycle types.
package sugar

import (
	"errors"

	"github.com/go-fido/fido2/pkg/engine"
	"github.com/go-fido/fido2/pkg/fido"
	"github.com/go-fido/fido2/pkg/options"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

var ErrNoDevice = errors.New("sugar: no FIDO2 device found")

// SelectDevice opens candidate paths in order and returns the first
// device that reports FIDO2 support and the CBOR capability, closing the
// ones it passed over. Candidate paths come from options.WithPaths, or
// from the engine's own discovery when none are given.
func SelectDevice(f *fido.FIDO, opts ...options.Option) (*fido.Device, error) {
	oo := options.NewOptions(opts...)

	paths := oo.Paths
	if paths == nil {
		infos, err := f.Devices(64)
		if err != nil {
			return nil, err
		}
		paths = lo.Map(infos, func(info engine.DeviceInfo, _ int) string {
			return info.Path
		})
	}

	for _, p := range paths {
		dev, err := f.Open(p)
		if err != nil {
			return nil, err
		}

		if dev.IsFIDO2() && dev.TransportInfo().Capabilities.Has(fido.CapabilityCBOR) {
			return dev, nil
		}

		_ = dev.Close()
	}

	return nil, ErrNoDevice
}

// FirstVerified returns the first statement of a that verifies against
// publicKey, or None when no statement does. Evaluation stops at the
// first success.
func FirstVerified(a *fido.Assertion, publicKey fido.PublicKey) mo.Option[*fido.Statement] {
	for stmt, err := range a.VerifiedStatements(publicKey) {
		if err == nil {
			return mo.Some(stmt)
		}
	}

	return mo.None[*fido.Statement]()
}
