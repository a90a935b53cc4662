// Package fido is a safe, high-level layer over a FIDO2/CTAP2/U2F
// protocol engine. It owns the lifecycle of engine handles (devices,
// assertion and credential containers), drives credential-creation and
// assertion exchanges, and exposes the signed statements a device
// returns for per-statement verification.
//
// The engine itself (transport, CBOR framing, device discovery) lives
// behind the interfaces in pkg/engine; see pkg/softtoken for an
// in-process implementation.
package fido

import (
	"log/slog"

	"github.com/go-fido/fido2/pkg/engine"
	"github.com/go-fido/fido2/pkg/options"
	"github.com/ldclabs/cose/key"
)

// FIDO is the entry point of the safe layer. It wraps one protocol
// engine and allocates the handles everything else operates on.
type FIDO struct {
	engine engine.Engine
	logger *slog.Logger
}

func New(eng engine.Engine, opts ...options.Option) *FIDO {
	oo := options.NewOptions(opts...)

	return &FIDO{
		engine: eng,
		logger: oo.Logger,
	}
}

// Devices lists up to max authenticators known to the engine.
func (f *FIDO) Devices(max int) ([]engine.DeviceInfo, error) {
	return f.engine.Devices(max)
}

// Open opens the authenticator at the given engine path.
func (f *FIDO) Open(path string) (*Device, error) {
	raw, err := f.engine.Open(path)
	if err != nil {
		return nil, err
	}
	f.logger.Debug("opened device", "path", path)

	return &Device{fido: f, raw: raw}, nil
}

// PublicKey is a credential public key together with its COSE algorithm
// tag, as needed by the verification dispatch.
type PublicKey struct {
	Type engine.CredentialType
	Key  key.Key
}
