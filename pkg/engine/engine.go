// Package engine defines the boundary between the safe FIDO2 layer in
// pkg/fido and an underlying CTAP2/U2F protocol engine. The engine owns
// serialization, transport and device I/O; this package only fixes the
// shape of the handles the safe layer manages.
package engine

import (
	"github.com/ldclabs/cose/key"
)

// CredentialType tags a public key with its COSE algorithm, as registered
// by IANA. The assertion verification dispatch selects the signature
// scheme from it.
type CredentialType int

const (
	ES256 CredentialType = -7
	EdDSA CredentialType = -8
	RS256 CredentialType = -257
)

func (t CredentialType) String() string {
	switch t {
	case ES256:
		return "ES256"
	case EdDSA:
		return "EdDSA"
	case RS256:
		return "RS256"
	default:
		return "unknown credential type"
	}
}

// DeviceInfo describes a discovered authenticator.
type DeviceInfo struct {
	Path         string
	VendorID     uint16
	ProductID    uint16
	Manufacturer string
	Product      string
}

// AssertHandle is an engine-owned assertion container. It starts empty,
// is populated through the fallible setters, handed to Engine.GetAssert
// and read back through the per-index accessors. The handle is exclusively
// owned; Free releases it and must be called exactly once.
//
// Accessor calls with an index outside [0, Count) and reader calls on a
// handle that never went through GetAssert have undefined results; the
// safe layer in pkg/fido never issues them.
type AssertHandle interface {
	SetRelyingPartyID(id string) error
	SetClientDataHash(hash []byte) error
	AllowCredentialID(id []byte) error
	SetOptions(userPresence, userVerification bool) error
	SetHMACSalt(salt []byte) error

	Count() int
	ClientDataHash() []byte
	AuthData(i int) []byte
	Signature(i int) []byte
	HMACSecret(i int) ([]byte, bool)
	UserID(i int) ([]byte, bool)
	UserName(i int) (string, bool)
	UserDisplayName(i int) (string, bool)
	UserImageURI(i int) (string, bool)

	// Verify checks the signature of statement i against publicKey.
	// A mismatch is reported as *Error with StatusInvalidSignature.
	Verify(i int, typ CredentialType, publicKey key.Key) error

	Free()
}

// CredentialHandle is an engine-owned credential-creation container,
// following the same populate-then-transfer lifecycle as AssertHandle.
type CredentialHandle interface {
	SetType(typ CredentialType) error
	SetClientDataHash(hash []byte) error
	SetRelyingParty(id, name string) error
	SetUser(id []byte, name, displayName, imageURI string) error
	SetResidentKey(required bool) error

	ID() []byte
	PublicKey() (CredentialType, key.Key)
	AuthData() []byte
	AttestationObject() []byte

	Free()
}

// DeviceHandle is one open connection to an authenticator. Protocol,
// Major, Minor, Build and Flags are independent accessors onto the
// transport-reported metadata. Close reports transport errors; Free
// releases the handle unconditionally and must follow Close.
type DeviceHandle interface {
	IsFIDO2() bool
	Protocol() uint8
	Major() uint8
	Minor() uint8
	Build() uint8
	Flags() byte
	Close() error
	Free()
}

// Engine is the protocol engine itself. All calls are synchronous and
// block until the device answers or the engine's own timeout fires.
type Engine interface {
	Devices(max int) ([]DeviceInfo, error)
	Open(path string) (DeviceHandle, error)

	NewAssert() AssertHandle
	NewCredential() CredentialHandle

	// GetAssert sends the populated request to the device and fills the
	// handle with the signed statements. pin may be empty.
	GetAssert(dev DeviceHandle, assert AssertHandle, pin string) error

	// MakeCredential creates a new credential on the device and fills
	// the handle with the result. pin may be empty.
	MakeCredential(dev DeviceHandle, cred CredentialHandle, pin string) error
}
