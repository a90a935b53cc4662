package fido

import (
	"fmt"

	"github.com/go-fido/fido2/pkg/engine"
)

// CredentialCreationData is the parameter bundle used once to populate a
// credential-creation request.
type CredentialCreationData struct {
	Type             engine.CredentialType
	ClientDataHash   []byte
	RelyingPartyID   string
	RelyingPartyName string
	UserID           []byte
	UserName         string
	UserDisplayName  string
	UserImageURI     string
	// ResidentKey asks the authenticator to store the credential itself,
	// making it discoverable without an allowed-credential list.
	ResidentKey bool
}

// CredentialCreator wraps a fully populated credential-creation request,
// ready to hand to Device.MakeCredential.
type CredentialCreator struct {
	raw engine.CredentialHandle
}

// NewCredentialCreator allocates an empty credential container and
// applies the creation data setter by setter, with the same
// short-circuit and no-leak semantics as NewAssertionCreator.
func (f *FIDO) NewCredentialCreator(data CredentialCreationData) (*CredentialCreator, error) {
	raw := f.engine.NewCredential()
	if err := populateCredential(raw, data); err != nil {
		raw.Free()
		return nil, err
	}

	return &CredentialCreator{raw: raw}, nil
}

func populateCredential(raw engine.CredentialHandle, data CredentialCreationData) error {
	if err := raw.SetType(data.Type); err != nil {
		return fmt.Errorf("set type: %w", err)
	}
	if err := raw.SetClientDataHash(data.ClientDataHash); err != nil {
		return fmt.Errorf("set client data hash: %w", err)
	}
	if err := raw.SetRelyingParty(data.RelyingPartyID, data.RelyingPartyName); err != nil {
		return fmt.Errorf("set relying party: %w", err)
	}
	if err := raw.SetUser(data.UserID, data.UserName, data.UserDisplayName, data.UserImageURI); err != nil {
		return fmt.Errorf("set user: %w", err)
	}
	if err := raw.SetResidentKey(data.ResidentKey); err != nil {
		return fmt.Errorf("set resident key: %w", err)
	}

	return nil
}

func (c *CredentialCreator) take() engine.CredentialHandle {
	if c.raw == nil {
		panic("fido: credential creator already consumed")
	}

	raw := c.raw
	c.raw = nil
	return raw
}

// Close releases a creator that was never handed to a device. Closing a
// consumed or already closed creator is a no-op.
func (c *CredentialCreator) Close() error {
	if c.raw != nil {
		c.raw.Free()
		c.raw = nil
	}
	return nil
}

// Credential is a device-created credential. Like Assertion, it is only
// ever constructed populated, by Device.MakeCredential.
type Credential struct {
	raw engine.CredentialHandle
}

func (c *Credential) handle() engine.CredentialHandle {
	if c.raw == nil {
		panic("fido: use of closed credential")
	}
	return c.raw
}

// ID returns the credential id assigned by the authenticator.
func (c *Credential) ID() []byte {
	return c.handle().ID()
}

// PublicKey returns the credential's public key with its algorithm tag,
// in the shape Assertion verification expects.
func (c *Credential) PublicKey() PublicKey {
	typ, k := c.handle().PublicKey()
	return PublicKey{Type: typ, Key: k}
}

// AuthData returns the authenticator data of the creation result,
// including the attested credential data block.
func (c *Credential) AuthData() []byte {
	return c.handle().AuthData()
}

// AttestationObject returns the CBOR-encoded attestation object.
func (c *Credential) AttestationObject() []byte {
	return c.handle().AttestationObject()
}

// Close releases the engine handle. Idempotent; always returns nil.
func (c *Credential) Close() error {
	if c.raw == nil {
		return nil
	}

	c.raw.Free()
	c.raw = nil

	return nil
}
