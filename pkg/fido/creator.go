package fido

import (
	"fmt"

	"github.com/go-fido/fido2/pkg/engine"
)

// AssertionCreationData is the parameter bundle used once to populate an
// assertion request. It holds only references to caller data and asserts
// nothing about their lifetime beyond the NewAssertionCreator call.
type AssertionCreationData struct {
	// AllowedCredentialIDs restricts the request to the listed
	// credentials, in order. Leave it empty to let the authenticator
	// discover any resident key for the relying party.
	AllowedCredentialIDs [][]byte
	ClientDataHash       []byte
	RelyingPartyID       string
	Options              AssertionOptions
	// HMACSalt, when set, requests the hmac-secret extension output for
	// every returned statement.
	HMACSalt []byte
}

// AssertionDataWithDefaults builds an AssertionCreationData with empty
// option flags; see AssertionOptions for what forwarding no flags means.
func AssertionDataWithDefaults(allowedCredentialIDs [][]byte, clientDataHash []byte, relyingPartyID string) AssertionCreationData {
	return AssertionCreationData{
		AllowedCredentialIDs: allowedCredentialIDs,
		ClientDataHash:       clientDataHash,
		RelyingPartyID:       relyingPartyID,
	}
}

// AssertionCreator wraps a fully populated assertion request, ready to
// hand to Device.GetAssertion. It is the only way to reach a populated
// Assertion, so statement readers are never callable on a request that
// has not been through a device.
type AssertionCreator struct {
	raw engine.AssertHandle
}

// NewAssertionCreator allocates an empty assertion container and applies
// the creation data setter by setter: relying-party id, client-data
// hash, each allowed credential id in order, option flags, then the
// optional HMAC salt. The first failing setter aborts construction, the
// half-built handle is released, and the engine error is returned
// wrapped with the failing step.
func (f *FIDO) NewAssertionCreator(data AssertionCreationData) (*AssertionCreator, error) {
	raw := f.engine.NewAssert()
	if err := populateAssert(raw, data); err != nil {
		raw.Free()
		return nil, err
	}

	return &AssertionCreator{raw: raw}, nil
}

func populateAssert(raw engine.AssertHandle, data AssertionCreationData) error {
	if err := raw.SetRelyingPartyID(data.RelyingPartyID); err != nil {
		return fmt.Errorf("set relying party id: %w", err)
	}
	if err := raw.SetClientDataHash(data.ClientDataHash); err != nil {
		return fmt.Errorf("set client data hash: %w", err)
	}
	for _, id := range data.AllowedCredentialIDs {
		if err := raw.AllowCredentialID(id); err != nil {
			return fmt.Errorf("allow credential id: %w", err)
		}
	}
	if err := raw.SetOptions(
		data.Options.Has(OptionUserPresence),
		data.Options.Has(OptionUserVerification),
	); err != nil {
		return fmt.Errorf("set options: %w", err)
	}
	if data.HMACSalt != nil {
		if err := raw.SetHMACSalt(data.HMACSalt); err != nil {
			return fmt.Errorf("set hmac salt: %w", err)
		}
	}

	return nil
}

// take transfers ownership of the underlying handle to the caller.
// Consuming a creator twice is a programming error.
func (c *AssertionCreator) take() engine.AssertHandle {
	if c.raw == nil {
		panic("fido: assertion creator already consumed")
	}

	raw := c.raw
	c.raw = nil
	return raw
}

// Close releases a creator that was never handed to a device. Closing a
// consumed or already closed creator is a no-op.
func (c *AssertionCreator) Close() error {
	if c.raw != nil {
		c.raw.Free()
		c.raw = nil
	}
	return nil
}
