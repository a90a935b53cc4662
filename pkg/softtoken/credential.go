package softtoken

import (
	"crypto/sha256"

	"github.com/go-fido/fido2/pkg/engine"

	"github.com/ldclabs/cose/key"
)

type credentialHandle struct {
	typ             engine.CredentialType
	clientDataHash  []byte
	rpID, rpName    string
	userID          []byte
	userName        string
	userDisplayName string
	userImageURI    string
	residentKey     bool

	id        []byte
	publicKey key.Key
	authData  []byte
	attObj    []byte
	freed     bool
}

func (c *credentialHandle) SetType(typ engine.CredentialType) error {
	switch typ {
	case engine.ES256, engine.EdDSA, engine.RS256:
		c.typ = typ
		return nil
	default:
		return engine.NewError("set type", engine.StatusUnsupportedAlgorithm)
	}
}

func (c *credentialHandle) SetClientDataHash(hash []byte) error {
	if len(hash) != sha256.Size {
		return engine.NewError("set client data hash", engine.StatusInvalidLength)
	}
	c.clientDataHash = hash
	return nil
}

func (c *credentialHandle) SetRelyingParty(id, name string) error {
	if id == "" {
		return engine.NewError("set relying party", engine.StatusInvalidArgument)
	}
	c.rpID = id
	c.rpName = name
	return nil
}

func (c *credentialHandle) SetUser(id []byte, name, displayName, imageURI string) error {
	if len(id) == 0 {
		return engine.NewError("set user", engine.StatusInvalidArgument)
	}
	c.userID = id
	c.userName = name
	c.userDisplayName = displayName
	c.userImageURI = imageURI
	return nil
}

func (c *credentialHandle) SetResidentKey(required bool) error {
	c.residentKey = required
	return nil
}

func (c *credentialHandle) ID() []byte {
	return c.id
}

func (c *credentialHandle) PublicKey() (engine.CredentialType, key.Key) {
	return c.typ, c.publicKey
}

func (c *credentialHandle) AuthData() []byte {
	return c.authData
}

func (c *credentialHandle) AttestationObject() []byte {
	return c.attObj
}

func (c *credentialHandle) Free() {
	c.freed = true
}
