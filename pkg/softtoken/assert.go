package softtoken

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/sha256"
	"slices"

	"github.com/go-fido/fido2/pkg/engine"

	"github.com/ldclabs/cose/key"
	coseecdsa "github.com/ldclabs/cose/key/ecdsa"
	coseed25519 "github.com/ldclabs/cose/key/ed25519"
)

type assertResult struct {
	authData        []byte
	signature       []byte
	hmacSecret      []byte
	userID          []byte
	userName        string
	userDisplayName string
	userImageURI    string
	hasUserEntity   bool
}

type assertHandle struct {
	rpID           string
	clientDataHash []byte
	allowList      [][]byte
	up, uv         bool
	hmacSalt       []byte

	results []assertResult
	freed   bool
}

func (a *assertHandle) SetRelyingPartyID(id string) error {
	if id == "" {
		return engine.NewError("set relying party id", engine.StatusInvalidArgument)
	}
	a.rpID = id
	return nil
}

func (a *assertHandle) SetClientDataHash(hash []byte) error {
	if len(hash) != sha256.Size {
		return engine.NewError("set client data hash", engine.StatusInvalidLength)
	}
	a.clientDataHash = hash
	return nil
}

func (a *assertHandle) AllowCredentialID(id []byte) error {
	if len(id) == 0 {
		return engine.NewError("allow credential id", engine.StatusInvalidArgument)
	}
	a.allowList = append(a.allowList, id)
	return nil
}

func (a *assertHandle) SetOptions(userPresence, userVerification bool) error {
	a.up = userPresence
	a.uv = userVerification
	return nil
}

func (a *assertHandle) SetHMACSalt(salt []byte) error {
	if len(salt) != 32 && len(salt) != 64 {
		return engine.NewError("set hmac salt", engine.StatusInvalidLength)
	}
	a.hmacSalt = salt
	return nil
}

func (a *assertHandle) Count() int {
	return len(a.results)
}

func (a *assertHandle) ClientDataHash() []byte {
	return a.clientDataHash
}

func (a *assertHandle) AuthData(i int) []byte {
	return a.results[i].authData
}

func (a *assertHandle) Signature(i int) []byte {
	return a.results[i].signature
}

func (a *assertHandle) HMACSecret(i int) ([]byte, bool) {
	r := a.results[i]
	return r.hmacSecret, r.hmacSecret != nil
}

func (a *assertHandle) UserID(i int) ([]byte, bool) {
	r := a.results[i]
	return r.userID, r.userID != nil
}

func (a *assertHandle) UserName(i int) (string, bool) {
	r := a.results[i]
	return r.userName, r.hasUserEntity
}

func (a *assertHandle) UserDisplayName(i int) (string, bool) {
	r := a.results[i]
	return r.userDisplayName, r.hasUserEntity
}

func (a *assertHandle) UserImageURI(i int) (string, bool) {
	r := a.results[i]
	return r.userImageURI, r.hasUserEntity
}

func (a *assertHandle) Verify(i int, typ engine.CredentialType, publicKey key.Key) error {
	const op = "verify assertion"

	if i < 0 || i >= len(a.results) {
		return engine.NewError(op, engine.StatusInvalidArgument)
	}
	r := a.results[i]
	signed := slices.Concat(r.authData, a.clientDataHash)

	switch typ {
	case engine.ES256:
		pub, err := coseecdsa.KeyToPublic(publicKey)
		if err != nil {
			return engine.NewError(op, engine.StatusInvalidArgument)
		}
		digest := sha256.Sum256(signed)
		if !ecdsa.VerifyASN1(pub, digest[:], r.signature) {
			return engine.NewError(op, engine.StatusInvalidSignature)
		}
		return nil
	case engine.EdDSA:
		pub, err := coseed25519.KeyToPublic(publicKey)
		if err != nil {
			return engine.NewError(op, engine.StatusInvalidArgument)
		}
		if !ed25519.Verify(pub, signed, r.signature) {
			return engine.NewError(op, engine.StatusInvalidSignature)
		}
		return nil
	default:
		return engine.NewError(op, engine.StatusUnsupportedAlgorithm)
	}
}

func (a *assertHandle) Free() {
	a.results = nil
	a.freed = true
}
