package fido

import (
	"github.com/go-fido/fido2/pkg/engine"

	"github.com/ldclabs/cose/key"
)

// stubStatement is one scripted device result inside a stubAssert.
type stubStatement struct {
	authData   []byte
	signature  []byte
	hmacSecret []byte
	userID     []byte
	verifyErr  error
}

// stubAssert records every setter call and counts releases, so lifecycle
// tests can check for leaks and double frees.
type stubAssert struct {
	rpID           string
	clientDataHash []byte
	allowed        [][]byte
	up, uv         bool
	optionsSet     bool
	salt           []byte

	setRPErr      error
	setHashErr    error
	allowErr      error
	setOptionsErr error
	setSaltErr    error

	statements  []stubStatement
	verifyCalls int
	frees       int
}

func (s *stubAssert) SetRelyingPartyID(id string) error {
	if s.setRPErr != nil {
		return s.setRPErr
	}
	s.rpID = id
	return nil
}

func (s *stubAssert) SetClientDataHash(hash []byte) error {
	if s.setHashErr != nil {
		return s.setHashErr
	}
	s.clientDataHash = hash
	return nil
}

func (s *stubAssert) AllowCredentialID(id []byte) error {
	if s.allowErr != nil {
		return s.allowErr
	}
	s.allowed = append(s.allowed, id)
	return nil
}

func (s *stubAssert) SetOptions(up, uv bool) error {
	if s.setOptionsErr != nil {
		return s.setOptionsErr
	}
	s.up, s.uv = up, uv
	s.optionsSet = true
	return nil
}

func (s *stubAssert) SetHMACSalt(salt []byte) error {
	if s.setSaltErr != nil {
		return s.setSaltErr
	}
	s.salt = salt
	return nil
}

func (s *stubAssert) Count() int { return len(s.statements) }
func (s *stubAssert) ClientDataHash() []byte { return s.clientDataHash }
func (s *stubAssert) AuthData(i int) []byte { return s.statements[i].authData }
func (s *stubAssert) Signature(i int) []byte { return s.statements[i].signature }

func (s *stubAssert) HMACSecret(i int) ([]byte, bool) {
	sec := s.statements[i].hmacSecret
	return sec, sec != nil
}

func (s *stubAssert) UserID(i int) ([]byte, bool) {
	id := s.statements[i].userID
	return id, id != nil
}

func (s *stubAssert) UserName(i int) (string, bool) { return "", false }
func (s *stubAssert) UserDisplayName(i int) (string, bool) { return "", false }
func (s *stubAssert) UserImageURI(i int) (string, bool) { return "", false }

func (s *stubAssert) Verify(i int, typ engine.CredentialType, publicKey key.Key) error {
	s.verifyCalls++
	return s.statements[i].verifyErr
}

func (s *stubAssert) Free() { s.frees++ }

type stubCredential struct {
	typ            engine.CredentialType
	clientDataHash []byte
	rpID, rpName   string
	userID         []byte
	resident       bool

	setTypeErr error

	id        []byte
	publicKey key.Key
	frees     int
}

func (c *stubCredential) SetType(typ engine.CredentialType) error {
	if c.setTypeErr != nil {
		return c.setTypeErr
	}
	c.typ = typ
	return nil
}

func (c *stubCredential) SetClientDataHash(hash []byte) error {
	c.clientDataHash = hash
	return nil
}

func (c *stubCredential) SetRelyingParty(id, name string) error {
	c.rpID, c.rpName = id, name
	return nil
}

func (c *stubCredential) SetUser(id []byte, name, displayName, imageURI string) error {
	c.userID = id
	return nil
}

func (c *stubCredential) SetResidentKey(required bool) error {
	c.resident = required
	return nil
}

func (c *stubCredential) ID() []byte { return c.id }

func (c *stubCredential) PublicKey() (engine.CredentialType, key.Key) {
	return c.typ, c.publicKey
}

func (c *stubCredential) AuthData() []byte { return nil }
func (c *stubCredential) AttestationObject() []byte { return nil }
func (c *stubCredential) Free() { c.frees++ }

// stubDevice records the order of Close and Free calls.
type stubDevice struct {
	fido2                         bool
	protocol, major, minor, build uint8
	flags                         byte
	closeErr                      error

	teardown []string
}

func (d *stubDevice) IsFIDO2() bool { return d.fido2 }
func (d *stubDevice) Protocol() uint8 { return d.protocol }
func (d *stubDevice) Major() uint8 { return d.major }
func (d *stubDevice) Minor() uint8 { return d.minor }
func (d *stubDevice) Build() uint8 { return d.build }
func (d *stubDevice) Flags() byte { return d.flags }

func (d *stubDevice) Close() error {
	d.teardown = append(d.teardown, "close")
	return d.closeErr
}

func (d *stubDevice) Free() {
	d.teardown = append(d.teardown, "free")
}

type stubEngine struct {
	assert *stubAssert
	cred   *stubCredential
	device *stubDevice

	populate     []stubStatement
	getAssertErr error
	makeCredErr  error
}

func newStubEngine() *stubEngine {
	return &stubEngine{
		assert: &stubAssert{},
		cred:   &stubCredential{},
		device: &stubDevice{fido2: true, protocol: 2, major: 1, minor: 1, build: 4, flags: 0x05},
	}
}

func (e *stubEngine) Devices(max int) ([]engine.DeviceInfo, error) {
	return []engine.DeviceInfo{{Path: "stub/0"}}, nil
}

func (e *stubEngine) Open(path string) (engine.DeviceHandle, error) {
	return e.device, nil
}

func (e *stubEngine) NewAssert() engine.AssertHandle { return e.assert }
func (e *stubEngine) NewCredential() engine.CredentialHandle { return e.cred }

func (e *stubEngine) GetAssert(dev engine.DeviceHandle, assert engine.AssertHandle, pin string) error {
	if e.getAssertErr != nil {
		return e.getAssertErr
	}
	assert.(*stubAssert).statements = e.populate
	return nil
}

func (e *stubEngine) MakeCredential(dev engine.DeviceHandle, cred engine.CredentialHandle, pin string) error {
	if e.makeCredErr != nil {
		return e.makeCredErr
	}
	cred.(*stubCredential).id = []byte{0x01}
	return nil
}
