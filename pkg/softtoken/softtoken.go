// Package softtoken is an in-process software authenticator implementing
// the engine contract from pkg/engine. It keeps credentials in memory,
// signs assertions with ES256 or Ed25519 and supports the hmac-secret
// extension, which makes it usable both as a virtual token and as the
// engine behind tests and examples that must not depend on hardware.
package softtoken

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/go-fido/fido2/pkg/engine"
	"github.com/go-fido/fido2/pkg/options"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/ldclabs/cose/key"
	coseecdsa "github.com/ldclabs/cose/key/ecdsa"
	coseed25519 "github.com/ldclabs/cose/key/ed25519"
	"github.com/samber/lo"
	"golang.org/x/crypto/hkdf"
)

// DevicePath is the single path the softtoken reports from Devices.
const DevicePath = "softtoken/0"

const (
	flagUserPresent       = 0x01
	flagUserVerified      = 0x04
	flagAttestedIncluded  = 0x40
	flagExtensionIncluded = 0x80
)

type storedCredential struct {
	id              []byte
	typ             engine.CredentialType
	rpID            string
	userID          []byte
	userName        string
	userDisplayName string
	userImageURI    string
	resident        bool
	signer          crypto.Signer
	publicKey       key.Key
	signCount       uint32
}

// Engine is a software authenticator. The zero value is not usable; use
// New. One Engine backs exactly one virtual device.
type Engine struct {
	logger  *slog.Logger
	encMode cbor.EncMode
	aaguid  uuid.UUID
	master  []byte
	pin     string

	mu    sync.Mutex
	creds []*storedCredential
}

func New(opts ...options.Option) *Engine {
	oo := options.NewOptions(opts...)

	master := make([]byte, 32)
	if _, err := rand.Read(master); err != nil {
		panic("softtoken: cannot read entropy: " + err.Error())
	}

	return &Engine{
		logger:  oo.Logger,
		encMode: oo.EncMode,
		aaguid:  uuid.New(),
		master:  master,
	}
}

// SetPIN configures the token PIN. An empty PIN means none is required.
func (e *Engine) SetPIN(pin string) {
	e.pin = pin
}

func (e *Engine) Devices(max int) ([]engine.DeviceInfo, error) {
	if max < 1 {
		return nil, nil
	}

	return []engine.DeviceInfo{{
		Path:         DevicePath,
		Manufacturer: "go-fido",
		Product:      "softtoken",
	}}, nil
}

func (e *Engine) Open(path string) (engine.DeviceHandle, error) {
	if path != DevicePath {
		return nil, engine.NewError("open "+path, engine.StatusNotFound)
	}

	return &deviceHandle{eng: e}, nil
}

func (e *Engine) NewAssert() engine.AssertHandle {
	return &assertHandle{}
}

func (e *Engine) NewCredential() engine.CredentialHandle {
	return &credentialHandle{}
}

// checkDevice validates that dev is an open handle of this engine.
func (e *Engine) checkDevice(op string, dev engine.DeviceHandle) error {
	d, ok := dev.(*deviceHandle)
	if !ok || d.eng != e {
		return engine.NewError(op, engine.StatusInvalidArgument)
	}
	if d.closed {
		return engine.NewError(op, engine.StatusTxFailure)
	}
	return nil
}

func (e *Engine) checkPIN(op, pin string) error {
	if pin == "" {
		return nil
	}
	if e.pin == "" {
		return engine.NewError(op, engine.StatusPINNotSet)
	}
	if pin != e.pin {
		return engine.NewError(op, engine.StatusPINInvalid)
	}
	return nil
}

// MakeCredential mints a keypair for the populated request and stores
// the credential in the token.
func (e *Engine) MakeCredential(dev engine.DeviceHandle, cred engine.CredentialHandle, pin string) error {
	const op = "make credential"

	if err := e.checkDevice(op, dev); err != nil {
		return err
	}
	ch, ok := cred.(*credentialHandle)
	if !ok {
		return engine.NewError(op, engine.StatusInvalidArgument)
	}
	if ch.typ == 0 || ch.clientDataHash == nil || ch.rpID == "" || ch.userID == nil {
		return engine.NewError(op, engine.StatusMissingParameter)
	}
	if err := e.checkPIN(op, pin); err != nil {
		return err
	}

	var (
		signer  crypto.Signer
		coseKey key.Key
		err     error
	)
	switch ch.typ {
	case engine.ES256:
		var priv *ecdsa.PrivateKey
		priv, err = ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			return engine.NewError(op, engine.StatusInternal)
		}
		signer = priv
		coseKey, err = coseecdsa.KeyFromPublic(&priv.PublicKey)
	case engine.EdDSA:
		var priv ed25519.PrivateKey
		_, priv, err = ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return engine.NewError(op, engine.StatusInternal)
		}
		signer = priv
		coseKey, err = coseed25519.KeyFromPublic(priv.Public().(ed25519.PublicKey))
	default:
		return engine.NewError(op, engine.StatusUnsupportedAlgorithm)
	}
	if err != nil {
		return engine.NewError(op, engine.StatusInternal)
	}

	id := make([]byte, 32)
	if _, err := rand.Read(id); err != nil {
		return engine.NewError(op, engine.StatusInternal)
	}

	authData, err := e.makeCredentialAuthData(ch.rpID, id, coseKey)
	if err != nil {
		return engine.NewError(op, engine.StatusInvalidCBOR)
	}

	attObj, err := e.encMode.Marshal(&attestationObject{
		Fmt:      "none",
		AttStmt:  map[string]any{},
		AuthData: authData,
	})
	if err != nil {
		return engine.NewError(op, engine.StatusInvalidCBOR)
	}

	sc := &storedCredential{
		id:              id,
		typ:             ch.typ,
		rpID:            ch.rpID,
		userID:          ch.userID,
		userName:        ch.userName,
		userDisplayName: ch.userDisplayName,
		userImageURI:    ch.userImageURI,
		resident:        ch.residentKey,
		signer:          signer,
		publicKey:       coseKey,
	}

	e.mu.Lock()
	e.creds = append(e.creds, sc)
	e.mu.Unlock()

	ch.id = id
	ch.publicKey = coseKey
	ch.authData = authData
	ch.attObj = attObj

	e.logger.Debug("credential created", "rp", ch.rpID, "type", ch.typ.String(), "resident", ch.residentKey)

	return nil
}

type attestationObject struct {
	Fmt      string         `cbor:"fmt"`
	AttStmt  map[string]any `cbor:"attStmt"`
	AuthData []byte         `cbor:"authData"`
}

func (e *Engine) makeCredentialAuthData(rpID string, credID []byte, coseKey key.Key) ([]byte, error) {
	keyBytes, err := e.encMode.Marshal(coseKey)
	if err != nil {
		return nil, err
	}

	rpIDHash := sha256.Sum256([]byte(rpID))

	buf := make([]byte, 0, len(rpIDHash)+5+16+2+len(credID)+len(keyBytes))
	buf = append(buf, rpIDHash[:]...)
	buf = append(buf, flagUserPresent|flagAttestedIncluded)
	buf = binary.BigEndian.AppendUint32(buf, 0)
	buf = append(buf, e.aaguid[:]...)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(credID)))
	buf = append(buf, credID...)
	buf = append(buf, keyBytes...)

	return buf, nil
}

// GetAssert produces one signed statement per matching credential, in
// allow-list order for bound requests and in enrollment order for
// resident-key discovery.
func (e *Engine) GetAssert(dev engine.DeviceHandle, assert engine.AssertHandle, pin string) error {
	const op = "get assertion"

	if err := e.checkDevice(op, dev); err != nil {
		return err
	}
	a, ok := assert.(*assertHandle)
	if !ok {
		return engine.NewError(op, engine.StatusInvalidArgument)
	}
	if a.rpID == "" || a.clientDataHash == nil {
		return engine.NewError(op, engine.StatusMissingParameter)
	}
	if a.uv && e.pin == "" {
		return engine.NewError(op, engine.StatusPINNotSet)
	}
	if err := e.checkPIN(op, pin); err != nil {
		return err
	}
	if a.uv && pin == "" {
		return engine.NewError(op, engine.StatusUVInvalid)
	}

	e.mu.Lock()
	var candidates []*storedCredential
	if len(a.allowList) > 0 {
		for _, allowed := range a.allowList {
			for _, sc := range e.creds {
				if sc.rpID == a.rpID && slices.Equal(sc.id, allowed) {
					candidates = append(candidates, sc)
				}
			}
		}
	} else {
		candidates = lo.Filter(e.creds, func(sc *storedCredential, _ int) bool {
			return sc.resident && sc.rpID == a.rpID
		})
	}
	e.mu.Unlock()

	if len(candidates) == 0 {
		return engine.NewError(op, engine.StatusNoCredentials)
	}

	discovered := len(a.allowList) == 0
	results := make([]assertResult, 0, len(candidates))
	for _, sc := range candidates {
		res, err := e.sign(op, a, sc, discovered)
		if err != nil {
			return err
		}
		results = append(results, res)
	}
	a.results = results

	e.logger.Debug("assertion produced", "rp", a.rpID, "statements", len(results))

	return nil
}

func (e *Engine) sign(op string, a *assertHandle, sc *storedCredential, discovered bool) (assertResult, error) {
	sc.signCount++

	var flags byte
	if a.up {
		flags |= flagUserPresent
	}
	if a.uv {
		flags |= flagUserVerified
	}

	var (
		extBlock   []byte
		hmacSecret []byte
	)
	if a.hmacSalt != nil {
		hmacSecret = e.hmacSecret(sc, a.hmacSalt)

		var err error
		extBlock, err = e.encMode.Marshal(map[string][]byte{"hmac-secret": hmacSecret})
		if err != nil {
			return assertResult{}, engine.NewError(op, engine.StatusInvalidCBOR)
		}
		flags |= flagExtensionIncluded
	}

	rpIDHash := sha256.Sum256([]byte(a.rpID))
	authData := make([]byte, 0, len(rpIDHash)+5+len(extBlock))
	authData = append(authData, rpIDHash[:]...)
	authData = append(authData, flags)
	authData = binary.BigEndian.AppendUint32(authData, sc.signCount)
	authData = append(authData, extBlock...)

	signed := slices.Concat(authData, a.clientDataHash)

	var (
		sig []byte
		err error
	)
	switch sc.typ {
	case engine.ES256:
		digest := sha256.Sum256(signed)
		sig, err = ecdsa.SignASN1(rand.Reader, sc.signer.(*ecdsa.PrivateKey), digest[:])
		if err != nil {
			return assertResult{}, engine.NewError(op, engine.StatusInternal)
		}
	case engine.EdDSA:
		sig = ed25519.Sign(sc.signer.(ed25519.PrivateKey), signed)
	default:
		return assertResult{}, engine.NewError(op, engine.StatusUnsupportedAlgorithm)
	}

	res := assertResult{
		authData:   authData,
		signature:  sig,
		hmacSecret: hmacSecret,
		userID:     sc.userID,
	}
	if discovered {
		res.userName = sc.userName
		res.userDisplayName = sc.userDisplayName
		res.userImageURI = sc.userImageURI
		res.hasUserEntity = true
	}

	return res, nil
}

// hmacSecret implements the hmac-secret extension output: one 32-byte
// HMAC per 32-byte salt block, keyed by a per-credential secret derived
// from the token master secret.
func (e *Engine) hmacSecret(sc *storedCredential, salt []byte) []byte {
	credRandom := make([]byte, 32)
	r := hkdf.New(sha256.New, e.master, nil, sc.id)
	if _, err := io.ReadFull(r, credRandom); err != nil {
		panic("softtoken: hkdf: " + err.Error())
	}

	out := make([]byte, 0, len(salt))
	for block := range slices.Chunk(salt, 32) {
		mac := hmac.New(sha256.New, credRandom)
		mac.Write(block)
		out = mac.Sum(out)
	}

	return out
}
