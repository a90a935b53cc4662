package fido

import (
	"iter"

	"github.com/go-fido/fido2/pkg/engine"
)

// Assertion is a device-populated assertion container holding zero or
// more signed statements. It is only ever constructed by
// Device.GetAssertion, so every reachable Assertion is populated.
//
// The Assertion exclusively owns its engine handle. Close releases it
// exactly once; statements read after Close panic.
type Assertion struct {
	raw engine.AssertHandle
}

func (a *Assertion) handle() engine.AssertHandle {
	if a.raw == nil {
		panic("fido: use of closed assertion")
	}
	return a.raw
}

// Count returns the number of statements. It is read from the engine
// handle on every call, not cached, since it reflects device-reported
// truth.
func (a *Assertion) Count() int {
	return a.handle().Count()
}

// Statements iterates the statements in device-reported order. The
// sequence reads by index and may be ranged over any number of times.
func (a *Assertion) Statements() iter.Seq[*Statement] {
	return func(yield func(*Statement) bool) {
		for i := range a.Count() {
			if !yield(&Statement{assertion: a, index: i}) {
				return
			}
		}
	}
}

// VerifiedStatements pairs every statement with the outcome of verifying
// its signature against publicKey. All statements are evaluated; a
// failure on one never aborts its siblings.
func (a *Assertion) VerifiedStatements(publicKey PublicKey) iter.Seq2[*Statement, error] {
	return func(yield func(*Statement, error) bool) {
		for i := range a.Count() {
			err := a.handle().Verify(i, publicKey.Type, publicKey.Key)
			if !yield(&Statement{assertion: a, index: i}, err) {
				return
			}
		}
	}
}

// HasAnyVerified reports whether at least one statement verifies against
// publicKey. It stops at the first success.
func (a *Assertion) HasAnyVerified(publicKey PublicKey) bool {
	for i := range a.Count() {
		if a.handle().Verify(i, publicKey.Type, publicKey.Key) == nil {
			return true
		}
	}
	return false
}

// Close releases the engine handle. Idempotent; always returns nil.
func (a *Assertion) Close() error {
	if a.raw == nil {
		return nil
	}

	a.raw.Free()
	a.raw = nil

	return nil
}

// Statement is a read-only view of one signed result inside an
// Assertion. It holds no data of its own: every accessor reads through
// the parent handle, so a Statement is invalidated the moment its
// Assertion is closed and panics when used afterwards.
type Statement struct {
	assertion *Assertion
	index     int
}

// Index is the device-reported position of this statement.
func (s *Statement) Index() int {
	return s.index
}

// AuthData returns the authenticator data covered by the signature.
func (s *Statement) AuthData() []byte {
	return s.assertion.handle().AuthData(s.index)
}

// ClientDataHash returns the hash the request was bound to. It is shared
// by all statements of the same assertion.
func (s *Statement) ClientDataHash() []byte {
	return s.assertion.handle().ClientDataHash()
}

// Signature returns the raw signature bytes.
func (s *Statement) Signature() []byte {
	return s.assertion.handle().Signature(s.index)
}

// HMACSecret returns the hmac-secret extension output, if the request
// asked for one and the device produced it.
func (s *Statement) HMACSecret() ([]byte, bool) {
	return s.assertion.handle().HMACSecret(s.index)
}

func (s *Statement) UserID() ([]byte, bool) {
	return s.assertion.handle().UserID(s.index)
}

func (s *Statement) UserName() (string, bool) {
	return s.assertion.handle().UserName(s.index)
}

func (s *Statement) UserDisplayName() (string, bool) {
	return s.assertion.handle().UserDisplayName(s.index)
}

func (s *Statement) UserImageURI() (string, bool) {
	return s.assertion.handle().UserImageURI(s.index)
}

// Verify checks this statement's signature against publicKey. A mismatch
// is reported as an engine error with StatusInvalidSignature.
func (s *Statement) Verify(publicKey PublicKey) error {
	return s.assertion.handle().Verify(s.index, publicKey.Type, publicKey.Key)
}
