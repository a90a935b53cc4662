package fido

import (
	"bytes"
	"testing"

	"github.com/go-fido/fido2/pkg/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHash = bytes.Repeat([]byte{0xaa}, 32)

func TestNewAssertionCreatorRoundTrip(t *testing.T) {
	eng := newStubEngine()
	f := New(eng)

	salt := bytes.Repeat([]byte{0x11}, 32)
	creator, err := f.NewAssertionCreator(AssertionCreationData{
		AllowedCredentialIDs: [][]byte{{0x01, 0x02}, {0x03, 0x04}},
		ClientDataHash:       testHash,
		RelyingPartyID:       "example.com",
		Options:              OptionUserPresence | OptionUserVerification,
		HMACSalt:             salt,
	})
	require.NoError(t, err)
	defer func() {
		_ = creator.Close()
	}()

	assert.Equal(t, "example.com", eng.assert.rpID)
	assert.Equal(t, testHash, eng.assert.clientDataHash)
	assert.Equal(t, [][]byte{{0x01, 0x02}, {0x03, 0x04}}, eng.assert.allowed)
	assert.True(t, eng.assert.up)
	assert.True(t, eng.assert.uv)
	assert.Equal(t, salt, eng.assert.salt)
}

func TestNewAssertionCreatorEmptyAllowList(t *testing.T) {
	eng := newStubEngine()
	f := New(eng)

	creator, err := f.NewAssertionCreator(AssertionDataWithDefaults(nil, testHash, "example.com"))
	require.NoError(t, err)
	defer func() {
		_ = creator.Close()
	}()

	// No restriction forwarded: the authenticator may discover resident keys.
	assert.Empty(t, eng.assert.allowed)
	// Options were still applied, with neither flag set.
	assert.True(t, eng.assert.optionsSet)
	assert.False(t, eng.assert.up)
	assert.False(t, eng.assert.uv)
}

func TestNewAssertionCreatorFailsAtStep(t *testing.T) {
	eng := newStubEngine()
	eng.assert.setHashErr = engine.NewError("set client data hash", engine.StatusInvalidLength)
	f := New(eng)

	creator, err := f.NewAssertionCreator(AssertionCreationData{
		AllowedCredentialIDs: [][]byte{{0x01}},
		ClientDataHash:       []byte{0x01},
		RelyingPartyID:       "example.com",
	})
	require.Error(t, err)
	assert.Nil(t, creator)

	status, ok := engine.StatusOf(err)
	require.True(t, ok)
	assert.Equal(t, engine.StatusInvalidLength, status)

	// The step before the failure ran, the ones after did not.
	assert.Equal(t, "example.com", eng.assert.rpID)
	assert.Empty(t, eng.assert.allowed)
	assert.False(t, eng.assert.optionsSet)

	// The half-built handle was released, exactly once.
	assert.Equal(t, 1, eng.assert.frees)
}

func TestAssertionCreatorCloseIsIdempotent(t *testing.T) {
	eng := newStubEngine()
	f := New(eng)

	creator, err := f.NewAssertionCreator(AssertionDataWithDefaults(nil, testHash, "example.com"))
	require.NoError(t, err)

	require.NoError(t, creator.Close())
	require.NoError(t, creator.Close())
	assert.Equal(t, 1, eng.assert.frees)
}

func TestAssertionCreatorConsumedTwicePanics(t *testing.T) {
	eng := newStubEngine()
	f := New(eng)

	creator, err := f.NewAssertionCreator(AssertionDataWithDefaults(nil, testHash, "example.com"))
	require.NoError(t, err)

	dev, err := f.Open("stub/0")
	require.NoError(t, err)

	a, err := dev.GetAssertion(creator, "")
	require.NoError(t, err)
	defer func() {
		_ = a.Close()
	}()

	assert.Panics(t, func() {
		_, _ = dev.GetAssertion(creator, "")
	})
}

func TestNewCredentialCreatorFailsAtStep(t *testing.T) {
	eng := newStubEngine()
	eng.cred.setTypeErr = engine.NewError("set type", engine.StatusUnsupportedAlgorithm)
	f := New(eng)

	creator, err := f.NewCredentialCreator(CredentialCreationData{
		Type:           engine.CredentialType(-42),
		ClientDataHash: testHash,
		RelyingPartyID: "example.com",
		UserID:         []byte{0x01},
	})
	require.Error(t, err)
	assert.Nil(t, creator)

	status, ok := engine.StatusOf(err)
	require.True(t, ok)
	assert.Equal(t, engine.StatusUnsupportedAlgorithm, status)
	assert.Equal(t, 1, eng.cred.frees)
}
