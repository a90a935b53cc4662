package fido

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportInfo(t *testing.T) {
	eng := newStubEngine()
	eng.device.flags = byte(CapabilityWink | CapabilityCBOR)
	f := New(eng)

	dev, err := f.Open("stub/0")
	require.NoError(t, err)
	defer func() {
		_ = dev.Close()
	}()

	assert.True(t, dev.IsFIDO2())

	info := dev.TransportInfo()
	assert.Equal(t, uint8(2), info.Protocol)
	assert.Equal(t, uint8(1), info.Major)
	assert.Equal(t, uint8(1), info.Minor)
	assert.Equal(t, uint8(4), info.Build)
	assert.True(t, info.Capabilities.Has(CapabilityWink))
	assert.True(t, info.Capabilities.Has(CapabilityCBOR))
	assert.False(t, info.Capabilities.Has(CapabilityNMSG))
}

func TestTransportInfoUnknownCapabilityBitPanics(t *testing.T) {
	eng := newStubEngine()
	eng.device.flags = 0x10
	f := New(eng)

	dev, err := f.Open("stub/0")
	require.NoError(t, err)
	defer func() {
		_ = dev.Close()
	}()

	assert.Panics(t, func() { dev.TransportInfo() })
}

func TestDeviceCloseThenFree(t *testing.T) {
	eng := newStubEngine()
	f := New(eng)

	dev, err := f.Open("stub/0")
	require.NoError(t, err)

	require.NoError(t, dev.Close())
	assert.Equal(t, []string{"close", "free"}, eng.device.teardown)
}

func TestDeviceCloseSwallowsCloseError(t *testing.T) {
	eng := newStubEngine()
	eng.device.closeErr = errors.New("transport gone")
	f := New(eng)

	dev, err := f.Open("stub/0")
	require.NoError(t, err)

	// The close error is observed but never surfaces; release proceeds.
	require.NoError(t, dev.Close())
	assert.Equal(t, []string{"close", "free"}, eng.device.teardown)
}

func TestDeviceDoubleCloseReleasesOnce(t *testing.T) {
	eng := newStubEngine()
	f := New(eng)

	dev, err := f.Open("stub/0")
	require.NoError(t, err)

	require.NoError(t, dev.Close())
	require.NoError(t, dev.Close())
	assert.Equal(t, []string{"close", "free"}, eng.device.teardown)
}

func TestDeviceUseAfterClosePanics(t *testing.T) {
	eng := newStubEngine()
	f := New(eng)

	dev, err := f.Open("stub/0")
	require.NoError(t, err)
	require.NoError(t, dev.Close())

	assert.Panics(t, func() { dev.IsFIDO2() })
	assert.Panics(t, func() { dev.TransportInfo() })
}
