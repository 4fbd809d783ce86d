package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectionManager_BindToken(t *testing.T) {
	cm := NewConnectionManager()
	cm.AddConnection("conn-1", nil)

	displaced := cm.BindToken("conn-1", "token-a")
	assert.Empty(t, displaced)
	assert.Equal(t, "token-a", cm.TokenFor("conn-1"))
}

func TestConnectionManager_ReconnectDisplacesOldConnection(t *testing.T) {
	cm := NewConnectionManager()
	cm.AddConnection("conn-old", nil)
	cm.AddConnection("conn-new", nil)

	cm.BindToken("conn-old", "token-a")
	displaced := cm.BindToken("conn-new", "token-a")

	assert.Equal(t, "conn-old", displaced)
	assert.Equal(t, "token-a", cm.TokenFor("conn-new"))
}

func TestConnectionManager_RebindSameConnection(t *testing.T) {
	cm := NewConnectionManager()
	cm.AddConnection("conn-1", nil)

	cm.BindToken("conn-1", "token-a")
	displaced := cm.BindToken("conn-1", "token-a")
	assert.Empty(t, displaced)
}

func TestConnectionManager_RemoveConnectionReleasesToken(t *testing.T) {
	cm := NewConnectionManager()
	cm.AddConnection("conn-1", nil)
	cm.BindToken("conn-1", "token-a")

	cm.RemoveConnection("conn-1")

	assert.Empty(t, cm.TokenFor("conn-1"))
	assert.Nil(t, cm.ConnectionByToken("token-a"))
}

func TestConnectionManager_RemoveDisplacedConnectionKeepsNewBinding(t *testing.T) {
	cm := NewConnectionManager()
	cm.AddConnection("conn-old", nil)
	cm.AddConnection("conn-new", nil)

	cm.BindToken("conn-old", "token-a")
	cm.BindToken("conn-new", "token-a")

	// Closing the displaced socket must not tear down the new binding.
	cm.RemoveConnection("conn-old")

	assert.Equal(t, "token-a", cm.TokenFor("conn-new"))
}

func TestConnectionManager_UnknownLookups(t *testing.T) {
	cm := NewConnectionManager()

	assert.Empty(t, cm.TokenFor("nope"))
	assert.Nil(t, cm.Connection("nope"))
	assert.Nil(t, cm.ConnectionByToken("nope"))
}
