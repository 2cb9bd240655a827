package linkedit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkID_Equality(t *testing.T) {
	assert.Equal(t, PersistedID(3), PersistedID(3))
	assert.NotEqual(t, PersistedID(3), DraftID("3"))
	assert.NotEqual(t, DraftID("a"), DraftID("b"))

	n, ok := PersistedID(3).Persisted()
	assert.True(t, ok)
	assert.EqualValues(t, 3, n)
	_, ok = DraftID("x").Persisted()
	assert.False(t, ok)
	tok, ok := DraftID("x").Token()
	assert.True(t, ok)
	assert.Equal(t, "x", tok)
}

func TestParseLinkID(t *testing.T) {
	id, err := ParseLinkID("42")
	require.NoError(t, err)
	assert.Equal(t, PersistedID(42), id)

	id, err = ParseLinkID("3f2c9a4e-0000-4000-8000-000000000000")
	require.NoError(t, err)
	assert.True(t, id.IsDraft())
	assert.Equal(t, "3f2c9a4e-0000-4000-8000-000000000000", id.String())

	_, err = ParseLinkID("")
	assert.Error(t, err)
}

func TestParseLinkID_ExplicitKind(t *testing.T) {
	id, err := ParseDraftID("42")
	require.NoError(t, err)
	assert.Equal(t, DraftID("42"), id)
	_, err = ParseDraftID("")
	assert.Error(t, err)

	id, err = ParsePersistedID("42")
	require.NoError(t, err)
	assert.Equal(t, PersistedID(42), id)
	_, err = ParsePersistedID("d1")
	assert.Error(t, err)
}

func TestLink_JSON(t *testing.T) {
	links := []Link{
		{ID: PersistedID(12), SourceSlot: 0, TargetSlot: 1, Type: "IMAGE", Origin: OriginPersisted},
		{ID: DraftID("d1"), SourceSlot: 2, TargetSlot: 3, Type: "*", Origin: OriginDraft},
	}
	data, err := json.Marshal(links)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id": 12, "source_slot": 0, "target_slot": 1, "type": "IMAGE", "origin": "persisted"},
		{"id": "d1", "source_slot": 2, "target_slot": 3, "type": "*", "origin": "draft"}
	]`, string(data))

	var back []Link
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, links, back)
}

func TestSide_JSON(t *testing.T) {
	var p Port
	require.NoError(t, json.Unmarshal([]byte(`{"node_id":"4","side":"input","index":2,"type":"MODEL"}`), &p))
	assert.Equal(t, SideInput, p.Side)
	assert.Equal(t, SideOutput, p.Side.Opposite())

	err := json.Unmarshal([]byte(`{"side":"sideways"}`), &p)
	assert.Error(t, err)
}
