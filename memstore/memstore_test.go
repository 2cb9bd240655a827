package memstore

import (
	"context"
	"testing"

	"github.com/meikuraledutech/linkedit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T) *MemStore {
	t.Helper()
	s := New()
	require.NoError(t, s.ImportGraph(context.Background(), &linkedit.Graph{
		ID: "g",
		Nodes: []linkedit.Node{
			{ID: "1", Outputs: []linkedit.Port{{NodeID: "1", Side: linkedit.SideOutput, Index: 0, Type: "IMAGE"}}},
			{ID: "2", Inputs: []linkedit.Port{
				{NodeID: "2", Side: linkedit.SideInput, Index: 0, Type: "IMAGE"},
				{NodeID: "2", Side: linkedit.SideInput, Index: 1, Type: "IMAGE"},
			}},
		},
		Links: []linkedit.GraphLink{
			{ID: 5, SourceNodeID: "1", SourceSlot: 0, TargetNodeID: "2", TargetSlot: 0, Type: "IMAGE"},
		},
	}))
	return s
}

func TestApplyDiff(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)

	res, err := s.ApplyDiff(ctx, "g", linkedit.Changes{
		ToRemove: []linkedit.LinkID{linkedit.PersistedID(5), linkedit.PersistedID(99)},
		ToAdd: []linkedit.ConnectionRequest{
			{SourceNodeID: "1", TargetNodeID: "2", SourceSlot: 0, TargetSlot: 1, Type: "IMAGE"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, res.Removed)
	require.Len(t, res.Added, 1)
	assert.EqualValues(t, 6, res.Added[0].ID)

	links, err := s.ListLinks(ctx, "g")
	require.NoError(t, err)
	assert.Equal(t, res.Added, links)
}

func TestApplyDiff_ReplacesStaleInput(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)

	// The session never saw link 5, yet the new link takes its input.
	res, err := s.ApplyDiff(ctx, "g", linkedit.Changes{
		ToAdd: []linkedit.ConnectionRequest{
			{SourceNodeID: "1", TargetNodeID: "2", SourceSlot: 0, TargetSlot: 0, Type: "IMAGE"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, res.Removed)

	links, err := s.ListLinks(ctx, "g")
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.EqualValues(t, 6, links[0].ID)
}

func TestApplyDiff_UnknownGraph(t *testing.T) {
	_, err := New().ApplyDiff(context.Background(), "nope", linkedit.Changes{})
	assert.ErrorIs(t, err, linkedit.ErrGraphNotFound)
}

func TestGetters(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)

	n, err := s.GetNode(ctx, "g", "2")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Len(t, n.Inputs, 2)

	n, err = s.GetNode(ctx, "g", "3")
	require.NoError(t, err)
	assert.Nil(t, n)

	g, err := s.GetGraph(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, g)

	links, err := s.ListLinks(ctx, "missing")
	require.NoError(t, err)
	assert.NotNil(t, links)
	assert.Empty(t, links)

	require.NoError(t, s.DropSchema(ctx))
	g, err = s.GetGraph(ctx, "g")
	require.NoError(t, err)
	assert.Nil(t, g)
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)
	src, _ := s.GetNode(ctx, "g", "1")
	dst, _ := s.GetNode(ctx, "g", "2")
	links, _ := s.ListLinks(ctx, "g")

	sess := linkedit.OpenSession(*src, *dst, links)
	from, _ := src.Port(linkedit.SideOutput, 0)
	to, _ := dst.Port(linkedit.SideInput, 1)
	sess, o := sess.BeginDrag(from).Drop(&to)
	require.True(t, o.OK())

	_, err := s.ApplyDiff(ctx, "g", sess.Commit())
	require.NoError(t, err)

	links, _ = s.ListLinks(ctx, "g")
	reopened := linkedit.OpenSession(*src, *dst, links)
	assert.Len(t, reopened.Snapshot(), 2)
	assert.True(t, reopened.Commit().Empty())
}

func TestApplyDiff_StaleRemovalAfterReplacement(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)

	res, err := s.ApplyDiff(ctx, "g", linkedit.Changes{
		ToRemove: []linkedit.LinkID{linkedit.PersistedID(5)},
		ToAdd: []linkedit.ConnectionRequest{
			{SourceNodeID: "1", TargetNodeID: "2", SourceSlot: 0, TargetSlot: 1, Type: "IMAGE"},
		},
	})
	require.NoError(t, err)
	require.Len(t, res.Added, 1)
	assert.NotEqualValues(t, 5, res.Added[0].ID)

	// A session seeded before that commit still removes link 5.
	res, err = s.ApplyDiff(ctx, "g", linkedit.Changes{ToRemove: []linkedit.LinkID{linkedit.PersistedID(5)}})
	require.NoError(t, err)
	assert.Empty(t, res.Removed)

	links, err := s.ListLinks(ctx, "g")
	require.NoError(t, err)
	assert.Len(t, links, 1)
}

func TestImportGraph_RejectsMalformedLinks(t *testing.T) {
	nodes := []linkedit.Node{{ID: "1"}, {ID: "2"}}
	tests := []struct {
		name  string
		links []linkedit.GraphLink
	}{
		{"duplicate id", []linkedit.GraphLink{
			{ID: 1, SourceNodeID: "1", TargetNodeID: "2", TargetSlot: 0},
			{ID: 1, SourceNodeID: "1", TargetNodeID: "2", TargetSlot: 1},
		}},
		{"input fed twice", []linkedit.GraphLink{
			{ID: 1, SourceNodeID: "1", TargetNodeID: "2", TargetSlot: 0},
			{ID: 2, SourceNodeID: "1", SourceSlot: 1, TargetNodeID: "2", TargetSlot: 0},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			err := s.ImportGraph(context.Background(), &linkedit.Graph{ID: "g", Nodes: nodes, Links: tt.links})
			assert.Error(t, err)

			g, err := s.GetGraph(context.Background(), "g")
			require.NoError(t, err)
			assert.Nil(t, g)
		})
	}
}
