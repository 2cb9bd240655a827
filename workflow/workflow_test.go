package workflow

import (
	"testing"

	"github.com/meikuraledutech/linkedit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
  "last_node_id": 9,
  "last_link_id": 9,
  "nodes": [
    {"id": 4, "type": "CheckpointLoaderSimple",
     "outputs": [{"name": "MODEL", "type": "MODEL", "links": [1]}, {"name": "CLIP", "type": "CLIP", "links": [3, 5]}, {"name": "VAE", "type": "VAE", "links": [8]}]},
    {"id": "6", "type": "CLIPTextEncode",
     "inputs": [{"name": "clip", "type": "CLIP", "link": 3}],
     "outputs": [{"name": "CONDITIONING", "type": "CONDITIONING", "links": [4]}]},
    {"id": 3, "type": "KSampler",
     "inputs": [{"name": "model", "type": "MODEL", "link": 1}, {"name": "positive", "type": "CONDITIONING", "link": 4}, {"name": "extra", "type": 0}],
     "outputs": []}
  ],
  "links": [
    [1, 4, 0, 3, 0, "MODEL"],
    [3, 4, 1, "6", 0, "CLIP"],
    [4, 6, 0, 3, 1, "CONDITIONING"]
  ]
}`

func TestParse(t *testing.T) {
	g, err := Parse("wf", []byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "wf", g.ID)
	require.Len(t, g.Nodes, 3)
	assert.Equal(t, "4", g.Nodes[0].ID)
	assert.Equal(t, "6", g.Nodes[1].ID)

	sampler := g.Nodes[2]
	assert.Equal(t, "KSampler", sampler.Type)
	assert.Equal(t, linkedit.Port{NodeID: "3", Side: linkedit.SideInput, Index: 1, Type: "CONDITIONING", Name: "positive"}, sampler.Inputs[1])
	assert.Equal(t, linkedit.Wildcard, sampler.Inputs[2].Type)
	assert.Empty(t, sampler.Outputs)

	assert.Equal(t, []linkedit.GraphLink{
		{ID: 1, SourceNodeID: "4", SourceSlot: 0, TargetNodeID: "3", TargetSlot: 0, Type: "MODEL"},
		{ID: 3, SourceNodeID: "4", SourceSlot: 1, TargetNodeID: "6", TargetSlot: 0, Type: "CLIP"},
		{ID: 4, SourceNodeID: "6", SourceSlot: 0, TargetNodeID: "3", TargetSlot: 1, Type: "CONDITIONING"},
	}, g.Links)
}

func TestParse_FeedsSession(t *testing.T) {
	g, err := Parse("wf", []byte(sample))
	require.NoError(t, err)

	s := linkedit.OpenSession(g.Nodes[0], g.Nodes[2], g.Links)
	require.Len(t, s.Snapshot(), 1)
	assert.Equal(t, linkedit.PersistedID(1), s.Snapshot()[0].ID)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"missing node id", `{"nodes":[{"type":"A"}]}`},
		{"duplicate node", `{"nodes":[{"id":1},{"id":"1"}]}`},
		{"short link", `{"nodes":[{"id":1}],"links":[[1,1,0]]}`},
		{"unknown origin", `{"nodes":[{"id":1,"inputs":[{"name":"a","type":"A"}]}],"links":[[1,2,0,1,0,"A"]]}`},
		{"unknown target", `{"nodes":[{"id":1,"outputs":[{"name":"a","type":"A"}]}],"links":[[1,1,0,2,0,"A"]]}`},
		{"missing output slot", `{"nodes":[{"id":1},{"id":2,"inputs":[{"name":"a","type":"A"}]}],"links":[[1,1,0,2,0,"A"]]}`},
		{"missing input slot", `{"nodes":[{"id":1,"outputs":[{"name":"a","type":"A"}]},{"id":2}],"links":[[1,1,0,2,0,"A"]]}`},
		{"bad link id", `{"nodes":[{"id":1}],"links":[["x",1,0,1,0,"A"]]}`},
		{"duplicate link id", `{"nodes":[{"id":4,"outputs":[{"name":"a","type":"A"},{"name":"b","type":"A"}]},{"id":3,"inputs":[{"name":"a","type":"A"},{"name":"b","type":"A"}]}],"links":[[1,4,0,3,0,"A"],[1,4,1,3,1,"A"]]}`},
		{"input fed twice", `{"nodes":[{"id":4,"outputs":[{"name":"a","type":"A"},{"name":"b","type":"A"}]},{"id":3,"inputs":[{"name":"a","type":"A"}]}],"links":[[1,4,0,3,0,"A"],[2,4,1,3,0,"A"]]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("wf", []byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestParse_FanOutAllowed(t *testing.T) {
	doc := `{"nodes":[{"id":4,"outputs":[{"name":"a","type":"A"}]},{"id":3,"inputs":[{"name":"a","type":"A"},{"name":"b","type":"A"}]}],
	         "links":[[1,4,0,3,0,"A"],[2,4,0,3,1,"A"]]}`
	g, err := Parse("wf", []byte(doc))
	require.NoError(t, err)
	assert.Len(t, g.Links, 2)
}
