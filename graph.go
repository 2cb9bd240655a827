package linkedit

// Graph is a persisted node graph: its nodes with their ports and every link between them.
type Graph struct {
	ID    string      `json:"id"`
	Nodes []Node      `json:"nodes"`
	Links []GraphLink `json:"links"`
}

// Node is a vertex of the graph. Inputs and Outputs are ordered by port index.
type Node struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Inputs  []Port `json:"inputs"`
	Outputs []Port `json:"outputs"`
}

// Port returns the port of the given side and index, if the node has one.
func (n Node) Port(side Side, index int) (Port, bool) {
	ports := n.Outputs
	if side == SideInput {
		ports = n.Inputs
	}
	for _, p := range ports {
		if p.Index == index {
			return p, true
		}
	}
	return Port{}, false
}

// GraphLink is a persisted link of the full graph, with both endpoint nodes spelled out.
type GraphLink struct {
	ID           int64  `json:"id"`
	SourceNodeID string `json:"source_node_id"`
	SourceSlot   int    `json:"source_slot"`
	TargetNodeID string `json:"target_node_id"`
	TargetSlot   int    `json:"target_slot"`
	Type         string `json:"type"`
}

// FilterPair keeps only the links running from source to target and
// converts them into session links with OriginPersisted.
func FilterPair(links []GraphLink, source, target string) []Link {
	out := []Link{}
	for _, gl := range links {
		if gl.SourceNodeID != source || gl.TargetNodeID != target {
			continue
		}
		out = append(out, Link{
			ID:         PersistedID(gl.ID),
			SourceSlot: gl.SourceSlot,
			TargetSlot: gl.TargetSlot,
			Type:       gl.Type,
			Origin:     OriginPersisted,
		})
	}
	return out
}
