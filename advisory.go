package linkedit

// PortPair is an output of the source node and an input of the target node
// whose types CanConnect accepts.
type PortPair struct {
	Output Port `json:"output"`
	Input  Port `json:"input"`
}

// Advisory summarizes whether two nodes have anything to connect. It only
// informs the UI before a session opens; drops are still gated by CanConnect.
type Advisory struct {
	SourceNodeID string     `json:"source_node_id"`
	TargetNodeID string     `json:"target_node_id"`
	Compatible   bool       `json:"compatible"`
	Pairs        []PortPair `json:"pairs"`
}

// CheckNodeCompatibility lists every output/input pair between source and target.
func CheckNodeCompatibility(source, target Node) Advisory {
	a := Advisory{
		SourceNodeID: source.ID,
		TargetNodeID: target.ID,
		Pairs:        []PortPair{},
	}
	for _, out := range source.Outputs {
		for _, in := range target.Inputs {
			if CanConnect(out.Type, in.Type) {
				a.Pairs = append(a.Pairs, PortPair{Output: out, Input: in})
			}
		}
	}
	a.Compatible = len(a.Pairs) > 0
	return a
}
