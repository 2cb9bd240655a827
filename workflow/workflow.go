// Package workflow reads node-graph workflow documents into linkedit graphs.
//
// A document lists nodes with typed input and output slots and encodes each
// link as a positional array:
//
//	[id, originNodeID, originSlot, targetNodeID, targetSlot, type]
//
// Node ids may be JSON numbers or strings; both are kept as strings.
package workflow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/meikuraledutech/linkedit"
)

type document struct {
	Nodes []docNode         `json:"nodes"`
	Links []json.RawMessage `json:"links"`
}

type docNode struct {
	ID      json.RawMessage `json:"id"`
	Type    string          `json:"type"`
	Inputs  []docSlot       `json:"inputs"`
	Outputs []docSlot       `json:"outputs"`
}

type docSlot struct {
	Name string          `json:"name"`
	Type json.RawMessage `json:"type"`
}

// Parse decodes a workflow document into a graph with the given id.
// Links that reference unknown nodes or slots are rejected, as are repeated
// link ids and a second link into an input that is already fed.
func Parse(graphID string, data []byte) (*linkedit.Graph, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("workflow: decode: %w", err)
	}

	g := &linkedit.Graph{ID: graphID, Nodes: []linkedit.Node{}, Links: []linkedit.GraphLink{}}
	byID := make(map[string]int, len(doc.Nodes))
	for _, dn := range doc.Nodes {
		id, err := nodeID(dn.ID)
		if err != nil {
			return nil, err
		}
		if _, dup := byID[id]; dup {
			return nil, fmt.Errorf("workflow: duplicate node id %q", id)
		}
		n := linkedit.Node{
			ID:      id,
			Type:    dn.Type,
			Inputs:  ports(id, linkedit.SideInput, dn.Inputs),
			Outputs: ports(id, linkedit.SideOutput, dn.Outputs),
		}
		byID[id] = len(g.Nodes)
		g.Nodes = append(g.Nodes, n)
	}

	type input struct {
		node string
		slot int
	}
	seenIDs := make(map[int64]struct{}, len(doc.Links))
	fed := make(map[input]int64, len(doc.Links))
	for i, raw := range doc.Links {
		l, err := parseLink(raw)
		if err != nil {
			return nil, fmt.Errorf("workflow: link %d: %w", i, err)
		}
		src, ok := byID[l.SourceNodeID]
		if !ok {
			return nil, fmt.Errorf("workflow: link %d: unknown origin node %q", l.ID, l.SourceNodeID)
		}
		dst, ok := byID[l.TargetNodeID]
		if !ok {
			return nil, fmt.Errorf("workflow: link %d: unknown target node %q", l.ID, l.TargetNodeID)
		}
		if _, ok := g.Nodes[src].Port(linkedit.SideOutput, l.SourceSlot); !ok {
			return nil, fmt.Errorf("workflow: link %d: node %q has no output %d", l.ID, l.SourceNodeID, l.SourceSlot)
		}
		if _, ok := g.Nodes[dst].Port(linkedit.SideInput, l.TargetSlot); !ok {
			return nil, fmt.Errorf("workflow: link %d: node %q has no input %d", l.ID, l.TargetNodeID, l.TargetSlot)
		}
		if _, dup := seenIDs[l.ID]; dup {
			return nil, fmt.Errorf("workflow: duplicate link id %d", l.ID)
		}
		seenIDs[l.ID] = struct{}{}
		in := input{node: l.TargetNodeID, slot: l.TargetSlot}
		if prev, taken := fed[in]; taken {
			return nil, fmt.Errorf("workflow: link %d: input %d of node %q already fed by link %d",
				l.ID, l.TargetSlot, l.TargetNodeID, prev)
		}
		fed[in] = l.ID
		g.Links = append(g.Links, l)
	}
	return g, nil
}

func ports(nodeID string, side linkedit.Side, slots []docSlot) []linkedit.Port {
	out := make([]linkedit.Port, 0, len(slots))
	for i, s := range slots {
		out = append(out, linkedit.Port{
			NodeID: nodeID,
			Side:   side,
			Index:  i,
			Type:   slotType(s.Type),
			Name:   s.Name,
		})
	}
	return out
}

// slotType returns the declared type tag. Non-string tags are treated as wildcards.
func slotType(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return linkedit.Wildcard
	}
	return s
}

func nodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", fmt.Errorf("workflow: node without id")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("workflow: node id: %w", err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("workflow: node id: %w", err)
	}
	return n.String(), nil
}

func parseLink(raw json.RawMessage) (linkedit.GraphLink, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return linkedit.GraphLink{}, err
	}
	if len(fields) < 5 {
		return linkedit.GraphLink{}, fmt.Errorf("expected at least 5 fields, got %d", len(fields))
	}

	var l linkedit.GraphLink
	var err error
	if l.ID, err = strconv.ParseInt(string(bytes.TrimSpace(fields[0])), 10, 64); err != nil {
		return l, fmt.Errorf("id: %w", err)
	}
	if l.SourceNodeID, err = nodeID(fields[1]); err != nil {
		return l, err
	}
	if l.SourceSlot, err = strconv.Atoi(string(bytes.TrimSpace(fields[2]))); err != nil {
		return l, fmt.Errorf("origin slot: %w", err)
	}
	if l.TargetNodeID, err = nodeID(fields[3]); err != nil {
		return l, err
	}
	if l.TargetSlot, err = strconv.Atoi(string(bytes.TrimSpace(fields[4]))); err != nil {
		return l, fmt.Errorf("target slot: %w", err)
	}
	l.Type = linkedit.Wildcard
	if len(fields) > 5 {
		l.Type = slotType(fields[5])
	}
	return l, nil
}
