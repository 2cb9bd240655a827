// Package memstore keeps graphs in process memory. It implements
// linkedit.Store with the same semantics as the postgres package.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/meikuraledutech/linkedit"
)

// MemStore implements linkedit.Store. It is safe for concurrent use.
type MemStore struct {
	mu     sync.Mutex
	graphs map[string]*linkedit.Graph
	nextID int64
}

// New creates an empty store.
func New() *MemStore {
	return &MemStore{graphs: make(map[string]*linkedit.Graph)}
}

func (s *MemStore) CreateSchema(ctx context.Context) error { return nil }

// DropSchema forgets every graph.
func (s *MemStore) DropSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graphs = make(map[string]*linkedit.Graph)
	return nil
}

// ImportGraph replaces the graph with g.ID. Link ids are kept as given.
// Repeated link ids and inputs fed twice are rejected, as the postgres
// constraints do.
func (s *MemStore) ImportGraph(ctx context.Context, g *linkedit.Graph) error {
	type input struct {
		node string
		slot int
	}
	ids := make(map[int64]struct{}, len(g.Links))
	fed := make(map[input]struct{}, len(g.Links))
	for _, l := range g.Links {
		if _, dup := ids[l.ID]; dup {
			return fmt.Errorf("linkedit: insert link %d: duplicate id", l.ID)
		}
		ids[l.ID] = struct{}{}
		in := input{node: l.TargetNodeID, slot: l.TargetSlot}
		if _, dup := fed[in]; dup {
			return fmt.Errorf("linkedit: insert link %d: input %d of node %q already fed", l.ID, l.TargetSlot, l.TargetNodeID)
		}
		fed[in] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cp := cloneGraph(g)
	for _, l := range cp.Links {
		if l.ID > s.nextID {
			s.nextID = l.ID
		}
	}
	s.graphs[g.ID] = cp
	return nil
}

// GetGraph returns nil, nil if the graph does not exist.
func (s *MemStore) GetGraph(ctx context.Context, graphID string) (*linkedit.Graph, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.graphs[graphID]
	if !ok {
		return nil, nil
	}
	return cloneGraph(g), nil
}

// GetNode returns nil, nil if the graph or node does not exist.
func (s *MemStore) GetNode(ctx context.Context, graphID, nodeID string) (*linkedit.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.graphs[graphID]
	if !ok {
		return nil, nil
	}
	for _, n := range g.Nodes {
		if n.ID == nodeID {
			cp := cloneNode(n)
			return &cp, nil
		}
	}
	return nil, nil
}

// ListLinks returns an empty slice (not nil) if none found.
func (s *MemStore) ListLinks(ctx context.Context, graphID string) ([]linkedit.GraphLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []linkedit.GraphLink{}
	if g, ok := s.graphs[graphID]; ok {
		out = append(out, g.Links...)
	}
	return out, nil
}

// ApplyDiff returns ErrGraphNotFound for unknown graphs.
func (s *MemStore) ApplyDiff(ctx context.Context, graphID string, c linkedit.Changes) (*linkedit.Applied, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.graphs[graphID]
	if !ok {
		return nil, linkedit.ErrGraphNotFound
	}

	res := &linkedit.Applied{Removed: []int64{}, Added: []linkedit.GraphLink{}}
	links := append([]linkedit.GraphLink(nil), g.Links...)
	for _, id := range c.ToRemove {
		num, ok := id.Persisted()
		if !ok {
			continue
		}
		before := len(links)
		links = without(links, func(l linkedit.GraphLink) bool { return l.ID == num })
		if len(links) < before {
			res.Removed = append(res.Removed, num)
		}
	}

	for _, req := range c.ToAdd {
		links = without(links, func(l linkedit.GraphLink) bool {
			if l.TargetNodeID == req.TargetNodeID && l.TargetSlot == req.TargetSlot {
				res.Removed = append(res.Removed, l.ID)
				return true
			}
			return false
		})
		s.nextID++
		l := linkedit.GraphLink{
			ID:           s.nextID,
			SourceNodeID: req.SourceNodeID,
			SourceSlot:   req.SourceSlot,
			TargetNodeID: req.TargetNodeID,
			TargetSlot:   req.TargetSlot,
			Type:         req.Type,
		}
		links = append(links, l)
		res.Added = append(res.Added, l)
	}

	g.Links = links
	return res, nil
}

func without(links []linkedit.GraphLink, drop func(linkedit.GraphLink) bool) []linkedit.GraphLink {
	out := links[:0]
	for _, l := range links {
		if !drop(l) {
			out = append(out, l)
		}
	}
	return out
}

func cloneGraph(g *linkedit.Graph) *linkedit.Graph {
	cp := &linkedit.Graph{
		ID:    g.ID,
		Nodes: make([]linkedit.Node, 0, len(g.Nodes)),
		Links: append([]linkedit.GraphLink{}, g.Links...),
	}
	for _, n := range g.Nodes {
		cp.Nodes = append(cp.Nodes, cloneNode(n))
	}
	return cp
}

func cloneNode(n linkedit.Node) linkedit.Node {
	n.Inputs = append([]linkedit.Port{}, n.Inputs...)
	n.Outputs = append([]linkedit.Port{}, n.Outputs...)
	return n
}
