package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/meikuraledutech/linkedit"
)

// ImportGraph saves a full graph (nodes + links) in one transaction,
// replacing whatever was stored under g.ID. Link ids are kept as given; the
// graph's id counter never moves backwards, so ids issued before a
// re-import are not reissued.
func (s *PGStore) ImportGraph(ctx context.Context, g *linkedit.Graph) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("linkedit: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, g.ID); err != nil {
		return fmt.Errorf("linkedit: lock graph: %w", err)
	}

	var maxID int64
	for _, l := range g.Links {
		maxID = max(maxID, l.ID)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO graphs (id, last_link_id) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET last_link_id = GREATEST(graphs.last_link_id, EXCLUDED.last_link_id)`,
		g.ID, maxID,
	); err != nil {
		return fmt.Errorf("linkedit: upsert graph: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM graph_links WHERE graph_id = $1`, g.ID); err != nil {
		return fmt.Errorf("linkedit: delete links: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM graph_nodes WHERE graph_id = $1`, g.ID); err != nil {
		return fmt.Errorf("linkedit: delete nodes: %w", err)
	}

	for _, n := range g.Nodes {
		inputs, err := json.Marshal(n.Inputs)
		if err != nil {
			return fmt.Errorf("linkedit: encode inputs of %s: %w", n.ID, err)
		}
		outputs, err := json.Marshal(n.Outputs)
		if err != nil {
			return fmt.Errorf("linkedit: encode outputs of %s: %w", n.ID, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO graph_nodes (graph_id, id, type, inputs, outputs) VALUES ($1, $2, $3, $4, $5)`,
			g.ID, n.ID, n.Type, inputs, outputs,
		); err != nil {
			return fmt.Errorf("linkedit: insert node %s: %w", n.ID, err)
		}
	}

	for _, l := range g.Links {
		if _, err := tx.Exec(ctx,
			`INSERT INTO graph_links (graph_id, id, source_node_id, source_slot, target_node_id, target_slot, type)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			g.ID, l.ID, l.SourceNodeID, l.SourceSlot, l.TargetNodeID, l.TargetSlot, l.Type,
		); err != nil {
			return fmt.Errorf("linkedit: insert link %d: %w", l.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("linkedit: commit: %w", err)
	}
	return nil
}

// GetGraph retrieves a full graph (nodes + links) by its ID.
// Returns nil, nil if no nodes exist for the graphID.
func (s *PGStore) GetGraph(ctx context.Context, graphID string) (*linkedit.Graph, error) {
	nodes, err := s.listNodes(ctx, graphID)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}
	links, err := s.ListLinks(ctx, graphID)
	if err != nil {
		return nil, err
	}
	return &linkedit.Graph{ID: graphID, Nodes: nodes, Links: links}, nil
}
