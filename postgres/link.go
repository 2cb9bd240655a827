package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/meikuraledutech/linkedit"
)

// ListLinks returns all links of a graph, ordered by created_at.
// Returns an empty slice (not nil) if none found.
func (s *PGStore) ListLinks(ctx context.Context, graphID string) ([]linkedit.GraphLink, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, source_node_id, source_slot, target_node_id, target_slot, type
		 FROM graph_links WHERE graph_id = $1 ORDER BY created_at, id`, graphID)
	if err != nil {
		return nil, fmt.Errorf("linkedit: list links: %w", err)
	}
	defer rows.Close()

	links := []linkedit.GraphLink{}
	for rows.Next() {
		var l linkedit.GraphLink
		if err := rows.Scan(&l.ID, &l.SourceNodeID, &l.SourceSlot, &l.TargetNodeID, &l.TargetSlot, &l.Type); err != nil {
			return nil, fmt.Errorf("linkedit: scan link: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("linkedit: rows links: %w", err)
	}
	return links, nil
}

// ApplyDiff removes and adds links in one transaction. The graph is locked
// for the duration; new ids come from graphs.last_link_id and are never reused.
// Removing an id that no longer exists is not an error.
func (s *PGStore) ApplyDiff(ctx context.Context, graphID string, c linkedit.Changes) (*linkedit.Applied, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("linkedit: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, graphID); err != nil {
		return nil, fmt.Errorf("linkedit: lock graph: %w", err)
	}

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM graphs WHERE id = $1)`, graphID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("linkedit: find graph: %w", err)
	}
	if !exists {
		return nil, linkedit.ErrGraphNotFound
	}

	res := &linkedit.Applied{Removed: []int64{}, Added: []linkedit.GraphLink{}}
	for _, id := range c.ToRemove {
		num, ok := id.Persisted()
		if !ok {
			continue
		}
		ct, err := tx.Exec(ctx, `DELETE FROM graph_links WHERE graph_id = $1 AND id = $2`, graphID, num)
		if err != nil {
			return nil, fmt.Errorf("linkedit: delete link %d: %w", num, err)
		}
		if ct.RowsAffected() > 0 {
			res.Removed = append(res.Removed, num)
		}
	}

	for _, req := range c.ToAdd {
		displaced, err := deleteInput(ctx, tx, graphID, req)
		if err != nil {
			return nil, err
		}
		res.Removed = append(res.Removed, displaced...)

		l := linkedit.GraphLink{
			SourceNodeID: req.SourceNodeID,
			SourceSlot:   req.SourceSlot,
			TargetNodeID: req.TargetNodeID,
			TargetSlot:   req.TargetSlot,
			Type:         req.Type,
		}
		if err := tx.QueryRow(ctx,
			`UPDATE graphs SET last_link_id = last_link_id + 1 WHERE id = $1 RETURNING last_link_id`, graphID,
		).Scan(&l.ID); err != nil {
			return nil, fmt.Errorf("linkedit: allocate link id: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO graph_links (graph_id, id, source_node_id, source_slot, target_node_id, target_slot, type)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			graphID, l.ID, l.SourceNodeID, l.SourceSlot, l.TargetNodeID, l.TargetSlot, l.Type,
		); err != nil {
			return nil, fmt.Errorf("linkedit: insert link %s[%d] -> %s[%d]: %w",
				l.SourceNodeID, l.SourceSlot, l.TargetNodeID, l.TargetSlot, err)
		}
		res.Added = append(res.Added, l)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("linkedit: commit: %w", err)
	}
	return res, nil
}

// deleteInput clears the input a new link is about to occupy.
func deleteInput(ctx context.Context, tx pgx.Tx, graphID string, req linkedit.ConnectionRequest) ([]int64, error) {
	rows, err := tx.Query(ctx,
		`DELETE FROM graph_links WHERE graph_id = $1 AND target_node_id = $2 AND target_slot = $3 RETURNING id`,
		graphID, req.TargetNodeID, req.TargetSlot,
	)
	if err != nil {
		return nil, fmt.Errorf("linkedit: clear input %s[%d]: %w", req.TargetNodeID, req.TargetSlot, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("linkedit: clear input %s[%d]: %w", req.TargetNodeID, req.TargetSlot, err)
	}
	return ids, nil
}
