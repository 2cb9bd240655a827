package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/meikuraledutech/linkedit"
)

// GetNode fetches a single node with its ports.
// Returns nil, nil if not found.
func (s *PGStore) GetNode(ctx context.Context, graphID, nodeID string) (*linkedit.Node, error) {
	row := s.db.QueryRow(ctx,
		`SELECT id, type, inputs, outputs FROM graph_nodes WHERE graph_id = $1 AND id = $2`,
		graphID, nodeID,
	)
	n, err := scanNode(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("linkedit: get node: %w", err)
	}
	return n, nil
}

// listNodes returns all nodes of a graph, ordered by created_at.
func (s *PGStore) listNodes(ctx context.Context, graphID string) ([]linkedit.Node, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, type, inputs, outputs FROM graph_nodes WHERE graph_id = $1 ORDER BY created_at, id`, graphID)
	if err != nil {
		return nil, fmt.Errorf("linkedit: list nodes: %w", err)
	}
	defer rows.Close()

	nodes := []linkedit.Node{}
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("linkedit: scan node: %w", err)
		}
		nodes = append(nodes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("linkedit: rows nodes: %w", err)
	}
	return nodes, nil
}

func scanNode(row pgx.Row) (*linkedit.Node, error) {
	var (
		n               linkedit.Node
		inputs, outputs []byte
	)
	if err := row.Scan(&n.ID, &n.Type, &inputs, &outputs); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(inputs, &n.Inputs); err != nil {
		return nil, fmt.Errorf("inputs of %s: %w", n.ID, err)
	}
	if err := json.Unmarshal(outputs, &n.Outputs); err != nil {
		return nil, fmt.Errorf("outputs of %s: %w", n.ID, err)
	}
	return &n, nil
}
