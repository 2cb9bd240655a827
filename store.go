package linkedit

import (
	"context"
	"errors"
)

var (
	ErrGraphNotFound   = errors.New("linkedit: graph not found")
	ErrNodeNotFound    = errors.New("linkedit: node not found")
	ErrSessionNotFound = errors.New("linkedit: session not found")
	ErrNoChanges       = errors.New("linkedit: nothing to commit")
)

// Applied reports what ApplyDiff did. Added holds the persisted links created
// for Changes.ToAdd, in the same order.
type Applied struct {
	Removed []int64     `json:"removed"`
	Added   []GraphLink `json:"added"`
}

// Store defines the contract for persisting graphs and applying editor changes.
type Store interface {
	// Schema
	CreateSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error

	// Graph (bulk operations)
	ImportGraph(ctx context.Context, g *Graph) error
	GetGraph(ctx context.Context, graphID string) (*Graph, error)

	// Nodes and links
	GetNode(ctx context.Context, graphID, nodeID string) (*Node, error)
	ListLinks(ctx context.Context, graphID string) ([]GraphLink, error)

	// ApplyDiff persists the changes of one committed session atomically.
	// Removals of ids that no longer exist are ignored. An addition replaces
	// any persisted link already feeding the same input.
	ApplyDiff(ctx context.Context, graphID string, c Changes) (*Applied, error)
}
