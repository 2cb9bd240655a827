package postgres

import "context"

// Link ids are scoped to their graph. graphs.last_link_id only grows, so an
// id is never handed out twice within a graph, even after its link is deleted.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS graphs (
    id           TEXT PRIMARY KEY,
    last_link_id BIGINT NOT NULL DEFAULT 0,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS graph_nodes (
    graph_id   TEXT NOT NULL,
    id         TEXT NOT NULL,
    type       TEXT NOT NULL DEFAULT '',
    inputs     JSONB NOT NULL DEFAULT '[]',
    outputs    JSONB NOT NULL DEFAULT '[]',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (graph_id, id),
    FOREIGN KEY (graph_id) REFERENCES graphs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS graph_links (
    graph_id       TEXT NOT NULL,
    id             BIGINT NOT NULL,
    source_node_id TEXT NOT NULL,
    source_slot    INTEGER NOT NULL,
    target_node_id TEXT NOT NULL,
    target_slot    INTEGER NOT NULL,
    type           TEXT NOT NULL DEFAULT '*',
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (graph_id, id),
    FOREIGN KEY (graph_id, source_node_id) REFERENCES graph_nodes(graph_id, id) ON DELETE CASCADE,
    FOREIGN KEY (graph_id, target_node_id) REFERENCES graph_nodes(graph_id, id) ON DELETE CASCADE
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_graph_links_input ON graph_links(graph_id, target_node_id, target_slot);
CREATE INDEX IF NOT EXISTS idx_graph_links_source ON graph_links(graph_id, source_node_id);
`

// CreateSchema creates the graphs, graph_nodes and graph_links tables if they don't exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops the graph_links, graph_nodes and graphs tables.
func (s *PGStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS graph_links, graph_nodes, graphs CASCADE;`)
	return err
}
