// Package api exposes graphs and direct-connection editor sessions over HTTP.
package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/meikuraledutech/linkedit"
	"github.com/meikuraledutech/linkedit/workflow"
)

// Server holds the store and the open sessions.
type Server struct {
	store       linkedit.Store
	log         *slog.Logger
	sessions    *registry
	sessionOpts []linkedit.SessionOption
}

// Option configures a Server.
type Option func(*Server)

// WithSessionOptions passes opts to every session the server opens.
func WithSessionOptions(opts ...linkedit.SessionOption) Option {
	return func(s *Server) {
		s.sessionOpts = append(s.sessionOpts, opts...)
	}
}

// New creates a Server. A nil logger falls back to slog.Default.
func New(store linkedit.Store, log *slog.Logger, opts ...Option) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{store: store, log: log, sessions: newRegistry()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// App builds a fiber application with every route registered.
func (s *Server) App() *fiber.App {
	app := fiber.New()
	s.Register(app)
	return app
}

// Register mounts the routes on app.
func (s *Server) Register(app *fiber.App) {
	// ── Schema ────────────────────────────────────────────────────────
	app.Post("/schema", s.createSchema)
	app.Delete("/schema", s.dropSchema)

	// ── Graphs ────────────────────────────────────────────────────────
	app.Post("/graphs/:id/workflow", s.importWorkflow)
	app.Get("/graphs/:id", s.getGraph)
	app.Get("/graphs/:id/compatibility", s.compatibility)

	// ── Sessions ──────────────────────────────────────────────────────
	app.Post("/graphs/:id/sessions", s.openSession)
	app.Get("/sessions/:sid", s.getSession)
	app.Post("/sessions/:sid/drag", s.beginDrag)
	app.Post("/sessions/:sid/drop", s.drop)
	app.Delete("/sessions/:sid/links/:lid", s.removeLink)
	app.Get("/sessions/:sid/diff", s.previewDiff)
	app.Post("/sessions/:sid/commit", s.commit)
	app.Delete("/sessions/:sid", s.closeSession)
}

func errorJSON(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func (s *Server) createSchema(c fiber.Ctx) error {
	if err := s.store.CreateSchema(c.Context()); err != nil {
		s.log.Error("create schema", "error", err)
		return errorJSON(c, 500, err.Error())
	}
	return c.JSON(fiber.Map{"message": "schema created"})
}

func (s *Server) dropSchema(c fiber.Ctx) error {
	if err := s.store.DropSchema(c.Context()); err != nil {
		s.log.Error("drop schema", "error", err)
		return errorJSON(c, 500, err.Error())
	}
	return c.JSON(fiber.Map{"message": "schema dropped"})
}

func (s *Server) importWorkflow(c fiber.Ctx) error {
	g, err := workflow.Parse(c.Params("id"), c.Body())
	if err != nil {
		return errorJSON(c, 400, err.Error())
	}
	if err := s.store.ImportGraph(c.Context(), g); err != nil {
		s.log.Error("import graph", "graph_id", g.ID, "error", err)
		return errorJSON(c, 500, err.Error())
	}
	s.log.Info("graph imported", "graph_id", g.ID, "nodes", len(g.Nodes), "links", len(g.Links))
	return c.Status(201).JSON(g)
}

func (s *Server) getGraph(c fiber.Ctx) error {
	g, err := s.store.GetGraph(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, 500, err.Error())
	}
	if g == nil {
		return errorJSON(c, 404, "graph not found")
	}
	return c.JSON(g)
}

func (s *Server) compatibility(c fiber.Ctx) error {
	graphID := c.Params("id")
	source, target, err := s.nodePair(c, graphID, c.Query("source"), c.Query("target"))
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(linkedit.CheckNodeCompatibility(*source, *target))
}

// nodePair loads both session nodes, reporting ErrNodeNotFound if either is missing.
func (s *Server) nodePair(c fiber.Ctx, graphID, sourceID, targetID string) (*linkedit.Node, *linkedit.Node, error) {
	source, err := s.store.GetNode(c.Context(), graphID, sourceID)
	if err != nil {
		return nil, nil, err
	}
	target, err := s.store.GetNode(c.Context(), graphID, targetID)
	if err != nil {
		return nil, nil, err
	}
	if source == nil || target == nil {
		return nil, nil, linkedit.ErrNodeNotFound
	}
	return source, target, nil
}

func (s *Server) storeError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, linkedit.ErrNodeNotFound):
		return errorJSON(c, 404, "node not found")
	case errors.Is(err, linkedit.ErrGraphNotFound):
		return errorJSON(c, 404, "graph not found")
	case errors.Is(err, linkedit.ErrSessionNotFound):
		return errorJSON(c, 404, "session not found")
	case errors.Is(err, linkedit.ErrNoChanges):
		return errorJSON(c, 409, "nothing to commit")
	}
	s.log.Error("store failure", "path", c.Path(), "error", err)
	return errorJSON(c, 500, err.Error())
}
