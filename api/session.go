package api

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"github.com/meikuraledutech/linkedit"
)

type openRequest struct {
	SourceNodeID string `json:"source_node_id"`
	TargetNodeID string `json:"target_node_id"`
}

// portRequest names a port by side and index; the node follows from the side.
// Both fields are absent when a drop lands away from any port.
type portRequest struct {
	Side  *linkedit.Side `json:"side"`
	Index *int           `json:"index"`
}

type sessionView struct {
	ID         string          `json:"id"`
	GraphID    string          `json:"graph_id"`
	Source     linkedit.Node   `json:"source"`
	Target     linkedit.Node   `json:"target"`
	Phase      string          `json:"phase"`
	DragOrigin *linkedit.Port  `json:"drag_origin,omitempty"`
	Links      []linkedit.Link `json:"links"`
}

type outcomeView struct {
	Outcome string         `json:"outcome"`
	Reason  string         `json:"reason,omitempty"`
	Link    *linkedit.Link `json:"link,omitempty"`
	Session sessionView    `json:"session"`
}

func view(id string, e entry) sessionView {
	v := sessionView{
		ID:      id,
		GraphID: e.graphID,
		Source:  e.session.Source(),
		Target:  e.session.Target(),
		Phase:   e.session.Gesture().Phase().String(),
		Links:   e.session.Snapshot(),
	}
	if p, ok := e.session.Gesture().Origin(); ok {
		v.DragOrigin = &p
	}
	return v
}

func (r portRequest) empty() bool { return r.Side == nil || r.Index == nil }

// port maps a request onto the session: outputs belong to the source node,
// inputs to the target node. For an index the node does not declare, it
// returns a bare port and false.
func (r portRequest) port(sess linkedit.Session) (linkedit.Port, bool) {
	node := nodeFor(sess, *r.Side)
	if p, ok := node.Port(*r.Side, *r.Index); ok {
		return p, true
	}
	return linkedit.Port{NodeID: node.ID, Side: *r.Side, Index: *r.Index}, false
}

func (s *Server) openSession(c fiber.Ctx) error {
	var req openRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorJSON(c, 400, "invalid body")
	}
	graphID := c.Params("id")
	source, target, err := s.nodePair(c, graphID, req.SourceNodeID, req.TargetNodeID)
	if err != nil {
		return s.storeError(c, err)
	}
	links, err := s.store.ListLinks(c.Context(), graphID)
	if err != nil {
		return s.storeError(c, err)
	}

	sess := linkedit.OpenSession(*source, *target, links, s.sessionOpts...)
	e := entry{graphID: graphID, session: sess}
	id := s.sessions.open(graphID, sess)
	s.log.Info("session opened",
		"session_id", id, "graph_id", graphID,
		"source", source.ID, "target", target.ID, "links", len(sess.Snapshot()))
	return c.Status(201).JSON(view(id, e))
}

func (s *Server) getSession(c fiber.Ctx) error {
	id := c.Params("sid")
	e, ok := s.sessions.get(id)
	if !ok {
		return s.storeError(c, linkedit.ErrSessionNotFound)
	}
	return c.JSON(view(id, e))
}

func (s *Server) beginDrag(c fiber.Ctx) error {
	var req portRequest
	if err := c.Bind().JSON(&req); err != nil || req.empty() {
		return errorJSON(c, 400, "invalid body")
	}
	id := c.Params("sid")
	unknown := false
	e, ok := s.sessions.update(id, func(sess linkedit.Session) linkedit.Session {
		p, declared := req.port(sess)
		if !declared {
			unknown = true
			return sess
		}
		return sess.BeginDrag(p)
	})
	if !ok {
		return s.storeError(c, linkedit.ErrSessionNotFound)
	}
	if unknown {
		return errorJSON(c, 400, "unknown port")
	}
	return c.JSON(view(id, e))
}

func (s *Server) drop(c fiber.Ctx) error {
	var req portRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return errorJSON(c, 400, "invalid body")
		}
	}
	id := c.Params("sid")
	var out linkedit.Outcome
	e, ok := s.sessions.update(id, func(sess linkedit.Session) linkedit.Session {
		var hit *linkedit.Port
		if !req.empty() {
			p, _ := req.port(sess)
			hit = &p
		}
		sess, out = sess.Drop(hit)
		return sess
	})
	if !ok {
		return s.storeError(c, linkedit.ErrSessionNotFound)
	}

	res := outcomeView{Session: view(id, e)}
	if out.OK() {
		res.Outcome = "committed"
		res.Link = &out.Link
	} else {
		res.Outcome = "cancelled"
		res.Reason = out.Reason.String()
	}
	s.log.Debug("drop", "session_id", id, "outcome", res.Outcome, "reason", res.Reason)
	return c.JSON(res)
}

// parseLinkID honours ?kind=draft|persisted; without it the id kind is guessed.
func parseLinkID(raw, kind string) (linkedit.LinkID, error) {
	switch kind {
	case "":
		return linkedit.ParseLinkID(raw)
	case "draft":
		return linkedit.ParseDraftID(raw)
	case "persisted":
		return linkedit.ParsePersistedID(raw)
	}
	return linkedit.LinkID{}, fmt.Errorf("unknown link kind %q", kind)
}

func (s *Server) removeLink(c fiber.Ctx) error {
	lid, err := parseLinkID(c.Params("lid"), c.Query("kind"))
	if err != nil {
		return errorJSON(c, 400, err.Error())
	}
	id := c.Params("sid")
	removed := false
	e, ok := s.sessions.update(id, func(sess linkedit.Session) linkedit.Session {
		sess, removed = sess.RemoveLink(lid)
		return sess
	})
	if !ok {
		return s.storeError(c, linkedit.ErrSessionNotFound)
	}
	if !removed {
		return errorJSON(c, 404, "link not found")
	}
	return c.JSON(view(id, e))
}

func (s *Server) previewDiff(c fiber.Ctx) error {
	e, ok := s.sessions.get(c.Params("sid"))
	if !ok {
		return s.storeError(c, linkedit.ErrSessionNotFound)
	}
	return c.JSON(e.session.Commit())
}

// commit takes the session out of the registry while the store applies the
// changes and puts it back if that fails, so the user can retry.
func (s *Server) commit(c fiber.Ctx) error {
	id := c.Params("sid")
	e, ok := s.sessions.take(id)
	if !ok {
		return s.storeError(c, linkedit.ErrSessionNotFound)
	}
	changes := e.session.Commit()
	if changes.Empty() {
		s.sessions.restore(id, e)
		return s.storeError(c, linkedit.ErrNoChanges)
	}

	applied, err := s.store.ApplyDiff(c.Context(), e.graphID, changes)
	if err != nil {
		s.sessions.restore(id, e)
		return s.storeError(c, err)
	}
	s.log.Info("session committed",
		"session_id", id, "graph_id", e.graphID,
		"added", len(applied.Added), "removed", len(applied.Removed))
	return c.JSON(fiber.Map{"changes": changes, "applied": applied})
}

func (s *Server) closeSession(c fiber.Ctx) error {
	id := c.Params("sid")
	if _, ok := s.sessions.take(id); !ok {
		return s.storeError(c, linkedit.ErrSessionNotFound)
	}
	s.log.Info("session discarded", "session_id", id)
	return c.SendStatus(204)
}

func nodeFor(sess linkedit.Session, side linkedit.Side) linkedit.Node {
	if side == linkedit.SideOutput {
		return sess.Source()
	}
	return sess.Target()
}
