package linkedit

// ConnectionRequest asks the persistence layer to create one link.
type ConnectionRequest struct {
	SourceNodeID string `json:"source_node_id"`
	TargetNodeID string `json:"target_node_id"`
	SourceSlot   int    `json:"source_slot"`
	TargetSlot   int    `json:"target_slot"`
	Type         string `json:"type"`
}

// Changes is the instruction list that turns the original links into the draft.
type Changes struct {
	ToAdd    []ConnectionRequest `json:"to_add"`
	ToRemove []LinkID            `json:"to_remove"`
}

// Empty reports whether applying the changes would do nothing.
func (c Changes) Empty() bool {
	return len(c.ToAdd) == 0 && len(c.ToRemove) == 0
}

// Diff compares original and draft by link identity. Every original id
// missing from draft is removed, every draft-origin link is added. Links
// present on both sides produce nothing, even if a removed persisted link
// was recreated on the same slots: its id differs, so it is one removal and
// one addition.
func Diff(original, draft []Link, sourceNodeID, targetNodeID string) Changes {
	kept := make(map[LinkID]struct{}, len(draft))
	for _, l := range draft {
		kept[l.ID] = struct{}{}
	}

	c := Changes{ToAdd: []ConnectionRequest{}, ToRemove: []LinkID{}}
	seen := make(map[LinkID]struct{}, len(original))
	for _, l := range original {
		if _, ok := seen[l.ID]; ok {
			continue
		}
		seen[l.ID] = struct{}{}
		if _, ok := kept[l.ID]; !ok {
			c.ToRemove = append(c.ToRemove, l.ID)
		}
	}
	for _, l := range draft {
		if l.Origin != OriginDraft {
			continue
		}
		c.ToAdd = append(c.ToAdd, ConnectionRequest{
			SourceNodeID: sourceNodeID,
			TargetNodeID: targetNodeID,
			SourceSlot:   l.SourceSlot,
			TargetSlot:   l.TargetSlot,
			Type:         l.Type,
		})
	}
	return c
}
