package linkedit

// DraftSet is the working set of links between one source node and one target
// node. It is a value: every mutating method returns a new set and leaves the
// receiver untouched, so older snapshots stay valid.
//
// At most one link targets any given slot. Source slots may fan out.
type DraftSet struct {
	links []Link
}

// Seed builds a set from already filtered persisted links. When the input
// holds more than one link on the same target slot, the last one wins.
func Seed(links []Link) DraftSet {
	var d DraftSet
	for _, l := range links {
		d = d.CommitGestureLink(l)
	}
	return d
}

// CommitGestureLink drops whatever link currently occupies l.TargetSlot and appends l.
func (d DraftSet) CommitGestureLink(l Link) DraftSet {
	next := make([]Link, 0, len(d.links)+1)
	for _, cur := range d.links {
		if cur.TargetSlot == l.TargetSlot {
			continue
		}
		next = append(next, cur)
	}
	return DraftSet{links: append(next, l)}
}

// Remove deletes the link with the given id, whatever its origin.
// The second result is false when no such link exists.
func (d DraftSet) Remove(id LinkID) (DraftSet, bool) {
	next := make([]Link, 0, len(d.links))
	found := false
	for _, cur := range d.links {
		if cur.ID == id {
			found = true
			continue
		}
		next = append(next, cur)
	}
	if !found {
		return d, false
	}
	return DraftSet{links: next}, true
}

// Lookup returns the link with the given id.
func (d DraftSet) Lookup(id LinkID) (Link, bool) {
	for _, l := range d.links {
		if l.ID == id {
			return l, true
		}
	}
	return Link{}, false
}

// OnTarget returns the link feeding the given target slot.
func (d DraftSet) OnTarget(slot int) (Link, bool) {
	for _, l := range d.links {
		if l.TargetSlot == slot {
			return l, true
		}
	}
	return Link{}, false
}

// Snapshot returns a copy of the links in insertion order.
func (d DraftSet) Snapshot() []Link {
	out := make([]Link, len(d.links))
	copy(out, d.links)
	return out
}

func (d DraftSet) Len() int { return len(d.links) }
