package linkedit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// LinkID identifies a link within a session. It is either the numeric id of a
// persisted link or a session-local token for a draft link. Two ids are equal
// only when both the kind and the value match.
type LinkID struct {
	draft bool
	num   int64
	token string
}

// PersistedID wraps the storage id of an existing link.
func PersistedID(id int64) LinkID {
	return LinkID{num: id}
}

// DraftID wraps a session-local token.
func DraftID(token string) LinkID {
	return LinkID{draft: true, token: token}
}

// IsDraft reports whether the id was minted in the session.
func (id LinkID) IsDraft() bool { return id.draft }

// Persisted returns the storage id, or false for draft ids.
func (id LinkID) Persisted() (int64, bool) {
	if id.draft {
		return 0, false
	}
	return id.num, true
}

// Token returns the session-local token, or false for persisted ids.
func (id LinkID) Token() (string, bool) {
	if !id.draft {
		return "", false
	}
	return id.token, true
}

func (id LinkID) String() string {
	if id.draft {
		return id.token
	}
	return strconv.FormatInt(id.num, 10)
}

// ParseLinkID reads an id as produced by String. Decimal integers are
// persisted ids; anything else is a draft token. Use ParseDraftID or
// ParsePersistedID when the kind is known.
func ParseLinkID(s string) (LinkID, error) {
	if s == "" {
		return LinkID{}, fmt.Errorf("linkedit: empty link id")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return PersistedID(n), nil
	}
	return DraftID(s), nil
}

// ParseDraftID reads s as a draft token, even if it looks like a number.
func ParseDraftID(s string) (LinkID, error) {
	if s == "" {
		return LinkID{}, fmt.Errorf("linkedit: empty link id")
	}
	return DraftID(s), nil
}

// ParsePersistedID reads s as a storage id.
func ParsePersistedID(s string) (LinkID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return LinkID{}, fmt.Errorf("linkedit: persisted link id %q: %w", s, err)
	}
	return PersistedID(n), nil
}

// MarshalJSON encodes persisted ids as numbers and draft ids as strings.
func (id LinkID) MarshalJSON() ([]byte, error) {
	if id.draft {
		return json.Marshal(id.token)
	}
	return json.Marshal(id.num)
}

func (id *LinkID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var tok string
		if err := json.Unmarshal(b, &tok); err != nil {
			return err
		}
		*id = DraftID(tok)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("linkedit: link id: %w", err)
	}
	*id = PersistedID(n)
	return nil
}

// Origin records where a link in the draft set came from.
type Origin int

const (
	// OriginPersisted links were seeded from storage.
	OriginPersisted Origin = iota
	// OriginDraft links were created by a gesture in this session.
	OriginDraft
)

func (o Origin) String() string {
	if o == OriginDraft {
		return "draft"
	}
	return "persisted"
}

func (o Origin) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *Origin) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "persisted":
		*o = OriginPersisted
	case "draft":
		*o = OriginDraft
	default:
		return fmt.Errorf("linkedit: unknown link origin %q", s)
	}
	return nil
}

// Link connects SourceSlot on the session's source node to TargetSlot on its target node.
type Link struct {
	ID         LinkID `json:"id"`
	SourceSlot int    `json:"source_slot"`
	TargetSlot int    `json:"target_slot"`
	Type       string `json:"type"`
	Origin     Origin `json:"origin"`
}
