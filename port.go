package linkedit

import (
	"encoding/json"
	"fmt"
)

// Side tells whether a port produces (output) or consumes (input) a value.
type Side int

const (
	SideOutput Side = iota
	SideInput
)

func (s Side) String() string {
	switch s {
	case SideOutput:
		return "output"
	case SideInput:
		return "input"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideOutput {
		return SideInput
	}
	return SideOutput
}

// ParseSide accepts "output" or "input".
func ParseSide(s string) (Side, error) {
	switch s {
	case "output":
		return SideOutput, nil
	case "input":
		return SideInput, nil
	}
	return 0, fmt.Errorf("linkedit: unknown port side %q", s)
}

func (s Side) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Side) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	v, err := ParseSide(str)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Port is a typed, indexed connection point on a node.
// Name is carried for display only.
type Port struct {
	NodeID string `json:"node_id"`
	Side   Side   `json:"side"`
	Index  int    `json:"index"`
	Type   string `json:"type"`
	Name   string `json:"name"`
}

func (p Port) String() string {
	return fmt.Sprintf("%s/%s[%d]:%s", p.NodeID, p.Side, p.Index, p.Type)
}
