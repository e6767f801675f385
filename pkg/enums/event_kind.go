package enums

import "fmt"

// EventKind is the canonical kind for inbound platform events routed through
// the tracker pipeline.
type EventKind string

const (
	EventMemberArrived  EventKind = "member_arrived"
	EventMemberDeparted EventKind = "member_departed"
	EventInspection     EventKind = "inspection"
)

var validEventKinds = []EventKind{
	EventMemberArrived,
	EventMemberDeparted,
	EventInspection,
}

// IsValid reports whether the value matches the canonical event kind enum.
func (e EventKind) IsValid() bool {
	for _, candidate := range validEventKinds {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEventKind converts the raw string to EventKind.
func ParseEventKind(value string) (EventKind, error) {
	for _, candidate := range validEventKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event kind %q", value)
}
