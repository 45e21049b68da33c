package model

import "encoding/json"

// ParseSeatSet normalizes the stored form of a seat collection into a
// slice of unique seat labels.  Historical writers persisted the
// booked_seats column in several shapes, so reads must tolerate all of:
//
//   - a JSON array of strings:            ["A1","A2"]
//   - a wrapped container:                {"set":["A1","A2"]}
//   - a JSON-encoded string of either:    "[\"A1\",\"A2\"]"
//
// Non-string elements are skipped and duplicates removed while preserving
// first-seen order.  Empty, missing or unparseable input yields an empty
// set, never an error; writers always use MarshalSeatSet so the tolerant
// path only matters for legacy rows.
func ParseSeatSet(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}
	if labels, ok := decodeSeatSet(raw); ok {
		return dedupeSeats(labels)
	}
	// The column may hold a JSON string whose content is itself JSON.
	var inner string
	if err := json.Unmarshal(raw, &inner); err == nil {
		if labels, ok := decodeSeatSet([]byte(inner)); ok {
			return dedupeSeats(labels)
		}
	}
	return []string{}
}

// MarshalSeatSet renders seat labels in the canonical stored form: a plain
// JSON array.  A nil slice is written as [] rather than null.
func MarshalSeatSet(labels []string) []byte {
	if labels == nil {
		labels = []string{}
	}
	b, err := json.Marshal(labels)
	if err != nil {
		return []byte("[]")
	}
	return b
}

// decodeSeatSet attempts the two structured forms: a bare array and the
// {"set": [...]} wrapper.
func decodeSeatSet(raw []byte) ([]string, bool) {
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		return stringElems(arr), true
	}
	var wrapped struct {
		Set []json.RawMessage `json:"set"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Set != nil {
		return stringElems(wrapped.Set), true
	}
	return nil, false
}

func stringElems(raw []json.RawMessage) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			out = append(out, s)
		}
	}
	return out
}

func dedupeSeats(labels []string) []string {
	out := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
