package models

import "strings"

// Payload is the attacker-controlled label sequence of one DNS query,
// i.e. every label preceding the primary domain. It is immutable once
// constructed and may be shared by several windows at the same time.
type Payload struct {
	// Labels holds the ordered dot-separated components. Each label is a
	// non-empty byte sequence of at most 63 bytes; labels never contain
	// the separator byte because they are produced by splitting on it.
	Labels []string

	// EncodedLen is the total encoded length of the label portion:
	// the sum of all label lengths plus one separator between each pair.
	EncodedLen int
}

// Key returns the canonical string form of the payload, used as an exact
// multiset key. Joining with the separator is bijective since labels
// cannot contain it.
func (p *Payload) Key() string {
	return strings.Join(p.Labels, ".")
}

// LogRecord is one validated query as produced by the preprocessing stage.
// Records are created once and never mutated.
type LogRecord struct {
	ID        uint32
	PrimID    uint32
	Timestamp float64
	Payload   *Payload
}

// PrimaryDomainStats describes one primary domain observed during
// preprocessing. Count is used to pre-size per-domain buffers during
// extraction.
type PrimaryDomainStats struct {
	ID     uint32
	Length uint8
	Count  uint32
}
