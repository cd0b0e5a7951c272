// Package model defines the uniform record unit flowing between the remote
// service, strategies, and archive storage.
package model

import (
	"encoding/json"
	"strconv"
)

// Record is one unit of repository metadata (an issue, a label, a release...).
// Data holds the full payload as fetched from the remote service or read back
// from an archive; the scalar fields are extracted once so orchestration code
// never has to re-parse the payload.
type Record struct {
	// ID is the remote service's opaque numeric identifier. Zero when unknown
	// (e.g. a record about to be created).
	ID int64 `json:"id"`

	// Number is the user-facing sequence number (issue number, PR number,
	// milestone number). Selective mode matches against Number. Zero for
	// kinds without one.
	Number int `json:"number,omitempty"`

	// Key is the natural key used for conflict detection on restore
	// (a label's name, a milestone's title). Empty when the kind has no
	// natural key other than Number.
	Key string `json:"key,omitempty"`

	// Parent links a nested record to its parent: the issue number for an
	// issue comment, the pull number for a review, the release ID for an
	// asset. Release IDs are full 64-bit remote identifiers. Zero for
	// top-level kinds.
	Parent int64 `json:"parent,omitempty"`

	// Data is the full record payload.
	Data json.RawMessage `json:"data"`
}

// NaturalKey returns the value conflict detection should use: Key when set,
// otherwise the formatted Number.
func (r Record) NaturalKey() string {
	if r.Key != "" {
		return r.Key
	}
	if r.Number == 0 {
		return ""
	}
	return strconv.Itoa(r.Number)
}
