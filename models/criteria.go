package models

// RawMatchCriteria is the unvalidated filter input as collected by the client
// (checkbox sets, a rate text field, an optional free-text need statement).
type RawMatchCriteria struct {
	SessionFormat string   `json:"sessionFormat,omitempty"`
	MaxRate       string   `json:"maxRate,omitempty"`
	Specialties   []string `json:"specialties,omitempty"`
	Languages     []string `json:"languages,omitempty"`
	Need          string   `json:"need,omitempty"`
}

// MatchCriteria is the canonical, validated form of a match request.
// Specialty and language sets are lower-cased, deduplicated and sorted; an
// empty set imposes no constraint. A nil MaxRate means no ceiling.
type MatchCriteria struct {
	SessionFormat string   `json:"sessionFormat,omitempty"`
	MaxRate       *float64 `json:"maxRate,omitempty"`
	Specialties   []string `json:"specialties,omitempty"`
	Languages     []string `json:"languages,omitempty"`
	Need          string   `json:"need,omitempty"`
}

// HasNeed reports whether the request carries a free-text need statement,
// which is what gates explanation enrichment.
func (c MatchCriteria) HasNeed() bool {
	return c.Need != ""
}
