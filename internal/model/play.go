package model

// PlayType is the category of a play.  It selects the pricing rule
// used when a performance of the play is billed.  Only the four
// values below are supported.
type PlayType string

const (
	Tragedy  PlayType = "tragedy"
	Comedy   PlayType = "comedy"
	History  PlayType = "history"
	Pastoral PlayType = "pastoral"
)

// PlayTypes lists every supported play type in a stable order.
var PlayTypes = []PlayType{Tragedy, Comedy, History, Pastoral}

// Valid reports whether t is one of the supported play types.
func (t PlayType) Valid() bool {
	switch t {
	case Tragedy, Comedy, History, Pastoral:
		return true
	}
	return false
}

// Play describes a work that can be staged.  A play carries no
// identifier of its own; it is keyed externally by a play ID in a
// Plays lookup table.
//
// Fields:
//  Name – display name printed on statements.
//  Type – play type that determines pricing.
type Play struct {
	Name string   `json:"name"` // plays.name
	Type PlayType `json:"type"` // plays.type
}

// Plays maps a play ID to the play it identifies.
type Plays map[string]Play
