package model

// Performance is one staging of a play to an audience.  It refers to
// the play by ID only; resolution happens against a Plays table when a
// statement is built.
//
// Fields:
//  PlayID   – key into the Plays table.
//  Audience – number of seats sold; must not be negative.
type Performance struct {
	PlayID   string `json:"playID"`   // invoice_performances.play_id
	Audience int    `json:"audience"` // invoice_performances.audience
}
