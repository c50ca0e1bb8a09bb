// Package queue defines message payloads exchanged over the message broker.
package queue

// StatementIssuedEvent is published after a statement has been computed
// and returned to a caller.  It carries the totals only; consumers that
// need the lines recompute the statement from the invoice.
type StatementIssuedEvent struct {
	InvoiceID    uint64 `json:"invoice_id,omitempty"` // zero for ad-hoc statements
	Customer     string `json:"customer"`
	Performances int    `json:"performances"`
	TotalAmount  int64  `json:"total_amount_cents"`
	TotalCredits int    `json:"total_credits"`
	Currency     string `json:"currency"`
	IssuedBy     string `json:"issued_by"`
	IssuedAt     string `json:"issued_at"` // RFC 3339, UTC
}
