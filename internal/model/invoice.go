package model

// Invoice groups the performances billed to a single customer.  The
// order of Performances is significant: statement lines are printed in
// the same order.
//
// Fields:
//  ID           – invoices.id when the invoice comes from the store; zero otherwise.
//  Customer     – customer display name.
//  Performances – ordered performances to bill.
type Invoice struct {
	ID           uint64        `json:"id,omitempty"` // invoices.id
	Customer     string        `json:"customer"`     // invoices.customer
	Performances []Performance `json:"performances"` // invoice_performances ordered by position
}
