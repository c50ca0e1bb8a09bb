// Package loader reads plays and invoices from JSON documents in the
// layout used by the statement command:
//
//	plays.json:    {"hamlet": {"name": "Hamlet", "type": "tragedy"}, ...}
//	invoices.json: [{"customer": "BigCo", "performances": [{"playID": "hamlet", "audience": 55}]}]
package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/iliyamo/theater-statement/internal/model"
)

// ReadPlays decodes a plays lookup table.
func ReadPlays(r io.Reader) (model.Plays, error) {
	plays := make(model.Plays)
	if err := json.NewDecoder(r).Decode(&plays); err != nil {
		return nil, fmt.Errorf("decode plays: %w", err)
	}
	return plays, nil
}

// ReadInvoices decodes a list of invoices.  A single invoice object is
// accepted as well and returned as a one-element list.  The first
// non-space byte picks the shape, so field errors are reported as is.
func ReadInvoices(r io.Reader) ([]model.Invoice, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read invoices: %w", err)
	}
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("decode invoices: %w", io.ErrUnexpectedEOF)
	}
	switch trimmed[0] {
	case '[':
		var list []model.Invoice
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decode invoices: %w", err)
		}
		return list, nil
	case '{':
		var one model.Invoice
		if err := json.Unmarshal(raw, &one); err != nil {
			return nil, fmt.Errorf("decode invoice: %w", err)
		}
		return []model.Invoice{one}, nil
	default:
		return nil, fmt.Errorf("decode invoices: expected an array or an object, got %q", trimmed[0])
	}
}

// PlaysFile opens path and reads a plays table from it.
func PlaysFile(path string) (model.Plays, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadPlays(f)
}

// InvoicesFile opens path and reads invoices from it.
func InvoicesFile(path string) ([]model.Invoice, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadInvoices(f)
}
