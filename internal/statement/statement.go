// Package statement builds customer statements from an invoice and a
// plays lookup table.  Each performance is resolved and priced in
// order; any failure aborts the whole statement.
package statement

import (
	"fmt"
	"math"
	"strings"

	"github.com/iliyamo/theater-statement/internal/currency"
	"github.com/iliyamo/theater-statement/internal/model"
	"github.com/iliyamo/theater-statement/internal/pricing"
)

// Line is one priced performance.
type Line struct {
	PlayID   string         `json:"play_id"`
	PlayName string         `json:"play_name"`
	PlayType model.PlayType `json:"play_type"`
	Audience int            `json:"audience"`
	Amount   int64          `json:"amount"`
	Credits  int            `json:"credits"`
}

// Statement is the computed result for one invoice.  Lines keep the
// order of the invoice's performances.
type Statement struct {
	Customer     string `json:"customer"`
	Lines        []Line `json:"lines"`
	TotalAmount  int64  `json:"total_amount"`
	TotalCredits int    `json:"total_credits"`
}

// Builder turns invoices into statements.  A Builder holds no mutable
// state and may be shared between goroutines.
type Builder struct {
	engine *pricing.Engine
	locale currency.Locale
}

// NewBuilder returns a Builder that prices with engine and formats
// amounts with locale.
func NewBuilder(engine *pricing.Engine, locale currency.Locale) *Builder {
	if engine == nil {
		panic("nil pricing engine passed to NewBuilder")
	}
	return &Builder{engine: engine, locale: locale}
}

// Locale returns the currency locale used by Text.
func (b *Builder) Locale() currency.Locale { return b.locale }

// Build resolves and prices every performance of inv.  Errors from the
// pricing engine are returned as is; totals that would not fit in int64
// fail with pricing.ErrAmountOverflow.
func (b *Builder) Build(inv model.Invoice, plays model.Plays) (Statement, error) {
	st := Statement{
		Customer: inv.Customer,
		Lines:    make([]Line, 0, len(inv.Performances)),
	}
	for i, perf := range inv.Performances {
		play, ok := plays[perf.PlayID]
		if !ok {
			return Statement{}, &UnknownPlayIDError{PlayID: perf.PlayID}
		}
		charge, err := b.engine.Price(play.Type, perf.Audience)
		if err != nil {
			return Statement{}, err
		}
		if st.TotalAmount > math.MaxInt64-charge.Amount || st.TotalCredits > math.MaxInt-charge.Credits {
			return Statement{}, fmt.Errorf("%w: totals after performance %d (%s)", pricing.ErrAmountOverflow, i, perf.PlayID)
		}
		st.Lines = append(st.Lines, Line{
			PlayID:   perf.PlayID,
			PlayName: play.Name,
			PlayType: play.Type,
			Audience: perf.Audience,
			Amount:   charge.Amount,
			Credits:  charge.Credits,
		})
		st.TotalAmount += charge.Amount
		st.TotalCredits += charge.Credits
	}
	return st, nil
}

// Text builds the statement for inv and renders it as plain text.
func (b *Builder) Text(inv model.Invoice, plays model.Plays) (string, error) {
	st, err := b.Build(inv, plays)
	if err != nil {
		return "", err
	}
	return Render(st, b.locale), nil
}

// Render formats st as the plain-text report:
//
//	Statement for BigCo
//	  Hamlet: $650.00 (55 seats)
//	Amount owed is $650.00
//	You earned 25 credits
func Render(st Statement, loc currency.Locale) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Statement for %s\n", st.Customer)
	for _, l := range st.Lines {
		fmt.Fprintf(&sb, "  %s: %s (%d seats)\n", l.PlayName, currency.Format(l.Amount, loc), l.Audience)
	}
	fmt.Fprintf(&sb, "Amount owed is %s\n", currency.Format(st.TotalAmount, loc))
	fmt.Fprintf(&sb, "You earned %d credits\n", st.TotalCredits)
	return sb.String()
}
