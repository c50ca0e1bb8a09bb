// Package pricing computes the charge and volume credits of a single
// performance from its play type and audience size.  The engine is a
// pure function of its rule table and is safe for concurrent use.
package pricing

import (
	"fmt"
	"math"

	"github.com/iliyamo/theater-statement/internal/model"
)

// Charge is the priced result for one performance.
type Charge struct {
	Amount  int64 `json:"amount"`  // cents
	Credits int   `json:"credits"` // volume credits
}

// Engine prices performances using a fixed RuleSet.
type Engine struct {
	rules RuleSet
}

// New returns an Engine for rules.  The table is copied so later
// changes by the caller do not affect the engine.
func New(rules RuleSet) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	own := make(RuleSet, len(rules))
	for t, r := range rules {
		own[t] = r
	}
	return &Engine{rules: own}, nil
}

// Default returns an Engine using DefaultRules.
func Default() *Engine {
	e, err := New(DefaultRules())
	if err != nil {
		panic("pricing: invalid default rules: " + err.Error())
	}
	return e
}

// Rule returns the rule for t.
func (e *Engine) Rule(t model.PlayType) (Rule, error) {
	r, ok := e.rules[t]
	if !ok {
		return Rule{}, &UnknownPlayTypeError{Type: string(t)}
	}
	return r, nil
}

// Amount returns the charge in cents for a performance of a play of
// type t in front of audience seats.
func (e *Engine) Amount(t model.PlayType, audience int) (int64, error) {
	c, err := e.Price(t, audience)
	return c.Amount, err
}

// VolumeCredits returns the loyalty credits earned by a performance.
func (e *Engine) VolumeCredits(t model.PlayType, audience int) (int, error) {
	c, err := e.Price(t, audience)
	return c.Credits, err
}

// Price returns both the amount and the credits of a performance.  An
// audience whose charge or credits do not fit in an int64 fails with
// ErrAmountOverflow instead of wrapping.
func (e *Engine) Price(t model.PlayType, audience int) (Charge, error) {
	r, err := e.Rule(t)
	if err != nil {
		return Charge{}, err
	}
	if audience < 0 {
		return Charge{}, &AudienceError{Audience: audience}
	}
	amount, ok := r.amount(audience)
	if !ok {
		return Charge{}, fmt.Errorf("%w: %s with %d seats", ErrAmountOverflow, t, audience)
	}
	credits, ok := r.credits(audience)
	if !ok {
		return Charge{}, fmt.Errorf("%w: credits for %d seats", ErrAmountOverflow, audience)
	}
	return Charge{Amount: amount, Credits: credits}, nil
}

func (r Rule) amount(audience int) (int64, bool) {
	seats := int64(audience)
	amount := r.BaseAmount
	var ok bool
	if over := seats - int64(r.AudienceThreshold); over > 0 {
		var surcharge int64
		if surcharge, ok = mulInt64(r.OverThresholdPerSeat, over); !ok {
			return 0, false
		}
		if amount, ok = addInt64(amount, surcharge); !ok {
			return 0, false
		}
		if amount, ok = addInt64(amount, r.OverThresholdFlat); !ok {
			return 0, false
		}
	}
	perSeat, ok := mulInt64(r.PerSeat, seats)
	if !ok {
		return 0, false
	}
	return addInt64(amount, perSeat)
}

func (r Rule) credits(audience int) (int, bool) {
	credits := audience - r.CreditThreshold
	if credits < 0 {
		credits = 0
	}
	if r.CreditBonusDivisor > 0 {
		bonus := audience / r.CreditBonusDivisor
		if credits > math.MaxInt-bonus {
			return 0, false
		}
		credits += bonus
	}
	return credits, true
}

// Both operands are non-negative: Validate rejects negative factors and
// Price rejects negative audiences.

func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt64/b {
		return 0, false
	}
	return a * b, true
}

func addInt64(a, b int64) (int64, bool) {
	if a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}
