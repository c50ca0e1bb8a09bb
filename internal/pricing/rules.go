package pricing

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iliyamo/theater-statement/internal/model"
)

// Rule holds the pricing and credit factors for one play type.  All
// money fields are in cents.
//
//	BaseAmount           – flat charge for every performance.
//	AudienceThreshold    – seats included in the base amount.
//	OverThresholdPerSeat – charge per seat above AudienceThreshold.
//	OverThresholdFlat    – one-off surcharge once AudienceThreshold is exceeded.
//	PerSeat              – charge for every seat, threshold or not.
//	CreditThreshold      – seats that earn no volume credit.
//	CreditBonusDivisor   – one bonus credit per this many seats; 0 disables.
type Rule struct {
	BaseAmount           int64 `json:"base_amount"`
	AudienceThreshold    int   `json:"audience_threshold"`
	OverThresholdPerSeat int64 `json:"over_threshold_per_seat"`
	OverThresholdFlat    int64 `json:"over_threshold_flat,omitempty"`
	PerSeat              int64 `json:"per_seat,omitempty"`
	CreditThreshold      int   `json:"credit_threshold"`
	CreditBonusDivisor   int   `json:"credit_bonus_divisor,omitempty"`
}

// RuleSet is the pricing table keyed by play type.
type RuleSet map[model.PlayType]Rule

// DefaultRules returns the standard four-type pricing table.
func DefaultRules() RuleSet {
	return RuleSet{
		model.Tragedy: {
			BaseAmount:           40000,
			AudienceThreshold:    30,
			OverThresholdPerSeat: 1000,
			CreditThreshold:      30,
		},
		model.Comedy: {
			BaseAmount:           30000,
			AudienceThreshold:    20,
			OverThresholdPerSeat: 500,
			OverThresholdFlat:    10000,
			PerSeat:              300,
			CreditThreshold:      30,
			CreditBonusDivisor:   5,
		},
		model.History: {
			BaseAmount:           20000,
			AudienceThreshold:    20,
			OverThresholdPerSeat: 1000,
			CreditThreshold:      20,
		},
		model.Pastoral: {
			BaseAmount:           40000,
			AudienceThreshold:    20,
			OverThresholdPerSeat: 2500,
			CreditThreshold:      20,
		},
	}
}

// Validate checks that every key is a supported play type and that no
// factor is negative.
func (rs RuleSet) Validate() error {
	if len(rs) == 0 {
		return fmt.Errorf("%w: empty rule set", ErrInvalidRule)
	}
	for t, r := range rs {
		if !t.Valid() {
			return &UnknownPlayTypeError{Type: string(t)}
		}
		if r.BaseAmount < 0 || r.AudienceThreshold < 0 || r.OverThresholdPerSeat < 0 ||
			r.OverThresholdFlat < 0 || r.PerSeat < 0 || r.CreditThreshold < 0 || r.CreditBonusDivisor < 0 {
			return fmt.Errorf("%w: negative factor for %s", ErrInvalidRule, t)
		}
	}
	return nil
}

// LoadRules decodes a JSON rule table of the form
//
//	{"tragedy": {"base_amount": 40000, ...}, "comedy": {...}}
//
// and validates it.  Unknown fields are rejected so typos in a rules
// file do not silently fall back to zero.
func LoadRules(r io.Reader) (RuleSet, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var rs RuleSet
	if err := dec.Decode(&rs); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return rs, nil
}
