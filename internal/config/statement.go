package config

import (
	"fmt"
	"os"

	"github.com/iliyamo/theater-statement/internal/currency"
	"github.com/iliyamo/theater-statement/internal/pricing"
	"github.com/iliyamo/theater-statement/internal/statement"
)

// StatementConfig controls how statements are priced and displayed.
//
//	CURRENCY_CODE            – ISO 4217 code used for display (default USD)
//	PRICING_RULES_FILE       – optional JSON rule table replacing the default rules
//	STATEMENT_EVENTS_ENABLED – publish statement.issued events (default true)
type StatementConfig struct {
	CurrencyCode  string
	RulesFile     string
	EventsEnabled bool
}

// LoadStatementConfig reads StatementConfig from the environment.
func LoadStatementConfig() StatementConfig {
	return StatementConfig{
		CurrencyCode:  envStr("CURRENCY_CODE", "USD"),
		RulesFile:     os.Getenv("PRICING_RULES_FILE"),
		EventsEnabled: envBool("STATEMENT_EVENTS_ENABLED", true),
	}
}

// Engine returns the pricing engine described by the configuration:
// the rules file when one is set, the default rules otherwise.
func (c StatementConfig) Engine() (*pricing.Engine, error) {
	if c.RulesFile == "" {
		return pricing.Default(), nil
	}
	f, err := os.Open(c.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("open pricing rules: %w", err)
	}
	defer f.Close()
	rules, err := pricing.LoadRules(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.RulesFile, err)
	}
	return pricing.New(rules)
}

// Builder returns a statement builder wired with the configured engine
// and currency locale.
func (c StatementConfig) Builder() (*statement.Builder, error) {
	engine, err := c.Engine()
	if err != nil {
		return nil, err
	}
	loc, err := currency.ForCode(c.CurrencyCode)
	if err != nil {
		return nil, err
	}
	return statement.NewBuilder(engine, loc), nil
}
