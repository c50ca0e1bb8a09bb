// Command statement prints customer statements for the invoices in a
// JSON file, pricing them against a JSON plays table.
//
//	statement -plays plays.json -invoices invoices.json [-currency USD] [-rules rules.json]
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/iliyamo/theater-statement/internal/config"
	"github.com/iliyamo/theater-statement/internal/loader"
)

func main() {
	config.LoadDotEnv()
	defaults := config.LoadStatementConfig()

	playsPath := flag.String("plays", "plays.json", "path to the plays lookup table")
	invoicesPath := flag.String("invoices", "invoices.json", "path to the invoices (array or single object)")
	currencyCode := flag.String("currency", defaults.CurrencyCode, "ISO 4217 display currency")
	rulesPath := flag.String("rules", defaults.RulesFile, "optional JSON pricing rule table")
	flag.Parse()

	if err := run(os.Stdout, *playsPath, *invoicesPath, config.StatementConfig{CurrencyCode: *currencyCode, RulesFile: *rulesPath}); err != nil {
		log.WithError(err).Error("statement failed")
		os.Exit(1)
	}
}

func run(w io.Writer, playsPath, invoicesPath string, sc config.StatementConfig) error {
	builder, err := sc.Builder()
	if err != nil {
		return err
	}
	plays, err := loader.PlaysFile(playsPath)
	if err != nil {
		return err
	}
	invoices, err := loader.InvoicesFile(invoicesPath)
	if err != nil {
		return err
	}
	for i, inv := range invoices {
		text, err := builder.Text(inv, plays)
		if err != nil {
			return fmt.Errorf("invoice %d (%s): %w", i, inv.Customer, err)
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprint(w, text)
	}
	return nil
}
