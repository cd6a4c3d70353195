// Package cmd implements the CLI application that turns B3 reports into
// IRPF declaration data.
package cmd

import (
	"flag"
	"os"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/b3tax/irpf"
	"github.com/b3tax/irpf/b3"
)

// Register the subcommands.
// A main package calls Register() and then Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&generateCmd{}, "report")

	c.Register(&positionsCmd{}, "inspection")
	c.Register(&transactionsCmd{}, "inspection")
	c.Register(&sheetsCmd{}, "inspection")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var verbose = flag.Bool("v", false, "enable debug logging")

// SetupLogging configures the global logger. Call after flag.Parse.
func SetupLogging() {
	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// readPositions opens a positions workbook, parses every recognized sheet,
// and releases the file handle.
func readPositions(path string, classifier b3.Classifier) ([]irpf.Position, error) {
	wb, err := b3.Open(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()
	return wb.Positions(classifier)
}

// readTransactions opens a trades workbook and parses its Negociação sheet.
func readTransactions(path string) ([]irpf.Transaction, error) {
	wb, err := b3.Open(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()
	return wb.Transactions()
}

// readInventory opens a report generated by this tool for a previous year
// and parses its Inventário sheet.
func readInventory(path string) ([]irpf.Position, int, error) {
	wb, err := b3.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer wb.Close()
	return wb.Inventory()
}
