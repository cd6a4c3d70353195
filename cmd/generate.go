package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"

	"github.com/b3tax/irpf"
	"github.com/b3tax/irpf/alphavantage"
	"github.com/b3tax/irpf/render"
)

// generateCmd holds the flags for the 'generate' subcommand.
type generateCmd struct {
	current  string
	previous string
	trades   string
	output   string
	year     int
}

func (*generateCmd) Name() string     { return "generate" }
func (*generateCmd) Synopsis() string { return "build the IRPF declaration data from B3 reports" }
func (*generateCmd) Usage() string {
	return `irpf-report generate -c <positions.xlsx> [-p <previous-report.xlsx>] [-t <trades.xlsx>] [-o <report.xlsx>] [-y <year>]

  Parses the B3 positions report for the fiscal year, optionally the report
  generated for the previous year (to carry quantities and declared amounts
  forward) and the B3 trades report (to compute average cost and realized
  gains), and emits one declaration entry per asset.

  Without -o the report is printed to standard output; with -o an xlsx
  workbook is written, including the Inventário sheet next year's run reads.

Usage Examples:
# Print the declaration entries for the positions of posicao-2025.xlsx
$ irpf-report generate -c posicao-2025.xlsx

# Full run with carry-forward and trades, written to a workbook
$ irpf-report generate -c posicao-2025.xlsx -p irpf-2024.xlsx -t negociacao-2025.xlsx -o irpf-2025.xlsx

`
}

func (c *generateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.current, "c", "", "Path to the B3 positions report for the fiscal year (required)")
	f.StringVar(&c.previous, "p", "", "Path to the report generated for the previous fiscal year")
	f.StringVar(&c.trades, "t", "", "Path to the B3 trades report (Negociação)")
	f.StringVar(&c.output, "o", "", "Write an xlsx report to this path instead of printing to stdout")
	f.IntVar(&c.year, "y", time.Now().Year()-1, "Fiscal year being declared")
}

func (c *generateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.current == "" {
		fmt.Fprintln(os.Stderr, "the -c flag with the positions report is required")
		return subcommands.ExitUsageError
	}

	inventory := irpf.NewInventory()

	if c.previous != "" {
		opening, year, err := readInventory(c.previous)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading previous report %q: %v\n", c.previous, err)
			return subcommands.ExitFailure
		}
		if year != c.year-1 {
			log.Warn().Int("declared", year).Int("expected", c.year-1).
				Msg("previous report is not for the preceding fiscal year")
		}
		inventory.AddOpeningPositions(opening)
	}

	positions, err := readPositions(c.current, alphavantage.NewFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading positions report %q: %v\n", c.current, err)
		return subcommands.ExitFailure
	}
	inventory.AddPositions(positions)

	if c.trades != "" {
		transactions, err := readTransactions(c.trades)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading trades report %q: %v\n", c.trades, err)
			return subcommands.ExitFailure
		}
		if err := inventory.AddTransactions(transactions); err != nil {
			fmt.Fprintf(os.Stderr, "Error aggregating trades: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	investments := inventory.Investments()

	if c.output == "" {
		printMarkdown(render.DeclarationMarkdown(c.year, investments))
		return subcommands.ExitSuccess
	}

	if err := render.WriteReport(c.output, c.year, investments); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully wrote %d declaration entries to %s\n", len(investments), c.output)
	return subcommands.ExitSuccess
}
