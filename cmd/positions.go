package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/b3tax/irpf/alphavantage"
	"github.com/b3tax/irpf/render"
)

type positionsCmd struct{}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "parse a B3 positions report and print its rows" }
func (*positionsCmd) Usage() string {
	return `irpf-report positions <positions.xlsx>

  Parses every recognized sheet of a B3 positions report and prints the
  normalized position rows. Useful to check what the report contains before
  generating the declaration.
`
}

func (*positionsCmd) SetFlags(*flag.FlagSet) {}

func (c *positionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path := f.Arg(0)
	if path == "" {
		fmt.Fprintln(os.Stderr, "a positions report path is required")
		return subcommands.ExitUsageError
	}

	positions, err := readPositions(path, alphavantage.NewFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading positions report %q: %v\n", path, err)
		return subcommands.ExitFailure
	}

	printMarkdown(render.PositionsMarkdown(positions))
	return subcommands.ExitSuccess
}
