package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/b3tax/irpf/render"
)

type transactionsCmd struct{}

func (*transactionsCmd) Name() string     { return "transactions" }
func (*transactionsCmd) Synopsis() string { return "parse a B3 trades report and print its rows" }
func (*transactionsCmd) Usage() string {
	return `irpf-report transactions <trades.xlsx>

  Parses the Negociação sheet of a B3 trades report and prints the trades.
`
}

func (*transactionsCmd) SetFlags(*flag.FlagSet) {}

func (c *transactionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path := f.Arg(0)
	if path == "" {
		fmt.Fprintln(os.Stderr, "a trades report path is required")
		return subcommands.ExitUsageError
	}

	transactions, err := readTransactions(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading trades report %q: %v\n", path, err)
		return subcommands.ExitFailure
	}

	printMarkdown(render.TransactionsMarkdown(transactions))
	return subcommands.ExitSuccess
}
