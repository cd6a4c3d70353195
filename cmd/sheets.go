package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/b3tax/irpf/b3"
	"github.com/b3tax/irpf/render"
)

type sheetsCmd struct{}

func (*sheetsCmd) Name() string     { return "sheets" }
func (*sheetsCmd) Synopsis() string { return "list the sheets of a workbook and whether each is recognized" }
func (*sheetsCmd) Usage() string {
	return `irpf-report sheets <report.xlsx>

  Lists every sheet in the workbook and whether this tool recognizes it.
  Unrecognized sheets are skipped during generation.
`
}

func (*sheetsCmd) SetFlags(*flag.FlagSet) {}

func (c *sheetsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path := f.Arg(0)
	if path == "" {
		fmt.Fprintln(os.Stderr, "a workbook path is required")
		return subcommands.ExitUsageError
	}

	wb, err := b3.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening workbook %q: %v\n", path, err)
		return subcommands.ExitFailure
	}
	defer wb.Close()

	printMarkdown(render.SheetsMarkdown(path, wb.Sheets(), b3.Recognized))
	return subcommands.ExitSuccess
}
