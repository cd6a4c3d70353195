package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/b3tax/irpf/cmd"
)

func main() {
	completion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	cmd.SetupLogging()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion wires shell completion. It only acts when invoked through the
// shell's completion hooks and is a no-op otherwise.
func completion() {
	xlsx := predict.Files("*.xlsx")
	complete.Complete("irpf-report", &complete.Command{
		Sub: map[string]*complete.Command{
			"generate": {Flags: map[string]complete.Predictor{
				"c": xlsx,
				"p": xlsx,
				"t": xlsx,
				"o": xlsx,
				"y": predict.Something,
			}},
			"positions":    {Args: xlsx},
			"transactions": {Args: xlsx},
			"sheets":       {Args: xlsx},
		},
	})
}
