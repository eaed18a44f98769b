package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Makepad-fr/catalog/internal/cli"
)

func main() {
	// Root flags (apply to every subcommand)
	configPath := flag.String("config", "", "path to a YAML config file (default: $CATALOG_CONFIG or ./catalog.yaml)")
	theme := flag.String("theme", "", "color theme: classic, neon or mono")
	flag.Usage = cli.PrintHelp
	flag.Parse()

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	code := cli.Run(args, cli.Options{
		ConfigPath: *configPath,
		Theme:      *theme,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
