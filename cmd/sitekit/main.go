package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/sitekit/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┬┌┬┐┌─┐┬┌─┬┌┬┐
  └─┐│ │ ├┤ ├┴┐│ │
  └─┘┴ ┴ └─┘┴ ┴┴ ┴
`

// globalOptions are the flags shared by every command.
type globalOptions struct {
	json    bool
	noColor bool
}

func main() {
	var g globalOptions
	if err := rootCmd(&g).Execute(); err != nil {
		reportError(os.Stderr, err, g.json)
		os.Exit(1)
	}
}

// reportError prints err for a terminal or, with asJSON, as one JSON
// object. Invalid field verdicts were already printed by the command.
func reportError(w io.Writer, err error, asJSON bool) {
	var invalid errInvalid
	if stderrors.As(err, &invalid) {
		return
	}
	if asJSON {
		fmt.Fprintln(w, errors.FromError(err, "E500").FormatJSON())
		return
	}
	errors.FprintError(w, err)
}

// configureColors turns ANSI colors off for --no-color, a set NO_COLOR
// variable or a stderr that is not a terminal.
func configureColors(noColor bool, noColorEnv string, terminal bool) {
	if noColor || noColorEnv != "" || !terminal {
		errors.DisableColors()
		return
	}
	errors.EnableColors()
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func rootCmd(g *globalOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "sitekit",
		Short: "Server-driven behavior for static marketing sites",
		Long: `Sitekit serves a directory of static HTML pages and drives their
interactive behavior from Go over a WebSocket:

  • Responsive navigation and smooth anchor scrolling
  • Contact form validation and simulated submission
  • Toast notifications
  • Portfolio filtering and project details`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureColors(g.noColor, os.Getenv("NO_COLOR"), isTerminal(os.Stderr))
		},
	}

	root.PersistentFlags().BoolVar(&g.json, "json", false, "Print errors as JSON")
	root.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		serveCmd(),
		renderCmd(),
		validateCmd(),
		configCmd(),
		versionCmd(),
	)
	return root
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
