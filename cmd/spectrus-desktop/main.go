package main

import (
	stderrors "errors"
	"os"

	"github.com/clk-66/spectrus-desktop/internal/app"
	"github.com/clk-66/spectrus-desktop/internal/errors"
	"github.com/clk-66/spectrus-desktop/internal/output"
)

func main() {
	exit := run()
	os.Exit(exit)
}

// run is the main entry point
func run() int {
	// Initialize application
	a := app.New(version, commit, date)
	w := output.New(os.Stdout, os.Stderr)

	// Create root command
	root := NewRootCommand()

	// Add subcommands
	root.AddCommand(NewSpecCommand(&a, &w))
	root.AddCommand(NewVersionCommand(&a, &w))
	root.AddCommand(NewKeychainCommand(&w))
	root.AddCommand(NewOpenCommand(&w))
	root.AddCommand(NewRegisterCommand(&w))
	root.AddCommand(NewServeCommand())
	root.AddCommand(NewConfigCommand(&w))

	// Execute and handle errors
	if err := root.Execute(); err != nil {
		var er *exitRequest
		if stderrors.As(err, &er) {
			return er.code
		}
		xe := normalizeErr(err)
		format := resolveFormatForError(GlobalConfig.FormatStr)
		_ = w.WriteError(format, xe)
		return int(errors.ExitCodeFor(xe.Code))
	}

	return int(errors.ExitOK)
}
