package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"caret/internal/diagfmt"
	"caret/internal/ui"
)

func readColorMode(value string) (ui.ColorMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return ui.ColorAuto, nil
	case "on":
		return ui.ColorOn, nil
	case "off":
		return ui.ColorOff, nil
	default:
		return ui.ColorAuto, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

func readPathMode(value string) (diagfmt.PathMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return diagfmt.PathModeAuto, nil
	case "absolute":
		return diagfmt.PathModeAbsolute, nil
	case "relative":
		return diagfmt.PathModeRelative, nil
	case "basename":
		return diagfmt.PathModeBasename, nil
	default:
		return diagfmt.PathModeAuto, fmt.Errorf("invalid path mode %q (expected auto|absolute|relative|basename)", value)
	}
}

// outputSetup resolves the flag/config layering for rendering: the --color
// flag wins, then caret.toml, then auto.
type outputSetup struct {
	sink ui.Sink
	opts diagfmt.PrettyOpts
}

func resolveOutput(cmd *cobra.Command, cfg cliConfig) (outputSetup, error) {
	colorValue, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return outputSetup{}, err
	}
	if colorValue == "" {
		colorValue = cfg.Output.Color
	}
	mode, err := readColorMode(colorValue)
	if err != nil {
		return outputSetup{}, err
	}

	pathMode, err := readPathMode(cfg.Output.PathMode)
	if err != nil {
		return outputSetup{}, err
	}

	return outputSetup{
		sink: ui.NewColorSink(os.Stdout, mode),
		opts: diagfmt.PrettyOpts{
			ProgName: cfg.Output.ProgName,
			PathMode: pathMode,
		},
	}, nil
}
