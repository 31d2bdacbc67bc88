// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"
)

// Build metadata, injected via -ldflags at release time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// COMMANDS
// =============================================================================

// Command identifies which subcommand was requested.
type Command int

const (
	// CmdTUI launches the full-screen interface. This is the default when
	// no subcommand is given.
	CmdTUI Command = iota

	// CmdAsk answers a single question and exits.
	CmdAsk

	// CmdChat runs the line-oriented REPL.
	CmdChat

	// CmdExport writes a conversation to a file.
	CmdExport

	// CmdVersion prints build metadata.
	CmdVersion

	// CmdHelp prints usage.
	CmdHelp
)

// Args holds the parsed command line.
type Args struct {
	Command Command

	// Question is the joined positional text for ask.
	Question string

	// ExportFormat is "markdown" or "json" for export.
	ExportFormat string

	// ExportPath is the output file for export; empty means stdout.
	ExportPath string

	// ConfigPath overrides the default config file location.
	ConfigPath string
}

// Parse interprets the command line (without the program name).
func Parse(argv []string) (Args, error) {
	args := Args{Command: CmdTUI, ExportFormat: "markdown"}

	rest, err := parseGlobalFlags(argv, &args)
	if err != nil {
		return args, err
	}
	if len(rest) == 0 {
		return args, nil
	}

	switch rest[0] {
	case "ask":
		args.Command = CmdAsk
		args.Question = strings.TrimSpace(strings.Join(rest[1:], " "))
		if args.Question == "" {
			return args, &ValidationError{
				Field:   "question",
				Reason:  "ask needs a question",
				Example: "cricket-tui ask \"Who invented the doosra?\"",
			}
		}

	case "chat":
		args.Command = CmdChat
		if len(rest) > 1 {
			return args, &ValidationError{Field: "chat", Value: rest[1], Reason: "chat takes no arguments"}
		}

	case "export":
		args.Command = CmdExport
		if err := parseExportFlags(rest[1:], &args); err != nil {
			return args, err
		}

	case "version", "--version", "-v":
		args.Command = CmdVersion

	case "help", "--help", "-h":
		args.Command = CmdHelp

	default:
		return args, &ValidationError{
			Field:   "command",
			Value:   rest[0],
			Reason:  "unknown command",
			Example: "cricket-tui help",
		}
	}

	return args, nil
}

// parseGlobalFlags strips flags that are valid before any subcommand and
// returns the remaining arguments.
func parseGlobalFlags(argv []string, args *Args) ([]string, error) {
	rest := make([]string, 0, len(argv))
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "--config":
			if i+1 >= len(argv) {
				return nil, &ValidationError{Field: "--config", Reason: "missing path value"}
			}
			i++
			args.ConfigPath = argv[i]
		case strings.HasPrefix(arg, "--config="):
			args.ConfigPath = strings.TrimPrefix(arg, "--config=")
		default:
			rest = append(rest, arg)
		}
	}
	return rest, nil
}

func parseExportFlags(argv []string, args *Args) error {
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "--format":
			if i+1 >= len(argv) {
				return &ValidationError{Field: "--format", Reason: "missing format value"}
			}
			i++
			args.ExportFormat = argv[i]
		case strings.HasPrefix(arg, "--format="):
			args.ExportFormat = strings.TrimPrefix(arg, "--format=")
		case strings.HasPrefix(arg, "-"):
			return &ValidationError{Field: "export", Value: arg, Reason: "unknown flag"}
		default:
			if args.ExportPath != "" {
				return &ValidationError{Field: "export", Value: arg, Reason: "only one output file allowed"}
			}
			args.ExportPath = arg
		}
	}

	if args.ExportFormat != "markdown" && args.ExportFormat != "json" {
		return &ValidationError{
			Field:   "--format",
			Value:   args.ExportFormat,
			Reason:  "unsupported format",
			Example: "--format markdown or --format json",
		}
	}
	return nil
}

// =============================================================================
// USAGE AND VERSION
// =============================================================================

// UsageText returns the full help text.
func UsageText() string {
	return `cricket-tui - chat about cricket in your terminal

Usage:
  cricket-tui                 Launch the full-screen interface
  cricket-tui ask <question>  Answer one question and exit
  cricket-tui chat            Line-oriented chat REPL
  cricket-tui export [file]   Export the selected conversation
  cricket-tui version         Print version information
  cricket-tui help            Show this help

Flags:
  --config <path>             Use an alternate config file
  --format <markdown|json>    Export format (default markdown)

Environment:
  GEMINI_API_KEY              API key (overrides config file)
  CRICKET_TUI_DATA_DIR        Data directory (overrides config file)
`
}

// VersionText returns the version block printed by the version command.
func VersionText() string {
	return fmt.Sprintf("cricket-tui %s\ncommit:  %s\nbuilt:   %s\n", Version, GitCommit, BuildDate)
}
