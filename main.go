// cricket-tui - A terminal chat client for talking cricket with Gemini.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jeranaias/cricket-tui/internal/cli"
	"github.com/jeranaias/cricket-tui/internal/config"
	"github.com/jeranaias/cricket-tui/internal/kv"
	"github.com/jeranaias/cricket-tui/internal/session"
	"github.com/jeranaias/cricket-tui/internal/storage"
	"github.com/jeranaias/cricket-tui/internal/turn"
	"github.com/jeranaias/cricket-tui/internal/ui"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// stateFile is the SQLite database name inside the data directory.
const stateFile = "state.db"

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	args, err := cli.Parse(os.Args[1:])
	if err != nil {
		cli.HandleErrorAndExit(err)
	}

	switch args.Command {
	case cli.CmdVersion:
		fmt.Print(cli.VersionText())
		return
	case cli.CmdHelp:
		fmt.Print(cli.UsageText())
		return
	}

	cfg, err := loadConfig(args)
	if err != nil {
		cli.HandleErrorAndExit(err)
	}

	switch args.Command {
	case cli.CmdAsk:
		cli.HandleErrorAndExit(cli.HandleAsk(args, cfg))

	case cli.CmdChat:
		app, err := newApp(cfg)
		if err != nil {
			cli.HandleErrorAndExit(err)
		}
		defer app.close()
		app.watchConfig(args)
		cli.HandleErrorAndExit(cli.HandleChat(cfg, app.session, app.store, app.controller))

	case cli.CmdExport:
		app, err := newApp(cfg)
		if err != nil {
			cli.HandleErrorAndExit(err)
		}
		defer app.close()
		cli.HandleErrorAndExit(cli.HandleExport(args, app.store))

	default:
		runTUI(args, cfg)
	}
}

// loadConfig loads configuration from the default or overridden path.
func loadConfig(args cli.Args) (*config.Config, error) {
	if args.ConfigPath != "" {
		return config.LoadFromPath(args.ConfigPath)
	}
	return config.Load()
}

// =============================================================================
// SHARED APPLICATION STATE
// =============================================================================

// app bundles the persistent stores shared by the TUI and the REPL.
type app struct {
	kv         *kv.Store
	session    *session.Store
	store      *storage.ConversationStore
	controller *turn.Controller
	watcher    *config.Watcher
}

func newApp(cfg *config.Config) (*app, error) {
	dataDir, err := cfg.DataDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	store, err := kv.Open(filepath.Join(dataDir, stateFile))
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}

	// Logout wipes conversations and selection along with the identity
	sess := session.NewStore(store, storage.KeyConversations, storage.KeySelected)
	convStore := storage.NewConversationStore(store)
	controller := turn.NewController(convStore, cli.NewGeminiClient(cfg))

	return &app{
		kv:         store,
		session:    sess,
		store:      convStore,
		controller: controller,
	}, nil
}

// watchConfig picks up config edits while the interface is running: each
// successful reload swaps the controller's generation client, so subsequent
// turns use the new model, key, and timeout. A failed watch is not fatal;
// the loaded config simply stays fixed.
func (a *app) watchConfig(args cli.Args) {
	path, err := configPath(args)
	if err != nil {
		return
	}
	watcher, err := config.Watch(path, func(updated *config.Config) {
		a.controller.SetGenerator(cli.NewGeminiClient(updated))
	})
	if err != nil {
		return
	}
	a.watcher = watcher
}

func (a *app) close() {
	if a.watcher != nil {
		a.watcher.Close()
	}
	if err := a.kv.Close(); err != nil {
		log.Printf("close state store: %v", err)
	}
}

// =============================================================================
// TUI
// =============================================================================

func runTUI(args cli.Args, cfg *config.Config) {
	application, err := newApp(cfg)
	if err != nil {
		cli.HandleErrorAndExit(err)
	}
	defer application.close()

	application.watchConfig(args)

	if err := ui.Run(application.session, application.store, application.controller); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func configPath(args cli.Args) (string, error) {
	if args.ConfigPath != "" {
		return args.ConfigPath, nil
	}
	return config.ConfigPath()
}
