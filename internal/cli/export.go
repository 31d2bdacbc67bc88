// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"

	"github.com/jeranaias/cricket-tui/internal/storage"
)

// HandleExport writes the selected conversation in the requested format to
// the given file, or stdout when no file is named.
func HandleExport(args Args, store *storage.ConversationStore) error {
	return exportConversation(store, args)
}

func exportConversation(store *storage.ConversationStore, args Args) error {
	conv, ok := store.Selected()
	if !ok {
		return &NotFoundError{Resource: "conversation", ID: store.SelectedID()}
	}

	var data []byte
	switch args.ExportFormat {
	case "json":
		out, err := storage.ExportJSON(conv)
		if err != nil {
			return WrapError(err, "encode conversation")
		}
		data = out
	default:
		data = []byte(storage.ExportMarkdown(conv))
	}

	if args.ExportPath == "" {
		_, err := os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(args.ExportPath, data, 0o644); err != nil {
		return WrapError(err, "write export")
	}
	fmt.Println(successStyle.Render("Exported " + conv.Title + " to " + args.ExportPath))
	return nil
}
