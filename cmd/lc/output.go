package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/leadcommander/internal/ingest"
	"github.com/alfredjeanlab/leadcommander/internal/model"
	"github.com/alfredjeanlab/leadcommander/internal/style"
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// readLeadsFile loads and validates a CSV, JSON or JSONL lead file.
func readLeadsFile(ctx context.Context, path string) ([]model.Lead, error) {
	src, err := ingest.NewFileSource(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	leads, err := src.ListLeads(ctx)
	if err != nil {
		return nil, err
	}
	if err := model.ValidateLeads(leads); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return leads, nil
}

// paletteFlag resolves --palette, falling back to LEADS_PALETTE_FILE and then
// the default palette.
func paletteFlag(cmd *cobra.Command) (style.Palette, error) {
	path, _ := cmd.Flags().GetString("palette")
	if path == "" {
		path = os.Getenv("LEADS_PALETTE_FILE")
	}
	if path == "" {
		return style.DefaultPalette, nil
	}
	return style.LoadPalette(path)
}

// clientUnlessFile skips connecting to the server when --file is given.
func clientUnlessFile(cmd *cobra.Command, args []string) error {
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		return noClient(cmd, args)
	}
	return rootCmd.PersistentPreRunE(cmd, args)
}

// addInputFlags registers the flags shared by commands that read leads.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("file", "", "read leads from a local CSV, JSON or JSONL file instead of the server")
	cmd.Flags().String("palette", "", "tier palette file (TOML or YAML)")
}
