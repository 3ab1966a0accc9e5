package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/leadcommander/internal/client"
	"github.com/alfredjeanlab/leadcommander/internal/graph"
	"github.com/alfredjeanlab/leadcommander/internal/model"
	"github.com/alfredjeanlab/leadcommander/internal/relations"
	"github.com/alfredjeanlab/leadcommander/internal/style"
	"github.com/alfredjeanlab/leadcommander/internal/ui"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Build the lead relationship graph",
	Long: `Build the lead relationship graph.

Leads are related when they share a value on any --link field (company and
recommended action by default).`,
	GroupID:           "leads",
	Args:              cobra.NoArgs,
	PersistentPreRunE: clientUnlessFile,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p, err := paletteFlag(cmd)
		if err != nil {
			return err
		}
		fields, _ := cmd.Flags().GetStringSlice("link")

		var g *model.Graph
		if file, _ := cmd.Flags().GetString("file"); file != "" {
			leads, err := readLeadsFile(ctx, file)
			if err != nil {
				return err
			}
			g, err = buildLocalGraph(ctx, leads, fields, p)
			if err != nil {
				return err
			}
		} else {
			if g, err = buildRemoteGraph(ctx, fields); err != nil {
				return err
			}
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), g)
		}
		return ui.RenderGraph(cmd.OutOrStdout(), g, p)
	},
}

func buildLocalGraph(ctx context.Context, leads []model.Lead, fields []string, p style.Palette) (*model.Graph, error) {
	rels, err := relations.SharedAttribute{Fields: fields}.Infer(ctx, leads)
	if err != nil {
		return nil, fmt.Errorf("inferring relationships: %w", err)
	}
	return graph.NewBuilder(p).Build(leads, rels)
}

// buildRemoteGraph fetches the server's leads and asks it for their graph.
// Custom link fields are inferred client-side since the server uses its own
// inferer.
func buildRemoteGraph(ctx context.Context, fields []string) (*model.Graph, error) {
	leads, err := leadClient.GetLeads(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching leads: %w", err)
	}
	req := &client.GraphRequest{Leads: leads}
	if len(fields) > 0 {
		if req.Relationships, err = (relations.SharedAttribute{Fields: fields}).Infer(ctx, leads); err != nil {
			return nil, fmt.Errorf("inferring relationships: %w", err)
		}
	}
	g, err := leadClient.BuildGraph(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("building graph: %w", err)
	}
	return g, nil
}

func init() {
	addInputFlags(graphCmd)
	graphCmd.Flags().StringSlice("link", nil, "lead fields that relate two leads when equal")
}
