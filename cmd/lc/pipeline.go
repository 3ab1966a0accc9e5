package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/leadcommander/internal/client"
	"github.com/alfredjeanlab/leadcommander/internal/model"
	"github.com/alfredjeanlab/leadcommander/internal/session"
	"github.com/alfredjeanlab/leadcommander/internal/ui"
)

var (
	optimizeCmd = newPipelineCmd("optimize", client.OpOptimize, "Run the pipeline optimizer over the leads")
	automateCmd = newPipelineCmd("automate", client.OpAutomate, "Run automated actions over the leads")
	coachCmd    = newPipelineCmd("coach", client.OpCoach, "Generate coaching tips for the leads")
)

// newPipelineCmd returns a command posting leads to a pipeline endpoint and
// printing what it returns. Leads come from --file or the server's source.
func newPipelineCmd(use, op, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     use,
		Short:   short,
		GroupID: "pipeline",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				leads []model.Lead
				err   error
			)
			if file, _ := cmd.Flags().GetString("file"); file != "" {
				leads, err = readLeadsFile(ctx, file)
			} else {
				leads, err = leadClient.GetLeads(ctx)
			}
			if err != nil {
				return err
			}

			out, err := leadClient.RunPipeline(ctx, op, leads)
			if err != nil {
				return fmt.Errorf("%s: %w", use, err)
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), out)
			}
			view, err := session.BuildView(out, model.DefaultFilterState())
			if err != nil {
				return err
			}
			p, err := paletteFlag(cmd)
			if err != nil {
				return err
			}
			return ui.NewLeadTable(p).Render(cmd.OutOrStdout(), view)
		},
	}
	addInputFlags(cmd)
	return cmd
}
