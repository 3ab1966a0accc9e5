package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/leadcommander/internal/client"
	"github.com/alfredjeanlab/leadcommander/internal/filter"
	"github.com/alfredjeanlab/leadcommander/internal/model"
	"github.com/alfredjeanlab/leadcommander/internal/session"
	"github.com/alfredjeanlab/leadcommander/internal/ui"
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List leads that pass the dashboard filters",
	Long: `List leads that pass the dashboard filters.

With --file the leads are read and filtered locally; otherwise the server
filters its configured lead source.`,
	GroupID:           "leads",
	Args:              cobra.NoArgs,
	PersistentPreRunE: clientUnlessFile,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		state := filterStateFromFlags(cmd)

		var view *session.View
		if file, _ := cmd.Flags().GetString("file"); file != "" {
			leads, err := readLeadsFile(ctx, file)
			if err != nil {
				return err
			}
			if view, err = session.BuildView(leads, state); err != nil {
				return err
			}
		} else {
			var err error
			view, err = leadClient.Filter(ctx, &client.FilterRequest{Filters: &state})
			if err != nil {
				return fmt.Errorf("filtering leads: %w", err)
			}
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), view)
		}
		p, err := paletteFlag(cmd)
		if err != nil {
			return err
		}
		return ui.NewLeadTable(p).Render(cmd.OutOrStdout(), view)
	},
}

// filterStateFromFlags builds a normalized FilterState from the filter flags.
func filterStateFromFlags(cmd *cobra.Command) model.FilterState {
	scoreMin, _ := cmd.Flags().GetInt("score-min")
	scoreMax, _ := cmd.Flags().GetInt("score-max")
	wpMin, _ := cmd.Flags().GetInt("wp-min")
	wpMax, _ := cmd.Flags().GetInt("wp-max")
	signal, _ := cmd.Flags().GetBool("market-signal")
	actions, _ := cmd.Flags().GetStringArray("action")

	return model.FilterState{
		ScoreRange:          model.Range{Min: scoreMin, Max: scoreMax},
		WinProbabilityRange: model.Range{Min: wpMin, Max: wpMax},
		MarketSignalOnly:    signal,
		RecommendedActions:  actions,
	}.Normalize()
}

var actionsCmd = &cobra.Command{
	Use:               "actions",
	Short:             "List the distinct recommended actions",
	GroupID:           "leads",
	Args:              cobra.NoArgs,
	PersistentPreRunE: clientUnlessFile,
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

		choices := filter.ActionChoices(leads)
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), choices)
		}
		for _, a := range choices {
			fmt.Fprintln(cmd.OutOrStdout(), a)
		}
		return nil
	},
}

func init() {
	addInputFlags(leadsCmd)
	leadsCmd.Flags().Int("score-min", model.RangeFloor, "minimum lead score")
	leadsCmd.Flags().Int("score-max", model.RangeCeil, "maximum lead score")
	leadsCmd.Flags().Int("wp-min", model.RangeFloor, "minimum win probability")
	leadsCmd.Flags().Int("wp-max", model.RangeCeil, "maximum win probability")
	leadsCmd.Flags().Bool("market-signal", false, "only leads with a detected market signal")
	leadsCmd.Flags().StringArray("action", nil, "restrict to a recommended action (repeatable)")

	actionsCmd.Flags().String("file", "", "read leads from a local CSV, JSON or JSONL file instead of the server")
}
