package app

import (
	"fmt"

	"github.com/blackwell-systems/hoshin/internal/kano"
	"github.com/blackwell-systems/hoshin/internal/output"
	"github.com/spf13/cobra"
)

var compareLatest bool

var compareCmd = &cobra.Command{
	Use:   "compare <self-id> <competitor-id> [competitor-id]",
	Short: "Compare your company against one or two competitors",
	Long: `Generate comparative insights per feature area:

  opportunity  competitors differentiate where you do not
  threat       a competitor is strong in an area you leave empty
  strength     you out-differentiate every competitor
  weakness     unmet basic needs that competitors have covered

Insights are ranked high, medium, low. The new comparison replaces the
previously stored one; --latest shows the stored comparison instead.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if compareLatest {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.RangeArgs(2, 1+kano.MaxCompetitors)(cmd, args)
	},
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().BoolVar(&compareLatest, "latest", false, "Show the most recently generated comparison")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	if compareLatest {
		return showLatestComparison(cmd, e)
	}

	self, err := resolveAnalysis(e.tracker, args[0])
	if err != nil {
		return err
	}
	competitorIDs := make([]string, 0, len(args)-1)
	for _, ref := range args[1:] {
		a, err := resolveAnalysis(e.tracker, ref)
		if err != nil {
			return err
		}
		competitorIDs = append(competitorIDs, a.ID)
	}

	c, err := e.tracker.Compare(self.ID, competitorIDs)
	if err != nil {
		return fmt.Errorf("comparing: %w", err)
	}

	w := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(w, c)
	}
	renderComparison(w, c, e.cfg.Output.Width)
	return nil
}

func showLatestComparison(cmd *cobra.Command, e *env) error {
	rec, err := e.tracker.LatestComparison()
	if err != nil {
		return fmt.Errorf("loading comparison: %w", err)
	}
	w := cmd.OutOrStdout()
	if rec == nil {
		if flagJSON {
			return writeJSON(w, nil)
		}
		fmt.Fprintf(w, " %s\n", output.StyleMuted.Render("No comparison generated yet. Run 'hoshin compare <self> <competitor>'."))
		return nil
	}
	if flagJSON {
		return writeJSON(w, rec)
	}
	fmt.Fprintf(w, " %s %s\n", output.StyleMuted.Render("Generated"), rec.CreatedAt.Format("2006-01-02 15:04"))
	renderInsights(w, rec.Insights)
	return nil
}
