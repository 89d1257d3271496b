package app

import (
	"fmt"

	"github.com/blackwell-systems/hoshin/internal/kano"
	"github.com/blackwell-systems/hoshin/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var featureAddIn, featureUpdateIn kano.FeatureInput

var featureCmd = &cobra.Command{
	Use:     "feature",
	Aliases: []string{"f"},
	Short:   "Manage the features of an analysis",
	Long: `Features are scored with two survey answers in [-2, 2]: how satisfied
customers are when the feature is present (--functional) and how
dissatisfied they are when it is absent (--dysfunctional). Importance is
in [1, 5]. The Kano category and satisfaction impact are derived from the
scores, and the analysis summary is recomputed after every change.`,
}

var featureAddCmd = &cobra.Command{
	Use:   "add <analysis-id> <name>",
	Short: "Add a classified feature",
	Args:  cobra.ExactArgs(2),
	RunE:  runFeatureAdd,
}

var featureUpdateCmd = &cobra.Command{
	Use:   "update <analysis-id> <feature-id>",
	Short: "Update a feature; unset flags keep their current value",
	Args:  cobra.ExactArgs(2),
	RunE:  runFeatureUpdate,
}

var featureRemoveCmd = &cobra.Command{
	Use:     "remove <analysis-id> <feature-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a feature",
	Args:    cobra.ExactArgs(2),
	RunE:    runFeatureRemove,
}

func featureFlags(fs *pflag.FlagSet, in *kano.FeatureInput, withName bool) {
	if withName {
		fs.StringVar(&in.Name, "name", "", "Feature name")
	}
	fs.StringVar(&in.Description, "description", "", "Feature description")
	fs.StringVar(&in.Area, "area", "", "Feature area used to group insights (default \"General\")")
	fs.IntVarP(&in.FunctionalScore, "functional", "f", 0, "Functional score in [-2, 2]")
	fs.IntVarP(&in.DysfunctionalScore, "dysfunctional", "d", 0, "Dysfunctional score in [-2, 2]")
	fs.IntVarP(&in.Importance, "importance", "i", 3, "Importance in [1, 5]")
	fs.StringSliceVar(&in.LinkedObjectiveIDs, "objective", nil, "Linked strategic objective ID (repeatable)")
}

func init() {
	featureFlags(featureAddCmd.Flags(), &featureAddIn, false)
	featureFlags(featureUpdateCmd.Flags(), &featureUpdateIn, true)

	featureCmd.AddCommand(featureAddCmd, featureUpdateCmd, featureRemoveCmd)
	rootCmd.AddCommand(featureCmd)
}

func runFeatureAdd(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	a, err := resolveAnalysis(e.tracker, args[0])
	if err != nil {
		return err
	}

	in := featureAddIn
	in.Name = args[1]
	f, updated, err := e.tracker.AddFeature(a.ID, in)
	if err != nil {
		return fmt.Errorf("adding feature: %w", err)
	}
	return printFeature(cmd, f, updated)
}

func runFeatureUpdate(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	a, err := resolveAnalysis(e.tracker, args[0])
	if err != nil {
		return err
	}
	current, err := resolveFeature(a, args[1])
	if err != nil {
		return err
	}

	in := mergeFeatureInput(current.Input(), featureUpdateIn, cmd.Flags())
	f, updated, err := e.tracker.UpdateFeature(a.ID, current.ID, in)
	if err != nil {
		return fmt.Errorf("updating feature: %w", err)
	}
	return printFeature(cmd, f, updated)
}

func runFeatureRemove(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	a, err := resolveAnalysis(e.tracker, args[0])
	if err != nil {
		return err
	}
	f, err := resolveFeature(a, args[1])
	if err != nil {
		return err
	}
	updated, err := e.tracker.RemoveFeature(a.ID, f.ID)
	if err != nil {
		return fmt.Errorf("removing feature: %w", err)
	}

	w := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(w, updated)
	}
	fmt.Fprintf(w, " %s %s  %s\n",
		output.StyleWarning.Render("Removed"),
		f.Name,
		output.StyleMuted.Render(fmt.Sprintf("%s score %.2f/100", updated.CompanyName, updated.OverallScore)),
	)
	return nil
}

// mergeFeatureInput overlays the flags that were set on the command line
// onto the current input.
func mergeFeatureInput(current, flags kano.FeatureInput, fs *pflag.FlagSet) kano.FeatureInput {
	in := current
	if fs.Changed("name") {
		in.Name = flags.Name
	}
	if fs.Changed("description") {
		in.Description = flags.Description
	}
	if fs.Changed("area") {
		in.Area = flags.Area
	}
	if fs.Changed("functional") {
		in.FunctionalScore = flags.FunctionalScore
	}
	if fs.Changed("dysfunctional") {
		in.DysfunctionalScore = flags.DysfunctionalScore
	}
	if fs.Changed("importance") {
		in.Importance = flags.Importance
	}
	if fs.Changed("objective") {
		in.LinkedObjectiveIDs = flags.LinkedObjectiveIDs
	}
	return in
}

func printFeature(cmd *cobra.Command, f *kano.Feature, a *kano.CompanyAnalysis) error {
	w := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(w, f)
	}
	renderFeature(w, f, a)
	return nil
}
