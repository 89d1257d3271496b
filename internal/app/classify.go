package app

import (
	"fmt"
	"strconv"

	"github.com/blackwell-systems/hoshin/internal/kano"
	"github.com/blackwell-systems/hoshin/internal/output"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <functional> <dysfunctional>",
	Short: "Classify a single score pair without storing anything",
	Example: `  hoshin classify 2 1       # performance
  hoshin classify -- 2 -1   # excitement; use -- before negative scores`,
	Args: cobra.ExactArgs(2),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

type classifyResult struct {
	FunctionalScore    int           `json:"functional_score"`
	DysfunctionalScore int           `json:"dysfunctional_score"`
	Category           kano.Category `json:"category"`
	SatisfactionImpact float64       `json:"satisfaction_impact"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	if flagNoColor || !output.StdoutIsTerminal() {
		output.SetNoColor(true)
	}

	functional, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("functional score %q: %w", args[0], err)
	}
	dysfunctional, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("dysfunctional score %q: %w", args[1], err)
	}

	cat, err := kano.Classify(functional, dysfunctional)
	if err != nil {
		return err
	}
	impact, err := kano.Impact(functional, dysfunctional)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	res := classifyResult{
		FunctionalScore:    functional,
		DysfunctionalScore: dysfunctional,
		Category:           cat,
		SatisfactionImpact: impact,
	}
	if flagJSON {
		return writeJSON(w, res)
	}
	fmt.Fprintf(w, " %s  %s\n", output.StyleLabel.Render("Category"), output.Category(cat))
	fmt.Fprintf(w, " %s  %s\n", output.StyleLabel.Render("Satisfaction impact"), output.ImpactValue(impact))
	return nil
}
