package app

import (
	"fmt"
	"os"

	"github.com/blackwell-systems/hoshin/internal/kano"
	"github.com/blackwell-systems/hoshin/internal/output"
	"github.com/spf13/cobra"
)

var (
	analysisIndustry string
	analysisType     string
	analysisOutput   string
)

var analysisCmd = &cobra.Command{
	Use:     "analysis",
	Aliases: []string{"analyses", "a"},
	Short:   "Manage company analyses",
	Long: `An analysis is one company's set of Kano-classified features together with
its overall score, strength areas and weakness areas. Analysis IDs may be
abbreviated to any unique prefix.`,
}

var analysisNewCmd = &cobra.Command{
	Use:   "new <company>",
	Short: "Create an empty analysis",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalysisNew,
}

var analysisListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List analyses",
	Args:    cobra.NoArgs,
	RunE:    runAnalysisList,
}

var analysisShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an analysis with its features",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalysisShow,
}

var analysisDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete an analysis and its features",
	Args:    cobra.ExactArgs(1),
	RunE:    runAnalysisDelete,
}

var analysisImportCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Import analyses from a YAML file",
	Long: `Import every analysis in a YAML document as a new analysis. Categories,
impacts and summaries are computed on import. Nothing is stored when any
entry is invalid.

  analyses:
    - company_name: Acme
      company_type: self
      features:
        - name: Dark mode
          area: UX
          functional_score: 2
          dysfunctional_score: -1
          importance: 4`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalysisImport,
}

var analysisExportCmd = &cobra.Command{
	Use:   "export [id...]",
	Short: "Export analyses as YAML",
	RunE:  runAnalysisExport,
}

func init() {
	analysisNewCmd.Flags().StringVar(&analysisIndustry, "industry", "", "Industry of the company")
	analysisNewCmd.Flags().StringVar(&analysisType, "type", string(kano.CompanySelf), "Company type: self or competitor")
	analysisExportCmd.Flags().StringVarP(&analysisOutput, "output", "o", "", "Write to file instead of stdout")

	analysisCmd.AddCommand(analysisNewCmd, analysisListCmd, analysisShowCmd,
		analysisDeleteCmd, analysisImportCmd, analysisExportCmd)
	rootCmd.AddCommand(analysisCmd)
}

func runAnalysisNew(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	a, err := e.tracker.CreateAnalysis(args[0], analysisIndustry, kano.CompanyType(analysisType))
	if err != nil {
		return fmt.Errorf("creating analysis: %w", err)
	}

	w := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(w, a)
	}
	fmt.Fprintf(w, " %s %s (%s) %s\n",
		output.StyleSuccess.Render("Created"),
		output.StyleBold.Render(a.CompanyName),
		a.CompanyType,
		output.StyleMuted.Render(a.ID),
	)
	return nil
}

func runAnalysisList(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	analyses, err := e.tracker.Analyses()
	if err != nil {
		return fmt.Errorf("listing analyses: %w", err)
	}

	w := cmd.OutOrStdout()
	if flagJSON {
		if analyses == nil {
			analyses = []*kano.CompanyAnalysis{}
		}
		return writeJSON(w, analyses)
	}
	renderAnalyses(w, analyses, e.cfg.Output.Width)
	return nil
}

func runAnalysisShow(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	a, err := resolveAnalysis(e.tracker, args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(w, a)
	}
	renderAnalysis(w, a, kano.CategoryCounts(a.Features), e.cfg.Output.Width)
	return nil
}

func runAnalysisDelete(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	a, err := resolveAnalysis(e.tracker, args[0])
	if err != nil {
		return err
	}
	if err := e.tracker.DeleteAnalysis(a.ID); err != nil {
		return fmt.Errorf("deleting analysis: %w", err)
	}
	if !flagJSON {
		fmt.Fprintf(cmd.OutOrStdout(), " %s %s\n", output.StyleWarning.Render("Deleted"), a.CompanyName)
	}
	return nil
}

func runAnalysisImport(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	imported, err := e.tracker.ImportYAML(f)
	if err != nil {
		return fmt.Errorf("importing %s: %w", args[0], err)
	}

	w := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(w, imported)
	}
	renderAnalyses(w, imported, e.cfg.Output.Width)
	return nil
}

func runAnalysisExport(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	ids := make([]string, 0, len(args))
	for _, ref := range args {
		a, err := resolveAnalysis(e.tracker, ref)
		if err != nil {
			return err
		}
		ids = append(ids, a.ID)
	}

	if analysisOutput == "" {
		return e.tracker.ExportYAML(cmd.OutOrStdout(), ids...)
	}
	f, err := os.Create(analysisOutput)
	if err != nil {
		return err
	}
	if err := e.tracker.ExportYAML(f, ids...); err != nil {
		_ = f.Close()
		return fmt.Errorf("exporting analyses: %w", err)
	}
	return f.Close()
}
