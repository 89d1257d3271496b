package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/blackwell-systems/hoshin/internal/kano"
	"github.com/blackwell-systems/hoshin/internal/output"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func barWidth(width int) int {
	if width <= 0 {
		return 20
	}
	return max(10, width/4)
}

// renderAnalyses prints the analysis list.
func renderAnalyses(w io.Writer, analyses []*kano.CompanyAnalysis, width int) {
	fmt.Fprintln(w, output.Section("Analyses"))
	fmt.Fprintln(w)
	if len(analyses) == 0 {
		fmt.Fprintf(w, " %s\n", output.StyleMuted.Render("No analyses yet. Create one with 'hoshin analysis new'."))
		return
	}

	tbl := output.NewTable("ID", "Company", "Type", "Features", "Score", "Date")
	for _, a := range analyses {
		tbl.AddRow(
			shortID(a.ID),
			a.CompanyName,
			string(a.CompanyType),
			fmt.Sprintf("%d", len(a.Features)),
			output.ScoreBar(a.OverallScore, barWidth(width)/2),
			a.AnalysisDate.Format("2006-01-02"),
		)
	}
	tbl.Fprint(w)
}

// renderAnalysis prints one analysis with its features and summary.
func renderAnalysis(w io.Writer, a *kano.CompanyAnalysis, totals map[kano.Category]int, width int) {
	fmt.Fprintln(w, output.Section(a.CompanyName))
	fmt.Fprintln(w)

	label := func(l, v string) {
		fmt.Fprintf(w, " %s  %s\n", output.StyleLabel.Render(l), v)
	}
	label("ID", a.ID)
	label("Type", string(a.CompanyType))
	if a.Industry != "" {
		label("Industry", a.Industry)
	}
	label("Date", a.AnalysisDate.Format("2006-01-02 15:04"))
	label("Overall score", output.ScoreBar(a.OverallScore, barWidth(width)))
	fmt.Fprintln(w)

	fmt.Fprintln(w, output.Section("Features"))
	fmt.Fprintln(w)
	if len(a.Features) == 0 {
		fmt.Fprintf(w, " %s\n", output.StyleMuted.Render("No features yet. Add one with 'hoshin feature add'."))
	} else {
		tbl := output.NewTable("ID", "Feature", "Area", "F", "D", "Imp", "Category", "Impact")
		for _, f := range a.Features {
			tbl.AddRow(
				shortID(f.ID),
				f.Name,
				f.AreaName(),
				fmt.Sprintf("%+d", f.FunctionalScore()),
				fmt.Sprintf("%+d", f.DysfunctionalScore()),
				fmt.Sprintf("%d", f.Importance()),
				output.Category(f.Category()),
				output.ImpactValue(f.SatisfactionImpact()),
			)
		}
		tbl.Fprint(w)

		counts := make([]string, 0, len(kano.Categories))
		for _, c := range kano.Categories {
			if n := totals[c]; n > 0 {
				counts = append(counts, fmt.Sprintf("%s %d", output.Category(c), n))
			}
		}
		fmt.Fprintf(w, "\n %s\n", strings.Join(counts, "  "))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, output.Section("Summary"))
	fmt.Fprintln(w)
	label("Strengths", listOrNone(a.StrengthAreas))
	label("Weaknesses", listOrNone(a.WeaknessAreas))
}

// renderFeature prints a single classified feature.
func renderFeature(w io.Writer, f *kano.Feature, a *kano.CompanyAnalysis) {
	fmt.Fprintf(w, " %s  %s  %s  %s\n",
		output.StyleBold.Render(f.Name),
		output.StyleMuted.Render(shortID(f.ID)),
		output.Category(f.Category()),
		output.ImpactValue(f.SatisfactionImpact()),
	)
	fmt.Fprintf(w, " %s  %.2f/100\n", output.StyleLabel.Render(a.CompanyName+" score"), a.OverallScore)
}

// renderComparison prints the ranked insights of a comparison.
func renderComparison(w io.Writer, c *kano.Comparison, width int) {
	fmt.Fprintln(w, output.Section("Companies"))
	fmt.Fprintln(w)
	companies := append([]*kano.CompanyAnalysis{c.Self}, c.Competitors...)
	for _, a := range companies {
		fmt.Fprintf(w, " %s  %s\n",
			output.StyleLabel.Render(fmt.Sprintf("%s (%s)", a.CompanyName, a.CompanyType)),
			output.ScoreBar(a.OverallScore, barWidth(width)),
		)
	}
	fmt.Fprintln(w)
	renderInsights(w, c.Insights)
}

// renderInsights prints insights in their ranked order.
func renderInsights(w io.Writer, insights []kano.Insight) {
	fmt.Fprintln(w, output.Section(fmt.Sprintf("Insights (%d)", len(insights))))
	fmt.Fprintln(w)
	if len(insights) == 0 {
		fmt.Fprintf(w, " %s\n", output.StyleMuted.Render("No insights: the companies are evenly matched."))
		return
	}
	for _, in := range insights {
		fmt.Fprintf(w, " %s %s  %s %s\n",
			output.InsightIcon(in.Type),
			output.Priority(in.Priority),
			output.StyleBold.Render(in.Title),
			output.StyleMuted.Render("["+in.Area+"]"),
		)
		fmt.Fprintf(w, "        %s\n", in.Description)
	}
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return output.StyleMuted.Render("none")
	}
	return strings.Join(items, ", ")
}
