package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/stratiq/diagnostic-cli/internal/advisor"
	"github.com/stratiq/diagnostic-cli/internal/model"
	"github.com/stratiq/diagnostic-cli/pkg/anthropic"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the diagnostic report for a review",
	Long: `Runs the full pipeline for one review: KPI scoring, pillar averages,
Business Health Index, industry benchmark comparison, SWOT, recommendations,
and the executive narrative.

Examples:
  # Print the report as a table
  report --review 4f1c...

  # Emit the raw payload as JSON
  report --review 4f1c... --format json --output report.json

  # Persist derived scores for audit and augment the narrative with Claude
  report --review 4f1c... --save-scores --with-advisor`,
	RunE: runReport,
}

func init() {
	f := reportCmd.Flags()
	f.String("review", "", "review id")
	f.String("format", "table", "output format: table or json")
	f.String("output", "", "output file path (default: stdout)")
	f.Bool("save-scores", false, "persist derived scores back to the store")
	f.Bool("with-advisor", false, "augment the narrative via the Anthropic API")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reviewID, _ := cmd.Flags().GetString("review")
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	saveScores, _ := cmd.Flags().GetBool("save-scores")
	withAdvisor, _ := cmd.Flags().GetBool("with-advisor")

	if reviewID == "" {
		return eris.New("report: --review is required")
	}
	if format != "table" && format != "json" {
		return eris.Errorf("report: --format must be table or json (got %q)", format)
	}

	env, err := initPipeline(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	env.Assembler.PersistScores = saveScores

	payload, narrativeOut, err := env.Assembler.AssembleWithNarrative(ctx, reviewID)
	if err != nil {
		return err
	}

	summary := narrativeText(narrativeOut)
	if withAdvisor {
		adv := newAdvisor()
		summary = adv.Augment(ctx, payload, narrativeOut, summary)
	}

	w := os.Stdout
	if outputPath != "" {
		w, err = os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "report: create output file %s", outputPath)
		}
		defer w.Close() //nolint:errcheck
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		out := struct {
			*model.ReportPayload
			Narrative model.Narrative `json:"narrative"`
		}{payload, narrativeOut}
		return eris.Wrap(enc.Encode(out), "report: encode json")
	default:
		return writeReportTable(w, payload, summary)
	}
}

// newAdvisor builds the advisor from config; without an API key it stays
// deterministic-only.
func newAdvisor() *advisor.Advisor {
	if cfg.Anthropic.Key == "" {
		return advisor.New()
	}
	return advisor.New(advisor.WithClient(
		anthropic.NewClient(cfg.Anthropic.Key),
		cfg.Anthropic.Model,
	))
}

func narrativeText(n model.Narrative) string {
	return strings.Join([]string{
		n.Overview, n.Strengths, n.Weaknesses, n.Opportunities, n.Threats, n.PriorityActions,
	}, "\n\n")
}

func writeReportTable(w *os.File, p *model.ReportPayload, summary string) error {
	fmt.Fprintf(w, "Company:   %s\n", p.CompanyInfo.CompanyName)
	fmt.Fprintf(w, "Industry:  %s\n", p.CompanyInfo.Industry)
	fmt.Fprintf(w, "Review:    %s\n", p.CompanyInfo.ReviewID)
	fmt.Fprintf(w, "BHI:       %.2f\n\n", p.BHI)

	fmt.Fprintf(w, "%-22s %10s %6s  %s\n", "KPI", "Value", "Score", "Pillar")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, rec := range p.Scores {
		fmt.Fprintf(w, "%-22s %10.2f %6d  %s\n", rec.KPIID, rec.RawValue, rec.Score, rec.Pillar)
	}

	fmt.Fprintln(w, "\nPillar averages:")
	for _, pillar := range p.Pillars.SortedPillars() {
		fmt.Fprintf(w, "  %-15s %.2f\n", pillar, p.Pillars[pillar])
	}

	if len(p.Benchmarks) > 0 {
		fmt.Fprintf(w, "\n%-22s %7s %10s %7s  %s\n", "KPI", "Score", "Benchmark", "Gap", "Status")
		fmt.Fprintln(w, strings.Repeat("-", 60))
		for _, row := range p.Benchmarks {
			fmt.Fprintf(w, "%-22s %7.2f %10.2f %+7.2f  %s\n",
				row.KPIID, row.Score, row.Benchmark, row.Gap, row.Status)
		}
	}

	fmt.Fprintln(w, "\nRecommendations:")
	for _, rec := range p.Recommendations {
		fmt.Fprintf(w, "  - %s\n", rec)
	}

	fmt.Fprintf(w, "\n%s\n", summary)
	fmt.Fprintf(w, "\nGenerated %s by %s v%s (report %s)\n",
		p.Meta.GeneratedAt.Format("2006-01-02 15:04:05 MST"), p.Meta.Engine, p.Meta.Version, p.Meta.ReportID)
	return nil
}
