package main

import (
	"fmt"
	"os/signal"
	"sort"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/stratiq/diagnostic-cli/internal/finance"
)

var financeCmd = &cobra.Command{
	Use:   "finance",
	Short: "Import and analyze financial statement workbooks",
}

var financeImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a financial statement workbook into a review",
	Long: `Parses a three-year financial statement workbook (Income_Statement,
Balance_Sheet, and Cash_Flow sheets), derives the analysis metrics and
risk alerts, and saves the financial KPI values onto the review.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		reviewID, _ := cmd.Flags().GetString("review")
		file, _ := cmd.Flags().GetString("file")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		if reviewID == "" || file == "" {
			return eris.New("finance: --review and --file are required")
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if _, err := env.Store.GetReview(ctx, reviewID); err != nil {
			return err
		}

		statements, err := finance.ParseWorkbook(file)
		if err != nil {
			return err
		}
		metrics := finance.Analyze(statements)
		values := finance.KPIValues(metrics)

		printMetrics(metrics)
		printAlerts(finance.Alerts(metrics))

		if dryRun {
			fmt.Println("\nDry run: no KPI values saved.")
			return nil
		}

		if err := env.Store.SaveKPIValues(ctx, reviewID, values); err != nil {
			return eris.Wrap(err, "finance: save kpi values")
		}

		ids := make([]string, 0, len(values))
		for id := range values {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		fmt.Println("\nSaved KPI values:")
		for _, id := range ids {
			fmt.Printf("  %-22s %g\n", id, values[id])
		}
		return nil
	},
}

func init() {
	financeImportCmd.Flags().String("review", "", "review id")
	financeImportCmd.Flags().String("file", "", "path to the .xlsx workbook")
	financeImportCmd.Flags().Bool("dry-run", false, "analyze without saving KPI values")

	financeCmd.AddCommand(financeImportCmd)
	rootCmd.AddCommand(financeCmd)
}

func printMetrics(m finance.Metrics) {
	fmt.Println("Financial analysis:")
	fmt.Printf("  Revenue CAGR:     %+.1f%%\n", m.RevCAGR*100)
	fmt.Printf("  Revenue growth:   %+.1f%% / %+.1f%%\n", m.RevGrowthY1*100, m.RevGrowthY2*100)
	fmt.Printf("  EBITDA margin:    %.1f%%\n", m.EBITDAMargin*100)
	fmt.Printf("  Net margin:       %.1f%%\n", m.NetMargin*100)
	fmt.Printf("  ROA / ROE:        %.1f%% / %.1f%%\n", m.ROA*100, m.ROE*100)
	fmt.Printf("  Current ratio:    %.2f\n", m.CurrentRatio)
	fmt.Printf("  Debt ratio:       %.2f\n", m.DebtRatio)
	fmt.Printf("  Free cash flow:   %.0f\n", m.FreeCashFlow)
}

func printAlerts(alerts []finance.Alert) {
	if len(alerts) == 0 {
		fmt.Println("\nNo financial risk alerts.")
		return
	}
	fmt.Println("\nRisk alerts:")
	for _, a := range alerts {
		fmt.Printf("  [%s] %s\n", a.Severity, a.Message)
	}
}
