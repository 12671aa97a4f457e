package main

import (
	"fmt"
	"os/signal"
	"sort"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var inputCmd = &cobra.Command{
	Use:   "input",
	Short: "Enter and inspect KPI measurements for a review",
}

var inputSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set a KPI value (overwrites any prior entry)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		reviewID, _ := cmd.Flags().GetString("review")
		kpiID, _ := cmd.Flags().GetString("kpi")
		value, _ := cmd.Flags().GetFloat64("value")
		if reviewID == "" || kpiID == "" {
			return eris.New("input: --review and --kpi are required")
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		// Review must exist; an unknown KPI id is allowed but flagged,
		// since the scoring engine will silently skip it.
		if _, err := env.Store.GetReview(ctx, reviewID); err != nil {
			return err
		}
		if _, ok := env.Registry.KPI(kpiID); !ok {
			fmt.Printf("Warning: %s is not a registered KPI and will not be scored.\n", kpiID)
		}

		if err := env.Store.SaveKPIValue(ctx, reviewID, kpiID, value); err != nil {
			return eris.Wrap(err, "input: save")
		}
		fmt.Printf("Saved %s = %g\n", kpiID, value)
		return nil
	},
}

var inputListCmd = &cobra.Command{
	Use:   "list",
	Short: "List entered KPI values for a review",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		reviewID, _ := cmd.Flags().GetString("review")
		if reviewID == "" {
			return eris.New("input: --review is required")
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if _, err := env.Store.GetReview(ctx, reviewID); err != nil {
			return err
		}

		inputs, err := env.Store.GetKPIInputs(ctx, reviewID)
		if err != nil {
			return eris.Wrap(err, "input: list")
		}
		if len(inputs) == 0 {
			fmt.Println("No KPI inputs entered.")
			return nil
		}

		ids := make([]string, 0, len(inputs))
		for id := range inputs {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			name := id
			if def, ok := env.Registry.KPI(id); ok {
				name = def.Name
			}
			fmt.Printf("%-22s  %-32s  %g\n", id, name, inputs[id])
		}
		return nil
	},
}

func init() {
	inputSetCmd.Flags().String("review", "", "review id")
	inputSetCmd.Flags().String("kpi", "", "KPI id (see registry defaults)")
	inputSetCmd.Flags().Float64("value", 0, "raw measurement value")
	inputListCmd.Flags().String("review", "", "review id")

	inputCmd.AddCommand(inputSetCmd, inputListCmd)
	rootCmd.AddCommand(inputCmd)
}
