package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Manage assessment reviews",
}

var reviewNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a new review for a company",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		company, _ := cmd.Flags().GetString("company")
		industry, _ := cmd.Flags().GetString("industry")
		if company == "" {
			return eris.New("review: --company is required")
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		review, err := env.Store.CreateReview(ctx, company, industry)
		if err != nil {
			return eris.Wrap(err, "review: create")
		}

		fmt.Printf("Review created: %s\n", review.ID)
		return nil
	},
}

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reviews, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		limit, _ := cmd.Flags().GetInt("limit")

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		reviews, err := env.Store.ListReviews(ctx, limit)
		if err != nil {
			return eris.Wrap(err, "review: list")
		}
		if len(reviews) == 0 {
			fmt.Println("No reviews.")
			return nil
		}

		fmt.Printf("%-36s  %-30s  %-15s  %s\n", "ID", "Company", "Industry", "Created")
		for _, r := range reviews {
			fmt.Printf("%-36s  %-30s  %-15s  %s\n",
				r.ID, r.CompanyName, r.Industry, r.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	reviewNewCmd.Flags().String("company", "", "company name")
	reviewNewCmd.Flags().String("industry", "", "industry for benchmark comparison")
	reviewListCmd.Flags().Int("limit", 50, "maximum reviews to list")

	reviewCmd.AddCommand(reviewNewCmd, reviewListCmd)
	rootCmd.AddCommand(reviewCmd)
}
