package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/stratiq/diagnostic-cli/internal/model"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate reports for many reviews concurrently",
	Long: `Assembles reports for every listed review and writes one JSON file per
review into the output directory. Reviews are independent, so assembly
fans out across workers; a review that fails (missing, no inputs) is
reported and skipped without aborting the rest.`,
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.StringSlice("review", nil, "review id (repeatable); default: the most recent reviews")
	f.String("output-dir", "reports", "directory for per-review JSON reports")
	f.Int("workers", 4, "concurrent assembly workers")
	f.Bool("save-scores", false, "persist derived scores back to the store")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reviewIDs, _ := cmd.Flags().GetStringSlice("review")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	workers, _ := cmd.Flags().GetInt("workers")
	saveScores, _ := cmd.Flags().GetBool("save-scores")

	if workers < 1 {
		workers = 1
	}

	env, err := initPipeline(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	env.Assembler.PersistScores = saveScores

	if len(reviewIDs) == 0 {
		reviews, err := env.Store.ListReviews(ctx, 0)
		if err != nil {
			return eris.Wrap(err, "batch: list reviews")
		}
		for _, r := range reviews {
			reviewIDs = append(reviewIDs, r.ID)
		}
	}
	if len(reviewIDs) == 0 {
		fmt.Println("No reviews to process.")
		return nil
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return eris.Wrapf(err, "batch: create output dir %s", outputDir)
	}

	var (
		mu     sync.Mutex
		done   int
		failed []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, id := range reviewIDs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			payload, n, err := env.Assembler.AssembleWithNarrative(gctx, id)
			if err != nil {
				zap.L().Warn("batch: review skipped",
					zap.String("review_id", id),
					zap.Error(err),
				)
				mu.Lock()
				failed = append(failed, id)
				mu.Unlock()
				return nil
			}

			if err := writeBatchReport(outputDir, id, payload, n); err != nil {
				return err
			}

			mu.Lock()
			done++
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("Wrote %d report(s) to %s\n", done, outputDir)
	for _, id := range failed {
		fmt.Printf("Skipped %s (see log)\n", id)
	}
	return nil
}

func writeBatchReport(dir, reviewID string, payload *model.ReportPayload, n model.Narrative) error {
	out := struct {
		*model.ReportPayload
		Narrative model.Narrative `json:"narrative"`
	}{payload, n}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return eris.Wrapf(err, "batch: encode report for review %s", reviewID)
	}

	path := filepath.Join(dir, reviewID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "batch: write %s", path)
	}
	return nil
}
