package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask a business question about a review's report",
	Long: `Answers a free-form question grounded in the review's assembled report.
Answers are deterministic keyword-routed responses; pass --llm to also
expand the narrative through the Anthropic API when a key is configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		reviewID, _ := cmd.Flags().GetString("review")
		question, _ := cmd.Flags().GetString("question")
		useLLM, _ := cmd.Flags().GetBool("llm")

		if question == "" && len(args) > 0 {
			question = strings.Join(args, " ")
		}
		if reviewID == "" || question == "" {
			return eris.New("ask: --review and --question are required")
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		payload, n, err := env.Assembler.AssembleWithNarrative(ctx, reviewID)
		if err != nil {
			return err
		}

		adv := newAdvisor()
		fmt.Println(adv.Answer(payload, question))

		if useLLM {
			fmt.Println()
			fmt.Println(adv.Augment(ctx, payload, n, narrativeText(n)))
		}
		return nil
	},
}

func init() {
	askCmd.Flags().String("review", "", "review id")
	askCmd.Flags().String("question", "", "question to answer")
	askCmd.Flags().Bool("llm", false, "also expand the narrative via the Anthropic API")

	rootCmd.AddCommand(askCmd)
}
