package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var evaluateCmd = &cobra.Command{
	Use:     "llm-evaluate <applicant-id>",
	Aliases: []string{"evaluate"},
	Short:   "Review the applicant's profile with the configured LLM",
	Args:    cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		r := newRuntime()

		evaluator, err := r.evaluator()
		if err != nil {
			r.logger.Fatal("building llm evaluator", zap.Error(err))
		}

		if err := evaluator.Run(r.ctx, args[0]); err != nil {
			r.logger.Fatal("evaluating applicant", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
}
