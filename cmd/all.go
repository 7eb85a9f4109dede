package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var allCmd = &cobra.Command{
	Use:   "all <applicant-id>",
	Short: "Run compress, shortlist, and llm-evaluate in sequence",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		r := newRuntime()
		id := args[0]

		if err := r.syncer().Compress(id); err != nil {
			r.logger.Fatal("compressing applicant data", zap.String("stage", "compress"), zap.Error(err))
		}

		if err := r.shortlister().Run(id); err != nil {
			r.logger.Fatal("shortlisting applicant", zap.String("stage", "shortlist"), zap.Error(err))
		}

		evaluator, err := r.evaluator()
		if err != nil {
			r.logger.Fatal("building llm evaluator", zap.String("stage", "llm-evaluate"), zap.Error(err))
		}
		if err := evaluator.Run(r.ctx, id); err != nil {
			r.logger.Fatal("evaluating applicant", zap.String("stage", "llm-evaluate"), zap.Error(err))
		}

		r.logger.Info("pipeline complete", zap.String("applicant_id", id))
	},
}

func init() {
	rootCmd.AddCommand(allCmd)
}
