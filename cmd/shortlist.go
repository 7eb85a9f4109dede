package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var shortlistCmd = &cobra.Command{
	Use:   "shortlist <applicant-id>",
	Short: "Evaluate the applicant's profile against the shortlist rules",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		r := newRuntime()

		if err := r.shortlister().Run(args[0]); err != nil {
			r.logger.Fatal("shortlisting applicant", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(shortlistCmd)
}
