package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var compressCmd = &cobra.Command{
	Use:   "compress <applicant-id>",
	Short: "Collect the applicant's child records into the compressed profile",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		r := newRuntime()

		if err := r.syncer().Compress(args[0]); err != nil {
			r.logger.Fatal("compressing applicant data", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(compressCmd)
}
