package cmd

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/karev/applicant-sync/internal/applicant"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var decompressCmd = &cobra.Command{
	Use:   "decompress <applicant-id>",
	Short: "Apply the compressed profile back onto the child tables",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		r := newRuntime()

		if !confirmDecompress(cmd, r, args[0]) {
			r.logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}

		if err := r.syncer().Decompress(args[0]); err != nil {
			r.logger.Fatal("applying compressed profile", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(decompressCmd)

	decompressCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation before applying the profile")
}

// confirmDecompress asks before a destructive apply when running
// interactively, naming how many linked work experience rows are on the
// line. Non-interactive runs proceed, keeping scripted usage working.
func confirmDecompress(cmd *cobra.Command, r *runtime, id string) bool {
	if cmd.Flag("yes").Value.String() == "true" {
		return true
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return true
	}

	label := "Apply the compressed profile? Stale work experience records will be deleted"
	if record, err := r.store.FindApplicant(id); err == nil {
		label = fmt.Sprintf("Apply the compressed profile? %d linked work experience records may be updated or deleted",
			len(record.LinkedIDs(applicant.FieldExperienceLink)))
	}

	prompt := promptui.Select{
		Label: label,
		Items: []string{PromptYes, PromptNo},
	}

	_, action, err := prompt.Run()
	if err != nil {
		return false
	}

	return action == PromptYes
}
