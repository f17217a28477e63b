// Package cli defines the meetscribe command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/skillsenselab/meetscribe/internal/config"
	"github.com/skillsenselab/meetscribe/internal/logging"
	"github.com/skillsenselab/meetscribe/internal/version"
)

// Dependencies holds what the commands need at runtime.
type Dependencies struct {
	Config *config.Config
	Log    *logging.Logger
}

// NewRootCmd builds the root command.
func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "meetscribe",
		Short: "Transcribe cloud meeting recordings with per-participant labels",
		Long: "meetscribe downloads a meeting's per-participant audio tracks, merges\n" +
			"them into one multichannel file, and produces a transcript where every\n" +
			"utterance is labeled with the participant who said it.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.Full() + "\n")

	rootCmd.AddCommand(NewRunCmd(deps))
	rootCmd.AddCommand(NewCombineCmd(deps))
	rootCmd.AddCommand(NewDoctorCmd(deps))

	return rootCmd
}
