package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skillsenselab/meetscribe/internal/assemblyai"
	"github.com/skillsenselab/meetscribe/internal/process"
)

// NewDoctorCmd builds the doctor command: checks every prerequisite of a run
// without talking to any provider.
func NewDoctorCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check prerequisites",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ok := true

			if path, err := process.LookPath("ffmpeg"); err != nil {
				fmt.Fprintln(out, "[fail] ffmpeg: not found on PATH")
				ok = false
			} else {
				fmt.Fprintf(out, "[ ok ] ffmpeg: %s\n", path)
			}

			creds := []struct {
				name  string
				value string
			}{
				{"ZOOM_ACCOUNT_ID", deps.Config.Zoom.AccountID},
				{"ZOOM_CLIENT_ID", deps.Config.Zoom.ClientID},
				{"ZOOM_CLIENT_SECRET", deps.Config.Zoom.ClientSecret},
				{"ASSEMBLYAI_API_KEY", deps.Config.AssemblyAI.APIKey},
			}
			for _, c := range creds {
				if c.value == "" {
					fmt.Fprintf(out, "[fail] %s: not set\n", c.name)
					ok = false
				} else {
					fmt.Fprintf(out, "[ ok ] %s: configured\n", c.name)
				}
			}

			if deps.Config.AssemblyAI.APIKey != "" {
				p := assemblyai.NewProvider(deps.Config.AssemblyAI, deps.Log)
				if p.IsAvailable(cmd.Context()) {
					fmt.Fprintln(out, "[ ok ] AssemblyAI API: key accepted")
				} else {
					fmt.Fprintln(out, "[fail] AssemblyAI API: key rejected or unreachable")
					ok = false
				}
			}

			if ok {
				fmt.Fprintln(out, "\nAll prerequisites met.")
				return nil
			}
			fmt.Fprintln(out, "\nSome prerequisites are missing.")
			return fmt.Errorf("prerequisites missing")
		},
	}
}
