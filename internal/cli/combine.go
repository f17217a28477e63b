package cli

import (
	"github.com/spf13/cobra"

	"github.com/skillsenselab/meetscribe/internal/media"
)

// NewCombineCmd builds the combine command: merge already-downloaded tracks
// from a directory without touching any provider. Channel order follows the
// lexically sorted file names.
func NewCombineCmd(deps *Dependencies) *cobra.Command {
	var (
		dir       string
		output    string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "combine",
		Short: "Merge a directory of audio tracks into one multichannel file",
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := media.ListTracks(dir)
			if err != nil {
				return err
			}
			_, err = media.NewCombiner(deps.Log).Combine(cmd.Context(), media.CombineRequest{
				Inputs:     inputs,
				OutputPath: output,
				Overwrite:  overwrite,
			})
			return err
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "tmp", "directory holding the audio tracks")
	cmd.Flags().StringVar(&output, "output", "combined_audio.m4a", "combined multichannel output file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace an existing output file")

	return cmd
}
