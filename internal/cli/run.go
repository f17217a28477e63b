package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/skillsenselab/meetscribe/internal/assemblyai"
	"github.com/skillsenselab/meetscribe/internal/media"
	"github.com/skillsenselab/meetscribe/internal/pipeline"
	"github.com/skillsenselab/meetscribe/internal/zoom"
)

// NewRunCmd builds the run command: one full download-merge-transcribe pass.
func NewRunCmd(deps *Dependencies) *cobra.Command {
	var (
		date      string
		workDir   string
		combined  string
		output    string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Transcribe the first recording of a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.Config.Validate(); err != nil {
				return err
			}

			opts := pipeline.Options{
				Date:         deps.Config.Run.Date,
				WorkDir:      deps.Config.Run.WorkDir,
				CombinedPath: deps.Config.Run.CombinedPath,
				OutputPath:   deps.Config.Run.OutputPath,
				Overwrite:    deps.Config.Run.Overwrite,
			}
			if cmd.Flags().Changed("date") {
				opts.Date = date
			}
			if cmd.Flags().Changed("work-dir") {
				opts.WorkDir = workDir
			}
			if cmd.Flags().Changed("combined") {
				opts.CombinedPath = combined
			}
			if cmd.Flags().Changed("output") {
				opts.OutputPath = output
			}
			if cmd.Flags().Changed("overwrite") {
				opts.Overwrite = overwrite
			}

			p := pipeline.New(
				zoom.NewClient(deps.Config.Zoom, deps.Log),
				media.NewCombiner(deps.Log),
				assemblyai.NewProvider(deps.Config.AssemblyAI, deps.Log),
				deps.Log,
				os.Stdout,
			)
			_, err := p.Run(cmd.Context(), opts)
			return err
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "recording date (YYYY-MM-DD, default today UTC)")
	cmd.Flags().StringVar(&workDir, "work-dir", "tmp", "directory for downloaded tracks")
	cmd.Flags().StringVar(&combined, "combined", "combined_audio.m4a", "combined multichannel output file")
	cmd.Flags().StringVar(&output, "output", "transcript.json", "labeled transcript output file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace an existing combined file")

	return cmd
}
