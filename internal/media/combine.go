// Package media merges per-participant audio tracks into a single
// multichannel file by invoking ffmpeg with an amerge filter graph.
package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/skillsenselab/meetscribe/internal/apperr"
	"github.com/skillsenselab/meetscribe/internal/logging"
	"github.com/skillsenselab/meetscribe/internal/process"
)

// trackExtension is the only input format the recording provider delivers.
const trackExtension = ".m4a"

// CombineRequest describes one merge invocation.
type CombineRequest struct {
	// Inputs are the track paths in channel order: input i becomes
	// channel i of the output. Must not be re-sorted by the combiner.
	Inputs []string
	// OutputPath is the combined file to produce.
	OutputPath string
	// Overwrite replaces an existing output file instead of failing.
	Overwrite bool
}

// Combiner invokes the external merge tool.
type Combiner struct {
	binary string
	runner process.Runner
	log    *logging.Logger
}

// NewCombiner creates a combiner that shells out to ffmpeg.
func NewCombiner(log *logging.Logger) *Combiner {
	return &Combiner{
		binary: "ffmpeg",
		runner: process.RunnerFunc(process.Run),
		log:    log.WithComponent("media"),
	}
}

// NewCombinerWithRunner creates a combiner with a custom runner. Tests use
// this to capture the constructed command line.
func NewCombinerWithRunner(runner process.Runner, log *logging.Logger) *Combiner {
	c := NewCombiner(log)
	c.runner = runner
	return c
}

// Combine merges the N input tracks into one N-channel output file,
// preserving input order as channel order. The tool runs synchronously; its
// stderr is carried in the error on non-zero exit.
func (c *Combiner) Combine(ctx context.Context, req CombineRequest) (string, error) {
	if !req.Overwrite {
		if _, err := os.Stat(req.OutputPath); err == nil {
			return "", apperr.AlreadyExists(req.OutputPath)
		}
	}
	if len(req.Inputs) == 0 {
		return "", apperr.NoInput(filepath.Dir(req.OutputPath))
	}

	args := buildArgs(req)
	c.log.Info("merging tracks", map[string]any{"inputs": len(req.Inputs), "output": req.OutputPath})
	c.log.Debug("ffmpeg invocation", map[string]any{"args": strings.Join(args, " ")})

	result, err := c.runner.Run(ctx, process.Command{Binary: c.binary, Args: args})
	if err != nil {
		exitCode := -1
		stderr := ""
		if result != nil {
			exitCode = result.ExitCode
			stderr = strings.TrimSpace(string(result.Stderr))
		}
		c.log.WithError(err).Error("merge failed", map[string]any{"exit_code": exitCode})
		return "", apperr.ToolFailed(c.binary, exitCode, stderr, err)
	}

	c.log.Info("merge complete", map[string]any{"output": req.OutputPath, "duration": result.Duration.String()})
	return req.OutputPath, nil
}

// buildArgs constructs the ffmpeg command line: one -i per input, an amerge
// filter joining all numbered input audio streams into [out], and an output
// channel count equal to the input count.
func buildArgs(req CombineRequest) []string {
	overwriteFlag := "-n"
	if req.Overwrite {
		overwriteFlag = "-y"
	}

	args := []string{overwriteFlag}
	var filter strings.Builder
	for i, input := range req.Inputs {
		args = append(args, "-i", input)
		fmt.Fprintf(&filter, "[%d:a]", i)
	}
	fmt.Fprintf(&filter, "amerge=inputs=%d[out]", len(req.Inputs))

	args = append(args,
		"-filter_complex", filter.String(),
		"-map", "[out]",
		"-ac", fmt.Sprintf("%d", len(req.Inputs)),
		req.OutputPath,
	)
	return args
}

// ListTracks returns the eligible audio files in dir, sorted lexically for a
// deterministic order. Callers that already hold a channel map should pass
// its paths to Combine instead, so channel order stays equal to download
// order.
func ListTracks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	var tracks []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), trackExtension) {
			tracks = append(tracks, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(tracks)
	return tracks, nil
}
