// Package pipeline orchestrates one end-to-end run: find a meeting
// recording, download its participant tracks, merge them into a single
// multichannel file, transcribe, and emit the labeled transcript.
package pipeline

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/skillsenselab/meetscribe/internal/logging"
	"github.com/skillsenselab/meetscribe/internal/media"
	"github.com/skillsenselab/meetscribe/internal/transcript"
	"github.com/skillsenselab/meetscribe/internal/zoom"
)

// RecordingSource finds meeting recordings and downloads their tracks.
type RecordingSource interface {
	FirstRecording(ctx context.Context, date string) (*zoom.Meeting, error)
	DownloadParticipantTracks(ctx context.Context, meetingUUID, destDir string) (transcript.ChannelMap, error)
}

// AudioCombiner merges ordered tracks into one multichannel file.
type AudioCombiner interface {
	Combine(ctx context.Context, req media.CombineRequest) (string, error)
}

// Transcriber produces a multichannel transcript from a local audio file.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*transcript.Transcript, error)
}

// Options are the per-run settings.
type Options struct {
	// Date selects recordings by day (YYYY-MM-DD). Empty means today (UTC).
	Date string
	// WorkDir receives the downloaded participant tracks.
	WorkDir string
	// CombinedPath is the merged multichannel output file.
	CombinedPath string
	// OutputPath is the persisted labeled transcript.
	OutputPath string
	// Overwrite replaces an existing combined file instead of failing.
	Overwrite bool
}

// Pipeline wires the stages together.
type Pipeline struct {
	source   RecordingSource
	combiner AudioCombiner
	stt      Transcriber
	log      *logging.Logger
	out      io.Writer
	now      func() time.Time
}

// New creates a pipeline. Rendered utterances go to out; pass os.Stdout for
// interactive runs.
func New(source RecordingSource, combiner AudioCombiner, stt Transcriber, log *logging.Logger, out io.Writer) *Pipeline {
	if out == nil {
		out = os.Stdout
	}
	return &Pipeline{
		source:   source,
		combiner: combiner,
		stt:      stt,
		log:      log.WithComponent("pipeline"),
		out:      out,
		now:      time.Now,
	}
}

// Run executes the full pipeline for one meeting. When no recording exists
// for the date it returns (nil, nil) without touching the filesystem. The
// stages run strictly in sequence; the first failure aborts the run.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*transcript.Record, error) {
	date := opts.Date
	if date == "" {
		date = p.now().UTC().Format("2006-01-02")
	}

	runID := uuid.NewString()
	log := p.log.WithField("run_id", runID)
	log.Info("run started", map[string]any{"date": date})

	meeting, err := p.source.FirstRecording(ctx, date)
	if err != nil {
		return nil, err
	}
	if meeting == nil {
		log.Info("no recordings found", map[string]any{"date": date})
		return nil, nil
	}
	log.Info("meeting selected", map[string]any{"uuid": meeting.UUID, "topic": meeting.Topic})

	channels, err := p.source.DownloadParticipantTracks(ctx, meeting.UUID, opts.WorkDir)
	if err != nil {
		return nil, err
	}
	log.Info("tracks downloaded", map[string]any{"count": len(channels)})

	combined, err := p.combiner.Combine(ctx, media.CombineRequest{
		Inputs:     channels.Paths(),
		OutputPath: opts.CombinedPath,
		Overwrite:  opts.Overwrite,
	})
	if err != nil {
		return nil, err
	}

	tr, err := p.stt.Transcribe(ctx, combined)
	if err != nil {
		return nil, err
	}
	log.Info("transcription complete", map[string]any{"utterances": len(tr.Utterances), "channels": tr.AudioChannels})

	record := transcript.Label(meeting.UUID, tr, channels, p.now())
	if err := record.Render(p.out); err != nil {
		return nil, err
	}
	if err := record.WriteJSON(opts.OutputPath); err != nil {
		return nil, err
	}
	log.Info("transcript written", map[string]any{"path": opts.OutputPath})

	return record, nil
}
