package zoom

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/skillsenselab/meetscribe/internal/apperr"
	"github.com/skillsenselab/meetscribe/internal/httpx"
	"github.com/skillsenselab/meetscribe/internal/transcript"
)

// DownloadParticipantTracks downloads every participant audio file of the
// meeting into destDir and returns the channel map. Tracks are fetched in
// provider order; the entry at index i of the returned map is channel i of
// the eventual combined file. Any single failed download aborts the run.
func (c *Client) DownloadParticipantTracks(ctx context.Context, meetingUUID, destDir string) (transcript.ChannelMap, error) {
	files, err := c.ListParticipantTracks(ctx, meetingUUID)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("create destination dir: %w", err)
	}

	auth, err := c.bearer(ctx)
	if err != nil {
		return nil, err
	}

	channels := make(transcript.ChannelMap, 0, len(files))
	occurrences := make(map[string]int, len(files))

	for _, file := range files {
		name := participantName(file.FileName)
		occurrences[name]++
		label := name
		if occurrences[name] > 1 {
			label = fmt.Sprintf("%s_%d", name, occurrences[name])
			c.log.Warn("duplicate participant name", map[string]any{"participant": name, "file": label + ".m4a"})
		}

		localPath := filepath.Join(destDir, label+".m4a")
		if err := c.downloadTrack(ctx, file.DownloadURL, localPath, auth); err != nil {
			return nil, apperr.DownloadFailed(name, err)
		}

		c.log.Info("track downloaded", map[string]any{"participant": name, "path": localPath})
		channels = append(channels, transcript.ChannelEntry{Path: localPath, Participant: name})
	}

	return channels, nil
}

// downloadTrack streams one track to localPath.
func (c *Client) downloadTrack(ctx context.Context, downloadURL, localPath string, auth *httpx.AuthConfig) error {
	f, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", localPath, err)
	}
	defer func() { _ = f.Close() }()

	if err := c.api.Download(ctx, downloadURL, auth, f); err != nil {
		return err
	}
	return f.Close()
}

// participantName derives a display name from the provider's file name: the
// substring after the final '-', whitespace-trimmed. The provider prefixes
// file names with "Audio only - <name>"-style conventions.
func participantName(fileName string) string {
	if idx := strings.LastIndex(fileName, "-"); idx >= 0 {
		return strings.TrimSpace(fileName[idx+1:])
	}
	return strings.TrimSpace(fileName)
}
