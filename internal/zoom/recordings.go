package zoom

import (
	"context"
	"fmt"
	"net/url"

	"github.com/skillsenselab/meetscribe/internal/apperr"
	"github.com/skillsenselab/meetscribe/internal/httpx"
)

// Meeting is one recorded meeting session.
type Meeting struct {
	UUID      string `json:"uuid"`
	ID        int64  `json:"id"`
	Topic     string `json:"topic"`
	StartTime string `json:"start_time"`
	Duration  int    `json:"duration"`
}

// recordingsPage is the "list recordings" response.
type recordingsPage struct {
	From         string    `json:"from"`
	To           string    `json:"to"`
	TotalRecords int       `json:"total_records"`
	Meetings     []Meeting `json:"meetings"`
}

// ParticipantAudioFile is one per-participant audio track of a recording.
type ParticipantAudioFile struct {
	ID             string `json:"id"`
	FileName       string `json:"file_name"`
	FileType       string `json:"file_type"`
	FileExtension  string `json:"file_extension"`
	DownloadURL    string `json:"download_url"`
	RecordingStart string `json:"recording_start"`
	RecordingEnd   string `json:"recording_end"`
}

// meetingRecordings is the "list recordings for one meeting" response.
type meetingRecordings struct {
	UUID                  string                 `json:"uuid"`
	ParticipantAudioFiles []ParticipantAudioFile `json:"participant_audio_files"`
}

// ListRecordings returns the meetings recorded for the account on or after
// the given date (YYYY-MM-DD), in provider order.
func (c *Client) ListRecordings(ctx context.Context, date string) ([]Meeting, error) {
	auth, err := c.bearer(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := httpx.Get[recordingsPage](c.api, ctx, "/users/me/recordings",
		httpx.WithQueryParam("from", date),
		httpx.WithRequestAuth(auth),
	)
	if err != nil {
		return nil, fmt.Errorf("list recordings: %w", err)
	}

	c.log.Debug("recordings listed", map[string]any{"date": date, "count": len(resp.Data.Meetings)})
	return resp.Data.Meetings, nil
}

// FirstRecording returns the first meeting recorded on the given date in
// provider order, or nil when none exists. An empty result is not an error:
// the caller terminates the run cleanly.
func (c *Client) FirstRecording(ctx context.Context, date string) (*Meeting, error) {
	meetings, err := c.ListRecordings(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(meetings) == 0 {
		return nil, nil
	}
	m := meetings[0]
	return &m, nil
}

// ListParticipantTracks returns the per-participant audio files of one
// meeting, in provider order. That order becomes the channel order.
func (c *Client) ListParticipantTracks(ctx context.Context, meetingUUID string) ([]ParticipantAudioFile, error) {
	auth, err := c.bearer(ctx)
	if err != nil {
		return nil, err
	}

	// Meeting UUIDs may contain '/' and '='; escape the path segment.
	path := "/meetings/" + url.PathEscape(meetingUUID) + "/recordings"
	resp, err := httpx.Get[meetingRecordings](c.api, ctx, path, httpx.WithRequestAuth(auth))
	if httpx.IsNotFound(err) {
		return nil, apperr.Newf(apperr.CodeNotFound, "meeting %s has no cloud recording", meetingUUID).WithCause(err)
	}
	if err != nil {
		return nil, fmt.Errorf("list meeting recordings: %w", err)
	}

	return resp.Data.ParticipantAudioFiles, nil
}
