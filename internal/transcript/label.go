package transcript

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// LabeledUtterance is an utterance carrying its participant name.
type LabeledUtterance struct {
	Participant string  `json:"participant"`
	StartMS     int     `json:"start_ms"`
	EndMS       int     `json:"end_ms"`
	Text        string  `json:"text"`
	Confidence  float64 `json:"confidence"`
}

// Record is the system's final artifact: the labeled transcript of one
// meeting recording.
type Record struct {
	MeetingUUID   string             `json:"meeting_uuid"`
	TranscribedAt time.Time          `json:"transcribed_at"`
	NumChannels   int                `json:"num_channels"`
	Utterances    []LabeledUtterance `json:"utterances"`
}

// Label maps every utterance's channel back to a participant name using the
// channel map. A channel value that is not a valid index into the map
// degrades to an UnknownChannel placeholder instead of failing the run.
func Label(meetingUUID string, tr *Transcript, channels ChannelMap, now time.Time) *Record {
	record := &Record{
		MeetingUUID:   meetingUUID,
		TranscribedAt: now.UTC(),
		NumChannels:   tr.AudioChannels,
		Utterances:    make([]LabeledUtterance, 0, len(tr.Utterances)),
	}

	for _, utt := range tr.Utterances {
		record.Utterances = append(record.Utterances, LabeledUtterance{
			Participant: participantFor(utt.Channel, channels),
			StartMS:     utt.StartMS,
			EndMS:       utt.EndMS,
			Text:        utt.Text,
			Confidence:  utt.Confidence,
		})
	}

	return record
}

// participantFor resolves a raw channel value to a participant name.
func participantFor(channel string, channels ChannelMap) string {
	idx, err := strconv.Atoi(channel)
	if err != nil {
		return "UnknownChannel" + channel
	}
	if idx < 0 || idx >= len(channels) {
		return fmt.Sprintf("UnknownChannel%d", idx)
	}
	return channels[idx].Participant
}

// Render writes the record's utterances to w, one "(Participant) text" line
// per utterance.
func (r *Record) Render(w io.Writer) error {
	for _, utt := range r.Utterances {
		if _, err := fmt.Fprintf(w, "(%s) %s\n", utt.Participant, utt.Text); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON persists the record to path as indented JSON.
func (r *Record) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
