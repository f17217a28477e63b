package assemblyai

import "encoding/json"

// uploadResponse is the /v2/upload payload.
type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

// transcriptRequest is the /v2/transcript submission payload.
type transcriptRequest struct {
	AudioURL     string `json:"audio_url"`
	Multichannel bool   `json:"multichannel"`
}

// transcriptResponse is the /v2/transcript payload (submission and polling).
type transcriptResponse struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	Error         string         `json:"error,omitempty"`
	AudioChannels int            `json:"audio_channels"`
	Utterances    []apiUtterance `json:"utterances"`
}

// apiUtterance is one utterance as the provider reports it.
type apiUtterance struct {
	Channel    channelValue `json:"channel"`
	Start      int          `json:"start"`
	End        int          `json:"end"`
	Text       string       `json:"text"`
	Confidence float64      `json:"confidence"`
}

// channelValue tolerates the channel field arriving as either a JSON string
// or a number.
type channelValue string

func (c *channelValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = channelValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = channelValue(n.String())
	return nil
}

func (c channelValue) String() string { return string(c) }
