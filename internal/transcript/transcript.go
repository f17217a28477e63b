package transcript

// Utterance is a single timestamped utterance from the transcription
// provider. Channel is kept as the raw provider value; labeling coerces it.
type Utterance struct {
	// Channel is the audio channel the utterance was detected on.
	Channel string
	// StartMS is the utterance start in milliseconds.
	StartMS int
	// EndMS is the utterance end in milliseconds.
	EndMS int
	// Text is the transcribed text.
	Text string
	// Confidence is the provider's confidence score in [0,1].
	Confidence float64
}

// Transcript is the result of a multichannel transcription.
type Transcript struct {
	// ID is the provider-assigned transcript identifier.
	ID string
	// AudioChannels is the number of channels the provider detected.
	AudioChannels int
	// Utterances are the utterances in provider order.
	Utterances []Utterance
}
