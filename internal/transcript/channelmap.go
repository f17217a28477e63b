// Package transcript holds the transcript domain types: the channel map
// built during track download, the raw multichannel transcript returned by
// the transcription provider, and the labeled record this system emits.
package transcript

// ChannelEntry pairs a downloaded track file with the participant whose
// audio it contains.
type ChannelEntry struct {
	// Path is the local path of the downloaded track.
	Path string
	// Participant is the participant's display name.
	Participant string
}

// ChannelMap is the ordered sequence of channel entries. The entry at index
// i corresponds to channel i of the combined audio file; the order is the
// provider-returned download order and must not be re-sorted.
type ChannelMap []ChannelEntry

// Paths returns the track paths in channel order.
func (m ChannelMap) Paths() []string {
	paths := make([]string, len(m))
	for i, e := range m {
		paths[i] = e.Path
	}
	return paths
}
