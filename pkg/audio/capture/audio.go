package capture

// Signal classifies an Audio record.
type Signal int

const (
	// SignalContent marks a record carrying decoded samples.
	SignalContent Signal = iota
	// SignalUtteranceStart brackets the beginning of an utterance.
	SignalUtteranceStart
	// SignalUtteranceEnd brackets the end of an utterance.
	SignalUtteranceEnd
)

// String returns a human-readable name for the signal.
func (s Signal) String() string {
	switch s {
	case SignalContent:
		return "content"
	case SignalUtteranceStart:
		return "utterance-start"
	case SignalUtteranceEnd:
		return "utterance-end"
	}
	return "unknown"
}

// Audio is one record delivered to the consumer: either an utterance
// boundary marker or one captured frame's worth of decoded samples.
type Audio struct {
	// Signal classifies the record.
	Signal Signal

	// Samples holds the decoded sample values of one captured frame.
	// Empty on boundary markers.
	Samples []float64

	// Utterance points back to the parent utterance. Set on content
	// records only when Config.KeepReference is enabled; treat it as
	// read-only.
	Utterance *Utterance
}
