package domain

// StoredMessage is the snapshot form of one reconstructed message: the
// original message id, the rendered transcript line and the raw envelope
// JSON as returned by the forward call.
type StoredMessage struct {
	MessageID  int
	Transcript string
	Envelope   []byte
}
