package osc

// Decode parses a single OSC message from a datagram.
//
// Errors are *DecodeError values; use errors.Is with ErrMalformedHeader,
// ErrUnsupportedType or ErrTruncated to classify them. No partially decoded
// message is ever returned.
func Decode(data []byte) (*Message, error) {
	return NewMessageFromData(data)
}
