package osc

import (
	"bytes"
	"fmt"
)

// Message represents a single OSC message. An OSC message consists of an OSC
// address pattern and zero or more arguments. Arguments are int32, float32 or
// string values.
type Message struct {
	Address   string
	Arguments []interface{}
}

// NewMessage returns a new Message. The address parameter is the OSC address.
func NewMessage(addr string, args ...interface{}) *Message {
	return &Message{Address: addr, Arguments: args}
}

// Append appends the given arguments to the arguments list.
func (m *Message) Append(args ...interface{}) error {
	for _, a := range args {
		if ToTypeTag(a) == TypeInvalid {
			return fmt.Errorf("Append: unsupported type: %T", a)
		}
	}
	m.Arguments = append(m.Arguments, args...)
	return nil
}

// TypeTags returns the type tag string.
func (m *Message) TypeTags() (string, error) {
	if m == nil {
		return "", fmt.Errorf("TypeTags: message is nil")
	}
	return GetTypeTag(m.Arguments)
}

// String implements the fmt.Stringer interface.
func (m *Message) String() string {
	if m == nil {
		return ""
	}

	tags, _ := m.TypeTags()

	strBuf := bufPool.Get().(*bytes.Buffer)
	defer bufPool.Put(strBuf)
	strBuf.Reset()

	strBuf.WriteString(m.Address)
	if len(m.Arguments) == 0 {
		return strBuf.String()
	}

	strBuf.WriteByte(' ')
	strBuf.WriteString(tags)

	for _, arg := range m.Arguments {
		fmt.Fprintf(strBuf, " %v", arg)
	}

	return strBuf.String()
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (m *Message) MarshalBinary() ([]byte, error) {
	data := bufPool.Get().(*bytes.Buffer)
	defer bufPool.Put(data)
	data.Reset()

	if err := m.LightMarshalBinary(data); err != nil {
		return nil, err
	}
	return append([]byte(nil), data.Bytes()...), nil
}

// LightMarshalBinary writes the message to data without allocating an
// intermediate slice. The layout is:
// 1. OSC Address Pattern
// 2. OSC Type Tag String
// 3. OSC Arguments
func (m *Message) LightMarshalBinary(data *bytes.Buffer) error {
	if len(m.Address) == 0 || m.Address[0] != '/' {
		return fmt.Errorf("LightMarshalBinary: address must start with '/': %q", m.Address)
	}

	typetags, err := m.TypeTags()
	if err != nil {
		return fmt.Errorf("LightMarshalBinary: %w", err)
	}

	start := data.Len()
	writePaddedString(m.Address, data)
	writePaddedString(typetags, data)

	for _, arg := range m.Arguments {
		switch t := arg.(type) {
		case int32:
			writeInt32(t, data)
		case float32:
			writeFloat32(t, data)
		case string:
			writePaddedString(t, data)
		}
	}

	if n := data.Len() - start; n > MaxPacketSize {
		return fmt.Errorf("LightMarshalBinary: packet too large: %d", n)
	}

	return nil
}

// NewMessageFromData decodes data into a new Message.
func NewMessageFromData(data []byte) (*Message, error) {
	msg := &Message{}
	if err := msg.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return msg, nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
// Bytes following the last argument are ignored. On error m is left unchanged.
func (m *Message) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		return &DecodeError{Kind: ErrTruncated}
	}
	if data[0] != '/' {
		return &DecodeError{Kind: ErrMalformedHeader}
	}

	// First, read the OSC address
	addr, n, err := parsePaddedString(data)
	if err != nil {
		return &DecodeError{Kind: err}
	}

	args, derr := readArguments(data, n)
	if derr != nil {
		derr.Address = addr
		return derr
	}

	m.Address = addr
	m.Arguments = args
	return nil
}

// readArguments reads the type tag string starting at off and then every
// argument it declares.
func readArguments(data []byte, off int) ([]interface{}, *DecodeError) {
	if off >= len(data) || data[off] != ',' {
		return nil, &DecodeError{Kind: ErrMalformedHeader, Offset: off}
	}

	typetags, n, err := parsePaddedString(data[off:])
	if err != nil {
		return nil, &DecodeError{Kind: err, Offset: off}
	}
	tagOff := off
	off += n

	// Every argument takes at least four bytes, so len(typetags) is bounded by
	// the datagram and the capacity below by what is actually present.
	capacity := len(typetags) - 1
	if limit := (len(data) - off) / bit32Size; capacity > limit {
		capacity = limit
	}
	args := make([]interface{}, 0, capacity)

	for i := 1; i < len(typetags); i++ {
		c := typetags[i]
		switch TypeTag(c) {
		default:
			return nil, &DecodeError{Kind: ErrUnsupportedType, Offset: tagOff + i, Tag: c}

		case TypeInt32:
			v, err := parseInt32(data[off:])
			if err != nil {
				return nil, &DecodeError{Kind: err, Offset: off}
			}
			args = append(args, v)
			off += bit32Size

		case TypeFloat32:
			v, err := parseFloat32(data[off:])
			if err != nil {
				return nil, &DecodeError{Kind: err, Offset: off}
			}
			args = append(args, v)
			off += bit32Size

		case TypeString:
			s, n, err := parsePaddedString(data[off:])
			if err != nil {
				return nil, &DecodeError{Kind: err, Offset: off}
			}
			args = append(args, s)
			off += n
		}
	}

	return args, nil
}
