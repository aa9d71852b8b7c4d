package osc

import (
	"bytes"
	"encoding/binary"
	"math"
)

////
// De/Encoding functions
////

// parsePaddedString reads a null-terminated, 4-byte padded string from the
// start of data. It returns the string and the number of bytes consumed,
// including the terminator and the padding.
func parsePaddedString(data []byte) (string, int, error) {
	pos := bytes.IndexByte(data, 0)
	if pos == -1 {
		return "", 0, ErrTruncated
	}

	n := pos + 1
	n += padBytesNeeded(n)
	if n > len(data) {
		return "", 0, ErrTruncated
	}

	return string(data[:pos]), n, nil
}

// writePaddedString writes a string with its terminator and padding bytes to the buffer.
// Returns the number of written bytes.
func writePaddedString(str string, b *bytes.Buffer) int {
	b.WriteString(str)
	n := len(str) + 1
	pad := padBytesNeeded(n)
	for i := 0; i <= pad; i++ {
		b.WriteByte(0)
	}
	return n + pad
}

// parseInt32 reads a big-endian two's-complement int32.
func parseInt32(data []byte) (int32, error) {
	if len(data) < bit32Size {
		return 0, ErrTruncated
	}
	return int32(binary.BigEndian.Uint32(data[:bit32Size])), nil
}

// parseFloat32 reads a big-endian IEEE-754 float32.
func parseFloat32(data []byte) (float32, error) {
	if len(data) < bit32Size {
		return 0, ErrTruncated
	}
	return math.Float32frombits(binary.BigEndian.Uint32(data[:bit32Size])), nil
}

func writeInt32(v int32, b *bytes.Buffer) {
	var buf [bit32Size]byte
	binary.BigEndian.PutUint32(buf[:], uint32(v))
	b.Write(buf[:])
}

func writeFloat32(v float32, b *bytes.Buffer) {
	var buf [bit32Size]byte
	binary.BigEndian.PutUint32(buf[:], math.Float32bits(v))
	b.Write(buf[:])
}

// padBytesNeeded determines how many bytes are needed to fill up to the next 4
// byte length.
func padBytesNeeded(elementLen int) int {
	return (4 - (elementLen % 4)) % 4
}
