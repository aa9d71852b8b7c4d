package osc

import (
	"bytes"
	"sync"
)

const (
	// MaxPacketSize is the largest datagram the server reads and the largest
	// message the encoder produces.
	MaxPacketSize = 65535

	bit32Size = 4
)

////
// Utility and helper functions
////
var (
	bufPool = sync.Pool{
		New: func() interface{} {
			return bytes.NewBuffer(make([]byte, 0, 512))
		},
	}
	readPool = sync.Pool{
		New: func() interface{} {
			b := make([]byte, MaxPacketSize)
			return &b
		},
	}
)
