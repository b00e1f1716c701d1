// Package proto implements the marker-delimited command protocol the
// host speaks at the matrix: a start marker, a fixed-shape payload and
// (for frame data) an end marker, all raw bytes. There is no length
// prefix beyond the animation count byte and no checksum; after a
// dropped byte the stream only recovers once a read times out.
package proto

import "fmt"

// Marker is a protocol framing byte.
type Marker byte

const (
	FrameStart    Marker = 0xFF // followed by 8 row bytes and FrameEnd
	FrameEnd      Marker = 0xFE
	AnimStart     Marker = 0xFA // followed by a count byte, count*8 row bytes and AnimEnd
	AnimEnd       Marker = 0xFB
	SetBrightness Marker = 0xFC // followed by one setting byte, no end marker
)

var markerNames = map[Marker]string{
	FrameStart:    "FrameStart",
	FrameEnd:      "FrameEnd",
	AnimStart:     "AnimStart",
	AnimEnd:       "AnimEnd",
	SetBrightness: "SetBrightness",
}

func (m Marker) String() string {
	if s, ok := markerNames[m]; ok {
		return s
	}
	return fmt.Sprintf("0x%02X", byte(m))
}
