// Package edid decodes the preferred detailed timing from a 128-byte EDID
// base block.
//
// Only the four 18-byte descriptor slots at offset 54 are inspected. A slot
// whose pixel clock is zero holds a display descriptor (name, serial, range
// limits) rather than a timing and is skipped.
package edid

import (
	"encoding/binary"
	"math"

	"github.com/textyre/bootstrap/pkg/types"
)

const (
	// BlockSize is the size of the EDID base block
	BlockSize = 128

	descriptorOffset = 54
	descriptorSize   = 18
	descriptorSlots  = 4

	// pixel clock is stored in units of 10 kHz
	pixelClockUnit = 10_000
)

// Timing is a decoded detailed timing descriptor
type Timing struct {
	Width  int
	Height int
	// Refresh is the vertical refresh rate rounded to whole Hz
	Refresh int
	// PixelClock in Hz
	PixelClock int
	HTotal     int
	VTotal     int
}

// Decode returns the first valid detailed timing in data.
// It reports false when data is shorter than BlockSize or no slot decodes.
func Decode(data []byte) (Timing, bool) {
	if len(data) < BlockSize {
		return Timing{}, false
	}

	for i := 0; i < descriptorSlots; i++ {
		off := descriptorOffset + i*descriptorSize
		if off+descriptorSize > len(data) {
			break
		}
		if t, ok := decodeSlot(data[off : off+descriptorSize]); ok {
			return t, true
		}
	}
	return Timing{}, false
}

func decodeSlot(b []byte) (Timing, bool) {
	if len(b) < descriptorSize {
		return Timing{}, false
	}

	clock := int(binary.LittleEndian.Uint16(b[0:2]))
	if clock == 0 {
		return Timing{}, false
	}

	hActive := int(b[4]&0xF0)<<4 | int(b[2])
	hBlank := int(b[4]&0x0F)<<8 | int(b[3])
	vActive := int(b[7]&0xF0)<<4 | int(b[5])
	vBlank := int(b[7]&0x0F)<<8 | int(b[6])

	hTotal := hActive + hBlank
	vTotal := vActive + vBlank
	if hTotal == 0 || vTotal == 0 {
		return Timing{}, false
	}

	pixelClock := clock * pixelClockUnit
	refresh := math.RoundToEven(float64(pixelClock) / float64(hTotal*vTotal))

	return Timing{
		Width:      hActive,
		Height:     vActive,
		Refresh:    int(refresh),
		PixelClock: pixelClock,
		HTotal:     hTotal,
		VTotal:     vTotal,
	}, true
}

// DecodeFile reads an EDID blob through fsys and decodes it.
// Read failures are reported as not found.
func DecodeFile(fsys types.FS, path string) (Timing, bool) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return Timing{}, false
	}
	return Decode(data)
}
