package meta

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// seekPointLength is the length in bytes of a seek point.
const seekPointLength = 18

// PlaceholderPoint is the sample number used for placeholder seek points.
const PlaceholderPoint = 0xFFFFFFFFFFFFFFFF

// SeekTable contains one or more pre-calculated audio frame seek points.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_seektable
type SeekTable struct {
	// One or more seek points.
	Points []SeekPoint
}

// parseSeekTable reads and parses the body of a SeekTable metadata block.
func (block *Block) parseSeekTable() error {
	// The number of seek points is derived from the header length, divided by
	// the size of a SeekPoint; which is 18 bytes.
	if block.Length%seekPointLength != 0 {
		return errors.Wrapf(ErrInvalidLength, "meta.Block.parseSeekTable: seek table body length %d is not a multiple of %d", block.Length, seekPointLength)
	}
	n := block.Length / seekPointLength
	table := &SeekTable{Points: make([]SeekPoint, n)}
	for i := range table.Points {
		if err := binary.Read(block.lr, binary.BigEndian, &table.Points[i]); err != nil {
			return unexpected(err)
		}
	}
	block.Body = table
	return nil
}

// A SeekPoint specifies the byte offset and initial sample number of a given
// target frame.
//
// ref: https://www.xiph.org/flac/format.html#seekpoint
type SeekPoint struct {
	// Sample number of the first sample in the target frame, or
	// 0xFFFFFFFFFFFFFFFF for a placeholder point.
	SampleNum uint64
	// Offset in bytes from the first byte of the first frame header to the first
	// byte of the target frame's header.
	Offset uint64
	// Number of samples in the target frame.
	NSamples uint16
}
