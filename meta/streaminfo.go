package meta

import (
	"io"

	"github.com/pkg/errors"
)

// Errors returned when a StreamInfo metadata block holds values which are
// invalid or inconsistent.
var (
	// ErrInvalidBlockSize reports a minimum block size below 16 samples.
	ErrInvalidBlockSize = errors.New("meta: invalid block size")
	// ErrInconsistentBounds reports a minimum which exceeds its maximum.
	ErrInconsistentBounds = errors.New("meta: inconsistent bounds")
	// ErrInvalidSampleRate reports a sample rate of 0 Hz.
	ErrInvalidSampleRate = errors.New("meta: invalid sample rate")
)

// StreamInfo contains the basic properties of a FLAC audio stream, such as its
// sample rate and channel count. It is the only mandatory metadata block and
// must be present as the first metadata block of a FLAC stream.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_streaminfo
type StreamInfo struct {
	// Minimum block size (in samples) used in the stream; between 16 and 65535
	// samples.
	BlockSizeMin uint16
	// Maximum block size (in samples) used in the stream; between 16 and 65535
	// samples.
	BlockSizeMax uint16
	// Minimum frame size in bytes; a 0 value implies unknown.
	FrameSizeMin uint32
	// Maximum frame size in bytes; a 0 value implies unknown.
	FrameSizeMax uint32
	// Sample rate in Hz; between 1 and 655350 Hz.
	SampleRate uint32
	// Number of channels; between 1 and 8 channels.
	NChannels uint8
	// Sample size in bits-per-sample; between 4 and 32 bits.
	BitsPerSample uint8
	// Total number of inter-channel samples in the stream. One second of 44.1
	// KHz audio will have 44100 samples regardless of the number of channels. A
	// 0 value implies unknown.
	NSamples uint64
	// MD5 checksum of the unencoded audio data.
	MD5sum [16]uint8
}

// streamInfoLength is the length in bytes of a StreamInfo block body.
const streamInfoLength = 34

// parseStreamInfo reads and parses the body of a StreamInfo metadata block.
//
// StreamInfo format (pseudo code):
//
//	type METADATA_BLOCK_STREAMINFO struct {
//	   block_size_min  uint16
//	   block_size_max  uint16
//	   frame_size_min  uint24
//	   frame_size_max  uint24
//	   sample_rate     uint20
//	   channels        uint3 // channels-1
//	   bits_per_sample uint5 // bits_per_sample-1
//	   nsamples        uint36
//	   md5sum          [16]uint8
//	}
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_streaminfo
func (block *Block) parseStreamInfo() error {
	if block.Length != streamInfoLength {
		return errors.Wrapf(ErrInvalidLength, "meta.Block.parseStreamInfo: stream info body length %d, expected %d", block.Length, streamInfoLength)
	}
	var buf [streamInfoLength]byte
	if _, err := io.ReadFull(block.lr, buf[:]); err != nil {
		return unexpected(err)
	}

	// 16 bits: BlockSizeMin.
	// 16 bits: BlockSizeMax.
	// 24 bits: FrameSizeMin.
	// 24 bits: FrameSizeMax.
	// 20 bits: SampleRate.
	// 3 bits:  NChannels-1.
	// 5 bits:  BitsPerSample-1.
	// 36 bits: NSamples.
	fields, err := readFields(buf[:18], 16, 16, 24, 24, 20, 3, 5, 36)
	if err != nil {
		return err
	}
	si := &StreamInfo{
		BlockSizeMin:  uint16(fields[0]),
		BlockSizeMax:  uint16(fields[1]),
		FrameSizeMin:  uint32(fields[2]),
		FrameSizeMax:  uint32(fields[3]),
		SampleRate:    uint32(fields[4]),
		NChannels:     uint8(fields[5]) + 1,
		BitsPerSample: uint8(fields[6]) + 1,
		NSamples:      fields[7],
	}
	// 16 bytes: MD5sum.
	copy(si.MD5sum[:], buf[18:])

	if err := si.validate(); err != nil {
		return err
	}
	block.Body = si
	return nil
}

// validate reports whether the StreamInfo values are valid and consistent.
func (si *StreamInfo) validate() error {
	if si.BlockSizeMin < 16 {
		return errors.Wrapf(ErrInvalidBlockSize, "meta.StreamInfo.validate: minimum block size %d below 16", si.BlockSizeMin)
	}
	if si.BlockSizeMin > si.BlockSizeMax {
		return errors.Wrapf(ErrInconsistentBounds, "meta.StreamInfo.validate: minimum block size %d exceeds maximum block size %d", si.BlockSizeMin, si.BlockSizeMax)
	}
	if si.FrameSizeMin != 0 && si.FrameSizeMax != 0 && si.FrameSizeMin > si.FrameSizeMax {
		return errors.Wrapf(ErrInconsistentBounds, "meta.StreamInfo.validate: minimum frame size %d exceeds maximum frame size %d", si.FrameSizeMin, si.FrameSizeMax)
	}
	if si.SampleRate == 0 {
		return errors.Wrap(ErrInvalidSampleRate, "meta.StreamInfo.validate: sample rate 0 Hz")
	}
	return nil
}
