// Package frame implements access to FLAC audio frame headers.
//
// A brief introduction of the FLAC frame header format [1] follows. Each audio
// frame starts with a header, which begins with a 14-bit sync code so that
// decoders may locate the start of a frame. The header specifies the blocking
// strategy of the stream, the block size of the frame, its sample rate, the
// channel assignment and the sample size. Values which do not fit in the
// fixed-width part of the header are stored after it, following a "UTF-8"
// coded frame or sample number. The header ends with a CRC-8 of all preceding
// header bytes.
//
// Frame header format (pseudo code):
//
//	type FRAME_HEADER struct {
//	   sync_code                uint14
//	   _                        uint1
//	   blocking_strategy        uint1
//	   block_size_spec          uint4
//	   sample_rate_spec         uint4
//	   channel_assignment       uint4
//	   bits_per_sample_spec     uint3
//	   _                        uint1
//	   if blocking_strategy == 0 {
//	      frame_num             utf8  // 1 to 6 bytes, 31 bits.
//	   } else {
//	      sample_num            utf8  // 1 to 7 bytes, 36 bits.
//	   }
//	   switch block_size_spec {
//	   case 0110:
//	      block_size            uint8  // block_size-1
//	   case 0111:
//	      block_size            uint16 // block_size-1
//	   }
//	   switch sample_rate_spec {
//	   case 1100:
//	      sample_rate           uint8  // sample rate in Hz.
//	   case 1101:
//	      sample_rate           uint16 // sample rate in Hz.
//	   case 1110:
//	      sample_rate           uint16 // sample rate in tens of Hz.
//	   }
//	   crc8                     uint8
//	}
//
//	[1]: https://www.xiph.org/flac/format.html#frame_header
package frame

import "fmt"

// SyncCode marks the beginning of a frame header. Bit representation:
// 11111111111110.
const SyncCode = 0x3FFE

// BlockingStrategy specifies if the block size of a stream is fixed or may vary
// between frames.
type BlockingStrategy uint8

// Blocking strategies.
const (
	// Fixed block size stream; the frame header stores the frame number.
	Fixed BlockingStrategy = iota
	// Variable block size stream; the frame header stores the number of the
	// first sample in the frame.
	Variable
)

func (s BlockingStrategy) String() string {
	switch s {
	case Fixed:
		return "fixed"
	case Variable:
		return "variable"
	default:
		return fmt.Sprintf("<invalid blocking strategy: %d>", uint8(s))
	}
}

// ChannelMode specifies the inter-channel decorrelation applied to the
// subframes of an audio frame. Only raw coding may be used with a channel count
// other than two.
//
// ref: https://www.xiph.org/flac/format.html#interchannel
type ChannelMode uint8

// Channel modes.
const (
	// Raw specifies that each channel is coded independently.
	Raw ChannelMode = iota
	// LeftSide specifies left/side stereo; channel 0 is the left channel and
	// channel 1 is the side (difference) channel.
	LeftSide
	// RightSide specifies side/right stereo; channel 0 is the side (difference)
	// channel and channel 1 is the right channel.
	RightSide
	// MidSide specifies mid/side stereo; channel 0 is the mid (average) channel
	// and channel 1 is the side (difference) channel.
	MidSide
)

func (mode ChannelMode) String() string {
	switch mode {
	case Raw:
		return "raw"
	case LeftSide:
		return "left/side"
	case RightSide:
		return "side/right"
	case MidSide:
		return "mid/side"
	default:
		return fmt.Sprintf("<invalid channel mode: %d>", uint8(mode))
	}
}
