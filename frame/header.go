package frame

import (
	"io"

	"github.com/ahihi/claxon/internal/hashio"
	"github.com/pkg/errors"
)

// A Header contains the basic properties of an audio frame, such as its block
// size, sample rate and channel assignment. To facilitate random access
// decoding each frame header starts with a sync code.
//
// ref: https://www.xiph.org/flac/format.html#frame_header
type Header struct {
	// Specifies if the block size is fixed or variable.
	BlockingStrategy BlockingStrategy
	// Block size in inter-channel samples, i.e. the number of audio samples in
	// each subframe. Never zero.
	BlockSize uint16
	// Sample rate in Hz; a 0 value implies unknown, get sample rate from
	// StreamInfo.
	SampleRate uint32
	// Number of channels (subframes) in the frame; between 1 and 8.
	NChannels uint8
	// Inter-channel decorrelation of the subframes; anything but Raw implies
	// two channels.
	ChannelMode ChannelMode
	// Sample size in bits-per-sample; a 0 value implies unknown, get sample size
	// from StreamInfo.
	BitsPerSample uint8
	// Specifies the frame number if the block size is fixed, and the first
	// sample number in the frame otherwise.
	Num uint64
}

// Errors returned by ParseHeader. The returned errors wrap these values with
// additional context; use errors.Cause or errors.Is to identify them.
var (
	// ErrMissingSyncCode reports that the header does not start with the frame
	// sync code.
	ErrMissingSyncCode = errors.New("frame: missing sync code")
	// ErrInvalidHeader reports a reserved bit pattern, a bit pattern prohibited
	// to prevent sync-fooling, or a non-zero mandatory zero bit.
	ErrInvalidHeader = errors.New("frame: invalid frame header")
	// ErrInvalidBlockSize reports a 16-bit block size escape of 0xFFFF, which
	// exceeds the largest block size representable by a stream.
	ErrInvalidBlockSize = errors.New("frame: invalid block size")
	// ErrInvalidVarLengthInt reports an invalid "UTF-8" coded frame or sample
	// number.
	ErrInvalidVarLengthInt = errors.New("frame: invalid variable-length integer")
	// ErrChecksumMismatch reports that the CRC-8 stored at the end of the frame
	// header differs from the one computed over the preceding header bytes.
	ErrChecksumMismatch = errors.New("frame: header checksum mismatch")
)

// An escape records that the value of a header field is stored at the end of
// the header, after the frame or sample number.
type escape uint8

// Escape kinds.
const (
	escapeNone    escape = iota
	escapeUint8          // 8-bit value.
	escapeUint16         // 16-bit value.
	escapeUint16x10      // 16-bit value, in tens.
)

// ParseHeader reads and parses the header of an audio frame from r. The header
// is validated in full, including its CRC-8; no partially parsed header is ever
// returned.
//
// ParseHeader returns io.EOF if r holds no data, which signals a graceful end of
// the FLAC stream. Running out of data within the header is reported as
// io.ErrUnexpectedEOF.
func ParseHeader(r io.Reader) (*Header, error) {
	// The CRC-8 is computed over every byte read from here on, up to but
	// excluding the CRC-8 itself.
	hr := hashio.NewReader(r)
	var hdr Header

	// 14 bits: sync code.
	// 1 bit: reserved.
	// 1 bit: blocking strategy.
	x, err := hr.ReadUint16()
	if err != nil {
		return nil, err
	}
	if syncCode := x >> 2; syncCode != SyncCode {
		return nil, errors.Wrapf(ErrMissingSyncCode, "frame.ParseHeader: expected %014b, got %014b", SyncCode, syncCode)
	}
	// A set reserved bit indicates a future revision of the format which we
	// cannot read.
	if x&0x0002 != 0 {
		return nil, errors.Wrap(ErrInvalidHeader, "frame.ParseHeader: reserved bit following sync code is set")
	}
	if x&0x0001 != 0 {
		hdr.BlockingStrategy = Variable
	}

	// 4 bits: block size.
	// 4 bits: sample rate.
	c, err := hr.ReadByte()
	if err != nil {
		return nil, unexpected(err)
	}
	blockSizeEsc, err := hdr.parseBlockSize(c >> 4)
	if err != nil {
		return nil, err
	}
	sampleRateEsc, err := hdr.parseSampleRate(c & 0x0F)
	if err != nil {
		return nil, err
	}

	// 4 bits: channel assignment.
	// 3 bits: bits-per-sample.
	// 1 bit: reserved.
	c, err = hr.ReadByte()
	if err != nil {
		return nil, unexpected(err)
	}
	if err := hdr.parseChannels(c >> 4); err != nil {
		return nil, err
	}
	if err := hdr.parseBitsPerSample(c >> 1 & 0x07); err != nil {
		return nil, err
	}
	if c&0x01 != 0 {
		return nil, errors.Wrap(ErrInvalidHeader, "frame.ParseHeader: reserved bit following bits-per-sample is set")
	}

	// "UTF-8" coded frame or sample number.
	if hdr.Num, err = decodeUTF8Int(hr); err != nil {
		return nil, unexpected(err)
	}
	if hdr.BlockingStrategy == Fixed && hdr.Num > maxFrameNum {
		return nil, errors.Wrapf(ErrInvalidVarLengthInt, "frame.ParseHeader: frame number %d exceeds 31 bits", hdr.Num)
	}

	// Values stored at the end of the header; the block size precedes the
	// sample rate.
	if err := hdr.resolveBlockSize(hr, blockSizeEsc); err != nil {
		return nil, err
	}
	if err := hdr.resolveSampleRate(hr, sampleRateEsc); err != nil {
		return nil, err
	}

	// 8 bits: CRC-8.
	want := hr.Sum8()
	got, err := hr.ReadByte()
	if err != nil {
		return nil, unexpected(err)
	}
	if got != want {
		return nil, errors.Wrapf(ErrChecksumMismatch, "frame.ParseHeader: expected 0x%02X, got 0x%02X", want, got)
	}
	return &hdr, nil
}

// parseBlockSize parses the block size bit pattern n of the frame header.
//
//	0000: reserved.
//	0001: 192 samples.
//	0010-0101: 576 * (2^(n-2)) samples, i.e. 576/1152/2304/4608.
//	0110: get 8 bit (blocksize-1) from end of header.
//	0111: get 16 bit (blocksize-1) from end of header.
//	1000-1111: 256 * (2^(n-8)) samples, i.e. 256/512/1024/2048/4096/8192/16384/32768.
func (hdr *Header) parseBlockSize(n uint8) (escape, error) {
	switch {
	case n == 0x0:
		return escapeNone, errors.Wrap(ErrInvalidHeader, "frame.Header.parseBlockSize: reserved bit pattern 0000")
	case n == 0x1:
		hdr.BlockSize = 192
	case n >= 0x2 && n <= 0x5:
		hdr.BlockSize = 576 << (n - 2)
	case n == 0x6:
		return escapeUint8, nil
	case n == 0x7:
		return escapeUint16, nil
	default:
		hdr.BlockSize = 256 << (n - 8)
	}
	return escapeNone, nil
}

// resolveBlockSize reads the block size stored at the end of the header, if
// any.
func (hdr *Header) resolveBlockSize(hr *hashio.Reader, esc escape) error {
	switch esc {
	case escapeUint8:
		x, err := hr.ReadByte()
		if err != nil {
			return unexpected(err)
		}
		hdr.BlockSize = uint16(x) + 1
	case escapeUint16:
		x, err := hr.ReadUint16()
		if err != nil {
			return unexpected(err)
		}
		// The largest block size of a stream is 65535, as stored in the 16-bit
		// fields of StreamInfo.
		if x == 0xFFFF {
			return errors.Wrap(ErrInvalidBlockSize, "frame.Header.resolveBlockSize: block size 65536 exceeds 65535")
		}
		hdr.BlockSize = x + 1
	}
	return nil
}

// parseSampleRate parses the sample rate bit pattern n of the frame header.
func (hdr *Header) parseSampleRate(n uint8) (escape, error) {
	switch n {
	case 0x0:
		// 0000: get from StreamInfo metadata block.
	case 0x1:
		// 0001: 88.2kHz.
		hdr.SampleRate = 88200
	case 0x2:
		// 0010: 176.4kHz.
		hdr.SampleRate = 176400
	case 0x3:
		// 0011: 192kHz.
		hdr.SampleRate = 192000
	case 0x4:
		// 0100: 8kHz.
		hdr.SampleRate = 8000
	case 0x5:
		// 0101: 16kHz.
		hdr.SampleRate = 16000
	case 0x6:
		// 0110: 22.05kHz.
		hdr.SampleRate = 22050
	case 0x7:
		// 0111: 24kHz.
		hdr.SampleRate = 24000
	case 0x8:
		// 1000: 32kHz.
		hdr.SampleRate = 32000
	case 0x9:
		// 1001: 44.1kHz.
		hdr.SampleRate = 44100
	case 0xA:
		// 1010: 48kHz.
		hdr.SampleRate = 48000
	case 0xB:
		// 1011: 96kHz.
		hdr.SampleRate = 96000
	case 0xC:
		// 1100: get 8 bit sample rate (in Hz) from end of header.
		return escapeUint8, nil
	case 0xD:
		// 1101: get 16 bit sample rate (in Hz) from end of header.
		return escapeUint16, nil
	case 0xE:
		// 1110: get 16 bit sample rate (in tens of Hz) from end of header.
		return escapeUint16x10, nil
	default:
		// 1111: invalid, to prevent sync-fooling string of 1s.
		return escapeNone, errors.Wrap(ErrInvalidHeader, "frame.Header.parseSampleRate: invalid bit pattern 1111")
	}
	return escapeNone, nil
}

// resolveSampleRate reads the sample rate stored at the end of the header, if
// any.
func (hdr *Header) resolveSampleRate(hr *hashio.Reader, esc escape) error {
	switch esc {
	case escapeUint8:
		x, err := hr.ReadByte()
		if err != nil {
			return unexpected(err)
		}
		hdr.SampleRate = uint32(x)
	case escapeUint16:
		x, err := hr.ReadUint16()
		if err != nil {
			return unexpected(err)
		}
		hdr.SampleRate = uint32(x)
	case escapeUint16x10:
		x, err := hr.ReadUint16()
		if err != nil {
			return unexpected(err)
		}
		hdr.SampleRate = uint32(x) * 10
	}
	return nil
}

// parseChannels parses the channel assignment bit pattern n of the frame
// header.
//
//	0000-0111: (number of independent channels)-1.
//	1000: left/side stereo.
//	1001: side/right stereo.
//	1010: mid/side stereo.
//	1011-1111: reserved.
func (hdr *Header) parseChannels(n uint8) error {
	switch {
	case n < 0x8:
		hdr.NChannels = n + 1
		hdr.ChannelMode = Raw
	case n == 0x8:
		hdr.NChannels = 2
		hdr.ChannelMode = LeftSide
	case n == 0x9:
		hdr.NChannels = 2
		hdr.ChannelMode = RightSide
	case n == 0xA:
		hdr.NChannels = 2
		hdr.ChannelMode = MidSide
	default:
		return errors.Wrapf(ErrInvalidHeader, "frame.Header.parseChannels: reserved bit pattern %04b", n)
	}
	return nil
}

// parseBitsPerSample parses the bits-per-sample bit pattern n of the frame
// header.
//
//	000: get from StreamInfo metadata block.
//	001: 8 bits-per-sample.
//	010: 12 bits-per-sample.
//	011: reserved.
//	100: 16 bits-per-sample.
//	101: 20 bits-per-sample.
//	110: 24 bits-per-sample.
//	111: reserved.
func (hdr *Header) parseBitsPerSample(n uint8) error {
	switch n {
	case 0x0:
		// Get from StreamInfo.
	case 0x1:
		hdr.BitsPerSample = 8
	case 0x2:
		hdr.BitsPerSample = 12
	case 0x4:
		hdr.BitsPerSample = 16
	case 0x5:
		hdr.BitsPerSample = 20
	case 0x6:
		hdr.BitsPerSample = 24
	default:
		return errors.Wrapf(ErrInvalidHeader, "frame.Header.parseBitsPerSample: reserved bit pattern %03b", n)
	}
	return nil
}

// unexpected returns io.ErrUnexpectedEOF if err is io.EOF, and returns err
// otherwise.
func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
