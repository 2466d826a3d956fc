package frame

import (
	"bytes"
	"io"

	"github.com/icza/bitio"
	"github.com/mewkiz/pkg/errutil"
	"github.com/mewkiz/pkg/hashutil/crc8"
)

// Encode writes the frame header to w, including the trailing CRC-8. Values
// which have no bit pattern of their own in the fixed-width part of the header
// are stored at the end of the header.
func (hdr *Header) Encode(w io.Writer) error {
	// Use a temporary buffer so that the CRC-8 may be computed over the encoded
	// header, and to avoid closing w when flushing the bit writer.
	buf := new(bytes.Buffer)
	bw := bitio.NewWriter(buf)

	// 14 bits: sync code.
	if err := bw.WriteBits(SyncCode, 14); err != nil {
		return errutil.Err(err)
	}

	// 1 bit: reserved.
	if err := bw.WriteBits(0x0, 1); err != nil {
		return errutil.Err(err)
	}

	// 1 bit: blocking strategy.
	//    0 : fixed-blocksize stream; frame header encodes the frame number
	//    1 : variable-blocksize stream; frame header encodes the sample number
	var maxNum uint64
	switch hdr.BlockingStrategy {
	case Fixed:
		maxNum = maxFrameNum
	case Variable:
		maxNum = maxSampleNum
	default:
		return errutil.Newf("invalid blocking strategy %d", uint8(hdr.BlockingStrategy))
	}
	if hdr.Num > maxNum {
		return errutil.Newf("%s block size stream; unable to encode frame or sample number %d", hdr.BlockingStrategy, hdr.Num)
	}
	if err := bw.WriteBits(uint64(hdr.BlockingStrategy), 1); err != nil {
		return errutil.Err(err)
	}

	// 4 bits: block size in inter-channel samples.
	bits, blockSizeEsc, err := hdr.blockSizeBits()
	if err != nil {
		return errutil.Err(err)
	}
	if err := bw.WriteBits(bits, 4); err != nil {
		return errutil.Err(err)
	}

	// 4 bits: sample rate.
	bits, sampleRateEsc, err := hdr.sampleRateBits()
	if err != nil {
		return errutil.Err(err)
	}
	if err := bw.WriteBits(bits, 4); err != nil {
		return errutil.Err(err)
	}

	// 4 bits: channel assignment.
	bits, err = hdr.channelsBits()
	if err != nil {
		return errutil.Err(err)
	}
	if err := bw.WriteBits(bits, 4); err != nil {
		return errutil.Err(err)
	}

	// 3 bits: bits-per-sample.
	bits, err = hdr.bitsPerSampleBits()
	if err != nil {
		return errutil.Err(err)
	}
	if err := bw.WriteBits(bits, 3); err != nil {
		return errutil.Err(err)
	}

	// 1 bit: reserved.
	if err := bw.WriteBits(0x0, 1); err != nil {
		return errutil.Err(err)
	}

	// "UTF-8" coded frame or sample number.
	if err := encodeUTF8Int(bw, hdr.Num); err != nil {
		return errutil.Err(err)
	}

	// Block size stored at the end of the header.
	switch blockSizeEsc {
	case escapeUint8:
		if err := bw.WriteBits(uint64(hdr.BlockSize-1), 8); err != nil {
			return errutil.Err(err)
		}
	case escapeUint16:
		if err := bw.WriteBits(uint64(hdr.BlockSize-1), 16); err != nil {
			return errutil.Err(err)
		}
	}

	// Sample rate stored at the end of the header.
	switch sampleRateEsc {
	case escapeUint8:
		if err := bw.WriteBits(uint64(hdr.SampleRate), 8); err != nil {
			return errutil.Err(err)
		}
	case escapeUint16:
		if err := bw.WriteBits(uint64(hdr.SampleRate), 16); err != nil {
			return errutil.Err(err)
		}
	case escapeUint16x10:
		if err := bw.WriteBits(uint64(hdr.SampleRate/10), 16); err != nil {
			return errutil.Err(err)
		}
	}

	// Flush pending bit writes; the header is byte aligned at this point.
	if err := bw.Close(); err != nil {
		return errutil.Err(err)
	}

	// 8 bits: CRC-8 of the header so far.
	if err := buf.WriteByte(crc8.ChecksumATM(buf.Bytes())); err != nil {
		return errutil.Err(err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return errutil.Err(err)
	}
	return nil
}

// blockSizeBits returns the block size bit pattern of the frame header.
//
//	0000 : reserved
//	0001 : 192 samples
//	0010-0101 : 576 * (2^(n-2)) samples, i.e. 576/1152/2304/4608
//	0110 : get 8 bit (blocksize-1) from end of header
//	0111 : get 16 bit (blocksize-1) from end of header
//	1000-1111 : 256 * (2^(n-8)) samples, i.e. 256/512/1024/2048/4096/8192/16384/32768
func (hdr *Header) blockSizeBits() (uint64, escape, error) {
	switch hdr.BlockSize {
	case 0:
		return 0, escapeNone, errutil.New("invalid block size 0")
	case 192:
		return 0x1, escapeNone, nil
	case 576, 1152, 2304, 4608:
		return 0x2 + log2(uint64(hdr.BlockSize/576)), escapeNone, nil
	case 256, 512, 1024, 2048, 4096, 8192, 16384, 32768:
		return 0x8 + log2(uint64(hdr.BlockSize/256)), escapeNone, nil
	}
	if hdr.BlockSize <= 256 {
		return 0x6, escapeUint8, nil
	}
	return 0x7, escapeUint16, nil
}

// sampleRateBits returns the sample rate bit pattern of the frame header.
//
//	0000 : get from STREAMINFO metadata block
//	0001-1011 : 88.2/176.4/192/8/16/22.05/24/32/44.1/48/96 kHz
//	1100 : get 8 bit sample rate (in Hz) from end of header
//	1101 : get 16 bit sample rate (in Hz) from end of header
//	1110 : get 16 bit sample rate (in tens of Hz) from end of header
//	1111 : invalid, to prevent sync-fooling string of 1s
func (hdr *Header) sampleRateBits() (uint64, escape, error) {
	switch hdr.SampleRate {
	case 0:
		return 0x0, escapeNone, nil
	case 88200:
		return 0x1, escapeNone, nil
	case 176400:
		return 0x2, escapeNone, nil
	case 192000:
		return 0x3, escapeNone, nil
	case 8000:
		return 0x4, escapeNone, nil
	case 16000:
		return 0x5, escapeNone, nil
	case 22050:
		return 0x6, escapeNone, nil
	case 24000:
		return 0x7, escapeNone, nil
	case 32000:
		return 0x8, escapeNone, nil
	case 44100:
		return 0x9, escapeNone, nil
	case 48000:
		return 0xA, escapeNone, nil
	case 96000:
		return 0xB, escapeNone, nil
	}
	switch {
	case hdr.SampleRate <= 0xFF:
		return 0xC, escapeUint8, nil
	case hdr.SampleRate <= 0xFFFF:
		return 0xD, escapeUint16, nil
	case hdr.SampleRate <= 0xFFFF*10 && hdr.SampleRate%10 == 0:
		return 0xE, escapeUint16x10, nil
	}
	return 0, escapeNone, errutil.Newf("unable to encode sample rate %d", hdr.SampleRate)
}

// channelsBits returns the channel assignment bit pattern of the frame header.
func (hdr *Header) channelsBits() (uint64, error) {
	switch hdr.ChannelMode {
	case Raw:
		if hdr.NChannels < 1 || hdr.NChannels > 8 {
			return 0, errutil.Newf("invalid channel count %d", hdr.NChannels)
		}
		return uint64(hdr.NChannels - 1), nil
	case LeftSide, RightSide, MidSide:
		if hdr.NChannels != 2 {
			return 0, errutil.Newf("%s channel mode requires 2 channels, got %d", hdr.ChannelMode, hdr.NChannels)
		}
		return 0x8 + uint64(hdr.ChannelMode-LeftSide), nil
	}
	return 0, errutil.Newf("invalid channel mode %d", uint8(hdr.ChannelMode))
}

// bitsPerSampleBits returns the bits-per-sample bit pattern of the frame
// header.
func (hdr *Header) bitsPerSampleBits() (uint64, error) {
	switch hdr.BitsPerSample {
	case 0:
		return 0x0, nil
	case 8:
		return 0x1, nil
	case 12:
		return 0x2, nil
	case 16:
		return 0x4, nil
	case 20:
		return 0x5, nil
	case 24:
		return 0x6, nil
	}
	return 0, errutil.Newf("unable to encode bits-per-sample %d", hdr.BitsPerSample)
}

// log2 returns the base 2 logarithm of the power of two x.
func log2(x uint64) uint64 {
	var n uint64
	for x > 1 {
		x >>= 1
		n++
	}
	return n
}
