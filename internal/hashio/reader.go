// Package hashio implements readers which keep a running checksum of the data
// read through them.
package hashio

import (
	"io"

	"github.com/mewkiz/pkg/hashutil"
	"github.com/mewkiz/pkg/hashutil/crc8"
)

// A Reader reads from an underlying io.Reader and adds every byte read to a
// running CRC-8 hash (polynomial x^8 + x^2 + x^1 + x^0, initialized with 0).
//
// Reader never reads ahead of its callers; each byte returned has been read
// from the underlying io.Reader exactly once. Reader implements io.ByteReader,
// so bit readers layered on top of it do not add buffering of their own.
type Reader struct {
	// Underlying io.Reader.
	r io.Reader
	// Running CRC-8 hash of all bytes read so far.
	h hashutil.Hash8
	// Scratch buffer used by ReadByte and ReadUint16.
	buf [2]byte
}

// NewReader returns a new Reader reading from r, with a fresh CRC-8 hash.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, h: crc8.NewATM()}
}

// Read reads up to len(p) bytes into p and adds them to the running hash.
func (hr *Reader) Read(p []byte) (n int, err error) {
	n, err = hr.r.Read(p)
	hr.h.Write(p[:n])
	return n, err
}

// ReadByte reads and returns a single byte. It returns io.EOF if no byte is
// available.
func (hr *Reader) ReadByte() (byte, error) {
	if br, ok := hr.r.(io.ByteReader); ok {
		c, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		hr.buf[0] = c
	} else if _, err := io.ReadFull(hr.r, hr.buf[:1]); err != nil {
		return 0, err
	}
	hr.h.Write(hr.buf[:1])
	return hr.buf[0], nil
}

// ReadUint16 reads and returns a big-endian unsigned 16-bit integer. It returns
// io.EOF if no byte is available, and io.ErrUnexpectedEOF if only one is.
func (hr *Reader) ReadUint16() (uint16, error) {
	n, err := io.ReadFull(hr.r, hr.buf[:2])
	hr.h.Write(hr.buf[:n])
	if err != nil {
		return 0, err
	}
	return uint16(hr.buf[0])<<8 | uint16(hr.buf[1]), nil
}

// Sum8 returns the CRC-8 hash of all bytes read so far. It does not consume any
// input.
func (hr *Reader) Sum8() uint8 {
	return hr.h.Sum8()
}
