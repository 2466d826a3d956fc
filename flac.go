// Package claxon provides access to the structure of FLAC (Free Lossless Audio
// Codec) streams. [1]
//
// The basic structure of a FLAC bitstream is:
//   - The four byte string signature "fLaC".
//   - The StreamInfo metadata block.
//   - Zero or more other metadata blocks.
//   - One or more audio frames.
//
// A Stream validates the signature and reads all metadata blocks up front.
// Audio frame headers are then read one at a time with Stream.Next; decoding
// the audio samples of each frame is left to the caller.
//
// [1]: https://www.xiph.org/flac/format.html
package claxon

import (
	"bufio"
	"io"
	"os"

	"github.com/ahihi/claxon/frame"
	"github.com/ahihi/claxon/meta"
	"github.com/pkg/errors"
)

// Errors returned by New and Open. The returned errors wrap these values with
// additional context; use errors.Cause or errors.Is to identify them.
var (
	// ErrInvalidStreamHeader reports a stream which does not start with the
	// "fLaC" signature.
	ErrInvalidStreamHeader = errors.New("claxon: invalid stream header")
	// ErrMissingStreamInfo reports a stream whose first metadata block is not a
	// StreamInfo block.
	ErrMissingStreamInfo = errors.New("claxon: missing stream info")
)

// signature is present at the beginning of each FLAC stream.
const signature = "fLaC"

// A Stream contains the metadata blocks of a FLAC stream, and provides access
// to its audio frame headers.
type Stream struct {
	// The StreamInfo metadata block describes the basic properties of the FLAC
	// audio stream.
	Info *meta.StreamInfo
	// Zero or more metadata blocks following the StreamInfo block, in stream
	// order.
	Blocks []*meta.Block
	// Underlying io.Reader; positioned at the next audio frame header.
	r io.Reader
	// Underlying io.Closer; nil unless the stream was created by Open.
	c io.Closer
}

// New creates a new Stream for accessing the audio frames of r. It reads and
// validates the "fLaC" signature and parses all metadata blocks of the stream.
//
// r is never read beyond the last metadata block, so that the first call to
// Stream.Next finds the first audio frame header. Wrap r in a bufio.Reader for
// improved performance.
func New(r io.Reader) (*Stream, error) {
	// Verify "fLaC" signature (size: 4 bytes).
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, errors.Wrap(ErrInvalidStreamHeader, "claxon.New: stream too short for signature")
		}
		return nil, errors.WithStack(err)
	}
	if sig := string(buf[:]); sig != signature {
		return nil, errors.Wrapf(ErrInvalidStreamHeader, "claxon.New: invalid signature; expected %q, got %q", signature, sig)
	}

	// The first metadata block must be a StreamInfo block.
	mr := meta.NewReader(r)
	block, err := mr.Next()
	if err != nil {
		if err == io.EOF {
			return nil, errors.Wrap(ErrMissingStreamInfo, "claxon.New: no metadata blocks")
		}
		return nil, errors.WithMessage(err, "claxon.New")
	}
	si, ok := block.Body.(*meta.StreamInfo)
	if !ok {
		return nil, errors.Wrapf(ErrMissingStreamInfo, "claxon.New: first metadata block is %s", block.Type)
	}
	stream := &Stream{Info: si, r: r}

	// Store the remaining metadata blocks.
	for {
		block, err := mr.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.WithMessage(err, "claxon.New")
		}
		stream.Blocks = append(stream.Blocks, block)
	}
	return stream, nil
}

// Open creates a new Stream for accessing the audio frames of the named file.
// It reads and validates the "fLaC" signature and parses all metadata blocks
// of the file.
//
// Call Stream.Close to close the underlying file.
func Open(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	stream, err := New(bufio.NewReader(f))
	if err != nil {
		f.Close()
		return nil, err
	}
	stream.c = f
	return stream, nil
}

// Close closes the underlying file of a stream created by Open.
func (stream *Stream) Close() error {
	if stream.c == nil {
		return nil
	}
	return stream.c.Close()
}

// Next reads and returns the next audio frame header of the stream. The caller
// must consume the frame body, i.e. the subframes and frame footer, before
// calling Next again.
//
// Next returns io.EOF if the stream holds no more audio frames.
func (stream *Stream) Next() (*frame.Header, error) {
	return frame.ParseHeader(stream.r)
}

// Reader returns the underlying reader of the stream, positioned at the current
// audio frame body, or at the next audio frame header.
func (stream *Stream) Reader() io.Reader {
	return stream.r
}

// SampleRate returns the sample rate in Hz of the audio frame with the given
// header. Frame headers which do not specify the sample rate inherit it from
// the StreamInfo block.
func (stream *Stream) SampleRate(hdr *frame.Header) uint32 {
	if hdr.SampleRate != 0 {
		return hdr.SampleRate
	}
	return stream.Info.SampleRate
}

// BitsPerSample returns the sample size of the audio frame with the given
// header. Frame headers which do not specify the sample size inherit it from
// the StreamInfo block.
func (stream *Stream) BitsPerSample(hdr *frame.Header) uint8 {
	if hdr.BitsPerSample != 0 {
		return hdr.BitsPerSample
	}
	return stream.Info.BitsPerSample
}
