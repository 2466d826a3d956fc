package meta

import (
	"io"

	"github.com/pkg/errors"
)

// A Reader reads the metadata blocks of a FLAC stream in order, starting
// immediately after the "fLaC" signature.
//
// Blocks are read lazily, one per call to Next, so that the underlying reader
// is left positioned at the first audio frame once the last block has been
// read.
type Reader struct {
	// Underlying io.Reader.
	r io.Reader
	// Number of metadata blocks read.
	n int
	// done is set once the last metadata block has been read, or an error has
	// been encountered.
	done bool
}

// NewReader returns a new Reader which reads metadata blocks from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next reads and parses the next metadata block. It returns io.EOF after the
// metadata block flagged as the last one has been read, or if r holds no data
// at all. Running out of data before the last metadata block is reported as
// io.ErrUnexpectedEOF.
//
// Errors are sticky; once Next has returned an error, subsequent calls return
// io.EOF.
func (mr *Reader) Next() (*Block, error) {
	if mr.done {
		return nil, io.EOF
	}
	block, err := Parse(mr.r)
	if err != nil {
		mr.done = true
		if err == io.EOF && mr.n > 0 {
			return nil, errors.Wrapf(io.ErrUnexpectedEOF, "meta.Reader.Next: stream ended after %d metadata blocks, before the last one", mr.n)
		}
		return nil, err
	}
	mr.n++
	mr.done = block.IsLast
	return block, nil
}
