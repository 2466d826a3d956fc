// Package meta implements access to FLAC metadata blocks.
//
// A brief introduction of the FLAC metadata format [1] follows. FLAC metadata
// is stored in blocks; each block contains a header followed by a body. The
// block header describes the type of the block body, its length in bytes, and
// specifies if the block was the last metadata block in a FLAC stream. The
// contents of the block body depends on the type specified in the block header.
//
// The StreamInfo block is always parsed, as it holds the stream-wide defaults
// used by frame headers. Padding, Application, SeekTable and VorbisComment
// bodies are parsed as well; the bodies of all other block types are kept as
// opaque bytes.
//
//	[1]: https://www.xiph.org/flac/format.html#format_overview
package meta

import (
	"bytes"
	"io"

	"github.com/icza/bitio"
	"github.com/pkg/errors"
)

// A Block contains the header and body of a metadata block.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block
type Block struct {
	// Metadata block header.
	Header
	// Metadata block body of type *StreamInfo, *Application, *SeekTable,
	// *VorbisComment or *Raw; nil for padding. Body is initially nil, and gets
	// populated by a call to Block.Parse.
	Body interface{}
	// Underlying io.Reader; limited by the length of the block body.
	lr io.Reader
}

// Errors returned by New and Block.Parse. The returned errors wrap these values
// with additional context; use errors.Cause or errors.Is to identify them.
var (
	// ErrInvalidType reports block type 127, which is invalid to avoid
	// confusion with a frame sync code.
	ErrInvalidType = errors.New("meta: invalid block type")
	// ErrInvalidLength reports a block body length which is not valid for its
	// block type.
	ErrInvalidLength = errors.New("meta: invalid block length")
)

// New creates a new Block for accessing the metadata of r. It reads and parses
// a metadata block header.
//
// New returns io.EOF if r holds no data. Call Block.Parse to parse the metadata
// block body, and call Block.Skip to ignore it.
func New(r io.Reader) (block *Block, err error) {
	block = new(Block)
	if err = block.parseHeader(r); err != nil {
		return nil, err
	}
	block.lr = io.LimitReader(r, block.Length)
	return block, nil
}

// Parse reads and parses the header and body of a metadata block. Use New for
// additional granularity.
func Parse(r io.Reader) (block *Block, err error) {
	block, err = New(r)
	if err != nil {
		return nil, err
	}
	if err = block.Parse(); err != nil {
		return nil, err
	}
	return block, nil
}

// Parse reads and parses the metadata block body. Any part of the body not
// consumed by the body parser is discarded, so that the underlying reader is
// positioned at the next metadata block.
func (block *Block) Parse() error {
	var err error
	switch block.Type {
	case TypeStreamInfo:
		err = block.parseStreamInfo()
	case TypePadding:
		err = block.verifyPadding()
	case TypeApplication:
		err = block.parseApplication()
	case TypeSeekTable:
		err = block.parseSeekTable()
	case TypeVorbisComment:
		err = block.parseVorbisComment()
	default:
		err = block.parseRaw()
	}
	if err != nil {
		return err
	}
	return block.Skip()
}

// Skip ignores the remaining contents of the metadata block body.
func (block *Block) Skip() error {
	n, err := io.Copy(io.Discard, block.lr)
	if err != nil {
		return err
	}
	if lr, ok := block.lr.(*io.LimitedReader); ok && lr.N > 0 {
		return errors.Wrapf(io.ErrUnexpectedEOF, "meta.Block.Skip: %d bytes of %s block body missing after %d bytes", lr.N, block.Type, n)
	}
	return nil
}

// A Header contains information about the type and length of a metadata block.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_header
type Header struct {
	// Metadata block body type.
	Type Type
	// Length of body data in bytes.
	Length int64
	// IsLast specifies if the block is the last metadata block.
	IsLast bool
}

// parseHeader reads and parses the header of a metadata block.
//
// Block header format (pseudo code):
//
//	type METADATA_BLOCK_HEADER struct {
//	   is_last    bool
//	   block_type uint7
//	   length     uint24
//	}
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_header
func (block *Block) parseHeader(r io.Reader) error {
	// This is the only place a metadata block may return io.EOF, which signals
	// that no more metadata blocks are present.
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return err
	}

	// is_last:    1 bit
	// block_type: 7 bits
	// length:     24 bits
	fields, err := readFields(buf[:], 1, 7, 24)
	if err != nil {
		return err
	}
	block.IsLast = fields[0] != 0
	block.Type = Type(fields[1])
	block.Length = int64(fields[2])

	// Block type.
	//    0:     StreamInfo
	//    1:     Padding
	//    2:     Application
	//    3:     SeekTable
	//    4:     VorbisComment
	//    5:     CueSheet
	//    6:     Picture
	//    7-126: reserved
	//    127:   invalid, to avoid confusion with a frame sync code
	if block.Type == typeInvalid {
		return errors.Wrapf(ErrInvalidType, "meta.Block.parseHeader: block type %d", block.Type)
	}
	return nil
}

// Type represents the type of a metadata block body.
type Type uint8

// Metadata block body types.
const (
	TypeStreamInfo    Type = 0
	TypePadding       Type = 1
	TypeApplication   Type = 2
	TypeSeekTable     Type = 3
	TypeVorbisComment Type = 4
	TypeCueSheet      Type = 5
	TypePicture       Type = 6

	typeInvalid Type = 127
)

func (t Type) String() string {
	switch t {
	case TypeStreamInfo:
		return "stream info"
	case TypePadding:
		return "padding"
	case TypeApplication:
		return "application"
	case TypeSeekTable:
		return "seek table"
	case TypeVorbisComment:
		return "vorbis comment"
	case TypeCueSheet:
		return "cue sheet"
	case TypePicture:
		return "picture"
	default:
		return "<unknown block type>"
	}
}

// A Raw block body holds the unparsed body of a metadata block, such as a
// CueSheet, a Picture or a block of reserved type.
type Raw struct {
	// Block body data.
	Data []byte
}

// parseRaw reads the body of a metadata block without interpreting it.
func (block *Block) parseRaw() error {
	data := make([]byte, block.Length)
	if _, err := io.ReadFull(block.lr, data); err != nil {
		return unexpected(err)
	}
	block.Body = &Raw{Data: data}
	return nil
}

// readFields unpacks the big-endian bit fields of the given bit widths from
// buf, most significant bit first.
func readFields(buf []byte, widths ...byte) ([]uint64, error) {
	br := bitio.NewReader(bytes.NewReader(buf))
	fields := make([]uint64, len(widths))
	for i, n := range widths {
		x, err := br.ReadBits(n)
		if err != nil {
			return nil, unexpected(err)
		}
		fields[i] = x
	}
	return fields, nil
}

// unexpected returns io.ErrUnexpectedEOF if err is io.EOF, and returns err
// otherwise.
func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
