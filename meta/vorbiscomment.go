package meta

import (
	"encoding/binary"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidComment reports a Vorbis comment which is malformed.
var ErrInvalidComment = errors.New("meta: invalid vorbis comment")

// A VorbisComment metadata block is for storing a list of human-readable
// name/value pairs. Values are encoded using UTF-8. It is an implementation of
// the Vorbis comment specification (without the framing bit). This is the only
// officially supported tagging mechanism in FLAC. There may be only one
// VORBIS_COMMENT block in a stream. In some external documentation, Vorbis
// comments are called FLAC tags to lessen confusion.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_vorbis_comment
type VorbisComment struct {
	// Vendor name.
	Vendor string
	// A list of tags, each represented by a name-value pair.
	Tags [][2]string
}

// parseVorbisComment reads and parses the body of a VorbisComment metadata
// block.
//
// Vorbis comment format (pseudo code):
//
//	type METADATA_BLOCK_VORBIS_COMMENT struct {
//	   vendor_length uint32
//	   vendor_string [vendor_length]byte
//	   comment_count uint32
//	   comments      [comment_count]comment
//	}
//
//	type comment struct {
//	   vector_length uint32
//	   // vector_string is a name/value pair. Example: "NAME=value".
//	   vector_string [length]byte
//	}
//
// All lengths and counts are little-endian.
func (block *Block) parseVorbisComment() error {
	// 32 bits: vendor length.
	// vendor_length bytes: vendor.
	vendor, err := block.readString()
	if err != nil {
		return err
	}
	vc := &VorbisComment{Vendor: vendor}

	// 32 bits: number of tags.
	var n uint32
	if err := binary.Read(block.lr, binary.LittleEndian, &n); err != nil {
		return unexpected(err)
	}
	// Each tag takes up at least 4 bytes.
	if int64(n) > block.Length/4 {
		return errors.Wrapf(ErrInvalidComment, "meta.Block.parseVorbisComment: %d tags do not fit in %d bytes", n, block.Length)
	}
	for i := uint32(0); i < n; i++ {
		// 32 bits: vector length.
		// vector_length bytes: vector.
		vector, err := block.readString()
		if err != nil {
			return err
		}
		pos := strings.Index(vector, "=")
		if pos == -1 {
			return errors.Wrapf(ErrInvalidComment, "meta.Block.parseVorbisComment: no '=' present in %q", vector)
		}
		vc.Tags = append(vc.Tags, [2]string{vector[:pos], vector[pos+1:]})
	}
	block.Body = vc
	return nil
}

// readString reads a string prefixed by its little-endian 32-bit length.
func (block *Block) readString() (string, error) {
	var n uint32
	if err := binary.Read(block.lr, binary.LittleEndian, &n); err != nil {
		return "", unexpected(err)
	}
	if int64(n) > block.Length {
		return "", errors.Wrapf(ErrInvalidComment, "meta.Block.readString: string length %d exceeds block length %d", n, block.Length)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(block.lr, buf); err != nil {
		return "", unexpected(err)
	}
	return string(buf), nil
}
