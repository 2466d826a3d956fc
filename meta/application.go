package meta

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// registeredApplications maps from a registered application ID to a
// description.
//
// ref: http://flac.sourceforge.net/id.html
var registeredApplications = map[ID]string{
	"ATCH": "FlacFile",
	"BSOL": "beSolo",
	"BUGS": "Bugs Player",
	"Cues": "GoldWave cue points (specification)",
	"Fica": "CUE Splitter",
	"Ftol": "flac-tools",
	"MOTB": "MOTB MetaCzar",
	"MPSE": "MP3 Stream Editor",
	"MuML": "MusicML: Music Metadata Language",
	"RIFF": "Sound Devices RIFF chunk storage",
	"SFFL": "Sound Font FLAC",
	"SONY": "Sony Creative Software",
	"SQEZ": "flacsqueeze",
	"TtWv": "TwistedWave",
	"UITS": "UITS Embedding tools",
	"aiff": "FLAC AIFF chunk storage",
	"imag": "flac-image application for storing arbitrary files in APPLICATION metadata blocks",
	"peem": "Parseable Embedded Extensible Metadata (specification)",
	"qfst": "QFLAC Studio",
	"riff": "FLAC RIFF chunk storage",
	"tune": "TagTuner",
	"xbat": "XBAT",
	"xmcd": "xmcd",
}

// An ID is a 4 byte application identifier.
type ID string

func (id ID) String() string {
	s, ok := registeredApplications[id]
	if ok {
		return s
	}
	return fmt.Sprintf("<unregistered ID: %q>", string(id))
}

// An Application metadata block is used by third-party applications. The only
// mandatory field is a 32-bit identifier. This ID is granted upon request to an
// application by the FLAC maintainers. The remainder of the block is defined by
// the registered application.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_application
type Application struct {
	// Application ID; unregistered IDs are accepted.
	ID ID
	// Application data.
	Data []byte
}

// parseApplication reads and parses the body of an Application metadata block.
//
// Application format (pseudo code):
//
//	type METADATA_BLOCK_APPLICATION struct {
//	   ID   uint32
//	   Data [header.Length-4]byte
//	}
func (block *Block) parseApplication() error {
	if block.Length < 4 {
		return errors.Wrapf(ErrInvalidLength, "meta.Block.parseApplication: application body length %d, expected at least 4", block.Length)
	}
	buf := make([]byte, block.Length)
	if _, err := io.ReadFull(block.lr, buf); err != nil {
		return unexpected(err)
	}
	block.Body = &Application{
		ID:   ID(buf[:4]),
		Data: buf[4:],
	}
	return nil
}
