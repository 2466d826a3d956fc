// go-metaflac lists the metadata blocks of FLAC files, in the output format of
// "metaflac --list".
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ahihi/claxon"
	"github.com/ahihi/claxon/meta"
	"github.com/pkg/errors"
)

// flagBlockNum contains an optional comma-separated list of block numbers to
// display.
var flagBlockNum string

func init() {
	flag.StringVar(&flagBlockNum, "block-number", "", "An optional comma-separated list of block numbers to display.")
	flag.Usage = usage
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: go-metaflac [OPTION]... FILE...")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
}

func main() {
	log.SetPrefix("go-metaflac: ")
	log.SetFlags(0)
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	blockNums, err := parseBlockNums(flagBlockNum)
	if err != nil {
		log.Fatal(err)
	}
	for _, path := range flag.Args() {
		if flag.NArg() > 1 {
			fmt.Printf("%s:\n", path)
		}
		if err := metaflac(os.Stdout, path, blockNums); err != nil {
			log.Fatal(err)
		}
	}
}

// metaflac lists the metadata blocks of the named FLAC file to w.
func metaflac(w io.Writer, path string, blockNums []int) error {
	stream, err := claxon.Open(path)
	if err != nil {
		return errors.WithMessage(err, path)
	}
	defer stream.Close()
	l := &lister{w: w}
	l.list(stream, blockNums)
	return nil
}

// parseBlockNums parses the comma-separated list of block numbers of the
// "--block-number" flag; a nil slice is returned for an empty list.
func parseBlockNums(s string) ([]int, error) {
	if len(s) == 0 {
		return nil, nil
	}
	var blockNums []int
	for _, field := range strings.Split(s, ",") {
		blockNum, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || blockNum < 0 {
			return nil, errors.Errorf("invalid block number %q", field)
		}
		blockNums = append(blockNums, blockNum)
	}
	return blockNums, nil
}

// A lister writes metadata block listings.
type lister struct {
	w io.Writer
}

// printf writes a formatted line to the output of the lister.
func (l *lister) printf(format string, args ...interface{}) {
	fmt.Fprintf(l.w, format+"\n", args...)
}

// list lists the metadata blocks of the stream. Block number 0 refers to the
// StreamInfo block; out of range block numbers are ignored. If blockNums is
// nil, all blocks are listed.
func (l *lister) list(stream *claxon.Stream, blockNums []int) {
	if blockNums == nil {
		for blockNum := 0; blockNum <= len(stream.Blocks); blockNum++ {
			blockNums = append(blockNums, blockNum)
		}
	}
	for _, blockNum := range blockNums {
		switch {
		case blockNum == 0:
			// The StreamInfo block header is not kept; its length is fixed.
			hdr := meta.Header{Type: meta.TypeStreamInfo, Length: 34, IsLast: len(stream.Blocks) == 0}
			l.header(hdr, 0)
			l.streamInfo(stream.Info)
		case blockNum <= len(stream.Blocks):
			// stream.Blocks starts at block number 1.
			l.block(stream.Blocks[blockNum-1], blockNum)
		}
	}
}

// block lists the header and body of a metadata block.
func (l *lister) block(block *meta.Block, blockNum int) {
	l.header(block.Header, blockNum)
	switch body := block.Body.(type) {
	case *meta.Application:
		l.application(body)
	case *meta.SeekTable:
		l.seekTable(body)
	case *meta.VorbisComment:
		l.vorbisComment(body)
	case *meta.Raw:
		l.raw(body)
	}
}

// typeName maps from metadata block type to its name in metaflac listings.
var typeName = map[meta.Type]string{
	meta.TypeStreamInfo:    "STREAMINFO",
	meta.TypePadding:       "PADDING",
	meta.TypeApplication:   "APPLICATION",
	meta.TypeSeekTable:     "SEEKTABLE",
	meta.TypeVorbisComment: "VORBIS_COMMENT",
	meta.TypeCueSheet:      "CUESHEET",
	meta.TypePicture:       "PICTURE",
}

// Example:
//
//	METADATA block #0
//	  type: 0 (STREAMINFO)
//	  is last: false
//	  length: 34
func (l *lister) header(hdr meta.Header, blockNum int) {
	name, ok := typeName[hdr.Type]
	if !ok {
		name = "UNKNOWN"
	}
	l.printf("METADATA block #%d", blockNum)
	l.printf("  type: %d (%s)", hdr.Type, name)
	l.printf("  is last: %t", hdr.IsLast)
	l.printf("  length: %d", hdr.Length)
}

// Example:
//
//	  minimum blocksize: 4608 samples
//	  maximum blocksize: 4608 samples
//	  minimum framesize: 0 bytes
//	  maximum framesize: 19024 bytes
//	  sample_rate: 44100 Hz
//	  channels: 2
//	  bits-per-sample: 16
//	  total samples: 151007220
//	  MD5 signature: 2e6238f5d9fe5c19f3ead628f750fd3d
func (l *lister) streamInfo(si *meta.StreamInfo) {
	l.printf("  minimum blocksize: %d samples", si.BlockSizeMin)
	l.printf("  maximum blocksize: %d samples", si.BlockSizeMax)
	l.printf("  minimum framesize: %d bytes", si.FrameSizeMin)
	l.printf("  maximum framesize: %d bytes", si.FrameSizeMax)
	l.printf("  sample_rate: %d Hz", si.SampleRate)
	l.printf("  channels: %d", si.NChannels)
	l.printf("  bits-per-sample: %d", si.BitsPerSample)
	l.printf("  total samples: %d", si.NSamples)
	l.printf("  MD5 signature: %x", si.MD5sum)
}

// Example:
//
//	  application ID: 46696361
//	  data contents:
//	Medieval CUE Splitter (www.medieval.it)
func (l *lister) application(app *meta.Application) {
	l.printf("  application ID: %x", string(app.ID))
	l.printf("  data contents:")
	if len(app.Data) > 0 {
		l.printf("%s", app.Data)
	}
}

// Placeholder seek points are listed without their fields.
//
// Example:
//
//	  seek points: 2
//	    point 0: sample_number=0, stream_offset=0, frame_samples=4608
//	    point 1: PLACEHOLDER
func (l *lister) seekTable(table *meta.SeekTable) {
	l.printf("  seek points: %d", len(table.Points))
	for i, point := range table.Points {
		if point.SampleNum == meta.PlaceholderPoint {
			l.printf("    point %d: PLACEHOLDER", i)
			continue
		}
		l.printf("    point %d: sample_number=%d, stream_offset=%d, frame_samples=%d", i, point.SampleNum, point.Offset, point.NSamples)
	}
}

// Example:
//
//	  vendor string: reference libFLAC 1.2.1 20070917
//	  comments: 2
//	    comment[0]: ARTIST=Iwan Gabovitch
//	    comment[1]: DATE=2012
func (l *lister) vorbisComment(vc *meta.VorbisComment) {
	l.printf("  vendor string: %s", vc.Vendor)
	l.printf("  comments: %d", len(vc.Tags))
	for i, tag := range vc.Tags {
		l.printf("    comment[%d]: %s=%s", i, tag[0], tag[1])
	}
}

// Example:
//
//	  data length: 2
//	  data:
//	00000000  30 31                                             |01|
func (l *lister) raw(raw *meta.Raw) {
	l.printf("  data length: %d", len(raw.Data))
	l.printf("  data:")
	fmt.Fprint(l.w, hex.Dump(raw.Data))
}
