package meta_test

import (
	"bytes"
	"io"
	"reflect"
	"testing"

	"github.com/ahihi/claxon/meta"
	"github.com/icza/bitio"
	"github.com/kylelemons/godebug/pretty"
	"github.com/pkg/errors"
)

// info is the StreamInfo of a 2 second, 24-bit stereo recording.
var info = meta.StreamInfo{
	BlockSizeMin:  0x1000,
	BlockSizeMax:  0x1000,
	FrameSizeMin:  0x44c5,
	FrameSizeMax:  0x4588,
	SampleRate:    0xac44,
	NChannels:     0x2,
	BitsPerSample: 0x18,
	NSamples:      0x2000,
	MD5sum:        [16]uint8{0x95, 0xba, 0xe5, 0xe2, 0xc7, 0x45, 0xbb, 0x3c, 0xa9, 0x5c, 0xa3, 0xb1, 0x35, 0xc9, 0x43, 0xf4},
}

func TestReader(t *testing.T) {
	vorbis := []byte{
		0x02, 0x00, 0x00, 0x00, 'g', 'o',
		0x02, 0x00, 0x00, 0x00,
		0x08, 0x00, 0x00, 0x00, 'Y', 'E', 'A', 'R', '=', '2', '0', '8',
		0x05, 0x00, 0x00, 0x00, 'A', '=', 'b', '=', 'c',
	}
	seek := []byte{
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x10, 0x00,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00,
	}
	var data []byte
	data = append(data, block(false, meta.TypeStreamInfo, streamInfo(info))...)
	data = append(data, block(false, meta.TypePadding, make([]byte, 8))...)
	data = append(data, block(false, meta.TypeApplication, []byte("riffRIFF"))...)
	data = append(data, block(false, meta.TypeSeekTable, seek)...)
	data = append(data, block(false, meta.TypeVorbisComment, vorbis)...)
	data = append(data, block(false, 9, []byte{0x01, 0x02})...)
	data = append(data, block(true, meta.TypePicture, []byte{0x03})...)

	golden := []struct {
		hdr  meta.Header
		body interface{}
	}{
		// i=0
		{
			hdr:  meta.Header{Type: meta.TypeStreamInfo, Length: 34},
			body: &info,
		},
		// i=1
		{
			hdr: meta.Header{Type: meta.TypePadding, Length: 8},
		},
		// i=2
		{
			hdr:  meta.Header{Type: meta.TypeApplication, Length: 8},
			body: &meta.Application{ID: "riff", Data: []byte("RIFF")},
		},
		// i=3
		{
			hdr:  meta.Header{Type: meta.TypeSeekTable, Length: 36},
			body: &meta.SeekTable{Points: []meta.SeekPoint{{SampleNum: 0, Offset: 0, NSamples: 0x1000}, {SampleNum: meta.PlaceholderPoint}}},
		},
		// i=4
		{
			hdr:  meta.Header{Type: meta.TypeVorbisComment, Length: int64(len(vorbis))},
			body: &meta.VorbisComment{Vendor: "go", Tags: [][2]string{{"YEAR", "208"}, {"A", "b=c"}}},
		},
		// i=5
		{
			hdr:  meta.Header{Type: 9, Length: 2},
			body: &meta.Raw{Data: []byte{0x01, 0x02}},
		},
		// i=6
		{
			hdr:  meta.Header{Type: meta.TypePicture, Length: 1, IsLast: true},
			body: &meta.Raw{Data: []byte{0x03}},
		},
	}

	// Trailing data is the first frame header, which must be left unread.
	r := bytes.NewReader(append(data, 0xFF, 0xF8))
	mr := meta.NewReader(r)
	for i, g := range golden {
		block, err := mr.Next()
		if err != nil {
			t.Fatalf("i=%d: unexpected error; %v", i, err)
		}
		if !reflect.DeepEqual(block.Header, g.hdr) {
			t.Errorf("i=%d: header mismatch; expected %#v, got %#v", i, g.hdr, block.Header)
		}
		if g.body == nil {
			if block.Body != nil {
				t.Errorf("i=%d: expected nil body, got %#v", i, block.Body)
			}
			continue
		}
		if !reflect.DeepEqual(block.Body, g.body) {
			t.Errorf("i=%d: body mismatch; diff (-want +got):\n%s", i, pretty.Compare(g.body, block.Body))
		}
	}
	for i := 0; i < 2; i++ {
		if _, err := mr.Next(); err != io.EOF {
			t.Errorf("expected io.EOF after last block, got %v", err)
		}
	}
	if r.Len() != 2 {
		t.Errorf("expected 2 unread bytes after the metadata, got %d", r.Len())
	}
}

func TestReaderEmpty(t *testing.T) {
	mr := meta.NewReader(bytes.NewReader(nil))
	if _, err := mr.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestReaderTruncated(t *testing.T) {
	mr := meta.NewReader(bytes.NewReader(block(false, meta.TypeStreamInfo, streamInfo(info))))
	if _, err := mr.Next(); err != nil {
		t.Fatal(err)
	}
	if _, err := mr.Next(); errors.Cause(err) != io.ErrUnexpectedEOF {
		t.Fatalf("expected io.ErrUnexpectedEOF, got %v", err)
	}
	if _, err := mr.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestParseError(t *testing.T) {
	withInfo := func(f func(si *meta.StreamInfo)) []byte {
		si := info
		f(&si)
		return block(true, meta.TypeStreamInfo, streamInfo(si))
	}
	golden := []struct {
		name string
		data []byte
		want error
	}{
		{
			name: "invalid type",
			data: block(true, 127, nil),
			want: meta.ErrInvalidType,
		},
		{
			name: "truncated header",
			data: []byte{0x80, 0x00, 0x00},
			want: io.ErrUnexpectedEOF,
		},
		{
			name: "truncated body",
			data: block(true, meta.TypeStreamInfo, streamInfo(info))[:20],
			want: io.ErrUnexpectedEOF,
		},
		{
			name: "truncated raw body",
			data: block(true, meta.TypeCueSheet, make([]byte, 16))[:10],
			want: io.ErrUnexpectedEOF,
		},
		{
			name: "truncated padding",
			data: block(true, meta.TypePadding, make([]byte, 16))[:10],
			want: io.ErrUnexpectedEOF,
		},
		{
			name: "stream info length",
			data: block(true, meta.TypeStreamInfo, streamInfo(info)[:33]),
			want: meta.ErrInvalidLength,
		},
		{
			name: "minimum block size",
			data: withInfo(func(si *meta.StreamInfo) { si.BlockSizeMin = 15 }),
			want: meta.ErrInvalidBlockSize,
		},
		{
			name: "block size bounds",
			data: withInfo(func(si *meta.StreamInfo) { si.BlockSizeMin, si.BlockSizeMax = 4096, 1024 }),
			want: meta.ErrInconsistentBounds,
		},
		{
			name: "frame size bounds",
			data: withInfo(func(si *meta.StreamInfo) { si.FrameSizeMin, si.FrameSizeMax = 10, 5 }),
			want: meta.ErrInconsistentBounds,
		},
		{
			name: "sample rate",
			data: withInfo(func(si *meta.StreamInfo) { si.SampleRate = 0 }),
			want: meta.ErrInvalidSampleRate,
		},
		{
			name: "padding",
			data: block(true, meta.TypePadding, []byte{0x00, 0x00, 0x01}),
			want: meta.ErrInvalidPadding,
		},
		{
			name: "application length",
			data: block(true, meta.TypeApplication, []byte("xyz")),
			want: meta.ErrInvalidLength,
		},
		{
			name: "seek table length",
			data: block(true, meta.TypeSeekTable, make([]byte, 17)),
			want: meta.ErrInvalidLength,
		},
		{
			name: "vorbis comment separator",
			data: block(true, meta.TypeVorbisComment, []byte{0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 'A'}),
			want: meta.ErrInvalidComment,
		},
		{
			name: "vorbis comment string length",
			data: block(true, meta.TypeVorbisComment, []byte{0xFF, 0xFF, 0x00, 0x00}),
			want: meta.ErrInvalidComment,
		},
	}
	for _, g := range golden {
		_, err := meta.Parse(bytes.NewReader(g.data))
		if errors.Cause(err) != g.want {
			t.Errorf("%s: expected %v, got %v", g.name, g.want, err)
		}
	}
}

func TestSkip(t *testing.T) {
	data := block(false, meta.TypeVorbisComment, []byte{0xFF, 0xFF})
	data = append(data, block(true, meta.TypeStreamInfo, streamInfo(info))...)
	r := bytes.NewReader(data)
	block, err := meta.New(r)
	if err != nil {
		t.Fatal(err)
	}
	if err := block.Skip(); err != nil {
		t.Fatal(err)
	}
	block, err = meta.Parse(r)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(block.Body, &info) {
		t.Errorf("stream info mismatch; diff (-want +got):\n%s", pretty.Compare(&info, block.Body))
	}
}

func TestTypeString(t *testing.T) {
	golden := []struct {
		typ  meta.Type
		want string
	}{
		{typ: meta.TypeStreamInfo, want: "stream info"},
		{typ: meta.TypeVorbisComment, want: "vorbis comment"},
		{typ: meta.TypePicture, want: "picture"},
		{typ: 42, want: "<unknown block type>"},
	}
	for _, g := range golden {
		if got := g.typ.String(); got != g.want {
			t.Errorf("type %d: expected %q, got %q", uint8(g.typ), g.want, got)
		}
	}
}

// block returns an encoded metadata block with the given body.
func block(isLast bool, typ meta.Type, body []byte) []byte {
	var last uint64
	if isLast {
		last = 1
	}
	hdr := pack([]byte{1, 7, 24}, last, uint64(typ), uint64(len(body)))
	return append(hdr, body...)
}

// streamInfo returns the encoded body of a StreamInfo metadata block.
func streamInfo(si meta.StreamInfo) []byte {
	body := pack([]byte{16, 16, 24, 24, 20, 3, 5, 36},
		uint64(si.BlockSizeMin),
		uint64(si.BlockSizeMax),
		uint64(si.FrameSizeMin),
		uint64(si.FrameSizeMax),
		uint64(si.SampleRate),
		uint64(si.NChannels-1),
		uint64(si.BitsPerSample-1),
		si.NSamples,
	)
	return append(body, si.MD5sum[:]...)
}

// pack packs the values into big-endian bit fields of the given widths.
func pack(widths []byte, values ...uint64) []byte {
	buf := new(bytes.Buffer)
	bw := bitio.NewWriter(buf)
	for i, n := range widths {
		if err := bw.WriteBits(values[i], n); err != nil {
			panic(err)
		}
	}
	if err := bw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func TestIDString(t *testing.T) {
	golden := []struct {
		id   meta.ID
		want string
	}{
		{id: "riff", want: "FLAC RIFF chunk storage"},
		{id: "Fica", want: "CUE Splitter"},
		{id: "xyzw", want: `<unregistered ID: "xyzw">`},
	}
	for _, g := range golden {
		if got := g.id.String(); got != g.want {
			t.Errorf("id %q: expected %q, got %q", string(g.id), g.want, got)
		}
	}
}
