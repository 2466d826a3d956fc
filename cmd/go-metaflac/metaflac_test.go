package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/kylelemons/godebug/diff"
)

// stream is a FLAC stream holding a StreamInfo, an Application and a CueSheet
// metadata block.
var stream = []byte{
	'f', 'L', 'a', 'C',
	// StreamInfo.
	0x00, 0x00, 0x00, 0x22,
	0x10, 0x00, 0x10, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x0A, 0xC4, 0x42, 0xF0, 0x00, 0x00, 0x10, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	// Application.
	0x02, 0x00, 0x00, 0x06,
	'r', 'i', 'f', 'f', 'o', 'k',
	// CueSheet; last block.
	0x85, 0x00, 0x00, 0x02,
	'0', '1',
}

const streamInfoListing = `METADATA block #0
  type: 0 (STREAMINFO)
  is last: false
  length: 34
  minimum blocksize: 4096 samples
  maximum blocksize: 4096 samples
  minimum framesize: 0 bytes
  maximum framesize: 0 bytes
  sample_rate: 44100 Hz
  channels: 2
  bits-per-sample: 16
  total samples: 4096
  MD5 signature: 00000000000000000000000000000000
`

const applicationListing = `METADATA block #1
  type: 2 (APPLICATION)
  is last: false
  length: 6
  application ID: 72696666
  data contents:
ok
`

var cueSheetListing = `METADATA block #2
  type: 5 (CUESHEET)
  is last: true
  length: 2
  data length: 2
  data:
` + hex.Dump([]byte("01"))

func TestMetaflac(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.flac")
	if err := os.WriteFile(path, stream, 0o644); err != nil {
		t.Fatal(err)
	}
	golden := []struct {
		blockNums []int
		want      string
	}{
		{blockNums: nil, want: streamInfoListing + applicationListing + cueSheetListing},
		{blockNums: []int{2, 0}, want: cueSheetListing + streamInfoListing},
		{blockNums: []int{1, 7}, want: applicationListing},
	}
	for i, g := range golden {
		buf := new(bytes.Buffer)
		if err := metaflac(buf, path, g.blockNums); err != nil {
			t.Errorf("i=%d: unexpected error; %v", i, err)
			continue
		}
		if got := buf.String(); got != g.want {
			t.Errorf("i=%d: listing mismatch (-want +got):\n%s", i, diff.Diff(g.want, got))
		}
	}
}

func TestMetaflacError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.flac")
	if err := os.WriteFile(path, stream[:30], 0o644); err != nil {
		t.Fatal(err)
	}
	if err := metaflac(new(bytes.Buffer), path, nil); err == nil {
		t.Errorf("expected error for truncated stream")
	}
}

func TestParseBlockNums(t *testing.T) {
	golden := []struct {
		s       string
		want    []int
		wantErr bool
	}{
		{s: "", want: nil},
		{s: "0", want: []int{0}},
		{s: "2, 0,1", want: []int{2, 0, 1}},
		{s: "a", wantErr: true},
		{s: "1,", wantErr: true},
		{s: "-1", wantErr: true},
	}
	for _, g := range golden {
		got, err := parseBlockNums(g.s)
		if g.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", g.s)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error; %v", g.s, err)
			continue
		}
		if !reflect.DeepEqual(got, g.want) {
			t.Errorf("%q: block numbers mismatch; expected %v, got %v", g.s, g.want, got)
		}
	}
}
