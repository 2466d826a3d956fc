package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// stream is a FLAC stream holding a StreamInfo block and the header of one
// audio frame, located at byte offset 42.
var stream = []byte{
	'f', 'L', 'a', 'C',
	0x80, 0x00, 0x00, 0x22,
	0x10, 0x00, 0x10, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x0A, 0xC4, 0x42, 0xF0, 0x00, 0x00, 0x10, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xF8, 0xC9, 0x18, 0x00, 0xC2,
}

func TestCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.flac")
	if err := os.WriteFile(path, stream, 0o644); err != nil {
		t.Fatal(err)
	}
	golden := []struct {
		args []string
		want []string
	}{
		{
			args: []string{"meta", path},
			want: []string{path + ":", "44100", "4096"},
		},
		{
			args: []string{"header", path},
			want: []string{"blocking strategy: fixed", "channel assignment: raw", "sample rate: 44100 Hz", "bits-per-sample: 16"},
		},
		{
			args: []string{"header", "--offset", "42", path},
			want: []string{"blocking strategy: fixed", "sample rate: 44100 Hz"},
		},
	}
	for _, g := range golden {
		if err := headerCmd.Flags().Set("offset", "-1"); err != nil {
			t.Fatal(err)
		}
		out := new(bytes.Buffer)
		rootCmd.SetOut(out)
		rootCmd.SetArgs(g.args)
		if err := rootCmd.Execute(); err != nil {
			t.Errorf("%v: unexpected error; %v", g.args, err)
			continue
		}
		for _, want := range g.want {
			if !strings.Contains(out.String(), want) {
				t.Errorf("%v: output missing %q; got:\n%s", g.args, want, out)
			}
		}
	}
}

func TestCommandsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.flac")
	if err := os.WriteFile(path, stream[:20], 0o644); err != nil {
		t.Fatal(err)
	}
	golden := [][]string{
		{"meta", path},
		{"meta", path + ".missing"},
		{"header", path},
		{"header", "--offset", "4", path},
	}
	for _, args := range golden {
		if err := headerCmd.Flags().Set("offset", "-1"); err != nil {
			t.Fatal(err)
		}
		rootCmd.SetOut(new(bytes.Buffer))
		rootCmd.SetErr(new(bytes.Buffer))
		rootCmd.SetArgs(args)
		if err := rootCmd.Execute(); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}
