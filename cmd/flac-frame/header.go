package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/ahihi/claxon"
	"github.com/ahihi/claxon/frame"
	"github.com/kylelemons/godebug/pretty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// headerCmd represents the header command.
var headerCmd = &cobra.Command{
	Use:   "header [--offset N] FILE",
	Short: "Print an audio frame header of a FLAC file",
	Long: `Print an audio frame header of a FLAC file. By default the first
frame header following the metadata blocks is printed; use --offset to parse
the frame header starting at the given byte offset instead.

Example:
  flac-frame header love.flac
  flac-frame header --offset 8228 love.flac`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		offset, err := cmd.Flags().GetInt64("offset")
		if err != nil {
			return err
		}
		var hdr *frame.Header
		var sampleRate uint32
		var bitsPerSample uint8
		if offset < 0 {
			stream, err := claxon.Open(args[0])
			if err != nil {
				return errors.WithMessage(err, args[0])
			}
			defer stream.Close()
			if hdr, err = stream.Next(); err != nil {
				return errors.WithMessage(err, args[0])
			}
			sampleRate, bitsPerSample = stream.SampleRate(hdr), stream.BitsPerSample(hdr)
		} else {
			if hdr, err = parseHeaderAt(args[0], offset); err != nil {
				return errors.WithMessage(err, args[0])
			}
			sampleRate, bitsPerSample = hdr.SampleRate, hdr.BitsPerSample
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, pretty.Sprint(hdr))
		fmt.Fprintf(out, "blocking strategy: %v\n", hdr.BlockingStrategy)
		fmt.Fprintf(out, "channel assignment: %v\n", hdr.ChannelMode)
		if sampleRate != 0 {
			fmt.Fprintf(out, "sample rate: %d Hz\n", sampleRate)
		}
		if bitsPerSample != 0 {
			fmt.Fprintf(out, "bits-per-sample: %d\n", bitsPerSample)
		}
		return nil
	},
}

func init() {
	headerCmd.Flags().Int64("offset", -1, "byte offset of the frame header; the first frame header if negative")
	rootCmd.AddCommand(headerCmd)
}

// parseHeaderAt parses the frame header located at the given byte offset of
// the named file.
func parseHeaderAt(path string, offset int64) (*frame.Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, errors.WithStack(err)
	}
	return frame.ParseHeader(bufio.NewReader(f))
}
