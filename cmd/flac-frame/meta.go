package main

import (
	"fmt"
	"runtime"

	"github.com/ahihi/claxon"
	"github.com/kylelemons/godebug/pretty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// metaCmd represents the meta command.
var metaCmd = &cobra.Command{
	Use:   "meta FILE...",
	Short: "Print the metadata blocks of FLAC files",
	Long: `Print the StreamInfo block and the list of remaining metadata blocks
of each FLAC file.

Example:
  flac-frame meta love.flac`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		streams, err := openAll(args)
		if err != nil {
			return err
		}
		for i, stream := range streams {
			fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", args[i])
			printMeta(cmd, stream)
			stream.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(metaCmd)
}

// openAll opens the given FLAC files concurrently and parses their metadata.
// The returned streams are in the same order as paths.
func openAll(paths []string) ([]*claxon.Stream, error) {
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	streams := make([]*claxon.Stream, len(paths))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			stream, err := claxon.Open(path)
			if err != nil {
				return errors.WithMessage(err, path)
			}
			streams[i] = stream
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, stream := range streams {
			if stream != nil {
				stream.Close()
			}
		}
		return nil, err
	}
	return streams, nil
}

// blockSummary is the printed form of a metadata block.
type blockSummary struct {
	Type   string
	Length int64
	IsLast bool
	Body   interface{}
}

// printMeta prints the metadata blocks of the stream.
func printMeta(cmd *cobra.Command, stream *claxon.Stream) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, pretty.Sprint(stream.Info))
	for i, block := range stream.Blocks {
		summary := blockSummary{
			Type:   block.Type.String(),
			Length: block.Length,
			IsLast: block.IsLast,
			Body:   block.Body,
		}
		fmt.Fprintf(out, "block %d: %s\n", i+1, pretty.Sprint(summary))
	}
}
