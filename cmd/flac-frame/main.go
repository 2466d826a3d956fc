// flac-frame is a tool which inspects the metadata blocks and audio frame
// headers of FLAC files.
//
// Usage:
//
//	flac-frame meta FILE...
//	flac-frame header [--offset N] FILE
package main

import (
	"log"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "flac-frame",
	Short: "Inspect the structure of FLAC files",
	Long: `flac-frame inspects the metadata blocks and audio frame headers of
FLAC files, without decoding any audio samples.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	log.SetPrefix("flac-frame: ")
	log.SetFlags(0)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
