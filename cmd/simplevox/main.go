// Command simplevox is the reference CLI for the isolated-word
// detection pipeline: record, enroll, match, and listen subcommands
// composing config, audio, vad, mfcc, and dtw.
package main

import "os"

func main() {
	if err := SetupRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
