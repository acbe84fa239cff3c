package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MechaUma/SimpleVox/dtw"
	"github.com/MechaUma/SimpleVox/mfcc"
)

// MatchCmd loads two saved MFCC templates and reports their DTW
// distance and a pass/fail call against --threshold.
func MatchCmd() *cobra.Command {
	var threshold int

	cmd := &cobra.Command{
		Use:   "match <a.mfcc> <b.mfcc>",
		Short: "Compare two MFCC template files",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			if threshold == 0 {
				cfg, err := loadConfig()
				if err != nil {
					fatalf("match: %v", err)
				}
				threshold = cfg.Match.Threshold
			}
			if err := runMatch(args[0], args[1], threshold); err != nil {
				fatalf("match: %v", err)
			}
		},
	}
	cmd.Flags().IntVar(&threshold, "threshold", 0, "maximum DTW distance counted as a match (default: config match.threshold)")
	return cmd
}

func runMatch(pathA, pathB string, threshold int) error {
	a, err := mfcc.LoadFile(pathA)
	if err != nil {
		return fmt.Errorf("load %s: %w", pathA, err)
	}
	b, err := mfcc.LoadFile(pathB)
	if err != nil {
		return fmt.Errorf("load %s: %w", pathB, err)
	}

	dist := dtw.Calc(a, b)
	if dist == dtw.NoMatch {
		fmt.Printf("Distance: no-match (incomparable lengths/dimension)\n")
		return nil
	}

	pass := dist <= uint32(threshold)
	verdict := "FAIL"
	if pass {
		verdict = "PASS"
	}
	fmt.Printf("Distance: %d, threshold: %d, %s\n", dist, threshold, verdict)
	return nil
}
