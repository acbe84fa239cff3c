package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MechaUma/SimpleVox/config"
	"github.com/MechaUma/SimpleVox/dtw"
	"github.com/MechaUma/SimpleVox/mfcc"
	"github.com/MechaUma/SimpleVox/vad"
)

// ListenCmd runs a continuous microphone loop: VAD segments each
// utterance while MFCC computes its feature frame by frame (the
// original's incremental enroll/compare loop, rather than recording a
// whole segment before any MFCC work starts), and each finished
// segment is compared by DTW against a stored reference template.
func ListenCmd() *cobra.Command {
	var referencePath string
	var threshold int

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Continuously detect and match utterances from the microphone",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := loadConfig()
			if err != nil {
				fatalf("listen: %v", err)
			}
			if referencePath == "" {
				referencePath = filepath.Join(cfg.Match.StorePath, "reference.mfcc")
			}
			if threshold == 0 {
				threshold = cfg.Match.Threshold
			}
			if err := runListen(cfg, referencePath, threshold); err != nil {
				fatalf("listen: %v", err)
			}
		},
	}
	cmd.Flags().StringVar(&referencePath, "reference", "", "template to match against (default: <store_path>/reference.mfcc)")
	cmd.Flags().IntVar(&threshold, "threshold", 0, "maximum DTW distance counted as a match (default: config match.threshold)")
	return cmd
}

func runListen(cfg *config.Config, referencePath string, threshold int) error {
	logger := newLogger()

	reference, err := mfcc.LoadFile(referencePath)
	if err != nil {
		logger.Warn("no reference template; segments will only be logged", "path", referencePath, "error", err)
		reference = nil
	}

	vadConfig := cfg.VadConfig()
	mfccConfig := cfg.MfccConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nstopping...")
		cancel()
	}()

	src, err := openFrameSource(ctx, "", vadConfig.SampleRate, vadConfig.FrameLength())
	if err != nil {
		return err
	}
	defer src.Close()

	vadEngine := &vad.Engine{}
	if err := vadEngine.Init(vadConfig, logger); err != nil {
		return fmt.Errorf("init vad: %w", err)
	}
	defer vadEngine.Deinit()

	mfccEngine, err := mfcc.New(mfccConfig)
	if err != nil {
		return fmt.Errorf("init mfcc: %w", err)
	}
	defer mfccEngine.Close()

	maxSamples := vadConfig.SampleRate * maxUtteranceSeconds
	dest := make([]int16, maxSamples)
	inc := newIncrementalMFCC(mfccEngine, mfccConfig)

	logger.Info("listening", "reference", referencePath, "threshold", threshold)
	for {
		frame, err := src.NextFrame()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		length, err := vadEngine.Detect(dest, frame)
		if err != nil {
			logger.Error("detect failed", "error", err)
			continue
		}
		if err := inc.feed(dest, vadEngine.Length()); err != nil {
			logger.Error("mfcc compute failed", "error", err)
			continue
		}
		if length < 0 {
			continue
		}

		feat, err := inc.finish()
		if err != nil {
			logger.Warn("segment too short to score", "samples", length)
		} else if reference != nil {
			dist := dtw.Calc(reference, feat)
			logger.Info("segment detected", "distance", dist, "match", dist != dtw.NoMatch && dist <= uint32(threshold))
		} else {
			logger.Info("segment detected", "samples", length)
		}

		vadEngine.Reset()
		inc = newIncrementalMFCC(mfccEngine, mfccConfig)
	}
}
