package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	wav "github.com/youpy/go-wav"
	"github.com/spf13/cobra"

	"github.com/MechaUma/SimpleVox/mfcc"
	"github.com/MechaUma/SimpleVox/vad"
)

// RecordCmd captures one utterance and writes it as a .wav (raw
// audio) or .mfcc (feature) file, depending on the output extension.
func RecordCmd() *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "record <out.wav|out.mfcc>",
		Short: "Capture one spoken utterance",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runRecord(args[0], inputPath, ""); err != nil {
				fatalf("record: %v", err)
			}
		},
	}
	cmd.Flags().StringVar(&inputPath, "input", "", "replay a WAV file instead of the microphone")
	return cmd
}

// EnrollCmd is RecordCmd plus a named enrollment log line, for
// building up a reference template for later match/listen calls.
func EnrollCmd() *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "enroll <name> <out.mfcc>",
		Short: "Capture an utterance and enroll it as a named template",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runRecord(args[1], inputPath, args[0]); err != nil {
				fatalf("enroll: %v", err)
			}
		},
	}
	cmd.Flags().StringVar(&inputPath, "input", "", "replay a WAV file instead of the microphone")
	return cmd
}

func runRecord(outPath, inputPath, enrollName string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	vadConfig := cfg.VadConfig()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src, err := openFrameSource(ctx, inputPath, vadConfig.SampleRate, vadConfig.FrameLength())
	if err != nil {
		return err
	}
	defer src.Close()

	vadEngine := &vad.Engine{}
	if err := vadEngine.Init(vadConfig, logger); err != nil {
		return fmt.Errorf("init vad: %w", err)
	}
	defer vadEngine.Deinit()

	logger.Info("listening for an utterance")
	raw, err := captureUtterance(src, vadEngine)
	if err != nil {
		return err
	}
	logger.Info("utterance captured", "samples", len(raw))

	if strings.HasSuffix(outPath, ".wav") {
		if err := writeWAV(outPath, raw, vadConfig.SampleRate); err != nil {
			return err
		}
	} else {
		mfccEngine, err := mfcc.New(cfg.MfccConfig())
		if err != nil {
			return fmt.Errorf("init mfcc: %w", err)
		}
		defer mfccEngine.Close()

		feat, err := mfccEngine.Create(raw)
		if err != nil {
			return fmt.Errorf("compute mfcc: %w", err)
		}
		if err := mfcc.SaveFile(outPath, feat); err != nil {
			return fmt.Errorf("save %s: %w", outPath, err)
		}
	}

	if enrollName != "" {
		logger.Info("enrolled template", "name", enrollName, "path", outPath)
	}
	return nil
}

func writeWAV(path string, samples []int16, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	wavSamples := make([]wav.Sample, len(samples))
	for i, s := range samples {
		wavSamples[i] = wav.Sample{Values: [2]int{int(s), 0}}
	}
	writer := wav.NewWriter(f, uint32(len(wavSamples)), 1, uint32(sampleRate), 16)
	if err := writer.WriteSamples(wavSamples); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
