package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/MechaUma/SimpleVox/audio"
	"github.com/MechaUma/SimpleVox/mfcc"
	"github.com/MechaUma/SimpleVox/vad"
)

// maxUtteranceSeconds bounds how much raw audio a single captured
// segment may hold; detection windows configured far beyond this are
// a config error, not something to silently truncate.
const maxUtteranceSeconds = 10

// openFrameSource opens a microphone capturer, or a WAV file reader
// when inputPath is non-empty, sized to frameLength samples per frame.
func openFrameSource(ctx context.Context, inputPath string, sampleRate, frameLength int) (audio.FrameSource, error) {
	if inputPath != "" {
		return audio.NewWAVSource(inputPath, frameLength)
	}
	mic := audio.NewMicCapturer(sampleRate, frameLength)
	if err := mic.Start(ctx); err != nil {
		return nil, fmt.Errorf("open microphone: %w", err)
	}
	return mic, nil
}

// captureUtterance drives vadEngine.Detect frame by frame until a
// segment completes, returning its raw samples.
func captureUtterance(src audio.FrameSource, vadEngine *vad.Engine) ([]int16, error) {
	maxSamples := vadEngine.Config().SampleRate * maxUtteranceSeconds
	dest := make([]int16, maxSamples)

	for {
		frame, err := src.NextFrame()
		if err != nil {
			return nil, fmt.Errorf("no utterance detected: %w", err)
		}
		length, err := vadEngine.Detect(dest, frame)
		if err != nil {
			return nil, err
		}
		if length >= 0 {
			return dest[:length], nil
		}
	}
}

// incrementalMFCC computes MFCC frames as raw samples become
// available, rather than waiting for a whole utterance, mirroring the
// original's frame-by-frame enroll/compare loop. It tracks how much
// of the caller's growing raw-sample buffer it has already turned
// into frames, and discards its progress if that buffer is ever
// rolled back to something shorter (vad.Engine.Detect's retention
// logic does this when a PreDetection run collapses back to Silence).
type incrementalMFCC struct {
	engine      *mfcc.Engine
	frameLength int
	hopLength   int
	coefNum     int

	processed int
	frameNum  int
	raw       []float64
}

func newIncrementalMFCC(engine *mfcc.Engine, cfg mfcc.Config) *incrementalMFCC {
	return &incrementalMFCC{
		engine:      engine,
		frameLength: cfg.FrameLength(),
		hopLength:   cfg.HopLength(),
		coefNum:     cfg.CoefNum,
	}
}

// feed computes any MFCC frames newly available in dest[:validLength].
func (m *incrementalMFCC) feed(dest []int16, validLength int) error {
	if validLength < m.processed {
		m.processed = 0
		m.frameNum = 0
		m.raw = m.raw[:0]
	}
	out := make([]float64, m.coefNum)
	for m.processed+m.frameLength <= validLength {
		if err := m.engine.Calculate(dest[m.processed:m.processed+m.frameLength], out); err != nil {
			return err
		}
		m.raw = append(m.raw, out...)
		m.frameNum++
		m.processed += m.hopLength
	}
	return nil
}

var errNoFrames = errors.New("simplevox: utterance too short to yield any MFCC frame")

// finish normalizes every frame accumulated so far into a Feature.
func (m *incrementalMFCC) finish() (*mfcc.Feature, error) {
	if m.frameNum == 0 {
		return nil, errNoFrames
	}
	return mfcc.CreateFromFrames(m.raw, m.frameNum, m.coefNum), nil
}
