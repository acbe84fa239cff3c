package main

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MechaUma/SimpleVox/mfcc"
	"github.com/MechaUma/SimpleVox/vad"
)

func testMfccConfig() mfcc.Config {
	return mfcc.Config{
		FFTNum:      64,
		MelChannel:  8,
		CoefNum:     4,
		PreEmphasis: 97,
		SampleRate:  16000,
		FrameTimeMs: 2, // 32-sample frames, 16-sample hop
	}
}

func newTestEngine(t *testing.T) *mfcc.Engine {
	t.Helper()
	e, err := mfcc.New(testMfccConfig())
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func syntheticSignal(n int) []int16 {
	samples := make([]int16, n)
	for i := range samples {
		samples[i] = int16((i%200 - 100) * 100)
	}
	return samples
}

func TestIncrementalMFCCAccumulatesFrames(t *testing.T) {
	engine := newTestEngine(t)
	cfg := testMfccConfig()
	inc := newIncrementalMFCC(engine, cfg)

	dest := syntheticSignal(200)

	require.NoError(t, inc.feed(dest, 32))
	require.Equal(t, 1, inc.frameNum)

	require.NoError(t, inc.feed(dest, 64))
	require.Equal(t, 3, inc.frameNum) // hop 16 over samples [32,64) adds two more frames

	feat, err := inc.finish()
	require.NoError(t, err)
	require.Equal(t, inc.frameNum, feat.Size())
	require.Equal(t, cfg.CoefNum, feat.Dimension())
}

func TestIncrementalMFCCDiscardsProgressOnRollback(t *testing.T) {
	engine := newTestEngine(t)
	cfg := testMfccConfig()
	inc := newIncrementalMFCC(engine, cfg)

	dest := syntheticSignal(200)
	require.NoError(t, inc.feed(dest, 96))
	require.Greater(t, inc.frameNum, 0)

	// A shorter valid length means vad.Engine.Detect rolled its buffer
	// back; progress made past that point is no longer valid.
	require.NoError(t, inc.feed(dest, 16))
	require.Equal(t, 0, inc.frameNum)
	require.Equal(t, 0, inc.processed)
}

func TestIncrementalMFCCFinishErrorsWhenEmpty(t *testing.T) {
	engine := newTestEngine(t)
	inc := newIncrementalMFCC(engine, testMfccConfig())

	_, err := inc.finish()
	require.ErrorIs(t, err, errNoFrames)
}

type emptyFrameSource struct{}

func (emptyFrameSource) NextFrame() ([]int16, error) { return nil, io.EOF }
func (emptyFrameSource) Close() error                { return nil }

func TestCaptureUtteranceWrapsSourceError(t *testing.T) {
	vadEngine := &vad.Engine{}
	require.NoError(t, vadEngine.Init(vad.DefaultConfig(), nil))
	t.Cleanup(vadEngine.Deinit)

	_, err := captureUtterance(emptyFrameSource{}, vadEngine)
	require.Error(t, err)
	require.True(t, errors.Is(err, io.EOF))
}
