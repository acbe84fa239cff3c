package main

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MechaUma/SimpleVox/audio"
)

func TestWriteWAVRoundTrip(t *testing.T) {
	path := t.TempDir() + "/out.wav"
	samples := syntheticSignal(64)

	require.NoError(t, writeWAV(path, samples, 16000))

	src, err := audio.NewWAVSource(path, 32)
	require.NoError(t, err)
	defer src.Close()
	require.Equal(t, 16000, src.SampleRate())

	var total int
	for {
		frame, err := src.NextFrame()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		total += len(frame)
	}
	require.Equal(t, 64, total)
}
