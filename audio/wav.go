package audio

import (
	"fmt"
	"io"
	"os"

	wav "github.com/youpy/go-wav"
)

// WAVSource replays a mono or stereo WAV file (downmixed to mono) as
// fixed-length int16 frames, zero-padding the final short frame.
type WAVSource struct {
	samples     []int16
	sampleRate  int
	frameLength int
	pos         int
}

// NewWAVSource loads path entirely into memory and prepares it for
// frame-by-frame playback at frameLength samples per frame.
func NewWAVSource(path string, frameLength int) (*WAVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := wav.NewReader(f)
	format, err := reader.Format()
	if err != nil {
		return nil, fmt.Errorf("audio: WAV format: %w", err)
	}
	numChannels := int(format.NumChannels)
	if numChannels < 1 || numChannels > 2 {
		return nil, fmt.Errorf("audio: WAV: only mono or stereo supported, got %d channels", numChannels)
	}

	var samples []int16
	for {
		chunk, err := reader.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("audio: reading WAV samples: %w", err)
		}
		for _, s := range chunk {
			var v float64
			if numChannels == 1 {
				v = reader.FloatValue(s, 0)
			} else {
				v = (reader.FloatValue(s, 0) + reader.FloatValue(s, 1)) / 2
			}
			samples = append(samples, int16(v*32767))
		}
	}

	return &WAVSource{
		samples:     samples,
		sampleRate:  int(format.SampleRate),
		frameLength: frameLength,
	}, nil
}

// SampleRate returns the file's sample rate.
func (w *WAVSource) SampleRate() int { return w.sampleRate }

// NextFrame returns the next frameLength-sample frame, zero-padding
// the last partial frame, and io.EOF once every sample is consumed.
func (w *WAVSource) NextFrame() ([]int16, error) {
	if w.pos >= len(w.samples) {
		return nil, io.EOF
	}
	frame := make([]int16, w.frameLength)
	n := copy(frame, w.samples[w.pos:])
	w.pos += n
	return frame, nil
}

// Close is a no-op: the whole file is already loaded in memory.
func (w *WAVSource) Close() error { return nil }
