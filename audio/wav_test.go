package audio

import (
	"io"
	"os"
	"testing"

	wav "github.com/youpy/go-wav"
)

func writeTestWAV(t *testing.T, path string, samples []int16, sampleRate int) {
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	wavSamples := make([]wav.Sample, len(samples))
	for i, s := range samples {
		wavSamples[i] = wav.Sample{Values: [2]int{int(s), 0}}
	}
	writer := wav.NewWriter(f, uint32(len(wavSamples)), 1, uint32(sampleRate), 16)
	if err := writer.WriteSamples(wavSamples); err != nil {
		t.Fatalf("write samples: %v", err)
	}
}

func TestWAVSourceFramesAndPadding(t *testing.T) {
	path := t.TempDir() + "/test.wav"
	samples := make([]int16, 25)
	for i := range samples {
		samples[i] = int16(i * 100)
	}
	writeTestWAV(t, path, samples, 16000)

	src, err := NewWAVSource(path, 10)
	if err != nil {
		t.Fatalf("NewWAVSource: %v", err)
	}
	defer src.Close()

	if src.SampleRate() != 16000 {
		t.Errorf("SampleRate = %d, want 16000", src.SampleRate())
	}

	var frames [][]int16
	for {
		frame, err := src.NextFrame()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("NextFrame: %v", err)
		}
		frames = append(frames, frame)
	}

	if len(frames) != 3 {
		t.Fatalf("got %d frames, want 3 (25 samples in 10-sample frames, last one padded)", len(frames))
	}
	// Last frame is short (5 real samples) and zero-padded.
	last := frames[2]
	for i := 5; i < len(last); i++ {
		if last[i] != 0 {
			t.Errorf("last[%d] = %d, want zero padding", i, last[i])
		}
	}
}
