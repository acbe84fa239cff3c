package mfcc

import (
	"errors"
	"fmt"
)

// Config describes one MfccEngine's frame geometry and filterbank
// shape. All duration/rate fields mirror vad.Config so the two
// engines can share a frame clock when run on the same stream.
type Config struct {
	// FFTNum is the FFT transform length. Must be a power of two and
	// at least FrameLength().
	FFTNum int
	// MelChannel is the number of triangular Mel filters.
	MelChannel int
	// CoefNum is the number of DCT coefficients retained per frame
	// (the DC term at index 0 is always dropped).
	CoefNum int
	// PreEmphasis is the pre-emphasis coefficient in percent (97
	// means 0.97).
	PreEmphasis int
	SampleRate  int
	// FrameTimeMs is the analysis window length. 32ms at 16kHz gives
	// a frame length of 512 samples, matching the default FFTNum.
	FrameTimeMs int
}

// DefaultConfig returns the reference configuration: 512-point FFT,
// 24 Mel channels, 12 cepstral coefficients, 97% pre-emphasis, 16kHz,
// 32ms frames.
func DefaultConfig() Config {
	return Config{
		FFTNum:      512,
		MelChannel:  24,
		CoefNum:     12,
		PreEmphasis: 97,
		SampleRate:  16000,
		FrameTimeMs: 32,
	}
}

// FrameLength returns the number of samples analyzed per frame.
func (c Config) FrameLength() int { return c.FrameTimeMs * c.SampleRate / 1000 }

// HopLength returns the stride between consecutive frames (half the
// frame length, i.e. 50% overlap).
func (c Config) HopLength() int { return c.FrameLength() / 2 }

var ErrInvalidConfig = errors.New("mfcc: invalid config")

func (c Config) validate() error {
	if c.FFTNum <= 0 || c.FFTNum&(c.FFTNum-1) != 0 {
		return fmt.Errorf("%w: fft_num %d must be a positive power of two", ErrInvalidConfig, c.FFTNum)
	}
	if c.MelChannel < 0 || c.CoefNum < 0 || c.PreEmphasis < 0 || c.FrameTimeMs < 0 {
		return fmt.Errorf("%w: negative field", ErrInvalidConfig)
	}
	if c.SampleRate != 8000 && c.SampleRate != 16000 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, c.SampleRate)
	}
	if c.FrameLength() > c.FFTNum {
		return fmt.Errorf("%w: frame length %d exceeds fft_num %d", ErrInvalidConfig, c.FrameLength(), c.FFTNum)
	}
	return nil
}
