// Package mfcc computes Mel-frequency cepstral coefficients from
// 16-bit PCM frames: pre-emphasis and windowing, a power spectrum via
// internal/fft, a triangular Mel filterbank, log compression, and a
// DCT-II, followed by whole-utterance mean/variance normalization
// into the fixed-point feature.Matrix that dtw.Calc consumes.
package mfcc

import (
	"errors"
	"math"

	"github.com/MechaUma/SimpleVox/internal/fft"
	"github.com/MechaUma/SimpleVox/internal/numeric"
)

const (
	preEmphaCoef  = 100
	windowCoef    = 10000
	dctCoef       = 10000
	normalizeCoef = 1000
)

// Engine holds one configuration's precomputed window, filterbank
// geometry, and DCT table, plus the FFT backend it owns exclusively
// for its lifetime.
type Engine struct {
	config Config

	window      []int16 // Hamming window, length FrameLength()
	melPosition []int16 // length MelChannel+2
	dctTable    []int16 // length CoefNum*MelChannel

	fftEngine     *fft.Engine
	fftBuf        []complex128 // length FFTNum
	powerSpectrum []float64    // length FFTNum/2
	melSpectrum   []float64    // length MelChannel
}

// New creates an Engine for config, acquiring the process-wide FFT
// backend. Only one Engine (of this package, or any other user of
// internal/fft) may be live at a time.
func New(config Config) (*Engine, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	e := &Engine{config: config}
	e.window = setupHammingWindow(config.FrameLength())
	e.melPosition = setupMelFilter(config.SampleRate, config.FFTNum, config.MelChannel)
	e.dctTable = setupDCTTable(config.CoefNum, config.MelChannel)
	e.powerSpectrum = make([]float64, config.FFTNum/2)
	e.melSpectrum = make([]float64, config.MelChannel)
	e.fftBuf = make([]complex128, config.FFTNum)

	fe, err := fft.Init(config.FFTNum)
	if err != nil {
		return nil, err
	}
	e.fftEngine = fe
	return e, nil
}

// Close releases the FFT backend.
func (e *Engine) Close() {
	if e.fftEngine != nil {
		e.fftEngine.Deinit()
		e.fftEngine = nil
	}
}

func setupHammingWindow(length int) []int16 {
	window := make([]int16, length)
	for i := 0; i < length; i++ {
		window[i] = int16(math.Round(windowCoef * (0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(length-1)))))
	}
	return window
}

func hzToMel(freq float64) float64 {
	return 2595.0 * math.Log(freq/700.0+1.0)
}

func melToHz(mel float64) float64 {
	return 700.0 * (math.Exp(mel/2595.0) - 1.0)
}

// setupMelFilter places the start, center, and end points of each
// triangular Mel filter along the FFT bin axis. position[0] is the
// spectrum's origin and position[channelNum+1] is its Nyquist bin;
// the centers in between are evenly spaced in Mel scale.
func setupMelFilter(sampleRate, fftNum, channelNum int) []int16 {
	position := make([]int16, channelNum+2)
	fn := float64(sampleRate) / 2
	melFn := hzToMel(fn)
	deltaMel := melFn / float64(channelNum+1)
	deltaFreq := float64(sampleRate) / float64(fftNum)
	end := fftNum / 2

	for i := 1; i <= channelNum; i++ {
		centerMel := float64(i) * deltaMel
		centerFreq := melToHz(centerMel)
		position[i] = int16(math.Round(centerFreq / deltaFreq))
	}
	position[0] = 0
	position[channelNum+1] = int16(end)
	return position
}

func setupDCTTable(coefNum, melChannel int) []int16 {
	table := make([]int16, coefNum*melChannel)
	for i := 0; i < coefNum; i++ {
		for j := 0; j < melChannel; j++ {
			// i+1 skips the DC term (i=0), which carries no useful
			// spectral-shape information for word matching.
			table[i*melChannel+j] = int16(math.Round(dctCoef * math.Cos(math.Pi/float64(melChannel)*(float64(j)+0.5)*float64(i+1))))
		}
	}
	return table
}

// applyMelFilter folds the power spectrum through the triangular
// filterbank. Each filter ramps linearly up from its start to its
// center and back down to its end; accumulating a running slope
// avoids recomputing the per-bin weight at every sample.
func applyMelFilter(src []float64, melPosition []int16, channelNum int, dest []float64) {
	for i := 1; i <= channelNum; i++ {
		increment := 1.0 / float64(melPosition[i]-melPosition[i-1])
		coef := 0.0
		dest[i-1] = 0
		for j := int(melPosition[i-1]); j < int(melPosition[i]); j++ {
			coef += increment
			dest[i-1] += coef * src[j]
		}
		decrement := 1.0 / float64(melPosition[i+1]-melPosition[i])
		for j := int(melPosition[i]); j < int(melPosition[i+1]); j++ {
			coef -= decrement
			dest[i-1] += coef * src[j]
		}
	}
}

// Calculate computes one frame's unnormalized MFCC coefficients. out
// must have length CoefNum.
func (e *Engine) Calculate(frame []int16, out []float64) error {
	c := e.config
	frameLength := c.FrameLength()
	if len(frame) != frameLength {
		return errors.New("mfcc: frame length mismatch")
	}
	if len(out) != c.CoefNum {
		return errors.New("mfcc: output length mismatch")
	}

	realIn := make([]float32, c.FFTNum)
	prevVal := 0
	for i := 0; i < frameLength; i++ {
		curtVal := int(frame[i])
		preEmphasised := float64(curtVal) - float64(c.PreEmphasis)*float64(prevVal)/preEmphaCoef
		realIn[i] = float32(preEmphasised * float64(e.window[i]) / windowCoef)
		prevVal = curtVal
	}

	if err := e.fftEngine.Pack(realIn, e.fftBuf); err != nil {
		return err
	}
	if err := e.fftEngine.Forward(e.fftBuf); err != nil {
		return err
	}

	for i := 0; i < c.FFTNum/2; i++ {
		re, im := real(e.fftBuf[i]), imag(e.fftBuf[i])
		e.powerSpectrum[i] = re*re + im*im
	}

	applyMelFilter(e.powerSpectrum, e.melPosition, c.MelChannel, e.melSpectrum)

	logMel := make([]float64, c.MelChannel)
	for i := range logMel {
		logMel[i] = 10.0 * math.Log10(e.melSpectrum[i])
	}

	for i := 0; i < c.CoefNum; i++ {
		dct := e.dctTable[i*c.MelChannel : (i+1)*c.MelChannel]
		var val float64
		for j := 0; j < c.MelChannel; j++ {
			val += logMel[j] * float64(dct[j]) / dctCoef
		}
		out[i] = val
	}
	return nil
}

// Normalize rescales raw MFCCs to zero mean and unit variance across
// the whole utterance, then quantizes by normalizeCoef into int16,
// clipping at the int16 range.
func Normalize(src []float64, frameNum, coefNum int, dest []int16) {
	var sum float64
	for _, v := range src {
		sum += v
	}
	mean := sum / float64(frameNum*coefNum)

	var variance float64
	for _, v := range src {
		d := v - mean
		variance += d * d
	}
	stddev := 1.0
	if math.Abs(variance) >= 1e-7 {
		stddev = math.Sqrt(variance / float64(frameNum*coefNum))
	}

	for i, v := range src {
		normalized := normalizeCoef * (v - mean) / stddev
		dest[i] = int16(numeric.Clamp(normalized, float64(math.MinInt16), float64(math.MaxInt16)))
	}
}

// Create runs the full pipeline over a whole utterance of raw PCM,
// hopping by HopLength() between frames, and normalizes the result
// into a Feature.
func (e *Engine) Create(rawAudio []int16) (*Feature, error) {
	frameLength := e.config.FrameLength()
	hopLength := e.config.HopLength()
	frameNum := (len(rawAudio) - (frameLength - hopLength)) / hopLength
	if frameNum <= 0 {
		return nil, errors.New("mfcc: audio too short for one frame")
	}

	coefNum := e.config.CoefNum
	raw := make([]float64, frameNum*coefNum)
	for i := 0; i < frameNum; i++ {
		start := i * hopLength
		if err := e.Calculate(rawAudio[start:start+frameLength], raw[i*coefNum:(i+1)*coefNum]); err != nil {
			return nil, err
		}
	}

	feat := NewFeature(frameNum, coefNum)
	Normalize(raw, frameNum, coefNum, feat.data)
	return feat, nil
}

// CreateFromFrames normalizes already-computed per-frame raw MFCCs
// (coef_num each) into a Feature, for callers that accumulate frames
// incrementally (see vad.Engine.Detect) instead of handing Create a
// whole utterance up front.
func CreateFromFrames(raw []float64, frameNum, coefNum int) *Feature {
	feat := NewFeature(frameNum, coefNum)
	Normalize(raw, frameNum, coefNum, feat.data)
	return feat
}
