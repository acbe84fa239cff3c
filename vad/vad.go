// Package vad implements the isolated-word voice activity detector:
// a small state machine that turns a per-frame speech/non-speech
// classification into segment boundaries, with configurable warmup,
// pre-roll, decision, and hangover windows.
package vad

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/MechaUma/SimpleVox/internal/classifier"
)

// State is a VadEngine's current position in the detection state
// machine.
type State int

const (
	None State = iota
	Warmup
	Setup
	Silence
	PreDetection
	Speech
	PostDetection
	Detected
)

func (s State) String() string {
	switch s {
	case Warmup:
		return "Warmup"
	case Setup:
		return "Setup"
	case Silence:
		return "Silence"
	case PreDetection:
		return "PreDetection"
	case Speech:
		return "Speech"
	case PostDetection:
		return "PostDetection"
	case Detected:
		return "Detected"
	default:
		return "None"
	}
}

// Mode is the classifier aggression level: higher values demand
// stronger evidence before a frame counts as speech.
type Mode int

const (
	AggressionLV0 Mode = 0
	AggressionLV1 Mode = 1
	AggressionLV2 Mode = 2
	AggressionLV3 Mode = 3
	AggressionLV4 Mode = 4
)

// FrameTimeMs is the fixed frame duration every configuration uses.
// The classifier backend only accepts 10/20/30ms frames, and the
// state machine below assumes exactly one 10ms frame per Process call.
const FrameTimeMs = 10

// Config describes one VadEngine's detection windows, in
// milliseconds, and the sample rate and aggression level to run at.
type Config struct {
	// WarmupTimeMs is discarded before detection begins, for hardware
	// that needs time to settle after the microphone opens.
	WarmupTimeMs int
	// HangBeforeMs is how much leading audio before the first speech
	// frame is kept as part of a detected segment.
	HangBeforeMs int
	// DecisionTimeMs is how long continuous speech must be observed
	// before a segment is confirmed (rather than dismissed as a
	// transient noise burst).
	DecisionTimeMs int
	// HangoverMs is how long continuous silence must be observed
	// after speech before the segment is considered finished.
	HangoverMs int
	SampleRate int
	Mode       Mode
}

// DefaultConfig returns the reference configuration: no warmup,
// 100ms pre-roll, 200ms decision window, 200ms hangover, 16kHz,
// aggression level 0.
func DefaultConfig() Config {
	return Config{
		HangBeforeMs:   100,
		DecisionTimeMs: 200,
		HangoverMs:     200,
		SampleRate:     16000,
		Mode:           AggressionLV0,
	}
}

// FrameLength returns the number of samples in one 10ms frame.
func (c Config) FrameLength() int { return FrameTimeMs * c.SampleRate / 1000 }

// WarmupLength returns WarmupTimeMs in samples.
func (c Config) WarmupLength() int { return c.WarmupTimeMs * c.SampleRate / 1000 }

// BeforeLength returns HangBeforeMs in samples.
func (c Config) BeforeLength() int { return c.HangBeforeMs * c.SampleRate / 1000 }

// DecisionLength returns DecisionTimeMs in samples.
func (c Config) DecisionLength() int { return c.DecisionTimeMs * c.SampleRate / 1000 }

// OverLength returns HangoverMs in samples.
func (c Config) OverLength() int { return c.HangoverMs * c.SampleRate / 1000 }

var (
	// ErrAlreadyInitialized is returned by Init on an Engine that
	// already holds a live classifier.
	ErrAlreadyInitialized = errors.New("vad: already initialized")
	// ErrInvalidConfig is returned by Init when the configuration is
	// out of range for the classifier backend or the state machine.
	ErrInvalidConfig = errors.New("vad: invalid config")
)

// Engine runs the detection state machine over a stream of frames.
// The zero value is usable; call Init before Process.
type Engine struct {
	classifier *classifier.Detector
	config     Config
	logger     *slog.Logger

	state                  State
	stateCount             int
	frameCount             int
	hasSatisfiedHangBefore bool
}

// Config returns the engine's active configuration.
func (e *Engine) Config() Config { return e.config }

// State returns the engine's current state without advancing it.
func (e *Engine) State() State { return e.state }

// Length returns the number of samples accumulated in the segment
// Detect is currently building, before it reaches Detected.
func (e *Engine) Length() int { return e.config.FrameLength() * e.frameCount }

// Init validates config and creates the classifier backend. logger
// receives state-transition events; a nil logger discards them.
func (e *Engine) Init(config Config, logger *slog.Logger) error {
	if e.classifier != nil {
		return ErrAlreadyInitialized
	}
	if config.SampleRate != 8000 && config.SampleRate != 16000 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, config.SampleRate)
	}
	if config.HangBeforeMs < 0 || config.DecisionTimeMs < 0 || config.HangoverMs < 0 {
		return fmt.Errorf("%w: negative window", ErrInvalidConfig)
	}

	d, err := classifier.New(int(config.Mode))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	e.classifier = d
	e.config = config
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e.logger = logger
	e.Reset()
	return nil
}

// Deinit releases the classifier backend, allowing Init to be called
// again (on this Engine or another).
func (e *Engine) Deinit() {
	if e.classifier != nil {
		e.classifier.Destroy()
		e.classifier = nil
	}
}

// Reset returns the state machine to Warmup and clears accumulated
// segment bookkeeping, without discarding the classifier's learned
// noise/speech models. Call it before detecting a new segment.
func (e *Engine) Reset() {
	e.frameCount = 0
	e.stateCount = 0
	e.hasSatisfiedHangBefore = false
	e.state = Warmup
}

func divCeil(dividend, divisor int) int {
	return (dividend + divisor - 1) / divisor
}

// Process advances the state machine by one frame, which must be
// exactly FrameLength samples at the configured sample rate.
func (e *Engine) Process(frame []int16) (State, error) {
	if e.classifier == nil {
		return None, errors.New("vad: not initialized")
	}
	frameLength := e.config.FrameLength()
	if len(frame) != frameLength {
		return e.state, fmt.Errorf("vad: frame length %d, want %d", len(frame), frameLength)
	}

	e.stateCount++
	stateLength := frameLength * e.stateCount

	isSpeech := false
	if e.hasSatisfiedHangBefore {
		speech, err := e.classifier.Process(frame, e.config.SampleRate)
		if err != nil {
			return e.state, err
		}
		isSpeech = speech
	}

	prev := e.state
	switch e.state {
	case Warmup:
		if stateLength >= e.config.WarmupLength() {
			e.stateCount = 0
			e.state = Setup
		}
	case Setup:
		e.stateCount = 0
		e.state = Silence
	case Silence:
		if !e.hasSatisfiedHangBefore {
			e.frameCount++
			if stateLength >= e.config.BeforeLength() {
				e.hasSatisfiedHangBefore = true
			}
			break
		}
		if isSpeech {
			e.stateCount = 0
			e.frameCount++
			e.state = PreDetection
		}
	case PreDetection:
		if isSpeech {
			passCount := divCeil(e.config.DecisionLength(), frameLength)
			e.frameCount++
			if e.stateCount >= passCount {
				e.stateCount = 0
				e.state = Speech
			}
		} else {
			e.frameCount -= e.stateCount
			e.stateCount = 0
			e.state = Silence
		}
	case Speech:
		e.frameCount++
		if !isSpeech {
			e.stateCount = 0
			e.state = PostDetection
		}
	case PostDetection:
		e.frameCount++
		if isSpeech {
			e.stateCount = 0
			e.state = Speech
		} else {
			overCount := divCeil(e.config.OverLength(), frameLength)
			if e.stateCount >= overCount {
				e.stateCount = 0
				e.state = Detected
			}
		}
	case Detected:
		// terminal; callers reset before detecting another segment
	default:
		e.stateCount = 0
		e.frameCount = 0
		e.state = Warmup
	}

	if e.state != prev {
		e.logger.Debug("vad state transition", "from", prev, "to", e.state, "frame", e.frameCount)
	}
	return e.state, nil
}

// Detect accumulates frames into dest until a full segment is
// detected, returning the segment's length in samples. It returns -1
// while the segment is still open. If dest has no room for another
// frame, the frame is not processed: Detect returns the length
// accumulated so far once Speech has been reached, and -1 before
// that. An error is returned only when frame validation fails.
//
// Callers drive a whole segment by calling Detect once per frame
// until it returns a non-negative length (Detected, or a truncated
// segment) or an error; call Reset before starting the next segment.
func (e *Engine) Detect(dest []int16, frame []int16) (int, error) {
	frameLength := e.config.FrameLength()
	soundLength := frameLength * e.frameCount

	if e.state == Detected {
		return soundLength, nil
	}
	if len(dest) < soundLength+frameLength {
		if e.state >= Speech {
			return soundLength, nil
		}
		return -1, nil
	}

	prevFrameCount := e.frameCount
	state, err := e.Process(frame)
	if err != nil {
		return -1, err
	}

	switch {
	case prevFrameCount+1 == e.frameCount:
		copy(dest[soundLength:soundLength+frameLength], frame)
	case state == Silence && prevFrameCount >= e.frameCount:
		shiftCount := prevFrameCount - e.frameCount + 1
		shiftLength := frameLength * shiftCount
		if soundLength > shiftLength {
			copy(dest[:soundLength-shiftLength], dest[shiftLength:soundLength])
			copy(dest[soundLength-shiftLength:soundLength-shiftLength+frameLength], frame)
		}
	}

	if state == Detected {
		return frameLength * e.frameCount, nil
	}
	return -1, nil
}
