// Package classifier implements the fixed-point speech/non-speech
// predicate that vad.Engine uses as its per-frame classifier backend.
// It is a GMM likelihood-ratio detector over six log-energy bands,
// ported from the WebRTC fixed-point VAD and extended from four to
// five aggression levels to match SimpleVox's {0..4} range.
package classifier

import (
	"errors"
	"fmt"
)

// ErrInvalidMode is returned when a caller requests an aggression
// level outside [0,4].
var ErrInvalidMode = errors.New("classifier: invalid mode")

// ErrNotInitialized is returned by Process on a zero-value Detector.
var ErrNotInitialized = errors.New("classifier: not initialized")

var validSampleRates = map[int]bool{8000: true, 16000: true}

// vadInst is the detector's full fixed-point state, unchanged in
// shape from the reference implementation.
type vadInst struct {
	downsamplingFilterStates [4]int32

	noiseMeans, speechMeans [tableSize]int16
	noiseStds, speechStds   [tableSize]int16

	frameCounter   int32
	overHang       int16
	numOfSpeech    int16
	indexVector    [16 * numChannels]int16
	lowValueVector [16 * numChannels]int16
	meanValue      [numChannels]int16
	upperState     [5]int16
	lowerState     [5]int16
	hpFilterState  [4]int16

	mode     modeTable
	initFlag int
}

// Detector is a speech/non-speech classifier handle: the create/
// destroy/process backend the VAD engine's speech-classifier contract
// expects.
type Detector struct {
	inst *vadInst
	mode int
}

// New creates a classifier at the given aggression level (0-4).
func New(mode int) (*Detector, error) {
	d := &Detector{inst: &vadInst{}}
	if err := d.init(); err != nil {
		return nil, err
	}
	if err := d.SetMode(mode); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Detector) init() error {
	self := d.inst
	self.frameCounter = 0
	self.overHang = 0
	self.numOfSpeech = 0

	clear(self.downsamplingFilterStates[:])

	copy(self.noiseMeans[:], noiseDataMeans[:])
	copy(self.speechMeans[:], speechDataMeans[:])
	copy(self.noiseStds[:], noiseDataStds[:])
	copy(self.speechStds[:], speechDataStds[:])

	for i := range self.lowValueVector {
		self.lowValueVector[i] = 10000
		self.indexVector[i] = 0
	}
	clear(self.upperState[:])
	clear(self.lowerState[:])
	clear(self.hpFilterState[:])

	for i := range self.meanValue {
		self.meanValue[i] = 1600
	}

	self.mode = modeTables[defaultMode]
	self.initFlag = initCheck
	return nil
}

// SetMode changes the aggression level without resetting accumulated
// noise/speech model state.
func (d *Detector) SetMode(mode int) error {
	if mode < 0 || mode > 4 {
		return fmt.Errorf("%w: %d", ErrInvalidMode, mode)
	}
	d.mode = mode
	d.inst.mode = modeTables[mode]
	return nil
}

// Destroy releases the detector. Classifier state carries no external
// resources, so this only drops the reference.
func (d *Detector) Destroy() {
	d.inst = nil
}

// ValidRateAndFrameLength reports whether frameLength is one of the
// three frame durations (10/20/30ms) the classifier accepts at rate.
func ValidRateAndFrameLength(rate, frameLength int) bool {
	if !validSampleRates[rate] {
		return false
	}
	for _, ms := range [3]int{10, 20, 30} {
		if frameLength == rate*ms/1000 {
			return true
		}
	}
	return false
}

// Process classifies one frame at sampleRate, returning true for
// speech. sampleRate must be 8000 or 16000 and frame must be a valid
// 10/20/30ms frame length for that rate.
func (d *Detector) Process(frame []int16, sampleRate int) (bool, error) {
	if d == nil || d.inst == nil {
		return false, ErrNotInitialized
	}
	self := d.inst
	if self.initFlag != initCheck {
		return false, ErrNotInitialized
	}
	if len(frame) == 0 {
		return false, errors.New("classifier: empty frame")
	}
	if !ValidRateAndFrameLength(sampleRate, len(frame)) {
		return false, fmt.Errorf("classifier: invalid rate/frame length %d/%d", sampleRate, len(frame))
	}

	var vad int
	var err error
	switch sampleRate {
	case 16000:
		vad, err = calcVad16khz(self, frame, len(frame))
	case 8000:
		vad, err = calcVad8khz(self, frame, len(frame))
	}
	if err != nil {
		return false, err
	}
	return vad > 0, nil
}
