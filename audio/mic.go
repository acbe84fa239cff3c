package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/gen2brain/malgo"
)

// MicCapturer streams live microphone input as fixed-length int16
// frames, buffering malgo's variable-size byte callbacks until a
// whole frame accumulates.
type MicCapturer struct {
	sampleRate  int
	frameLength int

	malgoContext *malgo.AllocatedContext
	device       *malgo.Device

	frames chan []int16
	errs   chan error

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	pending  []int16 // samples accumulated toward the next frame
}

// NewMicCapturer creates a capturer that emits frameLength-sample
// mono frames at sampleRate.
func NewMicCapturer(sampleRate, frameLength int) *MicCapturer {
	return &MicCapturer{
		sampleRate:  sampleRate,
		frameLength: frameLength,
		frames:      make(chan []int16, 10),
		errs:        make(chan error, 10),
		stopChan:    make(chan struct{}),
	}
}

// Start opens the default capture device and begins emitting frames.
func (m *MicCapturer) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("audio: mic capturer already running")
	}
	m.running = true
	m.mu.Unlock()

	malgoCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
		return fmt.Errorf("audio: init malgo context: %w", err)
	}
	m.malgoContext = malgoCtx

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = 1
	deviceConfig.SampleRate = uint32(m.sampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(m.frameLength)

	var callbacks malgo.DeviceCallbacks
	callbacks.Data = func(_ []byte, pInputSamples []byte, framecount uint32) {
		m.onSamples(pInputSamples)
	}

	device, err := malgo.InitDevice(m.malgoContext.Context, deviceConfig, callbacks)
	if err != nil {
		m.malgoContext.Uninit()
		m.malgoContext.Free()
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
		return fmt.Errorf("audio: init device: %w", err)
	}
	m.device = device

	if err := device.Start(); err != nil {
		device.Uninit()
		m.malgoContext.Uninit()
		m.malgoContext.Free()
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
		return fmt.Errorf("audio: start device: %w", err)
	}

	go func() {
		select {
		case <-ctx.Done():
			m.Close()
		case <-m.stopChan:
		}
	}()

	return nil
}

// onSamples converts a captured byte buffer (16-bit little-endian
// PCM) into int16 samples and emits whole frames as they accumulate.
func (m *MicCapturer) onSamples(raw []byte) {
	n := len(raw) / 2
	samples := make([]int16, n)
	for i := 0; i < n; i++ {
		samples[i] = int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8)
	}

	m.mu.Lock()
	m.pending = append(m.pending, samples...)
	for len(m.pending) >= m.frameLength {
		frame := make([]int16, m.frameLength)
		copy(frame, m.pending[:m.frameLength])
		m.pending = m.pending[m.frameLength:]
		m.mu.Unlock()

		select {
		case m.frames <- frame:
		default:
			select {
			case m.errs <- errors.New("audio: frame buffer overflow, dropping frame"):
			default:
			}
		}
		m.mu.Lock()
	}
	m.mu.Unlock()
}

// NextFrame blocks until a frame is available, an error is reported,
// or the capturer is closed (io.EOF).
func (m *MicCapturer) NextFrame() ([]int16, error) {
	select {
	case frame, ok := <-m.frames:
		if !ok {
			return nil, io.EOF
		}
		return frame, nil
	case err, ok := <-m.errs:
		if !ok {
			return nil, io.EOF
		}
		return nil, err
	}
}

// Close stops capture and releases the device and context.
func (m *MicCapturer) Close() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	m.mu.Unlock()

	select {
	case <-m.stopChan:
	default:
		close(m.stopChan)
	}

	var err error
	if m.device != nil {
		if stopErr := m.device.Stop(); stopErr != nil {
			err = fmt.Errorf("audio: stop device: %w", stopErr)
		}
		m.device.Uninit()
	}
	if m.malgoContext != nil {
		m.malgoContext.Uninit()
		m.malgoContext.Free()
	}
	close(m.frames)
	close(m.errs)
	return err
}
