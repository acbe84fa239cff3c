package vad

import "testing"

func silentFrame(n int) []int16 { return make([]int16, n) }

func TestInitRejectsBadSampleRate(t *testing.T) {
	var e Engine
	cfg := DefaultConfig()
	cfg.SampleRate = 44100
	if err := e.Init(cfg, nil); err == nil {
		t.Fatal("expected error for unsupported sample rate")
	}
}

func TestInitRejectsNegativeWindow(t *testing.T) {
	var e Engine
	cfg := DefaultConfig()
	cfg.HangoverMs = -1
	if err := e.Init(cfg, nil); err == nil {
		t.Fatal("expected error for negative hangover window")
	}
}

func TestInitTwiceFails(t *testing.T) {
	var e Engine
	cfg := DefaultConfig()
	if err := e.Init(cfg, nil); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer e.Deinit()
	if err := e.Init(cfg, nil); err == nil {
		t.Fatal("expected second Init to fail")
	}
}

func TestProcessSkipsClassifierDuringHangBefore(t *testing.T) {
	var e Engine
	cfg := DefaultConfig()
	cfg.HangBeforeMs = 100 // 10 frames at 16kHz/10ms
	if err := e.Init(cfg, nil); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer e.Deinit()

	frame := silentFrame(cfg.FrameLength())
	var state State
	var err error
	// No warmup configured: Warmup -> Setup -> Silence happens within
	// the first two frames.
	for i := 0; i < 2; i++ {
		state, err = e.Process(frame)
		if err != nil {
			t.Fatalf("Process: %v", err)
		}
	}
	if state != Silence {
		t.Fatalf("state = %v, want Silence", state)
	}
	if e.hasSatisfiedHangBefore {
		t.Fatal("hang-before fill should still be running, with the classifier not yet consulted")
	}
}

func TestProcessRejectsWrongFrameLength(t *testing.T) {
	var e Engine
	if err := e.Init(DefaultConfig(), nil); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer e.Deinit()

	if _, err := e.Process(make([]int16, 10)); err == nil {
		t.Fatal("expected error for wrong frame length")
	}
}

func TestProcessBeforeInitErrors(t *testing.T) {
	var e Engine
	if _, err := e.Process(make([]int16, 160)); err == nil {
		t.Fatal("expected error when not initialized")
	}
}

func TestSilenceNeverReachesDetected(t *testing.T) {
	var e Engine
	cfg := DefaultConfig()
	if err := e.Init(cfg, nil); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer e.Deinit()

	frame := silentFrame(cfg.FrameLength())
	for i := 0; i < 200; i++ {
		state, err := e.Process(frame)
		if err != nil {
			t.Fatalf("Process: %v", err)
		}
		if state == Detected {
			t.Fatal("pure silence should never reach Detected")
		}
	}
}

func TestResetReturnsToWarmup(t *testing.T) {
	var e Engine
	cfg := DefaultConfig()
	if err := e.Init(cfg, nil); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer e.Deinit()

	frame := silentFrame(cfg.FrameLength())
	if _, err := e.Process(frame); err != nil {
		t.Fatalf("Process: %v", err)
	}
	e.Reset()
	if e.State() != Warmup {
		t.Fatalf("state after Reset = %v, want Warmup", e.State())
	}
}

func TestDetectReturnsNegativeWhileOpen(t *testing.T) {
	var e Engine
	cfg := DefaultConfig()
	if err := e.Init(cfg, nil); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer e.Deinit()

	dest := make([]int16, cfg.FrameLength()*100)
	frame := silentFrame(cfg.FrameLength())
	length, err := e.Detect(dest, frame)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if length != -1 {
		t.Fatalf("Detect length = %d, want -1 for an open segment", length)
	}
}

func TestDetectReturnsNegativeOnUndersizedBufferDuringSilence(t *testing.T) {
	var e Engine
	cfg := DefaultConfig()
	if err := e.Init(cfg, nil); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer e.Deinit()

	dest := make([]int16, 0)
	frame := silentFrame(cfg.FrameLength())
	length, err := e.Detect(dest, frame)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if length != -1 {
		t.Fatalf("Detect length = %d, want -1 when dest is too small and still in Silence", length)
	}
}
