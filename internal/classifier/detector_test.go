package classifier

import "testing"

func TestNew(t *testing.T) {
	d, err := New(0)
	if err != nil {
		t.Fatalf("New(0) error: %v", err)
	}
	if d == nil {
		t.Fatal("detector is nil")
	}
}

func TestSetMode(t *testing.T) {
	d, err := New(0)
	if err != nil {
		t.Fatalf("New(0) error: %v", err)
	}

	for mode := 0; mode <= 4; mode++ {
		if err := d.SetMode(mode); err != nil {
			t.Errorf("SetMode(%d) error: %v", mode, err)
		}
	}

	for _, mode := range []int{5, -1} {
		if err := d.SetMode(mode); err == nil {
			t.Errorf("SetMode(%d) expected error, got nil", mode)
		}
	}
}

func TestValidRateAndFrameLength(t *testing.T) {
	tests := []struct {
		rate, frameLength int
		want              bool
	}{
		{8000, 80, true},
		{8000, 160, true},
		{8000, 240, true},
		{16000, 160, true},
		{16000, 320, true},
		{16000, 480, true},
		{32000, 320, false},
		{48000, 480, false},
		{8000, 79, false},
		{16000, 100, false},
		{44100, 441, false},
	}
	for _, tt := range tests {
		if got := ValidRateAndFrameLength(tt.rate, tt.frameLength); got != tt.want {
			t.Errorf("ValidRateAndFrameLength(%d,%d) = %v, want %v", tt.rate, tt.frameLength, got, tt.want)
		}
	}
}

func TestProcessSilence(t *testing.T) {
	d, err := New(0)
	if err != nil {
		t.Fatalf("New(0) error: %v", err)
	}
	frame := make([]int16, 160) // 10ms @ 16kHz
	speech, err := d.Process(frame, 16000)
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if speech {
		t.Error("expected silence to classify as non-speech")
	}
}

func TestProcessRejectsBadFrame(t *testing.T) {
	d, err := New(0)
	if err != nil {
		t.Fatalf("New(0) error: %v", err)
	}
	if _, err := d.Process(make([]int16, 100), 16000); err == nil {
		t.Error("expected error for invalid frame length")
	}
	if _, err := d.Process(nil, 16000); err == nil {
		t.Error("expected error for empty frame")
	}
}
