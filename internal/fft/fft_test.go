package fft

import (
	"math"
	"math/cmplx"
	"testing"
)

func resetBackend() {
	mu.Lock()
	active = false
	mu.Unlock()
}

func TestInitRejectsNonPowerOfTwo(t *testing.T) {
	resetBackend()
	if _, err := Init(100); err == nil {
		t.Fatal("expected error for non-power-of-two length")
	}
}

func TestInitSingleton(t *testing.T) {
	resetBackend()
	e, err := Init(64)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer e.Deinit()

	if _, err := Init(64); err == nil {
		t.Fatal("expected second Init to fail while first is active")
	}
}

func TestDeinitReleasesSingleton(t *testing.T) {
	resetBackend()
	e, err := Init(32)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	e.Deinit()

	e2, err := Init(32)
	if err != nil {
		t.Fatalf("Init after Deinit: %v", err)
	}
	e2.Deinit()
}

func TestForwardDCComponent(t *testing.T) {
	resetBackend()
	e, err := Init(8)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer e.Deinit()

	signal := []float32{1, 1, 1, 1, 1, 1, 1, 1}
	buf := make([]complex128, 8)
	if err := e.Pack(signal, buf); err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if err := e.Forward(buf); err != nil {
		t.Fatalf("Forward: %v", err)
	}

	if r := real(buf[0]); r < 7.999 || r > 8.001 {
		t.Errorf("X(0) = %v, want 8", buf[0])
	}
	for k := 1; k < 8; k++ {
		if mag := cmplx.Abs(buf[k]); mag > 1e-6 {
			t.Errorf("X(%d) = %v, want ~0", k, buf[k])
		}
	}
}

func TestForwardSingleTone(t *testing.T) {
	resetBackend()
	e, err := Init(8)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer e.Deinit()

	// A signal equal to the k=1 basis vector's real part should place
	// all of its energy at bins 1 and 7 (the conjugate-symmetric pair).
	signal := make([]float32, 8)
	for n := range signal {
		signal[n] = float32(math.Cos(2 * math.Pi * float64(n) / 8))
	}
	buf := make([]complex128, 8)
	if err := e.Pack(signal, buf); err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if err := e.Forward(buf); err != nil {
		t.Fatalf("Forward: %v", err)
	}

	for k := 2; k <= 6; k++ {
		if mag := cmplx.Abs(buf[k]); mag > 1e-3 {
			t.Errorf("X(%d) = %v, want ~0", k, buf[k])
		}
	}
	if mag := cmplx.Abs(buf[1]); mag < 3.9 || mag > 4.1 {
		t.Errorf("|X(1)| = %v, want ~4", mag)
	}
}

func TestBufferLengthMismatch(t *testing.T) {
	resetBackend()
	e, err := Init(16)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer e.Deinit()

	if err := e.Forward(make([]complex128, 8)); err == nil {
		t.Fatal("expected length-mismatch error")
	}
}
