package numeric

import "testing"

func TestAbs(t *testing.T) {
	if got := Abs(int16(-100)); got != 100 {
		t.Errorf("Abs(-100) = %d, want 100", got)
	}
	if got := Abs(int32(1000)); got != 1000 {
		t.Errorf("Abs(1000) = %d, want 1000", got)
	}
}

func TestMinMax(t *testing.T) {
	if got := Min(3, 5); got != 3 {
		t.Errorf("Min(3,5) = %d, want 3", got)
	}
	if got := Max(3, 5); got != 5 {
		t.Errorf("Max(3,5) = %d, want 5", got)
	}
}

func TestClamp(t *testing.T) {
	cases := []struct {
		v, lo, hi, want int
	}{
		{50, 0, 100, 50},
		{-10, 0, 100, 0},
		{150, 0, 100, 100},
	}
	for _, c := range cases {
		if got := Clamp(c.v, c.lo, c.hi); got != c.want {
			t.Errorf("Clamp(%d,%d,%d) = %d, want %d", c.v, c.lo, c.hi, got, c.want)
		}
	}
}

func TestSumAverage(t *testing.T) {
	s := []int{1, 2, 3, 4, 5}
	if got := Sum(s); got != 15 {
		t.Errorf("Sum = %d, want 15", got)
	}
	if got := Average(s); got != 3.0 {
		t.Errorf("Average = %v, want 3.0", got)
	}
	if got := Average([]int{}); got != 0 {
		t.Errorf("Average(empty) = %v, want 0", got)
	}
}
