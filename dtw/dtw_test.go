package dtw

import "testing"

// matrix is a fixed in-memory feature.Matrix for tests.
type matrix struct {
	rows [][]int16
	dim  int
}

func (m matrix) Size() int             { return len(m.rows) }
func (m matrix) Dimension() int        { return m.dim }
func (m matrix) Row(i int) []int16     { return m.rows[i] }

func newMatrix(rows [][]int16) matrix {
	dim := 0
	if len(rows) > 0 {
		dim = len(rows[0])
	}
	return matrix{rows: rows, dim: dim}
}

func TestCalcSelfDistanceIsZero(t *testing.T) {
	m := newMatrix([][]int16{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	})
	if got := Calc(m, m); got != 0 {
		t.Errorf("Calc(m, m) = %d, want 0", got)
	}
}

func TestCalcDimensionMismatch(t *testing.T) {
	a := newMatrix([][]int16{{1, 2, 3}})
	b := newMatrix([][]int16{{1, 2}})
	if got := Calc(a, b); got != NoMatch {
		t.Errorf("Calc with mismatched dimension = %d, want NoMatch", got)
	}
}

func TestCalcEmptyMatrix(t *testing.T) {
	a := newMatrix([][]int16{{1, 2, 3}})
	b := newMatrix(nil)
	b.dim = 3
	if got := Calc(a, b); got != NoMatch {
		t.Errorf("Calc with empty matrix = %d, want NoMatch", got)
	}
}

func TestCalcLengthRatioGate(t *testing.T) {
	row := []int16{1, 2, 3}
	long := make([][]int16, 10)
	for i := range long {
		long[i] = row
	}
	short := newMatrix([][]int16{row, row})
	a := newMatrix(long)
	if got := Calc(a, short); got != NoMatch {
		t.Errorf("Calc with >3x length ratio = %d, want NoMatch", got)
	}
}

func TestCalcSymmetric(t *testing.T) {
	a := newMatrix([][]int16{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	})
	b := newMatrix([][]int16{
		{1, 1, 0},
		{0, 1, 1},
	})
	if got1, got2 := Calc(a, b), Calc(b, a); got1 != got2 {
		t.Errorf("Calc(a,b) = %d, Calc(b,a) = %d, want equal", got1, got2)
	}
}

func TestCalcOppositeVectorsMaximal(t *testing.T) {
	a := newMatrix([][]int16{{1, 0}})
	b := newMatrix([][]int16{{-1, 0}})
	if got := Calc(a, b); got != 2*DistanceCoef {
		t.Errorf("Calc of opposite unit vectors = %d, want %d", got, 2*DistanceCoef)
	}
}
