// Package feature defines the shared matrix abstraction that the MFCC
// engine produces and DTW consumes: a sequence of fixed-dimension
// frames, each a row of quantized coefficients.
package feature

// Matrix is a sequence of Size frames, each a row of Dimension
// quantized coefficients. mfcc.Feature is the only producer; dtw.Calc
// is the primary consumer, but anything satisfying this contract
// (a recorded reference template loaded from storage, a synthetic
// fixture in a test) can stand in for either side.
type Matrix interface {
	// Size returns the number of frames in the matrix.
	Size() int
	// Dimension returns the number of coefficients per frame.
	Dimension() int
	// Row returns the coefficients of frame i. The returned slice must
	// not be retained past the next call that could mutate the
	// matrix; callers that need to keep it should copy.
	Row(i int) []int16
}
