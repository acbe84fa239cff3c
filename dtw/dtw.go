// Package dtw computes the dynamic-time-warping distance between two
// MFCC feature matrices, the final step of isolated-word matching:
// the recorded template with the lowest average step distance to a
// live utterance's features is the match.
package dtw

import (
	"math"

	"github.com/MechaUma/SimpleVox/feature"
)

// DistanceCoef scales the per-step cosine distance so it is expressed
// as an integer in [0, 2*DistanceCoef].
const DistanceCoef = 1000

// NoMatch is returned by Calc when the two matrices cannot be
// compared: mismatched dimension, an empty matrix, or a length ratio
// beyond 3x in either direction (too different in duration to be the
// same word).
const NoMatch = math.MaxUint32

func innerProduct(vec1, vec2 []int16) int {
	val := 0
	n := len(vec1)
	if len(vec2) < n {
		n = len(vec2)
	}
	for i := 0; i < n; i++ {
		val += int(vec1[i]) * int(vec2[i])
	}
	return val
}

func selfInnerProduct(vec []int16) int {
	val := 0
	for _, v := range vec {
		val += int(v) * int(v)
	}
	return val
}

// cosineDistance returns a value in [0, 2*DistanceCoef]: 0 for
// identical direction, 2*DistanceCoef for opposite direction.
func cosineDistance(inner12, inner1, inner2 int) uint32 {
	if inner1 == 0 || inner2 == 0 {
		return DistanceCoef
	}
	cos := float64(inner12) / math.Sqrt(float64(inner1)*float64(inner2))
	return uint32(DistanceCoef * (1 - cos))
}

// Calc returns the minimum-average-distance dynamic-time-warping path
// cost between a and b: the total cosine distance along the cheapest
// monotonic alignment path, divided by the path's step count. Lower
// is more similar; NoMatch means the inputs cannot be compared.
func Calc(a, b feature.Matrix) uint32 {
	dimension := a.Dimension()
	if dimension != b.Dimension() {
		return NoMatch
	}
	if a.Size() <= 0 || b.Size() <= 0 {
		return NoMatch
	}
	if a.Size() > 3*b.Size() || 3*a.Size() < b.Size() {
		return NoMatch
	}

	n := b.Size()
	stepDistances := make([]uint32, n)
	stepCounts := make([]int, n)

	row0 := a.Row(0)
	inner1_0 := selfInnerProduct(row0)
	inner2_0 := selfInnerProduct(b.Row(0))

	stepDistances[0] = 2 * cosineDistance(innerProduct(row0, b.Row(0)), inner1_0, inner2_0)
	stepCounts[0] = 0

	for j := 1; j < n; j++ {
		rowJ := b.Row(j)
		inner12j := innerProduct(row0, rowJ)
		inner2j := selfInnerProduct(rowJ)
		stepDistances[j] = stepDistances[j-1] + cosineDistance(inner12j, inner1_0, inner2j)
		stepCounts[j] = j
	}

	last := n - 1
	for i := 1; i < a.Size(); i++ {
		rowI := a.Row(i)
		inner1i := selfInnerProduct(rowI)
		inner12i0 := innerProduct(rowI, b.Row(0))

		prevStepDist := stepDistances[0] + cosineDistance(inner12i0, inner1i, inner2_0)
		prevStepCount := stepCounts[0] + 1

		for j := 1; j < n; j++ {
			var stepDist uint32
			var stepCount int
			if stepDistances[j] < prevStepDist {
				stepDist = stepDistances[j]
				stepCount = stepCounts[j]
			} else {
				stepDist = prevStepDist
				stepCount = prevStepCount
			}
			if stepDistances[j-1] < stepDist {
				stepDist = stepDistances[j-1]
				stepCount = stepCounts[j-1]
			}

			rowJ := b.Row(j)
			inner12ij := innerProduct(rowI, rowJ)
			inner2j := selfInnerProduct(rowJ)
			stepDist += cosineDistance(inner12ij, inner1i, inner2j)
			stepCount++

			stepDistances[j-1] = prevStepDist
			stepCounts[j-1] = prevStepCount
			prevStepDist = stepDist
			prevStepCount = stepCount
		}
		stepDistances[last] = prevStepDist
		stepCounts[last] = prevStepCount
	}

	if stepCounts[last] == 0 {
		// Only a 1x1 alignment ends with no steps: its single cell
		// holds the doubled seed distance.
		return stepDistances[last] / 2
	}
	return stepDistances[last] / uint32(stepCounts[last])
}
