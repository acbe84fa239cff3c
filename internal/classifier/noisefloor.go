package classifier

// allPassCoefsQ13: upper branch 0.64, lower branch 0.17.
var allPassCoefsQ13 = [2]int16{5243, 1392}

const (
	smoothingDown = 6553  // 0.2, Q15
	smoothingUp   = 32439 // 0.99, Q15
)

// downsampling halves the sample rate (e.g. 32->16 or 16->8) via a
// pair of allpass filters, updating filterState in place.
func downsampling(signalIn, signalOut []int16, filterState []int32, inLength int) {
	var tmp16a, tmp16b int16
	tmp32a := filterState[0]
	tmp32b := filterState[1]
	halfLength := inLength >> 1

	for n := 0; n < halfLength; n++ {
		tmp16a = int16((tmp32a >> 1) +
			((int32(allPassCoefsQ13[0]) * int32(signalIn[n*2])) >> 14))
		signalOut[n] = tmp16a
		tmp32a = int32(signalIn[n*2]) -
			((int32(allPassCoefsQ13[0]) * int32(tmp16a)) >> 12)

		tmp16b = int16((tmp32b >> 1) +
			((int32(allPassCoefsQ13[1]) * int32(signalIn[n*2+1])) >> 14))
		signalOut[n] += tmp16b
		tmp32b = int32(signalIn[n*2+1]) -
			((int32(allPassCoefsQ13[1]) * int32(tmp16b)) >> 12)
	}

	filterState[0] = tmp32a
	filterState[1] = tmp32b
}

// findMinimum maintains, per channel, the 16 smallest feature values
// seen in roughly the last 100 frames (aging each slot, evicting at
// age 100), and returns an exponentially smoothed noise-floor
// estimate derived from their median.
func findMinimum(self *vadInst, featureValue int16, channel int) int16 {
	position := -1
	offset := channel << 4
	currentMedian := int16(1600)
	var alpha int16

	age := self.indexVector[offset : offset+16]
	smallestValues := self.lowValueVector[offset : offset+16]

	for i := 0; i < 16; i++ {
		if age[i] != 100 {
			age[i]++
		} else {
			for j := i; j < 15; j++ {
				smallestValues[j] = smallestValues[j+1]
				age[j] = age[j+1]
			}
			age[15] = 101
			smallestValues[15] = 10000
		}
	}

	// Binary-search-shaped insertion point lookup over the 16 slots.
	if featureValue < smallestValues[7] {
		if featureValue < smallestValues[3] {
			if featureValue < smallestValues[1] {
				if featureValue < smallestValues[0] {
					position = 0
				} else {
					position = 1
				}
			} else if featureValue < smallestValues[2] {
				position = 2
			} else {
				position = 3
			}
		} else if featureValue < smallestValues[5] {
			if featureValue < smallestValues[4] {
				position = 4
			} else {
				position = 5
			}
		} else if featureValue < smallestValues[6] {
			position = 6
		} else {
			position = 7
		}
	} else if featureValue < smallestValues[15] {
		if featureValue < smallestValues[11] {
			if featureValue < smallestValues[9] {
				if featureValue < smallestValues[8] {
					position = 8
				} else {
					position = 9
				}
			} else if featureValue < smallestValues[10] {
				position = 10
			} else {
				position = 11
			}
		} else if featureValue < smallestValues[13] {
			if featureValue < smallestValues[12] {
				position = 12
			} else {
				position = 13
			}
		} else if featureValue < smallestValues[14] {
			position = 14
		} else {
			position = 15
		}
	}

	if position > -1 {
		for i := 15; i > position; i-- {
			smallestValues[i] = smallestValues[i-1]
			age[i] = age[i-1]
		}
		smallestValues[position] = featureValue
		age[position] = 1
	}

	if self.frameCounter > 2 {
		currentMedian = smallestValues[2]
	} else if self.frameCounter > 0 {
		currentMedian = smallestValues[0]
	}

	if self.frameCounter > 0 {
		if currentMedian < self.meanValue[channel] {
			alpha = smoothingDown
		} else {
			alpha = smoothingUp
		}
	}

	tmp32 := int32(alpha+1) * int32(self.meanValue[channel])
	tmp32 += int32(wordMax16-alpha) * int32(currentMedian)
	tmp32 += 16384
	self.meanValue[channel] = int16(tmp32 >> 15)

	return self.meanValue[channel]
}
