package classifier

// Six-band energy filterbank. WebRTC's fixed-point VAD builds its
// spectral features by recursively splitting the signal into
// low/high halves with allpass filter pairs rather than an FFT.

const (
	logConst         = 24660 // 160*log10(2), Q9
	logEnergyIntPart = 14336 // 14, Q10
)

var (
	hpZeroCoefs = [3]int16{6631, -13262, 6631} // Q14
	hpPoleCoefs = [3]int16{16384, -7756, 5620}  // Q14
)

// allPassCoefsQ15: upper branch 0.64, lower branch 0.17.
var allPassCoefsQ15 = [2]int16{20972, 5571}

// offsetVector adjusts logOfEnergy's per-band division error.
var offsetVector = [6]int16{368, 368, 272, 176, 176, 176}

// highPassFilter removes 0-80Hz from a 500Hz-sampled signal.
func highPassFilter(dataIn []int16, dataLength int, filterState []int16, dataOut []int16) {
	var tmp32 int32

	for i := 0; i < dataLength; i++ {
		tmp32 = int32(hpZeroCoefs[0]) * int32(dataIn[i])
		tmp32 += int32(hpZeroCoefs[1]) * int32(filterState[0])
		tmp32 += int32(hpZeroCoefs[2]) * int32(filterState[1])
		filterState[1] = filterState[0]
		filterState[0] = dataIn[i]

		tmp32 -= int32(hpPoleCoefs[1]) * int32(filterState[2])
		tmp32 -= int32(hpPoleCoefs[2]) * int32(filterState[3])
		filterState[3] = filterState[2]
		filterState[2] = int16(tmp32 >> 14)
		dataOut[i] = filterState[2]
	}
}

// allPassFilter halves the rate of dataIn via a single allpass stage.
// dataIn and dataOut must not alias.
func allPassFilter(dataIn []int16, dataLength int, filterCoefficient int16,
	filterState *int16, dataOut []int16) {

	var tmp16 int16
	var tmp32 int32
	state32 := int32(*filterState) * (1 << 16) // Q15

	for i := 0; i < dataLength; i++ {
		tmp32 = state32 + int32(filterCoefficient)*int32(dataIn[i*2])
		tmp16 = int16(tmp32 >> 16) // Q(-1)
		dataOut[i] = tmp16
		state32 = (int32(dataIn[i*2]) * (1 << 14)) -
			int32(filterCoefficient)*int32(tmp16) // Q14
		state32 *= 2 // Q15
	}

	*filterState = int16(state32 >> 16)
}

// splitFilter splits dataIn into high and low halves via a quadrature
// mirror pair of allpass filters, each output at half the rate.
func splitFilter(dataIn []int16, dataLength int, upperState, lowerState *int16,
	hpDataOut, lpDataOut []int16) {

	halfLength := dataLength >> 1
	var tmpOut int16

	allPassFilter(dataIn[0:], halfLength, allPassCoefsQ15[0], upperState, hpDataOut)
	allPassFilter(dataIn[1:], halfLength, allPassCoefsQ15[1], lowerState, lpDataOut)

	for i := 0; i < halfLength; i++ {
		tmpOut = hpDataOut[i]
		hpDataOut[i] -= lpDataOut[i]
		lpDataOut[i] += tmpOut
	}
}

// logOfEnergy computes 10*log10(energy(dataIn)) in Q4, adding offset,
// and folds dataIn's energy into totalEnergy while the latter remains
// at or below the minimum-energy floor.
func logOfEnergy(dataIn []int16, dataLength int, offset int16,
	totalEnergy *int16, logEnergy *int16) {

	var totRshifts int
	energy := uint32(calculateEnergy(dataIn, dataLength, &totRshifts))

	if energy != 0 {
		normalizingRshifts := 17 - normU32(energy)
		log2Energy := int16(logEnergyIntPart)

		totRshifts += normalizingRshifts
		if normalizingRshifts < 0 {
			energy <<= uint(-normalizingRshifts)
		} else {
			energy >>= uint(normalizingRshifts)
		}

		log2Energy += int16((energy & 0x00003FFF) >> 4)

		*logEnergy = int16((int32(logConst)*int32(log2Energy))>>19) +
			int16((int32(totRshifts)*logConst)>>9)
		if *logEnergy < 0 {
			*logEnergy = 0
		}
	} else {
		*logEnergy = offset
		return
	}

	*logEnergy += offset

	if *totalEnergy <= minEnergy {
		if totRshifts >= 0 {
			*totalEnergy += minEnergy + 1
		} else {
			*totalEnergy += int16(energy >> uint(-totRshifts))
		}
	}
}

// calculateFeatures extracts the six band-energy features (log scale)
// from 80/160/240 samples (10/20/30ms at 8kHz) and returns their total.
func calculateFeatures(self *vadInst, dataIn []int16, dataLength int, features []int16) int16 {
	var totalEnergy int16

	var (
		hp120          [120]int16
		lp120          [120]int16
		hp60           [60]int16
		lp60           [60]int16
		halfDataLength = dataLength >> 1
		length         = halfDataLength
	)

	frequencyBand := 0
	inPtr := dataIn
	hpOutPtr := hp120[:]
	lpOutPtr := lp120[:]

	// split at 2000 Hz
	splitFilter(inPtr, dataLength, &self.upperState[frequencyBand],
		&self.lowerState[frequencyBand], hpOutPtr, lpOutPtr)

	// split the upper band (2000-4000) at 3000 Hz
	frequencyBand = 1
	inPtr = hp120[:]
	hpOutPtr = hp60[:]
	lpOutPtr = lp60[:]
	splitFilter(inPtr, length, &self.upperState[frequencyBand],
		&self.lowerState[frequencyBand], hpOutPtr, lpOutPtr)

	length >>= 1 // bandwidth 1000 Hz
	logOfEnergy(hp60[:], length, offsetVector[5], &totalEnergy, &features[5])  // 3000-4000
	logOfEnergy(lp60[:], length, offsetVector[4], &totalEnergy, &features[4]) // 2000-3000

	// split the lower band (0-2000) at 1000 Hz
	frequencyBand = 2
	inPtr = lp120[:]
	hpOutPtr = hp60[:]
	lpOutPtr = lp60[:]
	length = halfDataLength
	splitFilter(inPtr, length, &self.upperState[frequencyBand],
		&self.lowerState[frequencyBand], hpOutPtr, lpOutPtr)

	length >>= 1
	logOfEnergy(hp60[:], length, offsetVector[3], &totalEnergy, &features[3]) // 1000-2000

	// split the lower band (0-1000) at 500 Hz
	frequencyBand = 3
	inPtr = lp60[:]
	hpOutPtr = hp120[:]
	lpOutPtr = lp120[:]
	splitFilter(inPtr, length, &self.upperState[frequencyBand],
		&self.lowerState[frequencyBand], hpOutPtr, lpOutPtr)

	length >>= 1
	logOfEnergy(hp120[:], length, offsetVector[2], &totalEnergy, &features[2]) // 500-1000

	// split the lower band (0-500) at 250 Hz
	frequencyBand = 4
	inPtr = lp120[:]
	hpOutPtr = hp60[:]
	lpOutPtr = lp60[:]
	splitFilter(inPtr, length, &self.upperState[frequencyBand],
		&self.lowerState[frequencyBand], hpOutPtr, lpOutPtr)

	length >>= 1
	logOfEnergy(hp60[:], length, offsetVector[1], &totalEnergy, &features[1]) // 250-500

	// remove 0-80Hz from the remaining lower band
	highPassFilter(lp60[:], length, self.hpFilterState[:], hp120[:])
	logOfEnergy(hp120[:], length, offsetVector[0], &totalEnergy, &features[0]) // 80-250

	return totalEnergy
}
