package classifier

func calcVad8khz(inst *vadInst, speechFrame []int16, frameLength int) (int, error) {
	featureVector := make([]int16, numChannels)
	totalPower := calculateFeatures(inst, speechFrame, frameLength, featureVector)
	return int(gmmProbability(inst, featureVector, totalPower, frameLength)), nil
}

func calcVad16khz(inst *vadInst, speechFrame []int16, frameLength int) (int, error) {
	speechNB := make([]int16, 240) // 30ms narrowband after downsampling

	downsampling(speechFrame, speechNB, inst.downsamplingFilterStates[:], frameLength)
	return calcVad8khz(inst, speechNB, frameLength/2)
}

// weightedAverage returns the weighted sum of a two-Gaussian mixture's
// means (or stds), each offset by the same bias before weighting.
func weightedAverage(data []int16, offset int16, weights []int16) int32 {
	var avg int32
	for k := 0; k < numGaussians; k++ {
		idx := k * numChannels
		data[idx] += offset
		avg += int32(data[idx]) * int32(weights[idx])
	}
	return avg
}

func overflowingMulS16ByS32ToS32(a int16, b int32) int32 {
	return int32(a) * b
}

// gmmProbability runs the noise-vs-speech likelihood-ratio test over
// all six channels, updates the online GMM parameters, and applies
// hangover smoothing. Returns 0 for noise, a positive vadflag for
// speech (1, or 2+remaining-hangover while trailing off).
func gmmProbability(self *vadInst, features []int16, totalPower int16, frameLength int) int16 {
	var (
		h0, h1                int16
		logLikelihoodRatio    int16
		vadflag               int16
		shiftsH0, shiftsH1    int16
		tmpS16, tmp1S16       int16
		tmp2S16               int16
		diff                  int16
		nmk, nmk2, nmk3       int16
		smk, smk2             int16
		nsk, ssk              int16
		delt, ndelt           int16
		maxspe, maxmu         int16
		deltaN                [tableSize]int16
		deltaS                [tableSize]int16
		ngprvec               [tableSize]int16
		sgprvec               [tableSize]int16
		h0Test, h1Test        int32
		tmp1S32, tmp2S32      int32
		sumLogLikelihoodRatio int32
		noiseGlobalMean       int32
		speechGlobalMean      int32
		noiseProbability      [numGaussians]int32
		speechProbability     [numGaussians]int32
		overhead1, overhead2  int16
		individualTest        int16
		totalTest             int16
	)

	switch frameLength {
	case 80:
		overhead1, overhead2 = self.mode.overHangMax1[0], self.mode.overHangMax2[0]
		individualTest, totalTest = self.mode.individual[0], self.mode.total[0]
	case 160:
		overhead1, overhead2 = self.mode.overHangMax1[1], self.mode.overHangMax2[1]
		individualTest, totalTest = self.mode.individual[1], self.mode.total[1]
	default:
		overhead1, overhead2 = self.mode.overHangMax1[2], self.mode.overHangMax2[2]
		individualTest, totalTest = self.mode.individual[2], self.mode.total[2]
	}

	if totalPower > minEnergy {
		// H0: noise, H1: speech. A global LRT combines per-channel
		// local tests across the six bands.
		for channel := 0; channel < numChannels; channel++ {
			h0Test = 0
			h1Test = 0

			for k := 0; k < numGaussians; k++ {
				gaussian := channel + k*numChannels

				tmp1S32 = gaussianProbability(
					features[channel], self.noiseMeans[gaussian], self.noiseStds[gaussian], &deltaN[gaussian])
				noiseProbability[k] = int32(noiseDataWeights[gaussian]) * tmp1S32
				h0Test += noiseProbability[k] // Q27

				tmp1S32 = gaussianProbability(
					features[channel], self.speechMeans[gaussian], self.speechStds[gaussian], &deltaS[gaussian])
				speechProbability[k] = int32(speechDataWeights[gaussian]) * tmp1S32
				h1Test += speechProbability[k] // Q27
			}

			// log2(Pr{X|H1}/Pr{X|H0}) ~= shiftsH0 - shiftsH1
			shiftsH0 = normW32(h0Test)
			shiftsH1 = normW32(h1Test)
			if h0Test == 0 {
				shiftsH0 = 31
			}
			if h1Test == 0 {
				shiftsH1 = 31
			}
			logLikelihoodRatio = shiftsH0 - shiftsH1

			sumLogLikelihoodRatio += int32(logLikelihoodRatio) * int32(spectrumWeight[channel])

			if (logLikelihoodRatio * 4) > individualTest {
				vadflag = 1
			}

			h0 = int16(h0Test >> 12) // Q15
			if h0 > 0 {
				tmp1S32 = int32(uint32(noiseProbability[0])&0xFFFFF000) << 2 // Q29
				ngprvec[channel] = int16(divW32W16(tmp1S32, h0))             // Q14
				ngprvec[channel+numChannels] = 16384 - ngprvec[channel]
			} else {
				ngprvec[channel] = 16384
			}

			h1 = int16(h1Test >> 12) // Q15
			if h1 > 0 {
				tmp1S32 = int32(uint32(speechProbability[0])&0xFFFFF000) << 2 // Q29
				sgprvec[channel] = int16(divW32W16(tmp1S32, h1))              // Q14
				sgprvec[channel+numChannels] = 16384 - sgprvec[channel]
			}
		}

		if sumLogLikelihoodRatio >= int32(totalTest) {
			vadflag = 1
		}

		maxspe = 12800
		for channel := 0; channel < numChannels; channel++ {
			featureMinimum := findMinimum(self, features[channel], channel) // Q4

			noiseGlobalMean = weightedAverage(self.noiseMeans[channel:], 0, noiseDataWeights[channel:])
			tmp1S16 = int16(noiseGlobalMean >> 6) // Q8

			for k := 0; k < numGaussians; k++ {
				gaussian := channel + k*numChannels

				nmk = self.noiseMeans[gaussian]
				smk = self.speechMeans[gaussian]
				nsk = self.noiseStds[gaussian]
				ssk = self.speechStds[gaussian]

				nmk2 = nmk
				if vadflag == 0 {
					// deltaN = (x-mu)/sigma^2
					delt = int16((int32(ngprvec[gaussian]) * int32(deltaN[gaussian])) >> 11)
					nmk2 = nmk + int16((int32(delt)*noiseUpdateConst)>>22)
				}

				ndelt = (featureMinimum << 4) - tmp1S16
				nmk3 = nmk2 + int16((int32(ndelt)*backEta)>>9)

				tmpS16 = int16((k + 5) << 7)
				if nmk3 < tmpS16 {
					nmk3 = tmpS16
				}
				tmpS16 = int16((72 + k - channel) << 7)
				if nmk3 > tmpS16 {
					nmk3 = tmpS16
				}
				self.noiseMeans[gaussian] = nmk3

				if vadflag != 0 {
					delt = int16((int32(sgprvec[gaussian]) * int32(deltaS[gaussian])) >> 11)
					tmpS16 = int16((int32(delt) * speechUpdateConst) >> 21)
					smk2 = smk + ((tmpS16 + 1) >> 1)

					maxmu = maxspe + 640
					if smk2 < minimumMean[k] {
						smk2 = minimumMean[k]
					}
					if smk2 > maxmu {
						smk2 = maxmu
					}
					self.speechMeans[gaussian] = smk2

					tmpS16 = (smk + 4) >> 3
					tmpS16 = features[channel] - tmpS16
					tmp1S32 = (int32(deltaS[gaussian]) * int32(tmpS16)) >> 3
					tmp2S32 = tmp1S32 - 4096
					tmpS16 = sgprvec[gaussian] >> 2
					tmp1S32 = int32(tmpS16) * tmp2S32
					tmp2S32 = tmp1S32 >> 4 // Q20

					if tmp2S32 > 0 {
						tmpS16 = int16(divW32W16(tmp2S32, ssk*10))
					} else {
						tmpS16 = int16(divW32W16(-tmp2S32, ssk*10))
						tmpS16 = -tmpS16
					}
					tmpS16 += 128
					ssk += tmpS16 >> 8
					if ssk < minStd {
						ssk = minStd
					}
					self.speechStds[gaussian] = ssk
				} else {
					tmpS16 = features[channel] - (nmk >> 3)
					tmp1S32 = (int32(deltaN[gaussian]) * int32(tmpS16)) >> 3
					tmp1S32 -= 4096

					tmpS16 = (ngprvec[gaussian] + 2) >> 2
					tmp2S32 = overflowingMulS16ByS32ToS32(tmpS16, tmp1S32)
					tmp1S32 = tmp2S32 >> 14 // Q20

					if tmp1S32 > 0 {
						tmpS16 = int16(divW32W16(tmp1S32, nsk))
					} else {
						tmpS16 = int16(divW32W16(-tmp1S32, nsk))
						tmpS16 = -tmpS16
					}
					tmpS16 += 32
					nsk += tmpS16 >> 6
					if nsk < minStd {
						nsk = minStd
					}
					self.noiseStds[gaussian] = nsk
				}
			}

			// Separate the models if they drift too close together.
			noiseGlobalMean = weightedAverage(self.noiseMeans[channel:], 0, noiseDataWeights[channel:])
			speechGlobalMean = weightedAverage(self.speechMeans[channel:], 0, speechDataWeights[channel:])

			diff = int16(speechGlobalMean>>9) - int16(noiseGlobalMean>>9)
			if diff < minimumDifference[channel] {
				tmpS16 = minimumDifference[channel] - diff
				tmp1S16 = int16((13 * int32(tmpS16)) >> 2) // ~0.8
				tmp2S16 = int16((3 * int32(tmpS16)) >> 2)  // ~0.2

				speechGlobalMean = weightedAverage(self.speechMeans[channel:], tmp1S16, speechDataWeights[channel:])
				noiseGlobalMean = weightedAverage(self.noiseMeans[channel:], -tmp2S16, noiseDataWeights[channel:])
			}

			maxspe = maximumSpeech[channel]
			tmp2S16 = int16(speechGlobalMean >> 7)
			if tmp2S16 > maxspe {
				tmp2S16 -= maxspe
				for k := 0; k < numGaussians; k++ {
					self.speechMeans[channel+k*numChannels] -= tmp2S16
				}
			}

			tmp2S16 = int16(noiseGlobalMean >> 7)
			if tmp2S16 > maximumNoise[channel] {
				tmp2S16 -= maximumNoise[channel]
				for k := 0; k < numGaussians; k++ {
					self.noiseMeans[channel+k*numChannels] -= tmp2S16
				}
			}
		}
		self.frameCounter++
	}

	if vadflag == 0 {
		if self.overHang > 0 {
			vadflag = 2 + self.overHang
			self.overHang--
		}
		self.numOfSpeech = 0
	} else {
		self.numOfSpeech++
		if self.numOfSpeech > maxSpeechFrames {
			self.numOfSpeech = maxSpeechFrames
			self.overHang = overhead2
		} else {
			self.overHang = overhead1
		}
	}

	return vadflag
}
