package classifier

const (
	compVar = 22005 // comparison value for the exp2 approximation below
	log2Exp = 5909   // log2(e), Q12
)

// gaussianProbability evaluates a univariate normal density at input,
// given mean and std (both Q7) and input itself in Q4, returning the
// probability in Q20. It also outputs delta (Q11): (x-m)/s^2, used by
// the caller to drive the online mean/variance update.
func gaussianProbability(input, mean, std int16, delta *int16) int32 {
	var tmp16, invStd, invStd2 int16
	var expValue int16
	var tmp32 int32

	// invStd = 1/s, Q10. 131072 is 1 in Q17; (std>>1) rounds instead
	// of truncating. Q17 / Q7 = Q10.
	tmp32 = 131072 + int32(std>>1)
	invStd = int16(divW32W16(tmp32, std))

	// invStd2 = 1/s^2, Q14.
	tmp16 = invStd >> 2 // Q10 -> Q8
	invStd2 = int16((int32(tmp16) * int32(tmp16)) >> 2)

	tmp16 = input << 3  // Q4 -> Q7
	tmp16 = tmp16 - mean // Q7

	// delta = (x-m)/s^2, Q11.
	*delta = int16((int32(invStd2) * int32(tmp16)) >> 10)

	// exponent = (x-m)^2 / (2*s^2), Q10.
	tmp32 = (int32(*delta) * int32(tmp16)) >> 9

	if tmp32 < compVar {
		// log2(e) * exponent, Q10, then exp2 via a piecewise-linear
		// shift-based approximation.
		tmp16 = int16((log2Exp * tmp32) >> 12)
		tmp16 = -tmp16
		expValue = 0x0400 | (tmp16 & 0x03FF)
		tmp16 ^= int16(-1)
		tmp16 >>= 10
		tmp16++
		expValue >>= uint(tmp16)
	}

	// (1/s) * exp(-exponent), Q20.
	return int32(invStd) * int32(expValue)
}
