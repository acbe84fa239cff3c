package classifier

const (
	numChannels  = 6
	numGaussians = 2
	tableSize    = numChannels * numGaussians
	minEnergy    = 10 // minimum energy to trigger a VAD decision
	initCheck    = 42
	defaultMode  = 0
	maxSpeechFrames = 6
	minStd          = 384
)

// spectrumWeight weights the per-channel log-likelihood ratios.
var spectrumWeight = [numChannels]int16{6, 8, 10, 12, 14, 16}

const (
	noiseUpdateConst  = 655  // Q15
	speechUpdateConst = 6554 // Q15
	backEta           = 154  // Q8
)

// minimumDifference is the floor on the separation between the noise
// and speech model means, per channel (Q5).
var minimumDifference = [numChannels]int16{544, 544, 576, 576, 576, 576}

var maximumSpeech = [numChannels]int16{11392, 11392, 11520, 11520, 11520, 11520}
var minimumMean = [numGaussians]int16{640, 768}
var maximumNoise = [numChannels]int16{9216, 9088, 8960, 8832, 8704, 8576}

// Initial two-Gaussian-mixture parameters (Q7), one pair per channel.
var (
	noiseDataWeights = [tableSize]int16{34, 62, 72, 66, 53, 25, 94, 66, 56, 62, 75, 103}
	speechDataWeights = [tableSize]int16{48, 82, 45, 87, 50, 47, 80, 46, 83, 41, 78, 81}
	noiseDataMeans    = [tableSize]int16{6738, 4892, 7065, 6715, 6771, 3369, 7646, 3863, 7820, 7266, 5020, 4362}
	speechDataMeans   = [tableSize]int16{8306, 10085, 10078, 11823, 11843, 6309, 9473, 9571, 10879, 7581, 8180, 7483}
	noiseDataStds     = [tableSize]int16{378, 1064, 493, 582, 688, 593, 474, 697, 475, 688, 421, 455}
	speechDataStds    = [tableSize]int16{555, 505, 567, 524, 585, 1231, 509, 828, 492, 1540, 1079, 850}
)

// modeTable holds the per-aggression-level hangover and threshold
// tables, indexed by frame-length class (10/20/30ms).
type modeTable struct {
	overHangMax1 [3]int16
	overHangMax2 [3]int16
	individual   [3]int16
	total        [3]int16
}

// Modes 0-3 reproduce WebRTC's Quality/LowBitrate/Aggressive/
// VeryAggressive tables exactly. Mode 4 is this module's own addition:
// the original ESP-ADF backend this specification is grounded on
// exposes a fifth, stricter mode that WebRTC's four-level table does
// not cover. It scales mode 3's local and global thresholds by 1.12
// (rounded down), leaving the hangover windows at mode 3's values.
var modeTables = [5]modeTable{
	{ // 0: quality
		overHangMax1: [3]int16{8, 4, 3},
		overHangMax2: [3]int16{14, 7, 5},
		individual:   [3]int16{24, 21, 24},
		total:        [3]int16{57, 48, 57},
	},
	{ // 1: low bitrate
		overHangMax1: [3]int16{8, 4, 3},
		overHangMax2: [3]int16{14, 7, 5},
		individual:   [3]int16{37, 32, 37},
		total:        [3]int16{100, 80, 100},
	},
	{ // 2: aggressive
		overHangMax1: [3]int16{6, 3, 2},
		overHangMax2: [3]int16{9, 5, 3},
		individual:   [3]int16{82, 78, 82},
		total:        [3]int16{285, 260, 285},
	},
	{ // 3: very aggressive
		overHangMax1: [3]int16{6, 3, 2},
		overHangMax2: [3]int16{9, 5, 3},
		individual:   [3]int16{94, 94, 94},
		total:        [3]int16{1100, 1050, 1100},
	},
	{ // 4: ultra aggressive
		overHangMax1: [3]int16{6, 3, 2},
		overHangMax2: [3]int16{9, 5, 3},
		individual:   [3]int16{105, 105, 105},
		total:        [3]int16{1232, 1176, 1232},
	},
}
