package screening

// Condition names a respiratory condition the classifier can score.
type Condition string

// Conditions scored by the default rule table, plus the Unknown
// sentinel reported when nothing scores.
const (
	ConditionCOVID19    Condition = "COVID-19"
	ConditionAsthma     Condition = "Asthma"
	ConditionBronchitis Condition = "Bronchitis"
	ConditionPneumonia  Condition = "Pneumonia"
	ConditionUnknown    Condition = "Unknown"
)

// Confidence is the qualitative band derived from a raw condition score.
type Confidence string

// Confidence bands, lowest to highest.
const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// ConfidenceForScore bands a raw (pre-normalization) score. The high
// band starts strictly above 0.6 and the medium band includes 0.3
// itself, so both boundary values report "medium".
func ConfidenceForScore(score float64) Confidence {
	switch {
	case score > 0.6:
		return ConfidenceHigh
	case score >= 0.3:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// maxRawScore caps any condition's accumulated raw score.
const maxRawScore = 0.95

// Rule is one threshold predicate that contributes Weight to a
// condition's raw score when it matches a record.
type Rule struct {
	Description string
	Weight      float64
	Match       func(*Record) bool
}

// ConditionRules groups the scoring rules for one condition. Table
// order is load-bearing: conditions with equal raw scores keep table
// order in the ranked result.
type ConditionRules struct {
	Condition Condition
	Rules     []Rule
}

// DefaultRules returns the built-in rule table. Thresholds are fixed
// heuristics over the analysis record, not trained parameters.
func DefaultRules() []ConditionRules {
	return []ConditionRules{
		{
			Condition: ConditionCOVID19,
			Rules: []Rule{
				{
					Description: "duration between 0.5s and 2.0s",
					Weight:      0.3,
					Match: func(r *Record) bool {
						return r.Duration > 0.5 && r.Duration < 2.0
					},
				},
				{
					Description: "low signal energy (RMS below 0.1)",
					Weight:      0.2,
					Match: func(r *Record) bool {
						return r.RMS < 0.1
					},
				},
				{
					Description: "zero-crossing rate above 0.1",
					Weight:      0.2,
					Match: func(r *Record) bool {
						return r.ZeroCrossingRate > 0.1
					},
				},
				{
					Description: "spectral centroid above 2000 Hz",
					Weight:      0.3,
					Match: func(r *Record) bool {
						return r.SpectralCentroid > 2000
					},
				},
			},
		},
		{
			Condition: ConditionAsthma,
			Rules: []Rule{
				{
					Description: "duration above 1.0s",
					Weight:      0.3,
					Match: func(r *Record) bool {
						return r.Duration > 1.0
					},
				},
				{
					Description: "spectral centroid below 1500 Hz",
					Weight:      0.3,
					Match: func(r *Record) bool {
						return r.SpectralCentroid < 1500
					},
				},
				{
					Description: "sustained wheeze pattern in cepstral features",
					Weight:      0.4,
					Match: func(r *Record) bool {
						return HasWheezePattern(r.MFCC, r.NumCoefficients)
					},
				},
			},
		},
		{
			Condition: ConditionBronchitis,
			Rules: []Rule{
				{
					Description: "high signal energy (RMS above 0.15)",
					Weight:      0.3,
					Match: func(r *Record) bool {
						return r.RMS > 0.15
					},
				},
				{
					Description: "duration above 0.8s",
					Weight:      0.2,
					Match: func(r *Record) bool {
						return r.Duration > 0.8
					},
				},
				{
					Description: "spectral centroid below 2000 Hz",
					Weight:      0.3,
					Match: func(r *Record) bool {
						return r.SpectralCentroid < 2000
					},
				},
			},
		},
		{
			Condition: ConditionPneumonia,
			Rules: []Rule{
				{
					Description: "RMS above 0.12",
					Weight:      0.2,
					Match: func(r *Record) bool {
						return r.RMS > 0.12
					},
				},
				{
					Description: "duration below 1.5s",
					Weight:      0.2,
					Match: func(r *Record) bool {
						return r.Duration < 1.5
					},
				},
				{
					Description: "zero-crossing rate below 0.08",
					Weight:      0.3,
					Match: func(r *Record) bool {
						return r.ZeroCrossingRate < 0.08
					},
				},
			},
		},
	}
}

// HasWheezePattern reports whether the mid-cepstral wheeze signature
// shows up in strictly more than half of all frames. A frame matches
// when coefficient 2 exceeds 0.5 while coefficient 3 falls below -0.3.
func HasWheezePattern(features []float64, numCoefficients int) bool {
	// The signature reads coefficients 2 and 3, so shorter vectors
	// can never match
	if numCoefficients < 4 || len(features) < numCoefficients {
		return false
	}

	matches := 0
	for start := 0; start+numCoefficients <= len(features); start += numCoefficients {
		if features[start+2] > 0.5 && features[start+3] < -0.3 {
			matches++
		}
	}

	return float64(matches) > float64(len(features))/float64(2*numCoefficients)
}
