package boundcheck

import "math"

// Score weights: completeness earns linear credit, topology and
// coordinates are all-or-nothing. Partial coverage is informative;
// partially valid topology is not trusted at all.
const (
	completenessWeight = 0.4
	topologyCredit     = 35
	coordinateCredit   = 25
)

// Quality tiers consumed downstream: accept at 85 and above, escalate
// for manual review between 60 and 84, reject below 60. The thresholds
// are convention, not enforced here.
const (
	acceptThreshold   = 85
	escalateThreshold = 60
)

type QualityTier int

const (
	TierReject QualityTier = iota
	TierEscalate
	TierAccept
)

func (t QualityTier) String() string {
	switch t {
	case TierAccept:
		return "accept"
	case TierEscalate:
		return "escalate"
	default:
		return "reject"
	}
}

// Score collapses the three sub-reports into one 0..100 value.
// Deterministic: identical inputs always produce the identical score.
func Score(completeness CompletenessResult, topology TopologyResult, coordinates CoordinateResult) int {
	s := completeness.Percentage * completenessWeight
	if topology.Valid {
		s += topologyCredit
	}
	if coordinates.Valid {
		s += coordinateCredit
	}
	return clampConfidence(int(math.Round(s)))
}

func TierFor(score int) QualityTier {
	switch {
	case score >= acceptThreshold:
		return TierAccept
	case score >= escalateThreshold:
		return TierEscalate
	default:
		return TierReject
	}
}
