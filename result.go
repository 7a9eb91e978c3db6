package boundcheck

// ValidationResult is the outcome of the regional bounds pass.
// Confidence is always clamped to [0,100]. Hard failures land in
// Issues and zero the confidence; soft findings land in Warnings and
// only lower the ceiling. The coupling between Valid and Confidence
// is per-check, not uniform.
type ValidationResult struct {
	Valid      bool
	Confidence int
	Issues     []string
	Warnings   []string
}

func (r *ValidationResult) fail(issue string) {
	r.Valid = false
	r.Confidence = 0
	r.Issues = append(r.Issues, issue)
}

func (r *ValidationResult) warn(warning string) {
	r.Warnings = append(r.Warnings, warning)
}

// capConfidence lowers the ceiling. Checks can only pull confidence
// down, never push it back above an earlier cap.
func (r *ValidationResult) capConfidence(max int) {
	if r.Confidence > max {
		r.Confidence = clampConfidence(max)
	}
}

func clampConfidence(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// Overlap is a pair of boundaries whose shared area exceeds the layer
// tolerance. Area is planar squared degrees.
type Overlap struct {
	A    string
	B    string
	Area float64
}

// Gap is uncovered parent area left by a layer that must tile its
// parent boundary.
type Gap struct {
	UncoveredFraction float64
	UncoveredArea     float64
}

// TopologyResult carries structural findings over one boundary batch.
type TopologyResult struct {
	Valid             bool
	InvalidGeometries []string
	SelfIntersecting  []string
	Overlaps          []Overlap
	Gaps              []Gap
	Warnings          []string
}

func (r TopologyResult) SelfIntersections() int {
	return len(r.SelfIntersecting)
}

// CoordinateResult carries numeric-validity findings. Suspicious
// locations are advisory only and never affect Valid.
type CoordinateResult struct {
	Valid               bool
	NullCoordinates     []string
	OutOfRangeCount     int
	SuspiciousLocations []string
	Warnings            []string
}

// CompletenessResult compares the batch against the reference table.
type CompletenessResult struct {
	Valid        bool
	Expected     int
	Actual       int
	Percentage   float64
	MalformedIDs []string
	Warnings     []string
}
