package boundcheck

import (
	"fmt"
	"math"

	"github.com/tidwall/geojson"
	"github.com/tidwall/geojson/geometry"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

// Sampling densities for the planar overlap/coverage estimates.
// Deterministic grids keep reports byte-identical across runs. The
// overlap grid densifies beyond overlapSampleSteps until one cell is
// below the tolerated overlap area, capped at overlapSampleCap per
// axis; overlaps smaller than rectArea/cap^2 can still go undetected.
const (
	overlapSampleSteps  = 24
	overlapSampleCap    = 256
	coverageSampleSteps = 48
)

// TopologyValidator detects malformed rings, self-intersections,
// pairwise overlaps and tiling gaps over one boundary batch.
type TopologyValidator struct {
	refdata *ReferenceData
	logger  *zap.Logger
}

type TopologyOption func(*TopologyValidator)

func WithTopologyLogger(logger *zap.Logger) TopologyOption {
	return func(v *TopologyValidator) {
		v.logger = logger
	}
}

func NewTopologyValidator(refdata *ReferenceData, opts ...TopologyOption) *TopologyValidator {
	v := &TopologyValidator{
		refdata: refdata,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate inspects the batch. parent may be nil; the gap check only
// runs when the layer rule requires tiling and a parent is supplied.
// Defective boundaries are counted, never fatal, so one bad record
// cannot abort the batch.
func (v *TopologyValidator) Validate(boundaries []NormalizedBoundary, layerType string, parent *NormalizedBoundary) TopologyResult {
	res := TopologyResult{Valid: true}
	rule, _ := v.refdata.LayerRule(layerType)

	spatial := make([]spatialBoundary, 0, len(boundaries))

	for _, b := range boundaries {
		if b.Geometry.IsEmpty() {
			res.InvalidGeometries = append(res.InvalidGeometries, b.ID)
			continue
		}
		if ringDefects(b.Geometry) > 0 {
			res.SelfIntersecting = append(res.SelfIntersecting, b.ID)
		}
		if obj, ok := b.Geometry.Spatial(); ok {
			spatial = append(spatial, spatialBoundary{id: b.ID, obj: obj, area: b.Geometry.PlanarArea()})
		}
	}

	// Pairwise overlap scan with an rtree prefilter so only boundaries
	// with touching boxes pay for a geometry test.
	var tr rtree.RTree
	for i := range spatial {
		rect := spatial[i].obj.Rect()
		tr.Insert(
			[2]float64{rect.Min.X, rect.Min.Y},
			[2]float64{rect.Max.X, rect.Max.Y},
			i,
		)
	}
	for i := range spatial {
		rect := spatial[i].obj.Rect()
		tr.Search(
			[2]float64{rect.Min.X, rect.Min.Y},
			[2]float64{rect.Max.X, rect.Max.Y},
			func(_, _ [2]float64, value interface{}) bool {
				j := value.(int)
				if j <= i {
					return true
				}
				if !spatial[i].obj.Intersects(spatial[j].obj) {
					return true
				}
				minArea := spatial[i].area
				if spatial[j].area < minArea {
					minArea = spatial[j].area
				}
				tolerated := rule.overlapTolerance() / 100 * minArea
				area := sampleOverlapArea(spatial[i].obj, spatial[j].obj, tolerated)
				if area > tolerated {
					res.Overlaps = append(res.Overlaps, Overlap{
						A:    spatial[i].id,
						B:    spatial[j].id,
						Area: area,
					})
				}
				return true
			},
		)
	}

	if rule.MustTileParent && parent != nil {
		v.checkCoverage(&res, spatial, parent, rule)
	} else if rule.MustTileParent {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("layer %s must tile its parent but no parent boundary was supplied", layerType))
	}

	res.Valid = len(res.InvalidGeometries) == 0 &&
		len(res.SelfIntersecting) == 0 &&
		len(res.Overlaps) == 0 &&
		len(res.Gaps) == 0
	v.logger.Debug("topology check",
		zap.Int("boundaries", len(boundaries)),
		zap.Int("invalid", len(res.InvalidGeometries)),
		zap.Int("selfIntersections", len(res.SelfIntersecting)),
		zap.Int("overlaps", len(res.Overlaps)),
		zap.Int("gaps", len(res.Gaps)))
	return res
}

type spatialBoundary struct {
	id   string
	obj  geojson.Object
	area float64
}

// checkCoverage samples a fixed grid over the parent box and counts
// parent points left uncovered by every boundary. The uncovered share
// beyond the layer tolerance is reported as a gap.
func (v *TopologyValidator) checkCoverage(res *TopologyResult, spatial []spatialBoundary, parent *NormalizedBoundary, rule LayerRule) {
	parentObj, ok := parent.Geometry.Spatial()
	if !ok {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("parent boundary %s has unusable geometry, skipping gap check", parent.ID))
		return
	}
	rect := parentObj.Rect()
	dx := (rect.Max.X - rect.Min.X) / coverageSampleSteps
	dy := (rect.Max.Y - rect.Min.Y) / coverageSampleSteps
	if dx <= 0 || dy <= 0 {
		return
	}

	var tr rtree.RTree
	for i := range spatial {
		r := spatial[i].obj.Rect()
		tr.Insert(
			[2]float64{r.Min.X, r.Min.Y},
			[2]float64{r.Max.X, r.Max.Y},
			i,
		)
	}

	var inside, uncovered int
	for i := 0; i < coverageSampleSteps; i++ {
		for j := 0; j < coverageSampleSteps; j++ {
			p := geojson.NewPoint(geometry.Point{
				X: rect.Min.X + (float64(i)+0.5)*dx,
				Y: rect.Min.Y + (float64(j)+0.5)*dy,
			})
			if !parentObj.Contains(p) {
				continue
			}
			inside++
			covered := false
			pt := p.Base()
			tr.Search(
				[2]float64{pt.X, pt.Y},
				[2]float64{pt.X, pt.Y},
				func(_, _ [2]float64, value interface{}) bool {
					if spatial[value.(int)].obj.Contains(p) {
						covered = true
						return false
					}
					return true
				},
			)
			if !covered {
				uncovered++
			}
		}
	}
	if inside == 0 {
		return
	}
	fraction := float64(uncovered) / float64(inside)
	if fraction*100 > rule.gapTolerance() {
		parentArea := (rect.Max.X - rect.Min.X) * (rect.Max.Y - rect.Min.Y)
		res.Gaps = append(res.Gaps, Gap{
			UncoveredFraction: fraction,
			UncoveredArea:     fraction * parentArea,
		})
	}
}

// ringDefects runs the cheap ring checks first and the segment
// crossing scan only on rings that pass them. An unclosed or
// too-short ring counts as a self-intersection defect.
func ringDefects(g PolygonGeometry) int {
	var defects int
	for _, rs := range g.RingSets() {
		defects += ringDefect(rs.Exterior)
		for _, hole := range rs.Holes {
			defects += ringDefect(hole)
		}
	}
	return defects
}

func ringDefect(ring []GeoPoint) int {
	if len(ring) == 0 {
		return 0
	}
	if len(ring) < 4 {
		return 1
	}
	first, last := ring[0], ring[len(ring)-1]
	if first.Lat != last.Lat || first.Lon != last.Lon {
		return 1
	}
	if ringSelfCrosses(ring) {
		return 1
	}
	return 0
}

// ringSelfCrosses tests every non-adjacent segment pair for a true
// crossing.
func ringSelfCrosses(ring []GeoPoint) bool {
	n := len(ring) - 1 // closed ring, segment count
	segs := make([]geometry.Segment, n)
	for i := 0; i < n; i++ {
		segs[i] = geometry.Segment{
			A: geometry.Point{X: ring[i].Lon, Y: ring[i].Lat},
			B: geometry.Point{X: ring[i+1].Lon, Y: ring[i+1].Lat},
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // first and last share the closing vertex
			}
			if segs[i].IntersectsSegment(segs[j]) {
				return true
			}
		}
	}
	return false
}

// sampleOverlapArea estimates the shared area of two objects by
// point-sampling a grid over their box intersection, densified until
// one cell is below the tolerated area. Planar and approximate;
// edge-adjacent neighbors sample to zero.
func sampleOverlapArea(a, b geojson.Object, tolerated float64) float64 {
	ra, rb := a.Rect(), b.Rect()
	minX, minY := ra.Min.X, ra.Min.Y
	if rb.Min.X > minX {
		minX = rb.Min.X
	}
	if rb.Min.Y > minY {
		minY = rb.Min.Y
	}
	maxX, maxY := ra.Max.X, ra.Max.Y
	if rb.Max.X < maxX {
		maxX = rb.Max.X
	}
	if rb.Max.Y < maxY {
		maxY = rb.Max.Y
	}
	if minX >= maxX || minY >= maxY {
		return 0
	}
	width, height := maxX-minX, maxY-minY
	steps := overlapSampleSteps
	if tolerated > 0 {
		if need := int(math.Sqrt(width*height/tolerated)) + 1; need > steps {
			steps = need
		}
		if steps > overlapSampleCap {
			steps = overlapSampleCap
		}
	}
	dx := width / float64(steps)
	dy := height / float64(steps)
	var hits int
	for i := 0; i < steps; i++ {
		for j := 0; j < steps; j++ {
			p := geojson.NewPoint(geometry.Point{
				X: minX + (float64(i)+0.5)*dx,
				Y: minY + (float64(j)+0.5)*dy,
			})
			if a.Contains(p) && b.Contains(p) {
				hits++
			}
		}
	}
	cells := float64(steps * steps)
	return float64(hits) / cells * width * height
}
