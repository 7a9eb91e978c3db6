package boundcheck

import "testing"

func newTopologyValidator() *TopologyValidator {
	return NewTopologyValidator(DefaultReferenceData())
}

func TestTopologyCleanTiling(t *testing.T) {
	v := newTopologyValidator()
	parent := boxBoundary("21", 0, 0, 2, 1)
	boundaries := []NormalizedBoundary{
		boxBoundary("21001", 0, 0, 1, 1),
		boxBoundary("21003", 1, 0, 2, 1),
	}
	res := v.Validate(boundaries, "county", &parent)
	if !res.Valid {
		t.Fatalf("disjoint gap-free tiling should be valid: %+v", res)
	}
	if len(res.Overlaps) != 0 {
		t.Fatalf("have %d overlaps, want 0", len(res.Overlaps))
	}
	if len(res.Gaps) != 0 {
		t.Fatalf("have %d gaps, want 0", len(res.Gaps))
	}
}

func TestTopologyGapAgainstParent(t *testing.T) {
	v := newTopologyValidator()
	parent := boxBoundary("21", 0, 0, 2, 1)
	boundaries := []NormalizedBoundary{boxBoundary("21001", 0, 0, 1, 1)}
	res := v.Validate(boundaries, "county", &parent)
	if res.Valid {
		t.Fatal("half-covered parent should be invalid")
	}
	if len(res.Gaps) != 1 {
		t.Fatalf("have %d gaps, want 1", len(res.Gaps))
	}
	if res.Gaps[0].UncoveredFraction < 0.4 {
		t.Fatalf("have uncovered fraction %f, want about half", res.Gaps[0].UncoveredFraction)
	}
}

func TestTopologyNoParentWarns(t *testing.T) {
	v := newTopologyValidator()
	boundaries := []NormalizedBoundary{boxBoundary("21001", 0, 0, 1, 1)}
	res := v.Validate(boundaries, "county", nil)
	if !res.Valid {
		t.Fatalf("missing parent must not fail the batch: %+v", res)
	}
	if len(res.Warnings) == 0 {
		t.Fatal("expected a missing-parent warning")
	}
}

func TestTopologyDuplicateOverlap(t *testing.T) {
	v := newTopologyValidator()
	boundaries := []NormalizedBoundary{
		boxBoundary("21001", 0, 0, 1, 1),
		boxBoundary("21002", 0, 0, 1, 1),
	}
	res := v.Validate(boundaries, "council_district", nil)
	if res.Valid {
		t.Fatal("duplicated boundary should report an overlap")
	}
	if len(res.Overlaps) != 1 {
		t.Fatalf("have %d overlaps, want 1", len(res.Overlaps))
	}
	if res.Overlaps[0].Area <= 0 {
		t.Fatalf("have overlap area %f, want positive", res.Overlaps[0].Area)
	}
}

func TestTopologyThinCrossingStripsOverlap(t *testing.T) {
	// Two thin diagonal strips crossing near (0.5, 0.5). The shared
	// region is a tiny fraction of the bounding-box intersection, so a
	// coarse fixed grid would sample right past it.
	const w = 0.004
	rising := NormalizedBoundary{
		ID: "rising",
		Geometry: NewPolygonGeometry(RingSet{Exterior: []GeoPoint{
			{Lat: -w, Lon: 0},
			{Lat: 1 - w, Lon: 1},
			{Lat: 1 + w, Lon: 1},
			{Lat: w, Lon: 0},
			{Lat: -w, Lon: 0},
		}}),
	}
	falling := NormalizedBoundary{
		ID: "falling",
		Geometry: NewPolygonGeometry(RingSet{Exterior: []GeoPoint{
			{Lat: 1 - w, Lon: 0},
			{Lat: -w, Lon: 1},
			{Lat: w, Lon: 1},
			{Lat: 1 + w, Lon: 0},
			{Lat: 1 - w, Lon: 0},
		}}),
	}
	v := newTopologyValidator()
	res := v.Validate([]NormalizedBoundary{rising, falling}, "council_district", nil)
	if len(res.Overlaps) != 1 {
		t.Fatalf("have %d overlaps, want the strip crossing reported", len(res.Overlaps))
	}
	if res.Overlaps[0].Area <= 0 {
		t.Fatalf("have overlap area %f, want positive", res.Overlaps[0].Area)
	}
}

func TestTopologyAdjacentBoundariesNoOverlap(t *testing.T) {
	v := newTopologyValidator()
	boundaries := []NormalizedBoundary{
		boxBoundary("a", 0, 0, 1, 1),
		boxBoundary("b", 1, 0, 2, 1), // shares an edge only
	}
	res := v.Validate(boundaries, "council_district", nil)
	if len(res.Overlaps) != 0 {
		t.Fatalf("edge-adjacent boundaries reported overlaps: %+v", res.Overlaps)
	}
}

func TestTopologyUnclosedRing(t *testing.T) {
	v := newTopologyValidator()
	open := NormalizedBoundary{
		ID: "open",
		Geometry: NewPolygonGeometry(RingSet{Exterior: []GeoPoint{
			{Lat: 0, Lon: 0},
			{Lat: 0, Lon: 1},
			{Lat: 1, Lon: 1},
			{Lat: 1, Lon: 0},
		}}),
	}
	res := v.Validate([]NormalizedBoundary{open}, "council_district", nil)
	if res.Valid {
		t.Fatal("unclosed ring should be a defect")
	}
	if res.SelfIntersections() != 1 {
		t.Fatalf("have %d self-intersections, want 1", res.SelfIntersections())
	}
}

func TestTopologyShortRing(t *testing.T) {
	v := newTopologyValidator()
	short := NormalizedBoundary{
		ID: "short",
		Geometry: NewPolygonGeometry(RingSet{Exterior: []GeoPoint{
			{Lat: 0, Lon: 0},
			{Lat: 0, Lon: 1},
			{Lat: 0, Lon: 0},
		}}),
	}
	res := v.Validate([]NormalizedBoundary{short}, "council_district", nil)
	if res.SelfIntersections() != 1 {
		t.Fatalf("have %d self-intersections, want 1", res.SelfIntersections())
	}
}

func TestTopologyBowtieCrossing(t *testing.T) {
	v := newTopologyValidator()
	bowtie := NormalizedBoundary{
		ID: "bowtie",
		Geometry: NewPolygonGeometry(RingSet{Exterior: []GeoPoint{
			{Lat: 0, Lon: 0},
			{Lat: 2, Lon: 2},
			{Lat: 0, Lon: 2},
			{Lat: 2, Lon: 0},
			{Lat: 0, Lon: 0},
		}}),
	}
	res := v.Validate([]NormalizedBoundary{bowtie}, "council_district", nil)
	if res.SelfIntersections() != 1 {
		t.Fatalf("have %d self-intersections, want 1", res.SelfIntersections())
	}
}

func TestTopologyClosedRingNoDefect(t *testing.T) {
	v := newTopologyValidator()
	res := v.Validate([]NormalizedBoundary{boxBoundary("ok", 0, 0, 1, 1)}, "council_district", nil)
	if res.SelfIntersections() != 0 {
		t.Fatalf("have %d self-intersections, want 0", res.SelfIntersections())
	}
	if !res.Valid {
		t.Fatalf("clean boundary should be valid: %+v", res)
	}
}

func TestTopologyEmptyGeometry(t *testing.T) {
	v := newTopologyValidator()
	res := v.Validate([]NormalizedBoundary{{ID: "empty"}}, "council_district", nil)
	if res.Valid {
		t.Fatal("empty geometry should be counted invalid")
	}
	if len(res.InvalidGeometries) != 1 || res.InvalidGeometries[0] != "empty" {
		t.Fatalf("unexpected invalid geometries: %v", res.InvalidGeometries)
	}
}
