package boundcheck

import (
	"math"
	"testing"
)

func TestCentroidMeanOfExteriorVertices(t *testing.T) {
	g := NewPolygonGeometry(RingSet{Exterior: []GeoPoint{
		{Lat: 38, Lon: -85},
		{Lat: 38, Lon: -84},
		{Lat: 39, Lon: -84},
		{Lat: 39, Lon: -85},
		{Lat: 38, Lon: -85},
	}})
	centroid, err := g.Centroid()
	if err != nil {
		t.Fatal(err)
	}
	// Mean of all five listed points, closing vertex included.
	if math.Abs(centroid.Lat-38.4) > 1e-9 {
		t.Fatalf("have lat %f, want 38.4", centroid.Lat)
	}
	if math.Abs(centroid.Lon+84.6) > 1e-9 {
		t.Fatalf("have lon %f, want -84.6", centroid.Lon)
	}
}

func TestCentroidEmptyInput(t *testing.T) {
	var g PolygonGeometry
	if _, err := g.Centroid(); err != ErrEmptyInput {
		t.Fatalf("have %v, want ErrEmptyInput", err)
	}
}

func TestBoundingBox(t *testing.T) {
	box := NewBoundingBox()
	if !box.IsEmpty() {
		t.Fatal("fresh box should be empty")
	}
	box.Extend(GeoPoint{Lat: 38, Lon: -85})
	box.Extend(GeoPoint{Lat: 39, Lon: -84})
	box.Extend(GeoPoint{Lat: math.NaN(), Lon: math.NaN()})
	if box.IsEmpty() {
		t.Fatal("extended box should not be empty")
	}
	if !box.Contains(GeoPoint{Lat: 38.5, Lon: -84.5}) {
		t.Fatal("box should contain interior point")
	}
	if box.Contains(GeoPoint{Lat: 40, Lon: -84.5}) {
		t.Fatal("box should not contain exterior point")
	}
}

func TestPlanarArea(t *testing.T) {
	g := boxGeometry(0, 0, 1, 1)
	if have := g.PlanarArea(); math.Abs(have-1) > 1e-9 {
		t.Fatalf("have area %f, want 1", have)
	}
	withHole := NewPolygonGeometry(RingSet{
		Exterior: boxRing(0, 0, 2, 2),
		Holes:    [][]GeoPoint{boxRing(0.5, 0.5, 1.5, 1.5)},
	})
	if have := withHole.PlanarArea(); math.Abs(have-3) > 1e-9 {
		t.Fatalf("have area %f, want 3", have)
	}
}

func TestSpatialDegenerate(t *testing.T) {
	g := NewPolygonGeometry(RingSet{Exterior: []GeoPoint{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}})
	if _, ok := g.Spatial(); ok {
		t.Fatal("two-point ring should not build a spatial object")
	}
	if _, ok := boxGeometry(0, 0, 1, 1).Spatial(); !ok {
		t.Fatal("well-formed ring should build a spatial object")
	}
}

func TestGeometryKinds(t *testing.T) {
	single := boxGeometry(0, 0, 1, 1)
	if single.Kind() != GeometryPolygon {
		t.Fatalf("have %s, want Polygon", single.Kind())
	}
	multi := NewMultiPolygonGeometry([]RingSet{
		{Exterior: boxRing(0, 0, 1, 1)},
		{Exterior: boxRing(2, 0, 3, 1)},
	})
	if multi.Kind() != GeometryMultiPolygon {
		t.Fatalf("have %s, want MultiPolygon", multi.Kind())
	}
	obj, ok := multi.Spatial()
	if !ok {
		t.Fatal("multipolygon should build a spatial object")
	}
	rect := obj.Rect()
	if rect.Min.X != 0 || rect.Max.X != 3 {
		t.Fatalf("unexpected multipolygon rect: %+v", rect)
	}
}
