package boundcheck

import (
	"math"

	"github.com/tidwall/geojson"
	"github.com/tidwall/geojson/geometry"
)

// GeoPoint is a WGS84 coordinate in decimal degrees.
type GeoPoint struct {
	Lat float64
	Lon float64
}

func (p GeoPoint) IsFinite() bool {
	return !math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0) &&
		!math.IsNaN(p.Lon) && !math.IsInf(p.Lon, 0)
}

func (p GeoPoint) InWGS84Range() bool {
	return p.Lon >= -180 && p.Lon <= 180 && p.Lat >= -90 && p.Lat <= 90
}

// BoundingBox is an axis-aligned box in decimal degrees. A freshly made
// box is degenerate (all infinite) and reports empty until extended.
type BoundingBox struct {
	MinLon, MinLat float64
	MaxLon, MaxLat float64
}

func NewBoundingBox() BoundingBox {
	return BoundingBox{
		MinLon: math.Inf(1), MinLat: math.Inf(1),
		MaxLon: math.Inf(-1), MaxLat: math.Inf(-1),
	}
}

func MakeBoundingBox(minLon, minLat, maxLon, maxLat float64) BoundingBox {
	return BoundingBox{MinLon: minLon, MinLat: minLat, MaxLon: maxLon, MaxLat: maxLat}
}

func (b BoundingBox) IsEmpty() bool {
	return b.MinLon > b.MaxLon || b.MinLat > b.MaxLat
}

func (b *BoundingBox) Extend(p GeoPoint) {
	if !p.IsFinite() {
		return
	}
	if p.Lon < b.MinLon {
		b.MinLon = p.Lon
	}
	if p.Lon > b.MaxLon {
		b.MaxLon = p.Lon
	}
	if p.Lat < b.MinLat {
		b.MinLat = p.Lat
	}
	if p.Lat > b.MaxLat {
		b.MaxLat = p.Lat
	}
}

func (b BoundingBox) Contains(p GeoPoint) bool {
	return p.Lon >= b.MinLon && p.Lon <= b.MaxLon &&
		p.Lat >= b.MinLat && p.Lat <= b.MaxLat
}

type GeometryKind int

const (
	GeometryNone GeometryKind = iota
	GeometryPolygon
	GeometryMultiPolygon
)

func (k GeometryKind) String() string {
	switch k {
	case GeometryPolygon:
		return "Polygon"
	case GeometryMultiPolygon:
		return "MultiPolygon"
	default:
		return "None"
	}
}

// RingSet is one exterior ring plus its holes. Rings are kept raw:
// an unclosed or too-short ring is a finding for the topology
// validator, not a construction error.
type RingSet struct {
	Exterior []GeoPoint
	Holes    [][]GeoPoint
}

// PolygonGeometry is the tagged union over Polygon and MultiPolygon.
// The variant is fixed at construction; callers never re-inspect a
// type tag after that.
type PolygonGeometry struct {
	kind GeometryKind
	sets []RingSet
}

func NewPolygonGeometry(set RingSet) PolygonGeometry {
	return PolygonGeometry{kind: GeometryPolygon, sets: []RingSet{set}}
}

func NewMultiPolygonGeometry(sets []RingSet) PolygonGeometry {
	return PolygonGeometry{kind: GeometryMultiPolygon, sets: sets}
}

func (g PolygonGeometry) Kind() GeometryKind {
	return g.kind
}

func (g PolygonGeometry) RingSets() []RingSet {
	return g.sets
}

func (g PolygonGeometry) IsEmpty() bool {
	if g.kind == GeometryNone || len(g.sets) == 0 {
		return true
	}
	for _, rs := range g.sets {
		if len(rs.Exterior) > 0 {
			return false
		}
	}
	return true
}

// EachPoint walks every vertex of every ring, holes included.
func (g PolygonGeometry) EachPoint(fn func(p GeoPoint) bool) {
	for _, rs := range g.sets {
		for _, p := range rs.Exterior {
			if !fn(p) {
				return
			}
		}
		for _, hole := range rs.Holes {
			for _, p := range hole {
				if !fn(p) {
					return
				}
			}
		}
	}
}

// EachExteriorPoint walks the exterior-ring vertices only.
func (g PolygonGeometry) EachExteriorPoint(fn func(p GeoPoint) bool) {
	for _, rs := range g.sets {
		for _, p := range rs.Exterior {
			if !fn(p) {
				return
			}
		}
	}
}

func (g PolygonGeometry) Bounding() BoundingBox {
	box := NewBoundingBox()
	g.EachPoint(func(p GeoPoint) bool {
		box.Extend(p)
		return true
	})
	return box
}

// Centroid is the arithmetic mean of the exterior-ring vertices,
// closing vertex included. An O(n) stand-in for the true area
// centroid; it drifts on concave or unevenly sampled shapes.
func (g PolygonGeometry) Centroid() (GeoPoint, error) {
	var sumLat, sumLon float64
	var n int
	g.EachExteriorPoint(func(p GeoPoint) bool {
		if p.IsFinite() {
			sumLat += p.Lat
			sumLon += p.Lon
			n++
		}
		return true
	})
	if n == 0 {
		return GeoPoint{}, ErrEmptyInput
	}
	return GeoPoint{Lat: sumLat / float64(n), Lon: sumLon / float64(n)}, nil
}

// PlanarArea is the shoelace area of all exterior rings minus holes,
// in squared degrees. It feeds tolerance ratios, not measurements.
func (g PolygonGeometry) PlanarArea() float64 {
	var area float64
	for _, rs := range g.sets {
		area += shoelace(rs.Exterior)
		for _, hole := range rs.Holes {
			area -= shoelace(hole)
		}
	}
	if area < 0 {
		area = 0
	}
	return area
}

func shoelace(ring []GeoPoint) float64 {
	if len(ring) < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < len(ring); i++ {
		j := (i + 1) % len(ring)
		sum += ring[i].Lon*ring[j].Lat - ring[j].Lon*ring[i].Lat
	}
	return math.Abs(sum) / 2
}

// Spatial builds the geojson object used for containment and
// intersection tests. Rings with fewer than 3 usable points are
// skipped; ok is false when nothing usable remains.
func (g PolygonGeometry) Spatial() (geojson.Object, bool) {
	polys := make([]*geometry.Poly, 0, len(g.sets))
	for _, rs := range g.sets {
		ext := toSeriesPoints(rs.Exterior)
		if len(ext) < 3 {
			continue
		}
		var holes [][]geometry.Point
		for _, h := range rs.Holes {
			hp := toSeriesPoints(h)
			if len(hp) >= 3 {
				holes = append(holes, hp)
			}
		}
		polys = append(polys, geometry.NewPoly(ext, holes, nil))
	}
	switch {
	case len(polys) == 0:
		return nil, false
	case g.kind == GeometryPolygon, len(polys) == 1:
		return geojson.NewPolygon(polys[0]), true
	default:
		return geojson.NewMultiPolygon(polys), true
	}
}

func toSeriesPoints(ring []GeoPoint) []geometry.Point {
	points := make([]geometry.Point, 0, len(ring))
	for _, p := range ring {
		if !p.IsFinite() {
			continue
		}
		points = append(points, geometry.Point{X: p.Lon, Y: p.Lat})
	}
	return points
}
