package boundcheck

import (
	"encoding/json"
	"fmt"
	"math"
)

// Raw GeoJSON decoding. The tidwall parser rejects or repairs exactly
// the malformed rings the topology validator must observe, so the
// feature collection is decoded with plain encoding/json and rings are
// carried raw. Null positions become NaN so the coordinate validator
// can count them.

type rawFeatureCollection struct {
	Type     string       `json:"type"`
	Features []rawFeature `json:"features"`
}

type rawFeature struct {
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties"`
	Geometry   *rawGeometry           `json:"geometry"`
}

type rawGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// ParseFeatureCollection decodes a GeoJSON FeatureCollection into
// boundary features. Non-polygonal features are kept with empty
// geometry so they surface as invalid-geometry findings instead of
// silently disappearing from the batch.
func ParseFeatureCollection(data []byte) ([]BoundaryFeature, error) {
	var fc rawFeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("boundcheck/parse: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("boundcheck/parse: got type %q, want FeatureCollection", fc.Type)
	}
	features := make([]BoundaryFeature, 0, len(fc.Features))
	for i, rf := range fc.Features {
		geom, err := decodeGeometry(rf.Geometry)
		if err != nil {
			return nil, fmt.Errorf("boundcheck/parse: feature %d: %w", i, err)
		}
		features = append(features, BoundaryFeature{
			Geometry:   geom,
			Properties: rf.Properties,
		})
	}
	return features, nil
}

func decodeGeometry(rg *rawGeometry) (PolygonGeometry, error) {
	if rg == nil || len(rg.Coordinates) == 0 {
		return PolygonGeometry{}, nil
	}
	switch rg.Type {
	case "Polygon":
		var rings [][][]*float64
		if err := json.Unmarshal(rg.Coordinates, &rings); err != nil {
			return PolygonGeometry{}, err
		}
		return NewPolygonGeometry(toRingSet(rings)), nil
	case "MultiPolygon":
		var polys [][][][]*float64
		if err := json.Unmarshal(rg.Coordinates, &polys); err != nil {
			return PolygonGeometry{}, err
		}
		sets := make([]RingSet, 0, len(polys))
		for _, rings := range polys {
			sets = append(sets, toRingSet(rings))
		}
		return NewMultiPolygonGeometry(sets), nil
	default:
		// Points, lines and such are not boundaries.
		return PolygonGeometry{}, nil
	}
}

func toRingSet(rings [][][]*float64) RingSet {
	var rs RingSet
	for i, ring := range rings {
		points := make([]GeoPoint, 0, len(ring))
		for _, pos := range ring {
			points = append(points, toGeoPoint(pos))
		}
		if i == 0 {
			rs.Exterior = points
		} else {
			rs.Holes = append(rs.Holes, points)
		}
	}
	return rs
}

func toGeoPoint(pos []*float64) GeoPoint {
	p := GeoPoint{Lat: math.NaN(), Lon: math.NaN()}
	if len(pos) > 0 && pos[0] != nil {
		p.Lon = *pos[0]
	}
	if len(pos) > 1 && pos[1] != nil {
		p.Lat = *pos[1]
	}
	return p
}
