package boundcheck

import (
	"fmt"
	"strconv"
)

// BoundaryFeature is one candidate boundary as received from an
// upstream discovery stage. The validators never mutate or retain it
// beyond a single call.
type BoundaryFeature struct {
	Geometry   PolygonGeometry
	Properties map[string]interface{}
}

// RegionTarget is the caller's claim about what a dataset represents.
type RegionTarget struct {
	Name string
	// RegionCode is the claimed state, e.g. "KY".
	RegionCode string
	// IdentifierCode keys the authoritative union for multi-unit
	// targets; empty means no union check applies.
	IdentifierCode string
	LayerType      string
}

// RegionUnion is the authoritative merged geometry for a multi-unit
// target, supplied by an external provider and immutable once cached.
type RegionUnion struct {
	MemberRegions []string
	Geometry      PolygonGeometry
	Provenance    string
}

// NormalizedBoundary is the unit the topology and completeness
// validators operate over in bulk.
type NormalizedBoundary struct {
	ID         string
	Name       string
	Geometry   PolygonGeometry
	Properties map[string]interface{}
}

var (
	idKeys   = []string{"GEOID", "GEOID20", "GEOID10", "geoid", "ID", "id"}
	nameKeys = []string{"NAME", "NAMELSAD", "name", "district"}
)

// NormalizeFeatures assigns stable ids and display names from
// conventional property keys. Features without a usable id key get a
// synthetic id derived from the geometry content, so identical input
// always yields identical ids.
func NormalizeFeatures(features []BoundaryFeature) []NormalizedBoundary {
	boundaries := make([]NormalizedBoundary, 0, len(features))
	for i, f := range features {
		id := propertyString(f.Properties, idKeys)
		if id == "" {
			id = syntheticID(f.Geometry)
		}
		name := propertyString(f.Properties, nameKeys)
		if name == "" {
			name = fmt.Sprintf("feature[%d]", i)
		}
		boundaries = append(boundaries, NormalizedBoundary{
			ID:         id,
			Name:       name,
			Geometry:   f.Geometry,
			Properties: f.Properties,
		})
	}
	return boundaries
}

// syntheticID is visibly synthetic: the prefix fails every identifier
// format rule, so id-less features surface as malformed instead of
// passing format checks.
func syntheticID(g PolygonGeometry) string {
	return fmt.Sprintf("synthetic-%016x", geometryHash(g))
}

func featureName(f BoundaryFeature, index int) string {
	if name := propertyString(f.Properties, nameKeys); name != "" {
		return name
	}
	if id := propertyString(f.Properties, idKeys); id != "" {
		return id
	}
	return fmt.Sprintf("feature[%d]", index)
}

func propertyString(props map[string]interface{}, keys []string) string {
	for _, key := range keys {
		v, ok := props[key]
		if !ok {
			continue
		}
		switch val := v.(type) {
		case string:
			if val != "" {
				return val
			}
		case float64:
			return strconv.FormatFloat(val, 'f', -1, 64)
		case int:
			return strconv.Itoa(val)
		}
	}
	return ""
}
