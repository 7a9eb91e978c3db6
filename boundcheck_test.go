package boundcheck

// Shared test fixtures. Rings follow GeoJSON winding with the closing
// vertex repeated.

func boxRing(minLon, minLat, maxLon, maxLat float64) []GeoPoint {
	return []GeoPoint{
		{Lat: minLat, Lon: minLon},
		{Lat: minLat, Lon: maxLon},
		{Lat: maxLat, Lon: maxLon},
		{Lat: maxLat, Lon: minLon},
		{Lat: minLat, Lon: minLon},
	}
}

func boxGeometry(minLon, minLat, maxLon, maxLat float64) PolygonGeometry {
	return NewPolygonGeometry(RingSet{Exterior: boxRing(minLon, minLat, maxLon, maxLat)})
}

func boxFeature(minLon, minLat, maxLon, maxLat float64, props map[string]interface{}) BoundaryFeature {
	return BoundaryFeature{
		Geometry:   boxGeometry(minLon, minLat, maxLon, maxLat),
		Properties: props,
	}
}

func boxBoundary(id string, minLon, minLat, maxLon, maxLat float64) NormalizedBoundary {
	return NormalizedBoundary{
		ID:       id,
		Name:     id,
		Geometry: boxGeometry(minLon, minLat, maxLon, maxLat),
	}
}
