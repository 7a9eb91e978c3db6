package boundcheck

// RegionBox is one region's approximate bounding box. Boxes are loose
// and may overlap near borders; detection treats an overlapping hit as
// unknown rather than guessing.
type RegionBox struct {
	Code string
	Box  BoundingBox
}

// RegionIndex is the static lookup table for region detection and the
// landmass advisory check. Immutable after construction; share one
// instance across validators.
type RegionIndex struct {
	boxes    []RegionBox
	landmass []BoundingBox
}

func NewRegionIndex(boxes []RegionBox, landmass []BoundingBox) *RegionIndex {
	return &RegionIndex{boxes: boxes, landmass: landmass}
}

// Detect returns the region whose box contains p. A point inside more
// than one box is ambiguous and a point inside none is off the table;
// both report ok=false.
func (ri *RegionIndex) Detect(p GeoPoint) (string, bool) {
	var code string
	var hits int
	for i := range ri.boxes {
		if ri.boxes[i].Box.Contains(p) {
			code = ri.boxes[i].Code
			hits++
			if hits > 1 {
				return "", false
			}
		}
	}
	if hits != 1 {
		return "", false
	}
	return code, true
}

func (ri *RegionIndex) BoundingBoxOf(code string) (BoundingBox, bool) {
	for i := range ri.boxes {
		if ri.boxes[i].Code == code {
			return ri.boxes[i].Box, true
		}
	}
	return BoundingBox{}, false
}

// OnKnownLandmass reports whether p falls on one of the deployment's
// landmass boxes. Territories legitimately fall outside; callers treat
// a miss as advisory.
func (ri *RegionIndex) OnKnownLandmass(p GeoPoint) bool {
	for i := range ri.landmass {
		if ri.landmass[i].Contains(p) {
			return true
		}
	}
	return false
}

// DefaultRegions covers the 50 US states plus DC with approximate
// boxes, and CONUS/Alaska/Hawaii as the landmass set.
func DefaultRegions() *RegionIndex {
	return NewRegionIndex(usStateBoxes, usLandmass)
}

func box(minLon, minLat, maxLon, maxLat float64) BoundingBox {
	return MakeBoundingBox(minLon, minLat, maxLon, maxLat)
}

var usLandmass = []BoundingBox{
	box(-124.85, 24.39, -66.88, 49.39), // contiguous US
	box(-179.15, 51.21, -129.98, 71.44),
	box(-160.25, 18.91, -154.81, 22.24),
}

// Aleutian islands west of the antimeridian are outside the Alaska box.
var usStateBoxes = []RegionBox{
	{"AL", box(-88.47, 30.22, -84.89, 35.01)},
	{"AK", box(-179.15, 51.21, -129.98, 71.44)},
	{"AZ", box(-114.82, 31.33, -109.05, 37.00)},
	{"AR", box(-94.62, 33.00, -89.64, 36.50)},
	{"CA", box(-124.41, 32.53, -114.13, 42.01)},
	{"CO", box(-109.05, 36.99, -102.04, 41.00)},
	{"CT", box(-73.73, 40.98, -71.79, 42.05)},
	{"DE", box(-75.79, 38.45, -75.05, 39.84)},
	{"DC", box(-77.12, 38.79, -76.91, 38.99)},
	{"FL", box(-87.63, 24.52, -80.03, 31.00)},
	{"GA", box(-85.61, 30.36, -80.84, 35.00)},
	{"HI", box(-160.25, 18.91, -154.81, 22.24)},
	{"ID", box(-117.24, 42.00, -111.04, 49.00)},
	{"IL", box(-91.51, 36.97, -87.49, 42.51)},
	{"IN", box(-88.10, 37.77, -84.78, 41.76)},
	{"IA", box(-96.64, 40.38, -90.14, 43.50)},
	{"KS", box(-102.05, 36.99, -94.59, 40.00)},
	{"KY", box(-89.57, 36.50, -81.96, 39.15)},
	{"LA", box(-94.04, 28.93, -88.82, 33.02)},
	{"ME", box(-71.08, 43.06, -66.95, 47.46)},
	{"MD", box(-79.49, 37.91, -75.05, 39.72)},
	{"MA", box(-73.51, 41.24, -69.93, 42.89)},
	{"MI", box(-90.42, 41.70, -82.41, 48.31)},
	{"MN", box(-97.24, 43.50, -89.49, 49.38)},
	{"MS", box(-91.66, 30.17, -88.10, 35.00)},
	{"MO", box(-95.77, 35.99, -89.10, 40.61)},
	{"MT", box(-116.05, 44.36, -104.04, 49.00)},
	{"NE", box(-104.05, 40.00, -95.31, 43.00)},
	{"NV", box(-120.01, 35.00, -114.04, 42.00)},
	{"NH", box(-72.56, 42.70, -70.61, 45.31)},
	{"NJ", box(-75.56, 38.93, -73.89, 41.36)},
	{"NM", box(-109.05, 31.33, -103.00, 37.00)},
	{"NY", box(-79.76, 40.50, -71.86, 45.02)},
	{"NC", box(-84.32, 33.84, -75.46, 36.59)},
	{"ND", box(-104.05, 45.94, -96.55, 49.00)},
	{"OH", box(-84.82, 38.40, -80.52, 41.98)},
	{"OK", box(-103.00, 33.62, -94.43, 37.00)},
	{"OR", box(-124.57, 41.99, -116.46, 46.29)},
	{"PA", box(-80.52, 39.72, -74.69, 42.27)},
	{"RI", box(-71.86, 41.15, -71.12, 42.02)},
	{"SC", box(-83.35, 32.05, -78.54, 35.22)},
	{"SD", box(-104.06, 42.48, -96.44, 45.95)},
	{"TN", box(-90.31, 34.98, -81.65, 36.68)},
	{"TX", box(-106.65, 25.84, -93.51, 36.50)},
	{"UT", box(-114.05, 37.00, -109.04, 42.00)},
	{"VT", box(-73.44, 42.73, -71.46, 45.02)},
	{"VA", box(-83.68, 36.54, -75.24, 39.47)},
	{"WA", box(-124.76, 45.54, -116.92, 49.00)},
	{"WV", box(-82.64, 37.20, -77.72, 40.64)},
	{"WI", box(-92.89, 42.49, -86.80, 47.08)},
	{"WY", box(-111.05, 41.00, -104.05, 45.01)},
}
