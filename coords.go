package boundcheck

import (
	"fmt"

	"go.uber.org/zap"
)

// CoordinateValidator checks numeric validity of every coordinate and
// flags boundaries whose centroid falls off the known landmass set.
type CoordinateValidator struct {
	regions *RegionIndex
	logger  *zap.Logger
}

type CoordinateOption func(*CoordinateValidator)

func WithCoordinateLogger(logger *zap.Logger) CoordinateOption {
	return func(v *CoordinateValidator) {
		v.logger = logger
	}
}

func NewCoordinateValidator(regions *RegionIndex, opts ...CoordinateOption) *CoordinateValidator {
	v := &CoordinateValidator{
		regions: regions,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *CoordinateValidator) Validate(boundaries []NormalizedBoundary) CoordinateResult {
	res := CoordinateResult{Valid: true}
	for _, b := range boundaries {
		var hasNull bool
		b.Geometry.EachPoint(func(p GeoPoint) bool {
			if !p.IsFinite() {
				hasNull = true
				return true
			}
			if !p.InWGS84Range() {
				res.OutOfRangeCount++
			}
			return true
		})
		if hasNull {
			res.NullCoordinates = append(res.NullCoordinates, b.ID)
		}

		centroid, err := b.Geometry.Centroid()
		if err != nil {
			continue // empty geometry is the topology validator's finding
		}
		if centroid.InWGS84Range() && !v.regions.OnKnownLandmass(centroid) {
			// Advisory only: territories legitimately live outside the
			// landmass boxes.
			res.SuspiciousLocations = append(res.SuspiciousLocations, b.ID)
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"boundary %s centers outside known landmass (lat %.4f, lon %.4f)",
				b.ID, centroid.Lat, centroid.Lon))
		}
	}
	res.Valid = len(res.NullCoordinates) == 0 && res.OutOfRangeCount == 0
	v.logger.Debug("coordinate check",
		zap.Int("boundaries", len(boundaries)),
		zap.Int("nullCoordinates", len(res.NullCoordinates)),
		zap.Int("outOfRange", res.OutOfRangeCount),
		zap.Int("suspicious", len(res.SuspiciousLocations)))
	return res
}
