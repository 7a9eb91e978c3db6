package boundcheck

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Confidence ceilings applied by the soft paths of the bounds pass.
// Each step can only lower the ceiling set by an earlier one.
const (
	confidenceUnknownRegion = 50
	confidenceSpillover     = 80
	confidenceUnionPartial  = 70
	confidenceUnionFailure  = 60
)

// Ratios above these limits flip a soft finding into a hard reject.
const (
	outOfBoundsLimit  = 0.5
	unionInvalidLimit = 0.5
)

const sampleLimit = 3

// BoundsValidator decides whether a dataset belongs to its claimed
// region, at bounding-box and authoritative-union granularity.
type BoundsValidator struct {
	regions *RegionIndex
	unions  *UnionCache
	logger  *zap.Logger
}

type BoundsOption func(*BoundsValidator)

func WithBoundsUnionCache(cache *UnionCache) BoundsOption {
	return func(v *BoundsValidator) {
		v.unions = cache
	}
}

func WithBoundsLogger(logger *zap.Logger) BoundsOption {
	return func(v *BoundsValidator) {
		v.logger = logger
	}
}

func NewBoundsValidator(regions *RegionIndex, opts ...BoundsOption) *BoundsValidator {
	v := &BoundsValidator{
		regions: regions,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Centroid is the arithmetic mean of every exterior-ring vertex across
// all features. Fails with ErrEmptyInput when no coordinates exist.
func (v *BoundsValidator) Centroid(features []BoundaryFeature) (GeoPoint, error) {
	var sumLat, sumLon float64
	var n int
	for _, f := range features {
		f.Geometry.EachExteriorPoint(func(p GeoPoint) bool {
			if p.IsFinite() {
				sumLat += p.Lat
				sumLon += p.Lon
				n++
			}
			return true
		})
	}
	if n == 0 {
		return GeoPoint{}, ErrEmptyInput
	}
	return GeoPoint{Lat: sumLat / float64(n), Lon: sumLon / float64(n)}, nil
}

// DetectRegion maps a point to a region code through the static box
// table. ok is false for ambiguous or off-table points.
func (v *BoundsValidator) DetectRegion(p GeoPoint) (string, bool) {
	return v.regions.Detect(p)
}

// Validate runs the ordered, short-circuiting checks of the regional
// bounds pass. Only ErrEmptyInput escapes as an error; every data
// quality problem lands inside the result.
func (v *BoundsValidator) Validate(ctx context.Context, features []BoundaryFeature, target RegionTarget) (ValidationResult, error) {
	res := ValidationResult{Valid: true, Confidence: 100}
	centroid, err := v.Centroid(features)
	if err != nil {
		return res, err
	}

	detected, ok := v.DetectRegion(centroid)
	switch {
	case !ok:
		res.warn(fmt.Sprintf(
			"could not determine region for data centroid (lat %.4f, lon %.4f)",
			centroid.Lat, centroid.Lon))
		res.capConfidence(confidenceUnknownRegion)
	case detected != target.RegionCode:
		res.fail(fmt.Sprintf(
			"data centroid is in %s, expected %s (lat %.4f, lon %.4f)",
			detected, target.RegionCode, centroid.Lat, centroid.Lon))
		return res, nil
	}

	if done := v.checkBoundingBox(&res, features, target); done {
		return res, nil
	}

	if target.IdentifierCode != "" {
		v.checkUnion(ctx, &res, features, target)
	}
	return res, nil
}

func (v *BoundsValidator) checkBoundingBox(res *ValidationResult, features []BoundaryFeature, target RegionTarget) bool {
	regionBox, ok := v.regions.BoundingBoxOf(target.RegionCode)
	if !ok {
		res.warn(fmt.Sprintf("no bounding box on record for region %s, skipping bounds check", target.RegionCode))
		res.capConfidence(confidenceUnknownRegion)
		return false
	}

	var total, outside int
	samples := make([]string, 0, sampleLimit)
	for _, f := range features {
		f.Geometry.EachPoint(func(p GeoPoint) bool {
			if !p.IsFinite() {
				return true
			}
			total++
			if !regionBox.Contains(p) {
				outside++
				if len(samples) < sampleLimit {
					samples = append(samples, fmt.Sprintf("(lat %.4f, lon %.4f)", p.Lat, p.Lon))
				}
			}
			return true
		})
	}
	if total == 0 {
		return false
	}

	fraction := float64(outside) / float64(total)
	v.logger.Debug("bounding box check",
		zap.String("region", target.RegionCode),
		zap.Int("total", total),
		zap.Int("outside", outside))
	switch {
	case fraction > outOfBoundsLimit:
		res.fail(fmt.Sprintf(
			"%.1f%% of coordinates fall outside region %s box [%.2f,%.2f,%.2f,%.2f], sample: %s",
			fraction*100, target.RegionCode,
			regionBox.MinLon, regionBox.MinLat, regionBox.MaxLon, regionBox.MaxLat,
			strings.Join(samples, ", ")))
		return true
	case fraction > 0:
		res.warn(fmt.Sprintf(
			"%.1f%% of coordinates spill outside region %s box, sample: %s",
			fraction*100, target.RegionCode, strings.Join(samples, ", ")))
		res.capConfidence(confidenceSpillover)
	}
	return false
}

func (v *BoundsValidator) checkUnion(ctx context.Context, res *ValidationResult, features []BoundaryFeature, target RegionTarget) {
	if v.unions == nil {
		res.warn("no union cache configured, skipping authoritative union check")
		res.capConfidence(confidenceUnionFailure)
		return
	}
	union, err := v.unions.Get(ctx, target.IdentifierCode)
	if err != nil {
		res.warn(fmt.Sprintf("authoritative union %s unavailable: %v", target.IdentifierCode, err))
		res.capConfidence(confidenceUnionFailure)
		return
	}
	unionObj, ok := union.Geometry.Spatial()
	if !ok {
		res.warn(fmt.Sprintf("authoritative union %s has unusable geometry", target.IdentifierCode))
		res.capConfidence(confidenceUnionFailure)
		return
	}

	invalid := make([]string, 0, sampleLimit)
	var invalidCount int
	for i, f := range features {
		obj, ok := f.Geometry.Spatial()
		// Relaxed policy: a feature merely intersecting the union
		// counts as belonging; only fully disjoint features fail.
		if ok && (obj.Within(unionObj) || obj.Intersects(unionObj)) {
			continue
		}
		invalidCount++
		if len(invalid) < sampleLimit {
			invalid = append(invalid, featureName(f, i))
		}
	}
	if invalidCount == 0 {
		return
	}

	ratio := float64(invalidCount) / float64(len(features))
	if ratio > unionInvalidLimit {
		res.fail(fmt.Sprintf(
			"%d of %d features fall outside union of [%s], sample: %s",
			invalidCount, len(features),
			strings.Join(union.MemberRegions, ", "),
			strings.Join(invalid, ", ")))
		return
	}
	res.warn(fmt.Sprintf(
		"%d of %d features fall outside union of [%s]: %s",
		invalidCount, len(features),
		strings.Join(union.MemberRegions, ", "),
		strings.Join(invalid, ", ")))
	res.capConfidence(confidenceUnionPartial)
}
