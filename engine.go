// Package boundcheck validates candidate administrative-boundary
// datasets before they enter a canonical geographic registry. It runs
// three coupled passes over the same geometry (regional bounds,
// topology/coordinates and completeness) and collapses them into one
// reproducible quality score.
package boundcheck

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/xid"
	"go.uber.org/zap"
)

// Dataset is one validation unit: a claimed target plus the features
// purporting to represent it. Parent is optional and only consulted by
// the gap check of tiling layers.
type Dataset struct {
	Target   RegionTarget
	Features []BoundaryFeature
	Parent   *NormalizedBoundary
}

// QualityReport is the full outcome of one inspection. Accepted
// digests are populated only when the report lands in the accept tier;
// they are what the dedup and commitment stages consume.
type QualityReport struct {
	ReportID     string
	Target       RegionTarget
	Bounds       ValidationResult
	Topology     TopologyResult
	Coordinates  CoordinateResult
	Completeness CompletenessResult
	Score        int
	Tier         QualityTier
	Accepted     []BoundaryDigest
}

// Engine wires the validators together. Independent Inspect calls are
// safe to run in parallel; the union cache is the only shared mutable
// state and it coalesces concurrent fetches itself.
type Engine struct {
	regions      *RegionIndex
	refdata      *ReferenceData
	bounds       *BoundsValidator
	topology     *TopologyValidator
	coordinates  *CoordinateValidator
	completeness *CompletenessValidator
	logger       *zap.Logger
}

type Option func(*engineOptions)

type engineOptions struct {
	regions  *RegionIndex
	refdata  *ReferenceData
	provider UnionProvider
	logger   *zap.Logger
}

func WithRegions(regions *RegionIndex) Option {
	return func(o *engineOptions) {
		o.regions = regions
	}
}

func WithReferenceData(refdata *ReferenceData) Option {
	return func(o *engineOptions) {
		o.refdata = refdata
	}
}

func WithUnionProvider(provider UnionProvider) Option {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

func New(opts ...Option) *Engine {
	options := engineOptions{
		regions: DefaultRegions(),
		refdata: DefaultReferenceData(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	boundsOpts := []BoundsOption{WithBoundsLogger(options.logger)}
	if options.provider != nil {
		boundsOpts = append(boundsOpts, WithBoundsUnionCache(NewUnionCache(options.provider)))
	}
	return &Engine{
		regions:      options.regions,
		refdata:      options.refdata,
		bounds:       NewBoundsValidator(options.regions, boundsOpts...),
		topology:     NewTopologyValidator(options.refdata, WithTopologyLogger(options.logger)),
		coordinates:  NewCoordinateValidator(options.regions, WithCoordinateLogger(options.logger)),
		completeness: NewCompletenessValidator(options.refdata),
		logger:       options.logger,
	}
}

// Bounds exposes the regional bounds validator for callers that only
// need region membership.
func (e *Engine) Bounds() *BoundsValidator {
	return e.bounds
}

// Inspect runs the full pipeline. The bounds pass gates the rest: a
// hard regional reject skips the structural passes and reports score
// zero. Every data-quality problem past argument validation is a
// structured finding, never an error.
func (e *Engine) Inspect(ctx context.Context, dataset Dataset) (*QualityReport, error) {
	if err := validateDataset(dataset); err != nil {
		return nil, err
	}
	report := &QualityReport{
		ReportID: xid.New().String(),
		Target:   dataset.Target,
	}

	bounds, err := e.bounds.Validate(ctx, dataset.Features, dataset.Target)
	if err != nil {
		return nil, err
	}
	report.Bounds = bounds
	if !bounds.Valid {
		e.logger.Info("dataset rejected by regional bounds",
			zap.String("target", dataset.Target.RegionCode),
			zap.Strings("issues", bounds.Issues))
		report.Tier = TierReject
		return report, nil
	}

	boundaries := NormalizeFeatures(dataset.Features)
	report.Topology = e.topology.Validate(boundaries, dataset.Target.LayerType, dataset.Parent)
	report.Coordinates = e.coordinates.Validate(boundaries)
	report.Completeness = e.completeness.Validate(dataset.Target.LayerType, boundaries, dataset.Target.RegionCode)

	report.Score = Score(report.Completeness, report.Topology, report.Coordinates)
	report.Tier = TierFor(report.Score)
	if report.Tier == TierAccept {
		report.Accepted = DigestBoundaries(boundaries)
	}
	e.logger.Info("dataset inspected",
		zap.String("target", dataset.Target.RegionCode),
		zap.String("layer", dataset.Target.LayerType),
		zap.Int("features", len(dataset.Features)),
		zap.Int("score", report.Score),
		zap.String("tier", report.Tier.String()))
	return report, nil
}

func validateDataset(dataset Dataset) error {
	var result *multierror.Error
	if len(dataset.Features) == 0 {
		result = multierror.Append(result, ErrEmptyInput)
	}
	if dataset.Target.RegionCode == "" {
		result = multierror.Append(result, ErrMissingTarget)
	}
	return result.ErrorOrNil()
}
