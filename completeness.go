package boundcheck

import "fmt"

// CompletenessValidator compares a batch against the authoritative
// expected-count table and checks identifier formats.
type CompletenessValidator struct {
	refdata *ReferenceData
}

func NewCompletenessValidator(refdata *ReferenceData) *CompletenessValidator {
	return &CompletenessValidator{refdata: refdata}
}

func (v *CompletenessValidator) Validate(layerType string, boundaries []NormalizedBoundary, regionKey string) CompletenessResult {
	res := CompletenessResult{Actual: len(boundaries)}

	expected, ok := v.refdata.ExpectedCount(layerType, regionKey)
	if !ok {
		// Absence of a reference is not a failure.
		res.Valid = true
		res.Percentage = 100
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"no expected count on record for layer %s in %s, completeness not checked",
			layerType, regionKey))
		v.checkIdentifiers(layerType, boundaries, &res)
		res.Valid = res.Valid && len(res.MalformedIDs) == 0
		return res
	}

	res.Expected = expected
	if expected > 0 {
		res.Percentage = float64(res.Actual) / float64(expected) * 100
	}
	v.checkIdentifiers(layerType, boundaries, &res)
	res.Valid = res.Actual == expected && len(res.MalformedIDs) == 0
	return res
}

func (v *CompletenessValidator) checkIdentifiers(layerType string, boundaries []NormalizedBoundary, res *CompletenessResult) {
	rule, ok := v.refdata.LayerRule(layerType)
	if !ok {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"no identifier rule on record for layer %s, identifiers not checked", layerType))
		return
	}
	for _, b := range boundaries {
		if err := rule.Identifier.Validate(b.ID); err != nil {
			res.MalformedIDs = append(res.MalformedIDs, b.ID)
		}
	}
}
