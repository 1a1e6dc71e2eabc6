package pipeline

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

const (
	// ImputeSentinel fills absent values with a reserved negative marker.
	ImputeSentinel ImputationPolicy = "sentinel"
	// ImputeTrainMean fills absent values with the training-split mean.
	ImputeTrainMean ImputationPolicy = "train_mean"
)

// ImputationPolicy decides how absent numeric features are filled.
type ImputationPolicy string

func ParseImputationPolicy(s string) (ImputationPolicy, error) {
	switch p := ImputationPolicy(s); p {
	case ImputeSentinel, ImputeTrainMean:
		return p, nil
	}
	return "", fmt.Errorf("unknown imputation policy %q", s)
}

const (
	FeatureQualifyingPosition Feature = "qualifying_position"
	FeaturePracticePaceGap    Feature = "practice_pace_gap"
	FeatureAvgFinishAtCircuit Feature = "avg_finish_at_circuit"
	FeatureAvgFinishTrailing  Feature = "avg_finish_trailing"
)

// Feature names an optional numeric feature.
type Feature string

// optionalFeatures is indexed by the positions used in draft.values.
var optionalFeatures = []Feature{
	FeatureQualifyingPosition,
	FeaturePracticePaceGap,
	FeatureAvgFinishAtCircuit,
	FeatureAvgFinishTrailing,
}

const (
	idxQualifying = iota
	idxPaceGap
	idxCircuit
	idxTrailing
	numOptional
)

// fillValues is fixed before any row is finalized. Under ImputeTrainMean
// the statistic comes from training rows only; features with no training
// value use the sentinel and are reported in fallbacks.
func fillValues(policy ImputationPolicy, sentinel float64, drafts []draft) (fill [numOptional]float64, fallbacks []Feature) {
	for i := range fill {
		fill[i] = sentinel
	}
	if policy != ImputeTrainMean {
		return fill, nil
	}
	for i, f := range optionalFeatures {
		var xs []float64
		for _, d := range drafts {
			if d.row.Split != SplitTrain {
				continue
			}
			if v, ok := d.values[i].Get(); ok {
				xs = append(xs, v)
			}
		}
		if len(xs) == 0 {
			fallbacks = append(fallbacks, f)
			continue
		}
		fill[i] = stat.Mean(xs, nil)
	}
	return fill, fallbacks
}
