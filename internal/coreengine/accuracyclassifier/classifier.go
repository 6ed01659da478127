package accuracyclassifier

import (
	"pronunciation-eval-platform/internal/coreengine/wordaligner"
)

// DefaultThreshold is the minimum accuracy percentage required for a result
// to classify as MINOR_ERRORS rather than INCORRECT. Callers may override it
// per evaluation job.
const DefaultThreshold = 70.0

// Category is the categorical outcome of scoring one sentence pair.
type Category string

const (
	CategoryFullyCorrect Category = "FULLY_CORRECT"
	CategoryMinorErrors  Category = "MINOR_ERRORS"
	CategoryIncorrect    Category = "INCORRECT"
)

// ScoreResult is the derived value for one (reference, hypothesis) pair.
type ScoreResult struct {
	Accuracy float64  `json:"accuracy"` // percentage in [0, 100]
	Category Category `json:"category"`
}

// Score derives an accuracy percentage and category from a word alignment.
//
// accuracy = max(0, (referenceLength - errorCount) / referenceLength) * 100,
// where errorCount is the number of substitution, insertion, and deletion ops.
// An empty reference is a defined special case, never a division by zero:
// accuracy is 100 when the alignment is also empty (empty hypothesis), and 0
// otherwise.
//
// A threshold <= 0 falls back to DefaultThreshold.
func Score(ops []wordaligner.Op, referenceLength int, threshold float64) ScoreResult {
	errorCount := wordaligner.ErrorCount(ops)

	var accuracy float64
	if referenceLength == 0 {
		if errorCount == 0 {
			accuracy = 100.0
		} else {
			accuracy = 0.0
		}
	} else {
		accuracy = float64(referenceLength-errorCount) / float64(referenceLength) * 100.0
		if accuracy < 0 {
			accuracy = 0
		}
	}

	return ScoreResult{
		Accuracy: accuracy,
		Category: Categorize(accuracy, threshold),
	}
}

// Categorize maps an accuracy percentage to its category. 100 is always
// FULLY_CORRECT regardless of threshold; the categories are mutually
// exclusive and exhaustive over [0, 100].
func Categorize(accuracy, threshold float64) Category {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	switch {
	case accuracy >= 100.0:
		return CategoryFullyCorrect
	case accuracy >= threshold:
		return CategoryMinorErrors
	default:
		return CategoryIncorrect
	}
}
