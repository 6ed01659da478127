package accuracyclassifier

import (
	"testing"

	"pronunciation-eval-platform/internal/coreengine/wordaligner"
)

func opsWithErrors(matches, errors int) []wordaligner.Op {
	ops := make([]wordaligner.Op, 0, matches+errors)
	for i := 0; i < matches; i++ {
		ops = append(ops, wordaligner.Op{Type: wordaligner.OpMatch, RefIndex: i, HypIndex: i})
	}
	for i := 0; i < errors; i++ {
		ops = append(ops, wordaligner.Op{Type: wordaligner.OpSubstitution, RefIndex: matches + i, HypIndex: matches + i})
	}
	return ops
}

func TestScore(t *testing.T) {
	tests := []struct {
		name         string
		ops          []wordaligner.Op
		refLen       int
		threshold    float64
		wantAccuracy float64
		wantCategory Category
	}{
		{
			name:         "perfect_match",
			ops:          opsWithErrors(5, 0),
			refLen:       5,
			threshold:    DefaultThreshold,
			wantAccuracy: 100.0,
			wantCategory: CategoryFullyCorrect,
		},
		{
			name:         "three_errors_of_fifteen",
			ops:          opsWithErrors(12, 3),
			refLen:       15,
			threshold:    DefaultThreshold,
			wantAccuracy: 80.0,
			wantCategory: CategoryMinorErrors,
		},
		{
			name:         "all_deleted",
			ops:          []wordaligner.Op{{Type: wordaligner.OpDeletion, RefIndex: 0, HypIndex: -1}, {Type: wordaligner.OpDeletion, RefIndex: 1, HypIndex: -1}},
			refLen:       2,
			threshold:    DefaultThreshold,
			wantAccuracy: 0.0,
			wantCategory: CategoryIncorrect,
		},
		{
			name:         "empty_reference_empty_hypothesis",
			ops:          nil,
			refLen:       0,
			threshold:    DefaultThreshold,
			wantAccuracy: 100.0,
			wantCategory: CategoryFullyCorrect,
		},
		{
			name:         "empty_reference_nonempty_hypothesis",
			ops:          []wordaligner.Op{{Type: wordaligner.OpInsertion, RefIndex: -1, HypIndex: 0}},
			refLen:       0,
			threshold:    DefaultThreshold,
			wantAccuracy: 0.0,
			wantCategory: CategoryIncorrect,
		},
		{
			name:         "more_errors_than_reference_clamped_to_zero",
			ops:          opsWithErrors(0, 7),
			refLen:       4,
			threshold:    DefaultThreshold,
			wantAccuracy: 0.0,
			wantCategory: CategoryIncorrect,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.ops, tt.refLen, tt.threshold)
			if diff := got.Accuracy - tt.wantAccuracy; diff > 0.0001 || diff < -0.0001 {
				t.Errorf("Accuracy = %.4f, want %.4f", got.Accuracy, tt.wantAccuracy)
			}
			if got.Category != tt.wantCategory {
				t.Errorf("Category = %s, want %s", got.Category, tt.wantCategory)
			}
		})
	}
}

// Adding one more error to an otherwise identical alignment must strictly
// decrease accuracy until it bottoms out at zero.
func TestScoreMonotonicity(t *testing.T) {
	const refLen = 10
	prev := Score(opsWithErrors(refLen, 0), refLen, DefaultThreshold).Accuracy
	for errors := 1; errors <= refLen; errors++ {
		cur := Score(opsWithErrors(refLen-errors, errors), refLen, DefaultThreshold).Accuracy
		if cur >= prev {
			t.Errorf("accuracy with %d errors = %.2f, not below %.2f", errors, cur, prev)
		}
		prev = cur
	}
}

func TestCategorizeBoundaries(t *testing.T) {
	tests := []struct {
		accuracy  float64
		threshold float64
		want      Category
	}{
		{100.0, 70.0, CategoryFullyCorrect},
		{100.0, 100.0, CategoryFullyCorrect}, // 100 wins even at extreme thresholds
		{99.99, 70.0, CategoryMinorErrors},
		{70.0, 70.0, CategoryMinorErrors}, // exactly at threshold is MinorErrors
		{69.99, 70.0, CategoryIncorrect},
		{0.0, 70.0, CategoryIncorrect},
		{85.0, 90.0, CategoryIncorrect}, // custom threshold respected
		{50.0, 0, CategoryIncorrect},    // zero threshold falls back to default
		{75.0, 0, CategoryMinorErrors},
	}
	for _, tt := range tests {
		if got := Categorize(tt.accuracy, tt.threshold); got != tt.want {
			t.Errorf("Categorize(%.2f, %.2f) = %s, want %s", tt.accuracy, tt.threshold, got, tt.want)
		}
	}
}
