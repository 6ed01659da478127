package metricscalculator

import (
	"testing"

	"pronunciation-eval-platform/internal/coreengine/accuracyclassifier"
)

const epsilon = 0.0001

func TestEvaluateAccuracy(t *testing.T) {
	tests := []struct {
		name         string
		reference    string
		hypothesis   string
		threshold    float64
		wantAccuracy float64
		wantCategory accuracyclassifier.Category
		wantSubs     int
		wantIns      int
		wantDels     int
	}{
		{
			name:         "punctuation_and_case_insensitive_match",
			reference:    "The cat sat.",
			hypothesis:   "the cat sat",
			threshold:    70,
			wantAccuracy: 100.0,
			wantCategory: accuracyclassifier.CategoryFullyCorrect,
		},
		{
			name:         "three_substitutions_of_fifteen",
			reference:    "which we left at the time of the discontinuance of the long practiced procession to tyburn",
			hypothesis:   "which we left at the time of the discontinuance of the law practice procession to tiber",
			threshold:    70,
			wantAccuracy: 80.0,
			wantCategory: accuracyclassifier.CategoryMinorErrors,
			wantSubs:     3,
		},
		{
			name:         "missing_hypothesis",
			reference:    "hello world",
			hypothesis:   "",
			threshold:    70,
			wantAccuracy: 0.0,
			wantCategory: accuracyclassifier.CategoryIncorrect,
			wantDels:     2,
		},
		{
			name:         "both_empty_is_perfect",
			reference:    "",
			hypothesis:   "",
			threshold:    70,
			wantAccuracy: 100.0,
			wantCategory: accuracyclassifier.CategoryFullyCorrect,
		},
		{
			name:         "extra_word_inserted",
			reference:    "the cat sat",
			hypothesis:   "the big cat sat",
			threshold:    70,
			wantAccuracy: 100.0 * 2.0 / 3.0,
			wantCategory: accuracyclassifier.CategoryIncorrect,
			wantIns:      1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateAccuracy(tt.reference, tt.hypothesis, tt.threshold)
			if diff := got.Accuracy - tt.wantAccuracy; diff > epsilon || diff < -epsilon {
				t.Errorf("Accuracy = %.4f, want %.4f", got.Accuracy, tt.wantAccuracy)
			}
			if got.Category != tt.wantCategory {
				t.Errorf("Category = %s, want %s", got.Category, tt.wantCategory)
			}
			if got.Substitutions != tt.wantSubs || got.Insertions != tt.wantIns || got.Deletions != tt.wantDels {
				t.Errorf("errors = %d subs / %d ins / %d dels, want %d / %d / %d",
					got.Substitutions, got.Insertions, got.Deletions, tt.wantSubs, tt.wantIns, tt.wantDels)
			}
		})
	}
}

func TestCalculateWER(t *testing.T) {
	tests := []struct {
		name       string
		reference  string
		hypothesis string
		want       float64
		wantErr    bool
	}{
		{name: "identical", reference: "the cat sat", hypothesis: "The cat sat!", want: 0.0},
		{name: "one_of_three", reference: "the cat sat", hypothesis: "the dog sat", want: 1.0 / 3.0},
		{name: "both_empty", reference: "", hypothesis: "", want: 0.0},
		{name: "empty_reference", reference: "", hypothesis: "hello", want: 1.0, wantErr: true},
		{name: "empty_hypothesis", reference: "hello world", hypothesis: "", want: 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateWER(tt.reference, tt.hypothesis)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if diff := got - tt.want; diff > epsilon || diff < -epsilon {
				t.Errorf("WER = %.4f, want %.4f", got, tt.want)
			}
		})
	}
}

func TestCalculateCER(t *testing.T) {
	// "abc" -> "abd": one substitution out of three characters.
	got, err := CalculateCER("abc", "abd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 1.0 / 3.0
	if diff := got - want; diff > epsilon || diff < -epsilon {
		t.Errorf("CER = %.4f, want %.4f", got, want)
	}

	if _, err := CalculateCER("", "something"); err == nil {
		t.Error("expected error for empty reference with non-empty hypothesis")
	}

	got, err = CalculateCER("", "")
	if err != nil || got != 0.0 {
		t.Errorf("CER for both empty = %.4f, %v; want 0.0, nil", got, err)
	}
}
