package evaluationengine

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"pronunciation-eval-platform/internal/coreengine/accuracyclassifier"
)

func TestEvaluateCorpusReport(t *testing.T) {
	pairs := []SentencePair{
		{Reference: "the quick brown fox", Hypothesis: "the quick brown fox"},
		{Reference: "she sells sea shells by the sea shore on sunny days", Hypothesis: "she sells sea shells by the sea shore on rainy days"},
		{Reference: "good morning", Hypothesis: "completely different words"},
	}

	report, err := EvaluateCorpus(context.Background(), pairs, Options{})
	if err != nil {
		t.Fatalf("EvaluateCorpus returned error: %v", err)
	}

	want := CorpusReport{
		TotalSentences:   3,
		FullyCorrect:     1,
		MinorErrors:      1,
		Incorrect:        1,
		FullyCorrectRate: 33.33,
		MinorErrorsRate:  33.33,
		IncorrectRate:    33.33,
	}
	if !reflect.DeepEqual(*report, want) {
		t.Errorf("EvaluateCorpus report = %+v, want %+v", *report, want)
	}
}

func TestEvaluateCorpusCountsConservation(t *testing.T) {
	var pairs []SentencePair
	for i := 0; i < 37; i++ {
		pairs = append(pairs, SentencePair{
			Reference:  fmt.Sprintf("sentence number %d with some words", i),
			Hypothesis: fmt.Sprintf("sentence number %d with sum words", i%3),
		})
	}

	report, err := EvaluateCorpus(context.Background(), pairs, Options{Threshold: 70})
	if err != nil {
		t.Fatalf("EvaluateCorpus returned error: %v", err)
	}

	if got := report.FullyCorrect + report.MinorErrors + report.Incorrect; got != report.TotalSentences {
		t.Errorf("category counts sum to %d, want TotalSentences %d", got, report.TotalSentences)
	}
	if report.TotalSentences != len(pairs) {
		t.Errorf("TotalSentences = %d, want %d", report.TotalSentences, len(pairs))
	}
}

func TestEvaluateCorpusLimit(t *testing.T) {
	pairs := []SentencePair{
		{Reference: "one", Hypothesis: "one"},
		{Reference: "two", Hypothesis: "two"},
		{Reference: "three", Hypothesis: "three"},
	}

	tests := []struct {
		name      string
		limit     int
		wantTotal int
	}{
		{"no limit", 0, 3},
		{"limit smaller than corpus", 2, 2},
		{"limit larger than corpus is clamped", 50, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := EvaluateCorpus(context.Background(), pairs, Options{Limit: tt.limit})
			if err != nil {
				t.Fatalf("EvaluateCorpus returned error: %v", err)
			}
			if report.TotalSentences != tt.wantTotal {
				t.Errorf("TotalSentences = %d, want %d", report.TotalSentences, tt.wantTotal)
			}
		})
	}
}

func TestEvaluateCorpusWorkerPoolMatchesSequential(t *testing.T) {
	var pairs []SentencePair
	for i := 0; i < 100; i++ {
		pairs = append(pairs, SentencePair{
			Reference:  fmt.Sprintf("this is test sentence %d of the corpus", i),
			Hypothesis: fmt.Sprintf("this is test sentence %d of a corpus", i*7%13),
		})
	}

	sequential, err := EvaluateCorpus(context.Background(), pairs, Options{Workers: 1})
	if err != nil {
		t.Fatalf("sequential EvaluateCorpus returned error: %v", err)
	}
	parallel, err := EvaluateCorpus(context.Background(), pairs, Options{Workers: 8})
	if err != nil {
		t.Fatalf("parallel EvaluateCorpus returned error: %v", err)
	}

	if !reflect.DeepEqual(sequential, parallel) {
		t.Errorf("worker pool report %+v differs from sequential %+v", parallel, sequential)
	}
}

func TestEvaluateCorpusProgressOrder(t *testing.T) {
	pairs := []SentencePair{
		{Reference: "alpha", Hypothesis: "alpha"},
		{Reference: "beta", Hypothesis: "wrong"},
		{Reference: "gamma", Hypothesis: "gamma"},
	}

	var indexes []int
	_, err := EvaluateCorpus(context.Background(), pairs, Options{
		Workers: 4,
		Progress: func(res ItemResult) {
			indexes = append(indexes, res.Index)
		},
	})
	if err != nil {
		t.Fatalf("EvaluateCorpus returned error: %v", err)
	}

	if !reflect.DeepEqual(indexes, []int{0, 1, 2}) {
		t.Errorf("progress indexes = %v, want [0 1 2]", indexes)
	}
}

func TestEvaluateCorpusTranscriptionFailure(t *testing.T) {
	pairs := []SentencePair{
		{Reference: "hello world", Hypothesis: "hello world"},
		{Reference: "hello world", TranscriptionFailed: true},
	}

	var failed ItemResult
	report, err := EvaluateCorpus(context.Background(), pairs, Options{
		Progress: func(res ItemResult) {
			if res.Index == 1 {
				failed = res
			}
		},
	})
	if err != nil {
		t.Fatalf("EvaluateCorpus returned error: %v", err)
	}

	if report.Incorrect != 1 || report.FullyCorrect != 1 {
		t.Errorf("report = %+v, want 1 fully correct and 1 incorrect", report)
	}
	if failed.Accuracy != 0 {
		t.Errorf("failed item accuracy = %v, want 0", failed.Accuracy)
	}
	if failed.Category != accuracyclassifier.CategoryIncorrect {
		t.Errorf("failed item category = %v, want %v", failed.Category, accuracyclassifier.CategoryIncorrect)
	}
}

func TestEvaluateCorpusCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pairs := []SentencePair{{Reference: "a", Hypothesis: "a"}}
	if _, err := EvaluateCorpus(ctx, pairs, Options{}); err == nil {
		t.Error("expected context cancellation error")
	}
}

func TestItemResultHypothesisOnlyWhenImperfect(t *testing.T) {
	agg := NewAggregator(0)

	perfect := agg.RecordOne(SentencePair{Reference: "hello there", Hypothesis: "Hello, there!"})
	if perfect.Category != accuracyclassifier.CategoryFullyCorrect {
		t.Fatalf("expected fully correct item, got %v", perfect.Category)
	}
	if perfect.Hypothesis != "" {
		t.Errorf("fully correct item should not carry the hypothesis, got %q", perfect.Hypothesis)
	}

	imperfect := agg.RecordOne(SentencePair{Reference: "hello there general", Hypothesis: "hello their general"})
	if imperfect.Hypothesis != "hello their general" {
		t.Errorf("imperfect item should carry the hypothesis, got %q", imperfect.Hypothesis)
	}
}

func TestReportFromCounts(t *testing.T) {
	report := ReportFromCounts(1, 1, 1)
	if report.TotalSentences != 3 {
		t.Errorf("TotalSentences = %d, want 3", report.TotalSentences)
	}
	if report.FullyCorrectRate != 33.33 || report.MinorErrorsRate != 33.33 || report.IncorrectRate != 33.33 {
		t.Errorf("rates = %.2f/%.2f/%.2f, want 33.33 each", report.FullyCorrectRate, report.MinorErrorsRate, report.IncorrectRate)
	}

	empty := ReportFromCounts(0, 0, 0)
	if empty.TotalSentences != 0 || empty.FullyCorrectRate != 0 {
		t.Errorf("empty report = %+v, want all zeros", empty)
	}
}
