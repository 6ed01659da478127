package evaluationengine

import (
	"context"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"

	"pronunciation-eval-platform/internal/coreengine/accuracyclassifier"
	"pronunciation-eval-platform/internal/coreengine/metricscalculator"
)

// SentencePair is one (reference, hypothesis) pair of a corpus run.
// TranscriptionFailed marks a pair whose hypothesis never arrived because the
// upstream engine failed on it; such pairs are recorded as INCORRECT with
// accuracy 0 instead of aborting the run.
type SentencePair struct {
	Reference           string
	Hypothesis          string
	TranscriptionFailed bool
}

// ItemResult is the per-pair progress record emitted while a corpus is being
// evaluated. Hypothesis is only populated for pairs that were not fully
// correct, mirroring what the per-item report prints.
type ItemResult struct {
	Index          int                          `json:"index"`
	Accuracy       float64                      `json:"accuracy"`
	Category       accuracyclassifier.Category  `json:"category"`
	Reference      string                       `json:"reference"`
	Hypothesis     string                       `json:"hypothesis,omitempty"`
	Substitutions  int                          `json:"substitutions"`
	Insertions     int                          `json:"insertions"`
	Deletions      int                          `json:"deletions"`
	ReferenceWords int                          `json:"reference_words"`
}

// CorpusReport is the final aggregate over an evaluated corpus: counts per
// category and their shares of the total, rounded to two decimal places.
// The three counts always sum to TotalSentences.
type CorpusReport struct {
	TotalSentences   int     `json:"total_sentences"`
	FullyCorrect     int     `json:"fully_correct"`
	MinorErrors      int     `json:"minor_errors"`
	Incorrect        int     `json:"incorrect"`
	FullyCorrectRate float64 `json:"fully_correct_rate"`
	MinorErrorsRate  float64 `json:"minor_errors_rate"`
	IncorrectRate    float64 `json:"incorrect_rate"`
}

// Options tunes a corpus evaluation run. The zero value evaluates the whole
// corpus sequentially at the default threshold with no progress reporting.
type Options struct {
	// Threshold is the MINOR_ERRORS/INCORRECT boundary percentage.
	// <= 0 uses accuracyclassifier.DefaultThreshold.
	Threshold float64

	// Limit stops the run after this many pairs; 0 means no limit. A limit
	// larger than the corpus is clamped silently.
	Limit int

	// Workers is the number of goroutines scoring pairs concurrently.
	// <= 1 scores sequentially. Aggregation is always a single sequential
	// pass over completed results, so counts are never lost to races.
	Workers int

	// Progress, when set, is called once per pair in index order.
	Progress func(ItemResult)
}

// EvaluateCorpus scores every pair of the corpus (normalize -> align -> score)
// and folds the results into a final CorpusReport. Pairs are independent, so
// scoring may run on a worker pool; the accumulation pass stays sequential.
//
// The only error condition is context cancellation. Malformed pairs are
// recorded, never fatal.
func EvaluateCorpus(ctx context.Context, pairs []SentencePair, opts Options) (*CorpusReport, error) {
	if opts.Limit > 0 && opts.Limit < len(pairs) {
		pairs = pairs[:opts.Limit]
	}

	results := make([]ItemResult, len(pairs))

	workers := opts.Workers
	if workers <= 1 {
		for i, pair := range pairs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = scorePair(i, pair, opts.Threshold)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for i, pair := range pairs {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i] = scorePair(i, pair, opts.Threshold)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	agg := NewAggregator(opts.Threshold)
	for _, res := range results {
		agg.fold(res)
		if opts.Progress != nil {
			opts.Progress(res)
		}
	}
	report := agg.Report()
	return &report, nil
}

// Aggregator accumulates per-pair results incrementally, for callers that
// stream pairs as transcripts arrive instead of evaluating a whole corpus at
// once. Safe for concurrent use.
type Aggregator struct {
	mu        sync.Mutex
	threshold float64
	next      int
	total     int
	counts    map[accuracyclassifier.Category]int
}

// NewAggregator returns an empty Aggregator using the given threshold
// (<= 0 uses accuracyclassifier.DefaultThreshold).
func NewAggregator(threshold float64) *Aggregator {
	return &Aggregator{
		threshold: threshold,
		counts:    make(map[accuracyclassifier.Category]int, 3),
	}
}

// RecordOne scores a single pair, folds it into the running counts, and
// returns its per-item result.
func (a *Aggregator) RecordOne(pair SentencePair) ItemResult {
	a.mu.Lock()
	index := a.next
	a.next++
	a.mu.Unlock()

	res := scorePair(index, pair, a.threshold)
	a.fold(res)
	return res
}

// Report finalizes the running counts into a CorpusReport. The Aggregator may
// keep recording afterwards; the report is a snapshot.
func (a *Aggregator) Report() CorpusReport {
	a.mu.Lock()
	defer a.mu.Unlock()

	report := CorpusReport{
		TotalSentences: a.total,
		FullyCorrect:   a.counts[accuracyclassifier.CategoryFullyCorrect],
		MinorErrors:    a.counts[accuracyclassifier.CategoryMinorErrors],
		Incorrect:      a.counts[accuracyclassifier.CategoryIncorrect],
	}
	if a.total > 0 {
		report.FullyCorrectRate = roundRate(report.FullyCorrect, a.total)
		report.MinorErrorsRate = roundRate(report.MinorErrors, a.total)
		report.IncorrectRate = roundRate(report.Incorrect, a.total)
	}
	return report
}

func (a *Aggregator) fold(res ItemResult) {
	a.mu.Lock()
	a.total++
	a.counts[res.Category]++
	a.mu.Unlock()
}

// ReportFromCounts builds a finalized CorpusReport from already-aggregated
// category counts (e.g. from a datastore GROUP BY over a finished job).
func ReportFromCounts(fullyCorrect, minorErrors, incorrect int) CorpusReport {
	report := CorpusReport{
		TotalSentences: fullyCorrect + minorErrors + incorrect,
		FullyCorrect:   fullyCorrect,
		MinorErrors:    minorErrors,
		Incorrect:      incorrect,
	}
	if report.TotalSentences > 0 {
		report.FullyCorrectRate = roundRate(fullyCorrect, report.TotalSentences)
		report.MinorErrorsRate = roundRate(minorErrors, report.TotalSentences)
		report.IncorrectRate = roundRate(incorrect, report.TotalSentences)
	}
	return report
}

func scorePair(index int, pair SentencePair, threshold float64) ItemResult {
	res := ItemResult{
		Index:     index,
		Reference: pair.Reference,
	}

	if pair.TranscriptionFailed {
		// Upstream transcription failure: recorded as a zero-accuracy
		// INCORRECT item so one bad sample never halts the run.
		res.Accuracy = 0
		res.Category = accuracyclassifier.CategoryIncorrect
		return res
	}

	score := metricscalculator.EvaluateAccuracy(pair.Reference, pair.Hypothesis, threshold)
	res.Accuracy = score.Accuracy
	res.Category = score.Category
	res.Substitutions = score.Substitutions
	res.Insertions = score.Insertions
	res.Deletions = score.Deletions
	res.ReferenceWords = score.ReferenceWords
	if score.Category != accuracyclassifier.CategoryFullyCorrect {
		res.Hypothesis = pair.Hypothesis
	}
	return res
}

// roundRate is count/total as a percentage, rounded to two decimal places.
func roundRate(count, total int) float64 {
	return math.Round(float64(count)/float64(total)*100.0*100.0) / 100.0
}
