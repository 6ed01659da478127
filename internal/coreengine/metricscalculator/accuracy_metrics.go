package metricscalculator

import (
	"fmt"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"pronunciation-eval-platform/internal/coreengine/accuracyclassifier"
	"pronunciation-eval-platform/internal/coreengine/textnormalizer"
	"pronunciation-eval-platform/internal/coreengine/wordaligner"
)

// PairScore is the full scoring outcome for one (reference, hypothesis) pair:
// the accuracy percentage and category plus the error breakdown recovered
// from the word alignment.
type PairScore struct {
	accuracyclassifier.ScoreResult
	Substitutions  int
	Insertions     int
	Deletions      int
	ReferenceWords int
}

// EvaluateAccuracy runs the normalize -> align -> score pipeline for a single
// sentence pair. Both sides are normalized with the same rules, aligned at
// word granularity, and classified against the given threshold (<= 0 uses
// accuracyclassifier.DefaultThreshold).
//
// Pure computation: any pair of strings, including empty ones, resolves to a
// defined PairScore.
func EvaluateAccuracy(reference, hypothesis string, threshold float64) PairScore {
	refTokens := textnormalizer.Normalize(reference)
	hypTokens := textnormalizer.Normalize(hypothesis)

	ops := wordaligner.Align(refTokens, hypTokens)

	score := PairScore{
		ScoreResult:    accuracyclassifier.Score(ops, len(refTokens), threshold),
		ReferenceWords: len(refTokens),
	}
	for _, op := range ops {
		switch op.Type {
		case wordaligner.OpSubstitution:
			score.Substitutions++
		case wordaligner.OpInsertion:
			score.Insertions++
		case wordaligner.OpDeletion:
			score.Deletions++
		}
	}
	return score
}

// CalculateWER calculates the Word Error Rate (WER) on normalized text.
// WER = (Substitutions + Insertions + Deletions) / Number of words in reference
func CalculateWER(reference string, hypothesis string) (float64, error) {
	refTokens := textnormalizer.Normalize(reference)
	hypTokens := textnormalizer.Normalize(hypothesis)

	if len(refTokens) == 0 {
		if len(hypTokens) == 0 {
			return 0.0, nil // Both empty, 0 errors
		}
		return 1.0, fmt.Errorf("reference is empty, cannot normalize WER (hypothesis: %d words, treated as 100%% error)", len(hypTokens))
	}

	ops := wordaligner.Align(refTokens, hypTokens)
	return float64(wordaligner.ErrorCount(ops)) / float64(len(refTokens)), nil
}

// CalculateCER calculates the Character Error Rate (CER) on normalized text.
// CER = (Substitutions + Insertions + Deletions) / Number of characters in reference
//
// Kept as a secondary diagnostic metric: it catches near-miss transcriptions
// ("tyburn" vs "tiber") that word-level accuracy counts as whole-word errors.
func CalculateCER(reference string, hypothesis string) (float64, error) {
	refText := strings.Join(textnormalizer.Normalize(reference), " ")
	hypText := strings.Join(textnormalizer.Normalize(hypothesis), " ")

	runesReference := []rune(refText)
	runesHypothesis := []rune(hypText)

	if len(runesReference) == 0 {
		if len(runesHypothesis) == 0 {
			return 0.0, nil
		}
		// Normalization by the reference length would be a division by zero;
		// any hypothesis against an empty reference counts as 100% error.
		return 1.0, fmt.Errorf("reference is empty, cannot normalize CER (hypothesis: %d chars, treated as 100%% error)", len(runesHypothesis))
	}

	// Unit costs per character edit (runes are items).
	options := levenshtein.Options{
		InsCost: 1,
		DelCost: 1,
		SubCost: 1,
		Matches: func(sourceCharacter rune, targetCharacter rune) bool {
			return sourceCharacter == targetCharacter
		},
	}

	distance := levenshtein.DistanceForStrings(runesReference, runesHypothesis, options)
	return float64(distance) / float64(len(runesReference)), nil
}
