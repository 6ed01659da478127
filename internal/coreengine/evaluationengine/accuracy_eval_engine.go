package evaluationengine

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"pronunciation-eval-platform/internal/coreengine/engineadapters"
	"pronunciation-eval-platform/internal/coreengine/metricscalculator"
	"pronunciation-eval-platform/internal/datastore"
)

// RunAccuracyEvaluation executes a pronunciation accuracy job: for every
// selected corpus sentence, obtain a hypothesis from each configured engine,
// score it against the reference text, and persist one sentence_scores row
// per (sentence, engine) pair. A sentence that fails to transcribe is stored
// as a zero-accuracy INCORRECT row rather than aborting the job.
//
// This is a synchronous implementation; the job service runs it on a
// background goroutine and tracks status transitions.
func RunAccuracyEvaluation(jobID int, sentenceIDs []int, engineConfigIDs []int, params datastore.JobParameters) error {
	log.Printf("Starting pronunciation accuracy evaluation for Job ID: %d", jobID)
	log.Printf("Sentence IDs: %v, Engine Config IDs: %v, Threshold: %.2f, Limit: %d",
		sentenceIDs, engineConfigIDs, params.Threshold, params.SentenceLimit)

	if datastore.DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	if params.SentenceLimit > 0 && params.SentenceLimit < len(sentenceIDs) {
		sentenceIDs = sentenceIDs[:params.SentenceLimit]
	}

	for _, engineConfigID := range engineConfigIDs {
		engineConfig, err := datastore.GetEngineConfig(engineConfigID)
		if err != nil {
			log.Printf("Error fetching Engine Config ID %d: %v. Skipping this engine for job %d.", engineConfigID, err, jobID)
			continue
		}

		recognizer, err := engineadapters.GetRecognizer(engineConfig)
		if err != nil {
			log.Printf("Error getting recognizer for engine %s (ID: %d): %v. Skipping this engine for job %d.", engineConfig.Name, engineConfig.ID, err, jobID)
			continue
		}

		agg := NewAggregator(params.Threshold)

		for _, sentenceID := range sentenceIDs {
			sentence, err := datastore.GetCorpusSentence(sentenceID)
			if err != nil {
				log.Printf("Error fetching corpus sentence ID %d: %v. Skipping this sentence for job %d.", sentenceID, err, jobID)
				continue
			}

			recognitionParams := make(map[string]interface{})

			startTime := time.Now()
			hypothesis, rawResponse, recErr := recognizer.Recognize(sentence.AudioFilePath, sentence.LanguageCode.String, recognitionParams, engineConfig)
			latencyMs := time.Since(startTime).Milliseconds()

			pair := SentencePair{
				Reference:           sentence.ReferenceText,
				Hypothesis:          hypothesis,
				TranscriptionFailed: recErr != nil,
			}
			item := agg.RecordOne(pair)

			score := datastore.SentenceScore{
				JobID:          jobID,
				SentenceID:     sentence.ID,
				EngineConfigID: engineConfig.ID,
				ItemIndex:      item.Index,
				Accuracy:       item.Accuracy,
				Category:       string(item.Category),
				Substitutions:  item.Substitutions,
				Insertions:     item.Insertions,
				Deletions:      item.Deletions,
				ReferenceWords: item.ReferenceWords,
				LatencyMs:      sql.NullInt64{Int64: latencyMs, Valid: true},
			}

			if rawResponse != "" {
				score.RawEngineResponse = json.RawMessage(rawResponse)
			} else {
				score.RawEngineResponse = json.RawMessage("null")
			}

			if recErr != nil {
				log.Printf("Recognition error for sentence ID %d, engine ID %d: %v", sentenceID, engineConfigID, recErr)
			} else {
				score.HypothesisText = sql.NullString{String: hypothesis, Valid: true}

				// Secondary diagnostics. Failures here do not fail the item;
				// accuracy and category are already computed.
				if wer, werErr := metricscalculator.CalculateWER(sentence.ReferenceText, hypothesis); werErr != nil {
					log.Printf("Error calculating WER for sentence ID %d, engine ID %d: %v", sentenceID, engineConfigID, werErr)
				} else {
					score.WER = sql.NullFloat64{Float64: wer, Valid: true}
				}
				if cer, cerErr := metricscalculator.CalculateCER(sentence.ReferenceText, hypothesis); cerErr != nil {
					log.Printf("Error calculating CER for sentence ID %d, engine ID %d: %v", sentenceID, engineConfigID, cerErr)
				} else {
					score.CER = sql.NullFloat64{Float64: cer, Valid: true}
				}
			}

			if _, dbErr := datastore.CreateSentenceScore(&score); dbErr != nil {
				log.Printf("Error saving sentence score for sentence ID %d, engine ID %d, job ID %d: %v", sentenceID, engineConfigID, jobID, dbErr)
				continue
			}

			log.Printf("Job %d, engine %d, item %d: accuracy %.2f%% (%s)", jobID, engineConfigID, item.Index, item.Accuracy, item.Category)
		}

		report := agg.Report()
		log.Printf("Job %d, engine %s (ID: %d): %d sentences, fully correct %d (%.2f%%), minor errors %d (%.2f%%), incorrect %d (%.2f%%)",
			jobID, engineConfig.Name, engineConfig.ID,
			report.TotalSentences,
			report.FullyCorrect, report.FullyCorrectRate,
			report.MinorErrors, report.MinorErrorsRate,
			report.Incorrect, report.IncorrectRate)
	}

	log.Printf("Completed pronunciation accuracy evaluation for Job ID: %d", jobID)
	return nil
}
