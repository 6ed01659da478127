package datastore

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// CreateSentenceScore inserts a new per-sentence score row into the database.
func CreateSentenceScore(score *SentenceScore) (int, error) {
	if DB == nil {
		return 0, errors.New("database connection not initialized")
	}

	query := `
		INSERT INTO sentence_scores (
			job_id, sentence_id, engine_config_id, item_index,
			hypothesis_text, accuracy, category,
			substitutions, insertions, deletions, reference_words,
			wer, cer, latency_ms, raw_engine_response, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`
	score.CreatedAt = time.Now()

	var rawResponseJSON []byte
	if len(score.RawEngineResponse) > 0 {
		rawResponseJSON = score.RawEngineResponse
	} else {
		rawResponseJSON = json.RawMessage("null") // Store as SQL NULL if empty or nil
	}

	var id int
	err := DB.QueryRow(
		query,
		score.JobID,
		score.SentenceID,
		score.EngineConfigID,
		score.ItemIndex,
		score.HypothesisText,
		score.Accuracy,
		score.Category,
		score.Substitutions,
		score.Insertions,
		score.Deletions,
		score.ReferenceWords,
		score.WER,
		score.CER,
		score.LatencyMs,
		rawResponseJSON,
		score.CreatedAt,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create sentence score: %w", err)
	}
	score.ID = id
	return id, nil
}

// GetSentenceScoresForJob retrieves all per-sentence scores for a given job
// ID in run order.
func GetSentenceScoresForJob(jobID int) ([]*SentenceScore, error) {
	if DB == nil {
		return nil, errors.New("database connection not initialized")
	}

	query := `
		SELECT id, job_id, sentence_id, engine_config_id, item_index,
		       hypothesis_text, accuracy, category,
		       substitutions, insertions, deletions, reference_words,
		       wer, cer, latency_ms, raw_engine_response, created_at
		FROM sentence_scores
		WHERE job_id = $1
		ORDER BY item_index ASC, created_at ASC
	`

	rows, err := DB.Query(query, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sentence scores for job ID %d: %w", jobID, err)
	}
	defer rows.Close()

	scores := []*SentenceScore{}
	for rows.Next() {
		s := &SentenceScore{}
		var rawResponseJSON []byte
		if err := rows.Scan(
			&s.ID,
			&s.JobID,
			&s.SentenceID,
			&s.EngineConfigID,
			&s.ItemIndex,
			&s.HypothesisText,
			&s.Accuracy,
			&s.Category,
			&s.Substitutions,
			&s.Insertions,
			&s.Deletions,
			&s.ReferenceWords,
			&s.WER,
			&s.CER,
			&s.LatencyMs,
			&rawResponseJSON,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sentence score row for job ID %d: %w", jobID, err)
		}
		if rawResponseJSON != nil && string(rawResponseJSON) != "null" {
			s.RawEngineResponse = json.RawMessage(rawResponseJSON)
		}
		scores = append(scores, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for sentence scores (job ID %d): %w", jobID, err)
	}

	return scores, nil
}

// CountScoresByCategory returns the per-category counts for a finished (or
// in-flight) job, for assembling the final corpus report.
func CountScoresByCategory(jobID int) (map[string]int, error) {
	if DB == nil {
		return nil, errors.New("database connection not initialized")
	}

	query := `
		SELECT category, COUNT(*)
		FROM sentence_scores
		WHERE job_id = $1
		GROUP BY category
	`
	rows, err := DB.Query(query, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to count scores by category for job ID %d: %w", jobID, err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category count row for job ID %d: %w", jobID, err)
		}
		counts[category] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for category counts (job ID %d): %w", jobID, err)
	}

	return counts, nil
}
