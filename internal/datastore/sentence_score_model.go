package datastore

import (
	"database/sql"
	"encoding/json"
	"time"
)

// SentenceScore maps to the sentence_scores table. It is the persisted
// per-item result of scoring one corpus sentence against one engine's
// hypothesis within an evaluation job.
type SentenceScore struct {
	ID                int             `json:"id"`
	JobID             int             `json:"job_id"`             // Foreign key to evaluation_jobs
	SentenceID        int             `json:"sentence_id"`        // Foreign key to corpus_sentences
	EngineConfigID    int             `json:"engine_config_id"`   // Foreign key to engine_configs
	ItemIndex         int             `json:"item_index"`         // position of the sentence within the job run
	HypothesisText    sql.NullString  `json:"hypothesis_text,omitempty"`
	Accuracy          float64         `json:"accuracy"` // percentage in [0, 100]
	Category          string          `json:"category"` // FULLY_CORRECT / MINOR_ERRORS / INCORRECT
	Substitutions     int             `json:"substitutions"`
	Insertions        int             `json:"insertions"`
	Deletions         int             `json:"deletions"`
	ReferenceWords    int             `json:"reference_words"`
	WER               sql.NullFloat64 `json:"wer,omitempty"`
	CER               sql.NullFloat64 `json:"cer,omitempty"`
	LatencyMs         sql.NullInt64   `json:"latency_ms,omitempty"`
	RawEngineResponse json.RawMessage `json:"raw_engine_response,omitempty"` // Store the full engine response
	CreatedAt         time.Time       `json:"created_at"`
}
