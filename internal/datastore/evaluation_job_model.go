package datastore

import (
	"database/sql"
	"encoding/json"
	"time"
)

// EvaluationJob maps to the evaluation_jobs table in the database.
type EvaluationJob struct {
	ID              int             `json:"id"`
	JobName         sql.NullString  `json:"job_name,omitempty"`
	JobType         string          `json:"job_type"` // e.g., PRONUNCIATION_ACCURACY
	Status          string          `json:"status"`   // e.g., PENDING, RUNNING, COMPLETED, FAILED
	EngineConfigIDs json.RawMessage `json:"engine_config_ids"`    // JSONB array of engine_config_id
	SentenceIDs     json.RawMessage `json:"sentence_ids"`         // JSONB array of corpus sentence IDs
	Parameters      json.RawMessage `json:"parameters,omitempty"` // JobParameters for this run
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	StartedAt       sql.NullTime    `json:"started_at,omitempty"`
	CompletedAt     sql.NullTime    `json:"completed_at,omitempty"`
}

// JobParameters are the tunables of an accuracy job: the MINOR_ERRORS
// boundary percentage and an optional cap on how many corpus sentences to
// evaluate (0 means the whole selection).
type JobParameters struct {
	Threshold     float64 `json:"threshold,omitempty"`
	SentenceLimit int     `json:"sentence_limit,omitempty"`
}

// ParseJobParameters decodes a job's raw parameters. Nil or JSON null yields
// zero-value parameters; the caller applies defaults.
func ParseJobParameters(raw json.RawMessage) (JobParameters, error) {
	var params JobParameters
	if len(raw) == 0 || string(raw) == "null" {
		return params, nil
	}
	if err := json.Unmarshal(raw, &params); err != nil {
		return params, err
	}
	return params, nil
}

// MarshalIntSliceToJSON converts a slice of IDs to a JSONB-ready value.
func MarshalIntSliceToJSON(ids []int) (json.RawMessage, error) {
	if ids == nil {
		return json.RawMessage("[]"), nil
	}
	bytes, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(bytes), nil
}

// UnmarshalJSONToIntSlice converts a JSONB array value back to a slice of IDs.
func UnmarshalJSONToIntSlice(data json.RawMessage) ([]int, error) {
	if data == nil || string(data) == "null" || string(data) == "" {
		return []int{}, nil
	}
	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
