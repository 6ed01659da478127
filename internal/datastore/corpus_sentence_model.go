package datastore

import (
	"database/sql"
	"encoding/json"
	"time"
)

// CorpusSentence maps to the corpus_sentences table in the database.
// It is one unit of the evaluation corpus: the known-correct reference text a
// speaker was prompted to read, plus the recorded audio it refers to.
type CorpusSentence struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"` // usually the dataset clip ID, e.g. "LJ001-0001"
	LanguageCode  sql.NullString  `json:"language_code,omitempty"`
	AudioFilePath string          `json:"audio_file_path"` // object key in object storage
	ReferenceText string          `json:"reference_text"`
	Tags          json.RawMessage `json:"tags,omitempty"` // e.g., ["short_audio", "noisy"]
	Description   sql.NullString  `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
