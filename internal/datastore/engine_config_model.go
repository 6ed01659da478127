package datastore

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Engine types understood by the adapter registry.
const (
	EngineTypeMock      = "MOCK"
	EngineTypeGoogle    = "GOOGLE"
	EngineTypeMicrosoft = "MICROSOFT"
	EngineTypeDeepgram  = "DEEPGRAM"
	EngineTypeVosk      = "VOSK"
)

// EngineConfig maps to the engine_configs table in the database. It holds the
// connection details for one external speech-recognition engine.
type EngineConfig struct {
	ID              int             `json:"id"`
	Name            string          `json:"name"`
	EngineType      string          `json:"engine_type"` // one of the EngineType* constants
	APIKey          sql.NullString  `json:"api_key,omitempty"`
	APISecret       sql.NullString  `json:"api_secret,omitempty"` // Consider encrypting if storing real secrets
	APIEndpoint     sql.NullString  `json:"api_endpoint,omitempty"`
	SupportedModels json.RawMessage `json:"supported_models,omitempty"` // e.g., [{"model_id": "model1", "name": "Model One"}]
	OtherConfigs    json.RawMessage `json:"other_configs,omitempty"`    // Engine-specific JSON
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OtherConfigMap unmarshals OtherConfigs into a generic map. A nil or JSON
// null value yields an empty map, never an error.
func (ec *EngineConfig) OtherConfigMap() map[string]interface{} {
	if len(ec.OtherConfigs) == 0 || string(ec.OtherConfigs) == "null" {
		return map[string]interface{}{}
	}
	var m map[string]interface{}
	if err := json.Unmarshal(ec.OtherConfigs, &m); err != nil || m == nil {
		return map[string]interface{}{}
	}
	return m
}
