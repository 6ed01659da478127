package datastore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// CreateEngineConfig inserts a new engine config into the database and returns its ID.
func CreateEngineConfig(ec *EngineConfig) (int, error) {
	if DB == nil {
		return 0, errors.New("database connection not initialized")
	}

	query := `
		INSERT INTO engine_configs (name, engine_type, api_key, api_secret, api_endpoint, supported_models, other_configs, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	ec.CreatedAt = time.Now()
	ec.UpdatedAt = time.Now()

	// Handle potentially nil JSON RawMessage fields
	var supportedModels, otherConfigs []byte
	if ec.SupportedModels != nil {
		supportedModels = ec.SupportedModels
	} else {
		supportedModels = json.RawMessage("null")
	}
	if ec.OtherConfigs != nil {
		otherConfigs = ec.OtherConfigs
	} else {
		otherConfigs = json.RawMessage("null")
	}

	var id int
	err := DB.QueryRow(
		query,
		ec.Name,
		ec.EngineType,
		ec.APIKey,
		ec.APISecret,
		ec.APIEndpoint,
		supportedModels,
		otherConfigs,
		ec.CreatedAt,
		ec.UpdatedAt,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create engine config: %w", err)
	}
	return id, nil
}

// GetEngineConfig retrieves an engine config by ID.
func GetEngineConfig(id int) (*EngineConfig, error) {
	if DB == nil {
		return nil, errors.New("database connection not initialized")
	}

	query := `
		SELECT id, name, engine_type, api_key, api_secret, api_endpoint, supported_models, other_configs, created_at, updated_at
		FROM engine_configs
		WHERE id = $1
	`
	ec := &EngineConfig{}
	var supportedModels, otherConfigs []byte // Use []byte for json.RawMessage

	err := DB.QueryRow(query, id).Scan(
		&ec.ID,
		&ec.Name,
		&ec.EngineType,
		&ec.APIKey,
		&ec.APISecret,
		&ec.APIEndpoint,
		&supportedModels,
		&otherConfigs,
		&ec.CreatedAt,
		&ec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("engine config with ID %d not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to get engine config: %w", err)
	}
	ec.SupportedModels = json.RawMessage(supportedModels)
	ec.OtherConfigs = json.RawMessage(otherConfigs)

	return ec, nil
}

// UpdateEngineConfig updates an existing engine config.
func UpdateEngineConfig(ec *EngineConfig) error {
	if DB == nil {
		return errors.New("database connection not initialized")
	}

	query := `
		UPDATE engine_configs
		SET name = $1, engine_type = $2, api_key = $3, api_secret = $4, api_endpoint = $5, supported_models = $6, other_configs = $7, updated_at = $8
		WHERE id = $9
	`
	ec.UpdatedAt = time.Now()

	var supportedModels, otherConfigs []byte
	if ec.SupportedModels != nil {
		supportedModels = ec.SupportedModels
	} else {
		supportedModels = json.RawMessage("null")
	}
	if ec.OtherConfigs != nil {
		otherConfigs = ec.OtherConfigs
	} else {
		otherConfigs = json.RawMessage("null")
	}

	result, err := DB.Exec(
		query,
		ec.Name,
		ec.EngineType,
		ec.APIKey,
		ec.APISecret,
		ec.APIEndpoint,
		supportedModels,
		otherConfigs,
		ec.UpdatedAt,
		ec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update engine config: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("engine config with ID %d not found for update", ec.ID)
	}

	return nil
}

// DeleteEngineConfig deletes an engine config by ID.
func DeleteEngineConfig(id int) error {
	if DB == nil {
		return errors.New("database connection not initialized")
	}
	query := "DELETE FROM engine_configs WHERE id = $1"
	result, err := DB.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete engine config: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("engine config with ID %d not found for deletion", id)
	}

	return nil
}

// ListEngineConfigs lists engine configs, optionally filtered by engine_type.
// If engineType is an empty string, all configs are listed.
func ListEngineConfigs(engineType string) ([]*EngineConfig, error) {
	if DB == nil {
		return nil, errors.New("database connection not initialized")
	}

	var rows *sql.Rows
	var err error

	if engineType == "" {
		query := "SELECT id, name, engine_type, api_key, api_secret, api_endpoint, supported_models, other_configs, created_at, updated_at FROM engine_configs ORDER BY created_at DESC"
		rows, err = DB.Query(query)
	} else {
		query := "SELECT id, name, engine_type, api_key, api_secret, api_endpoint, supported_models, other_configs, created_at, updated_at FROM engine_configs WHERE engine_type = $1 ORDER BY created_at DESC"
		rows, err = DB.Query(query, engineType)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to list engine configs: %w", err)
	}
	defer rows.Close()

	configs := []*EngineConfig{}
	for rows.Next() {
		ec := &EngineConfig{}
		var supportedModels, otherConfigs []byte

		if err := rows.Scan(
			&ec.ID,
			&ec.Name,
			&ec.EngineType,
			&ec.APIKey,
			&ec.APISecret,
			&ec.APIEndpoint,
			&supportedModels,
			&otherConfigs,
			&ec.CreatedAt,
			&ec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan engine config row: %w", err)
		}
		ec.SupportedModels = json.RawMessage(supportedModels)
		ec.OtherConfigs = json.RawMessage(otherConfigs)
		configs = append(configs, ec)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for engine configs: %w", err)
	}

	return configs, nil
}
