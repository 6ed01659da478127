package datastore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// CreateCorpusSentence inserts a new corpus sentence into the database.
func CreateCorpusSentence(cs *CorpusSentence) (int, error) {
	if DB == nil {
		return 0, errors.New("database connection not initialized")
	}

	query := `
		INSERT INTO corpus_sentences (name, language_code, audio_file_path, reference_text, tags, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	cs.CreatedAt = time.Now()
	cs.UpdatedAt = time.Now()

	var tagsJSON []byte
	if len(cs.Tags) > 0 {
		tagsJSON = cs.Tags
	} else {
		tagsJSON = json.RawMessage("null") // Store as SQL NULL if empty or nil
	}

	var id int
	err := DB.QueryRow(
		query,
		cs.Name,
		cs.LanguageCode,
		cs.AudioFilePath,
		cs.ReferenceText,
		tagsJSON,
		cs.Description,
		cs.CreatedAt,
		cs.UpdatedAt,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create corpus sentence: %w", err)
	}
	return id, nil
}

// BulkCreateCorpusSentences inserts a batch of corpus sentences inside a
// single transaction, as produced by the corpus loader. Returns the IDs in
// input order. All-or-nothing: a failed insert rolls the whole batch back.
func BulkCreateCorpusSentences(sentences []*CorpusSentence) ([]int, error) {
	if DB == nil {
		return nil, errors.New("database connection not initialized")
	}
	if len(sentences) == 0 {
		return []int{}, nil
	}

	tx, err := DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin corpus import transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO corpus_sentences (name, language_code, audio_file_path, reference_text, tags, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare corpus import statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	ids := make([]int, 0, len(sentences))
	for _, cs := range sentences {
		cs.CreatedAt = now
		cs.UpdatedAt = now

		var tagsJSON []byte
		if len(cs.Tags) > 0 {
			tagsJSON = cs.Tags
		} else {
			tagsJSON = json.RawMessage("null")
		}

		var id int
		if err := stmt.QueryRow(
			cs.Name,
			cs.LanguageCode,
			cs.AudioFilePath,
			cs.ReferenceText,
			tagsJSON,
			cs.Description,
			cs.CreatedAt,
			cs.UpdatedAt,
		).Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to import corpus sentence '%s': %w", cs.Name, err)
		}
		cs.ID = id
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit corpus import: %w", err)
	}
	return ids, nil
}

// GetCorpusSentence retrieves a corpus sentence by ID.
func GetCorpusSentence(id int) (*CorpusSentence, error) {
	if DB == nil {
		return nil, errors.New("database connection not initialized")
	}

	query := `
		SELECT id, name, language_code, audio_file_path, reference_text, tags, description, created_at, updated_at
		FROM corpus_sentences
		WHERE id = $1
	`
	cs := &CorpusSentence{}
	var tagsJSON []byte

	err := DB.QueryRow(query, id).Scan(
		&cs.ID,
		&cs.Name,
		&cs.LanguageCode,
		&cs.AudioFilePath,
		&cs.ReferenceText,
		&tagsJSON,
		&cs.Description,
		&cs.CreatedAt,
		&cs.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("corpus sentence with ID %d not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to get corpus sentence: %w", err)
	}
	if tagsJSON != nil && string(tagsJSON) != "null" {
		cs.Tags = json.RawMessage(tagsJSON)
	}

	return cs, nil
}

// ListCorpusSentences lists corpus sentences, optionally filtered by
// language_code and tags.
// languageCode: exact match for language_code.
// tagsQuery: comma-separated string of tags; uses JSONB containment `?&` operator.
func ListCorpusSentences(languageCode string, tagsQuery string) ([]*CorpusSentence, error) {
	if DB == nil {
		return nil, errors.New("database connection not initialized")
	}

	var conditions []string
	var args []interface{}
	argID := 1

	if languageCode != "" {
		conditions = append(conditions, fmt.Sprintf("language_code = $%d", argID))
		args = append(args, languageCode)
		argID++
	}

	if tagsQuery != "" {
		tags := strings.Split(tagsQuery, ",")
		var validTags []string
		for _, t := range tags {
			trimmedTag := strings.TrimSpace(t)
			if trimmedTag != "" {
				validTags = append(validTags, trimmedTag)
			}
		}
		if len(validTags) > 0 {
			conditions = append(conditions, fmt.Sprintf("tags ?& $%d::text[]", argID))
			args = append(args, validTags)
			argID++
		}
	}

	query := "SELECT id, name, language_code, audio_file_path, reference_text, tags, description, created_at, updated_at FROM corpus_sentences"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list corpus sentences: %w", err)
	}
	defer rows.Close()

	sentences := []*CorpusSentence{}
	for rows.Next() {
		cs := &CorpusSentence{}
		var tagsJSON []byte
		if err := rows.Scan(
			&cs.ID,
			&cs.Name,
			&cs.LanguageCode,
			&cs.AudioFilePath,
			&cs.ReferenceText,
			&tagsJSON,
			&cs.Description,
			&cs.CreatedAt,
			&cs.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan corpus sentence row: %w", err)
		}
		if tagsJSON != nil && string(tagsJSON) != "null" {
			cs.Tags = json.RawMessage(tagsJSON)
		}
		sentences = append(sentences, cs)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for corpus sentences: %w", err)
	}

	return sentences, nil
}

// UpdateCorpusSentence updates specific metadata fields of an existing corpus
// sentence. csUpdateData is a map of field names to new values.
// The audio file path is not updated here; replacing audio is a separate process.
func UpdateCorpusSentence(id int, csUpdateData map[string]interface{}) (*CorpusSentence, error) {
	if DB == nil {
		return nil, errors.New("database connection not initialized")
	}

	var setClauses []string
	var args []interface{}
	argID := 1

	allowedFields := map[string]string{
		"name":           "string",
		"language_code":  "sql.NullString",
		"reference_text": "string",
		"tags":           "json.RawMessage",
		"description":    "sql.NullString",
	}

	for key, value := range csUpdateData {
		fieldType, ok := allowedFields[key]
		if !ok {
			continue
		}

		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", key, argID))

		switch fieldType {
		case "sql.NullString":
			if strVal, ok := value.(string); ok && strVal != "" {
				args = append(args, sql.NullString{String: strVal, Valid: true})
			} else {
				args = append(args, sql.NullString{Valid: false})
			}
		case "json.RawMessage":
			if rawMsg, ok := value.(json.RawMessage); ok && len(rawMsg) > 0 && json.Valid(rawMsg) {
				args = append(args, rawMsg)
			} else if strVal, ok := value.(string); ok && strVal != "" && json.Valid([]byte(strVal)) {
				args = append(args, json.RawMessage(strVal))
			} else {
				args = append(args, json.RawMessage("null"))
			}
		default:
			args = append(args, value)
		}
		argID++
	}

	if len(setClauses) == 0 {
		currentCS, err := GetCorpusSentence(id)
		if err != nil {
			return nil, fmt.Errorf("no valid fields provided for update and failed to fetch current sentence: %w", err)
		}
		return currentCS, errors.New("no updatable metadata fields provided")
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argID))
	args = append(args, time.Now())
	argID++

	query := fmt.Sprintf("UPDATE corpus_sentences SET %s WHERE id = $%d", strings.Join(setClauses, ", "), argID)
	args = append(args, id)

	result, err := DB.Exec(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update corpus sentence with ID %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected for corpus sentence ID %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("corpus sentence with ID %d not found for update", id)
	}

	return GetCorpusSentence(id)
}

// DeleteCorpusSentence deletes a corpus sentence by ID from the database.
func DeleteCorpusSentence(id int) error {
	if DB == nil {
		return errors.New("database connection not initialized")
	}
	query := "DELETE FROM corpus_sentences WHERE id = $1"
	result, err := DB.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete corpus sentence with ID %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for corpus sentence ID %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("corpus sentence with ID %d not found for deletion", id)
	}

	return nil
}
