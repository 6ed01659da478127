package corpusloader

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"pronunciation-eval-platform/internal/datastore"
)

// Entry is one row of an LJSpeech-style metadata file. Each row names a clip
// and carries the transcription the speaker read, optionally with a
// normalized variant (numbers and abbreviations expanded).
type Entry struct {
	ID                      string
	Transcription           string
	NormalizedTranscription string
}

// ReferenceText returns the text scoring should use as the reference: the
// normalized transcription when present, otherwise the raw transcription.
func (e Entry) ReferenceText() string {
	if e.NormalizedTranscription != "" {
		return e.NormalizedTranscription
	}
	return e.Transcription
}

// ParseMetadata reads an LJSpeech-style metadata stream: one record per line,
// pipe-separated, `clip_id|transcription|normalized_transcription`. The third
// field is optional. Rows with fewer than two fields or an empty clip ID are
// skipped with a log line rather than failing the whole import.
func ParseMetadata(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.Comma = '|'
	// Transcriptions contain unescaped double quotes.
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var entries []Entry
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to parse metadata line %d: %w", line, err)
		}

		if len(record) < 2 {
			log.Printf("Skipping metadata line %d: expected at least 2 pipe-separated fields, got %d", line, len(record))
			continue
		}

		entry := Entry{
			ID:            strings.TrimSpace(record[0]),
			Transcription: strings.TrimSpace(record[1]),
		}
		if len(record) >= 3 {
			entry.NormalizedTranscription = strings.TrimSpace(record[2])
		}

		if entry.ID == "" {
			log.Printf("Skipping metadata line %d: empty clip ID", line)
			continue
		}
		if entry.ReferenceText() == "" {
			log.Printf("Skipping metadata line %d (clip %s): empty transcription", line, entry.ID)
			continue
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// ToCorpusSentences converts parsed metadata entries into corpus sentence
// rows ready for datastore.BulkCreateCorpusSentences. The audio object key is
// derived from the clip ID (LJSpeech ships one WAV per clip). limit > 0 caps
// how many entries are converted; a limit past the end is clamped.
func ToCorpusSentences(entries []Entry, languageCode string, limit int) []*datastore.CorpusSentence {
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}

	sentences := make([]*datastore.CorpusSentence, 0, len(entries))
	for _, entry := range entries {
		cs := &datastore.CorpusSentence{
			Name:          entry.ID,
			AudioFilePath: entry.ID + ".wav",
			ReferenceText: entry.ReferenceText(),
		}
		if languageCode != "" {
			cs.LanguageCode = sql.NullString{String: languageCode, Valid: true}
		}
		sentences = append(sentences, cs)
	}
	return sentences
}
