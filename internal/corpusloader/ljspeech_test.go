package corpusloader

import (
	"strings"
	"testing"
)

const sampleMetadata = `LJ001-0001|Printing, in the only sense with which we are at present concerned,|Printing, in the only sense with which we are at present concerned,
LJ001-0002|in being comparatively modern.|in being comparatively modern.
LJ002-0018|Mr. Buxton's active interventions in 1817 and 1818|Mister Buxton's active interventions in eighteen seventeen and eighteen eighteen
LJ003-0001|raw only
|missing id
LJ004-0001||
`

func TestParseMetadata(t *testing.T) {
	entries, err := ParseMetadata(strings.NewReader(sampleMetadata))
	if err != nil {
		t.Fatalf("ParseMetadata returned error: %v", err)
	}

	// The missing-id and empty-transcription rows are skipped, the
	// two-field row is kept.
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4: %+v", len(entries), entries)
	}

	if entries[0].ID != "LJ001-0001" {
		t.Errorf("entries[0].ID = %q, want LJ001-0001", entries[0].ID)
	}

	// Normalized transcription wins when present.
	if got := entries[2].ReferenceText(); !strings.HasPrefix(got, "Mister Buxton's") {
		t.Errorf("entries[2].ReferenceText() = %q, want the normalized variant", got)
	}

	// A two-field row falls back to the raw transcription.
	if got := entries[3].ReferenceText(); got != "raw only" {
		t.Errorf("entries[3].ReferenceText() = %q, want %q", got, "raw only")
	}
}

func TestToCorpusSentences(t *testing.T) {
	entries := []Entry{
		{ID: "LJ001-0001", Transcription: "raw", NormalizedTranscription: "normalized"},
		{ID: "LJ001-0002", Transcription: "second clip"},
		{ID: "LJ001-0003", Transcription: "third clip"},
	}

	sentences := ToCorpusSentences(entries, "en-US", 2)
	if len(sentences) != 2 {
		t.Fatalf("got %d sentences, want 2 (limit applied)", len(sentences))
	}

	first := sentences[0]
	if first.Name != "LJ001-0001" {
		t.Errorf("Name = %q, want LJ001-0001", first.Name)
	}
	if first.AudioFilePath != "LJ001-0001.wav" {
		t.Errorf("AudioFilePath = %q, want LJ001-0001.wav", first.AudioFilePath)
	}
	if first.ReferenceText != "normalized" {
		t.Errorf("ReferenceText = %q, want %q", first.ReferenceText, "normalized")
	}
	if !first.LanguageCode.Valid || first.LanguageCode.String != "en-US" {
		t.Errorf("LanguageCode = %+v, want en-US", first.LanguageCode)
	}

	// Limit past the end is clamped; empty language code stays NULL.
	all := ToCorpusSentences(entries, "", 100)
	if len(all) != 3 {
		t.Errorf("got %d sentences, want 3", len(all))
	}
	if all[0].LanguageCode.Valid {
		t.Errorf("LanguageCode should be NULL when not provided, got %+v", all[0].LanguageCode)
	}
}
