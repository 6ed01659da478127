package engineadapters

import (
	"encoding/json"
	"strings"
	"testing"

	"pronunciation-eval-platform/internal/datastore"
)

func TestMockRecognizerDefaultHypothesis(t *testing.T) {
	cfg := &datastore.EngineConfig{Name: "mock", EngineType: datastore.EngineTypeMock}

	hypothesis, rawResponse, err := (&MockRecognizer{}).Recognize("clip-1.wav", "en-US", nil, cfg)
	if err != nil {
		t.Fatalf("Recognize returned error: %v", err)
	}
	if !strings.Contains(hypothesis, "clip-1.wav") {
		t.Errorf("expected hypothesis to mention the object key, got %q", hypothesis)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(rawResponse), &raw); err != nil {
		t.Fatalf("rawResponse is not valid JSON: %v", err)
	}
	if raw["simulated"] != true {
		t.Errorf("expected simulated=true in raw response, got %v", raw["simulated"])
	}
}

func TestMockRecognizerConfiguredTranscriptions(t *testing.T) {
	cfg := &datastore.EngineConfig{
		Name:       "mock",
		EngineType: datastore.EngineTypeMock,
		OtherConfigs: json.RawMessage(`{
			"mock_transcriptions": {"LJ001-0001.wav": "printing in the only sense"}
		}`),
	}

	hypothesis, _, err := (&MockRecognizer{}).Recognize("LJ001-0001.wav", "en-US", nil, cfg)
	if err != nil {
		t.Fatalf("Recognize returned error: %v", err)
	}
	if hypothesis != "printing in the only sense" {
		t.Errorf("expected configured transcription, got %q", hypothesis)
	}
}

func TestMockRecognizerSimulatedFailure(t *testing.T) {
	cfg := &datastore.EngineConfig{
		Name:         "mock",
		EngineType:   datastore.EngineTypeMock,
		OtherConfigs: json.RawMessage(`{"mock_fail": true}`),
	}

	hypothesis, rawResponse, err := (&MockRecognizer{}).Recognize("clip-2.wav", "en-US", nil, cfg)
	if err == nil {
		t.Fatal("expected simulated failure, got nil error")
	}
	if hypothesis != "" {
		t.Errorf("expected empty hypothesis on failure, got %q", hypothesis)
	}
	if !strings.Contains(rawResponse, "error") {
		t.Errorf("expected error detail in raw response, got %q", rawResponse)
	}
}

func TestGetRecognizerByEngineType(t *testing.T) {
	InitAdapterRegistry(nil)

	if _, err := GetRecognizer(nil); err == nil {
		t.Error("expected error for nil engine config")
	}

	mock, err := GetRecognizer(&datastore.EngineConfig{Name: "m", EngineType: datastore.EngineTypeMock})
	if err != nil {
		t.Fatalf("GetRecognizer(MOCK) returned error: %v", err)
	}
	if _, ok := mock.(*MockRecognizer); !ok {
		t.Errorf("expected *MockRecognizer, got %T", mock)
	}

	// Real engines need the object store, which the registry was initialized without.
	if _, err := GetRecognizer(&datastore.EngineConfig{Name: "g", EngineType: datastore.EngineTypeGoogle}); err == nil {
		t.Error("expected error for GOOGLE engine without object store client")
	}

	if _, err := GetRecognizer(&datastore.EngineConfig{Name: "x", EngineType: "UNKNOWN"}); err == nil {
		t.Error("expected error for unknown engine type")
	}
}
