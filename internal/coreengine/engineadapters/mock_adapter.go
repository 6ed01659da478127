package engineadapters

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"pronunciation-eval-platform/internal/datastore"
)

// MockRecognizer is a test double for the Recognizer interface. When the
// engine config's other_configs carries a "mock_transcriptions" object, the
// hypothesis for an audio object key is looked up there, which lets corpus
// runs be exercised end to end without a real engine.
type MockRecognizer struct{}

// Recognize simulates a speech recognition call.
func (m *MockRecognizer) Recognize(audioObjectKey string, languageCode string, params map[string]interface{}, engineConfig *datastore.EngineConfig) (string, string, error) {
	log.Printf("MockRecognizer: Recognize called for audio '%s', language '%s', config '%s'", audioObjectKey, languageCode, engineConfig.Name)

	// Simulate network latency unless disabled for tests.
	if delay, ok := engineConfig.OtherConfigMap()["mock_delay_ms"].(float64); ok {
		time.Sleep(time.Duration(delay) * time.Millisecond)
	}

	otherConfigs := engineConfig.OtherConfigMap()

	if fail, ok := otherConfigs["mock_fail"].(bool); ok && fail {
		rawResponse := `{"error": "simulated recognition failure"}`
		return "", rawResponse, fmt.Errorf("simulated recognition failure for audio %s", audioObjectKey)
	}

	hypothesis := fmt.Sprintf("mock transcription for %s in language %s", audioObjectKey, languageCode)
	if transcriptions, ok := otherConfigs["mock_transcriptions"].(map[string]interface{}); ok {
		if text, ok := transcriptions[audioObjectKey].(string); ok {
			hypothesis = text
		}
	}

	rawResponseBytes, err := json.Marshal(map[string]interface{}{
		"transcription": hypothesis,
		"confidence":    0.95,
		"simulated":     true,
	})
	if err != nil {
		return hypothesis, "{}", nil
	}

	return hypothesis, string(rawResponseBytes), nil
}
