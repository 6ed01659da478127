package engineadapters

import (
	"pronunciation-eval-platform/internal/datastore"
)

// Recognizer defines the interface for external speech recognition engines.
type Recognizer interface {
	// Recognize transcribes audio from the given audioObjectKey (an object key in object storage)
	// using the specified languageCode and engine-specific parameters.
	// engineConfig provides necessary API keys, endpoints, and other configurations.
	// It returns the recognized hypothesis text and the raw engine response for storage.
	Recognize(audioObjectKey string, languageCode string, params map[string]interface{}, engineConfig *datastore.EngineConfig) (hypothesis string, rawResponse string, err error)
}
