package engineadapters

import (
	"fmt"
	"log"

	"pronunciation-eval-platform/internal/datastore"
	"pronunciation-eval-platform/internal/objectstore"
)

// globalObjectStoreClient is set by InitAdapterRegistry. Real adapters need it
// to fetch corpus audio before calling out to the engine.
var globalObjectStoreClient *objectstore.MinioClient

// InitAdapterRegistry initializes shared resources for adapters, like the object store client.
func InitAdapterRegistry(minioClient *objectstore.MinioClient) {
	if minioClient == nil {
		log.Println("Warning: InitAdapterRegistry called with a nil MinioClient. Real adapters needing object storage may fail.")
	}
	globalObjectStoreClient = minioClient
}

// GetRecognizer selects and returns a Recognizer based on the engine configuration's type.
func GetRecognizer(engineConfig *datastore.EngineConfig) (Recognizer, error) {
	if engineConfig == nil {
		return nil, fmt.Errorf("engineConfig cannot be nil")
	}

	log.Printf("Selecting recognizer for engine config '%s' (type: %s)", engineConfig.Name, engineConfig.EngineType)

	switch engineConfig.EngineType {
	case datastore.EngineTypeMock:
		return &MockRecognizer{}, nil
	case datastore.EngineTypeGoogle:
		if globalObjectStoreClient == nil {
			return nil, fmt.Errorf("GoogleRecognizer requires an initialized object store client, but it's nil")
		}
		return NewGoogleRecognizer(globalObjectStoreClient), nil
	case datastore.EngineTypeMicrosoft:
		if globalObjectStoreClient == nil {
			return nil, fmt.Errorf("MicrosoftRecognizer requires an initialized object store client, but it's nil")
		}
		return NewMicrosoftRecognizer(globalObjectStoreClient), nil
	case datastore.EngineTypeDeepgram:
		if globalObjectStoreClient == nil {
			return nil, fmt.Errorf("DeepgramRecognizer requires an initialized object store client, but it's nil")
		}
		return NewDeepgramRecognizer(globalObjectStoreClient), nil
	case datastore.EngineTypeVosk:
		if globalObjectStoreClient == nil {
			return nil, fmt.Errorf("VoskRecognizer requires an initialized object store client, but it's nil")
		}
		return NewVoskRecognizer(globalObjectStoreClient), nil
	default:
		return nil, fmt.Errorf("no recognizer available for engine type: %s (config: %s)", engineConfig.EngineType, engineConfig.Name)
	}
}
