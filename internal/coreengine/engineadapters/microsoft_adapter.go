package engineadapters

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Microsoft/cognitive-services-speech-sdk-go/audio"
	"github.com/Microsoft/cognitive-services-speech-sdk-go/common"
	"github.com/Microsoft/cognitive-services-speech-sdk-go/speech"

	"pronunciation-eval-platform/internal/datastore"
	"pronunciation-eval-platform/internal/objectstore"
)

// MicrosoftRecognizer implements the Recognizer interface for Azure Cognitive Speech Services.
type MicrosoftRecognizer struct {
	MinioClient *objectstore.MinioClient
}

// NewMicrosoftRecognizer creates a new MicrosoftRecognizer.
func NewMicrosoftRecognizer(minioClient *objectstore.MinioClient) *MicrosoftRecognizer {
	if minioClient == nil {
		log.Println("Warning: NewMicrosoftRecognizer created with a nil MinioClient. Audio fetching will fail.")
	}
	return &MicrosoftRecognizer{MinioClient: minioClient}
}

// Recognize transcribes audio using Azure Cognitive Speech Services.
func (a *MicrosoftRecognizer) Recognize(audioObjectKey string, languageCode string, params map[string]interface{}, engineConfig *datastore.EngineConfig) (hypothesis string, rawResponse string, err error) {
	ctx := context.Background()

	if a.MinioClient == nil {
		return "", "", fmt.Errorf("MicrosoftRecognizer: MinioClient is not initialized")
	}

	if !engineConfig.APIKey.Valid || engineConfig.APIKey.String == "" {
		return "", "", fmt.Errorf("Azure Speech API key is missing in engine configuration")
	}
	subscriptionKey := engineConfig.APIKey.String

	otherConfigs := engineConfig.OtherConfigMap()
	region, _ := otherConfigs["azure_region"].(string)
	if region == "" {
		return "", "", fmt.Errorf("Azure Speech region is missing in engine configuration (other_configs.azure_region)")
	}

	log.Printf("MicrosoftRecognizer: Recognize called for audio '%s', language '%s', region '%s', config '%s'", audioObjectKey, languageCode, region, engineConfig.Name)

	speechConfig, err := speech.NewSpeechConfigFromSubscription(subscriptionKey, region)
	if err != nil {
		return "", "", fmt.Errorf("failed to create Azure SpeechConfig: %w", err)
	}
	defer speechConfig.Close()

	speechConfig.SetSpeechRecognitionLanguage(languageCode)

	profanityOption := speech.ProfanityOption_Masked
	configMap, _ := otherConfigs["config"].(map[string]interface{})
	if paramProfanity, ok := params["profanity_option"].(string); ok {
		profanityOption = parseProfanityOption(paramProfanity)
	} else if cfgProfanity, ok := configMap["profanity_option"].(string); ok {
		profanityOption = parseProfanityOption(cfgProfanity)
	}
	speechConfig.SetProfanity(profanityOption)

	// Corpus clips are short utterances, so reading the whole clip into a
	// push stream is fine.
	audioBytes, err := a.MinioClient.GetAudioBytes(ctx, audioObjectKey)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch audio '%s' from MinIO: %w", audioObjectKey, err)
	}

	pushStream, err := audio.CreatePushAudioInputStream()
	if err != nil {
		return "", "", fmt.Errorf("failed to create push audio input stream: %w", err)
	}
	defer pushStream.Close()

	err = pushStream.Write(audioBytes)
	if err != nil {
		return "", "", fmt.Errorf("failed to write audio data to push stream: %w", err)
	}
	pushStream.CloseStream()

	audioConfig, err := audio.NewAudioConfigFromStreamInput(pushStream)
	if err != nil {
		return "", "", fmt.Errorf("failed to create Azure AudioConfig: %w", err)
	}
	defer audioConfig.Close()

	recognizer, err := speech.NewSpeechRecognizerFromConfig(speechConfig, audioConfig)
	if err != nil {
		return "", "", fmt.Errorf("failed to create Azure SpeechRecognizer: %w", err)
	}
	defer recognizer.Close()

	log.Printf("Sending recognition request to Azure Speech Service for %s", audioObjectKey)
	startTime := time.Now()
	task := recognizer.RecognizeOnceAsync()
	var outcome speech.SpeechRecognitionOutcome

	select {
	case outcome = <-task:
	case <-time.After(60 * time.Second):
		return "", `{"error": "Recognition timed out after 60 seconds"}`, fmt.Errorf("Azure Speech API recognition timed out")
	}
	latency := time.Since(startTime)
	log.Printf("Azure Speech Service call for %s completed in %v", audioObjectKey, latency)

	defer outcome.Close()

	if outcome.Error != nil {
		rawResponse = fmt.Sprintf(`{"error": %q}`, outcome.Error.Error())
		return "", rawResponse, fmt.Errorf("Azure Speech API recognition error: %w", outcome.Error)
	}

	result := outcome.Result
	switch result.Reason {
	case common.RecognizedSpeech:
		hypothesis = result.Text
		rawResponseBytes, marshalErr := json.Marshal(map[string]interface{}{
			"text":     result.Text,
			"duration": result.Duration.String(),
			"offset":   result.Offset.String(),
		})
		if marshalErr != nil {
			log.Printf("Error marshalling Azure Speech API response details to JSON: %v.", marshalErr)
			rawResponse = fmt.Sprintf(`{"text": %q}`, result.Text)
		} else {
			rawResponse = string(rawResponseBytes)
		}
		log.Printf("MicrosoftRecognizer: recognized text for '%s': %s", audioObjectKey, hypothesis)
		return hypothesis, rawResponse, nil
	case common.NoMatch:
		rawResponse = `{"error": "No speech could be recognized", "reason": "NoMatch"}`
		return "", rawResponse, fmt.Errorf("no speech could be recognized from audio: %s", audioObjectKey)
	default:
		rawResponse = fmt.Sprintf(`{"error": "Recognition failed", "reason": "%d"}`, result.Reason)
		return "", rawResponse, fmt.Errorf("Azure Speech API recognition failed with reason: %d", result.Reason)
	}
}

// parseProfanityOption maps a config string to the SDK's profanity option.
func parseProfanityOption(s string) speech.ProfanityOption {
	switch strings.ToLower(s) {
	case "raw":
		return speech.ProfanityOption_Raw
	case "removed":
		return speech.ProfanityOption_Removed
	case "masked":
		return speech.ProfanityOption_Masked
	default:
		log.Printf("Unknown profanity option '%s', defaulting to Masked.", s)
		return speech.ProfanityOption_Masked
	}
}
