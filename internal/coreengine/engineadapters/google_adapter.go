package engineadapters

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"

	"pronunciation-eval-platform/internal/datastore"
	"pronunciation-eval-platform/internal/objectstore"
)

// GoogleRecognizer implements the Recognizer interface for Google Cloud Speech-to-Text.
type GoogleRecognizer struct {
	MinioClient *objectstore.MinioClient
}

// NewGoogleRecognizer creates a new GoogleRecognizer. It requires a
// MinioClient to fetch corpus audio from object storage.
func NewGoogleRecognizer(minioClient *objectstore.MinioClient) *GoogleRecognizer {
	if minioClient == nil {
		log.Println("Warning: NewGoogleRecognizer created with a nil MinioClient. Audio fetching will fail.")
	}
	return &GoogleRecognizer{MinioClient: minioClient}
}

// Recognize transcribes audio using Google Cloud Speech-to-Text.
func (a *GoogleRecognizer) Recognize(audioObjectKey string, languageCode string, params map[string]interface{}, engineConfig *datastore.EngineConfig) (hypothesis string, rawResponse string, err error) {
	ctx := context.Background()

	if a.MinioClient == nil {
		return "", "", fmt.Errorf("GoogleRecognizer: MinioClient is not initialized")
	}

	otherConfigs := engineConfig.OtherConfigMap()

	// Authentication. Falls back to GOOGLE_APPLICATION_CREDENTIALS when no
	// credentials path is configured.
	var opts []option.ClientOption
	if credsPath, ok := otherConfigs["google_credentials_path"].(string); ok && credsPath != "" {
		log.Printf("Using Google credentials from path specified in engine config: %s", credsPath)
		opts = append(opts, option.WithCredentialsFile(credsPath))
	}

	speechClient, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return "", "", fmt.Errorf("failed to create Google Speech client: %w", err)
	}
	defer speechClient.Close()

	audioContent, err := a.MinioClient.GetAudioBytes(ctx, audioObjectKey)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch audio '%s' from MinIO: %w", audioObjectKey, err)
	}

	// Defaults match the corpus clip format (16kHz PCM WAV). Overridable via
	// job params.
	encoding := speechpb.RecognitionConfig_LINEAR16
	sampleRateHertz := int32(16000)

	if enc, ok := params["encoding"].(string); ok {
		switch strings.ToUpper(enc) {
		case "FLAC":
			encoding = speechpb.RecognitionConfig_FLAC
		case "MP3":
			encoding = speechpb.RecognitionConfig_MP3
		}
	}
	if rate, ok := params["sampleRateHertz"].(float64); ok { // JSON numbers parse as float64
		sampleRateHertz = int32(rate)
	}

	config := &speechpb.RecognitionConfig{
		Encoding:                   encoding,
		SampleRateHertz:            sampleRateHertz,
		LanguageCode:               languageCode,
		EnableAutomaticPunctuation: true,
	}

	if cfgMap, ok := otherConfigs["config"].(map[string]interface{}); ok {
		if model, ok := cfgMap["model"].(string); ok && model != "" {
			config.Model = model
			log.Printf("Using model '%s' from engine config", model)
		}
		if useEnhanced, ok := cfgMap["useEnhanced"].(bool); ok {
			config.UseEnhanced = useEnhanced
		}
	}

	req := &speechpb.RecognizeRequest{
		Config: config,
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audioContent},
		},
	}

	log.Printf("Sending recognition request to Google Speech-to-Text API for %s", audioObjectKey)
	startTime := time.Now()
	resp, err := speechClient.Recognize(ctx, req)
	latency := time.Since(startTime)
	log.Printf("Google Speech-to-Text API call for %s completed in %v", audioObjectKey, latency)

	if err != nil {
		rawResponse = fmt.Sprintf(`{"error": %q}`, err.Error())
		return "", rawResponse, fmt.Errorf("Google Speech API recognition failed: %w", err)
	}

	var transcriptBuilder strings.Builder
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			transcriptBuilder.WriteString(result.Alternatives[0].Transcript)
			transcriptBuilder.WriteString(" ")
		}
	}
	hypothesis = strings.TrimSpace(transcriptBuilder.String())

	rawResponseBytes, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		log.Printf("Error marshalling Google Speech API response to JSON: %v. Storing error message as rawResponse.", marshalErr)
		rawResponse = fmt.Sprintf(`{"error_marshalling_response": %q}`, marshalErr.Error())
	} else {
		rawResponse = string(rawResponseBytes)
	}

	log.Printf("GoogleRecognizer: recognized text for '%s': %s", audioObjectKey, hypothesis)
	return hypothesis, rawResponse, nil
}
