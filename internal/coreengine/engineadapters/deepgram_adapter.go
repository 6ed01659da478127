package engineadapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"pronunciation-eval-platform/internal/datastore"
	"pronunciation-eval-platform/internal/objectstore"
)

const deepgramBaseURL = "https://api.deepgram.com/v1/listen"

// DeepgramRecognizer implements the Recognizer interface for Deepgram's
// prerecorded transcription REST API.
type DeepgramRecognizer struct {
	MinioClient *objectstore.MinioClient
	HTTPClient  *http.Client
}

// NewDeepgramRecognizer creates a new DeepgramRecognizer.
func NewDeepgramRecognizer(minioClient *objectstore.MinioClient) *DeepgramRecognizer {
	if minioClient == nil {
		log.Println("Warning: NewDeepgramRecognizer created with a nil MinioClient. Audio fetching will fail.")
	}
	return &DeepgramRecognizer{
		MinioClient: minioClient,
		HTTPClient:  &http.Client{Timeout: time.Second * 60},
	}
}

// deepgramResponse covers the parts of Deepgram's JSON response we consume.
type deepgramResponse struct {
	Metadata struct {
		RequestID string  `json:"request_id"`
		Duration  float64 `json:"duration"`
		Channels  int     `json:"channels"`
	} `json:"metadata"`
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// Recognize transcribes audio using the Deepgram API.
func (a *DeepgramRecognizer) Recognize(audioObjectKey string, languageCode string, params map[string]interface{}, engineConfig *datastore.EngineConfig) (hypothesis string, rawResponse string, err error) {
	ctx := context.Background()

	if a.MinioClient == nil {
		return "", "", fmt.Errorf("DeepgramRecognizer: MinioClient is not initialized")
	}
	if a.HTTPClient == nil {
		return "", "", fmt.Errorf("DeepgramRecognizer: HTTPClient is not initialized")
	}

	if !engineConfig.APIKey.Valid || engineConfig.APIKey.String == "" {
		return "", "", fmt.Errorf("Deepgram API key is missing in engine configuration")
	}
	apiKey := engineConfig.APIKey.String

	log.Printf("DeepgramRecognizer: Recognize called for audio '%s', language '%s', config '%s'", audioObjectKey, languageCode, engineConfig.Name)

	audioBytes, err := a.MinioClient.GetAudioBytes(ctx, audioObjectKey)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch audio '%s' from MinIO: %w", audioObjectKey, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(audioObjectKey))
	if contentType == "" {
		contentType = "application/octet-stream"
		log.Printf("Warning: Could not determine Content-Type for %s, using default %s", audioObjectKey, contentType)
	}

	baseURL := deepgramBaseURL
	if engineConfig.APIEndpoint.Valid && engineConfig.APIEndpoint.String != "" {
		baseURL = engineConfig.APIEndpoint.String
	}
	reqURL, err := url.Parse(baseURL)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse Deepgram base URL: %w", err)
	}
	query := reqURL.Query()
	if languageCode != "" {
		query.Set("language", languageCode)
	}

	// Engine config defaults first, then job params override.
	if cfg, ok := engineConfig.OtherConfigMap()["config"].(map[string]interface{}); ok {
		for k, v := range cfg {
			query.Set(k, fmt.Sprintf("%v", v))
		}
	}
	for key, value := range params {
		query.Set(key, fmt.Sprintf("%v", value))
	}
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, "POST", reqURL.String(), bytes.NewReader(audioBytes))
	if err != nil {
		return "", "", fmt.Errorf("failed to create Deepgram request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	log.Printf("Sending recognition request to Deepgram API: %s", reqURL.String())
	startTime := time.Now()
	httpResp, err := a.HTTPClient.Do(req)
	latency := time.Since(startTime)
	log.Printf("Deepgram API call for %s completed in %v", audioObjectKey, latency)

	if err != nil {
		return "", "", fmt.Errorf("failed to send request to Deepgram: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", "", fmt.Errorf("failed to read Deepgram response body: %w", err)
	}
	rawResponse = string(respBody)

	if httpResp.StatusCode != http.StatusOK {
		log.Printf("Deepgram API Error: Status %s, Body: %s", httpResp.Status, rawResponse)
		return "", rawResponse, fmt.Errorf("Deepgram API request failed with status %s", httpResp.Status)
	}

	var dgResponse deepgramResponse
	if err := json.Unmarshal(respBody, &dgResponse); err != nil {
		return "", rawResponse, fmt.Errorf("failed to parse Deepgram JSON response: %w", err)
	}

	if len(dgResponse.Results.Channels) > 0 && len(dgResponse.Results.Channels[0].Alternatives) > 0 {
		hypothesis = dgResponse.Results.Channels[0].Alternatives[0].Transcript
	} else {
		// A valid response without a transcript (e.g. silent audio) is not an
		// error; the scorer treats the empty hypothesis as all deletions.
		log.Printf("Deepgram response did not contain a transcript for %s.", audioObjectKey)
	}

	log.Printf("DeepgramRecognizer: recognized text for '%s': %s", audioObjectKey, hypothesis)
	return hypothesis, rawResponse, nil
}
