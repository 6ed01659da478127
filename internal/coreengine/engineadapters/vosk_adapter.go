package engineadapters

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/coder/websocket"

	"pronunciation-eval-platform/internal/datastore"
	"pronunciation-eval-platform/internal/objectstore"
)

// voskChunkSize is the number of audio bytes sent per websocket message.
// 8000 bytes is 0.25s of 16kHz 16-bit mono PCM, which matches the chunking
// the reference vosk-server clients use.
const voskChunkSize = 8000

// VoskRecognizer implements the Recognizer interface for a self-hosted
// vosk-server instance speaking its websocket protocol.
type VoskRecognizer struct {
	MinioClient *objectstore.MinioClient
}

// NewVoskRecognizer creates a new VoskRecognizer.
func NewVoskRecognizer(minioClient *objectstore.MinioClient) *VoskRecognizer {
	if minioClient == nil {
		log.Println("Warning: NewVoskRecognizer created with a nil MinioClient. Audio fetching will fail.")
	}
	return &VoskRecognizer{MinioClient: minioClient}
}

// voskResult is one server message. The server emits interim messages with
// "partial" and segment results with "text"; only "text" contributes to the
// final hypothesis.
type voskResult struct {
	Text    string `json:"text"`
	Partial string `json:"partial"`
}

// Recognize transcribes audio by streaming it to a vosk-server websocket endpoint.
func (a *VoskRecognizer) Recognize(audioObjectKey string, languageCode string, params map[string]interface{}, engineConfig *datastore.EngineConfig) (hypothesis string, rawResponse string, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if a.MinioClient == nil {
		return "", "", fmt.Errorf("VoskRecognizer: MinioClient is not initialized")
	}

	if !engineConfig.APIEndpoint.Valid || engineConfig.APIEndpoint.String == "" {
		return "", "", fmt.Errorf("Vosk server endpoint is missing in engine configuration (api_endpoint, e.g. ws://localhost:2700)")
	}
	endpoint := engineConfig.APIEndpoint.String

	log.Printf("VoskRecognizer: Recognize called for audio '%s', endpoint '%s', config '%s'", audioObjectKey, endpoint, engineConfig.Name)

	audioBytes, err := a.MinioClient.GetAudioBytes(ctx, audioObjectKey)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch audio '%s' from MinIO: %w", audioObjectKey, err)
	}

	conn, _, err := websocket.Dial(ctx, endpoint, nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to connect to Vosk server at %s: %w", endpoint, err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	// Large final results (word-level alternatives) can exceed the default
	// 32KB read limit.
	conn.SetReadLimit(1 << 20)

	sampleRate := 16000.0
	if rate, ok := params["sampleRateHertz"].(float64); ok {
		sampleRate = rate
	} else if rate, ok := engineConfig.OtherConfigMap()["sample_rate"].(float64); ok {
		sampleRate = rate
	}

	configMsg := fmt.Sprintf(`{"config": {"sample_rate": %d}}`, int(sampleRate))
	if err := conn.Write(ctx, websocket.MessageText, []byte(configMsg)); err != nil {
		return "", "", fmt.Errorf("failed to send config message to Vosk server: %w", err)
	}

	// Stream the clip in chunks. The server replies once per chunk; segment
	// boundaries arrive as messages carrying a "text" field.
	var segments []string
	var rawMessages []string

	readResult := func() error {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return fmt.Errorf("failed to read Vosk server response: %w", err)
		}
		rawMessages = append(rawMessages, string(data))
		var res voskResult
		if err := json.Unmarshal(data, &res); err != nil {
			return fmt.Errorf("failed to parse Vosk server response: %w", err)
		}
		if res.Text != "" {
			segments = append(segments, res.Text)
		}
		return nil
	}

	startTime := time.Now()
	for offset := 0; offset < len(audioBytes); offset += voskChunkSize {
		end := offset + voskChunkSize
		if end > len(audioBytes) {
			end = len(audioBytes)
		}
		if err := conn.Write(ctx, websocket.MessageBinary, audioBytes[offset:end]); err != nil {
			return "", "", fmt.Errorf("failed to send audio chunk to Vosk server: %w", err)
		}
		if err := readResult(); err != nil {
			return "", "", err
		}
	}

	if err := conn.Write(ctx, websocket.MessageText, []byte(`{"eof" : 1}`)); err != nil {
		return "", "", fmt.Errorf("failed to send eof message to Vosk server: %w", err)
	}
	if err := readResult(); err != nil {
		return "", "", err
	}
	latency := time.Since(startTime)
	log.Printf("Vosk server recognition for %s completed in %v", audioObjectKey, latency)

	hypothesis = strings.TrimSpace(strings.Join(segments, " "))
	rawResponse = "[" + strings.Join(rawMessages, ",") + "]"

	log.Printf("VoskRecognizer: recognized text for '%s': %s", audioObjectKey, hypothesis)
	return hypothesis, rawResponse, nil
}
