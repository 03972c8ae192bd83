package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	sarvamBaseURL      = "https://api.sarvam.ai"
	sarvamDefaultModel = "saarika:v2.5"
	sarvamDefaultLang  = "en-IN"
)

// SarvamConfig holds the Sarvam speech-to-text settings.
type SarvamConfig struct {
	APIKey       string
	Model        string
	LanguageCode string

	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string

	HTTPClient *http.Client
}

// SarvamClient transcribes audio with the Sarvam speech-to-text API.
type SarvamClient struct {
	cfg    SarvamConfig
	client *http.Client
}

// NewSarvamClient creates a Sarvam transcriber.
func NewSarvamClient(cfg SarvamConfig) (*SarvamClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("sarvam api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = sarvamDefaultModel
	}
	if cfg.LanguageCode == "" {
		cfg.LanguageCode = sarvamDefaultLang
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = sarvamBaseURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &SarvamClient{cfg: cfg, client: client}, nil
}

type sarvamTranscribeResponse struct {
	Transcript   string `json:"transcript"`
	LanguageCode string `json:"language_code"`
}

// Transcribe uploads the audio as multipart form data and returns the
// recognized transcript. An empty transcript maps to ErrNoSpeech.
func (c *SarvamClient) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := io.Copy(fw, audio); err != nil {
		return "", fmt.Errorf("copy audio: %w", err)
	}
	if err := mw.WriteField("model", c.cfg.Model); err != nil {
		return "", fmt.Errorf("build multipart body: %w", err)
	}
	if err := mw.WriteField("language_code", c.cfg.LanguageCode); err != nil {
		return "", fmt.Errorf("build multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("build multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/speech-to-text", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("api-subscription-key", c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sarvam request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("sarvam returned status %d: %s", resp.StatusCode, string(detail))
	}

	var out sarvamTranscribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode sarvam response: %w", err)
	}

	transcript := strings.TrimSpace(out.Transcript)
	if transcript == "" {
		return "", ErrNoSpeech
	}
	return transcript, nil
}
