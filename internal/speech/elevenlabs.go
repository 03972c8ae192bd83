package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	elevenLabsBaseURL      = "https://api.elevenlabs.io"
	elevenLabsDefaultVoice = "19STyYD15bswVz51nqLf"
	elevenLabsDefaultModel = "eleven_multilingual_v2"
	elevenLabsOutputFormat = "mp3_22050_32"
)

// ElevenLabsConfig holds the text-to-speech settings.
type ElevenLabsConfig struct {
	APIKey  string
	VoiceID string
	ModelID string

	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string

	HTTPClient *http.Client
}

// ElevenLabsClient synthesizes speech with the ElevenLabs API.
type ElevenLabsClient struct {
	cfg    ElevenLabsConfig
	client *http.Client
}

// NewElevenLabsClient creates an ElevenLabs synthesizer.
func NewElevenLabsClient(cfg ElevenLabsConfig) (*ElevenLabsClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("elevenlabs api key is required")
	}
	if cfg.VoiceID == "" {
		cfg.VoiceID = elevenLabsDefaultVoice
	}
	if cfg.ModelID == "" {
		cfg.ModelID = elevenLabsDefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = elevenLabsBaseURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &ElevenLabsClient{cfg: cfg, client: client}, nil
}

type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
	Speed           float64 `json:"speed"`
}

type elevenLabsTTSRequest struct {
	Text          string                  `json:"text"`
	ModelID       string                  `json:"model_id"`
	VoiceSettings elevenLabsVoiceSettings `json:"voice_settings"`
}

// Synthesize renders text as MP3 audio at the given speed and streams the
// bytes to w.
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text string, speed float64, w io.Writer) error {
	if speed <= 0 {
		speed = 1.0
	}

	payload := elevenLabsTTSRequest{
		Text:    text,
		ModelID: c.cfg.ModelID,
		VoiceSettings: elevenLabsVoiceSettings{
			Stability:       0.0,
			SimilarityBoost: 1.0,
			Style:           0.0,
			UseSpeakerBoost: true,
			Speed:           speed,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode tts request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s",
		c.cfg.BaseURL, c.cfg.VoiceID, elevenLabsOutputFormat)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("elevenlabs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("elevenlabs returned status %d: %s", resp.StatusCode, string(detail))
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("stream audio: %w", err)
	}
	return nil
}
