// Package vision is the client for the inference boundary: image
// verification, audio synthesis, and itinerary planning. The service is
// treated as an opaque oracle; this package only marshals requests and
// validates what comes back.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/geoquest/api/internal/geo"
	"github.com/geoquest/api/internal/quest"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	schema     *jsonschema.Schema
	logger     *slog.Logger
}

func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		schema: compileVerdictSchema(),
		logger: logger,
	}
}

type verifyRequest struct {
	Image        string    `json:"image"`
	UserLocation geo.Point `json:"userLocation"`
	Landmarks    []string  `json:"landmarks"`
}

// Verify submits a capture for verification. It always returns a usable
// verdict: transport failures, non-2xx statuses, and schema violations
// all collapse into the Connection Error verdict, with the underlying
// cause returned for logging only. Callers never throw on inference
// unavailability.
func (c *Client) Verify(ctx context.Context, imageBase64 string, loc geo.Point, landmarks []string) (quest.Verdict, error) {
	body, err := c.post(ctx, "/verify", verifyRequest{
		Image:        StripDataURL(imageBase64),
		UserLocation: loc,
		Landmarks:    landmarks,
	})
	if err != nil {
		return quest.ConnectionErrorVerdict(), err
	}

	var generic any
	if err := json.Unmarshal(body, &generic); err != nil {
		return quest.ConnectionErrorVerdict(), fmt.Errorf("decoding verdict: %w", err)
	}
	if err := c.schema.Validate(generic); err != nil {
		return quest.ConnectionErrorVerdict(), fmt.Errorf("verdict failed schema validation: %w", err)
	}

	var v quest.Verdict
	if err := json.Unmarshal(body, &v); err != nil {
		return quest.ConnectionErrorVerdict(), fmt.Errorf("decoding verdict: %w", err)
	}
	return v, nil
}

type audioRequest struct {
	Text   string `json:"text"`
	Type   string `json:"type"`
	Phrase string `json:"phrase,omitempty"`
}

type audioResponse struct {
	Audio string `json:"audio"`
}

// SynthesizeAudio requests narration audio and returns the raw PCM bytes
// (16-bit LE, 24 kHz mono per the audio contract).
func (c *Client) SynthesizeAudio(ctx context.Context, text, typ, phrase string) ([]byte, error) {
	body, err := c.post(ctx, "/audio", audioRequest{Text: text, Type: typ, Phrase: phrase})
	if err != nil {
		return nil, err
	}

	var resp audioResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding audio response: %w", err)
	}
	if resp.Audio == "" {
		return nil, fmt.Errorf("audio response contained no audio")
	}
	raw, err := base64.StdEncoding.DecodeString(resp.Audio)
	if err != nil {
		return nil, fmt.Errorf("decoding audio payload: %w", err)
	}
	return raw, nil
}

// ItineraryStep is one entry of a generated day plan.
type ItineraryStep struct {
	Time         string `json:"time"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	LandmarkName string `json:"landmarkName,omitempty"`
}

type itineraryRequest struct {
	Duration  string    `json:"duration"`
	Vibe      string    `json:"vibe"`
	Location  geo.Point `json:"location"`
	Landmarks []string  `json:"landmarks"`
}

// PlanItinerary is the peripheral prompt-and-parse call; unlike Verify
// it surfaces errors directly since there is no safe fallback to show.
func (c *Client) PlanItinerary(ctx context.Context, duration, vibe string, loc geo.Point, landmarks []string) ([]ItineraryStep, error) {
	body, err := c.post(ctx, "/itinerary", itineraryRequest{
		Duration:  duration,
		Vibe:      vibe,
		Location:  loc,
		Landmarks: landmarks,
	})
	if err != nil {
		return nil, err
	}

	var steps []ItineraryStep
	if err := json.Unmarshal(body, &steps); err != nil {
		return nil, fmt.Errorf("decoding itinerary: %w", err)
	}
	return steps, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling inference service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("inference service error", "path", path, "status", resp.StatusCode)
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return nil, fmt.Errorf("inference service returned %d: %s", resp.StatusCode, e.Error)
		}
		return nil, fmt.Errorf("inference service returned %d", resp.StatusCode)
	}
	return body, nil
}
