package server

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/geoquest/api/internal/audio"
	"github.com/geoquest/api/internal/vision"
)

type AudioRequest struct {
	Text   string `json:"text"`
	Type   string `json:"type"`
	Phrase string `json:"phrase,omitempty"`
}

type AudioResponse struct {
	Audio string `json:"audio"`
}

// handleAudio serves narration audio through the session cache: each
// guide or phrase is synthesized at most once, failures are retried on
// the next request.
func handleAudio(logger *slog.Logger, store Store, cache *audio.Cache, vc *vision.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := playerFromRequest(r, store); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var req AudioRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Text = strings.TrimSpace(req.Text)
		if req.Text == "" {
			writeError(w, http.StatusBadRequest, "text is required")
			return
		}

		var key string
		switch req.Type {
		case "guide":
			key = audio.GuideKey(req.Text)
		case "phrase":
			phrase := req.Phrase
			if phrase == "" {
				phrase = req.Text
			}
			key = audio.PhraseKey(phrase)
		default:
			writeError(w, http.StatusBadRequest, "type must be 'phrase' or 'guide'")
			return
		}

		raw, err := cache.Get(r.Context(), key, func(ctx context.Context) ([]byte, error) {
			return vc.SynthesizeAudio(ctx, req.Text, req.Type, req.Phrase)
		})
		if err != nil {
			logger.Error("audio synthesis failed", "key", key, "error", err)
			writeError(w, http.StatusBadGateway, "audio synthesis failed")
			return
		}

		writeJSON(w, http.StatusOK, AudioResponse{
			Audio: base64.StdEncoding.EncodeToString(raw),
		})
	}
}
