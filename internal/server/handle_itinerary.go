package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/geoquest/api/internal/geo"
	"github.com/geoquest/api/internal/quest"
	"github.com/geoquest/api/internal/vision"
)

type ItineraryRequest struct {
	Duration string     `json:"duration"`
	Vibe     string     `json:"vibe"`
	Location *geo.Point `json:"location,omitempty"`
}

// cityCenter is the fallback planning origin, the Colchis Fountain.
var cityCenter = geo.Point{Lat: 42.2706, Lng: 42.7060}

func handleItinerary(logger *slog.Logger, store Store, vc *vision.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := playerFromRequest(r, store); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var req ItineraryRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Duration) == "" || strings.TrimSpace(req.Vibe) == "" {
			writeError(w, http.StatusBadRequest, "duration and vibe are required")
			return
		}

		loc := cityCenter
		if req.Location != nil {
			loc = *req.Location
		}

		steps, err := vc.PlanItinerary(r.Context(), req.Duration, req.Vibe, loc, quest.RegistryNames())
		if err != nil {
			logger.Error("itinerary planning failed", "error", err)
			writeError(w, http.StatusBadGateway, "itinerary planning failed")
			return
		}
		if steps == nil {
			steps = []vision.ItineraryStep{}
		}

		writeJSON(w, http.StatusOK, steps)
	}
}
