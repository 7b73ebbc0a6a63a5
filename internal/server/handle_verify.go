package server

import (
	"log/slog"
	"net/http"

	"github.com/geoquest/api/internal/geo"
	"github.com/geoquest/api/internal/quest"
	"github.com/geoquest/api/internal/vision"
)

type VerifyRequest struct {
	Image        string     `json:"image"`
	UserLocation *geo.Point `json:"userLocation"`
}

// VerifyResponse carries the reconciled FinalResult plus the player's
// new totals, so the client never has to re-fetch state after a scan.
type VerifyResponse struct {
	quest.FinalResult
	Points int `json:"points"`
	Level  int `json:"level"`
}

// handleVerify runs the proof-of-visit pipeline: validate the capture,
// consult the vision oracle, reconcile its verdict against the registry
// and the distance gate, and commit the reward exactly once.
func handleVerify(logger *slog.Logger, store Store, states *StateCache, vc *vision.Client, broker *Broker) http.HandlerFunc {
	reconciler := quest.NewReconciler()

	return func(w http.ResponseWriter, r *http.Request) {
		playerID, err := playerFromRequest(r, store)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var req VerifyRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		capture := vision.Capture{ImageBase64: req.Image, Location: req.UserLocation}
		if err := capture.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		device := *req.UserLocation

		verdict, err := vc.Verify(r.Context(), req.Image, device, quest.RegistryNames())
		if err != nil {
			// Degraded verdict already in hand; log and carry on.
			logger.Error("verification call failed", "player_id", playerID, "error", err)
		}

		u, err := states.Get(r.Context(), playerID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		final := reconciler.Reconcile(verdict, quest.Registry(), device, u.HasUnlocked)

		if final.LandmarkID != "" && final.LocationConfirmed {
			lm, ok := quest.LandmarkByID(final.LandmarkID)
			if !ok {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}

			points := final.PointsEarned
			u, err = states.Update(r.Context(), playerID, func(cur quest.UserState) quest.UserState {
				// Grant no-ops if a duplicate dispatch already unlocked it.
				next := quest.Grant(cur, lm, points)
				return quest.AttachPhoto(next, lm.ID, req.Image)
			})
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}

			if final.Unlock {
				logger.Info("landmark unlocked",
					"player_id", playerID,
					"landmark_id", lm.ID,
					"points", points,
					"distance_m", final.DistanceMeters,
				)
				broker.Publish(playerID, Event{
					Type:       "landmark_unlocked",
					LandmarkID: lm.ID,
					PlaceName:  lm.Name,
					Points:     u.Points,
					Level:      u.Level(),
				})
			}
		}

		writeJSON(w, http.StatusOK, VerifyResponse{
			FinalResult: final,
			Points:      u.Points,
			Level:       u.Level(),
		})
	}
}
