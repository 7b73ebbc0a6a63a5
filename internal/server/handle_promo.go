package server

import (
	"net/http"
	"strings"

	"github.com/geoquest/api/internal/quest"
)

// Promo codes are fixed strings handed out at partner venues. One
// unlocks a landmark with a point bonus, one flips the tour-guide
// (admin) flag.
const (
	promoUnlockCode   = "GELATI1106"
	promoUnlockTarget = "gelati"
	promoUnlockBonus  = 250
	promoGuideCode    = "TOURGUIDE"
)

type PromoRequest struct {
	Code string `json:"code"`
}

type PromoResponse struct {
	Message string     `json:"message"`
	Player  PlayerView `json:"player"`
}

func handlePromo(store Store, states *StateCache, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, err := playerFromRequest(r, store)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var req PromoRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		code := strings.ToUpper(strings.TrimSpace(req.Code))
		if code == "" {
			writeError(w, http.StatusBadRequest, "code is required")
			return
		}

		switch code {
		case promoUnlockCode:
			u, err := states.Get(r.Context(), playerID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			if u.HasUnlocked(promoUnlockTarget) {
				writeError(w, http.StatusConflict, "promo already redeemed")
				return
			}

			lm, _ := quest.LandmarkByID(promoUnlockTarget)
			u, err = states.Update(r.Context(), playerID, func(cur quest.UserState) quest.UserState {
				return quest.Grant(cur, lm, promoUnlockBonus)
			})
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}

			broker.Publish(playerID, Event{
				Type:       "landmark_unlocked",
				LandmarkID: lm.ID,
				PlaceName:  lm.Name,
				Points:     u.Points,
				Level:      u.Level(),
			})
			writeJSON(w, http.StatusOK, PromoResponse{
				Message: lm.Name + " unlocked!",
				Player:  playerView(u),
			})

		case promoGuideCode:
			u, err := states.Update(r.Context(), playerID, func(cur quest.UserState) quest.UserState {
				cur.IsAdmin = true
				return cur
			})
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			writeJSON(w, http.StatusOK, PromoResponse{
				Message: "Tour guide mode enabled.",
				Player:  playerView(u),
			})

		default:
			writeError(w, http.StatusUnprocessableEntity, "invalid code")
		}
	}
}
