package server

import (
	"net/http"

	"github.com/geoquest/api/internal/geo"
	"github.com/geoquest/api/internal/quest"
)

type PlayerView struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Points          int      `json:"points"`
	Level           int      `json:"level"`
	Inventory       []string `json:"inventory"`
	UnlockedIDs     []string `json:"unlockedIds"`
	RedeemedCoupons []string `json:"redeemedCoupons"`
	UnlockedHints   []string `json:"unlockedHints"`
	IsAdmin         bool     `json:"isAdmin"`
}

// LandmarkView is the per-player projection of a registry entry. Facts
// are revealed once unlocked; hints once purchased.
type LandmarkView struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Position   geo.Point `json:"position"`
	RewardIcon string    `json:"rewardIcon"`
	Riddle     string    `json:"riddle"`
	IsUnlocked bool      `json:"isUnlocked"`
	Facts      []string  `json:"facts,omitempty"`
	Hints      []string  `json:"hints,omitempty"`
	UserPhoto  string    `json:"userPhoto,omitempty"`
}

type StateResponse struct {
	Player    PlayerView     `json:"player"`
	Landmarks []LandmarkView `json:"landmarks"`
	Coupons   []quest.Coupon `json:"coupons"`
}

func playerView(u quest.UserState) PlayerView {
	v := PlayerView{
		ID:              u.ID,
		Name:            u.Name,
		Points:          u.Points,
		Level:           u.Level(),
		Inventory:       u.Inventory,
		UnlockedIDs:     u.UnlockedIDs,
		RedeemedCoupons: u.RedeemedCoupons,
		UnlockedHints:   u.UnlockedHints,
		IsAdmin:         u.IsAdmin,
	}
	if v.Inventory == nil {
		v.Inventory = []string{}
	}
	if v.UnlockedIDs == nil {
		v.UnlockedIDs = []string{}
	}
	if v.RedeemedCoupons == nil {
		v.RedeemedCoupons = []string{}
	}
	if v.UnlockedHints == nil {
		v.UnlockedHints = []string{}
	}
	return v
}

func landmarkViews(u quest.UserState) []LandmarkView {
	reg := quest.Registry()
	views := make([]LandmarkView, len(reg))
	for i, lm := range reg {
		v := LandmarkView{
			ID:         lm.ID,
			Name:       lm.Name,
			Category:   string(lm.Category),
			Position:   lm.Position,
			RewardIcon: lm.RewardIcon,
			Riddle:     lm.Riddle,
			IsUnlocked: u.HasUnlocked(lm.ID),
		}
		if v.IsUnlocked {
			v.Facts = lm.Facts
			v.UserPhoto = u.Photos[lm.ID]
		}
		if u.HasHint(lm.ID) {
			v.Hints = lm.Hints
		}
		views[i] = v
	}
	return views
}

func handleGameState(store Store, states *StateCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, err := playerFromRequest(r, store)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		u, err := states.Get(r.Context(), playerID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, StateResponse{
			Player:    playerView(u),
			Landmarks: landmarkViews(u),
			Coupons:   quest.Coupons(),
		})
	}
}
