package quest

import "errors"

// StartingPoints is granted when a player profile is first created.
const StartingPoints = 100

// PointsPerLevel drives the derived level: floor(points/100)+1.
const PointsPerLevel = 100

var ErrInsufficientPoints = errors.New("insufficient points")

// UserState is a player's full progress. Instances are treated as
// immutable values: Grant and Spend return copies.
type UserState struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Points          int               `json:"points"`
	UnlockedIDs     []string          `json:"unlockedIds"`
	Inventory       []string          `json:"inventory"`
	RedeemedCoupons []string          `json:"redeemedCoupons"`
	UnlockedHints   []string          `json:"unlockedHints"`
	Photos          map[string]string `json:"photos,omitempty"`
	IsAdmin         bool              `json:"isAdmin"`
}

// NewUserState creates a fresh profile with the starting grant.
func NewUserState(id, name string) UserState {
	return UserState{
		ID:     id,
		Name:   name,
		Points: StartingPoints,
	}
}

// Level is derived from points; it is never stored.
func (u UserState) Level() int {
	return u.Points/PointsPerLevel + 1
}

func (u UserState) HasUnlocked(landmarkID string) bool {
	return contains(u.UnlockedIDs, landmarkID)
}

func (u UserState) HasHint(landmarkID string) bool {
	return contains(u.UnlockedHints, landmarkID)
}

func (u UserState) HasCoupon(couponID string) bool {
	return contains(u.RedeemedCoupons, couponID)
}

// Grant applies a landmark unlock: points, inventory icon, and
// unlockedIds move in the same logical step. If the landmark is already
// unlocked it returns u unchanged, protecting against duplicate
// dispatch from retries or double-taps.
func Grant(u UserState, lm Landmark, points int) UserState {
	if u.HasUnlocked(lm.ID) {
		return u
	}
	out := u.clone()
	out.Points += points
	out.UnlockedIDs = append(out.UnlockedIDs, lm.ID)
	if !contains(out.Inventory, lm.RewardIcon) {
		out.Inventory = append(out.Inventory, lm.RewardIcon)
	}
	return out
}

// AttachPhoto stores or refreshes the player's photo of a landmark.
func AttachPhoto(u UserState, landmarkID, imageBase64 string) UserState {
	out := u.clone()
	if out.Photos == nil {
		out.Photos = make(map[string]string)
	}
	out.Photos[landmarkID] = imageBase64
	return out
}

// Spend deducts points for shop purchases.
func Spend(u UserState, points int) (UserState, error) {
	if u.Points < points {
		return u, ErrInsufficientPoints
	}
	out := u.clone()
	out.Points -= points
	return out, nil
}

// AddBonus grants loose points (promo codes), with no unlock attached.
func AddBonus(u UserState, points int) UserState {
	out := u.clone()
	out.Points += points
	return out
}

func (u UserState) clone() UserState {
	out := u
	out.UnlockedIDs = append([]string(nil), u.UnlockedIDs...)
	out.Inventory = append([]string(nil), u.Inventory...)
	out.RedeemedCoupons = append([]string(nil), u.RedeemedCoupons...)
	out.UnlockedHints = append([]string(nil), u.UnlockedHints...)
	if u.Photos != nil {
		out.Photos = make(map[string]string, len(u.Photos))
		for k, v := range u.Photos {
			out.Photos[k] = v
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
