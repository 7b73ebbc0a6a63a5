package quest

import (
	"fmt"
	"math"

	"github.com/geoquest/api/internal/geo"
)

// MaxUnlockDistance is the distance gate in meters: a confirmed verdict
// for a landmark farther than this from the device is rejected.
const MaxUnlockDistance = 800.0

// MinUnlockPoints floors the grant attached to a first-time unlock.
// The model's schema only forbids negative points, so a confirmed
// verdict may legally claim zero; the ledger must still never record a
// locked to unlocked transition without a positive grant.
const MinUnlockPoints = 10

// Verdict is the raw structured output of the vision inference call,
// pre-reconciliation. Field names follow the inference wire schema.
type Verdict struct {
	LocationConfirmed bool   `json:"location_confirmed"`
	PlaceName         string `json:"place_name"`
	Story             string `json:"story"`
	PointsEarned      int    `json:"points_earned"`
	NextQuestHint     string `json:"next_quest_hint"`
	RewardIcon        string `json:"reward_icon,omitempty"`
}

// FinalResult is a Verdict after reconciliation. It is the only shape the
// reward ledger and the client ever act on. LandmarkID is empty when the
// verdict was not confirmed or named no known landmark; no reward is
// attachable in that case.
type FinalResult struct {
	Verdict
	LandmarkID     string `json:"landmarkId,omitempty"`
	DistanceMeters int    `json:"distanceMeters,omitempty"`
	Unlock         bool   `json:"unlock"`
}

// Reconciler applies landmark matching and the distance gate to raw
// verdicts.
type Reconciler struct {
	Matcher     Matcher
	MaxDistance float64 // meters
}

func NewReconciler() *Reconciler {
	return &Reconciler{
		Matcher:     SubstringMatcher{},
		MaxDistance: MaxUnlockDistance,
	}
}

// Reconcile turns a raw verdict into a FinalResult:
//
//  1. Unconfirmed verdicts pass through untouched.
//  2. The place name is matched against the registry; no match is a
//     pass-through with no landmark attached and no reward attachable.
//  3. A matched landmark farther than MaxDistance overrides the verdict
//     to rejected with zero points, whatever the model claimed. The
//     un-rounded distance feeds the comparison; rounding is for display.
//  4. Within the gate, Unlock is set only if the landmark is not already
//     unlocked. A revisit refreshes the photo but grants nothing.
//  5. A first-time unlock always carries a positive grant: claimed
//     points below MinUnlockPoints are raised to it.
func (rc *Reconciler) Reconcile(v Verdict, landmarks []Landmark, device geo.Point, alreadyUnlocked func(id string) bool) FinalResult {
	if !v.LocationConfirmed {
		return FinalResult{Verdict: v}
	}

	lm, ok := rc.Matcher.Match(v.PlaceName, landmarks)
	if !ok {
		return FinalResult{Verdict: v}
	}

	dist := device.Haversine(lm.Position)
	meters := int(math.Round(dist))

	if dist > rc.MaxDistance {
		return FinalResult{
			Verdict: Verdict{
				LocationConfirmed: false,
				PlaceName:         "Too Far Away!",
				Story: fmt.Sprintf(
					"That certainly looks like %s, but you are %d m away from it. Rewards only unlock on site.",
					lm.Name, meters),
				PointsEarned:  0,
				NextQuestHint: fmt.Sprintf("Move closer to %s and scan again.", lm.Name),
			},
			LandmarkID:     lm.ID,
			DistanceMeters: meters,
		}
	}

	res := FinalResult{
		Verdict:        v,
		LandmarkID:     lm.ID,
		DistanceMeters: meters,
		Unlock:         !alreadyUnlocked(lm.ID),
	}
	if res.Unlock && res.PointsEarned < MinUnlockPoints {
		res.PointsEarned = MinUnlockPoints
	}
	if res.RewardIcon == "" {
		res.RewardIcon = lm.RewardIcon
	}
	return res
}

// ConnectionErrorVerdict is the safe verdict surfaced when the inference
// boundary is unreachable or returns garbage. It reconciles to a
// rejected FinalResult, so the caller never needs a separate error path.
func ConnectionErrorVerdict() Verdict {
	return Verdict{
		LocationConfirmed: false,
		PlaceName:         "Connection Error",
		Story:             "We couldn't reach the guide service. Check your connection and scan again.",
		PointsEarned:      0,
		NextQuestHint:     "Try again in a moment.",
	}
}
