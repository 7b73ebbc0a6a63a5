package quest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoquest/api/internal/geo"
)

var (
	// ~50 m northeast of Bagrati Cathedral.
	nearBagrati = geo.Point{Lat: 42.27765, Lng: 42.70465}
	// ~1.5 km south of Bagrati Cathedral.
	farFromBagrati = geo.Point{Lat: 42.2638, Lng: 42.7043}
	// Due north of Bagrati Cathedral, ~800.2 m and ~799.0 m away:
	// straddling the gate while both round to within a meter of it.
	justOutsideGate = geo.Point{Lat: 42.2844965, Lng: 42.7043}
	justInsideGate  = geo.Point{Lat: 42.2844856, Lng: 42.7043}
)

func confirmedVerdict(place string, points int) Verdict {
	return Verdict{
		LocationConfirmed: true,
		PlaceName:         place,
		Story:             "A thousand years of history stand before you.",
		PointsEarned:      points,
		NextQuestHint:     "Seek the golden beasts by the river.",
	}
}

func neverUnlocked(string) bool { return false }

func TestReconcileConfirmedNearby(t *testing.T) {
	// Scenario A: confirmed at ~50 m, landmark locked.
	rc := NewReconciler()
	res := rc.Reconcile(confirmedVerdict("Bagrati Cathedral", 150), Registry(), nearBagrati, neverUnlocked)

	assert.True(t, res.LocationConfirmed)
	assert.Equal(t, "bagrati", res.LandmarkID)
	assert.Equal(t, 150, res.PointsEarned)
	assert.True(t, res.Unlock)
	assert.Equal(t, "👑", res.RewardIcon)
	assert.Less(t, res.DistanceMeters, 100)
}

func TestReconcileTooFar(t *testing.T) {
	// Scenario B: confirmed at ~1.5 km; the gate overrides the model.
	rc := NewReconciler()
	res := rc.Reconcile(confirmedVerdict("Bagrati Cathedral", 150), Registry(), farFromBagrati, neverUnlocked)

	assert.False(t, res.LocationConfirmed)
	assert.Equal(t, "Too Far Away!", res.PlaceName)
	assert.Zero(t, res.PointsEarned)
	assert.False(t, res.Unlock)
	assert.Contains(t, res.Story, "Bagrati Cathedral")
	assert.Greater(t, res.DistanceMeters, int(MaxUnlockDistance))
}

func TestReconcileGateBoundary(t *testing.T) {
	// The gate compares the un-rounded distance. A scan at ~800.2 m is
	// rejected even though the display distance rounds down to 800; a
	// scan at ~799.0 m passes.
	rc := NewReconciler()

	out := rc.Reconcile(confirmedVerdict("Bagrati Cathedral", 150), Registry(), justOutsideGate, neverUnlocked)
	assert.False(t, out.LocationConfirmed)
	assert.Equal(t, "Too Far Away!", out.PlaceName)
	assert.False(t, out.Unlock)
	assert.Zero(t, out.PointsEarned)
	assert.Equal(t, 800, out.DistanceMeters)

	in := rc.Reconcile(confirmedVerdict("Bagrati Cathedral", 150), Registry(), justInsideGate, neverUnlocked)
	assert.True(t, in.LocationConfirmed)
	assert.True(t, in.Unlock)
	assert.Equal(t, 150, in.PointsEarned)
	assert.Equal(t, 799, in.DistanceMeters)
}

func TestReconcileFloorsZeroPointUnlock(t *testing.T) {
	// The schema only forbids negative points, so a confirmed verdict
	// may claim zero. An unlock must still carry a positive grant.
	rc := NewReconciler()

	res := rc.Reconcile(confirmedVerdict("Bagrati Cathedral", 0), Registry(), nearBagrati, neverUnlocked)
	require.True(t, res.LocationConfirmed)
	require.True(t, res.Unlock)
	assert.Equal(t, MinUnlockPoints, res.PointsEarned)

	u := NewUserState("u1", "Nino")
	lm, _ := LandmarkByID(res.LandmarkID)
	after := Grant(u, lm, res.PointsEarned)
	assert.True(t, after.HasUnlocked("bagrati"))
	assert.Greater(t, after.Points, u.Points)

	// Revisits are not floored; nothing is granted anyway.
	revisit := rc.Reconcile(confirmedVerdict("Bagrati Cathedral", 0), Registry(), nearBagrati, after.HasUnlocked)
	assert.False(t, revisit.Unlock)
	assert.Zero(t, revisit.PointsEarned)
}

func TestReconcileGateIgnoresClaimedPoints(t *testing.T) {
	// Whatever the model claims, beyond 800 m yields zero points.
	rc := NewReconciler()
	for _, claimed := range []int{1, 100, 100000} {
		res := rc.Reconcile(confirmedVerdict("Gelati Monastery", claimed), Registry(), nearBagrati, neverUnlocked)
		require.False(t, res.LocationConfirmed, "claimed %d points", claimed)
		require.Zero(t, res.PointsEarned)
	}
}

func TestReconcileUnmatchedPassThrough(t *testing.T) {
	// Scenario C: unknown place name passes through with no landmark
	// attached, so no reward is attachable.
	rc := NewReconciler()
	v := confirmedVerdict("Eiffel Tower", 200)
	res := rc.Reconcile(v, Registry(), nearBagrati, neverUnlocked)

	want := FinalResult{Verdict: v}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestReconcileUnconfirmedPassThrough(t *testing.T) {
	rc := NewReconciler()
	v := Verdict{
		LocationConfirmed: false,
		PlaceName:         "Not sure",
		Story:             "This doesn't look like any landmark I know.",
	}
	res := rc.Reconcile(v, Registry(), nearBagrati, neverUnlocked)

	want := FinalResult{Verdict: v}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestReconcileRevisit(t *testing.T) {
	// Scenario D: already unlocked: confirmed, but no unlock intent.
	rc := NewReconciler()
	res := rc.Reconcile(confirmedVerdict("Bagrati Cathedral", 150), Registry(), nearBagrati, func(id string) bool {
		return id == "bagrati"
	})

	assert.True(t, res.LocationConfirmed)
	assert.Equal(t, "bagrati", res.LandmarkID)
	assert.False(t, res.Unlock)
}

func TestReconcileKeepsVerdictRewardIcon(t *testing.T) {
	rc := NewReconciler()
	v := confirmedVerdict("Bagrati Cathedral", 150)
	v.RewardIcon = "⭐"
	res := rc.Reconcile(v, Registry(), nearBagrati, neverUnlocked)
	assert.Equal(t, "⭐", res.RewardIcon)
}

func TestSubstringMatcher(t *testing.T) {
	reg := Registry()
	m := SubstringMatcher{}

	tests := []struct {
		name   string
		place  string
		wantID string
		wantOK bool
	}{
		{"exact", "Bagrati Cathedral", "bagrati", true},
		{"case insensitive", "bagrati cathedral", "bagrati", true},
		{"verdict contains registry name", "The Bagrati Cathedral of Kutaisi, Georgia", "bagrati", true},
		{"registry name contains verdict", "Gelati", "gelati", true},
		{"whitespace trimmed", "  White Bridge  ", "white-bridge", true},
		{"unknown", "Eiffel Tower", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lm, ok := m.Match(tt.place, reg)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, lm.ID)
		})
	}
}

func TestRegistrySeed(t *testing.T) {
	lm, ok := LandmarkByID("bagrati")
	require.True(t, ok)
	assert.Equal(t, geo.Point{Lat: 42.2773, Lng: 42.7043}, lm.Position)
	assert.Equal(t, "👑", lm.RewardIcon)

	// Registry copies must be independent.
	a := Registry()
	a[0].Name = "mutated"
	assert.Equal(t, "Bagrati Cathedral", Registry()[0].Name)
}

func TestConnectionErrorVerdictReconciles(t *testing.T) {
	rc := NewReconciler()
	res := rc.Reconcile(ConnectionErrorVerdict(), Registry(), nearBagrati, neverUnlocked)
	assert.False(t, res.LocationConfirmed)
	assert.Zero(t, res.PointsEarned)
	assert.Empty(t, res.LandmarkID)
}
