package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/geoquest/api/internal/audio"
	"github.com/geoquest/api/internal/database"
	"github.com/geoquest/api/internal/geo"
	"github.com/geoquest/api/internal/quest"
	"github.com/geoquest/api/internal/vision"
)

// Device positions used across the handler tests. The near point is
// about 50 m from Bagrati Cathedral, the far one about 1.5 km.
var (
	nearBagrati    = geo.Point{Lat: 42.27765, Lng: 42.70465}
	farFromBagrati = geo.Point{Lat: 42.2638, Lng: 42.7043}
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := NewSQLiteStore(ctx, db)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	return store
}

// testRouter assembles the full route tree against an in-memory store
// and the given stub inference server. A short persist delay keeps the
// write coalescer out of the way.
func testRouter(t *testing.T, visionURL string) *chi.Mux {
	t.Helper()
	ctx := context.Background()
	logger := testLogger()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := NewSQLiteStore(ctx, db)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	if err := SeedAdmin(ctx, logger, store, "admin@geoquest.local", "change-me"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	states := NewStateCache(store, logger, time.Millisecond)
	t.Cleanup(func() { states.Flush(context.Background()) })

	vc := vision.NewClient(visionURL, "", logger)
	narration := audio.NewCache()

	r := chi.NewRouter()
	addRoutes(r, logger, db, store, states, vc, narration, "")
	return r
}

// jpegBase64 returns a small valid JPEG as base64.
func jpegBase64(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func joinPlayer(t *testing.T, r *chi.Mux, name string) string {
	t.Helper()
	body, _ := json.Marshal(JoinRequest{Name: name})
	req := httptest.NewRequest(http.MethodPost, "/api/join", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("join: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp JoinResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Token == "" {
		t.Fatalf("join: empty token")
	}
	return resp.Token
}

func authedRequest(method, target, token string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// verdictServer is a stub inference server whose /verify endpoint
// always answers with the given verdict.
func verdictServer(t *testing.T, v quest.Verdict) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/verify" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(v)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestJoin(t *testing.T) {
	r := testRouter(t, "http://unused.invalid")

	body, _ := json.Marshal(JoinRequest{Name: "Nino"})
	req := httptest.NewRequest(http.MethodPost, "/api/join", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp JoinResponse
	json.NewDecoder(w.Body).Decode(&resp)

	if resp.Player.Name != "Nino" {
		t.Errorf("expected name Nino, got %q", resp.Player.Name)
	}
	if resp.Player.Points != quest.StartingPoints {
		t.Errorf("expected %d starting points, got %d", quest.StartingPoints, resp.Player.Points)
	}
	if len(resp.Player.UnlockedIDs) != 0 {
		t.Errorf("expected no unlocks, got %v", resp.Player.UnlockedIDs)
	}
}

func TestJoinRequiresName(t *testing.T) {
	r := testRouter(t, "http://unused.invalid")

	body, _ := json.Marshal(JoinRequest{Name: "   "})
	req := httptest.NewRequest(http.MethodPost, "/api/join", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGameStateUnauthorized(t *testing.T) {
	r := testRouter(t, "http://unused.invalid")

	req := httptest.NewRequest(http.MethodGet, "/api/game/state", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestGameState(t *testing.T) {
	r := testRouter(t, "http://unused.invalid")
	token := joinPlayer(t, r, "Nino")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodGet, "/api/game/state", token, nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp StateResponse
	json.NewDecoder(w.Body).Decode(&resp)

	if len(resp.Landmarks) != len(quest.Registry()) {
		t.Fatalf("expected %d landmarks, got %d", len(quest.Registry()), len(resp.Landmarks))
	}
	for _, lm := range resp.Landmarks {
		if lm.IsUnlocked {
			t.Errorf("landmark %s unlocked for a fresh player", lm.ID)
		}
		if len(lm.Facts) != 0 {
			t.Errorf("landmark %s revealed facts while locked", lm.ID)
		}
		if len(lm.Hints) != 0 {
			t.Errorf("landmark %s revealed hints without purchase", lm.ID)
		}
	}
	if len(resp.Coupons) == 0 {
		t.Errorf("expected coupon catalog in state response")
	}
}

func TestVerifyUnlockFlow(t *testing.T) {
	srv := verdictServer(t, quest.Verdict{
		LocationConfirmed: true,
		PlaceName:         "Bagrati Cathedral",
		Story:             "A thousand years of stone.",
		PointsEarned:      30,
		NextQuestHint:     "Seek the golden fleece.",
	})
	r := testRouter(t, srv.URL)
	token := joinPlayer(t, r, "Nino")
	img := jpegBase64(t)

	body, _ := json.Marshal(VerifyRequest{Image: img, UserLocation: &nearBagrati})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodPost, "/api/game/verify", token, body))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp VerifyResponse
	json.NewDecoder(w.Body).Decode(&resp)

	if !resp.LocationConfirmed {
		t.Fatalf("expected confirmed result: %+v", resp)
	}
	if resp.LandmarkID != "bagrati" {
		t.Errorf("expected landmark bagrati, got %q", resp.LandmarkID)
	}
	if !resp.Unlock {
		t.Errorf("expected first visit to unlock")
	}
	if resp.Points != quest.StartingPoints+30 {
		t.Errorf("expected %d points, got %d", quest.StartingPoints+30, resp.Points)
	}
	if resp.DistanceMeters == 0 || resp.DistanceMeters > 200 {
		t.Errorf("implausible distance %d m", resp.DistanceMeters)
	}

	// Revisit: photo refreshes, nothing is granted again.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodPost, "/api/game/verify", token, body))

	if w.Code != http.StatusOK {
		t.Fatalf("revisit: expected 200, got %d", w.Code)
	}
	var again VerifyResponse
	json.NewDecoder(w.Body).Decode(&again)

	if again.Unlock {
		t.Errorf("revisit must not unlock again")
	}
	if again.Points != resp.Points {
		t.Errorf("revisit changed points: %d -> %d", resp.Points, again.Points)
	}

	// State now shows the unlock with facts and the stored photo.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodGet, "/api/game/state", token, nil))
	var state StateResponse
	json.NewDecoder(w.Body).Decode(&state)

	for _, lm := range state.Landmarks {
		if lm.ID != "bagrati" {
			continue
		}
		if !lm.IsUnlocked {
			t.Errorf("bagrati not unlocked in state")
		}
		if len(lm.Facts) == 0 {
			t.Errorf("unlocked landmark has no facts")
		}
		if lm.UserPhoto != img {
			t.Errorf("photo not attached")
		}
	}
}

func TestVerifyTooFar(t *testing.T) {
	srv := verdictServer(t, quest.Verdict{
		LocationConfirmed: true,
		PlaceName:         "Bagrati Cathedral",
		PointsEarned:      30,
	})
	r := testRouter(t, srv.URL)
	token := joinPlayer(t, r, "Nino")

	body, _ := json.Marshal(VerifyRequest{Image: jpegBase64(t), UserLocation: &farFromBagrati})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodPost, "/api/game/verify", token, body))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp VerifyResponse
	json.NewDecoder(w.Body).Decode(&resp)

	if resp.LocationConfirmed {
		t.Fatalf("distance gate did not reject: %+v", resp)
	}
	if resp.PlaceName != "Too Far Away!" {
		t.Errorf("expected Too Far Away!, got %q", resp.PlaceName)
	}
	if resp.Points != quest.StartingPoints {
		t.Errorf("rejected scan changed points to %d", resp.Points)
	}
	if resp.Unlock {
		t.Errorf("rejected scan set unlock")
	}
}

func TestVerifyRejectsBadCapture(t *testing.T) {
	r := testRouter(t, "http://unused.invalid")
	token := joinPlayer(t, r, "Nino")

	cases := []struct {
		name string
		req  VerifyRequest
	}{
		{"missing image", VerifyRequest{UserLocation: &nearBagrati}},
		{"missing location", VerifyRequest{Image: jpegBase64(t)}},
		{"not an image", VerifyRequest{Image: base64.StdEncoding.EncodeToString([]byte("nope")), UserLocation: &nearBagrati}},
	}
	for _, tc := range cases {
		body, _ := json.Marshal(tc.req)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, authedRequest(http.MethodPost, "/api/game/verify", token, body))
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tc.name, w.Code)
		}
	}
}

func TestVerifyInferenceUnreachable(t *testing.T) {
	r := testRouter(t, "http://127.0.0.1:1")
	token := joinPlayer(t, r, "Nino")

	body, _ := json.Marshal(VerifyRequest{Image: jpegBase64(t), UserLocation: &nearBagrati})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodPost, "/api/game/verify", token, body))

	// Inference failure is not a request failure.
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp VerifyResponse
	json.NewDecoder(w.Body).Decode(&resp)

	if resp.LocationConfirmed {
		t.Errorf("unreachable inference confirmed a visit")
	}
	if resp.PlaceName != "Connection Error" {
		t.Errorf("expected Connection Error, got %q", resp.PlaceName)
	}
	if resp.Points != quest.StartingPoints {
		t.Errorf("degraded verdict changed points to %d", resp.Points)
	}
}

func TestAudioCachesSynthesis(t *testing.T) {
	var calls int
	pcm := []byte{0x00, 0x40, 0x00, 0xC0}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio" {
			http.NotFound(w, r)
			return
		}
		calls++
		json.NewEncoder(w).Encode(map[string]string{
			"audio": base64.StdEncoding.EncodeToString(pcm),
		})
	}))
	defer srv.Close()

	r := testRouter(t, srv.URL)
	token := joinPlayer(t, r, "Nino")

	body, _ := json.Marshal(AudioRequest{Text: "Welcome to Kutaisi", Type: "guide"})
	want := base64.StdEncoding.EncodeToString(pcm)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, authedRequest(http.MethodPost, "/api/game/audio", token, body))

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var resp AudioResponse
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.Audio != want {
			t.Errorf("audio payload mismatch")
		}
	}

	if calls != 1 {
		t.Errorf("expected 1 synthesis call, got %d", calls)
	}
}

func TestAudioSynthesisFailure(t *testing.T) {
	r := testRouter(t, "http://127.0.0.1:1")
	token := joinPlayer(t, r, "Nino")

	body, _ := json.Marshal(AudioRequest{Text: "Welcome", Type: "guide"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodPost, "/api/game/audio", token, body))

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}

func TestItinerary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/itinerary" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode([]vision.ItineraryStep{
			{Time: "10:00", Title: "Bagrati Cathedral", LandmarkName: "Bagrati Cathedral"},
			{Time: "13:00", Title: "Lunch at the bazaar"},
		})
	}))
	defer srv.Close()

	r := testRouter(t, srv.URL)
	token := joinPlayer(t, r, "Nino")

	body, _ := json.Marshal(ItineraryRequest{Duration: "1 day", Vibe: "history"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodPost, "/api/game/itinerary", token, body))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var steps []vision.ItineraryStep
	json.NewDecoder(w.Body).Decode(&steps)
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
}
