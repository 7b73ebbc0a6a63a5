package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi31"

	"github.com/geoquest/api/internal/vision"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi31.Spec {
	r := openapi31.NewReflector()
	r.Spec.Info.Title = "GeoQuest API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the GeoQuest proof-of-visit game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/join
	postJoin, _ := r.NewOperationContext(http.MethodPost, "/api/join")
	postJoin.SetSummary("Create a player")
	postJoin.SetDescription("Creates a player profile with the starting point grant. Returns a session token.")
	postJoin.AddReqStructure(JoinRequest{})
	postJoin.AddRespStructure(JoinResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postJoin)

	// GET /api/game/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/game/state")
	getState.SetSummary("Get game state")
	getState.SetDescription("Returns the player's progress and the landmark registry view. Requires Bearer token.")
	getState.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getState)

	// POST /api/game/verify
	postVerify, _ := r.NewOperationContext(http.MethodPost, "/api/game/verify")
	postVerify.SetSummary("Verify a landmark visit")
	postVerify.SetDescription("Submits a capture (image + coordinates) for vision verification, reconciles the " +
		"verdict against the registry and the 800 m distance gate, and applies the reward at most once. " +
		"Inference failures return a Connection Error result, not an error status. Requires Bearer token.")
	postVerify.AddReqStructure(VerifyRequest{})
	postVerify.AddRespStructure(VerifyResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postVerify.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postVerify.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postVerify)

	// POST /api/game/audio
	postAudio, _ := r.NewOperationContext(http.MethodPost, "/api/game/audio")
	postAudio.SetSummary("Narration audio")
	postAudio.SetDescription("Returns cached or freshly synthesized narration audio (base64 16-bit LE PCM, 24 kHz mono). Requires Bearer token.")
	postAudio.AddReqStructure(AudioRequest{})
	postAudio.AddRespStructure(AudioResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postAudio.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postAudio.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(postAudio)

	// POST /api/game/itinerary
	postItinerary, _ := r.NewOperationContext(http.MethodPost, "/api/game/itinerary")
	postItinerary.SetSummary("Plan an itinerary")
	postItinerary.SetDescription("Generates a day plan from duration and vibe. Requires Bearer token.")
	postItinerary.AddReqStructure(ItineraryRequest{})
	postItinerary.AddRespStructure([]vision.ItineraryStep{}, openapi.WithHTTPStatus(http.StatusOK))
	postItinerary.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(postItinerary)

	// POST /api/game/promo
	postPromo, _ := r.NewOperationContext(http.MethodPost, "/api/game/promo")
	postPromo.SetSummary("Redeem a promo code")
	postPromo.SetDescription("Fixed partner codes: landmark unlock with bonus, or tour-guide mode. Requires Bearer token.")
	postPromo.AddReqStructure(PromoRequest{})
	postPromo.AddRespStructure(PromoResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postPromo.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postPromo.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	_ = r.AddOperation(postPromo)

	// GET /api/game/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/game/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream for real-time unlock updates. Pass token as query parameter.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// POST /api/shop/hints
	postHints, _ := r.NewOperationContext(http.MethodPost, "/api/shop/hints")
	postHints.SetSummary("Buy hints")
	postHints.SetDescription("Spends points to reveal a landmark's hints. Requires Bearer token.")
	postHints.AddReqStructure(HintPurchaseRequest{})
	postHints.AddRespStructure(HintPurchaseResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postHints.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postHints.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	_ = r.AddOperation(postHints)

	// POST /api/shop/coupons
	postCoupons, _ := r.NewOperationContext(http.MethodPost, "/api/shop/coupons")
	postCoupons.SetSummary("Redeem a coupon")
	postCoupons.SetDescription("Spends points on a partner coupon. Requires Bearer token.")
	postCoupons.AddReqStructure(CouponRequest{})
	postCoupons.AddRespStructure(CouponResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postCoupons.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postCoupons.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	_ = r.AddOperation(postCoupons)

	// POST /api/admin/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/admin/login")
	postLogin.SetSummary("Admin login")
	postLogin.SetDescription("Authenticate with email and password. Sets admin_session cookie.")
	postLogin.AddReqStructure(AdminLoginRequest{})
	postLogin.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/admin/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/admin/logout")
	postLogout.SetSummary("Admin logout")
	postLogout.SetDescription("Clears admin session and cookie.")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLogout)

	// GET /api/admin/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/admin/me")
	getMe.SetSummary("Current admin")
	getMe.SetDescription("Returns the currently authenticated admin. Requires admin_session cookie.")
	getMe.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// GET /api/admin/players
	listPlayers, _ := r.NewOperationContext(http.MethodGet, "/api/admin/players")
	listPlayers.SetSummary("List players")
	listPlayers.SetDescription("Returns all player profiles. Requires admin_session cookie.")
	listPlayers.AddRespStructure([]PlayerSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	listPlayers.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(listPlayers)

	// DELETE /api/admin/players/{playerID}
	deletePlayer, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/players/{playerID}")
	deletePlayer.SetSummary("Delete player")
	deletePlayer.SetDescription("Deletes a player profile and its sessions. Requires admin_session cookie.")
	deletePlayer.AddReqStructure(struct {
		PlayerID string `path:"playerID"`
	}{})
	deletePlayer.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	deletePlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	deletePlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(deletePlayer)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
