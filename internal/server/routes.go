package server

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/geoquest/api/internal/audio"
	"github.com/geoquest/api/internal/vision"
)

func addRoutes(r chi.Router, logger *slog.Logger, db *sql.DB, store Store, states *StateCache, vc *vision.Client, narration *audio.Cache, spaDir string) {
	broker := NewBroker()

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("GeoQuest API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))

	// Player routes, Bearer session token.
	r.Route("/api", func(r chi.Router) {
		r.Post("/join", handleJoin(store))
		r.Get("/game/state", handleGameState(store, states))
		r.Post("/game/verify", handleVerify(logger, store, states, vc, broker))
		r.Post("/game/audio", handleAudio(logger, store, narration, vc))
		r.Post("/game/itinerary", handleItinerary(logger, store, vc))
		r.Post("/game/promo", handlePromo(store, states, broker))
		r.Get("/game/events", handleEvents(store, broker))
		r.Post("/shop/hints", handleBuyHint(store, states, broker))
		r.Post("/shop/coupons", handleRedeemCoupon(store, states, broker))
	})

	// Admin routes, cookie session.
	r.Post("/api/admin/login", handleAdminLogin(store))
	r.Post("/api/admin/logout", handleAdminLogout(store))
	r.Get("/api/admin/me", handleAdminMe(store))
	r.Get("/api/admin/players", handleAdminListPlayers(store))
	r.Delete("/api/admin/players/{playerID}", handleAdminDeletePlayer(store, states))

	if spaDir != "" {
		if info, err := os.Stat(spaDir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", spaDir)
			r.NotFound(handleSPA(spaDir))
		}
	}
}
