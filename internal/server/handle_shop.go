package server

import (
	"errors"
	"net/http"

	"github.com/geoquest/api/internal/quest"
)

type HintPurchaseRequest struct {
	LandmarkID string `json:"landmarkId"`
}

type HintPurchaseResponse struct {
	Hints  []string   `json:"hints"`
	Player PlayerView `json:"player"`
}

func handleBuyHint(store Store, states *StateCache, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, err := playerFromRequest(r, store)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var req HintPurchaseRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		lm, ok := quest.LandmarkByID(req.LandmarkID)
		if !ok {
			writeError(w, http.StatusNotFound, "landmark not found")
			return
		}

		var purchaseErr error
		u, err := states.Update(r.Context(), playerID, func(cur quest.UserState) quest.UserState {
			next, err := quest.PurchaseHint(cur, lm.ID)
			if err != nil {
				purchaseErr = err
				return cur
			}
			return next
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if errors.Is(purchaseErr, quest.ErrAlreadyOwned) {
			writeError(w, http.StatusConflict, "hints already unlocked")
			return
		}
		if errors.Is(purchaseErr, quest.ErrInsufficientPoints) {
			writeError(w, http.StatusUnprocessableEntity, "not enough points")
			return
		}

		broker.Publish(playerID, Event{
			Type:   "points_changed",
			Points: u.Points,
			Level:  u.Level(),
		})
		writeJSON(w, http.StatusOK, HintPurchaseResponse{
			Hints:  lm.Hints,
			Player: playerView(u),
		})
	}
}

type CouponRequest struct {
	CouponID string `json:"couponId"`
}

type CouponResponse struct {
	Coupon quest.Coupon `json:"coupon"`
	Player PlayerView   `json:"player"`
}

func handleRedeemCoupon(store Store, states *StateCache, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, err := playerFromRequest(r, store)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var req CouponRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		c, ok := quest.CouponByID(req.CouponID)
		if !ok {
			writeError(w, http.StatusNotFound, "coupon not found")
			return
		}

		var redeemErr error
		u, err := states.Update(r.Context(), playerID, func(cur quest.UserState) quest.UserState {
			next, err := quest.RedeemCoupon(cur, c)
			if err != nil {
				redeemErr = err
				return cur
			}
			return next
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if errors.Is(redeemErr, quest.ErrAlreadyOwned) {
			writeError(w, http.StatusConflict, "coupon already redeemed")
			return
		}
		if errors.Is(redeemErr, quest.ErrInsufficientPoints) {
			writeError(w, http.StatusUnprocessableEntity, "not enough points")
			return
		}

		broker.Publish(playerID, Event{
			Type:   "points_changed",
			Points: u.Points,
			Level:  u.Level(),
		})
		writeJSON(w, http.StatusOK, CouponResponse{
			Coupon: c,
			Player: playerView(u),
		})
	}
}
