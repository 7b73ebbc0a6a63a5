package server

import (
	"net/http"
	"strings"
)

type JoinRequest struct {
	Name string `json:"name"`
}

type JoinResponse struct {
	Token  string     `json:"token"`
	Player PlayerView `json:"player"`
}

func handleJoin(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req JoinRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		u, token, err := store.CreatePlayer(r.Context(), req.Name)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, JoinResponse{
			Token:  token,
			Player: playerView(u),
		})
	}
}
