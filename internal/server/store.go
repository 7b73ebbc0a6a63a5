package server

import (
	"context"
	"errors"

	"github.com/geoquest/api/internal/quest"
)

var ErrNotFound = errors.New("not found")

type adminSession struct {
	AdminID string
	Email   string
}

// PlayerSummary is the admin-facing listing row.
type PlayerSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Points   int    `json:"points"`
	Level    int    `json:"level"`
	Unlocked int    `json:"unlocked"`
	IsAdmin  bool   `json:"isAdmin"`
}

type Store interface {
	CreatePlayer(ctx context.Context, name string) (quest.UserState, string, error)
	PlayerFromToken(ctx context.Context, token string) (string, error)
	GetPlayer(ctx context.Context, id string) (quest.UserState, error)
	SavePlayer(ctx context.Context, u quest.UserState) error
	ListPlayers(ctx context.Context) ([]PlayerSummary, error)
	DeletePlayer(ctx context.Context, id string) error

	CountAdmins(ctx context.Context) (int, error)
	CreateAdmin(ctx context.Context, email, passwordHash string) error
	AdminByEmail(ctx context.Context, email string) (adminID, passwordHash string, err error)
	CreateAdminSession(ctx context.Context, adminID string) (string, error)
	AdminFromSession(ctx context.Context, sessionID string) (adminSession, error)
	DeleteAdminSession(ctx context.Context, sessionID string) error
}
