package server

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/geoquest/api/internal/quest"
)

// SQLiteStore persists player profiles as JSONB documents, one row per
// player, with thin relational tables for sessions and admins.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS players (
			id   TEXT PRIMARY KEY,
			data JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS player_sessions (
			id        TEXT PRIMARY KEY,
			player_id TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS admins (
			id            TEXT PRIMARY KEY,
			email         TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS admin_sessions (
			id       TEXT PRIMARY KEY,
			admin_id TEXT NOT NULL
		)`,
	} {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return nil, fmt.Errorf("creating table: %w", err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func genID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func (s *SQLiteStore) CreatePlayer(ctx context.Context, name string) (quest.UserState, string, error) {
	u := quest.NewUserState(genID(), name)
	data, err := json.Marshal(u)
	if err != nil {
		return quest.UserState{}, "", err
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO players (id, data) VALUES (?, jsonb(?))
	`, u.ID, string(data)); err != nil {
		return quest.UserState{}, "", err
	}

	token := genID()
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO player_sessions (id, player_id) VALUES (?, ?)
	`, token, u.ID); err != nil {
		return quest.UserState{}, "", err
	}
	return u, token, nil
}

func (s *SQLiteStore) PlayerFromToken(ctx context.Context, token string) (string, error) {
	var playerID string
	err := s.db.QueryRowContext(ctx, `
		SELECT player_id FROM player_sessions WHERE id = ?
	`, token).Scan(&playerID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errNoSession
	}
	return playerID, err
}

func (s *SQLiteStore) GetPlayer(ctx context.Context, id string) (quest.UserState, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `
		SELECT json(data) FROM players WHERE id = ?
	`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return quest.UserState{}, ErrNotFound
	}
	if err != nil {
		return quest.UserState{}, err
	}

	var u quest.UserState
	if err := json.Unmarshal([]byte(data), &u); err != nil {
		return quest.UserState{}, fmt.Errorf("decoding player %s: %w", id, err)
	}
	return u, nil
}

func (s *SQLiteStore) SavePlayer(ctx context.Context, u quest.UserState) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE players SET data = jsonb(?) WHERE id = ?
	`, string(data), u.ID)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) ListPlayers(ctx context.Context) ([]PlayerSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT json(data) FROM players`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []PlayerSummary{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var u quest.UserState
		if err := json.Unmarshal([]byte(data), &u); err != nil {
			return nil, err
		}
		summaries = append(summaries, PlayerSummary{
			ID:       u.ID,
			Name:     u.Name,
			Points:   u.Points,
			Level:    u.Level(),
			Unlocked: len(u.UnlockedIDs),
			IsAdmin:  u.IsAdmin,
		})
	}
	return summaries, rows.Err()
}

func (s *SQLiteStore) DeletePlayer(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM player_sessions WHERE player_id = ?`, id); err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) CountAdmins(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count)
	return count, err
}

func (s *SQLiteStore) CreateAdmin(ctx context.Context, email, passwordHash string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admins (id, email, password_hash) VALUES (?, ?, ?)
	`, genID(), email, passwordHash)
	return err
}

func (s *SQLiteStore) AdminByEmail(ctx context.Context, email string) (string, string, error) {
	var adminID, passwordHash string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash FROM admins WHERE email = ?
	`, email).Scan(&adminID, &passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	return adminID, passwordHash, err
}

func (s *SQLiteStore) CreateAdminSession(ctx context.Context, adminID string) (string, error) {
	id := genID()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_sessions (id, admin_id) VALUES (?, ?)
	`, id, adminID)
	return id, err
}

func (s *SQLiteStore) AdminFromSession(ctx context.Context, sessionID string) (adminSession, error) {
	var sess adminSession
	err := s.db.QueryRowContext(ctx, `
		SELECT a.id, a.email
		FROM admin_sessions s
		JOIN admins a ON a.id = s.admin_id
		WHERE s.id = ?
	`, sessionID).Scan(&sess.AdminID, &sess.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return adminSession{}, errNoAdminSession
	}
	return sess, err
}

func (s *SQLiteStore) DeleteAdminSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE id = ?`, sessionID)
	return err
}
