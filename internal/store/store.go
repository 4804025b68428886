// Package store persists saved gameplans in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/xtding233/gameplan-backend/internal/gameplan"
	"github.com/xtding233/gameplan-backend/internal/store/migrations"
)

// ErrNotFound is returned when a team has no saved gameplan.
var ErrNotFound = errors.New("gameplan not found")

// Store persists one gameplan per team.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// TeamSummary is the listing row for a saved gameplan.
type TeamSummary struct {
	TeamID          int       `json:"teamId"`
	OffensiveScheme string    `json:"offensiveScheme"`
	DefensiveScheme string    `json:"defensiveScheme"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Open opens the database at path and applies pending migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetGameplan loads the saved gameplan for teamID.
func (s *Store) GetGameplan(ctx context.Context, teamID int) (*gameplan.Gameplan, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM gameplans WHERE team_id = ?`, teamID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get gameplan %d: %w", teamID, err)
	}

	var g gameplan.Gameplan
	if err := json.Unmarshal([]byte(payload), &g); err != nil {
		return nil, fmt.Errorf("decode gameplan %d: %w", teamID, err)
	}
	g.TeamID = teamID
	return &g, nil
}

// SaveGameplan inserts or replaces the team's gameplan.
func (s *Store) SaveGameplan(ctx context.Context, g *gameplan.Gameplan) error {
	if g == nil {
		return fmt.Errorf("gameplan is required")
	}
	if g.TeamID <= 0 {
		return fmt.Errorf("team id is required")
	}
	payload, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode gameplan %d: %w", g.TeamID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO gameplans (team_id, offensive_scheme, defensive_scheme, payload, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(team_id) DO UPDATE SET
		   offensive_scheme = excluded.offensive_scheme,
		   defensive_scheme = excluded.defensive_scheme,
		   payload = excluded.payload,
		   updated_at = excluded.updated_at`,
		g.TeamID, g.OffensiveScheme, g.DefensiveScheme, string(payload), s.now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save gameplan %d: %w", g.TeamID, err)
	}
	return nil
}

// ListTeams returns every saved gameplan's summary ordered by team.
func (s *Store) ListTeams(ctx context.Context) ([]TeamSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT team_id, offensive_scheme, defensive_scheme, updated_at FROM gameplans ORDER BY team_id`)
	if err != nil {
		return nil, fmt.Errorf("list gameplans: %w", err)
	}
	defer rows.Close()

	teams := []TeamSummary{}
	for rows.Next() {
		var (
			t       TeamSummary
			updated int64
		)
		if err := rows.Scan(&t.TeamID, &t.OffensiveScheme, &t.DefensiveScheme, &updated); err != nil {
			return nil, fmt.Errorf("scan gameplan: %w", err)
		}
		t.UpdatedAt = time.UnixMilli(updated).UTC()
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list gameplans: %w", err)
	}
	return teams, nil
}
