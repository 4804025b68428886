package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/xtding233/gameplan-backend/internal/gameplan"
	"github.com/xtding233/gameplan-backend/internal/gameplan/gameplantest"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "gameplans.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open("  "); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestSaveGetRoundTrip(t *testing.T) {
	t.Parallel()

	s := openTempStore(t)
	ctx := context.Background()
	want := gameplantest.WestCoast(12)
	if err := s.SaveGameplan(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.GetGameplan(ctx, 12)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !gameplan.Equal(got, want) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	t.Parallel()

	s := openTempStore(t)
	if _, err := s.GetGameplan(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSaveUpserts(t *testing.T) {
	t.Parallel()

	s := openTempStore(t)
	ctx := context.Background()
	if err := s.SaveGameplan(ctx, gameplantest.WestCoast(3)); err != nil {
		t.Fatalf("first save: %v", err)
	}
	next := gameplantest.AirRaid(3)
	if err := s.SaveGameplan(ctx, next); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, err := s.GetGameplan(ctx, 3)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.OffensiveScheme != "Air Raid" || got.OffFormations[2].TraditionalRun != 0 {
		t.Fatalf("got %+v", got)
	}
	teams, err := s.ListTeams(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(teams) != 1 {
		t.Fatalf("teams = %d, want 1", len(teams))
	}
}

func TestSaveRejectsMissingTeam(t *testing.T) {
	t.Parallel()

	s := openTempStore(t)
	if err := s.SaveGameplan(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil gameplan")
	}
	if err := s.SaveGameplan(context.Background(), gameplantest.WestCoast(0)); err == nil {
		t.Fatal("expected error for team 0")
	}
}

func TestListTeams(t *testing.T) {
	t.Parallel()

	s := openTempStore(t)
	stamp := time.Date(2026, time.March, 4, 18, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return stamp }
	ctx := context.Background()
	for _, g := range []*gameplan.Gameplan{gameplantest.AirRaid(20), gameplantest.WestCoast(4)} {
		if err := s.SaveGameplan(ctx, g); err != nil {
			t.Fatalf("save %d: %v", g.TeamID, err)
		}
	}

	teams, err := s.ListTeams(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []TeamSummary{
		{TeamID: 4, OffensiveScheme: "West Coast", DefensiveScheme: "Old School", UpdatedAt: stamp},
		{TeamID: 20, OffensiveScheme: "Air Raid", DefensiveScheme: "Old School", UpdatedAt: stamp},
	}
	if len(teams) != len(want) {
		t.Fatalf("teams = %+v", teams)
	}
	for i := range want {
		if teams[i] != want[i] {
			t.Fatalf("teams[%d] = %+v, want %+v", i, teams[i], want[i])
		}
	}
}

func TestMigrationsApplyOnce(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "gameplans.db")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.SaveGameplan(context.Background(), gameplantest.WestCoast(1)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	var n int
	if err := second.db.QueryRow("SELECT COUNT(*) FROM " + migrationTable).Scan(&n); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if n != 1 {
		t.Fatalf("migrations recorded = %d, want 1", n)
	}
	if _, err := second.GetGameplan(context.Background(), 1); err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
}

func TestUpSection(t *testing.T) {
	cases := []struct{ in, want string }{
		{in: "CREATE TABLE a (x);", want: "CREATE TABLE a (x);"},
		{in: "-- +migrate Up\nCREATE TABLE a (x);\n", want: "\nCREATE TABLE a (x);\n"},
		{in: "-- +migrate Up\nUP;\n-- +migrate Down\nDOWN;\n", want: "\nUP;\n"},
	}
	for _, c := range cases {
		if got := upSection(c.in); got != c.want {
			t.Errorf("upSection(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
