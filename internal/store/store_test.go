package store

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/calligan/skirmish/internal/game"
)

func openTestStore(t *testing.T) *Manager {
	t.Helper()
	m, err := Open(filepath.Join(t.TempDir(), "battles.db"), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func sampleSnapshot(turn int, phase string) game.Snapshot {
	return game.Snapshot{
		Turn:  turn,
		Phase: phase,
		Units: []game.UnitSnapshot{
			{Name: "alpha", Faction: "player", X: 1, Y: 2, Health: 30, MaxHealth: 30, AP: 2, Weapon: "Rifle"},
			{Name: "bravo", Faction: "enemy", X: 7, Y: 8, Health: 12, MaxHealth: 25, AP: 0},
		},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	m := openTestStore(t)

	want := sampleSnapshot(3, "enemy")
	if err := m.SaveSnapshot("battle-1", want); err != nil {
		t.Fatal(err)
	}

	got, err := m.LatestSnapshot("battle-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Turn != want.Turn || got.Phase != want.Phase {
		t.Errorf("header %d/%s, want %d/%s", got.Turn, got.Phase, want.Turn, want.Phase)
	}
	if len(got.Units) != len(want.Units) {
		t.Fatalf("%d units, want %d", len(got.Units), len(want.Units))
	}
	for i := range want.Units {
		if got.Units[i] != want.Units[i] {
			t.Errorf("unit %d = %+v, want %+v", i, got.Units[i], want.Units[i])
		}
	}
}

func TestLatestPicksNewest(t *testing.T) {
	m := openTestStore(t)

	for turn := 1; turn <= 3; turn++ {
		if err := m.SaveSnapshot("battle-1", sampleSnapshot(turn, "player")); err != nil {
			t.Fatal(err)
		}
	}
	// A different battle's snapshots must not bleed in.
	if err := m.SaveSnapshot("battle-2", sampleSnapshot(9, "player")); err != nil {
		t.Fatal(err)
	}

	got, err := m.LatestSnapshot("battle-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Turn != 3 {
		t.Errorf("latest turn %d, want 3", got.Turn)
	}
}

func TestHistoryOrdered(t *testing.T) {
	m := openTestStore(t)
	for turn := 1; turn <= 4; turn++ {
		if err := m.SaveSnapshot("battle-1", sampleSnapshot(turn, "player")); err != nil {
			t.Fatal(err)
		}
	}

	history, err := m.History("battle-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 4 {
		t.Fatalf("%d snapshots, want 4", len(history))
	}
	for i, snap := range history {
		if snap.Turn != i+1 {
			t.Errorf("history[%d].Turn = %d, want %d", i, snap.Turn, i+1)
		}
	}
}

func TestLatestSnapshotMissing(t *testing.T) {
	m := openTestStore(t)
	if _, err := m.LatestSnapshot("nothing-here"); err == nil {
		t.Error("expected an error for an unknown battle")
	}
}

func TestResults(t *testing.T) {
	m := openTestStore(t)

	res := game.BattleResult{Winner: "player", Turns: 7, Survivors: 2}
	if err := m.SaveResult("battle-1", "ambush", 42, res); err != nil {
		t.Fatal(err)
	}

	recs, err := m.Results()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("%d results, want 1", len(recs))
	}
	rec := recs[0]
	if rec.Winner != "player" || rec.Turns != 7 || rec.Survivors != 2 || rec.Seed != 42 || rec.Scenario != "ambush" {
		t.Errorf("stored result %+v", rec)
	}
}
