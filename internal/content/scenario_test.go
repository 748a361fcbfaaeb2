package content

import (
	"testing"

	"github.com/calligan/skirmish/internal/game"
	"github.com/rs/zerolog"
)

func TestBuildEngine(t *testing.T) {
	lib, err := Load(writeLibrary(t, testWeapons, testUnits, testScenarios))
	if err != nil {
		t.Fatal(err)
	}

	eng, err := lib.BuildEngine(lib.Scenarios["ambush"], 1, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	if eng.Grid.Width != 12 || eng.Grid.Height != 12 {
		t.Errorf("grid %dx%d, want 12x12", eng.Grid.Width, eng.Grid.Height)
	}
	for y := 2; y < 6; y++ {
		if eng.Grid.TileAt(game.Coord{X: 5, Y: y}).Traversable {
			t.Errorf("wall tile (5,%d) still traversable", y)
		}
	}
	if eng.Grid.TileAt(game.Coord{X: 3, Y: 3}).Cover != game.CoverHalf {
		t.Error("half cover not applied")
	}
	if eng.Grid.TileAt(game.Coord{X: 8, Y: 8}).Cover != game.CoverFull {
		t.Error("full cover not applied")
	}

	players := eng.Sched.Roster(game.FactionPlayer)
	enemies := eng.Sched.Roster(game.FactionEnemy)
	if len(players) != 2 || len(enemies) != 1 {
		t.Fatalf("rosters %d/%d, want 2 players and 1 enemy", len(players), len(enemies))
	}
	if players[1].Name != "Trooper Two" {
		t.Errorf("placement name override not applied: %q", players[1].Name)
	}
	if enemies[0].Pos() != (game.Coord{X: 10, Y: 10}) {
		t.Errorf("enemy at %v, want (10,10)", enemies[0].Pos())
	}
}

func TestBuildEngineRejectsBlockedPlacement(t *testing.T) {
	lib, err := Load(writeLibrary(t, testWeapons, testUnits, testScenarios))
	if err != nil {
		t.Fatal(err)
	}
	s := lib.Scenarios["ambush"]
	s.Units = append(s.Units, PlacementDef{Unit: "trooper", Faction: "player", X: 5, Y: 2}) // on the wall

	if _, err := lib.BuildEngine(s, 1, zerolog.Nop()); err == nil {
		t.Error("expected an error for a placement on a wall tile")
	}
}

func TestEndConditionEvaluation(t *testing.T) {
	cases := []struct {
		name string
		src  string
		env  BattleEnv
		want bool
	}{
		{"wipeout met", "EnemyCount == 0", BattleEnv{Turn: 3}, true},
		{"wipeout not met", "EnemyCount == 0", BattleEnv{Turn: 3, EnemyCount: 2}, false},
		{"turn limit", "Turn > 20", BattleEnv{Turn: 21, EnemyCount: 1}, true},
		{"compound", "EnemyCount == 0 || Turn > 20", BattleEnv{Turn: 5, EnemyCount: 0}, true},
		{"health threshold", "PlayerHealth < 50", BattleEnv{PlayerHealth: 40}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cond, err := CompileEndCondition(tc.src)
			if err != nil {
				t.Fatal(err)
			}
			got, err := cond.Met(tc.env)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("%q over %+v = %v, want %v", tc.src, tc.env, got, tc.want)
			}
		})
	}
}

func TestEnvFromEngine(t *testing.T) {
	lib, err := Load(writeLibrary(t, testWeapons, testUnits, testScenarios))
	if err != nil {
		t.Fatal(err)
	}
	eng, err := lib.BuildEngine(lib.Scenarios["ambush"], 1, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	env := EnvFrom(eng)
	if env.Turn != 1 || env.PlayerCount != 2 || env.EnemyCount != 1 {
		t.Errorf("env %+v", env)
	}
	if env.PlayerHealth != 60 || env.EnemyHealth != 25 {
		t.Errorf("summed health %d/%d, want 60/25", env.PlayerHealth, env.EnemyHealth)
	}
}
