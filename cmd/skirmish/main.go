package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/calligan/skirmish/internal/config"
	"github.com/calligan/skirmish/internal/content"
	"github.com/calligan/skirmish/internal/game"
	"github.com/calligan/skirmish/internal/server"
	"github.com/calligan/skirmish/internal/store"
)

func main() {
	var configDir string
	var scenarioID string
	var seed int64
	var serve bool
	var addr string

	flag.StringVar(&configDir, "config", ".", "directory containing skirmish.cfg.json")
	flag.StringVar(&scenarioID, "scenario", "", "scenario ID to run (default from config)")
	flag.Int64Var(&seed, "seed", 0, "RNG seed (default from config)")
	flag.BoolVar(&serve, "serve", false, "serve the battle over HTTP instead of running it headless")
	flag.StringVar(&addr, "addr", "", "listen address for -serve (default from config)")
	flag.Parse()

	if err := config.Load(configDir); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(config.GetString("logLevel"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()

	if scenarioID == "" {
		scenarioID = config.GetString("battle.scenario")
	}
	if seed == 0 {
		seed = config.GetInt64("battle.seed")
	}
	if addr == "" {
		addr = config.GetString("server.addr")
	}

	lib, err := content.Load(config.GetString("content.dir"))
	if err != nil {
		log.Warn().Err(err).Msg("content load failed, using built-in definitions")
		lib = builtinLibrary()
	}
	scenario, ok := lib.Scenarios[scenarioID]
	if !ok {
		log.Fatal().Str("scenario", scenarioID).Msg("unknown scenario")
	}

	eng, err := lib.BuildEngine(scenario, seed, log)
	if err != nil {
		log.Fatal().Err(err).Msg("scenario setup failed")
	}
	players := game.NewTactician(eng, game.FactionPlayer, log)
	enemies := game.NewTactician(eng, game.FactionEnemy, log)

	if serve {
		// Served battles keep the player side human-controlled.
		players.Close()
		runner := game.NewRunner(eng, nil, enemies, log)
		srv := server.New(eng, runner, log)
		log.Info().Str("addr", addr).Str("scenario", scenario.ID).Msg("serving battle")
		if err := http.ListenAndServe(addr, srv.Router()); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
		return
	}

	runner := game.NewRunner(eng, players, enemies, log)
	runHeadless(eng, runner, scenario, seed, log)
}

// runHeadless plays both sides to completion, snapshotting after every
// turn and recording the outcome.
func runHeadless(eng *game.Engine, runner *game.Runner, scenario content.ScenarioDef, seed int64, log zerolog.Logger) {
	st, err := store.Open(config.GetString("db.path"), log)
	if err != nil {
		log.Fatal().Err(err).Msg("battle database unavailable")
	}
	defer st.Close()

	maxTurns := scenario.MaxTurns
	if maxTurns <= 0 {
		maxTurns = config.GetInt("battle.maxTurns")
	}
	var cond *content.EndCondition
	if scenario.EndCondition != "" {
		// Validated at load time; recompilation cannot fail here.
		cond, _ = content.CompileEndCondition(scenario.EndCondition)
	}

	battleID := fmt.Sprintf("%s-%d-%d", scenario.ID, seed, time.Now().Unix())
	log.Info().Str("battle", battleID).Int("maxTurns", maxTurns).Msg("battle start")

	var res game.BattleResult
	for {
		if err := st.SaveSnapshot(battleID, eng.Snapshot()); err != nil {
			log.Warn().Err(err).Msg("snapshot save failed")
		}
		if done, r := battleOver(eng, cond, maxTurns, log); done {
			res = r
			break
		}
		runner.RunPlayerPhase()
		runner.RunEnemyPhase()
	}

	if err := st.SaveResult(battleID, scenario.ID, seed, res); err != nil {
		log.Warn().Err(err).Msg("result save failed")
	}
	log.Info().
		Str("battle", battleID).
		Str("winner", res.Winner).
		Int("turns", res.Turns).
		Int("survivors", res.Survivors).
		Msg("battle over")
}

func battleOver(eng *game.Engine, cond *content.EndCondition, maxTurns int, log zerolog.Logger) (bool, game.BattleResult) {
	env := content.EnvFrom(eng)
	res := game.BattleResult{Turns: env.Turn}
	switch {
	case env.PlayerCount == 0 && env.EnemyCount == 0:
		res.Winner = "draw"
	case env.EnemyCount == 0:
		res.Winner = "player"
		res.Survivors = env.PlayerCount
	case env.PlayerCount == 0:
		res.Winner = "enemy"
		res.Survivors = env.EnemyCount
	case env.Turn > maxTurns:
		res.Winner = "draw"
	default:
		if cond != nil {
			met, err := cond.Met(env)
			if err != nil {
				log.Warn().Err(err).Msg("end condition evaluation failed")
				return false, res
			}
			if met {
				log.Info().Str("condition", cond.Src).Msg("end condition met")
				res.Winner = "draw"
				return true, res
			}
		}
		return false, res
	}
	return true, res
}

// builtinLibrary is the fallback content set used when no content
// directory is available, so the binary always has something to run.
func builtinLibrary() *content.Library {
	return &content.Library{
		Weapons: map[string]content.WeaponDef{
			"rifle":   {ID: "rifle", Name: "Rifle", Class: "ranged", Damage: 10, Range: 8, Accuracy: 70, APCost: 1, Falloff: 2},
			"blade":   {ID: "blade", Name: "Blade", Class: "melee", Damage: 12, Range: 1, Accuracy: 85, APCost: 1},
			"grenade": {ID: "grenade", Name: "Grenade", Class: "aoe", Damage: 8, Range: 6, APCost: 1, BlastRadius: 1},
		},
		Units: map[string]content.UnitDef{
			"trooper":   {ID: "trooper", Name: "Trooper", MaxHealth: 30, Move: 4, Accuracy: 10, MaxAP: 2, Weapon: "rifle"},
			"grenadier": {ID: "grenadier", Name: "Grenadier", MaxHealth: 28, Move: 4, Accuracy: 5, MaxAP: 2, Weapon: "grenade"},
			"raider":    {ID: "raider", Name: "Raider", MaxHealth: 25, Move: 5, Accuracy: 10, MaxAP: 2, Weapon: "blade"},
		},
		Scenarios: map[string]content.ScenarioDef{
			"skirmish": {
				ID: "skirmish", Name: "Open Field Skirmish", Width: 16, Height: 16,
				Walls: []content.RectDef{{X: 7, Y: 5, W: 1, H: 4}},
				Cover: []content.CoverDef{
					{X: 5, Y: 6, Level: "half"},
					{X: 10, Y: 9, Level: "full"},
				},
				Units: []content.PlacementDef{
					{Unit: "trooper", Faction: "player", X: 3, Y: 6, Name: "Trooper One"},
					{Unit: "grenadier", Faction: "player", X: 3, Y: 8},
					{Unit: "raider", Faction: "enemy", X: 12, Y: 6},
					{Unit: "raider", Faction: "enemy", X: 12, Y: 8, Name: "Raider Two"},
				},
				MaxTurns:     30,
				EndCondition: "PlayerCount == 0 || EnemyCount == 0",
			},
		},
	}
}
