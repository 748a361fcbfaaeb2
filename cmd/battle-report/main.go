package main

import (
	"flag"
	"fmt"

	"github.com/calligan/skirmish/internal/game"
)

type runResult struct {
	runIndex int
	seed     int64
	result   game.BattleResult
	players  int
	enemies  int
}

func main() {
	var runs int
	var maxTurns int
	var seedBase int64
	var seedStep int64

	flag.IntVar(&runs, "runs", 20, "number of headless battles")
	flag.IntVar(&maxTurns, "max-turns", 30, "turn limit per battle")
	flag.Int64Var(&seedBase, "seed-base", 42, "RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if maxTurns <= 0 {
		fmt.Println("error: -max-turns must be > 0")
		return
	}

	fmt.Printf("=== Battle Report ===\n")
	fmt.Printf("runs=%d max_turns=%d seed_base=%d seed_step=%d\n\n", runs, maxTurns, seedBase, seedStep)

	all := make([]runResult, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		r := runSkirmish(i+1, seed, maxTurns)
		all = append(all, r)
		printRun(r)
	}
	printAggregate(all)
}

// runSkirmish plays the standard mixed-arms scenario once.
func runSkirmish(runIndex int, seed int64, maxTurns int) runResult {
	tb := game.NewTestBattle(
		game.WithSeed(seed),
		game.WithGridSize(16, 16),
		game.WithWallRect(7, 5, 1, 4),
		game.WithCover(5, 6, game.CoverHalf),
		game.WithCover(10, 9, game.CoverFull),
		game.WithPlayerUnit(game.UnitSpec{
			Name: "Trooper One", MaxHealth: 30, Move: 4, Accuracy: 10, MaxAP: 2,
			Weapon: &game.Weapon{Name: "Rifle", Class: game.WeaponRanged, Damage: 10, Range: 8, Accuracy: 70, APCost: 1, FalloffPerTile: 2},
		}, 3, 6),
		game.WithPlayerUnit(game.UnitSpec{
			Name: "Grenadier", MaxHealth: 28, Move: 4, Accuracy: 5, MaxAP: 2,
			Weapon: &game.Weapon{Name: "Grenade", Class: game.WeaponAOE, Damage: 8, Range: 6, APCost: 1, BlastRadius: 1},
		}, 3, 8),
		game.WithEnemyUnit(game.UnitSpec{
			Name: "Raider One", MaxHealth: 25, Move: 5, Accuracy: 10, MaxAP: 2,
			Weapon: &game.Weapon{Name: "Blade", Class: game.WeaponMelee, Damage: 12, Range: 1, Accuracy: 85, APCost: 1},
		}, 12, 6),
		game.WithEnemyUnit(game.UnitSpec{
			Name: "Raider Two", MaxHealth: 25, Move: 5, Accuracy: 10, MaxAP: 2,
			Weapon: &game.Weapon{Name: "Scattergun", Class: game.WeaponSpread, Damage: 6, Range: 4, Accuracy: 60, APCost: 1, FalloffPerTile: 5},
		}, 12, 8),
	)

	res := tb.Runner.RunBattle(maxTurns)
	out := runResult{runIndex: runIndex, seed: seed, result: res}
	for _, u := range tb.Eng.Sched.Roster(game.FactionPlayer) {
		if u.Alive() {
			out.players++
		}
	}
	for _, u := range tb.Eng.Sched.Roster(game.FactionEnemy) {
		if u.Alive() {
			out.enemies++
		}
	}
	return out
}

func printRun(r runResult) {
	fmt.Printf("run %2d seed=%-4d winner=%-6s turns=%-3d players_left=%d enemies_left=%d\n",
		r.runIndex, r.seed, r.result.Winner, r.result.Turns, r.players, r.enemies)
}

func printAggregate(all []runResult) {
	wins := map[string]int{}
	totalTurns := 0
	totalPlayers := 0
	totalEnemies := 0
	for _, r := range all {
		wins[r.result.Winner]++
		totalTurns += r.result.Turns
		totalPlayers += r.players
		totalEnemies += r.enemies
	}
	n := len(all)

	fmt.Printf("\n=== Aggregate (%d runs) ===\n", n)
	for _, side := range []string{"player", "enemy", "draw"} {
		fmt.Printf("%-7s %3d (%5.1f%%)\n", side, wins[side], 100*float64(wins[side])/float64(n))
	}
	fmt.Printf("avg turns           %5.1f\n", float64(totalTurns)/float64(n))
	fmt.Printf("avg player survivors %4.1f\n", float64(totalPlayers)/float64(n))
	fmt.Printf("avg enemy survivors  %4.1f\n", float64(totalEnemies)/float64(n))
}
