package game

import "github.com/rs/zerolog"

// Runner drives whole phases and whole battles through the tactician, one
// decision at a time. It is purely caller-paced: every call does a bounded
// amount of work and returns, so a frontend can interleave animation or a
// headless harness can spin it flat out.
type Runner struct {
	eng     *Engine
	players *Tactician // nil when the player side is human-controlled
	enemies *Tactician
	log     zerolog.Logger
}

// NewRunner wires a runner for eng. players may be nil; enemies must not be.
func NewRunner(eng *Engine, players, enemies *Tactician, log zerolog.Logger) *Runner {
	return &Runner{
		eng:     eng,
		players: players,
		enemies: enemies,
		log:     log.With().Str("component", "runner").Logger(),
	}
}

// RunEnemyPhase plays out the entire enemy phase — every enemy unit acts
// until it has nothing left to do — and then closes the phase. Calling it
// outside the enemy phase is a no-op.
func (r *Runner) RunEnemyPhase() {
	if r.eng.Sched.Phase() != PhaseEnemy {
		return
	}
	r.runSide(r.enemies, FactionEnemy)
	r.eng.EndPhase()
}

// RunPlayerPhase plays out the player phase through the player-side
// tactician and closes it. No-op without a player tactician or outside the
// player phase.
func (r *Runner) RunPlayerPhase() {
	if r.players == nil || r.eng.Sched.Phase() != PhasePlayer {
		return
	}
	r.runSide(r.players, FactionPlayer)
	r.eng.EndPhase()
}

// StepEnemy advances the enemy phase by exactly one action. When no enemy
// unit has anything left to do it closes the phase instead. The boolean
// reports whether the enemy phase is still open afterwards.
func (r *Runner) StepEnemy() (StepResult, bool) {
	if r.eng.Sched.Phase() != PhaseEnemy {
		return StepResult{}, false
	}
	for _, u := range r.eng.Sched.Roster(FactionEnemy) {
		if !u.Alive() || u.AP() == 0 {
			continue
		}
		if step := r.enemies.AdvanceOneAction(u); step.Acted {
			return step, true
		}
		// Nothing viable for this unit despite remaining AP; burn the
		// phase for it so the scan can terminate.
		u.spendAP(u.AP())
	}
	r.eng.EndPhase()
	return StepResult{}, false
}

func (r *Runner) runSide(t *Tactician, side Faction) {
	// Snapshot the roster up front: units killed mid-phase are skipped by
	// the liveness check, and reinforcements never act the phase they
	// arrive.
	units := append([]*Unit(nil), r.eng.Sched.Roster(side)...)
	for _, u := range units {
		for u.Alive() && u.AP() > 0 {
			if step := t.AdvanceOneAction(u); !step.Acted {
				break
			}
		}
	}
}

// BattleResult summarizes a completed headless battle.
type BattleResult struct {
	Winner    string // "player", "enemy", or "draw"
	Turns     int
	Survivors int
}

// RunBattle plays both sides via their tacticians until one side is wiped
// out or maxTurns elapses, and reports the outcome. It requires both
// tacticians.
func (r *Runner) RunBattle(maxTurns int) BattleResult {
	for r.eng.Sched.Turn() <= maxTurns {
		if res, done := r.checkEnd(); done {
			return res
		}
		r.RunPlayerPhase()
		if res, done := r.checkEnd(); done {
			return res
		}
		r.RunEnemyPhase()
	}
	r.log.Info().Int("turns", maxTurns).Msg("battle hit turn limit")
	return BattleResult{Winner: "draw", Turns: r.eng.Sched.Turn()}
}

func (r *Runner) checkEnd() (BattleResult, bool) {
	alive := func(f Faction) int {
		n := 0
		for _, u := range r.eng.Sched.Roster(f) {
			if u.Alive() {
				n++
			}
		}
		return n
	}
	players, enemies := alive(FactionPlayer), alive(FactionEnemy)
	switch {
	case players == 0 && enemies == 0:
		return BattleResult{Winner: "draw", Turns: r.eng.Sched.Turn()}, true
	case enemies == 0:
		return BattleResult{Winner: "player", Turns: r.eng.Sched.Turn(), Survivors: players}, true
	case players == 0:
		return BattleResult{Winner: "enemy", Turns: r.eng.Sched.Turn(), Survivors: enemies}, true
	}
	return BattleResult{}, false
}
