package game

import (
	"math"

	"github.com/rs/zerolog"
)

// Archetype is a tactical-behaviour classification derived from the
// equipped weapon. It only ever weights AI scoring — it grants no stats.
type Archetype uint8

const (
	ArchetypeAggressive Archetype = iota // melee: close and kill
	ArchetypeDefensive                   // long ranged: keep distance, hold cover
	ArchetypeBalanced                    // short ranged or unarmed
	ArchetypeSupport                     // AOE: stand off at mid range
)

func (a Archetype) String() string {
	switch a {
	case ArchetypeAggressive:
		return "aggressive"
	case ArchetypeDefensive:
		return "defensive"
	case ArchetypeBalanced:
		return "balanced"
	case ArchetypeSupport:
		return "support"
	default:
		return "unknown"
	}
}

// classifyArchetype maps a unit's weapon to its behaviour archetype.
// Ranged splits on range: beyond 5 tiles is a marksman profile, within it a
// skirmisher. Unarmed units fall back to balanced.
func classifyArchetype(u *Unit) Archetype {
	w := u.Weapon()
	if w == nil {
		return ArchetypeBalanced
	}
	switch w.Class {
	case WeaponMelee:
		return ArchetypeAggressive
	case WeaponAOE:
		return ArchetypeSupport
	case WeaponRanged, WeaponSpread:
		if w.Range > 5 {
			return ArchetypeDefensive
		}
		return ArchetypeBalanced
	default:
		return ArchetypeBalanced
	}
}

// CandidateKind tags the shape of a planned action.
type CandidateKind uint8

const (
	CandidateAttack         CandidateKind = iota // fire from where we stand
	CandidateAttackThenMove                      // fire, then fall back to cover
	CandidateMoveThenAttack                      // reposition into a firing tile
	CandidateRetreat                             // break contact toward cover
	CandidateFlank                               // work around the target's cover
)

func (k CandidateKind) String() string {
	switch k {
	case CandidateAttack:
		return "attack"
	case CandidateAttackThenMove:
		return "attack_then_move"
	case CandidateMoveThenAttack:
		return "move_then_attack"
	case CandidateRetreat:
		return "retreat"
	case CandidateFlank:
		return "flank"
	default:
		return "unknown"
	}
}

// candidate is one scored action option. Created fresh per decision,
// discarded after execution.
type candidate struct {
	kind    CandidateKind
	dest    Coord // destination of the move component, if any
	hasMove bool
	score   float64
}

// StepResult reports what one decision step did. An un-acted step tells the
// caller to stop processing that unit for the phase.
type StepResult struct {
	Acted  bool
	Kind   CandidateKind
	Actor  *Unit
	Target *Unit
}

// Tactician is the utility-based decision engine for one side's units. It
// composes the planner, reachability, resolver and sight oracle through the
// engine, scores every viable action, and executes exactly one per step.
// Decisions are strictly sequential — never two units deciding at once.
type Tactician struct {
	eng     *Engine
	side    Faction
	threat  map[*Unit]int // damage recently dealt by each opposing unit
	subs    []*Subscription
	log     zerolog.Logger
}

// NewTactician creates a decision engine controlling the units of side.
// It listens on the bus for threat bookkeeping: damage dealt by opposing
// units accumulates, and the memory wipes when the opposing phase begins.
func NewTactician(eng *Engine, side Faction, log zerolog.Logger) *Tactician {
	t := &Tactician{
		eng:    eng,
		side:   side,
		threat: make(map[*Unit]int),
		log:    log.With().Str("component", "tactician").Stringer("side", side).Logger(),
	}
	t.subs = append(t.subs,
		eng.Bus.Subscribe(EventAttackExecuted, func(ev Event) {
			if ev.Unit != nil && ev.Unit.Faction == side.Opposing() {
				t.threat[ev.Unit] += ev.Outcome.Damage
			}
		}),
		eng.Bus.Subscribe(EventPhaseChanged, func(ev Event) {
			if factionFor(ev.Phase) == side.Opposing() {
				t.threat = make(map[*Unit]int)
			}
		}),
	)
	return t
}

// Close releases the tactician's bus subscriptions.
func (t *Tactician) Close() {
	for _, s := range t.subs {
		s.Close()
	}
	t.subs = nil
}

// AdvanceOneAction selects and executes the single best action for u, or
// reports no action when nothing viable exists. The caller paces repeated
// invocations; the tactician itself never sleeps or waits.
func (t *Tactician) AdvanceOneAction(u *Unit) StepResult {
	if u == nil || !u.Alive() || u.AP() == 0 {
		return StepResult{Actor: u}
	}

	target := t.selectTarget(u)
	if target == nil {
		return StepResult{Actor: u}
	}

	cands := t.generateCandidates(u, target)
	if len(cands) == 0 {
		return StepResult{Actor: u}
	}

	// Highest score wins; ties resolve to the earliest-generated candidate.
	best := cands[0]
	for _, c := range cands[1:] {
		if c.score > best.score {
			best = c
		}
	}

	t.log.Debug().
		Str("unit", u.Name).
		Str("target", target.Name).
		Stringer("action", best.kind).
		Float64("score", best.score).
		Msg("action chosen")
	t.execute(u, target, best)
	return StepResult{Acted: true, Kind: best.kind, Actor: u, Target: target}
}

// selectTarget scores every living opposing unit and returns the best, or
// nil when none remain. The scan order is roster registration order, so
// equal scores resolve to whichever unit was scored first.
func (t *Tactician) selectTarget(u *Unit) *Unit {
	arch := classifyArchetype(u)
	var best *Unit
	bestScore := math.Inf(-1)
	for _, enemy := range t.eng.Sched.Roster(t.side.Opposing()) {
		if !enemy.Alive() {
			continue
		}
		score := t.scoreTarget(u, arch, enemy)
		if score > bestScore {
			best = enemy
			bestScore = score
		}
	}
	return best
}

// scoreTarget implements the target-priority heuristic: finish wounded
// units, prefer the exposed, count recent damage as threat, and weight
// distance by temperament.
func (t *Tactician) scoreTarget(u *Unit, arch Archetype, enemy *Unit) float64 {
	score := 0.0

	// Wounded targets are worth closing out.
	switch frac := float64(enemy.Health()) / float64(enemy.MaxHealth); {
	case frac < 0.3:
		score += 25
	case frac < 0.6:
		score += 15
	default:
		score += 5
	}

	// Exposure: targets out of cover are easy pickings.
	cover := t.eng.Grid.TileAt(enemy.Pos()).Cover
	switch cover {
	case CoverNone:
		score += 20
	case CoverHalf:
		score += 10
	}

	// Flank proxy: half cover counts as flankable. Deliberately not a true
	// directional check.
	if cover == CoverHalf {
		score += 15
	}

	// Threat memory: units that hurt us recently climb the list.
	score += float64(t.threat[enemy]) * 0.2

	// Distance weighting by temperament.
	dist := float64(ManhattanDistance(u.Pos(), enemy.Pos()))
	optimal := 0.0
	if w := u.Weapon(); w != nil {
		optimal = float64(w.Range) / 2
	}
	switch arch {
	case ArchetypeAggressive:
		score -= 3 * dist
	case ArchetypeDefensive:
		score -= 1.5 * math.Abs(dist-optimal)
	case ArchetypeSupport:
		score -= math.Abs(dist - optimal)
	default:
		score -= 2 * dist
	}

	// A target we cannot see is a poor pick for anything but a blast.
	w := u.Weapon()
	if (w == nil || w.Class != WeaponAOE) && !t.eng.LOS.HasLineOfSight(u.Pos(), enemy.Pos()) {
		score -= 50
	}
	return score
}

// Candidate base scores. Attack-then-move at 40 slots between a plain
// attack (30) and a repositioning attack (50).
const (
	scoreDirectAttack   = 30.0
	scoreAttackThenMove = 40.0
	scoreMoveThenAttack = 50.0
	scoreRetreat        = 60.0
	scoreFlank          = 35.0

	retreatHealthFrac = 0.4 // retreat is only on the table below 40% health
)

// generateCandidates builds every viable action against target, each
// independently scored. AP affordability of a whole two-part candidate is
// deliberately not checked here — if AP runs out mid-candidate, the
// remaining sub-step silently does not occur.
func (t *Tactician) generateCandidates(u, target *Unit) []candidate {
	arch := classifyArchetype(u)
	reach := ReachableTiles(t.eng.Grid, u.Pos(), u.Move)
	attackableNow, _ := t.eng.Combat.CanAttack(u, target)
	curCover := t.eng.Grid.TileAt(u.Pos()).Cover

	var cands []candidate

	// Attack, then fall back to the best-cover tile in reach.
	if attackableNow {
		if dest, gain := t.bestCoverFallback(reach, curCover); gain > 0 {
			score := scoreAttackThenMove + float64(gain)*10
			if arch == ArchetypeAggressive {
				score -= 15 // brawlers don't break off
			}
			cands = append(cands, candidate{kind: CandidateAttackThenMove, dest: dest, hasMove: true, score: score})
		}
	}

	// Reposition into a firing tile.
	if u.Weapon() != nil {
		if dest, tileScore, ok := t.bestFiringTile(u, target, reach); ok {
			score := scoreMoveThenAttack + tileScore
			if arch == ArchetypeDefensive {
				score += 15
			}
			cands = append(cands, candidate{kind: CandidateMoveThenAttack, dest: dest, hasMove: true, score: score})
		}
	}

	// Break contact: only when badly hurt.
	if float64(u.Health()) < float64(u.MaxHealth)*retreatHealthFrac {
		if dest, ok := t.bestRetreatTile(u, reach); ok {
			score := scoreRetreat
			if arch == ArchetypeAggressive {
				score -= 20
			}
			cands = append(cands, candidate{kind: CandidateRetreat, dest: dest, hasMove: true, score: score})
		}
	}

	// Work around dug-in targets.
	if t.eng.Grid.TileAt(target.Pos()).Cover != CoverNone {
		if dest, tileScore, ok := t.bestFlankTile(u, target, reach); ok {
			score := scoreFlank + tileScore
			if arch == ArchetypeAggressive || arch == ArchetypeBalanced {
				score += 10
			}
			cands = append(cands, candidate{kind: CandidateFlank, dest: dest, hasMove: true, score: score})
		}
	}

	// Plain attack from where we stand.
	if attackableNow {
		cands = append(cands, candidate{kind: CandidateAttack, score: scoreDirectAttack})
	}

	return cands
}

// bestCoverFallback finds the reachable tile with the biggest cover gain
// over the current tile. Gain of zero means nowhere better exists.
func (t *Tactician) bestCoverFallback(reach map[Coord]*Tile, cur CoverType) (Coord, int) {
	var best Coord
	bestGain := 0
	for _, tile := range sortedReach(t.eng.Grid, reach) {
		gain := coverValue(tile.Cover) - coverValue(cur)
		if gain > bestGain {
			best = tile.Pos
			bestGain = gain
		}
	}
	return best, bestGain
}

// bestFiringTile searches the reachable set for the tile that can actually
// engage the target — in range, with sight for non-AOE weapons — and scores
// it by cover, closeness to the weapon's optimal range, and the flank proxy.
func (t *Tactician) bestFiringTile(u, target *Unit, reach map[Coord]*Tile) (Coord, float64, bool) {
	w := u.Weapon()
	optimal := float64(w.Range) / 2
	targetCover := t.eng.Grid.TileAt(target.Pos()).Cover

	var best Coord
	bestScore := math.Inf(-1)
	found := false
	for _, tile := range sortedReach(t.eng.Grid, reach) {
		dist := ManhattanDistance(tile.Pos, target.Pos())
		if dist > w.Range {
			continue
		}
		if w.Class != WeaponAOE && !t.eng.LOS.HasLineOfSight(tile.Pos, target.Pos()) {
			continue
		}
		score := float64(coverValue(tile.Cover)) * 10
		score += math.Max(0, 10-2*math.Abs(float64(dist)-optimal))
		if targetCover == CoverHalf {
			score += 15
		}
		if score > bestScore {
			best = tile.Pos
			bestScore = score
			found = true
		}
	}
	return best, bestScore, found
}

// bestRetreatTile maximizes cover plus summed distance from every living
// opposing unit — as far from everything as the budget allows, preferably
// behind something.
func (t *Tactician) bestRetreatTile(u *Unit, reach map[Coord]*Tile) (Coord, bool) {
	threats := t.eng.Sched.Roster(t.side.Opposing())

	var best Coord
	bestScore := math.Inf(-1)
	found := false
	for _, tile := range sortedReach(t.eng.Grid, reach) {
		score := float64(coverValue(tile.Cover)) * 10
		for _, th := range threats {
			if th.Alive() {
				score += float64(ManhattanDistance(tile.Pos, th.Pos()))
			}
		}
		if score > bestScore {
			best = tile.Pos
			bestScore = score
			found = true
		}
	}
	return best, found
}

// bestFlankTile seeks a reachable tile that keeps sight on the target,
// scoring the tile like a firing position plus a bonus when the weapon is
// already in range from there — set up now, shoot next step.
func (t *Tactician) bestFlankTile(u, target *Unit, reach map[Coord]*Tile) (Coord, float64, bool) {
	w := u.Weapon()

	var best Coord
	bestScore := math.Inf(-1)
	found := false
	for _, tile := range sortedReach(t.eng.Grid, reach) {
		if !t.eng.LOS.HasLineOfSight(tile.Pos, target.Pos()) {
			continue
		}
		score := float64(coverValue(tile.Cover)) * 10
		if w != nil && ManhattanDistance(tile.Pos, target.Pos()) <= w.Range {
			score += 10
		}
		if score > bestScore {
			best = tile.Pos
			bestScore = score
			found = true
		}
	}
	return best, bestScore, found
}

// execute performs the chosen candidate through the same move/attack
// primitives the player-facing side uses. Sub-steps that can no longer be
// afforded are skipped silently.
func (t *Tactician) execute(u, target *Unit, c candidate) {
	switch c.kind {
	case CandidateAttack:
		t.eng.ExecuteAttack(u, target)
	case CandidateAttackThenMove:
		t.eng.ExecuteAttack(u, target)
		if u.Alive() && u.AP() >= moveAPCost {
			t.eng.Move(u, c.dest, moveAPCost)
		}
	case CandidateMoveThenAttack:
		t.eng.Move(u, c.dest, moveAPCost)
		if ok, _ := t.eng.Combat.CanAttack(u, target); ok {
			t.eng.ExecuteAttack(u, target)
		}
	case CandidateRetreat, CandidateFlank:
		t.eng.Move(u, c.dest, moveAPCost)
	}
}

// sortedReach iterates a reachable set in row-major grid order so that
// equal-scoring tiles resolve identically run to run.
func sortedReach(g *Grid, reach map[Coord]*Tile) []*Tile {
	out := make([]*Tile, 0, len(reach))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if t, ok := reach[Coord{X: x, Y: y}]; ok {
				out = append(out, t)
			}
		}
	}
	return out
}
