package game

import (
	"math"
	"math/rand"

	"github.com/rs/zerolog"
)

const (
	minHitChance = 5
	maxHitChance = 95

	// damageVariance is the fraction of base damage re-rolled per landed
	// hit: each hit lands for base ± round(base×0.1).
	damageVariance = 0.1
)

// AttackOutcome summarises one executed attack. It is a transient value —
// reported through the bus and the return path, never persisted.
type AttackOutcome struct {
	Attempted bool // pre-check passed and AP was spent
	Hit       bool // at least one hit landed
	Damage    int  // total damage dealt across all affected units
	HitChance int  // the chance used for the roll (100 for AOE)
}

// Resolver computes hit chances, rolls outcomes and applies damage. It owns
// the battle's combat RNG so seeded runs replay identically.
type Resolver struct {
	grid  *Grid
	los   *LineOfSight
	sched *Scheduler
	bus   *Bus
	rng   *rand.Rand
	log   zerolog.Logger
}

// NewResolver creates a resolver with its own seeded RNG.
func NewResolver(grid *Grid, los *LineOfSight, sched *Scheduler, bus *Bus, seed int64, log zerolog.Logger) *Resolver {
	return &Resolver{
		grid:  grid,
		los:   los,
		sched: sched,
		bus:   bus,
		rng:   rand.New(rand.NewSource(seed)), // #nosec G404 -- game rules only
		log:   log.With().Str("component", "combat").Logger(),
	}
}

// CanAttack validates an attack request without mutating anything. Checks
// run in a fixed order and the first failure supplies the reason — this is
// a short-circuit chain, not an aggregate of every problem.
func (r *Resolver) CanAttack(attacker, target *Unit) (bool, Reason) {
	if attacker == nil || target == nil || attacker == target {
		return false, ReasonInvalidTarget
	}
	if !attacker.Alive() || !target.Alive() {
		return false, ReasonUnitNotAlive
	}
	w := attacker.Weapon()
	if w == nil {
		return false, ReasonNoWeapon
	}
	if attacker.AP() < w.APCost {
		return false, ReasonInsufficientAP
	}
	if ManhattanDistance(attacker.Pos(), target.Pos()) > w.Range {
		return false, ReasonOutOfRange
	}
	if w.Class != WeaponAOE && !r.los.HasLineOfSight(attacker.Pos(), target.Pos()) {
		return false, ReasonNoLineOfSight
	}
	return true, ReasonNone
}

// ExecuteAttack resolves one attack. A failed pre-check spends nothing and
// returns Attempted=false; a passing pre-check always consumes the weapon's
// AP cost, hit or miss.
func (r *Resolver) ExecuteAttack(attacker, target *Unit) AttackOutcome {
	if ok, reason := r.CanAttack(attacker, target); !ok {
		r.log.Debug().
			Str("attacker", safeName(attacker)).
			Str("target", safeName(target)).
			Stringer("reason", reason).
			Msg("attack refused")
		return AttackOutcome{}
	}

	w := attacker.Weapon()
	attacker.spendAP(w.APCost)
	r.bus.Publish(Event{Kind: EventUnitAPChanged, Unit: attacker, AP: attacker.AP()})

	var out AttackOutcome
	switch w.Class {
	case WeaponMelee:
		out = r.resolveMelee(attacker, target, w)
	case WeaponSpread:
		out = r.resolveSpread(attacker, target, w)
	case WeaponAOE:
		out = r.resolveBlast(attacker, target, w)
	default:
		out = r.resolveRanged(attacker, target, w)
	}
	out.Attempted = true

	r.log.Info().
		Str("attacker", attacker.Name).
		Str("target", target.Name).
		Stringer("class", w.Class).
		Int("chance", out.HitChance).
		Bool("hit", out.Hit).
		Int("damage", out.Damage).
		Msg("attack")
	r.bus.Publish(Event{Kind: EventAttackExecuted, Unit: attacker, Target: target, Outcome: out})
	return out
}

// rangedHitChance is the core to-hit formula: weapon accuracy plus shooter
// accuracy, minus per-tile falloff over the distance, minus the target
// tile's cover penalty, clamped to [5,95]. Nothing is ever a certainty and
// nothing is ever hopeless.
func (r *Resolver) rangedHitChance(attacker *Unit, w *Weapon, dist int, cover CoverType) int {
	chance := w.Accuracy + attacker.Accuracy - dist*w.FalloffPerTile - coverHitPenalty(cover)
	return clampChance(chance)
}

func clampChance(chance int) int {
	if chance < minHitChance {
		return minHitChance
	}
	if chance > maxHitChance {
		return maxHitChance
	}
	return chance
}

func (r *Resolver) resolveRanged(attacker, target *Unit, w *Weapon) AttackOutcome {
	dist := ManhattanDistance(attacker.Pos(), target.Pos())
	cover := r.grid.TileAt(target.Pos()).Cover
	chance := r.rangedHitChance(attacker, w, dist, cover)

	out := AttackOutcome{HitChance: chance}
	if r.roll(chance) {
		out.Hit = true
		out.Damage = r.applyDamage(target, r.rollDamage(w.Damage))
	}
	return out
}

// resolveMelee ignores distance and cover — adjacency is enforced by the
// range pre-check, not the formula.
func (r *Resolver) resolveMelee(attacker, target *Unit, w *Weapon) AttackOutcome {
	chance := clampChance(w.Accuracy + attacker.Accuracy)
	out := AttackOutcome{HitChance: chance}
	if r.roll(chance) {
		out.Hit = true
		out.Damage = r.applyDamage(target, r.rollDamage(w.Damage))
	}
	return out
}

// resolveSpread walks the ray from attacker toward the target and widens it
// by each stepped tile's orthogonal neighbors — a coarse cone. Every
// opposing-faction occupant caught in the cone takes an independent hit roll
// using the ranged formula at its own tile's distance and cover.
func (r *Resolver) resolveSpread(attacker, target *Unit, w *Weapon) AttackOutcome {
	affected := make(map[Coord]bool)
	for _, c := range lineBetween(attacker.Pos(), target.Pos()) {
		if c == attacker.Pos() {
			continue
		}
		affected[c] = true
		for _, n := range r.grid.Neighbors4(c) {
			affected[n.Pos] = true
		}
	}

	// Reported chance is the roll against the aimed-at tile.
	out := AttackOutcome{
		HitChance: r.rangedHitChance(attacker, w,
			ManhattanDistance(attacker.Pos(), target.Pos()),
			r.grid.TileAt(target.Pos()).Cover),
	}

	// Deterministic sweep order: the cone set is iterated by tile index so
	// seeded battles replay identically.
	for _, t := range r.sortedTiles(affected) {
		victim := t.Occupant()
		if victim == nil || !victim.Alive() || victim.Faction == attacker.Faction {
			continue
		}
		dist := ManhattanDistance(attacker.Pos(), t.Pos)
		if dist > w.Range {
			continue
		}
		chance := r.rangedHitChance(attacker, w, dist, t.Cover)
		if r.roll(chance) {
			out.Hit = true
			out.Damage += r.applyDamage(victim, r.rollDamage(w.Damage))
		}
	}
	return out
}

// resolveBlast damages every occupant within the blast radius of the target
// tile, friend and foe alike. There is no roll: blast damage is guaranteed
// and the outcome reports a flat 100 chance. Friendly fire is intentional.
func (r *Resolver) resolveBlast(attacker, target *Unit, w *Weapon) AttackOutcome {
	out := AttackOutcome{HitChance: 100}
	for _, t := range r.grid.TilesWithinRadius(target.Pos(), w.BlastRadius) {
		victim := t.Occupant()
		if victim == nil || !victim.Alive() {
			continue
		}
		out.Hit = true
		out.Damage += r.applyDamage(victim, r.rollDamage(w.Damage))
	}
	return out
}

// rollDamage re-rolls the ±10% variance for each individual hit.
func (r *Resolver) rollDamage(base int) int {
	spread := int(math.Round(float64(base) * damageVariance))
	if spread == 0 {
		return base
	}
	return base + r.rng.Intn(2*spread+1) - spread
}

// roll returns true with the given percent chance.
func (r *Resolver) roll(chance int) bool {
	return r.rng.Intn(100) < chance
}

// applyDamage is the single damage path: it mutates health, publishes the
// damage event, and on death clears the victim's tile and retires it from
// its roster — all within the same step, so occupancy invariants hold.
func (r *Resolver) applyDamage(victim *Unit, amount int) int {
	dealt := victim.takeDamage(amount)
	r.bus.Publish(Event{Kind: EventUnitDamaged, Unit: victim, Amount: dealt})
	if !victim.Alive() {
		r.grid.ClearOccupant(victim.Pos())
		r.sched.Remove(victim)
		r.log.Info().Str("unit", victim.Name).Msg("unit down")
		r.bus.Publish(Event{Kind: EventUnitDied, Unit: victim})
	}
	return dealt
}

// sortedTiles returns the tiles for a coordinate set in row-major order.
func (r *Resolver) sortedTiles(set map[Coord]bool) []*Tile {
	out := make([]*Tile, 0, len(set))
	for y := 0; y < r.grid.Height; y++ {
		for x := 0; x < r.grid.Width; x++ {
			c := Coord{X: x, Y: y}
			if set[c] {
				out = append(out, r.grid.TileAt(c))
			}
		}
	}
	return out
}

func safeName(u *Unit) string {
	if u == nil {
		return "<nil>"
	}
	return u.Name
}
