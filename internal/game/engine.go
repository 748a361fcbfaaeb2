package game

import (
	"github.com/rs/zerolog"
)

// moveAPCost is the action-point price of one move action, regardless of
// how many tiles the move covers within the unit's movement budget.
const moveAPCost = 1

// Config parameterizes a new engine. Zero dimensions fall back to a
// standard skirmish field.
type Config struct {
	Width  int
	Height int
	Seed   int64
	Logger zerolog.Logger
}

// Engine is the composition root for a battle: the grid, the sight and
// path oracles, the scheduler, the combat resolver, and the event bus all
// hang off one engine value. Nothing in the package is process-global —
// two engines in one process never share state.
type Engine struct {
	Grid   *Grid
	LOS    *LineOfSight
	Paths  *PathPlanner
	Sched  *Scheduler
	Combat *Resolver
	Bus    *Bus

	selected *Unit
	log      zerolog.Logger
}

// New builds a fully wired engine from cfg.
func New(cfg Config) *Engine {
	if cfg.Width <= 0 {
		cfg.Width = 20
	}
	if cfg.Height <= 0 {
		cfg.Height = 20
	}
	log := cfg.Logger.With().Str("component", "engine").Logger()

	bus := NewBus()
	grid := NewGrid(cfg.Width, cfg.Height)
	los := NewLineOfSight(grid)
	sched := NewScheduler(bus, log)
	return &Engine{
		Grid:   grid,
		LOS:    los,
		Paths:  NewPathPlanner(grid),
		Sched:  sched,
		Combat: NewResolver(grid, los, sched, bus, cfg.Seed, log),
		Bus:    bus,
		log:    log,
	}
}

// Spawn places a new unit from spec at pos, registers it with the
// scheduler, and returns it. Spawning onto an occupied or missing tile
// panics — placement is a setup-time contract, not a runtime condition.
func (e *Engine) Spawn(spec UnitSpec, pos Coord) *Unit {
	u := NewUnit(spec)
	e.Grid.SetOccupant(pos, u)
	u.pos = pos
	e.Sched.Register(u)
	e.log.Info().
		Str("unit", u.Name).
		Stringer("faction", u.Faction).
		Int("x", pos.X).Int("y", pos.Y).
		Msg("unit spawned")
	return u
}

// Move walks u to dest for apCost action points. The checks run in a fixed
// order and the first failure wins; on failure nothing changes and no AP is
// spent. A successful move publishes the AP change before the move event.
func (e *Engine) Move(u *Unit, dest Coord, apCost int) Reason {
	if u == nil {
		return ReasonInvalidTarget
	}
	if !u.Alive() {
		return ReasonUnitNotAlive
	}
	if u.AP() < apCost {
		return ReasonInsufficientAP
	}
	tile := e.Grid.TileAt(dest)
	if tile == nil || !tile.Walkable() {
		return ReasonNotWalkable
	}
	if _, ok := ReachableTiles(e.Grid, u.Pos(), u.Move)[dest]; !ok {
		return ReasonOutOfBudget
	}

	from := u.Pos()
	u.spendAP(apCost)
	e.Bus.Publish(Event{Kind: EventUnitAPChanged, Unit: u, AP: u.AP()})
	e.Grid.moveOccupant(u, dest)
	e.Bus.Publish(Event{Kind: EventUnitMoved, Unit: u, From: from, To: dest})
	e.log.Debug().
		Str("unit", u.Name).
		Int("fromX", from.X).Int("fromY", from.Y).
		Int("toX", dest.X).Int("toY", dest.Y).
		Int("ap", u.AP()).
		Msg("unit moved")
	return ReasonNone
}

// CanAttack reports whether attacker may strike target right now, and the
// first reason it may not.
func (e *Engine) CanAttack(attacker, target *Unit) (bool, Reason) {
	return e.Combat.CanAttack(attacker, target)
}

// ExecuteAttack resolves an attack through the combat resolver. On a failed
// pre-check the reason is returned and nothing is spent.
func (e *Engine) ExecuteAttack(attacker, target *Unit) (AttackOutcome, Reason) {
	if ok, reason := e.Combat.CanAttack(attacker, target); !ok {
		return AttackOutcome{}, reason
	}
	return e.Combat.ExecuteAttack(attacker, target), ReasonNone
}

// Select marks u as the active unit and returns the tiles it can currently
// reach, for callers that highlight movement range. Selecting nil or a
// dead unit clears the selection.
func (e *Engine) Select(u *Unit) map[Coord]*Tile {
	if u == nil || !u.Alive() {
		e.Deselect()
		return nil
	}
	e.selected = u
	e.Bus.Publish(Event{Kind: EventUnitSelected, Unit: u})
	return ReachableTiles(e.Grid, u.Pos(), u.Move)
}

// Deselect clears the active unit, if any.
func (e *Engine) Deselect() {
	if e.selected == nil {
		return
	}
	u := e.selected
	e.selected = nil
	e.Bus.Publish(Event{Kind: EventUnitDeselected, Unit: u})
}

// Selected returns the active unit, or nil.
func (e *Engine) Selected() *Unit { return e.selected }

// EndPhase closes the current phase and opens the next.
func (e *Engine) EndPhase() {
	e.Sched.EndPhase()
}

// Heal restores up to amount health to u, clamped at its maximum, and
// publishes the actual amount restored. Healing the dead is a no-op.
func (e *Engine) Heal(u *Unit, amount int) int {
	restored := u.heal(amount)
	if restored > 0 {
		e.Bus.Publish(Event{Kind: EventUnitHealed, Unit: u, Amount: restored})
	}
	return restored
}

// Message publishes free-form battle-log text on the bus.
func (e *Engine) Message(text string) {
	e.Bus.Publish(Event{Kind: EventMessage, Text: text})
}
