package game

import "github.com/rs/zerolog"

// TestBattle is a headless battle harness used exclusively by tests. It
// wraps a fully wired Engine with deterministic seeding, name-based unit
// lookup, and tactician access for both sides.
type TestBattle struct {
	Eng     *Engine
	Players *Tactician
	Enemies *Tactician
	Runner  *Runner

	seed   int64
	width  int
	height int
	units  map[string]*Unit
}

// battleOptionKind controls the pass in which an option is applied.
type battleOptionKind int

const (
	battleOptInfra   battleOptionKind = iota // grid size, seed — applied first
	battleOptTerrain                         // walls and cover — applied after the grid exists
	battleOptUnit                            // spawn units — applied after terrain
)

// BattleOption is a builder function applied to a TestBattle during
// construction.
type BattleOption struct {
	kind battleOptionKind
	fn   func(*TestBattle)
}

// WithGridSize sets the battlefield dimensions.
func WithGridSize(w, h int) BattleOption {
	return BattleOption{battleOptInfra, func(tb *TestBattle) {
		tb.width = w
		tb.height = h
	}}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) BattleOption {
	return BattleOption{battleOptInfra, func(tb *TestBattle) {
		tb.seed = seed
	}}
}

// WithWall marks the tile at (x,y) non-traversable.
func WithWall(x, y int) BattleOption {
	return BattleOption{battleOptTerrain, func(tb *TestBattle) {
		tb.Eng.Grid.SetTraversable(Coord{X: x, Y: y}, false)
	}}
}

// WithWallRect marks a w×h rectangle of tiles non-traversable.
func WithWallRect(x, y, w, h int) BattleOption {
	return BattleOption{battleOptTerrain, func(tb *TestBattle) {
		for dy := 0; dy < h; dy++ {
			for dx := 0; dx < w; dx++ {
				tb.Eng.Grid.SetTraversable(Coord{X: x + dx, Y: y + dy}, false)
			}
		}
	}}
}

// WithCover sets the cover type of the tile at (x,y).
func WithCover(x, y int, c CoverType) BattleOption {
	return BattleOption{battleOptTerrain, func(tb *TestBattle) {
		tb.Eng.Grid.SetCover(Coord{X: x, Y: y}, c)
	}}
}

// WithPlayerUnit spawns a player-side unit from spec at (x,y). The spec's
// Faction field is overridden.
func WithPlayerUnit(spec UnitSpec, x, y int) BattleOption {
	return BattleOption{battleOptUnit, func(tb *TestBattle) {
		spec.Faction = FactionPlayer
		tb.spawn(spec, Coord{X: x, Y: y})
	}}
}

// WithEnemyUnit spawns an enemy-side unit from spec at (x,y). The spec's
// Faction field is overridden.
func WithEnemyUnit(spec UnitSpec, x, y int) BattleOption {
	return BattleOption{battleOptUnit, func(tb *TestBattle) {
		spec.Faction = FactionEnemy
		tb.spawn(spec, Coord{X: x, Y: y})
	}}
}

// NewTestBattle constructs a TestBattle from the given options in three
// ordered passes:
//  1. Infrastructure (grid size, seed)
//  2. Terrain (walls, cover)
//  3. Units
func NewTestBattle(opts ...BattleOption) *TestBattle {
	tb := &TestBattle{
		seed:   1,
		width:  20,
		height: 20,
		units:  make(map[string]*Unit),
	}
	for _, o := range opts {
		if o.kind == battleOptInfra {
			o.fn(tb)
		}
	}
	tb.Eng = New(Config{Width: tb.width, Height: tb.height, Seed: tb.seed, Logger: zerolog.Nop()})
	for _, o := range opts {
		if o.kind == battleOptTerrain {
			o.fn(tb)
		}
	}
	for _, o := range opts {
		if o.kind == battleOptUnit {
			o.fn(tb)
		}
	}
	tb.Players = NewTactician(tb.Eng, FactionPlayer, zerolog.Nop())
	tb.Enemies = NewTactician(tb.Eng, FactionEnemy, zerolog.Nop())
	tb.Runner = NewRunner(tb.Eng, tb.Players, tb.Enemies, zerolog.Nop())
	return tb
}

func (tb *TestBattle) spawn(spec UnitSpec, pos Coord) {
	tb.units[spec.Name] = tb.Eng.Spawn(spec, pos)
}

// Unit looks up a spawned unit by name. Panics on unknown names so tests
// fail loudly on typos.
func (tb *TestBattle) Unit(name string) *Unit {
	u, ok := tb.units[name]
	if !ok {
		panic("test battle: no unit named " + name)
	}
	return u
}

// CollectEvents subscribes a recorder for all subsequent events of the
// given kinds (or all kinds when none are given) and returns the slice
// pointer. The subscription lives for the battle's lifetime.
func (tb *TestBattle) CollectEvents(kinds ...EventKind) *[]Event {
	events := &[]Event{}
	record := func(ev Event) { *events = append(*events, ev) }
	if len(kinds) == 0 {
		tb.Eng.Bus.SubscribeAll(record)
		return events
	}
	for _, k := range kinds {
		tb.Eng.Bus.Subscribe(k, record)
	}
	return events
}
