package content

import (
	"fmt"

	"github.com/calligan/skirmish/internal/game"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog"
)

// BuildEngine assembles a fully terraformed and populated engine from a
// scenario definition.
func (l *Library) BuildEngine(s ScenarioDef, seed int64, log zerolog.Logger) (*game.Engine, error) {
	eng := game.New(game.Config{
		Width:  s.Width,
		Height: s.Height,
		Seed:   seed,
		Logger: log,
	})

	for _, r := range s.Walls {
		for dy := 0; dy < r.H; dy++ {
			for dx := 0; dx < r.W; dx++ {
				eng.Grid.SetTraversable(game.Coord{X: r.X + dx, Y: r.Y + dy}, false)
			}
		}
	}
	for _, c := range s.Cover {
		level := game.CoverHalf
		if c.Level == "full" {
			level = game.CoverFull
		}
		eng.Grid.SetCover(game.Coord{X: c.X, Y: c.Y}, level)
	}

	for _, p := range s.Units {
		faction, err := parseFaction(p.Faction)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", s.ID, err)
		}
		spec, err := l.BuildUnitSpec(p.Unit, p.Name, faction)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", s.ID, err)
		}
		pos := game.Coord{X: p.X, Y: p.Y}
		if t := eng.Grid.TileAt(pos); t == nil || !t.Walkable() {
			return nil, fmt.Errorf("scenario %q: placement %q at %v is not walkable", s.ID, spec.Name, pos)
		}
		eng.Spawn(spec, pos)
	}
	return eng, nil
}

// BattleEnv is the variable set an end-condition expression may reference.
type BattleEnv struct {
	Turn         int
	PlayerCount  int
	EnemyCount   int
	PlayerHealth int
	EnemyHealth  int
}

// EnvFrom flattens the engine's live state into an evaluation environment.
func EnvFrom(eng *game.Engine) BattleEnv {
	env := BattleEnv{Turn: eng.Sched.Turn()}
	for _, u := range eng.Sched.Roster(game.FactionPlayer) {
		env.PlayerCount++
		env.PlayerHealth += u.Health()
	}
	for _, u := range eng.Sched.Roster(game.FactionEnemy) {
		env.EnemyCount++
		env.EnemyHealth += u.Health()
	}
	return env
}

// EndCondition is a compiled boolean expression over a BattleEnv, checked
// between phases. The source is kept alongside the bytecode for logging.
type EndCondition struct {
	Src     string
	program *vm.Program
}

// CompileEndCondition compiles src once, at load time, so scenario files
// with broken expressions fail fast instead of mid-battle.
func CompileEndCondition(src string) (*EndCondition, error) {
	prog, err := expr.Compile(src, expr.Env(BattleEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("end condition %q: %w", src, err)
	}
	return &EndCondition{Src: src, program: prog}, nil
}

// Met evaluates the condition against env.
func (c *EndCondition) Met(env BattleEnv) (bool, error) {
	result, err := vm.Run(c.program, env)
	if err != nil {
		return false, fmt.Errorf("end condition %q: %w", c.Src, err)
	}
	return result.(bool), nil
}
