package content

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/calligan/skirmish/internal/game"
)

// Library holds every loaded definition, keyed by ID. A library is built
// once at startup and read-only afterwards.
type Library struct {
	Weapons   map[string]WeaponDef
	Units     map[string]UnitDef
	Scenarios map[string]ScenarioDef
}

// Load reads weapons.json, units.json and scenarios.json from dir and
// validates every cross-reference. A dangling weapon or unit ID is a load
// error, not a runtime surprise.
func Load(dir string) (*Library, error) {
	lib := &Library{
		Weapons:   make(map[string]WeaponDef),
		Units:     make(map[string]UnitDef),
		Scenarios: make(map[string]ScenarioDef),
	}

	var weapons []WeaponDef
	if err := readDefs(filepath.Join(dir, "weapons.json"), &weapons); err != nil {
		return nil, err
	}
	for _, w := range weapons {
		if _, err := parseWeaponClass(w.Class); err != nil {
			return nil, fmt.Errorf("weapon %q: %w", w.ID, err)
		}
		lib.Weapons[w.ID] = w
	}

	var units []UnitDef
	if err := readDefs(filepath.Join(dir, "units.json"), &units); err != nil {
		return nil, err
	}
	for _, u := range units {
		if u.Weapon != "" {
			if _, ok := lib.Weapons[u.Weapon]; !ok {
				return nil, fmt.Errorf("unit %q references unknown weapon %q", u.ID, u.Weapon)
			}
		}
		lib.Units[u.ID] = u
	}

	var scenarios []ScenarioDef
	if err := readDefs(filepath.Join(dir, "scenarios.json"), &scenarios); err != nil {
		return nil, err
	}
	for _, s := range scenarios {
		for _, p := range s.Units {
			if _, ok := lib.Units[p.Unit]; !ok {
				return nil, fmt.Errorf("scenario %q references unknown unit %q", s.ID, p.Unit)
			}
			if _, err := parseFaction(p.Faction); err != nil {
				return nil, fmt.Errorf("scenario %q: %w", s.ID, err)
			}
		}
		if s.EndCondition != "" {
			if _, err := CompileEndCondition(s.EndCondition); err != nil {
				return nil, fmt.Errorf("scenario %q: %w", s.ID, err)
			}
		}
		lib.Scenarios[s.ID] = s
	}

	return lib, nil
}

func readDefs(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read definitions file: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filepath.Base(path), err)
	}
	return nil
}

// BuildWeapon converts a weapon definition into the engine's shared record.
func (l *Library) BuildWeapon(id string) (*game.Weapon, error) {
	def, ok := l.Weapons[id]
	if !ok {
		return nil, fmt.Errorf("unknown weapon %q", id)
	}
	class, err := parseWeaponClass(def.Class)
	if err != nil {
		return nil, err
	}
	return &game.Weapon{
		Name:           def.Name,
		Class:          class,
		Damage:         def.Damage,
		Range:          def.Range,
		Accuracy:       def.Accuracy,
		APCost:         def.APCost,
		FalloffPerTile: def.Falloff,
		ConeWidth:      def.ConeWidth,
		BlastRadius:    def.BlastRadius,
	}, nil
}

// BuildUnitSpec converts a unit template into a spawnable spec. name may be
// empty to keep the template's display name.
func (l *Library) BuildUnitSpec(id, name string, faction game.Faction) (game.UnitSpec, error) {
	def, ok := l.Units[id]
	if !ok {
		return game.UnitSpec{}, fmt.Errorf("unknown unit %q", id)
	}
	spec := game.UnitSpec{
		Name:      def.Name,
		Faction:   faction,
		MaxHealth: def.MaxHealth,
		Move:      def.Move,
		Accuracy:  def.Accuracy,
		Defense:   def.Defense,
		MaxAP:     def.MaxAP,
	}
	if name != "" {
		spec.Name = name
	}
	if def.Weapon != "" {
		w, err := l.BuildWeapon(def.Weapon)
		if err != nil {
			return game.UnitSpec{}, err
		}
		spec.Weapon = w
	}
	return spec, nil
}

func parseWeaponClass(s string) (game.WeaponClass, error) {
	switch s {
	case "ranged":
		return game.WeaponRanged, nil
	case "melee":
		return game.WeaponMelee, nil
	case "spread":
		return game.WeaponSpread, nil
	case "aoe":
		return game.WeaponAOE, nil
	default:
		return 0, fmt.Errorf("unknown weapon class %q", s)
	}
}

func parseFaction(s string) (game.Faction, error) {
	switch s {
	case "player":
		return game.FactionPlayer, nil
	case "enemy":
		return game.FactionEnemy, nil
	default:
		return 0, fmt.Errorf("unknown faction %q", s)
	}
}
