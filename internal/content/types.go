package content

// WeaponDef is the JSON-facing definition of a weapon archetype.
type WeaponDef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Class       string `json:"class"` // ranged | melee | spread | aoe
	Damage      int    `json:"damage"`
	Range       int    `json:"range"`
	Accuracy    int    `json:"accuracy"`
	APCost      int    `json:"apCost"`
	Falloff     int    `json:"falloff,omitempty"`
	ConeWidth   int    `json:"coneWidth,omitempty"`
	BlastRadius int    `json:"blastRadius,omitempty"`
}

// UnitDef is the JSON-facing definition of a unit template. Weapon refers
// to a WeaponDef by ID; empty means unarmed.
type UnitDef struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MaxHealth int    `json:"maxHealth"`
	Move      int    `json:"move"`
	Accuracy  int    `json:"accuracy"`
	Defense   int    `json:"defense,omitempty"`
	MaxAP     int    `json:"maxAp"`
	Weapon    string `json:"weapon,omitempty"`
}

// RectDef is an axis-aligned rectangle of tiles.
type RectDef struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// CoverDef places cover on a single tile.
type CoverDef struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Level string `json:"level"` // half | full
}

// PlacementDef spawns one unit from a template at a fixed coordinate.
// Name overrides the template's display name, so a scenario can field the
// same template twice without ambiguity.
type PlacementDef struct {
	Unit    string `json:"unit"`
	Faction string `json:"faction"` // player | enemy
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Name    string `json:"name,omitempty"`
}

// ScenarioDef is a complete battle setup: battlefield shape, terrain,
// placements, and an optional end condition evaluated between phases.
type ScenarioDef struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Width        int            `json:"width"`
	Height       int            `json:"height"`
	Walls        []RectDef      `json:"walls,omitempty"`
	Cover        []CoverDef     `json:"cover,omitempty"`
	Units        []PlacementDef `json:"units"`
	MaxTurns     int            `json:"maxTurns,omitempty"`
	EndCondition string         `json:"endCondition,omitempty"`
}
