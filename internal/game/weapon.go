package game

// WeaponClass is the combat archetype of a weapon. It selects the hit-chance
// formula and area shape used by the resolver.
type WeaponClass uint8

const (
	WeaponRanged WeaponClass = iota // single-target, accuracy falls off per tile
	WeaponMelee                     // adjacency weapon, ignores distance and cover
	WeaponSpread                    // coarse cone toward the target
	WeaponAOE                       // blast around the target tile, friendly fire
)

func (wc WeaponClass) String() string {
	switch wc {
	case WeaponRanged:
		return "ranged"
	case WeaponMelee:
		return "melee"
	case WeaponSpread:
		return "spread"
	case WeaponAOE:
		return "aoe"
	default:
		return "unknown"
	}
}

// Weapon is an immutable configuration record, shared read-only by every
// unit that equips it. Content files supply the numbers; the engine never
// mutates a weapon after load.
type Weapon struct {
	Name     string
	Class    WeaponClass
	Damage   int // base damage per landed hit
	Range    int // Manhattan tiles
	Accuracy int // base to-hit contribution
	APCost   int // action points consumed per attack

	// Per-class modifiers. Zero for classes that do not use them.
	FalloffPerTile int // Ranged/Spread: accuracy lost per tile of distance
	ConeWidth      int // Spread: cone width in tiles
	BlastRadius    int // AOE: Manhattan radius around the target tile
}
