package game

// Faction distinguishes the two sides of a battle.
type Faction uint8

const (
	FactionPlayer Faction = iota
	FactionEnemy
)

func (f Faction) String() string {
	if f == FactionPlayer {
		return "player"
	}
	return "enemy"
}

// Opposing returns the other side.
func (f Faction) Opposing() Faction {
	if f == FactionPlayer {
		return FactionEnemy
	}
	return FactionPlayer
}

// UnitSpec is the externally supplied configuration record for a combatant.
type UnitSpec struct {
	Name      string
	Faction   Faction
	MaxHealth int
	Move      int // movement budget per turn, in tiles
	Accuracy  int // base to-hit contribution
	Defense   int // base defensive stat
	MaxAP     int // per-turn action point allotment
	Weapon    *Weapon
}

// Unit is a combatant on the grid. It occupies exactly one tile at a time;
// the stored coordinate and the grid's occupancy map are kept in sync by the
// engine's single mutation path. A unit whose health reaches zero leaves
// turn participation but is never resurrected.
type Unit struct {
	Name    string
	Faction Faction

	MaxHealth int
	Move      int
	Accuracy  int
	Defense   int
	MaxAP     int

	health int
	ap     int
	weapon *Weapon
	pos    Coord
}

// NewUnit creates a freshly spawned unit at full health and full AP. Its
// position is unset until the engine places it on the grid.
func NewUnit(spec UnitSpec) *Unit {
	return &Unit{
		Name:      spec.Name,
		Faction:   spec.Faction,
		MaxHealth: spec.MaxHealth,
		Move:      spec.Move,
		Accuracy:  spec.Accuracy,
		Defense:   spec.Defense,
		MaxAP:     spec.MaxAP,
		health:    spec.MaxHealth,
		ap:        spec.MaxAP,
		weapon:    spec.Weapon,
	}
}

// Alive reports whether the unit still participates in the battle.
func (u *Unit) Alive() bool { return u.health > 0 }

// Health returns current health, always within [0, MaxHealth].
func (u *Unit) Health() int { return u.health }

// AP returns the current action point balance.
func (u *Unit) AP() int { return u.ap }

// Pos returns the unit's current grid coordinate.
func (u *Unit) Pos() Coord { return u.pos }

// Weapon returns the equipped weapon, or nil when unarmed.
func (u *Unit) Weapon() *Weapon { return u.weapon }

// Equip swaps the equipped weapon. The weapon record is shared, not copied.
func (u *Unit) Equip(w *Weapon) { u.weapon = w }

// takeDamage reduces health, flooring at zero. Returns the amount actually
// lost.
func (u *Unit) takeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	if amount > u.health {
		amount = u.health
	}
	u.health -= amount
	return amount
}

// heal restores health, clamped at MaxHealth. Dead units stay dead — healing
// a zero-health unit is a no-op. Returns the amount actually restored.
func (u *Unit) heal(amount int) int {
	if amount <= 0 || u.health == 0 {
		return 0
	}
	if u.health+amount > u.MaxHealth {
		amount = u.MaxHealth - u.health
	}
	u.health += amount
	return amount
}

// spendAP deducts cost from the balance. Callers check affordability first.
func (u *Unit) spendAP(cost int) {
	if cost > u.ap {
		panic("unit: AP spent without affordability check")
	}
	u.ap -= cost
}

// resetAP restores the full per-turn allotment. Called on phase entry.
func (u *Unit) resetAP() { u.ap = u.MaxAP }
