package game

// UnitSnapshot is the flattened, serializable view of one living unit.
type UnitSnapshot struct {
	Name      string `json:"name"`
	Faction   string `json:"faction"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Health    int    `json:"health"`
	MaxHealth int    `json:"maxHealth"`
	AP        int    `json:"ap"`
	Weapon    string `json:"weapon,omitempty"`
}

// Snapshot is a point-in-time view of a battle, detached from the engine's
// live objects. It is deliberately lossy: dead units, selection, pending
// decisions and RNG state are not captured, so a snapshot describes a
// battle but cannot resume one.
type Snapshot struct {
	Turn  int            `json:"turn"`
	Phase string         `json:"phase"`
	Units []UnitSnapshot `json:"units"`
}

// Snapshot captures the current battle state. Units appear in registration
// order, players before enemies.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Turn:  e.Sched.Turn(),
		Phase: e.Sched.Phase().String(),
	}
	for _, f := range []Faction{FactionPlayer, FactionEnemy} {
		for _, u := range e.Sched.Roster(f) {
			if !u.Alive() {
				continue
			}
			us := UnitSnapshot{
				Name:      u.Name,
				Faction:   u.Faction.String(),
				X:         u.Pos().X,
				Y:         u.Pos().Y,
				Health:    u.Health(),
				MaxHealth: u.MaxHealth,
				AP:        u.AP(),
			}
			if w := u.Weapon(); w != nil {
				us.Weapon = w.Name
			}
			snap.Units = append(snap.Units, us)
		}
	}
	return snap
}
