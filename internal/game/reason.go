package game

// Reason classifies why a requested move or attack was denied. Rule
// violations are expected outcomes, not errors: the caller simply does not
// perform the action and may try an alternative. Genuinely corrupt state
// (a unit off-grid, a tile holding an occupant it never registered) panics
// instead — that is a programmer error, not a rule.
type Reason uint8

const (
	ReasonNone           Reason = iota // request allowed
	ReasonOutOfBudget                  // destination outside the reachable set
	ReasonNotWalkable                  // destination blocked or occupied
	ReasonInsufficientAP               // action points below the action's cost
	ReasonNoWeapon                     // attacker has nothing equipped
	ReasonOutOfRange                   // target beyond weapon range
	ReasonNoLineOfSight                // sight line blocked for a non-AOE weapon
	ReasonUnitNotAlive                 // actor or target is out of the fight
	ReasonInvalidTarget                // nil target or self-targeting
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "ok"
	case ReasonOutOfBudget:
		return "out of movement budget"
	case ReasonNotWalkable:
		return "destination not walkable"
	case ReasonInsufficientAP:
		return "insufficient action points"
	case ReasonNoWeapon:
		return "no weapon equipped"
	case ReasonOutOfRange:
		return "out of weapon range"
	case ReasonNoLineOfSight:
		return "no line of sight"
	case ReasonUnitNotAlive:
		return "unit not alive"
	case ReasonInvalidTarget:
		return "invalid target"
	default:
		return "unknown"
	}
}
