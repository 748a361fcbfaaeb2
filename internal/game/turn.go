package game

import "github.com/rs/zerolog"

// Phase is the active side of the turn cycle.
type Phase uint8

const (
	PhasePlayer Phase = iota
	PhaseEnemy
)

func (p Phase) String() string {
	if p == PhasePlayer {
		return "player"
	}
	return "enemy"
}

// Scheduler is the turn finite-state machine: two phases, a turn counter,
// and one roster per faction. It has no terminal state — victory and defeat
// are external observations over roster emptiness, not scheduler states.
type Scheduler struct {
	phase   Phase
	turn    int
	players []*Unit
	enemies []*Unit
	bus     *Bus
	log     zerolog.Logger
}

// NewScheduler starts at the player phase of turn 1.
func NewScheduler(bus *Bus, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		phase: PhasePlayer,
		turn:  1,
		bus:   bus,
		log:   log.With().Str("component", "scheduler").Logger(),
	}
}

// Phase returns the active phase.
func (s *Scheduler) Phase() Phase { return s.phase }

// Turn returns the current turn number. It increments once per full
// player+enemy cycle.
func (s *Scheduler) Turn() int { return s.turn }

// Register adds a unit to its faction's roster. Membership is additive; a
// unit is only ever removed by death.
func (s *Scheduler) Register(u *Unit) {
	if u.Faction == FactionPlayer {
		s.players = append(s.players, u)
	} else {
		s.enemies = append(s.enemies, u)
	}
}

// Remove takes a unit out of its roster. Removing a unit that is already
// absent is a no-op — removal happens exactly once, when health hits zero.
func (s *Scheduler) Remove(u *Unit) {
	roster := &s.players
	if u.Faction == FactionEnemy {
		roster = &s.enemies
	}
	for i, m := range *roster {
		if m == u {
			*roster = append((*roster)[:i], (*roster)[i+1:]...)
			return
		}
	}
}

// Roster returns the live roster slice for a faction. Callers iterate it in
// registration order; that order is what makes AI tie-breaks stable.
func (s *Scheduler) Roster(f Faction) []*Unit {
	if f == FactionPlayer {
		return s.players
	}
	return s.enemies
}

// EndPhase flips to the other phase, incrementing the turn counter when the
// enemy phase closes the cycle. Every member of the entering roster gets its
// per-turn AP allotment back.
func (s *Scheduler) EndPhase() {
	if s.phase == PhasePlayer {
		s.phase = PhaseEnemy
	} else {
		s.phase = PhasePlayer
		s.turn++
		s.bus.Publish(Event{Kind: EventTurnChanged, Turn: s.turn})
	}
	s.log.Debug().Stringer("phase", s.phase).Int("turn", s.turn).Msg("phase change")
	s.bus.Publish(Event{Kind: EventPhaseChanged, Phase: s.phase, Turn: s.turn})

	for _, u := range s.Roster(factionFor(s.phase)) {
		u.resetAP()
		s.bus.Publish(Event{Kind: EventUnitAPChanged, Unit: u, AP: u.AP()})
	}
}

// factionFor maps a phase to the faction that acts during it.
func factionFor(p Phase) Faction {
	if p == PhasePlayer {
		return FactionPlayer
	}
	return FactionEnemy
}
