package game

// EventKind identifies a notification emitted by the engine.
type EventKind uint8

const (
	EventPhaseChanged EventKind = iota
	EventTurnChanged
	EventUnitSelected
	EventUnitDeselected
	EventUnitMoved
	EventUnitAPChanged
	EventUnitDamaged
	EventUnitHealed
	EventUnitDied
	EventAttackExecuted
	EventMessage
)

func (k EventKind) String() string {
	switch k {
	case EventPhaseChanged:
		return "phase_changed"
	case EventTurnChanged:
		return "turn_changed"
	case EventUnitSelected:
		return "unit_selected"
	case EventUnitDeselected:
		return "unit_deselected"
	case EventUnitMoved:
		return "unit_moved"
	case EventUnitAPChanged:
		return "unit_ap_changed"
	case EventUnitDamaged:
		return "unit_damaged"
	case EventUnitHealed:
		return "unit_healed"
	case EventUnitDied:
		return "unit_died"
	case EventAttackExecuted:
		return "attack_executed"
	case EventMessage:
		return "message"
	default:
		return "unknown"
	}
}

// Event carries one fire-and-forget notification. Only the fields relevant
// to the kind are populated. Events are published synchronously, in the
// order the underlying state actually changed, before the triggering call
// returns.
type Event struct {
	Kind    EventKind
	Unit    *Unit // primary subject (mover, victim, selected unit, attacker for AttackExecuted)
	Target  *Unit // attack target
	From    Coord // moves: origin
	To      Coord // moves: destination
	Phase   Phase
	Turn    int
	Amount  int // damage or healing applied
	AP      int // new AP balance after an AP change
	Outcome AttackOutcome
	Text    string
}

type subscriber struct {
	id int
	fn func(Event)
}

// Bus is a synchronous typed publish/subscribe channel. It is owned by the
// engine and handed to each component at construction — there is no ambient
// global broadcaster. Subscriptions are ownership-scoped: release the handle
// when the subscriber goes away.
type Bus struct {
	nextID  int
	byKind  map[EventKind][]subscriber
	catchAll []subscriber
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{byKind: make(map[EventKind][]subscriber)}
}

// Subscription is the handle returned by Subscribe. Close detaches the
// callback; closing twice is harmless.
type Subscription struct {
	bus  *Bus
	kind EventKind
	all  bool
	id   int
}

// Close removes the subscription from the bus.
func (s *Subscription) Close() {
	if s.bus == nil {
		return
	}
	if s.all {
		s.bus.catchAll = removeSubscriber(s.bus.catchAll, s.id)
	} else {
		s.bus.byKind[s.kind] = removeSubscriber(s.bus.byKind[s.kind], s.id)
	}
	s.bus = nil
}

func removeSubscriber(subs []subscriber, id int) []subscriber {
	for i, s := range subs {
		if s.id == id {
			return append(subs[:i], subs[i+1:]...)
		}
	}
	return subs
}

// Subscribe registers fn for one event kind. Callbacks run synchronously on
// the publishing goroutine, in registration order.
func (b *Bus) Subscribe(kind EventKind, fn func(Event)) *Subscription {
	b.nextID++
	b.byKind[kind] = append(b.byKind[kind], subscriber{id: b.nextID, fn: fn})
	return &Subscription{bus: b, kind: kind, id: b.nextID}
}

// SubscribeAll registers fn for every event kind.
func (b *Bus) SubscribeAll(fn func(Event)) *Subscription {
	b.nextID++
	b.catchAll = append(b.catchAll, subscriber{id: b.nextID, fn: fn})
	return &Subscription{bus: b, all: true, id: b.nextID}
}

// Publish delivers ev to kind subscribers first, then catch-all subscribers.
func (b *Bus) Publish(ev Event) {
	for _, s := range b.byKind[ev.Kind] {
		s.fn(ev)
	}
	for _, s := range b.catchAll {
		s.fn(ev)
	}
}
