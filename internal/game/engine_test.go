package game

import "testing"

func TestMoveHappyPath(t *testing.T) {
	tb := NewTestBattle(
		WithPlayerUnit(testTrooper("mover", nil), 0, 0),
	)
	mover := tb.Unit("mover")
	events := tb.CollectEvents(EventUnitAPChanged, EventUnitMoved)

	dest := Coord{2, 2}
	if r := tb.Eng.Move(mover, dest, 1); r != ReasonNone {
		t.Fatalf("move refused: %v", r)
	}
	if mover.Pos() != dest {
		t.Errorf("unit at %v, want %v", mover.Pos(), dest)
	}
	if mover.AP() != mover.MaxAP-1 {
		t.Errorf("AP %d, want %d", mover.AP(), mover.MaxAP-1)
	}
	if tb.Eng.Grid.TileAt(Coord{0, 0}).Occupant() != nil {
		t.Error("origin tile still occupied")
	}
	if tb.Eng.Grid.TileAt(dest).Occupant() != mover {
		t.Error("destination tile not occupied by the mover")
	}

	// AP change publishes before the move itself.
	if len(*events) != 2 || (*events)[0].Kind != EventUnitAPChanged || (*events)[1].Kind != EventUnitMoved {
		t.Errorf("event order %v, want [ap_changed, moved]", eventKinds(*events))
	}
}

func TestMoveDenialReasons(t *testing.T) {
	tb := NewTestBattle(
		WithWall(1, 0),
		WithPlayerUnit(testTrooper("mover", nil), 0, 0),
		WithPlayerUnit(UnitSpec{Name: "spent", MaxHealth: 10, Move: 4}, 5, 5),
		WithPlayerUnit(testTrooper("blocker", nil), 0, 1),
	)
	mover := tb.Unit("mover")

	cases := []struct {
		name string
		unit *Unit
		dest Coord
		want Reason
	}{
		{"no ap", tb.Unit("spent"), Coord{5, 6}, ReasonInsufficientAP},
		{"wall", mover, Coord{1, 0}, ReasonNotWalkable},
		{"occupied", mover, Coord{0, 1}, ReasonNotWalkable},
		{"out of bounds", mover, Coord{-1, 0}, ReasonNotWalkable},
		{"beyond budget", mover, Coord{10, 10}, ReasonOutOfBudget},
		{"own tile", mover, Coord{0, 0}, ReasonNotWalkable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			from := tc.unit.Pos()
			ap := tc.unit.AP()
			if r := tb.Eng.Move(tc.unit, tc.dest, 1); r != tc.want {
				t.Errorf("got %v, want %v", r, tc.want)
			}
			if tc.unit.Pos() != from || tc.unit.AP() != ap {
				t.Error("denied move mutated the unit")
			}
		})
	}
}

func TestMoveRespectsWalls(t *testing.T) {
	// A wall ring makes a nearby tile unreachable even within the budget.
	tb := NewTestBattle(
		WithWall(1, 0), WithWall(1, 1), WithWall(0, 1),
		WithPlayerUnit(testTrooper("mover", nil), 0, 0),
	)
	if r := tb.Eng.Move(tb.Unit("mover"), Coord{2, 0}, 1); r != ReasonOutOfBudget {
		t.Errorf("walled-off destination: got %v, want out of budget", r)
	}
}

func TestSelectReturnsReachableTiles(t *testing.T) {
	tb := NewTestBattle(
		WithPlayerUnit(testTrooper("mover", nil), 5, 5),
	)
	mover := tb.Unit("mover")
	events := tb.CollectEvents(EventUnitSelected, EventUnitDeselected)

	reach := tb.Eng.Select(mover)
	if tb.Eng.Selected() != mover {
		t.Error("selection not recorded")
	}
	// Move 4 on an open field: 2r(r+1) = 40 tiles.
	if len(reach) != 40 {
		t.Errorf("highlight set has %d tiles, want 40", len(reach))
	}

	tb.Eng.Deselect()
	if tb.Eng.Selected() != nil {
		t.Error("deselect left a selection")
	}
	tb.Eng.Deselect() // second deselect is a no-op

	if len(*events) != 2 {
		t.Errorf("%d selection events, want 2", len(*events))
	}
}

func TestHealClamps(t *testing.T) {
	tb := NewTestBattle(
		WithPlayerUnit(testTrooper("patient", nil), 0, 0),
	)
	patient := tb.Unit("patient")
	patient.takeDamage(10)
	healed := tb.CollectEvents(EventUnitHealed)

	if got := tb.Eng.Heal(patient, 25); got != 10 {
		t.Errorf("restored %d, want clamped 10", got)
	}
	if patient.Health() != patient.MaxHealth {
		t.Errorf("health %d, want full %d", patient.Health(), patient.MaxHealth)
	}
	if len(*healed) != 1 || (*healed)[0].Amount != 10 {
		t.Errorf("heal events %v, want one event of 10", *healed)
	}

	// Healing at full health is a silent no-op.
	if got := tb.Eng.Heal(patient, 5); got != 0 {
		t.Errorf("full-health heal restored %d, want 0", got)
	}
	if len(*healed) != 1 {
		t.Error("no-op heal still published an event")
	}
}

func TestHealNeverRevives(t *testing.T) {
	tb := NewTestBattle(
		WithPlayerUnit(testTrooper("casualty", nil), 0, 0),
	)
	casualty := tb.Unit("casualty")
	casualty.takeDamage(casualty.Health())

	if got := tb.Eng.Heal(casualty, 100); got != 0 {
		t.Errorf("healed a dead unit for %d", got)
	}
	if casualty.Alive() {
		t.Error("dead unit came back")
	}
}

func TestSnapshotContents(t *testing.T) {
	tb := NewTestBattle(
		WithPlayerUnit(testTrooper("alpha", testRifle()), 1, 2),
		WithEnemyUnit(testTrooper("bravo", nil), 7, 8),
		WithEnemyUnit(testTrooper("fallen", nil), 3, 3),
	)
	fallen := tb.Unit("fallen")
	fallen.takeDamage(fallen.Health())
	tb.Eng.Sched.Remove(fallen)
	tb.Eng.Grid.ClearOccupant(fallen.Pos())

	snap := tb.Eng.Snapshot()
	if snap.Turn != 1 || snap.Phase != "player" {
		t.Errorf("snapshot header turn=%d phase=%q", snap.Turn, snap.Phase)
	}
	if len(snap.Units) != 2 {
		t.Fatalf("%d units in snapshot, want 2 living", len(snap.Units))
	}

	alpha := snap.Units[0]
	if alpha.Name != "alpha" || alpha.Faction != "player" || alpha.X != 1 || alpha.Y != 2 {
		t.Errorf("unexpected first unit: %+v", alpha)
	}
	if alpha.Weapon != "test rifle" {
		t.Errorf("weapon label %q, want test rifle", alpha.Weapon)
	}
	if snap.Units[1].Weapon != "" {
		t.Errorf("unarmed unit carries weapon label %q", snap.Units[1].Weapon)
	}
}

func eventKinds(events []Event) []string {
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.Kind.String()
	}
	return out
}
