package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/calligan/skirmish/internal/game"
)

func newTestServer(t *testing.T) (*Server, *game.TestBattle) {
	t.Helper()
	tb := game.NewTestBattle(
		game.WithSeed(11),
		game.WithPlayerUnit(game.UnitSpec{
			Name: "alpha", MaxHealth: 30, Move: 4, Accuracy: 10, MaxAP: 2,
			Weapon: &game.Weapon{Name: "rifle", Class: game.WeaponRanged, Damage: 10, Range: 8, Accuracy: 70, APCost: 1, FalloffPerTile: 2},
		}, 2, 2),
		game.WithEnemyUnit(game.UnitSpec{Name: "bravo", MaxHealth: 30, Move: 4, MaxAP: 2}, 5, 2),
	)
	return New(tb.Eng, tb.Runner, zerolog.Nop()), tb
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestStateEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Router(), http.MethodGet, "/api/state", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}

	var snap game.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatal(err)
	}
	if snap.Turn != 1 || snap.Phase != "player" || len(snap.Units) != 2 {
		t.Errorf("snapshot %+v", snap)
	}
}

func TestMoveEndpoint(t *testing.T) {
	srv, tb := newTestServer(t)
	router := srv.Router()

	rec := doJSON(t, router, http.MethodPost, "/api/move", moveRequest{Unit: "alpha", X: 3, Y: 2})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp actionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.OK || resp.Reason != "" {
		t.Errorf("response %+v", resp)
	}
	if tb.Unit("alpha").Pos() != (game.Coord{X: 3, Y: 2}) {
		t.Errorf("unit did not move: %v", tb.Unit("alpha").Pos())
	}

	// A denied move reports its reason instead of failing the request.
	rec = doJSON(t, router, http.MethodPost, "/api/move", moveRequest{Unit: "alpha", X: 15, Y: 15})
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.OK || resp.Reason == "" {
		t.Errorf("denied move response %+v", resp)
	}
}

func TestMoveUnknownUnit(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/move", moveRequest{Unit: "ghost", X: 1, Y: 1})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status %d, want 404", rec.Code)
	}
}

func TestAttackEndpoint(t *testing.T) {
	srv, tb := newTestServer(t)
	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/attack", attackRequest{Attacker: "alpha", Target: "bravo"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}

	var resp actionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.OK || resp.Outcome == nil || !resp.Outcome.Attempted {
		t.Errorf("response %+v", resp)
	}
	// 70 + 10 - 3 tiles × 2 falloff.
	if resp.Outcome.HitChance != 74 {
		t.Errorf("hit chance %d, want 74", resp.Outcome.HitChance)
	}
	if tb.Unit("alpha").AP() != 1 {
		t.Errorf("attacker AP %d, want 1", tb.Unit("alpha").AP())
	}
}

func TestEndPhaseRunsEnemyTurn(t *testing.T) {
	srv, tb := newTestServer(t)
	router := srv.Router()

	rec := doJSON(t, router, http.MethodPost, "/api/endphase", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if tb.Eng.Sched.Phase() != game.PhasePlayer {
		t.Errorf("phase %v after endphase, want player again", tb.Eng.Sched.Phase())
	}
	if tb.Eng.Sched.Turn() != 2 {
		t.Errorf("turn %d, want 2", tb.Eng.Sched.Turn())
	}

	// Ending a phase that is not the player's is a conflict.
	tb.Eng.EndPhase()
	rec = doJSON(t, router, http.MethodPost, "/api/endphase", nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("status %d, want 409", rec.Code)
	}
}

func TestStepEndpointClosesPhase(t *testing.T) {
	srv, tb := newTestServer(t)
	router := srv.Router()

	// The unarmed enemy has no viable actions: the first step should close
	// the enemy phase immediately.
	rec := doJSON(t, router, http.MethodPost, "/api/step", nil)
	var resp stepResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Acted || resp.PhaseOpen {
		t.Errorf("response %+v, want an immediate phase close", resp)
	}
	if tb.Eng.Sched.Phase() != game.PhasePlayer || tb.Eng.Sched.Turn() != 2 {
		t.Errorf("schedule at %v turn %d", tb.Eng.Sched.Phase(), tb.Eng.Sched.Turn())
	}
}
