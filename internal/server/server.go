package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/calligan/skirmish/internal/game"
)

// Server exposes one running battle over HTTP and WebSocket. The engine is
// single-threaded by design, so every request that touches it serializes
// through one mutex; the API trades throughput for the engine's strict
// sequential semantics.
type Server struct {
	mu       sync.Mutex
	eng      *game.Engine
	runner   *game.Runner
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// New wraps a battle for serving. runner may drive the enemy side only;
// player moves arrive through the API.
func New(eng *game.Engine, runner *game.Runner, log zerolog.Logger) *Server {
	return &Server{
		eng:    eng,
		runner: runner,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log.With().Str("component", "server").Logger(),
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/state", s.handleState).Methods(http.MethodGet)
	r.HandleFunc("/api/move", s.handleMove).Methods(http.MethodPost)
	r.HandleFunc("/api/attack", s.handleAttack).Methods(http.MethodPost)
	r.HandleFunc("/api/endphase", s.handleEndPhase).Methods(http.MethodPost)
	r.HandleFunc("/api/step", s.handleStep).Methods(http.MethodPost)
	r.HandleFunc("/ws/events", s.handleEvents)
	return r
}

type moveRequest struct {
	Unit string `json:"unit"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

type attackRequest struct {
	Attacker string `json:"attacker"`
	Target   string `json:"target"`
}

type actionResponse struct {
	OK      bool                `json:"ok"`
	Reason  string              `json:"reason,omitempty"`
	Outcome *game.AttackOutcome `json:"outcome,omitempty"`
}

type stepResponse struct {
	Acted     bool   `json:"acted"`
	Action    string `json:"action,omitempty"`
	Actor     string `json:"actor,omitempty"`
	Target    string `json:"target,omitempty"`
	PhaseOpen bool   `json:"phaseOpen"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.eng.Snapshot()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.findUnit(req.Unit)
	if u == nil {
		http.Error(w, "unknown unit", http.StatusNotFound)
		return
	}
	reason := s.eng.Move(u, game.Coord{X: req.X, Y: req.Y}, 1)
	writeJSON(w, http.StatusOK, actionResponse{
		OK:     reason == game.ReasonNone,
		Reason: reasonLabel(reason),
	})
}

func (s *Server) handleAttack(w http.ResponseWriter, r *http.Request) {
	var req attackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	attacker := s.findUnit(req.Attacker)
	target := s.findUnit(req.Target)
	if attacker == nil || target == nil {
		http.Error(w, "unknown unit", http.StatusNotFound)
		return
	}
	outcome, reason := s.eng.ExecuteAttack(attacker, target)
	resp := actionResponse{OK: reason == game.ReasonNone, Reason: reasonLabel(reason)}
	if outcome.Attempted {
		resp.Outcome = &outcome
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleEndPhase closes the player phase and immediately plays the whole
// enemy phase, returning the board as the player next sees it.
func (s *Server) handleEndPhase(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.eng.Sched.Phase() != game.PhasePlayer {
		http.Error(w, "not the player phase", http.StatusConflict)
		return
	}
	s.eng.EndPhase()
	s.runner.RunEnemyPhase()
	writeJSON(w, http.StatusOK, s.eng.Snapshot())
}

// handleStep advances the enemy phase by a single action, for clients that
// animate enemy moves one at a time. Calling it during the player phase
// first closes that phase.
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.eng.Sched.Phase() == game.PhasePlayer {
		s.eng.EndPhase()
	}
	step, open := s.runner.StepEnemy()
	resp := stepResponse{Acted: step.Acted, PhaseOpen: open}
	if step.Acted {
		resp.Action = step.Kind.String()
		resp.Actor = step.Actor.Name
		resp.Target = step.Target.Name
	}
	writeJSON(w, http.StatusOK, resp)
}

// wireEvent is the JSON shape of one bus event on the WebSocket stream.
type wireEvent struct {
	Kind   string `json:"kind"`
	Unit   string `json:"unit,omitempty"`
	Target string `json:"target,omitempty"`
	FromX  int    `json:"fromX,omitempty"`
	FromY  int    `json:"fromY,omitempty"`
	ToX    int    `json:"toX,omitempty"`
	ToY    int    `json:"toY,omitempty"`
	Turn   int    `json:"turn,omitempty"`
	Phase  string `json:"phase,omitempty"`
	Amount int    `json:"amount,omitempty"`
	AP     int    `json:"ap,omitempty"`
	Hit    bool   `json:"hit,omitempty"`
	Damage int    `json:"damage,omitempty"`
	Text   string `json:"text,omitempty"`
}

func toWire(ev game.Event) wireEvent {
	we := wireEvent{
		Kind:   ev.Kind.String(),
		FromX:  ev.From.X,
		FromY:  ev.From.Y,
		ToX:    ev.To.X,
		ToY:    ev.To.Y,
		Turn:   ev.Turn,
		Amount: ev.Amount,
		AP:     ev.AP,
		Hit:    ev.Outcome.Hit,
		Damage: ev.Outcome.Damage,
		Text:   ev.Text,
	}
	if ev.Unit != nil {
		we.Unit = ev.Unit.Name
	}
	if ev.Target != nil {
		we.Target = ev.Target.Name
	}
	if ev.Kind == game.EventPhaseChanged {
		we.Phase = ev.Phase.String()
	}
	return we
}

// handleEvents streams every engine event to the client as JSON messages.
// The subscription lives until the client disconnects.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	var writeMu sync.Mutex
	s.mu.Lock()
	sub := s.eng.Bus.SubscribeAll(func(ev game.Event) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(toWire(ev)); err != nil {
			s.log.Debug().Err(err).Msg("event stream write failed")
		}
	})
	s.mu.Unlock()

	// Block until the peer goes away, then detach.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.mu.Lock()
	sub.Close()
	s.mu.Unlock()
	_ = conn.Close()
}

// findUnit resolves a unit by display name across both rosters.
func (s *Server) findUnit(name string) *game.Unit {
	for _, f := range []game.Faction{game.FactionPlayer, game.FactionEnemy} {
		for _, u := range s.eng.Sched.Roster(f) {
			if u.Name == name {
				return u
			}
		}
	}
	return nil
}

func reasonLabel(r game.Reason) string {
	if r == game.ReasonNone {
		return ""
	}
	return r.String()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
