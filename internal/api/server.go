/*
Package api
File: server.go
Description:
    Owns the running colony and the frame loop that drives it.

    The game.Engine is single-threaded, so every reader and writer (frame
    loop, HTTP handlers, WebSocket commands) goes through Server.mu.
    Each frame ticks the engine with the measured wall-clock delta, logs
    the events it produced, and periodically broadcasts a snapshot to all
    connected renderers through the Hub.
*/

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/everforgeworks/deepcore-colony/internal/game"
)

// ErrUnknownAction is returned for commands the server does not recognize.
var ErrUnknownAction = errors.New("unknown action")

// Command actions, shared by the REST endpoints and WebSocket messages.
const (
	ActionBuyUnit       = "buy_unit"
	ActionConstruct     = "construct"
	ActionUpgrade       = "upgrade"
	ActionSetWorkers    = "set_workers"
	ActionPrestige      = "prestige"
	ActionSetMultiplier = "set_multiplier"
	ActionAddCredits    = "add_credits"
)

// Command is a player request against the colony.
type Command struct {
	Action       string            `json:"action"`
	UnitType     game.UnitType     `json:"unit_type,omitempty"`
	SlotID       int               `json:"slot_id"`
	BuildingType game.BuildingType `json:"building_type,omitempty"`
	UpgradeID    string            `json:"upgrade_id,omitempty"`
	Count        int               `json:"count"`
	Value        float64           `json:"value"`
}

// CommandResult tells the client whether the colony accepted the command.
type CommandResult struct {
	Accepted bool          `json:"accepted"`
	UnitID   string        `json:"unit_id,omitempty"`
	State    game.Snapshot `json:"state"`
}

// Server wraps one colony with its lock, hub and rate limiters.
type Server struct {
	mu     sync.Mutex
	engine *game.Engine
	hub    *Hub
	frames uint64

	broadcastEvery int
	frameInterval  time.Duration

	limit    rate.Limit
	burst    int
	limMu    sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewServer builds a colony from cfg. hub may be nil when no WebSocket
// clients are served.
func NewServer(cfg *game.Config, hub *Hub) *Server {
	s := &Server{
		engine:         game.NewEngine(cfg),
		hub:            hub,
		broadcastEvery: max(1, cfg.Server.BroadcastEvery),
		frameInterval:  cfg.Server.FrameInterval,
		limit:          rate.Limit(cfg.Server.CommandsPerSecond),
		burst:          max(1, cfg.Server.CommandBurst),
		limiters:       make(map[string]*rate.Limiter),
	}
	if s.frameInterval <= 0 {
		s.frameInterval = 16 * time.Millisecond
	}
	if s.limit <= 0 {
		s.limit = rate.Inf
	}
	if hub != nil {
		hub.OnMessage = s.handleSocketMessage
	}
	return s
}

// Run drives the frame loop until ctx is cancelled.
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(s.frameInterval)
	defer ticker.Stop()

	last := time.Now()
	log.Printf("COLONY: Frame loop online (%s per frame)", s.frameInterval)
	for {
		select {
		case <-ctx.Done():
			log.Println("COLONY: Frame loop stopped")
			return
		case now := <-ticker.C:
			s.Step(now.Sub(last).Seconds())
			last = now
		}
	}
}

// Step advances the colony by one frame and publishes the results.
func (s *Server) Step(dt float64) {
	s.mu.Lock()
	s.engine.Tick(dt)
	s.frames++
	events := s.engine.DrainEvents()
	var snap *game.Snapshot
	if s.frames%uint64(s.broadcastEvery) == 0 {
		v := s.engine.Snapshot()
		snap = &v
	}
	s.mu.Unlock()

	for _, ev := range events {
		log.Printf("COLONY: [%s] %s", ev.Kind, ev.Message)
		s.publish("event", ev)
	}
	if snap != nil {
		s.publish("frame", snap)
	}
}

// Snapshot returns the current read model.
func (s *Server) Snapshot() game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot()
}

// StageConfig queues a reloaded configuration for the next prestige.
func (s *Server) StageConfig(cfg *game.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.StageConfig(cfg)
}

// Execute applies a command and reports whether the colony accepted it.
func (s *Server) Execute(cmd Command) (CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res CommandResult
	e := s.engine
	switch cmd.Action {
	case ActionBuyUnit:
		res.UnitID = e.BuyUnit(cmd.UnitType)
		res.Accepted = res.UnitID != ""
	case ActionConstruct:
		res.Accepted = e.ConstructBuilding(cmd.SlotID, cmd.BuildingType)
	case ActionUpgrade:
		res.Accepted = e.BuyUpgrade(cmd.SlotID, cmd.UpgradeID)
	case ActionSetWorkers:
		res.Accepted = e.SetWorkerRequest(cmd.SlotID, cmd.Count)
	case ActionPrestige:
		e.Prestige()
		res.Accepted = true
	case ActionSetMultiplier:
		res.Accepted = e.SetGlobalMultiplier(cmd.Value)
	case ActionAddCredits:
		e.AddCredits(cmd.Value)
		res.Accepted = true
	default:
		return res, fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
	}
	res.State = e.Snapshot()
	return res, nil
}

// handleSocketMessage runs a command received over the WebSocket.
// Results come back to everyone on the next frame broadcast.
func (s *Server) handleSocketMessage(msg []byte) {
	var env struct {
		Type    string  `json:"type"`
		Payload Command `json:"payload"`
	}
	if err := json.Unmarshal(msg, &env); err != nil {
		log.Printf("WS: Bad message: %v", err)
		return
	}
	if env.Type != "command" {
		return
	}
	res, err := s.Execute(env.Payload)
	if err != nil {
		log.Printf("WS: %v", err)
		return
	}
	if !res.Accepted {
		log.Printf("WS: Command %s rejected", env.Payload.Action)
	}
}

func (s *Server) publish(kind string, payload interface{}) {
	if s.hub == nil {
		return
	}
	b, err := json.Marshal(Message{Type: kind, Payload: payload, Sender: "colony"})
	if err != nil {
		log.Printf("COLONY: Error marshaling %s: %v", kind, err)
		return
	}
	s.hub.Publish(b)
}

// allow applies the per-client command rate limit.
func (s *Server) allow(r *http.Request) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	s.limMu.Lock()
	lim, ok := s.limiters[host]
	if !ok {
		lim = rate.NewLimiter(s.limit, s.burst)
		s.limiters[host] = lim
	}
	s.limMu.Unlock()
	return lim.Allow()
}
