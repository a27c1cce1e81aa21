/*
Package api
File: handlers.go
Description:
    Contains the HTTP handlers for the REST API.
    Reads return the current snapshot or the static catalogs; writes decode
    a JSON body into a Command and run it against the colony.

    Key Responsibilities:
    - Input Validation (Is the JSON valid? Is the method right?)
    - Rate limiting of command endpoints per client address
    - Mapping rejected commands to 409 so clients can tell a no-op apart
*/

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/everforgeworks/deepcore-colony/internal/game"
)

// CatalogResponse lists everything a player can buy.
type CatalogResponse struct {
	Units     map[game.UnitType]game.UnitStats         `json:"units"`
	Buildings map[game.BuildingType]game.BuildingSpec `json:"buildings"`
	Upgrades  []game.Upgrade                          `json:"upgrades"`
}

// Routes wires every endpoint onto a new mux.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// Information Endpoints
	mux.HandleFunc("/api/state", s.handleGetState)
	mux.HandleFunc("/api/catalog", s.handleGetCatalog)

	// Action Endpoints
	mux.HandleFunc("/api/units/buy", s.commandHandler(ActionBuyUnit))
	mux.HandleFunc("/api/buildings/construct", s.commandHandler(ActionConstruct))
	mux.HandleFunc("/api/buildings/upgrade", s.commandHandler(ActionUpgrade))
	mux.HandleFunc("/api/buildings/workers", s.commandHandler(ActionSetWorkers))
	mux.HandleFunc("/api/prestige", s.commandHandler(ActionPrestige))

	// Debug Endpoints
	mux.HandleFunc("/api/debug/multiplier", s.commandHandler(ActionSetMultiplier))
	mux.HandleFunc("/api/debug/credits", s.commandHandler(ActionAddCredits))

	// Real-Time WebSocket Endpoint
	if s.hub != nil {
		mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
			ServeWs(s.hub, w, r)
		})
	}

	return corsMiddleware(mux)
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (s *Server) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	cfg := s.engine.Config()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, CatalogResponse{
		Units:     cfg.Units,
		Buildings: cfg.Buildings,
		Upgrades:  cfg.Upgrades,
	})
}

// commandHandler returns a POST handler that runs the given action.
// The body carries the remaining Command fields; prestige needs none.
func (s *Server) commandHandler(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		if !s.allow(r) {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}

		var cmd Command
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
				http.Error(w, "Bad Request", http.StatusBadRequest)
				return
			}
		}
		cmd.Action = action

		res, err := s.Execute(cmd)
		if errors.Is(err, ErrUnknownAction) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		status := http.StatusOK
		if !res.Accepted {
			status = http.StatusConflict
		}
		writeJSON(w, status, res)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// corsMiddleware lets browser renderers on other origins reach the API.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
