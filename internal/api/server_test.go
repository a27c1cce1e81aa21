package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/deepcore-colony/internal/game"
)

func testConfig() *game.Config {
	cfg := game.DefaultConfig()
	cfg.Seed = 1
	cfg.Server.CommandsPerSecond = 0
	cfg.Server.BroadcastEvery = 1
	return cfg
}

func post(t *testing.T, url string, body string) (*http.Response, CommandResult) {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var res CommandResult
	if resp.Header.Get("Content-Type") == "application/json" {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	}
	return resp, res
}

func TestGetState(t *testing.T) {
	s := NewServer(testConfig(), nil)
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var snap game.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, 10.0, snap.Credits)
	assert.Len(t, snap.Buildings, 11)
	assert.Equal(t, game.BuildingCrusher, snap.Buildings[0].Type)
	assert.Equal(t, 10.0, snap.UnitCosts[game.UnitMinerBasic])
}

func TestGetCatalog(t *testing.T) {
	s := NewServer(testConfig(), nil)
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/catalog")
	require.NoError(t, err)
	defer resp.Body.Close()

	var cat CatalogResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cat))
	assert.Len(t, cat.Units, 4)
	assert.Len(t, cat.Buildings, 6)
	assert.Len(t, cat.Upgrades, 10)
	assert.True(t, cat.Units[game.UnitMinerDrill].IsTool)
}

func TestCommandEndpoints(t *testing.T) {
	s := NewServer(testConfig(), nil)
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	resp, res := post(t, ts.URL+"/api/units/buy", `{"unit_type":"MINER_BASIC"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "no habitat yet")
	assert.False(t, res.Accepted)

	resp, res = post(t, ts.URL+"/api/buildings/construct", `{"slot_id":1,"building_type":"HABITAT"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, res.Accepted)
	assert.Equal(t, game.StatusCompleted, res.State.Buildings[1].Status)
	assert.True(t, res.State.TaxStarted)

	resp, res = post(t, ts.URL+"/api/units/buy", `{"unit_type":"MINER_BASIC"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, res.UnitID)
	assert.Zero(t, res.State.Credits)
	require.Len(t, res.State.Units, 1)
	assert.Equal(t, res.UnitID, res.State.Units[0].ID)

	resp, _ = post(t, ts.URL+"/api/debug/credits", `{"value":1000}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, res = post(t, ts.URL+"/api/buildings/upgrade", `{"slot_id":0,"upgrade_id":"crush_1"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"crush_1"}, res.State.Buildings[0].PurchasedUpgrades)

	resp, res = post(t, ts.URL+"/api/buildings/workers", `{"slot_id":0,"count":5}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, res.State.Buildings[0].RequestedWorkers)

	resp, res = post(t, ts.URL+"/api/debug/multiplier", `{"value":0}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, 1.0, res.State.GlobalMultiplier)

	resp, res = post(t, ts.URL+"/api/prestige", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, res.State.PrestigeCount)
	assert.Empty(t, res.State.Units)
}

func TestCommandRequestErrors(t *testing.T) {
	s := NewServer(testConfig(), nil)
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/units/buy")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, _ = post(t, ts.URL+"/api/units/buy", `{"unit_type":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/prestige", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, s.Snapshot().PrestigeCount)
}

func TestCommandRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.CommandsPerSecond = 1
	cfg.Server.CommandBurst = 2
	s := NewServer(cfg, nil)
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	var codes []int
	for i := 0; i < 3; i++ {
		resp, _ := post(t, ts.URL+"/api/debug/credits", `{"value":1}`)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 12.0, s.Snapshot().Credits)
}

func TestExecuteUnknownAction(t *testing.T) {
	s := NewServer(testConfig(), nil)

	_, err := s.Execute(Command{Action: "teleport"})
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestStepTicksAndStagesConfig(t *testing.T) {
	s := NewServer(testConfig(), nil)

	s.Step(0.05)
	assert.InDelta(t, 0.05, s.Snapshot().Clock, 1e-9)

	next := testConfig()
	next.Balance.StartingCredits = 42
	s.StageConfig(next)
	assert.Equal(t, 10.0, s.Snapshot().Credits, "staged config waits for prestige")

	_, err := s.Execute(Command{Action: ActionPrestige})
	require.NoError(t, err)
	assert.Equal(t, 42.0, s.Snapshot().Credits)
}

func TestWebSocketFramesAndCommands(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)
	s := NewServer(testConfig(), hub)
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Step(0.01)
			}
		}
	}()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var frame struct {
		Type    string        `json:"type"`
		Payload game.Snapshot `json:"payload"`
	}
	for frame.Type != "frame" {
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(msg, &frame))
	}
	assert.Len(t, frame.Payload.Buildings, 11)

	cmd := Message{Type: "command", Payload: Command{Action: ActionConstruct, SlotID: 1, BuildingType: game.BuildingHabitat}}
	require.NoError(t, conn.WriteJSON(cmd))

	assert.Eventually(t, func() bool {
		return s.Snapshot().Buildings[1].Status == game.StatusCompleted
	}, 5*time.Second, 10*time.Millisecond)
}
