/*
Package game
File: engine.go
Description:
    The Engine owns the whole colony: units, building slots, tunnels,
    modifiers and the economy. It advances everything once per frame and
    exposes the command API used by players.

    Commands never fail loudly. Invalid requests (no money, tax due, missing
    building, full capacity) are guard clauses that leave the state untouched
    and report false, so the colony is always in a renderable state.

    The Engine is not safe for concurrent use; callers serialize access.
*/

package game

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

const maxEvents = 64

// Engine is the colony simulation.
type Engine struct {
	cfg     *Config
	nextCfg *Config // Applied on the next prestige
	rng     *rand.Rand

	// Economy
	Credits        float64
	SurfaceOre     float64 // Deposited ore waiting for a crusher
	LooseOreInMine float64 // Drilled ore waiting for a hauler
	TotalMined     float64
	MineDepth      int

	// Entities
	Units     []*Unit
	Buildings []*Building
	Tunnels   []Tunnel
	Modifiers []Modifier

	// Taxation, all times on the simulation clock
	Clock       float64
	TaxTimer    float64
	TaxAmount   float64
	TaxDue      bool
	TaxStarted  bool
	LastTaxPaid float64

	// Meta progression, kept across prestige
	MiningPermits int
	PrestigeCount int

	// Debug
	GlobalMultiplier float64

	unitIndex map[string]*Unit
	events    []Event
}

// NewEngine builds a fresh colony from cfg. A zero cfg.Seed seeds from the clock.
func NewEngine(cfg *Config) *Engine {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e := &Engine{
		cfg:              cfg,
		rng:              rand.New(rand.NewSource(seed)),
		GlobalMultiplier: 1,
	}
	e.reset()
	return e
}

// Config returns the configuration the engine is currently running.
func (e *Engine) Config() *Config { return e.cfg }

// StageConfig queues a configuration to take over on the next prestige.
func (e *Engine) StageConfig(cfg *Config) { e.nextCfg = cfg }

func (e *Engine) reset() {
	e.Credits = e.cfg.Balance.StartingCredits
	e.SurfaceOre = 0
	e.LooseOreInMine = 0
	e.TotalMined = 0
	e.MineDepth = 0

	e.Units = nil
	e.unitIndex = make(map[string]*Unit)
	e.Modifiers = nil
	e.Tunnels = append([]Tunnel(nil), e.cfg.Tunnels...)

	e.Clock = 0
	e.TaxAmount = e.cfg.Tax.InitialAmount
	e.TaxTimer = 0
	e.TaxDue = false
	e.TaxStarted = false
	e.LastTaxPaid = 0

	e.Buildings = generateSlots()
	crusher := e.Buildings[0]
	crusher.Type = BuildingCrusher
	crusher.completeConstruction()
}

// Tick advances the colony by dt seconds. dt is clamped to the configured
// maximum frame delta so a stalled frame cannot cause a huge step.
// Order: taxation, then buildings in slot order, then units in stored order.
func (e *Engine) Tick(dt float64) {
	dt = math.Max(0, math.Min(dt, e.cfg.Balance.MaxFrameDelta))
	e.Clock += dt

	e.tickTax()
	for _, b := range e.Buildings {
		b.update(dt, e)
	}
	for _, u := range e.Units {
		u.update(dt, e)
	}
}

// --- COMMANDS ---

// BuyUnit recruits a unit and returns its ID, or "" if the purchase was refused.
func (e *Engine) BuyUnit(t UnitType) string {
	if e.TaxDue {
		return ""
	}
	stats, ok := e.cfg.Units[t]
	if !ok {
		return ""
	}
	cost := e.UnitCost(t)
	if e.Credits < cost {
		return ""
	}

	home := e.homeFor(stats)
	if home == nil {
		return ""
	}

	e.Credits -= cost
	u := e.spawnUnit(t, home)
	e.emitf(EventUnitSpawned, "%s recruited at slot %d for %.0f", t, home.ID, cost)
	return u.ID
}

// ConstructBuilding orders a building on an empty slot.
// The first habitat is free, finishes instantly, and starts the tax clock.
func (e *Engine) ConstructBuilding(slotID int, t BuildingType) bool {
	if e.TaxDue {
		return false
	}
	slot := e.Building(slotID)
	if slot == nil || slot.Status != StatusEmpty {
		return false
	}
	spec, ok := e.cfg.Buildings[t]
	if !ok {
		return false
	}
	if slot.IsLaunchpadSlot != (t == BuildingLaunchpad) {
		return false
	}

	firstHabitat := t == BuildingHabitat && !e.hasBuildingType(BuildingHabitat)
	cost := spec.BaseCost
	if firstHabitat {
		cost = 0
	}
	if e.Credits < cost {
		return false
	}
	e.Credits -= cost

	slot.startConstruction(t)
	if firstHabitat {
		slot.completeConstruction()
		e.TaxStarted = true
		e.TaxTimer = e.Clock + e.cfg.Tax.Interval
		e.emitf(EventBuildingCompleted, "first %s established on slot %d", t, slot.ID)
		return true
	}
	e.emitf(EventBuildingStarted, "%s ordered on slot %d for %.0f", t, slot.ID, cost)
	return true
}

// BuyUpgrade purchases a catalog upgrade for a completed building.
func (e *Engine) BuyUpgrade(slotID int, upgradeID string) bool {
	if e.TaxDue {
		return false
	}
	slot := e.Building(slotID)
	if slot == nil || slot.Status != StatusCompleted {
		return false
	}
	up := e.cfg.Upgrade(upgradeID)
	if up == nil || up.BuildingType != slot.Type || slot.hasUpgrade(up.ID) {
		return false
	}
	if e.Credits < up.Cost {
		return false
	}

	e.Credits -= up.Cost
	slot.PurchasedUpgrades = append(slot.PurchasedUpgrades, up.ID)
	e.Modifiers = append(e.Modifiers, up.Modifiers...)
	slot.Level++
	e.emitf(EventUpgradePurchased, "%s installed on slot %d", up.Label, slot.ID)
	return true
}

// SetWorkerRequest sets how many workers a building wants, clamped to its
// worker slots. Workers beyond the new count are sent back to idle.
func (e *Engine) SetWorkerRequest(slotID, count int) bool {
	b := e.Building(slotID)
	if b == nil {
		return false
	}
	n := max(0, min(count, b.MaxWorkers(e)))
	b.setRequestedWorkers(n)
	return true
}

// Prestige launches the colony ship: everything resets except permits.
func (e *Engine) Prestige() {
	permits := e.MiningPermits
	e.PrestigeCount++
	if e.nextCfg != nil {
		e.cfg, e.nextCfg = e.nextCfg, nil
	}
	e.reset()
	e.MiningPermits = permits
	e.emitf(EventPrestige, "colony launched, prestige %d with %d permits", e.PrestigeCount, permits)
}

// SetGlobalMultiplier scales every rate in the simulation. Debug only.
func (e *Engine) SetGlobalMultiplier(n float64) bool {
	if n <= 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return false
	}
	e.GlobalMultiplier = n
	return true
}

// AddCredits grants credits. Debug only.
func (e *Engine) AddCredits(amount float64) {
	e.Credits += amount
}

// --- LOOKUPS ---

// Unit returns the unit with the given ID, or nil.
func (e *Engine) Unit(id string) *Unit {
	return e.unitIndex[id]
}

// Building returns the slot with the given ID, or nil.
func (e *Engine) Building(id int) *Building {
	for _, b := range e.Buildings {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// UnitStats resolves the effective stats of a unit type.
func (e *Engine) UnitStats(t UnitType) UnitStats {
	s := e.cfg.Units[t]
	key := string(t)
	s.Speed = Resolve(e.Modifiers, s.Speed, ScopeUnit, key, StatSpeed)
	s.Capacity = math.Floor(Resolve(e.Modifiers, s.Capacity, ScopeUnit, key, StatCapacity))
	s.MaxEnergy = math.Floor(Resolve(e.Modifiers, s.MaxEnergy, ScopeUnit, key, StatEnergy))
	s.Power = Resolve(e.Modifiers, s.Power, ScopeUnit, key, StatPower)
	return s
}

func (e *Engine) tunnel(idx int) *Tunnel {
	if idx < 0 || idx >= len(e.Tunnels) {
		return nil
	}
	return &e.Tunnels[idx]
}

func (e *Engine) hasBuildingType(t BuildingType) bool {
	for _, b := range e.Buildings {
		if b.Type == t {
			return true
		}
	}
	return false
}

// --- JOB MARKET ---

func (e *Engine) openConstruction() *Building {
	for _, b := range e.Buildings {
		if b.constructionOpen() {
			return b
		}
	}
	return nil
}

func (e *Engine) openWorkplace() *Building {
	for _, b := range e.Buildings {
		if b.openWorkSlot() {
			return b
		}
	}
	return nil
}

func (e *Engine) buildJobFor(unitID string) *Building {
	for _, b := range e.Buildings {
		if b.AssignedUnitID == unitID {
			return b
		}
	}
	return nil
}

// releaseClaims drops every construction and worker claim a unit holds.
func (e *Engine) releaseClaims(u *Unit) {
	for _, b := range e.Buildings {
		if b.AssignedUnitID == u.ID {
			b.AssignedUnitID = ""
		}
		b.removeWorker(u.ID)
	}
	u.WorkingAtBuildingID = NoBuilding
	u.TargetDrillID = ""
}

// pickTunnel chooses where a miner digs: a random open tunnel with
// probability TunnelChance, otherwise the main shaft.
func (e *Engine) pickTunnel() int {
	var open []int
	for i, t := range e.Tunnels {
		if t.Reachable(e.MineDepth) && !t.Full() {
			open = append(open, i)
		}
	}
	if len(open) == 0 {
		return NoTunnel
	}
	if e.rng.Float64() >= e.cfg.Balance.TunnelChance {
		return NoTunnel
	}
	return open[e.rng.Intn(len(open))]
}

// --- SPAWNING ---

// homeFor finds the building that will house a new unit: a workshop for
// tools, a habitat with room for everyone else.
func (e *Engine) homeFor(stats UnitStats) *Building {
	if stats.IsTool {
		for _, b := range e.Buildings {
			if b.Type == BuildingWorkshop && b.Status == StatusCompleted {
				return b
			}
		}
		return nil
	}

	if e.Population() >= e.PopulationCap() {
		return nil
	}
	for _, b := range e.Buildings {
		if b.Type == BuildingHabitat && b.Status == StatusCompleted && len(b.Occupants) < b.MaxPopulation(e) {
			return b
		}
	}
	return nil
}

func (e *Engine) spawnUnit(t UnitType, home *Building) *Unit {
	stats := e.UnitStats(t)
	id, err := uuid.NewRandomFromReader(e.rng)
	if err != nil {
		// rand.Rand never fails to read; keep IDs unique regardless.
		id = uuid.New()
	}

	u := &Unit{
		ID:                  id.String(),
		Type:                t,
		State:               StateIdle,
		Position:            Point{Angle: NormalizeAngle(home.Angle), Radius: SurfaceLevel},
		Energy:              stats.MaxEnergy,
		MaxEnergy:           stats.MaxEnergy,
		HomeBuildingID:      home.ID,
		WorkingAtBuildingID: NoBuilding,
		TargetTunnel:        NoTunnel,
		DigOffset:           (e.rng.Float64()*2 - 1) * maxShaftSpread,
	}
	e.Units = append(e.Units, u)
	e.unitIndex[u.ID] = u
	home.Occupants = append(home.Occupants, u.ID)
	return u
}

// --- EVENTS ---

func (e *Engine) emitf(kind, format string, args ...any) {
	e.events = append(e.events, Event{Clock: e.Clock, Kind: kind, Message: fmt.Sprintf(format, args...)})
	if len(e.events) > maxEvents {
		e.events = e.events[len(e.events)-maxEvents:]
	}
}

// DrainEvents returns and clears the events recorded since the last call.
func (e *Engine) DrainEvents() []Event {
	ev := e.events
	e.events = nil
	return ev
}
