/*
Package game
File: state.go
Description:
    Loads and validates the colony configuration.
    DefaultConfig mirrors the shipped 'colony.yaml' so an engine can be built
    without touching the filesystem; LoadConfig overlays a YAML file on top
    of those defaults.
*/

package game

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Balance stores the global tuning variables of the simulation.
type Balance struct {
	StartingCredits         float64 `yaml:"starting_credits" json:"starting_credits"`
	OreValue                float64 `yaml:"ore_value" json:"ore_value"`                     // Credits per crushed ore
	CostScalingFactor       float64 `yaml:"cost_scaling_factor" json:"cost_scaling_factor"` // Unit price growth per owned unit
	EnergyDrainRate         float64 `yaml:"energy_drain_rate" json:"energy_drain_rate"`     // Per second while working
	EnergyRechargeRate      float64 `yaml:"energy_recharge_rate" json:"energy_recharge_rate"`
	BuildSpeedBase          float64 `yaml:"build_speed_base" json:"build_speed_base"`
	DepositRate             float64 `yaml:"deposit_rate" json:"deposit_rate"`
	DrillWeightSpeedPenalty float64 `yaml:"drill_weight_speed_penalty" json:"drill_weight_speed_penalty"`
	DrillProductionRate     float64 `yaml:"drill_production_rate" json:"drill_production_rate"`
	CrusherPassiveRate      float64 `yaml:"crusher_passive_rate" json:"crusher_passive_rate"`
	CrusherWorkerBonus      float64 `yaml:"crusher_worker_bonus" json:"crusher_worker_bonus"`
	LoosePickupThreshold    float64 `yaml:"loose_pickup_threshold" json:"loose_pickup_threshold"` // Loose ore that makes idle units haul
	LooseGrabThreshold      float64 `yaml:"loose_grab_threshold" json:"loose_grab_threshold"`     // Loose ore grabbed at the shaft bottom
	TunnelChance            float64 `yaml:"tunnel_chance" json:"tunnel_chance"`
	MaxFrameDelta           float64 `yaml:"max_frame_delta" json:"max_frame_delta"` // Seconds

	// Deprecated: FlatWorkerBonus gives crusher workers their full bonus
	// regardless of charge. The energy-scaled bonus is the supported rule.
	FlatWorkerBonus bool `yaml:"flat_worker_bonus" json:"flat_worker_bonus"`
}

// TaxConfig controls the periodic tax.
type TaxConfig struct {
	Interval      float64 `yaml:"interval" json:"interval"` // Seconds between payments
	InitialAmount float64 `yaml:"initial_amount" json:"initial_amount"`
	Scale         float64 `yaml:"scale" json:"scale"` // Growth applied after each payment
}

// ServerConfig holds the transport settings used by cmd wiring and internal/api.
type ServerConfig struct {
	Listen            string        `yaml:"listen"`
	FrameInterval     time.Duration `yaml:"frame_interval"`
	BroadcastEvery    int           `yaml:"broadcast_every"` // Frames between snapshot broadcasts
	CommandsPerSecond float64       `yaml:"commands_per_second"`
	CommandBurst      int           `yaml:"command_burst"`
}

// Config is the root configuration struct, mapping to the entire 'colony.yaml' file.
type Config struct {
	Seed      int64                         `yaml:"seed"` // 0 picks a time-based seed
	Balance   Balance                       `yaml:"balance"`
	Tax       TaxConfig                     `yaml:"tax"`
	Units     map[UnitType]UnitStats        `yaml:"units"`
	Buildings map[BuildingType]BuildingSpec `yaml:"buildings"`
	Tunnels   []Tunnel                      `yaml:"tunnels"`
	Upgrades  []Upgrade                     `yaml:"upgrades"`
	Server    ServerConfig                  `yaml:"server"`
}

// DefaultConfig returns the stock balance of the colony.
func DefaultConfig() *Config {
	return &Config{
		Balance: Balance{
			StartingCredits:         10,
			OreValue:                1,
			CostScalingFactor:       1.15,
			EnergyDrainRate:         3,
			EnergyRechargeRate:      25,
			BuildSpeedBase:          0.2,
			DepositRate:             5,
			DrillWeightSpeedPenalty: 0.4,
			DrillProductionRate:     20,
			CrusherPassiveRate:      15,
			CrusherWorkerBonus:      20,
			LoosePickupThreshold:    10,
			LooseGrabThreshold:      5,
			TunnelChance:            0.6,
			MaxFrameDelta:           0.1,
		},
		Tax: TaxConfig{
			Interval:      120,
			InitialAmount: 200,
			Scale:         1.5,
		},
		Units: map[UnitType]UnitStats{
			UnitMinerBasic:   {Label: "Miner", Cost: 10, Speed: 0.8, Capacity: 5, Power: 0.5, MaxEnergy: 100},
			UnitMinerDrill:   {Label: "Hvy Drill", Cost: 250, Speed: 0, Capacity: 0, Power: 5, MaxEnergy: 500, IsTool: true},
			UnitCarrierRover: {Label: "Speedy Bot", Cost: 50, Speed: 1.5, Capacity: 15, Power: 2, MaxEnergy: 150},
			UnitCarrierDrone: {Label: "Flying Drone", Cost: 500, Speed: 3, Capacity: 40, Power: 4, MaxEnergy: 120},
		},
		Buildings: map[BuildingType]BuildingSpec{
			BuildingHabitat: {Label: "Habitat", Description: "Increases population cap (+5)", BaseCost: 100,
				BaseMaxPopulation: 5, Unlocks: []UnitType{UnitMinerBasic, UnitCarrierRover}},
			BuildingWorkshop: {Label: "Tech Lab", Description: "Allows advanced unit production", BaseCost: 500,
				Unlocks: []UnitType{UnitMinerDrill, UnitCarrierDrone}},
			BuildingCrusher:   {Label: "Ore Crusher", Description: "Passive ore processing", BaseCost: 1500},
			BuildingTraining:  {Label: "Training Center", Description: "Upgrade unit stats globally", BaseCost: 2500},
			BuildingReactor:   {Label: "Core Reactor", Description: "Speed up all units", BaseCost: 5000},
			BuildingLaunchpad: {Label: "Launchpad", Description: "Prepare for departure (Prestige)", BaseCost: 50000},
		},
		Tunnels: []Tunnel{
			{ID: 0, DepthPx: 60, Direction: -1, MaxLength: 120, CurrentLength: 10},
			{ID: 1, DepthPx: 120, Direction: 1, MaxLength: 160, CurrentLength: 10},
			{ID: 2, DepthPx: 180, Direction: -1, MaxLength: 140, CurrentLength: 10},
			{ID: 3, DepthPx: 240, Direction: 1, MaxLength: 120, CurrentLength: 10},
			{ID: 4, DepthPx: 280, Direction: -1, MaxLength: 100, CurrentLength: 10},
		},
		Upgrades: defaultUpgrades(),
		Server: ServerConfig{
			Listen:            ":8081",
			FrameInterval:     16 * time.Millisecond,
			BroadcastEvery:    4,
			CommandsPerSecond: 10,
			CommandBurst:      20,
		},
	}
}

func defaultUpgrades() []Upgrade {
	workerSlot := []Modifier{{Scope: ScopeBuilding, TargetKey: string(BuildingCrusher), Stat: StatMaxWorkers, Kind: ModAddFlat, Value: 1}}
	popBlock := []Modifier{{Scope: ScopeBuilding, TargetKey: string(BuildingHabitat), Stat: StatMaxPopulation, Kind: ModAddFlat, Value: 5}}
	unitBuff := func(s Stat) []Modifier {
		return []Modifier{{Scope: ScopeUnit, Stat: s, Kind: ModMultiplyPercent, Value: 0.2}}
	}

	return []Upgrade{
		{ID: "crush_1", BuildingType: BuildingCrusher, Label: "Manual Input", Description: "Adds a worker slot.", Cost: 1000, Modifiers: workerSlot},
		{ID: "crush_2", BuildingType: BuildingCrusher, Label: "Sorting Gear", Description: "Adds a 2nd worker slot.", Cost: 5000, Modifiers: workerSlot},
		{ID: "crush_3", BuildingType: BuildingCrusher, Label: "Hydraulics", Description: "Adds a 3rd worker slot.", Cost: 15000, Modifiers: workerSlot},
		{ID: "hab_1", BuildingType: BuildingHabitat, Label: "Expansion Module", Description: "+5 Population Cap.", Cost: 500, Modifiers: popBlock},
		{ID: "hab_2", BuildingType: BuildingHabitat, Label: "High-Density Bunks", Description: "+5 Population Cap.", Cost: 2000, Modifiers: popBlock},
		{ID: "train_spd_1", BuildingType: BuildingTraining, Label: "Fitness Training", Description: "+20% Speed (All Units).", Cost: 2000, Modifiers: unitBuff(StatSpeed)},
		{ID: "train_cap_1", BuildingType: BuildingTraining, Label: "Better Backpacks", Description: "+20% Capacity (All Units).", Cost: 3000, Modifiers: unitBuff(StatCapacity)},
		{ID: "train_nrg_1", BuildingType: BuildingTraining, Label: "High-V Batteries", Description: "+20% Energy (All Units).", Cost: 2500, Modifiers: unitBuff(StatEnergy)},
		{ID: "train_spd_2", BuildingType: BuildingTraining, Label: "Exoskeletons", Description: "+20% Speed (All Units).", Cost: 8000, Modifiers: unitBuff(StatSpeed)},
		{ID: "train_cap_2", BuildingType: BuildingTraining, Label: "Anti-Grav Pallets", Description: "+20% Capacity (All Units).", Cost: 12000, Modifiers: unitBuff(StatCapacity)},
	}
}

// LoadConfig reads a YAML file and overlays it on DefaultConfig.
// Map entries (units, buildings) are replaced whole, lists are replaced.
func LoadConfig(path string) (*Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(f)
}

// ParseConfig decodes YAML bytes on top of the defaults and validates the result.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run.
func (c *Config) Validate() error {
	var errs []error

	b := c.Balance
	if b.CostScalingFactor < 1 {
		errs = append(errs, errors.New("balance.cost_scaling_factor must be >= 1"))
	}
	if b.MaxFrameDelta <= 0 {
		errs = append(errs, errors.New("balance.max_frame_delta must be > 0"))
	}
	if b.EnergyDrainRate < 0 || b.EnergyRechargeRate <= 0 {
		errs = append(errs, errors.New("balance energy rates must be non-negative, recharge > 0"))
	}
	if b.TunnelChance < 0 || b.TunnelChance > 1 {
		errs = append(errs, errors.New("balance.tunnel_chance must be within [0, 1]"))
	}
	if c.Tax.Interval <= 0 {
		errs = append(errs, errors.New("tax.interval must be > 0"))
	}
	if c.Tax.Scale < 1 {
		errs = append(errs, errors.New("tax.scale must be >= 1"))
	}

	for _, t := range UnitTypes {
		s, ok := c.Units[t]
		if !ok {
			errs = append(errs, fmt.Errorf("units: missing %s", t))
			continue
		}
		if s.MaxEnergy <= 0 || s.Capacity < 0 || s.Cost < 0 {
			errs = append(errs, fmt.Errorf("units.%s: bad stats", t))
		}
		if !s.IsTool && s.Speed <= 0 {
			errs = append(errs, fmt.Errorf("units.%s: mobile units need speed > 0", t))
		}
	}
	for _, t := range BuildingTypes {
		if _, ok := c.Buildings[t]; !ok {
			errs = append(errs, fmt.Errorf("buildings: missing %s", t))
		}
	}

	for i, t := range c.Tunnels {
		if t.Direction != -1 && t.Direction != 1 {
			errs = append(errs, fmt.Errorf("tunnels[%d]: direction must be -1 or 1", i))
		}
		if t.CurrentLength < 0 || t.CurrentLength > t.MaxLength {
			errs = append(errs, fmt.Errorf("tunnels[%d]: current_length outside [0, max_length]", i))
		}
	}

	seen := make(map[string]bool)
	for _, u := range c.Upgrades {
		if seen[u.ID] {
			errs = append(errs, fmt.Errorf("upgrades: duplicate id %q", u.ID))
		}
		seen[u.ID] = true
		if _, ok := c.Buildings[u.BuildingType]; !ok {
			errs = append(errs, fmt.Errorf("upgrades.%s: unknown building %q", u.ID, u.BuildingType))
		}
		for _, m := range u.Modifiers {
			if err := m.validate(); err != nil {
				errs = append(errs, fmt.Errorf("upgrades.%s: %w", u.ID, err))
			}
		}
	}

	return errors.Join(errs...)
}

// Upgrade returns the catalog entry with the given ID, or nil.
func (c *Config) Upgrade(id string) *Upgrade {
	for i := range c.Upgrades {
		if c.Upgrades[i].ID == id {
			return &c.Upgrades[i]
		}
	}
	return nil
}
