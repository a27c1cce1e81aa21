/*
Package game
File: models.go
Description:
    Defines the data structures shared by the colony simulation.
    Catalog types (unit stats, building specs, upgrades, tunnels) map directly
    to the 'colony.yaml' configuration file; runtime types (Unit, Building)
    live in their own files next to their behavior.
*/

package game

// UnitType tags a unit with its behavior shape and stat block.
type UnitType string

const (
	UnitMinerBasic   UnitType = "MINER_BASIC"
	UnitMinerDrill   UnitType = "MINER_DRILL" // tool: carried, never moves on its own
	UnitCarrierRover UnitType = "CARRIER_ROVER"
	UnitCarrierDrone UnitType = "CARRIER_DRONE"
)

// UnitTypes lists every unit type in catalog order.
var UnitTypes = []UnitType{UnitMinerBasic, UnitMinerDrill, UnitCarrierRover, UnitCarrierDrone}

// BuildingType is the kind of structure placed on a slot.
type BuildingType string

const (
	BuildingHabitat   BuildingType = "HABITAT"
	BuildingWorkshop  BuildingType = "WORKSHOP"
	BuildingCrusher   BuildingType = "CRUSHER"
	BuildingReactor   BuildingType = "REACTOR"
	BuildingTraining  BuildingType = "TRAINING"
	BuildingLaunchpad BuildingType = "LAUNCHPAD"
)

// BuildingTypes lists every building type in catalog order.
var BuildingTypes = []BuildingType{
	BuildingHabitat, BuildingWorkshop, BuildingCrusher,
	BuildingReactor, BuildingTraining, BuildingLaunchpad,
}

// UnitState is the current behavior of a unit.
type UnitState string

const (
	StateIdle                UnitState = "IDLE"
	StateMovingToMine        UnitState = "MOVING_TO_MINE"
	StateEnteringMine        UnitState = "ENTERING_MINE"
	StateMining              UnitState = "MINING"
	StateExitingMine         UnitState = "EXITING_MINE"
	StateMovingToPile        UnitState = "MOVING_TO_PILE"
	StateDepositing          UnitState = "DEPOSITING"
	StateMovingToHome        UnitState = "MOVING_TO_HOME"
	StateCharging            UnitState = "CHARGING"
	StateMovingToBuild       UnitState = "MOVING_TO_BUILD"
	StateBuilding            UnitState = "BUILDING"
	StateMovingToDrill       UnitState = "MOVING_TO_DRILL"
	StateCarryingDrillToMine UnitState = "CARRYING_DRILL_TO_MINE"
	StateOperatingDrill      UnitState = "OPERATING_DRILL"
	StatePickupLooseOre      UnitState = "PICKUP_LOOSE_ORE"
	StateMovingToWork        UnitState = "MOVING_TO_WORK"
	StateWorkingInBuilding   UnitState = "WORKING_IN_BUILDING"
)

// BuildingStatus is the lifecycle stage of a building slot.
type BuildingStatus string

const (
	StatusEmpty             BuildingStatus = "EMPTY"
	StatusPending           BuildingStatus = "PENDING"
	StatusUnderConstruction BuildingStatus = "UNDER_CONSTRUCTION"
	StatusCompleted         BuildingStatus = "COMPLETED"
)

// Sentinels for optional integer references.
const (
	NoBuilding = -1
	NoTunnel   = -1
)

// Point is a polar coordinate around the asteroid center.
// Angle is in degrees, Radius is the distance from the center.
type Point struct {
	Angle  float64 `json:"angle"`
	Radius float64 `json:"radius"`
}

// UnitStats is the base stat block of a unit type, before modifiers.
type UnitStats struct {
	Label     string  `yaml:"label" json:"label"`
	Cost      float64 `yaml:"cost" json:"cost"`             // Base price; scales with owned count
	Speed     float64 `yaml:"speed" json:"speed"`           // Movement factor (0 for tools)
	Capacity  float64 `yaml:"capacity" json:"capacity"`     // Ore carried per trip
	Power     float64 `yaml:"power" json:"power"`           // Mining and building strength
	MaxEnergy float64 `yaml:"max_energy" json:"max_energy"` // Battery size
	IsTool    bool    `yaml:"is_tool" json:"is_tool"`       // Needs a carrier, homed at a workshop
}

// BuildingSpec describes a constructible building type.
type BuildingSpec struct {
	Label             string     `yaml:"label" json:"label"`
	Description       string     `yaml:"description" json:"description"`
	BaseCost          float64    `yaml:"base_cost" json:"base_cost"`
	BaseMaxWorkers    int        `yaml:"base_max_workers" json:"base_max_workers"`
	BaseMaxPopulation int        `yaml:"base_max_population" json:"base_max_population"`
	Unlocks           []UnitType `yaml:"unlocks" json:"unlocks"` // Units recruitable here
}

// Tunnel is a lateral branch off the main shaft.
type Tunnel struct {
	ID            int     `yaml:"id" json:"id"`
	DepthPx       float64 `yaml:"depth" json:"depth"`         // Depth below the shaft top
	Direction     int     `yaml:"direction" json:"direction"` // -1 left, 1 right
	MaxLength     float64 `yaml:"max_length" json:"max_length"`
	CurrentLength float64 `yaml:"current_length" json:"current_length"` // Grows while mined
}

// ModifierScope selects which stat resolutions a modifier takes part in.
type ModifierScope string

const (
	ScopeGlobal   ModifierScope = "GLOBAL"
	ScopeUnit     ModifierScope = "UNIT"
	ScopeBuilding ModifierScope = "BUILDING"
)

// ModifierKind selects how a modifier combines with the base value.
type ModifierKind string

const (
	ModAddFlat         ModifierKind = "ADD_FLAT"
	ModMultiplyPercent ModifierKind = "MULTIPLY_PERCENT"
)

// Stat names a resolvable stat.
type Stat string

const (
	StatSpeed         Stat = "SPEED"
	StatCapacity      Stat = "CAPACITY"
	StatEnergy        Stat = "ENERGY"
	StatPower         Stat = "POWER"
	StatMaxWorkers    Stat = "MAX_WORKERS"
	StatMaxPopulation Stat = "MAX_POPULATION"
)

// Modifier is a stored adjustment to a named stat.
// An empty TargetKey applies to every unit or building type of the scope.
type Modifier struct {
	Scope     ModifierScope `yaml:"scope" json:"scope"`
	TargetKey string        `yaml:"target,omitempty" json:"target,omitempty"`
	Stat      Stat          `yaml:"stat" json:"stat"`
	Kind      ModifierKind  `yaml:"kind" json:"kind"`
	Value     float64       `yaml:"value" json:"value"`
}

// Upgrade is a purchasable catalog entry bound to a building type.
type Upgrade struct {
	ID           string       `yaml:"id" json:"id"`
	BuildingType BuildingType `yaml:"building" json:"building"`
	Label        string       `yaml:"label" json:"label"`
	Description  string       `yaml:"description" json:"description"`
	Cost         float64      `yaml:"cost" json:"cost"`
	Modifiers    []Modifier   `yaml:"modifiers" json:"modifiers"`
}

// Event is a notable occurrence recorded by the engine for observers.
type Event struct {
	Clock   float64 `json:"clock"`
	Kind    string  `json:"kind"` // "tax_due", "tax_paid", "building_completed", ...
	Message string  `json:"message"`
}

// Event kinds.
const (
	EventTaxDue            = "tax_due"
	EventTaxPaid           = "tax_paid"
	EventBuildingStarted   = "building_started"
	EventBuildingCompleted = "building_completed"
	EventUnitSpawned       = "unit_spawned"
	EventUpgradePurchased  = "upgrade_purchased"
	EventPrestige          = "prestige"
)
