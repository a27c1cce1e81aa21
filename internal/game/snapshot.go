package game

// UnitView is the read-only projection of a unit handed to renderers.
type UnitView struct {
	ID                  string    `json:"id"`
	Type                UnitType  `json:"type"`
	State               UnitState `json:"state"`
	Position            Point     `json:"position"`
	Energy              float64   `json:"energy"`
	MaxEnergy           float64   `json:"max_energy"`
	Inventory           float64   `json:"inventory"`
	CarryingID          string    `json:"carrying_id,omitempty"`
	CarriedBy           string    `json:"carried_by,omitempty"`
	HomeBuildingID      int       `json:"home_building_id"`
	WorkingAtBuildingID int       `json:"working_at_building_id"`
	TargetTunnel        int       `json:"target_tunnel"`
}

// BuildingView is the read-only projection of a building slot.
type BuildingView struct {
	ID                   int            `json:"id"`
	Angle                float64        `json:"angle"`
	Type                 BuildingType   `json:"type,omitempty"`
	Status               BuildingStatus `json:"status"`
	Level                int            `json:"level"`
	ConstructionProgress float64        `json:"construction_progress"`
	Occupants            int            `json:"occupants"`
	AssignedWorkers      int            `json:"assigned_workers"`
	RequestedWorkers     int            `json:"requested_workers"`
	MaxWorkers           int            `json:"max_workers"`
	MaxPopulation        int            `json:"max_population"`
	PurchasedUpgrades    []string       `json:"purchased_upgrades"`
	IsLaunchpadSlot      bool           `json:"is_launchpad_slot"`
}

// Snapshot is everything a renderer needs to draw one frame.
// It shares no memory with the engine.
type Snapshot struct {
	Clock            float64              `json:"clock"`
	Credits          float64              `json:"credits"`
	SurfaceOre       float64              `json:"surface_ore"`
	LooseOreInMine   float64              `json:"loose_ore_in_mine"`
	TotalMined       float64              `json:"total_mined"`
	MineDepth        int                  `json:"mine_depth"`
	Tunnels          []Tunnel             `json:"tunnels"`
	Units            []UnitView           `json:"units"`
	Buildings        []BuildingView       `json:"buildings"`
	TaxDue           bool                 `json:"tax_due"`
	TaxAmount        float64              `json:"tax_amount"`
	TaxTimer         float64              `json:"tax_timer"`
	TaxRemaining     float64              `json:"tax_remaining"`
	TaxStarted       bool                 `json:"tax_started"`
	LastTaxPaid      float64              `json:"last_tax_paid"`
	MiningPermits    int                  `json:"mining_permits"`
	PrestigeCount    int                  `json:"prestige_count"`
	GlobalMultiplier float64              `json:"global_multiplier"`
	Population       int                  `json:"population"`
	PopulationCap    int                  `json:"population_cap"`
	UnitCosts        map[UnitType]float64 `json:"unit_costs"`
}

// Snapshot copies the current state into a Snapshot.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Clock:            e.Clock,
		Credits:          e.Credits,
		SurfaceOre:       e.SurfaceOre,
		LooseOreInMine:   e.LooseOreInMine,
		TotalMined:       e.TotalMined,
		MineDepth:        e.MineDepth,
		Tunnels:          append([]Tunnel(nil), e.Tunnels...),
		Units:            make([]UnitView, 0, len(e.Units)),
		Buildings:        make([]BuildingView, 0, len(e.Buildings)),
		TaxDue:           e.TaxDue,
		TaxAmount:        e.TaxAmount,
		TaxTimer:         e.TaxTimer,
		TaxRemaining:     e.TaxRemaining(),
		TaxStarted:       e.TaxStarted,
		LastTaxPaid:      e.LastTaxPaid,
		MiningPermits:    e.MiningPermits,
		PrestigeCount:    e.PrestigeCount,
		GlobalMultiplier: e.GlobalMultiplier,
		Population:       e.Population(),
		PopulationCap:    e.PopulationCap(),
		UnitCosts:        make(map[UnitType]float64, len(UnitTypes)),
	}

	for _, u := range e.Units {
		s.Units = append(s.Units, UnitView{
			ID:                  u.ID,
			Type:                u.Type,
			State:               u.State,
			Position:            u.Position,
			Energy:              u.Energy,
			MaxEnergy:           u.MaxEnergy,
			Inventory:           u.Inventory,
			CarryingID:          u.CarryingID,
			CarriedBy:           u.CarriedBy,
			HomeBuildingID:      u.HomeBuildingID,
			WorkingAtBuildingID: u.WorkingAtBuildingID,
			TargetTunnel:        u.TargetTunnel,
		})
	}
	for _, b := range e.Buildings {
		s.Buildings = append(s.Buildings, BuildingView{
			ID:                   b.ID,
			Angle:                b.Angle,
			Type:                 b.Type,
			Status:               b.Status,
			Level:                b.Level,
			ConstructionProgress: b.ConstructionProgress,
			Occupants:            len(b.Occupants),
			AssignedWorkers:      len(b.AssignedWorkers),
			RequestedWorkers:     b.RequestedWorkers,
			MaxWorkers:           b.MaxWorkers(e),
			MaxPopulation:        b.MaxPopulation(e),
			PurchasedUpgrades:    append([]string{}, b.PurchasedUpgrades...),
			IsLaunchpadSlot:      b.IsLaunchpadSlot,
		})
	}
	for _, t := range UnitTypes {
		s.UnitCosts[t] = e.UnitCost(t)
	}
	return s
}
