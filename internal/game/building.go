package game

import "math"

// Building is one fixed slot on the asteroid surface and whatever stands on it.
type Building struct {
	ID              int
	Angle           float64
	IsLaunchpadSlot bool

	Type                 BuildingType // Empty until construction is ordered
	Status               BuildingStatus
	Level                int
	ConstructionProgress float64

	AssignedUnitID    string   // Builder currently holding the construction job
	Occupants         []string // Units homed here
	AssignedWorkers   []string
	RequestedWorkers  int
	PurchasedUpgrades []string
}

func newSlot(id int, angle float64, launchpad bool) *Building {
	return &Building{ID: id, Angle: angle, IsLaunchpadSlot: launchpad, Status: StatusEmpty}
}

// startConstruction turns an empty slot into a pending job.
func (b *Building) startConstruction(t BuildingType) {
	b.Type = t
	b.Status = StatusPending
	b.ConstructionProgress = 0
	b.Level = 1
	b.AssignedUnitID = ""
	b.Occupants = nil
	b.AssignedWorkers = nil
	b.RequestedWorkers = 0
	b.PurchasedUpgrades = nil
}

func (b *Building) completeConstruction() {
	b.Status = StatusCompleted
	b.ConstructionProgress = 1
	b.AssignedUnitID = ""
	b.Level = 1
}

// constructionOpen reports whether a builder may claim this slot.
func (b *Building) constructionOpen() bool {
	return (b.Status == StatusPending || b.Status == StatusUnderConstruction) && b.AssignedUnitID == ""
}

func (b *Building) claim(unitID string) {
	b.AssignedUnitID = unitID
	if b.Status == StatusPending {
		b.Status = StatusUnderConstruction
	}
}

// advanceConstruction adds progress and reports whether the building completed.
func (b *Building) advanceConstruction(amount float64) bool {
	b.ConstructionProgress += amount
	if b.ConstructionProgress >= 1 {
		b.completeConstruction()
		return true
	}
	return false
}

// MaxWorkers is the number of worker slots after modifiers.
func (b *Building) MaxWorkers(e *Engine) int {
	if b.Type == "" {
		return 0
	}
	base := float64(e.cfg.Buildings[b.Type].BaseMaxWorkers)
	return int(math.Floor(Resolve(e.Modifiers, base, ScopeBuilding, string(b.Type), StatMaxWorkers)))
}

// MaxPopulation is the number of units this building can house after modifiers.
func (b *Building) MaxPopulation(e *Engine) int {
	if b.Type == "" {
		return 0
	}
	base := float64(e.cfg.Buildings[b.Type].BaseMaxPopulation)
	return int(math.Floor(Resolve(e.Modifiers, base, ScopeBuilding, string(b.Type), StatMaxPopulation)))
}

func (b *Building) hasWorker(id string) bool {
	for _, w := range b.AssignedWorkers {
		if w == id {
			return true
		}
	}
	return false
}

func (b *Building) removeWorker(id string) {
	for i, w := range b.AssignedWorkers {
		if w == id {
			b.AssignedWorkers = append(b.AssignedWorkers[:i], b.AssignedWorkers[i+1:]...)
			return
		}
	}
}

// openWorkSlot reports whether a unit may join as a worker.
func (b *Building) openWorkSlot() bool {
	return b.Status == StatusCompleted && b.RequestedWorkers > 0 && len(b.AssignedWorkers) < b.RequestedWorkers
}

// setRequestedWorkers stores n and releases the most recently assigned
// workers that no longer fit.
func (b *Building) setRequestedWorkers(n int) {
	b.RequestedWorkers = n
	if len(b.AssignedWorkers) > n {
		b.AssignedWorkers = b.AssignedWorkers[:n]
	}
}

func (b *Building) hasUpgrade(id string) bool {
	for _, u := range b.PurchasedUpgrades {
		if u == id {
			return true
		}
	}
	return false
}

// update runs the passive behavior of a completed building.
func (b *Building) update(dt float64, e *Engine) {
	if b.Status != StatusCompleted {
		return
	}
	switch b.Type {
	case BuildingCrusher:
		e.crush(b, dt)
	}
}
