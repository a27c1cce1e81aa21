/*
Package game
File: economy.go
Description:
    Handles the economic side of the colony.
    This includes:
    1. Pricing units (exponential in the number already owned).
    2. Crushing surface ore into credits.
    3. The periodic tax that locks spending while it is overdue.
*/

package game

import "math"

// UnitCost is the price of the next unit of type t.
func (e *Engine) UnitCost(t UnitType) float64 {
	owned := 0
	for _, u := range e.Units {
		if u.Type == t {
			owned++
		}
	}
	base := e.cfg.Units[t].Cost
	return math.Floor(base * math.Pow(e.cfg.Balance.CostScalingFactor, float64(owned)))
}

// Population counts the units that need habitat space.
func (e *Engine) Population() int {
	n := 0
	for _, u := range e.Units {
		if !e.cfg.Units[u.Type].IsTool {
			n++
		}
	}
	return n
}

// PopulationCap sums the capacity of every completed habitat.
func (e *Engine) PopulationCap() int {
	total := 0
	for _, b := range e.Buildings {
		if b.Type == BuildingHabitat && b.Status == StatusCompleted {
			total += b.MaxPopulation(e)
		}
	}
	return total
}

// addMined records freshly dug ore and recomputes the shaft depth.
func (e *Engine) addMined(amount float64) {
	e.TotalMined += amount
	e.MineDepth = DepthFromTotal(e.TotalMined)
}

// crush converts surface ore into credits for one crusher building.
// Each worker on shift adds a bonus scaled by how charged it is.
func (e *Engine) crush(b *Building, dt float64) {
	if e.SurfaceOre <= 0 {
		return
	}
	bal := e.cfg.Balance

	rate := bal.CrusherPassiveRate
	for _, id := range b.AssignedWorkers {
		w := e.Unit(id)
		if w == nil || w.State != StateWorkingInBuilding || w.MaxEnergy <= 0 {
			continue
		}
		efficiency := w.Energy / w.MaxEnergy
		if bal.FlatWorkerBonus {
			efficiency = 1
		}
		rate += bal.CrusherWorkerBonus * efficiency
	}
	rate *= e.GlobalMultiplier

	processed := math.Min(e.SurfaceOre, rate*dt)
	e.SurfaceOre -= processed
	e.Credits += processed * bal.OreValue
}

// tickTax raises the tax once the timer runs out and collects it as soon
// as the colony can afford it. Collecting grants a mining permit.
func (e *Engine) tickTax() {
	if !e.TaxStarted {
		return
	}
	if !e.TaxDue && e.Clock >= e.TaxTimer {
		e.TaxDue = true
		e.emitf(EventTaxDue, "tax of %.0f is due", e.TaxAmount)
	}
	if e.TaxDue && e.Credits >= e.TaxAmount {
		paid := e.TaxAmount
		e.Credits -= paid
		e.TaxDue = false
		e.TaxAmount = math.Floor(e.TaxAmount * e.cfg.Tax.Scale)
		e.TaxTimer = e.Clock + e.cfg.Tax.Interval
		e.LastTaxPaid = e.Clock
		e.MiningPermits++
		e.emitf(EventTaxPaid, "tax of %.0f paid, next is %.0f", paid, e.TaxAmount)
	}
}

// TaxRemaining is the time left before the next tax falls due.
func (e *Engine) TaxRemaining() float64 {
	if !e.TaxStarted || e.TaxDue {
		return 0
	}
	return math.Max(0, e.TaxTimer-e.Clock)
}
