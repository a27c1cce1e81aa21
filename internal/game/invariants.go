package game

import "fmt"

// CheckInvariants walks the colony and reports every broken consistency
// rule. An empty result means the state is sound.
func (e *Engine) CheckInvariants() []string {
	var bad []string
	report := func(format string, args ...any) {
		bad = append(bad, fmt.Sprintf(format, args...))
	}

	carriers := make(map[string]string) // drill ID -> carrier ID
	for _, u := range e.Units {
		stats := e.UnitStats(u.Type)
		if u.Energy < 0 || u.Energy > u.MaxEnergy {
			report("unit %s: energy %.3f outside [0, %.3f]", u.ID, u.Energy, u.MaxEnergy)
		}
		if u.Inventory < 0 || u.Inventory > stats.Capacity {
			report("unit %s: inventory %.3f outside [0, %.3f]", u.ID, u.Inventory, stats.Capacity)
		}
		if u.CarryingID == "" {
			continue
		}
		if prev, ok := carriers[u.CarryingID]; ok {
			report("drill %s held by both %s and %s", u.CarryingID, prev, u.ID)
		}
		carriers[u.CarryingID] = u.ID
		d := e.Unit(u.CarryingID)
		if d == nil || d.CarriedBy != u.ID {
			report("unit %s carries %s which does not point back", u.ID, u.CarryingID)
		}
	}
	for _, u := range e.Units {
		if u.CarriedBy == "" {
			continue
		}
		if carriers[u.ID] != u.CarriedBy {
			report("drill %s claims carrier %s which does not hold it", u.ID, u.CarriedBy)
		}
	}

	for _, b := range e.Buildings {
		maxW := b.MaxWorkers(e)
		if len(b.AssignedWorkers) > b.RequestedWorkers || b.RequestedWorkers > maxW {
			report("building %d: workers %d / requested %d / max %d",
				b.ID, len(b.AssignedWorkers), b.RequestedWorkers, maxW)
		}
		if b.ConstructionProgress < 0 || b.ConstructionProgress > 1 {
			report("building %d: construction progress %.3f", b.ID, b.ConstructionProgress)
		}
	}

	for _, t := range e.Tunnels {
		if t.CurrentLength < 0 || t.CurrentLength > t.MaxLength {
			report("tunnel %d: length %.1f outside [0, %.1f]", t.ID, t.CurrentLength, t.MaxLength)
		}
	}
	return bad
}
