package game

// updateDrill runs the tool machine. A drill never moves itself: it mirrors
// the carrier holding it and produces ore while that carrier operates it.
func (u *Unit) updateDrill(dt float64, e *Engine) {
	if u.CarriedBy == "" {
		u.State = StateIdle
		return
	}

	c := e.Unit(u.CarriedBy)
	if c == nil || c.CarryingID != u.ID {
		u.CarriedBy = ""
		u.State = StateIdle
		return
	}

	u.Position = c.Position
	if c.State != StateOperatingDrill {
		u.State = StateIdle
		return
	}

	u.State = StateOperatingDrill
	prod := e.cfg.Balance.DrillProductionRate * e.GlobalMultiplier * dt
	e.LooseOreInMine += prod
	e.addMined(prod)
}

// carriedDrill returns the drill a carrier holds, if the pairing is intact.
func (e *Engine) carriedDrill(carrier *Unit) *Unit {
	if carrier.CarryingID == "" {
		return nil
	}
	d := e.Unit(carrier.CarryingID)
	if d == nil || d.CarriedBy != carrier.ID {
		return nil
	}
	return d
}

// dropDrill sets a carried drill down on the surface below the carrier.
func (e *Engine) dropDrill(carrier *Unit) {
	if d := e.carriedDrill(carrier); d != nil {
		d.CarriedBy = ""
		d.State = StateIdle
		d.Position = Point{Angle: carrier.Position.Angle, Radius: SurfaceLevel}
	}
	carrier.CarryingID = ""
}

// freeDrill finds a drill the unit may go and fetch: idle, not carried, and
// not already targeted by another carrier. The unit's own target is kept
// while it stays valid.
func (e *Engine) freeDrill(u *Unit) *Unit {
	if u.TargetDrillID != "" {
		if d := e.Unit(u.TargetDrillID); d != nil && e.drillAvailable(d, u) {
			return d
		}
	}
	for _, d := range e.Units {
		if e.drillAvailable(d, u) {
			return d
		}
	}
	return nil
}

func (e *Engine) drillAvailable(d, seeker *Unit) bool {
	if !e.UnitStats(d.Type).IsTool || d.State != StateIdle || d.CarriedBy != "" || d.CarryingID != "" {
		return false
	}
	for _, other := range e.Units {
		if other != seeker && other.State == StateMovingToDrill && other.TargetDrillID == d.ID {
			return false
		}
	}
	return true
}
