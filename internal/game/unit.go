package game

import "math"

// Unit is a colony robot. Mobile workers run the full state machine in this
// file; tools (drills) run the reduced machine in drill.go.
type Unit struct {
	ID       string
	Type     UnitType
	State    UnitState
	Position Point

	Energy    float64
	MaxEnergy float64
	Inventory float64

	HomeBuildingID      int
	WorkingAtBuildingID int
	CarryingID          string // Drill this carrier holds
	CarriedBy           string // Carrier holding this drill
	TargetDrillID       string // Drill this carrier is walking to

	TargetTunnel int // NoTunnel means the main shaft
	Progress     float64
	PickupIntent bool    // Left IDLE to haul loose ore
	DigOffset    float64 // Spread from the shaft axis when digging the main shaft
}

// Underground reports whether the unit is below the shaft mouth.
func (u *Unit) Underground() bool {
	return u.Position.Radius < SurfaceLevel-undergroundMargin
}

func (u *Unit) update(dt float64, e *Engine) {
	stats := e.UnitStats(u.Type)
	u.MaxEnergy = stats.MaxEnergy
	u.Energy = math.Min(u.Energy, u.MaxEnergy)

	if stats.IsTool {
		u.updateDrill(dt, e)
		return
	}
	u.updateWorker(dt, e, stats)
}

func (u *Unit) updateWorker(dt float64, e *Engine, stats UnitStats) {
	bal := e.cfg.Balance
	mult := e.GlobalMultiplier

	if u.CarryingID != "" && e.carriedDrill(u) == nil {
		u.CarryingID = ""
		if u.State == StateOperatingDrill {
			u.State = StateExitingMine
		}
	}

	if u.drains() {
		u.consumeEnergy(dt, bal)
		if u.Energy <= 0 {
			u.abandonTask(e)
		}
	}

	switch u.State {
	case StateIdle:
		u.findJob(e)

	case StateMovingToHome:
		u.moveToHome(dt, e, stats)

	case StateCharging:
		u.Energy += bal.EnergyRechargeRate * dt
		if u.Energy >= u.MaxEnergy {
			u.Energy = u.MaxEnergy
			u.State = StateIdle
		}

	case StateMovingToBuild:
		b := e.buildJobFor(u.ID)
		if b == nil || b.Status == StatusCompleted {
			u.State = StateIdle
		} else if u.moveTowards(b.Angle, SurfaceLevel, dt, e, stats) {
			u.State = StateBuilding
		}

	case StateBuilding:
		b := e.buildJobFor(u.ID)
		if b == nil {
			u.State = StateIdle
			break
		}
		if b.advanceConstruction(bal.BuildSpeedBase * stats.Power * mult * dt) {
			e.emitf(EventBuildingCompleted, "%s completed on slot %d", b.Type, b.ID)
			u.State = StateIdle
		}

	case StateMovingToWork:
		b := u.workplace(e)
		if b == nil {
			u.leaveWork(e)
			u.State = StateIdle
		} else if u.moveTowards(b.Angle, SurfaceLevel, dt, e, stats) {
			u.State = StateWorkingInBuilding
		}

	case StateWorkingInBuilding:
		if u.workplace(e) == nil {
			u.leaveWork(e)
			u.State = StateIdle
		}

	case StateMovingToMine, StatePickupLooseOre:
		if u.moveTowards(MineAngle, SurfaceLevel, dt, e, stats) {
			u.PickupIntent = u.State == StatePickupLooseOre
			u.TargetTunnel = NoTunnel
			if !u.PickupIntent {
				u.TargetTunnel = e.pickTunnel()
			}
			u.State = StateEnteringMine
		}

	case StateEnteringMine:
		u.enterMine(dt, e, stats)

	case StateMining:
		u.mine(dt, e, stats)

	case StateExitingMine:
		if u.ascend(dt, e, stats) {
			e.dropDrill(u)
			if u.Energy <= 0 {
				u.State = StateMovingToHome
			} else {
				u.State = StateMovingToPile
			}
		}

	case StateMovingToPile:
		if u.moveTowards(PileAngle, SurfaceLevel, dt, e, stats) {
			u.State = StateDepositing
			u.Progress = 0
		}

	case StateDepositing:
		u.Progress += bal.DepositRate * mult * dt
		if u.Progress >= 1 {
			u.Progress = 1
			e.SurfaceOre += u.Inventory
			u.Inventory = 0
			u.State = StateIdle
		}

	case StateMovingToDrill:
		d := e.freeDrill(u)
		if d == nil {
			u.TargetDrillID = ""
			u.State = StateIdle
			break
		}
		u.TargetDrillID = d.ID
		if u.moveTowards(d.Position.Angle, d.Position.Radius, dt, e, stats) {
			u.TargetDrillID = ""
			u.CarryingID = d.ID
			d.CarriedBy = u.ID
			u.State = StateCarryingDrillToMine
		}

	case StateCarryingDrillToMine:
		if u.CarryingID == "" {
			u.State = StateIdle
		} else if u.moveTowards(MineAngle, SurfaceLevel, dt, e, stats) {
			u.TargetTunnel = NoTunnel
			u.PickupIntent = false
			u.State = StateEnteringMine
		}

	case StateOperatingDrill:
		// The drill produces; the carrier holds it until its battery runs out.
	}
}

// drains reports whether the current state consumes energy.
func (u *Unit) drains() bool {
	switch u.State {
	case StateIdle, StateCharging, StateMovingToHome, StateExitingMine:
		return false
	}
	return true
}

func (u *Unit) consumeEnergy(dt float64, bal Balance) {
	drain := bal.EnergyDrainRate * dt
	if u.CarryingID != "" {
		drain *= carryDrainFactor
	}
	u.Energy = math.Max(0, u.Energy-drain)
}

// abandonTask handles a flat battery. Claims are released at once; the unit
// climbs out first if it is underground.
func (u *Unit) abandonTask(e *Engine) {
	e.releaseClaims(u)
	if u.Underground() {
		u.State = StateExitingMine
		return
	}
	e.dropDrill(u)
	u.State = StateMovingToHome
}

// findJob picks the first available job in priority order.
func (u *Unit) findJob(e *Engine) {
	if b := e.openConstruction(); b != nil {
		b.claim(u.ID)
		u.State = StateMovingToBuild
		return
	}

	if b := e.openWorkplace(); b != nil {
		b.AssignedWorkers = append(b.AssignedWorkers, u.ID)
		u.WorkingAtBuildingID = b.ID
		u.State = StateMovingToWork
		return
	}

	if d := e.freeDrill(u); d != nil {
		u.TargetDrillID = d.ID
		u.State = StateMovingToDrill
		return
	}

	if e.LooseOreInMine > e.cfg.Balance.LoosePickupThreshold {
		u.State = StatePickupLooseOre
		return
	}

	u.State = StateMovingToMine
}

// workplace returns the building this unit still holds a worker slot at.
func (u *Unit) workplace(e *Engine) *Building {
	b := e.Building(u.WorkingAtBuildingID)
	if b == nil || b.RequestedWorkers == 0 || !b.hasWorker(u.ID) {
		return nil
	}
	return b
}

func (u *Unit) leaveWork(e *Engine) {
	if b := e.Building(u.WorkingAtBuildingID); b != nil {
		b.removeWorker(u.ID)
	}
	u.WorkingAtBuildingID = NoBuilding
}

func (u *Unit) enterMine(dt float64, e *Engine, stats UnitStats) {
	targetR := ShaftBottomRadius(e.MineDepth)
	if t := e.tunnel(u.TargetTunnel); t != nil {
		targetR = t.Radius()
	}

	speed := stats.Speed * e.GlobalMultiplier * u.penalty(e) * radialRate
	if !u.stepRadius(targetR, dt, speed) {
		return
	}

	if u.CarryingID != "" {
		u.State = StateOperatingDrill
		if d := e.carriedDrill(u); d != nil {
			d.State = StateOperatingDrill
		}
		return
	}

	grab := u.PickupIntent ||
		(e.LooseOreInMine > e.cfg.Balance.LooseGrabThreshold && u.TargetTunnel == NoTunnel)
	u.PickupIntent = false
	if grab {
		take := math.Min(stats.Capacity-u.Inventory, e.LooseOreInMine)
		if take > 0 {
			u.Inventory = math.Min(u.Inventory+take, stats.Capacity)
			e.LooseOreInMine -= take
			u.State = StateExitingMine
			return
		}
	}

	u.State = StateMining
	u.Progress = 0
}

func (u *Unit) mine(dt float64, e *Engine, stats UnitStats) {
	mult := e.GlobalMultiplier
	target := MineAngle + u.DigOffset
	t := e.tunnel(u.TargetTunnel)
	if t != nil {
		target = t.FaceAngle(u.Position.Radius)
	}

	if !u.rotateTowards(target, dt, stats.Speed*mult*miningTurnRate) {
		return
	}

	u.Progress += stats.Power * mult / Toughness(e.MineDepth) * dt
	if u.Progress < 1 {
		return
	}
	u.Progress = 1
	u.Inventory = stats.Capacity

	if t != nil && !t.Full() {
		t.extend(1)
	} else {
		e.addMined(1)
	}
	u.State = StateExitingMine
}

// ascend swings back to the shaft axis and climbs to the surface.
func (u *Unit) ascend(dt float64, e *Engine, stats UnitStats) bool {
	aligned := u.rotateTowards(MineAngle, dt, stats.Speed*e.GlobalMultiplier*exitTurnRate)
	if !aligned && math.Abs(AngleDiff(u.Position.Angle, MineAngle)) >= shaftAlignWindow {
		return false
	}
	return u.moveTowards(MineAngle, SurfaceLevel, dt, e, stats)
}

func (u *Unit) moveToHome(dt float64, e *Engine, stats UnitStats) {
	if u.Underground() {
		u.ascend(dt, e, stats)
		return
	}

	angle := MineAngle
	if home := e.Building(u.HomeBuildingID); home != nil {
		angle = home.Angle
	}
	if u.moveTowards(angle, SurfaceLevel, dt, e, stats) {
		e.releaseClaims(u)
		e.dropDrill(u)
		u.State = StateCharging
	}
}

// penalty slows a carrier hauling a drill.
func (u *Unit) penalty(e *Engine) float64 {
	if u.CarryingID != "" {
		return e.cfg.Balance.DrillWeightSpeedPenalty
	}
	return 1
}

// moveTowards steps both axes toward the target and reports arrival on both.
func (u *Unit) moveTowards(angle, radius, dt float64, e *Engine, stats UnitStats) bool {
	speed := stats.Speed * e.GlobalMultiplier * u.penalty(e)
	arrivedAngle := u.rotateTowards(angle, dt, speed*turnRate)
	arrivedRadius := u.stepRadius(radius, dt, speed*radialRate)
	return arrivedAngle && arrivedRadius
}

// rotateTowards turns along the shortest path; it snaps onto the target
// once within epsilon or when the step would overshoot.
func (u *Unit) rotateTowards(target, dt, speed float64) bool {
	diff := AngleDiff(u.Position.Angle, target)
	step := speed * dt
	if math.Abs(diff) < angleEpsilon || step >= math.Abs(diff) {
		u.Position.Angle = NormalizeAngle(target)
		return true
	}
	u.Position.Angle = NormalizeAngle(u.Position.Angle + math.Copysign(step, diff))
	return false
}

func (u *Unit) stepRadius(target, dt, speed float64) bool {
	diff := target - u.Position.Radius
	step := speed * dt
	if math.Abs(diff) < radiusEpsilon || step >= math.Abs(diff) {
		u.Position.Radius = target
		return true
	}
	u.Position.Radius += math.Copysign(step, diff)
	return false
}
