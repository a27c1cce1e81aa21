/*
Package game
File: mechanics.go
Description:
    Contains the geometry and terrain rules of the asteroid.
    This includes angle normalization, shaft and tunnel depths, dig
    toughness, and the fixed layout of building slots on the surface.
*/

package game

import "math"

// Surface layout, in degrees and asteroid units.
const (
	AsteroidRadius = 400.0
	SurfaceLevel   = AsteroidRadius
	MineAngle      = 0.0
	PileAngle      = 12.0
	CrusherAngle   = 25.0
	LaunchpadAngle = 180.0
)

const (
	shaftTopOffset    = 20.0  // Shaft mouth sits below the surface line
	maxVisualDepth    = 300.0 // Deepest the shaft bottom is ever drawn
	depthPerLevel     = 1.5   // Visual depth per mine depth level
	orePerDepthLevel  = 100.0
	toughnessPerLevel = 0.05
	maxShaftSpread    = 8.0 // Degrees either side of the shaft axis

	turnRate       = 15.0 // Angular speed relative to unit speed
	radialRate     = 30.0
	miningTurnRate = 10.0
	exitTurnRate   = 20.0

	angleEpsilon      = 0.5
	radiusEpsilon     = 2.0
	shaftAlignWindow  = 2.0 // Close enough to the axis to start climbing
	undergroundMargin = 5.0
	carryDrainFactor  = 1.5
)

// Building slot arc.
const (
	slotArcStart = 50.0
	slotArcEnd   = 340.0
	slotArcStep  = 30.0
)

// NormalizeAngle maps a into (-180, 180].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 360)
	if a > 180 {
		a -= 360
	} else if a <= -180 {
		a += 360
	}
	return a
}

// AngleDiff returns the shortest signed rotation from one angle to another.
func AngleDiff(from, to float64) float64 {
	return NormalizeAngle(to - from)
}

// DepthFromTotal converts cumulative ore mined into the shaft depth level.
func DepthFromTotal(totalMined float64) int {
	return int(math.Floor(totalMined / orePerDepthLevel))
}

// VisualDepth is how far below the shaft mouth the bottom currently sits.
func VisualDepth(mineDepth int) float64 {
	return math.Min(float64(mineDepth)*depthPerLevel, maxVisualDepth)
}

// ShaftBottomRadius is the radius a unit descends to in the main shaft.
func ShaftBottomRadius(mineDepth int) float64 {
	return SurfaceLevel - shaftTopOffset - VisualDepth(mineDepth)
}

// Toughness scales mining difficulty with depth.
func Toughness(mineDepth int) float64 {
	return 1 + float64(mineDepth)*toughnessPerLevel
}

// Reachable reports whether the shaft has been dug past the tunnel mouth.
func (t Tunnel) Reachable(mineDepth int) bool {
	reach := math.Min(maxVisualDepth, shaftTopOffset+float64(mineDepth)*depthPerLevel)
	return t.DepthPx < reach
}

// Full reports whether the tunnel has reached its maximum length.
func (t Tunnel) Full() bool {
	return t.CurrentLength >= t.MaxLength
}

// Radius is the distance from the asteroid center at which the tunnel runs.
func (t Tunnel) Radius() float64 {
	return SurfaceLevel - shaftTopOffset - t.DepthPx
}

// FaceAngle is the angle of the digging face when standing at radius.
// The tunnel length is an arc length, so it converts through the radius.
func (t Tunnel) FaceAngle(radius float64) float64 {
	if radius <= 0 {
		return MineAngle
	}
	return MineAngle + (t.CurrentLength/radius)*(180/math.Pi)*float64(t.Direction)
}

// extend grows the tunnel by n, never past MaxLength.
func (t *Tunnel) extend(n float64) {
	t.CurrentLength = math.Min(t.CurrentLength+n, t.MaxLength)
}

// generateSlots lays out the main crusher slot and the surface arc.
// The arc slot closest to LaunchpadAngle is reserved for the launchpad.
func generateSlots() []*Building {
	slots := []*Building{newSlot(0, CrusherAngle, false)}

	id := 1
	for a := slotArcStart; a <= slotArcEnd; a += slotArcStep {
		slots = append(slots, newSlot(id, a, false))
		id++
	}

	best, minDiff := -1, 360.0
	for i, s := range slots {
		if s.ID == 0 {
			continue
		}
		if d := math.Abs(s.Angle - LaunchpadAngle); d < minDiff {
			best, minDiff = i, d
		}
	}
	if best >= 0 {
		slots[best].IsLaunchpadSlot = true
	}
	return slots
}
