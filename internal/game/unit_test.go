package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiningProgress(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 3
	cfg.Balance.MaxFrameDelta = 0.25
	stats := cfg.Units[UnitMinerBasic]
	stats.Power = 1
	cfg.Units[UnitMinerBasic] = stats
	e := NewEngine(cfg)

	require.True(t, e.ConstructBuilding(habitatSlot, BuildingHabitat))
	u := buy(t, e, UnitMinerBasic)
	u.State = StateMining
	u.TargetTunnel = NoTunnel
	u.Position = Point{Angle: MineAngle + u.DigOffset, Radius: ShaftBottomRadius(0)}

	e.Tick(0.25)
	assert.Equal(t, StateMining, u.State)
	assert.InDelta(t, 0.25, u.Progress, 1e-9)

	tickN(e, 2, 0.25)
	assert.Equal(t, StateMining, u.State)
	assert.InDelta(t, 0.75, u.Progress, 1e-9)
	assert.Zero(t, u.Inventory)

	e.Tick(0.25)
	assert.Equal(t, StateExitingMine, u.State)
	assert.Equal(t, 5.0, u.Inventory)
	assert.Equal(t, 1.0, e.TotalMined)
}

func TestMiningIsSlowerDeeper(t *testing.T) {
	e := newTestEngine(t)
	require.True(t, e.ConstructBuilding(habitatSlot, BuildingHabitat))
	u := buy(t, e, UnitMinerBasic)

	e.TotalMined = 2000
	e.MineDepth = DepthFromTotal(e.TotalMined)
	u.State = StateMining
	u.Position = Point{Angle: MineAngle + u.DigOffset, Radius: ShaftBottomRadius(e.MineDepth)}

	e.Tick(0.1)
	// power 0.5 against toughness 1 + 20*0.05 = 2
	assert.InDelta(t, 0.025, u.Progress, 1e-9)
}

func TestTunnelMiningExtendsTunnel(t *testing.T) {
	e := newTestEngine(t)
	require.True(t, e.ConstructBuilding(habitatSlot, BuildingHabitat))
	u := buy(t, e, UnitMinerBasic)

	tun := e.tunnel(0)
	u.State = StateMining
	u.TargetTunnel = 0
	u.Progress = 0.99
	u.Position = Point{Angle: tun.FaceAngle(tun.Radius()), Radius: tun.Radius()}

	e.Tick(0.1)
	assert.Equal(t, StateExitingMine, u.State)
	assert.Equal(t, 11.0, e.tunnel(0).CurrentLength)
	assert.Zero(t, e.TotalMined, "tunnel ore does not deepen the shaft")
}

func TestFlatBatteryOnSurface(t *testing.T) {
	e := newTestEngine(t)
	require.True(t, e.ConstructBuilding(habitatSlot, BuildingHabitat))
	u := buy(t, e, UnitMinerBasic)
	u.State = StateMovingToMine
	u.Energy = 0.01

	e.Tick(0.05)
	assert.Zero(t, u.Energy)
	// Already standing at home, so the walk back ends immediately.
	assert.Equal(t, StateCharging, u.State)

	for i := 0; i < 100 && u.State == StateCharging; i++ {
		e.Tick(0.1)
	}
	assert.Equal(t, StateIdle, u.State)
	assert.Equal(t, u.MaxEnergy, u.Energy)
}

func TestFlatBatteryUnderground(t *testing.T) {
	e := newTestEngine(t)
	require.True(t, e.ConstructBuilding(habitatSlot, BuildingHabitat))
	u := buy(t, e, UnitMinerBasic)
	u.State = StateMining
	u.Position = Point{Angle: MineAngle, Radius: ShaftBottomRadius(0)}
	u.Energy = 0.01

	e.Tick(0.05)
	assert.Equal(t, StateExitingMine, u.State)
	assert.Zero(t, u.Energy)

	for i := 0; i < 400 && u.State == StateExitingMine; i++ {
		e.Tick(0.05)
	}
	assert.Zero(t, u.Energy, "climbing out is free")
	assert.False(t, u.Underground())
	assert.Contains(t, []UnitState{StateMovingToHome, StateCharging}, u.State)
}

func TestFlatBatteryReleasesBuildClaim(t *testing.T) {
	e := newTestEngine(t)
	require.True(t, e.ConstructBuilding(habitatSlot, BuildingHabitat))
	e.Credits = 1000
	u := buy(t, e, UnitMinerBasic)
	require.True(t, e.ConstructBuilding(2, BuildingHabitat))

	e.Tick(0.05)
	require.Equal(t, u.ID, e.Building(2).AssignedUnitID)

	u.Energy = 0.01
	e.Tick(0.05)
	assert.Empty(t, e.Building(2).AssignedUnitID)
	assert.True(t, e.Building(2).constructionOpen())
}

func TestLoosePickup(t *testing.T) {
	e := newTestEngine(t)
	require.True(t, e.ConstructBuilding(habitatSlot, BuildingHabitat))
	u := buy(t, e, UnitMinerBasic)
	e.LooseOreInMine = 12

	e.Tick(0.05)
	require.Equal(t, StatePickupLooseOre, u.State)

	for i := 0; i < 400 && u.State != StateExitingMine; i++ {
		e.Tick(0.05)
	}
	require.Equal(t, StateExitingMine, u.State)
	assert.Equal(t, 5.0, u.Inventory)
	assert.Equal(t, 7.0, e.LooseOreInMine)
	assert.Equal(t, NoTunnel, u.TargetTunnel)
}

func TestMinerDeliversOre(t *testing.T) {
	e := newTestEngine(t)
	require.True(t, e.ConstructBuilding(habitatSlot, BuildingHabitat))
	u := buy(t, e, UnitMinerBasic)
	u.State = StateExitingMine
	u.Inventory = 5
	u.Position = Point{Angle: MineAngle, Radius: ShaftBottomRadius(0)}

	for i := 0; i < 1000 && u.State != StateIdle; i++ {
		e.Tick(0.05)
	}
	require.Equal(t, StateIdle, u.State)
	assert.Zero(t, u.Inventory)
	assert.Equal(t, 5.0, e.SurfaceOre)
}

func TestRotateTowards(t *testing.T) {
	testCases := []struct {
		name    string
		from    float64
		target  float64
		speed   float64
		arrived bool
		want    float64
	}{
		{name: "within epsilon snaps", from: 0.3, target: 0, speed: 1, arrived: true, want: 0},
		{name: "overshoot snaps", from: 5, target: 0, speed: 100, arrived: true, want: 0},
		{name: "partial step", from: 90, target: 0, speed: 10, arrived: false, want: 89},
		{name: "wraps the short way", from: 170, target: -170, speed: 10, arrived: false, want: 171},
		{name: "normalizes target", from: 10, target: 370, speed: 10, arrived: true, want: 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u := &Unit{Position: Point{Angle: tc.from}}
			assert.Equal(t, tc.arrived, u.rotateTowards(tc.target, 0.1, tc.speed))
			assert.InDelta(t, tc.want, u.Position.Angle, 1e-9)
		})
	}
}

func TestStepRadius(t *testing.T) {
	u := &Unit{Position: Point{Radius: 400}}

	assert.False(t, u.stepRadius(300, 0.1, 100))
	assert.InDelta(t, 390, u.Position.Radius, 1e-9)

	assert.True(t, u.stepRadius(300, 1, 1000))
	assert.Equal(t, 300.0, u.Position.Radius)

	u.Position.Radius = 301.5
	assert.True(t, u.stepRadius(300, 0.1, 1))
	assert.Equal(t, 300.0, u.Position.Radius)
}

func TestCarrierBringsDrillToMine(t *testing.T) {
	e := settledColony(t)
	d := buy(t, e, UnitMinerDrill)
	c := buy(t, e, UnitCarrierRover)
	assert.Equal(t, 2, d.HomeBuildingID)

	e.Tick(0.05)
	require.Equal(t, StateMovingToDrill, c.State)

	for i := 0; i < 400 && c.CarryingID == ""; i++ {
		e.Tick(0.05)
	}
	require.Equal(t, d.ID, c.CarryingID)
	assert.Equal(t, c.ID, d.CarriedBy)
	assert.Equal(t, StateCarryingDrillToMine, c.State)

	for i := 0; i < 1000 && c.State != StateOperatingDrill; i++ {
		e.Tick(0.05)
		require.Empty(t, e.CheckInvariants())
	}
	require.Equal(t, StateOperatingDrill, c.State)

	tickN(e, 10, 0.05)
	assert.Equal(t, StateOperatingDrill, d.State)
	assert.Equal(t, c.Position, d.Position)
	assert.InDelta(t, 10.0, e.LooseOreInMine, 1e-6)
	assert.Empty(t, e.CheckInvariants())
}

func TestCarrierDropsDrillWhenExhausted(t *testing.T) {
	e := settledColony(t)
	d := buy(t, e, UnitMinerDrill)
	c := buy(t, e, UnitCarrierRover)

	c.State = StateOperatingDrill
	c.CarryingID = d.ID
	d.CarriedBy = c.ID
	c.Position = Point{Angle: MineAngle, Radius: ShaftBottomRadius(0)}
	c.Energy = 0.01

	e.Tick(0.05)
	assert.Equal(t, StateExitingMine, c.State)
	assert.Equal(t, d.ID, c.CarryingID, "the drill rides back up")

	for i := 0; i < 400 && c.State == StateExitingMine; i++ {
		e.Tick(0.05)
	}
	assert.Empty(t, c.CarryingID)
	assert.Empty(t, d.CarriedBy)
	assert.Equal(t, StateIdle, d.State)
	assert.Equal(t, SurfaceLevel, d.Position.Radius)
	assert.Empty(t, e.CheckInvariants())
}
