package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructionLifecycle(t *testing.T) {
	b := newSlot(3, 110, false)
	assert.False(t, b.constructionOpen())

	b.startConstruction(BuildingWorkshop)
	assert.Equal(t, StatusPending, b.Status)
	assert.True(t, b.constructionOpen())

	b.claim("u1")
	assert.Equal(t, StatusUnderConstruction, b.Status)
	assert.False(t, b.constructionOpen())

	assert.False(t, b.advanceConstruction(0.6))
	assert.InDelta(t, 0.6, b.ConstructionProgress, 1e-9)
	assert.True(t, b.advanceConstruction(0.6))
	assert.Equal(t, StatusCompleted, b.Status)
	assert.Equal(t, 1.0, b.ConstructionProgress)
	assert.Empty(t, b.AssignedUnitID)
}

func TestSetRequestedWorkersTruncates(t *testing.T) {
	b := newSlot(0, CrusherAngle, false)
	b.AssignedWorkers = []string{"a", "b", "c"}

	b.setRequestedWorkers(1)
	assert.Equal(t, []string{"a"}, b.AssignedWorkers)
	assert.Equal(t, 1, b.RequestedWorkers)
	assert.False(t, b.openWorkSlot(), "slot is not completed")

	b.Status = StatusCompleted
	b.setRequestedWorkers(2)
	assert.True(t, b.openWorkSlot())
	b.AssignedWorkers = append(b.AssignedWorkers, "d")
	assert.False(t, b.openWorkSlot())

	b.removeWorker("a")
	assert.Equal(t, []string{"d"}, b.AssignedWorkers)
	assert.True(t, b.hasWorker("d"))
	assert.False(t, b.hasWorker("a"))
}

func TestBuildingCapacities(t *testing.T) {
	e := newTestEngine(t)
	crusher := e.Building(0)
	empty := e.Building(4)

	assert.Equal(t, 0, empty.MaxWorkers(e))
	assert.Equal(t, 0, empty.MaxPopulation(e))
	assert.Equal(t, 0, crusher.MaxWorkers(e))

	e.Modifiers = append(e.Modifiers,
		Modifier{Scope: ScopeBuilding, TargetKey: string(BuildingCrusher), Stat: StatMaxWorkers, Kind: ModAddFlat, Value: 1},
		Modifier{Scope: ScopeBuilding, TargetKey: string(BuildingHabitat), Stat: StatMaxPopulation, Kind: ModAddFlat, Value: 5},
	)
	assert.Equal(t, 1, crusher.MaxWorkers(e))

	e.ConstructBuilding(habitatSlot, BuildingHabitat)
	assert.Equal(t, 10, e.Building(habitatSlot).MaxPopulation(e))
	assert.Equal(t, 10, e.PopulationCap())
}
