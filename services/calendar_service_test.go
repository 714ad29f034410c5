package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/almasria/workshop-scheduler/models"
)

// seedWorkingOrder creates a working order with one detail and one stage,
// returning the stage for assignment seeding
func seedWorkingOrder(t *testing.T, db *gorm.DB, code string) (models.Order, models.OrderStage) {
	t.Helper()

	order := models.Order{
		Code:         code,
		CustomerName: "Test Customer",
		Status:       models.OrderStatusWorking,
		Details:      []models.OrderDetail{{Notes: "one detail"}},
	}
	require.NoError(t, db.Create(&order).Error)

	detailID := order.Details[0].ID
	stage := models.OrderStage{
		OrderDetailID: &detailID,
		StageName:     "cutting",
		Status:        models.StageNotStarted,
	}
	require.NoError(t, db.Create(&stage).Error)

	return order, stage
}

func setupCalendarService(t *testing.T) (*gorm.DB, AssignmentService, CalendarService) {
	db := setupServiceTestDB(t)
	InitStageStatusService(db)
	assignments := InitAssignmentService(db)
	return db, assignments, InitCalendarService(db, assignments)
}

func TestLoadWeek(t *testing.T) {
	db, assignments, calendar := setupCalendarService(t)

	order, stage := seedWorkingOrder(t, db, "ALM-001")

	// A retired order must not show up in the window.
	retired := models.Order{Code: "ALM-000", CustomerName: "Old", Status: models.OrderStatusCompleted}
	require.NoError(t, db.Create(&retired).Error)

	weekStart := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	weekEnd := weekStart.AddDate(0, 0, 6)

	inWeek, err := assignments.Create(&models.Assignment{
		OrderStageID: stage.ID,
		EmployeeName: "Ahmed",
		WorkDate:     weekStart.AddDate(0, 0, 2),
	})
	require.NoError(t, err)
	_, err = assignments.Create(&models.Assignment{
		OrderStageID: stage.ID,
		EmployeeName: "Ahmed",
		WorkDate:     weekStart.AddDate(0, 0, 10), // outside the window
	})
	require.NoError(t, err)

	snap, err := calendar.LoadWeek(weekStart, weekEnd)
	require.NoError(t, err)

	require.Len(t, snap.Assignments, 1)
	assert.Equal(t, inWeek.ID, snap.Assignments[0].ID)

	require.Len(t, snap.Orders, 1)
	assert.Equal(t, order.ID, snap.Orders[0].ID)
	require.Len(t, snap.Stages, 1)
	assert.Equal(t, stage.ID, snap.Stages[0].ID)
}

func TestSnapshotJoins(t *testing.T) {
	db, assignments, calendar := setupCalendarService(t)

	order, stage := seedWorkingOrder(t, db, "ALM-002")
	weekStart := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	assignment, err := assignments.Create(&models.Assignment{
		OrderStageID: stage.ID,
		EmployeeName: "Hassan",
		WorkDate:     weekStart,
	})
	require.NoError(t, err)

	// An assignment pointing at a stage that no loaded order owns.
	orphanStage := models.OrderStage{StageName: "finishing", Status: models.StageNotStarted}
	require.NoError(t, db.Create(&orphanStage).Error)
	dangling, err := assignments.Create(&models.Assignment{
		OrderStageID: orphanStage.ID,
		EmployeeName: "Karim",
		WorkDate:     weekStart,
	})
	require.NoError(t, err)

	snap, err := calendar.LoadWeek(weekStart, weekStart.AddDate(0, 0, 6))
	require.NoError(t, err)

	t.Run("resolves assignment through stage to order", func(t *testing.T) {
		resolvedStage := snap.ResolveStage(assignment)
		require.NotNil(t, resolvedStage)
		assert.Equal(t, stage.ID, resolvedStage.ID)

		resolvedOrder := snap.ResolveOrder(resolvedStage)
		require.NotNil(t, resolvedOrder)
		assert.Equal(t, order.ID, resolvedOrder.ID)

		assert.Equal(t, order.ID, snap.OrderForAssignment(assignment).ID)
	})

	t.Run("missing join targets come back nil, not as errors", func(t *testing.T) {
		assert.Nil(t, snap.ResolveStage(dangling))
		assert.Nil(t, snap.OrderForAssignment(dangling))
		assert.Nil(t, snap.ResolveOrder(nil))
	})
}

func TestRefetch(t *testing.T) {
	db, assignments, calendar := setupCalendarService(t)

	_, stage := seedWorkingOrder(t, db, "ALM-003")
	weekStart := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	snap, err := calendar.LoadWeek(weekStart, weekStart.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.Empty(t, snap.Assignments)

	_, err = assignments.Create(&models.Assignment{
		OrderStageID: stage.ID,
		EmployeeName: "Ahmed",
		WorkDate:     weekStart,
	})
	require.NoError(t, err)

	// The old snapshot is a snapshot; only Refetch picks up the write.
	assert.Empty(t, snap.Assignments)

	refetched, err := calendar.Refetch()
	require.NoError(t, err)
	assert.Len(t, refetched.Assignments, 1)
	assert.Equal(t, snap.WeekStart, refetched.WeekStart)
}
