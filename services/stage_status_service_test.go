package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/almasria/workshop-scheduler/models"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Order{},
		&models.OrderDetail{},
		&models.OrderStage{},
		&models.Assignment{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func createStage(t *testing.T, db *gorm.DB, status models.StageStatus) models.OrderStage {
	t.Helper()
	stage := models.OrderStage{StageName: "cutting", Status: status}
	require.NoError(t, db.Create(&stage).Error)
	return stage
}

func reloadStage(t *testing.T, db *gorm.DB, id uint) models.OrderStage {
	t.Helper()
	var stage models.OrderStage
	require.NoError(t, db.First(&stage, id).Error)
	return stage
}

func TestMarkScheduledIfNeeded(t *testing.T) {
	db := setupServiceTestDB(t)
	service := InitStageStatusService(db)

	t.Run("moves not_started to scheduled", func(t *testing.T) {
		stage := createStage(t, db, models.StageNotStarted)

		service.MarkScheduledIfNeeded(stage.ID)

		assert.Equal(t, models.StageScheduled, reloadStage(t, db, stage.ID).Status)
	})

	t.Run("is idempotent", func(t *testing.T) {
		stage := createStage(t, db, models.StageNotStarted)

		service.MarkScheduledIfNeeded(stage.ID)
		service.MarkScheduledIfNeeded(stage.ID)

		assert.Equal(t, models.StageScheduled, reloadStage(t, db, stage.ID).Status)
	})

	t.Run("never pulls back a started stage", func(t *testing.T) {
		for _, status := range []models.StageStatus{
			models.StageInProgress,
			models.StageCompleted,
			models.StageDelayed,
			models.StageOnHold,
		} {
			stage := createStage(t, db, status)

			service.MarkScheduledIfNeeded(stage.ID)

			assert.Equal(t, status, reloadStage(t, db, stage.ID).Status,
				"status %s must not be overwritten", status)
		}
	})

	t.Run("tolerates a missing stage", func(t *testing.T) {
		// Must not panic or error; failures here are logged and suppressed.
		service.MarkScheduledIfNeeded(999999)
	})
}

func TestResetIfOrphaned(t *testing.T) {
	db := setupServiceTestDB(t)
	service := InitStageStatusService(db)

	t.Run("resets a scheduled stage with no assignments", func(t *testing.T) {
		stage := createStage(t, db, models.StageScheduled)

		service.ResetIfOrphaned(stage.ID)

		assert.Equal(t, models.StageNotStarted, reloadStage(t, db, stage.ID).Status)
	})

	t.Run("leaves a stage with remaining assignments", func(t *testing.T) {
		stage := createStage(t, db, models.StageScheduled)
		require.NoError(t, db.Create(&models.Assignment{
			OrderStageID: stage.ID,
			EmployeeName: "Ahmed",
			WorkDate:     models.DateOnly(time.Now()),
		}).Error)

		service.ResetIfOrphaned(stage.ID)

		assert.Equal(t, models.StageScheduled, reloadStage(t, db, stage.ID).Status)
	})

	t.Run("never resets a started stage", func(t *testing.T) {
		stage := createStage(t, db, models.StageCompleted)

		service.ResetIfOrphaned(stage.ID)

		assert.Equal(t, models.StageCompleted, reloadStage(t, db, stage.ID).Status)
	})

	t.Run("tolerates a missing stage", func(t *testing.T) {
		service.ResetIfOrphaned(999999)
	})
}

// A stage assigned on two dates stays scheduled until the last assignment
// is deleted.
func TestOrphanResetExactness(t *testing.T) {
	db := setupServiceTestDB(t)
	InitStageStatusService(db)
	assignments := InitAssignmentService(db)

	stage := createStage(t, db, models.StageNotStarted)
	d1 := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

	a, err := assignments.Create(&models.Assignment{OrderStageID: stage.ID, EmployeeName: "Ahmed", WorkDate: d1})
	require.NoError(t, err)
	b, err := assignments.Create(&models.Assignment{OrderStageID: stage.ID, EmployeeName: "Hassan", WorkDate: d2})
	require.NoError(t, err)

	assert.Equal(t, models.StageScheduled, reloadStage(t, db, stage.ID).Status)

	// Deleting the first assignment leaves the second, so no reset.
	require.NoError(t, assignments.Delete(a.ID))
	assert.Equal(t, models.StageScheduled, reloadStage(t, db, stage.ID).Status)

	// Deleting the last assignment resets the stage.
	require.NoError(t, assignments.Delete(b.ID))
	assert.Equal(t, models.StageNotStarted, reloadStage(t, db, stage.ID).Status)
}
