package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/almasria/workshop-scheduler/models"
)

func setupAssignmentService(t *testing.T) (*gorm.DB, AssignmentService) {
	db := setupServiceTestDB(t)
	InitStageStatusService(db)
	return db, InitAssignmentService(db)
}

func TestAssignmentCreate(t *testing.T) {
	db, service := setupAssignmentService(t)
	stage := createStage(t, db, models.StageNotStarted)

	t.Run("requires employee name", func(t *testing.T) {
		_, err := service.Create(&models.Assignment{
			OrderStageID: stage.ID,
			WorkDate:     time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		})
		assert.True(t, IsValidation(err))
	})

	t.Run("requires work date", func(t *testing.T) {
		_, err := service.Create(&models.Assignment{
			OrderStageID: stage.ID,
			EmployeeName: "Ahmed",
		})
		assert.True(t, IsValidation(err))
	})

	t.Run("persists and marks the stage scheduled", func(t *testing.T) {
		created, err := service.Create(&models.Assignment{
			OrderStageID: stage.ID,
			EmployeeName: "Ahmed",
			WorkDate:     time.Date(2024, 4, 1, 13, 45, 0, 0, time.UTC), // time component must be dropped
		})
		require.NoError(t, err)

		assert.NotZero(t, created.ID)
		assert.False(t, created.IsDone)
		assert.False(t, created.CreatedAt.IsZero())
		assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), created.WorkDate)
		assert.Nil(t, created.EmployeeRate)

		assert.Equal(t, models.StageScheduled, reloadStage(t, db, stage.ID).Status)
	})
}

func TestAssignmentUpdate(t *testing.T) {
	db, service := setupAssignmentService(t)
	stage := createStage(t, db, models.StageNotStarted)

	seed, err := service.Create(&models.Assignment{
		OrderStageID: stage.ID,
		EmployeeName: "Ahmed",
		WorkDate:     time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	t.Run("applies whitelisted fields", func(t *testing.T) {
		note := "bring the long ladder"
		updated, err := service.Update(seed.ID, map[string]interface{}{
			"note":    &note,
			"is_done": true,
		})
		require.NoError(t, err)
		require.NotNil(t, updated.Note)
		assert.Equal(t, note, *updated.Note)
		assert.True(t, updated.IsDone)
	})

	t.Run("drops non-whitelisted fields", func(t *testing.T) {
		updated, err := service.Update(seed.ID, map[string]interface{}{
			"id":          uint(777),
			"deleted_at":  time.Now(),
			"unknown_col": "x",
		})
		require.NoError(t, err)
		// All fields filtered out: this was a read, not a write.
		assert.Equal(t, seed.ID, updated.ID)
		assert.Equal(t, "Ahmed", updated.EmployeeName)
	})

	t.Run("returns NotFoundError for a missing row", func(t *testing.T) {
		_, err := service.Update(999999, map[string]interface{}{"is_done": true})
		assert.True(t, IsNotFound(err))
	})
}

func TestAssignmentDelete(t *testing.T) {
	db, service := setupAssignmentService(t)
	stage := createStage(t, db, models.StageNotStarted)

	created, err := service.Create(&models.Assignment{
		OrderStageID: stage.ID,
		EmployeeName: "Ahmed",
		WorkDate:     time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, models.StageScheduled, reloadStage(t, db, stage.ID).Status)

	t.Run("deletes and resets the orphaned stage", func(t *testing.T) {
		require.NoError(t, service.Delete(created.ID))

		var count int64
		require.NoError(t, db.Model(&models.Assignment{}).Where("id = ?", created.ID).Count(&count).Error)
		assert.Zero(t, count)

		assert.Equal(t, models.StageNotStarted, reloadStage(t, db, stage.ID).Status)
	})

	t.Run("returns NotFoundError for a missing row", func(t *testing.T) {
		err := service.Delete(created.ID)
		assert.True(t, IsNotFound(err))
	})
}

func TestAssignmentLists(t *testing.T) {
	db, service := setupAssignmentService(t)
	stage := createStage(t, db, models.StageNotStarted)
	other := createStage(t, db, models.StageNotStarted)

	d1 := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	d3 := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

	for _, a := range []models.Assignment{
		{OrderStageID: stage.ID, EmployeeName: "Ahmed", WorkDate: d1},
		{OrderStageID: stage.ID, EmployeeName: "Hassan", WorkDate: d1},
		{OrderStageID: other.ID, EmployeeName: "Karim", WorkDate: d2},
		{OrderStageID: stage.ID, EmployeeName: "Ahmed", WorkDate: d3},
	} {
		assignment := a
		_, err := service.Create(&assignment)
		require.NoError(t, err)
	}

	t.Run("range query is inclusive and unfiltered", func(t *testing.T) {
		got, err := service.ListByDateRange(d1, d2)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("cell query matches stage and date exactly", func(t *testing.T) {
		got, err := service.ListByStageAndDate(stage.ID, d1)
		require.NoError(t, err)
		require.Len(t, got, 2)
		names := []string{got[0].EmployeeName, got[1].EmployeeName}
		assert.ElementsMatch(t, []string{"Ahmed", "Hassan"}, names)
	})

	t.Run("empty results are empty slices, not nil", func(t *testing.T) {
		byRange, err := service.ListByDateRange(d3.AddDate(0, 1, 0), d3.AddDate(0, 2, 0))
		require.NoError(t, err)
		assert.NotNil(t, byRange)
		assert.Empty(t, byRange)

		byCell, err := service.ListByStageAndDate(other.ID, d1)
		require.NoError(t, err)
		assert.NotNil(t, byCell)
		assert.Empty(t, byCell)
	})
}
