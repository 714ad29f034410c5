package services

import (
	"log"
	"time"

	"github.com/almasria/workshop-scheduler/models"
	"gorm.io/gorm"
)

// StageStatusService keeps a stage's status in step with the existence of
// assignments against it. Both operations are best-effort: a failure is
// logged and suppressed so it can never abort the assignment mutation that
// triggered it. The service only ever writes "scheduled" and "not_started";
// in_progress, completed, delayed and on_hold belong to the production
// screens and are left alone.
type StageStatusService interface {
	// MarkScheduledIfNeeded moves the stage to "scheduled" unless it
	// already is. Called after every successful assignment create.
	MarkScheduledIfNeeded(stageID uint)

	// ResetIfOrphaned moves the stage back to "not_started" when no
	// assignments remain against it. Called after every successful
	// assignment delete, with the stage id captured before deletion.
	ResetIfOrphaned(stageID uint)
}

// GormStageStatusService implements StageStatusService against the database
type GormStageStatusService struct {
	db *gorm.DB
}

var stageStatusInstance StageStatusService

// InitStageStatusService initializes the stage status service
func InitStageStatusService(db *gorm.DB) StageStatusService {
	stageStatusInstance = &GormStageStatusService{db: db}
	return stageStatusInstance
}

// GetStageStatusService returns the initialized stage status service instance
func GetStageStatusService() StageStatusService {
	return stageStatusInstance
}

// SetStageStatusService sets the stage status service instance (primarily for testing)
func SetStageStatusService(service StageStatusService) {
	stageStatusInstance = service
}

// MarkScheduledIfNeeded reads the stage and writes "scheduled" if its
// current status differs
func (s *GormStageStatusService) MarkScheduledIfNeeded(stageID uint) {
	var stage models.OrderStage
	if err := s.db.First(&stage, stageID).Error; err != nil {
		log.Printf("stage status: could not read stage %d: %v", stageID, err)
		return
	}

	// Only the not_started -> scheduled transition belongs to the
	// scheduler. A stage already scheduled needs nothing; a stage in any
	// later status must not be pulled back.
	if stage.Status != models.StageNotStarted {
		return
	}

	updates := map[string]interface{}{
		"status":     models.StageScheduled,
		"updated_at": time.Now(),
	}
	if err := s.db.Model(&models.OrderStage{}).Where("id = ?", stageID).Updates(updates).Error; err != nil {
		log.Printf("stage status: could not mark stage %d scheduled: %v", stageID, err)
	}
}

// ResetIfOrphaned counts remaining assignments for the stage and writes
// "not_started" when none are left
func (s *GormStageStatusService) ResetIfOrphaned(stageID uint) {
	var count int64
	if err := s.db.Model(&models.Assignment{}).Where("order_stage_id = ?", stageID).Count(&count).Error; err != nil {
		log.Printf("stage status: could not count assignments for stage %d: %v", stageID, err)
		return
	}

	if count > 0 {
		return
	}

	var stage models.OrderStage
	if err := s.db.First(&stage, stageID).Error; err != nil {
		log.Printf("stage status: could not read stage %d: %v", stageID, err)
		return
	}

	// Releasing the last assignment only unwinds the scheduler's own
	// transition. A stage someone already started or finished stays put.
	if stage.Status != models.StageScheduled {
		return
	}

	updates := map[string]interface{}{
		"status":     models.StageNotStarted,
		"updated_at": time.Now(),
	}
	if err := s.db.Model(&models.OrderStage{}).Where("id = ?", stageID).Updates(updates).Error; err != nil {
		log.Printf("stage status: could not reset stage %d: %v", stageID, err)
	}
}
