package services

import (
	"errors"
	"time"

	"github.com/almasria/workshop-scheduler/models"
	"gorm.io/gorm"
)

// AssignmentService is the persistence boundary for stage assignments.
// Every write is validated first; creates and deletes keep the parent
// stage's status in step via the StageStatusService.
type AssignmentService interface {
	Create(assignment *models.Assignment) (*models.Assignment, error)
	Update(id uint, fields map[string]interface{}) (*models.Assignment, error)
	Delete(id uint) error
	ListByDateRange(from, to time.Time) ([]models.Assignment, error)
	ListByStageAndDate(stageID uint, date time.Time) ([]models.Assignment, error)
}

// assignmentMutableFields is the whitelist of columns Update may touch.
// employee_rate stays listed even though the scheduler never writes it, so
// a payroll collaborator can populate it without schema churn.
var assignmentMutableFields = map[string]bool{
	"order_stage_id": true,
	"employee_name":  true,
	"work_date":      true,
	"note":           true,
	"is_done":        true,
	"created_at":     true,
	"employee_rate":  true,
}

// GormAssignmentService implements AssignmentService against the database
type GormAssignmentService struct {
	db *gorm.DB
}

var assignmentInstance AssignmentService

// InitAssignmentService initializes the assignment service
func InitAssignmentService(db *gorm.DB) AssignmentService {
	assignmentInstance = &GormAssignmentService{db: db}
	return assignmentInstance
}

// GetAssignmentService returns the initialized assignment service instance
func GetAssignmentService() AssignmentService {
	return assignmentInstance
}

// SetAssignmentService sets the assignment service instance (primarily for testing)
func SetAssignmentService(service AssignmentService) {
	assignmentInstance = service
}

// Create validates and persists a new assignment, then marks the parent
// stage scheduled. The stage update is fire-and-forget: its failure never
// rolls back the created row.
func (s *GormAssignmentService) Create(assignment *models.Assignment) (*models.Assignment, error) {
	if assignment.EmployeeName == "" {
		return nil, &ValidationError{Message: "employee_name is required"}
	}
	if assignment.WorkDate.IsZero() {
		return nil, &ValidationError{Message: "work_date is required"}
	}

	assignment.WorkDate = models.DateOnly(assignment.WorkDate)
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now()
	}

	if err := s.db.Create(assignment).Error; err != nil {
		return nil, &StoreError{Op: "create assignment", Err: err}
	}

	if assignment.OrderStageID != 0 {
		GetStageStatusService().MarkScheduledIfNeeded(assignment.OrderStageID)
	}

	return assignment, nil
}

// Update applies a whitelist-filtered partial update. An update that
// filters down to nothing short-circuits to a plain read so no empty write
// hits the store.
func (s *GormAssignmentService) Update(id uint, fields map[string]interface{}) (*models.Assignment, error) {
	filtered := make(map[string]interface{})
	for key, value := range fields {
		if assignmentMutableFields[key] {
			filtered[key] = value
		}
	}

	var assignment models.Assignment
	if err := s.db.First(&assignment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "assignment", ID: id}
		}
		return nil, &StoreError{Op: "read assignment", Err: err}
	}

	if len(filtered) == 0 {
		return &assignment, nil
	}

	if date, ok := filtered["work_date"].(time.Time); ok {
		filtered["work_date"] = models.DateOnly(date)
	}

	if err := s.db.Model(&assignment).Updates(filtered).Error; err != nil {
		return nil, &StoreError{Op: "update assignment", Err: err}
	}

	if err := s.db.First(&assignment, id).Error; err != nil {
		return nil, &StoreError{Op: "reload assignment", Err: err}
	}
	return &assignment, nil
}

// Delete removes an assignment, capturing its stage id first so the stage
// can be reset once the row is gone.
func (s *GormAssignmentService) Delete(id uint) error {
	var assignment models.Assignment
	if err := s.db.First(&assignment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "assignment", ID: id}
		}
		return &StoreError{Op: "read assignment", Err: err}
	}

	stageID := assignment.OrderStageID

	if err := s.db.Delete(&assignment).Error; err != nil {
		return &StoreError{Op: "delete assignment", Err: err}
	}

	if stageID != 0 {
		GetStageStatusService().ResetIfOrphaned(stageID)
	}
	return nil
}

// ListByDateRange returns every assignment with a work date inside the
// inclusive range, regardless of stage or order.
func (s *GormAssignmentService) ListByDateRange(from, to time.Time) ([]models.Assignment, error) {
	assignments := []models.Assignment{}
	err := s.db.
		Where("work_date >= ? AND work_date <= ?", models.DateOnly(from), models.DateOnly(to)).
		Order("work_date ASC, id ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, &StoreError{Op: "list assignments by date range", Err: err}
	}
	return assignments, nil
}

// ListByStageAndDate returns the assignments of one calendar cell.
func (s *GormAssignmentService) ListByStageAndDate(stageID uint, date time.Time) ([]models.Assignment, error) {
	assignments := []models.Assignment{}
	err := s.db.
		Where("order_stage_id = ? AND work_date = ?", stageID, models.DateOnly(date)).
		Order("id ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, &StoreError{Op: "list assignments by stage and date", Err: err}
	}
	return assignments, nil
}
