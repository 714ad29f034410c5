package services

import (
	"time"

	"github.com/almasria/workshop-scheduler/models"
	"gorm.io/gorm"
)

// CalendarSnapshot is one loaded week of schedule data: the assignments in
// the window plus the stages and working orders needed to render them. The
// collections are read-only between refetches; all writes go through the
// assignment service, and stale state is only ever corrected by a full
// reload.
type CalendarSnapshot struct {
	WeekStart   time.Time
	WeekEnd     time.Time
	Assignments []models.Assignment
	Stages      []models.OrderStage
	Orders      []models.Order
}

// CalendarService loads and joins the data behind the schedule week view.
type CalendarService interface {
	// LoadWeek loads assignments in the closed interval [weekStart, weekEnd]
	// together with the stages and working orders they hang off.
	LoadWeek(weekStart, weekEnd time.Time) (*CalendarSnapshot, error)

	// Refetch re-runs the last LoadWeek. Callers must refetch after every
	// successful reconciliation so the view reflects server state; the
	// engine never patches in-memory collections.
	Refetch() (*CalendarSnapshot, error)
}

// GormCalendarService implements CalendarService against the database
type GormCalendarService struct {
	db          *gorm.DB
	assignments AssignmentService
	lastStart   time.Time
	lastEnd     time.Time
}

var calendarInstance CalendarService

// InitCalendarService initializes the calendar service
func InitCalendarService(db *gorm.DB, assignments AssignmentService) CalendarService {
	calendarInstance = &GormCalendarService{db: db, assignments: assignments}
	return calendarInstance
}

// GetCalendarService returns the initialized calendar service instance
func GetCalendarService() CalendarService {
	return calendarInstance
}

// SetCalendarService sets the calendar service instance (primarily for testing)
func SetCalendarService(service CalendarService) {
	calendarInstance = service
}

// LoadWeek loads the window in three reads: assignments in range, stages
// scoped to working orders, and the working orders themselves with their
// nested detail/stage trees.
func (s *GormCalendarService) LoadWeek(weekStart, weekEnd time.Time) (*CalendarSnapshot, error) {
	s.lastStart, s.lastEnd = weekStart, weekEnd

	assignments, err := s.assignments.ListByDateRange(weekStart, weekEnd)
	if err != nil {
		return nil, err
	}

	orders := []models.Order{}
	err = s.db.
		Preload("Details.Stages").
		Where("status = ?", models.OrderStatusWorking).
		Order("id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, &StoreError{Op: "load working orders", Err: err}
	}

	// Flatten the stages out of the loaded trees rather than issuing a
	// fourth query; the scheduler never renders stages of retired orders.
	stages := []models.OrderStage{}
	for _, order := range orders {
		for _, detail := range order.Details {
			stages = append(stages, detail.Stages...)
		}
	}

	return &CalendarSnapshot{
		WeekStart:   models.DateOnly(weekStart),
		WeekEnd:     models.DateOnly(weekEnd),
		Assignments: assignments,
		Stages:      stages,
		Orders:      orders,
	}, nil
}

// Refetch reloads the last requested window
func (s *GormCalendarService) Refetch() (*CalendarSnapshot, error) {
	return s.LoadWeek(s.lastStart, s.lastEnd)
}

// ResolveStage finds the stage an assignment points at, or nil when the
// reference is dangling. A missing stage means "render without stage
// context", never an error: the foreign keys here are soft.
func (snap *CalendarSnapshot) ResolveStage(assignment *models.Assignment) *models.OrderStage {
	for i := range snap.Stages {
		if snap.Stages[i].ID == assignment.OrderStageID {
			return &snap.Stages[i]
		}
	}
	return nil
}

// ResolveOrder finds the order whose detail tree contains the given stage,
// or nil when no loaded order owns it. Linear scans are fine here: a
// business runs tens of working orders, not thousands.
func (snap *CalendarSnapshot) ResolveOrder(stage *models.OrderStage) *models.Order {
	if stage == nil || stage.OrderDetailID == nil {
		return nil
	}
	for i := range snap.Orders {
		for j := range snap.Orders[i].Details {
			if snap.Orders[i].Details[j].ID == *stage.OrderDetailID {
				return &snap.Orders[i]
			}
		}
	}
	return nil
}

// OrderForAssignment resolves an assignment all the way to its order via
// its stage. Either hop may come back empty.
func (snap *CalendarSnapshot) OrderForAssignment(assignment *models.Assignment) *models.Order {
	return snap.ResolveOrder(snap.ResolveStage(assignment))
}
