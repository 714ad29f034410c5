package services

import (
	"fmt"
	"time"

	"github.com/almasria/workshop-scheduler/models"
)

// CreateAssignmentsInput describes a create-mode submission: a cell assumed
// empty, a desired crew, and optionally a span of days to fan out over.
type CreateAssignmentsInput struct {
	StageID   uint
	StartDate time.Time
	EndDate   *time.Time // nil for a single day; must not precede StartDate
	Employees []string
	Note      string
}

// ReconcileCellInput describes an edit-mode submission against one
// existing calendar cell.
type ReconcileCellInput struct {
	StageID   uint
	Date      time.Time
	Employees []string // desired crew after the edit, treated as a set
	Note      string   // written uniformly to every row in the cell
}

// ReconcileResult reports what actually happened. The store offers no
// client-side transactions, so a failed batch may have partially applied;
// the result carries whatever succeeded alongside the error.
type ReconcileResult struct {
	Created []string `json:"created"` // employee names added
	Removed []string `json:"removed"` // employee names removed
	Updated []string `json:"updated"` // employee names whose note changed
}

// intent kinds for the ordered operation list.
const (
	intentAdd    = "add"
	intentRemove = "remove"
	intentUpdate = "update"
)

// reconcileIntent is one planned store operation. The batch is planned in
// full before the first write so validation failures touch nothing.
type reconcileIntent struct {
	kind         string
	employee     string
	date         time.Time
	assignmentID uint // remove/update only
}

// ReconcileService converges the persisted assignments of a calendar cell
// with a user-submitted desired crew.
type ReconcileService interface {
	CreateAssignments(input CreateAssignmentsInput) (*ReconcileResult, error)
	ReconcileCell(input ReconcileCellInput) (*ReconcileResult, error)
}

// EngineReconcileService implements ReconcileService on top of the
// assignment service.
type EngineReconcileService struct {
	assignments AssignmentService
}

var reconcileInstance ReconcileService

// InitReconcileService initializes the reconciliation service
func InitReconcileService(assignments AssignmentService) ReconcileService {
	reconcileInstance = &EngineReconcileService{assignments: assignments}
	return reconcileInstance
}

// GetReconcileService returns the initialized reconciliation service instance
func GetReconcileService() ReconcileService {
	return reconcileInstance
}

// SetReconcileService sets the reconciliation service instance (primarily for testing)
func SetReconcileService(service ReconcileService) {
	reconcileInstance = service
}

// CreateAssignments fans a desired crew out over one or more days. No
// diffing happens here: the cell is assumed empty, and every date/employee
// pair becomes one new row.
func (s *EngineReconcileService) CreateAssignments(input CreateAssignmentsInput) (*ReconcileResult, error) {
	if input.StageID == 0 {
		return nil, &ValidationError{Message: "a production stage is required"}
	}
	if input.StartDate.IsZero() {
		return nil, &ValidationError{Message: "a work date is required"}
	}

	start := models.DateOnly(input.StartDate)
	end := start
	if input.EndDate != nil {
		end = models.DateOnly(*input.EndDate)
		if end.Before(start) {
			return nil, &ValidationError{Message: "end date must not precede start date"}
		}
	}

	employees := dedupeNames(input.Employees)
	if len(employees) == 0 {
		return nil, &ValidationError{Message: "at least one employee is required"}
	}

	var intents []reconcileIntent
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		for _, name := range employees {
			intents = append(intents, reconcileIntent{kind: intentAdd, employee: name, date: date})
		}
	}

	return s.execute(input.StageID, input.Note, intents)
}

// ReconcileCell re-reads the cell's persisted assignments and issues the
// minimal add/remove/update batch to converge them with the desired crew.
// The re-read is deliberate: the caller's snapshot may be stale, and
// diffing against it would clobber rows another session added.
//
// The cell is not locked; two sessions reconciling the same cell at once
// resolve last-write-wins at the row level.
func (s *EngineReconcileService) ReconcileCell(input ReconcileCellInput) (*ReconcileResult, error) {
	if input.StageID == 0 {
		return nil, &ValidationError{Message: "a production stage is required"}
	}
	if input.Date.IsZero() {
		return nil, &ValidationError{Message: "a work date is required"}
	}

	date := models.DateOnly(input.Date)
	existing, err := s.assignments.ListByStageAndDate(input.StageID, date)
	if err != nil {
		return nil, err
	}

	desired := dedupeNames(input.Employees)
	desiredSet := make(map[string]bool, len(desired))
	for _, name := range desired {
		desiredSet[name] = true
	}

	existingByName := make(map[string]models.Assignment, len(existing))
	for _, a := range existing {
		existingByName[a.EmployeeName] = a
	}

	var intents []reconcileIntent
	for _, name := range desired {
		if _, ok := existingByName[name]; !ok {
			intents = append(intents, reconcileIntent{kind: intentAdd, employee: name, date: date})
		}
	}
	for _, a := range existing {
		if !desiredSet[a.EmployeeName] {
			intents = append(intents, reconcileIntent{kind: intentRemove, employee: a.EmployeeName, assignmentID: a.ID})
		}
	}
	for _, a := range existing {
		if desiredSet[a.EmployeeName] && noteValue(a.Note) != input.Note {
			intents = append(intents, reconcileIntent{kind: intentUpdate, employee: a.EmployeeName, assignmentID: a.ID})
		}
	}

	return s.execute(input.StageID, input.Note, intents)
}

// execute runs the planned batch sequentially. The first store failure
// aborts the remaining intents and propagates; everything already applied
// stays applied and is reported in the result.
func (s *EngineReconcileService) execute(stageID uint, note string, intents []reconcileIntent) (*ReconcileResult, error) {
	result := &ReconcileResult{Created: []string{}, Removed: []string{}, Updated: []string{}}

	for _, intent := range intents {
		switch intent.kind {
		case intentAdd:
			assignment := &models.Assignment{
				OrderStageID: stageID,
				EmployeeName: intent.employee,
				WorkDate:     intent.date,
				Note:         notePtr(note),
				IsDone:       false,
			}
			if _, err := s.assignments.Create(assignment); err != nil {
				return result, fmt.Errorf("adding %s: %w", intent.employee, err)
			}
			result.Created = append(result.Created, intent.employee)

		case intentRemove:
			if err := s.assignments.Delete(intent.assignmentID); err != nil {
				return result, fmt.Errorf("removing %s: %w", intent.employee, err)
			}
			result.Removed = append(result.Removed, intent.employee)

		case intentUpdate:
			if _, err := s.assignments.Update(intent.assignmentID, map[string]interface{}{"note": notePtr(note)}); err != nil {
				return result, fmt.Errorf("updating note for %s: %w", intent.employee, err)
			}
			result.Updated = append(result.Updated, intent.employee)
		}
	}

	return result, nil
}

// dedupeNames drops empty and repeated names while preserving order. The
// diff is defined over a set; a duplicate in the form must not become a
// duplicate row.
func dedupeNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func notePtr(note string) *string {
	if note == "" {
		return nil
	}
	return &note
}

func noteValue(note *string) string {
	if note == nil {
		return ""
	}
	return *note
}
