package services

import (
	"sync"
	"time"

	"github.com/almasria/workshop-scheduler/models"
)

// MockAssignmentService is an in-memory AssignmentService for testing. It
// records every call and can be told to fail specific operations so tests
// can exercise partial-failure paths.
type MockAssignmentService struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]models.Assignment

	CreateCalls int
	UpdateCalls int
	DeleteCalls int
	ListCalls   int

	// FailCreateFor makes Create fail for a specific employee name.
	FailCreateFor string
	// FailDelete makes every Delete fail.
	FailDelete bool
}

// NewMockAssignmentService creates an empty mock assignment service
func NewMockAssignmentService() *MockAssignmentService {
	return &MockAssignmentService{
		nextID: 1,
		rows:   make(map[uint]models.Assignment),
	}
}

// SetAsMockForTesting sets this mock as the global assignment service instance
func (m *MockAssignmentService) SetAsMockForTesting() {
	SetAssignmentService(m)
}

// Seed inserts a row directly, bypassing validation and call counters
func (m *MockAssignmentService) Seed(assignment models.Assignment) models.Assignment {
	m.mu.Lock()
	defer m.mu.Unlock()
	assignment.ID = m.nextID
	assignment.WorkDate = models.DateOnly(assignment.WorkDate)
	m.nextID++
	m.rows[assignment.ID] = assignment
	return assignment
}

// All returns every stored row
func (m *MockAssignmentService) All() []models.Assignment {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Assignment{}
	for _, row := range m.rows {
		out = append(out, row)
	}
	return out
}

// TotalCalls returns the number of store operations issued
func (m *MockAssignmentService) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CreateCalls + m.UpdateCalls + m.DeleteCalls + m.ListCalls
}

// Create simulates a validated insert
func (m *MockAssignmentService) Create(assignment *models.Assignment) (*models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++

	if assignment.EmployeeName == "" {
		return nil, &ValidationError{Message: "employee_name is required"}
	}
	if assignment.WorkDate.IsZero() {
		return nil, &ValidationError{Message: "work_date is required"}
	}
	if m.FailCreateFor != "" && assignment.EmployeeName == m.FailCreateFor {
		return nil, &StoreError{Op: "create assignment", Err: errMockFailure}
	}

	assignment.ID = m.nextID
	assignment.WorkDate = models.DateOnly(assignment.WorkDate)
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now()
	}
	m.nextID++
	m.rows[assignment.ID] = *assignment
	return assignment, nil
}

// Update simulates a whitelist-filtered partial update
func (m *MockAssignmentService) Update(id uint, fields map[string]interface{}) (*models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++

	row, ok := m.rows[id]
	if !ok {
		return nil, &NotFoundError{Resource: "assignment", ID: id}
	}
	if note, ok := fields["note"]; ok {
		row.Note, _ = note.(*string)
	}
	if done, ok := fields["is_done"].(bool); ok {
		row.IsDone = done
	}
	m.rows[id] = row
	return &row, nil
}

// Delete simulates a read-then-delete
func (m *MockAssignmentService) Delete(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++

	if m.FailDelete {
		return &StoreError{Op: "delete assignment", Err: errMockFailure}
	}
	if _, ok := m.rows[id]; !ok {
		return &NotFoundError{Resource: "assignment", ID: id}
	}
	delete(m.rows, id)
	return nil
}

// ListByDateRange returns rows inside the inclusive range
func (m *MockAssignmentService) ListByDateRange(from, to time.Time) ([]models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++

	from, to = models.DateOnly(from), models.DateOnly(to)
	out := []models.Assignment{}
	for _, row := range m.rows {
		if !row.WorkDate.Before(from) && !row.WorkDate.After(to) {
			out = append(out, row)
		}
	}
	return out, nil
}

// ListByStageAndDate returns the rows of one cell
func (m *MockAssignmentService) ListByStageAndDate(stageID uint, date time.Time) ([]models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++

	date = models.DateOnly(date)
	out := []models.Assignment{}
	for _, row := range m.rows {
		if row.OrderStageID == stageID && row.WorkDate.Equal(date) {
			out = append(out, row)
		}
	}
	return out, nil
}

var errMockFailure = &mockFailure{}

type mockFailure struct{}

func (*mockFailure) Error() string { return "simulated store failure" }
