package services

import (
	"time"

	"github.com/almasria/workshop-scheduler/models"
)

// ScheduleFilters are the active week-view filters. Dimensions compose
// with AND; the value sets within one dimension compose with OR. With
// nothing set every assignment passes.
type ScheduleFilters struct {
	OrderID   *uint                `json:"order_id"`
	Employees []string             `json:"employees"`
	Statuses  []models.StageStatus `json:"statuses"`
}

// IsEmpty reports whether no filter dimension is active
func (f *ScheduleFilters) IsEmpty() bool {
	return f.OrderID == nil && len(f.Employees) == 0 && len(f.Statuses) == 0
}

// Matches applies the filters to one assignment, given its resolved stage
// and order (either may be nil when a soft reference dangles). An active
// order filter excludes assignments whose order cannot be resolved.
func (f *ScheduleFilters) Matches(assignment *models.Assignment, stage *models.OrderStage, order *models.Order) bool {
	if f.OrderID != nil {
		if order == nil || order.ID != *f.OrderID {
			return false
		}
	}

	if len(f.Employees) > 0 {
		found := false
		for _, name := range f.Employees {
			if assignment.EmployeeName == name {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(f.Statuses) > 0 {
		if stage == nil {
			return false
		}
		found := false
		for _, status := range f.Statuses {
			if stage.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// Modal modes for the assignment form.
const (
	ModalClosed = "closed"
	ModalCreate = "create"
	ModalEdit   = "edit"
)

// ModalState is the assignment form's open/closed state. On a failed
// submit the modal stays open so the user's input survives the error.
type ModalState struct {
	Mode     string              `json:"mode"`
	Date     time.Time           `json:"date,omitempty"`     // create mode: the clicked cell's date
	Editing  *models.Assignment  `json:"editing,omitempty"`  // edit mode: the card that was opened
	Siblings []models.Assignment `json:"siblings,omitempty"` // edit mode: the rest of the cell, display only
}

// ScheduleView holds the scheduler screen's navigation and filter state:
// the visible week, the active filters, and the modal. It never touches
// the store itself.
type ScheduleView struct {
	WeekStart time.Time       `json:"week_start"`
	Filters   ScheduleFilters `json:"filters"`
	Modal     ModalState      `json:"modal"`

	consumedOrderID *uint
}

// NewScheduleView creates a view showing the week containing reference.
// Weeks start on Saturday, the Egyptian work week.
func NewScheduleView(reference time.Time) *ScheduleView {
	return &ScheduleView{
		WeekStart: WeekStartFor(reference),
		Modal:     ModalState{Mode: ModalClosed},
	}
}

// WeekStartFor returns the Saturday on or before the reference date
func WeekStartFor(reference time.Time) time.Time {
	day := models.DateOnly(reference)
	offset := (int(day.Weekday()) - int(time.Saturday) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

// WeekEnd returns the last visible day (week start + 6)
func (v *ScheduleView) WeekEnd() time.Time {
	return v.WeekStart.AddDate(0, 0, 6)
}

// WeekDays returns the seven visible days in order
func (v *ScheduleView) WeekDays() []time.Time {
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = v.WeekStart.AddDate(0, 0, i)
	}
	return days
}

// GoToWeek moves the visible week to the one containing reference
func (v *ScheduleView) GoToWeek(reference time.Time) {
	v.WeekStart = WeekStartFor(reference)
}

// NextWeek advances the visible week by seven days
func (v *ScheduleView) NextWeek() {
	v.WeekStart = v.WeekStart.AddDate(0, 0, 7)
}

// PreviousWeek moves the visible week back by seven days
func (v *ScheduleView) PreviousWeek() {
	v.WeekStart = v.WeekStart.AddDate(0, 0, -7)
}

// OpenCreate opens the form for a new card on the given date
func (v *ScheduleView) OpenCreate(date time.Time) {
	v.Modal = ModalState{Mode: ModalCreate, Date: models.DateOnly(date)}
}

// OpenEdit opens the form for an existing card and its cell siblings
func (v *ScheduleView) OpenEdit(assignment models.Assignment, siblings []models.Assignment) {
	v.Modal = ModalState{Mode: ModalEdit, Editing: &assignment, Siblings: siblings}
}

// CloseModal closes the form, dropping whatever it referenced
func (v *ScheduleView) CloseModal() {
	v.Modal = ModalState{Mode: ModalClosed}
}

// ConsumeDeepLink applies an externally linked order id as the order
// filter. Links are consumed per value: the same order id applies once,
// so later renders don't re-apply a filter the user has since cleared,
// while a link to a different order still takes effect. An id absent
// from the snapshot stays unconsumed so the link can apply once its
// order loads. Returns whether the link was applied.
func (v *ScheduleView) ConsumeDeepLink(orderID uint, snap *CalendarSnapshot) bool {
	if v.consumedOrderID != nil && *v.consumedOrderID == orderID {
		return false
	}

	for i := range snap.Orders {
		if snap.Orders[i].ID == orderID {
			id := snap.Orders[i].ID
			v.consumedOrderID = &id
			v.Filters.OrderID = &id
			return true
		}
	}
	return false
}

// VisibleAssignments filters the snapshot's assignments through the active
// filters, resolving each assignment's stage and order for the dimension
// checks.
func (v *ScheduleView) VisibleAssignments(snap *CalendarSnapshot) []models.Assignment {
	visible := []models.Assignment{}
	for i := range snap.Assignments {
		assignment := &snap.Assignments[i]
		stage := snap.ResolveStage(assignment)
		order := snap.ResolveOrder(stage)
		if v.Filters.Matches(assignment, stage, order) {
			visible = append(visible, *assignment)
		}
	}
	return visible
}
