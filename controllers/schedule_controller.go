package controllers

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/almasria/workshop-scheduler/models"
	"github.com/almasria/workshop-scheduler/services"
)

// ScheduleController drives the crew schedule screen: week navigation,
// filters, the assignment form, and reconciliation submits. It holds the
// screen's view state and delegates all data work to the services.
//
// Gin runs handlers on separate goroutines, so the mutex serializes
// every access to the shared view state and the calendar's refetch
// bookkeeping.
type ScheduleController struct {
	mu          sync.Mutex
	calendar    services.CalendarService
	reconcile   services.ReconcileService
	assignments services.AssignmentService
	roster      models.Roster
	view        *services.ScheduleView
}

// NewScheduleController creates a schedule controller showing the current week
func NewScheduleController(
	calendar services.CalendarService,
	reconcile services.ReconcileService,
	assignments services.AssignmentService,
	roster models.Roster,
) *ScheduleController {
	return &ScheduleController{
		calendar:    calendar,
		reconcile:   reconcile,
		assignments: assignments,
		roster:      roster,
		view:        services.NewScheduleView(time.Now()),
	}
}

// scheduledAssignment is one week-view entry: an assignment joined with
// whatever stage/order context resolved. Missing context renders as empty
// fields, never as an error.
type scheduledAssignment struct {
	Assignment  models.Assignment  `json:"assignment"`
	StageName   string             `json:"stage_name,omitempty"`
	StageStatus models.StageStatus `json:"stage_status,omitempty"`
	OrderID     uint               `json:"order_id,omitempty"`
	OrderCode   string             `json:"order_code,omitempty"`
}

// GetWeek handles GET /api/v1/schedule - loads and filters the visible week.
//
// Query parameters: date (YYYY-MM-DD, moves the visible week), order_id,
// employees (comma-separated), statuses (comma-separated), and from_order
// (deep link from the orders screen, consumed once).
func (sc *ScheduleController) GetWeek(c *gin.Context) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if dateParam := c.Query("date"); dateParam != "" {
		date, err := time.Parse("2006-01-02", dateParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Invalid date, expected YYYY-MM-DD",
				},
			})
			return
		}
		sc.view.GoToWeek(date)
	}

	sc.applyFilterParams(c)

	snap, err := sc.calendar.LoadWeek(sc.view.WeekStart, sc.view.WeekEnd())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORE_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	if linkParam := c.Query("from_order"); linkParam != "" {
		if linkID, err := strconv.ParseUint(linkParam, 10, 32); err == nil {
			sc.view.ConsumeDeepLink(uint(linkID), snap)
		}
	}

	visible := sc.view.VisibleAssignments(snap)
	entries := make([]scheduledAssignment, 0, len(visible))
	for i := range visible {
		entry := scheduledAssignment{Assignment: visible[i]}
		if stage := snap.ResolveStage(&visible[i]); stage != nil {
			entry.StageName = stage.StageName
			entry.StageStatus = stage.Status
			if order := snap.ResolveOrder(stage); order != nil {
				entry.OrderID = order.ID
				entry.OrderCode = order.Code
			}
		}
		entries = append(entries, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"week_start":  sc.view.WeekStart.Format("2006-01-02"),
			"week_end":    sc.view.WeekEnd().Format("2006-01-02"),
			"assignments": entries,
			"filters":     sc.view.Filters,
			"roster":      sc.roster,
		},
	})
}

// GetCell handles GET /api/v1/schedule/cell - returns one calendar cell's
// assignments and opens the form over it (edit when the cell has rows,
// create when it is empty)
func (sc *ScheduleController) GetCell(c *gin.Context) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	stageID, err := strconv.ParseUint(c.Query("stage_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid stage_id",
			},
		})
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid date, expected YYYY-MM-DD",
			},
		})
		return
	}

	cell, err := sc.assignments.ListByStageAndDate(uint(stageID), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORE_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	if len(cell) == 0 {
		sc.view.OpenCreate(date)
	} else {
		sc.view.OpenEdit(cell[0], cell[1:])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"assignments": cell,
			"modal":       sc.view.Modal,
		},
	})
}

// SubmitAssignmentsRequest represents the assignment form submission
type SubmitAssignmentsRequest struct {
	Mode      string   `json:"mode" binding:"required,oneof=create edit"`
	StageID   uint     `json:"stage_id" binding:"required"`
	Date      string   `json:"date" binding:"required"` // YYYY-MM-DD
	EndDate   *string  `json:"end_date"`                // create mode, multi-day
	Employees []string `json:"employees"`
	Note      string   `json:"note"`
}

// SubmitAssignments handles POST /api/v1/schedule/assignments - runs the
// reconciliation engine for one form submission. The week is refetched
// after the engine runs whether it succeeded or not, so the view always
// reflects whatever actually persisted; on failure the form stays open and
// the partial result is returned alongside the error.
func (sc *ScheduleController) SubmitAssignments(c *gin.Context) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var req SubmitAssignmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid date, expected YYYY-MM-DD",
			},
		})
		return
	}

	var result *services.ReconcileResult
	var engineErr error

	if req.Mode == "create" {
		input := services.CreateAssignmentsInput{
			StageID:   req.StageID,
			StartDate: date,
			Employees: req.Employees,
			Note:      req.Note,
		}
		if req.EndDate != nil && *req.EndDate != "" {
			endDate, err := time.Parse("2006-01-02", *req.EndDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "VALIDATION_ERROR",
						"message": "Invalid end date, expected YYYY-MM-DD",
					},
				})
				return
			}
			input.EndDate = &endDate
		}
		result, engineErr = sc.reconcile.CreateAssignments(input)
	} else {
		result, engineErr = sc.reconcile.ReconcileCell(services.ReconcileCellInput{
			StageID:   req.StageID,
			Date:      date,
			Employees: req.Employees,
			Note:      req.Note,
		})
	}

	if engineErr != nil && services.IsValidation(engineErr) {
		// Nothing was written; no refetch needed, form stays open.
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": engineErr.Error(),
			},
		})
		return
	}

	// The engine touched the store; reload so the week reflects server
	// state even after a partial failure.
	if _, err := sc.calendar.Refetch(); err != nil {
		log.Printf("schedule: refetch after submit failed: %v", err)
	}

	if engineErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RECONCILE_FAILED",
				"message": engineErr.Error(),
			},
			"data": result,
		})
		return
	}

	sc.view.CloseModal()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// DeleteAssignment handles DELETE /api/v1/schedule/assignments/:id - the
// direct single-assignment delete action
func (sc *ScheduleController) DeleteAssignment(c *gin.Context) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid assignment id",
			},
		})
		return
	}

	if err := sc.assignments.Delete(uint(id)); err != nil {
		if services.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ASSIGNMENT_NOT_FOUND",
					"message": err.Error(),
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORE_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	if _, err := sc.calendar.Refetch(); err != nil {
		log.Printf("schedule: refetch after delete failed: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// applyFilterParams updates the view's filters from query parameters.
// Absent parameters leave their dimension untouched; "none" clears the
// order filter.
func (sc *ScheduleController) applyFilterParams(c *gin.Context) {
	if orderParam := c.Query("order_id"); orderParam != "" {
		if orderParam == "none" {
			sc.view.Filters.OrderID = nil
		} else if orderID, err := strconv.ParseUint(orderParam, 10, 32); err == nil {
			id := uint(orderID)
			sc.view.Filters.OrderID = &id
		}
	}

	if employeesParam, ok := c.GetQuery("employees"); ok {
		sc.view.Filters.Employees = splitParam(employeesParam)
	}

	if statusesParam, ok := c.GetQuery("statuses"); ok {
		statuses := []models.StageStatus{}
		for _, s := range splitParam(statusesParam) {
			statuses = append(statuses, models.StageStatus(s))
		}
		sc.view.Filters.Statuses = statuses
	}
}

func splitParam(param string) []string {
	out := []string{}
	for _, part := range strings.Split(param, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
