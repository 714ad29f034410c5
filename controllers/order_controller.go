package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/almasria/workshop-scheduler/config"
	"github.com/almasria/workshop-scheduler/models"
)

// CreateWorkOrderRequest represents the request body for converting a sale
// order into a work order
type CreateWorkOrderRequest struct {
	Code         string   `json:"code" binding:"required"`
	CustomerName string   `json:"customer_name" binding:"required"`
	Address      string   `json:"address"`
	WorkTypes    []string `json:"work_types"`
	Detail       struct {
		AssignedTo string  `json:"assigned_to"`
		DueDate    *string `json:"due_date"` // YYYY-MM-DD
		Price      string  `json:"price"`
		TotalCost  string  `json:"total_cost"`
		Notes      string  `json:"notes"`
	} `json:"detail" binding:"required"`
}

// CreateWorkOrder handles POST /api/v1/orders - converts a sale order into
// a work order, creating its detail and one stage row per vocabulary entry
func CreateWorkOrder(c *gin.Context) {
	var req CreateWorkOrderRequest
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

	price, err := decimal.NewFromString(defaultAmount(req.Detail.Price))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid price",
			},
		})
		return
	}
	totalCost, err := decimal.NewFromString(defaultAmount(req.Detail.TotalCost))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid total cost",
			},
		})
		return
	}

	var dueDate *time.Time
	if req.Detail.DueDate != nil && *req.Detail.DueDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.Detail.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Invalid due date, expected YYYY-MM-DD",
				},
			})
			return
		}
		dueDate = &parsed
	}

	db := config.GetDB()

	order := models.Order{
		Code:         req.Code,
		CustomerName: req.CustomerName,
		Address:      req.Address,
		Status:       models.OrderStatusWorking,
		WorkTypes:    req.WorkTypes,
		Details: []models.OrderDetail{
			{
				AssignedTo:   req.Detail.AssignedTo,
				DueDate:      dueDate,
				Price:        price,
				TotalCost:    totalCost,
				Notes:        req.Detail.Notes,
				ImageKeys:    []string{},
				ProcessStage: models.StageVocabulary[0],
			},
		},
	}

	if err := db.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create work order",
			},
		})
		return
	}

	// Bulk-create the production pipeline: one stage per vocabulary entry,
	// all starting at not_started. The scheduler never deletes these.
	detailID := order.Details[0].ID
	stages := make([]models.OrderStage, 0, len(models.StageVocabulary))
	for _, name := range models.StageVocabulary {
		stages = append(stages, models.OrderStage{
			OrderDetailID: &detailID,
			StageName:     name,
			Status:        models.StageNotStarted,
		})
	}
	if err := db.Create(&stages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create production stages",
			},
		})
		return
	}

	if err := db.Preload("Details.Stages").First(&order, order.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load work order",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListWorkingOrders handles GET /api/v1/orders - returns the orders the
// scheduler considers, with their nested detail and stage trees
func ListWorkingOrders(c *gin.Context) {
	db := config.GetDB()

	orders := []models.Order{}
	err := db.
		Preload("Details.Stages").
		Where("status = ?", models.OrderStatusWorking).
		Order("id ASC").
		Find(&orders).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetOrder handles GET /api/v1/orders/:id
func GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid order id",
			},
		})
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Preload("Details.Stages").First(&order, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

func defaultAmount(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
