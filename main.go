package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/almasria/workshop-scheduler/config"
	"github.com/almasria/workshop-scheduler/controllers"
	"github.com/almasria/workshop-scheduler/middleware"
	"github.com/almasria/workshop-scheduler/models"
	"github.com/almasria/workshop-scheduler/services"
)

func main() {
	log.Println("Starting Workshop Scheduler API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.Order{},
		&models.OrderDetail{},
		&models.OrderStage{},
		&models.Assignment{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Service wiring. Order matters: the assignment service reaches the
	// stage status service through its singleton.
	services.InitStageStatusService(db)
	assignments := services.InitAssignmentService(db)
	reconcile := services.InitReconcileService(assignments)
	calendar := services.InitCalendarService(db, assignments)

	s3Service, err := services.InitS3Service()
	if err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}
	services.InitPhotoService(s3Service)

	scheduleController := controllers.NewScheduleController(
		calendar, reconcile, assignments, models.DefaultRoster,
	)

	router := gin.Default()
	router.Use(cors.Default())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)
	}

	authed := v1.Group("")
	authed.Use(middleware.EnsureValidToken(cfg))
	{
		orders := authed.Group("/orders")
		orders.Use(middleware.RequireScope(middleware.ScopeManageOrders))
		{
			orders.POST("", controllers.CreateWorkOrder)
			orders.GET("", controllers.ListWorkingOrders)
			orders.GET("/:id", controllers.GetOrder)
			orders.POST("/:id/details/:detailID/photos", controllers.AttachPhoto)
			orders.GET("/:id/details/:detailID/photos", controllers.ListPhotos)
			orders.DELETE("/:id/details/:detailID/photos", controllers.DetachPhoto)
		}

		schedule := authed.Group("/schedule")
		{
			schedule.GET("", middleware.RequireScope(middleware.ScopeViewSchedule), scheduleController.GetWeek)
			schedule.GET("/cell", middleware.RequireScope(middleware.ScopeViewSchedule), scheduleController.GetCell)
			schedule.POST("/assignments", middleware.RequireScope(middleware.ScopeManageSchedule), scheduleController.SubmitAssignments)
			schedule.DELETE("/assignments/:id", middleware.RequireScope(middleware.ScopeManageSchedule), scheduleController.DeleteAssignment)
		}
	}

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Workshop Scheduler API is running",
	})
}

// databaseStatus checks database connectivity
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
	})
}
