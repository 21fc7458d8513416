package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"hullzero/server/core/repository"
	"hullzero/server/core/service"
	"hullzero/server/database"
	"hullzero/server/handler"
	"hullzero/server/utils/clock"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HullZero HTTP server",
	Long:  "Start the API server and, unless disabled, the background fleet monitor.",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	log.Println("Starting HullZero decision support server...")

	// Initialize database
	if err := database.Initialize(cfg.Database.Path); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()
	log.Println("Database initialized successfully")

	// Create repository instances
	db := database.GetDB()
	vesselRepo := repository.NewVesselRepository(db)
	sampleRepo := repository.NewOperationalSampleRepository(db)
	maintRepo := repository.NewMaintenanceRepository(db)
	foulingRepo := repository.NewFoulingEstimateRepository(db)
	conformityRepo := repository.NewConformityRepository(db)
	inspectionRepo := repository.NewInspectionRepository(db)
	recRepo := repository.NewRecommendationRepository(db)
	eventLogRepo := repository.NewEventLogRepository(db)

	// Create service instances
	clk := clock.Real()
	vesselService := service.NewVesselService(vesselRepo, sampleRepo, maintRepo, inspectionRepo, eventLogRepo, clk)
	decisionService, err := service.NewDecisionService(
		vesselRepo, sampleRepo, maintRepo, foulingRepo, conformityRepo,
		inspectionRepo, recRepo, eventLogRepo, cfg.Decision, clk,
	)
	if err != nil {
		log.Fatalf("Failed to build decision service: %v", err)
	}
	exportService := service.NewExportService(vesselService)

	// Create handlers
	streamHandler := handler.NewStreamHandler()
	vesselHandler := handler.NewVesselHandler(vesselService, exportService)
	decisionHandler := handler.NewDecisionHandler(decisionService)
	eventsHandler := handler.NewEventsHandler(vesselService)

	// Start fleet monitor if enabled
	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	if cfg.Monitor.Enabled {
		monitor := service.NewFleetMonitor(decisionService, streamHandler, cfg.Monitor)
		go monitor.Run(monitorCtx)
	}

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
		log.Println("Running in RELEASE mode")
	} else {
		gin.SetMode(gin.DebugMode)
		log.Println("Running in DEBUG mode")
	}

	// Create Gin engine
	engine := gin.New()
	engine.Use(gin.Recovery())
	if cfg.Server.Mode != "release" {
		engine.Use(gin.Logger())
	}

	// Add CORS middleware
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	hullzero := engine.Group("/hullzero")
	{
		hullzero.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "healthy",
				"time":   time.Now(),
			})
		})

		// Fleet endpoints
		fleet := hullzero.Group("/fleet")
		{
			fleet.GET("/summary", decisionHandler.FleetSummary)
			fleet.GET("/stream", streamHandler.Subscribe)
		}

		// Audit trail
		hullzero.GET("/events", eventsHandler.ListEvents)

		// Vessel registration and data ingestion
		vessels := hullzero.Group("/vessels")
		{
			vessels.GET("", vesselHandler.ListVessels)
			vessels.POST("", vesselHandler.CreateVessel)
			vessels.GET("/:id", vesselHandler.GetVessel)
			vessels.PUT("/:id", vesselHandler.UpdateVessel)
			vessels.DELETE("/:id", vesselHandler.DeleteVessel)

			vessels.GET("/:id/samples", vesselHandler.GetSamples)
			vessels.POST("/:id/samples", vesselHandler.RecordSample)
			vessels.POST("/:id/samples/batch", vesselHandler.RecordSampleBatch)

			vessels.GET("/:id/maintenance", vesselHandler.GetMaintenance)
			vessels.POST("/:id/maintenance", vesselHandler.RecordMaintenance)

			vessels.GET("/:id/inspections", vesselHandler.GetInspections)
			vessels.POST("/:id/inspections", vesselHandler.RecordInspection)

			vessels.GET("/:id/export", vesselHandler.ExportHistory)

			// Decision pipeline
			vessels.POST("/:id/fouling/predict", decisionHandler.PredictFouling)
			vessels.GET("/:id/fouling/latest", decisionHandler.GetLatestFouling)
			vessels.GET("/:id/fuel-impact", decisionHandler.EstimateFuelImpact)
			vessels.POST("/:id/conformity/check", decisionHandler.CheckConformity)
			vessels.GET("/:id/conformity/latest", decisionHandler.GetLatestConformity)
			vessels.GET("/:id/risk", decisionHandler.ForecastRisk)
			vessels.POST("/:id/recommendations", decisionHandler.RecommendCleaning)
			vessels.GET("/:id/cleaning-method", decisionHandler.SelectCleaningMethod)
			vessels.GET("/:id/anomalies", decisionHandler.DetectAnomalies)
			vessels.GET("/:id/species-risk", decisionHandler.AssessInvasiveSpecies)
			vessels.POST("/:id/train", decisionHandler.Train)
		}
	}

	// Create HTTP server
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	server := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		log.Printf("HullZero server listening on %s", addr)
		log.Println("API available at: /hullzero")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stopMonitor()

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
	return nil
}
