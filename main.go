package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"therapia/config"
	"therapia/cron"
	"therapia/database"
	appointmentRepo "therapia/database/repository/appointment"
	therapistRepo "therapia/database/repository/therapist"
	"therapia/handlers"
	"therapia/routes"
	ai "therapia/services/intelligence"
	"therapia/services/matching"
	"therapia/services/notification"
	"therapia/services/scheduling"
	"therapia/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	therapists := therapistRepo.NewMongoTherapistRepo()
	appointments := appointmentRepo.NewMongoAppointmentRepo()

	indexCtx, indexCancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := therapists.EnsureIndexes(indexCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure therapist indexes: %v", err)
	}
	if err := appointments.EnsureIndexes(indexCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure appointment indexes: %v", err)
	}
	indexCancel()

	// Explanation provider: Gemini when a key is configured, with a local
	// fallback so an outage never breaks matching.
	var explainer ai.ExplanationProvider = ai.LocalExplainer{}
	if config.AppConfig.GeminiAPIKey != "" {
		gemini, err := ai.NewGeminiExplainer(context.Background(), config.AppConfig.GeminiAPIKey)
		if err != nil {
			logger.Sugar().Warnf("main: gemini unavailable, using local explanations: %v", err)
		} else {
			explainer = ai.Chained{Primary: gemini, Fallback: ai.LocalExplainer{}}
		}
	}

	// services.
	matchService := &matching.DefaultMatchService{
		TherapistRepo: therapists,
		Ranker: &matching.Ranker{
			Explainer:      explainer,
			TopK:           config.AppConfig.MatchTopK,
			ExplainTimeout: time.Duration(config.AppConfig.ExplainTimeoutSeconds) * time.Second,
		},
		CacheClient: utils.GetCacheClient(),
	}
	handlers.SetMatchService(matchService)

	holdTTL := time.Duration(config.AppConfig.HoldTTLMinutes) * time.Minute
	availabilityMgr := scheduling.NewRedisAvailabilityManager(utils.GetHoldsClient(), holdTTL)

	reminderClient := cron.NewReminderClient()
	defer reminderClient.Close()

	scheduler := &scheduling.DefaultScheduler{
		Availability: availabilityMgr,
		Appointments: appointments,
		Reminders:    reminderClient,
		ReminderLead: time.Duration(config.AppConfig.ReminderLeadHours) * time.Hour,
	}
	handlers.SetSchedulingServices(scheduler, availabilityMgr, therapists, appointments)

	cron.InitReminderWorker(notification.LogNotifier{})

	// Register routes.
	routes.RegisterRoutes(router)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
