package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vhvplatform/go-clinic-lifecycle/internal/handler"
	"github.com/vhvplatform/go-clinic-lifecycle/internal/lifecycle"
	"github.com/vhvplatform/go-clinic-lifecycle/internal/middleware"
	"github.com/vhvplatform/go-clinic-lifecycle/internal/repository"
	"github.com/vhvplatform/go-clinic-lifecycle/internal/service"
	"github.com/vhvplatform/go-clinic-lifecycle/internal/shared/config"
	"github.com/vhvplatform/go-clinic-lifecycle/internal/shared/logger"
	"github.com/vhvplatform/go-clinic-lifecycle/internal/shared/mongodb"
	"github.com/vhvplatform/go-clinic-lifecycle/internal/shared/rabbitmq"
)

func main() {
	// Initialize logger
	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting Clinic Lifecycle Service...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration", "error", err)
	}

	// Initialize MongoDB
	mongoClient, err := mongodb.NewMongoClient(cfg.MongoDB.URI, cfg.MongoDB.Database)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	defer mongoClient.Disconnect(context.Background())

	// Initialize RabbitMQ. Real-time notification events are best-effort, so
	// a broker that is down does not block startup.
	var events service.EventPublisher
	rabbitMQClient, err := rabbitmq.NewRabbitMQClient(cfg.RabbitMQ.URL)
	if err != nil {
		log.Warn("RabbitMQ unavailable, notification events disabled", "error", err)
	} else {
		defer rabbitMQClient.Close()
		if err := rabbitMQClient.DeclareExchange(service.NotificationsExchange, "topic"); err != nil {
			log.Warn("Failed to declare notifications exchange", "error", err)
		} else {
			events = rabbitMQClient
		}
	}

	// Initialize repositories
	appointmentRepo := repository.NewAppointmentRepository(mongoClient)
	promotionRepo := repository.NewPromotionRepository(mongoClient)
	patientRepo := repository.NewPatientRepository(mongoClient)
	dentistRepo := repository.NewDentistRepository(mongoClient)
	userRepo := repository.NewUserRepository(mongoClient)
	notificationRepo := repository.NewNotificationRepository(mongoClient)

	// Initialize services
	dispatcher := service.NewDispatcher(notificationRepo, events, log)

	emailConfig := service.EmailConfig{
		SMTPHost:     cfg.SMTP.Host,
		SMTPPort:     cfg.SMTP.Port,
		SMTPUsername: cfg.SMTP.Username,
		SMTPPassword: cfg.SMTP.Password,
		FromEmail:    cfg.SMTP.FromEmail,
		FromName:     cfg.SMTP.FromName,
	}
	emailService := service.NewEmailService(emailConfig, log)

	// Initialize lifecycle services
	noShowService := lifecycle.NewNoShowService(
		appointmentRepo, patientRepo, dentistRepo, userRepo, dispatcher,
		time.Duration(cfg.Lifecycle.GraceHours)*time.Hour, log)
	promotionService := lifecycle.NewPromotionService(promotionRepo, userRepo, dispatcher, log)
	reminderService := lifecycle.NewReminderService(appointmentRepo, patientRepo, userRepo, emailService, log)

	runners := make([]*lifecycle.Runner, 0, 3)
	for _, rc := range []struct {
		name     string
		schedule string
		tick     lifecycle.TickFunc
	}{
		{"appointment-noshow", cfg.Lifecycle.NoShowSchedule, noShowService.Tick},
		{"promotion-window", cfg.Lifecycle.PromotionSchedule, promotionService.Tick},
		{"appointment-reminder", cfg.Lifecycle.ReminderSchedule, reminderService.Tick},
	} {
		runner, err := lifecycle.NewRunner(rc.name, rc.schedule, rc.tick, log)
		if err != nil {
			log.Fatal("Failed to create lifecycle runner", "error", err)
		}
		runners = append(runners, runner)
	}

	// Start lifecycle runners
	runCtx, cancelRunners := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	for _, runner := range runners {
		wg.Add(1)
		go func(r *lifecycle.Runner) {
			defer wg.Done()
			r.Run(runCtx)
		}(runner)
	}

	// Initialize HTTP handlers
	notificationHandler := handler.NewNotificationHandler(notificationRepo, log)

	// Initialize rate limiter
	rateLimiter := middleware.NewClientRateLimiter(50, 100)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// Health check endpoints
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes with rate limiting
	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimitMiddleware(rateLimiter))
	{
		notifications := v1.Group("/notifications")
		{
			notifications.GET("", notificationHandler.GetNotifications)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
		}
	}

	// Start HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info("Clinic Lifecycle Service started", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down Clinic Lifecycle Service...")

	// Stop the lifecycle runners first; every tick is idempotent and
	// re-derivable, so no drain is needed beyond cancelling the sleeps.
	cancelRunners()
	wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Clinic Lifecycle Service stopped")
}
