package cmd

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"campus-events/config"
	"campus-events/handlers"
	"campus-events/monitoring"
	"campus-events/security"
	"campus-events/services"
	"campus-events/utils"

	_ "campus-events/migrations"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go/v7"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg.RedisURL)
	defer redisClient.Close()

	// Initialize PubNub (optional; realtime pushes are skipped without keys)
	var pn *pubnub.PubNub
	if cfg.PubNubPublishKey != "" && cfg.PubNubSubscribeKey != "" {
		pnCfg := pubnub.NewConfigWithUserId(pubnub.UserId(cfg.PubNubUserID))
		pnCfg.PublishKey = cfg.PubNubPublishKey
		pnCfg.SubscribeKey = cfg.PubNubSubscribeKey
		pnCfg.SecretKey = cfg.PubNubSecretKey
		pn = pubnub.NewPubNub(pnCfg)
	}

	// Initialize services
	notifyService := services.NewNotifyService(app, pn)
	inventoryService := services.NewInventoryService(app, notifyService, cfg.TicketSecret)
	approvalService := services.NewApprovalService(app, notifyService)
	statsService := services.NewStatsService(app, redisClient, cfg)
	feedbackService := services.NewFeedbackService(app)

	// Initialize handlers
	eventHandler := handlers.NewEventHandler(approvalService)
	ticketHandler := handlers.NewTicketHandler(inventoryService)
	adminHandler := handlers.NewAdminHandler(approvalService)
	statsHandler := handlers.NewStatsHandler(statsService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)

	limiter := security.NewRateLimiter(redisClient, cfg.BookingRateLimit, cfg.BookingRateWindow)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	go handleShutdown(cancel)

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		monitoring.NewMonitor(ctx, app)

		if cfg.EnableMetrics {
			go serveMetrics(cfg.MetricsPort)
		}

		g := se.Router.Group("/api/v1")
		g.Bind(apis.RequireAuth())
		g.BindFunc(security.AntiBotMiddleware())

		// Event endpoints (organizer)
		g.POST("/events", eventHandler.CreateEvent)
		g.PATCH("/events/{id}", eventHandler.UpdateEvent)
		g.GET("/events", eventHandler.ListOwnEvents)
		g.GET("/events/pending", eventHandler.ListOwnPending)
		g.GET("/events/approved", eventHandler.ListOwnApproved)
		g.GET("/events/browse", eventHandler.BrowseEvents)
		g.GET("/events/{id}", eventHandler.GetEvent)

		// Organizer statistics
		g.GET("/stats/approved-trailing", statsHandler.ApprovedTrailing)
		g.GET("/stats/approved-leading", statsHandler.ApprovedLeading)
		g.GET("/stats/attendees", statsHandler.TotalAttendees)
		g.GET("/stats/revenue", statsHandler.TotalRevenue)

		// Ticket endpoints
		g.POST("/tickets", ticketHandler.BookTicket).BindFunc(limiter.Middleware("booking"))
		g.PUT("/tickets/{id}/cancel", ticketHandler.CancelTicket)
		g.GET("/tickets/{id}", ticketHandler.GetTicket)
		g.GET("/my-tickets", ticketHandler.ListMyTickets)

		// Feedback endpoints
		g.POST("/events/{id}/feedback", feedbackHandler.SubmitFeedback)
		g.GET("/events/{id}/feedback", feedbackHandler.ListFeedback)

		// Admin endpoints
		ag := g.Group("/admin")
		ag.BindFunc(handlers.RequireAdmin())
		ag.GET("/events", adminHandler.ListAllEvents)
		ag.PUT("/events/{id}/approve", adminHandler.ApproveEvent)
		ag.PUT("/events/{id}/reject", adminHandler.RejectEvent)

		// Health check
		se.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(503, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}

			var one int
			if err := e.App.DB().NewQuery("SELECT 1").Row(&one); err != nil {
				return e.JSON(503, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}

			return e.JSON(200, map[string]string{"status": "healthy"})
		})

		log.Println("Server routes registered")

		return se.Next()
	})

	return app.Start()
}

func serveMetrics(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Printf("metrics listener stopped: %v", err)
	}
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
	cancel()
}
