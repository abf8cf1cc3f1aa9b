package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go/v7"

	"blockevent/config"
	"blockevent/handlers"
	_ "blockevent/migrations"
	"blockevent/security"
	"blockevent/services"
	"blockevent/services/payout"
	"blockevent/utils"
)

func main() {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg.RedisURL)
	defer redisClient.Close()

	// Initialize PubNub
	pnConfig := pubnub.NewConfigWithUserId(pubnub.UserId("blockevent-ledger"))
	pnConfig.PublishKey = cfg.PubNubPublishKey
	pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
	pnConfig.SecretKey = cfg.PubNubSecretKey

	pn := pubnub.NewPubNub(pnConfig)

	// Initialize payout gateway
	var gateway payout.Gateway
	if cfg.PayoutBaseURL != "" {
		gateway = payout.NewClient(cfg.PayoutBaseURL, cfg.PayoutHMACKey)
	} else {
		slog.Warn("PAYOUT_BASE_URL not set, transfers are log-only")
		gateway = &payout.LogGateway{Logger: slog.Default()}
	}

	// Initialize services
	ledgerService, err := services.NewLedgerService(app, redisClient, pn, gateway, cfg)
	if err != nil {
		log.Fatal(err)
	}

	// Initialize handlers
	eventHandler := handlers.NewEventHandler(app, ledgerService)
	ticketHandler := handlers.NewTicketHandler(app, ledgerService)
	settlementHandler := handlers.NewSettlementHandler(app, ledgerService)
	attendanceHandler := handlers.NewAttendanceHandler(app, ledgerService)
	governanceHandler := handlers.NewGovernanceHandler(app, ledgerService)

	limiter := security.NewRateLimiter(redisClient, cfg.RateLimitWindow, int64(cfg.RateLimitRequests))

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: cfg.IsDevelopment(),
	})

	// Create context for background tasks
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start record pipeline
	go ledgerService.ProcessRecords(ctx)

	// Setup graceful shutdown
	go handleShutdown(cancel, gateway)

	// Register routes
	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		// Event endpoints
		e.Router.POST("/api/events", eventHandler.CreateEvent)
		e.Router.POST("/api/events/{eventId}/cancel", eventHandler.CancelEvent)
		e.Router.GET("/api/events/{eventId}", eventHandler.GetEvent)

		// Ticket tier endpoints
		e.Router.POST("/api/tiers", ticketHandler.CreateTicketType)
		e.Router.GET("/api/tiers/{tierId}", ticketHandler.GetTicketType)
		e.Router.POST("/api/tiers/resale-price", ticketHandler.SetResalePrice)
		e.Router.POST("/api/tickets/transfer", ticketHandler.Transfer)
		e.Router.POST("/api/tickets/approval", ticketHandler.SetApproval)
		e.Router.GET("/api/tickets/{assetId}/balance/{holder}", ticketHandler.GetBalance)

		// Settlement endpoints
		e.Router.POST("/api/tickets/buy", limiter.AntiBot(limiter.Limit(settlementHandler.BuyTickets)))
		e.Router.POST("/api/events/{eventId}/withdraw", settlementHandler.WithdrawFunds)

		// Attendance endpoints
		e.Router.POST("/api/tickets/validate", attendanceHandler.ValidateTicket)
		e.Router.POST("/api/certificates", attendanceHandler.MintCertificate)
		e.Router.GET("/api/tickets/{tierId}/usage/{holder}", attendanceHandler.GetUsage)

		// Governance endpoints
		e.Router.POST("/api/votes", limiter.Limit(governanceHandler.Vote))
		e.Router.GET("/api/votes/{eventId}/{holder}", governanceHandler.GetVote)
		e.Router.POST("/api/tokens/burn-inactive", governanceHandler.BurnInactive)
		e.Router.GET("/api/tokens/balance/{holder}", governanceHandler.GetRewardBalance)
		e.Router.GET("/api/tokens/supply", governanceHandler.GetTokenSupply)
		e.Router.GET("/api/tokens/discount", governanceHandler.GetDiscount)

		// Health check
		e.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(503, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(200, map[string]string{"status": "healthy"})
		})

		log.Println("Server routes registered")

		return e.Next()
	})

	// Prometheus scrape endpoint on its own port
	if cfg.EnableMetrics {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(":"+cfg.MetricsPort, mux); err != nil {
				slog.Error("metrics server stopped", "error", err)
			}
		}()
	}

	// Start server
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc, gateway payout.Gateway) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")

	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := gateway.Close(shutdownCtx); err != nil {
		slog.Error("payout gateway close", "error", err)
	}

	cancel()
}
