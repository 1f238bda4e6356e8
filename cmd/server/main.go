package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	httpapi "shg-backend/internal/api/http"
	"shg-backend/internal/chain"
	"shg-backend/internal/config"
	"shg-backend/internal/logger"
	"shg-backend/internal/repository/postgres"
	"shg-backend/internal/security"
	"shg-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting SHG Trust & Loan Engine...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Chain configuration", "relayer_url", cfg.Chain.RelayerURL)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Redis (OTP store and payment locks)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize chain ledger relayer
	ledger := chain.NewRelayerClient(cfg.Chain.RelayerURL, time.Duration(cfg.Chain.TimeoutSeconds)*time.Second)

	// Initialize Email Service
	emailSvc := service.NewEmailService(
		cfg.SMTP.Host,
		fmt.Sprintf("%d", cfg.SMTP.Port),
		cfg.SMTP.User,
		cfg.SMTP.Password,
		cfg.SMTP.From,
	)

	// Initialize Services
	trustSvc := service.NewTrustService(
		store.MemberRepository,
		store.RoundRepository,
		store.MeetingRepository,
		store.LoanRepository,
		store.SnapshotRepository,
	)
	memberSvc := service.NewMemberService(
		store.MemberRepository,
		store.GroupRepository,
		store.RoundRepository,
		trustSvc,
		cfg.Loan.BaseCap,
	)
	roundSvc := service.NewRoundService(
		store.RoundRepository,
		store.MemberRepository,
		store.GroupRepository,
		trustSvc,
		ledger,
	)
	meetingSvc := service.NewMeetingService(
		store.MeetingRepository,
		store.MemberRepository,
		trustSvc,
	)
	loanSvc := service.NewLoanService(
		store.LoanRepository,
		store.MemberRepository,
		store.GroupRepository,
		store.RoundRepository,
		store.NotificationRepository,
		trustSvc,
		emailSvc,
		ledger,
		redisClient,
		time.Duration(cfg.Loan.PayLockSeconds)*time.Second,
		cfg.Loan.BaseCap,
	)
	reportSvc := service.NewReportService(
		store.LoanRepository,
		store.RoundRepository,
		store.MemberRepository,
	)
	ledgerSvc := service.NewLedgerService(ledger)
	noteSvc := service.NewNotificationService(store.NotificationRepository)
	smsSender := service.NewSMSGateway(cfg.OTP.GatewayURL, 10*time.Second)
	otpSvc := service.NewOTPService(
		redisClient,
		smsSender,
		time.Duration(cfg.OTP.CodeTTLSeconds)*time.Second,
		time.Duration(cfg.OTP.VerifiedTTLSeconds)*time.Second,
	)

	// Set up HTTP server
	router := httpapi.NewRouter(httpapi.RouterDeps{
		Tokens:        tokenManager,
		Members:       memberSvc,
		Rounds:        roundSvc,
		Meetings:      meetingSvc,
		Loans:         loanSvc,
		Reports:       reportSvc,
		Trust:         trustSvc,
		Ledger:        ledgerSvc,
		Notifications: noteSvc,
		OTP:           otpSvc,
	})

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("Server terminated", "error", err)
		log.Fatalf("Server terminated: %v", err)
	}
}
