package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"trustlend.backend/internal/config"
	"trustlend.backend/internal/infrastructure/custody"
	"trustlend.backend/internal/infrastructure/jobs"
	"trustlend.backend/internal/infrastructure/repositories"
	"trustlend.backend/internal/interfaces/http/handlers"
	"trustlend.backend/internal/interfaces/http/middleware"
	"trustlend.backend/internal/usecases"
	"trustlend.backend/pkg/jwt"
	"trustlend.backend/pkg/logger"
	"trustlend.backend/pkg/metrics"
	"trustlend.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	newKeyStore = redis.NewKeyStore
	runServer   = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB    = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		logger.Warn(context.Background(), "Database not available, endpoints will return errors", zap.Error(err))
	} else {
		logger.Info(context.Background(), "Connected to PostgreSQL via GORM")
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize repositories
	loanRepo := repositories.NewLoanRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	collateralRepo := repositories.NewCollateralRepository(db)
	platformRepo := repositories.NewPlatformRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Initialize lending policy
	policyStore, err := usecases.NewPolicyStore(cfg.Lending.Policy())
	if err != nil {
		return fmt.Errorf("invalid lending policy configuration: %w", err)
	}

	// Initialize Key Store
	keyStore, err := newKeyStore(cfg.Security.KeyStoreEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize key store: %w", err)
	}

	// Select custody backend
	var custodyBackend usecases.Custody
	if cfg.Custody.Mode == "evm" {
		evmCustody, err := custody.NewEVMCustody(cfg.Custody.RPCURL, cfg.Custody.ContractAddress)
		if err != nil {
			return fmt.Errorf("failed to initialize evm custody: %w", err)
		}
		custodyBackend = evmCustody
		logger.Info(context.Background(), "EVM custody initialized",
			zap.String("contract", cfg.Custody.ContractAddress))
	} else {
		custodyBackend = custody.NewLedgerCustody()
		logger.Info(context.Background(), "In-process ledger custody initialized")
	}

	// The persisted attestation key, if any, wins over the configured one.
	verificationKey := cfg.Attestation.VerificationKey
	if persisted, err := keyStore.LoadVerificationKey(context.Background()); err == nil && persisted != "" {
		verificationKey = persisted
		logger.Info(context.Background(), "Loaded persisted attestation verification key")
	}

	// Initialize usecases
	dispatch := usecases.NewDispatch()
	collector := metrics.NewCollector()
	loanUsecase := usecases.NewLoanUsecase(loanRepo, profileRepo, collateralRepo, platformRepo, eventRepo, uow, policyStore, dispatch, collector)
	collateralUsecase := usecases.NewCollateralUsecase(collateralRepo, eventRepo, uow, custodyBackend, dispatch, collector)
	attestationUsecase := usecases.NewAttestationUsecase(profileRepo, eventRepo, uow, dispatch, collector, verificationKey)

	// Initialize handlers
	loanHandler := handlers.NewLoanHandler(loanUsecase)
	collateralHandler := handlers.NewCollateralHandler(collateralUsecase)
	userHandler := handlers.NewUserHandler(loanUsecase)
	eventHandler := handlers.NewEventHandler(eventRepo)
	attestationHandler := handlers.NewAttestationHandler(attestationUsecase)
	adminHandler := handlers.NewAdminHandler(policyStore, attestationUsecase, keyStore, loanUsecase)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scanJob := jobs.NewOverdueLoanScanJob(loanRepo, loanUsecase, cfg.Attestation.ScanInterval)
	go scanJob.Start(ctx)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerAPIV1Routes(r, routeDeps{
		loanHandler:        loanHandler,
		collateralHandler:  collateralHandler,
		userHandler:        userHandler,
		eventHandler:       eventHandler,
		attestationHandler: attestationHandler,
		adminHandler:       adminHandler,
		authMiddleware:     middleware.AuthMiddleware(jwtService),
		metricsHandler:     collector.Handler(),
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info(context.Background(), "Shutting down server")
		scanJob.Stop()
		cancel()
	}()

	// Start server
	logger.Info(context.Background(), "TrustLend Backend starting",
		zap.String("port", cfg.Server.Port),
		zap.Int("routes", len(r.Routes())))

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
