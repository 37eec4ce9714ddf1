package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/borealpetro/fueldesk-backend/api/controllers"
	"github.com/borealpetro/fueldesk-backend/api/routes"
	"github.com/borealpetro/fueldesk-backend/internal/auth"
	"github.com/borealpetro/fueldesk-backend/internal/bookings"
	"github.com/borealpetro/fueldesk-backend/internal/deliverylogs"
	"github.com/borealpetro/fueldesk-backend/internal/equipment"
	"github.com/borealpetro/fueldesk-backend/internal/invoices"
	"github.com/borealpetro/fueldesk-backend/internal/pricing"
	"github.com/borealpetro/fueldesk-backend/internal/sites"
	"github.com/borealpetro/fueldesk-backend/internal/stats"
	"github.com/borealpetro/fueldesk-backend/internal/tanks"
	"github.com/borealpetro/fueldesk-backend/internal/users"
	"github.com/borealpetro/fueldesk-backend/pkg/auth/session"
	"github.com/borealpetro/fueldesk-backend/pkg/config"
	"github.com/borealpetro/fueldesk-backend/pkg/db"
	"github.com/borealpetro/fueldesk-backend/pkg/logger"
	"github.com/borealpetro/fueldesk-backend/pkg/migrate"
	"github.com/borealpetro/fueldesk-backend/pkg/redis"
	"github.com/borealpetro/fueldesk-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap object storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing object storage", err)
		}
	}()
	invoiceBucket := gcsClient.BucketHandle(cfg.GCS.BucketName)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	userRepo := users.NewRepository(gormDB)
	pricingRepo := pricing.NewRepository(gormDB)
	bookingRepo := bookings.NewRepository(gormDB)
	tankRepo := tanks.NewRepository(gormDB)
	equipmentRepo := equipment.NewRepository(gormDB)
	siteRepo := sites.NewRepository(gormDB)
	logRepo := deliverylogs.NewRepository(gormDB)
	statsRepo := stats.NewRepository(gormDB)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	pricingService, err := pricing.NewService(pricingRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing service", err)
		os.Exit(1)
	}

	bookingsService, err := bookings.NewService(
		bookingRepo,
		userRepo,
		pricingService,
		tankRepo,
		equipmentRepo,
		siteRepo,
		cfg.FeatureFlags.StrictResourceRefs,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create bookings service", err)
		os.Exit(1)
	}

	invoicesService, err := invoices.NewService(bookingRepo, invoiceBucket)
	if err != nil {
		logg.Error(context.Background(), "failed to create invoices service", err)
		os.Exit(1)
	}

	tanksService, err := tanks.NewService(tankRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create tanks service", err)
		os.Exit(1)
	}

	equipmentService, err := equipment.NewService(equipmentRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create equipment service", err)
		os.Exit(1)
	}

	sitesService, err := sites.NewService(siteRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create sites service", err)
		os.Exit(1)
	}

	logsService, err := deliverylogs.NewService(logRepo, bookingRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create delivery log service", err)
		os.Exit(1)
	}

	statsService, err := stats.NewService(statsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create stats service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Deps{
		Config:           cfg,
		Logger:           logg,
		RedisClient:      redisClient,
		IdempotencyStore: redisClient,
		SessionManager:   sessionManager,
		ReadyChecks: []controllers.ReadyCheck{
			{Name: "postgres", Ping: dbClient.Ping},
			{Name: "redis", Ping: redisClient.Ping},
			{Name: "gcs", Ping: gcsClient.Ping},
		},
		AuthService:      authService,
		PricingService:   pricingService,
		BookingsService:  bookingsService,
		InvoicesService:  invoicesService,
		TanksService:     tanksService,
		EquipmentService: equipmentService,
		SitesService:     sitesService,
		LogsService:      logsService,
		StatsService:     statsService,
		UsersService:     usersService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
