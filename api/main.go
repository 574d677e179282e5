package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rogerio-castellano/kitchen-stock/internal/auth"
	"github.com/rogerio-castellano/kitchen-stock/internal/config"
	"github.com/rogerio-castellano/kitchen-stock/internal/db"
	api "github.com/rogerio-castellano/kitchen-stock/internal/http"
	"github.com/rogerio-castellano/kitchen-stock/internal/http/handlers"
	rl "github.com/rogerio-castellano/kitchen-stock/internal/http/rate_limiter"
	"github.com/rogerio-castellano/kitchen-stock/internal/jobs"
	"github.com/rogerio-castellano/kitchen-stock/internal/kitchen"
	"github.com/rogerio-castellano/kitchen-stock/internal/logger"
	"github.com/rogerio-castellano/kitchen-stock/internal/models"
	"github.com/rogerio-castellano/kitchen-stock/internal/notify"
	"github.com/rogerio-castellano/kitchen-stock/internal/redissvc"
	"github.com/rogerio-castellano/kitchen-stock/internal/repo"
)

type stores struct {
	products    repo.ProductRepository
	movements   repo.MovementRepository
	adjustments repo.AdjustmentStore
	metrics     repo.MetricsRepository
	users       repo.UserRepository
	recipes     repo.RecipeCatalog
	servings    repo.ServingRepository
	allergens   repo.AllergenRepository
	suppliers   repo.SupplierRepository
	tx          repo.Transactor
}

func postgresStores(database *sql.DB) stores {
	return stores{
		products:    repo.NewPostgresProductRepository(database),
		movements:   repo.NewPostgresMovementRepository(database),
		adjustments: repo.NewPostgresAdjustmentStore(database),
		metrics:     repo.NewPostgresMetricsRepository(database),
		users:       repo.NewPostgresUserRepository(database),
		recipes:     repo.NewPostgresRecipeCatalog(database),
		servings:    repo.NewPostgresServingRepository(database),
		allergens:   repo.NewPostgresAllergenRepository(database),
		suppliers:   repo.NewPostgresSupplierRepository(database),
		tx:          repo.NewPostgresTransactor(database),
	}
}

func memoryStores() stores {
	products := repo.NewInMemoryProductRepository()
	recipes := repo.NewInMemoryRecipeCatalog(products)
	servings := repo.NewInMemoryServingRepository()
	metrics := repo.NewInMemoryMetricsRepository()
	metrics.SetRepositories(products, recipes, servings)
	movements := repo.NewInMemoryMovementRepository()
	return stores{
		products:    products,
		movements:   movements,
		adjustments: repo.NewInMemoryAdjustmentStore(products, movements),
		metrics:     metrics,
		users:       repo.NewInMemoryUserRepository(),
		recipes:     recipes,
		servings:    servings,
		allergens:   repo.NewInMemoryAllergenRepository(products),
		suppliers:   repo.NewInMemorySupplierRepository(),
		tx:          repo.NewInMemoryTransactor(products, servings, recipes),
	}
}

func bootstrapAdmin(ctx context.Context, users repo.UserRepository, password string) error {
	if password == "" {
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = users.CreateUser(ctx, models.User{Username: "admin", PasswordHash: hash, Role: models.RoleAdmin})
	if errors.Is(err, repo.ErrDuplicatedValueUnique) {
		return nil
	}
	return err
}

// @title Kitchen Stock API
// @version 1.0
// @description Stock ledger, recipes and atomic meal servings for a kindergarten kitchen.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to the configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.Init(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st stores
	if cfg.Database.URL == "" {
		zap.L().Warn("database.url not set, using in-memory storage")
		st = memoryStores()
	} else {
		database, err := db.Connect(cfg.Database.URL, db.Options{MaxOpenConns: cfg.Database.MaxOpenConns})
		if err != nil {
			return err
		}
		defer database.Close()
		if cfg.Database.Migrate {
			if err := db.Migrate(ctx, database); err != nil {
				return err
			}
		}
		st = postgresStores(database)
	}

	if err := bootstrapAdmin(ctx, st.users, cfg.Auth.AdminPassword); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	// Local fan-out: everything published lands on the bus, and the hub is
	// one of its subscribers.
	bus := notify.NewBus()
	defer bus.Wait()

	estimator := kitchen.NewEstimator(st.recipes, st.products)
	hub, err := notify.NewHub(cfg.Notify.Workers, func(ctx context.Context, mealID int) (int, error) {
		est, err := estimator.Estimate(ctx, mealID)
		return est.MaxPortions, err
	})
	if err != nil {
		return fmt.Errorf("failed to create websocket hub: %w", err)
	}
	defer hub.Close()

	unsubscribe, err := bus.Subscribe(hub.Publish)
	if err != nil {
		return err
	}
	defer unsubscribe()

	g, gctx := errgroup.WithContext(ctx)

	var publisher notify.Publisher = bus
	if cfg.Redis.Enabled {
		rs, err := redissvc.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Channel)
		if err != nil {
			return err
		}
		defer rs.Close()

		origin := uuid.NewString()
		redisPub := notify.NewRedisPublisher(rs.Rdb(), rs.Channel(), origin, cfg.Notify.Buffer)
		relay := notify.NewRedisRelay(rs.Rdb(), rs.Channel(), origin, bus)
		publisher = notify.Multi{bus, redisPub}

		g.Go(func() error { return redisPub.Run(gctx) })
		g.Go(func() error { return relay.Run(gctx) })
		zap.L().Info("redis event relay enabled", zap.String("channel", rs.Channel()), zap.String("origin", origin))
	}

	coordinator := kitchen.NewCoordinator(st.recipes, st.tx, publisher,
		kitchen.WithMaxRetries(cfg.Serving.MaxRetries))
	adjuster := kitchen.NewStockAdjuster(st.adjustments, st.suppliers, publisher)

	limiter := rl.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	scheduler, err := jobs.New(cfg.Jobs.LowStockSweep, st.products, publisher, limiter)
	if err != nil {
		return err
	}
	scheduler.Start()

	handlers.SetProductRepo(st.products)
	handlers.SetMovementRepo(st.movements)
	handlers.SetMetricsRepo(st.metrics)
	handlers.SetUserRepo(st.users)
	handlers.SetRecipeCatalog(st.recipes)
	handlers.SetServingRepo(st.servings)
	handlers.SetAllergenRepo(st.allergens)
	handlers.SetSupplierRepo(st.suppliers)
	handlers.SetAllergenView(kitchen.NewAllergenView(st.recipes, st.allergens))
	handlers.SetKitchen(estimator, coordinator, adjuster)
	handlers.SetHub(hub)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	handlers.SetTokenManager(tokens)
	api.SetTokenManager(tokens)
	api.SetRateLimiter(limiter)

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: api.NewRouter(),
	}

	g.Go(func() error {
		zap.L().Info("server running", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		scheduler.Stop(shutdownCtx)
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
