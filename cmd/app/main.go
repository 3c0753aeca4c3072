package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"dispatch/cmd"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/rulerepo"
	"dispatch/internal/adapters/out/postgres/zonerepo"
	"dispatch/internal/core/domain/model/rule"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	configs, err := getConfigs()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	gormDB, err := openDatabase(configs)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	rules, err := seedRules(context.Background(), gormDB, configs.DispatchRules)
	if err != nil {
		logger.Error("failed to seed dispatch rules", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     configs.RedisAddr,
		Password: configs.RedisPassword,
	})

	root := cmd.NewCompositionRoot(configs, gormDB, redisClient, rules, logger)

	// Resume movement tasks for orders that were shipping when the previous
	// process stopped; the periodic job covers later stragglers.
	if err = root.Reconciler().Reconcile(context.Background()); err != nil {
		logger.Error("startup reconciliation failed", "error", err)
	}

	jobManager := root.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		logger.Error("failed to start jobs", "error", err)
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	root.CreateHTTPServer().RegisterRoutes(e)
	root.CreateWSHandler().RegisterRoutes(e)

	go func() {
		if startErr := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); startErr != nil &&
			startErr != http.ErrServerClosed {
			logger.Error("http server stopped", "error", startErr)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	// Shutdown order: stop scheduling new work, stop movement tasks, then
	// drain the HTTP server.
	jobManager.StopAll()
	root.Tracker().Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err = db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&zonerepo.ZoneDTO{},
		&rulerepo.RuleDTO{},
	); err != nil {
		return nil, err
	}

	return db, nil
}

// seedRules upserts the configured rule set and reads it back into the
// in-memory table every handler shares.
func seedRules(ctx context.Context, db *gorm.DB, spec string) (*rule.Table, error) {
	seed, err := parseRules(spec)
	if err != nil {
		return nil, err
	}

	repo := rulerepo.NewGormRuleRepository(db)
	if err = repo.Seed(ctx, seed); err != nil {
		return nil, err
	}

	rules, err := repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	return rule.NewTable(rules)
}

// parseRules decodes "id:cadence" pairs, e.g. "101:3s,102:2s".
func parseRules(spec string) ([]rule.DispatchRule, error) {
	pairs := strings.Split(spec, ",")
	rules := make([]rule.DispatchRule, 0, len(pairs))

	for _, pair := range pairs {
		id, cadence, found := strings.Cut(strings.TrimSpace(pair), ":")
		if !found {
			return nil, fmt.Errorf("invalid rule %q: want id:cadence", pair)
		}

		ruleID, err := strconv.Atoi(id)
		if err != nil {
			return nil, fmt.Errorf("invalid rule id %q: %w", id, err)
		}

		interval, err := time.ParseDuration(cadence)
		if err != nil {
			return nil, fmt.Errorf("invalid rule cadence %q: %w", cadence, err)
		}

		r, err := rule.NewDispatchRule(ruleID, interval)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}

	return rules, nil
}

func getConfigs() (cmd.Config, error) {
	// Missing .env is fine in containerized runs; the environment wins.
	_ = godotenv.Load(".env")

	cacheTTL, err := envDuration("ANOMALY_CACHE_TTL", 24*time.Hour)
	if err != nil {
		return cmd.Config{}, err
	}

	arrival, err := envFloat("ARRIVAL_THRESHOLD_METERS", 50)
	if err != nil {
		return cmd.Config{}, err
	}

	maxPending, err := envDuration("MAX_PENDING_AGE", 30*time.Minute)
	if err != nil {
		return cmd.Config{}, err
	}

	maxShipping, err := envDuration("MAX_SHIPPING_AGE", 2*time.Hour)
	if err != nil {
		return cmd.Config{}, err
	}

	maxGap, err := envDuration("MAX_POSITION_GAP", 5*time.Minute)
	if err != nil {
		return cmd.Config{}, err
	}

	maxDeviation, err := envFloat("MAX_ROUTE_DEVIATION_METERS", 500)
	if err != nil {
		return cmd.Config{}, err
	}

	reorderLimit, err := envInt("WS_REORDER_LIMIT", 16)
	if err != nil {
		return cmd.Config{}, err
	}

	return cmd.Config{
		HTTPPort:                envString("HTTP_PORT", "8080"),
		DBHost:                  envString("DB_HOST", "localhost"),
		DBPort:                  envString("DB_PORT", "5432"),
		DBUser:                  envString("DB_USER", "postgres"),
		DBPassword:              envString("DB_PASSWORD", "postgres"),
		DBName:                  envString("DB_NAME", "dispatch"),
		DBSslMode:               envString("DB_SSLMODE", "disable"),
		RedisAddr:               envString("REDIS_ADDR", "localhost:6379"),
		RedisPassword:           envString("REDIS_PASSWORD", ""),
		AnomalyCacheTTL:         cacheTTL,
		DispatchRules:           envString("DISPATCH_RULES", "101:3s,102:2s,103:1s"),
		ArrivalThresholdMeters:  arrival,
		MaxPendingAge:           maxPending,
		MaxShippingAge:          maxShipping,
		MaxPositionGap:          maxGap,
		MaxRouteDeviationMeters: maxDeviation,
		SweepSchedule:           envString("SWEEP_SCHEDULE", "0 * * * * *"),
		ReconcileSchedule:       envString("RECONCILE_SCHEDULE", "*/30 * * * * *"),
		WSReorderLimit:          reorderLimit,
	}, nil
}

func envString(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func envInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
