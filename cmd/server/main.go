// Command server exposes stored seat-allocation results over HTTP and
// lets operators trigger recomputation for a year.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/ahrav/go-mandate/infrastructure/httpapi"
	"github.com/ahrav/go-mandate/infrastructure/memstore"
	"github.com/ahrav/go-mandate/infrastructure/middleware"
	"github.com/ahrav/go-mandate/infrastructure/postgres"
	"github.com/ahrav/go-mandate/internal/allocation"
	"github.com/ahrav/go-mandate/internal/logging"
	"github.com/ahrav/go-mandate/internal/ports"
)

func main() {
	loadConfiguration()
	logging.Bootstrap(viper.GetBool("log.verbose"))
	log := logging.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	votes, results, cleanup, err := buildStores(ctx)
	if err != nil {
		log.Fatalf("initializing stores: %v", err)
	}
	defer cleanup()

	cfg := allocation.DefaultConfig()
	if path := viper.GetString("allocation.config"); path != "" {
		if cfg, err = allocation.LoadConfig(path); err != nil {
			log.Fatalf("loading allocation config: %v", err)
		}
	}

	engine, err := allocation.NewEngine(votes, cfg,
		allocation.WithLogger(log),
		allocation.WithMetrics(middleware.NewPrometheusMetrics(nil)))
	if err != nil {
		log.Fatalf("initializing engine: %v", err)
	}

	router := httpapi.NewRouter(
		viper.GetString("gin.mode"),
		viper.GetFloat64("ratelimit.rps"),
		viper.GetInt("ratelimit.burst"),
	)
	controller := httpapi.NewResultsController(results, engine)
	controller.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              viper.GetString("server.address"),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("graceful shutdown: %v", err)
	}
}

// loadConfiguration reads config.yaml from the working directory when
// present and lets environment variables override individual keys.
func loadConfiguration() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("mandate")
	viper.AutomaticEnv()

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("gin.mode", "release")
	viper.SetDefault("ratelimit.rps", 25.0)
	viper.SetDefault("ratelimit.burst", 50)
	viper.SetDefault("store.backend", "postgres")
	viper.SetDefault("postgres.host", "localhost")
	viper.SetDefault("postgres.port", 5432)
	viper.SetDefault("postgres.user", "mandate")
	viper.SetDefault("postgres.database", "mandate")
	viper.SetDefault("postgres.pool_size", 8)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			logging.Bootstrap(false)
			logging.Log.Fatalf("reading config file: %v", err)
		}
	}
}

func buildStores(ctx context.Context) (ports.VoteStore, ports.ResultStore, func(), error) {
	if viper.GetString("store.backend") == "memory" {
		store := memstore.New()
		return store, store, func() {}, nil
	}

	pgCfg := postgres.Config{
		Host:     viper.GetString("postgres.host"),
		Port:     viper.GetInt("postgres.port"),
		User:     viper.GetString("postgres.user"),
		Password: viper.GetString("postgres.password"),
		Database: viper.GetString("postgres.database"),
		PoolSize: viper.GetInt("postgres.pool_size"),
	}
	store, err := postgres.New(ctx, pgCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, nil, nil, err
	}
	return store, store, store.Close, nil
}
