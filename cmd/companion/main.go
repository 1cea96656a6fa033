// Gray Logic Companion - automation summary service
//
// The companion keeps a catalog of node configs and a store of automation
// records, and renders each automation into the one-line event and action
// summaries shown in the Gray Logic apps. Summaries are served over HTTP and
// published as retained MQTT messages.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nerrad567/gray-logic-companion/internal/api"
	"github.com/nerrad567/gray-logic-companion/internal/automation"
	"github.com/nerrad567/gray-logic-companion/internal/catalog"
	"github.com/nerrad567/gray-logic-companion/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-companion/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-companion/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-companion/internal/infrastructure/metrics"
	"github.com/nerrad567/gray-logic-companion/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-companion/migrations"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// healthCheckTimeout bounds the startup health check.
const healthCheckTimeout = 5 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// It returns nil on clean shutdown.
func run(ctx context.Context) error { //nolint:gocognit,gocyclo // startup sequence: each step wires one component
	log := logging.Default()
	log.Info("starting Gray Logic Companion",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Database
	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx, migrations.Source); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Stores
	catalogRegistry := catalog.NewRegistry(catalog.NewSQLiteRepository(db.DB))
	catalogRegistry.SetLogger(log)
	if refreshErr := catalogRegistry.RefreshCache(ctx); refreshErr != nil {
		return fmt.Errorf("loading catalog: %w", refreshErr)
	}

	automationRegistry := automation.NewRegistry(automation.NewSQLiteRepository(db.DB))
	automationRegistry.SetLogger(log)
	if refreshErr := automationRegistry.RefreshCache(ctx); refreshErr != nil {
		return fmt.Errorf("loading automations: %w", refreshErr)
	}
	log.Info("stores initialised",
		"nodes", catalogRegistry.NodeCount(),
		"automations", automationRegistry.Count(),
	)

	// Metrics (optional)
	var metricsRegistry *metrics.Registry
	var observer automation.Observer
	if cfg.Metrics.Enabled {
		metricsRegistry = metrics.NewRegistry()
		observer = metricsRegistry
	}

	// MQTT (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(disconnectErr error) {
			log.Warn("MQTT disconnected", "error", disconnectErr)
		})
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
	} else {
		log.Info("MQTT disabled")
	}

	summariserCfg := automation.SummariserConfig{
		Automations: automationRegistry,
		Catalog:     catalogRegistry,
		QoS:         byte(cfg.MQTT.QoS),
		Publish:     cfg.Summary.Publish,
		Observer:    observer,
		Logger:      log,
	}
	if mqttClient != nil {
		summariserCfg.MQTT = mqttClient
	}
	summariser := automation.NewSummariser(summariserCfg)

	if mqttClient != nil {
		if startErr := summariser.Start(ctx); startErr != nil {
			return fmt.Errorf("starting summariser: %w", startErr)
		}
		if cfg.Summary.Publish && cfg.Summary.RepublishOnStart {
			if pubErr := summariser.PublishAll(ctx); pubErr != nil {
				log.Warn("initial summary publish incomplete", "error", pubErr)
			}
		}
	}

	if hcErr := healthCheck(ctx, db, mqttClient); hcErr != nil {
		return fmt.Errorf("health check: %w", hcErr)
	}

	// HTTP API
	deps := api.Deps{
		Config:      cfg.API,
		Metrics:     cfg.Metrics,
		Logger:      log,
		Catalog:     catalogRegistry,
		Automations: automationRegistry,
		Summariser:  summariser,
		Registry:    metricsRegistry,
		Database:    db,
		Version:     version,
	}
	if mqttClient != nil {
		deps.MQTT = mqttClient
	}
	server, err := api.New(deps)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("Gray Logic Companion started",
		"site", cfg.Site.ID,
		"api", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
	)

	<-ctx.Done()
	log.Info("shutdown signal received")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses GRAYLOGIC_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("GRAYLOGIC_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies the infrastructure connections are healthy.
// mqttClient may be nil when MQTT is disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	var errs []error
	if err := db.HealthCheck(ctx); err != nil {
		errs = append(errs, fmt.Errorf("database: %w", err))
	}
	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			errs = append(errs, fmt.Errorf("mqtt: %w", err))
		}
	}
	return errors.Join(errs...)
}
