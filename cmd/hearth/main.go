// Hearth Core - household smart-home controller
//
// This is the entry point for the interactive console. It loads the
// configuration, restores the home from its data file, connects the optional
// MQTT and InfluxDB backends, and hands stdin/stdout to the console.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/nerrad567/hearth-core/migrations"

	"github.com/nerrad567/hearth-core/internal/console"
	"github.com/nerrad567/hearth-core/internal/energy"
	"github.com/nerrad567/hearth-core/internal/home"
	"github.com/nerrad567/hearth-core/internal/infrastructure/config"
	"github.com/nerrad567/hearth-core/internal/infrastructure/database"
	"github.com/nerrad567/hearth-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/hearth-core/internal/infrastructure/logging"
	"github.com/nerrad567/hearth-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/hearth-core/internal/notify"
	"github.com/nerrad567/hearth-core/internal/scheduler"
	"github.com/nerrad567/hearth-core/internal/store"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// consoleTickInterval ticks the scheduler while the console waits for input,
// so a schedule fires even when nobody is typing.
const consoleTickInterval = 15 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdin, os.Stdout); err != nil {
		logging.Default().Error("hearth exited", "error", err)
		os.Exit(1)
	}
}

// run wires the application and blocks in the console until exit.
//
// Parameters:
//   - ctx: Cancelled on shutdown signals
//   - in, out: Console input and output
//
// Returns:
//   - error: Configuration or database startup failures; nil on clean exit
func run(ctx context.Context, in io.Reader, out io.Writer) error {
	configPath := getConfigPath()
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logging.New(cfg.Logging, version)
	log.Info("starting Hearth Core",
		"version", version,
		"commit", commit,
		"build_date", date,
		"config", configPath,
	)

	repo, closeRepo, err := openNotificationLog(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer closeRepo()

	var pub notify.Publisher
	topics := mqtt.NewTopics(cfg.MQTT.TopicPrefix)
	if cfg.MQTT.Enabled {
		mqttClient, connErr := connectMQTT(cfg.MQTT, log)
		if connErr != nil {
			log.Warn("MQTT unavailable, continuing without it", "error", connErr)
		} else {
			defer func() {
				log.Info("disconnecting from MQTT")
				if closeErr := mqttClient.Close(); closeErr != nil {
					log.Error("error closing MQTT", "error", closeErr)
				}
			}()
			if hcErr := mqttClient.HealthCheck(ctx); hcErr != nil {
				log.Warn("MQTT health check failed, publishes wait for reconnect", "error", hcErr)
			}
			pub = mqttClient
			topics = mqttClient.Topics()
		}
	} else {
		log.Info("MQTT disabled")
	}

	monitor := energy.NewMonitor()
	monitor.SetLogger(log.With("component", "energy"))
	if thresholdErr := monitor.SetThreshold(cfg.Energy.ThresholdKWh); thresholdErr != nil {
		return fmt.Errorf("energy threshold: %w", thresholdErr)
	}
	if cfg.InfluxDB.Enabled {
		influxClient, connErr := influxdb.Connect(ctx, influxdb.Options{
			Config: cfg.InfluxDB,
			Home:   cfg.Home.Name,
			Logger: log.With("component", "influxdb"),
		})
		if connErr != nil {
			log.Warn("InfluxDB unavailable, energy metrics stay local", "error", connErr)
		} else {
			defer func() {
				log.Info("closing InfluxDB connection")
				if closeErr := influxClient.Close(); closeErr != nil {
					log.Error("error closing InfluxDB", "error", closeErr)
				}
			}()
			if hcErr := influxClient.HealthCheck(ctx); hcErr != nil {
				log.Warn("InfluxDB health check failed, writes are retried by the batcher", "error", hcErr)
			}
			monitor.SetSink(influxClient)
			log.Info("InfluxDB connected",
				"url", cfg.InfluxDB.URL,
				"bucket", cfg.InfluxDB.Bucket,
				"measurement", cfg.InfluxDB.Measurement,
			)
		}
	} else {
		log.Info("InfluxDB disabled")
	}

	notifier := notify.NewNotifier(repo, pub, topics, byte(cfg.MQTT.QoS))
	notifier.SetLogger(log.With("component", "notify"))

	file, err := store.NewFile(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("data file: %w", err)
	}
	file.SetLogger(log.With("component", "store"))
	h := loadHome(file, log)

	sched := scheduler.New(h)
	sched.SetLogger(log.With("component", "scheduler"))

	con, err := console.New(console.Options{
		Home:         h,
		Store:        file,
		Scheduler:    sched,
		Energy:       monitor,
		Notifier:     notifier,
		In:           in,
		Out:          out,
		Prompt:       cfg.Console.Prompt,
		Color:        cfg.Console.Color,
		TickInterval: consoleTickInterval,
		Logger:       log.With("component", "console"),
	})
	if err != nil {
		return fmt.Errorf("creating console: %w", err)
	}

	log.Info("initialisation complete", "home", cfg.Home.Name)
	if err := con.Run(ctx); err != nil {
		return fmt.Errorf("console: %w", err)
	}

	log.Info("Hearth Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses HEARTH_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("HEARTH_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// loadConfig loads path. A missing default file falls back to built-in
// defaults so a fresh checkout runs without setup; a missing explicit
// HEARTH_CONFIG is an error.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil && path == defaultConfigPath && errors.Is(err, fs.ErrNotExist) {
		return config.Load("")
	}
	return cfg, err
}

// openNotificationLog returns the notification repository: SQLite when the
// database is enabled, memory otherwise. The returned func closes it.
func openNotificationLog(ctx context.Context, cfg config.DatabaseConfig, log *logging.Logger) (notify.Repository, func(), error) {
	if !cfg.Enabled {
		log.Info("database disabled, notifications kept in memory")
		return notify.NewMemoryRepository(), func() {}, nil
	}

	db, err := database.Open(database.Config{
		Path:        cfg.Path,
		WALMode:     cfg.WALMode,
		BusyTimeout: cfg.BusyTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	closeDB := func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}

	if err := db.Migrate(ctx); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("database: %w", err)
	}
	log.Info("database connected", "path", cfg.Path)

	return notify.NewSQLiteRepository(db.DB), closeDB, nil
}

// connectMQTT connects and hooks the client's callbacks into the log.
func connectMQTT(cfg config.MQTTConfig, log *logging.Logger) (*mqtt.Client, error) {
	client, err := mqtt.Connect(cfg)
	if err != nil {
		return nil, err
	}
	client.SetLogger(log.With("component", "mqtt"))
	client.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	client.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.Broker.Host, cfg.Broker.Port),
		"client_id", cfg.Broker.ClientID,
	)
	return client, nil
}

// loadHome restores the home from disk. An unreadable file is moved aside
// and the home starts empty.
func loadHome(file *store.File, log *logging.Logger) *home.Home {
	h, err := file.Load()
	if err == nil {
		return h
	}

	log.Warn("could not load home, starting empty", "path", file.Path(), "error", err)
	if dest, qErr := file.Quarantine(time.Now()); qErr != nil {
		log.Error("could not move unreadable data file aside", "error", qErr)
	} else if dest != "" {
		log.Warn("unreadable data file kept", "moved_to", dest)
	}
	return home.New()
}
