package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/api"
	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/dialogue"
	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/logistics"
	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/session"
	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/store"
	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/transport"
	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/util"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for Rocket Logistics state data
	DefaultStateDir = "/var/lib/rocketlogistics"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "rocketlogistics.db"
)

func main() {
	// Initialize structured logger
	initializeLogger(util.ParseBoolEnv("VERBOSE_LOGGING", true))

	// Load environment configuration
	config := loadEnvironmentConfig()

	// Parse command line flags
	flags := parseCommandLineFlags(config)

	// Ensure required directories exist
	if err := ensureDirectoriesExist(flags); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := buildStore(flags)
	if err != nil {
		slog.Error("Failed to initialize shipment store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	shipments := logistics.NewService(st)
	dates := dialogue.NewDateParser(*flags.anchorYear)
	agent := dialogue.NewAgent(shipments, dates)

	sessions, err := buildSessionManager(flags)
	if err != nil {
		slog.Error("Failed to initialize session manager", "error", err)
		os.Exit(1)
	}
	defer sessions.Close()

	if *flags.natsURL != "" {
		nt, err := transport.NewNATSTransport(*flags.natsURL, *flags.natsSubject, agent)
		if err != nil {
			slog.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer nt.Close()
		if err := nt.Start(); err != nil {
			slog.Error("Failed to start NATS transport", "error", err)
			os.Exit(1)
		}
	}

	server := api.NewServer(agent, shipments, sessions, buildAPIOptions(flags)...)
	slog.Info("Bootstrapping Rocket Logistics voice agent",
		"api_addr", *flags.apiAddr, "anchor_year", *flags.anchorYear,
		"nats_enabled", *flags.natsURL != "", "redis_enabled", *flags.redisURL != "")
	if err := server.Run(ctx); err != nil {
		slog.Error("Rocket Logistics voice agent failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("Rocket Logistics voice agent exited successfully")
}

// Config holds environment configuration
type Config struct {
	DatabaseURL    string
	StateDir       string
	APIAddr        string
	AnchorYear     int
	RedisURL       string
	NatsURL        string
	NatsSubject    string
	TransferNumber string
}

// Flags holds command line flag values
type Flags struct {
	stateDir       *string
	dbDSN          *string
	apiAddr        *string
	anchorYear     *int
	redisURL       *string
	natsURL        *string
	natsSubject    *string
	transferNumber *string
}

// initializeLogger sets up structured logging at debug or info level
func initializeLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		StateDir:       os.Getenv("ROCKETLOGISTICS_STATE_DIR"),
		APIAddr:        os.Getenv("API_ADDR"),
		AnchorYear:     util.ParseIntEnv("DATE_ANCHOR_YEAR", dialogue.DefaultAnchorYear),
		RedisURL:       os.Getenv("REDIS_URL"),
		NatsURL:        os.Getenv("NATS_URL"),
		NatsSubject:    util.GetEnv("NATS_SUBJECT", transport.DefaultSubject),
		TransferNumber: os.Getenv("TRANSFER_NUMBER"),
	}

	// Set default state directory if not specified
	if config.StateDir == "" {
		config.StateDir = DefaultStateDir
		slog.Debug("No ROCKETLOGISTICS_STATE_DIR set, using default", "default_state_dir", config.StateDir)
	}

	// If no database URL is provided, default to SQLite in the state directory
	if config.DatabaseURL == "" {
		config.DatabaseURL = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No database DSN provided, defaulting to SQLite", "sqlite_path", config.DatabaseURL)
	}

	slog.Debug("environment variables loaded",
		"DATABASE_URL_SET", config.DatabaseURL != "",
		"ROCKETLOGISTICS_STATE_DIR", config.StateDir,
		"API_ADDR", config.APIAddr,
		"DATE_ANCHOR_YEAR", config.AnchorYear,
		"REDIS_URL_SET", config.RedisURL != "",
		"NATS_URL_SET", config.NatsURL != "",
		"TRANSFER_NUMBER_SET", config.TransferNumber != "")

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		stateDir:       flag.String("state-dir", config.StateDir, "state directory for Rocket Logistics data (overrides $ROCKETLOGISTICS_STATE_DIR)"),
		dbDSN:          flag.String("db-dsn", config.DatabaseURL, "database DSN for the shipment store (overrides $DATABASE_URL)"),
		apiAddr:        flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
		anchorYear:     flag.Int("anchor-year", config.AnchorYear, "year incomplete spoken dates resolve into (overrides $DATE_ANCHOR_YEAR)"),
		redisURL:       flag.String("redis-url", config.RedisURL, "Redis URL for shared call sessions (overrides $REDIS_URL)"),
		natsURL:        flag.String("nats-url", config.NatsURL, "NATS URL for the turn transport (overrides $NATS_URL)"),
		natsSubject:    flag.String("nats-subject", config.NatsSubject, "NATS subject for turn requests (overrides $NATS_SUBJECT)"),
		transferNumber: flag.String("transfer-number", config.TransferNumber, "phone number for human-agent transfers (overrides $TRANSFER_NUMBER)"),
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"stateDir", *flags.stateDir,
		"dbDSN_set", *flags.dbDSN != "",
		"apiAddr", *flags.apiAddr,
		"anchorYear", *flags.anchorYear,
		"redisURL_set", *flags.redisURL != "",
		"natsURL_set", *flags.natsURL != "")

	// Update database DSN if not explicitly set but state directory is provided
	if *flags.dbDSN == config.DatabaseURL && config.DatabaseURL == filepath.Join(config.StateDir, DefaultDBFileName) && *flags.stateDir != config.StateDir {
		*flags.dbDSN = filepath.Join(*flags.stateDir, DefaultDBFileName)
		slog.Debug("Updated dbDSN based on state directory", "new_state_dir", *flags.stateDir)
	}

	return flags
}

// ensureDirectoriesExist creates necessary directories for file-based storage
func ensureDirectoriesExist(flags Flags) error {
	if !strings.Contains(*flags.dbDSN, "postgres://") && !strings.Contains(*flags.dbDSN, "host=") {
		stateDir := filepath.Dir(*flags.dbDSN)
		slog.Debug("Creating state directory for file-based database", "state_dir", stateDir)
		if err := os.MkdirAll(stateDir, 0755); err != nil {
			slog.Error("Failed to create state directory", "error", err, "state_dir", stateDir)
			return err
		}
	}
	return nil
}

// buildStore constructs the shipment store from the DSN, detecting PostgreSQL
// versus SQLite the same way the DSN detection helper does.
func buildStore(flags Flags) (store.Store, error) {
	if *flags.dbDSN == "" {
		slog.Debug("No database DSN provided, using in-memory store")
		return store.NewInMemoryStore(), nil
	}
	if store.DetectDSNType(*flags.dbDSN) == "postgres" {
		slog.Debug("Detected PostgreSQL DSN, configuring PostgreSQL store")
		return store.NewPostgresStore(store.WithPostgresDSN(*flags.dbDSN))
	}
	slog.Debug("Detected SQLite DSN, configuring SQLite store", "db_path", *flags.dbDSN)
	return store.NewSQLiteStore(store.WithSQLiteDSN(*flags.dbDSN))
}

// buildSessionManager constructs the call session manager. Redis is used when
// configured so multiple nodes can share calls; otherwise sessions stay in
// process memory.
func buildSessionManager(flags Flags) (session.Manager, error) {
	if *flags.redisURL != "" {
		slog.Debug("Configuring Redis session manager")
		return session.NewRedisManager(*flags.redisURL, session.DefaultTTL)
	}
	slog.Debug("No Redis URL provided, using in-memory session manager")
	return session.NewMemoryManager(), nil
}

// buildAPIOptions constructs API server configuration options
func buildAPIOptions(flags Flags) []api.Option {
	var apiOpts []api.Option
	if *flags.apiAddr != "" {
		apiOpts = append(apiOpts, api.WithAddr(*flags.apiAddr))
	}
	if *flags.transferNumber != "" {
		apiOpts = append(apiOpts, api.WithTransferNumber(*flags.transferNumber))
	}
	return apiOpts
}
