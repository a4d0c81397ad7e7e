package config

import (
	"fmt"
	"os"
	"time"

	"github.com/CT-12/Sports-Season-Simulation/internal/elo"
	"github.com/CT-12/Sports-Season-Simulation/internal/matchup"
	"github.com/CT-12/Sports-Season-Simulation/internal/simulator"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Database
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"mlbsim"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"mlbsim_user"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" required:"true"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`
	RunMigrations    bool   `envconfig:"RUN_MIGRATIONS" default:"true"`

	// Redis
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Elo
	EloKFactor          float64 `envconfig:"ELO_K_FACTOR" default:"20"`
	EloInitialRating    float64 `envconfig:"ELO_INITIAL_RATING" default:"1500"`
	EloSeasonRegression float64 `envconfig:"ELO_SEASON_REGRESSION" default:"0.75"`

	// Pythagorean projection
	PythagExponent         float64 `envconfig:"PYTHAG_EXPONENT" default:"1.83"`
	PythagProjectionWeight float64 `envconfig:"PYTHAG_PROJECTION_WEIGHT" default:"0.7"`
	LeagueAvgRuns          float64 `envconfig:"LEAGUE_AVG_RUNS" default:"540"`

	// Monte Carlo
	MCTrials           int    `envconfig:"MC_TRIALS" default:"1000"`
	MCSeed             int64  `envconfig:"MC_SEED" default:"0"` // 0 = time-based
	MCMode             string `envconfig:"MC_MODE" default:"scheduled"`
	MCWorkers          int    `envconfig:"MC_WORKERS" default:"0"` // 0 = NumCPU
	MCGamesPerSeason   int    `envconfig:"MC_GAMES_PER_SEASON" default:"162"`
	MCGamesDivision    int    `envconfig:"MC_GAMES_DIVISION" default:"13"`
	MCGamesLeague      int    `envconfig:"MC_GAMES_LEAGUE" default:"6"`
	MCGamesInterleague int    `envconfig:"MC_GAMES_INTERLEAGUE" default:"3"`

	// Seasons
	BaseSeason     int    `envconfig:"BASE_SEASON" default:"2025"`
	ForecastMethod string `envconfig:"FORECAST_METHOD" default:"Pythagorean"`

	// Caching
	CacheTTLBaseState int    `envconfig:"CACHE_TTL_BASE_STATE" default:"3600"` // seconds
	CacheKeyPrefix    string `envconfig:"CACHE_KEY_PREFIX" default:"mlb_players_base_state_"`

	// Scheduler
	EnableScheduler  bool   `envconfig:"ENABLE_SCHEDULER" default:"true"`
	EloRecomputeCron string `envconfig:"ELO_RECOMPUTE_CRON" default:"0 4 * * *"`

	// Precompute range
	EloStartSeason  int    `envconfig:"ELO_START_SEASON" default:"2015"`
	EloEndSeason    int    `envconfig:"ELO_END_SEASON" default:"2025"`
	BackfillSeasons string `envconfig:"BACKFILL_SEASONS" default:""`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required")
	}

	if c.EloKFactor <= 0 {
		return fmt.Errorf("ELO_K_FACTOR must be positive, got %v", c.EloKFactor)
	}
	if c.EloSeasonRegression < 0 || c.EloSeasonRegression > 1 {
		return fmt.Errorf("ELO_SEASON_REGRESSION must be within [0, 1], got %v", c.EloSeasonRegression)
	}
	if c.PythagProjectionWeight < 0 || c.PythagProjectionWeight > 1 {
		return fmt.Errorf("PYTHAG_PROJECTION_WEIGHT must be within [0, 1], got %v", c.PythagProjectionWeight)
	}
	if c.PythagExponent <= 0 {
		return fmt.Errorf("PYTHAG_EXPONENT must be positive, got %v", c.PythagExponent)
	}

	if c.MCTrials <= 0 {
		return fmt.Errorf("MC_TRIALS must be positive, got %d", c.MCTrials)
	}
	if _, err := simulator.ParseMode(c.MCMode); err != nil {
		return fmt.Errorf("MC_MODE: %w", err)
	}
	if c.MCGamesDivision < 0 || c.MCGamesLeague < 0 || c.MCGamesInterleague < 0 {
		return fmt.Errorf("MC_GAMES_* must not be negative")
	}
	if _, err := matchup.ParseMethod(c.ForecastMethod); err != nil {
		return fmt.Errorf("FORECAST_METHOD: %w", err)
	}

	if c.EloEndSeason < c.EloStartSeason {
		return fmt.Errorf("ELO_END_SEASON (%d) is before ELO_START_SEASON (%d)", c.EloEndSeason, c.EloStartSeason)
	}
	if c.CacheTTLBaseState <= 0 {
		return fmt.Errorf("CACHE_TTL_BASE_STATE must be positive, got %d", c.CacheTTLBaseState)
	}

	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseName,
		c.DatabaseSSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// CacheTTL returns the base-state cache expiry
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLBaseState) * time.Second
}

// EloParams returns the Elo fold parameters
func (c *Config) EloParams() elo.Params {
	return elo.Params{
		KFactor:          c.EloKFactor,
		InitialRating:    c.EloInitialRating,
		RegressionWeight: c.EloSeasonRegression,
	}
}

// SimulatorOptions returns the Monte Carlo options
func (c *Config) SimulatorOptions() simulator.Options {
	return simulator.Options{
		Trials:         c.MCTrials,
		Seed:           c.MCSeed,
		Workers:        c.MCWorkers,
		GamesPerSeason: c.MCGamesPerSeason,
		Weights: simulator.ScheduleWeights{
			Division:    c.MCGamesDivision,
			League:      c.MCGamesLeague,
			Interleague: c.MCGamesInterleague,
		},
	}
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
