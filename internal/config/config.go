package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/tilepath/internal/geo"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "TILEPATH_CONFIG"

// DefaultPath is used when EnvPath is unset.
const DefaultPath = "config/pathserver.yaml"

// Transport catalogue sources.
const (
	SourceCSV      = "csv"
	SourceDatabase = "database"
)

// PathServer holds all configuration for the route server.
type PathServer struct {
	// Network
	BindAddress     string        `yaml:"bind_address"`
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	Search   SearchConfig   `yaml:"search"`
	Data     DataConfig     `yaml:"data"`
	Database DatabaseConfig `yaml:"database"`
}

// SearchConfig holds the default search policy and the worker pool size.
type SearchConfig struct {
	Cutoff            time.Duration `yaml:"cutoff"`
	AvoidWilderness   bool          `yaml:"avoid_wilderness"`
	DisableWilderness bool          `yaml:"disable_wilderness"`
	Workers           int           `yaml:"workers"`
	StreamInterval    time.Duration `yaml:"stream_interval"` // websocket progress period

	// Wilderness replaces the built-in wilderness areas when set.
	Wilderness *WildernessConfig `yaml:"wilderness"`
}

// WildernessConfig lists wilderness areas and the safe areas carved out of them.
type WildernessConfig struct {
	Areas []geo.Area `yaml:"areas"`
	Safe  []geo.Area `yaml:"safe"`
}

// DataConfig locates the collision map and the transport catalogue.
type DataConfig struct {
	CollisionArchive string `yaml:"collision_archive"`
	TransportsCSV    string `yaml:"transports_csv"`
	TransportSource  string `yaml:"transport_source"` // csv or database
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultPathServer returns PathServer config with sensible defaults.
func DefaultPathServer() PathServer {
	return PathServer{
		BindAddress:     "0.0.0.0",
		Port:            8080,
		ShutdownTimeout: 10 * time.Second,
		LogLevel:        "info",
		Search: SearchConfig{
			Cutoff:         30 * time.Second,
			Workers:        4,
			StreamInterval: 250 * time.Millisecond,
		},
		Data: DataConfig{
			CollisionArchive: "data/collision-map.zip",
			TransportsCSV:    "data/transports.csv",
			TransportSource:  SourceCSV,
		},
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "tilepath",
			Password: "tilepath",
			DBName:   "tilepath",
			SSLMode:  "disable",
		},
	}
}

// Path returns the config path from EnvPath, or DefaultPath.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

// LoadPathServer loads route server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadPathServer(path string) (PathServer, error) {
	cfg := DefaultPathServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c PathServer) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.Search.Workers <= 0 {
		errs = append(errs, fmt.Errorf("search.workers must be positive, got %d", c.Search.Workers))
	}
	if c.Search.Cutoff <= 0 {
		errs = append(errs, fmt.Errorf("search.cutoff must be positive, got %s", c.Search.Cutoff))
	}
	if c.Search.StreamInterval <= 0 {
		errs = append(errs, fmt.Errorf("search.stream_interval must be positive, got %s", c.Search.StreamInterval))
	}
	switch c.Data.TransportSource {
	case SourceCSV, SourceDatabase:
	default:
		errs = append(errs, fmt.Errorf("data.transport_source %q: want %q or %q", c.Data.TransportSource, SourceCSV, SourceDatabase))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SlogLevel parses LogLevel.
func (c PathServer) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
