package counting

import (
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config manages pipeline configuration using Viper
type Config struct {
	v *viper.Viper
}

// NewConfig creates a new configuration with defaults
func NewConfig() *Config {
	v := viper.New()

	// Counting parameters. The chunk bound keeps peak temp-file usage at
	// roughly (3 + n*n + n) * chunk_size * num_workers bytes for graphs
	// with n vertices.
	v.SetDefault("counting.chunk_size", 1_000_000)
	v.SetDefault("counting.num_workers", runtime.NumCPU())
	v.SetDefault("counting.deterministic", false)

	// Nauty backend parameters. An empty path resolves the tools through
	// $PATH.
	v.SetDefault("nauty.path", "")
	v.SetDefault("nauty.temp_dir", os.TempDir())

	// Cache parameters
	v.SetDefault("cache.dir", os.TempDir())
	v.SetDefault("cache.enabled", true)

	// Logging parameters
	v.SetDefault("logging.level", "info")

	return &Config{v: v}
}

// LoadFromFile loads configuration from file
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

// Getters for counting parameters
func (c *Config) ChunkSize() int64    { return c.v.GetInt64("counting.chunk_size") }
func (c *Config) NumWorkers() int     { return c.v.GetInt("counting.num_workers") }
func (c *Config) Deterministic() bool { return c.v.GetBool("counting.deterministic") }

func (c *Config) NautyPath() string { return c.v.GetString("nauty.path") }
func (c *Config) TempDir() string   { return c.v.GetString("nauty.temp_dir") }

func (c *Config) CacheDir() string   { return c.v.GetString("cache.dir") }
func (c *Config) CacheEnabled() bool { return c.v.GetBool("cache.enabled") }

func (c *Config) LogLevel() string { return c.v.GetString("logging.level") }

// Set allows dynamic configuration changes
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// CreateLogger creates a zerolog logger based on config
func (c *Config) CreateLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", "graphgen").Logger()
}
