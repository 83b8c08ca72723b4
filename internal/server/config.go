package server

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/iwvelando/mortgage-sim/internal/config"
	"github.com/iwvelando/mortgage-sim/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of mortgage-sim-server.
type Config struct {
	Address       string               `yaml:"address"`
	MaxUploadSize string               `yaml:"maxUploadSize"`
	Logging       config.LoggingConfig `yaml:"logging"`
	Cache         CacheConfig          `yaml:"cache"`

	uploadLimit int64
}

// CacheConfig selects the result cache. An empty RedisAddress keeps results
// in process memory.
type CacheConfig struct {
	Enabled       bool   `yaml:"enabled"`
	RedisAddress  string `yaml:"redisAddress"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	TTL           string `yaml:"ttl"`

	ttl time.Duration
}

// TTLDuration returns the parsed entry lifetime.
func (c CacheConfig) TTLDuration() time.Duration {
	return c.ttl
}

// UploadLimit returns the largest accepted request body in bytes.
func (c *Config) UploadLimit() int64 {
	return c.uploadLimit
}

func defaultConfig() *Config {
	return &Config{
		Address: constants.DefaultServerAddress,
		Cache:   CacheConfig{Enabled: true},
	}
}

// LoadConfig reads the server settings at path. A blank path or a missing
// file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read server config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse server config: %w", err)
			}
		}
	}

	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolve fills the derived fields from their string forms.
func (c *Config) resolve() error {
	if strings.TrimSpace(c.Address) == "" {
		c.Address = constants.DefaultServerAddress
	}

	limit, err := ParseSize(c.MaxUploadSize)
	if err != nil {
		return err
	}
	if limit <= 0 {
		limit = constants.DefaultMaxUploadSizeBytes
	}
	c.uploadLimit = limit

	c.Cache.ttl, err = parseTTL(c.Cache.TTL)
	return err
}

func parseTTL(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return constants.DefaultCacheTTLSeconds * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid cache ttl %q: %w", value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid cache ttl %q: must not be negative", value)
	}
	return d, nil
}

var sizeUnits = map[string]int64{
	"":   1,
	"B":  1,
	"K":  1 << 10,
	"KB": 1 << 10,
	"M":  1 << 20,
	"MB": 1 << 20,
	"G":  1 << 30,
	"GB": 1 << 30,
}

// ParseSize converts sizes such as "256K" or "10MB" to bytes. Units are
// binary and case-insensitive; a bare number is bytes and a blank string is
// the default upload limit.
func ParseSize(value string) (int64, error) {
	s := strings.ToUpper(strings.TrimSpace(value))
	if s == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	number := strings.TrimRightFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	unit := strings.TrimSpace(s[len(number):])
	multiplier, ok := sizeUnits[unit]
	if !ok {
		return 0, fmt.Errorf("unsupported size unit %q in %q", unit, value)
	}

	n, err := strconv.ParseInt(strings.TrimSpace(number), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", value, err)
	}
	if n > math.MaxInt64/multiplier {
		return 0, fmt.Errorf("size %q overflows", value)
	}
	return n * multiplier, nil
}
