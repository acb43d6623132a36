// Package config loads varcache settings: built-in defaults, then an
// optional YAML file, then VARCACHE_* environment variables, then validation.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	goredis "github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/unkn0wn-root/varcache/codec"
)

// EnvPrefix prefixes every environment variable, e.g. VARCACHE_REDIS_ADDRS.
const EnvPrefix = "VARCACHE_"

type Config struct {
	Redis Redis `yaml:"redis" envPrefix:"REDIS_"`
	Codec Codec `yaml:"codec" envPrefix:"CODEC_"`
	Evict Evict `yaml:"evict" envPrefix:"EVICT_"`
	Log   Log   `yaml:"log" envPrefix:"LOG_"`
}

type Redis struct {
	Addrs        []string      `yaml:"addrs" env:"ADDRS" envSeparator:"," validate:"required,min=1,dive,hostname_port"`
	DB           int           `yaml:"db" env:"DB" validate:"gte=0"`
	Username     string        `yaml:"username" env:"USERNAME"`
	Password     string        `yaml:"password" env:"PASSWORD"`
	PoolSize     int           `yaml:"pool_size" env:"POOL_SIZE" validate:"gte=0"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"DIAL_TIMEOUT" validate:"gte=0"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
}

type Codec struct {
	Format          string `yaml:"format" env:"FORMAT" validate:"oneof=json msgpack cbor protobuf"`
	MaxDocumentSize int    `yaml:"max_document_size" env:"MAX_DOCUMENT_SIZE" validate:"gte=0"`
}

type Evict struct {
	BatchSize int   `yaml:"batch_size" env:"BATCH_SIZE" validate:"min=1,max=5000"`
	ScanCount int64 `yaml:"scan_count" env:"SCAN_COUNT" validate:"gte=0"`
}

type Log struct {
	Level string `yaml:"level" env:"LEVEL" validate:"oneof=debug info warn error"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Redis: Redis{
			Addrs:        []string{"localhost:6379"},
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Codec: Codec{Format: string(codec.FormatJSON)},
		Evict: Evict{BatchSize: 5000, ScanCount: 1000},
		Log:   Log{Level: "info"},
	}
}

// Load reads path ("" skips the file) and the process environment.
func Load(path string) (Config, error) {
	return load(path, nil)
}

func load(path string, environ map[string]string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := readFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix, Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// RedisOptions builds go-redis options; one address yields a single-node
// client, several a cluster client.
func (c Config) RedisOptions() *goredis.UniversalOptions {
	return &goredis.UniversalOptions{
		Addrs:        c.Redis.Addrs,
		DB:           c.Redis.DB,
		Username:     c.Redis.Username,
		Password:     c.Redis.Password,
		PoolSize:     c.Redis.PoolSize,
		DialTimeout:  c.Redis.DialTimeout,
		ReadTimeout:  c.Redis.ReadTimeout,
		WriteTimeout: c.Redis.WriteTimeout,
	}
}

func (c Config) CodecOptions() codec.Options {
	return codec.Options{Format: codec.Format(c.Codec.Format), MaxDocumentSize: c.Codec.MaxDocumentSize}
}
