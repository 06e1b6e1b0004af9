package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendFile  = "file"
	BackendMySQL = "mysql"
	BackendRedis = "redis"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Snapshot SnapshotConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Host             string
	Port             int
	User             string
	Password         string
	Name             string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
	MaxRetryAttempts int
}

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	TTL       time.Duration
}

type SnapshotConfig struct {
	Backend string
	Dir     string
}

type LogConfig struct {
	Level string
}

// Load reads configuration from defaults, the optional YAML file at path and the
// environment, in increasing order of precedence. An empty path or a missing file skips
// the file; any other read or parse failure is returned.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !configFileMissing(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.AutomaticEnv()

	connMaxLifetime, err := time.ParseDuration(v.GetString("db_conn_max_lifetime"))
	if err != nil {
		return nil, fmt.Errorf("parsing db_conn_max_lifetime: %w", err)
	}

	redisTTL, err := time.ParseDuration(v.GetString("redis_ttl"))
	if err != nil {
		return nil, fmt.Errorf("parsing redis_ttl: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetInt("server_port"),
		},
		Database: DatabaseConfig{
			Host:             v.GetString("db_host"),
			Port:             v.GetInt("db_port"),
			User:             v.GetString("db_user"),
			Password:         v.GetString("db_password"),
			Name:             v.GetString("db_name"),
			MaxOpenConns:     v.GetInt("db_max_open_conns"),
			MaxIdleConns:     v.GetInt("db_max_idle_conns"),
			ConnMaxLifetime:  connMaxLifetime,
			MaxRetryAttempts: v.GetInt("db_max_retry_attempts"),
		},
		Redis: RedisConfig{
			Addr:      v.GetString("redis_addr"),
			Password:  v.GetString("redis_password"),
			DB:        v.GetInt("redis_db"),
			KeyPrefix: v.GetString("redis_key_prefix"),
			TTL:       redisTTL,
		},
		Snapshot: SnapshotConfig{
			Backend: v.GetString("snapshot_backend"),
			Dir:     v.GetString("snapshot_dir"),
		},
		Log: LogConfig{
			Level: v.GetString("log_level"),
		},
	}

	switch cfg.Snapshot.Backend {
	case BackendFile, BackendMySQL, BackendRedis:
	default:
		return nil, fmt.Errorf("unknown snapshot_backend %q", cfg.Snapshot.Backend)
	}

	return cfg, nil
}

func configFileMissing(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.Is(err, os.ErrNotExist) || errors.As(err, &notFound)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_port", 8080)
	v.SetDefault("log_level", "info")

	v.SetDefault("snapshot_backend", BackendFile)
	v.SetDefault("snapshot_dir", "snapshots")

	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 3306)
	v.SetDefault("db_user", "beanbags")
	v.SetDefault("db_password", "secret")
	v.SetDefault("db_name", "beanbags")
	v.SetDefault("db_max_open_conns", 25)
	v.SetDefault("db_max_idle_conns", 5)
	v.SetDefault("db_conn_max_lifetime", "5m")
	v.SetDefault("db_max_retry_attempts", 3)

	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_key_prefix", "beanbags:snapshot:")
	v.SetDefault("redis_ttl", "0s")
}
