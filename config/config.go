package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Wallet   WalletConfig   `mapstructure:"wallet"`
	Policy   PolicyConfig   `mapstructure:"policy"`
	Sweep    SweepConfig    `mapstructure:"sweep"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Ops      OpsConfig      `mapstructure:"ops"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig configures the operator HTTP API.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// WalletConfig points at the grin-wallet owner API.
type WalletConfig struct {
	URL      string        `mapstructure:"url"`
	User     string        `mapstructure:"user"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// PolicyConfig holds the default-policy thresholds, read once at startup
// and read-only afterwards. Amounts are in nanogrin.
type PolicyConfig struct {
	MaxFreeBalance   int64         `mapstructure:"max_free_balance"`
	WarningPeriod    time.Duration `mapstructure:"warning_period"`
	BillingPeriod    time.Duration `mapstructure:"billing_period"`
	MonthlyCharge    int64         `mapstructure:"monthly_charge"`
	MaxRequestAge    time.Duration `mapstructure:"max_request_age"`
	MaxWithdrawalAge time.Duration `mapstructure:"max_withdrawal_age"`
	InactivityWindow time.Duration `mapstructure:"inactivity_window"`
	EULAText         string        `mapstructure:"eula_text"`
	EULAVersion      string        `mapstructure:"eula_version"`
}

// SweepConfig configures the reconciliation scheduler.
type SweepConfig struct {
	TxInterval         time.Duration `mapstructure:"tx_interval"`
	AccountingInterval time.Duration `mapstructure:"accounting_interval"`
	MarkTTL            time.Duration `mapstructure:"mark_ttl"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

// OpsConfig holds the operator account for the HTTP API.
type OpsConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"` // argon2id encoded
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: SLATEBOY_.
// Nested keys use underscore: SLATEBOY_DATABASE_HOST, SLATEBOY_JWT_SECRET.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "slateboy")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("wallet.url", "http://127.0.0.1:3420/v3/owner")
	v.SetDefault("wallet.user", "grin")
	v.SetDefault("wallet.password", "")
	v.SetDefault("wallet.timeout", "30s")
	v.SetDefault("policy.max_free_balance", 10_000_000_000) // 10 grin
	v.SetDefault("policy.warning_period", "600h")           // 25 days
	v.SetDefault("policy.billing_period", "730h")           // ~1 month
	v.SetDefault("policy.monthly_charge", 1_000_000_000)    // 1 grin
	v.SetDefault("policy.max_request_age", "24h")
	v.SetDefault("policy.max_withdrawal_age", "24h")
	v.SetDefault("policy.inactivity_window", "720h")
	v.SetDefault("policy.eula_text", "")
	v.SetDefault("policy.eula_version", "")
	v.SetDefault("sweep.tx_interval", "5m")
	v.SetDefault("sweep.accounting_interval", "1h")
	v.SetDefault("sweep.mark_ttl", "30m")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "slateboy")
	v.SetDefault("ops.username", "")
	v.SetDefault("ops.password_hash", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: SLATEBOY_DATABASE_HOST -> database.host
	v.SetEnvPrefix("SLATEBOY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
