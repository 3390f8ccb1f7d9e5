// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables through viper. It provides a centralized Config struct used
// across the application, including one backend section per vertical.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Verticals lists the product verticals in display order. Each one has its
// own database and bucket.
var Verticals = []string{"junior", "senior", "ideas", "audio"}

const defaultPassword = "changeme"

// Vertical holds the backend settings of one product vertical.
type Vertical struct {
	Key string

	// DatabaseURL wins over the discrete POSTGRES_* fields when set.
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string
}

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Valkey (Redis-compatible cache and sessions)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Admin credential pair
	AdminEmail        string
	AdminPasswordHash string
	AdminTOTPSecret   string // optional; enables the second factor
	SessionTTL        time.Duration

	// DashboardTTL is how long dashboard counts stay cached.
	DashboardTTL time.Duration

	Verticals []Vertical
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("APP_HOST", "0.0.0.0")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "starbiz")
	v.SetDefault("POSTGRES_PASSWORD", defaultPassword)
	v.SetDefault("VALKEY_HOST", "localhost")
	v.SetDefault("VALKEY_PORT", "6379")
	v.SetDefault("S3_REGION", "fsn1")
	v.SetDefault("ADMIN_EMAIL", "admin@starbiz.local")
	v.SetDefault("ADMIN_PASSWORD", defaultPassword)
	v.SetDefault("SESSION_TTL", 24*time.Hour)
	v.SetDefault("DASHBOARD_TTL", 60*time.Second)
	v.AutomaticEnv()

	cfg := &Config{
		Host: v.GetString("APP_HOST"),
		Port: v.GetString("APP_PORT"),
		Env:  v.GetString("APP_ENV"),

		ValkeyHost:     v.GetString("VALKEY_HOST"),
		ValkeyPort:     v.GetString("VALKEY_PORT"),
		ValkeyPassword: v.GetString("VALKEY_PASSWORD"),

		AdminEmail:        strings.ToLower(strings.TrimSpace(v.GetString("ADMIN_EMAIL"))),
		AdminPasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
		AdminTOTPSecret:   v.GetString("ADMIN_TOTP_SECRET"),
		SessionTTL:        v.GetDuration("SESSION_TTL"),
		DashboardTTL:      v.GetDuration("DASHBOARD_TTL"),
	}

	for _, key := range Verticals {
		cfg.Verticals = append(cfg.Verticals, loadVertical(v, key))
	}

	if cfg.Env == "production" {
		if cfg.AdminPasswordHash == "" {
			return nil, fmt.Errorf("ADMIN_PASSWORD_HASH must be set in production")
		}
		for _, vc := range cfg.Verticals {
			if vc.DatabaseURL == "" && vc.DBPassword == defaultPassword {
				return nil, fmt.Errorf("%s database password must be set in production", vc.Key)
			}
		}
	}

	if cfg.AdminPasswordHash == "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(v.GetString("ADMIN_PASSWORD")), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		cfg.AdminPasswordHash = string(hash)
	}

	return cfg, nil
}

// loadVertical reads <KEY>_* settings, falling back to the shared
// POSTGRES_* and S3_* values.
func loadVertical(v *viper.Viper, key string) Vertical {
	p := strings.ToUpper(key) + "_"
	return Vertical{
		Key:         key,
		DatabaseURL: v.GetString(p + "DATABASE_URL"),
		DBHost:      first(v, p+"POSTGRES_HOST", "POSTGRES_HOST"),
		DBPort:      first(v, p+"POSTGRES_PORT", "POSTGRES_PORT"),
		DBUser:      first(v, p+"POSTGRES_USER", "POSTGRES_USER"),
		DBPassword:  first(v, p+"POSTGRES_PASSWORD", "POSTGRES_PASSWORD"),
		DBName:      orDefault(v.GetString(p+"POSTGRES_DB"), "starbiz_"+key),

		S3Endpoint:  first(v, p+"S3_ENDPOINT", "S3_ENDPOINT"),
		S3Region:    first(v, p+"S3_REGION", "S3_REGION"),
		S3AccessKey: first(v, p+"S3_ACCESS_KEY", "S3_ACCESS_KEY"),
		S3SecretKey: first(v, p+"S3_SECRET_KEY", "S3_SECRET_KEY"),
		S3Bucket:    orDefault(v.GetString(p+"S3_BUCKET"), "starbiz-"+key),
		S3PublicURL: v.GetString(p + "S3_PUBLIC_URL"),
	}
}

// DSN returns the PostgreSQL connection string for the vertical.
func (v Vertical) DSN() string {
	if v.DatabaseURL != "" {
		return v.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		v.DBUser, v.DBPassword, v.DBHost, v.DBPort, v.DBName,
	)
}

// ValkeyAddr returns the Valkey address (host:port).
func (c *Config) ValkeyAddr() string {
	return fmt.Sprintf("%s:%s", c.ValkeyHost, c.ValkeyPort)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// first returns the first non-empty value among keys.
func first(v *viper.Viper, keys ...string) string {
	for _, k := range keys {
		if s := v.GetString(k); s != "" {
			return s
		}
	}
	return ""
}

func orDefault(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
