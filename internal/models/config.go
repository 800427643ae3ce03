package models

import "time"

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig
	Seed     SeedConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// SeedConfig holds settings for the optional initial data load
type SeedConfig struct {
	File string
}
