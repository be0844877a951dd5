package config

import (
	"fmt"

	"github.com/colortour/hotspot-editor/pkg/core"
	"github.com/spf13/viper"
)

// ConfigFileName is the JSON file Load looks for in the config directory.
const ConfigFileName = "hotspot_editor.cfg.json"

// MemoryConfig holds in-memory storage medium settings
type MemoryConfig struct {
	CapacityBytes int64 `json:"capacityBytes" mapstructure:"capacityBytes"`
}

// SQLiteConfig holds SQLite storage medium settings. An empty Path keeps the
// database in memory.
type SQLiteConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// PostgresConfig holds connection settings for the Postgres storage medium.
type PostgresConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

// DSN builds the lib/pq style connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		c.Host, c.Port, c.Username, c.Password, c.Database)
}

// StorageConfig selects and configures the persistence medium.
type StorageConfig struct {
	Type          string         `json:"type" mapstructure:"type"`
	Namespace     string         `json:"namespace" mapstructure:"namespace"`
	Key           string         `json:"key" mapstructure:"key"`
	CapacityBytes int64          `json:"capacityBytes" mapstructure:"capacityBytes"`
	Memory        MemoryConfig   `json:"memory" mapstructure:"memory"`
	SQLite        SQLiteConfig   `json:"sqlite" mapstructure:"sqlite"`
	Postgres      PostgresConfig `json:"postgres" mapstructure:"postgres"`
}

// SetDefaults registers the default value of every known key.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")
	viper.SetDefault("logToConsole", false)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.namespace", "color_tour")
	viper.SetDefault("storage.key", "hotspots")
	viper.SetDefault("storage.capacityBytes", 5*1024*1024)
	viper.SetDefault("storage.sqlite.path", "")

	viper.SetDefault("persistence.maxRecordBytes", 2*1024*1024)
	viper.SetDefault("persistence.truncateKeep", 30)

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "tour_editor")

	viper.SetDefault("markers.hotspotSize", 1.0)
	viper.SetDefault("markers.infopointSize", 0.8)
	viper.SetDefault("markers.hotspotColor", "#2196F3")
	viper.SetDefault("markers.infopointColor", "#4CAF50")
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(ConfigFileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetStorageConfig returns the storage section. The shared capacity applies
// to the memory medium unless it sets its own.
func GetStorageConfig() StorageConfig {
	cfg := StorageConfig{
		Type:          viper.GetString("storage.type"),
		Namespace:     viper.GetString("storage.namespace"),
		Key:           viper.GetString("storage.key"),
		CapacityBytes: viper.GetInt64("storage.capacityBytes"),
		Memory: MemoryConfig{
			CapacityBytes: viper.GetInt64("storage.memory.capacityBytes"),
		},
		SQLite: SQLiteConfig{
			Path: viper.GetString("storage.sqlite.path"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetString("db.port"),
			Username: viper.GetString("db.username"),
			Password: viper.GetString("db.password"),
			Database: viper.GetString("db.database"),
		},
	}
	if cfg.Memory.CapacityBytes == 0 {
		cfg.Memory.CapacityBytes = cfg.CapacityBytes
	}
	return cfg
}

// GetMarkerSettings returns the global marker defaults.
func GetMarkerSettings() core.Settings {
	return core.Settings{
		HotspotSize:    viper.GetFloat64("markers.hotspotSize"),
		InfopointSize:  viper.GetFloat64("markers.infopointSize"),
		HotspotColor:   viper.GetString("markers.hotspotColor"),
		InfopointColor: viper.GetString("markers.infopointColor"),
	}
}
