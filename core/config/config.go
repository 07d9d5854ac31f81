package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"stock-sync/core/database"
	"stock-sync/core/events"
	"stock-sync/core/lock"
	"stock-sync/core/logger"
	"stock-sync/core/notion"
	"stock-sync/core/server"
	"stock-sync/core/storage"
	"stock-sync/core/woocommerce"
	"stock-sync/feature/cycle"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application, one section per
// component.
type Config struct {
	// Server holds configuration for the HTTP API.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// WooCommerce holds the catalog credentials.
	WooCommerce woocommerce.Config `mapstructure:"woocommerce"`
	// Notion holds the record database credentials.
	Notion notion.Config `mapstructure:"notion"`
	// Sync holds the cycle settings.
	Sync cycle.Config `mapstructure:"sync"`
	// Database holds the cycle history connection.
	Database database.Config `mapstructure:"database"`
	// Storage holds the report archive bucket.
	Storage storage.Config `mapstructure:"storage"`
	// Redis holds the distributed cycle lock.
	Redis lock.Config `mapstructure:"redis"`
	// Kafka holds cycle event publishing.
	Kafka events.Config `mapstructure:"kafka"`
}

// LoadConfig loads configuration from environment variables and the .env file
// in path. Variables in .env override the process environment.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." || path == "" {
		envPath = ".env"
	}

	// A missing .env is normal in production.
	_ = godotenv.Overload(envPath)

	v := viper.New()
	bindValues(v, Config{}, "")

	// Nested keys map to upper-case variables: woocommerce.api_url reads
	// WOOCOMMERCE_API_URL.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &config, nil
}

// Validate checks the settings every cycle needs: both store credentials,
// plus the optional backends that are switched on.
func (c *Config) Validate() error {
	errs := []error{
		c.WooCommerce.Validate(),
		c.Notion.Validate(),
	}
	if c.Sync.Interval < 0 {
		errs = append(errs, errors.New("sync.interval must not be negative"))
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr is required when redis is enabled"))
	}
	if c.Kafka.Enabled && len(c.Kafka.BrokerList()) == 0 {
		errs = append(errs, errors.New("kafka.brokers is required when kafka is enabled"))
	}
	if c.Storage.Enabled && c.Storage.Bucket == "" {
		errs = append(errs, errors.New("storage.bucket is required when storage is enabled"))
	}
	return errors.Join(errs...)
}

// bindValues walks the struct and registers every mapstructure key with its
// default tag, so AutomaticEnv can resolve keys that have no default.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		v.SetDefault(key, field.Tag.Get("default"))
	}
}
