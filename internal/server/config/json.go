package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Duration accepts both Go duration strings ("168h", "90s") and integer
// nanoseconds when unmarshalled from JSON.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

// JsonConfig is the on-disk shape of the configuration file. Pointer fields
// distinguish "absent" from "zero" so a file may override a subset of settings.
type JsonConfig struct {
	EndpointAddrHTTP      *string   `json:"endpoint_addr_http"`
	EndpointAddrGRPC      *string   `json:"endpoint_addr_grpc"`
	StorageDriver         *string   `json:"storage_driver"`
	DatabaseDSN           *string   `json:"database_dsn"`
	SecretKey             *string   `json:"secret_key"`
	TokenValidityDuration *Duration `json:"token_validity_duration"`
	UserDeletePolicy      *string   `json:"user_delete_policy"`
	RedisAddr             *string   `json:"redis_addr"`
	CacheTTL              *Duration `json:"cache_ttl"`
	LogLevel              *string   `json:"log_level"`
	LogJSON               *bool     `json:"log_json"`
}

// parseJson overlays values from the JSON file at path onto config.
// An empty path means no file was requested.
func parseJson(config *Config, path string) error {
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.StorageDriver, c.StorageDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.UserDeletePolicy, c.UserDeletePolicy)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.LogLevel, c.LogLevel)
	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.CacheTTL != nil {
		config.CacheTTL = c.CacheTTL.Duration
	}
	if c.LogJSON != nil {
		config.LogJSON = *c.LogJSON
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
