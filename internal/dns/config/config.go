// Package config loads zoned settings from built-in defaults overridden by
// DNS_* environment variables, and validates the result.
package config

import (
	"fmt"
	"net"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/haukened/zoned/internal/dns/repos/zone"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// Port is the UDP port the server binds to.
	Port int `koanf:"port" validate:"required,gte=1,lt=65535"`

	// Bind is the IP address the server binds to.
	Bind string `koanf:"bind" validate:"required,ip"`

	// ZoneFile is a YAML, JSON or TOML zone file. Empty serves the built-in table.
	ZoneFile string `koanf:"zone_file" validate:"zone_file"`

	// MaxAliasHops bounds CNAME chain following.
	MaxAliasHops int `koanf:"max_alias_hops" validate:"required,gte=1,lte=32"`

	// AliasPolicy is "partial" to answer with the CNAMEs gathered when the hop
	// limit runs out, or "fail" to answer SERVFAIL.
	AliasPolicy string `koanf:"alias_policy" validate:"required,oneof=partial fail"`

	CacheSize uint `koanf:"cache_size" validate:"required,gte=1"`

	// DisableCache turns off the resolution cache.
	DisableCache bool `koanf:"disable_cache"`

	// MetricsAddr is an ip:port for the Prometheus endpoint. Empty disables it.
	MetricsAddr string `koanf:"metrics_addr" validate:"omitempty,ip_port"`
}

// ListenAddr returns the UDP address to bind.
func (c *AppConfig) ListenAddr() string {
	return net.JoinHostPort(c.Bind, strconv.Itoa(c.Port))
}

// DEFAULT_APP_CONFIG defines the default application configuration settings.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:          "prod",
	LogLevel:     "info",
	Port:         5333,
	Bind:         "0.0.0.0",
	ZoneFile:     "",
	MaxAliasHops: 5,
	AliasPolicy:  "partial",
	CacheSize:    1024,
	DisableCache: false,
	MetricsAddr:  "",
}

// validIPPort validates an "IP:Port" value with a port between 1 and 65535.
func validIPPort(fl validator.FieldLevel) bool {
	addr := fl.Field().String()
	ip, port, err := net.SplitHostPort(addr)
	if err != nil || ip == "" || port == "" {
		return false
	}
	if net.ParseIP(ip) == nil {
		return false
	}
	portNum, err := strconv.ParseUint(port, 10, 16)
	return err == nil && portNum > 0 && portNum < 65536
}

// validZoneFile accepts an empty path or one with a supported extension.
func validZoneFile(fl validator.FieldLevel) bool {
	path := fl.Field().String()
	if path == "" {
		return true
	}
	return slices.Contains(zone.SupportedExtensions, strings.ToLower(filepath.Ext(path)))
}

// envLoader loads DNS_* variables, lowercasing keys and splitting values on
// commas or spaces into lists. Tests replace it.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "DNS_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "DNS_"))
			value = strings.TrimSpace(value)

			if value == "" {
				return key, value
			}

			if strings.Contains(value, " ") || strings.Contains(value, ",") {
				parts := strings.FieldsFunc(value, func(r rune) bool {
					return r == ' ' || r == ','
				})
				return key, parts
			}

			return key, value
		},
	}), nil)
}

// defaultLoader loads DEFAULT_APP_CONFIG through the structs provider.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// registerValidation installs the custom "ip_port" and "zone_file" tags.
var registerValidation = func(v *validator.Validate) error {
	if err := v.RegisterValidation("ip_port", validIPPort); err != nil {
		return err
	}
	return v.RegisterValidation("zone_file", validZoneFile)
}

// Load parses environment variables and returns an AppConfig instance.
// It applies default values and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidation(validate); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
