// Package config loads server configuration from a .env file (when present)
// overlaid with process environment variables.
package config

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config captures everything main needs to wire the server.
type Config struct {
	Addr        string
	DatabaseURL string
	LogLevel    string

	// Request-defense knobs. All externally configurable: the pipeline
	// never hard-codes them.
	RequestTimeout   time.Duration
	MaxPayloadBytes  int64
	RateLimitWindow  time.Duration
	RateLimitMax     int
	RateLimitReapInt time.Duration

	// TrustedProxies lists CIDR prefixes allowed to set X-Forwarded-For.
	TrustedProxies []netip.Prefix
}

// Defaults returns the configuration used when nothing is set externally.
// Rate limit defaults follow the strictest documented policy: 10 requests
// per 60 seconds per client address.
func Defaults() *Config {
	return &Config{
		Addr:             ":8080",
		LogLevel:         "info",
		RequestTimeout:   30 * time.Second,
		MaxPayloadBytes:  1 << 20,
		RateLimitWindow:  60 * time.Second,
		RateLimitMax:     10,
		RateLimitReapInt: 5 * time.Minute,
	}
}

// Load builds a Config from the given .env file (ignored when absent) and the
// process environment. Environment variables win over file values.
func Load(envFile string) (*Config, error) {
	k := koanf.New(".")

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := k.Load(file.Provider(envFile), dotenv.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", envFile, err)
			}
		}
	}

	if err := k.Load(env.Provider("", ".", nil), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	return fromKoanf(k)
}

func fromKoanf(k *koanf.Koanf) (*Config, error) {
	cfg := Defaults()

	if v := k.String("SERVER_ADDR"); v != "" {
		cfg.Addr = v
	}
	cfg.DatabaseURL = k.String("DATABASE_URL")
	if v := k.String("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if v := k.String("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}

	if v := k.String("MAX_PAYLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("MAX_PAYLOAD_BYTES: invalid value %q", v)
		}
		cfg.MaxPayloadBytes = n
	}

	if v := k.String("RATE_LIMIT_WINDOW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("RATE_LIMIT_WINDOW: invalid value %q", v)
		}
		cfg.RateLimitWindow = d
	}

	if v := k.String("RATE_LIMIT_MAX_REQUESTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("RATE_LIMIT_MAX_REQUESTS: invalid value %q", v)
		}
		cfg.RateLimitMax = n
	}

	if v := k.String("RATE_LIMIT_REAP_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("RATE_LIMIT_REAP_INTERVAL: invalid value %q", v)
		}
		cfg.RateLimitReapInt = d
	}

	if v := k.String("TRUSTED_PROXIES"); v != "" {
		prefixes, err := parsePrefixes(v)
		if err != nil {
			return nil, err
		}
		cfg.TrustedProxies = prefixes
	}

	return cfg, nil
}

func parsePrefixes(list string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		p, err := netip.ParsePrefix(part)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: invalid prefix %q: %w", part, err)
		}
		prefixes = append(prefixes, p)
	}
	return prefixes, nil
}
