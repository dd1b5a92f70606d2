package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnvFile             = ".env"
	defaultPort                = "8080"
	defaultReadTimeout         = 15 * time.Second
	defaultWriteTimeout        = 30 * time.Second
	defaultIdleTimeout         = 120 * time.Second
	defaultShutdownTimeout     = 20 * time.Second
	defaultEnvironment         = "local"
	defaultLogLevel            = "info"
	defaultRateLimitPerMinute  = 120
	defaultJWTIssuer           = "sanduta.art"
	defaultJWTAudience         = "sanduta-storefront"
	defaultAnonymousCartHeader = "X-Session-Id"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server     ServerConfig
	Security   SecurityConfig
	CORS       CORSConfig
	RateLimits RateLimitConfig
	Pricing    PricingConfig
	Catalog    CatalogConfig
	LogLevel   string
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// SecurityConfig stores authentication settings. AnonymousCartHeader names the
// header that identifies guest carts when no bearer token is presented.
type SecurityConfig struct {
	Environment         string
	JWTSecret           string
	JWTIssuer           string
	JWTAudience         string
	AllowAnonymousCarts bool
	AnonymousCartHeader string
}

// CORSConfig lists browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string
}

// RateLimitConfig bounds request rates per client.
type RateLimitConfig struct {
	RequestsPerMinute int
}

// PricingConfig carries quantity tier overrides as "minQty:percent" pairs.
type PricingConfig struct {
	TierOverrides []TierOverride
}

// TierOverride is a single parsed quantity tier.
type TierOverride struct {
	MinQuantity     int
	DiscountPercent int
}

// CatalogConfig toggles demo catalog seeding for local development.
type CatalogConfig struct {
	SeedDemoData bool
}

// ValidationError reports configuration fields that failed validation.
type ValidationError struct {
	fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", strings.Join(e.fields, ", "))
}

// Fields returns the invalid field names.
func (e *ValidationError) Fields() []string {
	return append([]string(nil), e.fields...)
}

type options struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// Option customises configuration loading.
type Option func(*options)

// WithEnvFile overrides the dotenv file path consulted before system env.
func WithEnvFile(path string) Option {
	return func(o *options) { o.envFile = path }
}

// WithEnvMap supplies values directly, taking precedence over every source.
func WithEnvMap(values map[string]string) Option {
	return func(o *options) { o.envMap = values }
}

// WithoutSystemEnv ignores the process environment, useful in tests.
func WithoutSystemEnv() Option {
	return func(o *options) { o.useSystemEnv = false }
}

// Load reads configuration from the dotenv file, the process environment, and
// any explicit overrides, then validates the result.
func Load(opts ...Option) (Config, error) {
	o := options{envFile: defaultEnvFile, useSystemEnv: true}
	for _, opt := range opts {
		opt(&o)
	}

	fileValues := map[string]string{}
	if o.envFile != "" {
		if loaded, err := godotenv.Read(o.envFile); err == nil {
			fileValues = loaded
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: read %s: %w", o.envFile, err)
		}
	}

	lookup := func(key string) (string, bool) {
		if o.envMap != nil {
			if value, ok := o.envMap[key]; ok {
				return value, true
			}
		}
		if o.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		value, ok := fileValues[key]
		return value, ok
	}

	tiers, err := parseTierOverrides(stringWithDefault(lookup, "PRICING_TIERS", ""))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Server: ServerConfig{
			Port:            stringWithDefault(lookup, "PORT", defaultPort),
			ReadTimeout:     durationWithDefault(lookup, "SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:    durationWithDefault(lookup, "SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:     durationWithDefault(lookup, "SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
			ShutdownTimeout: durationWithDefault(lookup, "SERVER_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		},
		Security: SecurityConfig{
			Environment:         stringWithDefault(lookup, "ENVIRONMENT", defaultEnvironment),
			JWTSecret:           stringWithDefault(lookup, "AUTH_JWT_SECRET", ""),
			JWTIssuer:           stringWithDefault(lookup, "AUTH_JWT_ISSUER", defaultJWTIssuer),
			JWTAudience:         stringWithDefault(lookup, "AUTH_JWT_AUDIENCE", defaultJWTAudience),
			AllowAnonymousCarts: boolWithDefault(lookup, "AUTH_ALLOW_ANONYMOUS_CARTS", true),
			AnonymousCartHeader: stringWithDefault(lookup, "AUTH_ANONYMOUS_CART_HEADER", defaultAnonymousCartHeader),
		},
		CORS: CORSConfig{
			AllowedOrigins: csvWithDefault(lookup, "CORS_ALLOWED_ORIGINS"),
		},
		RateLimits: RateLimitConfig{
			RequestsPerMinute: intWithDefault(lookup, "RATE_LIMIT_PER_MINUTE", defaultRateLimitPerMinute),
		},
		Pricing: PricingConfig{TierOverrides: tiers},
		Catalog: CatalogConfig{
			SeedDemoData: boolWithDefault(lookup, "CATALOG_SEED_DEMO_DATA", true),
		},
		LogLevel: stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel),
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var invalid []string
	if strings.TrimSpace(cfg.Server.Port) == "" {
		invalid = append(invalid, "PORT")
	}
	if cfg.RateLimits.RequestsPerMinute <= 0 {
		invalid = append(invalid, "RATE_LIMIT_PER_MINUTE")
	}
	if cfg.Security.Environment != "local" && strings.TrimSpace(cfg.Security.JWTSecret) == "" {
		invalid = append(invalid, "AUTH_JWT_SECRET")
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return &ValidationError{fields: invalid}
	}
	return nil
}

// parseTierOverrides reads the "50:5,100:10" form.
func parseTierOverrides(raw string) ([]TierOverride, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var tiers []TierOverride
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		minPart, percentPart, found := strings.Cut(pair, ":")
		if !found {
			return nil, fmt.Errorf("config: malformed PRICING_TIERS entry %q", pair)
		}
		minQty, err := strconv.Atoi(strings.TrimSpace(minPart))
		if err != nil || minQty <= 0 {
			return nil, fmt.Errorf("config: malformed PRICING_TIERS entry %q", pair)
		}
		percent, err := strconv.Atoi(strings.TrimSpace(percentPart))
		if err != nil || percent < 0 || percent > 100 {
			return nil, fmt.Errorf("config: malformed PRICING_TIERS entry %q", pair)
		}
		tiers = append(tiers, TierOverride{MinQuantity: minQty, DiscountPercent: percent})
	}
	return tiers, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok {
		if parsed, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return fallback
}

func csvWithDefault(lookup func(string) (string, bool), key string) []string {
	value, ok := lookup(key)
	if !ok {
		return nil
	}
	parts := strings.Split(value, ",")
	var cleaned []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			cleaned = append(cleaned, part)
		}
	}
	return cleaned
}
