// AngelaMos | 2026
// config.go

package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	JWT       JWTConfig       `koanf:"jwt"`
	Session   SessionConfig   `koanf:"session"`
	Auth      AuthConfig      `koanf:"auth"`
	OIDC      OIDCConfig      `koanf:"oidc"`
	Orders    OrdersConfig    `koanf:"orders"`
	Seed      SeedConfig      `koanf:"seed"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	CORS      CORSConfig      `koanf:"cors"`
	Log       LogConfig       `koanf:"log"`
	Otel      OtelConfig      `koanf:"otel"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
	BaseURL     string `koanf:"base_url"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

// JWTConfig configures the bearer access tokens minted for API clients
// that cannot carry the session cookie.
type JWTConfig struct {
	PrivateKeyPath    string        `koanf:"private_key_path"`
	PublicKeyPath     string        `koanf:"public_key_path"`
	AccessTokenExpire time.Duration `koanf:"access_token_expire"`
	Issuer            string        `koanf:"issuer"`
	Audience          string        `koanf:"audience"`
	GenerateIfMissing bool          `koanf:"generate_if_missing"`
}

type SessionConfig struct {
	Secret     string        `koanf:"secret"`
	CookieName string        `koanf:"cookie_name"`
	TTL        time.Duration `koanf:"ttl"`
	Secure     bool          `koanf:"secure"`
	StateTTL   time.Duration `koanf:"state_ttl"`
}

type AuthConfig struct {
	Mode string `koanf:"mode"`
}

type OIDCConfig struct {
	IssuerURL             string        `koanf:"issuer_url"`
	ClientID              string        `koanf:"client_id"`
	ClientSecret          string        `koanf:"client_secret"`
	RedirectURL           string        `koanf:"redirect_url"`
	PostLogoutRedirectURL string        `koanf:"post_logout_redirect_url"`
	Scopes                []string      `koanf:"scopes"`
	DiscoveryTTL          time.Duration `koanf:"discovery_ttl"`
	HTTPTimeout           time.Duration `koanf:"http_timeout"`
}

type OrdersConfig struct {
	PricePolicy string `koanf:"price_policy"`
	KeyAttempts int    `koanf:"key_attempts"`
}

type SeedConfig struct {
	Enabled bool `koanf:"enabled"`
}

type RateLimitConfig struct {
	Requests        int           `koanf:"requests"`
	Window          time.Duration `koanf:"window"`
	Burst           int           `koanf:"burst"`
	InquiryRequests int           `koanf:"inquiry_requests"`
	InquiryBurst    int           `koanf:"inquiry_burst"`
}

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

const (
	AuthModeOIDC = "oidc"
	AuthModeDemo = "demo"

	PricePolicyCatalog = "catalog"
	PricePolicyRequest = "request"

	minSessionSecretLen = 32
)

// Load layers defaults, the optional YAML file at configPath, then the
// environment, and validates the result.
func Load(configPath string) (*Config, error) {
	return load(configPath)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	c := &Config{}
	if err := k.Unmarshal("", c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(c); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "JJ-P1114 Studio",
		"app.version":     "1.0.0",
		"app.environment": "development",
		"app.base_url":    "http://localhost:5000",

		"server.host":             "0.0.0.0",
		"server.port":             5000,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",

		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",
		"database.auto_migrate":       true,

		"redis.pool_size":      10,
		"redis.min_idle_conns": 5,

		"jwt.access_token_expire": "15m",
		"jwt.issuer":              "jj-p1114-studio",
		"jwt.audience":            "jj-p1114-studio-api",
		"jwt.private_key_path":    "keys/private.pem",
		"jwt.public_key_path":     "keys/public.pem",
		"jwt.generate_if_missing": false,

		"session.cookie_name": "studio.sid",
		"session.ttl":         "168h",
		"session.secure":      true,
		"session.state_ttl":   "10m",

		"auth.mode":          AuthModeOIDC,
		"oidc.scopes":        []string{"openid", "email", "profile", "offline_access"},
		"oidc.discovery_ttl": "1h",
		"oidc.http_timeout":  "10s",

		"orders.price_policy": PricePolicyCatalog,
		"orders.key_attempts": 3,

		"seed.enabled": true,

		"rate_limit.requests":         100,
		"rate_limit.window":           "1m",
		"rate_limit.burst":            20,
		"rate_limit.inquiry_requests": 10,
		"rate_limit.inquiry_burst":    3,

		"cors.allowed_origins": []string{"http://localhost:5000"},
		"cors.allowed_methods": []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
		},
		"cors.allowed_headers": []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
		},
		"cors.allow_credentials": true,
		"cors.max_age":           300,

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "jj-p1114-studio",

		"metrics.enabled": true,
		"metrics.path":    "/metrics",
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"DATABASE_URL":                "database.url",
	"DATABASE_AUTO_MIGRATE":       "database.auto_migrate",
	"REDIS_URL":                   "redis.url",
	"ENVIRONMENT":                 "app.environment",
	"BASE_URL":                    "app.base_url",
	"HOST":                        "server.host",
	"PORT":                        "server.port",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"JWT_PRIVATE_KEY_PATH":        "jwt.private_key_path",
	"JWT_PUBLIC_KEY_PATH":         "jwt.public_key_path",
	"JWT_ACCESS_TOKEN_EXPIRE":     "jwt.access_token_expire",
	"JWT_ISSUER":                  "jwt.issuer",
	"JWT_AUDIENCE":                "jwt.audience",
	"JWT_GENERATE_IF_MISSING":     "jwt.generate_if_missing",
	"SESSION_SECRET":              "session.secret",
	"SESSION_COOKIE_NAME":         "session.cookie_name",
	"SESSION_TTL":                 "session.ttl",
	"SESSION_SECURE":              "session.secure",
	"AUTH_MODE":                   "auth.mode",
	"ISSUER_URL":                  "oidc.issuer_url",
	"OIDC_ISSUER_URL":             "oidc.issuer_url",
	"OIDC_CLIENT_ID":              "oidc.client_id",
	"OIDC_CLIENT_SECRET":          "oidc.client_secret",
	"OIDC_REDIRECT_URL":           "oidc.redirect_url",
	"OIDC_POST_LOGOUT_URL":        "oidc.post_logout_redirect_url",
	"OIDC_DISCOVERY_TTL":          "oidc.discovery_ttl",
	"ORDERS_PRICE_POLICY":         "orders.price_policy",
	"ORDERS_KEY_ATTEMPTS":         "orders.key_attempts",
	"SEED_ENABLED":                "seed.enabled",
	"RATE_LIMIT_REQUESTS":         "rate_limit.requests",
	"RATE_LIMIT_WINDOW":           "rate_limit.window",
	"RATE_LIMIT_BURST":            "rate_limit.burst",
	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
	"METRICS_ENABLED":             "metrics.enabled",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

// validate reports every problem at once so a bad deploy is fixed in one
// round.
func validate(c *Config) error {
	var problems []error
	fail := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf(format, args...))
	}

	if c.Database.URL == "" {
		fail("DATABASE_URL is required")
	}
	if c.Redis.URL == "" {
		fail("REDIS_URL is required")
	}
	if c.JWT.PrivateKeyPath == "" {
		fail("JWT_PRIVATE_KEY_PATH is required")
	}
	if len(c.Session.Secret) < minSessionSecretLen {
		fail("SESSION_SECRET must be at least %d characters", minSessionSecretLen)
	}
	if c.Session.TTL <= 0 {
		fail("session.ttl must be positive")
	}

	switch c.Auth.Mode {
	case AuthModeOIDC:
		if c.OIDC.IssuerURL == "" || c.OIDC.ClientID == "" {
			fail("OIDC_ISSUER_URL and OIDC_CLIENT_ID are required in oidc mode")
		}
		if c.OIDC.RedirectURL == "" {
			fail("OIDC_REDIRECT_URL is required in oidc mode")
		}
	case AuthModeDemo:
	default:
		fail("unknown auth.mode %q", c.Auth.Mode)
	}

	switch c.Orders.PricePolicy {
	case PricePolicyCatalog, PricePolicyRequest:
	default:
		fail("unknown orders.price_policy %q", c.Orders.PricePolicy)
	}
	if c.Orders.KeyAttempts < 1 {
		fail("orders.key_attempts must be at least 1")
	}

	if c.CORS.AllowCredentials && slices.Contains(c.CORS.AllowedOrigins, "*") {
		fail("CORS wildcard '*' cannot be used with allow_credentials")
	}

	if c.IsProduction() {
		if c.Otel.Enabled && c.Otel.Insecure {
			fail("OTEL_INSECURE must be false in production")
		}
		if c.Auth.Mode == AuthModeDemo {
			fail("demo auth mode is not allowed in production")
		}
		if !c.Session.Secure {
			fail("SESSION_SECURE must be true in production")
		}
	}

	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		fail("server read and write timeouts must be positive")
	}

	return errors.Join(problems...)
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
