package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	App       AppSettings       `mapstructure:"app"`
	Postgres  PostgresSettings  `mapstructure:"postgres"`
	Redis     RedisSettings     `mapstructure:"redis"`
	Kafka     KafkaSettings     `mapstructure:"kafka"`
	JWT       JWTSettings       `mapstructure:"jwt"`
	RateLimit RateLimitSettings `mapstructure:"rate_limit"`
	Lockout   LockoutSettings   `mapstructure:"lockout"`
	Cache     CacheSettings     `mapstructure:"cache"`
	Argon2    Argon2Settings    `mapstructure:"argon2"`
}

type AppSettings struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type PostgresSettings struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	User              string        `mapstructure:"user"`
	Password          string        `mapstructure:"password"`
	Database          string        `mapstructure:"database"`
	SSLMode           string        `mapstructure:"ssl_mode"`
	MaxConns          int32         `mapstructure:"max_conns"`
	MinConns          int32         `mapstructure:"min_conns"`
	MaxConnLifetime   time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   time.Duration `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod time.Duration `mapstructure:"health_check_period"`
}

// RedisSettings configures the Redis connection and TLS.
type RedisSettings struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	DB         int    `mapstructure:"db"`
	Password   string `mapstructure:"password"`
	TLSEnabled bool   `mapstructure:"tls_enabled"`
	KeyPrefix  string `mapstructure:"key_prefix"`
}

// KafkaSettings configures the Kafka producer.
type KafkaSettings struct {
	Brokers     []string `mapstructure:"brokers"`
	TopicPrefix string   `mapstructure:"topic_prefix"`
	Async       bool     `mapstructure:"async"`
}

type JWTSettings struct {
	Secret         string        `mapstructure:"secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

// RateLimitSettings configures per-scope fixed-window limits.
type RateLimitSettings struct {
	WindowDuration      time.Duration `mapstructure:"window_duration"`
	AnonLimit           int           `mapstructure:"anon_limit"`
	UserLimit           int           `mapstructure:"user_limit"`
	Whitelist           []string      `mapstructure:"whitelist"`
	AbuseAlertThreshold int           `mapstructure:"abuse_alert_threshold"`
	AbuseWindow         time.Duration `mapstructure:"abuse_window"`
}

// LockoutSettings configures account lockout tracking.
type LockoutSettings struct {
	Threshold     int           `mapstructure:"threshold"`
	AttemptWindow time.Duration `mapstructure:"attempt_window"`
	LockDuration  time.Duration `mapstructure:"lock_duration"`
}

// CacheSettings configures per-content-class TTLs and warm-up behaviour.
type CacheSettings struct {
	StaticTTL  time.Duration `mapstructure:"static_ttl"`
	DynamicTTL time.Duration `mapstructure:"dynamic_ttl"`
	ShortTTL   time.Duration `mapstructure:"short_ttl"`
	WarmSurahs bool          `mapstructure:"warm_surahs"`
}

// Argon2Settings configures Argon2id password hashing parameters.
type Argon2Settings struct {
	Memory      uint32 `mapstructure:"memory"`
	Iterations  uint32 `mapstructure:"iterations"`
	Parallelism uint8  `mapstructure:"parallelism"`
	SaltLength  uint32 `mapstructure:"salt_length"`
	KeyLength   uint32 `mapstructure:"key_length"`
}

func Load() (*AppConfig, error) {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("MCA")

	setDefaults(v)

	if err := bindEnvs(v, []string{
		"app.name",
		"app.env",
		"app.host",
		"app.port",
		"postgres.host",
		"postgres.port",
		"postgres.user",
		"postgres.password",
		"postgres.database",
		"postgres.ssl_mode",
		"postgres.max_conns",
		"postgres.min_conns",
		"postgres.max_conn_lifetime",
		"postgres.max_conn_idle_time",
		"postgres.health_check_period",
		"redis.host",
		"redis.port",
		"redis.db",
		"redis.password",
		"redis.tls_enabled",
		"redis.key_prefix",
		"kafka.brokers",
		"kafka.topic_prefix",
		"kafka.async",
		"jwt.secret",
		"jwt.access_token_ttl",
		"rate_limit.window_duration",
		"rate_limit.anon_limit",
		"rate_limit.user_limit",
		"rate_limit.whitelist",
		"rate_limit.abuse_alert_threshold",
		"rate_limit.abuse_window",
		"lockout.threshold",
		"lockout.attempt_window",
		"lockout.lock_duration",
		"cache.static_ttl",
		"cache.dynamic_ttl",
		"cache.short_ttl",
		"cache.warm_surahs",
		"argon2.memory",
		"argon2.iterations",
		"argon2.parallelism",
		"argon2.salt_length",
		"argon2.key_length",
	}); err != nil {
		return nil, err
	}

	v.AutomaticEnv()

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "muslim-companion-api")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "quran")
	v.SetDefault("postgres.password", "quran_password")
	v.SetDefault("postgres.database", "quran")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 2)
	v.SetDefault("postgres.max_conn_lifetime", "60m")
	v.SetDefault("postgres.max_conn_idle_time", "15m")
	v.SetDefault("postgres.health_check_period", "30s")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.tls_enabled", false)
	v.SetDefault("redis.key_prefix", "mca")

	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic_prefix", "mca")
	v.SetDefault("kafka.async", true)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.access_token_ttl", "15m")

	// Anonymous clients get 20 requests per minute, authenticated users 100.
	v.SetDefault("rate_limit.window_duration", "1m")
	v.SetDefault("rate_limit.anon_limit", 20)
	v.SetDefault("rate_limit.user_limit", 100)
	v.SetDefault("rate_limit.whitelist", []string{})
	v.SetDefault("rate_limit.abuse_alert_threshold", 10)
	v.SetDefault("rate_limit.abuse_window", "1h")

	// 10 failed logins within a sliding hour lock the account for an hour.
	v.SetDefault("lockout.threshold", 10)
	v.SetDefault("lockout.attempt_window", "1h")
	v.SetDefault("lockout.lock_duration", "1h")

	// Static content (Quran text, reciters, translations) lives 7 days; dynamic
	// per-user content 1 hour.
	v.SetDefault("cache.static_ttl", "168h")
	v.SetDefault("cache.dynamic_ttl", "1h")
	v.SetDefault("cache.short_ttl", "5m")
	v.SetDefault("cache.warm_surahs", false)

	v.SetDefault("argon2.memory", 65536)
	v.SetDefault("argon2.iterations", 3)
	v.SetDefault("argon2.parallelism", 4)
	v.SetDefault("argon2.salt_length", 16)
	v.SetDefault("argon2.key_length", 32)
}

func bindEnvs(v *viper.Viper, keys []string) error {
	for _, key := range keys {
		envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, "MCA_"+envKey, envKey); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return nil
}
