package configs

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Calendar CalendarConfig `mapstructure:"calendar"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	CORSOrigins    []string      `mapstructure:"cors_origins"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RateLimitMax   int           `mapstructure:"rate_limit_max"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	SlowThreshold   time.Duration `mapstructure:"slow_threshold"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN builds the driver specific connection string. MySQL sessions are pinned
// to UTC so DATETIME columns round-trip as UTC instants.
func (c DatabaseConfig) DSN() string {
	if c.Driver == DriverMySQL {
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = fmt.Sprintf("%s:%d", c.Host, c.Port)
		mc.DBName = c.Name
		mc.ParseTime = true
		mc.Loc = time.UTC
		mc.MultiStatements = true
		mc.Params = map[string]string{"charset": "utf8mb4"}
		return mc.FormatDSN()
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s&application_name=ministryhub&options=-c%%20statement_timeout=5000",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AuthConfig struct {
	JWTSecret           string `mapstructure:"jwt_secret"`
	AllowCookieFallback bool   `mapstructure:"allow_cookie_fallback"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CalendarConfig tunes the lazy instance materializer and its warm-up job.
type CalendarConfig struct {
	DefaultTimezone    string `mapstructure:"default_timezone"`
	EnforceRepeatUntil bool   `mapstructure:"enforce_repeat_until"`
	Transactional      bool   `mapstructure:"transactional"`
	MaxRangeDays       int    `mapstructure:"max_range_days"`
	WarmSchedule       string `mapstructure:"warm_schedule"`
	WarmHorizonDays    int    `mapstructure:"warm_horizon_days"`
	PurgeSchedule      string `mapstructure:"purge_schedule"`
}

// =======================
// ENV LOADER
// =======================

// LoadEnv loads .env into the process environment outside managed hosts.
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") != "" {
		log.Println("🚀 Running on Railway, using system ENV")
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env not found, using system ENV")
		return
	}
	log.Println("✅ .env loaded")
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// =======================
// CONFIG LOADER
// =======================

// Load resolves configuration with precedence env > config file > defaults.
// An empty path searches ./config.yaml and ./configs/config.yaml.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// legacy names still used by deployments
	_ = v.BindEnv("server.port", "SERVER_PORT", "PORT")
	_ = v.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET", "JWT_SECRET")

	if err := v.ReadInConfig(); err != nil {
		// without a config file only defaults and env apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.request_timeout", "5s")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "90s")
	v.SetDefault("server.rate_limit_max", 100)

	v.SetDefault("db.driver", DriverPostgres)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "ministryhub")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_idle_time", "60s")
	v.SetDefault("db.conn_max_lifetime", "10m")
	v.SetDefault("db.slow_threshold", "200ms")
	v.SetDefault("db.auto_migrate", true)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.allow_cookie_fallback", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("calendar.default_timezone", "UTC")
	v.SetDefault("calendar.enforce_repeat_until", false)
	v.SetDefault("calendar.transactional", false)
	v.SetDefault("calendar.max_range_days", 366)
	v.SetDefault("calendar.warm_schedule", "")
	v.SetDefault("calendar.warm_horizon_days", 28)
	v.SetDefault("calendar.purge_schedule", "@daily")
}

// Validate checks the settings the server cannot run without.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("config: auth.jwt_secret must be at least 16 characters")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port must be within 1-65535")
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverMySQL:
	default:
		return fmt.Errorf("config: unsupported db.driver %q", c.Database.Driver)
	}
	if _, err := time.LoadLocation(c.Calendar.DefaultTimezone); err != nil {
		return fmt.Errorf("config: calendar.default_timezone: %w", err)
	}
	if c.Calendar.MaxRangeDays <= 0 {
		return fmt.Errorf("config: calendar.max_range_days must be positive")
	}
	if c.Calendar.WarmHorizonDays < 0 || c.Calendar.WarmHorizonDays >= c.Calendar.MaxRangeDays {
		return fmt.Errorf("config: calendar.warm_horizon_days must be below max_range_days")
	}
	return nil
}
