package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config agrupa toda la configuración del servicio.
// Orden de precedencia: defaults < archivo YAML < variables de entorno.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Storage   StorageConfig   `yaml:"storage"`
	Supabase  SupabaseConfig  `yaml:"supabase"`
	KV        KVConfig        `yaml:"kv"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	Reminders RemindersConfig `yaml:"reminders"`
}

type ServerConfig struct {
	Port          string `yaml:"port"`
	PublicBaseURL string `yaml:"public_base_url"` // se usa en el QR del PDF
	ReadTimeout   string `yaml:"read_timeout"`
	WriteTimeout  string `yaml:"write_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text, json
	App    string `yaml:"app"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"` // memory, postgres, supabase
	DSN     string `yaml:"dsn"`
}

type SupabaseConfig struct {
	URL        string `yaml:"url"`
	AnonKey    string `yaml:"anon_key"`
	ServiceKey string `yaml:"service_key"` // opcional; si falta, las tablas usan anon_key
	Timeout    string `yaml:"timeout"`
}

type KVConfig struct {
	Backend       string `yaml:"backend"` // memory, redis, sqlite
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	SQLitePath    string `yaml:"sqlite_path"`
}

type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type RemindersConfig struct {
	Interval string `yaml:"interval"` // "0" desactiva
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:          "8080",
			PublicBaseURL: "http://localhost:8080",
			ReadTimeout:   "5s",
			WriteTimeout:  "10s",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			App:    "baby-health-tracker",
		},
		Storage: StorageConfig{Backend: "memory"},
		Supabase: SupabaseConfig{
			Timeout: "10s",
		},
		KV: KVConfig{
			Backend:    "memory",
			RedisAddr:  "localhost:6379",
			SQLitePath: "babytracker-kv.db",
		},
		MQTT: MQTTConfig{
			ClientID: "baby-health-tracker",
		},
		Reminders: RemindersConfig{Interval: "12h"},
	}
}

// Load lee el YAML (si path != "") y aplica overrides de entorno.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("PORT", &c.Server.Port)
	str("PUBLIC_BASE_URL", &c.Server.PublicBaseURL)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("APP_NAME", &c.Log.App)
	str("STORAGE_BACKEND", &c.Storage.Backend)
	str("DB_DSN", &c.Storage.DSN)
	str("SUPABASE_URL", &c.Supabase.URL)
	str("SUPABASE_ANON_KEY", &c.Supabase.AnonKey)
	str("SUPABASE_SERVICE_KEY", &c.Supabase.ServiceKey)
	str("KV_BACKEND", &c.KV.Backend)
	str("REDIS_ADDR", &c.KV.RedisAddr)
	str("REDIS_PASSWORD", &c.KV.RedisPassword)
	str("KV_SQLITE_PATH", &c.KV.SQLitePath)
	str("MQTT_BROKER", &c.MQTT.Broker)
	str("MQTT_CLIENT_ID", &c.MQTT.ClientID)
	str("MQTT_USERNAME", &c.MQTT.Username)
	str("MQTT_PASSWORD", &c.MQTT.Password)
	str("REMINDER_INTERVAL", &c.Reminders.Interval)

	if v, ok := lookup("REDIS_DB"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("REDIS_DB must be an integer: %w", err)
		}
		c.KV.RedisDB = n
	}

	// Compat: si viene DB_DSN sin backend explícito, asumimos postgres.
	if c.Storage.DSN != "" && c.Storage.Backend == "memory" {
		if _, explicit := lookup("STORAGE_BACKEND"); !explicit {
			c.Storage.Backend = "postgres"
		}
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case "memory", "postgres", "supabase":
	default:
		return fmt.Errorf("storage.backend %q not supported", c.Storage.Backend)
	}
	if c.Storage.Backend == "postgres" && strings.TrimSpace(c.Storage.DSN) == "" {
		return fmt.Errorf("storage.dsn required for postgres backend")
	}
	if c.Storage.Backend == "supabase" && !c.Supabase.Configured() {
		return fmt.Errorf("supabase.url and supabase.anon_key required for supabase backend")
	}

	switch c.KV.Backend {
	case "memory", "redis", "sqlite":
	default:
		return fmt.Errorf("kv.backend %q not supported", c.KV.Backend)
	}

	for name, v := range map[string]string{
		"server.read_timeout":  c.Server.ReadTimeout,
		"server.write_timeout": c.Server.WriteTimeout,
		"supabase.timeout":     c.Supabase.Timeout,
		"reminders.interval":   c.Reminders.Interval,
	} {
		if _, err := parseDuration(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func (s SupabaseConfig) Configured() bool {
	return strings.TrimSpace(s.URL) != "" && strings.TrimSpace(s.AnonKey) != ""
}

func (s SupabaseConfig) TimeoutDuration() time.Duration {
	d, _ := parseDuration(s.Timeout)
	return d
}

func (s ServerConfig) Addr() string {
	return ":" + strings.TrimPrefix(s.Port, ":")
}

func (s ServerConfig) ReadTimeoutDuration() time.Duration {
	d, _ := parseDuration(s.ReadTimeout)
	return d
}

func (s ServerConfig) WriteTimeoutDuration() time.Duration {
	d, _ := parseDuration(s.WriteTimeout)
	return d
}

func (r RemindersConfig) IntervalDuration() time.Duration {
	d, _ := parseDuration(r.Interval)
	return d
}

// parseDuration acepta "" y "0" como cero.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
