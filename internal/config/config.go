package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreBadger   = "badger"
	StoreMemory   = "memory"
)

type Config struct {
	Env  string `validate:"required"`
	Port int    `validate:"min=1,max=65535"`

	Store string `validate:"oneof=mongo postgres redis badger memory"`

	MongoURI      string
	MongoDatabase string `validate:"required_if=Store mongo"`

	DBURL string `validate:"required_if=Store postgres"`

	RedisAddr     string `validate:"required_if=Store redis"`
	RedisPassword string
	RedisDB       int `validate:"min=0"`

	BadgerDir string

	AdminAddr          string
	OTLPEndpoint       string
	CORSAllowedOrigins []string
	MaxBodyBytes       int64 `validate:"min=1"`
	Introspection      bool
}

// Load reads configuration from the environment, optionally seeded from an
// .env file. Flags that were set take precedence. A missing env file is not
// an error.
func Load(envFile string, flags *pflag.FlagSet) (Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("app_env", "dev")
	v.SetDefault("port", 3000)
	v.SetDefault("store_driver", StoreMongo)
	v.SetDefault("mongo_database", "test")
	v.SetDefault("redis_db", 0)
	v.SetDefault("max_body_bytes", 1<<20)
	v.SetDefault("graphql_introspection", true)

	if flags != nil {
		for key, flag := range map[string]string{
			"port":         "port",
			"store_driver": "store",
			"admin_addr":   "admin-addr",
		} {
			if f := flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", flag, err)
				}
			}
		}
	}

	cfg := Config{
		Env:                v.GetString("app_env"),
		Port:               v.GetInt("port"),
		Store:              strings.ToLower(v.GetString("store_driver")),
		MongoURI:           mongoURI(v),
		MongoDatabase:      v.GetString("mongo_database"),
		DBURL:              buildDBURL(v),
		RedisAddr:          v.GetString("redis_addr"),
		RedisPassword:      v.GetString("redis_password"),
		RedisDB:            v.GetInt("redis_db"),
		BadgerDir:          v.GetString("badger_dir"),
		AdminAddr:          v.GetString("admin_addr"),
		OTLPEndpoint:       v.GetString("otel_exporter_otlp_endpoint"),
		CORSAllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
		MaxBodyBytes:       v.GetInt64("max_body_bytes"),
		Introspection:      v.GetBool("graphql_introspection"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}

	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}

	return nil
}

// mongoURI prefers MONGO_URI and otherwise assembles an SRV connection string
// from the three credential values. Empty when no cluster is configured.
func mongoURI(v *viper.Viper) string {
	if uri := v.GetString("mongo_uri"); uri != "" {
		return uri
	}

	cluster := v.GetString("clustermongodb")
	if cluster == "" {
		return ""
	}

	u := url.URL{
		Scheme:   "mongodb+srv",
		User:     url.UserPassword(v.GetString("usernamemongodb"), v.GetString("passwordmongodb")),
		Host:     cluster,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority",
	}

	return u.String()
}

func buildDBURL(v *viper.Viper) string {
	if dsn := v.GetString("database_url"); dsn != "" {
		return dsn
	}

	get := func(key, fallback string) string {
		if s := v.GetString(key); s != "" {
			return s
		}
		return fallback
	}

	host := get("db_host", "127.0.0.1")
	port := get("db_port", "5432")
	user := get("db_user", "usergraph")
	pass := get("db_password", "usergraph")
	name := get("db_name", "usergraph")
	ssl := get("db_sslmode", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func splitList(s string) []string {
	var out []string

	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}
