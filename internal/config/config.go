package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds everything the process needs to talk to its collaborators:
// the credential cache, the coupon/order/user store, and the payment gateway.
// Values come from the environment, optionally seeded from a YAML file pointed
// at by CONFIG_PATH.
type Config struct {
	Env     string `yaml:"env" env:"APP_ENV" env-default:"development"`
	Port    string `yaml:"port" env:"PORT" env-default:"8080"`
	AppName string `yaml:"app_name" env:"APP_NAME" env-default:"E-Commerce"`

	// BaseURL is the storefront origin used for gateway redirect targets.
	BaseURL string `yaml:"base_url" env:"BASE_URL" env-default:"http://localhost:3000"`

	AccessTokenSecret  string `yaml:"access_token_secret" env:"ACCESS_TOKEN_SECRET" env-required:"true"`
	RefreshTokenSecret string `yaml:"refresh_token_secret" env:"REFRESH_TOKEN_SECRET" env-required:"true"`

	PostgresDSN   string `yaml:"postgres_dsn" env:"POSTGRES_DSN" env-required:"true"`
	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`

	StripeSecretKey string `yaml:"stripe_secret_key" env:"STRIPE_SECRET_KEY" env-required:"true"`
	Currency        string `yaml:"currency" env:"CURRENCY" env-default:"aud"`

	RewardThresholdCents int64 `yaml:"reward_threshold_cents" env:"REWARD_THRESHOLD_CENTS" env-default:"20000"`

	StoreTimeout    time.Duration `yaml:"store_timeout" env:"STORE_TIMEOUT" env-default:"3s"`
	GatewayTimeout  time.Duration `yaml:"gateway_timeout" env:"GATEWAY_TIMEOUT" env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// MustLoad reads the configuration or exits. Startup without a complete
// configuration is not a state worth limping along in.
func MustLoad() *Config {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			log.Fatalf("error loading config from %s: %v", path, err)
		}
		return &cfg
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("error loading config from environment: %v", err)
	}
	return &cfg
}

// IsDevelopment reports whether the process runs in local development. Cookie
// security relaxes only in this mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
