package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	StoreDriver string `env:"STORE_DRIVER" envDefault:"sqlite"` // sqlite, mysql, base44

	Database Database `envPrefix:"DB_"`
	Stripe   Stripe   `envPrefix:"STRIPE_"`
	Base44   Base44   `envPrefix:"BASE44_"`
	Auth     Auth     `envPrefix:"AUTH_"`
	Geo      Geo      `envPrefix:"GEO_"`
	Redis    Redis    `envPrefix:"REDIS_"`
}

type Database struct {
	DSN             string        `env:"DSN" envDefault:"file:sweepstakes.db?cache=shared"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"50"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"1h"`
}

type Stripe struct {
	SecretKey        string `env:"SECRET_KEY"`
	WebhookSecret    string `env:"WEBHOOK_SECRET"`
	RequireSignature bool   `env:"REQUIRE_SIGNATURE" envDefault:"false"`
	Currency         string `env:"CURRENCY" envDefault:"usd"`
}

type Base44 struct {
	APIURL       string `env:"API_URL" envDefault:"https://app.base44.com"`
	AppID        string `env:"APP_ID"`
	ServiceToken string `env:"SERVICE_TOKEN"`
}

type Auth struct {
	JWTSecret string `env:"JWT_SECRET"`
}

type Geo struct {
	LookupURL string        `env:"LOOKUP_URL" envDefault:"https://ipapi.co/%s/json/"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"5s"`
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"24h"`
}

type Redis struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

func (e Environment) IsDevelopment() bool {
	return e.Name == "development"
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
