package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración compartida por los servicios auth y user.
type Config struct {
	HTTPPort           string        `env:"HTTP_PORT"`
	AccessTokenSecret  string        `env:"ACCESS_TOKEN_SECRET,required,notEmpty"`
	TokenExpiryMinutes int           `env:"TOKEN_EXPIRY_TIME" envDefault:"15"`
	StoreURL           string        `env:"STORE_URL" envDefault:"mongodb://mongo:27017/simple-microservice"`
	ReconnectInterval  time.Duration `env:"STORE_RECONNECT_INTERVAL" envDefault:"5s"`
	BcryptCost         int           `env:"BCRYPT_COST" envDefault:"8"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// TokenTTL devuelve la duracion de los access tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenExpiryMinutes) * time.Minute
}

// Port devuelve HTTP_PORT o el puerto por defecto del binario.
func (c *Config) Port(fallback string) string {
	if c.HTTPPort == "" {
		return fallback
	}
	return c.HTTPPort
}
