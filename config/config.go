package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

// ErrMissingCredential is returned by Validate when a required upstream key is absent.
// The service must not start without it.
var ErrMissingCredential = errors.New("missing required credential")

type Config struct {
	Mode   string `mapstructure:"mode"`
	Dotenv string `mapstructure:"dotenv"`
	Server struct {
		HTTPPort       string        `mapstructure:"HTTPPort"`
		Timeout        time.Duration `mapstructure:"HTTPTimeout"`
		AllowedOrigins []string      `mapstructure:"allowedOrigins"`
	} `mapstructure:"server"`
	AI struct {
		APIKey      string        `mapstructure:"apiKey"`
		Model       string        `mapstructure:"model"`
		Temperature float32       `mapstructure:"temperature"`
		Timeout     time.Duration `mapstructure:"timeout"`
	} `mapstructure:"ai"`
	Places struct {
		APIKey            string        `mapstructure:"apiKey"`
		BaseURL           string        `mapstructure:"baseURL"`
		Timeout           time.Duration `mapstructure:"timeout"`
		RequestsPerSecond float64       `mapstructure:"requestsPerSecond"`
		Burst             int           `mapstructure:"burst"`
	} `mapstructure:"places"`
	ChatStore struct {
		Backend      string        `mapstructure:"backend"` // memory, redis or postgres
		DefaultLimit int           `mapstructure:"defaultLimit"`
		CacheTTL     time.Duration `mapstructure:"cacheTTL"`
	} `mapstructure:"chatStore"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
		Redis struct {
			Addr     string `mapstructure:"addr"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
		} `mapstructure:"redis"`
	} `mapstructure:"repositories"`
	Auth struct {
		JWTSecret string `mapstructure:"jwtSecret"`
	} `mapstructure:"auth"`
	RateLimit struct {
		Requests int           `mapstructure:"requests"`
		Window   time.Duration `mapstructure:"window"`
	} `mapstructure:"rateLimit"`
	Observability struct {
		ServiceName string `mapstructure:"serviceName"`
		MetricsPort string `mapstructure:"metricsPort"`
	} `mapstructure:"observability"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Secrets come from the environment, e.g. AI_APIKEY or PLACES_APIKEY.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindSecrets(v)

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}

// bindSecrets maps the conventional key names onto config keys so they can be
// supplied through .env without nesting.
func bindSecrets(v *viper.Viper) {
	_ = v.BindEnv("ai.apiKey", "AI_APIKEY", "GOOGLE_GEMINI_API_KEY")
	_ = v.BindEnv("places.apiKey", "PLACES_APIKEY", "GOOGLE_PLACES_API_KEY")
	_ = v.BindEnv("auth.jwtSecret", "AUTH_JWTSECRET", "JWT_SECRET_KEY")
	_ = v.BindEnv("repositories.postgres.password", "POSTGRES_PASSWORD")
	_ = v.BindEnv("repositories.redis.password", "REDIS_PASSWORD")
}

// Validate checks the credentials the pipeline cannot run without.
func (c Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.AI.APIKey) == "" {
		missing = append(missing, "ai.apiKey (GOOGLE_GEMINI_API_KEY)")
	}
	if strings.TrimSpace(c.Places.APIKey) == "" {
		missing = append(missing, "places.apiKey (GOOGLE_PLACES_API_KEY)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredential, strings.Join(missing, ", "))
	}
	return nil
}
