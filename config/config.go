package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv         string `yaml:"app_env"`
	AppPort        string `yaml:"app_port"`
	UIPort         string `yaml:"ui_port"`
	AllowedOrigins string `yaml:"allowed_origins"`
	LogLevel       string `yaml:"log_level"`

	DBDriver       string `yaml:"db_driver"`
	DBPath         string `yaml:"db_path"`
	DBHost         string `yaml:"db_host"`
	DBPort         string `yaml:"db_port"`
	DBUser         string `yaml:"db_user"`
	DBPassword     string `yaml:"db_password"`
	DBName         string `yaml:"db_name"`
	DBMaxIdleConns int    `yaml:"db_max_idle_conns"`
	DBMaxOpenConns int    `yaml:"db_max_open_conns"`

	NATSURL string `yaml:"nats_url"`

	JWTSecret          string `yaml:"jwt_secret"`
	JWTExpirationHours int    `yaml:"jwt_expiration_hours"`

	// client side
	APIURL    string `yaml:"api_url"`
	TokenFile string `yaml:"token_file"`
}

// Defaults is the configuration used when neither a file nor the
// environment says otherwise.
func Defaults() Config {
	return Config{
		AppEnv:             "development",
		AppPort:            "8000",
		UIPort:             "8080",
		AllowedOrigins:     "*",
		LogLevel:           "info",
		DBDriver:           "sqlite",
		DBPath:             "jotfox.db",
		DBHost:             "localhost",
		DBPort:             "5432",
		DBUser:             "jotfox",
		DBPassword:         "jotfox",
		DBName:             "jotfox",
		DBMaxIdleConns:     10,
		DBMaxOpenConns:     100,
		NATSURL:            "",
		JWTSecret:          "your-super-secret-key-change-this-in-production",
		JWTExpirationHours: 24,
		APIURL:             "http://localhost:8000/api",
		TokenFile:          defaultTokenFile(),
	}
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".jotfox-token"
	}
	return filepath.Join(dir, "jotfox", "token")
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Debug().Str("key", key).Str("default", defaultValue).Msg("env not set, using default")
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Int("default", defaultValue).Msg("invalid integer value, using default")
	}
	return defaultValue
}

// Load reads a .env file if there is one and layers the environment over
// the defaults.
func Load() Config {
	loadDotEnv()
	return fromEnv(Defaults())
}

// LoadFile layers a YAML file over the defaults and the environment over
// both.
func LoadFile(path string) (Config, error) {
	loadDotEnv()

	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return fromEnv(cfg), nil
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("could not read .env")
	}
}

func fromEnv(base Config) Config {
	return Config{
		AppEnv:             getEnv("APP_ENV", base.AppEnv),
		AppPort:            getEnv("APP_PORT", base.AppPort),
		UIPort:             getEnv("UI_PORT", base.UIPort),
		AllowedOrigins:     getEnv("ALLOWED_ORIGINS", base.AllowedOrigins),
		LogLevel:           getEnv("LOG_LEVEL", base.LogLevel),
		DBDriver:           getEnv("DB_DRIVER", base.DBDriver),
		DBPath:             getEnv("DB_PATH", base.DBPath),
		DBHost:             getEnv("DB_HOST", base.DBHost),
		DBPort:             getEnv("DB_PORT", base.DBPort),
		DBUser:             getEnv("DB_USER", base.DBUser),
		DBPassword:         getEnv("DB_PASSWORD", base.DBPassword),
		DBName:             getEnv("DB_NAME", base.DBName),
		DBMaxIdleConns:     getEnvAsInt("DB_MAX_IDLE_CONNS", base.DBMaxIdleConns),
		DBMaxOpenConns:     getEnvAsInt("DB_MAX_OPEN_CONNS", base.DBMaxOpenConns),
		NATSURL:            getEnv("NATS_URL", base.NATSURL),
		JWTSecret:          getEnv("JWT_SECRET", base.JWTSecret),
		JWTExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", base.JWTExpirationHours),
		APIURL:             getEnv("JOTFOX_API_URL", base.APIURL),
		TokenFile:          getEnv("JOTFOX_TOKEN_FILE", base.TokenFile),
	}
}
