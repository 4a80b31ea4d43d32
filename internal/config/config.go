package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers accepted in STORE_DRIVER.
const (
	DriverFile  = "file"
	DriverMySQL = "mysql"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; every one of them has a documented default
// except the database credentials, which are only needed for the mysql
// driver.
type Config struct {
	Env         string         // application environment (e.g. "dev", "prod")
	Port        string         // HTTP port to listen on
	StoreDriver string         // "file" or "mysql"
	DataFile    string         // JSON document path for the file driver
	DBUser      string         // database username
	DBPass      string         // database password (optional)
	DBHost      string         // database host address
	DBPort      string         // database port number
	DBName      string         // database name
	Capacity    int            // seats per class
	HorizonDays int            // how many days ahead classes can be booked
	Location    *time.Location // timezone of the weekly schedule
	CORSOrigins []string       // allowed CORS origins

	RabbitURL       string // broker URL; events are disabled when empty
	Exchange        string // topic exchange reservation events go to
	ConsumerEnabled bool   // run the reservation log consumer in-process
	LogDir          string // directory the consumer appends reservations.log to
}

// LoadDotEnv loads a .env file from the working directory when one exists.
// Variables already present in the environment win.
func LoadDotEnv() {
	err := godotenv.Load()
	switch {
	case err == nil:
		log.Println("config: loaded .env")
	case errors.Is(err, fs.ErrNotExist):
		// no .env, rely on the process environment
	default:
		log.Printf("config: ignoring unreadable .env: %v", err)
	}
}

// Load reads configuration values from environment variables and validates
// them.  Callers are expected to treat an error as fatal.
func Load() (Config, error) {
	cfg := Config{
		Env:         getenv("APP_ENV", "dev"),
		Port:        getenv("APP_PORT", getenv("PORT", "3000")),
		StoreDriver: strings.ToLower(getenv("STORE_DRIVER", DriverFile)),
		DataFile:    getenv("DATA_FILE", "data.json"),
		DBUser:      getenv("DB_USER", ""),
		DBPass:      getenv("DB_PASS", ""),
		DBHost:      getenv("DB_HOST", ""),
		DBPort:      getenv("DB_PORT", "3306"),
		DBName:      getenv("DB_NAME", ""),
		Capacity:    envInt("CLASS_CAPACITY", 35),
		HorizonDays: envInt("BOOKING_HORIZON_DAYS", 7),
		CORSOrigins: splitList(getenv("CORS_ALLOW_ORIGINS", "*")),

		RabbitURL:       getenv("RABBITMQ_URL", getenv("AMQP_URL", "")),
		Exchange:        getenv("RESERVATION_EXCHANGE", "reservations"),
		ConsumerEnabled: envBool("QUEUE_CONSUMER_ENABLED", false),
		LogDir:          getenv("RESERVATION_LOG_DIR", "logs"),
	}

	tz := getenv("CLASS_TIMEZONE", "Local")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Config{}, fmt.Errorf("invalid CLASS_TIMEZONE %q: %w", tz, err)
	}
	cfg.Location = loc

	switch cfg.StoreDriver {
	case DriverFile:
		if cfg.DataFile == "" {
			return Config{}, errors.New("DATA_FILE must not be empty")
		}
	case DriverMySQL:
		for key, v := range map[string]string{"DB_USER": cfg.DBUser, "DB_HOST": cfg.DBHost, "DB_NAME": cfg.DBName} {
			if v == "" {
				return Config{}, fmt.Errorf("missing required env var for mysql driver: %s", key)
			}
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.Capacity < 1 {
		return Config{}, fmt.Errorf("CLASS_CAPACITY must be positive, got %d", cfg.Capacity)
	}
	if cfg.HorizonDays < 1 {
		return Config{}, fmt.Errorf("BOOKING_HORIZON_DAYS must be positive, got %d", cfg.HorizonDays)
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
