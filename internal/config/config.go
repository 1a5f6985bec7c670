package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds process configuration. Everything that describes *how* the
// tool runs lives here; the generation scenario itself is loaded separately
// from the scenario file (see scenario.go).
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	ScenarioFile  string
	WatchScenario bool

	Sinks SinkConfig

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
}

// SinkConfig toggles the output sinks and carries their endpoints.
type SinkConfig struct {
	Warehouse bool

	Parquet    bool
	ParquetDir string

	Kafka        bool
	KafkaBrokers []string
	KafkaTopic   string

	InfluxDB     bool
	InfluxURL    string
	InfluxToken  string
	InfluxOrg    string
	InfluxBucket string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "demogrid"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),

		ScenarioFile:  getenv("SCENARIO_FILE", "scenario.yml"),
		WatchScenario: getenvBool("WATCH_SCENARIO", false),

		Sinks: SinkConfig{
			Warehouse:    getenvBool("SINK_WAREHOUSE", true),
			Parquet:      getenvBool("SINK_PARQUET", false),
			ParquetDir:   getenv("PARQUET_DIR", "out"),
			Kafka:        getenvBool("SINK_KAFKA", false),
			KafkaBrokers: parseList(getenv("KAFKA_BROKERS", "localhost:9092")),
			KafkaTopic:   getenv("KAFKA_TOPIC", "smart-meter-readings"),
			InfluxDB:     getenvBool("SINK_INFLUXDB", false),
			InfluxURL:    getenv("INFLUXDB_URL", "http://localhost:8086"),
			InfluxToken:  getenv("INFLUXDB_TOKEN", ""),
			InfluxOrg:    getenv("INFLUXDB_ORG", "demogrid"),
			InfluxBucket: getenv("INFLUXDB_BUCKET", "energy"),
		},

		// sqlite keeps the default run self-contained; point DATABASE_TYPE
		// at postgres or mysql to load a real warehouse.
		DBType:            getenv("DATABASE_TYPE", "sqlite"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "demogrid.db"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 2),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 5),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 0),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 0),
	}

	return cfg
}

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(ProvideScenarioHolder),
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func parseList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
