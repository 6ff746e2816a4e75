package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env     string        `yaml:"env" env:"ENV" env-default:"local"`
	Jaeger  string        `yaml:"jaeger" env:"JAEGER" env-default:""`
	Log     LogConfig     `yaml:"log"`
	Amadeus AmadeusConfig `yaml:"amadeus"`
	Search  SearchConfig  `yaml:"search"`
	Cache   CacheConfig   `yaml:"cache"`
	Output  OutputConfig  `yaml:"output"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

type AmadeusConfig struct {
	Environment string        `yaml:"environment" env:"AMADEUS_ENVIRONMENT" env-default:"test"`
	APIKey      string        `yaml:"api_key" env:"AMADEUS_API_KEY"`
	APISecret   string        `yaml:"api_secret" env:"AMADEUS_API_SECRET"`
	MaxResults  int           `yaml:"max_results" env:"AMADEUS_MAX_RESULTS" env-default:"20"`
	Timeout     time.Duration `yaml:"timeout" env:"AMADEUS_TIMEOUT" env-default:"30s"`
}

// TravelerConfig is one traveler's origin and personal constraint set.
type TravelerConfig struct {
	Origin               string  `yaml:"origin"`
	MaxStops             int     `yaml:"max_stops" env-default:"0"`
	MaxPrice             float64 `yaml:"max_price" env-default:"1000"`
	MaxDurationHours     float64 `yaml:"max_duration_hours" env-default:"0"`
	MinDepartureOutbound string  `yaml:"min_departure_time_outbound"`
	MinDepartureReturn   string  `yaml:"min_departure_time_return"`
	NearbyRadiusKm       int     `yaml:"nearby_airports_radius_km" env-default:"0"`
}

type SearchConfig struct {
	Person1          TravelerConfig `yaml:"person1"`
	Person2          TravelerConfig `yaml:"person2"`
	DepartureDate    string         `yaml:"departure_date" env:"DEPARTURE_DATE"`
	ReturnDate       string         `yaml:"return_date" env:"RETURN_DATE"`
	FlightType       string         `yaml:"flight_type" env:"FLIGHT_TYPE" env-default:"both"`
	ToleranceHours   float64        `yaml:"arrival_time_tolerance_hours" env-default:"3"`
	DynamicDiscovery bool           `yaml:"dynamic_destinations" env-default:"true"`
	MaxDestinations  int            `yaml:"max_destinations" env-default:"0"`
	Destinations     []string       `yaml:"destinations_to_check"`
}

type CacheConfig struct {
	Backend                   string      `yaml:"backend" env:"CACHE_BACKEND" env-default:"file"`
	Dir                       string      `yaml:"dir" env:"CACHE_DIR" env-default:".cache"`
	FlightsEnabled            bool        `yaml:"flights_enabled" env-default:"true"`
	DestinationExpirationDays int         `yaml:"destination_expiration_days" env-default:"30"`
	Redis                     RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type OutputConfig struct {
	Format              string `yaml:"format" env:"OUTPUT_FORMAT" env-default:"console"`
	CSVFile             string `yaml:"csv_file" env-default:"flight_matches.csv"`
	HTMLFile            string `yaml:"html_file" env-default:"flight_matches.html"`
	HTMLTopDestinations int    `yaml:"html_top_destinations" env-default:"5"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}
	return MustLoadByPath(path)
}

func MustLoadByPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exists: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read the config: " + err.Error())
	}
	if err := cfg.validate(); err != nil {
		panic("invalid config: " + err.Error())
	}

	return &cfg
}

// validate rejects configurations that would fail only after a number of
// provider calls have already been spent.
func (c *Config) validate() error {
	if strings.TrimSpace(c.Amadeus.APIKey) == "" || strings.TrimSpace(c.Amadeus.APISecret) == "" {
		return fmt.Errorf("amadeus api_key and api_secret are required")
	}
	if strings.TrimSpace(c.Search.Person1.Origin) == "" || strings.TrimSpace(c.Search.Person2.Origin) == "" {
		return fmt.Errorf("both person1.origin and person2.origin are required")
	}

	flightType := strings.ToLower(strings.TrimSpace(c.Search.FlightType))
	switch flightType {
	case "both", "outbound", "return":
	default:
		return fmt.Errorf("flight_type must be both, outbound or return, got %q", c.Search.FlightType)
	}

	// Discovery anchors its lookup window on the departure date, so it is
	// required even for return-only searches.
	if strings.TrimSpace(c.Search.DepartureDate) == "" {
		return fmt.Errorf("departure_date is required")
	}
	if flightType != "outbound" && strings.TrimSpace(c.Search.ReturnDate) == "" {
		return fmt.Errorf("return_date is required for flight_type %q", flightType)
	}

	switch c.Cache.Backend {
	case "file", "redis":
	default:
		return fmt.Errorf("cache backend must be file or redis, got %q", c.Cache.Backend)
	}

	if c.Search.ToleranceHours < 0 {
		return fmt.Errorf("arrival_time_tolerance_hours must not be negative")
	}
	return nil
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	if res == "" {
		res = "config/local.yaml"
	}

	return res
}
