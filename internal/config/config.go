package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment variable read by Load.
// Nested keys use a double underscore: STUDYPLAN_PLANNER__DAILY_HOURS.
const EnvPrefix = "STUDYPLAN_"

// Config is the application configuration.
type Config struct {
	Addr      string  `koanf:"addr" validate:"required"`
	DBPath    string  `koanf:"db_path" validate:"required"`
	ReposDir  string  `koanf:"repos_dir" validate:"required"`
	LogLevel  string  `koanf:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string  `koanf:"log_format" validate:"oneof=text json"`
	Planner   Planner `koanf:"planner"`
	Quiz      Quiz    `koanf:"quiz"`
}

// Planner configures prioritization and scheduling.
type Planner struct {
	DailyHours           float64 `koanf:"daily_hours" validate:"gt=0,lte=24"`
	UrgencyThresholdDays int     `koanf:"urgency_threshold_days" validate:"gte=0"`
	MaxHoursPerTopic     float64 `koanf:"max_hours_per_topic" validate:"gt=0,lte=24"`
	HalfLife             float64 `koanf:"half_life" validate:"gt=0"`
	ForecastDays         int     `koanf:"forecast_days" validate:"gt=0"`
}

// Quiz configures quiz generation. A zero seed means a random seed.
type Quiz struct {
	NumQuestions int    `koanf:"num_questions" validate:"gt=0"`
	Seed         uint64 `koanf:"seed"`
}

var defaults = map[string]interface{}{
	"addr":                           ":8080",
	"db_path":                        ":memory:",
	"repos_dir":                      "repos",
	"log_level":                      "info",
	"log_format":                     "text",
	"planner.daily_hours":            4.0,
	"planner.urgency_threshold_days": 10,
	"planner.max_hours_per_topic":    2.0,
	"planner.half_life":              7.0,
	"planner.forecast_days":          14,
	"quiz.num_questions":             5,
	"quiz.seed":                      uint64(0),
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"addr":          "addr",
	"db":            "db_path",
	"repos-dir":     "repos_dir",
	"log-level":     "log_level",
	"log-format":    "log_format",
	"daily-hours":   "planner.daily_hours",
	"threshold":     "planner.urgency_threshold_days",
	"max-hours":     "planner.max_hours_per_topic",
	"half-life":     "planner.half_life",
	"forecast-days": "planner.forecast_days",
	"questions":     "quiz.num_questions",
	"seed":          "quiz.seed",
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to a YAML configuration file")
	fs.String("addr", ":8080", "HTTP listen address")
	fs.String("db", ":memory:", "SQLite DSN for quiz sessions")
	fs.String("repos-dir", "repos", "Directory where git text sources are checked out")
	fs.String("log-level", "info", "Log level: debug, info, warn, error")
	fs.String("log-format", "text", "Log format: text or json")
	fs.Float64("daily-hours", 4, "Study hours available per day")
	fs.Int("threshold", 10, "Exams closer than this many days raise topic urgency")
	fs.Float64("max-hours", 2, "Maximum hours per topic per day")
	fs.Float64("half-life", 7, "Retention decay constant in days")
	fs.Int("forecast-days", 14, "Number of days in a retention forecast")
	fs.Int("questions", 5, "Number of quiz questions to generate")
	fs.Uint64("seed", 0, "Random seed for quiz generation (0 picks one)")
}

// Load layers defaults, the YAML file named by the --config flag, a .env
// file, STUDYPLAN_ environment variables and finally explicitly set flags.
func Load(fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	for key, val := range defaults {
		if err := k.Set(key, val); err != nil {
			return nil, fmt.Errorf("setting default %s: %w", key, err)
		}
	}

	if fs != nil {
		if path, _ := fs.GetString("config"); path != "" {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		}
	}

	// Ignore error so the app still starts when .env is absent.
	_ = godotenv.Load()

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if fs != nil {
		provider := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(fs, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// envKey turns STUDYPLAN_PLANNER__DAILY_HOURS into planner.daily_hours.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}
