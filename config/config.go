package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/radhian/expense-reconciliation/consts"
	"github.com/radhian/expense-reconciliation/usecase/matcher"
	"github.com/radhian/expense-reconciliation/usecase/normalizer"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel string         `yaml:"log_level"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Cron     CronConfig     `yaml:"cron"`
	Rules    Rules          `yaml:"rules"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable password=%s", d.Host, d.Port, d.User, d.Name, d.Password)
}

type StorageConfig struct {
	UploadDir string `yaml:"upload_dir"`
	ReportDir string `yaml:"report_dir"`
}

type CronConfig struct {
	Schedule string `yaml:"schedule"`
	Workers  int    `yaml:"workers"`
}

// Rules are the matching constants that deployments may override.
type Rules struct {
	Categories      map[string]string `yaml:"categories"`
	ShiftThreshold  string            `yaml:"shift_threshold"`
	ValidatedStatus string            `yaml:"validated_status"`
	TolerancePass   bool              `yaml:"tolerance_pass"`
	AggregationPass bool              `yaml:"aggregation_pass"`
	Tolerance       string            `yaml:"tolerance"`
	DateTolerance   int               `yaml:"date_tolerance_days"`
}

func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads .env (when present), then the YAML file at path (when present),
// then environment overrides, and validates the rules.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("[Config] Ignoring .env: %v", err)
	}

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			log.Warnf("[Config] %s not found, using defaults", path)
		case err != nil:
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if _, err := cfg.Rules.NormalizerConfig(); err != nil {
		return cfg, err
	}
	if _, err := cfg.Rules.MatcherConfig(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	override := func(target *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*target = v
		}
	}
	override(&c.LogLevel, "LOG_LEVEL")
	override(&c.Server.Port, "PORT")
	override(&c.Database.Host, "DB_HOST")
	override(&c.Database.Port, "DB_PORT")
	override(&c.Database.User, "DB_USER")
	override(&c.Database.Name, "DB_NAME")
	override(&c.Database.Password, "DB_PASSWORD")
	override(&c.Storage.UploadDir, "UPLOAD_DIR")
	override(&c.Storage.ReportDir, "REPORT_DIR")
	override(&c.Cron.Schedule, "CRON_SCHEDULE")
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Server.Port == "" {
		c.Server.Port = consts.DefaultPort
	}
	if c.Storage.UploadDir == "" {
		c.Storage.UploadDir = consts.DefaultUploadDir
	}
	if c.Storage.ReportDir == "" {
		c.Storage.ReportDir = consts.DefaultReportDir
	}
	if c.Cron.Schedule == "" {
		c.Cron.Schedule = consts.DefaultCronSchedule
	}
	if c.Cron.Workers <= 0 {
		c.Cron.Workers = consts.DefaultWorkerNumber
	}
	if c.Rules.Categories == nil {
		c.Rules.Categories = normalizer.DefaultCategories()
	}
	if c.Rules.ShiftThreshold == "" {
		c.Rules.ShiftThreshold = consts.DefaultShiftThreshold
	}
	if c.Rules.ValidatedStatus == "" {
		c.Rules.ValidatedStatus = consts.DefaultValidatedStatus
	}
	if c.Rules.Tolerance == "" {
		c.Rules.Tolerance = consts.DefaultTolerance
	}
	if c.Rules.DateTolerance <= 0 {
		c.Rules.DateTolerance = consts.DefaultDateToleranceDay
	}
}

func (r Rules) NormalizerConfig() (normalizer.Config, error) {
	shiftAt, err := normalizer.ParseClock(r.ShiftThreshold)
	if err != nil {
		return normalizer.Config{}, fmt.Errorf("rules.shift_threshold: %w", err)
	}
	return normalizer.Config{
		Categories:      r.Categories,
		ShiftAt:         shiftAt,
		ValidatedStatus: r.ValidatedStatus,
	}, nil
}

func (r Rules) MatcherConfig() (matcher.Config, error) {
	tolerance, err := decimal.NewFromString(r.Tolerance)
	if err != nil {
		return matcher.Config{}, fmt.Errorf("rules.tolerance %q: %w", r.Tolerance, err)
	}
	if tolerance.IsNegative() {
		return matcher.Config{}, fmt.Errorf("rules.tolerance must not be negative, got %s", r.Tolerance)
	}
	return matcher.Config{
		TolerancePass:     r.TolerancePass,
		AggregationPass:   r.AggregationPass,
		Tolerance:         tolerance,
		DateToleranceDays: r.DateTolerance,
	}, nil
}

// ApplyLogLevel sets the global gommon log level.
func ApplyLogLevel(level string) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		log.SetLevel(log.DEBUG)
	case "warn":
		log.SetLevel(log.WARN)
	case "error":
		log.SetLevel(log.ERROR)
	case "off":
		log.SetLevel(log.OFF)
	default:
		log.SetLevel(log.INFO)
	}
}
