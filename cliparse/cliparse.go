// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	LogLevel     string

	// Secrets
	AdminKey      string
	UserTokenSalt string

	// Daily question lifecycle
	HomeZone           string
	Location           *time.Location
	PublishWindowStart string
	PublishWindowEnd   string
	SelectSchedule     string
	CheckSchedule      string
	JobTimeout         time.Duration

	// Answers
	MaxAnswerLength int
	OnTimeWindow    time.Duration

	// Push gateway
	PushGatewayURL  string
	PushBatchSize   int
	PushConcurrency int
	PushTimeout     time.Duration
	PushAttempts    int

	// Store calls
	StoreTimeout  time.Duration
	StoreAttempts int
}

// LoadDotEnv loads a .env file into the environment if one exists.
// Variables already set in the environment win.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ParseFlags validates flags and falls back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var port, maxLen, batchSize, concurrency, storeAttempts, pushAttempts int
	var onTime, storeTimeout, pushTimeout, jobTimeout time.Duration

	fs := flag.NewFlagSet("dailyq", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKey, "admin-key", "", "Admin key (prefer env)")
	fs.StringVar(&cfg.UserTokenSalt, "token-salt", "", "User token salt (prefer env)")

	fs.StringVar(&cfg.HomeZone, "zone", "", "Home time zone for calendar days")
	fs.StringVar(&cfg.PublishWindowStart, "window-start", "", "Publish window start (HH:MM)")
	fs.StringVar(&cfg.PublishWindowEnd, "window-end", "", "Publish window end (HH:MM)")
	fs.StringVar(&cfg.SelectSchedule, "select-schedule", "", "Cron spec for select-and-schedule")
	fs.StringVar(&cfg.CheckSchedule, "check-schedule", "", "Cron spec for check-and-publish")
	fs.DurationVar(&jobTimeout, "job-timeout", 0, "Timeout for one scheduled job run")

	fs.IntVar(&maxLen, "max-answer-length", 0, "Maximum answer length in characters")
	fs.DurationVar(&onTime, "on-time-window", 0, "Grace period after publish before answers are late")

	fs.StringVar(&cfg.PushGatewayURL, "push-url", "", "Push gateway endpoint")
	fs.IntVar(&batchSize, "push-batch-size", 0, "Push destinations per gateway call")
	fs.IntVar(&concurrency, "push-concurrency", 0, "Concurrent gateway calls")
	fs.DurationVar(&pushTimeout, "push-timeout", 0, "Timeout for one gateway call")
	fs.IntVar(&pushAttempts, "push-attempts", 0, "Attempts per gateway call")

	fs.DurationVar(&storeTimeout, "store-timeout", 0, "Timeout for one store call")
	fs.IntVar(&storeAttempts, "store-attempts", 0, "Attempts per store call")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	var err error
	if cfg.Port, err = intSetting(port, "PORT", 3318); err != nil {
		return Config{}, err
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	cfg.DatabaseType = stringSetting(cfg.DatabaseType, "DATABASE_TYPE", "postgres")
	if cfg.DatabaseType != "postgres" && cfg.DatabaseType != "sqlite" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
	cfg.LogLevel = stringSetting(cfg.LogLevel, "LOG_LEVEL", "info")

	// Secrets - MUST be provided
	cfg.AdminKey = stringSetting(cfg.AdminKey, "ADMIN_KEY", "")
	if cfg.AdminKey == "" {
		return Config{}, errors.New("ADMIN_KEY required")
	}
	cfg.UserTokenSalt = stringSetting(cfg.UserTokenSalt, "USER_TOKEN_SALT", "")
	if cfg.UserTokenSalt == "" {
		return Config{}, errors.New("USER_TOKEN_SALT required")
	}

	cfg.HomeZone = stringSetting(cfg.HomeZone, "HOME_ZONE", "Asia/Tokyo")
	if cfg.Location, err = time.LoadLocation(cfg.HomeZone); err != nil {
		return Config{}, fmt.Errorf("invalid HOME_ZONE: %w", err)
	}

	cfg.PublishWindowStart = stringSetting(cfg.PublishWindowStart, "PUBLISH_WINDOW_START", "10:00")
	cfg.PublishWindowEnd = stringSetting(cfg.PublishWindowEnd, "PUBLISH_WINDOW_END", "21:00")
	start, err := time.Parse("15:04", cfg.PublishWindowStart)
	if err != nil {
		return Config{}, fmt.Errorf("invalid PUBLISH_WINDOW_START: %w", err)
	}
	end, err := time.Parse("15:04", cfg.PublishWindowEnd)
	if err != nil {
		return Config{}, fmt.Errorf("invalid PUBLISH_WINDOW_END: %w", err)
	}
	if !start.Before(end) {
		return Config{}, errors.New("publish window start must be before its end")
	}

	cfg.SelectSchedule = stringSetting(cfg.SelectSchedule, "SELECT_SCHEDULE", "0 0 * * *")
	cfg.CheckSchedule = stringSetting(cfg.CheckSchedule, "CHECK_SCHEDULE", "*/10 * * * *")
	if cfg.JobTimeout, err = durationSetting(jobTimeout, "JOB_TIMEOUT", 2*time.Minute); err != nil {
		return Config{}, err
	}

	if cfg.MaxAnswerLength, err = intSetting(maxLen, "MAX_ANSWER_LENGTH", 200); err != nil {
		return Config{}, err
	}
	if cfg.OnTimeWindow, err = durationSetting(onTime, "ON_TIME_WINDOW", 30*time.Minute); err != nil {
		return Config{}, err
	}

	cfg.PushGatewayURL = stringSetting(cfg.PushGatewayURL, "PUSH_GATEWAY_URL", "https://exp.host/--/api/v2/push/send")
	if cfg.PushBatchSize, err = intSetting(batchSize, "PUSH_BATCH_SIZE", 100); err != nil {
		return Config{}, err
	}
	if cfg.PushBatchSize < 1 || cfg.PushBatchSize > 100 {
		return Config{}, errors.New("PUSH_BATCH_SIZE must be between 1 and 100")
	}
	if cfg.PushConcurrency, err = intSetting(concurrency, "PUSH_CONCURRENCY", 4); err != nil {
		return Config{}, err
	}
	if cfg.PushTimeout, err = durationSetting(pushTimeout, "PUSH_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.PushAttempts, err = intSetting(pushAttempts, "PUSH_ATTEMPTS", 2); err != nil {
		return Config{}, err
	}

	if cfg.StoreTimeout, err = durationSetting(storeTimeout, "STORE_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.StoreAttempts, err = intSetting(storeAttempts, "STORE_ATTEMPTS", 3); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func stringSetting(flagValue, env, def string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

func intSetting(flagValue int, env string, def int) (int, error) {
	if flagValue != 0 {
		return flagValue, nil
	}
	if v := os.Getenv(env); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid %s env variable", env)
		}
		return n, nil
	}
	return def, nil
}

func durationSetting(flagValue time.Duration, env string, def time.Duration) (time.Duration, error) {
	if flagValue != 0 {
		return flagValue, nil
	}
	if v := os.Getenv(env); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return 0, fmt.Errorf("invalid %s env variable", env)
		}
		return d, nil
	}
	return def, nil
}
