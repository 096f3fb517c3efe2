package cliparse

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	DefaultPort     = 3318
	DefaultSchedule = "@every 60m"
	// ScheduleOff disables the in-process cleanup job
	ScheduleOff = "off"
)

type Config struct {
	Port            int
	DatabaseURL     string
	DatabaseType    string
	BaseURL         string
	CleanupSchedule string
}

// CleanupConfig configures a one-off run of the retention sweeper
type CleanupConfig struct {
	DatabaseURL  string
	DatabaseType string
	DryRun       bool
	ForceExpired bool
}

// LoadDotEnv reads KEY=value pairs from the given files (".env" when none)
// into the environment. Variables that are already set win, and missing
// files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	flagSet := pflag.NewFlagSet("pollbox", pflag.ContinueOnError)

	// Network config (can be CLI args or env)
	flagSet.IntVarP(&cfg.Port, "port", "p", 0, "Server port")
	flagSet.StringVarP(&cfg.DatabaseURL, "database", "d", "", "Database URL")
	flagSet.StringVarP(&cfg.DatabaseType, "database-type", "t", "", "Database type (sqlite or postgres)")
	flagSet.StringVar(&cfg.BaseURL, "base-url", "", "Public base URL used in share and admin links")
	flagSet.StringVar(&cfg.CleanupSchedule, "cleanup-schedule", "", `Cron spec for the cleanup job, or "off"`)

	if err := flagSet.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("port %d out of range", cfg.Port)
	}

	var err error
	cfg.DatabaseURL, cfg.DatabaseType, err = databaseSettings(cfg.DatabaseURL, cfg.DatabaseType)
	if err != nil {
		return Config{}, err
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("BASE_URL")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.CleanupSchedule == "" {
		cfg.CleanupSchedule = os.Getenv("CLEANUP_SCHEDULE")
	}
	if cfg.CleanupSchedule == "" {
		cfg.CleanupSchedule = DefaultSchedule
	}

	return cfg, nil
}

// ParseCleanupFlags parses the cleanup command's flags. Connection settings
// come from the environment only.
func ParseCleanupFlags(args []string) (CleanupConfig, error) {
	var cfg CleanupConfig

	flagSet := pflag.NewFlagSet("cleanup-polls", pflag.ContinueOnError)
	flagSet.BoolVar(&cfg.DryRun, "dry-run", false, "Show what would be deleted without actually deleting")
	flagSet.BoolVar(&cfg.ForceExpired, "force-expired", false, "Immediately delete expired polls (skip soft delete)")

	if err := flagSet.Parse(args); err != nil {
		return CleanupConfig{}, err
	}

	var err error
	cfg.DatabaseURL, cfg.DatabaseType, err = databaseSettings("", "")
	if err != nil {
		return CleanupConfig{}, err
	}
	return cfg, nil
}

func databaseSettings(url, dbType string) (string, string, error) {
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		return "", "", errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if dbType == "" {
		dbType = os.Getenv("DATABASE_TYPE")
		if dbType == "" {
			dbType = "sqlite"
		}
	}
	if dbType != "sqlite" && dbType != "postgres" {
		return "", "", fmt.Errorf("unsupported database type %q", dbType)
	}

	return url, dbType, nil
}
