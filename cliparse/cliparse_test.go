// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnv blanks every variable the parsers read
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "DATABASE_URL", "DATABASE_TYPE", "BASE_URL", "CLEANUP_SCHEDULE"} {
		t.Setenv(key, "")
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("BASE_URL", "https://polls.example.com/")
	t.Setenv("CLEANUP_SCHEDULE", "@daily")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %s", cfg.DatabaseType)
	}
	if cfg.BaseURL != "https://polls.example.com" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.BaseURL)
	}
	if cfg.CleanupSchedule != "@daily" {
		t.Errorf("expected @daily, got %s", cfg.CleanupSchedule)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "env.db")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "--cleanup-schedule", "off"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "file:test.db" {
		t.Errorf("CLI should override env: expected file:test.db, got %s", cfg.DatabaseURL)
	}
	if cfg.CleanupSchedule != ScheduleOff {
		t.Errorf("expected cleanup off, got %s", cfg.CleanupSchedule)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := ParseFlags([]string{"--database", "polls.db"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != DefaultPort {
		t.Errorf("expected default port, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected sqlite, got %s", cfg.DatabaseType)
	}
	if cfg.BaseURL != "http://localhost:3318" {
		t.Errorf("unexpected base URL %s", cfg.BaseURL)
	}
	if cfg.CleanupSchedule != DefaultSchedule {
		t.Errorf("expected default schedule, got %s", cfg.CleanupSchedule)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing database", nil, []string{}},
		{"invalid port env", map[string]string{"PORT": "abc", "DATABASE_URL": "x.db"}, []string{}},
		{"port out of range", nil, []string{"-p", "70000", "-d", "x.db"}},
		{"unsupported database type", nil, []string{"-d", "x.db", "-t", "mysql"}},
		{"unknown flag", nil, []string{"--admin-salt", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseCleanupFlags(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "polls.db")

	cfg, err := ParseCleanupFlags([]string{"--dry-run", "--force-expired"})
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.DryRun || !cfg.ForceExpired {
		t.Errorf("expected both flags set, got %+v", cfg)
	}
	if cfg.DatabaseURL != "polls.db" || cfg.DatabaseType != "sqlite" {
		t.Errorf("unexpected connection settings %+v", cfg)
	}

	cfg, err = ParseCleanupFlags(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DryRun || cfg.ForceExpired {
		t.Errorf("expected flags off by default, got %+v", cfg)
	}

	if _, err := ParseCleanupFlags([]string{"--database", "other.db"}); err == nil {
		t.Error("cleanup command should not accept connection flags")
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("DATABASE_URL")
	t.Setenv("PORT", "7000")

	path := filepath.Join(t.TempDir(), ".env")
	content := "DATABASE_URL=from-dotenv.db\nPORT=1234\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("DATABASE_URL") })

	if err := LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}

	if got := os.Getenv("DATABASE_URL"); got != "from-dotenv.db" {
		t.Errorf("expected DATABASE_URL from file, got %q", got)
	}
	// Already-set variables win over the file
	if got := os.Getenv("PORT"); got != "7000" {
		t.Errorf("expected PORT to stay 7000, got %q", got)
	}
}
