package config

import "testing"

func validConfig() Config {
	return Config{
		StoreDriver:     DriverPostgrest,
		DatabaseURL:     "https://example.supabase.co",
		DatabaseAnonKey: "anon-key",
		SQLitePath:      "wordsift.db",
		StalenessHours:  168,
		Workers:         4,
	}
}

func TestValidateRequiresDatabaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database_url")
	}
}

func TestValidateRequiresAnonKey(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseAnonKey = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database_anon_key")
	}
}

func TestValidateSQLiteModeSkipsRemoteCreds(t *testing.T) {
	cfg := validConfig()
	cfg.StoreDriver = DriverSQLite
	cfg.DatabaseURL = ""
	cfg.DatabaseAnonKey = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sqlite mode should not need remote credentials: %v", err)
	}
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := validConfig()
	cfg.StoreDriver = "redis"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestValidateRejectsBadNumbers(t *testing.T) {
	cfg := validConfig()
	cfg.StalenessHours = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero staleness_hours")
	}

	cfg = validConfig()
	cfg.Workers = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative workers")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("WORDSIFT_DATABASE_URL", "https://example.supabase.co")
	t.Setenv("WORDSIFT_DATABASE_ANON_KEY", "anon-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DatabaseURL != "https://example.supabase.co" {
		t.Fatalf("env override not applied: %q", cfg.DatabaseURL)
	}
	if cfg.StalenessHours != 168 || cfg.ListenAddr != ":8080" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}
