package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"DATABASE_URL", "LOG_FORMAT", "LOG_LEVEL",
		"OPENSKY_BASE_URL", "OPENSKY_AUTH_URL", "OPENSKY_CLIENT_ID", "OPENSKY_CLIENT_SECRET",
		"OPENSKY_TIMEOUT_SECONDS", "OPENSKY_BBOX_LAMIN", "OPENSKY_BBOX_LOMIN",
		"OPENSKY_BBOX_LAMAX", "OPENSKY_BBOX_LOMAX",
		"SCHEDULER_INTERVAL_SECONDS", "SCHEDULER_RUN_ON_START",
		"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_BUCKET",
		"MINIO_PREFIX", "MINIO_USE_SSL", "SLACK_WEBHOOK_URL", "METRICS_ADDR",
	}
	for _, v := range vars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	c, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if c.Interval != DefaultInterval {
		t.Errorf("Interval = %s, want %s", c.Interval, DefaultInterval)
	}
	if c.FetchTimeout != DefaultFetchTimeout {
		t.Errorf("FetchTimeout = %s, want %s", c.FetchTimeout, DefaultFetchTimeout)
	}
	if !c.RunOnStart {
		t.Error("RunOnStart should default to true")
	}
	if c.OpenSkyBaseURL != DefaultBaseURL {
		t.Errorf("OpenSkyBaseURL = %s", c.OpenSkyBaseURL)
	}
	if c.MinIOBucket != DefaultBucket {
		t.Errorf("MinIOBucket = %s", c.MinIOBucket)
	}
	if err := c.Region.Validate(); err != nil {
		t.Errorf("default region invalid: %v", err)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SCHEDULER_INTERVAL_SECONDS", "120")
	t.Setenv("SCHEDULER_RUN_ON_START", "false")
	t.Setenv("OPENSKY_TIMEOUT_SECONDS", "5")
	t.Setenv("OPENSKY_BBOX_LAMIN", "40.0")
	t.Setenv("OPENSKY_BBOX_LAMAX", "41.5")
	t.Setenv("MINIO_USE_SSL", "true")

	c, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if c.Interval != 120*time.Second {
		t.Errorf("Interval = %s, want 2m", c.Interval)
	}
	if c.RunOnStart {
		t.Error("RunOnStart should be false")
	}
	if c.FetchTimeout != 5*time.Second {
		t.Errorf("FetchTimeout = %s, want 5s", c.FetchTimeout)
	}
	if c.Region.LatMin != 40.0 || c.Region.LatMax != 41.5 {
		t.Errorf("region latitudes not overridden: %+v", c.Region)
	}
	if !c.MinIOUseSSL {
		t.Error("MinIOUseSSL should be true")
	}
}

func TestFromEnv_MalformedValues(t *testing.T) {
	cases := map[string]string{
		"SCHEDULER_INTERVAL_SECONDS": "sixty",
		"SCHEDULER_RUN_ON_START":     "yep",
		"OPENSKY_BBOX_LAMIN":         "north",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, val)
			if _, err := FromEnv(); err == nil {
				t.Fatalf("expected error for %s=%q", key, val)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte(
		"interval_seconds: 300\n"+
			"run_on_start: false\n"+
			"bounding_box:\n"+
			"  lamin: 50.0\n"+
			"  lomin: -1.0\n"+
			"  lamax: 54.0\n"+
			"  lomax: 2.0\n"), 0644)

	c, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.Interval != 5*time.Minute {
		t.Errorf("Interval = %s, want 5m", c.Interval)
	}
	if c.RunOnStart {
		t.Error("RunOnStart should be false after file merge")
	}
	if c.Region.LatMin != 50.0 || c.Region.LonMax != 2.0 {
		t.Errorf("region not merged: %+v", c.Region)
	}
	// Untouched fields keep their env defaults.
	if c.FetchTimeout != DefaultFetchTimeout {
		t.Errorf("FetchTimeout = %s, want default", c.FetchTimeout)
	}
}

func TestLoadFromFile_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("interval_seconds: [nope\n"), 0644)

	var c Config
	if err := c.LoadFromFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidateWithDSN(t *testing.T) {
	clearEnv(t)
	c, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}

	if err := c.Validate(); err != nil {
		t.Fatalf("Validate with defaults: %v", err)
	}
	if err := c.ValidateWithDSN(); err == nil {
		t.Fatal("expected error without DSN")
	}

	c.DSN = "postgresql://localhost/flightwatch"
	if err := c.ValidateWithDSN(); err == nil {
		t.Fatal("expected error without MinIO endpoint")
	}

	c.MinIOEndpoint = "localhost:9000"
	c.MinIOAccessKey = "minio"
	c.MinIOSecretKey = "minio123"
	if err := c.ValidateWithDSN(); err != nil {
		t.Fatalf("ValidateWithDSN: %v", err)
	}

	c.Interval = 0
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for zero interval")
	}
}
