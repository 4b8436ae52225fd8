package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":8080")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8080")
	}
	if cfg.JWTIssuer != "auth-control-plane" {
		t.Errorf("JWTIssuer = %q, want %q", cfg.JWTIssuer, "auth-control-plane")
	}
	if cfg.JWTAudience != "auth-api" {
		t.Errorf("JWTAudience = %q, want %q", cfg.JWTAudience, "auth-api")
	}
	if cfg.JWTAccessTTL != "15m" {
		t.Errorf("JWTAccessTTL = %q, want %q", cfg.JWTAccessTTL, "15m")
	}
	if cfg.JWTRefreshTTL != "168h" {
		t.Errorf("JWTRefreshTTL = %q, want %q", cfg.JWTRefreshTTL, "168h")
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.MFAChallengeTTL != "10m" {
		t.Errorf("MFAChallengeTTL = %q, want %q", cfg.MFAChallengeTTL, "10m")
	}
	if cfg.MFARequiredAlways {
		t.Error("MFARequiredAlways should default to false")
	}
	if cfg.MonitorKafkaTopic != "auth-monitor" {
		t.Errorf("MonitorKafkaTopic = %q, want default", cfg.MonitorKafkaTopic)
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":9090")
	os.Setenv("JWT_ISSUER", "custom-issuer")
	os.Setenv("BCRYPT_COST", "14")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":9090")
	}
	if cfg.JWTIssuer != "custom-issuer" {
		t.Errorf("JWTIssuer = %q, want %q", cfg.JWTIssuer, "custom-issuer")
	}
	if cfg.BcryptCost != 14 {
		t.Errorf("BcryptCost = %d, want 14", cfg.BcryptCost)
	}
}

func TestLoad_InvalidBcryptCost(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":8080")
	os.Setenv("BCRYPT_COST", "99")

	if _, err := Load(); err == nil {
		t.Fatal("Load should fail for out-of-range BCRYPT_COST")
	}
}

func TestTTLAccessors(t *testing.T) {
	cfg := &Config{JWTAccessTTL: "5m", JWTRefreshTTL: "48h", MFAChallengeTTL: "2m"}
	if got := cfg.AccessTTL(); got != 5*time.Minute {
		t.Errorf("AccessTTL = %v, want 5m", got)
	}
	if got := cfg.RefreshTTL(); got != 48*time.Hour {
		t.Errorf("RefreshTTL = %v, want 48h", got)
	}
	if got := cfg.ChallengeTTL(); got != 2*time.Minute {
		t.Errorf("ChallengeTTL = %v, want 2m", got)
	}

	bad := &Config{JWTAccessTTL: "not-a-duration", JWTRefreshTTL: "-1h", MFAChallengeTTL: ""}
	if got := bad.AccessTTL(); got != 15*time.Minute {
		t.Errorf("AccessTTL fallback = %v, want 15m", got)
	}
	if got := bad.RefreshTTL(); got != 168*time.Hour {
		t.Errorf("RefreshTTL fallback = %v, want 168h", got)
	}
	if got := bad.ChallengeTTL(); got != 10*time.Minute {
		t.Errorf("ChallengeTTL fallback = %v, want 10m", got)
	}
}

func TestSweepInterval(t *testing.T) {
	if got := (&Config{SessionSweepInterval: "90s"}).SweepInterval(); got != 90*time.Second {
		t.Errorf("SweepInterval = %v, want 90s", got)
	}
	if got := (&Config{SessionSweepInterval: ""}).SweepInterval(); got != 0 {
		t.Errorf("SweepInterval empty = %v, want 0", got)
	}
	if got := (&Config{SessionSweepInterval: "junk"}).SweepInterval(); got != 0 {
		t.Errorf("SweepInterval invalid = %v, want 0", got)
	}
}

func TestMonitorKafkaBrokersList(t *testing.T) {
	cfg := &Config{MonitorKafkaBrokers: "localhost:9092, broker2:9092,,"}
	got := cfg.MonitorKafkaBrokersList()
	if len(got) != 2 || got[0] != "localhost:9092" || got[1] != "broker2:9092" {
		t.Errorf("MonitorKafkaBrokersList = %v", got)
	}
	if (&Config{}).MonitorKafkaBrokersList() != nil {
		t.Error("empty brokers should return nil")
	}
}
