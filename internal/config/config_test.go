package config

import (
	"testing"
	"time"
)

func TestGetIntEnv(t *testing.T) {
	if got := GetIntEnv("MISSING_INT", 42); got != 42 {
		t.Fatalf("expected default 42, got %d", got)
	}

	t.Setenv(AppEnvBase+"TEST_INT", "7")
	if got := GetIntEnv("TEST_INT", 42); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}

	t.Setenv(AppEnvBase+"BAD_INT", "not a number")
	if got := GetIntEnv("BAD_INT", 42); got != 42 {
		t.Fatalf("expected default on parse failure, got %d", got)
	}
}

func TestGetBoolEnv(t *testing.T) {
	if got := GetBoolEnv("MISSING_BOOL", true); got != true {
		t.Fatal("expected default true")
	}

	t.Setenv(AppEnvBase+"TEST_BOOL", "false")
	if got := GetBoolEnv("TEST_BOOL", true); got != false {
		t.Fatal("expected false from env")
	}
}

func TestGetDurationEnv(t *testing.T) {
	if got := GetDurationEnv("MISSING_DURATION", time.Second); got != time.Second {
		t.Fatalf("expected default 1s, got %s", got)
	}

	t.Setenv(AppEnvBase+"TEST_DURATION", "250ms")
	if got := GetDurationEnv("TEST_DURATION", time.Second); got != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %s", got)
	}

	t.Setenv(AppEnvBase+"BAD_DURATION", "soon")
	if got := GetDurationEnv("BAD_DURATION", time.Second); got != time.Second {
		t.Fatalf("expected default on parse failure, got %s", got)
	}
}

func TestGetFloatEnv(t *testing.T) {
	t.Setenv(AppEnvBase+"TEST_FLOAT", "12.5")
	if got := GetFloatEnv("TEST_FLOAT", 1.0); got != 12.5 {
		t.Fatalf("expected 12.5, got %.2f", got)
	}
}

func TestCommandConfigDefaultServos(t *testing.T) {
	cfg := GetCommandConfig()

	if len(cfg.ServoCfgs) != 2 {
		t.Fatalf("expected 2 default servos, got %d", len(cfg.ServoCfgs))
	}

	esc := cfg.ServoCfgs[0]
	if esc.Name != "esc" || esc.Channel != DefaultEscChannel || esc.Frequency != DefaultEscFrequency {
		t.Fatalf("unexpected esc config: %+v", esc)
	}

	steer := cfg.ServoCfgs[1]
	if steer.Name != "steer" || steer.Channel != DefaultSteerChannel || steer.Frequency != DefaultSteerFrequency {
		t.Fatalf("unexpected steer config: %+v", steer)
	}
}

func TestMachineConfigOverrides(t *testing.T) {
	t.Setenv(AppEnvBase+"CENTER_TOLERANCE", "15")
	t.Setenv(AppEnvBase+"DWELL_TIMEOUT", "6s")

	cfg := GetMachineConfig()
	if cfg.CenterTolerance != 15 {
		t.Fatalf("expected center tolerance 15, got %.1f", cfg.CenterTolerance)
	}
	if cfg.DwellTimeout != 6*time.Second {
		t.Fatalf("expected dwell timeout 6s, got %s", cfg.DwellTimeout)
	}
	if cfg.FollowTimeout != DefaultFollowTimeout {
		t.Fatalf("expected default follow timeout, got %s", cfg.FollowTimeout)
	}
}
