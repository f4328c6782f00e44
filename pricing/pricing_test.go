package pricing

import (
	"errors"
	"testing"

	"seatplan-cli/model"
)

func setTestConfigDir(t *testing.T) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", root)
}

func TestTable_ForFallsBackToDefaults(t *testing.T) {
	var empty Table
	if got := empty.For(model.SeatCouple); got != 2.0 {
		t.Fatalf("expected default couple multiplier 2.0, got %g", got)
	}

	custom := Table{model.SeatVIP: 1.8}
	if got := custom.For(model.SeatVIP); got != 1.8 {
		t.Fatalf("expected 1.8, got %g", got)
	}
	if got := custom.For(model.SeatPremium); got != 1.3 {
		t.Fatalf("expected default premium 1.3, got %g", got)
	}
}

func TestStore_EffectiveDefaultsWithoutOverride(t *testing.T) {
	setTestConfigDir(t)
	s, err := Load()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	table := s.Effective(7)
	if table.For(model.SeatStandard) != 1.0 || table.For(model.SeatVIP) != 1.5 {
		t.Fatalf("expected system defaults, got %+v", table)
	}
	if s.HasOverride(7) {
		t.Fatal("expected no override for untouched room")
	}
}

func TestStore_SetOverrideSeedsAndPersists(t *testing.T) {
	setTestConfigDir(t)
	s, err := Load()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if err := s.SetOverride(3, model.SeatVIP, 2.0); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	table := s.Effective(3)
	if table.For(model.SeatVIP) != 2.0 {
		t.Fatalf("expected 2.0, got %g", table.For(model.SeatVIP))
	}
	if table.For(model.SeatCouple) != 2.0 {
		t.Fatalf("override should seed from defaults, got %g", table.For(model.SeatCouple))
	}

	// Other rooms stay on defaults.
	if s.Effective(4).For(model.SeatVIP) != 1.5 {
		t.Fatal("override leaked into another room")
	}

	// Durable across reloads.
	reloaded, err := Load()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if reloaded.Effective(3).For(model.SeatVIP) != 2.0 {
		t.Fatal("expected override to survive reload")
	}
}

func TestStore_SetOverrideRejectsNonPositive(t *testing.T) {
	setTestConfigDir(t)
	s, err := Load()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if err := s.SetOverride(3, model.SeatVIP, 0); !errors.Is(err, ErrInvalidMultiplier) {
		t.Fatalf("expected ErrInvalidMultiplier, got %v", err)
	}
	if err := s.SetOverride(3, model.SeatVIP, -1.5); !errors.Is(err, ErrInvalidMultiplier) {
		t.Fatalf("expected ErrInvalidMultiplier, got %v", err)
	}
	if s.HasOverride(3) {
		t.Fatal("rejected override must not mutate the store")
	}
}

func TestStore_ResetOverride(t *testing.T) {
	setTestConfigDir(t)
	s, err := Load()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if err := s.SetOverride(5, model.SeatStandard, 1.2); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := s.ResetOverride(5); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if s.HasOverride(5) {
		t.Fatal("expected override to be removed")
	}
	if s.Effective(5).For(model.SeatStandard) != 1.0 {
		t.Fatal("expected defaults after reset")
	}

	reloaded, err := Load()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if reloaded.HasOverride(5) {
		t.Fatal("expected reset to persist")
	}
}

func TestStore_EffectiveReturnsCopy(t *testing.T) {
	setTestConfigDir(t)
	s, err := Load()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := s.SetOverride(9, model.SeatVIP, 1.7); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	table := s.Effective(9)
	table[model.SeatVIP] = 99

	if s.Effective(9).For(model.SeatVIP) != 1.7 {
		t.Fatal("mutating the returned table must not touch the store")
	}
}
