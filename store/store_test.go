package store

import "testing"

func setTestConfigDir(t *testing.T) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", root)
}

func TestRememberRoom_RoundTrip(t *testing.T) {
	setTestConfigDir(t)

	rooms, err := LoadRecentRooms()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(rooms) != 0 {
		t.Fatalf("expected no recent rooms, got %+v", rooms)
	}

	if err := RememberRoom(1, "Sala 1"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := RememberRoom(2, "Sala 2"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	rooms, err = LoadRecentRooms()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(rooms))
	}
	if rooms[0].ID != 2 {
		t.Fatalf("expected most recent room first, got %+v", rooms[0])
	}
}

func TestRememberRoom_DeduplicatesAndCaps(t *testing.T) {
	setTestConfigDir(t)

	for i := 1; i <= 12; i++ {
		if err := RememberRoom(i, ""); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	}
	if err := RememberRoom(12, ""); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	rooms, err := LoadRecentRooms()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(rooms) != maxRecentRooms {
		t.Fatalf("expected %d rooms, got %d", maxRecentRooms, len(rooms))
	}
	if rooms[0].ID != 12 {
		t.Fatalf("expected room 12 first, got %+v", rooms[0])
	}
	for i, room := range rooms[1:] {
		if room.ID == 12 {
			t.Fatalf("room 12 duplicated at position %d", i+1)
		}
	}
}

func TestLastSpec_RoundTrip(t *testing.T) {
	setTestConfigDir(t)

	if _, ok, err := LoadLastSpec(); err != nil || ok {
		t.Fatalf("expected no stored spec, got ok=%v err=%v", ok, err)
	}

	spec := GridSpec{Rows: 8, Columns: 14, RowLabels: "ABCDEFGH"}
	if err := SaveLastSpec(spec); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	got, ok, err := LoadLastSpec()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !ok {
		t.Fatal("expected stored spec")
	}
	if got != spec {
		t.Fatalf("expected %+v, got %+v", spec, got)
	}
}

func TestSaveLastSpec_RejectsInvalid(t *testing.T) {
	setTestConfigDir(t)

	if err := SaveLastSpec(GridSpec{Rows: 0, Columns: 10}); err == nil {
		t.Fatal("expected error for zero rows")
	}
	if err := SaveLastSpec(GridSpec{Rows: 10, Columns: -2}); err == nil {
		t.Fatal("expected error for negative columns")
	}
}
