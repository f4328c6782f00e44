package pricing

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"seatplan-cli/model"
)

// Table maps a seat type to its price multiplier.
type Table map[model.SeatType]float64

// Defaults returns the system-wide default multipliers.
func Defaults() Table {
	return Table{
		model.SeatStandard: 1.0,
		model.SeatVIP:      1.5,
		model.SeatCouple:   2.0,
		model.SeatPremium:  1.3,
	}
}

// For returns the multiplier for a seat type, falling back to the system
// default when the table has no entry for it.
func (t Table) For(seatType model.SeatType) float64 {
	if t != nil {
		if m, ok := t[seatType]; ok {
			return m
		}
	}
	if m, ok := Defaults()[seatType]; ok {
		return m
	}
	return 1.0
}

func (t Table) clone() Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// ErrInvalidMultiplier is returned when an override is not strictly positive.
var ErrInvalidMultiplier = errors.New("price multiplier must be positive")

// Store holds per-room multiplier overrides, persisted as JSON in the user
// config dir. It is loaded once at startup and rewritten on every change.
type Store struct {
	overrides map[int]Table
}

type storeFile struct {
	Rooms map[string]Table `json:"rooms"`
}

// Load reads the override file. A missing file yields an empty store.
func Load() (*Store, error) {
	s := &Store{overrides: map[int]Table{}}
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	var file storeFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.New("invalid price config format")
	}
	for key, table := range file.Rooms {
		roomID, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		s.overrides[roomID] = table.clone()
	}
	return s, nil
}

// Effective returns the room's override table if one exists, else the system
// defaults. The result is a copy; mutating it does not touch the store.
func (s *Store) Effective(roomID int) Table {
	if override, ok := s.overrides[roomID]; ok {
		return override.clone()
	}
	return Defaults()
}

// HasOverride reports whether the room has its own multiplier table.
func (s *Store) HasOverride(roomID int) bool {
	_, ok := s.overrides[roomID]
	return ok
}

// SetOverride writes one multiplier into the room's override table, seeding it
// from the defaults when the room has none yet.
func (s *Store) SetOverride(roomID int, seatType model.SeatType, multiplier float64) error {
	if multiplier <= 0 {
		return fmt.Errorf("%w: got %g for %s", ErrInvalidMultiplier, multiplier, seatType)
	}
	table, ok := s.overrides[roomID]
	if !ok {
		table = Defaults()
		s.overrides[roomID] = table
	}
	table[seatType] = multiplier
	return s.save()
}

// ResetOverride removes the room's override, reverting Effective to defaults.
func (s *Store) ResetOverride(roomID int) error {
	if _, ok := s.overrides[roomID]; !ok {
		return nil
	}
	delete(s.overrides, roomID)
	return s.save()
}

func (s *Store) save() error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file := storeFile{Rooms: map[string]Table{}}
	for roomID, table := range s.overrides {
		file.Rooms[strconv.Itoa(roomID)] = table
	}
	payload, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func configPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "seatplan-cli", "pricing.json"), nil
}
