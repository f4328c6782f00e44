package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const maxRecentRooms = 8

// RecentRoom is one entry of the recently edited room history.
type RecentRoom struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type roomHistory struct {
	Rooms []RecentRoom `json:"rooms"`
}

// GridSpec is the last row/column configuration used for a fresh layout,
// restored when the editor opens on a room with no persisted seats.
type GridSpec struct {
	Rows      int    `json:"rows"`
	Columns   int    `json:"columns"`
	RowLabels string `json:"rowLabels"`
}

// LoadRecentRooms reads the room history; a missing file yields no entries.
func LoadRecentRooms() ([]RecentRoom, error) {
	path, err := configPath("history.json")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var history roomHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, errors.New("invalid room history format")
	}
	return history.Rooms, nil
}

// RememberRoom moves the room to the front of the history, capped at
// maxRecentRooms entries.
func RememberRoom(id int, name string) error {
	history, _ := LoadRecentRooms()
	next := []RecentRoom{{ID: id, Name: name}}

	for _, existing := range history {
		if existing.ID == id {
			continue
		}
		if existing.Name != "" && strings.EqualFold(existing.Name, name) {
			continue
		}
		next = append(next, existing)
		if len(next) >= maxRecentRooms {
			break
		}
	}

	return writeJSON("history.json", roomHistory{Rooms: next})
}

// LoadLastSpec reads the last-used grid spec; ok is false when none is stored
// or the stored spec is unusable.
func LoadLastSpec() (GridSpec, bool, error) {
	path, err := configPath("gridspec.json")
	if err != nil {
		return GridSpec{}, false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return GridSpec{}, false, nil
		}
		return GridSpec{}, false, err
	}

	var spec GridSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return GridSpec{}, false, errors.New("invalid grid spec format")
	}
	if spec.Rows <= 0 || spec.Columns <= 0 {
		return GridSpec{}, false, nil
	}
	return spec, true, nil
}

// SaveLastSpec stores the grid spec for the next fresh-room edit session.
func SaveLastSpec(spec GridSpec) error {
	if spec.Rows <= 0 || spec.Columns <= 0 {
		return errors.New("grid spec rows and columns must be positive")
	}
	return writeJSON("gridspec.json", spec)
}

func writeJSON(name string, value any) error {
	path, err := configPath(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func configPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "seatplan-cli", name), nil
}
