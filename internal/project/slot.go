package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/claudebox-dev/claudebox/internal/fsutil"
)

const slotMetaFileName = "slot.json"

// Slot is one numbered container binding of a project.
type Slot struct {
	ID        string    `json:"id"`
	Number    int       `json:"number"` // 0 when the number could not be recovered
	Token     string    `json:"token"`
	Project   string    `json:"project"` // Canonical host path
	CreatedAt time.Time `json:"created_at"`
	Dir       string    `json:"-"`
}

// saveSlot persists slot metadata inside its directory.
func saveSlot(slot *Slot) error {
	data, err := json.MarshalIndent(slot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal slot: %w", err)
	}

	path := filepath.Join(slot.Dir, slotMetaFileName)
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write slot metadata: %w", err)
	}
	return nil
}

// loadSlot reads slot metadata from dir.
func loadSlot(dir string) (*Slot, error) {
	path := filepath.Join(dir, slotMetaFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("slot metadata not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read slot metadata: %w", err)
	}

	var slot Slot
	if err := json.Unmarshal(data, &slot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal slot metadata %s: %w", path, err)
	}
	slot.Dir = dir

	return &slot, nil
}
