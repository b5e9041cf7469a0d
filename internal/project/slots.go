package project

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrSlotNotFound is returned when a slot directory does not exist.
var ErrSlotNotFound = errors.New("slot not found")

// MaxSlotScan bounds the token search used to recover slot numbers for
// directories whose metadata is missing.
const MaxSlotScan = 1024

// CreateSlot allocates the lowest unused slot number starting at 1, creates
// its directory and increments the counter.
func (p *Project) CreateSlot(ctx context.Context) (*Slot, error) {
	var slot *Slot

	err := p.WithLock(ctx, func() error {
		n, err := p.lowestFreeSlot()
		if err != nil {
			return err
		}

		dir := p.SlotDir(n)
		if err := os.Mkdir(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create slot directory %s: %w", dir, err)
		}

		s := &Slot{
			ID:        uuid.New().String(),
			Number:    n,
			Token:     p.SlotToken(n),
			Project:   p.Path,
			CreatedAt: time.Now().UTC(),
			Dir:       dir,
		}
		if err := saveSlot(s); err != nil {
			_ = os.RemoveAll(dir)
			return err
		}

		if err := WriteCounter(p.Dir, ReadCounter(p.Dir)+1); err != nil {
			_ = os.RemoveAll(dir)
			return err
		}

		slot = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	return slot, nil
}

// DeleteSlot removes slot n's directory and decrements the counter, floored
// at 0. The counter is left untouched when the slot does not exist.
func (p *Project) DeleteSlot(ctx context.Context, n int) error {
	return p.WithLock(ctx, func() error {
		dir := p.SlotDir(n)
		if _, err := os.Stat(dir); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("slot %d: %w", n, ErrSlotNotFound)
			}
			return fmt.Errorf("failed to stat slot directory %s: %w", dir, err)
		}

		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to remove slot directory %s: %w", dir, err)
		}

		return WriteCounter(p.Dir, ReadCounter(p.Dir)-1)
	})
}

// GetSlot returns slot n if its directory exists.
func (p *Project) GetSlot(n int) (*Slot, error) {
	dir := p.SlotDir(n)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("slot %d: %w", n, ErrSlotNotFound)
	}

	if slot, err := loadSlot(dir); err == nil {
		return slot, nil
	}
	return &Slot{Number: n, Token: p.SlotToken(n), Project: p.Path, Dir: dir}, nil
}

// Slots lists active slots ordered by number. Slots whose number cannot be
// recovered sort first with Number 0.
func (p *Project) Slots() ([]*Slot, error) {
	names, err := p.slotDirNames()
	if err != nil {
		return nil, err
	}

	var byToken map[string]int
	slots := make([]*Slot, 0, len(names))
	for _, name := range names {
		dir := filepath.Join(p.Dir, name)

		slot, err := loadSlot(dir)
		if err == nil && slot.Token == name {
			slots = append(slots, slot)
			continue
		}

		if byToken == nil {
			byToken = make(map[string]int, MaxSlotScan)
			for n := 1; n <= MaxSlotScan; n++ {
				byToken[p.SlotToken(n)] = n
			}
		}
		slots = append(slots, &Slot{
			Number:  byToken[name],
			Token:   name,
			Project: p.Path,
			Dir:     dir,
		})
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Number < slots[j].Number
	})

	return slots, nil
}

// CheckDrift returns the stored counter and the number of slot directories.
// A mismatch is diagnostic only.
func (p *Project) CheckDrift() (counter, dirs int, err error) {
	names, err := p.slotDirNames()
	if err != nil {
		return 0, 0, err
	}
	return p.Counter(), len(names), nil
}

// Reconcile rewrites the counter to match the slot directories on disk and
// returns the previous and new values.
func (p *Project) Reconcile(ctx context.Context) (before, after int, err error) {
	err = p.WithLock(ctx, func() error {
		names, err := p.slotDirNames()
		if err != nil {
			return err
		}
		before = p.Counter()
		after = len(names)
		if before == after {
			return nil
		}
		return WriteCounter(p.Dir, after)
	})
	return before, after, err
}

func (p *Project) lowestFreeSlot() (int, error) {
	for n := 1; ; n++ {
		_, err := os.Stat(p.SlotDir(n))
		if os.IsNotExist(err) {
			return n, nil
		}
		if err != nil {
			return 0, fmt.Errorf("failed to inspect slot %d: %w", n, err)
		}
	}
}

// slotDirNames returns the non-hidden directories under the parent directory.
func (p *Project) slotDirNames() ([]string, error) {
	entries, err := os.ReadDir(p.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read project directory %s: %w", p.Dir, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}
