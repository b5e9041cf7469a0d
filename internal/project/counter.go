package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/claudebox-dev/claudebox/internal/fsutil"
)

// Init ensures the parent directory exists and creates the counter file with
// value 0 if it is absent. It is idempotent and never resets an existing
// counter.
func (p *Project) Init() error {
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create project directory %s: %w", p.Dir, err)
	}

	// O_EXCL: an existing counter is never reset.
	f, err := os.OpenFile(p.CounterPath(), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil
		}
		return fmt.Errorf("failed to create counter %s: %w", p.CounterPath(), err)
	}
	if _, err := f.WriteString("0"); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to initialize counter %s: %w", p.CounterPath(), err)
	}
	return f.Close()
}

// ReadCounter returns the slot counter stored in parentDir, or 0 when the file
// is absent, unparseable or negative.
func ReadCounter(parentDir string) int {
	data, err := os.ReadFile(filepath.Join(parentDir, counterFileName))
	if err != nil {
		return 0
	}

	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// WriteCounter atomically replaces the counter in parentDir. Negative values
// are stored as 0.
func WriteCounter(parentDir string, n int) error {
	if n < 0 {
		n = 0
	}
	path := filepath.Join(parentDir, counterFileName)
	if err := fsutil.WriteFileAtomic(path, []byte(strconv.Itoa(n)), 0o644); err != nil {
		return fmt.Errorf("failed to write slot counter: %w", err)
	}
	return nil
}

// Counter returns the project's current slot counter.
func (p *Project) Counter() int {
	return ReadCounter(p.Dir)
}
