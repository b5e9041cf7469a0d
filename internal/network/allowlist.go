package network

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/claudebox-dev/claudebox/internal/fsutil"
)

// LoadAllowlist reads a project allowlist: one spec per line, blank lines
// and # comments ignored. A missing file yields no specs.
func LoadAllowlist(file string) ([]string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read allowlist %s: %w", file, err)
	}

	specs := []string{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		if line = strings.TrimSpace(line); line != "" {
			specs = append(specs, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse allowlist %s: %w", file, err)
	}

	return specs, nil
}

// AppendAllowlist adds specs not already present to the allowlist file.
func AppendAllowlist(file string, specs []string) error {
	existing, err := LoadAllowlist(file)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(file)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read allowlist %s: %w", file, err)
	}
	if len(data) > 0 && !bytes.HasSuffix(data, []byte("\n")) {
		data = append(data, '\n')
	}

	seen := make(map[string]bool, len(existing))
	for _, spec := range existing {
		seen[spec] = true
	}
	for _, spec := range specs {
		spec = strings.TrimSpace(spec)
		if spec == "" || seen[spec] {
			continue
		}
		seen[spec] = true
		data = append(data, spec...)
		data = append(data, '\n')
	}

	return fsutil.WriteFileAtomic(file, data, 0o644)
}
