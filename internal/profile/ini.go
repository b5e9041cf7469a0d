// Package profile stores the profiles selected for a project and the versions
// pinned for them in profiles.ini:
//
//	[profiles]
//	core
//	rust
//
//	[versions]
//	rust=1.79.0
//
// Section updates relocate the rewritten section to the end of the file, while
// version updates rewrite [versions] in place.
package profile

import (
	"fmt"
	"os"
	"strings"

	"github.com/claudebox-dev/claudebox/internal/fsutil"
	"gopkg.in/ini.v1"
)

const (
	SectionProfiles = "profiles"
	SectionVersions = "versions"
)

// ReadSection returns the trimmed, non-blank lines of section in file. A
// missing file or section yields an empty list.
func ReadSection(file, section string) ([]string, error) {
	lines, err := readLines(file)
	if err != nil {
		return nil, err
	}

	var items []string
	inSection := false
	for _, line := range lines {
		if name, ok := sectionName(line); ok {
			inSection = name == section
			continue
		}
		if !inSection {
			continue
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items, nil
}

// UpdateSection merges items into section (deduplicated, first-seen order)
// and rewrites the file with the section moved to the end.
func UpdateSection(file, section string, items []string) error {
	existing, err := ReadSection(file, section)
	if err != nil {
		return err
	}
	return ReplaceSection(file, section, dedupe(append(existing, items...)))
}

// ReplaceSection sets section's content to items and rewrites the file with
// the section moved to the end, separated from the preceding line and
// followed by a blank line. Every other line
// keeps its relative order.
func ReplaceSection(file, section string, items []string) error {
	lines, err := readLines(file)
	if err != nil {
		return err
	}

	out := make([]string, 0, len(lines)+len(items)+2)
	inSection := false
	for _, line := range lines {
		if name, ok := sectionName(line); ok {
			inSection = name == section
		}
		if !inSection {
			out = append(out, line)
		}
	}

	if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
		out = append(out, "")
	}
	out = append(out, "["+section+"]")
	out = append(out, items...)
	out = append(out, "")

	return writeLines(file, out)
}

// UpdateVersion pins version for profile. An existing [versions] section is
// rewritten in place: the key is replaced, or appended after the section's
// last entry. Without a [versions] section one is appended to the file.
func UpdateVersion(file, profile, version string) error {
	lines, err := readLines(file)
	if err != nil {
		return err
	}
	entry := profile + "=" + version

	start := -1
	for i, line := range lines {
		if name, ok := sectionName(line); ok && name == SectionVersions {
			start = i
			break
		}
	}

	if start < 0 {
		if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) != "" {
			lines = append(lines, "")
		}
		lines = append(lines, "["+SectionVersions+"]", entry, "")
		return writeLines(file, lines)
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if _, ok := sectionName(lines[i]); ok {
			end = i
			break
		}
	}

	last := start
	for i := start + 1; i < end; i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		if key, _, ok := strings.Cut(trimmed, "="); ok && strings.TrimSpace(key) == profile {
			lines[i] = entry
			return writeLines(file, lines)
		}
		last = i
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:last+1]...)
	out = append(out, entry)
	out = append(out, lines[last+1:]...)
	return writeLines(file, out)
}

// GetVersion returns the version pinned for profile, or "" when the file,
// section or key is absent.
func GetVersion(file, profile string) string {
	cfg, err := loadINI(file)
	if err != nil {
		return ""
	}
	return cfg.Section(SectionVersions).Key(profile).String()
}

// Versions returns every pinned version in file.
func Versions(file string) map[string]string {
	versions := map[string]string{}

	cfg, err := loadINI(file)
	if err != nil {
		return versions
	}
	for _, key := range cfg.Section(SectionVersions).Keys() {
		versions[key.Name()] = key.String()
	}
	return versions
}

func loadINI(file string) (*ini.File, error) {
	return ini.LoadSources(ini.LoadOptions{
		Loose:                   true,
		AllowBooleanKeys:        true,
		IgnoreInlineComment:     true,
		SkipUnrecognizableLines: true,
		KeyValueDelimiters:      "=",
	}, file)
}

func sectionName(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return "", false
	}
	return strings.TrimSpace(trimmed[1 : len(trimmed)-1]), true
}

func readLines(file string) ([]string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	if content == "" {
		return nil, nil
	}
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n"), nil
}

func writeLines(file string, lines []string) error {
	content := strings.Join(lines, "\n") + "\n"
	if err := fsutil.WriteFileAtomic(file, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to update %s: %w", file, err)
	}
	return nil
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		result = append(result, item)
	}
	return result
}
