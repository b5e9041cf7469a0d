package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threeSections = `[profiles]
core
rust

[versions]
rust=1.79.0

[other]
key=value
`

func writeINI(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "profiles.ini")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return path
}

func readINI(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func headers(t *testing.T, path string) []string {
	t.Helper()

	var out []string
	for _, line := range strings.Split(readINI(t, path), "\n") {
		if name, ok := sectionName(line); ok {
			out = append(out, name)
		}
	}
	return out
}

func TestReadSection(t *testing.T) {
	path := writeINI(t, threeSections)

	got, err := ReadSection(path, SectionProfiles)
	require.NoError(t, err)
	assert.Equal(t, []string{"core", "rust"}, got)

	got, err = ReadSection(path, "missing")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = ReadSection(filepath.Join(t.TempDir(), "absent.ini"), SectionProfiles)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUpdateSection_CreatesFile(t *testing.T) {
	path := writeINI(t, "")

	require.NoError(t, UpdateSection(path, SectionProfiles, []string{"core", "python"}))
	assert.Equal(t, "[profiles]\ncore\npython\n\n", readINI(t, path))
}

func TestUpdateSection_RoundTrip(t *testing.T) {
	path := writeINI(t, "")

	require.NoError(t, UpdateSection(path, SectionProfiles, []string{"go", "core"}))
	require.NoError(t, UpdateSection(path, SectionProfiles, []string{"core", "rust", "go"}))

	got, err := ReadSection(path, SectionProfiles)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"go", "core", "rust"}, got)
	// First-seen order is kept even though order carries no meaning
	assert.Equal(t, []string{"go", "core", "rust"}, got)
}

func TestUpdateSection_RelocatesToEnd(t *testing.T) {
	path := writeINI(t, threeSections)

	require.NoError(t, UpdateSection(path, SectionProfiles, []string{"python"}))

	assert.Equal(t, []string{"versions", "other", "profiles"}, headers(t, path))
	assert.Equal(t, `[versions]
rust=1.79.0

[other]
key=value

[profiles]
core
rust
python

`, readINI(t, path))
}

func TestReplaceSection(t *testing.T) {
	path := writeINI(t, threeSections)

	require.NoError(t, ReplaceSection(path, SectionProfiles, []string{"go"}))

	got, err := ReadSection(path, SectionProfiles)
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, got)
	assert.Equal(t, "1.79.0", GetVersion(path, "rust"))
}

func TestReplaceSection_SeparatesFromPrecedingLine(t *testing.T) {
	path := writeINI(t, `[profiles]
core
[versions]
go=1.22.4`)

	require.NoError(t, ReplaceSection(path, SectionProfiles, []string{"go"}))
	assert.Equal(t, `[versions]
go=1.22.4

[profiles]
go

`, readINI(t, path))

	// An existing blank line is not doubled
	require.NoError(t, ReplaceSection(path, SectionProfiles, []string{"rust"}))
	assert.Equal(t, `[versions]
go=1.22.4

[profiles]
rust

`, readINI(t, path))
}

func TestUpdateVersion_InPlace(t *testing.T) {
	path := writeINI(t, threeSections)

	require.NoError(t, UpdateVersion(path, "python", "3.12-slim"))
	assert.Equal(t, []string{"profiles", "versions", "other"}, headers(t, path))
	assert.Equal(t, `[profiles]
core
rust

[versions]
rust=1.79.0
python=3.12-slim

[other]
key=value
`, readINI(t, path))

	require.NoError(t, UpdateVersion(path, "rust", "1.80.1"))
	assert.Equal(t, []string{"profiles", "versions", "other"}, headers(t, path))
	assert.Equal(t, "1.80.1", GetVersion(path, "rust"))
	assert.Equal(t, "3.12-slim", GetVersion(path, "python"))
	assert.Equal(t, "value", iniValue(t, path, "other", "key"))
}

func TestUpdateVersion_EmptySection(t *testing.T) {
	path := writeINI(t, "[versions]\n[profiles]\ncore\n")

	require.NoError(t, UpdateVersion(path, "go", "1.22.4"))
	assert.Equal(t, "[versions]\ngo=1.22.4\n[profiles]\ncore\n", readINI(t, path))
}

func TestUpdateVersion_AppendsSection(t *testing.T) {
	path := writeINI(t, "[profiles]\ncore")

	require.NoError(t, UpdateVersion(path, "go", "1.22.4"))
	assert.Equal(t, "[profiles]\ncore\n\n[versions]\ngo=1.22.4\n\n", readINI(t, path))

	missing := filepath.Join(t.TempDir(), "new.ini")
	require.NoError(t, UpdateVersion(missing, "node", "20.11.1"))
	assert.Equal(t, "[versions]\nnode=20.11.1\n\n", readINI(t, missing))
}

func TestGetVersion(t *testing.T) {
	path := writeINI(t, threeSections)

	tests := []struct {
		name    string
		file    string
		profile string
		want    string
	}{
		{name: "present", file: path, profile: "rust", want: "1.79.0"},
		{name: "absent key", file: path, profile: "go", want: ""},
		{name: "absent file", file: filepath.Join(t.TempDir(), "nope.ini"), profile: "rust", want: ""},
		{name: "absent section", file: writeINI(t, "[profiles]\ncore\n"), profile: "core", want: ""},
		{name: "key from another section", file: path, profile: "key", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetVersion(tt.file, tt.profile))
		})
	}
}

func TestVersionRoundTrip(t *testing.T) {
	path := writeINI(t, "")

	for _, v := range []string{"1.2.3", "3.12-slim", "20.11.1-alpine3.19", "1.0.0-rc.1"} {
		require.NoError(t, UpdateVersion(path, "tool", v))
		assert.Equal(t, v, GetVersion(path, "tool"))
	}

	require.NoError(t, UpdateVersion(path, "go", "1.22.4"))
	assert.Equal(t, map[string]string{"tool": "1.0.0-rc.1", "go": "1.22.4"}, Versions(path))
}

// iniValue reads an arbitrary key with the same loader used for versions.
func iniValue(t *testing.T, path, section, key string) string {
	t.Helper()

	cfg, err := loadINI(path)
	require.NoError(t, err)
	return cfg.Section(section).Key(key).String()
}
