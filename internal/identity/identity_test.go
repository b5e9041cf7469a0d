package identity

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexToken = regexp.MustCompile(`^[0-9a-f]{8}$`)

func TestProject_Deterministic(t *testing.T) {
	first := Default.Project("/tmp/proj")
	second := Default.Project("/tmp/proj")

	assert.Equal(t, first, second)
	assert.Regexp(t, hexToken, first)
}

func TestProject_KnownValue(t *testing.T) {
	// Pinned so a change of hash function or encoding is caught; tokens name
	// directories that must survive upgrades.
	g := Generator{width: 16}
	assert.Equal(t, "ef46db3751d8e999", g.Project(""))
}

func TestProject_DistinctPaths(t *testing.T) {
	paths := []string{"/tmp/proj", "/tmp/proj2", "/tmp/pro", "/home/user/proj", "/"}
	seen := map[string]string{}
	for _, p := range paths {
		tok := Default.Project(p)
		if other, ok := seen[tok]; ok {
			t.Fatalf("token collision between %s and %s", p, other)
		}
		seen[tok] = p
	}
}

func TestSlot_UniquePerNumber(t *testing.T) {
	seen := map[string]int{}
	for n := 1; n <= 20; n++ {
		tok := Default.Slot("/tmp/proj", n)
		assert.Regexp(t, hexToken, tok)
		if other, ok := seen[tok]; ok {
			t.Fatalf("slot %d and %d share token %s", n, other, tok)
		}
		seen[tok] = n
	}
	assert.NotEqual(t, Default.Slot("/tmp/proj", 1), Default.Project("/tmp/proj"))
}

func TestSlot_SeparatorAvoidsAmbiguity(t *testing.T) {
	assert.NotEqual(t, Default.Slot("/p", 12), Default.Slot("/p1", 2))
}

func TestNew(t *testing.T) {
	g, err := New(12)
	require.NoError(t, err)
	assert.Len(t, g.Project("/tmp/proj"), 12)
	// Shorter widths are prefixes of longer ones
	assert.Equal(t, Default.Project("/tmp/proj"), g.Project("/tmp/proj")[:8])

	_, err = New(2)
	assert.Error(t, err)
	_, err = New(17)
	assert.Error(t, err)
}

func TestCanonicalize(t *testing.T) {
	dir := t.TempDir()
	real, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	target := filepath.Join(real, "proj")
	require.NoError(t, os.Mkdir(target, 0o755))
	link := filepath.Join(real, "link")
	require.NoError(t, os.Symlink(target, link))

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "plain", path: target, want: target},
		{name: "trailing separator", path: target + "/", want: target},
		{name: "dot segments", path: filepath.Join(real, "x", "..", "proj"), want: target},
		{name: "symlink resolved", path: link, want: target},
		{name: "missing path cleaned", path: filepath.Join(real, "nope") + "//", want: filepath.Join(real, "nope")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonicalize(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err = Canonicalize("")
	assert.Error(t, err)
}

func TestCanonicalize_StableAcrossCreation(t *testing.T) {
	dir := t.TempDir()
	realDir := filepath.Join(dir, "real")
	require.NoError(t, os.Mkdir(realDir, 0o755))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(realDir, link))

	resolvedReal, err := filepath.EvalSymlinks(realDir)
	require.NoError(t, err)

	path := filepath.Join(link, "app", "src")
	before, err := Canonicalize(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(resolvedReal, "app", "src"), before)
	tokenBefore, err := Project(path)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(realDir, "app", "src"), 0o755))

	after, err := Canonicalize(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	tokenAfter, err := Project(path)
	require.NoError(t, err)
	assert.Equal(t, tokenBefore, tokenAfter)
}

func TestProject_SymlinkSharesIdentity(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "proj")
	require.NoError(t, os.Mkdir(target, 0o755))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(target, link))

	a, err := Project(target)
	require.NoError(t, err)
	b, err := Project(link + "/")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	s1, err := Slot(target, 1)
	require.NoError(t, err)
	s2, err := Slot(link, 1)
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
}

func TestNames(t *testing.T) {
	tests := []struct {
		path string
		slug string
	}{
		{path: "/tmp/proj", slug: "proj"},
		{path: "/home/u/My Project!", slug: "my-project"},
		{path: "/", slug: "root"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.slug, Slug(tt.path))
			assert.Equal(t, "claudebox-"+tt.slug+"-"+Default.Project(tt.path), Default.ImageName(tt.path))
			assert.Equal(t, "claudebox-"+tt.slug+"-"+Default.Slot(tt.path, 3), Default.ContainerName(tt.path, 3))
		})
	}
}
