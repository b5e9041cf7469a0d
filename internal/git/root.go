package git

import (
	"os/exec"
	"strings"
)

// FindRoot returns the git repository root for the given directory,
// or an empty string if the directory is not inside a git repository.
func FindRoot(dir string) string {
	cmd := exec.Command("git", "-C", dir, "rev-parse", "--show-toplevel")
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// ProjectDir returns the directory whose identity dir should take. With
// useGitRoot set, a directory inside a repository maps to the repository
// root; otherwise, or outside a repository, dir is returned unchanged.
func ProjectDir(dir string, useGitRoot bool) string {
	if !useGitRoot {
		return dir
	}
	if root := FindRoot(dir); root != "" {
		return root
	}
	return dir
}
