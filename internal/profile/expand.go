package profile

import "sort"

// Known lists the profiles that can be selected, with a short description.
var Known = map[string]string{
	"core":        "Core development utilities",
	"build-tools": "Compilers and build systems (gcc, make, cmake, ninja)",
	"shell":       "Shell and terminal tooling",
	"networking":  "Network diagnostics",
	"c":           "C/C++ development",
	"openwrt":     "OpenWrt firmware development",
	"embedded":    "Embedded and cross-compilation toolchains",
	"rust":        "Rust toolchain",
	"python":      "Python runtime and tooling",
	"go":          "Go toolchain",
	"javascript":  "Node.js and JavaScript tooling",
	"java":        "JDK and build tools",
	"ruby":        "Ruby runtime",
	"php":         "PHP runtime",
	"flutter":     "Flutter SDK",
	"database":    "Database clients",
	"devops":      "Container and infrastructure tooling",
	"web":         "Web servers and HTTP tooling",
	"datascience": "Data science libraries",
	"ml":          "Machine learning frameworks",
	"security":    "Security testing tools",
}

// composites maps a profile to the prerequisites installed before it.
var composites = map[string][]string{
	"c":           {"core", "build-tools", "c"},
	"openwrt":     {"core", "build-tools", "openwrt"},
	"embedded":    {"core", "build-tools", "embedded"},
	"rust":        {"core", "rust"},
	"python":      {"core", "python"},
	"go":          {"core", "go"},
	"javascript":  {"core", "javascript"},
	"java":        {"core", "java"},
	"ruby":        {"core", "ruby"},
	"php":         {"core", "php"},
	"flutter":     {"core", "flutter"},
	"datascience": {"core", "datascience"},
	"ml":          {"core", "ml"},
}

// Expand returns name's prerequisites followed by name. Expansion is one
// level deep; names without prerequisites expand to themselves.
func Expand(name string) []string {
	if expanded, ok := composites[name]; ok {
		return append([]string(nil), expanded...)
	}
	return []string{name}
}

// ExpandAll expands every name, keeping the first occurrence of each result.
func ExpandAll(names []string) []string {
	var all []string
	for _, name := range names {
		all = append(all, Expand(name)...)
	}
	return dedupe(all)
}

// KnownNames returns the known profile names sorted alphabetically.
func KnownNames() []string {
	names := make([]string, 0, len(Known))
	for name := range Known {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
