package mount

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// projectFile is the restricted shape of .claudebox.yml:
//
//	mounts:
//	  - host: ~/data
//	    container: /data
//	    readonly: true
type projectFile struct {
	Mounts []fileMount `yaml:"mounts"`
}

type fileMount struct {
	Host      string       `yaml:"host"`
	Container string       `yaml:"container"`
	ReadOnly  readOnlyFlag `yaml:"readonly"`
}

// readOnlyFlag accepts true or yes (any case, quoted or not); every other
// value means read-write.
type readOnlyFlag bool

func (f *readOnlyFlag) UnmarshalYAML(node *yaml.Node) error {
	v := strings.ToLower(strings.TrimSpace(node.Value))
	*f = readOnlyFlag(v == "true" || v == "yes")
	return nil
}

// ParseFile reads mount declarations from a project mount file. A missing
// file or a file that does not match the expected structure yields no
// mounts and no error. Records without host or container are skipped.
// Relative host paths resolve against the file's directory.
func ParseFile(file string) ([]Mount, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return []Mount{}, nil
		}
		return nil, fmt.Errorf("failed to read mount file %s: %w", file, err)
	}

	var pf projectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return []Mount{}, nil
	}

	baseDir := filepath.Dir(file)
	mounts := make([]Mount, 0, len(pf.Mounts))
	for _, fm := range pf.Mounts {
		host := strings.TrimSpace(fm.Host)
		container := strings.TrimSpace(fm.Container)
		if host == "" || container == "" {
			continue
		}

		hostPath, err := expandPath(host, baseDir)
		if err != nil {
			continue
		}

		mode := ModeRW
		if fm.ReadOnly {
			mode = ModeRO
		}

		mounts = append(mounts, Mount{
			Host:      hostPath,
			Container: path.Clean(container),
			Mode:      mode,
		})
	}

	return mounts, nil
}
