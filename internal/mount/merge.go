package mount

import "path"

// Merge combines mount groups in call order, config file entries first and
// CLI entries last. The first mount for a container path fixes its position;
// later mounts for the same container path overwrite it there, so the last
// one supplied wins.
func Merge(groups ...[]Mount) []Mount {
	index := make(map[string]int)
	var merged []Mount

	for _, group := range groups {
		for _, m := range group {
			key := path.Clean(m.Container)
			if i, ok := index[key]; ok {
				merged[i] = m
				continue
			}
			index[key] = len(merged)
			merged = append(merged, m)
		}
	}

	return merged
}
