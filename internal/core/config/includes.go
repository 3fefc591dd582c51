package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// loadIncludes reads YAML config fragments and merges them in declaration
// order. Later files override earlier files for the same keys.
func loadIncludes(configDir string, files []string) (map[string]any, error) {
	merged := make(map[string]any)

	for _, file := range files {
		data, err := os.ReadFile(resolveInclude(configDir, file))
		if err != nil {
			return nil, fmt.Errorf("read include %q: %w", file, err)
		}

		var fragment map[string]any
		if err := yaml.Unmarshal(data, &fragment); err != nil {
			return nil, fmt.Errorf("parse include %q: %w", file, err)
		}

		mergeMaps(merged, fragment)
	}

	return merged, nil
}

func resolveInclude(configDir, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(configDir, file)
}

// mergeMaps recursively merges src into dst.
// Nested maps are merged, while scalar and non-map values are replaced.
func mergeMaps(dst, src map[string]any) {
	if src == nil {
		return
	}

	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		if !srcIsMap {
			dst[key] = srcVal
			continue
		}

		dstMap, dstIsMap := dst[key].(map[string]any)
		if !dstIsMap {
			dst[key] = srcMap
			continue
		}

		mergeMaps(dstMap, srcMap)
	}
}
