package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// GraphNotFoundError is returned when a scenario references a graph
// definition that doesn't exist.
type GraphNotFoundError struct {
	Scenario string
	Path     string
}

// Error implements the error interface.
func (e *GraphNotFoundError) Error() string {
	return fmt.Sprintf("scenario %q references graph %q which does not exist", e.Scenario, e.Path)
}

// DiscoverScenarios returns the scenario files (.yaml/.yml) directly under
// dir, sorted by name. A non-empty filter is a filepath.Match pattern
// applied to the base name.
func DiscoverScenarios(dir, filter string) ([]string, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", filter, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scenario dir: %w", err)
	}

	paths := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		if filter != "" {
			if ok, _ := filepath.Match(filter, name); !ok {
				continue
			}
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)
	return paths, nil
}
