package definition

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Load reads a graph definition, choosing the decoder from the file
// extension. Directories are loaded as CUE packages.
func Load(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, loadErrorf(ErrCodeNotFound, path, err, "definition not found")
		}
		return nil, loadErrorf(ErrCodeGeneric, path, err, "failed to access definition: %v", err)
	}
	if info.IsDir() {
		return LoadCUE(path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(path)
	case ".cue":
		return LoadCUE(path)
	case ".hcl":
		return LoadHCL(path)
	default:
		return nil, loadErrorf(ErrCodeUnsupported, path, nil,
			"unsupported definition format %q (want .yaml, .yml, .cue or .hcl)", filepath.Ext(path))
	}
}
