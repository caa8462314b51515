package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"splice/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

// ErrConfigExists is returned by CreateSample when the target is present and
// overwrite was not requested.
var ErrConfigExists = errors.New("config file already exists")

// CreateSample writes the annotated sample configuration to path.
func CreateSample(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w at %s (use --overwrite to replace it)", ErrConfigExists, path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("check config path: %w", err)
		}
	}
	if err := fileutil.WriteFileAtomic(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
