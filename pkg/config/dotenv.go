package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/subosito/gotenv"
)

// DefaultEnvFile is the dotenv file loaded at start-up.
const DefaultEnvFile = ".env"

// LoadEnvFile loads variables from a dotenv file into the process
// environment. Variables that are already set are not overwritten.
// A missing file is ignored and reported as loaded == false.
func LoadEnvFile(path string) (loaded bool, err error) {
	if path == "" {
		return false, nil
	}
	if err := gotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load env file %q: %w", path, err)
	}
	return true, nil
}
