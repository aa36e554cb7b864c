// Package dataset locates and generates the example CT series that ships
// with dicomstack, so the volume loader can be exercised without access
// to a real scanner export.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"dicomstack/internal/models"
	"dicomstack/pkg/volume"
)

// ErrDatasetNotFound reports that the bundled example series directory
// does not exist in the deployed artifact.
var ErrDatasetNotFound = errors.New("example dataset not found")

// DefaultExampleDir is the example series location relative to the
// installed binary.
const DefaultExampleDir = "data/example_ct"

// ExampleDir resolves the bundled example series directory relative to
// the running executable.
func ExampleDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %v", err)
	}
	return filepath.Join(filepath.Dir(execPath), DefaultExampleDir), nil
}

// LoadExample loads the bundled example CT series into a volume.
// It fails with ErrDatasetNotFound if the series has not been deployed
// alongside the binary; see Generate for producing one.
func LoadExample(opts ...volume.Option) (*models.Volume, models.Spacing, error) {
	dir, err := ExampleDir()
	if err != nil {
		return nil, models.Spacing{}, err
	}
	return LoadExampleFrom(dir, opts...)
}

// LoadExampleFrom loads an example series from an explicit directory,
// for deployments that place the dataset somewhere other than next to
// the executable.
func LoadExampleFrom(dir string, opts ...volume.Option) (*models.Volume, models.Spacing, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, models.Spacing{}, fmt.Errorf("%w: %s", ErrDatasetNotFound, dir)
	}
	return volume.Load(dir, opts...)
}
