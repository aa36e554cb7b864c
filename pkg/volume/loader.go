// Package volume assembles a directory of DICOM slice files into a dense
// 3D volume with anisotropic voxel spacing, the input expected by a
// digitally-reconstructed-radiograph (DRR) renderer.
package volume

import (
	"fmt"
	"math"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"

	"dicomstack/internal/models"
	"dicomstack/pkg/dicomio"
)

// Option adjusts how a volume is loaded.
type Option func(*loadOptions)

type loadOptions struct {
	workers       int
	strictSpacing bool
}

// WithWorkers sets the number of goroutines used to decode slices.
// Values below 2 force fully sequential decoding. The result is identical
// regardless of worker count; each worker writes only its own slice index.
func WithWorkers(n int) Option {
	return func(o *loadOptions) {
		o.workers = n
	}
}

// WithStrictSpacing makes Load fail with a *NonUniformSpacingError when
// consecutive slice positions are not evenly spaced, instead of silently
// keeping the smallest gap.
func WithStrictSpacing() Option {
	return func(o *loadOptions) {
		o.strictSpacing = true
	}
}

// Load reads every *.dcm file under dir into a single volume.
//
// Files are ordered lexicographically by path; the dataset preparation
// convention is that this matches physical slice order along the scan
// axis, which is assumed rather than verified. The in-plane voxel size
// comes from the first slice's pixel spacing tag, the through-plane size
// from the gaps between consecutive slice positions.
//
// Load either returns a complete volume or an error; partial volumes are
// never returned and nothing is retried. Possible failures:
//   - ErrEmptyDataset: no *.dcm files, or only one (through-plane spacing
//     is undefined for a single slice)
//   - *dicomio.DecodeError: a file could not be decoded or lacks required tags
//   - *ShapeMismatchError: a slice's pixel array differs in shape from the first
//   - *NonUniformSpacingError: uneven slice gaps, strict mode only
func Load(dir string, opts ...Option) (*models.Volume, models.Spacing, error) {
	options := loadOptions{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(&options)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.dcm"))
	if err != nil {
		return nil, models.Spacing{}, fmt.Errorf("enumerating %s: %v", dir, err)
	}
	if len(files) == 0 {
		return nil, models.Spacing{}, fmt.Errorf("%w: no *.dcm files in %s", ErrEmptyDataset, dir)
	}
	sort.Strings(files)

	// The first slice fixes the volume shape and the in-plane spacing.
	first, err := dicomio.ReadSlice(files[0])
	if err != nil {
		return nil, models.Spacing{}, err
	}

	vol := models.NewVolume(first.Rows, first.Cols, len(files))
	positions := make([]float64, len(files))

	vol.SetFrame(0, first.Pixels)
	positions[0] = first.Position[2]

	if err := decodeInto(vol, positions, files, first, options.workers); err != nil {
		return nil, models.Spacing{}, err
	}

	sliceSpacing, err := deriveSliceSpacing(positions, options.strictSpacing)
	if err != nil {
		return nil, models.Spacing{}, err
	}

	spacing := models.Spacing{
		Row:   first.PixelSpacing[0],
		Col:   first.PixelSpacing[1],
		Slice: sliceSpacing,
	}
	return vol, spacing, nil
}

// decodeInto decodes files[1:] into their slice indices of the
// pre-allocated volume, sequentially or across a pool of workers.
// Positions are written by index, so file-sort order is preserved no
// matter which worker finishes first.
func decodeInto(vol *models.Volume, positions []float64, files []string, first *models.Slice, workers int) error {
	loadOne := func(idx int) error {
		sl, err := dicomio.ReadSlice(files[idx])
		if err != nil {
			return err
		}
		if sl.Rows != first.Rows || sl.Cols != first.Cols {
			return &ShapeMismatchError{
				Path:     sl.Path,
				Rows:     sl.Rows,
				Cols:     sl.Cols,
				WantRows: first.Rows,
				WantCols: first.Cols,
			}
		}
		vol.SetFrame(idx, sl.Pixels)
		positions[idx] = sl.Position[2]
		return nil
	}

	if workers < 2 || len(files) < 3 {
		for idx := 1; idx < len(files); idx++ {
			if err := loadOne(idx); err != nil {
				return err
			}
		}
		return nil
	}

	if workers > len(files)-1 {
		workers = len(files) - 1
	}

	indices := make(chan int)
	errs := make([]error, len(files))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indices {
				errs[idx] = loadOne(idx)
			}
		}()
	}

	for idx := 1; idx < len(files); idx++ {
		indices <- idx
	}
	close(indices)
	wg.Wait()

	// Report the error of the lowest failing index so that parallel and
	// sequential loads fail identically.
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// deriveSliceSpacing computes the through-plane voxel size from the
// through-plane coordinates of consecutive slices, in file-sort order.
//
// When the absolute gaps are not all identical the series is unevenly
// spaced. The default policy keeps the smallest distinct gap and carries
// on; downstream renderers get a slightly wrong geometry rather than an
// error. Strict mode rejects such a series instead.
func deriveSliceSpacing(positions []float64, strict bool) (float64, error) {
	if len(positions) < 2 {
		return 0, fmt.Errorf("%w: %d slice(s), need at least 2 to derive slice spacing",
			ErrEmptyDataset, len(positions))
	}

	gaps := make([]float64, len(positions)-1)
	floats.SubTo(gaps, positions[1:], positions[:len(positions)-1])
	for i, g := range gaps {
		gaps[i] = math.Abs(g)
	}

	sort.Float64s(gaps)
	distinct := gaps[:1]
	for _, g := range gaps[1:] {
		if g != distinct[len(distinct)-1] {
			distinct = append(distinct, g)
		}
	}

	if strict && len(distinct) > 1 {
		return 0, &NonUniformSpacingError{Gaps: append([]float64(nil), distinct...)}
	}
	return distinct[0], nil
}
