package volume

import (
	"errors"
	"fmt"
)

// ErrEmptyDataset reports a directory with too few slice files to build a
// volume: zero matching files, or a single file (slice spacing cannot be
// derived from one position).
var ErrEmptyDataset = errors.New("dataset contains too few slice files")

// ShapeMismatchError reports a slice whose pixel array dimensions disagree
// with the first slice of the series.
type ShapeMismatchError struct {
	Path     string
	Rows     int
	Cols     int
	WantRows int
	WantCols int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("slice %s has shape %dx%d, expected %dx%d",
		e.Path, e.Rows, e.Cols, e.WantRows, e.WantCols)
}

// NonUniformSpacingError reports a series whose consecutive slice positions
// are not evenly spaced. It is only returned in strict spacing mode; the
// default behavior keeps the smallest gap and proceeds.
type NonUniformSpacingError struct {
	// Gaps holds the distinct absolute gaps between consecutive slice
	// positions, in ascending order. Always at least two values.
	Gaps []float64
}

func (e *NonUniformSpacingError) Error() string {
	return fmt.Sprintf("non-uniform slice spacing, distinct gaps %v", e.Gaps)
}
