package models

// Slice represents a single decoded DICOM slice with the metadata
// needed to place it inside a volume.
type Slice struct {
	// Path is the file the slice was decoded from
	Path string

	// Rows and Cols are the pixel array dimensions
	Rows int
	Cols int

	// Pixels holds the pixel values in row-major order (Rows x Cols)
	Pixels []float32

	// PixelSpacing is the in-plane voxel size in mm: spacing between
	// rows, then spacing between columns
	PixelSpacing [2]float64

	// Position is the patient-space position of the slice in mm.
	// Only the third component (the through-plane coordinate) is used
	// when deriving slice spacing.
	Position [3]float64
}

// Spacing is the physical size of one voxel in mm along each volume axis.
type Spacing struct {
	Row   float64
	Col   float64
	Slice float64
}

// Volume represents a dense 3D image assembled by stacking decoded slices.
// Voxels are indexed (row, col, slice) and stored as 32-bit floats.
type Volume struct {
	// Data is the voxel data as a 1D array, slice-major: all voxels of
	// slice 0 first (row-major within a slice), then slice 1, and so on.
	Data []float32

	// Rows, Cols and Slices are the volume dimensions
	Rows   int
	Cols   int
	Slices int
}

// NewVolume allocates a zero-initialized volume of the given dimensions.
func NewVolume(rows, cols, slices int) *Volume {
	return &Volume{
		Data:   make([]float32, rows*cols*slices),
		Rows:   rows,
		Cols:   cols,
		Slices: slices,
	}
}

// At returns the voxel value at (row, col, slice).
func (v *Volume) At(row, col, slice int) float32 {
	return v.Data[(slice*v.Rows+row)*v.Cols+col]
}

// Set stores a voxel value at (row, col, slice).
func (v *Volume) Set(row, col, slice int, val float32) {
	v.Data[(slice*v.Rows+row)*v.Cols+col] = val
}

// Frame returns the pixel data of one slice as a row-major view into the
// volume's backing array. Mutating the returned slice mutates the volume.
func (v *Volume) Frame(slice int) []float32 {
	n := v.Rows * v.Cols
	return v.Data[slice*n : (slice+1)*n]
}

// SetFrame copies a row-major pixel array into the given slice index.
// The pixel array must have exactly Rows*Cols elements.
func (v *Volume) SetFrame(slice int, pixels []float32) {
	copy(v.Frame(slice), pixels)
}
