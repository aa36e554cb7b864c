package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"dicomstack/internal/models"
)

// Viewer extracts axis-aligned cross-sections from a loaded volume and
// saves them as grayscale images, mainly for eyeballing a dataset before
// feeding it to a renderer.
type Viewer struct {
	vol *models.Volume

	// intensity window, taken from the volume's min/max so that the full
	// dynamic range maps onto 16-bit gray
	lo float32
	hi float32
}

// NewViewer creates a viewer over a loaded volume.
func NewViewer(vol *models.Volume) *Viewer {
	v := &Viewer{vol: vol}
	if len(vol.Data) > 0 {
		v.lo, v.hi = vol.Data[0], vol.Data[0]
		for _, x := range vol.Data {
			if x < v.lo {
				v.lo = x
			}
			if x > v.hi {
				v.hi = x
			}
		}
	}
	return v
}

// gray maps a voxel value into the viewer's intensity window.
func (v *Viewer) gray(val float32) color.Gray16 {
	if v.hi == v.lo {
		return color.Gray16{}
	}
	n := float64(val-v.lo) / float64(v.hi-v.lo)
	return color.Gray16{Y: uint16(n * 65535)}
}

// ExtractSlice extracts a 2D cross-section at the given position along
// the specified axis: "row" fixes a row index, "col" a column index, and
// "slice" a through-plane index (the stacking axis).
func (v *Viewer) ExtractSlice(axis string, position int) (image.Image, error) {
	if position < 0 {
		return nil, fmt.Errorf("position must be non-negative")
	}

	var img *image.Gray16

	switch axis {
	case "row":
		if position >= v.vol.Rows {
			return nil, fmt.Errorf("position %d exceeds row count %d", position, v.vol.Rows)
		}

		img = image.NewGray16(image.Rect(0, 0, v.vol.Cols, v.vol.Slices))
		for k := 0; k < v.vol.Slices; k++ {
			for c := 0; c < v.vol.Cols; c++ {
				img.SetGray16(c, k, v.gray(v.vol.At(position, c, k)))
			}
		}

	case "col":
		if position >= v.vol.Cols {
			return nil, fmt.Errorf("position %d exceeds column count %d", position, v.vol.Cols)
		}

		img = image.NewGray16(image.Rect(0, 0, v.vol.Rows, v.vol.Slices))
		for k := 0; k < v.vol.Slices; k++ {
			for r := 0; r < v.vol.Rows; r++ {
				img.SetGray16(r, k, v.gray(v.vol.At(r, position, k)))
			}
		}

	case "slice":
		if position >= v.vol.Slices {
			return nil, fmt.Errorf("position %d exceeds slice count %d", position, v.vol.Slices)
		}

		img = image.NewGray16(image.Rect(0, 0, v.vol.Cols, v.vol.Rows))
		for r := 0; r < v.vol.Rows; r++ {
			for c := 0; c < v.vol.Cols; c++ {
				img.SetGray16(c, r, v.gray(v.vol.At(r, c, position)))
			}
		}

	default:
		return nil, fmt.Errorf("invalid axis: %s (must be row, col, or slice)", axis)
	}

	return img, nil
}

// SaveSlice saves an extracted cross-section as a PNG image.
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// SaveSliceSequence extracts and saves every cross-section along the
// specified axis into outputDir.
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	var maxPos int
	switch axis {
	case "row":
		maxPos = v.vol.Rows
	case "col":
		maxPos = v.vol.Cols
	case "slice":
		maxPos = v.vol.Slices
	default:
		return fmt.Errorf("invalid axis: %s (must be row, col, or slice)", axis)
	}

	for pos := 0; pos < maxPos; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("%s_%03d.png", axis, pos))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}

	return nil
}
