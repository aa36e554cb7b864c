package visualization

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"dicomstack/internal/models"
)

// testVolume builds a volume where every slice along the stacking axis
// has a unique constant value.
func testVolume(rows, cols, slices int) *models.Volume {
	vol := models.NewVolume(rows, cols, slices)
	for k := 0; k < slices; k++ {
		frame := vol.Frame(k)
		for i := range frame {
			frame[i] = float32(k)
		}
	}
	return vol
}

// TestExtractSlice verifies that cross-sections are correctly extracted
func TestExtractSlice(t *testing.T) {
	rows, cols, slices := 10, 12, 5
	viewer := NewViewer(testVolume(rows, cols, slices))

	// Slice-axis cross-sections are constant images of growing intensity
	for k := 0; k < slices; k++ {
		img, err := viewer.ExtractSlice("slice", k)
		if err != nil {
			t.Fatalf("Failed to extract slice %d: %v", k, err)
		}

		bounds := img.Bounds()
		if bounds.Dx() != cols || bounds.Dy() != rows {
			t.Errorf("Expected slice dimensions %dx%d, got %dx%d",
				cols, rows, bounds.Dx(), bounds.Dy())
		}

		gray16Img, ok := img.(*image.Gray16)
		if !ok {
			t.Fatalf("Expected *image.Gray16, got %T", img)
		}

		// Values are windowed to the volume's [0, slices-1] range
		expected := uint16(float64(k) / float64(slices-1) * 65535)
		if got := gray16Img.Gray16At(0, 0).Y; got != expected {
			t.Errorf("Slice %d intensity = %d, want %d", k, got, expected)
		}
	}

	// Row-axis cross-sections cut across the stack
	img, err := viewer.ExtractSlice("row", 3)
	if err != nil {
		t.Fatalf("Failed to extract row cross-section: %v", err)
	}
	if bounds := img.Bounds(); bounds.Dx() != cols || bounds.Dy() != slices {
		t.Errorf("Expected row cross-section dimensions %dx%d, got %dx%d",
			cols, slices, bounds.Dx(), bounds.Dy())
	}

	// Col-axis cross-sections likewise
	img, err = viewer.ExtractSlice("col", 3)
	if err != nil {
		t.Fatalf("Failed to extract col cross-section: %v", err)
	}
	if bounds := img.Bounds(); bounds.Dx() != rows || bounds.Dy() != slices {
		t.Errorf("Expected col cross-section dimensions %dx%d, got %dx%d",
			rows, slices, bounds.Dx(), bounds.Dy())
	}
}

// TestExtractSliceErrors verifies out-of-range and invalid-axis handling
func TestExtractSliceErrors(t *testing.T) {
	viewer := NewViewer(testVolume(4, 4, 2))

	if _, err := viewer.ExtractSlice("slice", 2); err == nil {
		t.Error("Expected error for out-of-range slice position")
	}
	if _, err := viewer.ExtractSlice("slice", -1); err == nil {
		t.Error("Expected error for negative position")
	}
	if _, err := viewer.ExtractSlice("diagonal", 0); err == nil {
		t.Error("Expected error for invalid axis")
	}
}

// TestSaveSliceSequence verifies that a full sequence of cross-sections
// is written as decodable PNG files
func TestSaveSliceSequence(t *testing.T) {
	viewer := NewViewer(testVolume(4, 4, 3))
	outputDir := filepath.Join(t.TempDir(), "slices")

	if err := viewer.SaveSliceSequence("slice", outputDir); err != nil {
		t.Fatalf("Failed to save slice sequence: %v", err)
	}

	for k := 0; k < 3; k++ {
		path := filepath.Join(outputDir, fmt.Sprintf("slice_%03d.png", k))
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("Expected cross-section file %s: %v", path, err)
		}

		if _, err := png.Decode(f); err != nil {
			t.Errorf("File %s is not a decodable PNG: %v", path, err)
		}
		f.Close()
	}
}

// TestUniformVolumeWindow verifies that a constant volume maps to black
// instead of dividing by a zero intensity range
func TestUniformVolumeWindow(t *testing.T) {
	vol := models.NewVolume(4, 4, 2)
	for i := range vol.Data {
		vol.Data[i] = 7
	}

	viewer := NewViewer(vol)
	img, err := viewer.ExtractSlice("slice", 0)
	if err != nil {
		t.Fatalf("Failed to extract slice: %v", err)
	}

	gray16Img := img.(*image.Gray16)
	if got := gray16Img.Gray16At(1, 1).Y; got != 0 {
		t.Errorf("Uniform volume intensity = %d, want 0", got)
	}
}
