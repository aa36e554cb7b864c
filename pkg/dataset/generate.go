package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// GenerateOptions controls the synthetic CT series written by Generate.
// The zero value is usable; unset fields fall back to a small 8-slice
// 64x64 series with 2.5 mm slice spacing.
type GenerateOptions struct {
	// Count is the number of slice files to write
	Count int

	// Rows and Cols are the pixel array dimensions of every slice
	Rows int
	Cols int

	// PixelSpacing is the in-plane spacing in mm (row, col)
	PixelSpacing [2]float64

	// SliceSpacing is the gap between consecutive slice positions in mm
	SliceSpacing float64

	// Positions optionally fixes the through-plane coordinate of each
	// slice explicitly, overriding SliceSpacing. Must have Count entries
	// when set. Used to produce unevenly spaced series.
	Positions []float64

	// Seed makes the generated pixel data deterministic
	Seed uint64
}

func (o GenerateOptions) withDefaults() GenerateOptions {
	if o.Count == 0 {
		o.Count = 8
	}
	if o.Rows == 0 {
		o.Rows = 64
	}
	if o.Cols == 0 {
		o.Cols = 64
	}
	if o.PixelSpacing == [2]float64{} {
		o.PixelSpacing = [2]float64{0.703125, 0.703125}
	}
	if o.SliceSpacing == 0 {
		o.SliceSpacing = 2.5
	}
	if o.Seed == 0 {
		o.Seed = 1
	}
	return o
}

// Generate writes a deterministic synthetic CT series into dir as
// IMG0001.dcm, IMG0002.dcm, ... in slice order. The same options always
// produce byte-identical files, so generated series can serve both as the
// bundled example dataset and as reproducible test fixtures.
func Generate(dir string, opts GenerateOptions) error {
	opts = opts.withDefaults()
	if opts.Positions != nil && len(opts.Positions) != opts.Count {
		return fmt.Errorf("got %d explicit positions for %d slices", len(opts.Positions), opts.Count)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create dataset directory: %v", err)
	}

	for i := 0; i < opts.Count; i++ {
		z := float64(i) * opts.SliceSpacing
		if opts.Positions != nil {
			z = opts.Positions[i]
		}

		path := filepath.Join(dir, fmt.Sprintf("IMG%04d.dcm", i+1))
		if err := writeSlice(path, i, z, opts); err != nil {
			return fmt.Errorf("failed to write slice %d: %v", i+1, err)
		}
	}

	return nil
}

// writeSlice writes one single-frame CT slice file at the given
// through-plane position.
func writeSlice(path string, index int, z float64, opts GenerateOptions) error {
	rows, cols := opts.Rows, opts.Cols
	nativeFrame := frame.NewNativeFrame[uint16](16, rows, cols, rows*cols, 1)

	// Radial phantom with per-slice deterministic noise: a soft-tissue
	// disk that shrinks toward the ends of the stack, on an air background.
	rng := rand.New(rand.NewPCG(opts.Seed, uint64(index)))
	centerR, centerC := float64(rows)/2, float64(cols)/2
	radius := (0.15 + 0.25*math.Sin(math.Pi*float64(index+1)/float64(opts.Count+1))) * math.Min(centerR, centerC) * 2

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			dr := float64(r) - centerR
			dc := float64(c) - centerC
			dist := math.Sqrt(dr*dr + dc*dc)

			intensity := 40.0 // air
			if dist < radius {
				intensity = 1064 + 200*(1-dist/radius) // soft tissue ramp
			}
			intensity += (rng.Float64() - 0.5) * 30

			nativeFrame.RawData[r*cols+c] = uint16(math.Max(0, math.Min(65535, intensity)))
		}
	}

	pixelDataInfo := dicom.PixelDataInfo{
		Frames: []*frame.Frame{
			{
				Encapsulated: false,
				NativeData:   nativeFrame,
			},
		},
	}

	elements := []*dicom.Element{
		mustNewElement(tag.TransferSyntaxUID, []string{"1.2.840.10008.1.2.1"}),
		mustNewElement(tag.PatientName, []string{"ANONYMOUS"}),
		mustNewElement(tag.PatientID, []string{"DS000001"}),
		mustNewElement(tag.StudyInstanceUID, []string{seriesUID(opts.Seed, 0)}),
		mustNewElement(tag.SeriesInstanceUID, []string{seriesUID(opts.Seed, 1)}),
		mustNewElement(tag.Modality, []string{"CT"}),
		mustNewElement(tag.SOPClassUID, []string{"1.2.840.10008.5.1.4.1.1.2"}),
		mustNewElement(tag.SOPInstanceUID, []string{seriesUID(opts.Seed, uint64(index)+2)}),
		mustNewElement(tag.InstanceNumber, []string{fmt.Sprintf("%d", index+1)}),
		mustNewElement(tag.PixelSpacing, []string{
			fmt.Sprintf("%.6f", opts.PixelSpacing[0]),
			fmt.Sprintf("%.6f", opts.PixelSpacing[1]),
		}),
		mustNewElement(tag.SliceThickness, []string{fmt.Sprintf("%.6f", opts.SliceSpacing)}),
		mustNewElement(tag.ImagePositionPatient, []string{
			"-100.000000",
			"-100.000000",
			fmt.Sprintf("%.6f", z),
		}),
		mustNewElement(tag.ImageOrientationPatient, []string{"1", "0", "0", "0", "1", "0"}),
		mustNewElement(tag.SliceLocation, []string{fmt.Sprintf("%.6f", z)}),
		mustNewElement(tag.Rows, []int{rows}),
		mustNewElement(tag.Columns, []int{cols}),
		mustNewElement(tag.BitsAllocated, []int{16}),
		mustNewElement(tag.BitsStored, []int{16}),
		mustNewElement(tag.HighBit, []int{15}),
		mustNewElement(tag.PixelRepresentation, []int{0}),
		mustNewElement(tag.SamplesPerPixel, []int{1}),
		mustNewElement(tag.PhotometricInterpretation, []string{"MONOCHROME2"}),
		mustNewElement(tag.PixelData, pixelDataInfo),
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return dicom.Write(f, dicom.Dataset{Elements: elements})
}

// seriesUID derives a deterministic numeric UID from the generator seed.
func seriesUID(seed, n uint64) string {
	return fmt.Sprintf("1.2.826.0.1.3680043.10.1342.%d.%d", seed, n)
}

func mustNewElement(t tag.Tag, v interface{}) *dicom.Element {
	e, err := dicom.NewElement(t, v)
	if err != nil {
		panic(fmt.Sprintf("failed to create element %v: %v", t, err))
	}
	return e
}
