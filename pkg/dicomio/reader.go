// Package dicomio reads single-frame DICOM slice files into the in-memory
// representation used by the volume loader. DICOM parsing itself is
// delegated to github.com/suyashkumar/dicom; this package only extracts
// the pixel array and the geometry tags the loader needs.
package dicomio

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"dicomstack/internal/models"
)

// DecodeError reports a slice file that could not be decoded, either
// because the file is not parseable DICOM or because a required tag
// (pixel data, pixel spacing, patient position) is missing or malformed.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ReadSlice decodes one DICOM file into a Slice.
//
// The file must contain exactly one native (uncompressed) frame with a
// single sample per pixel, a PixelSpacing tag with two positive values,
// and an ImagePositionPatient tag with three values. Anything else
// returns a *DecodeError.
func ReadSlice(path string) (*models.Slice, error) {
	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	pixels, rows, cols, err := extractPixels(&ds)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	spacing, err := tagFloats(&ds, tag.PixelSpacing, 2)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	if spacing[0] <= 0 || spacing[1] <= 0 {
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("pixel spacing must be positive, got [%g, %g]", spacing[0], spacing[1])}
	}

	position, err := tagFloats(&ds, tag.ImagePositionPatient, 3)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	return &models.Slice{
		Path:         path,
		Rows:         rows,
		Cols:         cols,
		Pixels:       pixels,
		PixelSpacing: [2]float64{spacing[0], spacing[1]},
		Position:     [3]float64{position[0], position[1], position[2]},
	}, nil
}

// extractPixels pulls the single native frame out of the dataset as a
// row-major float32 array.
func extractPixels(ds *dicom.Dataset) ([]float32, int, int, error) {
	el, err := ds.FindElementByTag(tag.PixelData)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("missing pixel data: %v", err)
	}

	info := dicom.MustGetPixelDataInfo(el.Value)
	if info.IsEncapsulated {
		return nil, 0, 0, fmt.Errorf("encapsulated (compressed) pixel data is not supported")
	}
	if len(info.Frames) != 1 {
		return nil, 0, 0, fmt.Errorf("expected a single frame, got %d", len(info.Frames))
	}

	native, err := info.Frames[0].GetNativeFrame()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("reading native frame: %v", err)
	}

	rows := native.Rows()
	cols := native.Cols()
	pixels, err := frameToFloat32(native.RawDataSlice())
	if err != nil {
		return nil, 0, 0, err
	}
	if len(pixels) != rows*cols {
		// More than one sample per pixel (e.g. RGB) cannot be stacked
		// into a scalar volume.
		return nil, 0, 0, fmt.Errorf("expected %d single-sample pixels, got %d samples", rows*cols, len(pixels))
	}

	return pixels, rows, cols, nil
}

// frameToFloat32 converts the raw sample slice of a native frame into
// float32 values, whatever integer width the file stored them with.
func frameToFloat32(raw any) ([]float32, error) {
	switch data := raw.(type) {
	case []uint8:
		return convertSamples(data), nil
	case []int8:
		return convertSamples(data), nil
	case []uint16:
		return convertSamples(data), nil
	case []int16:
		return convertSamples(data), nil
	case []uint32:
		return convertSamples(data), nil
	case []int32:
		return convertSamples(data), nil
	case []uint64:
		return convertSamples(data), nil
	case []int64:
		return convertSamples(data), nil
	case []int:
		return convertSamples(data), nil
	case []uint:
		return convertSamples(data), nil
	default:
		return nil, fmt.Errorf("unsupported pixel sample type %T", raw)
	}
}

func convertSamples[T int8 | int16 | int32 | int64 | int | uint8 | uint16 | uint32 | uint64 | uint](data []T) []float32 {
	out := make([]float32, len(data))
	for i, v := range data {
		out[i] = float32(v)
	}
	return out
}

// tagFloats reads a decimal-string tag (VR DS) and parses exactly n values.
func tagFloats(ds *dicom.Dataset, t tag.Tag, n int) ([]float64, error) {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return nil, fmt.Errorf("missing tag %v: %v", t, err)
	}

	strs, ok := el.Value.GetValue().([]string)
	if !ok {
		return nil, fmt.Errorf("tag %v: expected decimal strings, got %T", t, el.Value.GetValue())
	}
	if len(strs) != n {
		return nil, fmt.Errorf("tag %v: expected %d values, got %d", t, n, len(strs))
	}

	out := make([]float64, n)
	for i, s := range strs {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("tag %v: parsing %q: %v", t, s, err)
		}
		out[i] = v
	}
	return out, nil
}
