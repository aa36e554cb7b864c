package volume

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"dicomstack/internal/models"
)

// VolumeStats summarizes the voxel intensity distribution of a volume.
type VolumeStats struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Stats computes intensity statistics over every voxel of the volume.
func Stats(v *models.Volume) VolumeStats {
	if len(v.Data) == 0 {
		return VolumeStats{}
	}

	data := make([]float64, len(v.Data))
	for i, x := range v.Data {
		data[i] = float64(x)
	}

	return VolumeStats{
		Min:    floats.Min(data),
		Max:    floats.Max(data),
		Mean:   stat.Mean(data, nil),
		StdDev: stat.StdDev(data, nil),
	}
}
