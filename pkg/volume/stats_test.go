package volume_test

import (
	"math"
	"testing"

	"dicomstack/internal/models"
	"dicomstack/pkg/volume"
)

func TestStats(t *testing.T) {
	vol := models.NewVolume(2, 2, 1)
	vol.SetFrame(0, []float32{1, 2, 3, 4})

	stats := volume.Stats(vol)
	if stats.Min != 1 || stats.Max != 4 {
		t.Errorf("Min/Max = %g/%g, want 1/4", stats.Min, stats.Max)
	}
	if stats.Mean != 2.5 {
		t.Errorf("Mean = %g, want 2.5", stats.Mean)
	}

	// Sample standard deviation of {1,2,3,4}
	want := math.Sqrt(5.0 / 3.0)
	if math.Abs(stats.StdDev-want) > 1e-12 {
		t.Errorf("StdDev = %g, want %g", stats.StdDev, want)
	}
}

func TestStatsEmptyVolume(t *testing.T) {
	stats := volume.Stats(&models.Volume{})
	if stats != (volume.VolumeStats{}) {
		t.Errorf("Stats of empty volume = %+v, want zero value", stats)
	}
}
