package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"dicomstack/internal/models"
	"dicomstack/pkg/config"
	"dicomstack/pkg/dataset"
	"dicomstack/pkg/visualization"
	"dicomstack/pkg/volume"
)

func main() {
	// Parse command line arguments
	inputDir := flag.String("input", "", "Directory containing DICOM slice files (*.dcm)")
	useExample := flag.Bool("example", false, "Load the bundled example CT series instead of -input")
	configPath := flag.String("config", "", "Optional YAML configuration file")
	workers := flag.Int("workers", 0, "Number of parallel decode workers (default: from config)")
	strictSpacing := flag.Bool("strict", false, "Fail on non-uniform slice spacing")
	exportSlices := flag.Bool("export-slices", false, "Export volume cross-sections as PNG images")
	slicesDir := flag.String("slices-dir", "", "Directory for exported cross-sections (default: from config)")
	genExample := flag.String("gen-example", "", "Generate a synthetic example series into the given directory and exit")
	flag.Parse()

	// Generation mode: write a synthetic series and stop
	if *genExample != "" {
		if err := dataset.Generate(*genExample, dataset.GenerateOptions{}); err != nil {
			log.Fatalf("Failed to generate example series: %v", err)
		}
		fmt.Printf("Example series written to: %s\n", *genExample)
		return
	}

	// Validate inputs
	if *inputDir == "" && !*useExample {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *workers > 0 {
		cfg.Loader.NumWorkers = *workers
	}
	if *strictSpacing {
		cfg.Loader.StrictSpacing = true
	}
	if *slicesDir != "" {
		cfg.Output.SlicesDir = *slicesDir
	}

	opts := []volume.Option{volume.WithWorkers(cfg.Loader.NumWorkers)}
	if cfg.Loader.StrictSpacing {
		opts = append(opts, volume.WithStrictSpacing())
	}

	// Load the volume
	var vol *models.Volume
	var spacing models.Spacing

	startTime := time.Now()
	switch {
	case *useExample && cfg.Dataset.ExampleDir != "":
		vol, spacing, err = dataset.LoadExampleFrom(cfg.Dataset.ExampleDir, opts...)
	case *useExample:
		vol, spacing, err = dataset.LoadExample(opts...)
	default:
		vol, spacing, err = volume.Load(*inputDir, opts...)
	}
	if err != nil {
		log.Fatalf("Failed to load volume: %v", err)
	}
	loadTime := time.Since(startTime)

	fmt.Printf("Loaded volume in %.2f seconds\n", loadTime.Seconds())
	fmt.Printf("Dimensions: %d x %d x %d voxels\n", vol.Rows, vol.Cols, vol.Slices)
	fmt.Printf("Voxel spacing: %.4f x %.4f x %.4f mm\n", spacing.Row, spacing.Col, spacing.Slice)
	fmt.Printf("Physical extent: %.1f x %.1f x %.1f mm\n",
		float64(vol.Rows)*spacing.Row,
		float64(vol.Cols)*spacing.Col,
		float64(vol.Slices)*spacing.Slice)

	if cfg.Output.Verbose {
		stats := volume.Stats(vol)
		fmt.Printf("Intensity range: [%.1f, %.1f], mean %.1f, stddev %.1f\n",
			stats.Min, stats.Max, stats.Mean, stats.StdDev)
	}

	// Export cross-sections if requested
	if *exportSlices {
		fmt.Println("Exporting volume cross-sections...")

		viewer := visualization.NewViewer(vol)
		for _, axis := range []string{"row", "col", "slice"} {
			axisDir := fmt.Sprintf("%s/%s", cfg.Output.SlicesDir, axis)
			fmt.Printf("Saving %s-axis cross-sections to: %s\n", axis, axisDir)

			if err := viewer.SaveSliceSequence(axis, axisDir); err != nil {
				log.Printf("Warning: Failed to save %s-axis cross-sections: %v", axis, err)
			}
		}

		fmt.Println("Export completed!")
	}
}
