package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/planbiir/gpxkit/gpx"
)

func main() {
	var (
		inputFile  = flag.String("i", "", "Input GPX file")
		outputFile = flag.String("o", "", "Output GPX file (default: <input>_out.gpx, only written when a transform is requested)")
		simplify   = flag.Float64("simplify", 0, "Simplify tracks with the given max distance in meters (0 = off)")
		reduce     = flag.Int("reduce", 0, "Reduce tracks to at most N points (0 = off)")
		smooth     = flag.Bool("smooth", false, "Smooth track elevations and positions")
		showStats  = flag.Bool("stats", false, "Show detailed track statistics")
		versionOut = flag.String("version-out", "", "Schema version to write (1.0 or 1.1, default: same as input)")
		version    = flag.Bool("version", false, "Show version information")
	)

	flag.Usage = func() {
		fmt.Printf("gpxinfo - Inspect and transform GPX tracks\n\n")
		fmt.Printf("usage: gpxinfo -i /path/to/file.gpx\n\n")
		fmt.Printf("examples:\n")
		fmt.Printf("  gpxinfo -i track.gpx -stats\n")
		fmt.Printf("  gpxinfo -i track.gpx -simplify 10 -o simplified.gpx\n")
		fmt.Printf("  gpxinfo -i track.gpx -reduce 1000 -version-out 1.1\n\n")
		fmt.Printf("options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Println("gpxinfo v1.0.0 - GPX track inspector")
		fmt.Println("https://github.com/planbiir/gpxkit")
		os.Exit(0)
	}

	if *inputFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	fmt.Printf("📖 Reading GPX file: %s\n", *inputFile)
	data, err := os.ReadFile(*inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}

	doc, err := gpx.Parse(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing GPX file: %v\n", err)
		os.Exit(1)
	}

	pointsNo := doc.GetPointsNo()
	if pointsNo == 0 && len(doc.Waypoints) == 0 && len(doc.Routes) == 0 {
		fmt.Printf("❌ No GPS data found in file\n")
		os.Exit(1)
	}

	fmt.Printf("📊 %d points across %d tracks, %d routes, %d waypoints\n",
		pointsNo, len(doc.Tracks), len(doc.Routes), len(doc.Waypoints))

	if *showStats {
		printStats(doc)
	}

	transformed := false

	if *simplify > 0 {
		before := doc.GetPointsNo()
		doc.Simplify(*simplify)
		fmt.Printf("✂️  Simplified: %d → %d points\n", before, doc.GetPointsNo())
		transformed = true
	}

	if *reduce > 0 {
		before := doc.GetPointsNo()
		if err := doc.ReducePoints(*reduce, 0); err != nil {
			fmt.Fprintf(os.Stderr, "Error reducing points: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✂️  Reduced: %d → %d points\n", before, doc.GetPointsNo())
		transformed = true
	}

	if *smooth {
		doc.Smooth(true, true, false)
		fmt.Printf("〰️  Smoothed track elevations and positions\n")
		transformed = true
	}

	if !transformed && *versionOut == "" {
		return
	}

	if *outputFile == "" {
		ext := filepath.Ext(*inputFile)
		base := strings.TrimSuffix(*inputFile, ext)
		*outputFile = base + "_out" + ext
	}

	out, err := doc.ToXML(*versionOut)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error serializing GPX: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("💾 Writing GPX %s: %s\n", doc.Version, *outputFile)
	if err := os.WriteFile(*outputFile, []byte(out), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing GPX file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Done\n")
}

func printStats(doc *gpx.Document) {
	fmt.Printf("\n📊 Track Statistics:\n")
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Printf("📏 Length: %.2f km (2D), %.2f km (3D)\n",
		doc.Length2D()/1000, doc.Length3D()/1000)

	if duration := doc.GetDuration(); duration != nil {
		fmt.Printf("⏱️  Duration: %v\n", duration.Round(time.Second))
	}

	md := doc.GetMovingData(0)
	fmt.Printf("🏃 Moving: %v over %.2f km\n", md.MovingTime.Round(time.Second), md.MovingDistance/1000)
	fmt.Printf("🛑 Stopped: %v over %.2f km\n", md.StoppedTime.Round(time.Second), md.StoppedDistance/1000)
	if md.MaxSpeed != nil {
		fmt.Printf("⚡ Max speed: %.1f m/s (%.1f km/h)\n", *md.MaxSpeed, *md.MaxSpeed*3.6)
	}

	ud := doc.GetUphillDownhill()
	fmt.Printf("⛰️  Climb: %.0f m up, %.0f m down\n", ud.Uphill, ud.Downhill)

	extremes := doc.GetElevationExtremes()
	if extremes.Minimum != nil && extremes.Maximum != nil {
		fmt.Printf("📈 Elevation: %.0f m – %.0f m\n", *extremes.Minimum, *extremes.Maximum)
	}

	bounds := doc.GetBounds()
	if bounds.MinLatitude != nil {
		fmt.Printf("🗺️  Bounds: (%.5f, %.5f) – (%.5f, %.5f)\n",
			*bounds.MinLatitude, *bounds.MinLongitude, *bounds.MaxLatitude, *bounds.MaxLongitude)
	}
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
}
