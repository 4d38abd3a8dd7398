package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/theoremus-urban-solutions/gtfs-to-gmns/analysis"
	"github.com/theoremus-urban-solutions/gtfs-to-gmns/config"
	"github.com/theoremus-urban-solutions/gtfs-to-gmns/converter"
	"github.com/theoremus-urban-solutions/gtfs-to-gmns/exporter"
	"github.com/theoremus-urban-solutions/gtfs-to-gmns/gtfs"
	"github.com/theoremus-urban-solutions/gtfs-to-gmns/internal"
	"github.com/theoremus-urban-solutions/gtfs-to-gmns/realtime"
)

func main() {
	configPath := flag.String("config", "", "config file path (default config.yml)")
	feedName := flag.String("feed", "", "feed name from config.feeds[] (default: all feeds)")
	period := flag.String("period", "", "analysis window HHMM_HHMM (overrides config)")
	outDir := flag.String("out", "", "output directory (overrides config)")
	format := flag.String("format", "", "csv|sqlite (overrides config)")
	hwyNodes := flag.String("hwy", "", "GMNS highway node.csv for access links (overrides config)")
	runAnalysis := flag.Bool("analysis", false, "write frequency, speed, trajectory and accessibility reports")
	budget := flag.Int("budget", 0, "accessibility time budget in minutes (overrides config)")
	vehiclePositions := flag.String("vehiclePositions", "", "GTFS-RT VehiclePositions URL or file for trajectory matching")
	flag.Parse()

	internal.InitLogging()
	if err := config.LoadAppConfig(*configPath); err != nil {
		panic(err)
	}
	cfg := config.Config
	if *period != "" {
		cfg.Conversion.TimeWindow = *period
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}
	if *format != "" {
		cfg.Output.Format = *format
	}
	if *hwyNodes != "" {
		cfg.Conversion.Access.HighwayNodeFile = *hwyNodes
	}
	if *runAnalysis {
		cfg.Analysis.Enabled = true
	}
	if *budget > 0 {
		cfg.Analysis.TimeBudgetMin = *budget
	}

	feeds, err := config.SelectFeeds(*feedName)
	if err != nil {
		panic(err)
	}

	conv, err := converter.NewConverter(cfg)
	if err != nil {
		panic(err)
	}

	// Load feeds and build their timetables concurrently, then assemble in
	// config order so node and link ids come out the same every run.
	timetables := make([]*converter.Timetable, len(feeds))
	loadedFeeds := make([]*gtfs.Feed, len(feeds))
	var g errgroup.Group
	for i, fc := range feeds {
		i, fc := i, fc
		g.Go(func() error {
			log.Printf("loading feed %s from %s", fc.Name, fc.Path)
			f, err := gtfs.Load(fc.Path)
			if err != nil {
				return err
			}
			if fc.Agency != "" {
				f.Agency.AgencyName = fc.Agency
			}
			loadedFeeds[i] = f
			timetables[i] = converter.BuildTimetable(f, conv.WindowStart, conv.WindowEnd, conv.Warns)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		panic(err)
	}

	for _, tt := range timetables {
		if err := conv.AddTimetable(tt); err != nil {
			panic(err)
		}
	}
	if err := conv.Finalize(); err != nil {
		panic(err)
	}
	conv.Warns.LogAll(feedLabel(feeds))

	if cfg.Conversion.Access.HighwayNodeFile != "" {
		hwy, err := converter.LoadHighwayNodes(cfg.Conversion.Access.HighwayNodeFile)
		if err != nil {
			panic(err)
		}
		n := conv.AddAccessLinks(hwy, cfg.Conversion.Access.MaxDistanceKM)
		log.Printf("access links: %d created against %d highway nodes", n, len(hwy))
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		panic(err)
	}

	switch cfg.Output.Format {
	case "sqlite":
		ctx := context.Background()
		db, err := exporter.OpenDB(ctx, exporter.ValidateFilename(filepath.Join(cfg.Output.Dir, "network.db")))
		if err != nil {
			panic(err)
		}
		defer db.Close()
		runID, err := db.WriteNetwork(ctx, cfg.Conversion.TimeWindow, conv.Nodes, conv.Links)
		if err != nil {
			panic(err)
		}
		log.Printf("network stored as run %s", runID)
	default:
		nodePath, err := exporter.WriteNodesCSV(cfg.Output.Dir, conv.Nodes)
		if err != nil {
			panic(err)
		}
		linkPath, err := exporter.WriteLinksCSV(cfg.Output.Dir, conv.Links)
		if err != nil {
			panic(err)
		}
		log.Printf("network written to %s and %s", nodePath, linkPath)
	}

	if cfg.Analysis.Enabled {
		writeReports(cfg, conv, loadedFeeds)
	}

	if *vehiclePositions != "" {
		matchVehiclePositions(*vehiclePositions, loadedFeeds)
	}
}

func feedLabel(feeds []config.FeedConfig) string {
	names := make([]string, len(feeds))
	for i, f := range feeds {
		names[i] = f.Name
	}
	return strings.Join(names, ",")
}

func writeReports(cfg config.AppConfig, conv *converter.Converter, feeds []*gtfs.Feed) {
	var freq []analysis.FrequencyRow
	var traj []analysis.TrajectoryPoint
	for i, tt := range conv.Timetables {
		var f *gtfs.Feed
		if i < len(feeds) {
			f = feeds[i]
		}
		freq = append(freq, analysis.ServiceFrequencies(tt, conv.WindowStart, conv.WindowEnd)...)
		traj = append(traj, analysis.TripTrajectories(tt, f)...)
	}

	writes := []struct {
		name string
		run  func() (string, error)
	}{
		{"frequency", func() (string, error) { return exporter.WriteFrequencyCSV(cfg.Output.Dir, freq) }},
		{"segment speed", func() (string, error) {
			return exporter.WriteSegmentSpeedCSV(cfg.Output.Dir, analysis.SegmentSpeeds(conv.Links))
		}},
		{"route speed", func() (string, error) {
			return exporter.WriteRouteSpeedCSV(cfg.Output.Dir, analysis.RouteSpeeds(conv.Links))
		}},
		{"trajectory", func() (string, error) { return exporter.WriteTrajectoryCSV(cfg.Output.Dir, traj) }},
		{"accessibility", func() (string, error) {
			rows := analysis.StopAccessibility(conv.Nodes, conv.Links, float64(cfg.Analysis.TimeBudgetMin))
			return exporter.WriteAccessibilityCSV(cfg.Output.Dir, rows)
		}},
	}
	for _, w := range writes {
		path, err := w.run()
		if err != nil {
			panic(err)
		}
		log.Printf("%s report written to %s", w.name, path)
	}
}

func matchVehiclePositions(source string, feeds []*gtfs.Feed) {
	positions, err := realtime.ReadVehiclePositions(source)
	if err != nil {
		log.Printf("vehicle positions: %v", err)
		return
	}
	matched := 0
	for _, f := range feeds {
		observed := realtime.SnapToStops(f, positions)
		matched += len(observed)
		for _, o := range observed {
			log.Printf("trip %s vehicle %s near stop %s (seq %d, %.0f m)",
				o.TripID, o.VehicleID, o.StopID, o.StopSequence, o.DistanceM)
		}
	}
	log.Printf("vehicle positions: %d observations, %d matched to scheduled stops",
		len(positions), matched)
}
