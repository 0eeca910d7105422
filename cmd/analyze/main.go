package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"eutectic-bot/config"
	app "eutectic-bot/internal/application"
	"eutectic-bot/internal/container"
	"eutectic-bot/internal/domain/entity"
	"eutectic-bot/internal/infrastructure/imageio"
	"eutectic-bot/internal/infrastructure/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if err := config.SetupLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
		logrus.Fatalf("Failed to setup logger: %v", err)
	}

	minSize := flag.Int("min-size", cfg.MinRegionSize, "minimum region area in pixels")
	polarity := flag.String("polarity", string(cfg.Polarity), "phase polarity: dark or bright")
	format := flag.String("format", string(cfg.ExportFormat), "export format: png, jpg, tiff")
	outDir := flag.String("out", "", "directory for images and report.json (nothing is written if empty)")
	asJSON := flag.Bool("json", false, "print reports as JSON lines")
	backend := flag.String("backend", cfg.AnalyzerBackend, "analyzer backend: native or gocv")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] image...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	p, err := entity.ParsePolarity(*polarity)
	if err != nil {
		logrus.Fatal(err)
	}
	f, err := entity.ParseExportFormat(*format)
	if err != nil {
		logrus.Fatal(err)
	}
	params := entity.AnalysisParams{MinRegionSize: *minSize, Polarity: p}
	if err := params.Validate(); err != nil {
		logrus.Fatal(err)
	}

	analyzer, err := container.NewAnalyzer(*backend)
	if err != nil {
		logrus.Fatal(err)
	}

	deps := container.Dependencies{
		Users:    storage.NewMemoryUserRepository(),
		Analyzer: analyzer,
		Codec:    imageio.NewCodec(),
	}
	if *outDir != "" {
		deps.Store = storage.NewFileArtifactStore(*outDir)
	}
	svc := container.New(deps).AnalysisService

	ctx := context.Background()
	ids := taskIDs(flag.Args())
	failed := 0
	for i, path := range flag.Args() {
		report, err := analyzeFile(ctx, svc, ids[i], path, params, f, *outDir != "")
		if err != nil {
			logrus.WithField("file", path).WithError(err).Error("Analysis failed")
			failed++
			continue
		}
		printReport(report, *asJSON)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func analyzeFile(ctx context.Context, svc *app.AnalysisService, id, path string, params entity.AnalysisParams, format entity.ExportFormat, store bool) (*entity.AnalysisReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if store {
		return svc.AnalyzeAndStore(ctx, id, path, data, params, format)
	}

	out, err := svc.Analyze(ctx, data, params, format)
	if err != nil {
		return nil, err
	}
	report := out.Result.Report()
	report.ID = id
	report.Source = path
	return &report, nil
}

// taskIDs имена подкаталогов результатов: имя файла с расширением, точки заменены на "_"
// (a.png -> a_png). Совпадающие имена из разных каталогов получают суффикс _2, _3...
func taskIDs(paths []string) []string {
	ids := make([]string, len(paths))
	used := make(map[string]bool, len(paths))
	for i, path := range paths {
		base := strings.ReplaceAll(filepath.Base(path), ".", "_")
		id := base
		for n := 2; used[id]; n++ {
			id = fmt.Sprintf("%s_%d", base, n)
		}
		used[id] = true
		ids[i] = id
	}
	return ids
}

func printReport(r *entity.AnalysisReport, asJSON bool) {
	if asJSON {
		data, _ := json.Marshal(r)
		fmt.Println(string(data))
		return
	}
	fmt.Printf("%s\tthreshold=%d\tbefore=%.4f%%\tafter=%.4f%%\tregions=%d->%d\n",
		r.Source, r.Threshold, r.FractionBefore*100, r.FractionAfter*100,
		r.RegionsBefore.Count, r.RegionsAfter.Count)
}
