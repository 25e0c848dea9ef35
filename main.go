package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"acmi_stats/internal/acmi"
	"acmi_stats/internal/analyzer"
	"acmi_stats/internal/config"
	"acmi_stats/internal/database"
	"acmi_stats/internal/extract"
	"acmi_stats/internal/report"
)

func initLogger(cfg *config.Config) {
	var logLevel slog.Level
	switch cfg.Log.Level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	// Logs go to stderr so the console report owns stdout.
	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
}

func main() {
	configPath := flag.String("config", "", "Path to config file (YAML)")
	outputPath := flag.String("output", "", "Path for JSON export (or the extract file with -extract)")
	csvPath := flag.String("csv", "", "Path for CSV export")
	extractMode := flag.Bool("extract", false, "Treat the input as a DCS log and extract combat entries")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <recording.acmi>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	inputPath := flag.Arg(0)

	if *configPath != "" {
		os.Setenv("ACMI_STATS_CONFIG_PATH", *configPath)
	}

	cfg, err := config.Load()
	if err != nil {
		// Use basic logging for config errors since logger isn't initialized yet
		basicLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		basicLogger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)

	if *extractMode {
		runExtract(inputPath, *outputPath)
		return
	}

	runAnalysis(cfg, inputPath, *outputPath, *csvPath)
}

func runExtract(inputPath, outputPath string) {
	if outputPath == "" {
		outputPath = extract.DefaultOutputPath(inputPath)
	}

	summary, err := extract.Extract(inputPath, outputPath)
	if err != nil {
		slog.Error("Combat log extraction failed", "path", inputPath, "error", err)
		os.Exit(1)
	}

	slog.Info("Combat log extraction complete",
		"entries", summary.CombatLines,
		"total_lines", summary.TotalLines,
		"output", summary.OutputPath,
	)
}

func runAnalysis(cfg *config.Config, inputPath, outputPath, csvPath string) {
	session, err := acmi.Load(inputPath)
	if err != nil {
		slog.Error("Failed to load recording", "path", inputPath, "error", err)
		os.Exit(1)
	}

	an, err := analyzer.New(cfg)
	if err != nil {
		slog.Error("Failed to configure analyzer", "error", err)
		os.Exit(1)
	}

	result, err := an.Run(session)
	if err != nil {
		slog.Error("Analysis failed", "path", inputPath, "error", err)
		os.Exit(1)
	}

	if err := report.WriteConsole(os.Stdout, result); err != nil {
		slog.Error("Failed to write report", "error", err)
		os.Exit(1)
	}

	if outputPath != "" {
		if err := report.ExportJSON(outputPath, result); err != nil {
			slog.Error("Failed to export JSON results", "path", outputPath, "error", err)
			os.Exit(1)
		}
		slog.Info("Results exported", "format", "json", "path", outputPath)
	}

	if csvPath != "" {
		if err := report.ExportCSV(csvPath, result); err != nil {
			slog.Error("Failed to export CSV results", "path", csvPath, "error", err)
			os.Exit(1)
		}
		slog.Info("Results exported", "format", "csv", "path", csvPath)
	}

	if cfg.Archive.Enabled {
		archiveRun(cfg.Archive.Path, inputPath, result)
	}
}

func archiveRun(dbPath, inputPath string, result *analyzer.Result) {
	db, err := database.New(dbPath)
	if err != nil {
		slog.Error("Failed to open logbook", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	meta := database.RunMeta{
		MissionTitle:  result.Mission.Title,
		ReferenceTime: result.Mission.ReferenceTime,
		SourcePath:    inputPath,
		HitRate:       result.HitRate,
		AnalyzedAt:    result.AnalyzedAt,
	}

	runID, err := db.SaveRun(meta, result.Profiles)
	if err != nil {
		slog.Error("Failed to archive run", "path", dbPath, "error", err)
		os.Exit(1)
	}

	slog.Info("Run archived to logbook", "run_id", runID, "path", dbPath)
}
