package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	kitlog "github.com/go-kit/kit/log"
	vs "github.com/mzivic7/volatilespace"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

// This command reads a scenario, predicts the first COI entry of the vessel and
// optionally switches the vessel to the entered body.

const defaultScenario = "~~unset~~"

var (
	scenario    string
	configPath  string
	logFile     string
	metricsFile string
	trace       bool
	enter       bool
)

func init() {
	flag.StringVar(&scenario, "scenario", defaultScenario, "scenario file (TOML, YAML or JSON)")
	flag.StringVar(&configPath, "config", "", "predictor configuration file (defaults from $"+vs.ConfigEnv+")")
	flag.StringVar(&logFile, "log", "", "also log to this file, rotated")
	flag.StringVar(&metricsFile, "metrics", "", "write prediction metrics to this file in text format")
	flag.BoolVar(&trace, "trace", false, "log every search iteration")
	flag.BoolVar(&enter, "enter", false, "enter the COI of the earliest event")
}

func main() {
	flag.Parse()
	if scenario == defaultScenario {
		log.Fatal("no scenario provided")
	}
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var out io.Writer = os.Stdout
	if logFile != "" {
		rotated := &lumberjack.Logger{Filename: logFile, MaxSize: 10, MaxBackups: 3}
		defer rotated.Close()
		out = io.MultiWriter(os.Stdout, rotated)
	}
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(out))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)

	viper.SetConfigFile(scenario)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("%s: Error %s", scenario, err)
	}
	sc, err := readScenario()
	if err != nil {
		return fmt.Errorf("%s: %w", scenario, err)
	}
	cfg, err := vs.LoadPredictorConfig(configPath)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	metrics, err := vs.NewMetrics(registry)
	if err != nil {
		return err
	}
	pred := vs.NewPredictor(cfg).WithLogger(logger).WithMetrics(metrics)
	if trace {
		pred = pred.WithTracer(vs.LogTracer(logger))
	}
	cached, err := vs.NewCachedPredictor(pred, cfg.CacheSize)
	if err != nil {
		return err
	}

	logger.Log("level", "info", "subsys", "cli", "vessel", sc.Vessel)
	candidates := sc.System.Children(sc.Vessel.Ref)
	events, err := vs.PredictAll(context.Background(), cached, cfg.Workers, sc.Vessel, sc.Home.COI, candidates)
	if err != nil {
		return err
	}
	for _, ev := range events {
		logger.Log("level", "info", "subsys", "cli", "event", ev)
	}
	if metricsFile != "" {
		if err := prometheus.WriteToTextfile(metricsFile, registry); err != nil {
			logger.Log("level", "warning", "subsys", "cli", "metrics", err)
		}
	}

	first := vs.Earliest(events)
	if first < 0 {
		logger.Log("level", "notice", "subsys", "cli", "msg", "no COI entry within one period")
		return nil
	}
	if !enter {
		return nil
	}
	entered, err := vs.ApplyEnter(sc.Vessel, candidates[first], events[first])
	if err != nil {
		return err
	}
	logger.Log("level", "notice", "subsys", "cli", "entered", candidates[first].Name, "orbit", entered)
	return nil
}
