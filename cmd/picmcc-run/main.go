// Command picmcc-run runs a headless particle-in-cell / Monte-Carlo-
// collision simulation for a configured number of steps.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/rfeldman/picmcc/config"
	"github.com/rfeldman/picmcc/engine"
	"github.com/rfeldman/picmcc/telemetry"
	"github.com/rfeldman/picmcc/xsec"
)

var (
	configPath  = flag.String("config", "", "Path to a YAML config overriding embedded defaults")
	logInterval = flag.Int("log-interval", 100, "Log a diagnostics window every N steps (0 = disabled)")
	statePath   = flag.String("save-state", "", "Path to write the rate table / collision model after the run")
	maxSteps    = flag.Int("max-steps", 0, "Override run.steps from config (0 = use config value)")
)

func main() {
	flag.Parse()

	config.MustInit(*configPath)
	cfg := config.Cfg()

	setUpLogging(cfg.Telemetry.LogLevel)

	steps := cfg.Run.Steps
	if *maxSteps > 0 {
		steps = *maxSteps
	}

	engines := buildEngines(cfg)
	out, err := telemetry.NewOutputManager(cfg.Telemetry.CSVPath)
	if err != nil {
		slog.Error("opening telemetry output", "err", err)
		os.Exit(1)
	}
	defer out.Close()

	collectors := make([]*telemetry.Collector, len(engines))
	for i := range engines {
		collectors[i] = telemetry.NewCollector(cfg.Advance.DT)
	}

	start := time.Now()
	runLoop(engines, collectors, cfg, steps, out)
	slog.Info("run complete", "steps", steps, "elapsed", time.Since(start).String())

	if *statePath != "" {
		if err := engines[0].SaveState(*statePath); err != nil {
			slog.Error("saving state", "err", err)
			os.Exit(1)
		}
	}
}

// buildEngines constructs one engine per configured species, loading its
// collision model's cross-sections and building its rate table.
func buildEngines(cfg *config.Config) []*engine.Engine {
	provider := xsec.CSVProvider{}
	engines := make([]*engine.Engine, len(cfg.Species))

	for i, sp := range cfg.Species {
		colls := make([]engine.CollisionDescriptor, len(sp.Collisions))
		xsecs := make([]xsec.CrossSection, len(sp.Collisions))

		for j, c := range sp.Collisions {
			cs, err := provider.Load(c.CSVPath)
			if err != nil {
				slog.Error("loading cross-section", "species", sp.Name, "path", c.CSVPath, "err", err)
				os.Exit(1)
			}
			xsecs[j] = cs
			colls[j] = engine.CollisionDescriptor{
				Type:     collisionTypeFromString(c.Type),
				EnLoss:   c.EnLossEV * 1.602176634e-19,
				PartMass: sp.Mass,
				RelMass:  c.RelMass,
			}
		}

		table, err := engine.BuildRateTable(colls, xsecs, sp.Mass, cfg.RateTable.TableSize, cfg.RateTable.EMaxEV, sp.Background.Density)
		if err != nil {
			slog.Error("building rate table", "species", sp.Name, "err", err)
			os.Exit(1)
		}

		engines[i] = engine.New(engine.Config{
			Mass:  sp.Mass,
			Colls: colls,
			Table: table,
			NMax:  sp.NMax,
			DtMax: cfg.Advance.DTMax,
			Mover: buildMover(cfg.Mover),
			Accel: func(*engine.Particle) [3]float64 { return [3]float64{} },
			Seed:  cfg.Run.Seed + int64(i),
		})
		slog.Info("engine configured", "species", sp.Name, "n_max", sp.NMax, "collisions", len(colls))
	}

	return engines
}

func buildMover(cfg config.MoverConfig) engine.Mover {
	if cfg.Kind == "boris" {
		return engine.BorisMover{ChargeToMass: cfg.ChargeToMass, B: cfg.B}
	}
	return engine.VerletMover{}
}

func collisionTypeFromString(s string) engine.CollisionType {
	switch s {
	case "elastic":
		return engine.Elastic
	case "excite":
		return engine.Excite
	case "ionize":
		return engine.Ionize
	case "attach":
		return engine.Attach
	default:
		panic(fmt.Sprintf("picmcc-run: unknown collision type %q", s))
	}
}

func runLoop(engines []*engine.Engine, collectors []*telemetry.Collector, cfg *config.Config, steps int, out *telemetry.OutputManager) {
	ms := cfg.MergeSplit
	for step := 1; step <= steps; step++ {
		for _, e := range engines {
			if cfg.Advance.Workers > 1 {
				e.AdvanceParallel(cfg.Advance.DT, cfg.Advance.Workers)
			} else {
				e.Advance(cfg.Advance.DT)
			}
		}

		if ms.Enabled && ms.EveryNSteps > 0 && step%ms.EveryNSteps == 0 {
			for _, e := range engines {
				msCfg := engine.DefaultMergeSplitConfig()
				msCfg.SmallRatio = ms.SmallRatio
				msCfg.LargeRatio = ms.LargeRatio
				msCfg.MaxMergeDistance = ms.MaxMergeDistance
				e.MergeAndSplit(engine.ConstantTarget(ms.TargetWeight), msCfg, nil, nil)
				e.CleanUp()
			}
			engine.Share(engines)
		}

		if *logInterval > 0 && step%*logInterval == 0 {
			for i, e := range engines {
				c := collectors[i]
				c.AbsorbEvents(e.Events())
				d := e.ComputeDiagnostics(cfg.Telemetry.HistogramBins)
				stats := c.Flush(step, d)
				stats.LogStats()
				if err := out.WriteTelemetry(stats); err != nil {
					slog.Error("writing telemetry", "err", err)
				}
			}
		}
	}
}
