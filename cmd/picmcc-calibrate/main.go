package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/rfeldman/picmcc/config"
)

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use embedded defaults)")
	calibSteps := flag.Int("steps", 2000, "Steps per calibration run")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 100, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("creating output directory: %v", err)
	}

	baseCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	params := NewParamVector(baseCfg)

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 1)
	}
	evaluator := NewFitnessEvaluator(params, *calibSteps, evalSeeds, baseCfg)

	dim := params.Dim()
	initX := params.Normalize(params.DefaultVector())

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return evaluator.Evaluate(params.Denormalize(x))
		},
	}

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize}
	settings := &optimize.Settings{FuncEvaluations: *maxEvals, Concurrent: 0}

	logPath := filepath.Join(*outputDir, "calibrate_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("creating log file: %v", err)
	}
	defer logFile.Close()

	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()

	header := []string{"eval", "fitness"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	logWriter.Write(header)

	evalCount := 0
	bestFitness := math.Inf(1)
	var bestParams []float64
	start := time.Now()

	originalFunc := problem.Func
	problem.Func = func(x []float64) float64 {
		fitness := originalFunc(x)
		evalCount++

		clamped := params.Clamp(params.Denormalize(x))
		if fitness < bestFitness {
			bestFitness = fitness
			bestParams = append([]float64(nil), clamped...)
		}

		row := []string{strconv.Itoa(evalCount), fmt.Sprintf("%.6g", fitness)}
		for _, v := range clamped {
			row = append(row, fmt.Sprintf("%.6g", v))
		}
		logWriter.Write(row)
		logWriter.Flush()

		elapsed := time.Since(start)
		fmt.Printf("eval %d/%d: fitness=%.4g spread=%.3f best=%.4g elapsed=%s\n",
			evalCount, *maxEvals, fitness, evaluator.LastSpread(), bestFitness, formatDuration(elapsed))

		return fitness
	}

	fmt.Printf("calibrating %d parameters, population=%d, max_evals=%d, seeds=%d, steps=%d\n",
		dim, popSize, *maxEvals, *seeds, *calibSteps)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if bestParams == nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}

	fmt.Printf("\ncalibration complete after %d evaluations in %s, best fitness %.4g\n",
		evalCount, formatDuration(time.Since(start)), bestFitness)
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6g\n", spec.Name, bestParams[i])
	}

	params.ApplyToConfig(baseCfg, bestParams)
	outPath := filepath.Join(*outputDir, "calibrated_config.yaml")
	if err := baseCfg.WriteYAML(outPath); err != nil {
		log.Printf("writing calibrated config: %v", err)
	} else {
		fmt.Printf("\ncalibrated config saved to: %s\n", outPath)
	}
}
