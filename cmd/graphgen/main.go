package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/Nico-Salamone/graphgen/pkg/assess"
	"github.com/Nico-Salamone/graphgen/pkg/benchmark"
	"github.com/Nico-Salamone/graphgen/pkg/counting"
	"github.com/Nico-Salamone/graphgen/pkg/generators"
	"github.com/Nico-Salamone/graphgen/pkg/nauty"
)

func main() {
	var (
		model       = flag.String("model", "gnp", "generator model: gnp, gnm, naive")
		p           = flag.Float64("p", 0.5, "edge probability for the gnp model")
		edges       = flag.String("edges", "normal", "edge-count draw for gnm/naive: uniform, normal")
		minVertices = flag.Int("min-vertices", 1, "smallest vertex count to benchmark")
		maxVertices = flag.Int("max-vertices", 7, "largest vertex count to benchmark")
		factor      = flag.Int64("factor", 1000, "samples per isomorphism class")
		workers     = flag.Int("workers", 0, "worker count (0 uses the configured default)")
		nautyPath   = flag.String("nauty", "", "directory holding the nauty executables (empty uses $PATH)")
		configFile  = flag.String("config", "", "optional configuration file")
	)
	flag.Parse()

	cfg := counting.NewConfig()
	if *configFile != "" {
		if err := cfg.LoadFromFile(*configFile); err != nil {
			log.Fatalf("loading config: %v", err)
		}
	}
	if *workers > 0 {
		cfg.Set("counting.num_workers", *workers)
	}
	if *nautyPath != "" {
		cfg.Set("nauty.path", *nautyPath)
	}

	vertexCounts := make([]int, 0, *maxVertices-*minVertices+1)
	for n := *minVertices; n <= *maxVertices; n++ {
		vertexCounts = append(vertexCounts, n)
	}

	factory, err := generatorFactory(*model, *edges, *p)
	if err != nil {
		log.Fatalf("building generator: %v", err)
	}

	tools := nauty.FromConfig(cfg)
	pipeline := counting.NewPipeline(tools, tools, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("=== Generator benchmark: %s ===\n", *model)
	result, err := benchmark.Run(ctx, pipeline, benchmark.Options{
		VertexCounts: vertexCounts,
		SampleFactor: *factor,
		Factory:      factory,
		Assessors: []benchmark.Assessor{
			{Name: "mdod", Assess: assess.MDOD},
			{Name: "sdod", Assess: assess.SDOD},
		},
	})
	if err != nil {
		log.Fatalf("benchmark failed: %v", err)
	}

	fmt.Printf("run: %s\n", result.RunID)
	fmt.Printf("%-10s %12s %12s\n", "vertices", "mdod", "sdod")
	for i, n := range result.VertexCounts {
		fmt.Printf("%-10d %12.6g %12.6g\n", n, result.Scores["mdod"][i], result.Scores["sdod"][i])
	}
}

func generatorFactory(model, edges string, p float64) (func(int) (counting.GeneratorFactory, error), error) {
	var ec generators.EdgeCount
	switch edges {
	case "uniform":
		ec = generators.UniformEdges()
	case "normal":
		ec = generators.NormalEdges()
	default:
		return nil, fmt.Errorf("unknown edge-count draw %q", edges)
	}

	switch model {
	case "gnp":
		return func(numVertices int) (counting.GeneratorFactory, error) {
			return generators.GNP(numVertices, p)
		}, nil
	case "gnm":
		return func(numVertices int) (counting.GeneratorFactory, error) {
			return generators.GNM(numVertices, ec)
		}, nil
	case "naive":
		return func(numVertices int) (counting.GeneratorFactory, error) {
			return generators.Naive(numVertices, ec)
		}, nil
	default:
		return nil, fmt.Errorf("unknown model %q", model)
	}
}
