// Command bilevel computes a global foreground/background threshold for
// a grayscale image and writes the binarized result.
//
// One-shot mode reads an image, runs the selected algorithm, and writes
// the black and white output:
//
//	bilevel -algorithm otsu in.png out.png
//	bilevel -algorithm meansplit -epsilon 1.0 in.jpg out.png
//	bilevel -graph histogram.png in.png out.png
//
// Serve mode exposes the same pipeline over HTTP:
//
//	bilevel -serve -config config.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"bilevel/internal/algorithms/meansplit"
	"bilevel/internal/chart"
	"bilevel/internal/config"
	"bilevel/internal/logger"
	"bilevel/internal/pipeline"
	"bilevel/internal/processing/histogram"
	"bilevel/internal/server"
)

func main() {
	algorithm := flag.String("algorithm", "", "thresholding algorithm: otsu or meansplit (default from config)")
	epsilon := flag.Float64("epsilon", meansplit.DefaultEpsilon, "convergence tolerance for meansplit")
	graphPath := flag.String("graph", "", "write the intensity histogram with threshold markers to this PNG")
	serve := flag.Bool("serve", false, "run the HTTP service instead of one-shot mode")
	configPath := flag.String("config", "config.yaml", "configuration file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bilevel [flags] inimg outimg\n       bilevel -serve [flags]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := config.New(*configPath)

	log := logger.NewConsoleLogger(determineLogLevel(cfg))
	if *serve {
		log = logger.NewJSONLogger(determineLogLevel(cfg))
	}

	coordinator := pipeline.NewCoordinator(log)

	if *serve {
		runServer(cfg, coordinator, log)
		return
	}

	if flag.NArg() < 2 {
		flag.Usage()
		os.Exit(1)
	}

	algorithmName := cfg.Threshold.Algorithm
	if *algorithm != "" {
		algorithmName = *algorithm
	}

	params := map[string]interface{}{}
	if algorithmName == meansplit.Name {
		params["epsilon"] = *epsilon
		params["max_iterations"] = cfg.Threshold.MaxIterations
	}

	outcome, err := coordinator.ProcessFile(flag.Arg(0), algorithmName, params)
	if err != nil {
		log.Error("main", err, map[string]interface{}{"input": flag.Arg(0)})
		os.Exit(1)
	}

	if err := coordinator.Saver().SaveToPath(flag.Arg(1), outcome.Binary); err != nil {
		log.Error("main", err, map[string]interface{}{"output": flag.Arg(1)})
		os.Exit(1)
	}

	fmt.Printf("threshold = %d (%s, %v)\n", outcome.Result.Threshold, outcome.Result.Algorithm, outcome.Result.ProcessTime)

	if *graphPath != "" {
		if err := writeGraph(*graphPath, outcome); err != nil {
			log.Error("main", err, map[string]interface{}{"graph": *graphPath})
			os.Exit(1)
		}
	}
}

func writeGraph(path string, outcome *pipeline.Outcome) error {
	hist, err := histogram.NewBuilder().Build(outcome.Source.Grid)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	thresholds := map[string]int{
		outcome.Result.Algorithm: outcome.Result.Threshold,
	}
	return chart.Render(hist, thresholds, "Intensity histogram", file)
}

func runServer(cfg *config.Config, coordinator *pipeline.Coordinator, log logger.Logger) {
	var cache *server.ResultCache
	if cfg.Redis.Enabled {
		cache = server.NewResultCache(&cfg.Redis, log)
		if err := cache.Ping(context.Background()); err != nil {
			log.Warning("main", "redis unreachable, cache disabled", map[string]interface{}{
				"addr":  cfg.Redis.Addr,
				"error": err.Error(),
			})
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	srv := server.New(cfg, coordinator, cache, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("main", err, nil)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("main", err, nil)
		}
	}
}

// determineLogLevel lets the environment override the configured level.
func determineLogLevel(cfg *config.Config) zerolog.Level {
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		return logger.ParseLevel(env)
	}
	if os.Getenv("DEBUG") == "1" {
		return logger.ParseLevel("debug")
	}
	return logger.ParseLevel(cfg.LogLevel)
}
