package pipeline

import (
	"fmt"

	"bilevel/internal/algorithms"
	"bilevel/internal/processing/threshold"
)

// Coordinator wires the loader, the algorithm registry, the threshold
// applicator, and the saver into the single-shot processing path used by
// both the CLI and the HTTP server.
type Coordinator struct {
	manager *algorithms.Manager
	loader  *ImageLoader
	saver   *ImageSaver
	applier *threshold.BinaryApplier
	logger  Logger
	tracker *TimingTracker
}

func NewCoordinator(logger Logger) *Coordinator {
	tracker := NewTimingTracker()

	return &Coordinator{
		manager: algorithms.NewManager(),
		loader:  NewImageLoader(logger, tracker),
		saver:   NewImageSaver(logger, tracker),
		applier: threshold.NewBinaryApplier(),
		logger:  logger,
		tracker: tracker,
	}
}

func (c *Coordinator) ProcessFile(path, algorithmName string, params map[string]interface{}) (*Outcome, error) {
	imageData, err := c.loader.LoadFromPath(path)
	if err != nil {
		return nil, err
	}

	return c.process(imageData, algorithmName, params)
}

func (c *Coordinator) ProcessBytes(data []byte, extension, algorithmName string, params map[string]interface{}) (*Outcome, error) {
	imageData, err := c.loader.LoadFromBytes(data, extension)
	if err != nil {
		return nil, err
	}

	return c.process(imageData, algorithmName, params)
}

func (c *Coordinator) process(imageData *ImageData, algorithmName string, params map[string]interface{}) (*Outcome, error) {
	algorithm, err := c.manager.GetAlgorithm(algorithmName)
	if err != nil {
		return nil, err
	}

	// Overlay caller parameters on the registered defaults.
	merged := c.manager.GetParameters(algorithmName)
	for k, v := range params {
		merged[k] = v
	}

	done := c.tracker.Start("compute")
	result, err := algorithm.Compute(imageData.Grid, merged)
	done()
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", algorithmName, err)
	}

	binary, err := c.applier.Apply(imageData.Grid, result.Threshold)
	if err != nil {
		return nil, fmt.Errorf("threshold application failed: %w", err)
	}

	c.logger.Info("coordinator", "threshold computed", map[string]interface{}{
		"algorithm":  result.Algorithm,
		"threshold":  result.Threshold,
		"iterations": result.Iterations,
		"elapsed_ms": result.ProcessTime.Milliseconds(),
	})

	return &Outcome{
		Result: result,
		Binary: binary,
		Source: imageData,
	}, nil
}

func (c *Coordinator) Saver() *ImageSaver {
	return c.saver
}

func (c *Coordinator) Manager() *algorithms.Manager {
	return c.manager
}

func (c *Coordinator) Stats() map[string]OperationStats {
	return c.tracker.Snapshot()
}
