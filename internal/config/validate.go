package config

import (
	"errors"
	"fmt"
	"slices"
)

// FrameFormats lists the frame storage formats the default engines understand.
var FrameFormats = []string{"raw", "png"}

var (
	logFormats = []string{"console", "json"}
	logLevels  = []string{"debug", "info", "warn", "warning", "error"}
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	if c.Workspace.MinFreeMB < 0 {
		return errors.New("workspace.min_free_mb must be >= 0")
	}
	return c.validateLogging()
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.Concurrency < 1 {
		return errors.New("pipeline.concurrency must be positive")
	}
	if !slices.Contains(FrameFormats, c.Pipeline.FrameFormat) {
		return fmt.Errorf("pipeline.frame_format must be one of %v, got %q", FrameFormats, c.Pipeline.FrameFormat)
	}
	if c.Pipeline.TransitionDurationMS < 0 {
		return errors.New("pipeline.transition_duration_ms must be >= 0")
	}
	return nil
}

func (c *Config) validateFFmpeg() error {
	if c.FFmpeg.CRF < 0 || c.FFmpeg.CRF > 63 {
		return errors.New("ffmpeg.crf must be between 0 and 63")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !slices.Contains(logFormats, c.Logging.Format) {
		return fmt.Errorf("logging.format must be one of %v, got %q", logFormats, c.Logging.Format)
	}
	if !slices.Contains(logLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of %v, got %q", logLevels, c.Logging.Level)
	}
	return nil
}
