// Package config loads, normalizes, and validates splice configuration data.
//
// It supplies repository defaults for every pipeline option, expands user
// paths (including tilde shortcuts), reads TOML files, and honours
// environment fallbacks such as SPLICE_WORKSPACE_DIR and FFMPEG_BINARY. The
// Config type centralizes every knob the CLI and the pipeline engines need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
