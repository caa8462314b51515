// Package main hosts the splice CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into concat runs, batch
// manifests, workspace maintenance, run history queries and environment
// checks. It owns configuration resolution and logger setup so subcommands
// only translate flags into calls on the internal packages.
package main
