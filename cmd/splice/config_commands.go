package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"splice/internal/config"
	"splice/internal/services"
)

var skipConfigLoad = map[string]string{"skipConfigLoad": "true"}

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create, check and print the splice configuration",
	}
	cmd.AddCommand(
		newConfigInitCommand(),
		newConfigValidateCommand(ctx),
		newConfigShowCommand(ctx),
		newConfigPathCommand(ctx),
	)
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var (
		target    string
		overwrite bool
	)
	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a commented sample configuration",
		Annotations: skipConfigLoad,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := initTarget(target)
			if err != nil {
				return err
			}
			if err := config.CreateSample(path, overwrite); err != nil {
				return services.Wrap(services.ErrConfiguration, "config", "init", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&target, "path", "p", "", "Where to write the file (default ~/.config/splice/config.toml)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func initTarget(flag string) (string, error) {
	if flag = strings.TrimSpace(flag); flag == "" {
		return config.DefaultConfigPath()
	}
	return config.ExpandPath(flag)
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the configuration and summarize the settings it produces",
		Annotations: skipConfigLoad,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.flags.config)
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "config", "validate", path, err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			printer := newStatusPrinter(cmd.OutOrStdout())
			printer.section("Configuration")
			source := path
			if !exists {
				source += " (not found, using defaults)"
			}
			printer.line("File", checkInfo, source)
			printer.line("Workspace base", checkInfo, cfg.WorkspaceBase())
			printer.line("Concurrency", checkInfo, strconv.Itoa(cfg.Pipeline.Concurrency))
			printer.line("Frame format", checkInfo, cfg.Pipeline.FrameFormat)
			printer.line("Transition", checkInfo, describeTransition(cfg))
			printer.line("Encoder", checkInfo, fmt.Sprintf("%s preset=%s crf=%d", cfg.FFmpeg.VideoCodec, cfg.FFmpeg.Preset, cfg.FFmpeg.CRF))
			printer.line("History", checkInfo, yesNo(cfg.History.Enabled))
			printer.line("Configuration valid", checkOK, "")
			return nil
		},
	}
}

func describeTransition(cfg *config.Config) string {
	name := strings.TrimSpace(cfg.Pipeline.Transition)
	if name == "" {
		return "hard cut"
	}
	return fmt.Sprintf("%s (%dms)", name, cfg.Pipeline.TransitionDurationMS)
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			data, err := cfg.Encode()
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigPathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "path",
		Short:       "Print which configuration file splice would read",
		Annotations: skipConfigLoad,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, path, exists, err := config.Load(ctx.flags.config)
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "config", "path", path, err)
			}
			if !exists {
				path += " (missing)"
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
