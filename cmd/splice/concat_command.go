package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"splice/internal/concat"
	"splice/internal/config"
	"splice/internal/history"
	"splice/internal/logging"
	"splice/internal/stage"
)

// newEngines builds the stage engines for a run. Tests replace it.
var newEngines = concat.DefaultEngines

type concatFlags struct {
	output      string
	transition  string
	transitions string
	audio       string
	concurrency int
	frameFormat string
	workingDir  string
	keepFrames  bool
	jsonOutput  bool
}

type concatOutput struct {
	concat.Report
	Output string `json:"output"`
	Error  string `json:"error,omitempty"`
}

func newConcatCommand(ctx *commandContext) *cobra.Command {
	cmd, _ := newConcatCommandWithFlags(ctx)
	return cmd
}

func newConcatCommandWithFlags(ctx *commandContext) (*cobra.Command, *concatFlags) {
	flags := &concatFlags{}
	cmd := &cobra.Command{
		Use:   "concat -o OUTPUT CLIP...",
		Short: "Join clips into one video",
		Long: `Join clips into one video, in argument order.

Transitions are written as name or name:milliseconds, for example fade:750.
Use cut or none for a hard cut. --transitions sets one entry per boundary
and overrides --transition where given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			opts, err := buildConcatOptions(cmd, cfg, flags, args)
			if err != nil {
				return err
			}
			opts.Logger = logger

			display := newProgressDisplay(cmd.ErrOrStderr(), isTerminal(cmd.ErrOrStderr()))
			opts.Log = display.Sink()

			pipeline := concat.New(newEngines(cfg, logger), concat.WithLogger(logger))
			report, runErr := pipeline.Run(cmd.Context(), opts)
			display.Close()

			ctx.recordRun(context.WithoutCancel(cmd.Context()), logger, history.FromReport(opts, report, runErr))

			if flags.jsonOutput {
				payload := concatOutput{Report: report, Output: opts.Output}
				if runErr != nil {
					payload.Error = runErr.Error()
				}
				if err := writeJSON(cmd, payload); err != nil {
					return err
				}
				return runErr
			}
			if runErr != nil {
				return runErr
			}
			printConcatSummary(cmd, opts, report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output video file")
	cmd.Flags().StringVar(&flags.transition, "transition", "", "Transition at every boundary (name[:ms])")
	cmd.Flags().StringVar(&flags.transitions, "transitions", "", "Comma-separated transitions, one per boundary (name[:ms],...)")
	cmd.Flags().StringVar(&flags.audio, "audio", "", "Audio track to merge into the output")
	cmd.Flags().IntVar(&flags.concurrency, "concurrency", 0, "Parallel frame workers (default from config)")
	cmd.Flags().StringVar(&flags.frameFormat, "frame-format", "", "Intermediate frame format: raw or png (default from config)")
	cmd.Flags().StringVar(&flags.workingDir, "working-dir", "", "Directory for the run workspace (default from config)")
	cmd.Flags().BoolVar(&flags.keepFrames, "keep-frames", false, "Keep the workspace and its frames after the run")
	cmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "Print the run report as JSON")
	_ = cmd.MarkFlagRequired("output")
	return cmd, flags
}

// buildConcatOptions layers explicitly set flags over configuration defaults.
func buildConcatOptions(cmd *cobra.Command, cfg *config.Config, flags *concatFlags, clips []string) (concat.Options, error) {
	opts := concat.OptionsFromConfig(cfg)
	opts.RunID = uuid.NewString()
	opts.Videos = clips
	opts.Output = flags.output
	opts.Audio = strings.TrimSpace(flags.audio)

	defaultDuration := time.Duration(cfg.Pipeline.TransitionDurationMS) * time.Millisecond
	changed := cmd.Flags().Changed
	if changed("transition") {
		t, err := concat.ParseTransition(flags.transition, defaultDuration)
		if err != nil {
			return opts, err
		}
		opts.Transition = &t
	}
	if changed("transitions") {
		list, err := concat.ParseTransitionList(flags.transitions, defaultDuration)
		if err != nil {
			return opts, err
		}
		if want := len(clips) - 1; len(list) > want {
			return opts, &concat.ConfigError{
				Field:  "transitions",
				Reason: fmt.Sprintf("%d entries given for %d clip boundaries", len(list), want),
			}
		}
		opts.Transitions = list
	}
	if changed("concurrency") {
		opts.Concurrency = flags.concurrency
	}
	if changed("frame-format") {
		opts.FrameFormat = flags.frameFormat
	}
	if changed("working-dir") {
		dir, err := config.ExpandPath(flags.workingDir)
		if err != nil {
			return opts, err
		}
		opts.WorkingDir = dir
	}
	if changed("keep-frames") {
		opts.KeepFrames = flags.keepFrames
	}
	return opts, nil
}

func printConcatSummary(cmd *cobra.Command, opts concat.Options, report concat.Report) {
	out := cmd.OutOrStdout()
	theme := report.Theme
	fmt.Fprintf(out, "Wrote %s\n", opts.Output)
	fmt.Fprintf(out, "  %d clips, %d frames, %dx%d @ %.3g fps (%s)\n",
		len(opts.Videos), theme.NumFrames, theme.Width, theme.Height, theme.FPS, theme.Duration.Round(time.Millisecond))
	fmt.Fprintf(out, "  Transition: %s\n", transitionLabel(opts.Transition))
	fmt.Fprintf(out, "  Run %s finished in %s\n", report.RunID, report.Total.Round(time.Millisecond))
	if report.Kept {
		fmt.Fprintf(out, "  Workspace kept at %s\n", report.Workspace)
	}
}

// recordRun journals a finished run. Journal failures are logged and never
// change the command's outcome.
func (c *commandContext) recordRun(ctx context.Context, logger *slog.Logger, run history.Run) {
	store, err := c.openHistory()
	if err != nil {
		logging.WarnWithContext(logger, "run history unavailable", "history_open_failed",
			logging.Error(err),
			logging.Impact("run not recorded"),
		)
		return
	}
	if store == nil {
		return
	}
	defer store.Close()
	if err := store.Record(ctx, run); err != nil {
		logging.WarnWithContext(logger, "failed to record run", "history_record_failed",
			logging.String("run_id", run.ID),
			logging.Error(err),
			logging.Impact("run not recorded"),
		)
	}
}

// transitionLabel describes a journaled or configured transition.
func transitionLabel(t *stage.Transition) string {
	if t == nil || t.IsCut() {
		return "cut"
	}
	return fmt.Sprintf("%s %s", t.Name, t.Duration)
}
