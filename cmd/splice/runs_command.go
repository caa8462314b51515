package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"splice/internal/history"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the run history",
	}
	cmd.AddCommand(newRunsListCommand(ctx))
	cmd.AddCommand(newRunsShowCommand(ctx))
	return cmd
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.requireHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, runs)
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			tbl := newListTable("Run", "Status", "Started", "Time", "Clips", "Output").alignRight(3, 4)
			for _, run := range runs {
				tbl.add(
					shortID(run.ID),
					string(run.Status),
					humanize.Time(run.StartedAt),
					run.Duration.Round(time.Millisecond).String(),
					fmt.Sprintf("%d", len(run.Clips)),
					run.Output,
				)
			}
			tbl.write(out)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultListLimit, "Maximum runs to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print runs as JSON")
	return cmd
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Show one run; the id may be abbreviated",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.requireHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.FindByPrefix(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if run == nil {
				return fmt.Errorf("run %s not found", args[0])
			}
			if jsonOutput {
				return writeJSON(cmd, run)
			}
			printRun(cmd, *run)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the run as JSON")
	return cmd
}

func printRun(cmd *cobra.Command, run history.Run) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:        %s\n", run.ID)
	fmt.Fprintf(out, "Status:     %s\n", run.Status)
	if run.BatchJob != "" {
		fmt.Fprintf(out, "Batch job:  %s\n", run.BatchJob)
	}
	fmt.Fprintf(out, "Started:    %s (%s)\n", run.StartedAt.Local().Format(time.DateTime), humanize.Time(run.StartedAt))
	fmt.Fprintf(out, "Duration:   %s\n", run.Duration.Round(time.Millisecond))
	fmt.Fprintf(out, "Output:     %s\n", run.Output)
	if run.Audio != "" {
		fmt.Fprintf(out, "Audio:      %s\n", run.Audio)
	}
	transition := run.Transition
	if transition == "" {
		transition = "cut"
	}
	fmt.Fprintf(out, "Transition: %s\n", transition)
	if run.Frames > 0 {
		fmt.Fprintf(out, "Frames:     %d at %dx%d, %.3g fps (%s, concurrency %d)\n",
			run.Frames, run.Width, run.Height, run.FPS, run.FrameFormat, run.Concurrency)
	}
	if run.WorkspaceKept {
		fmt.Fprintf(out, "Workspace:  %s (kept)\n", run.Workspace)
	}
	fmt.Fprintln(out, "Clips:")
	for i, clip := range run.Clips {
		fmt.Fprintf(out, "  %d. %s\n", i+1, clip)
	}
	if len(run.Stages) > 0 {
		fmt.Fprintln(out, "Stages:")
		for _, st := range run.Stages {
			fmt.Fprintf(out, "  %-16s %s\n", stageLabel(st.Stage), st.Duration.Round(time.Millisecond))
		}
	}
	if run.Failed() {
		msg := strings.TrimSpace(run.ErrorMessage)
		if run.ErrorStage != "" {
			msg = fmt.Sprintf("[%s] %s", run.ErrorStage, msg)
		}
		fmt.Fprintf(out, "Error:      %s\n", msg)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
