package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"splice/internal/batch"
	"splice/internal/concat"
	"splice/internal/history"
	"splice/internal/progress"
)

type batchJobOutput struct {
	Job    string        `json:"job"`
	RunID  string        `json:"run_id"`
	Output string        `json:"output"`
	State  concat.State  `json:"state"`
	Total  time.Duration `json:"total"`
	Error  string        `json:"error,omitempty"`
}

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var jobs int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "batch MANIFEST",
		Short: "Run every job in a TOML manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			manifest, err := batch.LoadManifest(args[0])
			if err != nil {
				return err
			}

			display := newProgressDisplay(cmd.ErrOrStderr(), false)
			base := concat.OptionsFromConfig(cfg)
			base.Logger = logger
			pipeline := concat.New(newEngines(cfg, logger), concat.WithLogger(logger))
			runner := batch.NewRunner(pipeline, batch.Options{
				Parallel: jobs,
				Base:     base,
				Logger:   logger,
				Sink: func(job string) progress.Sink {
					return display.forJob(job).Sink()
				},
				OnDone: func(res batch.Result) {
					run := history.FromReport(res.Options, res.Report, res.Err)
					run.BatchJob = res.Job
					if run.ID == "" {
						return
					}
					ctx.recordRun(context.WithoutCancel(cmd.Context()), logger, run)
				},
			})

			results := runner.Run(cmd.Context(), manifest)
			failed := batch.Failed(results)

			if jsonOutput {
				payload := make([]batchJobOutput, 0, len(results))
				for _, res := range results {
					entry := batchJobOutput{
						Job:    res.Job,
						RunID:  res.Options.RunID,
						Output: res.Options.Output,
						State:  res.Report.State,
						Total:  res.Report.Total,
					}
					if res.Err != nil {
						entry.Error = res.Err.Error()
					}
					payload = append(payload, entry)
				}
				if err := writeJSON(cmd, payload); err != nil {
					return err
				}
			} else {
				printBatchSummary(cmd, results)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d batch jobs failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Jobs to run at once (default from manifest, else 1)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print job results as JSON")
	return cmd
}

func printBatchSummary(cmd *cobra.Command, results []batch.Result) {
	tbl := newListTable("Job", "Status", "Time", "Output / Error").alignRight(2)
	var elapsed time.Duration
	for _, res := range results {
		status := "done"
		detail := res.Options.Output
		if res.Err != nil {
			status = "failed"
			detail = res.Err.Error()
		}
		elapsed += res.Report.Total
		tbl.add(res.Job, status, res.Report.Total.Round(time.Millisecond).String(), detail)
	}
	failed := batch.Failed(results)
	tbl.setFooter(fmt.Sprintf("%d jobs", len(results)), fmt.Sprintf("%d failed", failed), elapsed.Round(time.Millisecond).String(), "")
	tbl.write(cmd.OutOrStdout())
}
