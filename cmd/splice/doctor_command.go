package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"splice/internal/concat"
	"splice/internal/logging"
	"splice/internal/preflight"
	"splice/internal/render"
	"splice/internal/stage"
)

type doctorCheck struct {
	Section string `json:"section"`
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Detail  string `json:"detail,omitempty"`
}

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that ffmpeg, ffprobe and the configured directories are usable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			var checks []doctorCheck
			for _, status := range preflight.CheckSystemDeps(cfg) {
				checks = append(checks, doctorCheck{Section: "Dependencies", Name: status.Name, Passed: status.Available, Detail: status.Summary()})
			}
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				checks = append(checks, doctorCheck{Section: "Environment", Name: result.Name, Passed: result.Passed, Detail: result.Detail})
			}
			healths := concat.New(newEngines(cfg, logger)).Health(cmd.Context())
			for _, health := range stage.Unready(healths) {
				logger.Debug("engine not ready", logging.String("engine", health.Name), logging.String("detail", health.Detail))
			}
			for _, health := range healths {
				checks = append(checks, doctorCheck{Section: "Engines", Name: health.Name, Passed: health.Ready, Detail: health.Detail})
			}

			failed := 0
			for _, check := range checks {
				if !check.Passed {
					failed++
				}
			}

			if jsonOutput {
				if err := writeJSON(cmd, checks); err != nil {
					return err
				}
			} else {
				printDoctor(cmd, checks)
			}
			if failed > 0 {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print check results as JSON")
	return cmd
}

func printDoctor(cmd *cobra.Command, checks []doctorCheck) {
	printer := newStatusPrinter(cmd.OutOrStdout())
	section := ""
	for _, check := range checks {
		if check.Section != section {
			if section != "" {
				fmt.Fprintln(printer.out)
			}
			section = check.Section
			printer.section(section)
		}
		state := checkOK
		if !check.Passed {
			state = checkFailed
		}
		printer.line(check.Name, state, check.Detail)
	}
	fmt.Fprintln(printer.out)
	printer.line("Transitions", checkInfo, strings.Join(render.Names(), ", "))
}
