package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"splice/internal/workspace"
)

func newWorkspacesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspaces",
		Short: "Inspect and remove leftover run workspaces",
	}
	cmd.AddCommand(newWorkspacesListCommand(ctx))
	cmd.AddCommand(newWorkspacesCleanCommand(ctx))
	return cmd
}

func newWorkspacesListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workspaces under the workspace directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			base := cfg.WorkspaceBase()
			dirs, err := workspace.ListDirectories(base)
			if err != nil {
				return fmt.Errorf("list workspaces in %s: %w", base, err)
			}
			if jsonOutput {
				if dirs == nil {
					dirs = []workspace.DirInfo{}
				}
				return writeJSON(cmd, dirs)
			}
			out := cmd.OutOrStdout()
			if len(dirs) == 0 {
				fmt.Fprintf(out, "No workspaces in %s\n", base)
				return nil
			}

			tbl := newListTable("Workspace", "State", "Modified", "Files", "Size").alignRight(3, 4)
			var total int64
			var files int
			for _, dir := range dirs {
				total += dir.Size
				files += dir.Files
				state := "idle"
				if dir.Locked {
					state = "in use"
				}
				tbl.add(
					dir.Name,
					state,
					humanize.Time(dir.ModTime),
					fmt.Sprintf("%d", dir.Files),
					humanize.IBytes(uint64(dir.Size)),
				)
			}
			tbl.setFooter(fmt.Sprintf("%d workspaces", len(dirs)), "", "", fmt.Sprintf("%d", files), humanize.IBytes(uint64(total)))
			tbl.write(out)
			fmt.Fprintf(out, "Workspace base: %s\n", base)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print workspaces as JSON")
	return cmd
}

func newWorkspacesCleanCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove stale workspaces no run is using",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			maxAge := cfg.StaleAfter()
			if cmd.Flags().Changed("older-than") {
				if olderThan < 0 {
					return fmt.Errorf("--older-than must not be negative")
				}
				maxAge = olderThan
			}

			base := cfg.WorkspaceBase()
			result := workspace.CleanStale(cmd.Context(), base, workspace.CleanOptions{MaxAge: maxAge, DryRun: dryRun}, logger)
			out := cmd.OutOrStdout()
			verb := "Removed"
			if dryRun {
				verb = "Would remove"
			}
			for _, path := range result.Removed {
				fmt.Fprintf(out, "%s %s\n", verb, path)
			}
			for _, path := range result.Skipped {
				fmt.Fprintf(out, "Skipped %s (in use)\n", path)
			}
			for _, failure := range result.Errors {
				fmt.Fprintf(out, "Failed %s: %v\n", failure.Path, failure.Error)
			}
			fmt.Fprintf(out, "%d removed (%s), %d in use, %d failed (older than %s in %s)\n",
				len(result.Removed), humanize.IBytes(uint64(result.Freed)), len(result.Skipped), len(result.Errors), maxAge, base)
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d workspaces could not be removed", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "Only remove workspaces untouched for this long (default from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List what would be removed without deleting")
	return cmd
}
