package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const runColumns = "id, status, output, clips_json, audio, transition, frame_format, concurrency, width, height, fps, frames, workspace, workspace_kept, stages_json, error_message, error_stage, batch_job, started_at, finished_at, duration_ms"

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run          Run
		status       string
		clipsJSON    string
		audio        sql.NullString
		transition   sql.NullString
		frameFormat  sql.NullString
		workspace    sql.NullString
		kept         int
		stagesJSON   sql.NullString
		errorMessage sql.NullString
		errorStage   sql.NullString
		batchJob     sql.NullString
		startedRaw   string
		finishedRaw  string
		durationMS   int64
	)
	if err := scanner.Scan(
		&run.ID,
		&status,
		&run.Output,
		&clipsJSON,
		&audio,
		&transition,
		&frameFormat,
		&run.Concurrency,
		&run.Width,
		&run.Height,
		&run.FPS,
		&run.Frames,
		&workspace,
		&kept,
		&stagesJSON,
		&errorMessage,
		&errorStage,
		&batchJob,
		&startedRaw,
		&finishedRaw,
		&durationMS,
	); err != nil {
		return nil, err
	}

	run.Status = Status(status)
	run.Audio = audio.String
	run.Transition = transition.String
	run.FrameFormat = frameFormat.String
	run.Workspace = workspace.String
	run.WorkspaceKept = kept != 0
	run.ErrorMessage = errorMessage.String
	run.ErrorStage = errorStage.String
	run.BatchJob = batchJob.String
	run.Duration = time.Duration(durationMS) * time.Millisecond

	if err := json.Unmarshal([]byte(clipsJSON), &run.Clips); err != nil {
		return nil, fmt.Errorf("decode clips for run %s: %w", run.ID, err)
	}
	if stagesJSON.Valid && stagesJSON.String != "" {
		if err := json.Unmarshal([]byte(stagesJSON.String), &run.Stages); err != nil {
			return nil, fmt.Errorf("decode stages for run %s: %w", run.ID, err)
		}
	}
	var err error
	if run.StartedAt, err = parseTime(startedRaw); err != nil {
		return nil, fmt.Errorf("parse started_at for run %s: %w", run.ID, err)
	}
	if run.FinishedAt, err = parseTime(finishedRaw); err != nil {
		return nil, fmt.Errorf("parse finished_at for run %s: %w", run.ID, err)
	}
	return &run, nil
}

func collectRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, raw)
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func escapeLike(value string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(value)
}
