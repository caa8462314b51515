package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// listTable collects rows for a rounded go-pretty table.
type listTable struct {
	headers []string
	right   map[int]bool
	rows    [][]string
	footer  []string
}

func newListTable(headers ...string) *listTable {
	return &listTable{headers: headers, right: map[int]bool{}}
}

// alignRight right-aligns the given zero-based columns.
func (t *listTable) alignRight(columns ...int) *listTable {
	for _, c := range columns {
		t.right[c] = true
	}
	return t
}

func (t *listTable) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *listTable) setFooter(cells ...string) {
	t.footer = cells
}

func (t *listTable) toRow(cells []string) table.Row {
	row := make(table.Row, len(t.headers))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		} else {
			row[i] = ""
		}
	}
	return row
}

func (t *listTable) write(w io.Writer) {
	if len(t.headers) == 0 {
		return
	}
	tw := table.NewWriter()
	style := table.StyleRounded
	style.Format.Footer = text.FormatDefault
	tw.SetStyle(style)
	tw.AppendHeader(t.toRow(t.headers))
	for _, cells := range t.rows {
		tw.AppendRow(t.toRow(cells))
	}
	if t.footer != nil {
		tw.AppendFooter(t.toRow(t.footer))
	}
	configs := make([]table.ColumnConfig, len(t.headers))
	for i := range configs {
		align := text.AlignLeft
		if t.right[i] {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft, AlignFooter: align}
	}
	tw.SetColumnConfigs(configs)
	fmt.Fprintln(w, tw.Render())
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type checkState int

const (
	checkInfo checkState = iota
	checkOK
	checkFailed
)

// statusPrinter writes doctor-style "label: [STATE] detail" lines, colored on
// a terminal.
type statusPrinter struct {
	out   io.Writer
	color bool
}

func newStatusPrinter(out io.Writer) statusPrinter {
	return statusPrinter{out: out, color: isTerminal(out)}
}

func (p statusPrinter) section(title string) {
	heading := "== " + strings.TrimSpace(title) + " =="
	rule := strings.Repeat("-", len(heading))
	if p.color {
		heading, rule = text.FgBlue.Sprint(heading), text.FgBlue.Sprint(rule)
	}
	fmt.Fprintln(p.out, heading)
	fmt.Fprintln(p.out, rule)
}

func (p statusPrinter) line(label string, state checkState, detail string) {
	var tag string
	var color text.Color
	switch state {
	case checkOK:
		tag, color = "OK", text.FgGreen
	case checkFailed:
		tag, color = "FAIL", text.FgRed
	default:
		tag, color = "INFO", text.FgBlue
	}
	line := fmt.Sprintf("  %-22s [%s]", label+":", tag)
	if detail != "" {
		line += " " + detail
	}
	if p.color {
		line = color.Sprint(line)
	}
	fmt.Fprintln(p.out, line)
}

// isTerminal reports whether writer is an interactive terminal.
func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// stageLabel turns "render-frames" into "Render Frames".
func stageLabel(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "-", " "))
}
