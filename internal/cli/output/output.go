// Package output renders command results as text tables or JSON.
//
// Commands decide WHAT to show; the renderer decides HOW. ModeAuto picks
// text for terminals and JSON for pipes so command output stays scriptable
// without a flag.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"
)

// Mode selects how command results are rendered.
type Mode string

const (
	// ModeAuto resolves to text on a terminal and JSON otherwise.
	ModeAuto Mode = "auto"
	// ModeText renders human-readable tables.
	ModeText Mode = "text"
	// ModeJSON renders machine-readable JSON.
	ModeJSON Mode = "json"
)

// Renderer writes command results in one resolved mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
}

// NewRenderer creates a renderer. Anything other than text or json,
// including ModeAuto and the empty string, resolves against the output
// writer.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	switch mode {
	case ModeText, ModeJSON:
	default:
		mode = resolveAuto(out)
	}
	return &Renderer{out: out, errOut: errOut, mode: mode}
}

func resolveAuto(out io.Writer) Mode {
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return ModeText
	}
	return ModeJSON
}

// JSON reports whether the renderer emits JSON.
func (r *Renderer) JSON() bool {
	return r.mode == ModeJSON
}

// Out returns the output writer.
func (r *Renderer) Out() io.Writer {
	return r.out
}

// Printf writes formatted text output.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Println writes a text line.
func (r *Renderer) Println(args ...any) {
	_, _ = fmt.Fprintln(r.out, args...)
}

// Errorf writes formatted text to the error writer.
func (r *Renderer) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.errOut, format, args...)
}

// Encode writes v as indented JSON.
func (r *Renderer) Encode(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table renders header and rows with the standard table style.
func (r *Renderer) Table(header table.Row, rows []table.Row) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	t.AppendRows(rows)
	t.Render()
}

// LineageOutput is the JSON shape of the lineage command.
type LineageOutput struct {
	Root      string        `json:"root"`
	Direction string        `json:"direction"`
	Depth     int           `json:"depth"`
	Nodes     []LineageNode `json:"nodes"`
	Edges     []LineageEdge `json:"edges"`
	Stats     LineageStats  `json:"stats"`
}

// LineageNode is one relation in the lineage command output.
type LineageNode struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// LineageEdge is one dependency in the lineage command output.
type LineageEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// LineageStats summarizes a lineage traversal.
type LineageStats struct {
	TotalNodes      int `json:"total_nodes"`
	UpstreamCount   int `json:"upstream_count"`
	DownstreamCount int `json:"downstream_count"`
}
