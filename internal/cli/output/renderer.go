// Package output renders command results as styled text, markdown or JSON.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// OutputMode selects how results are rendered.
type OutputMode string

// Output modes.
const (
	ModeAuto     OutputMode = "auto"     // TTY=text, otherwise markdown
	ModeText     OutputMode = "text"     // styled terminal output
	ModeMarkdown OutputMode = "markdown" // plain markdown for pipes and agents
	ModeJSON     OutputMode = "json"     // machine readable
)

// Mode converts a configuration string to an OutputMode. Unknown or empty
// values select ModeAuto.
func Mode(s string) OutputMode {
	switch m := OutputMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeText, ModeMarkdown, ModeJSON:
		return m
	default:
		return ModeAuto
	}
}

// Renderer writes command output in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   OutputMode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with explicit terminal detection.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	lr := lipgloss.NewRenderer(out)
	if !isTTY {
		lr.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
		styles: NewStyles(lr),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // Fd fits in int on supported platforms
}

// EffectiveMode resolves ModeAuto against terminal detection.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode == ModeAuto || r.mode == "" {
		if r.isTTY {
			return ModeText
		}
		return ModeMarkdown
	}
	return r.mode
}

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Styles returns the styles bound to this renderer.
func (r *Renderer) Styles() *Styles { return r.styles }

// Writer returns the standard output writer.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the diagnostic output writer.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// Println writes a line to standard output.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted output to standard output.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Header writes a section title.
func (r *Renderer) Header(title string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println("# " + title)
		r.Println("")
		return
	}
	r.Println(r.styles.Header1.Render(title))
}

// Success writes a success line.
func (r *Renderer) Success(msg string) {
	r.status(r.styles.Success, "✓", msg)
}

// Warning writes a warning line to the diagnostic stream.
func (r *Renderer) Warning(msg string) {
	if r.EffectiveMode() == ModeJSON {
		_, _ = fmt.Fprintln(r.errOut, "warning: "+msg)
		return
	}
	_, _ = fmt.Fprintln(r.errOut, r.styles.Warning.Render("! "+msg))
}

// Muted writes a de-emphasized line.
func (r *Renderer) Muted(msg string) {
	if r.EffectiveMode() == ModeJSON {
		return
	}
	r.Println(r.styles.Muted.Render(msg))
}

func (r *Renderer) status(style lipgloss.Style, icon, msg string) {
	switch r.EffectiveMode() {
	case ModeJSON:
		return
	case ModeMarkdown:
		r.Println(msg)
	default:
		r.Println(style.Render(icon + " " + msg))
	}
}
