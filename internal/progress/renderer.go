package progress

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const defaultBarWidth = 30

// Update is one progress sample.
// Byte-based updates set Total; percent-based ones set only Percent.
type Update struct {
	Label   string
	Current int64
	Total   int64
	Percent float64
}

// Fraction returns the completed share in [0, 1].
func (u Update) Fraction() float64 {
	if u.Total > 0 {
		return clamp(float64(u.Current) / float64(u.Total))
	}

	return clamp(u.Percent / 100)
}

// Renderer draws updates to out, overwriting the current line.
type Renderer struct {
	out     io.Writer
	bar     progress.Model
	printer *message.Printer
	title   cases.Caser
	label   lipgloss.Style
	last    string
	dirty   bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithWidth sets the bar width in cells.
func WithWidth(width int) Option {
	return func(r *Renderer) {
		r.bar.Width = width
	}
}

// WithLanguage selects the locale used for byte counts.
func WithLanguage(tag language.Tag) Option {
	return func(r *Renderer) {
		r.printer = message.NewPrinter(tag)
		r.title = cases.Title(tag)
	}
}

// NewRenderer creates a console renderer.
func NewRenderer(out io.Writer, opts ...Option) *Renderer {
	r := &Renderer{
		out:     out,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(defaultBarWidth)),
		printer: message.NewPrinter(language.English),
		title:   cases.Title(language.English),
		label:   lipgloss.NewStyle().Bold(true),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Line formats an update without terminal control characters.
func (r *Renderer) Line(u Update) string {
	var b strings.Builder

	if u.Label != "" {
		b.WriteString(r.label.Render(r.title.String(u.Label)))
		b.WriteString(" ")
	}

	b.WriteString(r.bar.ViewAs(u.Fraction()))

	if u.Total > 0 {
		b.WriteString(r.printer.Sprintf("  %d / %d bytes", u.Current, u.Total))
	}

	return b.String()
}

// Render draws u unless it would repeat the previous line.
func (r *Renderer) Render(u Update) {
	line := r.Line(u)
	if line == r.last {
		return
	}

	r.last = line
	r.dirty = true

	_, _ = fmt.Fprint(r.out, "\r"+line)
}

// Finish terminates the current line.
func (r *Renderer) Finish() {
	if r.dirty {
		_, _ = fmt.Fprintln(r.out)
	}

	r.last = ""
	r.dirty = false
}

func clamp(v float64) float64 {
	return min(max(v, 0), 1)
}
