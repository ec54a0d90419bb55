package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Score thresholds for text colouring.
const (
	healthyScore = 0.7
	weakScore    = 0.4
)

// Renderer writes reports as styled text. Styles are bound to the output
// writer, so output to a pipe or file carries no escape sequences.
type Renderer struct {
	w io.Writer

	title  lipgloss.Style
	header lipgloss.Style
	muted  lipgloss.Style
	good   lipgloss.Style
	warn   lipgloss.Style
	bad    lipgloss.Style
}

// NewRenderer creates a Renderer writing to w.
func NewRenderer(w io.Writer) *Renderer {
	lg := lipgloss.NewRenderer(w)
	return &Renderer{
		w:      w,
		title:  lg.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		header: lg.NewStyle().Bold(true).Underline(true),
		muted:  lg.NewStyle().Foreground(lipgloss.Color("241")),
		good:   lg.NewStyle().Foreground(lipgloss.Color("42")),
		warn:   lg.NewStyle().Foreground(lipgloss.Color("214")),
		bad:    lg.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// Readiness writes a readiness table and summary.
func (r *Renderer) Readiness(rep *ReadinessReport) error {
	var b strings.Builder
	b.WriteString(r.title.Render("Readiness"+graphSuffix(rep.Graph)) + "\n")
	b.WriteString(r.muted.Render(fmt.Sprintf("%d nodes, %d edges", rep.Nodes, rep.Edges)) + "\n\n")

	width := keyWidth(len(rep.Rows), func(i int) string { return rep.Rows[i].Key })
	b.WriteString(r.header.Render(fmt.Sprintf("%-*s  %-9s  %-9s  %4s  %10s", width, "NODE", "SCORE", "INTRINSIC", "DEPS", "DEPENDENTS")) + "\n")
	for _, row := range rep.Rows {
		fmt.Fprintf(&b, "%-*s  %s  %-9s  %4d  %10d\n",
			width, row.Key,
			r.scoreStyle(row.Score).Render(fmt.Sprintf("%-9.6f", row.Score)),
			fmt.Sprintf("%.6f", row.Intrinsic),
			row.Dependencies, row.Dependents)
	}

	if len(rep.Rows) > 0 {
		b.WriteString("\n")
		fmt.Fprintf(&b, "mean %.6f  min %s (%.6f)  max %s (%.6f)\n",
			rep.Summary.Mean,
			rep.Summary.MinKey, rep.Summary.MinScore,
			rep.Summary.MaxKey, rep.Summary.MaxScore)
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}

// Score writes a single node's readiness.
func (r *Renderer) Score(key string, score float64) error {
	_, err := fmt.Fprintf(r.w, "%s %s\n", key, r.scoreStyle(score).Render(fmt.Sprintf("%.6f", Round6(score))))
	return err
}

// Order writes a topological order, indenting each node by its depth.
func (r *Renderer) Order(rep *OrderReport) error {
	var b strings.Builder
	b.WriteString(r.title.Render("Topological order"+graphSuffix(rep.Graph)) + "\n\n")
	for _, row := range rep.Rows {
		fmt.Fprintf(&b, "%3d. %s%s %s\n",
			row.Position,
			strings.Repeat("  ", row.Depth),
			row.Key,
			r.muted.Render(fmt.Sprintf("(depth %d)", row.Depth)))
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

// Propagation writes impacts largest first.
func (r *Renderer) Propagation(rep *PropagationReport) error {
	var b strings.Builder
	b.WriteString(r.title.Render("Propagation from "+rep.Impulse.Origin+graphSuffix(rep.Graph)) + "\n")
	b.WriteString(r.muted.Render(fmt.Sprintf("intensity %.6f, attenuation %g, max depth %d",
		Round6(rep.Impulse.Intensity()), rep.Attenuation, rep.MaxDepth)) + "\n\n")

	width := keyWidth(len(rep.Rows), func(i int) string { return rep.Rows[i].Key })
	b.WriteString(r.header.Render(fmt.Sprintf("%-*s  %s", width, "NODE", "IMPACT")) + "\n")
	for _, row := range rep.Rows {
		fmt.Fprintf(&b, "%-*s  %.6f\n", width, row.Key, row.Impact)
	}
	fmt.Fprintf(&b, "\ntotal %.6f\n", rep.Total)

	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *Renderer) scoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= healthyScore:
		return r.good
	case score < weakScore:
		return r.bad
	default:
		return r.warn
	}
}

func graphSuffix(name string) string {
	if name == "" {
		return ""
	}
	return ": " + name
}

func keyWidth(n int, key func(int) string) int {
	width := len("NODE")
	for i := 0; i < n; i++ {
		if l := len(key(i)); l > width {
			width = l
		}
	}
	return width
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
