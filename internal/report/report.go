// Package report renders POC results for the console.
package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/mattn/go-isatty"
	"github.com/shopspring/decimal"

	"cryptoPOC/internal/domain"
)

// ANSI color codes
const (
	colorGreen = "\033[92m"
	colorRed   = "\033[91m"
	colorReset = "\033[0m"
)

// Renderer writes reports to an output stream.
type Renderer struct {
	out   io.Writer
	color bool
}

// NewRenderer creates a renderer. color enables ANSI sequences around the change percentage.
func NewRenderer(out io.Writer, color bool) *Renderer {
	return &Renderer{out: out, color: color}
}

// ColorEnabled reports whether f is an interactive terminal and NO_COLOR is unset.
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// FormatFixed rounds v half away from zero to two decimals. Infinities and NaN render as
// "inf", "-inf" and "nan".
func FormatFixed(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "nan"
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Render prints the result block for a single report.
func (r *Renderer) Render(rep *domain.POCReport) error {
	change := FormatFixed(rep.ChangePct) + "%"
	if r.color {
		color := colorRed
		if rep.IsUp() {
			color = colorGreen
		}
		change = color + change + colorReset
	}

	_, err := fmt.Fprintf(r.out,
		"\n--- Results ---\nPoint of Control (POC) for %s from %s to %s (%s): %s\nChange from previous POC (%s): %s\n",
		rep.Symbol, rep.StartDate, rep.EndDate, rep.Interval, FormatFixed(rep.POC),
		strconv.FormatFloat(rep.PrevPOC, 'f', -1, 64), change)
	return err
}

// RenderHistory prints stored reports as a table, newest first.
func (r *Renderer) RenderHistory(reports []*domain.POCReport) error {
	if len(reports) == 0 {
		_, err := fmt.Fprintln(r.out, "No stored reports.")
		return err
	}

	w := tabwriter.NewWriter(r.out, 0, 0, 3, ' ', tabwriter.AlignRight|tabwriter.Debug)
	fmt.Fprintln(w, "ID\tSymbol\tInterval\tStart\tEnd\tKlines\tPOC\tPrevPOC\tChange%\tCreated\t")
	for _, rep := range reports {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t\n",
			rep.ID, rep.Symbol, rep.Interval, rep.StartDate, rep.EndDate, rep.KlineCount,
			FormatFixed(rep.POC), FormatFixed(rep.PrevPOC), FormatFixed(rep.ChangePct),
			rep.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}
