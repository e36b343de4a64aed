// Package report renders model results as PDF line charts: the optimal
// policy functions against the budget, and the population law of motion
// against the 45-degree line.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"econmodels/internal/household"
	"econmodels/internal/malthus"
)

// Report wraps a rendered PDF document.
type Report struct {
	pdf *fpdf.Fpdf
}

// Bytes returns the PDF document.
func (r *Report) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("report: failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes the PDF document to the given path.
func (r *Report) WriteFile(path string) error {
	if err := r.pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("report: failed to write %s: %w", path, err)
	}
	return nil
}

type series struct {
	xs, ys  []float64
	r, g, b int
	dashed  bool
}

// PolicyReport renders the optimal consumption and housing choices as
// two panels against cash-on-hand.
func PolicyReport(curves household.Curves) (*Report, error) {
	n := len(curves.Budgets)
	if n < 2 || len(curves.Consumption) != n || len(curves.Housing) != n {
		return nil, errors.New("report: policy curves must hold at least two aligned samples")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(15, 15, "Optimal household choices")

	blue := series{xs: curves.Budgets, ys: curves.Consumption, r: 0, g: 0, b: 139}
	drawChart(pdf, 15, 25, 125, 110, "c* as function of m", "cash-on-hand m", "optimal consumption c*", []series{blue})

	blue.ys = curves.Housing
	drawChart(pdf, 155, 25, 125, 110, "h* as function of m", "cash-on-hand m", "optimal housing h*", []series{blue})

	if pdf.Err() {
		return nil, fmt.Errorf("report: %v", pdf.Error())
	}
	return &Report{pdf: pdf}, nil
}

// GrowthReport renders the population law of motion against the
// 45-degree line, with the steady state marked and the first transition
// steps from the given starting fraction.
func GrowthReport(model malthus.Model, initialFraction float64, samples int) (*Report, error) {
	if samples < 2 {
		return nil, fmt.Errorf("report: sample count %d must be at least 2", samples)
	}
	steadyState, err := model.SteadyState()
	if err != nil {
		return nil, err
	}
	if initialFraction <= 0 {
		return nil, errors.New("report: initial fraction must be positive")
	}

	// Evaluate beyond the steady state so the crossing is visible.
	limit := steadyState * 1.3
	grid := make([]float64, samples)
	lom := make([]float64, samples)
	for i := range grid {
		grid[i] = limit * float64(i) / float64(samples-1)
		lom[i] = model.LawOfMotion(grid[i])
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(15, 15, "Malthusian law of motion")

	charts := []series{
		{xs: grid, ys: grid, r: 120, g: 120, b: 120, dashed: true}, // 45-degree line
		{xs: grid, ys: lom, r: 0, g: 0, b: 139},
		crosshair(steadyState, steadyState),
	}

	// First transition steps from L_0 toward the steady state.
	l0 := initialFraction * steadyState
	l1 := model.LawOfMotion(l0)
	l2 := model.LawOfMotion(l1)
	charts = append(charts, series{
		xs:     []float64{l0, l0, l1, l1},
		ys:     []float64{0, l1, l1, l2},
		r:      139,
		g:      0,
		b:      0,
		dashed: true,
	})

	drawChart(pdf, 20, 30, 170, 170, "", "L_t", "L_t+1", charts)

	if pdf.Err() {
		return nil, fmt.Errorf("report: %v", pdf.Error())
	}
	return &Report{pdf: pdf}, nil
}

func crosshair(x, y float64) series {
	return series{
		xs:     []float64{x, x, 0, x},
		ys:     []float64{0, y, y, y},
		r:      0,
		g:      0,
		b:      0,
		dashed: true,
	}
}

// drawChart maps the data series into the given page rectangle and
// draws axes, ticks, and polylines.
func drawChart(pdf *fpdf.Fpdf, x, y, w, h float64, title, xlabel, ylabel string, charts []series) {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range charts {
		for i := range s.xs {
			minX = math.Min(minX, s.xs[i])
			maxX = math.Max(maxX, s.xs[i])
			minY = math.Min(minY, s.ys[i])
			maxY = math.Max(maxY, s.ys[i])
		}
	}
	if maxX == minX {
		maxX = minX + 1
	}
	if maxY == minY {
		maxY = minY + 1
	}

	plotX := func(v float64) float64 { return x + (v-minX)/(maxX-minX)*w }
	plotY := func(v float64) float64 { return y + h - (v-minY)/(maxY-minY)*h }

	// Frame and labels.
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.3)
	pdf.Line(x, y, x, y+h)
	pdf.Line(x, y+h, x+w, y+h)

	pdf.SetFont("Helvetica", "", 8)
	if title != "" {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Text(x+w/4, y-3, title)
		pdf.SetFont("Helvetica", "", 8)
	}
	pdf.Text(x+w/2-10, y+h+10, xlabel)
	pdf.Text(x-12, y-3, ylabel)

	// Tick labels at the corners of the data range.
	pdf.Text(x-2, y+h+5, fmt.Sprintf("%.3g", minX))
	pdf.Text(x+w-6, y+h+5, fmt.Sprintf("%.3g", maxX))
	pdf.Text(x-14, y+h, fmt.Sprintf("%.3g", minY))
	pdf.Text(x-14, y+3, fmt.Sprintf("%.3g", maxY))

	pdf.SetLineWidth(0.4)
	for _, s := range charts {
		pdf.SetDrawColor(s.r, s.g, s.b)
		if s.dashed {
			pdf.SetDashPattern([]float64{1.5, 1.5}, 0)
		} else {
			pdf.SetDashPattern([]float64{}, 0)
		}
		for i := 1; i < len(s.xs); i++ {
			pdf.Line(plotX(s.xs[i-1]), plotY(s.ys[i-1]), plotX(s.xs[i]), plotY(s.ys[i]))
		}
	}
	pdf.SetDashPattern([]float64{}, 0)
	pdf.SetDrawColor(0, 0, 0)
}
