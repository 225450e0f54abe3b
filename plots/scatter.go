// Package plots renders server-side PNG charts over the drug dataset.
package plots

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/quimed/chemspace-api/dataset/entities"
	"github.com/quimed/chemspace-api/stats"
)

// ErrNoData means the dataset has too few points to draw a chart. Rendered
// as an empty view by the handlers, not as a failure.
var ErrNoData = errors.New("plots: not enough data points")

// Gradient endpoints for the optional color dimension.
var (
	colorLow  = drawing.Color{R: 11, G: 27, B: 130, A: 255}
	colorHigh = drawing.Color{R: 245, G: 166, B: 35, A: 255}
	colorFlat = drawing.Color{R: 11, G: 27, B: 130, A: 230}
)

// Scatter renders a scatter plot of two numeric descriptors, optionally
// coloring each point by a third descriptor mapped onto a two-color
// gradient.
func Scatter(ds *entities.Dataset, xName, yName, colorName string) ([]byte, error) {
	xAcc, ok := entities.Descriptor(xName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", stats.ErrInvalidColumn, xName)
	}
	yAcc, ok := entities.Descriptor(yName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", stats.ErrInvalidColumn, yName)
	}

	var colorAcc entities.DescriptorAccessor
	if colorName != "" {
		colorAcc, ok = entities.Descriptor(colorName)
		if !ok {
			return nil, fmt.Errorf("%w: %s", stats.ErrInvalidColumn, colorName)
		}
	}

	if len(ds.Drugs) < 2 {
		return nil, ErrNoData
	}

	xs := make([]float64, len(ds.Drugs))
	ys := make([]float64, len(ds.Drugs))
	colors := make([]float64, len(ds.Drugs))
	for i := range ds.Drugs {
		xs[i] = xAcc(&ds.Drugs[i])
		ys[i] = yAcc(&ds.Drugs[i])
		if colorAcc != nil {
			colors[i] = colorAcc(&ds.Drugs[i])
		}
	}

	series := chart.ContinuousSeries{
		Style: chart.Style{
			StrokeWidth:      chart.Disabled,
			DotWidth:         4,
			DotColorProvider: dotColorProvider(colors, colorAcc != nil),
		},
		XValues: xs,
		YValues: ys,
	}

	title := fmt.Sprintf("%s vs %s", yName, xName)
	if colorName != "" {
		title = fmt.Sprintf("%s (color: %s)", title, colorName)
	}

	graph := chart.Chart{
		Title:  title,
		Width:  900,
		Height: 600,
		XAxis: chart.XAxis{
			Name: xName,
		},
		YAxis: chart.YAxis{
			Name: yName,
		},
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Series: []chart.Series{series},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render scatter plot: %w", err)
	}

	return buf.Bytes(), nil
}

// dotColorProvider maps the color descriptor onto the gradient. Without a
// color dimension every point uses the flat default.
func dotColorProvider(values []float64, enabled bool) chart.DotColorProvider {
	if !enabled {
		return func(_, _ chart.Range, _ int, _, _ float64) drawing.Color {
			return colorFlat
		}
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	span := max - min

	return func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
		if index < 0 || index >= len(values) || span == 0 {
			return colorFlat
		}
		t := (values[index] - min) / span
		return drawing.Color{
			R: lerpByte(colorLow.R, colorHigh.R, t),
			G: lerpByte(colorLow.G, colorHigh.G, t),
			B: lerpByte(colorLow.B, colorHigh.B, t),
			A: 255,
		}
	}
}

func lerpByte(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}
