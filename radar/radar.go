// Package radar builds the per-drug radar chart geometry: descriptor values
// rescaled against display reference ranges and laid out as a closed polar
// polygon with a unit threshold ring.
package radar

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidInput means the axis/bound slices disagree in length or
	// describe fewer than three axes.
	ErrInvalidInput = errors.New("radar: invalid input")

	// ErrDegenerateRange means some axis has max == min, so the linear
	// rescale is undefined. This is a caller contract violation.
	ErrDegenerateRange = errors.New("radar: degenerate reference range")
)

// annotationPadding places vertex value labels slightly inside the polygon
// so they do not crowd the threshold ring.
const annotationPadding = 0.85

// Axis is one labeled spoke of the chart.
type Axis struct {
	Name  string  `json:"name"`
	Label string  `json:"label"` // "NAME (max)" as drawn on the chart
	Angle float64 `json:"angle"` // radians, first axis at 0
	Max   float64 `json:"max"`
	Min   float64 `json:"min"`
}

// Annotation is the raw descriptor value drawn near its vertex.
type Annotation struct {
	Angle  float64 `json:"angle"`
	Radius float64 `json:"radius"`
	Text   string  `json:"text"`
}

// Chart is the complete renderable radar geometry. Angles and Radii have
// K+1 entries: the polygon is closed by repeating the first vertex. The
// threshold ring sits at constant radius 1 across all axes. Radial ticks are
// deliberately absent; the two polygons plus the annotations carry all
// quantitative readout.
type Chart struct {
	Title       string       `json:"title"`
	Color       string       `json:"color"`
	Axes        []Axis       `json:"axes"`
	Angles      []float64    `json:"angles"`
	Radii       []float64    `json:"radii"`     // normalized, NOT clamped to [0,1]
	Threshold   []float64    `json:"threshold"` // constant 1, closed like the polygon
	Annotations []Annotation `json:"annotations"`
}

// Normalize rescales value linearly so min maps to 0 and max maps to 1. The
// result is intentionally not clamped: values outside the reference range
// yield radii outside [0,1], which is the chart's visual signal for an
// out-of-range property.
func Normalize(value, min, max float64) float64 {
	return (value - min) / (max - min)
}

// Build constructs the radar chart geometry for an ordered set of named
// descriptor values with parallel reference bounds.
func Build(names []string, values, minValues, maxValues []float64, title, color string) (*Chart, error) {
	k := len(values)
	if k < 3 {
		return nil, fmt.Errorf("%w: need at least 3 axes, got %d", ErrInvalidInput, k)
	}
	if len(names) != k || len(minValues) != k || len(maxValues) != k {
		return nil, fmt.Errorf("%w: names=%d values=%d min=%d max=%d",
			ErrInvalidInput, len(names), k, len(minValues), len(maxValues))
	}

	for i := 0; i < k; i++ {
		if minValues[i] == maxValues[i] {
			return nil, fmt.Errorf("%w: axis %q has min == max == %v",
				ErrDegenerateRange, names[i], minValues[i])
		}
	}

	chart := &Chart{
		Title:       title,
		Color:       color,
		Axes:        make([]Axis, k),
		Angles:      make([]float64, k+1),
		Radii:       make([]float64, k+1),
		Threshold:   make([]float64, k+1),
		Annotations: make([]Annotation, k),
	}

	for i := 0; i < k; i++ {
		angle := 2 * math.Pi * float64(i) / float64(k)
		radius := Normalize(values[i], minValues[i], maxValues[i])

		chart.Axes[i] = Axis{
			Name:  names[i],
			Label: fmt.Sprintf("%s (%v)", names[i], maxValues[i]),
			Angle: angle,
			Min:   minValues[i],
			Max:   maxValues[i],
		}
		chart.Angles[i] = angle
		chart.Radii[i] = radius
		chart.Threshold[i] = 1
		chart.Annotations[i] = Annotation{
			Angle:  angle,
			Radius: radius * annotationPadding,
			Text:   fmt.Sprintf("%.1f", values[i]),
		}
	}

	// Close both polygons by repeating the first vertex
	chart.Angles[k] = chart.Angles[0]
	chart.Radii[k] = chart.Radii[0]
	chart.Threshold[k] = 1

	return chart, nil
}
