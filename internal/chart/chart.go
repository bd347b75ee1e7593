// Package chart lays out small bar and line charts as SVG coordinates.
// Templates draw the shapes; this package only does the arithmetic.
package chart

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Canvas size in SVG user units. Templates use the same viewBox.
const (
	Width   = 600.0
	Height  = 260.0
	padLeft = 64.0
	padTop  = 16.0
	padBot  = 40.0
	padRgt  = 16.0
	ticks   = 4
)

// Point is one labelled value.
type Point struct {
	Label string
	Value decimal.Decimal
}

type Bar struct {
	Label   string
	Value   decimal.Decimal
	X, Y    float64
	W, H    float64
	LabelX  float64
	Percent int
}

// Tick is a horizontal grid line with its value.
type Tick struct {
	Y     float64
	Value decimal.Decimal
}

type Marker struct {
	Label string
	Value decimal.Decimal
	X, Y  float64
}

type BarChart struct {
	Width, Height float64
	BaseY         float64
	Bars          []Bar
	Ticks         []Tick
}

type LineChart struct {
	Width, Height float64
	BaseY         float64
	// Points is the polyline "points" attribute.
	Points  string
	Markers []Marker
	Ticks   []Tick
}

func (c BarChart) Empty() bool  { return len(c.Bars) == 0 }
func (c LineChart) Empty() bool { return len(c.Markers) == 0 }

func plotW() float64 { return Width - padLeft - padRgt }
func plotH() float64 { return Height - padTop - padBot }

func maxValue(points []Point) decimal.Decimal {
	m := decimal.Zero
	for _, p := range points {
		if p.Value.GreaterThan(m) {
			m = p.Value
		}
	}
	return m
}

// yFor maps v to a vertical coordinate, 0 at the baseline.
func yFor(v, max decimal.Decimal) float64 {
	if !max.IsPositive() {
		return padTop + plotH()
	}
	ratio := v.Div(max).InexactFloat64()
	if ratio < 0 {
		ratio = 0
	}
	return padTop + plotH()*(1-ratio)
}

func axisTicks(max decimal.Decimal) []Tick {
	if !max.IsPositive() {
		return nil
	}
	out := make([]Tick, 0, ticks+1)
	for i := 0; i <= ticks; i++ {
		v := max.Mul(decimal.NewFromInt(int64(i))).Div(decimal.NewFromInt(ticks)).Round(2)
		out = append(out, Tick{Y: round1(yFor(v, max)), Value: v})
	}
	return out
}

// Bars lays out one bar per point, scaled to the largest value.
func Bars(points []Point) BarChart {
	c := BarChart{Width: Width, Height: Height, BaseY: padTop + plotH()}
	if len(points) == 0 {
		return c
	}
	max := maxValue(points)
	c.Ticks = axisTicks(max)

	slot := plotW() / float64(len(points))
	barW := slot * 0.6
	for i, p := range points {
		y := yFor(p.Value, max)
		x := padLeft + slot*float64(i) + (slot-barW)/2
		percent := 0
		if max.IsPositive() {
			percent = int(p.Value.Mul(decimal.NewFromInt(100)).Div(max).IntPart())
		}
		c.Bars = append(c.Bars, Bar{
			Label:   p.Label,
			Value:   p.Value,
			X:       round1(x),
			Y:       round1(y),
			W:       round1(barW),
			H:       round1(c.BaseY - y),
			LabelX:  round1(x + barW/2),
			Percent: percent,
		})
	}
	return c
}

// Line lays out points left to right in the given order.
func Line(points []Point) LineChart {
	c := LineChart{Width: Width, Height: Height, BaseY: padTop + plotH()}
	if len(points) == 0 {
		return c
	}
	max := maxValue(points)
	c.Ticks = axisTicks(max)

	step := 0.0
	if len(points) > 1 {
		step = plotW() / float64(len(points)-1)
	}
	coords := make([]string, 0, len(points))
	for i, p := range points {
		x := padLeft + step*float64(i)
		if len(points) == 1 {
			x = padLeft + plotW()/2
		}
		m := Marker{Label: p.Label, Value: p.Value, X: round1(x), Y: round1(yFor(p.Value, max))}
		c.Markers = append(c.Markers, m)
		coords = append(coords, fmt.Sprintf("%.1f,%.1f", m.X, m.Y))
	}
	c.Points = strings.Join(coords, " ")
	return c
}

func round1(f float64) float64 {
	return float64(int64(f*10+0.5)) / 10
}
