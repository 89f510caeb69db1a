// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gauge implements a 1D display.Drawer that draws a thermometer bar to
// a terminal using ANSI color codes.
//
// Show fills the bar proportionally to a temperature and colors it from cold
// blue to hot red, followed by the value.
package gauge

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"golang.org/x/image/colornames"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
)

// Opts represents the options available for this display.
type Opts struct {
	// X is the number of cells of the bar.
	X int
	// Min and Max are the temperatures of an empty and of a full bar.
	Min physic.Temperature
	Max physic.Temperature
	// Palette defaults to ansi256.Default.
	Palette *ansi256.Palette
	// W defaults to a colorable stdout.
	W io.Writer

	_ struct{}
}

// DefaultOpts spans the LM75B measurement range over 36 cells, 5°C each.
var DefaultOpts = Opts{
	X:   36,
	Min: physic.ZeroCelsius - 55*physic.Kelvin,
	Max: physic.ZeroCelsius + 125*physic.Kelvin,
}

var (
	cold = color.NRGBAModel.Convert(colornames.Deepskyblue).(color.NRGBA)
	warm = color.NRGBAModel.Convert(colornames.Gold).(color.NRGBA)
	hot  = color.NRGBAModel.Convert(colornames.Red).(color.NRGBA)
	off  = color.NRGBAModel.Convert(colornames.Black).(color.NRGBA)
)

// Dev is a thermometer bar that outputs to the console.
type Dev struct {
	w        io.Writer
	l        int
	min, max physic.Temperature
	palette  ansi256.Palette

	pixels []byte
	label  string
	buf    bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) (*Dev, error) {
	if opts.X <= 0 {
		return nil, errors.New("gauge: invalid width")
	}
	if opts.Min >= opts.Max {
		return nil, errors.New("gauge: invalid temperature range")
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	return &Dev{
		w:       w,
		l:       opts.X,
		min:     opts.Min,
		max:     opts.Max,
		palette: *p,
		pixels:  make([]byte, 3*opts.X),
	}, nil
}

func (d *Dev) String() string {
	return "Gauge"
}

// Halt implements conn.Resource.
//
// It moves to the next line and resets the colors so the terminal is not
// corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Show draws the bar for temperature t followed by its value. Temperatures
// outside of [Min, Max] are clamped to an empty or a full bar.
func (d *Dev) Show(t physic.Temperature) error {
	n := d.level(t)
	for i := 0; i < d.l; i++ {
		c := off
		if i < n {
			c = colorAt(i, d.l)
		}
		d.pixels[3*i] = c.R
		d.pixels[3*i+1] = c.G
		d.pixels[3*i+2] = c.B
	}
	d.label = t.String()
	_, err := d.refresh()
	return err
}

// level returns the number of lit cells for t.
func (d *Dev) level(t physic.Temperature) int {
	if t <= d.min {
		return 0
	}
	if t >= d.max {
		return d.l
	}
	return int(int64(d.l) * int64(t-d.min) / int64(d.max-d.min))
}

// colorAt returns the color of cell i of a bar of l cells.
func colorAt(i, l int) color.NRGBA {
	f := 1.
	if l > 1 {
		f = float64(i) / float64(l-1)
	}
	if f < 0.5 {
		return lerp(cold, warm, 2*f)
	}
	return lerp(warm, hot, 2*(f-0.5))
}

func lerp(a, b color.NRGBA, f float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*f + 0.5)
	}
	return color.NRGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 255}
}

// Write accepts a stream of raw RGB pixels and writes it to the console.
func (d *Dev) Write(pixels []byte) (int, error) {
	if len(pixels)%3 != 0 {
		return 0, errors.New("gauge: invalid RGB stream length")
	}
	copy(d.pixels, pixels)
	d.label = ""
	return d.refresh()
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rectangle{Max: image.Point{X: d.l, Y: 1}}
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.Bounds())
	srcR := src.Bounds()
	srcR.Min = srcR.Min.Add(sp)
	if dX := r.Dx(); dX < srcR.Dx() {
		srcR.Max.X = srcR.Min.X + dX
	}
	deltaX3 := 3 * (r.Min.X - srcR.Min.X)
	for sX := srcR.Min.X; sX < srcR.Max.X; sX++ {
		r16, g16, b16, _ := src.At(sX, srcR.Min.Y).RGBA()
		dX3 := 3*sX + deltaX3
		d.pixels[dX3] = byte(r16 >> 8)
		d.pixels[dX3+1] = byte(g16 >> 8)
		d.pixels[dX3+2] = byte(b16 >> 8)
	}
	d.label = ""
	_, err := d.refresh()
	return err
}

func (d *Dev) refresh() (int, error) {
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m")
	for i := 0; i < len(d.pixels)/3; i++ {
		c := color.NRGBA{d.pixels[3*i], d.pixels[3*i+1], d.pixels[3*i+2], 255}
		_, _ = io.WriteString(&d.buf, d.palette.Block(c))
	}
	_, _ = d.buf.WriteString("\033[0m ")
	_, _ = d.buf.WriteString(d.label)
	// Clear what a longer previous label left behind.
	_, _ = d.buf.WriteString("\033[K")
	_, err := d.buf.WriteTo(d.w)
	return len(d.pixels), err
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
