// Package chart draws a day of visibility as a PNG: one row per target,
// shaded where the target is inside the corridor.
package chart

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/suchnamemuchuser/bc-thesis-web/internal/planner"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/visibility"
)

const (
	width        = 1000
	rowHeight    = 36
	shadeInset   = 4 // unshaded pixels above and below a row's band
	marginLeft   = 140
	marginRight  = 20
	marginTop    = 40
	marginBottom = 40
	labelEvery   = 3 * time.Hour
)

var (
	background = color.RGBA{0xff, 0xff, 0xff, 0xff}
	ink        = color.RGBA{0x20, 0x20, 0x20, 0xff}
	faint      = color.RGBA{0x90, 0x90, 0x90, 0xff}
	grid       = color.RGBA{0xe6, 0xe6, 0xe6, 0xff}

	// Matplotlib's default cycle at 30% opacity over white.
	palette = []color.RGBA{
		{0xc1, 0xd7, 0xe9, 0xff},
		{0xff, 0xdd, 0xc0, 0xff},
		{0xc3, 0xe4, 0xc3, 0xff},
		{0xf2, 0xc3, 0xc3, 0xff},
		{0xe0, 0xd6, 0xec, 0xff},
		{0xdd, 0xce, 0xcb, 0xff},
		{0xf6, 0xd7, 0xee, 0xff},
		{0xd9, 0xd9, 0xd9, 0xff},
	}
)

// Row is one target line. A nil Mask draws an empty row with Note.
type Row struct {
	Label string
	Mask  visibility.Mask
	Note  string
}

// Chart is everything needed to draw one day.
type Chart struct {
	Title    string
	Times    []time.Time
	Location *time.Location
	Rows     []Row
}

// FromPlan builds a chart of p with one row per result, in input order.
func FromPlan(p *planner.Plan, siteName string, loc *time.Location) Chart {
	if loc == nil {
		loc = time.UTC
	}
	c := Chart{
		Title:    fmt.Sprintf("Visibility at %s: %s", siteName, p.Date.In(loc).Format(planner.DateLayout)),
		Times:    p.Times,
		Location: loc,
	}
	for _, r := range p.Results {
		row := Row{Label: r.Target.Name, Mask: r.Mask}
		switch r.Status {
		case planner.StatusNotFound:
			row.Note = planner.NotFoundPlain
		case planner.StatusNoVisibility:
			row.Note = planner.NoVisibility
		}
		c.Rows = append(c.Rows, row)
	}
	return c
}

// Render draws c as a PNG.
func Render(w io.Writer, c Chart) error {
	if len(c.Times) < 2 {
		return fmt.Errorf("chart needs at least two timestamps, got %d", len(c.Times))
	}
	return png.Encode(w, paint(c))
}

// WriteFile renders c to path.
func WriteFile(path string, c Chart) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	if err := Render(f, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// paint lays the chart out on a fresh canvas.
func paint(c Chart) *image.RGBA {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	rows := len(c.Rows)
	if rows == 0 {
		rows = 1
	}
	height := marginTop + rows*rowHeight + marginBottom
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)

	plotW := width - marginLeft - marginRight
	plotBottom := marginTop + rows*rowHeight
	n := len(c.Times)
	span := c.Times[n-1].Sub(c.Times[0])
	xOf := func(t time.Time) int {
		return marginLeft + int(float64(plotW)*float64(t.Sub(c.Times[0]))/float64(span))
	}

	// Hour grid and axis labels.
	for t := c.Times[0]; !t.After(c.Times[n-1]); t = t.Add(time.Hour) {
		x := xOf(t)
		fill(img, image.Rect(x, marginTop, x+1, plotBottom), grid)
		if t.Sub(c.Times[0])%labelEvery == 0 {
			label := t.In(loc).Format("15:04")
			text(img, x-textWidth(label)/2, plotBottom+18, label, ink)
		}
	}

	for i, row := range c.Rows {
		top := marginTop + i*rowHeight
		shadeTop := top + shadeInset
		shadeBottom := top + rowHeight - shadeInset
		col := palette[i%len(palette)]

		for k := 0; k+1 < n && k < len(row.Mask); k++ {
			if row.Mask[k] {
				fill(img, image.Rect(xOf(c.Times[k]), shadeTop, xOf(c.Times[k+1])+1, shadeBottom), col)
			}
		}

		text(img, marginLeft-10-textWidth(row.Label), top+rowHeight/2+4, row.Label, ink)
		if row.Note != "" {
			text(img, marginLeft+8, top+rowHeight/2+4, row.Note, faint)
		}
	}

	// Plot frame.
	fill(img, image.Rect(marginLeft, marginTop, width-marginRight, marginTop+1), ink)
	fill(img, image.Rect(marginLeft, plotBottom, width-marginRight, plotBottom+1), ink)
	fill(img, image.Rect(marginLeft, marginTop, marginLeft+1, plotBottom), ink)
	fill(img, image.Rect(width-marginRight-1, marginTop, width-marginRight, plotBottom), ink)

	text(img, (width-textWidth(c.Title))/2, marginTop-14, c.Title, ink)
	return img
}

func fill(img *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, &image.Uniform{c}, image.Point{}, draw.Src)
}

var face = basicfont.Face7x13

func textWidth(s string) int {
	return font.MeasureString(face, s).Ceil()
}

func text(img *image.RGBA, x, y int, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
