// Package charts renders the progress page charts as PNG images.
package charts

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"slices"
	"time"

	"github.com/fogleman/gg"
	"github.com/localnerve/lexideck/internal/models"
	"github.com/localnerve/lexideck/internal/services"
)

const (
	Width  = 640
	Height = 360

	marginLeft   = 48.0
	marginRight  = 16.0
	marginTop    = 32.0
	marginBottom = 40.0
)

var (
	background = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	axis       = color.RGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xff}
	grid       = color.RGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
	bar        = color.RGBA{R: 0x2e, G: 0x7d, B: 0x32, A: 0xff}
	line       = color.RGBA{R: 0x15, G: 0x65, B: 0xc0, A: 0xff}
)

type plot struct {
	dc         *gg.Context
	x0         float64
	y0         float64
	plotW      float64
	plotH      float64
	yMax       float64
	yTickCount int
}

func newPlot(title string, yMax float64, yTicks int) *plot {
	dc := gg.NewContext(Width, Height)
	dc.SetColor(background)
	dc.Clear()

	dc.SetColor(axis)
	dc.DrawStringAnchored(title, Width/2, marginTop/2, 0.5, 0.5)

	p := &plot{
		dc:         dc,
		x0:         marginLeft,
		y0:         Height - marginBottom,
		plotW:      Width - marginLeft - marginRight,
		plotH:      Height - marginTop - marginBottom,
		yMax:       yMax,
		yTickCount: yTicks,
	}
	p.drawAxes()
	return p
}

func (p *plot) y(v float64) float64 {
	return p.y0 - v/p.yMax*p.plotH
}

func (p *plot) drawAxes() {
	dc := p.dc
	dc.SetLineWidth(1)
	for i := 0; i <= p.yTickCount; i++ {
		v := p.yMax * float64(i) / float64(p.yTickCount)
		y := p.y(v)
		dc.SetColor(grid)
		dc.DrawLine(p.x0, y, p.x0+p.plotW, y)
		dc.Stroke()
		dc.SetColor(axis)
		dc.DrawStringAnchored(formatTick(v), p.x0-6, y, 1, 0.5)
	}
	dc.SetColor(axis)
	dc.DrawLine(p.x0, p.y0, p.x0+p.plotW, p.y0)
	dc.DrawLine(p.x0, p.y0, p.x0, p.y0-p.plotH)
	dc.Stroke()
}

func (p *plot) encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func formatTick(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

// placeholder renders an empty chart with a message
func placeholder(title string) ([]byte, error) {
	dc := gg.NewContext(Width, Height)
	dc.SetColor(background)
	dc.Clear()
	dc.SetColor(axis)
	dc.DrawStringAnchored(title, Width/2, marginTop/2, 0.5, 0.5)
	dc.DrawStringAnchored("No data yet", Width/2, Height/2, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// VocabularyActivity draws one bar per day of words added.
func VocabularyActivity(series []services.DayCount) ([]byte, error) {
	const title = "Words added per day"
	var peak int64
	for _, d := range series {
		peak = max(peak, d.Count)
	}
	if len(series) == 0 || peak == 0 {
		return placeholder(title)
	}

	yMax := float64(peak)
	ticks := int(min(peak, 5))
	p := newPlot(title, yMax, ticks)
	dc := p.dc

	slot := p.plotW / float64(len(series))
	barW := slot * 0.6
	for i, d := range series {
		x := p.x0 + slot*float64(i) + (slot-barW)/2
		top := p.y(float64(d.Count))
		if d.Count > 0 {
			dc.SetColor(bar)
			dc.DrawRectangle(x, top, barW, p.y0-top)
			dc.Fill()
		}

		dc.SetColor(axis)
		label := d.Date
		if t, err := time.Parse(time.DateOnly, d.Date); err == nil {
			label = t.Format("01-02")
		}
		dc.DrawStringAnchored(label, x+barW/2, p.y0+14, 0.5, 0.5)
	}

	return p.encode()
}

// ScoreHistory draws attempt scores in chronological order. records may be in any order.
func ScoreHistory(records []models.FlashcardAttempt) ([]byte, error) {
	const title = "Flashcard scores"
	if len(records) == 0 {
		return placeholder(title)
	}

	ordered := slices.Clone(records)
	slices.SortStableFunc(ordered, func(a, b models.FlashcardAttempt) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	p := newPlot(title, 100, 5)
	dc := p.dc

	step := p.plotW
	if len(ordered) > 1 {
		step = p.plotW / float64(len(ordered)-1)
	}
	px := func(i int) float64 {
		if len(ordered) == 1 {
			return p.x0 + p.plotW/2
		}
		return p.x0 + step*float64(i)
	}

	dc.SetColor(line)
	dc.SetLineWidth(2)
	for i, r := range ordered {
		if i == 0 {
			dc.MoveTo(px(i), p.y(r.Score))
		} else {
			dc.LineTo(px(i), p.y(r.Score))
		}
	}
	dc.Stroke()

	for i, r := range ordered {
		dc.DrawCircle(px(i), p.y(r.Score), 3)
		dc.Fill()
	}

	dc.SetColor(axis)
	first, last := ordered[0], ordered[len(ordered)-1]
	dc.DrawStringAnchored(first.Timestamp.UTC().Format("01-02"), px(0), p.y0+14, 0.5, 0.5)
	if len(ordered) > 1 {
		dc.DrawStringAnchored(last.Timestamp.UTC().Format("01-02"), px(len(ordered)-1), p.y0+14, 0.5, 0.5)
	}

	return p.encode()
}
