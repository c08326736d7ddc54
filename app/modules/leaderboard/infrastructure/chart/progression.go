// Package leaderboardchart renders standings progression as PNG line charts.
package leaderboardchart

import (
	"bytes"
	"fmt"
	"math"

	leaderboardservice "github.com/Black-And-White-Club/moto-pickem/app/modules/leaderboard/application"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Palette holds the chart colours.
type Palette struct {
	Background drawing.Color
	Text       drawing.Color
	Lines      []drawing.Color
}

// DefaultPalette is a dark background with high-contrast lines.
var DefaultPalette = Palette{
	Background: drawing.ColorFromHex("1b1f23"),
	Text:       drawing.ColorFromHex("e1e4e8"),
	Lines: []drawing.Color{
		drawing.ColorFromHex("f9c513"),
		drawing.ColorFromHex("2188ff"),
		drawing.ColorFromHex("34d058"),
		drawing.ColorFromHex("ea4aaa"),
		drawing.ColorFromHex("f66a0a"),
		drawing.ColorFromHex("8a63d2"),
	},
}

// RenderProgression draws one line per user: cumulative points after each
// visible round, starting from zero.
func RenderProgression(p leaderboardservice.Progression, palette Palette) ([]byte, error) {
	if len(p.Rounds) == 0 || len(p.Series) == 0 {
		return renderNoDataPlaceholder(palette, "No scored rounds yet")
	}

	// x = 0 is the season start so a single round still spans a range.
	xValues := make([]float64, len(p.Rounds)+1)
	ticks := make([]chart.Tick, 0, len(p.Rounds)+1)
	ticks = append(ticks, chart.Tick{Value: 0, Label: "start"})
	for i, r := range p.Rounds {
		xValues[i+1] = float64(i + 1)
		ticks = append(ticks, chart.Tick{Value: float64(i + 1), Label: "R" + r.String()})
	}

	maxY := 1.0
	series := make([]chart.Series, 0, len(p.Series))
	for i, s := range p.Series {
		yValues := make([]float64, len(s.Cumulative)+1)
		for j, v := range s.Cumulative {
			yValues[j+1] = float64(v)
			maxY = math.Max(maxY, float64(v))
		}
		color := palette.Lines[i%len(palette.Lines)]
		series = append(series, chart.ContinuousSeries{
			Name:    s.Username,
			XValues: xValues[:len(yValues)],
			YValues: yValues,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
				DotWidth:    3,
				DotColor:    color,
			},
		})
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Standings: %s", p.View),
		Width:  900,
		Height: 450,
		TitleStyle: chart.Style{
			FontColor: palette.Text,
		},
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{
			Name:  "Round",
			Ticks: ticks,
			Style: chart.Style{FontColor: palette.Text},
		},
		YAxis: chart.YAxis{
			Name:  "Points",
			Style: chart.Style{FontColor: palette.Text},
			Range: &chart.ContinuousRange{Min: 0, Max: maxY},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph, chart.Style{
		FillColor: palette.Background,
		FontColor: palette.Text,
	})}

	buffer := bytes.NewBuffer(nil)
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render progression chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func renderNoDataPlaceholder(palette Palette, msg string) ([]byte, error) {
	graph := chart.Chart{
		Width:  400,
		Height: 200,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{Style: chart.Hidden()},
		YAxis: chart.YAxis{Style: chart.Hidden()},
		// go-chart refuses to render without a visible series.
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: []float64{0, 1},
				YValues: []float64{0, 1},
				Style: chart.Style{
					StrokeColor: drawing.ColorTransparent,
					StrokeWidth: 1,
				},
			},
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, defaults chart.Style) {
				r.SetFontColor(palette.Text)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				r.Text(msg, (cb.Width()-tb.Width())/2, (cb.Height()+tb.Height())/2)
			},
		},
	}
	buffer := bytes.NewBuffer(nil)
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render placeholder chart: %w", err)
	}
	return buffer.Bytes(), nil
}
