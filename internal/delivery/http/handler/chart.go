package handler

import (
	"sort"
	"strconv"

	"github.com/user/tcas-fee-crawler/internal/aggregate"
	"github.com/user/tcas-fee-crawler/internal/entity"
	"github.com/user/tcas-fee-crawler/internal/fee"
)

const (
	keywordField     = entity.FieldSearchKeyword
	institutionField = entity.FieldInstitution

	chartLabelWidth = 300
	chartBarWidth   = 420
	chartRowHeight  = 28
	chartBarHeight  = 20
)

// bar is one horizontal SVG bar. Width is already scaled to chartBarWidth.
type bar struct {
	Label string
	Value string
	Y     int
	Width float64
}

type chart struct {
	Bars       []bar
	Height     int
	LabelWidth int
	BarX       int
	TextX      float64
}

func newChart(labels []string, values []float64, format func(float64) string) chart {
	var max float64
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	c := chart{
		Bars:       make([]bar, len(labels)),
		Height:     len(labels) * chartRowHeight,
		LabelWidth: chartLabelWidth,
		BarX:       chartLabelWidth + 8,
	}
	for i, label := range labels {
		var w float64
		if max > 0 {
			w = values[i] / max * chartBarWidth
		}
		c.Bars[i] = bar{Label: label, Value: format(values[i]), Y: i * chartRowHeight, Width: w}
	}
	c.TextX = float64(c.BarX) + chartBarWidth + 8
	return c
}

func countText(v float64) string {
	return strconv.Itoa(int(v))
}

func countChart(counts []aggregate.Count, field entity.Field) chart {
	labels := make([]string, len(counts))
	values := make([]float64, len(counts))
	for i, c := range counts {
		labels[i] = c.Label.Display(field)
		values[i] = float64(c.Count)
	}
	return newChart(labels, values, countText)
}

func bandChart(bands []aggregate.BandCount) chart {
	labels := make([]string, len(bands))
	values := make([]float64, len(bands))
	for i, b := range bands {
		labels[i] = b.Label
		values[i] = float64(b.Count)
	}
	return newChart(labels, values, countText)
}

// offeringChart plots the offerings that have a numeric fee, cheapest first.
// Equal fees keep their table order.
func offeringChart(offerings []aggregate.Offering) chart {
	var plotted []aggregate.Offering
	for _, o := range offerings {
		if o.HasFee {
			plotted = append(plotted, o)
		}
	}
	sort.SliceStable(plotted, func(i, j int) bool { return plotted[i].Fee < plotted[j].Fee })

	labels := make([]string, len(plotted))
	values := make([]float64, len(plotted))
	for i, o := range plotted {
		labels[i] = o.ProgramName.Display(entity.FieldProgram)
		values[i] = o.Fee
	}
	return newChart(labels, values, fee.Format)
}
