package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ramonehamilton/edh-architect/internal/builder"
)

// ChartConfig holds configuration for deck charts.
type ChartConfig struct {
	Title    string
	Subtitle string
	Width    string
	Height   string
	Theme    string
	Colors   []string
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:  "900px",
		Height: "500px",
		Theme:  "light",
		Colors: []string{"#5470C6", "#91CC75", "#FAC858", "#EE6666", "#73C0DE", "#3BA272", "#FC8452"},
	}
}

// RenderManaCurve creates an interactive bar chart of the deck's mana curve
// as an HTML file. The 7 bucket aggregates everything above six.
func RenderManaCurve(curve map[int]float64, config ChartConfig, outputPath string) error {
	costs := make([]int, 0, len(curve))
	for cost := range curve {
		costs = append(costs, cost)
	}
	sort.Ints(costs)

	xLabels := make([]string, len(costs))
	yData := make([]opts.BarData, len(costs))
	for i, cost := range costs {
		label := strconv.Itoa(cost)
		if cost >= 7 {
			label = "7+"
		}
		xLabels[i] = label
		yData[i] = opts.BarData{Value: curve[cost]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithColorsOpts(opts.Colors{config.Colors[0]}),
	)
	bar.SetXAxis(xLabels).
		AddSeries("Cards", yData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	return renderToFile(bar, outputPath)
}

// RenderCategoryBreakdown creates a bar chart of cards per category.
func RenderCategoryBreakdown(breakdown map[string]int, order []string, config ChartConfig, outputPath string) error {
	seen := make(map[string]bool, len(order))
	categories := make([]string, 0, len(breakdown))
	for _, category := range order {
		if breakdown[category] > 0 {
			categories = append(categories, category)
			seen[category] = true
		}
	}
	var rest []string
	for category := range breakdown {
		if !seen[category] && breakdown[category] > 0 {
			rest = append(rest, category)
		}
	}
	sort.Strings(rest)
	categories = append(categories, rest...)

	yData := make([]opts.BarData, len(categories))
	for i, category := range categories {
		yData[i] = opts.BarData{Value: breakdown[category]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithColorsOpts(opts.Colors{config.Colors[1]}),
	)
	bar.SetXAxis(categories).
		AddSeries("Cards", yData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	return renderToFile(bar, outputPath)
}

// RenderDeckCharts writes the mana curve and category breakdown charts for a
// generation result next to each other under dir.
func RenderDeckCharts(result *builder.Result, curve map[int]float64, commander, dir string) error {
	config := DefaultChartConfig()
	config.Title = "Mana Curve"
	config.Subtitle = commander
	if err := RenderManaCurve(curve, config, filepath.Join(dir, "mana_curve.html")); err != nil {
		return err
	}
	config.Title = "Category Breakdown"
	return RenderCategoryBreakdown(result.CategoryBreakdown, append(result.Targets.Order, builder.CategoryLand), config, filepath.Join(dir, "categories.html"))
}

func renderToFile(chart interface{ Render(w io.Writer) error }, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := chart.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
