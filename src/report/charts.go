// charts.go
package report

import (
	"fmt"
	"io"
	"os"

	"RideInsight/src/config"
	"RideInsight/src/processor"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ChartSet 将聚合结果渲染为四张分组柱状图（HTML单页）：
// 每周骑行量、每周平均时长、每月骑行量、每月平均时长，客群各为一组柱
type ChartSet struct {
	Dcfg *config.DataConfig
}

func NewChartSet(dcfg *config.DataConfig) *ChartSet {
	return &ChartSet{Dcfg: dcfg}
}

// RenderHTML 渲染四张图到一个HTML页面
// Bucket为空时输出空坐标系页面，不报错
func (c *ChartSet) RenderHTML(w io.Writer, weekday, month []processor.Bucket) error {
	weekdayLabels := c.Dcfg.WeekdayOrder
	monthLabels := make([]string, 0, len(c.Dcfg.MonthOrder))
	for _, m := range c.Dcfg.MonthOrder {
		monthLabels = append(monthLabels, c.Dcfg.MonthName(m))
	}

	page := components.NewPage()
	page.AddCharts(
		c.groupedBar("客群每周骑行量对比", weekdayLabels, weekday, rideCount),
		c.groupedBar("客群每周平均骑行时长（秒）", weekdayLabels, weekday, meanDuration),
		c.groupedBar("客群每月骑行量对比", monthLabels, month, rideCount),
		c.groupedBar("客群每月平均骑行时长（秒）", monthLabels, month, meanDuration),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("渲染图表失败: %w", err)
	}
	return nil
}

// WriteHTMLFile 渲染并写入文件
func (c *ChartSet) WriteHTMLFile(path string, weekday, month []processor.Bucket) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建图表文件失败: %w", err)
	}
	defer f.Close()

	return c.RenderHTML(f, weekday, month)
}

func rideCount(b processor.Bucket) float64    { return float64(b.RideCount) }
func meanDuration(b processor.Bucket) float64 { return b.MeanDuration }

// groupedBar 按固定维度顺序铺x轴，客群各成一个系列
// 数据中缺失的组合补0，保证同一x轴下系列对齐
func (c *ChartSet) groupedBar(
	title string,
	labels []string,
	buckets []processor.Bucket,
	metric func(processor.Bucket) float64,
) *charts.Bar {
	values := make(map[string]map[string]float64) // segment -> label -> value
	for _, b := range buckets {
		if values[b.Segment] == nil {
			values[b.Segment] = make(map[string]float64)
		}
		values[b.Segment][b.Value] = metric(b)
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels)

	for _, segment := range []string{"casual", "member"} {
		data := make([]opts.BarData, 0, len(labels))
		for _, label := range labels {
			data = append(data, opts.BarData{Value: values[segment][label]})
		}
		bar.AddSeries(segment, data)
	}

	return bar
}
