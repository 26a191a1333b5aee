// aggregate.go
package processor

import (
	"fmt"
	"sort"

	"RideInsight/src/config"
	"RideInsight/src/utils"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"
)

// Dimension 聚合用的日历维度
type Dimension string

const (
	DimWeekday Dimension = "day_of_week"
	DimMonth   Dimension = "month"
)

// Bucket 一个（客群, 维度值）的聚合结果
type Bucket struct {
	Segment      string  // casual | member
	Value        string  // 英文星期名或英文月名
	RideCount    int     // 该组行数
	MeanDuration float64 // 平均骑行时长（秒）
}

// Aggregator 按客群×日历维度聚合清洗后的数据
type Aggregator struct {
	Dcfg *config.DataConfig
}

func NewAggregator(dcfg *config.DataConfig) *Aggregator {
	return &Aggregator{Dcfg: dcfg}
}

// AggregateBy 分组计算行数与平均时长
// 结果按维度的固定展示顺序排列（周日开头/一月开头），同一维度值内客群按字典序；
// 数据中不存在的组合不产生Bucket；空输入返回零个Bucket
func (a *Aggregator) AggregateBy(df dataframe.DataFrame, dim Dimension) ([]Bucket, error) {
	if !utils.Contains([]Dimension{DimWeekday, DimMonth}, dim) {
		return nil, fmt.Errorf("不支持的聚合维度 %q", dim)
	}
	if df.Nrow() == 0 {
		return nil, nil
	}

	segmentCol := a.Dcfg.GetTripData("member_casual")
	dimCol := a.Dcfg.GetTripData(string(dim))
	lengthCol := a.Dcfg.GetTripData("ride_length")
	for _, col := range []string{segmentCol, dimCol, lengthCol} {
		if !utils.HasColumn(df, col) {
			return nil, fmt.Errorf("缺少聚合列 %q", col)
		}
	}

	segments := df.Col(segmentCol).Records()
	dims := df.Col(dimCol).Records()
	lengths := df.Col(lengthCol).Float()

	// 按（维度值, 客群）归组
	type key struct{ dim, segment string }
	groups := make(map[key][]float64)
	segmentSet := make(map[string]bool)
	for i := range segments {
		k := key{dims[i], segments[i]}
		groups[k] = append(groups[k], lengths[i])
		segmentSet[segments[i]] = true
	}

	var observedSegments []string
	for s := range segmentSet {
		observedSegments = append(observedSegments, s)
	}
	sort.Strings(observedSegments)

	order := a.dimensionOrder(dim)

	var buckets []Bucket
	for _, dimValue := range order {
		for _, segment := range observedSegments {
			vals, ok := groups[key{dimValue, segment}]
			if !ok {
				continue
			}
			buckets = append(buckets, Bucket{
				Segment:      segment,
				Value:        a.displayValue(dim, dimValue),
				RideCount:    len(vals),
				MeanDuration: stat.Mean(vals, nil),
			})
		}
	}

	return buckets, nil
}

// dimensionOrder 维度值的固定展示顺序
// 按字典序排的星期/月名会打乱时间叙事，因此不使用默认排序
func (a *Aggregator) dimensionOrder(dim Dimension) []string {
	if dim == DimWeekday {
		return a.Dcfg.WeekdayOrder
	}
	return a.Dcfg.MonthOrder
}

// displayValue 月份编号转英文月名，星期名原样返回
func (a *Aggregator) displayValue(dim Dimension, v string) string {
	if dim == DimMonth {
		return a.Dcfg.MonthName(v)
	}
	return v
}

// TotalRides Bucket列表的行数总和，供一致性校验与日志输出
func TotalRides(buckets []Bucket) int {
	total := 0
	for _, b := range buckets {
		total += b.RideCount
	}
	return total
}
